package server

import (
	"encoding/json"
	"log"
	"net/http"
	"net/url"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/gorilla/websocket"
)

// checkOrigin accepts clients that send no Origin, pages served from the
// same host, and origins matching the CORS allow list.
func (s *Server) checkOrigin(r *http.Request) bool {
	origin := strings.ToLower(r.Header.Get("Origin"))
	if origin == "" {
		return true
	}
	if u, err := url.Parse(origin); err == nil && strings.EqualFold(u.Host, r.Host) {
		return true
	}
	for _, pattern := range s.origins {
		if pattern == "*" {
			return true
		}
		if ok, err := doublestar.Match(strings.ToLower(pattern), origin); err == nil && ok {
			return true
		}
	}
	return false
}

// wsRequest is the incoming websocket message format.
type wsRequest struct {
	Type     string `json:"type"` // "ask" or "search"
	Question string `json:"question"`
	K        int    `json:"k"`
}

// wsResponse is the outgoing websocket message format.
type wsResponse struct {
	Type    string      `json:"type"` // "status", "answer", "results" or "error"
	Content string      `json:"content,omitempty"`
	Answer  *answerBody `json:"answer,omitempty"`
	Results any         `json:"results,omitempty"`
}

// handleWebSocket answers questions over a long-lived connection. Each ask
// is acknowledged with a status message before the answer arrives.
func (s *Server) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("server: websocket upgrade: %v", err)
		return
	}
	defer conn.Close()

	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("server: websocket read: %v", err)
			}
			return
		}

		var req wsRequest
		if err := json.Unmarshal(msg, &req); err != nil {
			s.send(conn, wsResponse{Type: "error", Content: "invalid message format"})
			continue
		}

		switch req.Type {
		case "ask", "":
			s.send(conn, wsResponse{Type: "status", Content: "Searching documents"})
			res := s.app.AskQuestion(r.Context(), req.Question, req.K)
			body := newAnswerBody(req.Question, res)
			s.send(conn, wsResponse{Type: "answer", Answer: &body})
		case "search":
			results, err := s.app.Search(r.Context(), req.Question, req.K)
			if err != nil {
				s.send(conn, wsResponse{Type: "error", Content: err.Error()})
				continue
			}
			s.send(conn, wsResponse{Type: "results", Results: results})
		default:
			s.send(conn, wsResponse{Type: "error", Content: "unknown message type: " + req.Type})
		}
	}
}

func (s *Server) send(conn *websocket.Conn, resp wsResponse) {
	if err := conn.WriteJSON(resp); err != nil {
		log.Printf("server: websocket write: %v", err)
	}
}
