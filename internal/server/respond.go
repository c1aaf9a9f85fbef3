package server

import (
	"encoding/json"
	"net/http"

	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/qa"
)

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// answerBody is the wire form of a qa.Result.
type answerBody struct {
	OK          bool                `json:"ok"`
	Question    string              `json:"question"`
	Answer      string              `json:"answer,omitempty"`
	AnswerHTML  string              `json:"answer_html,omitempty"`
	SourcesHTML string              `json:"sources_html,omitempty"`
	Citations   []citation.Citation `json:"citations"`
	Grounded    bool                `json:"grounded"`
	Model       string              `json:"model,omitempty"`
	Error       string              `json:"error,omitempty"`
}

// newAnswerBody renders res for clients, linking "Source N" mentions to
// their highlighted excerpts.
func newAnswerBody(question string, res qa.Result) answerBody {
	body := answerBody{Question: question, Citations: []citation.Citation{}}
	switch r := res.(type) {
	case *qa.Success:
		body.OK = true
		body.Answer = r.Answer
		body.AnswerHTML = citation.LinkCitations(r.Answer, r.Citations)
		body.SourcesHTML = citation.RenderSources(r.Citations, question)
		body.Grounded = r.Grounded
		body.Model = r.Model
		if r.Citations != nil {
			body.Citations = r.Citations
		}
	case *qa.Failure:
		body.Error = r.Reason
	}
	return body
}

// answerStatus maps a result to an HTTP status.
func answerStatus(res qa.Result) int {
	f, ok := res.(*qa.Failure)
	if !ok {
		return http.StatusOK
	}
	switch f.Kind {
	case qa.FailEmptyQuestion:
		return http.StatusBadRequest
	case qa.FailUnavailable, qa.FailSearch:
		return http.StatusServiceUnavailable
	default:
		return http.StatusBadGateway
	}
}
