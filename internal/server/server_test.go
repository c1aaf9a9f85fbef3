package server

import (
	"bytes"
	"context"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/ziadkadry99/docqa/internal/app"
	"github.com/ziadkadry99/docqa/internal/chunker"
	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/config"
	"github.com/ziadkadry99/docqa/internal/history"
	"github.com/ziadkadry99/docqa/internal/jobs"
	"github.com/ziadkadry99/docqa/internal/qa"
	"github.com/ziadkadry99/docqa/internal/retriever"
	"github.com/ziadkadry99/docqa/internal/vectordb"
)

// fakeApp implements App with canned responses.
type fakeApp struct {
	cfg *config.Config

	mu        sync.Mutex
	processed [][]string
	asked     []string
	result    qa.Result
	results   []vectordb.SearchResult
	turns     []history.Turn
	saveErr   error
	loadErr   error
	block     chan struct{}
}

func newFakeApp() *fakeApp {
	return &fakeApp{
		cfg: config.DefaultConfig(),
		result: &qa.Success{
			Answer:    "According to Source 1, cats are mammals.",
			Citations: []citation.Citation{{SourceID: 1, Filename: "cats.pdf", ChunkID: 3, RelevanceScore: 0.9, Excerpt: "Cats are mammals."}},
			Grounded:  true,
		},
		results: []vectordb.SearchResult{{Chunk: chunker.Chunk{ID: 3, SourceName: "cats.pdf", Content: "Cats are mammals."}, Score: 0.9}},
	}
}

func (f *fakeApp) Config() *config.Config { return f.cfg }

func (f *fakeApp) ProcessDocuments(ctx context.Context, paths []string, progress vectordb.ProgressFunc) (*app.ProcessResult, error) {
	if f.block != nil {
		select {
		case <-f.block:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	names := make([]string, len(paths))
	for i, p := range paths {
		data, err := os.ReadFile(p)
		if err != nil {
			return nil, err
		}
		names[i] = filepath.Base(p) + "=" + string(data)
	}
	f.mu.Lock()
	f.processed = append(f.processed, names)
	f.mu.Unlock()
	if progress != nil {
		progress(len(paths), len(paths))
	}
	return &app.ProcessResult{Files: len(paths), Stats: app.DocumentStats{TotalChunks: len(paths)}}, nil
}

func (f *fakeApp) AskQuestion(ctx context.Context, question string, k int) qa.Result {
	f.mu.Lock()
	f.asked = append(f.asked, question)
	f.mu.Unlock()
	if strings.TrimSpace(question) == "" {
		return &qa.Failure{Kind: qa.FailEmptyQuestion, Reason: qa.ReasonEmptyQuestion}
	}
	return f.result
}

func (f *fakeApp) Search(ctx context.Context, query string, k int) ([]vectordb.SearchResult, error) {
	if strings.TrimSpace(query) == "" {
		return nil, retriever.ErrEmptyQuestion
	}
	return f.results, nil
}

func (f *fakeApp) Processed() bool                  { return true }
func (f *fakeApp) DocumentStats() app.DocumentStats { return app.DocumentStats{TotalChunks: 3, NumSources: 1} }
func (f *fakeApp) IndexStats() vectordb.Stats       { return vectordb.Stats{Initialized: true, NumDocuments: 3} }
func (f *fakeApp) SaveIndex() error                 { return f.saveErr }

func (f *fakeApp) LoadIndex() (vectordb.LoadResult, error) {
	return vectordb.LoadResult{ModelMismatch: true, SavedModel: "old", CurrentModel: "new"}, f.loadErr
}

func (f *fakeApp) History(ctx context.Context) ([]history.Turn, error) { return f.turns, nil }

func (f *fakeApp) ClearHistory(ctx context.Context) (int64, error) {
	n := int64(len(f.turns))
	f.turns = nil
	return n, nil
}

func (f *fakeApp) Summary(ctx context.Context) (string, error) { return "Talked about cats.", nil }

func newTestServer(t *testing.T, a App) *Server {
	t.Helper()
	jm := jobs.NewManager()
	t.Cleanup(jm.Shutdown)
	return New(Config{CORSOrigins: []string{"*"}, UploadDir: t.TempDir(), DocumentRoot: t.TempDir()}, a, jm)
}

func do(t *testing.T, srv *Server, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(w.Body.Bytes(), &v); err != nil {
		t.Fatalf("unmarshal %q: %v", w.Body.String(), err)
	}
	return v
}

func waitJob(t *testing.T, srv *Server, id string) jobs.Status {
	t.Helper()
	job, ok := srv.jobs.Get(id)
	if !ok {
		t.Fatalf("job %s not found", id)
	}
	select {
	case <-job.Done():
	case <-time.After(5 * time.Second):
		t.Fatalf("job %s did not finish", id)
	}
	return job.Status()
}

func TestHealthCheck(t *testing.T) {
	srv := newTestServer(t, newFakeApp())
	w := do(t, srv, "GET", "/healthz", "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if body := decode[map[string]any](t, w); body["status"] != "ok" {
		t.Errorf("expected status 'ok', got %v", body["status"])
	}
}

func TestCORSHeaders(t *testing.T) {
	srv := newTestServer(t, newFakeApp())

	req := httptest.NewRequest("OPTIONS", "/api/ask", nil)
	req.Header.Set("Origin", "http://example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Header().Get("Access-Control-Allow-Origin") == "" {
		t.Error("expected CORS Allow-Origin header")
	}
}

func TestAsk(t *testing.T) {
	srv := newTestServer(t, newFakeApp())

	w := do(t, srv, "POST", "/api/ask", `{"question":"Are cats mammals?"}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}
	body := decode[answerBody](t, w)
	if !body.OK || !body.Grounded || len(body.Citations) != 1 {
		t.Errorf("unexpected body: %+v", body)
	}
	if !strings.Contains(body.AnswerHTML, `href="#source-1"`) {
		t.Errorf("answer_html missing citation link: %s", body.AnswerHTML)
	}
	if !strings.Contains(body.SourcesHTML, `id="source-1"`) || !strings.Contains(body.SourcesHTML, "<mark") {
		t.Errorf("sources_html missing anchor or highlight: %s", body.SourcesHTML)
	}
}

func TestAskEmptyQuestion(t *testing.T) {
	srv := newTestServer(t, newFakeApp())
	w := do(t, srv, "POST", "/api/ask", `{"question":"  "}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if body := decode[answerBody](t, w); body.OK || body.Error != "Empty question" {
		t.Errorf("unexpected body: %+v", body)
	}
}

func TestAskUnavailable(t *testing.T) {
	a := newFakeApp()
	a.result = &qa.Failure{Kind: qa.FailUnavailable, Reason: qa.ReasonUnavailable}
	srv := newTestServer(t, a)
	if w := do(t, srv, "POST", "/api/ask", `{"question":"q"}`); w.Code != http.StatusServiceUnavailable {
		t.Errorf("expected 503, got %d", w.Code)
	}
}

func TestAskAsync(t *testing.T) {
	srv := newTestServer(t, newFakeApp())

	w := do(t, srv, "POST", "/api/ask?async=true", `{"question":"Are cats mammals?"}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	st := waitJob(t, srv, decode[jobs.Status](t, w).ID)
	if st.State != jobs.StateSucceeded {
		t.Fatalf("job state = %s", st.State)
	}

	w = do(t, srv, "GET", "/api/jobs/"+st.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "cats are mammals") {
		t.Errorf("job result missing answer: %s", w.Body.String())
	}
}

func TestJobNotFound(t *testing.T) {
	srv := newTestServer(t, newFakeApp())
	if w := do(t, srv, "GET", "/api/jobs/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("GET expected 404, got %d", w.Code)
	}
	if w := do(t, srv, "DELETE", "/api/jobs/nope", ""); w.Code != http.StatusNotFound {
		t.Errorf("DELETE expected 404, got %d", w.Code)
	}
}

func TestSearch(t *testing.T) {
	srv := newTestServer(t, newFakeApp())

	w := do(t, srv, "POST", "/api/search", `{"query":"cats","k":2}`)
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", w.Code)
	}
	body := decode[map[string][]vectordb.SearchResult](t, w)
	if len(body["results"]) != 1 || body["results"][0].Chunk.SourceName != "cats.pdf" {
		t.Errorf("unexpected results: %+v", body)
	}

	if w := do(t, srv, "POST", "/api/search", `{"query":""}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty query expected 400, got %d", w.Code)
	}
	if w := do(t, srv, "POST", "/api/search", `not json`); w.Code != http.StatusBadRequest {
		t.Errorf("bad body expected 400, got %d", w.Code)
	}
}

func TestIngestPaths(t *testing.T) {
	a := newFakeApp()
	srv := newTestServer(t, a)

	dir := docDir(t, srv)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644)
	os.WriteFile(filepath.Join(dir, "skip.go"), []byte("package x"), 0o644)

	body, _ := json.Marshal(ingestRequest{Paths: []string{dir}})
	w := do(t, srv, "POST", "/api/documents/ingest", string(body))
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	st := waitJob(t, srv, decode[jobs.Status](t, w).ID)
	if st.State != jobs.StateSucceeded || st.Done != 1 || st.Total != 1 {
		t.Errorf("unexpected job status: %+v", st)
	}
	if len(a.processed) != 1 || len(a.processed[0]) != 1 || a.processed[0][0] != "a.txt=alpha" {
		t.Errorf("processed = %v", a.processed)
	}

	if w := do(t, srv, "POST", "/api/documents/ingest", `{"paths":[]}`); w.Code != http.StatusBadRequest {
		t.Errorf("empty paths expected 400, got %d", w.Code)
	}
}

// docDir creates a directory inside the server's document root.
func docDir(t *testing.T, srv *Server) string {
	t.Helper()
	dir := filepath.Join(srv.cfg.DocumentRoot, "docs")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		t.Fatal(err)
	}
	return dir
}

func TestIngestRelativePath(t *testing.T) {
	a := newFakeApp()
	srv := newTestServer(t, a)
	os.WriteFile(filepath.Join(docDir(t, srv), "a.txt"), []byte("alpha"), 0o644)

	w := do(t, srv, "POST", "/api/documents/ingest", `{"paths":["docs"]}`)
	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	if st := waitJob(t, srv, decode[jobs.Status](t, w).ID); st.State != jobs.StateSucceeded {
		t.Errorf("unexpected job status: %+v", st)
	}
}

func TestIngestRejectsPathsOutsideRoot(t *testing.T) {
	a := newFakeApp()
	srv := newTestServer(t, a)

	outside := t.TempDir()
	os.WriteFile(filepath.Join(outside, "secret.txt"), []byte("secret"), 0o644)
	link := filepath.Join(srv.cfg.DocumentRoot, "link")
	symlinked := os.Symlink(outside, link) == nil

	paths := [][]string{
		{outside},
		{"../" + filepath.Base(outside)},
		{docDir(t, srv), outside},
	}
	if symlinked {
		paths = append(paths, []string{"link"})
	}
	for _, p := range paths {
		body, _ := json.Marshal(ingestRequest{Paths: p})
		if w := do(t, srv, "POST", "/api/documents/ingest", string(body)); w.Code != http.StatusForbidden {
			t.Errorf("paths %v: expected 403, got %d", p, w.Code)
		}
	}
	if len(a.processed) != 0 {
		t.Errorf("nothing should be processed, got %v", a.processed)
	}
}

func TestIngestDisabledWithoutRoot(t *testing.T) {
	srv := New(Config{UploadDir: t.TempDir()}, newFakeApp(), jobs.NewManager())
	t.Cleanup(srv.jobs.Shutdown)
	body, _ := json.Marshal(ingestRequest{Paths: []string{t.TempDir()}})
	if w := do(t, srv, "POST", "/api/documents/ingest", string(body)); w.Code != http.StatusForbidden {
		t.Errorf("expected 403, got %d", w.Code)
	}
}

func TestUpload(t *testing.T) {
	a := newFakeApp()
	srv := newTestServer(t, a)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	for name, content := range map[string]string{"cats.txt": "Cats are mammals.", "dogs.txt": "Dogs bark."} {
		fw, err := mw.CreateFormFile("files", name)
		if err != nil {
			t.Fatal(err)
		}
		fw.Write([]byte(content))
	}
	mw.Close()

	req := httptest.NewRequest("POST", "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d: %s", w.Code, w.Body.String())
	}
	st := waitJob(t, srv, decode[jobs.Status](t, w).ID)
	if st.State != jobs.StateSucceeded {
		t.Fatalf("job state = %s (%s)", st.State, st.Error)
	}

	got := strings.Join(a.processed[0], ",")
	if !strings.Contains(got, "cats.txt=Cats are mammals.") || !strings.Contains(got, "dogs.txt=Dogs bark.") {
		t.Errorf("processed = %s", got)
	}

	entries, _ := os.ReadDir(srv.cfg.UploadDir)
	if len(entries) != 0 {
		t.Errorf("upload dir not cleaned up: %d entries", len(entries))
	}
}

func TestUploadNoFiles(t *testing.T) {
	srv := newTestServer(t, newFakeApp())

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	mw.WriteField("note", "nothing")
	mw.Close()

	req := httptest.NewRequest("POST", "/api/documents", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", w.Code)
	}
}

func TestCancelIngestJob(t *testing.T) {
	a := newFakeApp()
	a.block = make(chan struct{})
	srv := newTestServer(t, a)

	dir := docDir(t, srv)
	os.WriteFile(filepath.Join(dir, "a.txt"), []byte("alpha"), 0o644)
	body, _ := json.Marshal(ingestRequest{Paths: []string{dir}})
	w := do(t, srv, "POST", "/api/documents/ingest", string(body))
	id := decode[jobs.Status](t, w).ID

	if w := do(t, srv, "DELETE", "/api/jobs/"+id, ""); w.Code != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", w.Code)
	}
	if st := waitJob(t, srv, id); st.State != jobs.StateCanceled {
		t.Errorf("state = %s, want canceled", st.State)
	}
	if len(a.processed) != 0 {
		t.Error("canceled job processed documents")
	}
}

func TestStatsEndpoints(t *testing.T) {
	srv := newTestServer(t, newFakeApp())

	w := do(t, srv, "GET", "/api/documents/stats", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"total_chunks":3`) {
		t.Errorf("documents/stats = %d %s", w.Code, w.Body.String())
	}
	w = do(t, srv, "GET", "/api/index/stats", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), `"num_documents":3`) {
		t.Errorf("index/stats = %d %s", w.Code, w.Body.String())
	}
}

func TestIndexSaveLoad(t *testing.T) {
	a := newFakeApp()
	srv := newTestServer(t, a)

	if w := do(t, srv, "POST", "/api/index/save", ""); w.Code != http.StatusOK {
		t.Errorf("save expected 200, got %d", w.Code)
	}
	w := do(t, srv, "POST", "/api/index/load", "")
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "warning") {
		t.Errorf("load = %d %s", w.Code, w.Body.String())
	}

	a.saveErr = vectordb.ErrNotInitialized
	a.loadErr = vectordb.ErrNoSnapshot
	if w := do(t, srv, "POST", "/api/index/save", ""); w.Code != http.StatusConflict {
		t.Errorf("save expected 409, got %d", w.Code)
	}
	if w := do(t, srv, "POST", "/api/index/load", ""); w.Code != http.StatusNotFound {
		t.Errorf("load expected 404, got %d", w.Code)
	}
}

func TestHistoryEndpoints(t *testing.T) {
	a := newFakeApp()
	a.turns = []history.Turn{{ID: "1", Question: "Are cats mammals?", Answer: "Yes."}}
	srv := newTestServer(t, a)

	w := do(t, srv, "GET", "/api/history", "")
	if turns := decode[[]history.Turn](t, w); len(turns) != 1 || turns[0].Question != "Are cats mammals?" {
		t.Errorf("history = %+v", turns)
	}

	w = do(t, srv, "GET", "/api/history/summary", "")
	if body := decode[map[string]string](t, w); body["summary"] != "Talked about cats." {
		t.Errorf("summary = %+v", body)
	}

	w = do(t, srv, "DELETE", "/api/history", "")
	if body := decode[map[string]int64](t, w); body["deleted"] != 1 {
		t.Errorf("clear = %+v", body)
	}
	w = do(t, srv, "GET", "/api/history", "")
	if strings.TrimSpace(w.Body.String()) != "[]" {
		t.Errorf("history after clear = %s", w.Body.String())
	}
}

func TestReport(t *testing.T) {
	srv := newTestServer(t, newFakeApp())
	body := `{"question":"Are cats mammals?","answer":"Yes.","citations":[{"source_id":1,"filename":"cats.pdf","chunk_id":3,"relevance_score":0.9,"excerpt":"Cats are mammals."}]}`

	w := do(t, srv, "POST", "/api/report", body)
	if w.Code != http.StatusOK || !strings.HasPrefix(w.Body.String(), "# Document Q&A Report") {
		t.Errorf("markdown report = %d %q", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); !strings.HasPrefix(ct, "text/markdown") {
		t.Errorf("Content-Type = %q", ct)
	}

	w = do(t, srv, "POST", "/api/report?format=html", body)
	if w.Code != http.StatusOK || !strings.Contains(w.Body.String(), "<h1") {
		t.Errorf("html report = %d %q", w.Code, w.Body.String())
	}

	if w := do(t, srv, "POST", "/api/report?format=pdf", body); w.Code != http.StatusBadRequest {
		t.Errorf("unknown format expected 400, got %d", w.Code)
	}
}

func TestWebSocketAsk(t *testing.T) {
	srv := newTestServer(t, newFakeApp())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/ask"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()
	if resp.StatusCode != http.StatusSwitchingProtocols {
		t.Fatalf("expected 101, got %d", resp.StatusCode)
	}

	if err := conn.WriteJSON(wsRequest{Type: "ask", Question: "Are cats mammals?"}); err != nil {
		t.Fatalf("write: %v", err)
	}

	var status, answer wsResponse
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("read status: %v", err)
	}
	if status.Type != "status" {
		t.Errorf("first message type = %q, want status", status.Type)
	}
	if err := conn.ReadJSON(&answer); err != nil {
		t.Fatalf("read answer: %v", err)
	}
	if answer.Type != "answer" || answer.Answer == nil || !answer.Answer.OK {
		t.Errorf("unexpected answer: %+v", answer)
	}
}

func TestWebSocketErrors(t *testing.T) {
	srv := newTestServer(t, newFakeApp())
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/ask"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("websocket dial: %v", err)
	}
	defer conn.Close()

	if err := conn.WriteMessage(websocket.TextMessage, []byte("not json")); err != nil {
		t.Fatal(err)
	}
	var resp wsResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "error" || resp.Content != "invalid message format" {
		t.Errorf("unexpected response: %+v", resp)
	}

	if err := conn.WriteJSON(wsRequest{Type: "dance"}); err != nil {
		t.Fatal(err)
	}
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatal(err)
	}
	if resp.Type != "error" || !strings.Contains(resp.Content, "unknown message type") {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestAnswerStatus(t *testing.T) {
	tests := []struct {
		res  qa.Result
		want int
	}{
		{&qa.Success{Answer: "ok"}, http.StatusOK},
		{&qa.Failure{Kind: qa.FailEmptyQuestion, Reason: qa.ReasonEmptyQuestion}, http.StatusBadRequest},
		{&qa.Failure{Kind: qa.FailUnavailable, Reason: qa.ReasonUnavailable}, http.StatusServiceUnavailable},
		// The reason text does not decide the status.
		{&qa.Failure{Kind: qa.FailSearch, Reason: "embedding backend down"}, http.StatusServiceUnavailable},
		{&qa.Failure{Kind: qa.FailGeneration, Reason: "Error searching is not a search failure"}, http.StatusBadGateway},
	}
	for _, tt := range tests {
		if got := answerStatus(tt.res); got != tt.want {
			t.Errorf("answerStatus(%#v) = %d, want %d", tt.res, got, tt.want)
		}
	}
}

func TestWebSocketOriginCheck(t *testing.T) {
	jm := jobs.NewManager()
	t.Cleanup(jm.Shutdown)
	srv := New(Config{CORSOrigins: []string{"http://localhost:*"}}, newFakeApp(), jm)
	ts := httptest.NewServer(srv.Router())
	defer ts.Close()
	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/ws/ask"

	tests := []struct {
		origin string
		ok     bool
	}{
		{"", true},
		{"http://localhost:3000", true},
		{ts.URL, true},
		{"http://evil.example", false},
	}
	for _, tt := range tests {
		header := http.Header{}
		if tt.origin != "" {
			header.Set("Origin", tt.origin)
		}
		conn, _, err := websocket.DefaultDialer.Dial(wsURL, header)
		if conn != nil {
			conn.Close()
		}
		if (err == nil) != tt.ok {
			t.Errorf("origin %q: dial error = %v, want ok=%v", tt.origin, err, tt.ok)
		}
	}
}
