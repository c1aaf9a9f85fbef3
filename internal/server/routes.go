package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/ziadkadry99/docqa/internal/citation"
	"github.com/ziadkadry99/docqa/internal/jobs"
	"github.com/ziadkadry99/docqa/internal/retriever"
	"github.com/ziadkadry99/docqa/internal/vectordb"
	"github.com/ziadkadry99/docqa/internal/walker"
)

const maxUploadBytes = 64 << 20

func (s *Server) registerRoutes(r chi.Router) {
	r.Route("/documents", func(r chi.Router) {
		r.Post("/", s.handleUpload)
		r.Post("/ingest", s.handleIngest)
		r.Get("/stats", s.handleDocumentStats)
	})
	r.Route("/index", func(r chi.Router) {
		r.Get("/stats", s.handleIndexStats)
		r.Post("/save", s.handleIndexSave)
		r.Post("/load", s.handleIndexLoad)
	})
	r.Post("/search", s.handleSearch)
	r.Post("/ask", s.handleAsk)
	r.Route("/jobs/{id}", func(r chi.Router) {
		r.Get("/", s.handleGetJob)
		r.Delete("/", s.handleCancelJob)
	})
	r.Route("/history", func(r chi.Router) {
		r.Get("/", s.handleHistory)
		r.Delete("/", s.handleClearHistory)
		r.Get("/summary", s.handleSummary)
	})
	r.Post("/report", s.handleReport)
}

// handleUpload stores multipart "files" and indexes them in a background job.
func (s *Server) handleUpload(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid upload: %v", err))
		return
	}
	files := r.MultipartForm.File["files"]
	if len(files) == 0 {
		writeError(w, http.StatusBadRequest, "no files uploaded")
		return
	}

	dir, err := os.MkdirTemp(s.cfg.UploadDir, "docqa-upload-*")
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	var paths []string
	for _, fh := range files {
		path := filepath.Join(dir, filepath.Base(fh.Filename))
		if err := saveUpload(fh, path); err != nil {
			os.RemoveAll(dir)
			writeError(w, http.StatusInternalServerError, fmt.Sprintf("saving %s: %v", fh.Filename, err))
			return
		}
		paths = append(paths, path)
	}

	job := s.jobs.Start("ingest", func(ctx context.Context, report func(done, total int)) (any, error) {
		defer os.RemoveAll(dir)
		return s.app.ProcessDocuments(ctx, paths, report)
	})
	writeJSON(w, http.StatusAccepted, job.Status())
}

func saveUpload(fh *multipart.FileHeader, path string) error {
	src, err := fh.Open()
	if err != nil {
		return err
	}
	defer src.Close()

	dst, err := os.Create(path)
	if err != nil {
		return err
	}
	if _, err := io.Copy(dst, src); err != nil {
		dst.Close()
		return err
	}
	return dst.Close()
}

type ingestRequest struct {
	Paths []string `json:"paths"`
}

// handleIngest indexes files and directories already on the server's disk.
func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	var req ingestRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || len(req.Paths) == 0 {
		writeError(w, http.StatusBadRequest, "paths is required")
		return
	}

	resolved, err := s.resolvePaths(req.Paths)
	if err != nil {
		writeError(w, http.StatusForbidden, err.Error())
		return
	}

	cfg := s.app.Config()
	paths, err := walker.Expand(resolved, walker.WalkerConfig{Include: cfg.Include, Exclude: cfg.Exclude})
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	if len(paths) == 0 {
		writeError(w, http.StatusBadRequest, "no matching documents found")
		return
	}

	job := s.jobs.Start("ingest", func(ctx context.Context, report func(done, total int)) (any, error) {
		return s.app.ProcessDocuments(ctx, paths, report)
	})
	writeJSON(w, http.StatusAccepted, job.Status())
}

var (
	errPathIngestDisabled = errors.New("path ingestion is disabled on this server")
	errOutsideRoot        = errors.New("path is outside the document root")
)

// resolvePaths maps requested paths onto the document root. Relative paths
// are taken from the root. Symlinks are resolved before the containment
// check, and any path that ends up outside the root is rejected.
func (s *Server) resolvePaths(paths []string) ([]string, error) {
	if s.cfg.DocumentRoot == "" {
		return nil, errPathIngestDisabled
	}
	root, err := canonicalPath(s.cfg.DocumentRoot)
	if err != nil {
		return nil, err
	}

	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(root, p)
		}
		cp, err := canonicalPath(p)
		if err != nil {
			return nil, err
		}
		rel, err := filepath.Rel(root, cp)
		if err != nil || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
			return nil, fmt.Errorf("%w: %s", errOutsideRoot, p)
		}
		out = append(out, cp)
	}
	return out, nil
}

func canonicalPath(p string) (string, error) {
	abs, err := filepath.Abs(p)
	if err != nil {
		return "", err
	}
	if real, err := filepath.EvalSymlinks(abs); err == nil {
		return real, nil
	}
	return abs, nil
}

func (s *Server) handleDocumentStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"processed": s.app.Processed(),
		"stats":     s.app.DocumentStats(),
	})
}

func (s *Server) handleIndexStats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, s.app.IndexStats())
}

func (s *Server) handleIndexSave(w http.ResponseWriter, r *http.Request) {
	if err := s.app.SaveIndex(); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vectordb.ErrNotInitialized) {
			status = http.StatusConflict
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"saved": true, "dir": s.app.Config().IndexDir})
}

func (s *Server) handleIndexLoad(w http.ResponseWriter, r *http.Request) {
	res, err := s.app.LoadIndex()
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, vectordb.ErrNoSnapshot) {
			status = http.StatusNotFound
		}
		writeError(w, status, err.Error())
		return
	}
	body := map[string]any{"loaded": true, "stats": s.app.IndexStats()}
	if res.ModelMismatch {
		body["warning"] = fmt.Sprintf("index was built with %q, current embedding model is %q", res.SavedModel, res.CurrentModel)
	}
	writeJSON(w, http.StatusOK, body)
}

type searchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
}

func (s *Server) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	results, err := s.app.Search(r.Context(), req.Query, req.K)
	switch {
	case errors.Is(err, retriever.ErrEmptyQuestion), errors.Is(err, vectordb.ErrInvalidK):
		writeError(w, http.StatusBadRequest, err.Error())
		return
	case errors.Is(err, vectordb.ErrUnavailable):
		writeError(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	if results == nil {
		results = []vectordb.SearchResult{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"results": results})
}

type askRequest struct {
	Question string `json:"question"`
	K        int    `json:"k"`
}

// handleAsk answers a question inline, or as a job when ?async=true.
func (s *Server) handleAsk(w http.ResponseWriter, r *http.Request) {
	var req askRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	if async, _ := strconv.ParseBool(r.URL.Query().Get("async")); async {
		job := s.jobs.Start("ask", func(ctx context.Context, _ func(done, total int)) (any, error) {
			return newAnswerBody(req.Question, s.app.AskQuestion(ctx, req.Question, req.K)), nil
		})
		writeJSON(w, http.StatusAccepted, job.Status())
		return
	}

	res := s.app.AskQuestion(r.Context(), req.Question, req.K)
	writeJSON(w, answerStatus(res), newAnswerBody(req.Question, res))
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, jobs.ErrNotFound.Error())
		return
	}
	writeJSON(w, http.StatusOK, job.Status())
}

func (s *Server) handleCancelJob(w http.ResponseWriter, r *http.Request) {
	job, ok := s.jobs.Get(chi.URLParam(r, "id"))
	if !ok {
		writeError(w, http.StatusNotFound, jobs.ErrNotFound.Error())
		return
	}
	job.Cancel()
	writeJSON(w, http.StatusAccepted, job.Status())
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	turns, err := s.app.History(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if turns == nil {
		writeJSON(w, http.StatusOK, []any{})
		return
	}
	writeJSON(w, http.StatusOK, turns)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	n, err := s.app.ClearHistory(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"deleted": n})
}

func (s *Server) handleSummary(w http.ResponseWriter, r *http.Request) {
	summary, err := s.app.Summary(r.Context())
	if err != nil {
		writeError(w, http.StatusBadGateway, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"summary": summary})
}

type reportRequest struct {
	Question  string              `json:"question"`
	Answer    string              `json:"answer"`
	Citations []citation.Citation `json:"citations"`
}

// handleReport renders a downloadable report as markdown (default) or HTML.
func (s *Server) handleReport(w http.ResponseWriter, r *http.Request) {
	var req reportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	now := time.Now()
	switch format := r.URL.Query().Get("format"); format {
	case "", "md", "markdown":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="qa-report.md"`)
		io.WriteString(w, citation.Report(req.Question, req.Answer, req.Citations, now))
	case "html":
		html, err := citation.ReportHTML(req.Question, req.Answer, req.Citations, now)
		if err != nil {
			writeError(w, http.StatusInternalServerError, err.Error())
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.Header().Set("Content-Disposition", `attachment; filename="qa-report.html"`)
		io.WriteString(w, html)
	default:
		writeError(w, http.StatusBadRequest, "unknown format: "+format)
	}
}
