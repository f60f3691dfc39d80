package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"

	"github.com/go-chi/chi/v5"

	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/pipeline"
	"github.com/dgallion1/tgschema/internal/schema"
)

type buildRequest struct {
	URL    string `json:"url"`
	Format string `json:"format"`
}

// handleSubmitBuild queues a build from a URL (JSON body) or an uploaded
// file (multipart form field "file").
func (s *Server) handleSubmitBuild(w http.ResponseWriter, r *http.Request) {
	var (
		in  pipeline.Input
		err error
	)
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "multipart/form-data" {
		in, err = s.uploadInput(w, r)
	} else {
		in, err = s.urlInput(w, r)
	}
	if err != nil {
		var he *httpError
		if errors.As(err, &he) {
			jsonError(w, he.msg, he.code)
		} else {
			jsonError(w, err.Error(), http.StatusBadRequest)
		}
		return
	}

	job, err := s.orchestrator.Submit(in)
	if err != nil {
		jsonError(w, err.Error(), http.StatusServiceUnavailable)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusAccepted)
	json.NewEncoder(w).Encode(map[string]any{
		"job_id":   job.ID,
		"source":   job.Source,
		"status":   pipeline.StatusQueued,
		"poll_url": fmt.Sprintf("/api/builds/%s/status", job.ID),
	})
}

// urlInput reads a JSON build request. An empty body builds DocsURL.
func (s *Server) urlInput(w http.ResponseWriter, r *http.Request) (pipeline.Input, error) {
	var req buildRequest
	r.Body = http.MaxBytesReader(w, r.Body, 64<<10)
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil && !errors.Is(err, io.EOF) {
		return pipeline.Input{}, fmt.Errorf("invalid JSON body: %w", err)
	}
	if req.URL == "" {
		req.URL = s.cfg.DocsURL
	}
	u, err := url.Parse(req.URL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return pipeline.Input{}, fmt.Errorf("url must be an absolute http(s) URL: %q", req.URL)
	}
	format, err := parser.ParseFormat(req.Format)
	if err != nil {
		return pipeline.Input{}, err
	}
	return pipeline.Input{URL: req.URL, Format: format}, nil
}

func (s *Server) uploadInput(w http.ResponseWriter, r *http.Request) (pipeline.Input, error) {
	// Limit total request size.
	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes+1024*1024) // extra 1MB for form overhead

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return pipeline.Input{}, fmt.Errorf("invalid multipart form: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile("file")
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("file is required: %w", err)
	}
	defer file.Close()

	filename := sanitizeFilename(header.Filename)
	format, err := parser.ForFile(filename)
	if err != nil {
		return pipeline.Input{}, err
	}
	if v := r.FormValue("format"); v != "" {
		if format, err = parser.ParseFormat(v); err != nil {
			return pipeline.Input{}, err
		}
	}

	data, status, err := readLimited(file, s.cfg.MaxUploadBytes)
	if err != nil {
		return pipeline.Input{}, &httpError{code: status, msg: err.Error()}
	}
	if len(data) == 0 {
		return pipeline.Input{}, errors.New("uploaded file is empty")
	}
	return pipeline.Input{Filename: filename, Format: format, Data: data}, nil
}

func (s *Server) handleBuildStatus(w http.ResponseWriter, r *http.Request) {
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(job.Snapshot())
}

func (s *Server) handleBuildSchema(w http.ResponseWriter, r *http.Request) {
	output, err := schema.ParseFormat(r.URL.Query().Get("output"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	job := s.orchestrator.GetJob(chi.URLParam(r, "jobID"))
	if job == nil {
		jsonError(w, "job not found", http.StatusNotFound)
		return
	}

	snap := job.Snapshot()
	switch snap.Status {
	case pipeline.StatusCompleted:
		s.writeSchema(w, job.Result(), output)
	case pipeline.StatusFailed:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusUnprocessableEntity)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  lastError(snap.Progress.Errors),
			"kind":   snap.Progress.ErrorKind,
			"phase":  snap.Phase,
			"job_id": snap.ID,
		})
	default:
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]any{
			"error":  "build not finished",
			"status": snap.Status,
			"job_id": snap.ID,
		})
	}
}

type httpError struct {
	code int
	msg  string
}

func (e *httpError) Error() string { return e.msg }

func lastError(errs []string) string {
	if len(errs) == 0 {
		return ""
	}
	return errs[len(errs)-1]
}
