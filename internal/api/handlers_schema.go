package api

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/dgallion1/tgschema/internal/parser"
	"github.com/dgallion1/tgschema/internal/pipeline"
	"github.com/dgallion1/tgschema/internal/schema"
)

// handleSchema runs a build synchronously on the request body.
func (s *Server) handleSchema(w http.ResponseWriter, r *http.Request) {
	format, err := parser.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}
	output, err := schema.ParseFormat(r.URL.Query().Get("output"))
	if err != nil {
		jsonError(w, err.Error(), http.StatusBadRequest)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.cfg.MaxUploadBytes)
	data, status, err := readLimited(r.Body, s.cfg.MaxUploadBytes)
	if err != nil {
		jsonError(w, err.Error(), status)
		return
	}
	if len(data) == 0 {
		jsonError(w, "request body is empty", http.StatusBadRequest)
		return
	}

	result, job, err := s.orchestrator.Run(r.Context(), pipeline.Input{Format: format, Data: data})
	if err != nil {
		engineError(w, job.Snapshot(), err)
		return
	}
	s.writeSchema(w, result, output)
}

func (s *Server) writeSchema(w http.ResponseWriter, result *schema.Schema, output schema.Format) {
	w.Header().Set("Content-Type", output.ContentType())
	if err := schema.Encode(w, result, output); err != nil {
		s.log.Error("encode schema", "format", output, "error", err)
	}
}

// engineError reports a failed build as 422 with its error kind.
func engineError(w http.ResponseWriter, snap pipeline.JobSnapshot, err error) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusUnprocessableEntity)
	json.NewEncoder(w).Encode(map[string]any{
		"error":  err.Error(),
		"kind":   schema.Kind(err),
		"phase":  snap.Phase,
		"job_id": snap.ID,
	})
}

// readLimited reads at most limit bytes and reports the HTTP status to use
// on failure.
func readLimited(body io.Reader, limit int64) ([]byte, int, error) {
	data, err := io.ReadAll(io.LimitReader(body, limit+1))
	if err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds max size (%d bytes)", limit)
		}
		return nil, http.StatusBadRequest, fmt.Errorf("read body: %w", err)
	}
	if int64(len(data)) > limit {
		return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("body exceeds max size (%d bytes)", limit)
	}
	return data, http.StatusOK, nil
}

func jsonError(w http.ResponseWriter, msg string, code int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]string{"error": msg})
}

func sanitizeFilename(name string) string {
	// Strip path components, keep only the base name.
	name = filepath.Base(strings.ReplaceAll(name, "\\", "/"))
	name = strings.ReplaceAll(name, "..", "_")
	if name == "" || name == "." || name == "/" {
		name = "unnamed"
	}
	return name
}
