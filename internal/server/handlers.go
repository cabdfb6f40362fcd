package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/dagscii/pkg/dag"
	"github.com/matzehuels/dagscii/pkg/pipeline"
	"github.com/matzehuels/dagscii/pkg/render/dot"
	"github.com/matzehuels/dagscii/pkg/store"
)

// renderRequest is the body of POST /render. Input carries the graph text
// in the format named by Source (graph JSON, DOT, or flow JSON).
type renderRequest struct {
	Source      string `json:"source,omitempty"`
	Input       string `json:"input"`
	Spacing     string `json:"spacing,omitempty"`
	Spaces      int    `json:"spaces,omitempty"`
	GroupPrefix *bool  `json:"group_labels_by_prefix,omitempty"`
	GroupSuffix *bool  `json:"group_labels_by_suffix,omitempty"`
	SVG         bool   `json:"svg,omitempty"`
	Refresh     bool   `json:"refresh,omitempty"`
}

type renderResponse struct {
	Hash   string `json:"hash"`
	Output string `json:"output"`
	Nodes  int    `json:"nodes"`
	Edges  int    `json:"edges"`
	Cached bool   `json:"cached"`
	SVG    []byte `json:"svg,omitempty"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	var req renderRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "malformed request: " + err.Error()})
		return
	}
	if req.Input == "" {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "input is required"})
		return
	}

	result, err := s.runner.Execute(r.Context(), pipeline.Options{
		Source:      req.Source,
		Data:        []byte(req.Input),
		Spacing:     req.Spacing,
		Spaces:      req.Spaces,
		GroupPrefix: req.GroupPrefix,
		GroupSuffix: req.GroupSuffix,
		SVG:         req.SVG,
		Refresh:     req.Refresh,
		Logger:      s.logger,
	})
	if err != nil {
		writeJSON(w, statusForError(err), errorResponse{Error: err.Error()})
		return
	}

	writeJSON(w, http.StatusOK, renderResponse{
		Hash:   result.GraphHash,
		Output: result.Output,
		Nodes:  result.Stats.NodeCount,
		Edges:  result.Stats.EdgeCount,
		Cached: result.CacheInfo.RenderHit,
		SVG:    result.SVG,
	})
}

func (s *Server) handleGetRender(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "no store configured"})
		return
	}

	hash := chi.URLParam(r, "hash")
	rec, err := s.store.Get(r.Context(), hash)
	if errors.Is(err, store.ErrNotFound) {
		writeJSON(w, http.StatusNotFound, errorResponse{Error: "render not found"})
		return
	}
	if err != nil {
		s.logger.Error("store get failed", "hash", hash, "err", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "store error"})
		return
	}
	writeJSON(w, http.StatusOK, rec)
}

// statusForError maps pipeline failures to HTTP statuses: graphs that fail
// validation are unprocessable, unreadable input is a bad request, and
// everything else is a server error.
func statusForError(err error) int {
	switch {
	case errors.Is(err, dag.ErrUnknownNodeReference),
		errors.Is(err, dag.ErrSelfLoop),
		errors.Is(err, dag.ErrCycleDetected):
		return http.StatusUnprocessableEntity
	case errors.Is(err, dot.ErrMalformedDOT),
		errors.Is(err, pipeline.ErrInvalidOptions):
		return http.StatusBadRequest
	}
	var syntax *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntax) || errors.As(err, &typeErr) {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
