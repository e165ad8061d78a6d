// Package server exposes the generation pipeline over HTTP.
//
// API routes are handled directly; everything else falls through to the
// asset cache worker fronting the static page shell.
package server

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gorilla/mux"
	"go.uber.org/zap"

	"aivideogen/internal/adapters/export"
	"aivideogen/internal/core/domain"
	"aivideogen/internal/service"
)

// ProgressSource reports the percent of the in-flight generation.
type ProgressSource interface {
	Progress() int
}

// Server wires the orchestrator, export resolver, and asset cache worker
// into an HTTP API.
type Server struct {
	orch     *service.Orchestrator
	resolver *export.Resolver
	progress ProgressSource
	assets   http.Handler // may be nil
	logger   *zap.Logger
}

// New creates a Server. assets may be nil when no static front is configured.
func New(
	orch *service.Orchestrator,
	resolver *export.Resolver,
	progress ProgressSource,
	assets http.Handler,
	logger *zap.Logger,
) *Server {
	return &Server{
		orch:     orch,
		resolver: resolver,
		progress: progress,
		assets:   assets,
		logger:   logger,
	}
}

// Router builds the route table.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	api := r.PathPrefix("/api").Subrouter()
	api.HandleFunc("/generate", s.handleGenerate).Methods(http.MethodPost)
	api.HandleFunc("/history", s.handleHistory).Methods(http.MethodGet)
	api.HandleFunc("/history", s.handleClearHistory).Methods(http.MethodDelete)
	api.HandleFunc("/progress", s.handleProgress).Methods(http.MethodGet)
	api.HandleFunc("/download", s.handleDownload).Methods(http.MethodPost)
	api.HandleFunc("/share", s.handleShare).Methods(http.MethodPost)
	if s.assets != nil {
		r.PathPrefix("/").Handler(s.assets)
	}
	return r
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req domain.GenerationRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body.")
		return
	}

	result, err := s.orch.Generate(r.Context(), req.PromptText)
	if err != nil {
		s.writeGenerateError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// writeGenerateError maps pipeline errors to short user-facing notices.
// Internal detail never crosses this boundary.
func (s *Server) writeGenerateError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, domain.ErrEmptyPrompt):
		writeError(w, http.StatusBadRequest, "Please enter a prompt.")
	case errors.Is(err, domain.ErrQuotaExceeded):
		writeError(w, http.StatusTooManyRequests, "Daily generation limit reached. Try again tomorrow.")
	case errors.Is(err, domain.ErrBusy):
		writeError(w, http.StatusConflict, "A generation is already running.")
	default:
		writeError(w, http.StatusBadGateway, "Video generation failed. Please try again.")
	}
}

func (s *Server) handleHistory(w http.ResponseWriter, r *http.Request) {
	entries := s.orch.History(r.Context())
	if entries == nil {
		entries = []domain.HistoryEntry{}
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleClearHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := s.orch.ClearHistory(r.Context())
	if err != nil {
		s.logger.Warn("could not clear history", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not clear history.")
		return
	}
	writeJSON(w, http.StatusOK, entries)
}

func (s *Server) handleProgress(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, domain.JobProgress{Percent: s.progress.Progress()})
}

func (s *Server) handleDownload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "A media URL is required.")
		return
	}
	writeJSON(w, http.StatusOK, s.resolver.Resolve(r.Context(), req.URL))
}

func (s *Server) handleShare(w http.ResponseWriter, r *http.Request) {
	var req struct {
		URL string `json:"url"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeError(w, http.StatusBadRequest, "A media URL is required.")
		return
	}
	if err := s.resolver.Share(req.URL); err != nil {
		s.logger.Warn("could not copy to clipboard", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "Could not copy the link.")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"shared": true})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
