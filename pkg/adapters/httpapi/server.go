// Package httpapi exposes the wizard engine over a JSON HTTP API.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/peopleops/intake/internal/logging"
	"github.com/peopleops/intake/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Engine is the flow controller surface the API needs.
type Engine interface {
	Init(ctx context.Context, threadID, wizardID, employeeID string) (domain.StepPayload, error)
	Respond(ctx context.Context, threadID, stepID string, inputs []domain.InputResponse) (domain.StepPayload, error)
	Resume(ctx context.Context, threadID string) (domain.StepPayload, error)
	Wizards(ctx context.Context) ([]string, error)
}

// Server routes HTTP requests to the engine.
type Server struct {
	engine Engine
	logger *slog.Logger
}

// Option configures the Server.
type Option func(*Server)

// WithLogger sets a structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler builds the chi router for the API. If gatherer is non-nil a
// Prometheus /metrics endpoint is mounted.
func NewHandler(engine Engine, gatherer prometheus.Gatherer, opts ...Option) http.Handler {
	s := &Server{engine: engine, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)

	r.Route("/api", func(r chi.Router) {
		r.Get("/wizards", s.listWizards)
		r.Post("/wizards/{wizardID}/sessions", s.initSession)
		r.Get("/sessions/{threadID}", s.resumeSession)
		r.Post("/sessions/{threadID}/responses", s.submitResponses)
	})

	if gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	return r
}

type initRequest struct {
	ThreadID   string `json:"threadId"`
	EmployeeID string `json:"employeeId"`
}

type respondRequest struct {
	StepID    string                 `json:"stepId"`
	Responses []domain.InputResponse `json:"responses"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) listWizards(w http.ResponseWriter, r *http.Request) {
	ids, err := s.engine.Wizards(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]any{"wizards": ids})
}

func (s *Server) initSession(w http.ResponseWriter, r *http.Request) {
	wizardID := chi.URLParam(r, "wizardID")

	var body initRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if body.ThreadID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "threadId is required"})
		return
	}

	payload, err := s.engine.Init(r.Context(), body.ThreadID, wizardID, body.EmployeeID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusCreated, payload)
}

func (s *Server) resumeSession(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	payload, err := s.engine.Resume(r.Context(), threadID)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payload)
}

func (s *Server) submitResponses(w http.ResponseWriter, r *http.Request) {
	threadID := chi.URLParam(r, "threadID")

	var body respondRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request body"})
		return
	}
	if body.StepID == "" {
		s.writeJSON(w, http.StatusBadRequest, errorResponse{Error: "stepId is required"})
		return
	}

	payload, err := s.engine.Respond(r.Context(), threadID, body.StepID, body.Responses)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, payload)
}

// writeError maps domain errors onto HTTP statuses. Unclassified errors
// stay opaque 500s so internals never leak through the API.
func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var (
		mismatchErr *domain.StepMismatchError
		questionErr *domain.UnknownQuestionError
		protoErr    *domain.OracleProtocolError
	)

	status := http.StatusInternalServerError
	message := "internal error"

	switch {
	case errors.Is(err, domain.ErrUnknownWizard), errors.Is(err, domain.ErrSessionNotFound):
		status = http.StatusNotFound
		message = err.Error()
	case errors.As(err, &mismatchErr), errors.Is(err, domain.ErrSessionFinished):
		status = http.StatusConflict
		message = err.Error()
	case errors.As(err, &questionErr), errors.Is(err, domain.ErrMissingPrecondition):
		status = http.StatusUnprocessableEntity
		message = err.Error()
	case errors.As(err, &protoErr), errors.Is(err, domain.ErrOracleUnavailable):
		status = http.StatusBadGateway
		message = err.Error()
	}

	if status == http.StatusInternalServerError {
		s.logger.Error("unhandled API error", "path", r.URL.Path, "err", err)
	}

	s.writeJSON(w, status, errorResponse{Error: message})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Error("failed to encode response", "err", err)
	}
}
