package http

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"

	"github.com/aretw0/luckydraw/internal/logging"
	"github.com/aretw0/luckydraw/internal/presentation/graph"
	"github.com/aretw0/luckydraw/internal/presentation/report"
	"github.com/aretw0/luckydraw/pkg/domain"
	"github.com/aretw0/luckydraw/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// maxBodySize caps JSON request bodies.
const maxBodySize = 64 << 10

// Server exposes draw sessions over a REST API.
type Server struct {
	Sessions *session.Manager
	Streams  *StreamManager

	steps   []domain.StepDefinition
	version string
	metrics http.Handler
	report  []report.Option
	logger  *slog.Logger
}

// ServerOption configures the Server.
type ServerOption func(*Server)

// WithSteps publishes the flow layout on GET /flow and GET /graph.
func WithSteps(steps []domain.StepDefinition) ServerOption {
	return func(s *Server) { s.steps = steps }
}

// WithVersion sets the version reported by GET /info.
func WithVersion(v string) ServerOption {
	return func(s *Server) { s.version = v }
}

// WithMetricsHandler mounts h (typically promhttp.Handler()) on GET /metrics.
func WithMetricsHandler(h http.Handler) ServerOption {
	return func(s *Server) { s.metrics = h }
}

// WithReportOptions configures the layout of GET /sessions/{id}/report.
func WithReportOptions(opts ...report.Option) ServerOption {
	return func(s *Server) { s.report = opts }
}

// WithServerLogger sets the request logger.
func WithServerLogger(logger *slog.Logger) ServerOption {
	return func(s *Server) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// NewHandler creates the HTTP handler for the session manager.
func NewHandler(sessions *session.Manager, opts ...ServerOption) http.Handler {
	s := &Server{
		Sessions: sessions,
		Streams:  NewStreamManager(),
		version:  "dev",
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)
	r.Get("/flow", s.GetFlow)
	r.Get("/graph", s.GetGraph)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics)
	}

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", s.CreateSession)
		r.Get("/", s.ListSessions)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/load", s.Load)
			r.Post("/draw", s.Draw)
			r.Post("/commit", s.Commit)
			r.Post("/spin", s.Spin)
			r.Post("/reset", s.Reset)
			r.Get("/report", s.Report)
			r.Get("/events", s.SubscribeEvents)
		})
	})
	return r
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// StateResponse is the JSON view of a session.
type StateResponse struct {
	ID             string            `json:"id"`
	Phase          domain.Phase      `json:"phase"`
	Position       int               `json:"position"`
	CurrentStep    string            `json:"current_step,omitempty"`
	Picks          map[string]string `json:"picks"`
	DrawInFlight   bool              `json:"draw_in_flight"`
	CurrentOptions domain.OptionList `json:"current_options,omitempty"`
	Complete       bool              `json:"complete"`
	Halt           *ErrorResponse    `json:"halt,omitempty"`
}

// CommitRequest is the body of POST /sessions/{id}/commit.
type CommitRequest struct {
	Value string `json:"value"`
}

// SpinResponse is returned by POST /sessions/{id}/spin.
type SpinResponse struct {
	Pick  *domain.PickResult `json:"pick"`
	State StateResponse      `json:"state"`
}

func (s *Server) stateOf(id string, flow session.Flow) StateResponse {
	st := flow.State()
	resp := StateResponse{
		ID:             id,
		Phase:          st.Phase,
		Position:       st.Position,
		Picks:          st.Picks,
		DrawInFlight:   st.DrawInFlight,
		CurrentOptions: st.CurrentOptions,
		Complete:       st.Phase == domain.PhaseComplete,
	}
	if st.Position < len(s.steps) {
		resp.CurrentStep = s.steps[st.Position].Key
	}
	if st.Halt != nil {
		halt := newErrorResponse(st.Halt)
		resp.Halt = &halt
	}
	return resp
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]any{
		"app":      "luckydraw-http",
		"version":  s.version,
		"steps":    len(s.steps),
		"sessions": s.Sessions.Len(),
	})
}

// GetFlow handles the GET /flow request.
func (s *Server) GetFlow(w http.ResponseWriter, r *http.Request) {
	steps := s.steps
	if steps == nil {
		steps = []domain.StepDefinition{}
	}
	s.writeJSON(w, http.StatusOK, steps)
}

// GetGraph handles the GET /graph request, returning a Mermaid diagram.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	io.WriteString(w, graph.GenerateMermaid(s.steps, nil))
}

// CreateSession handles the POST /sessions request.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	id, flow, err := s.Sessions.Create(r.Context())
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	w.Header().Set("Location", "/sessions/"+id)
	s.writeJSON(w, http.StatusCreated, s.stateOf(id, flow))
}

// ListSessions handles the GET /sessions request.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Sessions.List())
}

// GetSession handles the GET /sessions/{id} request.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	flow, err := s.Sessions.Get(id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, s.stateOf(id, flow))
}

// DeleteSession handles the DELETE /sessions/{id} request.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(id); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.Streams.Close(id)
	w.WriteHeader(http.StatusNoContent)
}

// Load handles the POST /sessions/{id}/load request.
func (s *Server) Load(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, id, "load", func(ctx context.Context, flow session.Flow) (any, error) {
		if _, err := flow.Load(ctx); err != nil {
			return nil, err
		}
		return s.stateOf(id, flow), nil
	})
}

// Draw handles the POST /sessions/{id}/draw request.
// A draw already in flight makes it a no-op answered with 204.
func (s *Server) Draw(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, id, "draw", func(ctx context.Context, flow session.Flow) (any, error) {
		res, err := flow.Draw(ctx)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, nil
		}
		return res, nil
	})
}

// Commit handles the POST /sessions/{id}/commit request.
func (s *Server) Commit(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var body CommitRequest
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(&body); err != nil {
		s.logger.Warn("Commit: invalid request body", "err", err)
		s.writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: "invalid request body"})
		return
	}

	s.withSession(w, r, id, "commit", func(ctx context.Context, flow session.Flow) (any, error) {
		if err := flow.Commit(ctx, body.Value); err != nil {
			return nil, err
		}
		return s.stateOf(id, flow), nil
	})
}

// Spin handles the POST /sessions/{id}/spin request: load if needed, draw and commit in one call.
func (s *Server) Spin(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, id, "spin", func(ctx context.Context, flow session.Flow) (any, error) {
		if flow.State().Phase == domain.PhaseIdle {
			if _, err := flow.Load(ctx); err != nil {
				return nil, err
			}
		}
		res, err := flow.Draw(ctx)
		if err != nil {
			return nil, err
		}
		if res == nil {
			return nil, domain.ErrDrawInFlight
		}
		if err := flow.Commit(ctx, res.Value); err != nil {
			return nil, err
		}
		return SpinResponse{Pick: res, State: s.stateOf(id, flow)}, nil
	})
}

// Reset handles the POST /sessions/{id}/reset request.
func (s *Server) Reset(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.withSession(w, r, id, "reset", func(ctx context.Context, flow session.Flow) (any, error) {
		flow.Reset()
		return s.stateOf(id, flow), nil
	})
}

// Report handles the GET /sessions/{id}/report request.
// ?format=markdown selects the markdown variant; ?format=json returns the entries.
func (s *Server) Report(w http.ResponseWriter, r *http.Request) {
	flow, err := s.Sessions.Get(chi.URLParam(r, "id"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	entries := flow.Snapshot()

	switch r.URL.Query().Get("format") {
	case "json":
		s.writeJSON(w, http.StatusOK, entries)
	case "markdown", "md":
		w.Header().Set("Content-Type", "text/markdown; charset=utf-8")
		io.WriteString(w, report.Markdown(entries, s.report...))
	default:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		io.WriteString(w, report.Plain(entries, s.report...))
	}
}

// withSession runs op under the session lock, then answers and broadcasts the result.
func (s *Server) withSession(w http.ResponseWriter, r *http.Request, id, event string, op func(context.Context, session.Flow) (any, error)) {
	var result any
	err := s.Sessions.WithLock(r.Context(), id, func(ctx context.Context, flow session.Flow) error {
		var err error
		// A retrieval runs to completion even if the client disconnects.
		result, err = op(context.WithoutCancel(ctx), flow)
		if err == nil {
			s.broadcast(id, event, s.stateOf(id, flow))
		}
		return err
	})
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if result == nil {
		w.WriteHeader(http.StatusNoContent)
		return
	}
	s.writeJSON(w, http.StatusOK, result)
}

func (s *Server) broadcast(id, event string, state StateResponse) {
	payload, err := json.Marshal(Event{Type: event, State: state})
	if err != nil {
		s.logger.Error("failed to encode event", "err", err)
		return
	}
	s.Streams.Broadcast(id, string(payload))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	switch {
	case status >= http.StatusInternalServerError:
		s.logger.Error("request failed", "method", r.Method, "path", r.URL.Path, "err", err)
	case errors.Is(err, context.Canceled):
		s.logger.Debug("request canceled", "path", r.URL.Path)
	default:
		s.logger.Debug("request rejected", "method", r.Method, "path", r.URL.Path, "status", status, "err", err)
	}
	s.writeJSON(w, status, newErrorResponse(err))
}
