package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/internal/presentation/graph"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/export"
	"github.com/civicscribe/intake/pkg/ports"
	"github.com/civicscribe/intake/pkg/runner"
	"github.com/civicscribe/intake/pkg/session"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

// TurnObserver records how long a turn took on a transport.
type TurnObserver interface {
	ObserveTurn(transport string, d time.Duration)
}

// Server hosts intake sessions over HTTP.
type Server struct {
	Engine   ports.Conversation
	Sessions *session.Manager
	Streams  *StreamManager

	logger   *slog.Logger
	observer TurnObserver
	metrics  http.Handler
}

// Option configures a Server.
type Option func(*Server)

// WithLogger sets the server logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// WithTurnObserver records the latency of every turn.
func WithTurnObserver(o TurnObserver) Option {
	return func(s *Server) { s.observer = o }
}

// WithMetricsHandler mounts h at /metrics.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) { s.metrics = h }
}

// NewServer creates a server over the engine and session manager.
func NewServer(engine ports.Conversation, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		Engine:   engine,
		Sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.Streams = NewStreamManager(s.logger)
	return s
}

// NewHandler creates a new HTTP handler for the engine.
func NewHandler(engine ports.Conversation, sessions *session.Manager, opts ...Option) http.Handler {
	return NewServer(engine, sessions, opts...).Routes()
}

// Routes builds the chi router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(enableCORS)

	r.Route("/sessions", func(r chi.Router) {
		r.Get("/", s.ListSessions)
		r.Post("/", s.CreateSession)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.GetSession)
			r.Delete("/", s.DeleteSession)
			r.Post("/messages", s.SendMessage)
			r.Post("/extract", s.Extract)
			r.Get("/summary", s.GetSummary)
			r.Get("/document", s.GetDocument)
			r.Get("/export", s.ExportDocument)
		})
	})

	r.Get("/graph", s.GetGraph)
	r.Get("/graph/mermaid", s.GetGraphMermaid)
	r.Get("/events", s.SubscribeEvents)
	r.Get("/health", s.GetHealth)
	r.Get("/info", s.GetInfo)

	r.Get("/openapi.yaml", func(w http.ResponseWriter, r *http.Request) {
		spec, err := rawSpec()
		if err != nil {
			s.writeError(w, http.StatusInternalServerError, "Failed to load spec")
			return
		}
		w.Header().Set("Content-Type", "text/yaml")
		w.Write(spec)
	})
	r.Get("/swagger", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.Write([]byte(swaggerHTML))
	})

	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}
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

const swaggerHTML = `
<!DOCTYPE html>
<html lang="en">
<head>
    <meta charset="utf-8" />
    <meta name="viewport" content="width=device-width, initial-scale=1" />
    <title>CivicScribe API Documentation</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui.css" />
</head>
<body>
<div id="swagger-ui"></div>
<script src="https://unpkg.com/swagger-ui-dist@5.11.0/swagger-ui-bundle.js" crossorigin></script>
<script>
    window.onload = () => {
    window.ui = SwaggerUIBundle({
        url: '/openapi.yaml',
        dom_id: '#swagger-ui',
    });
    };
</script>
</body>
</html>
`

type createSessionRequest struct {
	SessionID string              `json:"session_id"`
	Seed      *domain.Application `json:"seed"`
}

type messageRequest struct {
	Input *string `json:"input"`
}

type extractRequest struct {
	Text *string `json:"text"`
}

// ListSessions handles GET /sessions.
func (s *Server) ListSessions(w http.ResponseWriter, r *http.Request) {
	ids, err := s.Sessions.List(r.Context())
	if err != nil {
		s.writeFailure(w, "List", err)
		return
	}
	if ids == nil {
		ids = []string{}
	}
	sort.Strings(ids)
	s.writeJSON(w, http.StatusOK, map[string][]string{"sessions": ids})
}

// CreateSession handles POST /sessions. The body is optional.
func (s *Server) CreateSession(w http.ResponseWriter, r *http.Request) {
	var body createSessionRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil && !errors.Is(err, io.EOF) {
		s.writeError(w, http.StatusBadRequest, "Invalid request body")
		s.logger.Warn("CreateSession: invalid request body", "err", err)
		return
	}
	if body.SessionID == "" {
		body.SessionID = uuid.NewString()
	}

	var actions []domain.ActionRequest
	state, created, err := s.Sessions.LoadOrStart(r.Context(), body.SessionID, func(ctx context.Context, id string) *domain.State {
		st, acts := s.Engine.Start(ctx, id, body.Seed)
		actions = acts
		return st
	})
	if err != nil {
		s.writeFailure(w, "CreateSession", err)
		return
	}
	if !created {
		s.writeError(w, http.StatusConflict, fmt.Sprintf("session %q already exists", body.SessionID))
		return
	}

	s.logger.Info("session created", "session_id", state.SessionID)
	s.Streams.BroadcastDiff(nil, state)
	s.writeJSON(w, http.StatusCreated, runner.NewRichResponse(state, actions))
}

// GetSession handles GET /sessions/{id}, rendering the current prompt without advancing.
func (s *Server) GetSession(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	actions, _, err := s.Engine.Render(r.Context(), state)
	if err != nil {
		s.writeFailure(w, "Render", err)
		return
	}
	s.writeJSON(w, http.StatusOK, runner.NewRichResponse(state, actions))
}

// DeleteSession handles DELETE /sessions/{id}.
func (s *Server) DeleteSession(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if err := s.Sessions.Delete(r.Context(), id); err != nil && !errors.Is(err, domain.ErrSessionNotFound) {
		s.writeFailure(w, "Delete", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SendMessage handles POST /sessions/{id}/messages.
func (s *Server) SendMessage(w http.ResponseWriter, r *http.Request) {
	var body messageRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Input == nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: expected {\"input\": string}")
		return
	}
	s.turn(w, r, "SendMessage", *body.Input, s.Engine.Navigate)
}

// Extract handles POST /sessions/{id}/extract.
func (s *Server) Extract(w http.ResponseWriter, r *http.Request) {
	var body extractRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body.Text == nil {
		s.writeError(w, http.StatusBadRequest, "Invalid request body: expected {\"text\": string}")
		return
	}
	s.turn(w, r, "Extract", *body.Text, s.Engine.Prefill)
}

type stepFunc func(ctx context.Context, state *domain.State, input string) (*domain.State, []domain.ActionRequest, error)

// turn sanitizes input, applies step under the session lock, persists the result
// and broadcasts the diff to subscribers.
func (s *Server) turn(w http.ResponseWriter, r *http.Request, op, input string, step stepFunc) {
	start := time.Now()
	id := chi.URLParam(r, "id")

	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Sprintf("Invalid input: %v", err))
		s.logger.Warn(op+": input rejected", "err", err, "size", len(input))
		return
	}

	var (
		before  *domain.State
		actions []domain.ActionRequest
	)
	next, err := s.Sessions.Turn(r.Context(), id, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		before = current.Snapshot()
		st, acts, err := step(ctx, current, clean)
		actions = acts
		return st, err
	})
	if err != nil {
		s.writeFailure(w, op, err)
		return
	}

	if s.observer != nil {
		s.observer.ObserveTurn("http", time.Since(start))
	}
	s.Streams.BroadcastDiff(before, next)
	s.writeJSON(w, http.StatusOK, runner.NewRichResponse(next, actions))
}

// GetSummary handles GET /sessions/{id}/summary.
func (s *Server) GetSummary(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"session_id": state.SessionID,
		"summary":    s.Engine.Summary(state),
	})
}

// GetDocument handles GET /sessions/{id}/document.
func (s *Server) GetDocument(w http.ResponseWriter, r *http.Request) {
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	s.writeJSON(w, http.StatusOK, s.Engine.Document(state))
}

// ExportDocument handles GET /sessions/{id}/export?format=json|yaml.
func (s *Server) ExportDocument(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	state, ok := s.load(w, r)
	if !ok {
		return
	}
	out, err := export.Export(s.Engine.Document(state), format)
	if err != nil {
		if errors.Is(err, export.ErrInvalidDocument) {
			s.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		s.writeFailure(w, "Export", err)
		return
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", "application-"+state.SessionID+"."+string(format)))
	w.Write(out)
}

// GetGraph handles the GET /graph request.
func (s *Server) GetGraph(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, s.Engine.Inspect())
}

// GetGraphMermaid handles GET /graph/mermaid, highlighting a session's path when session_id is set.
func (s *Server) GetGraphMermaid(w http.ResponseWriter, r *http.Request) {
	var overlay *graph.GraphOverlay
	if id := r.URL.Query().Get("session_id"); id != "" {
		state, err := s.Sessions.Load(r.Context(), id)
		if err != nil {
			s.writeFailure(w, "GraphMermaid", err)
			return
		}
		overlay = graph.NewOverlay(state)
	}
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	fmt.Fprint(w, graph.GenerateMermaid(s.Engine.Inspect(), domain.EntryStep, overlay))
}

// GetHealth handles the GET /health request.
func (s *Server) GetHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// GetInfo handles the GET /info request.
func (s *Server) GetInfo(w http.ResponseWriter, r *http.Request) {
	apiVersion := "unknown"
	if swagger, err := GetSwagger(); err == nil && swagger.Info != nil {
		apiVersion = swagger.Info.Version
	}
	s.writeJSON(w, http.StatusOK, map[string]string{
		"app":         "civicscribe-http",
		"version":     strings.TrimSpace(intake.Version),
		"api_version": apiVersion,
	})
}

// SubscribeEvents handles the GET /events request (SSE).
func (s *Server) SubscribeEvents(w http.ResponseWriter, r *http.Request) {
	flusher, ok := w.(http.Flusher)
	if !ok {
		s.writeError(w, http.StatusInternalServerError, "Streaming not supported")
		return
	}
	sessionID := r.URL.Query().Get("session_id")
	if sessionID == "" {
		s.writeError(w, http.StatusBadRequest, "session_id is required")
		return
	}
	watch := parseWatch(r.URL.Query().Get("watch"))

	ch, cancel := s.Streams.Subscribe(sessionID)
	defer cancel()

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	fmt.Fprintf(w, "event: ping\ndata: connected\n\n")
	flusher.Flush()
	s.logger.Info("SSE: subscribed", "session_id", sessionID, "watch", watch)

	for {
		select {
		case <-r.Context().Done():
			s.logger.Info("SSE: client disconnected", "session_id", sessionID)
			return
		case msg, ok := <-ch:
			if !ok {
				return
			}
			if !wanted(msg, watch) {
				continue
			}
			fmt.Fprintf(w, "data: %s\n\n", msg)
			flusher.Flush()
		}
	}
}

// -- Helpers --

func (s *Server) load(w http.ResponseWriter, r *http.Request) (*domain.State, bool) {
	state, err := s.Sessions.Load(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.writeFailure(w, "Load", err)
		return nil, false
	}
	return state, true
}

func (s *Server) writeFailure(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, domain.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownStep):
		s.writeError(w, http.StatusConflict, err.Error())
	default:
		s.logger.Error(op+" failed", "err", err)
		s.writeError(w, http.StatusInternalServerError, fmt.Sprintf("%s error: %v", op, err))
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, msg string) {
	s.writeJSON(w, status, map[string]string{"error": msg})
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Error("response encode failed", "err", err)
	}
}
