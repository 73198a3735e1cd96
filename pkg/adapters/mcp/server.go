package mcp

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/civicscribe/intake"
	"github.com/civicscribe/intake/internal/presentation/graph"
	"github.com/civicscribe/intake/pkg/domain"
	"github.com/civicscribe/intake/pkg/export"
	"github.com/civicscribe/intake/pkg/ports"
	"github.com/civicscribe/intake/pkg/runner"
	"github.com/civicscribe/intake/pkg/session"
	"github.com/google/uuid"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"
)

const graphURI = "civicscribe://graph"

// TurnResponse is the structured result of every conversational tool.
type TurnResponse struct {
	SessionID string                 `json:"session_id" jsonschema_description:"Session to pass to later calls"`
	Step      domain.StepID          `json:"step" jsonschema_description:"Step now awaiting an answer"`
	Messages  []string               `json:"messages" jsonschema_description:"Text to relay to the applicant, in order"`
	Actions   []domain.ActionRequest `json:"actions" jsonschema_description:"Raw host actions"`
	Finalized bool                   `json:"finalized" jsonschema_description:"True once the application document is produced"`
}

type startArgs struct {
	SessionID string `json:"session_id"`
	Seed      string `json:"seed"`
}

type messageArgs struct {
	SessionID string `json:"session_id"`
	Input     string `json:"input"`
}

type extractArgs struct {
	SessionID string `json:"session_id"`
	Text      string `json:"text"`
}

// TurnObserver records how long a turn took on a transport.
type TurnObserver interface {
	ObserveTurn(transport string, d time.Duration)
}

// Server exposes intake sessions as MCP tools.
type Server struct {
	engine    ports.Conversation
	sessions  *session.Manager
	logger    *slog.Logger
	observer  TurnObserver
	mcpServer *server.MCPServer
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

// NewServer creates a new MCP Server instance.
func NewServer(engine ports.Conversation, sessions *session.Manager, opts ...Option) *Server {
	s := &Server{
		engine:   engine,
		sessions: sessions,
		logger:   slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.mcpServer = server.NewMCPServer("civicscribe-mcp", strings.TrimSpace(intake.Version),
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(false, true),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)
	s.registerTools()
	s.registerResources()
	return s
}

const instructions = `CivicScribe collects a public-benefits application one question at a time.
Call start_session once, relay every returned message to the applicant verbatim, and pass each
reply to send_message unchanged. When the applicant volunteers several facts at once, call extract
with their words. Call get_document when finalized is true.`

// MCPServer exposes the underlying protocol server.
func (s *Server) MCPServer() *server.MCPServer {
	return s.mcpServer
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return server.ServeStdio(s.mcpServer)
}

// ServeSSE serves the SSE transport on addr until ctx is cancelled.
func (s *Server) ServeSSE(ctx context.Context, addr, baseURL string) error {
	sseServer := server.NewSSEServer(s.mcpServer, server.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", corsMiddleware(sseServer.SSEHandler()))
	mux.Handle("/message", corsMiddleware(sseServer.MessageHandler()))

	httpServer := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		s.logger.Info("MCP server listening (SSE)", "address", addr)
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		s.logger.Info("shutdown signal received, stopping MCP server")
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (s *Server) registerTools() {
	s.mcpServer.AddTool(mcp.NewTool("start_session",
		mcp.WithDescription("Start a benefits application interview and return the first prompt."),
		mcp.WithString("session_id", mcp.Description("Session id to use (optional, generated when omitted)")),
		mcp.WithString("seed", mcp.Description("JSON application draft to pre-populate (optional)")),
		mcp.WithOutputSchema[TurnResponse](),
	), mcp.NewStructuredToolHandler(s.handleStart))

	s.mcpServer.AddTool(mcp.NewTool("send_message",
		mcp.WithDescription("Answer the current question. Returns the next prompt or the same prompt if the answer was not accepted."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from start_session")),
		mcp.WithString("input", mcp.Required(), mcp.Description("The applicant's reply, unchanged")),
		mcp.WithOutputSchema[TurnResponse](),
	), mcp.NewStructuredToolHandler(s.handleSendMessage))

	s.mcpServer.AddTool(mcp.NewTool("extract",
		mcp.WithDescription("Prefill answers found in free text (name, date of birth, email, household size...)."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id from start_session")),
		mcp.WithString("text", mcp.Required(), mcp.Description("Free text written by the applicant")),
		mcp.WithOutputSchema[TurnResponse](),
	), mcp.NewStructuredToolHandler(s.handleExtract))

	s.mcpServer.AddTool(mcp.NewTool("get_summary",
		mcp.WithDescription("Narrative summary of the answers collected so far."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
	), s.handleSummary)

	s.mcpServer.AddTool(mcp.NewTool("get_document",
		mcp.WithDescription("The structured application document, validated against its schema."),
		mcp.WithString("session_id", mcp.Required(), mcp.Description("Session id")),
		mcp.WithString("format", mcp.Description("json (default) or yaml"), mcp.Enum("json", "yaml")),
	), s.handleDocument)

	s.mcpServer.AddTool(mcp.NewTool("get_graph",
		mcp.WithDescription("Get the full step graph for introspection."),
		mcp.WithString("format", mcp.Description("json (default) or mermaid"), mcp.Enum("json", "mermaid")),
	), s.handleGraph)
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args startArgs) (TurnResponse, error) {
	var seed *domain.Application
	if args.Seed != "" {
		seed = &domain.Application{}
		if err := json.Unmarshal([]byte(args.Seed), seed); err != nil {
			return TurnResponse{}, fmt.Errorf("invalid seed: %w", err)
		}
	}
	id := args.SessionID
	if id == "" {
		id = uuid.NewString()
	}

	var actions []domain.ActionRequest
	state, created, err := s.sessions.LoadOrStart(ctx, id, func(ctx context.Context, id string) *domain.State {
		st, acts := s.engine.Start(ctx, id, seed)
		actions = acts
		return st
	})
	if err != nil {
		return TurnResponse{}, fmt.Errorf("start failed: %w", err)
	}
	if !created {
		// Resuming: repeat the pending prompt.
		actions, _, err = s.engine.Render(ctx, state)
		if err != nil {
			return TurnResponse{}, fmt.Errorf("render failed: %w", err)
		}
	}
	s.logger.Info("MCP session ready", "session_id", id, "created", created)
	return toResponse(runner.NewRichResponse(state, actions)), nil
}

func (s *Server) handleSendMessage(ctx context.Context, request mcp.CallToolRequest, args messageArgs) (TurnResponse, error) {
	return s.turn(ctx, "send_message", args.SessionID, args.Input, s.engine.Navigate)
}

func (s *Server) handleExtract(ctx context.Context, request mcp.CallToolRequest, args extractArgs) (TurnResponse, error) {
	return s.turn(ctx, "extract", args.SessionID, args.Text, s.engine.Prefill)
}

type stepFunc func(ctx context.Context, state *domain.State, input string) (*domain.State, []domain.ActionRequest, error)

func (s *Server) turn(ctx context.Context, op, sessionID, input string, step stepFunc) (TurnResponse, error) {
	start := time.Now()
	if sessionID == "" {
		return TurnResponse{}, errors.New("session_id is required")
	}
	clean, err := runner.SanitizeInput(input)
	if err != nil {
		s.logger.Warn("MCP "+op+": input rejected", "err", err, "size", len(input))
		return TurnResponse{}, fmt.Errorf("input rejected: %w", err)
	}

	var actions []domain.ActionRequest
	next, err := s.sessions.Turn(ctx, sessionID, func(ctx context.Context, current *domain.State) (*domain.State, error) {
		st, acts, err := step(ctx, current, clean)
		actions = acts
		return st, err
	})
	if err != nil {
		return TurnResponse{}, fmt.Errorf("%s failed: %w", op, err)
	}
	if s.observer != nil {
		s.observer.ObserveTurn("mcp", time.Since(start))
	}
	return toResponse(runner.NewRichResponse(next, actions)), nil
}

func (s *Server) handleSummary(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	return mcp.NewToolResultText(s.engine.Summary(state)), nil
}

func (s *Server) handleDocument(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	id, err := request.RequireString("session_id")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	format, err := export.ParseFormat(request.GetString("format", ""))
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	state, err := s.sessions.Load(ctx, id)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("load failed: %v", err)), nil
	}
	out, err := export.Export(s.engine.Document(state), format)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("export failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(out)), nil
}

func (s *Server) handleGraph(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	nodes := s.engine.Inspect()
	if request.GetString("format", "json") == "mermaid" {
		return mcp.NewToolResultText(graph.GenerateMermaid(nodes, domain.EntryStep, nil)), nil
	}
	jsonBytes, err := json.Marshal(nodes)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("encode failed: %v", err)), nil
	}
	return mcp.NewToolResultText(string(jsonBytes)), nil
}

func (s *Server) registerResources() {
	s.mcpServer.AddResource(mcp.NewResource(graphURI, "Step Graph Definition",
		mcp.WithResourceDescription("Every step of the interview with its transitions."),
		mcp.WithMIMEType("application/json"),
	), func(ctx context.Context, request mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
		jsonBytes, err := json.Marshal(s.engine.Inspect())
		if err != nil {
			return nil, fmt.Errorf("failed to encode graph: %w", err)
		}
		return []mcp.ResourceContents{
			mcp.TextResourceContents{
				URI:      graphURI,
				MIMEType: "application/json",
				Text:     string(jsonBytes),
			},
		}, nil
	})
}

func toResponse(rich *runner.RichResponse) TurnResponse {
	return TurnResponse{
		SessionID: rich.State.SessionID,
		Step:      rich.Step,
		Messages:  rich.Messages,
		Actions:   rich.Actions,
		Finalized: rich.Finalized,
	}
}
