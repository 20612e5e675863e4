// Package mcp exposes the wizard engine as an MCP server so conversational
// agents can drive intake flows as tools.
package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"github.com/peopleops/intake/pkg/domain"
)

// Engine is the flow controller surface the MCP tools need.
type Engine interface {
	Init(ctx context.Context, threadID, wizardID, employeeID string) (domain.StepPayload, error)
	Respond(ctx context.Context, threadID, stepID string, inputs []domain.InputResponse) (domain.StepPayload, error)
	Resume(ctx context.Context, threadID string) (domain.StepPayload, error)
	Wizards(ctx context.Context) ([]string, error)
}

// StepResult is the unified tool output: the pending (or terminal) step
// payload, mirroring the HTTP API shape.
type StepResult struct {
	Step     domain.Step           `json:"step" jsonschema_description:"The step awaiting input, or the completion sentinel"`
	Elements []domain.Element      `json:"elements" jsonschema_description:"Renderable elements of the step, in order"`
	Session  *domain.WizardSession `json:"session" jsonschema_description:"Snapshot of the session after the action"`
	Terminal bool                  `json:"terminal" jsonschema_description:"True once the wizard has completed"`
}

// ContextResult is the get_wizard_context tool output: the accumulated
// answers keyed by semantic tag plus coarse progress.
type ContextResult struct {
	WizardID      string            `json:"wizardId"`
	Status        string            `json:"status"`
	CurrentStepID string            `json:"currentStepId"`
	Answers       map[string]string `json:"answers" jsonschema_description:"Semantic tag to latest answer value"`
}

// Server wraps the engine and exposes it over MCP.
type Server struct {
	engine    Engine
	mcpServer *mcpserver.MCPServer
}

// NewServer creates the MCP server and registers all tools.
func NewServer(engine Engine, version string) *Server {
	s := &Server{
		engine:    engine,
		mcpServer: mcpserver.NewMCPServer("intake-mcp", version),
	}
	s.registerTools()
	return s
}

// ServeStdio starts the server on Stdin/Stdout.
func (s *Server) ServeStdio() error {
	return mcpserver.ServeStdio(s.mcpServer)
}

// ServeSSE starts the server on the given port using SSE.
func (s *Server) ServeSSE(ctx context.Context, port int) error {
	addr := fmt.Sprintf(":%d", port)
	baseURL := fmt.Sprintf("http://localhost:%d", port)

	sseServer := mcpserver.NewSSEServer(s.mcpServer, mcpserver.WithBaseURL(baseURL))

	mux := http.NewServeMux()
	mux.Handle("/sse", sseServer.SSEHandler())
	mux.Handle("/message", sseServer.MessageHandler())

	httpServer := &http.Server{
		Addr:    addr,
		Handler: mux,
	}

	serverErrors := make(chan error, 1)
	go func() {
		serverErrors <- httpServer.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("could not stop server gracefully: %w", err)
		}
		return nil
	}
}

func (s *Server) registerTools() {
	startTool := mcp.NewTool("start_wizard",
		mcp.WithDescription("Start (or idempotently re-enter) an intake wizard for a conversation thread. Returns the first step awaiting input."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread identifier, one wizard session per thread")),
		mcp.WithString("wizard_id", mcp.Required(), mcp.Description("The wizard to run, e.g. leave-intake")),
		mcp.WithString("employee_id", mcp.Description("The employee the intake is about (optional)")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(startTool, mcp.NewStructuredToolHandler(s.handleStart))

	submitTool := mcp.NewTool("submit_step",
		mcp.WithDescription("Submit the answers for the step currently awaiting input and advance the wizard. The step_id must match the pending step."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread identifier")),
		mcp.WithString("step_id", mcp.Required(), mcp.Description("The step the answers belong to")),
		mcp.WithString("responses", mcp.Description(`JSON array of {"questionId": string, "value": string} (optional for steps without questions)`)),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(submitTool, mcp.NewStructuredToolHandler(s.handleSubmit))

	resumeTool := mcp.NewTool("resume_wizard",
		mcp.WithDescription("Re-present the step currently awaiting input without changing any state. Safe to call any number of times."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread identifier")),
		mcp.WithOutputSchema[StepResult](),
	)
	s.mcpServer.AddTool(resumeTool, mcp.NewStructuredToolHandler(s.handleResume))

	contextTool := mcp.NewTool("get_wizard_context",
		mcp.WithDescription("Get the accumulated answers and progress of the thread's wizard session, keyed by semantic tag."),
		mcp.WithString("thread_id", mcp.Required(), mcp.Description("Conversation thread identifier")),
		mcp.WithOutputSchema[ContextResult](),
	)
	s.mcpServer.AddTool(contextTool, mcp.NewStructuredToolHandler(s.handleContext))

	s.mcpServer.AddTool(mcp.NewTool("list_wizards",
		mcp.WithDescription("List the IDs of every available wizard."),
	), func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		ids, err := s.engine.Wizards(ctx)
		if err != nil {
			return mcp.NewToolResultError(fmt.Sprintf("listing wizards failed: %v", err)), nil
		}
		jsonBytes, _ := json.Marshal(ids)
		return mcp.NewToolResultText(string(jsonBytes)), nil
	})
}

func (s *Server) handleStart(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	threadID, _ := args["thread_id"].(string)
	wizardID, _ := args["wizard_id"].(string)
	employeeID, _ := args["employee_id"].(string)

	payload, err := s.engine.Init(ctx, threadID, wizardID, employeeID)
	if err != nil {
		return StepResult{}, fmt.Errorf("start failed: %w", err)
	}
	return toStepResult(payload), nil
}

func (s *Server) handleSubmit(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	threadID, _ := args["thread_id"].(string)
	stepID, _ := args["step_id"].(string)

	var inputs []domain.InputResponse
	if raw, ok := args["responses"].(string); ok && raw != "" {
		if err := json.Unmarshal([]byte(raw), &inputs); err != nil {
			return StepResult{}, fmt.Errorf("responses must be a JSON array of {questionId, value}: %w", err)
		}
	}

	payload, err := s.engine.Respond(ctx, threadID, stepID, inputs)
	if err != nil {
		return StepResult{}, fmt.Errorf("submit failed: %w", err)
	}
	return toStepResult(payload), nil
}

func (s *Server) handleResume(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (StepResult, error) {
	threadID, _ := args["thread_id"].(string)

	payload, err := s.engine.Resume(ctx, threadID)
	if err != nil {
		return StepResult{}, fmt.Errorf("resume failed: %w", err)
	}
	return toStepResult(payload), nil
}

func (s *Server) handleContext(ctx context.Context, request mcp.CallToolRequest, args map[string]interface{}) (ContextResult, error) {
	threadID, _ := args["thread_id"].(string)

	payload, err := s.engine.Resume(ctx, threadID)
	if err != nil {
		return ContextResult{}, fmt.Errorf("context lookup failed: %w", err)
	}
	if payload.Session == nil {
		return ContextResult{}, fmt.Errorf("no session for thread %q", threadID)
	}

	return ContextResult{
		WizardID:      payload.Session.WizardID,
		Status:        string(payload.Session.Status),
		CurrentStepID: payload.Session.CurrentStepID,
		Answers:       payload.Session.ResponseContext(),
	}, nil
}

func toStepResult(payload domain.StepPayload) StepResult {
	return StepResult{
		Step:     payload.Step,
		Elements: payload.Elements,
		Session:  payload.Session,
		Terminal: payload.Terminal(),
	}
}
