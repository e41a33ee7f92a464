package mcpserver

import (
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/charmbracelet/log"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/mark3labs/mcp-go/server"

	"floorplan/internal/catalog"
	"floorplan/internal/domain"
	"floorplan/internal/service"
)

// Server is the MCP server for floor plans.
// It exposes tools, resources and prompts so AI agents can lay out a dining room.
type Server struct {
	mcp    *server.MCPServer
	logger *log.Logger

	plans   *service.FloorPlanService
	tables  *service.TableService
	catalog *catalog.Catalog

	// Active floor plan (set by set_active_floor_plan or create_floor_plan)
	mu           sync.Mutex
	activePlanID string
}

// Deps holds everything the MCP server needs from the caller.
type Deps struct {
	Plans   *service.FloorPlanService
	Tables  *service.TableService
	Catalog *catalog.Catalog
	Logger  *log.Logger
}

// New creates and configures a new MCP server with all tools and resources.
func New(deps Deps) *Server {
	s := &Server{
		logger:  deps.Logger,
		plans:   deps.Plans,
		tables:  deps.Tables,
		catalog: deps.Catalog,
	}
	if s.logger == nil {
		s.logger = log.Default()
	}
	if s.catalog == nil {
		s.catalog = catalog.Default()
	}

	s.mcp = server.NewMCPServer(
		"floorplan-mcp",
		"1.0.0",
		server.WithToolCapabilities(true),
		server.WithResourceCapabilities(true, false),
		server.WithPromptCapabilities(true),
	)

	s.registerFloorPlanTools()
	s.registerTableTools()
	s.registerResources()
	s.registerPrompts()

	return s
}

// ServeStdio starts the MCP server on stdin/stdout.
func (s *Server) ServeStdio() error {
	s.logger.Info("starting stdio server")
	return server.ServeStdio(s.mcp)
}

// ── Helpers ────────────────────────────────────────────────

// textResult creates a simple text tool result.
func textResult(text string) *mcp.CallToolResult {
	return &mcp.CallToolResult{
		Content: []mcp.Content{
			mcp.TextContent{Type: "text", Text: text},
		},
	}
}

// jsonResult serializes v to JSON and wraps it in a text tool result.
func jsonResult(v any) (*mcp.CallToolResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal result: %w", err)
	}
	return textResult(string(data)), nil
}

// refusal turns layout rule violations into a tool result the agent can
// read and react to. Other errors pass through.
func refusal(err error) (*mcp.CallToolResult, error) {
	switch {
	case errors.Is(err, domain.ErrNoSpace),
		errors.Is(err, domain.ErrCollision),
		errors.Is(err, domain.ErrOutOfBounds),
		errors.Is(err, domain.ErrInvalidTable):
		return mcp.NewToolResultError(err.Error()), nil
	}
	return nil, err
}

// resolvePlanID returns the floorPlanId from tool args or falls back to the
// active floor plan.
func (s *Server) resolvePlanID(args map[string]any) (string, error) {
	if id, ok := args["floorPlanId"].(string); ok && id != "" {
		return id, nil
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.activePlanID != "" {
		return s.activePlanID, nil
	}
	return "", fmt.Errorf("no floorPlanId provided and no active floor plan set (use set_active_floor_plan first)")
}

func (s *Server) setActivePlan(id string) {
	s.mu.Lock()
	s.activePlanID = id
	s.mu.Unlock()
}
