package app

import (
	"context"

	"floorplan/internal/logging"
	mcpserver "floorplan/internal/mcp"
)

// ServeMCP runs the MCP server on stdin/stdout until the client disconnects.
func (a *App) ServeMCP(ctx context.Context) error {
	srv := mcpserver.New(mcpserver.Deps{
		Plans:   a.Plans,
		Tables:  a.Tables,
		Catalog: a.Catalog,
		Logger:  logging.Component(ctx, "MCP"),
	})
	return srv.ServeStdio()
}
