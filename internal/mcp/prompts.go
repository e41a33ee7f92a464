package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
)

func (s *Server) registerPrompts() {
	s.mcp.AddPrompt(mcp.NewPrompt("design_dining_room",
		mcp.WithPromptDescription("Guide through laying out a new dining room for a target number of covers"),
		mcp.WithArgument("name",
			mcp.ArgumentDescription("Name of the dining room"),
			mcp.RequiredArgument(),
		),
		mcp.WithArgument("covers",
			mcp.ArgumentDescription("Total number of seats to fit"),
			mcp.RequiredArgument(),
		),
	), s.handleDesignPrompt)

	s.mcp.AddPrompt(mcp.NewPrompt("seat_party",
		mcp.WithPromptDescription("Find and seat a table for a walk-in party"),
		mcp.WithArgument("partySize",
			mcp.ArgumentDescription("Number of guests"),
			mcp.RequiredArgument(),
		),
	), s.handleSeatPartyPrompt)
}

func (s *Server) handleDesignPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	name := req.Params.Arguments["name"]
	covers := req.Params.Arguments["covers"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Lay out %s for %s covers", name, covers),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Lay out a dining room called "%s" seating about %s guests. Follow these steps:

1. Use create_floor_plan to create the room (it becomes the active floor plan)
2. Use list_templates to see which table sizes are available
3. Add tables with add_table until the seat count is reached. Mix sizes: mostly two-tops and four-tops, a few larger tables
4. If add_table reports there is no space left, stop adding and say how many seats fit
5. Use arrange_tables if the room looks untidy, then check_collisions to confirm nothing overlaps

Finish with a short summary of the tables placed and the total seat count.`, name, covers),
				},
			},
		},
	}, nil
}

func (s *Server) handleSeatPartyPrompt(ctx context.Context, req mcp.GetPromptRequest) (*mcp.GetPromptResult, error) {
	partySize := req.Params.Arguments["partySize"]
	return &mcp.GetPromptResult{
		Description: fmt.Sprintf("Seat a party of %s", partySize),
		Messages: []mcp.PromptMessage{
			{
				Role: mcp.RoleUser,
				Content: mcp.TextContent{
					Type: "text",
					Text: fmt.Sprintf(`Seat a party of %s on the active floor plan. Follow these steps:

1. Use get_floor_plan to see every table with its capacity and status
2. Pick the smallest available table whose capacity fits the party
3. Mark it occupied with set_table_status
4. If no single table fits, say so and suggest the closest option instead of changing the layout`, partySize),
				},
			},
		},
	}, nil
}
