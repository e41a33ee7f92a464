package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/mark3labs/mcp-go/mcp"
)

const plansURI = "floorplan://plans"

func (s *Server) registerResources() {
	// ── floorplan://plans ──────────────────────────────
	s.mcp.AddResource(mcp.NewResource(
		plansURI,
		"All Floor Plans",
		mcp.WithMIMEType("application/json"),
	), s.handlePlansResource)

	// ── floorplan://plans/{floorPlanId} ────────────────
	s.mcp.AddResourceTemplate(
		mcp.NewResourceTemplate(
			plansURI+"/{floorPlanId}",
			"Floor Plan Layout",
		),
		s.handlePlanResource,
	)
}

func (s *Server) handlePlansResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	plans, err := s.plans.ListFloorPlans(ctx)
	if err != nil {
		return nil, err
	}

	type planSummary struct {
		ID   string `json:"id"`
		Name string `json:"name"`
	}

	summaries := make([]planSummary, 0, len(plans))
	for _, p := range plans {
		summaries = append(summaries, planSummary{ID: p.ID, Name: p.Name})
	}

	data, _ := json.MarshalIndent(summaries, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      plansURI,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

func (s *Server) handlePlanResource(ctx context.Context, req mcp.ReadResourceRequest) ([]mcp.ResourceContents, error) {
	uri := req.Params.URI
	planID := planIDFromURI(uri)
	if planID == "" {
		return nil, fmt.Errorf("could not extract floorPlanId from URI: %s", uri)
	}

	state, err := s.plans.State(ctx, planID)
	if err != nil {
		return nil, err
	}

	data, _ := json.MarshalIndent(state, "", "  ")
	return []mcp.ResourceContents{
		mcp.TextResourceContents{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		},
	}, nil
}

// planIDFromURI extracts the floor plan ID from "floorplan://plans/{id}".
func planIDFromURI(uri string) string {
	id, ok := strings.CutPrefix(uri, plansURI+"/")
	if !ok || strings.Contains(id, "/") {
		return ""
	}
	return id
}
