package domain

// FloorPlanState is the complete state of a floor plan for rendering.
// Overlaps maps a table ID to the IDs of the tables it collides with;
// tables without conflicts are absent.
type FloorPlanState struct {
	FloorPlan FloorPlan           `json:"floorPlan"`
	Tables    []Table             `json:"tables"`
	Overlaps  map[string][]string `json:"overlaps"`
}
