package planner

import (
	"time"

	"backend-ggtm26/internal/catalog"
	"backend-ggtm26/internal/climb"
	"backend-ggtm26/internal/gpxfile"
)

type Plan struct {
	ID        string                 `json:"id"`
	CreatedAt time.Time              `json:"created_at"`
	Days      []catalog.Day          `json:"days"`
	Routes    []catalog.RouteSummary `json:"routes"`
}

type ImportResult struct {
	Route    catalog.RouteSummary `json:"route"`
	Warnings []gpxfile.Warning    `json:"warnings,omitempty"`
	// Enriched is nil when enrichment was not requested.
	Enriched *bool `json:"enriched,omitempty"`
}

type ClimbView struct {
	RouteID   string                `json:"route_id"`
	Qualifies bool                  `json:"qualifies"`
	Climb     *climb.Classification `json:"climb,omitempty"`
}

// Event is pushed to plan subscribers after every change.
type Event struct {
	Type   string `json:"type"`
	PlanID string `json:"plan_id"`
	Data   any    `json:"data,omitempty"`
}

const (
	EventRouteAdded    = "route_added"
	EventRouteEnriched = "route_enriched"
	EventDayUpdated    = "day_updated"
	EventAutoPlan      = "auto_plan"
	EventPlanDeleted   = "plan_deleted"
)
