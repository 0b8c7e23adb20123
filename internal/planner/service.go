// Package planner keeps planning sessions in memory and exposes them over HTTP.
package planner

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"backend-ggtm26/internal/catalog"
	"backend-ggtm26/internal/elevation"
	"backend-ggtm26/internal/gpxfile"
	"backend-ggtm26/internal/shared/geo"

	"github.com/google/uuid"
)

var (
	ErrPlanNotFound       = errors.New("plan not found")
	ErrRouteNotFound      = errors.New("route not found")
	ErrUnknownProfile     = errors.New("unknown profile")
	ErrEnrichmentDisabled = errors.New("elevation enrichment not configured")
	ErrEnrichmentFailed   = errors.New("elevation enrichment failed")
)

// Broadcaster delivers plan events to live subscribers.
type Broadcaster interface {
	Broadcast(planID string, payload []byte)
}

type Options struct {
	Catalog catalog.Options
	Region  string
}

type session struct {
	id        string
	createdAt time.Time
	catalog   *catalog.Catalog
}

type Service struct {
	mu       sync.RWMutex
	sessions map[string]*session
	enricher *elevation.Enricher
	hub      Broadcaster
	opts     Options
	logger   *slog.Logger
}

func NewService(enricher *elevation.Enricher, hub Broadcaster, opts Options, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	if opts.Catalog.Event == "" {
		opts.Catalog.Event = catalog.DefaultOptions().Event
	}
	if opts.Catalog.HomeBase == "" {
		opts.Catalog.HomeBase = catalog.DefaultOptions().HomeBase
	}
	if opts.Region == "" {
		opts.Region = catalog.DefaultRegion
	}
	return &Service{
		sessions: map[string]*session{},
		enricher: enricher,
		hub:      hub,
		opts:     opts,
		logger:   logger,
	}
}

func (s *Service) Create() Plan {
	sess := &session{id: uuid.NewString(), createdAt: time.Now(), catalog: catalog.New()}

	s.mu.Lock()
	s.sessions[sess.id] = sess
	s.mu.Unlock()

	s.logger.Info("plan created", "plan_id", sess.id)
	return sess.view()
}

func (s *Service) Get(planID string) (Plan, error) {
	sess, err := s.session(planID)
	if err != nil {
		return Plan{}, err
	}
	return sess.view(), nil
}

func (s *Service) Delete(planID string) error {
	s.mu.Lock()
	_, ok := s.sessions[planID]
	delete(s.sessions, planID)
	s.mu.Unlock()

	if !ok {
		return ErrPlanNotFound
	}
	s.publish(planID, EventPlanDeleted, nil)
	return nil
}

// ImportRoute decodes a GPX document into a new route. A document that cannot be
// read at all is an error; unreadable coordinates only produce warnings.
func (s *Service) ImportRoute(ctx context.Context, planID, fileName string, r io.Reader, enrich bool) (ImportResult, error) {
	sess, err := s.session(planID)
	if err != nil {
		return ImportResult{}, err
	}

	decoded, err := gpxfile.Decode(r)
	if err != nil {
		return ImportResult{}, err
	}

	route := sess.catalog.AddRoute(fileName, decoded.Points)
	s.logger.Info("route imported",
		"plan_id", planID,
		"route_id", route.ID,
		"file", fileName,
		"points", len(route.Points),
		"warnings", len(decoded.Warnings),
	)
	result := ImportResult{Route: route.Summary(), Warnings: decoded.Warnings}

	if enrich && s.enricher != nil {
		ok := s.enrich(ctx, sess, route)
		result.Enriched = &ok
		if updated, found := sess.catalog.Route(route.ID); found {
			result.Route = updated.Summary()
		}
	}

	s.publish(planID, EventRouteAdded, result.Route)
	return result, nil
}

func (s *Service) Route(planID, routeID string) (catalog.RouteSummary, error) {
	route, err := s.route(planID, routeID)
	if err != nil {
		return catalog.RouteSummary{}, err
	}
	return route.Summary(), nil
}

func (s *Service) Climb(planID, routeID string) (ClimbView, error) {
	route, err := s.route(planID, routeID)
	if err != nil {
		return ClimbView{}, err
	}
	view := ClimbView{RouteID: route.ID}
	if c, ok := route.Climb(); ok {
		view.Qualifies = true
		view.Climb = &c
	}
	return view, nil
}

// EnrichRoute looks up elevations for one route. Stored points only change on success.
func (s *Service) EnrichRoute(ctx context.Context, planID, routeID string) (catalog.RouteSummary, error) {
	if s.enricher == nil {
		return catalog.RouteSummary{}, ErrEnrichmentDisabled
	}
	sess, err := s.session(planID)
	if err != nil {
		return catalog.RouteSummary{}, err
	}
	route, ok := sess.catalog.Route(routeID)
	if !ok {
		return catalog.RouteSummary{}, ErrRouteNotFound
	}

	if !s.enrich(ctx, sess, route) {
		return route.Summary(), ErrEnrichmentFailed
	}
	updated, _ := sess.catalog.Route(routeID)
	s.publish(planID, EventRouteEnriched, updated.Summary())
	return updated.Summary(), nil
}

// EnrichPlan enriches every route of the plan concurrently and reports per-route success.
func (s *Service) EnrichPlan(ctx context.Context, planID string) (map[string]bool, error) {
	if s.enricher == nil {
		return nil, ErrEnrichmentDisabled
	}
	sess, err := s.session(planID)
	if err != nil {
		return nil, err
	}

	work := map[string][]geo.Point{}
	for _, r := range sess.catalog.Routes() {
		work[r.ID] = clonePoints(r.Points)
	}

	results := s.enricher.EnrichAll(ctx, work)
	for id, ok := range results {
		if !ok {
			continue
		}
		if err := sess.catalog.SetElevations(id, work[id]); err != nil {
			s.logger.Warn("elevation write-back failed", "plan_id", planID, "route_id", id, "error", err)
			results[id] = false
			continue
		}
		if updated, found := sess.catalog.Route(id); found {
			s.publish(planID, EventRouteEnriched, updated.Summary())
		}
	}
	return results, nil
}

func (s *Service) SetDayRoutes(planID string, dayID int, routeIDs []string) (catalog.Day, error) {
	sess, err := s.session(planID)
	if err != nil {
		return catalog.Day{}, err
	}
	if err := sess.catalog.SetDayRoutes(dayID, routeIDs); err != nil {
		return catalog.Day{}, err
	}
	day, _ := sess.catalog.Day(dayID)
	s.publish(planID, EventDayUpdated, day)
	return day, nil
}

func (s *Service) SetDayVisible(planID string, dayID int, visible bool) (catalog.Day, error) {
	sess, err := s.session(planID)
	if err != nil {
		return catalog.Day{}, err
	}
	if err := sess.catalog.SetDayVisible(dayID, visible); err != nil {
		return catalog.Day{}, err
	}
	day, _ := sess.catalog.Day(dayID)
	s.publish(planID, EventDayUpdated, day)
	return day, nil
}

func (s *Service) AutoPlan(planID, profileName string) (catalog.Report, error) {
	profile, ok := catalog.ProfileByName(profileName)
	if !ok {
		return catalog.Report{}, fmt.Errorf("%w: %s", ErrUnknownProfile, profileName)
	}
	sess, err := s.session(planID)
	if err != nil {
		return catalog.Report{}, err
	}

	report := sess.catalog.ApplyProfile(profile, s.opts.Catalog)
	s.logger.Info("auto plan applied", "plan_id", planID, "profile", profile.Name, "assigned_days", report.Assigned())
	s.publish(planID, EventAutoPlan, report)
	return report, nil
}

func (s *Service) ExportDay(planID string, dayID int) (catalog.Export, error) {
	sess, err := s.session(planID)
	if err != nil {
		return catalog.Export{}, err
	}
	export, err := sess.catalog.ExportDay(dayID, s.opts.Region)
	if err != nil {
		return catalog.Export{}, err
	}
	if len(export.Missing) > 0 {
		s.logger.Warn("day export skipped missing routes", "plan_id", planID, "day", dayID, "missing", export.Missing)
	}
	return export, nil
}

func (s *Service) enrich(ctx context.Context, sess *session, route catalog.Route) bool {
	points := clonePoints(route.Points)
	if !s.enricher.Enrich(ctx, points) {
		return false
	}
	if err := sess.catalog.SetElevations(route.ID, points); err != nil {
		s.logger.Warn("elevation write-back failed", "plan_id", sess.id, "route_id", route.ID, "error", err)
		return false
	}
	return true
}

func (s *Service) session(planID string) (*session, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	sess, ok := s.sessions[planID]
	if !ok {
		return nil, ErrPlanNotFound
	}
	return sess, nil
}

func (s *Service) route(planID, routeID string) (catalog.Route, error) {
	sess, err := s.session(planID)
	if err != nil {
		return catalog.Route{}, err
	}
	route, ok := sess.catalog.Route(routeID)
	if !ok {
		return catalog.Route{}, ErrRouteNotFound
	}
	return route, nil
}

func (s *Service) publish(planID, eventType string, data any) {
	if s.hub == nil {
		return
	}
	payload, err := json.Marshal(Event{Type: eventType, PlanID: planID, Data: data})
	if err != nil {
		s.logger.Warn("event encode failed", "plan_id", planID, "type", eventType, "error", err)
		return
	}
	s.hub.Broadcast(planID, payload)
}

func (sess *session) view() Plan {
	routes := sess.catalog.Routes()
	summaries := make([]catalog.RouteSummary, 0, len(routes))
	for _, r := range routes {
		summaries = append(summaries, r.Summary())
	}
	return Plan{
		ID:        sess.id,
		CreatedAt: sess.createdAt,
		Days:      sess.catalog.Days(),
		Routes:    summaries,
	}
}

func clonePoints(points []geo.Point) []geo.Point {
	out := make([]geo.Point, len(points))
	copy(out, points)
	return out
}
