// Package catalog holds one planning session: the imported routes and the four
// ride days they are assigned to.
package catalog

import (
	"errors"
	"fmt"
	"sync"

	"backend-ggtm26/internal/climb"
	"backend-ggtm26/internal/shared/geo"

	"github.com/google/uuid"
)

const DayCount = 4

var dayColors = [DayCount]string{"#e74c3c", "#3498db", "#2ecc71", "#f39c12"}

var (
	ErrUnknownDay   = errors.New("unknown day")
	ErrUnknownRoute = errors.New("unknown route")
)

type Route struct {
	ID       string      `json:"id"`
	FileName string      `json:"file_name"`
	Points   []geo.Point `json:"-"`
	Stats    *geo.Stats  `json:"stats"`
	Meta     *Metadata   `json:"meta,omitempty"`
}

// RouteSummary is a Route without its point sequence.
type RouteSummary struct {
	ID         string      `json:"id"`
	FileName   string      `json:"file_name"`
	PointCount int         `json:"point_count"`
	Stats      *geo.Stats  `json:"stats"`
	Meta       *Metadata   `json:"meta,omitempty"`
	Bounds     *geo.Bounds `json:"bounds,omitempty"`
}

func (r Route) Summary() RouteSummary {
	s := RouteSummary{
		ID:         r.ID,
		FileName:   r.FileName,
		PointCount: len(r.Points),
		Stats:      r.Stats,
		Meta:       r.Meta,
	}
	if b, ok := geo.BoundsOf(r.Points); ok {
		s.Bounds = &b
	}
	return s
}

// Climb rates the whole route as a single climb from its total gain and distance.
func (r Route) Climb() (climb.Classification, bool) {
	if r.Stats == nil {
		return climb.Classification{}, false
	}
	return climb.Classify(float64(r.Stats.ElevationGainM), r.Stats.DistanceKm)
}

type Day struct {
	ID       int      `json:"id"`
	Name     string   `json:"name"`
	RouteIDs []string `json:"route_ids"`
	Visible  bool     `json:"visible"`
	Color    string   `json:"color"`
}

// Catalog is safe for concurrent use. Returned routes and days are copies;
// route point slices are shared but never modified in place.
type Catalog struct {
	mu     sync.RWMutex
	routes []*Route
	byID   map[string]*Route
	days   [DayCount]Day
}

func New() *Catalog {
	c := &Catalog{byID: map[string]*Route{}}
	for i := range c.days {
		c.days[i] = Day{
			ID:       i + 1,
			Name:     fmt.Sprintf("Dag %d", i+1),
			RouteIDs: []string{},
			Visible:  true,
			Color:    dayColors[i],
		}
	}
	return c
}

// AddRoute stores a copy of points under a new id and computes its stats.
func (c *Catalog) AddRoute(fileName string, points []geo.Point) Route {
	owned := make([]geo.Point, len(points))
	copy(owned, points)

	r := &Route{
		ID:       uuid.NewString(),
		FileName: fileName,
		Points:   owned,
		Stats:    geo.ComputeStats(owned),
	}
	if meta, ok := ParseFileName(fileName); ok {
		r.Meta = &meta
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	c.routes = append(c.routes, r)
	c.byID[r.ID] = r
	return *r
}

func (c *Catalog) Route(id string) (Route, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	r, ok := c.byID[id]
	if !ok {
		return Route{}, false
	}
	return *r, true
}

// Routes lists routes in import order.
func (c *Catalog) Routes() []Route {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Route, 0, len(c.routes))
	for _, r := range c.routes {
		out = append(out, *r)
	}
	return out
}

// SetElevations replaces a route's points after enrichment and recomputes its stats.
// The new sequence must have the same length as the stored one.
func (c *Catalog) SetElevations(id string, points []geo.Point) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	r, ok := c.byID[id]
	if !ok {
		return fmt.Errorf("%w: %s", ErrUnknownRoute, id)
	}
	if len(points) != len(r.Points) {
		return fmt.Errorf("route %s has %d points, got %d", id, len(r.Points), len(points))
	}

	owned := make([]geo.Point, len(points))
	copy(owned, points)
	r.Points = owned
	r.Stats = geo.ComputeStats(owned)
	return nil
}

func (c *Catalog) Day(id int) (Day, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	if id < 1 || id > DayCount {
		return Day{}, false
	}
	return cloneDay(c.days[id-1]), true
}

func (c *Catalog) Days() []Day {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]Day, 0, DayCount)
	for _, d := range c.days {
		out = append(out, cloneDay(d))
	}
	return out
}

// SetDayRoutes replaces the day's assignment wholesale.
func (c *Catalog) SetDayRoutes(dayID int, routeIDs []string) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dayID < 1 || dayID > DayCount {
		return fmt.Errorf("%w: %d", ErrUnknownDay, dayID)
	}
	for _, id := range routeIDs {
		if _, ok := c.byID[id]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownRoute, id)
		}
	}
	c.days[dayID-1].RouteIDs = append([]string{}, routeIDs...)
	return nil
}

func (c *Catalog) SetDayVisible(dayID int, visible bool) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if dayID < 1 || dayID > DayCount {
		return fmt.Errorf("%w: %d", ErrUnknownDay, dayID)
	}
	c.days[dayID-1].Visible = visible
	return nil
}

func (c *Catalog) ClearDays() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.clearDaysLocked()
}

func (c *Catalog) clearDaysLocked() {
	for i := range c.days {
		c.days[i].RouteIDs = []string{}
	}
}

func cloneDay(d Day) Day {
	d.RouteIDs = append([]string{}, d.RouteIDs...)
	return d
}
