package catalog

import (
	"errors"
	"fmt"
	"strings"

	"backend-ggtm26/internal/gpxfile"
	"backend-ggtm26/internal/shared/geo"
)

const DefaultRegion = "Mallorca"

var (
	ErrNoRoutes      = errors.New("no routes assigned to day")
	ErrMissingPoints = errors.New("first route of day has no points")
)

type Export struct {
	FileName    string   `json:"file_name"`
	ContentType string   `json:"content_type"`
	Content     []byte   `json:"-"`
	RouteNames  []string `json:"route_names"`
	// Missing lists assigned route ids that no longer resolve to a route.
	Missing []string `json:"missing,omitempty"`
	Points  int      `json:"points"`
}

// ExportDay joins the day's routes, in assignment order and without touching
// the seams between them, into a single GPX track. Names and points are
// copied under the read lock.
func (c *Catalog) ExportDay(dayID int, region string) (Export, error) {
	if region == "" {
		region = DefaultRegion
	}

	c.mu.RLock()
	if dayID < 1 || dayID > DayCount {
		c.mu.RUnlock()
		return Export{}, fmt.Errorf("%w: %d", ErrUnknownDay, dayID)
	}
	day := cloneDay(c.days[dayID-1])
	var names, missing []string
	var points []geo.Point
	firstHasPoints := false
	for _, id := range day.RouteIDs {
		r, ok := c.byID[id]
		if !ok {
			missing = append(missing, id)
			continue
		}
		if len(names) == 0 {
			firstHasPoints = len(r.Points) > 0
		}
		names = append(names, r.FileName)
		points = append(points, r.Points...)
	}
	c.mu.RUnlock()

	if len(day.RouteIDs) == 0 {
		return Export{}, ErrNoRoutes
	}
	if !firstHasPoints {
		return Export{}, ErrMissingPoints
	}

	content, err := gpxfile.Encode(gpxfile.Document{
		Name:      fmt.Sprintf("%s - %s", day.Name, strings.Join(names, " + ")),
		TrackName: day.Name,
		Points:    points,
	})
	if err != nil {
		return Export{}, err
	}

	return Export{
		FileName:    fmt.Sprintf("Day_%d_%s.gpx", dayID, region),
		ContentType: gpxfile.ContentType,
		Content:     content,
		RouteNames:  names,
		Missing:     missing,
		Points:      len(points),
	}, nil
}
