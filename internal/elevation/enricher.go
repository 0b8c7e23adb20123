// Package elevation fills in missing track elevations from an external lookup,
// sampling a route sparsely and interpolating between the samples.
package elevation

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"backend-ggtm26/internal/shared/geo"

	"golang.org/x/sync/errgroup"
)

// TargetSamples is the number of points a route is thinned to before lookup.
const TargetSamples = 50

const defaultConcurrency = 4

var (
	ErrNoPoints      = errors.New("no points to enrich")
	ErrCountMismatch = errors.New("elevation lookup returned a different number of results")
)

type Coordinate struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Lookup resolves elevations in metres, one per coordinate and in the same order.
type Lookup interface {
	Elevations(ctx context.Context, coords []Coordinate) ([]float64, error)
}

type Enricher struct {
	lookup      Lookup
	logger      *slog.Logger
	concurrency int
}

func NewEnricher(lookup Lookup, logger *slog.Logger) *Enricher {
	if logger == nil {
		logger = slog.Default()
	}
	return &Enricher{lookup: lookup, logger: logger, concurrency: defaultConcurrency}
}

// WithConcurrency caps how many routes EnrichAll looks up at once.
func (e *Enricher) WithConcurrency(n int) *Enricher {
	if n > 0 {
		e.concurrency = n
	}
	return e
}

// SampleIndices returns 0, stride, 2*stride, ... for stride = max(1, n/TargetSamples),
// with the last index appended when the stride does not land on it.
func SampleIndices(n int) []int {
	if n <= 0 {
		return nil
	}
	stride := n / TargetSamples
	if stride < 1 {
		stride = 1
	}

	indices := make([]int, 0, n/stride+1)
	for i := 0; i < n; i += stride {
		indices = append(indices, i)
	}
	if indices[len(indices)-1] != n-1 {
		indices = append(indices, n-1)
	}
	return indices
}

// Enrich makes a single lookup for the sampled points and writes elevations into
// points in place. On any failure the points are left exactly as they were.
func (e *Enricher) Enrich(ctx context.Context, points []geo.Point) bool {
	if err := e.enrich(ctx, points); err != nil {
		e.logger.Warn("elevation enrichment failed", "points", len(points), "error", err)
		return false
	}
	e.logger.Debug("elevation enriched", "points", len(points))
	return true
}

func (e *Enricher) enrich(ctx context.Context, points []geo.Point) error {
	if len(points) == 0 {
		return ErrNoPoints
	}

	indices := SampleIndices(len(points))
	coords := make([]Coordinate, len(indices))
	for i, idx := range indices {
		coords[i] = Coordinate{Latitude: points[idx].Lat, Longitude: points[idx].Lon}
	}

	values, err := e.lookup.Elevations(ctx, coords)
	if err != nil {
		return fmt.Errorf("lookup: %w", err)
	}
	if len(values) != len(indices) {
		return fmt.Errorf("%w: sent %d, got %d", ErrCountMismatch, len(indices), len(values))
	}

	staged := interpolate(len(points), indices, values)
	for i, v := range staged {
		points[i].Ele = geo.Elevation(v)
	}
	return nil
}

// interpolate spreads the sampled values linearly over every index between two
// consecutive samples. Sample indices are strictly increasing and cover 0 and n-1.
func interpolate(n int, indices []int, values []float64) []float64 {
	out := make([]float64, n)
	for i, idx := range indices {
		out[idx] = values[i]
	}
	for i := 0; i < len(indices)-1; i++ {
		start, end := indices[i], indices[i+1]
		startEle, endEle := values[i], values[i+1]
		for j := start + 1; j < end; j++ {
			ratio := float64(j-start) / float64(end-start)
			out[j] = startEle + (endEle-startEle)*ratio
		}
	}
	return out
}

// EnrichAll enriches independent routes concurrently and reports per-route success.
func (e *Enricher) EnrichAll(ctx context.Context, routes map[string][]geo.Point) map[string]bool {
	results := make(map[string]bool, len(routes))
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.concurrency)
	for id, points := range routes {
		id, points := id, points
		g.Go(func() error {
			ok := e.Enrich(gctx, points)
			mu.Lock()
			results[id] = ok
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return results
}
