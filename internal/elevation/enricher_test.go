package elevation

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"backend-ggtm26/internal/shared/geo"
)

type lookupFunc func(ctx context.Context, coords []Coordinate) ([]float64, error)

func (f lookupFunc) Elevations(ctx context.Context, coords []Coordinate) ([]float64, error) {
	return f(ctx, coords)
}

func quietLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// indexedPoints puts the point index in the latitude so a fake lookup can
// answer with a value derived from the position.
func indexedPoints(n int) []geo.Point {
	points := make([]geo.Point, n)
	for i := range points {
		points[i] = geo.Point{Lat: float64(i), Lon: 2.7}
	}
	return points
}

func TestSampleIndices(t *testing.T) {
	tests := []struct {
		n     int
		count int
		last  int
	}{
		{1, 1, 0},
		{10, 10, 9},
		{50, 50, 49},
		{100, 51, 99},
		{120, 61, 119},
		{5000, 51, 4999},
	}

	for _, tt := range tests {
		got := SampleIndices(tt.n)
		if len(got) != tt.count {
			t.Fatalf("SampleIndices(%d): %d indices, want %d", tt.n, len(got), tt.count)
		}
		if got[0] != 0 || got[len(got)-1] != tt.last {
			t.Fatalf("SampleIndices(%d): first %d last %d", tt.n, got[0], got[len(got)-1])
		}
		for i := 1; i < len(got); i++ {
			if got[i] <= got[i-1] {
				t.Fatalf("SampleIndices(%d) not increasing at %d", tt.n, i)
			}
		}
	}

	if SampleIndices(0) != nil {
		t.Fatalf("expected no indices for empty route")
	}
}

func TestEnrichInterpolatesBetweenSamples(t *testing.T) {
	calls := 0
	lookup := lookupFunc(func(_ context.Context, coords []Coordinate) ([]float64, error) {
		calls++
		out := make([]float64, len(coords))
		for i, c := range coords {
			out[i] = c.Latitude * 10
		}
		return out, nil
	})

	points := indexedPoints(120)
	if !NewEnricher(lookup, quietLogger()).Enrich(context.Background(), points) {
		t.Fatalf("expected success")
	}
	if calls != 1 {
		t.Fatalf("expected exactly one lookup, got %d", calls)
	}
	for i, p := range points {
		if p.Ele == nil {
			t.Fatalf("point %d has no elevation", i)
		}
		if *p.Ele != float64(i)*10 {
			t.Fatalf("point %d: elevation %v, want %v", i, *p.Ele, float64(i)*10)
		}
	}
}

func TestEnrichUnevenLastGap(t *testing.T) {
	// 103 points, stride 2: the final sample at 102 sits right after 100, while
	// the gap 100..102 holds a single interpolated point.
	lookup := lookupFunc(func(_ context.Context, coords []Coordinate) ([]float64, error) {
		out := make([]float64, len(coords))
		for i, c := range coords {
			if c.Latitude == 102 {
				out[i] = 0
				continue
			}
			out[i] = 100
		}
		return out, nil
	})

	points := indexedPoints(103)
	if !NewEnricher(lookup, quietLogger()).Enrich(context.Background(), points) {
		t.Fatalf("expected success")
	}
	if *points[101].Ele != 50 {
		t.Fatalf("expected midpoint 50, got %v", *points[101].Ele)
	}
	if *points[102].Ele != 0 {
		t.Fatalf("expected sampled value on last point")
	}
}

func TestEnrichFailureLeavesPointsUnchanged(t *testing.T) {
	points := indexedPoints(100)
	for i := 0; i < len(points); i += 3 {
		points[i].Ele = geo.Elevation(float64(i))
	}
	before := make([]geo.Point, len(points))
	copy(before, points)

	failures := map[string]Lookup{
		"transport": lookupFunc(func(context.Context, []Coordinate) ([]float64, error) {
			return nil, errors.New("connection refused")
		}),
		"short result": lookupFunc(func(_ context.Context, coords []Coordinate) ([]float64, error) {
			return make([]float64, len(coords)-1), nil
		}),
	}

	for name, lookup := range failures {
		t.Run(name, func(t *testing.T) {
			if NewEnricher(lookup, quietLogger()).Enrich(context.Background(), points) {
				t.Fatalf("expected failure")
			}
			for i := range points {
				if points[i].Ele != before[i].Ele {
					t.Fatalf("point %d elevation changed after failed lookup", i)
				}
			}
		})
	}
}

func TestEnrichEmptyRoute(t *testing.T) {
	lookup := lookupFunc(func(context.Context, []Coordinate) ([]float64, error) {
		t.Fatalf("lookup must not be called for an empty route")
		return nil, nil
	})
	if NewEnricher(lookup, quietLogger()).Enrich(context.Background(), nil) {
		t.Fatalf("expected failure for empty route")
	}
}

func TestEnrichAllReportsPerRoute(t *testing.T) {
	lookup := lookupFunc(func(_ context.Context, coords []Coordinate) ([]float64, error) {
		if coords[0].Longitude < 0 {
			return nil, errors.New("outside coverage")
		}
		return make([]float64, len(coords)), nil
	})

	good := indexedPoints(20)
	bad := indexedPoints(20)
	for i := range bad {
		bad[i].Lon = -1
	}

	results := NewEnricher(lookup, quietLogger()).WithConcurrency(2).EnrichAll(context.Background(), map[string][]geo.Point{
		"good": good,
		"bad":  bad,
	})
	if !results["good"] || results["bad"] {
		t.Fatalf("unexpected results: %v", results)
	}
	if good[5].Ele == nil || bad[5].Ele != nil {
		t.Fatalf("only the successful route may be written")
	}
}

func TestOpenElevationLookup(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/api/v1/lookup" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Locations []Coordinate `json:"locations"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || len(body.Locations) != 2 {
			t.Errorf("unexpected body: %v %+v", err, body)
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results":[{"latitude":39.7,"longitude":2.7,"elevation":12},{"latitude":39.8,"longitude":2.8,"elevation":845.5}]}`))
	}))
	defer srv.Close()

	got, err := NewOpenElevation(srv.URL+"/", srv.Client()).Elevations(context.Background(), []Coordinate{
		{Latitude: 39.7, Longitude: 2.7},
		{Latitude: 39.8, Longitude: 2.8},
	})
	if err != nil {
		t.Fatalf("lookup: %v", err)
	}
	if len(got) != 2 || got[0] != 12 || got[1] != 845.5 {
		t.Fatalf("unexpected elevations: %v", got)
	}
}

func TestOpenElevationErrors(t *testing.T) {
	responses := map[string]struct {
		status int
		body   string
	}{
		"server error":   {http.StatusBadGateway, `upstream down`},
		"invalid json":   {http.StatusOK, `{"results": [`},
		"no results":     {http.StatusOK, `{"error":"rate limited"}`},
		"null elevation": {http.StatusOK, `{"results":[{"elevation":null}]}`},
	}

	for name, tt := range responses {
		t.Run(name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			_, err := NewOpenElevation(srv.URL, srv.Client()).Elevations(context.Background(), []Coordinate{{Latitude: 1, Longitude: 2}})
			if err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}
