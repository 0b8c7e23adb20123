package geo

import (
	"math"

	"github.com/paulmach/orb"
)

const earthRadiusKm = 6371.0

// Point is a single track sample. Ele is nil when the elevation is unknown.
type Point struct {
	Lat float64  `json:"lat"`
	Lon float64  `json:"lon"`
	Ele *float64 `json:"ele,omitempty"`
}

// Elevation returns a pointer suitable for Point.Ele.
func Elevation(v float64) *float64 {
	return &v
}

func (p Point) HasElevation() bool {
	return p.Ele != nil
}

func (p Point) finite() bool {
	return !math.IsNaN(p.Lat) && !math.IsNaN(p.Lon) && !math.IsInf(p.Lat, 0) && !math.IsInf(p.Lon, 0)
}

// HaversineKm returns the great-circle distance between two coordinates in kilometers.
func HaversineKm(lat1, lon1, lat2, lon2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLon := toRadians(lon2 - lon1)

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))

	return earthRadiusKm * c
}

func toRadians(deg float64) float64 {
	return deg * math.Pi / 180
}

type Bounds struct {
	MinLat float64 `json:"min_lat"`
	MinLon float64 `json:"min_lon"`
	MaxLat float64 `json:"max_lat"`
	MaxLon float64 `json:"max_lon"`
}

// BoundsOf returns the bounding box of all points with finite coordinates.
// ok is false when no such point exists.
func BoundsOf(points []Point) (Bounds, bool) {
	line := make(orb.LineString, 0, len(points))
	for _, p := range points {
		if !p.finite() {
			continue
		}
		line = append(line, orb.Point{p.Lon, p.Lat})
	}
	if len(line) == 0 {
		return Bounds{}, false
	}

	b := line.Bound()
	return Bounds{
		MinLat: b.Min.Lat(),
		MinLon: b.Min.Lon(),
		MaxLat: b.Max.Lat(),
		MaxLon: b.Max.Lon(),
	}, true
}
