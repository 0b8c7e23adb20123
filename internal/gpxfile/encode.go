package gpxfile

import (
	"errors"
	"fmt"

	"backend-ggtm26/internal/shared/geo"

	"github.com/tkrajina/gpxgo/gpx"
)

const (
	Version     = "1.1"
	Namespace   = "http://www.topografix.com/GPX/1/1"
	Creator     = "Gåpings Mallorca Getaway"
	ContentType = "application/gpx+xml"
)

var ErrNoPoints = errors.New("no points to encode")

// Document is a single-track GPX file. Points are written in the given order,
// including any jumps where two routes meet.
type Document struct {
	Name      string
	TrackName string
	Points    []geo.Point
}

// Encode writes doc as GPX 1.1. Coordinates are written with 10 decimal
// places, so decoding the output reproduces any input with at most 10
// decimals exactly and finer values rounded to the nearest 1e-10 degree.
func Encode(doc Document) ([]byte, error) {
	if len(doc.Points) == 0 {
		return nil, ErrNoPoints
	}

	segment := gpx.GPXTrackSegment{Points: make([]gpx.GPXPoint, 0, len(doc.Points))}
	for _, p := range doc.Points {
		point := gpx.GPXPoint{Point: gpx.Point{Latitude: p.Lat, Longitude: p.Lon}}
		if p.Ele != nil {
			point.Elevation = *gpx.NewNullableFloat64(*p.Ele)
		}
		segment.Points = append(segment.Points, point)
	}

	out := &gpx.GPX{
		XMLNs:   Namespace,
		Version: Version,
		Creator: Creator,
		Name:    doc.Name,
		Tracks: []gpx.GPXTrack{{
			Name:     doc.TrackName,
			Segments: []gpx.GPXTrackSegment{segment},
		}},
	}

	data, err := out.ToXml(gpx.ToXmlParams{Version: Version, Indent: true})
	if err != nil {
		return nil, fmt.Errorf("encode gpx: %w", err)
	}
	return data, nil
}
