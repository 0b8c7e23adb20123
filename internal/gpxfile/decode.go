// Package gpxfile reads track points out of GPX documents and writes day exports back as GPX 1.1.
package gpxfile

import (
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"backend-ggtm26/internal/shared/geo"
)

// ErrMalformedDocument means no GPX structure could be read at all, as opposed
// to a readable document that simply has no track points.
var ErrMalformedDocument = errors.New("malformed GPX document")

// Warning flags a track point attribute or element that could not be parsed.
type Warning struct {
	Index int    `json:"index"`
	Field string `json:"field"`
	Value string `json:"value"`
}

func (w Warning) String() string {
	return fmt.Sprintf("trkpt %d: invalid %s %q", w.Index, w.Field, w.Value)
}

type Decoded struct {
	Points   []geo.Point `json:"points"`
	Warnings []Warning   `json:"warnings,omitempty"`
}

// Decode collects every trkpt in document order. Unparseable coordinates are kept
// as NaN and reported as warnings; an unparseable elevation is reported and left unknown.
func Decode(r io.Reader) (Decoded, error) {
	dec := xml.NewDecoder(r)

	var out Decoded
	sawRoot := false

	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}

		start, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if !sawRoot {
			if start.Name.Local != "gpx" {
				return Decoded{}, fmt.Errorf("%w: root element is <%s>", ErrMalformedDocument, start.Name.Local)
			}
			sawRoot = true
			continue
		}
		if start.Name.Local != "trkpt" {
			continue
		}

		point, err := decodeTrackPoint(dec, start, len(out.Points), &out.Warnings)
		if err != nil {
			return Decoded{}, fmt.Errorf("%w: %v", ErrMalformedDocument, err)
		}
		out.Points = append(out.Points, point)
	}

	if !sawRoot {
		return Decoded{}, fmt.Errorf("%w: no root element", ErrMalformedDocument)
	}
	return out, nil
}

// ParseString is Decode over an in-memory document.
func ParseString(doc string) (Decoded, error) {
	return Decode(strings.NewReader(doc))
}

func decodeTrackPoint(dec *xml.Decoder, start xml.StartElement, index int, warnings *[]Warning) (geo.Point, error) {
	point := geo.Point{
		Lat: parseCoordinate(start, "lat", index, warnings),
		Lon: parseCoordinate(start, "lon", index, warnings),
	}

	seenEle := false
	depth := 1
	for depth > 0 {
		tok, err := dec.Token()
		if err != nil {
			return geo.Point{}, err
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "ele" && !seenEle {
				seenEle = true
				var text string
				if err := dec.DecodeElement(&text, &t); err != nil {
					return geo.Point{}, err
				}
				text = strings.TrimSpace(text)
				if v, err := strconv.ParseFloat(text, 64); err == nil {
					point.Ele = geo.Elevation(v)
				} else {
					*warnings = append(*warnings, Warning{Index: index, Field: "ele", Value: text})
				}
				continue
			}
			depth++
		case xml.EndElement:
			depth--
		}
	}
	return point, nil
}

func parseCoordinate(start xml.StartElement, name string, index int, warnings *[]Warning) float64 {
	for _, attr := range start.Attr {
		if attr.Name.Local != name {
			continue
		}
		v, err := strconv.ParseFloat(strings.TrimSpace(attr.Value), 64)
		if err != nil {
			*warnings = append(*warnings, Warning{Index: index, Field: name, Value: attr.Value})
			return math.NaN()
		}
		return v
	}
	*warnings = append(*warnings, Warning{Index: index, Field: name})
	return math.NaN()
}
