// Package climb rates a climb by elevation gain and length. The same table scores
// planned routes and competition activities.
package climb

import "math"

const (
	MinLengthKm        = 3.0
	MinGradientPercent = 2.5
	MinElevationM      = 100.0
)

type Category string

const (
	CategoryHC Category = "HC"
	Category1  Category = "1"
	Category2  Category = "2"
	Category3  Category = "3"
	Category4  Category = "4"
)

type tier struct {
	minPoints float64
	category  Category
	name      string
}

// Highest threshold first; a score matches the first tier it reaches.
var tiers = []tier{
	{400, CategoryHC, "Hors Catégorie"},
	{250, Category1, "Kategori 1"},
	{150, Category2, "Kategori 2"},
	{80, Category3, "Kategori 3"},
	{30, Category4, "Kategori 4"},
}

type Classification struct {
	Category        Category `json:"category"`
	CategoryName    string   `json:"category_name"`
	Points          int      `json:"points"`
	ElevationM      int      `json:"elevation_m"`
	LengthKm        float64  `json:"length_km"`
	GradientPercent float64  `json:"gradient_percent"`
}

// Classify returns false when the segment is too short, too flat, too low or
// scores below the lowest category. A false result is not an error.
func Classify(elevationGainM, lengthKm float64) (Classification, bool) {
	gradient := Gradient(elevationGainM, lengthKm)

	if lengthKm < MinLengthKm {
		return Classification{}, false
	}
	if gradient < MinGradientPercent {
		return Classification{}, false
	}
	if elevationGainM < MinElevationM {
		return Classification{}, false
	}

	points := Score(elevationGainM, gradient)
	category, name, ok := CategoryFor(points)
	if !ok {
		return Classification{}, false
	}

	return Classification{
		Category:        category,
		CategoryName:    name,
		Points:          roundHalfUp(points),
		ElevationM:      roundHalfUp(elevationGainM),
		LengthKm:        lengthKm,
		GradientPercent: gradient,
	}, true
}

// Gradient is the average gradient in percent.
func Gradient(elevationGainM, lengthKm float64) float64 {
	return (elevationGainM / (lengthKm * 1000)) * 100
}

// Score is the gradient-weighted point value: elevation × gradient / 10.
func Score(elevationGainM, gradientPercent float64) float64 {
	return (elevationGainM * gradientPercent) / 10
}

// CategoryFor maps a point score onto the category table. Boundaries are inclusive.
func CategoryFor(points float64) (Category, string, bool) {
	for _, t := range tiers {
		if points >= t.minPoints {
			return t.category, t.name, true
		}
	}
	return "", "", false
}

func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
