package competition

import (
	"time"

	"backend-ggtm26/internal/climb"
)

// Activity is an activity record as returned by the Strava athlete activities endpoint.
type Activity struct {
	ID                 int64     `json:"id,omitempty"`
	Name               string    `json:"name"`
	StartDate          time.Time `json:"start_date"`
	Distance           float64   `json:"distance"`    // meters
	MovingTime         int       `json:"moving_time"` // seconds
	TotalElevationGain float64   `json:"total_elevation_gain"`
	Type               string    `json:"type"`
}

type SprintBonus struct {
	MinSpeedKmh float64 `json:"min_speed_kmh"`
	Points      int     `json:"points"`
}

type ActivityScore struct {
	Name           string                `json:"name"`
	Date           time.Time             `json:"date"`
	DistanceKm     float64               `json:"distance_km"`
	TimeHours      float64               `json:"time_hours"`
	ElevationM     float64               `json:"elevation_m"`
	AvgSpeedKmh    float64               `json:"avg_speed_kmh"`
	ClimbingPoints int                   `json:"climbing_points"`
	SprintPoints   int                   `json:"sprint_points"`
	Climb          *climb.Classification `json:"climb,omitempty"`
}

type Score struct {
	Climbing        int             `json:"climbing"`
	Sprint          int             `json:"sprint"`
	TotalDistanceKm float64         `json:"total_distance_km"`
	TotalTimeHours  float64         `json:"total_time_hours"`
	AvgSpeedKmh     float64         `json:"avg_speed_kmh"`
	Activities      []ActivityScore `json:"activities"`
}

type Rider struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type Standing struct {
	RiderID         string    `json:"rider_id"`
	RiderName       string    `json:"rider_name"`
	ClimbingPoints  int       `json:"climbing_points"`
	SprintPoints    int       `json:"sprint_points"`
	TotalDistanceKm float64   `json:"total_distance_km"`
	Activities      int       `json:"activities"`
	UpdatedAt       time.Time `json:"updated_at"`
}
