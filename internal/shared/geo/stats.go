package geo

import "math"

// Stats summarises a point sequence. Min/max stay nil when no point carries an elevation.
type Stats struct {
	DistanceKm     float64 `json:"distance_km"`
	ElevationGainM int     `json:"elevation_gain_m"`
	ElevationLossM int     `json:"elevation_loss_m"`
	MinElevationM  *int    `json:"min_elevation_m"`
	MaxElevationM  *int    `json:"max_elevation_m"`
}

// ComputeStats returns nil for fewer than two points.
//
// Gain and loss only accumulate over consecutive pairs where both elevations are
// known, so a gap in the elevation data is skipped rather than counted. Pairs
// with an unreadable (NaN) coordinate add no distance.
func ComputeStats(points []Point) *Stats {
	if len(points) < 2 {
		return nil
	}

	var distance, gain, loss float64
	var minEle, maxEle *float64

	for i, p := range points {
		if p.Ele != nil {
			if minEle == nil || *p.Ele < *minEle {
				minEle = Elevation(*p.Ele)
			}
			if maxEle == nil || *p.Ele > *maxEle {
				maxEle = Elevation(*p.Ele)
			}
		}
		if i == 0 {
			continue
		}

		prev := points[i-1]
		if prev.finite() && p.finite() {
			distance += HaversineKm(prev.Lat, prev.Lon, p.Lat, p.Lon)
		}

		if prev.Ele != nil && p.Ele != nil {
			diff := *p.Ele - *prev.Ele
			if diff > 0 {
				gain += diff
			} else {
				loss += math.Abs(diff)
			}
		}
	}

	stats := &Stats{
		DistanceKm:     math.Round(distance*10) / 10,
		ElevationGainM: roundHalfUp(gain),
		ElevationLossM: roundHalfUp(loss),
	}
	if minEle != nil {
		v := roundHalfUp(*minEle)
		stats.MinElevationM = &v
	}
	if maxEle != nil {
		v := roundHalfUp(*maxEle)
		stats.MaxElevationM = &v
	}
	return stats
}

// roundHalfUp rounds .5 towards positive infinity, also for negative elevations below sea level.
func roundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}
