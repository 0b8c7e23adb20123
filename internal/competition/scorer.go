// Package competition scores a rider's cycling activities for the event leaderboard.
package competition

import (
	"backend-ggtm26/internal/climb"
)

var cyclingTypes = map[string]struct{}{
	"Ride":        {},
	"VirtualRide": {},
}

// DefaultSprintBonuses is ordered fastest first; an activity earns the first bonus it reaches.
var DefaultSprintBonuses = []SprintBonus{
	{MinSpeedKmh: 40, Points: 10},
	{MinSpeedKmh: 35, Points: 5},
}

func FilterCycling(activities []Activity) []Activity {
	out := make([]Activity, 0, len(activities))
	for _, a := range activities {
		if _, ok := cyclingTypes[a.Type]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Calculate scores each activity as a single climb over its whole distance plus
// an average-speed sprint bonus.
func Calculate(activities []Activity, bonuses []SprintBonus) Score {
	if bonuses == nil {
		bonuses = DefaultSprintBonuses
	}

	score := Score{Activities: make([]ActivityScore, 0, len(activities))}
	for _, a := range activities {
		as := ActivityScore{
			Name:       a.Name,
			Date:       a.StartDate,
			DistanceKm: a.Distance / 1000,
			TimeHours:  float64(a.MovingTime) / 3600,
			ElevationM: a.TotalElevationGain,
		}
		if as.TimeHours > 0 {
			as.AvgSpeedKmh = as.DistanceKm / as.TimeHours
		}

		if c, ok := climb.Classify(a.TotalElevationGain, as.DistanceKm); ok {
			as.ClimbingPoints = c.Points
			as.Climb = &c
		}

		for _, b := range bonuses {
			if as.AvgSpeedKmh >= b.MinSpeedKmh {
				as.SprintPoints = b.Points
				break
			}
		}

		score.Climbing += as.ClimbingPoints
		score.Sprint += as.SprintPoints
		score.TotalDistanceKm += as.DistanceKm
		score.TotalTimeHours += as.TimeHours
		score.Activities = append(score.Activities, as)
	}

	if score.TotalTimeHours > 0 {
		score.AvgSpeedKmh = score.TotalDistanceKm / score.TotalTimeHours
	}
	return score
}
