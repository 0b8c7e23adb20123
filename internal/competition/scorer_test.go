package competition

import (
	"math"
	"testing"
	"time"

	"backend-ggtm26/internal/climb"
)

func TestFilterCycling(t *testing.T) {
	activities := []Activity{
		{Name: "morning", Type: "Ride"},
		{Name: "trainer", Type: "VirtualRide"},
		{Name: "jog", Type: "Run"},
		{Name: "gravel", Type: "GravelRide"},
	}
	got := FilterCycling(activities)
	if len(got) != 2 || got[0].Name != "morning" || got[1].Name != "trainer" {
		t.Fatalf("unexpected filter result: %+v", got)
	}
}

func TestCalculate(t *testing.T) {
	start := time.Date(2026, 3, 16, 8, 0, 0, 0, time.UTC)
	activities := []Activity{
		{Name: "long day", StartDate: start, Distance: 100000, MovingTime: 10800, TotalElevationGain: 1500, Type: "Ride"},
		{Name: "flat out", StartDate: start, Distance: 40000, MovingTime: 3600, TotalElevationGain: 400, Type: "Ride"},
		{Name: "Sa Calobra", StartDate: start, Distance: 9530, MovingTime: 2400, TotalElevationGain: 686, Type: "Ride"},
		{Name: "tempo", StartDate: start, Distance: 36000, MovingTime: 3600, TotalElevationGain: 90, Type: "VirtualRide"},
	}

	score := Calculate(activities, nil)

	if score.Climbing != 494 {
		t.Fatalf("climbing %d, want 494", score.Climbing)
	}
	if score.Sprint != 15 {
		t.Fatalf("sprint %d, want 15", score.Sprint)
	}
	if math.Abs(score.TotalDistanceKm-185.53) > 1e-9 {
		t.Fatalf("distance %v", score.TotalDistanceKm)
	}
	wantHours := 3 + 1 + 2400.0/3600 + 1
	if math.Abs(score.TotalTimeHours-wantHours) > 1e-9 {
		t.Fatalf("time %v, want %v", score.TotalTimeHours, wantHours)
	}
	if math.Abs(score.AvgSpeedKmh-185.53/wantHours) > 1e-9 {
		t.Fatalf("avg speed %v", score.AvgSpeedKmh)
	}

	perActivity := []struct {
		sprint   int
		climbing int
	}{
		{0, 0},
		{10, 0},
		{0, 494},
		{5, 0},
	}
	for i, want := range perActivity {
		got := score.Activities[i]
		if got.SprintPoints != want.sprint || got.ClimbingPoints != want.climbing {
			t.Fatalf("activity %d: %+v", i, got)
		}
	}
	if score.Activities[2].Climb == nil || score.Activities[2].Climb.Category != climb.CategoryHC {
		t.Fatalf("expected HC classification on Sa Calobra")
	}
	if score.Activities[0].Climb != nil {
		t.Fatalf("a flat long ride is not a climb")
	}
}

func TestCalculateZeroMovingTime(t *testing.T) {
	score := Calculate([]Activity{{Name: "upload glitch", Distance: 5000, Type: "Ride"}}, nil)
	if score.AvgSpeedKmh != 0 || score.Activities[0].AvgSpeedKmh != 0 {
		t.Fatalf("expected zero speed, got %+v", score)
	}
	if score.Sprint != 0 {
		t.Fatalf("no sprint points without moving time")
	}

	empty := Calculate(nil, nil)
	if empty.AvgSpeedKmh != 0 || len(empty.Activities) != 0 {
		t.Fatalf("unexpected empty score: %+v", empty)
	}
}

func TestCalculateCustomBonuses(t *testing.T) {
	bonuses := []SprintBonus{{MinSpeedKmh: 25, Points: 3}}
	score := Calculate([]Activity{{Distance: 30000, MovingTime: 3600, Type: "Ride"}}, bonuses)
	if score.Sprint != 3 {
		t.Fatalf("sprint %d, want 3", score.Sprint)
	}
}
