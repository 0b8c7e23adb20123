package competition

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"backend-ggtm26/internal/db"
)

const defaultBoardSize = 50

var (
	ErrUnavailable  = errors.New("leaderboard storage unavailable")
	ErrUnknownOrder = errors.New("unknown leaderboard order")
	ErrFetchFailed  = errors.New("activity fetch failed")
)

// ORDER BY clause per leaderboard view.
var standingsOrder = map[string]string{
	"climbing": "climbing_points DESC, sprint_points DESC",
	"sprint":   "sprint_points DESC, climbing_points DESC",
	"distance": "total_distance_km DESC",
}

type Service struct {
	db      db.Querier
	fetcher ActivityFetcher
	window  Window
	bonuses []SprintBonus
	logger  *slog.Logger
}

func NewService(q db.Querier, fetcher ActivityFetcher, window Window, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{
		db:      q,
		fetcher: fetcher,
		window:  window,
		bonuses: DefaultSprintBonuses,
		logger:  logger,
	}
}

func (s *Service) Window() Window {
	return s.window
}

// Score rates activities supplied directly by the caller, skipping non-cycling ones.
func (s *Service) Score(activities []Activity) Score {
	return Calculate(FilterCycling(activities), s.bonuses)
}

// Sync fetches the rider's competition activities, scores them and stores the totals.
func (s *Service) Sync(ctx context.Context, rider Rider, accessToken string) (Score, error) {
	if s.fetcher == nil || s.db == nil {
		return Score{}, ErrUnavailable
	}

	activities, err := s.fetcher.Activities(ctx, accessToken, s.window)
	if err != nil {
		s.logger.Warn("activity fetch failed", "rider_id", rider.ID, "error", err)
		return Score{}, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	rides := FilterCycling(activities)
	score := Calculate(rides, s.bonuses)
	s.logger.Info("activities scored",
		"rider_id", rider.ID,
		"fetched", len(activities),
		"rides", len(rides),
		"climbing", score.Climbing,
		"sprint", score.Sprint,
	)

	_, err = s.Upsert(ctx, Standing{
		RiderID:         rider.ID,
		RiderName:       rider.Name,
		ClimbingPoints:  score.Climbing,
		SprintPoints:    score.Sprint,
		TotalDistanceKm: score.TotalDistanceKm,
		Activities:      len(rides),
	})
	if err != nil {
		return Score{}, err
	}
	return score, nil
}

func (s *Service) Upsert(ctx context.Context, st Standing) (Standing, error) {
	if s.db == nil {
		return Standing{}, ErrUnavailable
	}

	row := s.db.QueryRow(ctx, `
		INSERT INTO leaderboard (rider_id, rider_name, climbing_points, sprint_points, total_distance_km, activities, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6,NOW())
		ON CONFLICT (rider_id) DO UPDATE
		SET rider_name=EXCLUDED.rider_name,
		    climbing_points=EXCLUDED.climbing_points,
		    sprint_points=EXCLUDED.sprint_points,
		    total_distance_km=EXCLUDED.total_distance_km,
		    activities=EXCLUDED.activities,
		    updated_at=NOW()
		RETURNING updated_at
	`, st.RiderID, st.RiderName, st.ClimbingPoints, st.SprintPoints, st.TotalDistanceKm, st.Activities)
	if err := row.Scan(&st.UpdatedAt); err != nil {
		return Standing{}, err
	}
	return st, nil
}

func (s *Service) Standings(ctx context.Context, by string, limit int) ([]Standing, error) {
	if s.db == nil {
		return nil, ErrUnavailable
	}
	if by == "" {
		by = "climbing"
	}
	order, ok := standingsOrder[by]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownOrder, by)
	}
	if limit <= 0 {
		limit = defaultBoardSize
	}

	rows, err := s.db.Query(ctx, `
		SELECT rider_id, rider_name, climbing_points, sprint_points, total_distance_km, activities, updated_at
		FROM leaderboard
		ORDER BY `+order+`
		LIMIT $1
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	standings := []Standing{}
	for rows.Next() {
		var st Standing
		if err := rows.Scan(&st.RiderID, &st.RiderName, &st.ClimbingPoints, &st.SprintPoints, &st.TotalDistanceKm, &st.Activities, &st.UpdatedAt); err != nil {
			return nil, err
		}
		standings = append(standings, st)
	}
	return standings, rows.Err()
}
