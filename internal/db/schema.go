package db

import (
	"context"
	"fmt"
)

// schema holds the tables the API writes to. Plans live in memory.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS leaderboard (
		rider_id          TEXT PRIMARY KEY,
		rider_name        TEXT NOT NULL,
		climbing_points   INTEGER NOT NULL DEFAULT 0,
		sprint_points     INTEGER NOT NULL DEFAULT 0,
		total_distance_km DOUBLE PRECISION NOT NULL DEFAULT 0,
		activities        INTEGER NOT NULL DEFAULT 0,
		updated_at        TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE INDEX IF NOT EXISTS leaderboard_climbing_idx ON leaderboard (climbing_points DESC)`,
	`CREATE INDEX IF NOT EXISTS leaderboard_sprint_idx ON leaderboard (sprint_points DESC)`,
}

func EnsureSchema(ctx context.Context, q Querier) error {
	for i, stmt := range schema {
		if _, err := q.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("schema statement %d: %w", i+1, err)
		}
	}
	return nil
}
