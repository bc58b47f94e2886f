package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/MrWong99/voicelift/internal/workout"
)

// Append implements [session.Journal].
func (s *Store) Append(ctx context.Context, sessionID string, set workout.LoggedSet) error {
	_, err := s.execRetry(ctx,
		`INSERT INTO logged_sets (id, session_id, exercise, weight, reps, bodyweight, logged_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		set.ID, sessionID, set.Exercise, set.Weight, set.Reps, set.Bodyweight, set.Timestamp.UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("sqlite: append set: %w", err)
	}
	return nil
}

// List implements [session.Journal].
func (s *Store) List(ctx context.Context, sessionID string) ([]workout.LoggedSet, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, exercise, weight, reps, bodyweight, logged_at
		 FROM logged_sets WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("sqlite: list sets: %w", err)
	}
	defer rows.Close()

	sets := []workout.LoggedSet{}
	for rows.Next() {
		var (
			ls       workout.LoggedSet
			loggedAt int64
		)
		if err := rows.Scan(&ls.ID, &ls.Exercise, &ls.Weight, &ls.Reps, &ls.Bodyweight, &loggedAt); err != nil {
			return nil, fmt.Errorf("sqlite: scan set: %w", err)
		}
		ls.Timestamp = time.UnixMilli(loggedAt).UTC()
		sets = append(sets, ls)
	}
	return sets, rows.Err()
}
