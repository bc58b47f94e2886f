package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/MrWong99/voicelift/internal/workout"
)

// Append implements [session.Journal].
func (s *Store) Append(ctx context.Context, sessionID string, set workout.LoggedSet) error {
	const q = `
		INSERT INTO logged_sets
		    (id, session_id, exercise, weight, reps, bodyweight, logged_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`

	_, err := s.pool.Exec(ctx, q,
		set.ID,
		sessionID,
		set.Exercise,
		set.Weight,
		set.Reps,
		set.Bodyweight,
		set.Timestamp,
	)
	if err != nil {
		return fmt.Errorf("postgres: append set: %w", err)
	}
	return nil
}

// List implements [session.Journal]. Sets are returned in the order they
// were appended.
func (s *Store) List(ctx context.Context, sessionID string) ([]workout.LoggedSet, error) {
	const q = `
		SELECT id, exercise, weight, reps, bodyweight, logged_at
		FROM   logged_sets
		WHERE  session_id = $1
		ORDER  BY seq`

	rows, err := s.pool.Query(ctx, q, sessionID)
	if err != nil {
		return nil, fmt.Errorf("postgres: list sets: %w", err)
	}
	sets, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (workout.LoggedSet, error) {
		var ls workout.LoggedSet
		err := row.Scan(&ls.ID, &ls.Exercise, &ls.Weight, &ls.Reps, &ls.Bodyweight, &ls.Timestamp)
		return ls, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan sets: %w", err)
	}
	if sets == nil {
		sets = []workout.LoggedSet{}
	}
	return sets, nil
}
