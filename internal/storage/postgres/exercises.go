package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"

	"github.com/MrWong99/voicelift/internal/exercise"
)

// Load implements [exercise.Store]. Definitions are returned in insertion
// order.
func (s *Store) Load(ctx context.Context) ([]exercise.Definition, error) {
	const q = `
		SELECT name, aliases, group_id, bodyweight
		FROM   custom_exercises
		ORDER  BY id`

	rows, err := s.pool.Query(ctx, q)
	if err != nil {
		return nil, fmt.Errorf("postgres: load exercises: %w", err)
	}
	defs, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (exercise.Definition, error) {
		d := exercise.Definition{Origin: exercise.OriginCustom}
		err := row.Scan(&d.Name, &d.Aliases, &d.Group, &d.Bodyweight)
		return d, err
	})
	if err != nil {
		return nil, fmt.Errorf("postgres: scan exercises: %w", err)
	}
	if defs == nil {
		defs = []exercise.Definition{}
	}
	return defs, nil
}

// Save implements [exercise.Store].
func (s *Store) Save(ctx context.Context, def exercise.Definition) error {
	const q = `
		INSERT INTO custom_exercises (name_key, name, aliases, group_id, bodyweight)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (name_key) DO NOTHING`

	aliases := def.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	tag, err := s.pool.Exec(ctx, q, nameKey(def.Name), def.Name, aliases, def.Group, def.Bodyweight)
	if err != nil {
		return fmt.Errorf("postgres: save exercise %q: %w", def.Name, err)
	}
	if tag.RowsAffected() == 0 {
		return exercise.ErrDuplicate
	}
	return nil
}

// Exists implements [exercise.Store].
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	const q = `SELECT EXISTS (SELECT 1 FROM custom_exercises WHERE name_key = $1)`

	var ok bool
	if err := s.pool.QueryRow(ctx, q, nameKey(name)).Scan(&ok); err != nil {
		return false, fmt.Errorf("postgres: exercise exists: %w", err)
	}
	return ok, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
