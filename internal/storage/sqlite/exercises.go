package sqlite

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/MrWong99/voicelift/internal/exercise"
)

// Load implements [exercise.Store].
func (s *Store) Load(ctx context.Context) ([]exercise.Definition, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT name, aliases, group_id, bodyweight FROM custom_exercises ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("sqlite: load exercises: %w", err)
	}
	defer rows.Close()

	defs := []exercise.Definition{}
	for rows.Next() {
		var (
			d       = exercise.Definition{Origin: exercise.OriginCustom}
			aliases string
		)
		if err := rows.Scan(&d.Name, &aliases, &d.Group, &d.Bodyweight); err != nil {
			return nil, fmt.Errorf("sqlite: scan exercise: %w", err)
		}
		if err := json.Unmarshal([]byte(aliases), &d.Aliases); err != nil {
			return nil, fmt.Errorf("sqlite: decode aliases of %q: %w", d.Name, err)
		}
		defs = append(defs, d)
	}
	return defs, rows.Err()
}

// Save implements [exercise.Store].
func (s *Store) Save(ctx context.Context, def exercise.Definition) error {
	aliases := def.Aliases
	if aliases == nil {
		aliases = []string{}
	}
	encoded, err := json.Marshal(aliases)
	if err != nil {
		return fmt.Errorf("sqlite: encode aliases of %q: %w", def.Name, err)
	}

	_, err = s.execRetry(ctx,
		`INSERT INTO custom_exercises (name_key, name, aliases, group_id, bodyweight, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		nameKey(def.Name), def.Name, string(encoded), def.Group, def.Bodyweight, time.Now().Unix(),
	)
	if isConstraint(err) {
		return exercise.ErrDuplicate
	}
	if err != nil {
		return fmt.Errorf("sqlite: save exercise %q: %w", def.Name, err)
	}
	return nil
}

// Exists implements [exercise.Store].
func (s *Store) Exists(ctx context.Context, name string) (bool, error) {
	var ok bool
	err := s.db.QueryRowContext(ctx,
		`SELECT EXISTS (SELECT 1 FROM custom_exercises WHERE name_key = ?)`, nameKey(name),
	).Scan(&ok)
	if err != nil {
		return false, fmt.Errorf("sqlite: exercise exists: %w", err)
	}
	return ok, nil
}

func nameKey(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
