package exercise

import (
	"context"
	"errors"
)

// ErrNotFound is returned when the requested exercise does not exist.
var ErrNotFound = errors.New("exercise not found")

// ErrDuplicate is returned by Save when an exercise with the same name
// (case-insensitive) already exists.
var ErrDuplicate = errors.New("exercise with that name already exists")

// ErrInvalid wraps validation failures reported by [Library.Add].
var ErrInvalid = errors.New("invalid exercise definition")

// Store persists custom exercise definitions. Core catalog entries are never
// stored.
//
// All implementations must be safe for concurrent use.
type Store interface {
	// Load returns every stored custom exercise in insertion order.
	Load(ctx context.Context) ([]Definition, error)

	// Save stores a new custom exercise.
	// Returns [ErrDuplicate] if one with the same name exists.
	Save(ctx context.Context, def Definition) error

	// Exists reports whether a custom exercise with name is stored.
	Exists(ctx context.Context, name string) (bool, error)
}
