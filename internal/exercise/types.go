// Package exercise holds the exercise library: the built-in catalog, the
// user's custom exercises and the merged [Index] the resolver scans.
package exercise

import "strings"

// Origin records where an exercise definition came from.
type Origin string

const (
	// OriginCore marks a built-in catalog exercise. Core entries never change
	// at runtime.
	OriginCore Origin = "core"

	// OriginCustom marks an exercise the user created, usually by confirming a
	// new-exercise candidate in quick-start mode.
	OriginCustom Origin = "custom"
)

// IsValid reports whether o is a recognised origin.
func (o Origin) IsValid() bool {
	return o == OriginCore || o == OriginCustom
}

// Definition describes one exercise.
type Definition struct {
	// Name is the canonical display name ("Bench Press"). Unique across the
	// library, compared case-insensitively.
	Name string `yaml:"name" json:"name"`

	// Aliases are alternative spoken forms. They are matched lowercase.
	Aliases []string `yaml:"aliases,omitempty" json:"aliases,omitempty"`

	// Group is the muscle-group tag ("chest", "legs", ...).
	Group string `yaml:"group,omitempty" json:"group,omitempty"`

	// Bodyweight is true for exercises normally performed without load.
	Bodyweight bool `yaml:"bodyweight,omitempty" json:"bodyweight,omitempty"`

	// Origin is [OriginCore] or [OriginCustom].
	Origin Origin `yaml:"origin,omitempty" json:"origin"`
}

// key is the case-insensitive lookup form of a name or alias.
func key(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}
