// Package formats provides pluggable level file format parsers.
package formats

import (
	"errors"
	"fmt"
)

// Level is a parsed level file before platform types are resolved.
type Level struct {
	ID        string            `yaml:"id" toml:"id"`
	Name      string            `yaml:"name" toml:"name"`
	Tempo     float64           `yaml:"tempo" toml:"tempo"`
	GoalX     float64           `yaml:"goal_x" toml:"goal_x"`
	Spawn     Point             `yaml:"spawn" toml:"spawn"`
	Pattern   Pattern           `yaml:"pattern" toml:"pattern"`
	Platforms []Platform        `yaml:"platforms" toml:"platforms"`
	Metadata  map[string]string `yaml:"metadata,omitempty" toml:"metadata,omitempty"`
}

// Point is a world position.
type Point struct {
	X float64 `yaml:"x" toml:"x"`
	Y float64 `yaml:"y" toml:"y"`
}

// Pattern holds the 16-step ambient tables as scale degrees.
type Pattern struct {
	Scale []int `yaml:"scale,omitempty" toml:"scale,omitempty"`
	Pad   []int `yaml:"pad,omitempty" toml:"pad,omitempty"`
	Arp   []int `yaml:"arp,omitempty" toml:"arp,omitempty"`
	Bass  []int `yaml:"bass,omitempty" toml:"bass,omitempty"`
}

// Platform is one placement record.
type Platform struct {
	Type      string  `yaml:"type" toml:"type"`
	X         float64 `yaml:"x" toml:"x"`
	Y         float64 `yaml:"y" toml:"y"`
	W         float64 `yaml:"w" toml:"w"`
	H         float64 `yaml:"h" toml:"h"`
	Motion    *Motion `yaml:"motion,omitempty" toml:"motion,omitempty"`
	Direction float64 `yaml:"direction,omitempty" toml:"direction,omitempty"`
	Target    *Point  `yaml:"target,omitempty" toml:"target,omitempty"`
}

// Motion is an optional oscillation.
type Motion struct {
	Pattern   string  `yaml:"pattern" toml:"pattern"`
	Amplitude float64 `yaml:"amplitude" toml:"amplitude"`
	Speed     float64 `yaml:"speed" toml:"speed"`
	Phase     float64 `yaml:"phase,omitempty" toml:"phase,omitempty"`
}

// ErrNoID is returned for level files without an id.
var ErrNoID = errors.New("level has no id")

// Validate checks structural constraints shared by every format.
func (l *Level) Validate() error {
	if l.ID == "" {
		return ErrNoID
	}
	if len(l.Platforms) == 0 {
		return fmt.Errorf("level %s has no platforms", l.ID)
	}
	if l.GoalX <= l.Spawn.X {
		return fmt.Errorf("level %s goal_x %.0f is not past spawn x %.0f", l.ID, l.GoalX, l.Spawn.X)
	}
	for i, p := range l.Platforms {
		if p.W <= 0 || p.H <= 0 {
			return fmt.Errorf("level %s platform %d has non-positive size %.0fx%.0f", l.ID, i, p.W, p.H)
		}
	}
	return nil
}

// FormatExtensions returns supported file extensions.
func FormatExtensions() []string {
	return []string{".yaml", ".yml", ".toml"}
}
