package platform

import (
	"math"
	"strings"
)

// MotionPattern selects how a moving platform oscillates.
type MotionPattern int

const (
	MotionNone MotionPattern = iota
	MotionHorizontal
	MotionVertical
	MotionCircular
)

// ParseMotionPattern maps a level-file name to a pattern. Unknown names mean no motion.
func ParseMotionPattern(s string) MotionPattern {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "horizontal", "h":
		return MotionHorizontal
	case "vertical", "v":
		return MotionVertical
	case "circular", "circle", "c":
		return MotionCircular
	default:
		return MotionNone
	}
}

// Motion is an oscillation around the platform origin.
// Speed is in radians per second.
type Motion struct {
	Pattern   MotionPattern
	Amplitude float64
	Speed     float64
	Phase     float64
}

// Offset returns the displacement from the origin at time t.
func (m Motion) Offset(t float64) (dx, dy float64) {
	a := m.Speed*t + m.Phase
	switch m.Pattern {
	case MotionHorizontal:
		return m.Amplitude * math.Sin(a), 0
	case MotionVertical:
		return 0, m.Amplitude * math.Sin(a)
	case MotionCircular:
		return m.Amplitude * math.Cos(a), m.Amplitude * math.Sin(a)
	default:
		return 0, 0
	}
}

// Moving reports whether the platform ever leaves its origin.
func (m Motion) Moving() bool {
	return m.Pattern != MotionNone && m.Amplitude != 0 && m.Speed != 0
}
