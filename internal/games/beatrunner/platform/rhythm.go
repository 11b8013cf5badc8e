package platform

import (
	"math"

	"github.com/tanema/gween/ease"
)

// rhythmFade is the width of the solid-to-intangible ramp, in beat fractions.
const rhythmFade = 0.1

// RhythmLock gates non-deadly platforms on the beat. It is owned by the
// simulation and passed into every collidability query.
type RhythmLock struct {
	Enabled bool
	// Threshold is the solidity below which gated platforms stop colliding.
	Threshold float64
	// Window is the solid fraction of the beat on each side of the downbeat.
	Window float64
	// Solidity is the envelope value for the current frame, in [0, 1].
	Solidity float64
}

// DefaultRhythmLock returns a disabled lock with a 25% window.
func DefaultRhythmLock() RhythmLock {
	return RhythmLock{Threshold: 0.5, Window: 0.25, Solidity: 1}
}

// BeatSolidity maps a beat phase in [0, 1) to solidity: 1 within window of
// the nearest beat, 0 in the middle, eased in between.
func BeatSolidity(phase, window float64) float64 {
	phase -= math.Floor(phase)
	d := math.Min(phase, 1-phase)
	switch {
	case d <= window:
		return 1
	case d >= window+rhythmFade:
		return 0
	}
	return 1 - float64(ease.InOutQuad(float32(d-window), 0, 1, rhythmFade))
}

// WithPhase returns the lock with Solidity recomputed for phase.
// A disabled lock is always fully solid.
func (l RhythmLock) WithPhase(phase float64) RhythmLock {
	if !l.Enabled {
		l.Solidity = 1
		return l
	}
	l.Solidity = BeatSolidity(phase, l.Window)
	return l
}

// OffBeat reports whether gated platforms are intangible this frame.
func (l RhythmLock) OffBeat() bool {
	return l.Enabled && l.Solidity < l.Threshold
}
