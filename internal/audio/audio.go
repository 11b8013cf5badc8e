// Package audio defines the boundary between the rhythm runtime and a
// synthesis backend: a monotonic clock in seconds and a sink that accepts
// timestamped note events.
package audio

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// Layer identifies one instrument voice in the mix.
type Layer int

const (
	LayerKick Layer = iota
	LayerSnare
	LayerHiHat
	LayerBass
	LayerMelody
	LayerPad
	LayerArp
)

var layerNames = [...]string{"kick", "snare", "hihat", "bass", "melody", "pad", "arp"}

func (l Layer) String() string {
	if l < 0 || int(l) >= len(layerNames) {
		return fmt.Sprintf("layer(%d)", int(l))
	}
	return layerNames[l]
}

// Gameplay reports whether the layer is driven by player jumps rather than the pattern.
func (l Layer) Gameplay() bool {
	return l <= LayerMelody
}

// Event is one scheduled note.
type Event struct {
	Layer Layer
	// Time is the absolute start time on the backend clock, in seconds.
	Time float64
	// Pitch is a semitone offset from the pattern root.
	Pitch int
	// Step is the 16th-note index within the bar, or -1 for jump-triggered notes.
	Step int
	// Velocity is the loudness in [0, 1].
	Velocity float64
	// Style is a free-form timbre hint ("perfect", "good", "miss", "fire").
	Style string
}

// Sink accepts scheduled events. Implementations must not block.
type Sink interface {
	Emit(ev Event) error
}

// SinkFunc adapts a function to Sink.
type SinkFunc func(ev Event) error

// Emit calls f(ev).
func (f SinkFunc) Emit(ev Event) error {
	return f(ev)
}

// Discard drops every event.
var Discard Sink = SinkFunc(func(Event) error { return nil })

// ErrDropped is returned by a sink that could not accept an event in time.
var ErrDropped = errors.New("audio: event dropped")

// Clock is the backend time source, in seconds.
type Clock interface {
	Now() float64
}

// WallClock reports seconds elapsed since it was created.
type WallClock struct {
	start time.Time
	now   func() time.Time
}

// NewWallClock starts a wall clock at zero.
func NewWallClock() *WallClock {
	return &WallClock{start: time.Now(), now: time.Now}
}

// Now returns elapsed seconds.
func (c *WallClock) Now() float64 {
	return c.now().Sub(c.start).Seconds()
}

// ManualClock is advanced explicitly. Used by the headless runner and tests.
type ManualClock struct {
	mu sync.Mutex
	t  float64
}

// NewManualClock creates a clock at t seconds.
func NewManualClock(t float64) *ManualClock {
	return &ManualClock{t: t}
}

// Now returns the current time.
func (c *ManualClock) Now() float64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.t
}

// Set moves the clock to t. Moving backwards is allowed.
func (c *ManualClock) Set(t float64) {
	c.mu.Lock()
	c.t = t
	c.mu.Unlock()
}

// Advance moves the clock forward by dt seconds.
func (c *ManualClock) Advance(dt float64) {
	c.mu.Lock()
	c.t += dt
	c.mu.Unlock()
}
