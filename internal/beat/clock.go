// Package beat implements the look-ahead beat scheduler and the timing
// evaluator that grades player actions against it.
package beat

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beat-runner/internal/audio"
)

// Config tunes tempo and scheduling. Times are in seconds.
type Config struct {
	BaseBPM    float64
	BPMPerJump float64
	MaxBPM     float64

	// MinSpeed and MaxSpeed bound the live speed multiplier.
	MinSpeed float64
	MaxSpeed float64

	// ScheduleAhead is the look-ahead window.
	ScheduleAhead float64
	// StallThreshold is how far behind now the cursor may fall before it snaps forward.
	StallThreshold float64
	// MaxCatchUp bounds events scheduled per tick.
	MaxCatchUp int
}

// DefaultConfig returns the stock tempo and scheduler settings.
func DefaultConfig() Config {
	return Config{
		BaseBPM:        110,
		BPMPerJump:     0.5,
		MaxBPM:         180,
		MinSpeed:       0.5,
		MaxSpeed:       3.0,
		ScheduleAhead:  0.1,
		StallThreshold: 0.5,
		MaxCatchUp:     32,
	}
}

// Clock schedules ambient pattern events ahead of the backend clock and
// tracks the beat grid that jumps are graded against.
type Clock struct {
	cfg     Config
	time    audio.Clock
	sink    audio.Sink
	pattern Pattern
	logger  *log.Logger

	baseBPM   float64
	jumpCount int
	speed     float64
	intensity float64

	nextEventTime float64
	beatIndex     int
	lastBeatTime  float64
	pendingBeats  []float64
	running       bool
	dropped       int
}

// NewClock creates a stopped clock. A nil sink discards events; a nil
// logger discards log output.
func NewClock(cfg Config, t audio.Clock, sink audio.Sink, logger *log.Logger) *Clock {
	if sink == nil {
		sink = audio.Discard
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	if cfg.MaxCatchUp <= 0 {
		cfg.MaxCatchUp = DefaultConfig().MaxCatchUp
	}
	if cfg.BaseBPM <= 0 {
		cfg.BaseBPM = DefaultConfig().BaseBPM
	}
	c := &Clock{
		cfg:     cfg,
		time:    t,
		sink:    sink,
		pattern: DefaultPattern(),
		logger:  logger,
		baseBPM: cfg.BaseBPM,
	}
	c.Reset()
	return c
}

// Start begins scheduling from the current backend time.
func (c *Clock) Start() {
	if c.running {
		return
	}
	now := c.time.Now()
	c.nextEventTime = now
	c.lastBeatTime = now
	c.beatIndex = 0
	c.pendingBeats = nil
	c.running = true
}

// Stop halts scheduling. Already emitted events are not recalled.
func (c *Clock) Stop() {
	c.running = false
	c.pendingBeats = nil
}

// Running reports whether Tick schedules events.
func (c *Clock) Running() bool {
	return c.running
}

// Reset returns tempo and the bar cursor to their initial values in one step.
// The running flag is left as is.
func (c *Clock) Reset() {
	now := c.time.Now()
	c.jumpCount = 0
	c.speed = 1
	c.intensity = 1
	c.nextEventTime = now
	c.lastBeatTime = now
	c.beatIndex = 0
	c.pendingBeats = nil
	c.dropped = 0
}

// SetBaseBPM changes the level tempo. Non-positive values are ignored.
func (c *Clock) SetBaseBPM(bpm float64) {
	if bpm > 0 {
		c.baseBPM = bpm
	}
}

// SetPattern replaces the ambient pattern table.
func (c *Clock) SetPattern(p Pattern) {
	c.pattern = p
}

// SetSpeedMultiplier sets the live gameplay speed, clamped to [MinSpeed, MaxSpeed].
func (c *Clock) SetSpeedMultiplier(m float64) {
	if math.IsNaN(m) {
		return
	}
	lo, hi := c.cfg.MinSpeed, c.cfg.MaxSpeed
	if lo > 0 && m < lo {
		m = lo
	}
	if hi > 0 && m > hi {
		m = hi
	}
	c.speed = m
}

// SpeedMultiplier returns the clamped speed multiplier.
func (c *Clock) SpeedMultiplier() float64 {
	return c.speed
}

// SetIntensity feeds the combo multiplier into ambient layer velocity.
func (c *Clock) SetIntensity(m float64) {
	if m < 1 {
		m = 1
	}
	c.intensity = m
}

// Tempo returns the effective BPM.
func (c *Clock) Tempo() float64 {
	bpm := c.baseBPM + float64(c.jumpCount)*c.cfg.BPMPerJump
	if c.cfg.MaxBPM > 0 && bpm > c.cfg.MaxBPM {
		bpm = c.cfg.MaxBPM
	}
	return bpm * c.speed
}

// BeatInterval returns seconds per quarter-note beat.
func (c *Clock) BeatInterval() float64 {
	return 60 / c.Tempo()
}

// SixteenthInterval returns seconds per 16th-note step.
func (c *Clock) SixteenthInterval() float64 {
	return c.BeatInterval() / StepsPerBeat
}

// Tick schedules every step due inside the look-ahead window and returns
// how many steps it scheduled.
func (c *Clock) Tick() int {
	if !c.running {
		return 0
	}
	now := c.time.Now()
	if behind := now - c.nextEventTime; behind > c.cfg.StallThreshold {
		c.logger.Debug("scheduler fell behind, skipping ahead", "behind", behind)
		c.nextEventTime = now
		c.pendingBeats = nil
		// restart the beat grid at now so phase and grading follow the new beats
		if r := c.beatIndex % StepsPerBeat; r != 0 {
			c.beatIndex = (c.beatIndex + StepsPerBeat - r) % StepsPerBar
		}
		c.lastBeatTime = now
	}

	n := 0
	horizon := now + c.cfg.ScheduleAhead
	for c.nextEventTime < horizon && n < c.cfg.MaxCatchUp {
		c.scheduleEvent(c.beatIndex, c.nextEventTime)
		c.nextEventTime += c.SixteenthInterval()
		c.beatIndex = (c.beatIndex + 1) % StepsPerBar
		n++
	}
	c.promoteBeats(now)
	return n
}

func (c *Clock) scheduleEvent(step int, at float64) {
	if step%StepsPerBeat == 0 {
		c.pendingBeats = append(c.pendingBeats, at)
	}
	if d := c.pattern.Pad[step]; d > 0 {
		c.emit(audio.Event{
			Layer:    audio.LayerPad,
			Time:     at,
			Pitch:    c.pattern.Pitch(d),
			Step:     step,
			Velocity: 0.4,
			Style:    "pad",
		})
	}
	if d := c.pattern.Arp[step]; d > 0 {
		// intensity runs 1..1.5 with the combo multiplier
		c.emit(audio.Event{
			Layer:    audio.LayerArp,
			Time:     at,
			Pitch:    c.pattern.Pitch(d) + 12,
			Step:     step,
			Velocity: math.Min(1, 0.3+0.8*(c.intensity-1)),
			Style:    "arp",
		})
	}
}

// promoteBeats moves lastBeatTime to the latest scheduled beat not after now.
func (c *Clock) promoteBeats(now float64) {
	i := 0
	for i < len(c.pendingBeats) && c.pendingBeats[i] <= now {
		c.lastBeatTime = c.pendingBeats[i]
		i++
	}
	c.pendingBeats = c.pendingBeats[i:]
}

// TriggerJump emits the gameplay layers for a graded jump at the current
// backend time, then counts the jump toward tempo. Only future steps use the new tempo.
func (c *Clock) TriggerJump(j Judgement) {
	now := c.time.Now()
	style := j.Grade.String()
	if j.Label == LabelOnFire {
		style = "fire"
	}

	c.emit(audio.Event{Layer: audio.LayerKick, Time: now, Step: -1, Velocity: j.Grade.velocity(), Style: style})
	if j.Grade == GradePerfect {
		c.emit(audio.Event{Layer: audio.LayerSnare, Time: now, Step: -1, Velocity: 0.8, Style: style})
	}
	if j.Streak >= 3 {
		c.emit(audio.Event{Layer: audio.LayerHiHat, Time: now, Step: -1, Velocity: 0.5, Style: style})
	}

	bass := c.pattern.Bass[c.beatIndex]
	if bass == 0 {
		bass = 1
	}
	c.emit(audio.Event{Layer: audio.LayerBass, Time: now, Pitch: c.pattern.Pitch(bass) - 12, Step: -1, Velocity: 0.7, Style: style})

	if j.Grade != GradeMiss {
		degree := 1 + j.Streak%(2*len(c.pattern.Scale)+1)
		c.emit(audio.Event{Layer: audio.LayerMelody, Time: now, Pitch: c.pattern.Pitch(degree), Step: -1, Velocity: 0.6, Style: style})
	}

	c.jumpCount++
}

func (c *Clock) emit(ev audio.Event) {
	if err := c.sink.Emit(ev); err != nil {
		c.dropped++
		c.logger.Debug("audio event not delivered", "layer", ev.Layer, "error", err)
	}
}

// BeatPhaseAt returns the position inside the current beat in [0, 1) at time now.
func (c *Clock) BeatPhaseAt(now float64) float64 {
	interval := c.BeatInterval()
	e := math.Mod(now-c.lastBeatTime, interval)
	if e < 0 {
		e += interval
	}
	return e / interval
}

// CurrentBeatPhase returns BeatPhaseAt(backend now).
func (c *Clock) CurrentBeatPhase() float64 {
	return c.BeatPhaseAt(c.time.Now())
}

// Timing captures the clock in milliseconds for grading a jump.
func (c *Clock) Timing() Timing {
	return Timing{
		NowMs:      c.time.Now() * 1000,
		LastBeatMs: c.lastBeatTime * 1000,
		IntervalMs: c.BeatInterval() * 1000,
	}
}

// Now returns the backend time.
func (c *Clock) Now() float64 {
	return c.time.Now()
}

// NextEventTime returns the scheduling cursor.
func (c *Clock) NextEventTime() float64 {
	return c.nextEventTime
}

// BeatIndex returns the next step to be scheduled, 0..15.
func (c *Clock) BeatIndex() int {
	return c.beatIndex
}

// LastBeatTime returns the latest beat at or before the last tick.
func (c *Clock) LastBeatTime() float64 {
	return c.lastBeatTime
}

// JumpCount returns jumps since the last reset.
func (c *Clock) JumpCount() int {
	return c.jumpCount
}

// Dropped returns how many events the sink refused since the last reset.
func (c *Clock) Dropped() int {
	return c.dropped
}
