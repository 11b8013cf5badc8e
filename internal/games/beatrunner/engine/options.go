// Package engine runs a Beat Runner level: it owns the frame clock, the
// audio scheduler clock and every simulation component, and exposes a
// read-only snapshot for rendering.
package engine

import (
	"github.com/vovakirdan/beat-runner/internal/beat"
	"github.com/vovakirdan/beat-runner/internal/config"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/physics"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
	"github.com/vovakirdan/beat-runner/internal/spatial"
)

// World units per terminal cell.
const (
	UnitsPerColumn = 8
	UnitsPerRow    = 16
)

// Options holds everything the engine needs to build a run.
type Options struct {
	Physics        physics.Config
	Beat           beat.Config
	Windows        beat.Windows
	MultiplierRate float64
	Tuning         platform.Tuning
	Lock           platform.RhythmLock
	CellSize       float64
	Endless        config.EndlessConfig
	Difficulty     config.DifficultyConfig

	// FrameRate is the fixed simulation rate in frames per second.
	FrameRate int
	// LookaheadInterval is the scheduler tick period in seconds.
	LookaheadInterval float64
	// DoubleJumpStreak is the streak that grants a double-jump charge. 0 disables it.
	DoubleJumpStreak int

	ViewWidth  float64
	CameraLead float64
	// JudgementTime is how long the last jump label stays on screen.
	JudgementTime float64
	// DistancePerPoint is the distance worth one point of score.
	DistancePerPoint float64
}

// DefaultOptions returns options built from the stock config.
func DefaultOptions() Options {
	return FromConfig(config.DefaultBeatRunnerConfig())
}

// FromConfig maps the YAML config onto the engine's components.
func FromConfig(cfg config.BeatRunnerConfig) Options {
	ph := physics.DefaultConfig()
	p := cfg.Physics
	ph.Gravity = p.Gravity
	ph.JumpForce = p.JumpForce
	ph.MaxFallSpeed = p.MaxFallSpeed
	ph.MaxRunSpeed = p.MaxRunSpeed
	ph.Acceleration = p.Acceleration
	ph.Friction = p.Friction
	ph.IceFriction = p.IceFriction
	ph.AirControl = p.AirControl
	ph.CoyoteTime = p.CoyoteTime
	ph.JumpBuffer = p.JumpBuffer
	ph.BounceMultiplier = p.BounceMultiplier
	ph.Width = p.PlayerWidth
	ph.Height = p.PlayerHeight
	ph.WorldBottom = p.WorldBottom
	ph.AutoRun = p.AutoRun
	ph.LowGravity = p.LowGravity
	ph.LowGravityTime = p.LowGravityTime
	ph.SpeedBoost = p.SpeedBoost
	ph.BoostTime = p.BoostTime
	ph.StickyFactor = p.StickyFactor
	ph.DoubleJumpTime = p.DoubleJumpTime

	b := cfg.Beat
	pl := cfg.Platforms
	cellSize := cfg.Grid.CellSize
	if cellSize <= 0 {
		cellSize = spatial.DefaultCellSize
	}

	return Options{
		Physics: ph,
		Beat: beat.Config{
			BaseBPM:        b.BaseBPM,
			BPMPerJump:     b.BPMPerJump,
			MaxBPM:         b.MaxBPM,
			MinSpeed:       b.MinSpeed,
			MaxSpeed:       b.MaxSpeed,
			ScheduleAhead:  b.ScheduleAhead,
			StallThreshold: b.StallThreshold,
			MaxCatchUp:     b.MaxCatchUp,
		},
		Windows: beat.Windows{
			PerfectMs: cfg.Timing.PerfectWindowMs,
			GoodMs:    cfg.Timing.GoodWindowMs,
		},
		MultiplierRate: cfg.Timing.MultiplierRate,
		Tuning: platform.Tuning{
			CrumbleDelay:       pl.CrumbleDelay,
			CrumbleDuration:    pl.CrumbleDuration,
			PhaseOn:            pl.PhaseOn,
			PhaseOff:           pl.PhaseOff,
			LightningOn:        pl.LightningOn,
			LightningOff:       pl.LightningOff,
			WindCalm:           pl.WindCalm,
			WindGust:           pl.WindGust,
			WindForce:          pl.WindForce,
			ConveyorSpeed:      pl.ConveyorSpeed,
			TeleporterCooldown: pl.TeleporterCooldown,
			SecretRadius:       pl.SecretRadius,
			SecretRevealTime:   pl.SecretRevealTime,
			GlassBreakDuration: pl.GlassBreakDuration,
			GlitchInterval:     pl.GlitchInterval,
			PulseDuration:      pl.PulseDuration,
			CloudSink:          pl.CloudSink,
		},
		Lock: platform.RhythmLock{
			Enabled:   cfg.RhythmLock.Enabled,
			Threshold: cfg.RhythmLock.Threshold,
			Window:    cfg.RhythmLock.Window,
			Solidity:  1,
		},
		CellSize:          cellSize,
		Endless:           cfg.Endless,
		Difficulty:        cfg.Difficulty,
		FrameRate:         60,
		LookaheadInterval: b.LookaheadInterval,
		DoubleJumpStreak:  b.DoubleJumpStreak,
		ViewWidth:         80 * UnitsPerColumn,
		CameraLead:        20 * UnitsPerColumn,
		JudgementTime:     0.6,
		DistancePerPoint:  100,
	}
}
