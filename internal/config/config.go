// Package config provides YAML-based configuration loading and difficulty
// management for Beat Runner.
package config

import (
	"fmt"
	"strings"
)

// BeatRunnerConfig contains all tunables for the rhythm runner.
type BeatRunnerConfig struct {
	Physics    PhysicsConfig    `yaml:"physics"`
	Beat       BeatConfig       `yaml:"beat"`
	Timing     TimingConfig     `yaml:"timing"`
	Platforms  PlatformsConfig  `yaml:"platforms"`
	RhythmLock RhythmLockConfig `yaml:"rhythm_lock"`
	Grid       GridConfig       `yaml:"grid"`
	Endless    EndlessConfig    `yaml:"endless"`
	Difficulty DifficultyConfig `yaml:"difficulty"`
}

// PhysicsConfig defines player movement. Units are world units and seconds.
type PhysicsConfig struct {
	Gravity          float64 `yaml:"gravity"`
	JumpForce        float64 `yaml:"jump_force"`
	MaxFallSpeed     float64 `yaml:"max_fall_speed"`
	MaxRunSpeed      float64 `yaml:"max_run_speed"`
	Acceleration     float64 `yaml:"acceleration"`
	Friction         float64 `yaml:"friction"`
	IceFriction      float64 `yaml:"ice_friction"`
	AirControl       float64 `yaml:"air_control"`
	CoyoteTime       float64 `yaml:"coyote_time"`
	JumpBuffer       float64 `yaml:"jump_buffer"`
	BounceMultiplier float64 `yaml:"bounce_multiplier"`
	PlayerWidth      float64 `yaml:"player_width"`
	PlayerHeight     float64 `yaml:"player_height"`
	WorldBottom      float64 `yaml:"world_bottom"`
	AutoRun          bool    `yaml:"auto_run"`
	LowGravity       float64 `yaml:"low_gravity"`
	LowGravityTime   float64 `yaml:"low_gravity_time"`
	SpeedBoost       float64 `yaml:"speed_boost"`
	BoostTime        float64 `yaml:"boost_time"`
	StickyFactor     float64 `yaml:"sticky_factor"`
	DoubleJumpTime   float64 `yaml:"double_jump_time"`
}

// BeatConfig defines tempo and the look-ahead scheduler.
type BeatConfig struct {
	BaseBPM           float64 `yaml:"base_bpm"`
	BPMPerJump        float64 `yaml:"bpm_per_jump"`
	MaxBPM            float64 `yaml:"max_bpm"`
	MinSpeed          float64 `yaml:"min_speed"` // Lower clamp of the speed multiplier
	MaxSpeed          float64 `yaml:"max_speed"` // Upper clamp of the speed multiplier
	ScheduleAhead     float64 `yaml:"schedule_ahead"`
	LookaheadInterval float64 `yaml:"lookahead_interval"` // Scheduler tick period
	StallThreshold    float64 `yaml:"stall_threshold"`
	MaxCatchUp        int     `yaml:"max_catch_up"`
	DoubleJumpStreak  int     `yaml:"double_jump_streak"`
}

// TimingConfig defines jump grading windows.
type TimingConfig struct {
	PerfectWindowMs float64 `yaml:"perfect_window_ms"`
	GoodWindowMs    float64 `yaml:"good_window_ms"`
	MultiplierRate  float64 `yaml:"multiplier_rate"`
}

// PlatformsConfig defines platform timers and forces.
type PlatformsConfig struct {
	CrumbleDelay       float64 `yaml:"crumble_delay"`
	CrumbleDuration    float64 `yaml:"crumble_duration"`
	PhaseOn            float64 `yaml:"phase_on"`
	PhaseOff           float64 `yaml:"phase_off"`
	LightningOn        float64 `yaml:"lightning_on"`
	LightningOff       float64 `yaml:"lightning_off"`
	WindCalm           float64 `yaml:"wind_calm"`
	WindGust           float64 `yaml:"wind_gust"`
	WindForce          float64 `yaml:"wind_force"`
	ConveyorSpeed      float64 `yaml:"conveyor_speed"`
	TeleporterCooldown float64 `yaml:"teleporter_cooldown"`
	SecretRadius       float64 `yaml:"secret_radius"`
	SecretRevealTime   float64 `yaml:"secret_reveal_time"`
	GlassBreakDuration float64 `yaml:"glass_break_duration"`
	GlitchInterval     float64 `yaml:"glitch_interval"`
	PulseDuration      float64 `yaml:"pulse_duration"`
	CloudSink          float64 `yaml:"cloud_sink"`
}

// RhythmLockConfig defines the beat-gated solidity mode.
type RhythmLockConfig struct {
	Enabled   bool    `yaml:"enabled"`
	Threshold float64 `yaml:"threshold"`
	Window    float64 `yaml:"window"`
}

// GridConfig defines the spatial hash.
type GridConfig struct {
	CellSize float64 `yaml:"cell_size"`
}

// EndlessConfig defines procedural platform placement.
type EndlessConfig struct {
	MinGap     float64 `yaml:"min_gap"`
	MaxGap     float64 `yaml:"max_gap"`
	MinWidth   float64 `yaml:"min_width"`
	MaxWidth   float64 `yaml:"max_width"`
	MinY       float64 `yaml:"min_y"`
	MaxY       float64 `yaml:"max_y"`
	MaxRise    float64 `yaml:"max_rise"`
	MaxDrop    float64 `yaml:"max_drop"`
	AheadRange float64 `yaml:"ahead_range"` // How far past the camera to generate
}

// DifficultyConfig defines the difficulty progression system.
type DifficultyConfig struct {
	Enabled      bool              `yaml:"enabled"`
	InitialLevel float64           `yaml:"initial_level"` // 0.0 = easy, 1.0 = hard
	Progression  ProgressionConfig `yaml:"progression"`
	Scaling      ScalingConfig     `yaml:"scaling"`
}

// ProgressionConfig defines how difficulty increases over time.
type ProgressionConfig struct {
	Type  string `yaml:"type"`   // "score", "time", or "none"
	MaxAt int    `yaml:"max_at"` // Score/ticks at which max difficulty is reached
}

// ScalingConfig defines the magnitude of difficulty changes.
type ScalingConfig struct {
	SpeedMultiplier float64 `yaml:"speed_multiplier"` // Multiplier added to tempo at max difficulty
}

// DifficultyPreset represents a named difficulty level.
type DifficultyPreset string

const (
	DifficultyEasy   DifficultyPreset = "easy"
	DifficultyNormal DifficultyPreset = "normal"
	DifficultyHard   DifficultyPreset = "hard"
	DifficultyFixed  DifficultyPreset = "fixed"
)

// ParsePreset validates a preset name.
func ParsePreset(s string) (DifficultyPreset, error) {
	switch p := DifficultyPreset(strings.ToLower(strings.TrimSpace(s))); p {
	case DifficultyEasy, DifficultyNormal, DifficultyHard, DifficultyFixed:
		return p, nil
	case "":
		return DifficultyNormal, nil
	default:
		return "", fmt.Errorf("unknown difficulty %q (want easy, normal, hard or fixed)", s)
	}
}

// InitialLevelForPreset returns the initial_level for a difficulty preset.
func InitialLevelForPreset(preset DifficultyPreset) float64 {
	switch preset {
	case DifficultyEasy:
		return 0.0
	case DifficultyNormal:
		return 0.3
	case DifficultyHard:
		return 0.7
	default:
		return 0.0
	}
}

// IsFixedPreset returns true if the preset disables progression.
func IsFixedPreset(preset DifficultyPreset) bool {
	return preset == DifficultyFixed
}
