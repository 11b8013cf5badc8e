package config

import (
	_ "embed"
)

//go:embed defaults/beatrunner.yaml
var defaultBeatRunnerYAML []byte

// DefaultBeatRunnerConfig returns the hard-coded configuration used when
// no YAML can be read.
func DefaultBeatRunnerConfig() BeatRunnerConfig {
	return BeatRunnerConfig{
		Physics: PhysicsConfig{
			Gravity:          1800,
			JumpForce:        620,
			MaxFallSpeed:     900,
			MaxRunSpeed:      260,
			Acceleration:     1400,
			Friction:         1600,
			IceFriction:      200,
			AirControl:       0.6,
			CoyoteTime:       0.1,
			JumpBuffer:       0.12,
			BounceMultiplier: 1.5,
			PlayerWidth:      24,
			PlayerHeight:     32,
			WorldBottom:      480,
			AutoRun:          true,
			LowGravity:       0.5,
			LowGravityTime:   3,
			SpeedBoost:       480,
			BoostTime:        1,
			StickyFactor:     0.5,
			DoubleJumpTime:   5,
		},
		Beat: BeatConfig{
			BaseBPM:           110,
			BPMPerJump:        0.5,
			MaxBPM:            180,
			MinSpeed:          0.5,
			MaxSpeed:          3.0,
			ScheduleAhead:     0.1,
			LookaheadInterval: 0.025,
			StallThreshold:    0.5,
			MaxCatchUp:        32,
			DoubleJumpStreak:  5,
		},
		Timing: TimingConfig{
			PerfectWindowMs: 100,
			GoodWindowMs:    200,
			MultiplierRate:  4,
		},
		Platforms: PlatformsConfig{
			CrumbleDelay:       0.3,
			CrumbleDuration:    0.5,
			PhaseOn:            1.5,
			PhaseOff:           1.0,
			LightningOn:        0.8,
			LightningOff:       1.6,
			WindCalm:           2.0,
			WindGust:           1.0,
			WindForce:          600,
			ConveyorSpeed:      120,
			TeleporterCooldown: 1.5,
			SecretRadius:       150,
			SecretRevealTime:   0.6,
			GlassBreakDuration: 0.4,
			GlitchInterval:     0.5,
			PulseDuration:      0.25,
			CloudSink:          4,
		},
		RhythmLock: RhythmLockConfig{
			Enabled:   false,
			Threshold: 0.5,
			Window:    0.25,
		},
		Grid: GridConfig{
			CellSize: 160,
		},
		Endless: EndlessConfig{
			MinGap:     40,
			MaxGap:     130,
			MinWidth:   80,
			MaxWidth:   220,
			MinY:       200,
			MaxY:       380,
			MaxRise:    70,
			MaxDrop:    120,
			AheadRange: 900,
		},
		Difficulty: DifficultyConfig{
			Enabled:      true,
			InitialLevel: 0.0,
			Progression: ProgressionConfig{
				Type:  "time",
				MaxAt: 7200, // 2 minutes at 60fps
			},
			Scaling: ScalingConfig{
				SpeedMultiplier: 0.5,
			},
		},
	}
}

// GetDefaultYAML returns the embedded default YAML for a game.
func GetDefaultYAML(gameID string) []byte {
	switch gameID {
	case "beatrunner", "beatrunner_endless":
		return defaultBeatRunnerYAML
	default:
		return nil
	}
}
