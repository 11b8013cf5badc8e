// Package physics integrates the player and resolves collisions against
// the level's platforms, one platform per frame.
package physics

// Config tunes player movement. Distances are world units, times seconds.
type Config struct {
	Gravity      float64
	JumpForce    float64
	MaxFallSpeed float64
	MaxRunSpeed  float64
	Acceleration float64
	Friction     float64
	IceFriction  float64
	// AirControl scales acceleration and friction while airborne.
	AirControl float64

	CoyoteTime float64
	JumpBuffer float64

	BounceMultiplier float64

	Width  float64
	Height float64
	// WorldBottom is the fatal fall line.
	WorldBottom float64

	// AutoRun advances the player without input; Left brakes.
	AutoRun bool

	LowGravity     float64
	LowGravityTime float64
	SpeedBoost     float64
	BoostTime      float64
	StickyFactor   float64
	DoubleJumpTime float64

	QueryPadding float64
}

// DefaultConfig returns the stock movement tuning.
func DefaultConfig() Config {
	return Config{
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
		Width:            24,
		Height:           32,
		WorldBottom:      480,
		AutoRun:          true,
		LowGravity:       0.5,
		LowGravityTime:   3,
		SpeedBoost:       480,
		BoostTime:        1,
		StickyFactor:     0.5,
		DoubleJumpTime:   5,
		QueryPadding:     16,
	}
}
