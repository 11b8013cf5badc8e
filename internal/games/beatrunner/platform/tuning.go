package platform

// Tuning holds the timers and forces shared by every platform. Times are seconds.
type Tuning struct {
	CrumbleDelay    float64
	CrumbleDuration float64

	PhaseOn  float64
	PhaseOff float64

	LightningOn  float64
	LightningOff float64

	WindCalm  float64
	WindGust  float64
	WindForce float64

	ConveyorSpeed float64

	TeleporterCooldown float64

	SecretRadius     float64
	SecretRevealTime float64

	GlassBreakDuration float64
	GlitchInterval     float64
	PulseDuration      float64
	CloudSink          float64
}

// DefaultTuning returns the stock platform timings.
func DefaultTuning() Tuning {
	return Tuning{
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
	}
}
