package platform

import (
	"math/rand"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"
)

// state is the per-type mutable part of a platform. Each kind owns exactly
// one concrete state, so a glass platform cannot carry a lightning timer.
type state interface {
	// step advances timers and reports whether the platform was destroyed.
	step(dt float64, tn *Tuning) bool
}

type staticState struct{}

func (staticState) step(float64, *Tuning) bool { return false }

// decayRamp drives a 0..1 progress value to destruction.
type decayRamp struct {
	tween    *gween.Tween
	progress float64
}

func newDecayRamp(duration float64) *decayRamp {
	if duration <= 0 {
		duration = 1e-3
	}
	return &decayRamp{tween: gween.New(0, 1, float32(duration), ease.Linear)}
}

func (r *decayRamp) step(dt float64) bool {
	v, done := r.tween.Update(float32(dt))
	r.progress = float64(v)
	if done || r.progress >= 1 {
		r.progress = 1
		return true
	}
	return false
}

type crumbleStage int

const (
	crumbleStable crumbleStage = iota
	crumbleCrumbling
	crumbleGone
)

type crumbleState struct {
	stage crumbleStage
	delay float64
	ramp  *decayRamp
}

func (s *crumbleState) start(tn *Tuning) {
	if s.stage != crumbleStable {
		return
	}
	s.stage = crumbleCrumbling
	s.delay = tn.CrumbleDelay
	s.ramp = newDecayRamp(tn.CrumbleDuration)
}

func (s *crumbleState) step(dt float64, _ *Tuning) bool {
	if s.stage != crumbleCrumbling {
		return false
	}
	if s.delay > 0 {
		s.delay -= dt
		if s.delay > 0 {
			return false
		}
		dt = -s.delay
		s.delay = 0
	}
	if s.ramp.step(dt) {
		s.stage = crumbleGone
		return true
	}
	return false
}

func (s *crumbleState) progress() float64 {
	if s.ramp == nil {
		return 0
	}
	return s.ramp.progress
}

type phaseState struct {
	solid bool
	timer float64
}

func (s *phaseState) step(dt float64, tn *Tuning) bool {
	if tn.PhaseOn <= 0 || tn.PhaseOff <= 0 {
		s.solid = true
		return false
	}
	s.timer -= dt
	for s.timer <= 0 {
		s.solid = !s.solid
		if s.solid {
			s.timer += tn.PhaseOn
		} else {
			s.timer += tn.PhaseOff
		}
	}
	return false
}

type glassState struct {
	hits int
	ramp *decayRamp
}

// land counts a hit and reports whether it broke the glass.
func (s *glassState) land(tn *Tuning) bool {
	if s.hits >= 2 {
		return false
	}
	s.hits++
	if s.hits == 2 {
		s.ramp = newDecayRamp(tn.GlassBreakDuration)
		return true
	}
	return false
}

func (s *glassState) step(dt float64, _ *Tuning) bool {
	if s.ramp == nil || s.ramp.progress >= 1 {
		return false
	}
	return s.ramp.step(dt)
}

type conveyorState struct {
	scroll float64
}

func (s *conveyorState) step(dt float64, tn *Tuning) bool {
	s.scroll += tn.ConveyorSpeed * dt
	return false
}

// cycleState toggles between an idle and an active stage, used by lightning and wind.
type cycleState struct {
	active bool
	timer  float64
	idle   func(*Tuning) float64
	busy   func(*Tuning) float64
}

func (s *cycleState) step(dt float64, tn *Tuning) bool {
	idle, busy := s.idle(tn), s.busy(tn)
	if idle <= 0 || busy <= 0 {
		s.active = false
		return false
	}
	s.timer -= dt
	for s.timer <= 0 {
		s.active = !s.active
		if s.active {
			s.timer += busy
		} else {
			s.timer += idle
		}
	}
	return false
}

func newLightningState(tn *Tuning) *cycleState {
	return &cycleState{
		timer: tn.LightningOff,
		idle:  func(t *Tuning) float64 { return t.LightningOff },
		busy:  func(t *Tuning) float64 { return t.LightningOn },
	}
}

func newWindState(tn *Tuning) *cycleState {
	return &cycleState{
		timer: tn.WindCalm,
		idle:  func(t *Tuning) float64 { return t.WindCalm },
		busy:  func(t *Tuning) float64 { return t.WindGust },
	}
}

type teleporterState struct {
	cooldown float64
}

func (s *teleporterState) step(dt float64, _ *Tuning) bool {
	if s.cooldown > 0 {
		s.cooldown -= dt
		if s.cooldown < 0 {
			s.cooldown = 0
		}
	}
	return false
}

type secretStage int

const (
	secretHidden secretStage = iota
	secretRevealing
	secretRevealed
)

type secretState struct {
	stage    secretStage
	tween    *gween.Tween
	progress float64
}

func (s *secretState) reveal(tn *Tuning) bool {
	if s.stage != secretHidden {
		return false
	}
	d := tn.SecretRevealTime
	if d <= 0 {
		d = 1e-3
	}
	s.stage = secretRevealing
	s.tween = gween.New(0, 1, float32(d), ease.OutCubic)
	return true
}

func (s *secretState) step(dt float64, _ *Tuning) bool {
	if s.stage != secretRevealing {
		return false
	}
	v, done := s.tween.Update(float32(dt))
	s.progress = float64(v)
	if done {
		s.progress = 1
		s.stage = secretRevealed
	}
	return false
}

// glitchState flickers on a schedule seeded by the platform id.
type glitchState struct {
	solid bool
	timer float64
	rng   *rand.Rand
}

func newGlitchState(id int, tn *Tuning) *glitchState {
	s := &glitchState{solid: true, rng: rand.New(rand.NewSource(int64(id)*7919 + 1))}
	s.timer = s.next(tn)
	return s
}

func (s *glitchState) next(tn *Tuning) float64 {
	return tn.GlitchInterval * (0.5 + s.rng.Float64())
}

func (s *glitchState) step(dt float64, tn *Tuning) bool {
	if tn.GlitchInterval <= 0 {
		s.solid = true
		return false
	}
	s.timer -= dt
	for s.timer <= 0 {
		if s.solid {
			s.solid = s.rng.Intn(3) != 0
		} else {
			s.solid = true
		}
		s.timer += s.next(tn)
	}
	return false
}
