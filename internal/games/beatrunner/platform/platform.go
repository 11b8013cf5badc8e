package platform

import (
	"math"

	"github.com/tanema/gween"
	"github.com/tanema/gween/ease"

	"github.com/vovakirdan/beat-runner/internal/core"
)

// secretSolidAt is the reveal progress above which a secret platform collides.
const secretSolidAt = 0.3

// Platform is one level platform: geometry, optional motion and the
// state machine for its kind.
type Platform struct {
	ID     int
	Kind   Kind
	Origin core.AABB
	Motion Motion
	// Direction is the sign of conveyor and wind forces.
	Direction float64
	// TargetX and TargetY are the teleporter destination.
	TargetX, TargetY float64

	tuning    *Tuning
	box       core.AABB
	dx, dy    float64
	elapsed   float64
	destroyed bool
	state     state

	pulse      *gween.Tween
	pulseValue float64
}

// New creates a platform at box. tn is shared and may be changed between frames.
func New(id int, kind Kind, box core.AABB, tn *Tuning) *Platform {
	if kind < 0 || kind >= kindCount {
		kind = KindSolid
	}
	p := &Platform{
		ID:        id,
		Kind:      kind,
		Origin:    box,
		Direction: 1,
		tuning:    tn,
		box:       box,
	}
	p.state = newState(id, kind, tn)
	return p
}

func newState(id int, kind Kind, tn *Tuning) state {
	switch kind {
	case KindCrumble:
		return &crumbleState{}
	case KindPhase:
		return &phaseState{solid: true, timer: tn.PhaseOn}
	case KindGlass:
		return &glassState{}
	case KindConveyor:
		return &conveyorState{}
	case KindLightning:
		return newLightningState(tn)
	case KindWind:
		return newWindState(tn)
	case KindTeleporter:
		return &teleporterState{}
	case KindSecret:
		return &secretState{}
	case KindGlitch:
		return newGlitchState(id, tn)
	default:
		return staticState{}
	}
}

// Bounds returns the current world box.
func (p *Platform) Bounds() core.AABB {
	return p.box
}

// Delta returns how far the platform moved during the last Update.
func (p *Platform) Delta() (dx, dy float64) {
	return p.dx, p.dy
}

// Update advances motion and the kind's timers. It reports whether the box moved.
func (p *Platform) Update(dt float64) bool {
	p.elapsed += dt

	moved := false
	p.dx, p.dy = 0, 0
	if p.Motion.Moving() {
		ox, oy := p.Motion.Offset(p.elapsed)
		next := p.Origin
		next.X += ox
		next.Y += oy
		if next != p.box {
			p.dx, p.dy = next.X-p.box.X, next.Y-p.box.Y
			p.box = next
			moved = true
		}
	}

	if p.pulse != nil {
		v, done := p.pulse.Update(float32(dt))
		p.pulseValue = float64(v)
		if done {
			p.pulse = nil
			p.pulseValue = 0
		}
	}

	if !p.destroyed && p.state.step(dt, p.tuning) {
		p.destroyed = true
	}
	return moved
}

// Pulse starts the beat flash.
func (p *Platform) Pulse() {
	d := p.tuning.PulseDuration
	if d <= 0 {
		return
	}
	p.pulse = gween.New(1, 0, float32(d), ease.OutQuad)
	p.pulseValue = 1
}

// StartCrumble begins the crumble countdown. Only crumble platforms react
// and repeated calls are ignored.
func (p *Platform) StartCrumble() {
	if s, ok := p.state.(*crumbleState); ok {
		s.start(p.tuning)
	}
}

// OnLanding counts a landing on glass and reports whether it broke.
func (p *Platform) OnLanding() bool {
	if s, ok := p.state.(*glassState); ok {
		return s.land(p.tuning)
	}
	return false
}

// CheckReveal starts revealing a hidden secret platform when the player is
// within the reveal radius of its center. It reports whether reveal started.
func (p *Platform) CheckReveal(px, py float64) bool {
	s, ok := p.state.(*secretState)
	if !ok || s.stage != secretHidden {
		return false
	}
	if math.Hypot(px-p.box.CenterX(), py-p.box.CenterY()) >= p.tuning.SecretRadius {
		return false
	}
	return s.reveal(p.tuning)
}

// UseTeleporter starts the cooldown if the teleporter is ready and reports
// whether the player should be moved.
func (p *Platform) UseTeleporter() bool {
	s, ok := p.state.(*teleporterState)
	if !ok || s.cooldown > 0 {
		return false
	}
	s.cooldown = p.tuning.TeleporterCooldown
	return true
}

// IsDestroyed reports a finished crumble or glass break.
func (p *Platform) IsDestroyed() bool {
	return p.destroyed
}

// IsDeadly reports whether touching the platform kills right now.
func (p *Platform) IsDeadly() bool {
	if p.Kind.Deadly() {
		return true
	}
	if s, ok := p.state.(*cycleState); ok && p.Kind == KindLightning {
		return s.active
	}
	return false
}

// IsCollidable is the single solidity predicate. Precedence: destroyed,
// phased off, secret not revealed enough, glitched off, then rhythm lock
// for non-deadly platforms.
func (p *Platform) IsCollidable(lock RhythmLock) bool {
	if p.destroyed {
		return false
	}
	switch s := p.state.(type) {
	case *phaseState:
		if !s.solid {
			return false
		}
	case *secretState:
		if s.progress <= secretSolidAt {
			return false
		}
	case *glitchState:
		if !s.solid {
			return false
		}
	}
	if lock.OffBeat() && !p.IsDeadly() {
		return false
	}
	return true
}

// Effect is the kind-agnostic summary the resolver consumes.
type Effect struct {
	Collidable bool
	Deadly     bool
	// HorizontalForce is a conveyor velocity or a wind acceleration.
	HorizontalForce float64
	// SinkOffset lowers the standing surface.
	SinkOffset float64
}

// Effect summarizes the platform for the resolver.
func (p *Platform) Effect(lock RhythmLock) Effect {
	e := Effect{
		Collidable: p.IsCollidable(lock),
		Deadly:     p.IsDeadly(),
	}
	switch s := p.state.(type) {
	case *conveyorState:
		e.HorizontalForce = p.tuning.ConveyorSpeed * p.Direction
	case *cycleState:
		if p.Kind == KindWind && s.active {
			e.HorizontalForce = p.tuning.WindForce * p.Direction
		}
	case *crumbleState:
		e.SinkOffset = 3 * s.progress()
	}
	if p.Kind == KindCloud {
		e.SinkOffset = p.tuning.CloudSink
	}
	return e
}

// Visual is the read-only render summary.
type Visual struct {
	ID         int
	Kind       Kind
	Box        core.AABB
	Collidable bool
	Deadly     bool
	// Alpha is opacity in [0, 1] from phase, reveal, glitch and rhythm lock.
	Alpha float64
	// Shake is the crumble or glass shake amplitude in [0, 1].
	Shake    float64
	Progress float64
	Cracks   int
	Reveal   float64
	Pulse    float64
	// Active is set while lightning is electrified or wind is gusting.
	Active bool
	Scroll float64
	Ready  bool
}

// Visual summarizes the platform for the renderer.
func (p *Platform) Visual(lock RhythmLock) Visual {
	v := Visual{
		ID:         p.ID,
		Kind:       p.Kind,
		Box:        p.box,
		Collidable: p.IsCollidable(lock),
		Deadly:     p.IsDeadly(),
		Alpha:      1,
		Pulse:      p.pulseValue,
		Ready:      true,
	}
	switch s := p.state.(type) {
	case *crumbleState:
		v.Progress = s.progress()
		switch s.stage {
		case crumbleCrumbling:
			v.Shake = 0.2 + 0.8*float64(ease.InQuad(float32(v.Progress), 0, 1, 1))
		case crumbleGone:
			v.Alpha = 0
		}
	case *glassState:
		v.Cracks = s.hits
		if s.ramp != nil {
			v.Progress = s.ramp.progress
			v.Shake = v.Progress
			v.Alpha = 1 - v.Progress
		}
	case *phaseState:
		if !s.solid {
			v.Alpha = 0.25
		}
	case *secretState:
		v.Reveal = s.progress
		v.Alpha = s.progress
	case *glitchState:
		if !s.solid {
			v.Alpha = 0.2
		}
	case *cycleState:
		v.Active = s.active
	case *conveyorState:
		v.Scroll = s.scroll * p.Direction
	case *teleporterState:
		v.Ready = s.cooldown <= 0
	}
	if lock.OffBeat() && !v.Deadly {
		v.Alpha *= 0.4
	}
	return v
}
