package physics

import (
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
	"github.com/vovakirdan/beat-runner/internal/spatial"
)

// Input is the normalized per-frame control signal.
type Input struct {
	Left        bool
	Right       bool
	JumpPressed bool
	JumpHeld    bool
}

// JumpListener is told about every executed jump. It is the only path
// from physics to beat evaluation.
type JumpListener interface {
	OnJump(double bool)
}

// JumpFunc adapts a function to JumpListener.
type JumpFunc func(double bool)

// OnJump calls f.
func (f JumpFunc) OnJump(double bool) {
	f(double)
}

// Death causes.
const (
	CauseFall = "fall"
)

// StepResult reports what happened during one Step.
type StepResult struct {
	Jumped       bool
	DoubleJumped bool
	Bounced      bool
	Teleported   bool
	Landed       bool
	Died         bool
	Contact      *platform.Platform
	Side         Side
}

// World owns the player and resolves it against the platform grid.
type World struct {
	cfg      Config
	grid     *spatial.Grid[*platform.Platform]
	listener JumpListener
	player   Player
	ground   *platform.Platform
}

// NewWorld creates a world over grid. listener may be nil.
func NewWorld(cfg Config, grid *spatial.Grid[*platform.Platform], listener JumpListener) *World {
	w := &World{cfg: cfg, grid: grid, listener: listener}
	w.Spawn(0, 0)
	return w
}

// Spawn resets the player with its top-left corner at (x, y).
func (w *World) Spawn(x, y float64) {
	w.player = Player{
		X:      x,
		Y:      y,
		Width:  w.cfg.Width,
		Height: w.cfg.Height,
		Facing: 1,
	}
	w.ground = nil
}

// Player returns a copy of the player.
func (w *World) Player() Player {
	return w.player
}

// Ground returns the platform the player stood on last frame, or nil.
func (w *World) Ground() *platform.Platform {
	return w.ground
}

// GrantDoubleJump stores one double-jump charge that expires after DoubleJumpTime.
func (w *World) GrantDoubleJump() {
	w.player.DoubleJumps = 1
	w.player.DoubleJumpTimer = w.cfg.DoubleJumpTime
}

// Kill marks the player dead.
func (w *World) Kill(cause string) {
	p := &w.player
	if p.Dead {
		return
	}
	p.Dead = true
	p.DeathCause = cause
	p.VX, p.VY = 0, 0
	p.Grounded = false
	w.ground = nil
}

// Step advances the player by dt: input, integration, then collision
// against at most one platform.
func (w *World) Step(in Input, dt float64, lock platform.RhythmLock) StepResult {
	var res StepResult
	p := &w.player
	if p.Dead || dt <= 0 {
		return res
	}

	if p.Grounded && w.ground != nil {
		dx, dy := w.ground.Delta()
		p.X += dx
		p.Y += dy
	}
	w.tickModifiers(dt)

	if in.JumpPressed {
		p.JumpBuffer = w.cfg.JumpBuffer
	} else {
		p.JumpBuffer = decay(p.JumpBuffer, dt)
	}
	switch {
	case p.JumpBuffer > 0 && (p.Grounded || p.Coyote > 0):
		w.jump(&res, false)
	case in.JumpPressed && p.DoubleJumps > 0:
		p.DoubleJumps--
		w.jump(&res, true)
	}
	if p.Jumping && (!in.JumpHeld || p.VY >= 0) {
		if p.VY < -w.cfg.JumpForce/2 {
			p.VY = -w.cfg.JumpForce / 2
		}
		p.Jumping = false
	}

	w.moveHorizontal(in, dt)

	g := w.cfg.Gravity
	if p.LowGravityTimer > 0 {
		g *= w.cfg.LowGravity
	}
	p.VY += g * dt
	if p.VY > w.cfg.MaxFallSpeed {
		p.VY = w.cfg.MaxFallSpeed
	}
	p.X += p.VX * dt
	p.Y += p.VY * dt

	wasGrounded := p.Grounded
	w.resolve(&res, dt, lock)
	if p.Dead {
		res.Died = true
		return res
	}

	switch {
	case p.Grounded:
		p.Coyote = 0
	case wasGrounded && !res.Jumped && !res.Bounced && !res.Teleported:
		p.Coyote = w.cfg.CoyoteTime
	default:
		p.Coyote = decay(p.Coyote, dt)
	}

	if p.Y > w.cfg.WorldBottom {
		w.Kill(CauseFall)
		res.Died = true
	}
	return res
}

func (w *World) tickModifiers(dt float64) {
	p := &w.player
	p.LowGravityTimer = decay(p.LowGravityTimer, dt)
	p.BoostTimer = decay(p.BoostTimer, dt)
	if p.DoubleJumps > 0 {
		p.DoubleJumpTimer = decay(p.DoubleJumpTimer, dt)
		if p.DoubleJumpTimer == 0 {
			p.DoubleJumps = 0
		}
	}
}

func (w *World) onSticky() bool {
	return w.player.Grounded && w.ground != nil && w.ground.Kind == platform.KindSticky
}

func (w *World) jump(res *StepResult, double bool) {
	p := &w.player
	force := w.cfg.JumpForce
	if !double && w.onSticky() {
		force *= w.cfg.StickyFactor
	}
	p.VY = -force
	p.Jumping = true
	p.Grounded = false
	p.Coyote = 0
	p.JumpBuffer = 0
	w.ground = nil

	res.Jumped = true
	res.DoubleJumped = double
	if w.listener != nil {
		w.listener.OnJump(double)
	}
}

func (w *World) moveHorizontal(in Input, dt float64) {
	p := &w.player
	dir := 0.0
	if w.cfg.AutoRun {
		dir = 1
		if in.Left {
			dir = 0
		}
	} else {
		if in.Right {
			dir++
		}
		if in.Left {
			dir--
		}
	}

	if dir != 0 {
		accel := w.cfg.Acceleration
		if !p.Grounded {
			accel *= w.cfg.AirControl
		}
		p.VX += dir * accel * dt
		p.Facing = int(dir)
	} else {
		f := w.cfg.Friction
		if p.OnIce {
			f = w.cfg.IceFriction
		}
		if !p.Grounded {
			f *= w.cfg.AirControl
		}
		p.VX = applyFriction(p.VX, f*dt)
	}

	maxRun := w.cfg.MaxRunSpeed
	if p.BoostTimer > 0 && w.cfg.SpeedBoost > maxRun {
		maxRun = w.cfg.SpeedBoost
	}
	if w.onSticky() {
		maxRun *= w.cfg.StickyFactor
	}
	p.VX = clampSpeed(p.VX, maxRun)
}

// resolve handles the first collidable platform the player overlaps.
func (w *World) resolve(res *StepResult, dt float64, lock platform.RhythmLock) {
	p := &w.player
	prevGround := w.ground
	p.Grounded = false
	p.OnIce = false
	w.ground = nil

	box := p.Bounds()
	for _, plat := range w.grid.Query(box.Expand(w.cfg.QueryPadding)) {
		eff := plat.Effect(lock)
		if !eff.Collidable {
			continue
		}
		pb := plat.Bounds()
		pb.Y += eff.SinkOffset
		pb.H -= eff.SinkOffset
		if !box.Intersects(pb) {
			continue
		}
		side := penetrationSide(box, pb)

		if eff.Deadly {
			w.Kill(plat.Kind.String())
			res.Contact, res.Side = plat, side
			return
		}
		if plat.Kind == platform.KindCloud && (side != SideTop || p.VY < 0) {
			continue
		}
		res.Contact, res.Side = plat, side

		if plat.Kind == platform.KindGravityWell {
			p.LowGravityTimer = w.cfg.LowGravityTime
		}
		if side == SideTop {
			landing := prevGround != plat
			switch plat.Kind {
			case platform.KindBounce:
				p.Y = pb.Y - p.Height
				p.VY = -w.cfg.JumpForce * w.cfg.BounceMultiplier
				p.Jumping = false
				res.Bounced = true
				return
			case platform.KindTeleporter:
				if plat.UseTeleporter() {
					p.X = plat.TargetX
					p.Y = plat.TargetY - p.Height
					p.VY = 0
					p.Jumping = false
					res.Teleported = true
					return
				}
			case platform.KindCrumble:
				plat.StartCrumble()
			case platform.KindGlass:
				if landing {
					plat.OnLanding()
				}
			case platform.KindIce:
				p.OnIce = true
			case platform.KindConveyor:
				p.X += eff.HorizontalForce * dt
			case platform.KindWind:
				p.VX += eff.HorizontalForce * dt
			case platform.KindSpeedBoost:
				p.VX = w.cfg.SpeedBoost * float64(p.Facing)
				p.BoostTimer = w.cfg.BoostTime
			}
			res.Landed = landing
		}

		switch side {
		case SideTop:
			p.Y = pb.Y - p.Height
			if p.VY > 0 {
				p.VY = 0
			}
			p.Grounded = true
			p.Jumping = false
			w.ground = plat
		case SideBottom:
			p.Y = pb.Bottom()
			if p.VY < 0 {
				p.VY = 0
			}
		case SideLeft:
			p.X = pb.X - p.Width
			if p.VX > 0 {
				p.VX = 0
			}
		case SideRight:
			p.X = pb.Right()
			if p.VX < 0 {
				p.VX = 0
			}
		}
		return
	}
}
