package physics

import (
	"math"
	"testing"

	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
	"github.com/vovakirdan/beat-runner/internal/spatial"
)

const dt = 0.01

type jumpCounter struct {
	jumps   int
	doubles int
}

func (c *jumpCounter) OnJump(double bool) {
	c.jumps++
	if double {
		c.doubles++
	}
}

var testTuning = platform.DefaultTuning()

func plat(id int, kind platform.Kind, x, y, w, h float64) *platform.Platform {
	return platform.New(id, kind, core.AABB{X: x, Y: y, W: w, H: h}, &testTuning)
}

func newTestWorld(plats ...*platform.Platform) (*World, *jumpCounter) {
	cfg := DefaultConfig()
	cfg.AutoRun = false
	grid := spatial.NewGrid[*platform.Platform](160)
	for _, p := range plats {
		grid.Insert(p)
	}
	jc := &jumpCounter{}
	return NewWorld(cfg, grid, jc), jc
}

var noLock = platform.DefaultRhythmLock()

func settle(w *World) {
	for i := 0; i < 5; i++ {
		w.Step(Input{}, dt, noLock)
	}
}

func TestPenetrationSide(t *testing.T) {
	platBox := core.AABB{X: 0, Y: 100, W: 100, H: 20}
	tests := []struct {
		name     string
		player   core.AABB
		expected Side
	}{
		{"landing on top", core.AABB{X: 0, Y: 90, W: 20, H: 20}, SideTop},
		{"hitting right face", core.AABB{X: 95, Y: 100, W: 10, H: 10}, SideRight},
		{"hitting left face", core.AABB{X: -5, Y: 105, W: 10, H: 10}, SideLeft},
		{"bumping underside", core.AABB{X: 40, Y: 115, W: 10, H: 10}, SideBottom},
		{"corner tie prefers vertical", core.AABB{X: 95, Y: 95, W: 10, H: 10}, SideTop},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := penetrationSide(tc.player, platBox); got != tc.expected {
				t.Errorf("penetrationSide() = %v, expected %v", got, tc.expected)
			}
		})
	}
}

func TestStandingOnSolid(t *testing.T) {
	w, _ := newTestWorld(plat(1, platform.KindSolid, 0, 300, 200, 20))
	w.Spawn(50, 268)
	settle(w)

	p := w.Player()
	if !p.Grounded {
		t.Fatal("player not grounded on solid platform")
	}
	if p.Y+p.Height != 300 {
		t.Errorf("player feet at %v, expected 300", p.Y+p.Height)
	}
	if p.VY != 0 {
		t.Errorf("VY = %v while standing", p.VY)
	}
}

func walkOffEdge(t *testing.T, w *World) {
	t.Helper()
	w.Spawn(150, 268)
	for i := 0; i < 1000; i++ {
		w.Step(Input{Right: true}, dt, noLock)
		if !w.Player().Grounded && i > 2 {
			return
		}
	}
	t.Fatal("player never left the platform")
}

func TestCoyoteTime(t *testing.T) {
	tests := []struct {
		name      string
		waitSteps int
		expected  bool
	}{
		{"jump 80ms after leaving ground", 8, true},
		{"jump 150ms after leaving ground", 15, false},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			w, jc := newTestWorld(plat(1, platform.KindSolid, 0, 300, 200, 20))
			walkOffEdge(t, w)

			for i := 1; i < tc.waitSteps; i++ {
				w.Step(Input{}, dt, noLock)
			}
			before := w.Player().VY
			res := w.Step(Input{JumpPressed: true, JumpHeld: true}, dt, noLock)
			p := w.Player()

			if res.Jumped != tc.expected {
				t.Fatalf("Jumped = %v, expected %v", res.Jumped, tc.expected)
			}
			if tc.expected {
				want := -w.cfg.JumpForce + w.cfg.Gravity*dt
				if math.Abs(p.VY-want) > 1e-9 {
					t.Errorf("VY = %v, expected full jump %v", p.VY, want)
				}
				if jc.jumps != 1 {
					t.Errorf("listener saw %d jumps, expected 1", jc.jumps)
				}
			} else {
				if p.VY < before {
					t.Errorf("VY went from %v to %v without a jump", before, p.VY)
				}
				if p.Grounded || jc.jumps != 0 {
					t.Error("late jump was honored")
				}
			}
		})
	}
}

func TestJumpBuffer(t *testing.T) {
	w, jc := newTestWorld(plat(1, platform.KindSolid, 0, 300, 400, 20))
	w.Spawn(50, 180)

	pressed := false
	landed := false
	for i := 0; i < 200; i++ {
		p := w.Player()
		in := Input{}
		if !pressed && p.VY > 0 && p.Y+p.Height > 285 {
			in = Input{JumpPressed: true, JumpHeld: true}
			pressed = true
		} else if pressed {
			in.JumpHeld = true
		}
		res := w.Step(in, dt, noLock)
		if res.Landed {
			landed = true
		}
		if res.Jumped {
			if !landed {
				t.Fatal("buffered jump fired before landing")
			}
			if jc.jumps != 1 {
				t.Errorf("listener saw %d jumps, expected 1", jc.jumps)
			}
			return
		}
	}
	t.Fatal("buffered jump was dropped")
}

func TestVariableJumpHeight(t *testing.T) {
	w, _ := newTestWorld(plat(1, platform.KindSolid, 0, 300, 400, 20))
	w.Spawn(50, 268)
	settle(w)

	w.Step(Input{JumpPressed: true, JumpHeld: true}, dt, noLock)
	w.Step(Input{}, dt, noLock)

	if vy := w.Player().VY; vy < -w.cfg.JumpForce/2 {
		t.Errorf("VY = %v after release, expected at least %v", vy, -w.cfg.JumpForce/2)
	}
}

func TestBouncePlatform(t *testing.T) {
	w, jc := newTestWorld(plat(1, platform.KindBounce, 0, 300, 200, 20))
	w.Spawn(50, 200)

	for i := 0; i < 200; i++ {
		res := w.Step(Input{JumpHeld: true}, dt, noLock)
		if res.Bounced {
			p := w.Player()
			if p.VY != -w.cfg.JumpForce*w.cfg.BounceMultiplier {
				t.Errorf("VY = %v, expected %v", p.VY, -w.cfg.JumpForce*w.cfg.BounceMultiplier)
			}
			if p.Grounded {
				t.Error("bounce left the player grounded")
			}
			if jc.jumps != 0 {
				t.Error("bounce was reported as a jump")
			}
			return
		}
	}
	t.Fatal("player never bounced")
}

func TestBounceKeepsLaunchWithoutJumpHeld(t *testing.T) {
	w, _ := newTestWorld(plat(1, platform.KindBounce, 0, 300, 200, 20))
	w.Spawn(50, 200)

	launch := -w.cfg.JumpForce * w.cfg.BounceMultiplier
	for i := 0; i < 200; i++ {
		if res := w.Step(Input{}, dt, noLock); !res.Bounced {
			continue
		}
		if p := w.Player(); p.Jumping {
			t.Error("bounce counted as a player jump")
		}
		w.Step(Input{}, dt, noLock)
		expected := launch + w.cfg.Gravity*dt
		if vy := w.Player().VY; math.Abs(vy-expected) > 1e-9 {
			t.Fatalf("VY = %v one frame after bounce, expected %v", vy, expected)
		}

		top := 300.0
		apex := w.Player().Y + w.Player().Height
		for j := 0; j < 300 && w.Player().VY < 0; j++ {
			w.Step(Input{}, dt, noLock)
			apex = math.Min(apex, w.Player().Y+w.Player().Height)
		}
		if rise := top - apex; rise < w.cfg.JumpForce*w.cfg.JumpForce/(2*w.cfg.Gravity) {
			t.Errorf("bounce rose %v above the platform, expected a full launch", rise)
		}
		return
	}
	t.Fatal("player never bounced")
}

func TestJumpReleaseClampsOnce(t *testing.T) {
	w, _ := newTestWorld(plat(1, platform.KindSolid, 0, 300, 400, 20))
	w.Spawn(50, 268)
	settle(w)

	w.Step(Input{JumpPressed: true, JumpHeld: true}, dt, noLock)
	if !w.Player().Jumping {
		t.Fatal("jump did not mark the player as jumping")
	}
	w.Step(Input{}, dt, noLock)
	p := w.Player()
	if p.Jumping {
		t.Error("release left the jump open")
	}
	if p.VY < -w.cfg.JumpForce/2 {
		t.Errorf("VY = %v after release, expected at least %v", p.VY, -w.cfg.JumpForce/2)
	}
}

func TestDeadlyPlatforms(t *testing.T) {
	for _, kind := range []platform.Kind{platform.KindLava, platform.KindSpike} {
		t.Run(kind.String(), func(t *testing.T) {
			w, _ := newTestWorld(plat(1, kind, 0, 300, 200, 20))
			w.Spawn(50, 250)
			for i := 0; i < 100; i++ {
				if res := w.Step(Input{}, dt, noLock); res.Died {
					break
				}
			}
			p := w.Player()
			if !p.Dead || p.DeathCause != kind.String() {
				t.Errorf("Dead = %v cause %q, expected death by %v", p.Dead, p.DeathCause, kind)
			}
		})
	}
}

func TestFallingOutOfWorld(t *testing.T) {
	w, _ := newTestWorld()
	w.Spawn(0, 0)
	for i := 0; i < 1000 && !w.Player().Dead; i++ {
		w.Step(Input{}, dt, noLock)
		if vy := w.Player().VY; vy > w.cfg.MaxFallSpeed {
			t.Fatalf("VY = %v exceeds max fall speed", vy)
		}
	}
	if p := w.Player(); !p.Dead || p.DeathCause != CauseFall {
		t.Errorf("player not killed by falling: %+v", p)
	}
}

func TestCrumbleTriggeredByLanding(t *testing.T) {
	c := plat(1, platform.KindCrumble, 0, 300, 200, 20)
	w, _ := newTestWorld(c)
	w.Spawn(50, 268)
	settle(w)

	for i := 0; i < 200; i++ {
		w.Step(Input{}, dt, noLock)
		c.Update(dt)
	}
	if !c.IsDestroyed() {
		t.Fatal("crumble platform survived being stood on")
	}
	if w.Player().Grounded {
		t.Error("player still grounded on destroyed platform")
	}
}

func TestGlassCountsLandingsNotFrames(t *testing.T) {
	g := plat(1, platform.KindGlass, 0, 300, 200, 20)
	w, _ := newTestWorld(g)
	w.Spawn(50, 268)
	for i := 0; i < 50; i++ {
		w.Step(Input{}, dt, noLock)
	}
	if cracks := g.Visual(noLock).Cracks; cracks != 1 {
		t.Errorf("Cracks = %d after standing, expected 1", cracks)
	}
}

func TestOneCollisionPerFrame(t *testing.T) {
	// Overlapping platforms resolve in insertion order; only the first counts.
	safeFirst, _ := newTestWorld(
		plat(1, platform.KindSolid, 0, 300, 200, 20),
		plat(2, platform.KindLava, 0, 300, 200, 20),
	)
	safeFirst.Spawn(50, 268)
	settle(safeFirst)
	if safeFirst.Player().Dead {
		t.Error("second overlapping platform was resolved")
	}

	lavaFirst, _ := newTestWorld(
		plat(1, platform.KindLava, 0, 300, 200, 20),
		plat(2, platform.KindSolid, 0, 300, 200, 20),
	)
	lavaFirst.Spawn(50, 268)
	settle(lavaFirst)
	if !lavaFirst.Player().Dead {
		t.Error("first overlapping platform was not authoritative")
	}
}

func TestCloudIsOneWay(t *testing.T) {
	w, _ := newTestWorld(plat(1, platform.KindCloud, 0, 250, 200, 10))
	w.Spawn(50, 268)
	w.player.VY = -600

	for i := 0; i < 5; i++ {
		if res := w.Step(Input{JumpHeld: true}, dt, noLock); res.Contact != nil {
			t.Fatalf("rising player collided with cloud at step %d", i)
		}
	}

	w2, _ := newTestWorld(plat(1, platform.KindCloud, 0, 300, 200, 10))
	w2.Spawn(50, 250)
	for i := 0; i < 100; i++ {
		w2.Step(Input{}, dt, noLock)
	}
	if p := w2.Player(); !p.Grounded {
		t.Error("falling player passed through cloud")
	}
}

func TestRhythmLockDropsPlayer(t *testing.T) {
	w, _ := newTestWorld(plat(1, platform.KindSolid, 0, 300, 200, 20))
	w.Spawn(50, 268)
	settle(w)

	lock := platform.DefaultRhythmLock()
	lock.Enabled = true
	w.Step(Input{}, dt, lock.WithPhase(0.5))
	if w.Player().Grounded {
		t.Error("player grounded on an off-beat platform")
	}
}

func TestDoubleJump(t *testing.T) {
	w, jc := newTestWorld()
	w.Spawn(0, 0)
	w.Step(Input{}, dt, noLock)

	if res := w.Step(Input{JumpPressed: true, JumpHeld: true}, dt, noLock); res.Jumped {
		t.Fatal("airborne jump without a charge")
	}
	w.GrantDoubleJump()
	res := w.Step(Input{JumpPressed: true, JumpHeld: true}, dt, noLock)
	if !res.DoubleJumped || jc.doubles != 1 {
		t.Fatal("double jump not executed")
	}
	if res := w.Step(Input{JumpPressed: true, JumpHeld: true}, dt, noLock); res.Jumped {
		t.Error("double jump charge reused")
	}
}

func TestIceKeepsMomentum(t *testing.T) {
	slide := func(kind platform.Kind) float64 {
		w, _ := newTestWorld(plat(1, kind, 0, 300, 2000, 20))
		w.Spawn(50, 268)
		for i := 0; i < 60; i++ {
			w.Step(Input{Right: true}, dt, noLock)
		}
		for i := 0; i < 10; i++ {
			w.Step(Input{}, dt, noLock)
		}
		return w.Player().VX
	}
	if ice, solid := slide(platform.KindIce), slide(platform.KindSolid); ice <= solid {
		t.Errorf("VX on ice = %v, on solid = %v; expected ice to slide further", ice, solid)
	}
}

func TestTeleporter(t *testing.T) {
	tp := plat(1, platform.KindTeleporter, 0, 300, 200, 20)
	tp.TargetX, tp.TargetY = 1000, 200
	w, _ := newTestWorld(tp)
	w.Spawn(50, 268)

	var teleported bool
	for i := 0; i < 5; i++ {
		if res := w.Step(Input{}, dt, noLock); res.Teleported {
			teleported = true
			break
		}
	}
	if !teleported {
		t.Fatal("teleporter did not fire")
	}
	if p := w.Player(); p.X != 1000 || p.Y+p.Height != 200 {
		t.Errorf("player at (%v, %v), expected feet at (1000, 200)", p.X, p.Y+p.Height)
	}
}
