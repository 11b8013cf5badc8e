package engine

import (
	"github.com/vovakirdan/beat-runner/internal/audio"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/physics"
)

// Autopilot jumps on every beat while grounded and holds the jump
// until the apex. It drives headless simulations.
type Autopilot struct {
	lastPhase float64
	holding   bool
}

// Input returns the input for the next frame of e.
func (a *Autopilot) Input(e *RhythmEngine) physics.Input {
	phase := e.Clock().CurrentBeatPhase()
	onBeat := phase < a.lastPhase
	a.lastPhase = phase

	p := e.Player()
	if onBeat && p.Grounded {
		a.holding = true
		return physics.Input{JumpPressed: true, JumpHeld: true}
	}
	if a.holding && p.VY < 0 {
		return physics.Input{JumpHeld: true}
	}
	a.holding = false
	return physics.Input{}
}

// Simulate runs e on mc with pilot until the run finishes or maxSeconds
// of game time pass. An unfinished run is stopped.
func Simulate(e *RhythmEngine, mc *audio.ManualClock, pilot *Autopilot, maxSeconds float64) Result {
	e.Start()
	dt := e.sim.DT()
	for elapsed := 0.0; elapsed < maxSeconds && !e.Status().Finished(); elapsed += dt {
		mc.Advance(dt)
		e.Advance(pilot.Input(e))
	}
	if !e.Status().Finished() {
		e.Stop()
	}
	return e.Result()
}
