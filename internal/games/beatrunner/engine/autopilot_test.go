package engine

import (
	"testing"

	"github.com/vovakirdan/beat-runner/internal/audio"
)

func TestSimulateFlatLevel(t *testing.T) {
	rec := audio.NewRecorder()
	e, mc := newTestEngine(testOptions(), flatLevel(800), rec)

	res := Simulate(e, mc, &Autopilot{}, 60)

	if !res.Won {
		t.Fatalf("Simulate() result = %+v, expected a win", res)
	}
	if res.MaxStreak < 1 {
		t.Errorf("MaxStreak = %d, expected on-beat jumps", res.MaxStreak)
	}
	if res.Grade == "" {
		t.Error("expected a grade")
	}
	hits := 0
	for _, ev := range rec.ByLayer(audio.LayerKick) {
		if ev.Step == -1 {
			hits++
		}
	}
	if hits == 0 {
		t.Error("expected jump drum hits")
	}
}

func TestSimulateStopsAtTimeLimit(t *testing.T) {
	e, mc := newTestEngine(testOptions(), flatLevel(1e6), nil)

	res := Simulate(e, mc, &Autopilot{}, 1)

	if res.Won {
		t.Error("run should not be won")
	}
	if e.Status() != StatusStopped {
		t.Errorf("Status() = %s, expected stopped", e.Status())
	}
	if res.Duration > 1.1 {
		t.Errorf("Duration = %.2f, expected about 1s", res.Duration)
	}
}
