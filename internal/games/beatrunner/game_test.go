package beatrunner

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/vovakirdan/beat-runner/internal/audio"
	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/registry"
)

func newTestGame(t *testing.T, g *Game) (*Game, *audio.ManualClock) {
	t.Helper()
	mc := audio.NewManualClock(0)
	g.timeSource = mc
	cfg := core.DefaultConfig()
	cfg.Seed = 7
	g.Reset(cfg)
	return g, mc
}

func tick(g *Game, mc *audio.ManualClock, in core.InputFrame) core.StepResult {
	mc.Advance(1.0 / 60)
	return g.Step(in)
}

func writeLevels(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, body := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	SetLevelDir(dir)
	t.Cleanup(func() { SetLevelDir("") })
	return dir
}

func TestRegistered(t *testing.T) {
	for _, id := range []string{CampaignID, EndlessID} {
		if !registry.Exists(id) {
			t.Errorf("game %q not registered", id)
		}
	}
	if New().Title() != "Beat Runner" || NewEndless().ID() != EndlessID {
		t.Error("unexpected id or title")
	}
	var _ registry.Scheduled = New()
}

func TestResetLoadsCampaign(t *testing.T) {
	g, _ := newTestGame(t, New())
	if g.LevelID() != "01-first-steps" {
		t.Errorf("LevelID() = %q, expected first level", g.LevelID())
	}
	if g.NextLevelID() != "02-hazards" {
		t.Errorf("NextLevelID() = %q", g.NextLevelID())
	}
	if s := g.State(); s.GameOver || s.Paused {
		t.Errorf("fresh game state = %+v", s)
	}

	SetStartLevel("03-sky")
	defer SetStartLevel("")
	g, _ = newTestGame(t, New())
	if g.LevelID() != "03-sky" {
		t.Errorf("LevelID() = %q, expected 03-sky", g.LevelID())
	}
}

func TestPauseToggle(t *testing.T) {
	g, mc := newTestGame(t, New())
	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	if !tick(g, mc, in).State.Paused {
		t.Fatal("expected paused")
	}
	if tick(g, mc, in).State.Paused {
		t.Fatal("expected resumed")
	}
}

func TestDeathAndRestart(t *testing.T) {
	writeLevels(t, map[string]string{
		"short.yaml": "id: short\ngoal_x: 2000\nspawn: {x: 10, y: 268}\nplatforms: [{type: solid, x: 0, y: 300, w: 80, h: 32}]\n",
	})
	g, mc := newTestGame(t, New())

	empty := core.NewInputFrame()
	for i := 0; i < 600 && !g.State().GameOver; i++ {
		tick(g, mc, empty)
	}
	if !g.State().GameOver || g.State().Won {
		t.Fatalf("expected game over, state %+v", g.State())
	}
	if r, ok := g.Result(); !ok || r.DeathCause != "fall" {
		t.Errorf("Result() = %+v, %v", r, ok)
	}

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "GAME OVER") {
		t.Error("expected game over message")
	}

	restart := core.NewInputFrame()
	restart.Set(core.ActionRestart)
	if tick(g, mc, restart).State.GameOver {
		t.Error("restart should start a new run")
	}
}

func TestWinAdvancesToNextLevel(t *testing.T) {
	writeLevels(t, map[string]string{
		"a.yaml": "id: a\ngoal_x: 150\nspawn: {x: 10, y: 268}\nplatforms: [{type: solid, x: 0, y: 300, w: 2000, h: 32}]\n",
		"b.toml": "id = \"b\"\ngoal_x = 150\n[spawn]\nx = 10\ny = 268\n[[platforms]]\ntype = \"ice\"\nx = 0\ny = 300\nw = 2000\nh = 32\n",
	})
	g, mc := newTestGame(t, New())

	empty := core.NewInputFrame()
	for i := 0; i < 600 && !g.State().GameOver; i++ {
		tick(g, mc, empty)
	}
	if !g.State().Won {
		t.Fatalf("expected level won, state %+v", g.State())
	}

	next := core.NewInputFrame()
	next.Set(core.ActionConfirm)
	tick(g, mc, next)
	if g.LevelID() != "b" {
		t.Errorf("LevelID() = %q, expected b", g.LevelID())
	}
	if g.State().GameOver {
		t.Error("next level should be running")
	}
}

func TestRender(t *testing.T) {
	g, mc := newTestGame(t, New())
	tick(g, mc, core.NewInputFrame())

	screen := core.NewScreen(80, 24)
	g.Render(screen)
	out := screen.String()
	if !strings.Contains(out, "Score:") {
		t.Error("HUD missing")
	}
	if !strings.ContainsRune(out, PlayerChar) {
		t.Error("player not drawn")
	}
	if !strings.Contains(out, "BPM") {
		t.Error("tempo missing")
	}
}

func TestEndlessAndHostedScheduler(t *testing.T) {
	g, mc := newTestGame(t, NewEndless())
	g.HostScheduler()

	gen := g.ScheduleGeneration()
	if !g.ScheduleTick(gen) {
		t.Error("ScheduleTick() for the current generation should run")
	}
	if g.ScheduleInterval() <= 0 {
		t.Error("ScheduleInterval() must be positive")
	}
	tick(g, mc, core.NewInputFrame())
	if g.LevelID() != "endless" {
		t.Errorf("LevelID() = %q", g.LevelID())
	}

	in := core.NewInputFrame()
	in.Set(core.ActionPause)
	tick(g, mc, in)
	if g.ScheduleTick(gen) {
		t.Error("pausing must end the scheduler loop")
	}
}

func TestMissingLevelsRenderError(t *testing.T) {
	SetLevelDir(t.TempDir())
	defer SetLevelDir("")
	g, _ := newTestGame(t, New())
	if !g.State().GameOver {
		t.Error("game without levels should report game over")
	}
	screen := core.NewScreen(80, 24)
	g.Render(screen)
	if !strings.Contains(screen.String(), "NO LEVELS") {
		t.Error("expected error message")
	}
}
