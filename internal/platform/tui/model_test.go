package tui

import (
	"path/filepath"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/engine"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

// fakeGame records the calls a Model makes.
type fakeGame struct {
	state  core.GameState
	inputs []core.InputFrame
	resets int

	hosted bool
	gen    uint64
	ticks  []uint64
	result engine.Result
}

func (g *fakeGame) ID() string { return beatrunner.CampaignID }
func (g *fakeGame) Title() string { return "Fake" }
func (g *fakeGame) Reset(core.RuntimeConfig) { g.resets++ }
func (g *fakeGame) Render(dst *core.Screen) { dst.DrawText(0, 0, "fake") }
func (g *fakeGame) State() core.GameState { return g.state }
func (g *fakeGame) HostScheduler() { g.hosted = true }
func (g *fakeGame) ScheduleGeneration() uint64 { return g.gen }
func (g *fakeGame) NextLevelID() string { return "02" }

func (g *fakeGame) Step(in core.InputFrame) core.StepResult {
	g.inputs = append(g.inputs, in.Clone())
	return core.StepResult{State: g.state}
}

func (g *fakeGame) ScheduleInterval() time.Duration { return 25 * time.Millisecond }

func (g *fakeGame) ScheduleTick(gen uint64) bool {
	if gen != g.gen {
		return false
	}
	g.ticks = append(g.ticks, gen)
	return true
}

func (g *fakeGame) Result() (engine.Result, bool) {
	return g.result, true
}

func newTestModel(g *fakeGame) Model {
	m := NewModel(g, nil, nil, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1})
	now := time.Unix(100, 0)
	m.now = func() time.Time { return now }
	return m
}

func update(t *testing.T, m Model, msg tea.Msg) (Model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(msg)
	nm, ok := next.(Model)
	if !ok {
		t.Fatalf("Update() returned %T", next)
	}
	return nm, cmd
}

func keyMsg(s string) tea.KeyMsg {
	switch s {
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case " ":
		return tea.KeyMsg{Type: tea.KeySpace}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestModelHostsScheduler(t *testing.T) {
	g := &fakeGame{gen: 3}
	m := newTestModel(g)
	if !g.hosted {
		t.Fatal("NewModel() did not take over the scheduler")
	}

	m, cmd := update(t, m, TickMsg{})
	if cmd == nil || !m.schedActive || m.schedGen != 3 {
		t.Fatalf("first tick should start loop 3, got active=%t gen=%d", m.schedActive, m.schedGen)
	}

	m, cmd = update(t, m, ScheduleTickMsg{Gen: 3})
	if cmd == nil || len(g.ticks) != 1 {
		t.Fatalf("schedule tick not run: ticks=%v", g.ticks)
	}

	// A second frame tick must not start a duplicate loop.
	m, _ = update(t, m, TickMsg{})
	if m.schedGen != 3 {
		t.Errorf("schedGen = %d", m.schedGen)
	}

	// Restart bumps the generation; the host starts a new loop and drops the old one.
	g.gen = 4
	m, _ = update(t, m, TickMsg{})
	if m.schedGen != 4 {
		t.Fatalf("schedGen = %d, expected 4", m.schedGen)
	}
	m, cmd = update(t, m, ScheduleTickMsg{Gen: 3})
	if cmd != nil || len(g.ticks) != 1 {
		t.Errorf("stale loop tick ran: ticks=%v", g.ticks)
	}
	_, _ = update(t, m, ScheduleTickMsg{Gen: 4})
	if len(g.ticks) != 2 || g.ticks[1] != 4 {
		t.Errorf("ticks = %v, expected loop 4 to run", g.ticks)
	}
}

func TestModelNoLoopWhilePaused(t *testing.T) {
	g := &fakeGame{state: core.GameState{Paused: true}}
	m := newTestModel(g)

	m, _ = update(t, m, TickMsg{})
	if m.schedActive {
		t.Error("loop started while paused")
	}

	// A loop that ends on its own is restarted on resume.
	g.state.Paused = false
	m, _ = update(t, m, TickMsg{})
	if !m.schedActive {
		t.Fatal("loop not started after resume")
	}
	g.gen++
	m, _ = update(t, m, ScheduleTickMsg{Gen: m.schedGen})
	if m.schedActive {
		t.Error("loop should end when the game rejects its tick")
	}
}

func TestModelHeldKeys(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)
	base := time.Unix(100, 0)
	now := base
	m.now = func() time.Time { return now }

	m, _ = update(t, m, keyMsg("d"))
	m, _ = update(t, m, TickMsg{})
	now = base.Add(100 * time.Millisecond)
	m, _ = update(t, m, TickMsg{})
	now = base.Add(time.Second)
	_, _ = update(t, m, TickMsg{})

	if len(g.inputs) != 3 {
		t.Fatalf("Step called %d times", len(g.inputs))
	}
	if !g.inputs[0].Has(core.ActionRight) || !g.inputs[0].IsHeld(core.ActionRight) {
		t.Error("first frame should see the press")
	}
	if g.inputs[1].Has(core.ActionRight) || !g.inputs[1].IsHeld(core.ActionRight) {
		t.Error("second frame should see a hold without a press")
	}
	if g.inputs[2].IsHeld(core.ActionRight) {
		t.Error("hold should expire")
	}
}

func TestModelEscPausesThenGoesBack(t *testing.T) {
	g := &fakeGame{}
	m := newTestModel(g)

	m, _ = update(t, m, keyMsg("esc"))
	m, _ = update(t, m, TickMsg{})
	if !g.inputs[0].Has(core.ActionPause) {
		t.Fatal("esc while running should pause")
	}

	g.state.Paused = true
	m, _ = update(t, m, TickMsg{})
	m, cmd := update(t, m, keyMsg("esc"))
	if !m.BackToMenu() || cmd == nil {
		t.Error("esc while paused should leave the game")
	}
}

func TestModelRecordsRunOnce(t *testing.T) {
	store, err := storage.Open(filepath.Join(t.TempDir(), "scores.db"))
	if err != nil {
		t.Fatalf("Open() failed: %v", err)
	}
	defer store.Close()
	progress := storage.NewProgress(newMapProps())

	g := &fakeGame{result: engine.Result{LevelID: "01", Score: 420, Grade: "A", Accuracy: 91, Won: true}}
	m := NewModel(g, store, progress, core.RuntimeConfig{ScreenW: 40, ScreenH: 12, TickRate: 60, Seed: 1})

	m, _ = update(t, m, TickMsg{})
	g.state = core.GameState{GameOver: true, Won: true, Score: 420}
	m, _ = update(t, m, TickMsg{})
	_, _ = update(t, m, TickMsg{})

	runs, err := store.LevelRuns("01", 10)
	if err != nil {
		t.Fatalf("LevelRuns() failed: %v", err)
	}
	if len(runs) != 1 || runs[0].Score != 420 || runs[0].Grade != "A" {
		t.Errorf("runs = %+v, expected one recorded run", runs)
	}
	if !progress.Unlocked([]string{"01", "02"}, "02") {
		t.Error("clearing a level should unlock the next one")
	}
}

type mapProps map[string][]byte

func newMapProps() mapProps { return make(mapProps) }

func (p mapProps) ObjectPropExists(obj, prop string) bool {
	_, ok := p[obj+"/"+prop]
	return ok
}

func (p mapProps) LoadObjectProp(obj, prop string) ([]byte, error) {
	return p[obj+"/"+prop], nil
}

func (p mapProps) SaveObjectProp(obj, prop string, data []byte) error {
	p[obj+"/"+prop] = data
	return nil
}

func testRuntime() core.RuntimeConfig {
	return core.RuntimeConfig{ScreenW: 80, ScreenH: 24, TickRate: 60, Seed: 1}
}
