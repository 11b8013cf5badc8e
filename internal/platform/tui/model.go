package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/registry"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

// resizer is implemented by games that adapt to a new screen size in place.
type resizer interface {
	Resize(width, height int)
}

// Model is the Bubble Tea model for running a game.
type Model struct {
	game       registry.Game
	screen     *core.Screen
	store      *storage.Store
	progress   *storage.Progress
	config     core.RuntimeConfig
	keyMapper  *KeyMapper
	inputFrame core.InputFrame
	held       *HeldKeys
	gameState  core.GameState
	now        func() time.Time

	// Audio scheduler loop, driven beside the frame tick.
	sched       registry.Scheduled
	schedGen    uint64
	schedActive bool

	embedded   bool // Back returns to the caller instead of quitting
	quitting   bool
	backToMenu bool
	runSaved   bool // Whether the current game over has been recorded
}

// NewModel creates a new Bubble Tea model for the given game.
// store and progress may be nil.
func NewModel(game registry.Game, store *storage.Store, progress *storage.Progress, cfg core.RuntimeConfig) Model {
	if cfg.Seed == 0 {
		cfg.Seed = time.Now().UnixNano()
	}
	if cfg.TickRate <= 0 {
		cfg.TickRate = 60
	}

	m := Model{
		game:       game,
		screen:     core.NewScreen(cfg.ScreenW, cfg.ScreenH),
		store:      store,
		progress:   progress,
		config:     cfg,
		keyMapper:  NewKeyMapper(),
		inputFrame: core.NewInputFrame(),
		held:       NewHeldKeys(DefaultHoldTimeout),
		now:        time.Now,
	}
	if s, ok := game.(registry.Scheduled); ok {
		s.HostScheduler()
		m.sched = s
	}
	return m
}

// Init initializes the model and starts the game.
func (m Model) Init() tea.Cmd {
	m.game.Reset(m.config)
	// The scheduler loop starts on the first tick (value receiver).
	return tickCmd(m.config.TickRate)
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		return m.handleResize(msg)

	case TickMsg:
		return m.handleTick()

	case ScheduleTickMsg:
		return m.handleSchedule(msg)
	}

	return m, nil
}

// handleKey processes keyboard input.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+s" {
		m.saveScreenshot()
		return m, nil
	}

	action, isQuit := m.keyMapper.MapKey(msg)
	if isQuit {
		m.quitting = true
		return m, tea.Quit
	}

	switch action {
	case core.ActionNone:
		return m, nil
	case core.ActionBack:
		if m.gameState.GameOver || m.gameState.Paused {
			m.backToMenu = true
			if !m.embedded {
				return m, tea.Quit
			}
			return m, nil
		}
		// Esc while running pauses.
		action = core.ActionPause
	case core.ActionRestart:
		if !m.gameState.GameOver {
			return m, nil
		}
	}

	m.inputFrame.Set(action)
	m.held.Press(action, m.now())
	return m, nil
}

// handleResize processes window resize events.
func (m Model) handleResize(msg tea.WindowSizeMsg) (tea.Model, tea.Cmd) {
	m.config.ScreenW = msg.Width
	m.config.ScreenH = msg.Height
	m.screen.Resize(msg.Width, msg.Height)

	if r, ok := m.game.(resizer); ok {
		r.Resize(msg.Width, msg.Height)
		return m, nil
	}
	if !m.gameState.GameOver {
		m.game.Reset(m.config)
	}
	return m, nil
}

// handleTick processes simulation ticks.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	m.held.Apply(&m.inputFrame, m.now())

	wasOver := m.gameState.GameOver
	result := m.game.Step(m.inputFrame)
	m.gameState = result.State
	if wasOver && !m.gameState.GameOver {
		m.runSaved = false
		m.held.Release()
	}

	if m.gameState.GameOver && !m.runSaved {
		if err := recordRun(m.game, m.gameState, m.store, m.progress); err != nil {
			log.Warn("could not record run", "game", m.game.ID(), "error", err)
		}
		m.runSaved = true
	}

	m.inputFrame.Clear()

	cmds := []tea.Cmd{tickCmd(m.config.TickRate)}
	if cmd := m.syncSchedule(); cmd != nil {
		cmds = append(cmds, cmd)
	}
	return m, tea.Batch(cmds...)
}

// syncSchedule starts a scheduler loop when the game runs without one
// for its current generation.
func (m *Model) syncSchedule() tea.Cmd {
	if m.sched == nil || m.gameState.GameOver || m.gameState.Paused {
		return nil
	}
	gen := m.sched.ScheduleGeneration()
	if m.schedActive && gen == m.schedGen {
		return nil
	}
	m.schedGen = gen
	m.schedActive = true
	return scheduleCmd(gen, m.sched.ScheduleInterval())
}

// handleSchedule runs one scheduler tick. Ticks from a replaced loop are dropped.
func (m Model) handleSchedule(msg ScheduleTickMsg) (tea.Model, tea.Cmd) {
	if m.sched == nil || !m.schedActive || msg.Gen != m.schedGen {
		return m, nil
	}
	if !m.sched.ScheduleTick(msg.Gen) {
		m.schedActive = false
		return m, nil
	}
	return m, scheduleCmd(msg.Gen, m.sched.ScheduleInterval())
}

// saveScreenshot saves the current screen to a file.
func (m *Model) saveScreenshot() {
	m.game.Render(m.screen)

	home, err := os.UserHomeDir()
	if err != nil {
		return
	}
	dir := filepath.Join(home, ".beatrunner", "screenshots")
	//nolint:errcheck // Best-effort directory creation
	os.MkdirAll(dir, 0o755)

	timestamp := time.Now().Format("20060102_150405")
	filename := fmt.Sprintf("%s_%s.txt", m.game.ID(), timestamp)

	//nolint:errcheck // Best-effort save, game continues regardless
	os.WriteFile(filepath.Join(dir, filename), []byte(m.screen.String()), 0o600)
}

// View renders the current state to a string for display.
func (m Model) View() string {
	if m.quitting {
		return ""
	}

	m.screen.Clear()
	m.game.Render(m.screen)
	return RenderScreen(m.screen)
}

// IsQuitting returns true if user requested to quit entirely.
func (m Model) IsQuitting() bool {
	return m.quitting
}

// BackToMenu returns true if user requested to go back to menu.
func (m Model) BackToMenu() bool {
	return m.backToMenu
}

// State returns the last observed game state.
func (m Model) State() core.GameState {
	return m.gameState
}

// Run starts the Bubble Tea program with the given model.
func Run(game registry.Game, store *storage.Store, progress *storage.Progress, cfg core.RuntimeConfig) error {
	model := NewModel(game, store, progress, cfg)

	p := tea.NewProgram(
		model,
		tea.WithAltScreen(),
	)

	_, err := p.Run()
	return err
}
