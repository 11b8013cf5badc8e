// Package beatrunner implements the Beat Runner rhythm platformer.
// Every jump is graded against the beat and plays a drum hit; the level
// scrolls as the player auto-runs toward the goal.
package beatrunner

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beat-runner/internal/audio"
	"github.com/vovakirdan/beat-runner/internal/config"
	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/engine"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/levels"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/physics"
	"github.com/vovakirdan/beat-runner/internal/registry"
)

// Game IDs.
const (
	CampaignID = "beatrunner"
	EndlessID  = "beatrunner_endless"
)

// GameMode represents the game mode.
type GameMode int

const (
	ModeCampaign GameMode = iota // Play the level list in order
	ModeEndless                  // Generated course, run until death
)

var (
	configPath       string
	levelDir         string
	startLevel       string
	difficultyPreset config.DifficultyPreset
	audioSink        audio.Sink
	logger           = log.New(io.Discard)
)

// SetConfigPath sets the custom config path for loading.
func SetConfigPath(path string) {
	configPath = path
}

// SetDifficultyPreset sets the difficulty preset. Unknown names clear it.
func SetDifficultyPreset(preset string) {
	p, err := config.ParsePreset(preset)
	if err != nil || preset == "" {
		difficultyPreset = ""
		return
	}
	difficultyPreset = p
}

// SetLevelDir loads campaign levels from dir instead of the built-in set.
func SetLevelDir(dir string) {
	levelDir = dir
}

// SetStartLevel selects the campaign level to start on.
func SetStartLevel(id string) {
	startLevel = id
}

// SetAudioSink routes audio events. nil discards them.
func SetAudioSink(s audio.Sink) {
	audioSink = s
}

// SetLogger sets the logger used by new games. nil discards output.
func SetLogger(l *log.Logger) {
	if l == nil {
		l = log.New(io.Discard)
	}
	logger = l
}

// LevelLoader returns the loader for campaign levels.
func LevelLoader() *levels.Loader {
	var l *levels.Loader
	if levelDir != "" {
		l = levels.NewDirLoader(levelDir)
	} else {
		l = levels.Embedded()
	}
	l.OnSkip = func(path string, err error) {
		logger.Warn("skipping level file", "path", path, "error", err)
	}
	return l
}

// LoadConfig reads the configured file and applies preset when set.
// A missing or invalid file falls back to the defaults.
func LoadConfig(preset config.DifficultyPreset) config.BeatRunnerConfig {
	cfg, err := config.LoadBeatRunner(configPath)
	if err != nil {
		logger.Warn("using default config", "error", err)
		cfg = config.DefaultBeatRunnerConfig()
	}
	if preset != "" {
		config.ApplyBeatRunnerPreset(&cfg, preset)
	}
	return cfg
}

// Preset returns the package difficulty preset.
func Preset() config.DifficultyPreset {
	return difficultyPreset
}

// Game adapts the rhythm engine to the game registry.
type Game struct {
	mode   GameMode
	engine *engine.RhythmEngine

	runtime  core.RuntimeConfig
	cfg      config.BeatRunnerConfig
	levels   []levels.Level
	levelIdx int
	loadErr  error
	hosted   bool

	// Per-instance overrides of the package settings.
	startLevel string
	preset     config.DifficultyPreset

	// timeSource overrides the wall clock. Used by tests.
	timeSource audio.Clock
}

// New creates a new Beat Runner instance (campaign mode).
func New() *Game {
	return &Game{mode: ModeCampaign}
}

// NewEndless creates a new Beat Runner instance in endless mode.
func NewEndless() *Game {
	return &Game{mode: ModeEndless}
}

// ID returns the unique identifier for this game.
func (g *Game) ID() string {
	if g.mode == ModeEndless {
		return EndlessID
	}
	return CampaignID
}

// Title returns the display name for this game.
func (g *Game) Title() string {
	if g.mode == ModeEndless {
		return "Beat Runner (Endless)"
	}
	return "Beat Runner"
}

// Reset loads config and levels and starts a fresh run.
func (g *Game) Reset(runtime core.RuntimeConfig) {
	g.runtime = runtime

	preset := difficultyPreset
	if g.preset != "" {
		preset = g.preset
	}
	g.cfg = LoadConfig(preset)

	if g.mode == ModeCampaign {
		g.levels, g.loadErr = LevelLoader().LoadAll()
		if g.loadErr == nil && len(g.levels) == 0 {
			g.loadErr = fmt.Errorf("no levels found")
		}
		start := startLevel
		if g.startLevel != "" {
			start = g.startLevel
		}
		g.levelIdx = 0
		for i, lvl := range g.levels {
			if lvl.ID == start {
				g.levelIdx = i
			}
		}
	}
	g.startRun()
}

func (g *Game) startRun() {
	if g.loadErr != nil {
		g.engine = nil
		return
	}

	opts := engine.FromConfig(g.cfg)
	if g.runtime.TickRate > 0 {
		opts.FrameRate = g.runtime.TickRate
	}
	deps := engine.Deps{Time: g.timeSource, Sink: audioSink, Logger: logger}
	if deps.Time == nil {
		deps.Time = audio.NewWallClock()
	}

	if g.mode == ModeEndless {
		g.engine = engine.NewEndless(opts, g.runtime.Seed, deps)
	} else {
		lvl := g.levels[g.levelIdx]
		for _, w := range lvl.Warnings {
			logger.Warn("level warning", "level", lvl.ID, "warning", w)
		}
		g.engine = engine.New(opts, lvl, deps)
	}
	g.engine.SetViewWidth(g.runtime.ScreenW)
	g.engine.Start()
}

// Step advances the game by one tick.
func (g *Game) Step(in core.InputFrame) core.StepResult {
	if g.engine == nil {
		return core.StepResult{State: g.State()}
	}

	status := g.engine.Status()
	switch {
	case in.Has(core.ActionRestart) && status.Finished():
		g.engine.Restart()
		return core.StepResult{State: g.State()}
	case in.Has(core.ActionConfirm) && status == engine.StatusWon && g.hasNextLevel():
		g.levelIdx++
		g.startRun()
		return core.StepResult{State: g.State()}
	case in.Has(core.ActionPause):
		g.engine.TogglePause()
	}

	pin := physics.Input{
		Left:        in.IsHeld(core.ActionLeft),
		Right:       in.IsHeld(core.ActionRight),
		JumpPressed: in.Has(core.ActionJump),
		JumpHeld:    in.IsHeld(core.ActionJump),
	}
	if g.hosted {
		g.engine.FrameTick(pin)
	} else {
		g.engine.Advance(pin)
	}
	return core.StepResult{State: g.State()}
}

func (g *Game) hasNextLevel() bool {
	return g.mode == ModeCampaign && g.levelIdx+1 < len(g.levels)
}

// State returns the current game state.
func (g *Game) State() core.GameState {
	if g.engine == nil {
		return core.GameState{GameOver: true}
	}
	s := g.engine.Status()
	return core.GameState{
		Score:    g.engine.Score(),
		GameOver: s.Finished(),
		Paused:   s == engine.StatusPaused,
		Won:      s == engine.StatusWon,
	}
}

// Result returns the summary of the current run, or false before any run.
func (g *Game) Result() (engine.Result, bool) {
	if g.engine == nil {
		return engine.Result{}, false
	}
	return g.engine.Result(), true
}

// LevelID returns the id of the level being played.
func (g *Game) LevelID() string {
	if g.engine == nil {
		return ""
	}
	return g.engine.Level().ID
}

// NextLevelID returns the level after the current one, or "".
func (g *Game) NextLevelID() string {
	if !g.hasNextLevel() {
		return ""
	}
	return g.levels[g.levelIdx+1].ID
}

// Select overrides the start level and difficulty preset for this game
// only. Empty values fall back to the package settings. Takes effect on Reset.
func (g *Game) Select(levelID, preset string) {
	g.startLevel = levelID
	g.preset = ""
	if p, err := config.ParsePreset(preset); err == nil && preset != "" {
		g.preset = p
	}
}

// Resize adapts the running level to a new screen size without restarting it.
func (g *Game) Resize(width, height int) {
	g.runtime.ScreenW = width
	g.runtime.ScreenH = height
	if g.engine != nil {
		g.engine.SetViewWidth(width)
	}
}

// HostScheduler switches Step to frame-only ticks.
func (g *Game) HostScheduler() {
	g.hosted = true
}

// ScheduleInterval returns the audio scheduler period.
func (g *Game) ScheduleInterval() time.Duration {
	if g.engine == nil {
		return 25 * time.Millisecond
	}
	return time.Duration(g.engine.ScheduleInterval() * float64(time.Second))
}

// ScheduleGeneration returns the current scheduler loop id.
func (g *Game) ScheduleGeneration() uint64 {
	if g.engine == nil {
		return 0
	}
	return g.engine.Generation()
}

// ScheduleTick runs the beat scheduler once for gen.
func (g *Game) ScheduleTick(gen uint64) bool {
	if g.engine == nil {
		return false
	}
	return g.engine.ScheduleTick(gen)
}

// Register the games with the registry
func init() {
	registry.Register(CampaignID, func() registry.Game {
		return New()
	})
	registry.Register(EndlessID, func() registry.Game {
		return NewEndless()
	})
}
