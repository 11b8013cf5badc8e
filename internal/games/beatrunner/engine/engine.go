package engine

import (
	"io"
	"math"

	"github.com/charmbracelet/log"

	"github.com/vovakirdan/beat-runner/internal/audio"
	"github.com/vovakirdan/beat-runner/internal/beat"
	"github.com/vovakirdan/beat-runner/internal/config"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/levels"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/physics"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
	"github.com/vovakirdan/beat-runner/internal/spatial"
)

// Status is the run state.
type Status int

const (
	StatusReady Status = iota
	StatusRunning
	StatusPaused
	StatusWon
	StatusDead
	StatusStopped
)

// String returns a lowercase status name.
func (s Status) String() string {
	switch s {
	case StatusReady:
		return "ready"
	case StatusRunning:
		return "running"
	case StatusPaused:
		return "paused"
	case StatusWon:
		return "won"
	case StatusDead:
		return "dead"
	case StatusStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Finished reports whether the run has ended.
func (s Status) Finished() bool {
	return s == StatusWon || s == StatusDead
}

// Deps are the external collaborators. Zero values are replaced with
// a wall clock, a discarding sink and a discarding logger.
type Deps struct {
	Time   audio.Clock
	Sink   audio.Sink
	Logger *log.Logger
}

// FrameResult reports what happened during one frame.
type FrameResult struct {
	Step      physics.StepResult
	Judgement *beat.Judgement
	// Beat is set on the first frame of a new beat.
	Beat   bool
	Status Status
}

// RhythmEngine owns a run. Every method must be called from one goroutine.
type RhythmEngine struct {
	opts   Options
	logger *log.Logger
	time   audio.Clock

	sim   *SimulationClock
	sched *AudioScheduleClock

	clock      *beat.Clock
	evaluator  *beat.Evaluator
	difficulty *config.DifficultyManager
	grid       *spatial.Grid[*platform.Platform]
	world      *physics.World

	level     levels.Level
	endless   bool
	seed      int64
	generator *levels.Generator
	tuning    platform.Tuning
	platforms []*platform.Platform

	status     Status
	generation uint64
	lock       platform.RhythmLock

	jumpScore   int
	bestX       float64
	cameraX     float64
	lastPhase   float64
	judgement   *beat.Judgement
	judgementAt float64
}

// New creates an engine for a campaign level. Call Start to begin.
func New(opts Options, lvl levels.Level, deps Deps) *RhythmEngine {
	e := newEngine(opts, deps)
	e.level = lvl
	e.reset()
	return e
}

// NewEndless creates an engine for a generated run. The same seed always
// produces the same course.
func NewEndless(opts Options, seed int64, deps Deps) *RhythmEngine {
	e := newEngine(opts, deps)
	e.endless = true
	e.seed = seed
	e.reset()
	return e
}

func newEngine(opts Options, deps Deps) *RhythmEngine {
	if deps.Time == nil {
		deps.Time = audio.NewWallClock()
	}
	if deps.Logger == nil {
		deps.Logger = log.New(io.Discard)
	}
	e := &RhythmEngine{
		opts:   opts,
		logger: deps.Logger,
		time:   deps.Time,
		sim:    NewSimulationClock(opts.FrameRate),
		sched:  NewAudioScheduleClock(opts.LookaheadInterval),
		tuning: opts.Tuning,
	}
	e.clock = beat.NewClock(opts.Beat, deps.Time, deps.Sink, deps.Logger)
	e.evaluator = beat.NewEvaluator(opts.Windows, opts.MultiplierRate)
	e.difficulty = config.NewDifficultyManager(opts.Difficulty)
	e.grid = spatial.NewGrid[*platform.Platform](opts.CellSize)
	e.world = physics.NewWorld(opts.Physics, e.grid, physics.JumpFunc(e.onJump))
	return e
}

// reset rebuilds run state. Clocks, evaluator and grid are reset together.
func (e *RhythmEngine) reset() {
	if e.endless {
		e.generator = levels.NewGenerator(e.seed, e.opts.Endless, &e.tuning, 0, 300)
		e.level = e.generator.Level(40)
	}

	e.platforms = e.level.Build(&e.tuning)
	e.grid.Rebuild(e.platforms)

	e.clock.Reset()
	if e.level.Tempo > 0 {
		e.clock.SetBaseBPM(e.level.Tempo)
	} else {
		e.clock.SetBaseBPM(e.opts.Beat.BaseBPM)
	}
	e.clock.SetPattern(e.level.Pattern)
	if e.level.Pattern.Scale == nil {
		e.clock.SetPattern(beat.DefaultPattern())
	}
	e.evaluator.Reset()
	e.sim.Reset()
	e.sched.Reset()

	e.world.Spawn(e.level.SpawnX, e.level.SpawnY)
	e.lock = e.opts.Lock.WithPhase(0)
	e.jumpScore = 0
	e.bestX = e.level.SpawnX
	e.cameraX = math.Max(0, e.level.SpawnX-e.opts.CameraLead)
	e.lastPhase = 0
	e.judgement = nil
	e.status = StatusReady

	if e.generator != nil {
		e.extend()
	}
}

// Start begins or resumes the run. Both clocks start together.
func (e *RhythmEngine) Start() {
	if e.status != StatusReady && e.status != StatusPaused && e.status != StatusStopped {
		return
	}
	e.sim.Start()
	e.sched.Start()
	e.clock.Start()
	e.lastPhase = e.clock.CurrentBeatPhase()
	e.status = StatusRunning
	e.logger.Info("run started", "level", e.level.ID, "tempo", e.clock.Tempo(), "generation", e.generation)
}

// Stop halts both clocks and invalidates pending scheduler ticks.
func (e *RhythmEngine) Stop() {
	e.halt()
	if !e.status.Finished() {
		e.status = StatusStopped
	}
}

func (e *RhythmEngine) halt() {
	e.sim.Stop()
	e.sched.Stop()
	e.clock.Stop()
	e.generation++
}

// Pause suspends the frame clock and the scheduler together. Resume with Start.
func (e *RhythmEngine) Pause() {
	if e.status != StatusRunning {
		return
	}
	e.halt()
	e.status = StatusPaused
}

// TogglePause pauses a running run or resumes a paused one.
func (e *RhythmEngine) TogglePause() {
	switch e.status {
	case StatusRunning:
		e.Pause()
	case StatusPaused:
		e.Start()
	}
}

// Restart resets the level and starts it again under a new generation.
func (e *RhythmEngine) Restart() {
	e.halt()
	e.reset()
	e.Start()
}

// Generation identifies the current scheduler loop. It changes on every
// stop, pause and restart.
func (e *RhythmEngine) Generation() uint64 {
	return e.generation
}

// ScheduleInterval returns the audio scheduler period in seconds.
func (e *RhythmEngine) ScheduleInterval() float64 {
	return e.sched.Interval()
}

// ScheduleTick runs the beat scheduler once. Ticks from an older generation
// are ignored and reported false, which ends that tick loop.
func (e *RhythmEngine) ScheduleTick(gen uint64) bool {
	if gen != e.generation || !e.sched.fire() {
		return false
	}
	e.clock.Tick()
	return true
}

// Advance runs one frame and then any scheduler ticks that became due.
// Hosts without a separate timer use this.
func (e *RhythmEngine) Advance(in physics.Input) FrameResult {
	res := e.FrameTick(in)
	for n := e.sched.Advance(e.sim.DT()); n > 0; n-- {
		e.ScheduleTick(e.generation)
	}
	return res
}

// FrameTick advances the simulation one fixed frame: platforms, player
// physics and collision (which grades any jump), combo smoothing, tempo,
// camera and culling, then beat pulses and win or death checks.
func (e *RhythmEngine) FrameTick(in physics.Input) FrameResult {
	dt, ok := e.sim.Step()
	if !ok || e.status != StatusRunning {
		return FrameResult{Status: e.status}
	}

	phase := e.clock.CurrentBeatPhase()
	e.lock = e.opts.Lock.WithPhase(phase)

	player := e.world.Player()
	for _, p := range e.platforms {
		if p.Update(dt) {
			e.grid.Update(p)
		}
		if p.CheckReveal(player.Bounds().CenterX(), player.Bounds().CenterY()) {
			e.logger.Debug("secret revealed", "platform", p.ID)
		}
	}

	e.judgement = e.judgementIfFresh()
	var res FrameResult
	before := e.clock.JumpCount()
	res.Step = e.world.Step(in, dt, e.lock)
	if e.clock.JumpCount() != before {
		res.Judgement = e.judgement
	}

	e.evaluator.Update(dt)
	level := e.difficulty.Level(e.Score(), e.sim.Frames())
	e.clock.SetSpeedMultiplier(e.difficulty.Speed(1, e.Score(), e.sim.Frames()))
	e.clock.SetIntensity(e.evaluator.Multiplier())

	player = e.world.Player()
	if player.X > e.bestX {
		e.bestX = player.X
	}
	e.cameraX = math.Max(e.cameraX, player.X-e.opts.CameraLead)
	e.cull()
	if e.generator != nil {
		e.extendAt(level)
	}

	if phase < e.lastPhase {
		res.Beat = true
		e.pulseVisible()
	}
	e.lastPhase = phase

	switch {
	case player.Dead:
		e.finish(StatusDead)
		e.logger.Info("player died", "level", e.level.ID, "cause", player.DeathCause, "x", player.X)
	case !e.endless && player.X >= e.level.GoalX:
		e.finish(StatusWon)
		e.logger.Info("level complete", "level", e.level.ID, "score", e.Score())
	}
	res.Status = e.status
	return res
}

func (e *RhythmEngine) finish(s Status) {
	e.halt()
	e.status = s
}

// onJump grades a jump against the beat as of this frame, before the
// scheduler runs again.
func (e *RhythmEngine) onJump(double bool) {
	j := e.evaluator.OnPlayerJump(e.clock.Timing())
	e.jumpScore += j.Points
	e.clock.TriggerJump(j)
	e.judgement = &j
	e.judgementAt = e.sim.Elapsed()
	if e.opts.DoubleJumpStreak > 0 && j.Streak == e.opts.DoubleJumpStreak {
		e.world.GrantDoubleJump()
	}
	e.logger.Debug("jump", "grade", j.Grade, "streak", j.Streak, "points", j.Points, "double", double)
}

func (e *RhythmEngine) judgementIfFresh() *beat.Judgement {
	if e.judgement == nil || e.sim.Elapsed()-e.judgementAt > e.opts.JudgementTime {
		return nil
	}
	return e.judgement
}

// cull drops platforms that scrolled a full view behind the camera.
func (e *RhythmEngine) cull() {
	limit := e.cameraX - e.opts.ViewWidth
	kept := e.platforms[:0]
	for _, p := range e.platforms {
		if p.IsDestroyed() || p.Bounds().Right() < limit {
			if p == e.world.Ground() {
				kept = append(kept, p)
				continue
			}
			e.grid.Remove(p)
			continue
		}
		kept = append(kept, p)
	}
	for i := len(kept); i < len(e.platforms); i++ {
		e.platforms[i] = nil
	}
	e.platforms = kept
}

func (e *RhythmEngine) extend() {
	e.extendAt(e.difficulty.Level(0, 0))
}

func (e *RhythmEngine) extendAt(level float64) {
	until := e.cameraX + e.opts.ViewWidth + e.opts.Endless.AheadRange
	if e.generator.Frontier() >= until {
		return
	}
	for _, p := range e.generator.Extend(until, level) {
		e.grid.Insert(p)
		e.platforms = append(e.platforms, p)
	}
}

func (e *RhythmEngine) pulseVisible() {
	for _, p := range e.grid.QueryVisible(e.cameraX, e.opts.ViewWidth, e.opts.Physics.WorldBottom, 0) {
		p.Pulse()
	}
}

// Status returns the run state.
func (e *RhythmEngine) Status() Status {
	return e.status
}

// Score is jump points plus distance points.
func (e *RhythmEngine) Score() int {
	dist := 0
	if e.opts.DistancePerPoint > 0 {
		dist = int((e.bestX - e.level.SpawnX) / e.opts.DistancePerPoint)
	}
	return e.jumpScore + dist
}

// Level returns the level being played.
func (e *RhythmEngine) Level() levels.Level {
	return e.level
}

// Endless reports a generated run.
func (e *RhythmEngine) Endless() bool {
	return e.endless
}

// Clock exposes the beat clock for read-outs.
func (e *RhythmEngine) Clock() *beat.Clock {
	return e.clock
}

// Evaluator exposes the jump evaluator for read-outs.
func (e *RhythmEngine) Evaluator() *beat.Evaluator {
	return e.evaluator
}

// Player returns a copy of the player.
func (e *RhythmEngine) Player() physics.Player {
	return e.world.Player()
}

// Platforms returns the active platform count.
func (e *RhythmEngine) Platforms() int {
	return len(e.platforms)
}

// Result summarizes the run for score storage.
type Result struct {
	LevelID    string
	Score      int
	Accuracy   float64
	MaxStreak  int
	Grade      string
	Won        bool
	Distance   float64
	Duration   float64
	DeathCause string
}

// Result returns the summary of the current run.
func (e *RhythmEngine) Result() Result {
	acc := e.evaluator.AccuracyPercent()
	return Result{
		LevelID:    e.level.ID,
		Score:      e.Score(),
		Accuracy:   acc,
		MaxStreak:  e.evaluator.BestStreak(),
		Grade:      beat.MasteryGrade(acc),
		Won:        e.status == StatusWon,
		Distance:   e.bestX - e.level.SpawnX,
		Duration:   e.sim.Elapsed(),
		DeathCause: e.world.Player().DeathCause,
	}
}
