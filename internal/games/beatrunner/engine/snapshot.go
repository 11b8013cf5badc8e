package engine

import (
	"github.com/vovakirdan/beat-runner/internal/beat"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/physics"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/platform"
)

// Snapshot is the read-only frame state handed to renderers.
type Snapshot struct {
	LevelID   string
	LevelName string
	Status    Status
	Endless   bool

	CameraX float64
	GoalX   float64

	Player    physics.Player
	Platforms []platform.Visual

	Score      int
	Streak     int
	Multiplier float64
	Accuracy   float64
	Tempo      float64
	BeatPhase  float64
	Solidity   float64
	Judgement  *beat.Judgement
}

// Snapshot captures the platforms in view and the player.
func (e *RhythmEngine) Snapshot() Snapshot {
	visible := e.grid.QueryVisible(e.cameraX, e.opts.ViewWidth, e.opts.Physics.WorldBottom, UnitsPerColumn*2)
	vis := make([]platform.Visual, 0, len(visible))
	for _, p := range visible {
		vis = append(vis, p.Visual(e.lock))
	}

	return Snapshot{
		LevelID:    e.level.ID,
		LevelName:  e.level.Name,
		Status:     e.status,
		Endless:    e.endless,
		CameraX:    e.cameraX,
		GoalX:      e.level.GoalX,
		Player:     e.world.Player(),
		Platforms:  vis,
		Score:      e.Score(),
		Streak:     e.evaluator.Streak(),
		Multiplier: e.evaluator.Multiplier(),
		Accuracy:   e.evaluator.AccuracyPercent(),
		Tempo:      e.clock.Tempo(),
		BeatPhase:  e.clock.CurrentBeatPhase(),
		Solidity:   e.lock.Solidity,
		Judgement:  e.judgementIfFresh(),
	}
}

// SetViewWidth adapts the camera to a terminal of cols columns.
func (e *RhythmEngine) SetViewWidth(cols int) {
	if cols > 0 {
		e.opts.ViewWidth = float64(cols * UnitsPerColumn)
		e.opts.CameraLead = float64(cols/4) * UnitsPerColumn
	}
}
