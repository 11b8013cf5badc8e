package tui

import (
	"fmt"

	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/engine"
	"github.com/vovakirdan/beat-runner/internal/registry"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

// runReporter is implemented by games that summarize a finished run.
type runReporter interface {
	Result() (engine.Result, bool)
	NextLevelID() string
}

// recordRun persists a finished game. Games without run summaries only
// store their score. Campaign runs also update level progress.
func recordRun(game registry.Game, state core.GameState, store *storage.Store, progress *storage.Progress) error {
	rep, ok := game.(runReporter)
	if !ok {
		if store == nil || state.Score <= 0 {
			return nil
		}
		_, err := store.SaveScore(game.ID(), state.Score)
		return err
	}

	res, ok := rep.Result()
	if !ok {
		return nil
	}

	if store != nil {
		_, err := store.SaveRun(storage.Run{
			GameID:    game.ID(),
			LevelID:   res.LevelID,
			Score:     res.Score,
			Accuracy:  res.Accuracy,
			MaxStreak: res.MaxStreak,
			Grade:     res.Grade,
			Won:       res.Won,
			Distance:  res.Distance,
			Duration:  res.Duration,
		})
		if err != nil {
			return fmt.Errorf("save run: %w", err)
		}
	}

	if progress != nil && game.ID() == beatrunner.CampaignID {
		if err := progress.RecordRun(res.LevelID, res.Score, res.Grade, res.Won, rep.NextLevelID()); err != nil {
			return fmt.Errorf("record progress: %w", err)
		}
	}
	return nil
}
