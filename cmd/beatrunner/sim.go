package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/beat-runner/internal/audio"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner/engine"
)

var (
	flagSimEndless  bool
	flagSimSeconds  float64
	flagSimAudioLog bool
)

var simCmd = &cobra.Command{
	Use:   "sim [level]",
	Short: "Run a level headless with an autopilot",
	Long: `Simulate a level on a manual clock without a terminal UI. The
autopilot jumps on every beat; the result is printed when the run ends
or the time limit passes.

Examples:
  beatrunner sim
  beatrunner sim 02-hazards --seconds 120
  beatrunner sim --endless --seed 3 --audio-log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runSim,
}

func init() {
	simCmd.Flags().BoolVar(&flagSimEndless, "endless", false, "Simulate an endless course")
	simCmd.Flags().Float64Var(&flagSimSeconds, "seconds", 90, "Game time limit in seconds")
	simCmd.Flags().BoolVar(&flagSimAudioLog, "audio-log", false, "Log every audio event to stderr")
}

func runSim(_ *cobra.Command, args []string) error {
	opts := engine.FromConfig(beatrunner.LoadConfig(beatrunner.Preset()))
	if flagFPS > 0 {
		opts.FrameRate = flagFPS
	}

	deps := engine.Deps{Logger: log.Default()}
	mc := audio.NewManualClock(0)
	deps.Time = mc
	if flagSimAudioLog {
		deps.Sink = audio.NewLogSink(log.NewWithOptions(os.Stderr, log.Options{Prefix: "audio"}))
	}

	var e *engine.RhythmEngine
	if flagSimEndless {
		seed := flagSeed
		if seed == 0 {
			seed = time.Now().UnixNano()
		}
		e = engine.NewEndless(opts, seed, deps)
	} else {
		loader := beatrunner.LevelLoader()
		var id string
		if len(args) == 1 {
			id = args[0]
		} else {
			ids, err := loader.ListIDs()
			if err != nil {
				return fmt.Errorf("loading levels: %w", err)
			}
			if len(ids) == 0 {
				return fmt.Errorf("no levels found")
			}
			id = ids[0]
		}
		lvl, err := loader.LoadByID(id)
		if err != nil {
			return fmt.Errorf("loading level %q: %w", id, err)
		}
		e = engine.New(opts, lvl, deps)
	}

	res := engine.Simulate(e, mc, &engine.Autopilot{}, flagSimSeconds)

	outcome := "stopped"
	switch {
	case res.Won:
		outcome = "cleared"
	case res.DeathCause != "":
		outcome = "died: " + res.DeathCause
	}

	fmt.Printf("Level:     %s\n", res.LevelID)
	fmt.Printf("Outcome:   %s\n", outcome)
	fmt.Printf("Score:     %d\n", res.Score)
	fmt.Printf("Grade:     %s (%.1f%% accuracy)\n", res.Grade, res.Accuracy)
	fmt.Printf("Streak:    %d\n", res.MaxStreak)
	fmt.Printf("Distance:  %.0f\n", res.Distance)
	fmt.Printf("Duration:  %.2fs\n", res.Duration)
	fmt.Printf("Tempo:     %.0f BPM\n", e.Clock().Tempo())
	return nil
}
