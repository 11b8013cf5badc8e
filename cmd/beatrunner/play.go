package main

import (
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/beat-runner/internal/core"
	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/platform/tui"
	"github.com/vovakirdan/beat-runner/internal/registry"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

var (
	flagEndless bool
	flagPick    bool
)

var playCmd = &cobra.Command{
	Use:   "play [level]",
	Short: "Play the campaign, a level, or endless mode",
	Long: `Start playing Beat Runner.

With no level, the campaign starts at the first level. Use --pick to
choose a mode and level interactively.

Controls:
  Space/Up/W   - Jump (hold for height, again in the air with a double jump)
  Left/A       - Brake
  Right/D      - Run faster
  P/Esc        - Pause
  Enter/N      - Next level (after a clear)
  R            - Restart (after game over)
  Q/Ctrl+C     - Quit

Difficulty options:
  easy   - Slow tempo ramp, wide timing windows
  normal - Default tempo ramp
  hard   - Fast tempo ramp, tight timing windows
  fixed  - No progression, stays at config's initial level

Examples:
  beatrunner play
  beatrunner play 02-hazards
  beatrunner play --pick
  beatrunner play --endless --seed 7 --difficulty hard
  beatrunner play --levels ./my-levels --log`,
	Args: cobra.MaximumNArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().BoolVar(&flagEndless, "endless", false, "Play a generated endless course")
	playCmd.Flags().BoolVar(&flagPick, "pick", false, "Choose mode, level and difficulty in a menu")
}

// terminalConfig builds the runtime config from the terminal size and global flags.
func terminalConfig() core.RuntimeConfig {
	width, height := 80, 24
	if w, h, err := term.GetSize(int(os.Stdout.Fd())); err == nil {
		width, height = w, h
	}
	return core.RuntimeConfig{
		ScreenW:  width,
		ScreenH:  height,
		TickRate: flagFPS,
		Seed:     flagSeed,
	}
}

// openStores opens score and progress storage. Either may be nil on error;
// the game still works without them.
func openStores() (*storage.Store, *storage.Progress) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open scores database: %v\n", err)
		store = nil
	}
	progress, err := storage.OpenProgress(storage.AppName)
	if err != nil {
		log.Warn("could not open progress store", "error", err)
		progress = nil
	}
	return store, progress
}

func runPlay(_ *cobra.Command, args []string) error {
	cfg := terminalConfig()
	store, progress := openStores()
	if store != nil {
		defer store.Close()
	}

	sel := tui.BeatRunnerSelection{Difficulty: flagDifficulty}
	switch {
	case flagPick:
		picked, err := tui.RunBeatRunnerModeSelector(progress, cfg)
		if err != nil {
			return err
		}
		if picked == nil {
			return nil
		}
		sel = *picked
	case flagEndless:
		sel.Mode = tui.BeatRunnerModeEndless
	case len(args) == 1:
		sel.LevelID = args[0]
		if err := checkLevel(sel.LevelID); err != nil {
			return err
		}
	}

	game, err := registry.Create(sel.GameID())
	if err != nil {
		return fmt.Errorf("creating game: %w", err)
	}
	sel.Configure(game)

	if err := tui.Run(game, store, progress, cfg); err != nil {
		return fmt.Errorf("running game: %w", err)
	}
	return nil
}

// checkLevel reports an error when id is not a loadable campaign level.
func checkLevel(id string) error {
	ids, err := beatrunner.LevelLoader().ListIDs()
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}
	for _, known := range ids {
		if known == id {
			return nil
		}
	}
	return fmt.Errorf("unknown level %q (run 'beatrunner list' to see levels)", id)
}
