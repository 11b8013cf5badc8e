// beatrunner is a rhythm platformer for the terminal. Every jump is
// graded against the beat and plays a drum hit.
//
// Usage:
//
//	beatrunner list             - List game modes and campaign levels
//	beatrunner play [level]     - Play the campaign or a single level
//	beatrunner menu             - Start menu to pick modes interactively
//	beatrunner serve            - Start SSH server for remote play
//	beatrunner scores [level]   - Show high scores and recent runs
//	beatrunner sim [level]      - Run a level headless with an autopilot
//
// Global flags:
//
//	--fps <rate>        - Set tick rate (default: 60)
//	--seed <value>      - Set RNG seed for reproducible endless runs
//	--db <path>         - Set database path (default: ~/.beatrunner/scores.db)
//	--config <path>     - Load a custom YAML config
//	--levels <dir>      - Load campaign levels from a directory
//	--log[=<path>]      - Write logs to a file (default: ~/.beatrunner/beatrunner.log)
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

var (
	// Global flags
	flagFPS        int
	flagSeed       int64
	flagDBPath     string
	flagConfig     string
	flagDifficulty string
	flagLevelDir   string
	flagLogPath    string
	flagLogLevel   string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "beatrunner",
	Short: "Beat Runner - a rhythm platformer in your terminal",
	Long: `Beat Runner is a terminal rhythm platformer. The runner moves on its
own; jump on the beat to build a streak, raise the tempo and unlock
the next level.

Available commands:
  list     - Show game modes and campaign levels
  play     - Play the campaign, a level, or endless mode
  menu     - Interactive mode and level picker
  serve    - Start SSH server for remote play
  scores   - View high scores and recent runs
  sim      - Simulate a level with an autopilot

Examples:
  beatrunner list
  beatrunner play
  beatrunner play 02-hazards --difficulty hard
  beatrunner play --endless --seed 42
  beatrunner serve --ssh :2222
  beatrunner sim 01-first-steps --audio-log`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		logger, err := setupLogging(flagLogPath, flagLogLevel, cmd.Name() == "serve" || cmd.Name() == "sim")
		if err != nil {
			return err
		}
		beatrunner.SetLogger(logger)
		beatrunner.SetConfigPath(flagConfig)
		beatrunner.SetDifficultyPreset(flagDifficulty)
		beatrunner.SetLevelDir(flagLevelDir)
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().IntVar(&flagFPS, "fps", 60, "Tick rate (frames per second)")
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", storage.DefaultPath, "Path to scores database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDifficulty, "difficulty", "", "Difficulty preset: easy, normal, hard, fixed")
	rootCmd.PersistentFlags().StringVar(&flagLevelDir, "levels", "", "Directory of campaign level files (.yaml, .toml)")
	rootCmd.PersistentFlags().StringVar(&flagLogPath, "log", "", "Write logs to this file (default: discard while playing)")
	rootCmd.PersistentFlags().Lookup("log").NoOptDefVal = defaultLogPath
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level: debug, info, warn, error")

	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(menuCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(simCmd)
}
