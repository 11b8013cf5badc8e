package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/storage"
)

var (
	flagScoresGame  string
	flagScoresLimit int
	flagScoresAll   bool
)

var scoresCmd = &cobra.Command{
	Use:   "scores [level]",
	Short: "Show high scores and recent runs",
	Long: `Display the top scores for a game mode, or the best and recent runs
for one campaign level, together with stored level progress.

Examples:
  beatrunner scores
  beatrunner scores --game beatrunner_endless
  beatrunner scores --all
  beatrunner scores 01-first-steps`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScores,
}

func init() {
	scoresCmd.Flags().StringVar(&flagScoresGame, "game", beatrunner.CampaignID, "Game mode id")
	scoresCmd.Flags().IntVar(&flagScoresLimit, "limit", 10, "Number of entries to show")
	scoresCmd.Flags().BoolVar(&flagScoresAll, "all", false, "Show a summary of every game mode")
}

func runScores(_ *cobra.Command, args []string) error {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening scores database: %w", err)
	}
	defer store.Close()

	if flagScoresAll {
		return printAllStats(store)
	}
	if len(args) == 1 {
		return printLevelRuns(store, args[0])
	}
	return printTopScores(store, flagScoresGame)
}

func printTopScores(store *storage.Store, gameID string) error {
	scores, err := store.TopScores(gameID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving scores: %w", err)
	}

	fmt.Printf("High Scores - %s\n", gameID)
	fmt.Println()

	if len(scores) == 0 {
		fmt.Println("No scores recorded yet.")
		fmt.Println()
		fmt.Println("Play 'beatrunner play' to set the first high score!")
		return nil
	}

	fmt.Printf("  %-4s  %-10s  %s\n", "Rank", "Score", "Date")
	fmt.Printf("  %-4s  %-10s  %s\n", "----", "-----", "----")
	for i, entry := range scores {
		fmt.Printf("  %-4d  %-10d  %s\n", i+1, entry.Score, entry.CreatedAt.Format("2006-01-02 15:04"))
	}

	if stats, err := store.GetGameStats(gameID); err == nil && stats != nil {
		fmt.Println()
		fmt.Printf("Games: %d  Best: %d  Average: %.0f\n", stats.GamesCount, stats.HighScore, stats.AvgScore)
	}
	return nil
}

func printLevelRuns(store *storage.Store, levelID string) error {
	fmt.Printf("Level %s\n", levelID)
	fmt.Println()

	if progress, err := storage.OpenProgress(storage.AppName); err == nil {
		if lp, err := progress.Level(levelID); err == nil {
			grade := lp.BestGrade
			if grade == "" {
				grade = "-"
			}
			fmt.Printf("Unlocked: %t  Cleared: %t  Plays: %d  Best grade: %s\n", lp.Unlocked, lp.Completed, lp.Plays, grade)
		}
	}

	best, err := store.BestRun(levelID)
	if err != nil {
		return fmt.Errorf("retrieving best run: %w", err)
	}
	if best == nil {
		fmt.Println("No runs recorded yet.")
		return nil
	}
	fmt.Printf("Best run: %d points, grade %s, %.0f%% accuracy, streak %d\n", best.Score, best.Grade, best.Accuracy, best.MaxStreak)

	runs, err := store.LevelRuns(levelID, flagScoresLimit)
	if err != nil {
		return fmt.Errorf("retrieving runs: %w", err)
	}

	fmt.Println()
	fmt.Printf("  %-7s  %-5s  %-5s  %-6s  %-6s  %s\n", "Score", "Grade", "Acc", "Streak", "Result", "Date")
	fmt.Printf("  %-7s  %-5s  %-5s  %-6s  %-6s  %s\n", "-----", "-----", "---", "------", "------", "----")
	for _, r := range runs {
		result := "died"
		if r.Won {
			result = "clear"
		}
		fmt.Printf("  %-7d  %-5s  %4.0f%%  %-6d  %-6s  %s\n",
			r.Score, r.Grade, r.Accuracy, r.MaxStreak, result, r.CreatedAt.Format("2006-01-02 15:04"))
	}
	return nil
}

func printAllStats(store *storage.Store) error {
	all, err := store.GetAllGamesStats()
	if err != nil {
		return fmt.Errorf("retrieving stats: %w", err)
	}
	if len(all) == 0 {
		fmt.Println("No games played yet.")
		return nil
	}

	fmt.Printf("  %-20s  %-6s  %-8s  %-8s  %s\n", "Game", "Games", "Best", "Average", "Last played")
	fmt.Printf("  %-20s  %-6s  %-8s  %-8s  %s\n", "----", "-----", "----", "-------", "-----------")
	for _, id := range []string{beatrunner.CampaignID, beatrunner.EndlessID} {
		st, ok := all[id]
		if !ok {
			continue
		}
		fmt.Printf("  %-20s  %-6d  %-8d  %-8.0f  %s\n", id, st.GamesCount, st.HighScore, st.AvgScore, st.LastPlayed.Format("2006-01-02 15:04"))
	}
	return nil
}
