package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/beat-runner/internal/games/beatrunner"
	"github.com/vovakirdan/beat-runner/internal/registry"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List game modes and campaign levels",
	Long:  `Shows the registered game modes and every campaign level that loads.`,
	RunE:  runList,
}

func runList(_ *cobra.Command, _ []string) error {
	games := registry.List()

	fmt.Println("Game modes:")
	fmt.Println()

	maxIDLen := 2 // "ID" header
	for _, g := range games {
		if len(g.ID) > maxIDLen {
			maxIDLen = len(g.ID)
		}
	}

	fmt.Printf("  %-*s  %s\n", maxIDLen, "ID", "Title")
	fmt.Printf("  %-*s  %s\n", maxIDLen, "--", "-----")
	for _, g := range games {
		fmt.Printf("  %-*s  %s\n", maxIDLen, g.ID, g.Title)
	}

	lvls, err := beatrunner.LevelLoader().LoadAll()
	if err != nil {
		return fmt.Errorf("loading levels: %w", err)
	}

	fmt.Println()
	fmt.Println("Campaign levels:")
	fmt.Println()
	if len(lvls) == 0 {
		fmt.Println("  (none)")
	}
	for i, l := range lvls {
		fmt.Printf("  %2d. %-18s %-22s %3.0f BPM  %d platforms\n", i+1, l.ID, l.Name, l.Tempo, len(l.Placements))
		for _, w := range l.Warnings {
			fmt.Printf("      warning: %s\n", w)
		}
	}

	fmt.Println()
	fmt.Println("Run 'beatrunner play <level>' to play a level.")
	return nil
}
