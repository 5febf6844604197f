package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/nnat-dev/nnat/internal/achieve"
	"github.com/nnat-dev/nnat/internal/stats"
)

var flagRecent int

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show lifetime stats and achievements",
	Long: `Display lifetime counters, unlocked achievements and the most
recent recorded runs.

Examples:
  nnat stats
  nnat stats --recent 10`,
	Args: cobra.NoArgs,
	RunE: runStats,
}

func init() {
	statsCmd.Flags().IntVar(&flagRecent, "recent", 5, "How many recent runs to show")
}

func runStats(_ *cobra.Command, _ []string) error {
	store, err := stats.Open(flagDBPath)
	if err != nil {
		return fmt.Errorf("opening stats database: %w", err)
	}
	defer store.Close()

	counters, err := store.All()
	if err != nil {
		return fmt.Errorf("reading counters: %w", err)
	}

	fmt.Println("Lifetime")
	fmt.Println()
	printCounter(counters, stats.KeyRunsStarted, "Runs started")
	printCounter(counters, stats.KeyRunsWon, "Runs won")
	printCounter(counters, stats.KeyRunsLost, "Runs lost")
	printCounter(counters, stats.KeyWavesCleared, "Waves cleared")
	printCounter(counters, stats.KeyFramesSubmitted, "Boards submitted")
	printCounter(counters, stats.KeyTotalNnat, "Total nnat")
	printCounter(counters, stats.KeyItemsCollected, "Items collected")
	printCounter(counters, stats.KeyBestGrid, "Best single board")

	unlocks, err := store.Unlocks()
	if err != nil {
		return fmt.Errorf("reading unlocks: %w", err)
	}
	unlocked := make(map[string]stats.UnlockEntry, len(unlocks))
	for _, u := range unlocks {
		unlocked[u.Name] = u
	}

	fmt.Println()
	fmt.Printf("Achievements (%d/%d)\n", len(unlocked), len(achieve.Table))
	fmt.Println()
	for _, a := range achieve.Table {
		if u, ok := unlocked[a.Name]; ok {
			fmt.Printf("  [x] %-18s %s (%s)\n", a.Title, a.Desc, u.UnlockedAt.Format("2006-01-02"))
		} else {
			fmt.Printf("  [ ] %-18s %s\n", a.Title, a.Desc)
		}
	}

	if flagRecent <= 0 {
		return nil
	}

	runs, err := store.RecentRuns(flagRecent)
	if err != nil {
		return fmt.Errorf("reading recent runs: %w", err)
	}
	if len(runs) == 0 {
		return nil
	}

	fmt.Println()
	fmt.Println("Recent runs")
	fmt.Println()
	for _, r := range runs {
		var picks, boards int
		for _, e := range r.Entries {
			switch e.Kind {
			case "select":
				picks++
			case "score":
				boards++
			}
		}
		fmt.Printf("  %s  level %d  %-7s  %d picks, %d boards\n",
			r.StartedAt.Format("2006-01-02 15:04"), r.Level, strings.ToUpper(r.Outcome), picks, boards)
	}
	return nil
}

func printCounter(counters map[string]int64, key, label string) {
	fmt.Printf("  %-20s %d\n", label, counters[key])
}
