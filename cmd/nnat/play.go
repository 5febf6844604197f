package main

import (
	"fmt"
	"io"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/nnat-dev/nnat/internal/platform/tui"
	"github.com/nnat-dev/nnat/internal/stats"
)

var (
	flagLevel   int
	flagVerbose bool
)

var playCmd = &cobra.Command{
	Use:   "play",
	Short: "Play a run",
	Long: `Start a run in the terminal.

Controls:
  Arrows/hjkl - Move the board cursor
  1-9         - Pick an offer, or use an action at the cursor
  s           - Skip an item offer
  u / r       - Undo / redo an action
  e           - Reroll the board
  Enter       - Submit the board
  ?           - Toggle help
  Q/Ctrl+C    - Quit

Examples:
  nnat play
  nnat play --level 2
  nnat play --seed 42 --config ./my-rules.yaml`,
	Args: cobra.NoArgs,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&flagLevel, "level", 1, "Level to play")
	playCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "Log engine warnings to stderr")
}

func runPlay(_ *cobra.Command, _ []string) error {
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return fmt.Errorf("play needs an interactive terminal; try 'nnat sim' for headless runs")
	}

	cfg, catalog, cleanup, err := loadRules()
	if err != nil {
		return err
	}
	defer cleanup()

	logger := log.New(io.Discard)
	if flagVerbose {
		logger = log.New(os.Stderr)
	}

	store, err := stats.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Warning: could not open stats database: %v\n", err)
		// Continue without persistence
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	return tui.Run(tui.Options{
		Config:  cfg,
		Catalog: catalog,
		Level:   flagLevel,
		Seed:    flagSeed,
		Store:   store,
		Logger:  logger,
	})
}
