package main

import (
	"fmt"
	"io"
	"math/rand"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/nnat-dev/nnat/internal/events"
	"github.com/nnat-dev/nnat/internal/run"
	"github.com/nnat-dev/nnat/internal/wave"
)

var (
	flagSimRuns  int
	flagSimLevel int
)

var simCmd = &cobra.Command{
	Use:   "sim",
	Short: "Autoplay runs headlessly",
	Long: `Play full runs without a UI, using a simple greedy policy:
take the first offer, place actions wherever they raise the board
score, reroll scoreless boards, then submit.

Useful for balancing level targets and item packs.

Examples:
  nnat sim --runs 100
  nnat sim --runs 100 --level 2 --seed 7`,
	Args: cobra.NoArgs,
	RunE: runSim,
}

func init() {
	simCmd.Flags().IntVar(&flagSimRuns, "runs", 20, "How many runs to play")
	simCmd.Flags().IntVar(&flagSimLevel, "level", 1, "Level to play")
}

func runSim(_ *cobra.Command, _ []string) error {
	cfg, catalog, cleanup, err := loadRules()
	if err != nil {
		return err
	}
	defer cleanup()

	seed := flagSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	logger := log.New(io.Discard)

	var wins int
	for i := 0; i < flagSimRuns; i++ {
		rng := rand.New(rand.NewSource(seed + int64(i)))
		r := run.New(
			cfg.RunConfig(flagSimLevel),
			cfg.Schedule(flagSimLevel),
			catalog,
			rng,
			logger,
			events.Nop{},
		)
		win, playErr := playout(r)
		if playErr != nil {
			return fmt.Errorf("run %d: %w", i+1, playErr)
		}
		if win {
			wins++
		}
	}

	fmt.Fprintf(os.Stdout, "%d runs, %d wins (%.0f%%), level %d, seed %d\n",
		flagSimRuns, wins, 100*float64(wins)/float64(flagSimRuns), flagSimLevel, seed)
	return nil
}

// playout drives one run to completion with the greedy policy.
func playout(r *run.Run) (bool, error) {
	var prev run.Phase
	for {
		phase, err := r.Next(prev)
		if err != nil {
			return false, err
		}
		switch p := phase.(type) {
		case *run.SelectPhase:
			if len(p.Offers) > 0 {
				p.Choose(0)
			} else {
				p.Skip()
			}
		case *run.WavePhase:
			playWave(p)
		case run.Outcome:
			return p.Win, nil
		}
		prev = phase
	}
}

// playWave submits boards until the wave resolves. A scoreless board is
// rerolled while the budget lasts; actions go wherever they raise the
// board score.
func playWave(p *run.WavePhase) {
	for p.Status() == wave.Playing {
		if p.Score().Total() == 0 && p.Reroll() {
			continue
		}
		placeActions(p)
		if err := p.Submit(); err != nil {
			return
		}
	}
}

// placeActions greedily spends unspent actions: each one is tried at
// every cell, kept at its best placement, and undone when no placement
// improves the board.
func placeActions(p *run.WavePhase) {
	cells := len(p.Grid().Cells)
	for i := range p.Actions() {
		if p.ActionUsed(i) {
			continue
		}
		base := p.Score().Total()
		bestArg, bestTotal := -1, base
		for arg := 0; arg < cells; arg++ {
			if err := p.Execute(i, arg); err != nil {
				continue
			}
			if total := p.Score().Total(); total > bestTotal {
				bestArg, bestTotal = arg, total
			}
			p.Undo()
		}
		if bestArg >= 0 {
			// Ignore the error: the placement just succeeded above.
			_ = p.Execute(i, bestArg)
		}
	}
}
