// nnat is a terminal puzzle about containing entropy: random boards
// appear, patterned fragments score, and a run is won by clearing its
// wave schedule.
//
// Usage:
//
//	nnat play             - Play a run in the terminal
//	nnat serve            - Start SSH server for remote play
//	nnat items            - List all items, builtins and loaded packs
//	nnat stats            - Show lifetime stats, unlocks and recent runs
//	nnat sim              - Autoplay runs headlessly
//
// Global flags:
//
//	--seed <value>  - Set RNG seed for reproducible runs
//	--db <path>     - Set database path (default: ~/.nnat/stats.db)
//	--config <path> - Path to a custom rules YAML
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/nnat-dev/nnat/internal/config"
	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/luamod"
)

var (
	// Global flags
	flagSeed   int64
	flagDBPath string
	flagConfig string
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "nnat",
	Short: "nnat - contain the entropy, one board at a time",
	Long: `nnat is a terminal puzzle game. Each run deals random boards;
your collected patterns and bonuses turn their noise into score,
and enough score clears the wave.

Available commands:
  play     - Play a run in the terminal
  serve    - Start SSH server for remote play
  items    - List all items, builtins and loaded packs
  stats    - View lifetime stats and achievements
  sim      - Autoplay runs headlessly

Examples:
  nnat play
  nnat play --level 2 --seed 42
  nnat serve --ssh :2222
  nnat items
  nnat sim --runs 100`,
}

func init() {
	rootCmd.PersistentFlags().Int64Var(&flagSeed, "seed", 0, "RNG seed (0 = random based on time)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.nnat/stats.db", "Path to stats database")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to custom rules YAML")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(itemsCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(simCmd)
}

// loadRules reads the rules config and assembles the full catalog,
// builtins plus any Lua item packs the config names. The returned
// cleanup releases the pack interpreters and must run after play ends.
func loadRules() (config.Config, *item.Catalog, func(), error) {
	cfg, err := config.Load(flagConfig)
	if err != nil {
		return config.Config{}, nil, nil, fmt.Errorf("loading rules: %w", err)
	}

	catalog := item.Builtin()
	var closers []func()
	for _, path := range cfg.ItemPacks {
		closeFn, loadErr := luamod.Load(path, catalog)
		if loadErr != nil {
			for _, c := range closers {
				c()
			}
			return config.Config{}, nil, nil, fmt.Errorf("loading item pack %s: %w", path, loadErr)
		}
		closers = append(closers, closeFn)
	}

	cleanup := func() {
		for _, c := range closers {
			c()
		}
	}
	return cfg, catalog, cleanup, nil
}
