// Package config provides YAML-based game configuration loading for the
// nnat engine: board dimensions, wave budgets, the per-level schedule of
// select and wave stages, and optional Lua item packs.
package config

import (
	"fmt"

	"github.com/nnat-dev/nnat/internal/item"
	"github.com/nnat-dev/nnat/internal/offer"
	"github.com/nnat-dev/nnat/internal/run"
)

// Config is the full game configuration.
type Config struct {
	Board     BoardConfig  `yaml:"board"`
	Wave      WaveConfig   `yaml:"wave"`
	DevWin    bool         `yaml:"dev_win"`
	ItemPacks []string     `yaml:"item_packs"` // Lua files with extra items
	Levels    []Level      `yaml:"levels"`
}

// BoardConfig sizes the random boards a wave deals.
type BoardConfig struct {
	Rows int `yaml:"rows"`
	Cols int `yaml:"cols"`
}

// WaveConfig holds the per-wave budgets.
type WaveConfig struct {
	MaxFrames int `yaml:"max_frames"`
	MaxRolls  int `yaml:"max_rolls"`
}

// Level is one scripted run: an ordered list of stages.
type Level struct {
	Stages []StageConfig `yaml:"stages"`
}

// StageConfig is a schedule entry; exactly one of Select or Wave is set.
type StageConfig struct {
	Select *SelectStage `yaml:"select,omitempty"`
	Wave   *WaveStage   `yaml:"wave,omitempty"`
}

// SelectStage describes an offer round.
type SelectStage struct {
	Count   int     `yaml:"count"`
	Kind    string  `yaml:"kind,omitempty"` // action|pattern|bonus, empty = any
	Chances Chances `yaml:"chances"`
}

// Chances is the rarity-chance curve for one select stage.
type Chances struct {
	Common   float64 `yaml:"common"`
	Uncommon float64 `yaml:"uncommon"`
	Rare     float64 `yaml:"rare"`
}

// WaveStage describes a wave and its target score.
type WaveStage struct {
	Target int `yaml:"target"`
}

// Default returns the built-in configuration used when no file is found.
func Default() Config {
	return Config{
		Board: BoardConfig{Rows: 7, Cols: 7},
		Wave:  WaveConfig{MaxFrames: 3, MaxRolls: 2},
		Levels: []Level{
			{Stages: []StageConfig{
				{Select: &SelectStage{Count: 3, Kind: "pattern", Chances: Chances{Common: 1, Uncommon: 0.4, Rare: 0.1}}},
				{Wave: &WaveStage{Target: 30}},
				{Select: &SelectStage{Count: 3, Chances: Chances{Common: 1, Uncommon: 0.5, Rare: 0.15}}},
				{Wave: &WaveStage{Target: 70}},
				{Select: &SelectStage{Count: 3, Chances: Chances{Common: 1, Uncommon: 0.7, Rare: 0.25}}},
				{Wave: &WaveStage{Target: 130}},
			}},
			{Stages: []StageConfig{
				{Select: &SelectStage{Count: 3, Kind: "pattern", Chances: Chances{Common: 1, Uncommon: 0.5, Rare: 0.15}}},
				{Wave: &WaveStage{Target: 60}},
				{Select: &SelectStage{Count: 3, Chances: Chances{Common: 1, Uncommon: 0.6, Rare: 0.2}}},
				{Wave: &WaveStage{Target: 120}},
				{Select: &SelectStage{Count: 4, Chances: Chances{Common: 1, Uncommon: 0.8, Rare: 0.35}}},
				{Wave: &WaveStage{Target: 220}},
			}},
		},
	}
}

// Validate checks the structural invariants the engine relies on.
func (c Config) Validate() error {
	if c.Board.Rows <= 0 || c.Board.Cols <= 0 {
		return fmt.Errorf("config: board %dx%d", c.Board.Rows, c.Board.Cols)
	}
	if c.Wave.MaxFrames <= 0 {
		return fmt.Errorf("config: max_frames must be positive")
	}
	if len(c.Levels) == 0 {
		return fmt.Errorf("config: no levels defined")
	}
	for li, lvl := range c.Levels {
		if len(lvl.Stages) == 0 {
			return fmt.Errorf("config: level %d has no stages", li+1)
		}
		for si, st := range lvl.Stages {
			switch {
			case st.Select == nil && st.Wave == nil:
				return fmt.Errorf("config: level %d stage %d is neither select nor wave", li+1, si)
			case st.Select != nil && st.Wave != nil:
				return fmt.Errorf("config: level %d stage %d is both select and wave", li+1, si)
			case st.Select != nil:
				if st.Select.Count <= 0 {
					return fmt.Errorf("config: level %d stage %d: select count must be positive", li+1, si)
				}
				if _, err := parseKind(st.Select.Kind); err != nil {
					return fmt.Errorf("config: level %d stage %d: %w", li+1, si, err)
				}
			case st.Wave != nil:
				if st.Wave.Target <= 0 {
					return fmt.Errorf("config: level %d stage %d: wave target must be positive", li+1, si)
				}
			}
		}
	}
	return nil
}

// parseKind maps the yaml kind string onto an optional item kind filter.
func parseKind(s string) (*item.Kind, error) {
	switch s {
	case "":
		return nil, nil
	case "action":
		k := item.KindAction
		return &k, nil
	case "pattern":
		k := item.KindPattern
		return &k, nil
	case "bonus":
		k := item.KindBonus
		return &k, nil
	default:
		return nil, fmt.Errorf("unknown item kind %q", s)
	}
}

// Schedule compiles the 1-based level into run stages. Levels outside
// the configured range fall back to the last defined level.
func (c Config) Schedule(level int) []run.Stage {
	idx := level - 1
	if idx < 0 {
		idx = 0
	}
	if idx >= len(c.Levels) {
		idx = len(c.Levels) - 1
	}

	var stages []run.Stage
	for _, st := range c.Levels[idx].Stages {
		if st.Select != nil {
			kind, _ := parseKind(st.Select.Kind) // validated at load time
			stages = append(stages, run.Stage{
				Kind:  run.StageSelect,
				Count: st.Select.Count,
				Weights: offer.Weights{
					item.Common:   st.Select.Chances.Common,
					item.Uncommon: st.Select.Chances.Uncommon,
					item.Rare:     st.Select.Chances.Rare,
				},
				KindFilter: kind,
			})
			continue
		}
		stages = append(stages, run.Stage{Kind: run.StageWave, Target: st.Wave.Target})
	}
	return stages
}

// RunConfig builds the run configuration for the 1-based level.
func (c Config) RunConfig(level int) run.Config {
	return run.Config{
		Level:     level,
		Rows:      c.Board.Rows,
		Cols:      c.Board.Cols,
		MaxFrames: c.Wave.MaxFrames,
		MaxRolls:  c.Wave.MaxRolls,
		DevWin:    c.DevWin,
	}
}
