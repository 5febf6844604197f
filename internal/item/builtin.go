package item

import (
	"fmt"

	"github.com/nnat-dev/nnat/internal/grid"
	"github.com/nnat-dev/nnat/internal/score"
)

// cellAction builds an Action that rewrites one player-chosen cell.
func cellAction(cell grid.Cell) *Action {
	return &Action{Execute: func(g grid.Grid, arg int) (grid.Grid, error) {
		if arg < 0 || arg >= len(g.Cells) {
			return grid.Grid{}, fmt.Errorf("item: cell %d outside %dx%d: %w", arg, g.Rows, g.Cols, grid.ErrRange)
		}
		return g.Replace(arg, cell), nil
	}}
}

// Builtin returns the standard item tables. Catalog order is load-bearing:
// patterns match and bonuses fire in this order.
func Builtin() *Catalog {
	c := NewCatalog()

	// Actions: single-use board rewrites.
	c.MustAdd(Item{
		Name: "chisel", Title: "Chisel", Desc: "Clear one cell.",
		Freq: Common, FreqMult: 1, Priority: 0, Limit: 0,
		Kind: KindAction, Action: cellAction(grid.Empty),
	})
	c.MustAdd(Item{
		Name: "seed", Title: "Seed", Desc: "Fill one cell.",
		Freq: Common, FreqMult: 1, Priority: 1, Limit: 0,
		Kind: KindAction, Action: cellAction(grid.Filled),
	})
	c.MustAdd(Item{
		Name: "flux", Title: "Flux", Desc: "Turn one cell into a wildcard.",
		Freq: Uncommon, FreqMult: 1, Priority: 2, Limit: 3,
		Kind: KindAction, Action: cellAction(grid.Wildcard),
	})
	c.MustAdd(Item{
		Name: "inversion", Title: "Inversion", Desc: "Swap every filled and empty cell.",
		Freq: Rare, FreqMult: 0.8, Priority: 3, Limit: 1,
		Kind: KindAction, Action: &Action{Execute: func(g grid.Grid, _ int) (grid.Grid, error) {
			out := grid.New(g.Rows, g.Cols)
			for i, cell := range g.Cells {
				switch cell {
				case grid.Filled:
					out.Cells[i] = grid.Empty
				case grid.Empty:
					out.Cells[i] = grid.Filled
				default:
					out.Cells[i] = cell
				}
			}
			return out, nil
		}},
	})

	// Patterns: matchable shapes with base points.
	addPattern := func(name, title, shape string, points float64, freq Freq, mult float64, prio, limit int) {
		c.MustAdd(Item{
			Name: name, Title: title, Desc: "Pattern " + shape + ".",
			Freq: freq, FreqMult: mult, Priority: prio, Limit: limit,
			Kind:    KindPattern,
			Pattern: &score.Pattern{Name: name, Shape: grid.MustParse(shape), Points: points},
		})
	}
	addPattern("dyad", "Dyad", "xx", 3, Common, 1, 10, 0)
	addPattern("skew", "Skew", "x-/-x", 4, Common, 1, 11, 0)
	addPattern("spire", "Spire", "x/x/x", 5, Common, 1, 12, 0)
	addPattern("elbow", "Elbow", "x-/xx", 6, Uncommon, 1, 13, 0)
	addPattern("bridge", "Bridge", "x#x", 8, Uncommon, 1.2, 14, 2)
	addPattern("quad", "Quad", "xx/xx", 10, Rare, 1, 15, 2)
	addPattern("beam", "Beam", "xxxx", 12, Rare, 0.9, 16, 1)

	// Bonuses: ordered scoring hooks.
	c.MustAdd(Item{
		Name: "echo", Title: "Echo", Desc: "Every match is worth 2 extra points.",
		Freq: Common, FreqMult: 1, Priority: 20, Limit: 0,
		Kind: KindBonus,
		Bonus: &score.Bonus{Name: "echo", Apply: func(s *score.Score, _ grid.Grid) {
			for _, comp := range s.Components {
				for i := range comp.Matches {
					comp.Matches[i].Points += 2
				}
			}
		}},
	})
	c.MustAdd(Item{
		Name: "density", Title: "Density", Desc: "Cells in clusters of five or more are worth double.",
		Freq: Uncommon, FreqMult: 1, Priority: 21, Limit: 2,
		Kind: KindBonus,
		Bonus: &score.Bonus{Name: "density", Apply: func(s *score.Score, _ grid.Grid) {
			for _, comp := range s.Components {
				if len(comp.Cells) >= 5 {
					comp.CellPoints *= 2
				}
			}
		}},
	})
	c.MustAdd(Item{
		Name: "residue", Title: "Residue", Desc: "Every cluster scores its cells, matched or not.",
		Freq: Uncommon, FreqMult: 1, Priority: 22, Limit: 1,
		Kind: KindBonus,
		Bonus: &score.Bonus{Name: "residue", Apply: func(s *score.Score, _ grid.Grid) {
			for _, comp := range s.Components {
				comp.AlwaysScoring = true
			}
		}},
	})
	c.MustAdd(Item{
		Name: "tuning", Title: "Tuning", Desc: "The largest cluster scores at 1.5x.",
		Freq: Rare, FreqMult: 0.9, Priority: 23, Limit: 2,
		Kind: KindBonus,
		Bonus: &score.Bonus{Name: "tuning", Apply: func(s *score.Score, _ grid.Grid) {
			var best *score.ComponentScore
			for _, comp := range s.Components {
				if best == nil || len(comp.Cells) > len(best.Cells) {
					best = comp
				}
			}
			if best != nil {
				best.Multiplier *= 1.5
			}
		}},
	})
	c.MustAdd(Item{
		Name: "static", Title: "Static", Desc: "A flat 10 nnat per board.",
		Freq: Common, FreqMult: 1, Priority: 24, Limit: 0,
		Kind: KindBonus,
		Bonus: &score.Bonus{Name: "static", Apply: func(s *score.Score, _ grid.Grid) {
			s.FlatPoints += 10
		}},
	})
	c.MustAdd(Item{
		Name: "cascade", Title: "Cascade", Desc: "The whole board scores at 1.25x.",
		Freq: Rare, FreqMult: 0.8, Priority: 25, Limit: 1,
		Kind: KindBonus,
		Bonus: &score.Bonus{Name: "cascade", Apply: func(s *score.Score, _ grid.Grid) {
			s.Multiplier *= 1.25
		}},
	})

	return c
}
