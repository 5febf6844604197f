// Package score computes the value of a board: connected components are
// found, pattern matches are attributed to the components they touch,
// and an ordered chain of bonus hooks adjusts points and multipliers
// before the totals are rolled up. Scoring is a pure function of the
// grid and the catalogs; the same inputs always produce the same
// breakdown.
package score

import (
	"math"

	"github.com/nnat-dev/nnat/internal/grid"
)

// Pattern is a matchable shape worth a base number of points per match.
type Pattern struct {
	Name   string
	Shape  grid.Grid
	Points float64
}

// Bonus is a scoring hook. Hooks run in catalog order and mutate the
// in-progress Score; later hooks observe earlier mutations, so order is
// part of the scoring rules.
type Bonus struct {
	Name  string
	Apply func(*Score, grid.Grid)
}

// Match records one pattern placement attributed to a component.
// Points starts at the pattern's base value; bonuses may rewrite it.
type Match struct {
	PatternName  string
	PatternIndex int // index into the pattern catalog
	Position     int // anchor flat index in the scored grid
	Points       float64
}

// ComponentScore accumulates the value of one connected component.
type ComponentScore struct {
	Cells         []int
	Matches       []Match
	Multiplier    float64 // component-local, starts at 1
	CellPoints    float64 // per-cell value, starts at 1
	AlwaysScoring bool    // score the cells even with zero matches
}

// Score returns ceil(multiplier × (match points + cell points)).
// Cell points only count when the component has at least one match or
// is flagged always-scoring.
func (c *ComponentScore) Score() int {
	if len(c.Matches) == 0 && !c.AlwaysScoring {
		return 0
	}
	points := float64(len(c.Cells)) * c.CellPoints
	for _, m := range c.Matches {
		points += m.Points
	}
	return int(math.Ceil(c.Multiplier * points))
}

// Score is the full breakdown for one grid state. It is built fresh for
// every scored grid and never reused across grids.
type Score struct {
	Components []*ComponentScore
	FlatPoints float64 // additive global bonus
	Multiplier float64 // multiplicative global bonus, starts at 1

	lookup []int // flat cell index -> component index, -1 for empty
}

// ComponentAt returns the component score owning the given cell, or nil
// for empty cells.
func (s *Score) ComponentAt(cell int) *ComponentScore {
	if cell < 0 || cell >= len(s.lookup) || s.lookup[cell] < 0 {
		return nil
	}
	return s.Components[s.lookup[cell]]
}

// MatchCount returns the number of attributed matches across all
// components. A match straddling several components counts once per
// component it touches.
func (s *Score) MatchCount() int {
	n := 0
	for _, c := range s.Components {
		n += len(c.Matches)
	}
	return n
}

// ComponentTotals returns each component's score in component order.
func (s *Score) ComponentTotals() []int {
	totals := make([]int, len(s.Components))
	for i, c := range s.Components {
		totals[i] = c.Score()
	}
	return totals
}

// Total rolls the breakdown up: ceil(multiplier × (Σ component + flat)).
func (s *Score) Total() int {
	sum := s.FlatPoints
	for _, c := range s.Components {
		sum += float64(c.Score())
	}
	return int(math.Ceil(s.Multiplier * sum))
}

// Compute scores a grid against the given pattern and bonus catalogs.
//
// Every match of every pattern is attributed to the set of distinct
// components its non-empty cells touch. A match bridging several
// components through wildcards is recorded once per touched component;
// this double-counting is part of the scoring design. Bonus hooks then
// run in catalog order against the shared Score.
func Compute(g grid.Grid, patterns []Pattern, bonuses []Bonus) *Score {
	comps, lookup := g.Components()

	s := &Score{
		Components: make([]*ComponentScore, len(comps)),
		Multiplier: 1,
		lookup:     lookup,
	}
	for i, cells := range comps {
		s.Components[i] = &ComponentScore{
			Cells:      cells,
			Multiplier: 1,
			CellPoints: 1,
		}
	}

	for pi, p := range patterns {
		for _, anchor := range grid.FindMatches(p.Shape, g) {
			for _, ci := range touchedComponents(p.Shape, g, lookup, anchor) {
				s.Components[ci].Matches = append(s.Components[ci].Matches, Match{
					PatternName:  p.Name,
					PatternIndex: pi,
					Position:     anchor,
					Points:       p.Points,
				})
			}
		}
	}

	for _, b := range bonuses {
		b.Apply(s, g)
	}

	return s
}

// touchedComponents lists the distinct components covered by a match,
// in first-touch order. A grid cell under the match participates when
// it is non-empty, regardless of what the pattern cell asks for.
func touchedComponents(pattern, g grid.Grid, lookup []int, anchor int) []int {
	var touched []int
	seen := map[int]bool{}
	ar, ac := anchor/g.Cols, anchor%g.Cols
	for pr := 0; pr < pattern.Rows; pr++ {
		for pc := 0; pc < pattern.Cols; pc++ {
			ci := lookup[(ar+pr)*g.Cols+(ac+pc)]
			if ci < 0 || seen[ci] {
				continue
			}
			seen[ci] = true
			touched = append(touched, ci)
		}
	}
	return touched
}
