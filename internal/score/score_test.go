package score

import (
	"testing"

	"github.com/nnat-dev/nnat/internal/grid"
)

func singlePattern(spec string, points float64) []Pattern {
	return []Pattern{{Name: "p", Shape: grid.MustParse(spec), Points: points}}
}

func TestComputeSingleComponent(t *testing.T) {
	g := grid.MustParse("xx--")
	s := Compute(g, singlePattern("xx", 10), nil)

	if len(s.Components) != 1 {
		t.Fatalf("expected 1 component, got %d", len(s.Components))
	}
	comp := s.Components[0]
	if len(comp.Matches) != 1 {
		t.Fatalf("expected 1 match, got %d", len(comp.Matches))
	}
	if comp.Matches[0].Position != 0 || comp.Matches[0].Points != 10 {
		t.Errorf("match = %+v", comp.Matches[0])
	}

	// ceil(1 × (10 + 2 cells × 1)) = 12
	if got := comp.Score(); got != 12 {
		t.Errorf("component score = %d, want 12", got)
	}
	if got := s.Total(); got != 12 {
		t.Errorf("total = %d, want 12", got)
	}
}

func TestComputeNoMatchNoCellPoints(t *testing.T) {
	g := grid.MustParse("xx--")
	s := Compute(g, singlePattern("xxx", 10), nil)

	if got := s.Total(); got != 0 {
		t.Errorf("total = %d, want 0 (unmatched components score nothing)", got)
	}
}

func TestAlwaysScoring(t *testing.T) {
	g := grid.MustParse("xxx-")
	always := Bonus{Name: "always", Apply: func(s *Score, _ grid.Grid) {
		for _, c := range s.Components {
			c.AlwaysScoring = true
		}
	}}

	s := Compute(g, nil, []Bonus{always})
	// 3 cells × 1 cellPoints, no matches
	if got := s.Total(); got != 3 {
		t.Errorf("total = %d, want 3", got)
	}
}

// A match whose footprint covers cells of several components is
// attributed to each of them, once per component.
func TestStraddlingMatchCountsPerComponent(t *testing.T) {
	g := grid.MustParse("x-/-x")
	s := Compute(g, singlePattern("x-/-x", 5), nil)

	if len(s.Components) != 2 {
		t.Fatalf("expected 2 components, got %d", len(s.Components))
	}
	for i, c := range s.Components {
		if len(c.Matches) != 1 {
			t.Fatalf("component %d: expected the straddling match, got %d matches", i, len(c.Matches))
		}
		// ceil(1 × (5 + 1 cell × 1)) = 6
		if got := c.Score(); got != 6 {
			t.Errorf("component %d score = %d, want 6", i, got)
		}
	}
	if got := s.Total(); got != 12 {
		t.Errorf("total = %d, want 12", got)
	}
}

func TestBonusOrderIsSignificant(t *testing.T) {
	g := grid.MustParse("xx--")
	set := Bonus{Name: "set", Apply: func(s *Score, _ grid.Grid) {
		for _, c := range s.Components {
			for i := range c.Matches {
				c.Matches[i].Points = 20
			}
		}
	}}
	double := Bonus{Name: "double", Apply: func(s *Score, _ grid.Grid) {
		for _, c := range s.Components {
			for i := range c.Matches {
				c.Matches[i].Points *= 2
			}
		}
	}}

	a := Compute(g, singlePattern("xx", 10), []Bonus{set, double})
	b := Compute(g, singlePattern("xx", 10), []Bonus{double, set})

	// set then double: 20*2+2 = 42; double then set: 20+2 = 22
	if got := a.Total(); got != 42 {
		t.Errorf("set,double total = %d, want 42", got)
	}
	if got := b.Total(); got != 22 {
		t.Errorf("double,set total = %d, want 22", got)
	}
}

func TestGlobalBonusesAndCeil(t *testing.T) {
	g := grid.MustParse("xx--")
	boost := Bonus{Name: "boost", Apply: func(s *Score, _ grid.Grid) {
		s.Components[0].Multiplier = 1.5
		s.FlatPoints = 2.5
		s.Multiplier = 1.1
	}}

	s := Compute(g, singlePattern("xx", 10), []Bonus{boost})

	// component: ceil(1.5 × 12) = 18; total: ceil(1.1 × (18 + 2.5)) = ceil(22.55) = 23
	if got := s.Components[0].Score(); got != 18 {
		t.Errorf("component score = %d, want 18", got)
	}
	if got := s.Total(); got != 23 {
		t.Errorf("total = %d, want 23", got)
	}
}

func TestCellPointsBonus(t *testing.T) {
	g := grid.MustParse("xxx-")
	cells := Bonus{Name: "cells", Apply: func(s *Score, _ grid.Grid) {
		for _, c := range s.Components {
			c.CellPoints = 3
		}
	}}

	s := Compute(g, singlePattern("xx", 4), []Bonus{cells})

	// matches at 0 and 1, both in the one component: 4+4 + 3 cells × 3 = 17
	if got := s.Total(); got != 17 {
		t.Errorf("total = %d, want 17", got)
	}
}

func TestComputeIsPure(t *testing.T) {
	g := grid.MustParse("xxx-/-x-x/x-x-")
	patterns := singlePattern("x-/-x", 7)
	mult := Bonus{Name: "mult", Apply: func(s *Score, _ grid.Grid) {
		s.Multiplier = 2
	}}

	a := Compute(g, patterns, []Bonus{mult})
	b := Compute(g, patterns, []Bonus{mult})

	if a.Total() != b.Total() {
		t.Fatalf("totals differ: %d vs %d", a.Total(), b.Total())
	}
	if len(a.Components) != len(b.Components) {
		t.Fatalf("component counts differ")
	}
	for i := range a.Components {
		if a.Components[i].Score() != b.Components[i].Score() {
			t.Errorf("component %d scores differ", i)
		}
	}
	if patterns[0].Points != 7 {
		t.Error("Compute mutated the pattern catalog")
	}
}

func TestComponentAt(t *testing.T) {
	g := grid.MustParse("x-/-x")
	s := Compute(g, nil, nil)

	if s.ComponentAt(0) != s.Components[0] {
		t.Error("ComponentAt(0) wrong component")
	}
	if s.ComponentAt(3) != s.Components[1] {
		t.Error("ComponentAt(3) wrong component")
	}
	if s.ComponentAt(1) != nil {
		t.Error("ComponentAt(1) should be nil for an empty cell")
	}
}
