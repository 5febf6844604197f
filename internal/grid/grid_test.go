package grid

import (
	"errors"
	"math/rand"
	"testing"
)

func TestParseRoundTrip(t *testing.T) {
	specs := []string{
		"x",
		"---",
		"x-/-x",
		"xxx-/-x-x/x-x-",
		"#x-/x#-",
	}

	for _, spec := range specs {
		g, err := Parse(spec)
		if err != nil {
			t.Fatalf("Parse(%q): %v", spec, err)
		}
		if got := g.String(); got != spec {
			t.Errorf("round trip of %q: got %q", spec, got)
		}
		if len(g.Cells) != g.Rows*g.Cols {
			t.Errorf("Parse(%q): %d cells for %dx%d", spec, len(g.Cells), g.Rows, g.Cols)
		}
	}
}

func TestParseErrors(t *testing.T) {
	bad := []string{
		"",
		"xx/x",
		"x-/xyz",
		"ab",
		"X",
	}

	for _, spec := range bad {
		if _, err := Parse(spec); !errors.Is(err, ErrFormat) {
			t.Errorf("Parse(%q): expected ErrFormat, got %v", spec, err)
		}
	}
}

func TestIndex(t *testing.T) {
	g := MustParse("xxx-/-x-x/x-x-")

	i, err := g.Index(1, 3)
	if err != nil {
		t.Fatalf("Index(1,3): %v", err)
	}
	if i != 7 {
		t.Errorf("Index(1,3) = %d, want 7", i)
	}

	outside := [][2]int{{-1, 0}, {0, -1}, {3, 0}, {0, 4}}
	for _, rc := range outside {
		if _, err := g.Index(rc[0], rc[1]); !errors.Is(err, ErrRange) {
			t.Errorf("Index(%d,%d): expected ErrRange, got %v", rc[0], rc[1], err)
		}
	}
}

func TestReplaceDoesNotMutate(t *testing.T) {
	g := MustParse("x-/-x")
	h := g.Replace(1, Filled)

	if g.At(1) != Empty {
		t.Error("Replace mutated the receiver")
	}
	if h.At(1) != Filled {
		t.Error("Replace did not set the new cell")
	}
	if g.Equal(h) {
		t.Error("expected grids to differ after Replace")
	}
}

func TestRandomNeverWildcard(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	g := Random(20, 20, rng)

	if len(g.Cells) != 400 {
		t.Fatalf("expected 400 cells, got %d", len(g.Cells))
	}
	for i, c := range g.Cells {
		if c == Wildcard {
			t.Fatalf("Random produced a wildcard at %d", i)
		}
	}
}

func TestRandomDeterministic(t *testing.T) {
	a := Random(8, 8, rand.New(rand.NewSource(42)))
	b := Random(8, 8, rand.New(rand.NewSource(42)))
	if !a.Equal(b) {
		t.Error("same seed produced different grids")
	}
}

func TestComponents(t *testing.T) {
	// xx-x
	// -x-x
	// x--#
	g := MustParse("xx-x/-x-x/x--#")
	comps, lookup := g.Components()

	want := [][]int{
		{0, 1, 5},  // top-left L
		{3, 7, 11}, // right column, wildcard joins via adjacency
		{8},        // lone bottom-left cell
	}
	if len(comps) != len(want) {
		t.Fatalf("got %d components, want %d: %v", len(comps), len(want), comps)
	}
	for i, w := range want {
		if len(comps[i]) != len(w) {
			t.Fatalf("component %d = %v, want %v", i, comps[i], w)
		}
		for j, idx := range w {
			if comps[i][j] != idx {
				t.Errorf("component %d = %v, want %v", i, comps[i], w)
				break
			}
			if lookup[idx] != i {
				t.Errorf("lookup[%d] = %d, want %d", idx, lookup[idx], i)
			}
			_ = j
		}
	}

	for i, c := range g.Cells {
		if c == Empty && lookup[i] != -1 {
			t.Errorf("empty cell %d mapped to component %d", i, lookup[i])
		}
		if c != Empty && lookup[i] == -1 {
			t.Errorf("non-empty cell %d has no component", i)
		}
	}
}

func TestComponentsNoCrossAdjacency(t *testing.T) {
	rng := rand.New(rand.NewSource(99))
	for trial := 0; trial < 20; trial++ {
		g := Random(6, 9, rng)
		_, lookup := g.Components()

		for i, c := range g.Cells {
			if c == Empty {
				continue
			}
			r, col := i/g.Cols, i%g.Cols
			for _, n := range [4][2]int{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nr, nc := r+n[0], col+n[1]
				if nr < 0 || nr >= g.Rows || nc < 0 || nc >= g.Cols {
					continue
				}
				ni := nr*g.Cols + nc
				if g.Cells[ni] != Empty && lookup[ni] != lookup[i] {
					t.Fatalf("adjacent non-empty cells %d and %d in different components", i, ni)
				}
			}
		}
	}
}

func TestComponentsDeterministic(t *testing.T) {
	g := Random(10, 10, rand.New(rand.NewSource(5)))

	compsA, lookupA := g.Components()
	compsB, lookupB := g.Components()

	if len(compsA) != len(compsB) {
		t.Fatalf("component count changed between calls: %d vs %d", len(compsA), len(compsB))
	}
	for i := range compsA {
		if len(compsA[i]) != len(compsB[i]) {
			t.Fatalf("component %d size changed", i)
		}
		for j := range compsA[i] {
			if compsA[i][j] != compsB[i][j] {
				t.Fatalf("component %d order changed", i)
			}
		}
	}
	for i := range lookupA {
		if lookupA[i] != lookupB[i] {
			t.Fatalf("lookup[%d] changed between calls", i)
		}
	}
}
