// Package grid provides the immutable game board: a rectangular array of
// ternary cells with parsing, random generation and connected-component
// decomposition. It contains no external dependencies to keep game logic
// pure and testable.
package grid

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"
)

// Cell is the state of a single board position.
type Cell int

const (
	Empty    Cell = iota
	Filled        // occupied cell
	Wildcard      // matches anything during pattern comparison; non-empty for connectivity
)

// String returns the single-character text form used by Parse.
func (c Cell) String() string {
	switch c {
	case Empty:
		return "-"
	case Filled:
		return "x"
	case Wildcard:
		return "#"
	default:
		return "?"
	}
}

// ErrFormat indicates a malformed grid spec (bad token, ragged rows).
var ErrFormat = errors.New("malformed grid spec")

// ErrRange indicates a row or column index outside the grid.
var ErrRange = errors.New("index out of range")

// Grid is an immutable rectangular board stored in row-major order.
// Cells always has length Rows*Cols. Operations that change cells return
// a fresh Grid; a new Grid value is how change-detection paths notice
// that the board moved.
type Grid struct {
	Rows  int
	Cols  int
	Cells []Cell
}

// New creates an all-empty grid of the given dimensions.
func New(rows, cols int) Grid {
	return Grid{Rows: rows, Cols: cols, Cells: make([]Cell, rows*cols)}
}

// Parse builds a grid from its text form: rows joined by "/", with
// "x" filled, "-" empty and "#" wildcard. All rows must have the same
// length. Errors wrap ErrFormat.
func Parse(spec string) (Grid, error) {
	rows := strings.Split(spec, "/")
	if len(rows) == 0 || rows[0] == "" {
		return Grid{}, fmt.Errorf("grid: empty spec %q: %w", spec, ErrFormat)
	}

	cols := len(rows[0])
	cells := make([]Cell, 0, len(rows)*cols)
	for r, row := range rows {
		if len(row) != cols {
			return Grid{}, fmt.Errorf("grid: row %d has %d cells, want %d: %w", r, len(row), cols, ErrFormat)
		}
		for _, tok := range row {
			switch tok {
			case 'x':
				cells = append(cells, Filled)
			case '-':
				cells = append(cells, Empty)
			case '#':
				cells = append(cells, Wildcard)
			default:
				return Grid{}, fmt.Errorf("grid: unknown token %q in row %d: %w", string(tok), r, ErrFormat)
			}
		}
	}

	return Grid{Rows: len(rows), Cols: cols, Cells: cells}, nil
}

// MustParse is Parse for static fixtures; panics on error.
func MustParse(spec string) Grid {
	g, err := Parse(spec)
	if err != nil {
		panic(err)
	}
	return g
}

// Random generates a grid where each cell is independently Filled or
// Empty with probability one half. Random never produces wildcards.
func Random(rows, cols int, rng *rand.Rand) Grid {
	g := New(rows, cols)
	for i := range g.Cells {
		if rng.Intn(2) == 1 {
			g.Cells[i] = Filled
		}
	}
	return g
}

// String renders the grid back into the Parse text form.
func (g Grid) String() string {
	var b strings.Builder
	for r := 0; r < g.Rows; r++ {
		if r > 0 {
			b.WriteByte('/')
		}
		for c := 0; c < g.Cols; c++ {
			b.WriteString(g.Cells[r*g.Cols+c].String())
		}
	}
	return b.String()
}

// Index converts (row, col) into a flat cell index.
// Errors wrap ErrRange when either coordinate is out of bounds.
func (g Grid) Index(r, c int) (int, error) {
	if r < 0 || r >= g.Rows || c < 0 || c >= g.Cols {
		return 0, fmt.Errorf("grid: (%d,%d) outside %dx%d: %w", r, c, g.Rows, g.Cols, ErrRange)
	}
	return r*g.Cols + c, nil
}

// At returns the cell at the flat index i.
func (g Grid) At(i int) Cell {
	return g.Cells[i]
}

// Replace returns a copy of the grid with cell i set to cell.
// The receiver is left untouched.
func (g Grid) Replace(i int, cell Cell) Grid {
	cells := make([]Cell, len(g.Cells))
	copy(cells, g.Cells)
	cells[i] = cell
	return Grid{Rows: g.Rows, Cols: g.Cols, Cells: cells}
}

// Equal reports structural equality of two grids.
func (g Grid) Equal(other Grid) bool {
	if g.Rows != other.Rows || g.Cols != other.Cols {
		return false
	}
	for i, c := range g.Cells {
		if c != other.Cells[i] {
			return false
		}
	}
	return true
}

// FilledCount returns the number of non-empty cells.
func (g Grid) FilledCount() int {
	n := 0
	for _, c := range g.Cells {
		if c != Empty {
			n++
		}
	}
	return n
}

// Components partitions all non-empty cells into maximal 4-connected
// groups. It returns the components (each a list of flat indices in
// discovery order) and a per-cell lookup holding the component index,
// or -1 for empty cells. The traversal is deterministic: cells are
// scanned row-major and neighbors visited up, down, left, right, so
// component numbering is reproducible for a given grid.
func (g Grid) Components() ([][]int, []int) {
	lookup := make([]int, len(g.Cells))
	for i := range lookup {
		lookup[i] = -1
	}

	var comps [][]int
	var stack []int
	for start, c := range g.Cells {
		if c == Empty || lookup[start] != -1 {
			continue
		}

		id := len(comps)
		comp := []int{start}
		lookup[start] = id
		stack = append(stack[:0], start)
		for len(stack) > 0 {
			i := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			r, col := i/g.Cols, i%g.Cols
			for _, n := range [4]struct{ dr, dc int }{{-1, 0}, {1, 0}, {0, -1}, {0, 1}} {
				nr, nc := r+n.dr, col+n.dc
				if nr < 0 || nr >= g.Rows || nc < 0 || nc >= g.Cols {
					continue
				}
				ni := nr*g.Cols + nc
				if g.Cells[ni] == Empty || lookup[ni] != -1 {
					continue
				}
				lookup[ni] = id
				comp = append(comp, ni)
				stack = append(stack, ni)
			}
		}
		comps = append(comps, comp)
	}

	return comps, lookup
}
