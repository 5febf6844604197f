package grid

// FindMatches returns every anchor position (flat index of the pattern's
// top-left corner) where the pattern fits fully inside g and matches
// cell-by-cell. A cell pair mismatches only when both the pattern cell
// and the grid cell are non-wildcard and unequal; a wildcard on either
// side always matches. Anchors are returned in row-major scan order.
// Pure function of two immutable grids.
func FindMatches(pattern, g Grid) []int {
	var anchors []int
	if pattern.Rows > g.Rows || pattern.Cols > g.Cols {
		return anchors
	}

	for r := 0; r+pattern.Rows <= g.Rows; r++ {
	anchor:
		for c := 0; c+pattern.Cols <= g.Cols; c++ {
			for pr := 0; pr < pattern.Rows; pr++ {
				for pc := 0; pc < pattern.Cols; pc++ {
					pcell := pattern.Cells[pr*pattern.Cols+pc]
					gcell := g.Cells[(r+pr)*g.Cols+(c+pc)]
					if pcell != Wildcard && gcell != Wildcard && pcell != gcell {
						continue anchor
					}
				}
			}
			anchors = append(anchors, r*g.Cols+c)
		}
	}

	return anchors
}
