// Package life implements the Conway's Game of Life transition on packed grids.
// Edges are hard boundaries: cells outside the grid count as dead.
package life

import "github.com/specialistvlad/gridlife/internal/grid"

// Step computes the next generation of g. The input is never modified; the
// result is built in a row buffer local to this call, so every neighbour
// lookup observes the previous generation.
func Step(g grid.Grid) grid.Grid {
	width, height := g.Width(), g.Height()
	next := make([]grid.Row, height)

	for y := 0; y < height; y++ {
		var row grid.Row
		for x := width - 1; x >= 0; x-- {
			if NextState(g.Alive(x, y), Neighbours(g, x, y)) {
				row |= 1 << uint(x)
			}
		}
		next[y] = row
	}

	return grid.FromRows(width, next)
}

// Run applies Step n times and returns the resulting generation.
func Run(g grid.Grid, n int) grid.Grid {
	for i := 0; i < n; i++ {
		g = Step(g)
	}
	return g
}

// Neighbours counts the live cells in the Moore neighbourhood of (x, y).
func Neighbours(g grid.Grid, x, y int) int {
	width, height := g.Width(), g.Height()
	count := 0

	if x > 0 {
		count += cell(g.Row(y), x-1)
	}
	if x < width-1 {
		count += cell(g.Row(y), x+1)
	}
	if y > 0 {
		count += rowNeighbours(g.Row(y-1), x, width)
	}
	if y < height-1 {
		count += rowNeighbours(g.Row(y+1), x, width)
	}
	return count
}

// NextState applies B3/S23: a live cell survives with 2 or 3 neighbours, a dead
// cell is born with exactly 3.
func NextState(alive bool, neighbours int) bool {
	return neighbours == 3 || (alive && neighbours == 2)
}

// rowNeighbours counts the up to three cells of an adjacent row that touch column x.
func rowNeighbours(row grid.Row, x, width int) int {
	count := cell(row, x)
	if x > 0 {
		count += cell(row, x-1)
	}
	if x < width-1 {
		count += cell(row, x+1)
	}
	return count
}

func cell(row grid.Row, x int) int {
	return int((row >> uint(x)) & 1)
}
