package physics

import "math"

// SpatialGrid is a uniform grid for broad-phase collision detection.
// Objects are inserted by position and index, then nearby objects can be queried
// via a 3x3 neighborhood lookup.
//
// Cell size must be >= the maximum interaction distance between any two
// colliding objects so that all potential collisions are found within
// the 3x3 neighborhood. Positions outside the covered area are clamped to the
// border cells, which only ever adds candidates.
type SpatialGrid struct {
	minX, minY  float64
	cellSize    float64
	invCellSize float64 // 1 / cellSize (precomputed to avoid division)
	cols        int
	rows        int
	cells       []gridCell
}

// gridCell stores the indices of objects that fall within a grid cell.
// The slice is reused between frames (reset to [:0]) to avoid allocations.
type gridCell struct {
	items []int
}

// NewSpatialGrid creates a spatial grid covering [minX,maxX] x [minY,maxY].
// cellSize should be >= the maximum collision distance for the objects being inserted.
func NewSpatialGrid(minX, minY, maxX, maxY, cellSize float64) *SpatialGrid {
	g := &SpatialGrid{}
	g.Reset(minX, minY, maxX, maxY, cellSize)
	return g
}

// Reset re-dimensions the grid and empties it. Cell storage is reused when the
// cell count does not grow.
func (g *SpatialGrid) Reset(minX, minY, maxX, maxY, cellSize float64) {
	if cellSize < 1 {
		cellSize = 1
	}
	cols := int(math.Ceil((maxX - minX) / cellSize))
	rows := int(math.Ceil((maxY - minY) / cellSize))
	if cols < 1 {
		cols = 1
	}
	if rows < 1 {
		rows = 1
	}

	g.minX, g.minY = minX, minY
	g.cellSize = cellSize
	g.invCellSize = 1.0 / cellSize
	g.cols, g.rows = cols, rows

	n := cols * rows
	if cap(g.cells) < n {
		g.cells = make([]gridCell, n)
	} else {
		g.cells = g.cells[:n]
	}
	g.Clear()
}

// CellSize returns the configured cell size.
func (g *SpatialGrid) CellSize() float64 {
	return g.cellSize
}

// Clear removes all items from the grid without deallocating cell memory.
func (g *SpatialGrid) Clear() {
	for i := range g.cells {
		g.cells[i].items = g.cells[i].items[:0]
	}
}

// Insert adds an item (identified by index) at the given world position.
func (g *SpatialGrid) Insert(x, y float64, index int) {
	col, row := g.posToCell(x, y)
	idx := row*g.cols + col
	g.cells[idx].items = append(g.cells[idx].items, index)
}

// QueryAround calls fn for each item index in the 3x3 cell neighborhood
// around the given world position.
// If fn returns true, iteration stops early (useful for "find first" queries).
func (g *SpatialGrid) QueryAround(x, y float64, fn func(index int) bool) {
	col, row := g.posToCell(x, y)

	for r := row - 1; r <= row+1; r++ {
		if r < 0 || r >= g.rows {
			continue
		}
		rowOffset := r * g.cols

		for c := col - 1; c <= col+1; c++ {
			if c < 0 || c >= g.cols {
				continue
			}
			for _, itemIdx := range g.cells[rowOffset+c].items {
				if fn(itemIdx) {
					return
				}
			}
		}
	}
}

// LowestAround returns the smallest index in the neighborhood of (x, y) for which
// match returns true, or -1. Resolving by index keeps the broad phase from
// changing which candidate wins compared to a linear scan.
func (g *SpatialGrid) LowestAround(x, y float64, match func(index int) bool) int {
	best := -1
	g.QueryAround(x, y, func(i int) bool {
		if best >= 0 && i >= best {
			return false
		}
		if match(i) {
			best = i
		}
		return false
	})
	return best
}

// posToCell converts world coordinates to grid cell coordinates.
// Clamps to valid range to handle edge cases with floating point.
func (g *SpatialGrid) posToCell(x, y float64) (col, row int) {
	col = int(math.Floor((x - g.minX) * g.invCellSize))
	if col < 0 {
		col = 0
	} else if col >= g.cols {
		col = g.cols - 1
	}

	row = int(math.Floor((y - g.minY) * g.invCellSize))
	if row < 0 {
		row = 0
	} else if row >= g.rows {
		row = g.rows - 1
	}

	return col, row
}
