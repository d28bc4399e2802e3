/*
Copyright © 2026 the Ridgeline authors.
This file is part of Ridgeline.

Ridgeline is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Ridgeline is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Ridgeline.  If not, see <http://www.gnu.org/licenses/>.
*/

package trace

import "github.com/ctessum/sparse"

// State is the memoized status of a cell during a trace.
type State uint8

// Cell states. Only cells visited by the trace hold anything other
// than Unknown.
const (
	Unknown State = iota
	NotFlowing
	Flowing
	Ridge
)

func (s State) String() string {
	switch s {
	case NotFlowing:
		return "NotFlowing"
	case Flowing:
		return "Flowing"
	case Ridge:
		return "Ridge"
	}
	return "Unknown"
}

// Values written by Export.
const (
	ExportNotFlowing uint8 = 0
	ExportFlowing    uint8 = 1
	RidgeMarker      uint8 = 5
	ExportUnknown    uint8 = 255
)

// Cache holds the per-cell state of one trace. It is stored sparsely
// because a trace only touches cells near the catchment boundary and
// along the flow paths that lead away from it.
type Cache struct {
	rows, cols int
	cells      *sparse.SparseArray
}

// NewCache returns an empty cache for a grid of the given size.
func NewCache(rows, cols int) *Cache {
	return &Cache{
		rows:  rows,
		cols:  cols,
		cells: sparse.ZerosSparse(rows, cols),
	}
}

// Dims returns the number of rows and columns covered by the cache.
func (c *Cache) Dims() (rows, cols int) { return c.rows, c.cols }

// Get returns the state of cell (row, col).
func (c *Cache) Get(row, col int) State {
	return State(c.cells.Get(row, col))
}

// Set sets the state of cell (row, col).
func (c *Cache) Set(row, col int, s State) {
	c.cells.Set(float64(s), row, col)
}

// Memoize records whether (row, col) drains to the outlet. Ridge cells
// are left untouched.
func (c *Cache) Memoize(row, col int, flows bool) {
	if c.Get(row, col) == Ridge {
		return
	}
	if flows {
		c.Set(row, col, Flowing)
	} else {
		c.Set(row, col, NotFlowing)
	}
}

// Visited returns the number of cells holding a state.
func (c *Cache) Visited() int { return len(c.cells.Elements) }

// Export returns the cache as a row-major raster. Ridge cells are
// RidgeMarker, flowing cells ExportFlowing, and every other cell
// ExportNotFlowing, unless withUnknown is true, in which case cells the
// trace never visited are ExportUnknown.
func (c *Cache) Export(withUnknown bool) []uint8 {
	out := make([]uint8, c.rows*c.cols)
	for r := 0; r < c.rows; r++ {
		for col := 0; col < c.cols; col++ {
			var v uint8
			switch c.Get(r, col) {
			case Ridge:
				v = RidgeMarker
			case Flowing:
				v = ExportFlowing
			case Unknown:
				if withUnknown {
					v = ExportUnknown
				}
			}
			out[r*c.cols+col] = v
		}
	}
	return out
}
