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

package flowdir

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrEmptyGrid is returned for a grid without rows or columns.
	ErrEmptyGrid = errors.New("flowdir: grid must have at least one row and one column")
	// ErrShape is returned when the cell data does not match the dimensions.
	ErrShape = errors.New("flowdir: cell data does not match grid dimensions")
	// ErrInvalidCode is returned for a cell whose value is neither 0 nor a D8 code.
	ErrInvalidCode = errors.New("flowdir: invalid D8 flow direction code")
	// ErrSingularTransform is returned for an affine transform that cannot be inverted.
	ErrSingularTransform = errors.New("flowdir: affine transform is not invertible")
)

// Grid is a read-only D8 flow-direction raster. It is safe for concurrent
// use once constructed.
type Grid struct {
	rows, cols int
	codes      []uint8
	transform  Affine
	inverse    Affine
}

// NewGrid creates a grid with the given dimensions from row-major D8
// codes. The codes are copied.
func NewGrid(rows, cols int, codes []uint8, transform Affine) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, ErrEmptyGrid
	}
	if len(codes) != rows*cols {
		return nil, fmt.Errorf("%w: %d values for %d×%d cells", ErrShape, len(codes), rows, cols)
	}
	for i, c := range codes {
		if !ValidCode(c) {
			return nil, fmt.Errorf("%w: %d at row %d, col %d", ErrInvalidCode, c, i/cols, i%cols)
		}
	}
	inv, err := transform.Inverse()
	if err != nil {
		return nil, err
	}
	g := &Grid{
		rows:      rows,
		cols:      cols,
		codes:     make([]uint8, len(codes)),
		transform: transform,
		inverse:   inv,
	}
	copy(g.codes, codes)
	return g, nil
}

// FromRows creates a grid from a rectangular slice of rows.
func FromRows(codes [][]uint8, transform Affine) (*Grid, error) {
	if len(codes) == 0 || len(codes[0]) == 0 {
		return nil, ErrEmptyGrid
	}
	cols := len(codes[0])
	flat := make([]uint8, 0, len(codes)*cols)
	for i, row := range codes {
		if len(row) != cols {
			return nil, fmt.Errorf("%w: row %d has %d columns, want %d", ErrShape, i, len(row), cols)
		}
		flat = append(flat, row...)
	}
	return NewGrid(len(codes), cols, flat, transform)
}

// Rows returns the number of rows in the grid.
func (g *Grid) Rows() int { return g.rows }

// Cols returns the number of columns in the grid.
func (g *Grid) Cols() int { return g.cols }

// Transform returns the pixel to map transform.
func (g *Grid) Transform() Affine { return g.transform }

// InBounds reports whether (row, col) lies inside the grid.
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

// Code returns the D8 code at (row, col), which must be in bounds.
func (g *Grid) Code(row, col int) uint8 { return g.codes[row*g.cols+col] }

// Downstream returns the cell that (row, col) drains into. ok is false
// when the cell is a sink. The returned cell may lie outside the grid.
func (g *Grid) Downstream(row, col int) (dRow, dCol int, ok bool) {
	d, ok := DirectionFromCode(g.Code(row, col))
	if !ok {
		return 0, 0, false
	}
	dr, dc := d.Offset()
	return row + dr, col + dc, true
}

// CellAt returns the cell containing the map coordinate (x, y). ok is
// false when the point is outside the grid.
func (g *Grid) CellAt(x, y float64) (row, col int, ok bool) {
	c, r := g.inverse.Forward(x, y)
	row, col = int(math.Floor(r)), int(math.Floor(c))
	return row, col, g.InBounds(row, col)
}
