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

import "github.com/spatialmodel/ridgeline/flowdir"

// Vertex is a cell corner in continuous pixel space. The upper-left
// corner of cell (r, c) is Vertex{r, c}.
type Vertex struct {
	Row, Col float64
}

// cornerOffsets lists the corners of a cell clockwise from the
// upper-left, twice, so that a run of up to four corners can be read
// without wrapping.
var cornerOffsets = [8]Vertex{
	{0, 0}, {0, 1}, {1, 1}, {1, 0},
	{0, 0}, {0, 1}, {1, 1}, {1, 0},
}

// cornerSpan returns the index of the first corner the boundary passes
// when it turns from last to next around a cell, and how many corners it
// passes.
func cornerSpan(last, next flowdir.Direction) (start, n int) {
	last, next = last.Mod(), next.Mod()
	pivot := int((next - last + 4).Mod())
	if pivot == 0 {
		// U-turn: the boundary wraps all the way around the cell.
		pivot = 8
	}
	start = int(last) / 2
	n = pivot / 2
	if last%2 == 1 {
		n = (pivot + 1) / 2
	}
	return start, n
}

// CornersBetween returns the corners of cell (row, col) that the
// boundary passes between arriving at the cell in direction last and
// leaving it in direction next. At most four corners are returned, in
// clockwise order.
func CornersBetween(row, col int, last, next flowdir.Direction) []Vertex {
	return appendCorners(nil, row, col, last, next)
}

func appendCorners(dst []Vertex, row, col int, last, next flowdir.Direction) []Vertex {
	start, n := cornerSpan(last, next)
	for _, o := range cornerOffsets[start : start+n] {
		dst = append(dst, Vertex{Row: float64(row) + o.Row, Col: float64(col) + o.Col})
	}
	return dst
}
