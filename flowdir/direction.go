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

/*Package flowdir holds D8 flow-direction rasters and the affine transform
that places them on the map.*/
package flowdir

import (
	"fmt"
	"math/bits"
)

// Direction is the index of one of the eight D8 neighbors of a cell.
// Directions are numbered clockwise starting from east, so direction k
// has the D8 code 1<<k.
type Direction int

// The eight D8 directions.
const (
	East Direction = iota
	SouthEast
	South
	SouthWest
	West
	NorthWest
	North
	NorthEast
)

// NumDirections is the number of neighbors in a D8 neighborhood.
const NumDirections = 8

// offsets holds the (row, col) step for each direction. Rows increase
// southward.
var offsets = [NumDirections][2]int{
	{0, 1},
	{1, 1},
	{1, 0},
	{1, -1},
	{0, -1},
	{-1, -1},
	{-1, 0},
	{-1, 1},
}

var directionNames = [NumDirections]string{"E", "SE", "S", "SW", "W", "NW", "N", "NE"}

// Mod wraps d into the range [0, 8).
func (d Direction) Mod() Direction {
	m := d % NumDirections
	if m < 0 {
		m += NumDirections
	}
	return m
}

// Offset returns the row and column step to the neighbor in direction d.
func (d Direction) Offset() (dRow, dCol int) {
	o := offsets[d.Mod()]
	return o[0], o[1]
}

// Code returns the D8 code of d.
func (d Direction) Code() uint8 { return 1 << uint(d.Mod()) }

// Opposite returns the direction pointing the other way.
func (d Direction) Opposite() Direction { return (d + 4).Mod() }

// Diagonal reports whether d points at a corner neighbor.
func (d Direction) Diagonal() bool { return d.Mod()%2 == 1 }

func (d Direction) String() string {
	if d < 0 || d >= NumDirections {
		return fmt.Sprintf("Direction(%d)", int(d))
	}
	return directionNames[d]
}

// DirectionFromCode converts a D8 code into a direction. ok is false for
// the no-flow code 0 and for values that are not a single power of two.
func DirectionFromCode(code uint8) (d Direction, ok bool) {
	if code == 0 || bits.OnesCount8(code) != 1 {
		return 0, false
	}
	return Direction(bits.TrailingZeros8(code)), true
}

// ValidCode reports whether code is 0 or one of the eight D8 codes.
func ValidCode(code uint8) bool {
	return bits.OnesCount8(code) <= 1
}
