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
	"fmt"
	"math"

	"github.com/ctessum/geom/proj"
	"gonum.org/v1/gonum/mat"
)

// Affine maps pixel coordinates to map coordinates. The coefficients use
// the rasterio ordering:
//
//	x = A[0]*col + A[1]*row + A[2]
//	y = A[3]*col + A[4]*row + A[5]
//
// so (col, row) = (0, 0) is the outer corner of the first pixel.
type Affine [6]float64

// NorthUp returns the transform of an unrotated raster whose upper-left
// corner is at (x0, y0) and whose pixels are dx wide and dy tall. dy is
// normally negative.
func NorthUp(x0, y0, dx, dy float64) Affine {
	return Affine{dx, 0, x0, 0, dy, y0}
}

// Forward maps the pixel-space point (col, row) to map coordinates.
func (a Affine) Forward(col, row float64) (x, y float64) {
	return a[0]*col + a[1]*row + a[2], a[3]*col + a[4]*row + a[5]
}

func (a Affine) matrix() *mat.Dense {
	return mat.NewDense(3, 3, []float64{
		a[0], a[1], a[2],
		a[3], a[4], a[5],
		0, 0, 1,
	})
}

// Inverse returns the transform from map coordinates back to pixel space.
func (a Affine) Inverse() (Affine, error) {
	m := a.matrix()
	if det := mat.Det(m); det == 0 || math.IsNaN(det) {
		return Affine{}, ErrSingularTransform
	}
	var inv mat.Dense
	if err := inv.Inverse(m); err != nil {
		return Affine{}, fmt.Errorf("%w: %v", ErrSingularTransform, err)
	}
	return Affine{
		inv.At(0, 0), inv.At(0, 1), inv.At(0, 2),
		inv.At(1, 0), inv.At(1, 1), inv.At(1, 2),
	}, nil
}

// Transformer returns a projection function that takes points whose X is
// a pixel column and whose Y is a pixel row to map coordinates. It can be
// passed to the Transform method of any geom.Geom.
func (a Affine) Transformer() proj.Transformer {
	return func(col, row float64) (float64, float64, error) {
		x, y := a.Forward(col, row)
		return x, y, nil
	}
}

// CellSize returns the width and height of a pixel in map units.
func (a Affine) CellSize() (dx, dy float64) {
	return math.Hypot(a[0], a[3]), math.Hypot(a[1], a[4])
}
