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

import "github.com/ctessum/geom"

// Ring is a closed sequence of cell corners: the first and last vertex
// are equal.
type Ring []Vertex

// Closed reports whether r has at least four vertices and ends where it
// starts.
func (r Ring) Closed() bool {
	return len(r) >= 4 && r[0] == r[len(r)-1]
}

// closeRing removes consecutive duplicate vertices from v and closes the
// result if needed.
func closeRing(v []Vertex) Ring {
	out := make(Ring, 0, len(v)+1)
	for _, p := range v {
		if len(out) == 0 || out[len(out)-1] != p {
			out = append(out, p)
		}
	}
	if len(out) > 0 && out[0] != out[len(out)-1] {
		out = append(out, out[0])
	}
	return out
}

// Simplified returns a copy of r without the vertices that lie on a
// straight line between their neighbors. The result is closed.
func (r Ring) Simplified() Ring {
	pts := make([]Vertex, 0, len(r))
	for _, p := range r {
		if len(pts) == 0 || pts[len(pts)-1] != p {
			pts = append(pts, p)
		}
	}
	if len(pts) > 1 && pts[0] == pts[len(pts)-1] {
		pts = pts[:len(pts)-1]
	}
	for removed := true; removed && len(pts) > 3; {
		removed = false
		for i := range pts {
			a := pts[(i+len(pts)-1)%len(pts)]
			b := pts[i]
			c := pts[(i+1)%len(pts)]
			if collinear(a, b, c) {
				pts = append(pts[:i], pts[i+1:]...)
				removed = true
				break
			}
		}
	}
	if len(pts) == 0 {
		return nil
	}
	return append(Ring(pts), pts[0])
}

func collinear(a, b, c Vertex) bool {
	return (b.Row-a.Row)*(c.Col-b.Col)-(b.Col-a.Col)*(c.Row-b.Row) == 0
}

// Polygon converts r into a polygon in pixel space, with X holding the
// column and Y the row, as expected by flowdir.Affine.Transformer.
func (r Ring) Polygon() geom.Polygon {
	return geom.Polygon{r.points()}
}

// Perimeter returns the length of r in pixels.
func (r Ring) Perimeter() float64 { return geom.LineString(r.points()).Length() }

func (r Ring) points() []geom.Point {
	pts := make([]geom.Point, len(r))
	for i, v := range r {
		pts[i] = geom.Point{X: v.Col, Y: v.Row}
	}
	return pts
}

// Contains reports whether the center of cell (row, col) lies inside r.
func (r Ring) Contains(row, col int) bool {
	c := geom.Point{X: float64(col) + 0.5, Y: float64(row) + 0.5}
	return c.Within(r.Polygon()) == geom.Inside
}

// Area returns the area enclosed by r in square pixels.
func (r Ring) Area() float64 { return r.Polygon().Area() }
