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

/*Package catchment delineates drainage basins on a flow-direction grid and
converts the traced boundaries into map geometries, GeoJSON features,
shapefiles and diagnostic rasters.*/
package catchment

import (
	"fmt"
	"math"
	"time"

	"github.com/ctessum/geom"
	"github.com/golang/geo/s2"
	"github.com/spatialmodel/ridgeline/flowdir"
	"github.com/spatialmodel/ridgeline/trace"
)

// EarthRadius is the radius of the Earth at the equator.
const EarthRadius = 6.3781e6 // meters

// Catchment is the delineated basin of one outlet.
type Catchment struct {
	// Outlet is the outlet cell.
	Outlet trace.Point

	// Ring is the simplified boundary in pixel space.
	Ring trace.Ring

	// Trace holds the full result of the boundary trace.
	Trace *trace.Result

	// Elapsed is the time spent tracing the boundary.
	Elapsed time.Duration

	transform  flowdir.Affine
	rows, cols int
}

// Delineate finds the catchment of the cell containing the map
// coordinate (x, y).
func Delineate(g *flowdir.Grid, x, y float64, opts ...trace.Option) (*Catchment, error) {
	row, col, ok := g.CellAt(x, y)
	if !ok {
		return nil, fmt.Errorf("catchment: outlet (%g, %g): %w", x, y,
			&trace.TraceError{Kind: trace.ErrOutletOutside, Row: row, Col: col})
	}
	return DelineatePixel(g, trace.Point{Row: row, Col: col}, opts...)
}

// DelineatePixel finds the catchment of the given outlet cell.
func DelineatePixel(g *flowdir.Grid, outlet trace.Point, opts ...trace.Option) (*Catchment, error) {
	start := time.Now()
	res, err := trace.Trace(g, outlet, opts...)
	if err != nil {
		return nil, fmt.Errorf("catchment: delineating outlet at row %d, col %d: %w", outlet.Row, outlet.Col, err)
	}
	return &Catchment{
		Outlet:    outlet,
		Ring:      res.Simplified(),
		Trace:     res,
		Elapsed:   time.Since(start),
		transform: g.Transform(),
		rows:      g.Rows(),
		cols:      g.Cols(),
	}, nil
}

// Transform returns the pixel to map transform of the grid.
func (c *Catchment) Transform() flowdir.Affine { return c.transform }

// Polygon returns the catchment boundary in map coordinates.
func (c *Catchment) Polygon() (geom.Polygon, error) {
	p, err := c.Ring.Polygon().Transform(c.transform.Transformer())
	if err != nil {
		return nil, fmt.Errorf("catchment: projecting boundary: %v", err)
	}
	return p.(geom.Polygon), nil
}

// Area returns the planar area of the catchment in squared map units.
// Sinks enclosed by the boundary are counted.
func (c *Catchment) Area() (float64, error) {
	p, err := c.Polygon()
	if err != nil {
		return 0, err
	}
	return p.Area(), nil
}

// Perimeter returns the length of the boundary in map units.
func (c *Catchment) Perimeter() (float64, error) {
	p, err := c.Polygon()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 {
		return 0, nil
	}
	return geom.LineString(p[0]).Length(), nil
}

// GeodesicArea returns the area of the catchment on the sphere in square
// meters. The grid's map coordinates must be longitude and latitude in
// degrees.
func (c *Catchment) GeodesicArea() (float64, error) {
	p, err := c.Polygon()
	if err != nil {
		return 0, err
	}
	if len(p) == 0 || len(p[0]) < 4 {
		return 0, nil
	}
	ring := p[0][:len(p[0])-1]
	pts := make([]s2.Point, len(ring))
	for i, v := range ring {
		pts[i] = s2.PointFromLatLng(s2.LatLngFromDegrees(v.Y, v.X))
	}
	a := s2.LoopFromPoints(pts).Area()
	// The orientation of the ring depends on the transform, so take the
	// smaller of the two regions it separates.
	return math.Min(a, 4*math.Pi-a) * EarthRadius * EarthRadius, nil
}

// Summary describes the size of a catchment.
type Summary struct {
	Vertices   int
	RidgeCells int
	Iterations int
	Area       float64
	Perimeter  float64
	Elapsed    time.Duration
}

// Summary returns the size of the catchment.
func (c *Catchment) Summary() (Summary, error) {
	area, err := c.Area()
	if err != nil {
		return Summary{}, err
	}
	perim, err := c.Perimeter()
	if err != nil {
		return Summary{}, err
	}
	n := len(c.Ring)
	if n > 0 {
		n-- // closing vertex
	}
	return Summary{
		Vertices:   n,
		RidgeCells: len(c.Trace.RidgePoints),
		Iterations: c.Trace.Iterations,
		Area:       area,
		Perimeter:  perim,
		Elapsed:    c.Elapsed,
	}, nil
}
