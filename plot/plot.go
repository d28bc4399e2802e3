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

/*Package plot draws delineated catchments.*/
package plot

import (
	"fmt"

	"github.com/ctessum/geom"
	"github.com/spatialmodel/ridgeline/catchment"
	"github.com/spatialmodel/ridgeline/flowdir"
	"github.com/spatialmodel/ridgeline/trace"
	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
)

// XYs implements the gonum.org/v1/plot/plotter.XYer interface.
type XYs []XY

// XY is an x and y value.
type XY struct{ X, Y float64 }

// Len returns the number of X,Y pairs.
func (xys XYs) Len() int {
	return len(xys)
}

// XY return the x and y values at index i, where i < Len()
func (xys XYs) XY(i int) (float64, float64) {
	return xys[i].X, xys[i].Y
}

// FromPolygon returns one XYs for each ring of p.
func FromPolygon(p geom.Polygon) []XYs {
	out := make([]XYs, len(p))
	for i, path := range p {
		xys := make(XYs, len(path))
		for j, pt := range path {
			xys[j] = XY{X: pt.X, Y: pt.Y}
		}
		out[i] = xys
	}
	return out
}

// CellCenters returns the map coordinates of the centers of the given
// cells.
func CellCenters(a flowdir.Affine, cells []trace.RidgePoint) XYs {
	xys := make(XYs, len(cells))
	for i, c := range cells {
		x, y := a.Forward(float64(c.Col)+0.5, float64(c.Row)+0.5)
		xys[i] = XY{X: x, Y: y}
	}
	return xys
}

// Catchment returns a plot of the boundary of c, the ridge cells the
// trace walked and the outlet.
func Catchment(c *catchment.Catchment, title string) (*plot.Plot, error) {
	poly, err := c.Polygon()
	if err != nil {
		return nil, err
	}
	p := plot.New()
	p.Title.Text = title
	p.X.Label.Text = "x"
	p.Y.Label.Text = "y"

	var boundary *plotter.Line
	for _, ring := range FromPolygon(poly) {
		l, err := plotter.NewLine(ring)
		if err != nil {
			return nil, fmt.Errorf("plot: boundary: %v", err)
		}
		l.Width = vg.Points(1.5)
		p.Add(l)
		if boundary == nil {
			boundary = l
		}
	}

	a := c.Transform()
	ridge, err := plotter.NewScatter(CellCenters(a, c.Trace.RidgePoints))
	if err != nil {
		return nil, fmt.Errorf("plot: ridge cells: %v", err)
	}
	ridge.GlyphStyle.Shape = draw.CrossGlyph{}
	ridge.GlyphStyle.Radius = vg.Points(2)
	p.Add(ridge)

	outlet, err := plotter.NewScatter(CellCenters(a, []trace.RidgePoint{{Point: c.Outlet}}))
	if err != nil {
		return nil, fmt.Errorf("plot: outlet: %v", err)
	}
	outlet.GlyphStyle.Shape = draw.CircleGlyph{}
	outlet.GlyphStyle.Radius = vg.Points(4)
	p.Add(outlet)

	if boundary != nil {
		p.Legend.Add("boundary", boundary)
	}
	p.Legend.Add("ridge cells", ridge)
	p.Legend.Add("outlet", outlet)
	return p, nil
}

// Save writes a plot of c to path. The image format is taken from the
// file extension.
func Save(c *catchment.Catchment, title, path string) error {
	p, err := Catchment(c, title)
	if err != nil {
		return err
	}
	if err := p.Save(6*vg.Inch, 6*vg.Inch, path); err != nil {
		return fmt.Errorf("plot: saving %s: %v", path, err)
	}
	return nil
}
