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

package catchment

import (
	"fmt"
	"image"
	"io"

	"github.com/spatialmodel/ridgeline/flowdir"
	"github.com/spatialmodel/ridgeline/trace"
	"golang.org/x/image/tiff"
)

// DiagnosticImage returns the trace cache as a grayscale image with the
// dimensions of the grid. Ridge cells hold trace.RidgeMarker, cells known
// to drain to the outlet trace.ExportFlowing, and all others 0.
func (c *Catchment) DiagnosticImage() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, c.cols, c.rows))
	copy(img.Pix, c.Trace.Cache.Export(false))
	return img
}

// WriteDiagnosticTIFF writes DiagnosticImage to w as a TIFF.
func (c *Catchment) WriteDiagnosticTIFF(w io.Writer) error {
	err := tiff.Encode(w, c.DiagnosticImage(), &tiff.Options{Compression: tiff.Deflate, Predictor: true})
	if err != nil {
		return fmt.Errorf("catchment: writing diagnostic TIFF: %v", err)
	}
	return nil
}

// WriteDiagnosticASCII writes the trace cache as an ESRI ASCII grid that
// lines up with the flow-direction grid. Cells the trace never visited
// are written as trace.ExportUnknown and flagged as no-data.
func (c *Catchment) WriteDiagnosticASCII(w io.Writer) error {
	h, err := flowdir.HeaderFor(c.rows, c.cols, c.transform)
	if err != nil {
		return fmt.Errorf("catchment: writing diagnostic grid: %w", err)
	}
	h.NoData, h.HasNoData = float64(trace.ExportUnknown), true
	data := c.Trace.Cache.Export(true)
	return flowdir.WriteASCII(w, h, func(r, col int) float64 {
		return float64(data[r*c.cols+col])
	})
}
