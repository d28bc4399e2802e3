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
	"os"
	"path/filepath"
	"strings"

	"github.com/jblindsay/go-spatial/geospatialfiles/raster"
)

// ErrBadRaster is returned for a raster file that cannot be decoded.
var ErrBadRaster = errors.New("flowdir: unreadable raster file")

// ReadFile reads a D8 flow-direction grid from a file. ESRI ASCII grids
// (.asc and .txt) are read with ReadASCII. GeoTIFF and the other formats
// known to github.com/jblindsay/go-spatial are read with its raster
// package, with no-data cells stored as sinks.
func ReadFile(path string) (*Grid, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".asc", ".txt":
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("flowdir: %w", err)
		}
		defer f.Close()
		g, err := ReadASCII(f)
		if err != nil {
			return nil, fmt.Errorf("flowdir: reading %s: %w", path, err)
		}
		return g, nil
	}
	return readRaster(path)
}

func readRaster(path string) (g *Grid, err error) {
	// The raster package reports a missing file only by leaving the
	// raster empty.
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("flowdir: %w", err)
	}
	// It panics on malformed files.
	defer func() {
		if r := recover(); r != nil {
			g, err = nil, fmt.Errorf("%w: %s: %v", ErrBadRaster, path, r)
		}
	}()
	r, err := raster.CreateRasterFromFile(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrBadRaster, path, err)
	}
	rows, cols := r.Rows, r.Columns
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("flowdir: reading %s: %w", path, ErrEmptyGrid)
	}
	if rows > MaxCells/cols {
		return nil, fmt.Errorf("%w: %s: %d×%d cells is more than %d", ErrBadRaster, path, rows, cols, MaxCells)
	}

	codes := make([]uint8, rows*cols)
	for row := 0; row < rows; row++ {
		for col := 0; col < cols; col++ {
			v := r.Value(row, col)
			switch {
			case v == r.NoDataValue:
			case v < 0 || v > math.MaxUint8 || v != math.Trunc(v) || !ValidCode(uint8(v)):
				return nil, fmt.Errorf("%w: %g at row %d, col %d of %s", ErrInvalidCode, v, row, col, path)
			default:
				codes[row*cols+col] = uint8(v)
			}
		}
	}
	dx := (r.East - r.West) / float64(cols)
	dy := (r.North - r.South) / float64(rows)
	return NewGrid(rows, cols, codes, NorthUp(r.West, r.North, dx, -dy))
}
