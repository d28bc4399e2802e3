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
	"bufio"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

// ErrBadHeader is returned when an ESRI ASCII grid header is missing a
// required key or holds an unusable value.
var ErrBadHeader = errors.New("flowdir: invalid ESRI ASCII grid header")

// MaxCells is the largest number of cells a grid read from a file may
// have. A 30 arc-second global grid has about 9.3e8 cells.
const MaxCells = math.MaxInt32

// preallocCells bounds the initial capacity of the code slice, so that a
// header claiming many cells costs nothing until the cells are read.
const preallocCells = 1 << 20

// Header is the header of an ESRI ASCII grid.
type Header struct {
	Cols, Rows           int
	XLLCorner, YLLCorner float64
	CellSize             float64
	NoData               float64
	HasNoData            bool
}

// Affine returns the north-up transform described by the header.
func (h Header) Affine() Affine {
	return NorthUp(h.XLLCorner, h.YLLCorner+float64(h.Rows)*h.CellSize, h.CellSize, -h.CellSize)
}

// HeaderFor creates a header for a raster with the given dimensions and
// transform. The transform must be north-up with square pixels.
func HeaderFor(rows, cols int, a Affine) (Header, error) {
	if a[1] != 0 || a[3] != 0 || a[0] <= 0 || a[4] != -a[0] {
		return Header{}, fmt.Errorf("%w: transform %v is not north-up with square cells", ErrBadHeader, a)
	}
	return Header{
		Cols:      cols,
		Rows:      rows,
		XLLCorner: a[2],
		YLLCorner: a[5] + float64(rows)*a[4],
		CellSize:  a[0],
	}, nil
}

// ReadASCII reads a D8 flow-direction grid in ESRI ASCII format. Cells
// holding the no-data value are stored as sinks.
func ReadASCII(r io.Reader) (*Grid, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 64*1024), 1024*1024)
	s.Split(bufio.ScanWords)

	var h Header
	var center bool
	seen := make(map[string]bool)
	var first string
	for s.Scan() {
		key := strings.ToLower(s.Text())
		if _, err := strconv.ParseFloat(key, 64); err == nil {
			first = key
			break
		}
		if !s.Scan() {
			return nil, fmt.Errorf("%w: no value for %q", ErrBadHeader, key)
		}
		val := s.Text()
		v, err := strconv.ParseFloat(val, 64)
		if err != nil {
			return nil, fmt.Errorf("%w: %s %q: %v", ErrBadHeader, key, val, err)
		}
		switch key {
		case "ncols", "nrows":
			if v < 0 || v > MaxCells || v != math.Trunc(v) {
				return nil, fmt.Errorf("%w: %s %s is not a cell count in [0, %d]", ErrBadHeader, key, val, MaxCells)
			}
			if key == "ncols" {
				h.Cols = int(v)
			} else {
				h.Rows = int(v)
			}
		case "xllcorner":
			h.XLLCorner = v
		case "yllcorner":
			h.YLLCorner = v
		case "xllcenter":
			h.XLLCorner, center = v, true
		case "yllcenter":
			h.YLLCorner, center = v, true
		case "cellsize":
			h.CellSize = v
		case "nodata_value":
			h.NoData, h.HasNoData = v, true
		default:
			return nil, fmt.Errorf("%w: unknown key %q", ErrBadHeader, key)
		}
		seen[strings.TrimSuffix(strings.TrimSuffix(key, "corner"), "center")] = true
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("flowdir: reading ESRI ASCII grid: %v", err)
	}
	for _, k := range []string{"ncols", "nrows", "xll", "yll", "cellsize"} {
		if !seen[k] {
			return nil, fmt.Errorf("%w: missing %s", ErrBadHeader, k)
		}
	}
	if h.CellSize <= 0 {
		return nil, fmt.Errorf("%w: cellsize must be positive", ErrBadHeader)
	}
	if h.Rows == 0 || h.Cols == 0 {
		return nil, ErrEmptyGrid
	}
	if h.Rows > MaxCells/h.Cols {
		return nil, fmt.Errorf("%w: %d×%d cells is more than %d", ErrBadHeader, h.Rows, h.Cols, MaxCells)
	}
	n := h.Rows * h.Cols
	if center {
		h.XLLCorner -= h.CellSize / 2
		h.YLLCorner -= h.CellSize / 2
	}

	codes := make([]uint8, 0, min(n, preallocCells))
	tok := first
	for tok != "" {
		if len(codes) == n {
			return nil, fmt.Errorf("%w: more than %d values", ErrShape, n)
		}
		v, err := strconv.ParseFloat(tok, 64)
		if err != nil {
			return nil, fmt.Errorf("flowdir: cell %d: %v", len(codes), err)
		}
		switch {
		case h.HasNoData && v == h.NoData:
			codes = append(codes, 0)
		case v < 0 || v > math.MaxUint8 || v != math.Trunc(v) || !ValidCode(uint8(v)):
			return nil, fmt.Errorf("%w: %g at cell %d", ErrInvalidCode, v, len(codes))
		default:
			codes = append(codes, uint8(v))
		}
		tok = ""
		if s.Scan() {
			tok = s.Text()
		}
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("flowdir: reading ESRI ASCII grid: %v", err)
	}
	return NewGrid(h.Rows, h.Cols, codes, h.Affine())
}

// WriteASCII writes a raster in ESRI ASCII format. value is called for
// every cell in row-major order.
func WriteASCII(w io.Writer, h Header, value func(row, col int) float64) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, "ncols %d\nnrows %d\n", h.Cols, h.Rows)
	fmt.Fprintf(bw, "xllcorner %s\nyllcorner %s\ncellsize %s\n",
		formatFloat(h.XLLCorner), formatFloat(h.YLLCorner), formatFloat(h.CellSize))
	if h.HasNoData {
		fmt.Fprintf(bw, "NODATA_value %s\n", formatFloat(h.NoData))
	}
	for r := 0; r < h.Rows; r++ {
		for c := 0; c < h.Cols; c++ {
			if c > 0 {
				bw.WriteByte(' ')
			}
			bw.WriteString(formatFloat(value(r, c)))
		}
		bw.WriteByte('\n')
	}
	return bw.Flush()
}

func formatFloat(v float64) string { return strconv.FormatFloat(v, 'g', -1, 64) }
