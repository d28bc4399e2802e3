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
	"os"
	"strings"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/encoding/shp"
)

// WriteShp writes the catchment boundary to the shapefile at path,
// replacing any existing file. The record carries the outlet cell, the
// number of ridge cells and the planar area.
func (c *Catchment) WriteShp(path string) error {
	base := strings.TrimSuffix(path, ".shp")
	for _, ext := range []string{".shp", ".prj", ".dbf", ".shx"} {
		os.Remove(base + ext)
	}
	p, err := c.Polygon()
	if err != nil {
		return err
	}
	e, err := shp.NewEncoder(base+".shp", struct {
		geom.Polygon
		Row, Col int
		Ridge    int
		Area     float64
	}{})
	if err != nil {
		return fmt.Errorf("catchment: creating shapefile: %v", err)
	}
	if err := e.EncodeFields(p, c.Outlet.Row, c.Outlet.Col, len(c.Trace.RidgePoints), p.Area()); err != nil {
		e.Close()
		return fmt.Errorf("catchment: writing shapefile: %v", err)
	}
	e.Close()
	return nil
}
