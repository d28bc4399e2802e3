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
	"io"

	geojson "github.com/paulmach/go.geojson"
)

// FeatureCollection wraps the catchment boundary in a feature collection
// holding a single polygon feature. props may be nil.
func (c *Catchment) FeatureCollection(props map[string]interface{}) (*geojson.FeatureCollection, error) {
	p, err := c.Polygon()
	if err != nil {
		return nil, err
	}
	coords := make([][][]float64, len(p))
	for i, path := range p {
		ring := make([][]float64, len(path))
		for j, pt := range path {
			ring[j] = []float64{pt.X, pt.Y}
		}
		coords[i] = ring
	}
	f := geojson.NewPolygonFeature(coords)
	for k, v := range props {
		f.SetProperty(k, v)
	}
	fc := geojson.NewFeatureCollection()
	fc.AddFeature(f)
	return fc, nil
}

// MarshalGeoJSON returns the GeoJSON encoding of FeatureCollection(props).
func (c *Catchment) MarshalGeoJSON(props map[string]interface{}) ([]byte, error) {
	fc, err := c.FeatureCollection(props)
	if err != nil {
		return nil, err
	}
	b, err := fc.MarshalJSON()
	if err != nil {
		return nil, fmt.Errorf("catchment: encoding GeoJSON: %v", err)
	}
	return b, nil
}

// WriteGeoJSON writes the GeoJSON encoding of FeatureCollection(props)
// to w.
func (c *Catchment) WriteGeoJSON(w io.Writer, props map[string]interface{}) error {
	b, err := c.MarshalGeoJSON(props)
	if err != nil {
		return err
	}
	if _, err := w.Write(b); err != nil {
		return fmt.Errorf("catchment: writing GeoJSON: %v", err)
	}
	return nil
}
