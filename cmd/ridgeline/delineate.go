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

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spatialmodel/ridgeline/catchment"
	"github.com/spatialmodel/ridgeline/flowdir"
	"github.com/spatialmodel/ridgeline/plot"
	"github.com/spatialmodel/ridgeline/trace"
)

func newDelineateCmd(cfg *Cfg) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "delineate",
		Short: "Delineate the catchment of one outlet.",
		Long: `delineate traces the catchment of the outlet given either as a map
coordinate (--x and --y, usually longitude and latitude) or as a grid cell
(--row and --col), and writes it as a GeoJSON feature collection.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return delineate(cfg)
		},
	}
	f := cmd.Flags()
	f.String("fdir", "", "D8 flow-direction grid (GeoTIFF, or ESRI ASCII with a .asc extension)")
	f.Float64("x", 0, "outlet x coordinate (longitude)")
	f.Float64("y", 0, "outlet y coordinate (latitude)")
	f.Int("row", -1, "outlet row; used with --col instead of --x and --y")
	f.Int("col", -1, "outlet column")
	f.String("out", "-", "GeoJSON output file, or - for standard output")
	f.String("name", "", "value of the name property of the output feature")
	f.String("shp", "", "also write the boundary to this shapefile")
	f.String("diagnostics", "", "write the trace grid to this file (.asc for ESRI ASCII, otherwise TIFF)")
	f.String("plot", "", "write a plot of the catchment to this image file")
	f.Int("max-depth", trace.DefaultMaxDepth, "longest flow path followed, in cells")
	f.Int("max-iterations", trace.DefaultMaxIterations, "largest number of boundary steps")
	return cmd
}

func delineate(cfg *Cfg) error {
	path := cfg.GetString("fdir")
	if path == "" {
		return errors.New("ridgeline: --fdir is required")
	}
	g, err := flowdir.ReadFile(path)
	if err != nil {
		return fmt.Errorf("ridgeline: %w", err)
	}
	log := cfg.log.WithField("fdir", path)
	log.WithFields(logrus.Fields{"rows": g.Rows(), "cols": g.Cols()}).Debug("loaded flow directions")

	opts := []trace.Option{
		trace.WithConfig(trace.Config{
			MaxDepth:      cfg.GetInt("max-depth"),
			MaxIterations: cfg.GetInt("max-iterations"),
		}),
		trace.WithLogger(log),
	}
	var c *catchment.Catchment
	if row, col := cfg.GetInt("row"), cfg.GetInt("col"); row >= 0 && col >= 0 {
		c, err = catchment.DelineatePixel(g, trace.Point{Row: row, Col: col}, opts...)
	} else {
		c, err = catchment.Delineate(g, cfg.GetFloat64("x"), cfg.GetFloat64("y"), opts...)
	}
	if err != nil {
		return err
	}

	s, err := c.Summary()
	if err != nil {
		return err
	}
	log.WithFields(logrus.Fields{
		"row":         c.Outlet.Row,
		"col":         c.Outlet.Col,
		"vertices":    s.Vertices,
		"ridge_cells": s.RidgeCells,
		"area":        s.Area,
		"perimeter":   s.Perimeter,
		"elapsed":     s.Elapsed,
	}).Info("delineated catchment")

	props := make(map[string]interface{})
	if name := cfg.GetString("name"); name != "" {
		props["name"] = name
	}
	if err := writeGeoJSON(cfg, c, props); err != nil {
		return err
	}
	if p := cfg.GetString("shp"); p != "" {
		if err := c.WriteShp(p); err != nil {
			return err
		}
	}
	if p := cfg.GetString("diagnostics"); p != "" {
		if err := writeDiagnostics(c, p); err != nil {
			return err
		}
	}
	if p := cfg.GetString("plot"); p != "" {
		title := cfg.GetString("name")
		if title == "" {
			title = filepath.Base(path)
		}
		if err := plot.Save(c, title, p); err != nil {
			return err
		}
	}
	return nil
}

func writeGeoJSON(cfg *Cfg, c *catchment.Catchment, props map[string]interface{}) error {
	out := cfg.GetString("out")
	if out == "-" || out == "" {
		if err := c.WriteGeoJSON(cfg.out, props); err != nil {
			return err
		}
		_, err := fmt.Fprintln(cfg.out)
		return err
	}
	w, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("ridgeline: %v", err)
	}
	if err := c.WriteGeoJSON(w, props); err != nil {
		w.Close()
		return err
	}
	return w.Close()
}

func writeDiagnostics(c *catchment.Catchment, path string) error {
	w, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("ridgeline: %v", err)
	}
	if strings.EqualFold(filepath.Ext(path), ".asc") {
		err = c.WriteDiagnosticASCII(w)
	} else {
		err = c.WriteDiagnosticTIFF(w)
	}
	if err != nil {
		w.Close()
		return err
	}
	return w.Close()
}
