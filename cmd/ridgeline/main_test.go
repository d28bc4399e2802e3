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
	"bytes"
	"errors"
	"math"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jblindsay/go-spatial/geospatialfiles/raster"
	geojson "github.com/paulmach/go.geojson"
	"github.com/spatialmodel/ridgeline/trace"
)

// channel is a 5×5 grid draining south, with cells 0.1° wide and its
// upper-left corner at (-90, 30).
const channel = `ncols 5
nrows 5
xllcorner -90
yllcorner 29.5
cellsize 0.1
4 4 4 4 4
4 4 4 4 4
4 4 4 4 4
4 4 4 4 4
4 4 4 4 4
`

func writeGrid(t *testing.T) (dir, path string) {
	t.Helper()
	dir = t.TempDir()
	path = filepath.Join(dir, "fdir.asc")
	if err := os.WriteFile(path, []byte(channel), 0o644); err != nil {
		t.Fatal(err)
	}
	return dir, path
}

func run(args ...string) (stdout, stderr string, err error) {
	var out, errOut bytes.Buffer
	cmd := NewRootCmd(&out, &errOut)
	cmd.SetArgs(args)
	err = cmd.Execute()
	return out.String(), errOut.String(), err
}

func TestDelineateStdout(t *testing.T) {
	_, path := writeGrid(t)
	// (-89.75, 29.55) is inside cell (4,2).
	out, logs, err := run("delineate", "--fdir", path, "--x", "-89.75", "--y", "29.55", "--name", "channel")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	fc, err := geojson.UnmarshalFeatureCollection([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if len(fc.Features) != 1 || !fc.Features[0].Geometry.IsPolygon() {
		t.Fatalf("unexpected output: %s", out)
	}
	if n := len(fc.Features[0].Geometry.Polygon[0]); n != 5 {
		t.Errorf("got %d coordinates, want 5", n)
	}
	if name, _ := fc.Features[0].PropertyString("name"); name != "channel" {
		t.Errorf("name: %q", name)
	}
	if !strings.Contains(logs, "delineated catchment") {
		t.Errorf("missing log record:\n%s", logs)
	}
}

func TestDelineateFiles(t *testing.T) {
	dir, path := writeGrid(t)
	out := filepath.Join(dir, "basin.geojson")
	diag := filepath.Join(dir, "trace.asc")
	tif := filepath.Join(dir, "trace.tif")
	shp := filepath.Join(dir, "basin.shp")
	_, logs, err := run("delineate", "--fdir", path, "--row", "4", "--col", "2",
		"--out", out, "--diagnostics", diag, "--shp", shp, "--log-level", "warn")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	if logs != "" {
		t.Errorf("unexpected log output at warn level:\n%s", logs)
	}
	for _, f := range []string{out, diag, shp} {
		if fi, err := os.Stat(f); err != nil || fi.Size() == 0 {
			t.Errorf("%s: %v", f, err)
		}
	}
	b, err := os.ReadFile(diag)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(b), "255 255 5 255 255") {
		t.Errorf("diagnostic grid:\n%s", b)
	}
	if _, _, err := run("delineate", "--fdir", path, "--row", "4", "--col", "2", "--out", out, "--diagnostics", tif); err != nil {
		t.Fatal(err)
	}
	if fi, err := os.Stat(tif); err != nil || fi.Size() == 0 {
		t.Errorf("%s: %v", tif, err)
	}
}

func TestDelineateEnv(t *testing.T) {
	_, path := writeGrid(t)
	t.Setenv("RIDGELINE_MAX_ITERATIONS", "3")
	_, _, err := run("delineate", "--fdir", path, "--row", "4", "--col", "2")
	if !errors.Is(err, trace.ErrIterationLimitExceeded) {
		t.Errorf("got %v", err)
	}
}

func TestDelineateConfigFile(t *testing.T) {
	dir, path := writeGrid(t)
	cfg := filepath.Join(dir, "ridgeline.toml")
	if err := os.WriteFile(cfg, []byte("max-iterations = 3\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	_, _, err := run("delineate", "--config", cfg, "--fdir", path, "--row", "4", "--col", "2")
	if !errors.Is(err, trace.ErrIterationLimitExceeded) {
		t.Errorf("got %v", err)
	}
}

func TestDelineateErrors(t *testing.T) {
	_, path := writeGrid(t)
	tests := []struct {
		name string
		args []string
		want error
	}{
		{name: "outside", args: []string{"--x", "0", "--y", "0"}, want: trace.ErrOutletOutside},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, _, err := run(append([]string{"delineate", "--fdir", path}, test.args...)...)
			if !errors.Is(err, test.want) {
				t.Errorf("got %v, want %v", err, test.want)
			}
		})
	}
	if _, _, err := run("delineate"); err == nil || !strings.Contains(err.Error(), "--fdir") {
		t.Errorf("missing grid: got %v", err)
	}
	if _, _, err := run("delineate", "--fdir", path, "--log-level", "loud"); err == nil {
		t.Error("bad log level accepted")
	}
}

func TestDelineateGeoTIFF(t *testing.T) {
	path := filepath.Join(t.TempDir(), "fdir.tif")
	rc := raster.NewDefaultRasterConfig()
	rc.DataType = raster.DT_UINT8
	rc.InitialValue = 4
	rc.NoDataValue = math.MaxFloat32
	r, err := raster.CreateNewRaster(path, 5, 5, 30, 29.5, -89.5, -90, rc)
	if err != nil {
		t.Fatal(err)
	}
	if err := r.Save(); err != nil {
		t.Fatal(err)
	}
	out, logs, err := run("delineate", "--fdir", path, "--x", "-89.75", "--y", "29.55")
	if err != nil {
		t.Fatalf("%v\n%s", err, logs)
	}
	fc, err := geojson.UnmarshalFeatureCollection([]byte(out))
	if err != nil {
		t.Fatal(err)
	}
	if n := len(fc.Features[0].Geometry.Polygon[0]); n != 5 {
		t.Errorf("got %d coordinates, want 5", n)
	}
}
