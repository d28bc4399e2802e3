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

import (
	"errors"
	"fmt"
	"math/rand"
	"reflect"
	"testing"

	"github.com/spatialmodel/ridgeline/flowdir"
)

// Test grids. Codes are D8: 1=E 2=SE 4=S 8=SW 16=W 32=NW 64=N 128=NE.
var (
	straightChannel = [][]uint8{
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
	}

	// The outlet at (2,1) is touched twice by the divide.
	revisitGrid = [][]uint8{
		{64, 64, 64},
		{2, 64, 8},
		{1, 0, 16},
		{4, 64, 4},
	}

	// The outlet at (2,2) is a pit surrounded by its catchment.
	interiorGrid = [][]uint8{
		{16, 64, 4, 64, 1},
		{16, 2, 4, 8, 1},
		{16, 1, 0, 16, 1},
		{16, 128, 64, 32, 1},
		{4, 4, 4, 4, 4},
	}

	// The whole grid drains to (2,2) on the bottom edge.
	edgeGrid = [][]uint8{
		{4, 4, 4, 4},
		{1, 1, 4, 16},
		{64, 64, 64, 64},
	}

	// A basin draining to (9,4) with four sinks inside it.
	knownBasin = [][]uint8{
		{16, 64, 64, 64, 64, 64, 64, 64, 64, 1},
		{16, 32, 8, 8, 8, 32, 32, 32, 32, 1},
		{16, 4, 8, 8, 4, 8, 32, 32, 128, 1},
		{16, 4, 8, 0, 2, 4, 8, 128, 128, 1},
		{16, 2, 4, 0, 0, 4, 8, 128, 128, 1},
		{16, 32, 4, 8, 0, 8, 8, 8, 128, 1},
		{16, 32, 2, 4, 8, 8, 8, 8, 128, 1},
		{16, 32, 32, 2, 4, 8, 8, 128, 128, 1},
		{16, 32, 8, 8, 4, 8, 8, 8, 128, 1},
		{4, 4, 4, 4, 4, 4, 4, 4, 4, 1},
	}
)

func mustGrid(t testing.TB, codes [][]uint8) *flowdir.Grid {
	t.Helper()
	g, err := flowdir.FromRows(codes, flowdir.NorthUp(0, 0, 1, -1))
	if err != nil {
		t.Fatal(err)
	}
	return g
}

func vertices(rc ...[2]float64) []Vertex {
	v := make([]Vertex, len(rc))
	for i, p := range rc {
		v[i] = Vertex{Row: p[0], Col: p[1]}
	}
	return v
}

// canonical drops the closing vertex of r and rotates it to start at its
// smallest vertex.
func canonical(r Ring) []Vertex {
	if len(r) < 2 {
		return nil
	}
	open := r[:len(r)-1]
	lo := 0
	for i, v := range open {
		m := open[lo]
		if v.Row < m.Row || v.Row == m.Row && v.Col < m.Col {
			lo = i
		}
	}
	return append(append([]Vertex{}, open[lo:]...), open[:lo]...)
}

func TestTrace(t *testing.T) {
	tests := []struct {
		name    string
		codes   [][]uint8
		outlet  Point
		want    []Vertex
		members int
		sinks   int
	}{
		{
			name:    "straight channel",
			codes:   straightChannel,
			outlet:  Point{4, 2},
			want:    vertices([2]float64{0, 2}, [2]float64{0, 3}, [2]float64{5, 3}, [2]float64{5, 2}),
			members: 5,
		},
		{
			name:   "outlet pinch point",
			codes:  revisitGrid,
			outlet: Point{2, 1},
			want: vertices([2]float64{1, 0}, [2]float64{1, 1}, [2]float64{2, 1}, [2]float64{2, 2},
				[2]float64{1, 2}, [2]float64{1, 3}, [2]float64{3, 3}, [2]float64{3, 2},
				[2]float64{4, 2}, [2]float64{4, 1}, [2]float64{3, 1}, [2]float64{3, 0}),
			members: 6,
		},
		{
			name:   "interior outlet",
			codes:  interiorGrid,
			outlet: Point{2, 2},
			want: vertices([2]float64{0, 2}, [2]float64{0, 3}, [2]float64{1, 3}, [2]float64{1, 4},
				[2]float64{4, 4}, [2]float64{4, 1}, [2]float64{1, 1}, [2]float64{1, 2}),
			members: 10,
		},
		{
			name:    "outlet on raster edge",
			codes:   edgeGrid,
			outlet:  Point{2, 2},
			want:    vertices([2]float64{0, 0}, [2]float64{0, 4}, [2]float64{3, 4}, [2]float64{3, 0}),
			members: 12,
		},
		{
			name:   "known basin",
			codes:  knownBasin,
			outlet: Point{9, 4},
			want: vertices([2]float64{1, 2}, [2]float64{1, 5}, [2]float64{2, 5}, [2]float64{2, 6},
				[2]float64{3, 6}, [2]float64{3, 7}, [2]float64{5, 7}, [2]float64{5, 8},
				[2]float64{7, 8}, [2]float64{7, 7}, [2]float64{8, 7}, [2]float64{8, 6},
				[2]float64{9, 6}, [2]float64{9, 5}, [2]float64{10, 5}, [2]float64{10, 4},
				[2]float64{8, 4}, [2]float64{8, 3}, [2]float64{7, 3}, [2]float64{7, 2},
				[2]float64{5, 2}, [2]float64{5, 1}, [2]float64{2, 1}, [2]float64{2, 2}),
			members: 35,
			sinks:   4,
		},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g := mustGrid(t, test.codes)
			res, err := Trace(g, test.outlet)
			if err != nil {
				t.Fatal(err)
			}
			if !res.Ring.Closed() {
				t.Errorf("ring is not closed: %v", res.Ring)
			}
			simple := res.Simplified()
			if !simple.Closed() {
				t.Errorf("simplified ring is not closed: %v", simple)
			}
			if got := canonical(simple); !reflect.DeepEqual(got, test.want) {
				t.Errorf("ring:\n got %v\nwant %v", got, test.want)
			}

			// The ring encloses the catchment and the sinks inside it.
			members := 0
			o := NewOracle(g, NewCache(g.Rows(), g.Cols()), test.outlet, DefaultMaxDepth)
			for r := 0; r < g.Rows(); r++ {
				for c := 0; c < g.Cols(); c++ {
					flows, err := o.FlowsToOutlet(r, c)
					if err != nil {
						t.Fatal(err)
					}
					if flows {
						members++
					}
				}
			}
			if members != test.members {
				t.Errorf("members: got %d, want %d", members, test.members)
			}
			if area := res.Ring.Area(); area != float64(test.members+test.sinks) {
				t.Errorf("area: got %g, want %d", area, test.members+test.sinks)
			}
			if area := simple.Area(); area != res.Ring.Area() {
				t.Errorf("simplified area %g differs from %g", area, res.Ring.Area())
			}
		})
	}
}

func TestTraceRidgePointsDrain(t *testing.T) {
	for name, test := range map[string]struct {
		codes  [][]uint8
		outlet Point
	}{
		"straight": {straightChannel, Point{4, 2}},
		"revisit":  {revisitGrid, Point{2, 1}},
		"interior": {interiorGrid, Point{2, 2}},
		"edge":     {edgeGrid, Point{2, 2}},
		"basin":    {knownBasin, Point{9, 4}},
	} {
		g := mustGrid(t, test.codes)
		res, err := Trace(g, test.outlet)
		if err != nil {
			t.Fatalf("%s: %v", name, err)
		}
		o := NewOracle(g, NewCache(g.Rows(), g.Cols()), test.outlet, DefaultMaxDepth)
		for _, p := range res.RidgePoints {
			flows, err := o.FlowsToOutlet(p.Row, p.Col)
			if err != nil {
				t.Fatal(err)
			}
			if !flows {
				t.Errorf("%s: ridge point %v does not drain to the outlet", name, p)
			}
			if res.Cache.Get(p.Row, p.Col) != Ridge {
				t.Errorf("%s: ridge point %v not marked in cache", name, p)
			}
		}
	}
}

func TestTraceKnownBasinRidgeCells(t *testing.T) {
	g := mustGrid(t, knownBasin)
	res, err := Trace(g, Point{9, 4})
	if err != nil {
		t.Fatal(err)
	}
	got := make(map[Point]bool)
	for _, p := range res.RidgePoints {
		got[p.Point] = true
	}
	want := map[Point]bool{
		{1, 2}: true, {1, 3}: true, {1, 4}: true, {2, 1}: true, {2, 5}: true,
		{3, 1}: true, {3, 6}: true, {4, 1}: true, {4, 6}: true, {5, 2}: true,
		{5, 7}: true, {6, 2}: true, {6, 7}: true, {7, 3}: true, {7, 6}: true,
		{8, 4}: true, {8, 5}: true, {9, 4}: true,
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ridge cells: got %v, want %v", got, want)
	}
	if len(res.RidgePoints) != 18 {
		t.Errorf("got %d ridge points, want 18", len(res.RidgePoints))
	}
	if first := res.RidgePoints[0]; first != (RidgePoint{Point{8, 4}, flowdir.North}) {
		t.Errorf("first ridge point: got %v", first)
	}
}

func TestTraceInteriorFirstRidgePoint(t *testing.T) {
	g := mustGrid(t, interiorGrid)
	o := NewOracle(g, NewCache(g.Rows(), g.Cols()), Point{2, 2}, DefaultMaxDepth)
	rp, err := firstRidgePoint(g, o, Point{2, 2})
	if err != nil {
		t.Fatal(err)
	}
	if want := (RidgePoint{Point{2, 3}, flowdir.East}); rp != want {
		t.Errorf("got %v, want %v", rp, want)
	}
}

func TestTraceErrors(t *testing.T) {
	cycle := make([][]uint8, len(straightChannel))
	for i, row := range straightChannel {
		cycle[i] = append([]uint8{}, row...)
	}
	cycle[2][1] = 16
	cycle[2][0] = 1

	sink := [][]uint8{{0, 0, 0}, {0, 0, 0}, {0, 0, 0}}

	// The cells draining to (1,0) are (0,1) and (2,1), which touch the
	// outlet only at corners. The walk closes around (1,1) instead.
	cornerBasin := [][]uint8{
		{0, 8, 64, 4},
		{4, 32, 8, 32},
		{32, 32, 4, 128},
	}

	tests := []struct {
		name   string
		codes  [][]uint8
		outlet Point
		opts   []Option
		err    error
	}{
		{name: "isolated sink", codes: sink, outlet: Point{1, 1}, err: ErrNoRidgePointFound},
		{name: "cycle", codes: cycle, outlet: Point{4, 2}, err: ErrCycleOrPathTooLong},
		{
			name: "iteration limit", codes: knownBasin, outlet: Point{9, 4},
			opts: []Option{WithConfig(Config{MaxIterations: 5})},
			err:  ErrIterationLimitExceeded,
		},
		{name: "outlet outside", codes: sink, outlet: Point{3, 0}, err: ErrOutletOutside},
		{name: "corner-connected basin", codes: cornerBasin, outlet: Point{1, 0}, err: ErrOutletNotEnclosed},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			_, err := Trace(mustGrid(t, test.codes), test.outlet, test.opts...)
			if !errors.Is(err, test.err) {
				t.Fatalf("got error %v, want %v", err, test.err)
			}
			var te *TraceError
			if !errors.As(err, &te) {
				t.Fatalf("error %v is not a *TraceError", err)
			}
		})
	}
}

func TestRingContains(t *testing.T) {
	r := Ring{{0, 2}, {0, 3}, {5, 3}, {5, 2}, {0, 2}}
	for _, test := range []struct {
		row, col int
		in       bool
	}{
		{0, 2, true}, {4, 2, true}, {5, 2, false}, {2, 1, false}, {2, 3, false},
	} {
		if got := r.Contains(test.row, test.col); got != test.in {
			t.Errorf("(%d, %d): got %v, want %v", test.row, test.col, got, test.in)
		}
	}
}

func TestIterationLimitCount(t *testing.T) {
	_, err := Trace(mustGrid(t, knownBasin), Point{9, 4}, WithConfig(Config{MaxIterations: 5}))
	var te *TraceError
	if !errors.As(err, &te) {
		t.Fatalf("got %v", err)
	}
	if te.Count != 5 {
		t.Errorf("count: got %d, want 5", te.Count)
	}
}

func TestOracleDepth(t *testing.T) {
	g := mustGrid(t, straightChannel)
	o := NewOracle(g, NewCache(5, 5), Point{4, 2}, 2)
	_, err := o.FlowsToOutlet(0, 2)
	var te *TraceError
	if !errors.As(err, &te) || te.Kind != ErrCycleOrPathTooLong {
		t.Fatalf("got %v", err)
	}
	if te.Row != 0 || te.Col != 2 || te.Count != 3 {
		t.Errorf("got %+v", te)
	}

	o = NewOracle(g, NewCache(5, 5), Point{4, 2}, 4)
	flows, err := o.FlowsToOutlet(0, 2)
	if err != nil || !flows {
		t.Errorf("got %v, %v", flows, err)
	}
}

func TestOracleMemo(t *testing.T) {
	g := mustGrid(t, straightChannel)
	cache := NewCache(5, 5)
	cache.Set(2, 2, Ridge)
	o := NewOracle(g, cache, Point{4, 2}, DefaultMaxDepth)
	if flows, err := o.FlowsToOutlet(0, 2); err != nil || !flows {
		t.Fatalf("got %v, %v", flows, err)
	}
	if s := cache.Get(0, 2); s != Unknown {
		t.Errorf("queried cell: got %v, want Unknown", s)
	}
	if s := cache.Get(1, 2); s != Flowing {
		t.Errorf("(1,2): got %v, want Flowing", s)
	}
	if s := cache.Get(2, 2); s != Ridge {
		t.Errorf("ridge overwritten: got %v", s)
	}
	if flows, err := o.FlowsToOutlet(0, 3); err != nil || flows {
		t.Fatalf("got %v, %v", flows, err)
	}
	if s := cache.Get(4, 3); s != NotFlowing {
		t.Errorf("(4,3): got %v, want NotFlowing", s)
	}
	if flows, _ := o.FlowsToOutlet(-1, 2); flows {
		t.Error("cell outside the grid drains")
	}
}

// TestOracleOrderIndependence checks that the answers of the oracle do
// not depend on which cells have been queried before.
func TestOracleOrderIndependence(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	const rows, cols = 30, 30
	for trial := 0; trial < 20; trial++ {
		codes := make([]uint8, rows*cols)
		for i := range codes {
			if rng.Intn(20) > 0 {
				codes[i] = 1 << uint(rng.Intn(8))
			}
		}
		g, err := flowdir.NewGrid(rows, cols, codes, flowdir.NorthUp(0, 0, 1, -1))
		if err != nil {
			t.Fatal(err)
		}
		outlet := Point{rng.Intn(rows), rng.Intn(cols)}

		type answer struct{ flows, failed bool }
		query := func(order []int) []answer {
			o := NewOracle(g, NewCache(rows, cols), outlet, rows*cols+1)
			out := make([]answer, rows*cols)
			for _, i := range order {
				flows, err := o.FlowsToOutlet(i/cols, i%cols)
				out[i] = answer{flows, err != nil}
			}
			return out
		}
		seq := make([]int, rows*cols)
		for i := range seq {
			seq[i] = i
		}
		shuffled := rng.Perm(rows * cols)
		if a, b := query(seq), query(shuffled); !reflect.DeepEqual(a, b) {
			t.Errorf("trial %d: answers depend on query order", trial)
		}
	}
}

func TestCornerCounts(t *testing.T) {
	want := [8][8]int{
		{2, 2, 3, 3, 4, 0, 1, 1},
		{2, 2, 3, 3, 4, 4, 1, 1},
		{1, 1, 2, 2, 3, 3, 4, 0},
		{1, 1, 2, 2, 3, 3, 4, 4},
		{4, 0, 1, 1, 2, 2, 3, 3},
		{4, 4, 1, 1, 2, 2, 3, 3},
		{3, 3, 4, 0, 1, 1, 2, 2},
		{3, 3, 4, 4, 1, 1, 2, 2},
	}
	for a := flowdir.Direction(0); a < 8; a++ {
		for b := flowdir.Direction(0); b < 8; b++ {
			got := CornersBetween(10, 20, a, b)
			if len(got) != want[a][b] {
				t.Errorf("(%v, %v): got %d corners, want %d", a, b, len(got), want[a][b])
			}
			// Corners form a clockwise run starting at corner a/2.
			for i, v := range got {
				o := cornerOffsets[(int(a)/2+i)%4]
				if v.Row != 10+o.Row || v.Col != 20+o.Col {
					t.Errorf("(%v, %v): corner %d is %v", a, b, i, v)
				}
			}
			n := want[a][b] + want[b][a]
			if b == a.Opposite() {
				if n != 8 {
					t.Errorf("(%v, %v): U-turn pair has %d corners, want 8", a, b, n)
				}
			} else if n != 4 {
				t.Errorf("(%v, %v): pair has %d corners, want 4", a, b, n)
			}
		}
	}
}

func TestNextScanStart(t *testing.T) {
	want := []flowdir.Direction{5, 6, 7, 0, 1, 2, 3, 4}
	for d := flowdir.Direction(0); d < 8; d++ {
		if got := nextScanStart(d); got != want[d] {
			t.Errorf("%v: got %v, want %v", d, got, want[d])
		}
		// The scan resumes just past the cell the walk came from.
		if got := nextScanStart(d); got != (d.Opposite() + 1).Mod() {
			t.Errorf("%v: scan start %v is not after %v", d, got, d.Opposite())
		}
	}
}

func TestNextRidgePoint(t *testing.T) {
	g := mustGrid(t, straightChannel)
	o := NewOracle(g, NewCache(5, 5), Point{4, 2}, DefaultMaxDepth)
	rp, err := nextRidgePoint(o, Point{4, 2}, flowdir.East)
	if err != nil {
		t.Fatal(err)
	}
	if want := (RidgePoint{Point{3, 2}, flowdir.North}); rp != want {
		t.Errorf("got %v, want %v", rp, want)
	}
	// Around (4,1) only the NE and E neighbors drain, so a scan that
	// starts on them finds the transition on its ninth position.
	rp, err = nextRidgePoint(o, Point{4, 1}, flowdir.NorthEast)
	if err != nil {
		t.Fatal(err)
	}
	if want := (RidgePoint{Point{3, 2}, flowdir.NorthEast}); rp != want {
		t.Errorf("wrap: got %v, want %v", rp, want)
	}
}

func TestCacheExport(t *testing.T) {
	g := mustGrid(t, straightChannel)
	res, err := Trace(g, Point{4, 2})
	if err != nil {
		t.Fatal(err)
	}
	out := res.Cache.Export(false)
	for r := 0; r < 5; r++ {
		for c := 0; c < 5; c++ {
			want := ExportNotFlowing
			if c == 2 {
				want = RidgeMarker
			}
			if got := out[r*5+c]; got != want {
				t.Errorf("(%d,%d): got %d, want %d", r, c, got, want)
			}
		}
	}
	withUnknown := res.Cache.Export(true)
	unknown := 0
	for _, v := range withUnknown {
		if v == ExportUnknown {
			unknown++
		}
	}
	if unknown != 25-res.Cache.Visited() {
		t.Errorf("unknown cells: got %d, want %d", unknown, 25-res.Cache.Visited())
	}
}

func TestSimplified(t *testing.T) {
	r := Ring(vertices(
		[2]float64{0, 0}, [2]float64{0, 1}, [2]float64{0, 2}, [2]float64{1, 2},
		[2]float64{1, 2}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{1, 0}, [2]float64{0, 0},
	))
	want := Ring(vertices([2]float64{0, 0}, [2]float64{0, 2}, [2]float64{2, 2}, [2]float64{2, 0}, [2]float64{0, 0}))
	if got := r.Simplified(); !reflect.DeepEqual(got, want) {
		t.Errorf("got %v, want %v", got, want)
	}
	if r.Perimeter() != 8 || r.Area() != 4 {
		t.Errorf("perimeter %g, area %g", r.Perimeter(), r.Area())
	}
}

func ExampleTrace() {
	g, err := flowdir.FromRows([][]uint8{
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
		{4, 4, 4, 4, 4},
	}, flowdir.NorthUp(0, 0, 1, -1))
	if err != nil {
		panic(err)
	}
	res, err := Trace(g, Point{Row: 4, Col: 2})
	if err != nil {
		panic(err)
	}
	fmt.Println(res.Simplified())
	fmt.Println(res.Ring.Area())
	// Output:
	// [{0 2} {0 3} {5 3} {5 2} {0 2}]
	// 5
}
