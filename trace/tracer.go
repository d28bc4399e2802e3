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

/*Package trace walks the divide of a catchment on a D8 flow-direction grid
and returns the ring of cell corners that bounds it, without visiting the
interior of the catchment.*/
package trace

import (
	"errors"
	"io"

	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ridgeline/flowdir"
)

// Default bounds. DefaultMaxDepth limits the length of a single flow
// path and so the longest river the tracer accepts. DefaultMaxIterations
// limits the number of ridge cells on the boundary, which for a compact
// catchment is roughly its perimeter in cells.
const (
	DefaultMaxDepth      = 15000
	DefaultMaxIterations = 150000
)

// Point is a grid cell.
type Point struct {
	Row, Col int
}

// RidgePoint is a cell on the catchment boundary together with the
// direction of the step that reached it.
type RidgePoint struct {
	Point
	Dir flowdir.Direction
}

// Config holds the safety bounds of a trace.
type Config struct {
	// MaxDepth is the longest flow path, in cells, that is followed
	// before the grid is assumed to contain a cycle.
	MaxDepth int

	// MaxIterations is the largest number of neighbor scans performed
	// before the boundary is assumed never to close.
	MaxIterations int
}

// DefaultConfig returns the default bounds.
func DefaultConfig() Config {
	return Config{MaxDepth: DefaultMaxDepth, MaxIterations: DefaultMaxIterations}
}

// Option configures a trace.
type Option func(*options)

type options struct {
	cfg Config
	log logrus.FieldLogger
}

// WithConfig sets the bounds of the trace. Zero fields keep their
// defaults.
func WithConfig(cfg Config) Option {
	return func(o *options) {
		if cfg.MaxDepth > 0 {
			o.cfg.MaxDepth = cfg.MaxDepth
		}
		if cfg.MaxIterations > 0 {
			o.cfg.MaxIterations = cfg.MaxIterations
		}
	}
}

// WithLogger sets the logger that receives debug output.
func WithLogger(log logrus.FieldLogger) Option {
	return func(o *options) { o.log = log }
}

func discardLogger() logrus.FieldLogger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

// Result is a traced catchment boundary.
type Result struct {
	Outlet Point

	// Ring is the closed boundary in pixel space, clockwise on screen
	// (rows increasing downward).
	Ring Ring

	// RidgePoints are the boundary cells in the order they were walked,
	// starting with the first one found next to the outlet.
	RidgePoints []RidgePoint

	// Cache is the state of every cell the trace visited.
	Cache *Cache

	// Iterations is the number of neighbor scans performed.
	Iterations int
}

// Simplified returns the ring without collinear vertices.
func (r *Result) Simplified() Ring { return r.Ring.Simplified() }

// Trace finds the boundary of the catchment draining to outlet.
//
// The walk follows the divide clockwise, one ridge cell at a time. It
// stops once it is about to repeat a step it has already taken, and the
// ring is the part of the walk from the first occurrence of that step.
func Trace(g *flowdir.Grid, outlet Point, opts ...Option) (*Result, error) {
	o := options{cfg: DefaultConfig()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.log == nil {
		o.log = discardLogger()
	}
	if !g.InBounds(outlet.Row, outlet.Col) {
		return nil, &TraceError{Kind: ErrOutletOutside, Row: outlet.Row, Col: outlet.Col}
	}
	log := o.log.WithFields(logrus.Fields{"row": outlet.Row, "col": outlet.Col})

	cache := NewCache(g.Rows(), g.Cols())
	oracle := NewOracle(g, cache, outlet, o.cfg.MaxDepth)
	cache.Set(outlet.Row, outlet.Col, Ridge)

	cur, err := firstRidgePoint(g, oracle, outlet)
	if err != nil {
		return nil, err
	}
	cache.Set(cur.Row, cur.Col, Ridge)
	log.WithFields(logrus.Fields{
		"ridge_row": cur.Row, "ridge_col": cur.Col, "dir": cur.Dir,
	}).Debug("trace: first ridge point")

	type mark struct{ vertex, ridge int }
	seen := map[RidgePoint]mark{cur: {}}
	ridges := []RidgePoint{cur}
	var corners []Vertex
	for it := 1; ; it++ {
		if it >= o.cfg.MaxIterations {
			return nil, &TraceError{Kind: ErrIterationLimitExceeded, Row: cur.Row, Col: cur.Col, Count: it}
		}
		next, err := nextRidgePoint(oracle, cur.Point, nextScanStart(cur.Dir))
		if err != nil {
			return nil, err
		}
		cache.Set(next.Row, next.Col, Ridge)
		corners = appendCorners(corners, cur.Row, cur.Col, cur.Dir, next.Dir)

		if m, ok := seen[next]; ok {
			res := &Result{
				Outlet:      outlet,
				Ring:        closeRing(corners[m.vertex:]),
				RidgePoints: ridges[m.ridge:],
				Cache:       cache,
				Iterations:  it + 1,
			}
			if !res.Ring.Contains(outlet.Row, outlet.Col) {
				return nil, &TraceError{Kind: ErrOutletNotEnclosed, Row: outlet.Row, Col: outlet.Col, Count: res.Iterations}
			}
			log.WithFields(logrus.Fields{
				"iterations": res.Iterations,
				"vertices":   len(res.Ring),
				"visited":    cache.Visited(),
			}).Debug("trace: boundary closed")
			return res, nil
		}
		seen[next] = mark{vertex: len(corners), ridge: len(ridges)}
		ridges = append(ridges, next)
		cur = next
	}
}

// firstRidgePoint scans around the outlet for the first ridge point.
// When every neighbor of the outlet drains to it the outlet lies inside
// its own catchment, and the walk starts instead from the easternmost
// draining cell on the outlet's row, heading east.
func firstRidgePoint(g *flowdir.Grid, o *Oracle, outlet Point) (RidgePoint, error) {
	rp, err := nextRidgePoint(o, outlet, flowdir.East)
	if !errors.Is(err, ErrNoRidgePointFound) {
		return rp, err
	}
	for d := flowdir.Direction(0); d < flowdir.NumDirections; d++ {
		dr, dc := d.Offset()
		flows, ferr := o.FlowsToOutlet(outlet.Row+dr, outlet.Col+dc)
		if ferr != nil {
			return RidgePoint{}, ferr
		}
		if !flows {
			return RidgePoint{}, err
		}
	}
	for c := g.Cols() - 1; c > outlet.Col; c-- {
		flows, ferr := o.FlowsToOutlet(outlet.Row, c)
		if ferr != nil {
			return RidgePoint{}, ferr
		}
		if flows {
			return RidgePoint{Point: Point{Row: outlet.Row, Col: c}, Dir: flowdir.East}, nil
		}
	}
	return RidgePoint{}, err
}
