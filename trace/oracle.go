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

import "github.com/spatialmodel/ridgeline/flowdir"

// Oracle answers whether a cell drains to a fixed outlet, memoizing its
// answers in a Cache.
type Oracle struct {
	grid     *flowdir.Grid
	cache    *Cache
	outlet   Point
	maxDepth int

	// stack holds the downstream cells of the chain being resolved.
	// It is reused between queries.
	stack []Point
}

// NewOracle returns an oracle for the given outlet. Flow paths longer
// than maxDepth cells result in ErrCycleOrPathTooLong.
func NewOracle(g *flowdir.Grid, cache *Cache, outlet Point, maxDepth int) *Oracle {
	return &Oracle{
		grid:     g,
		cache:    cache,
		outlet:   outlet,
		maxDepth: maxDepth,
	}
}

// Cache returns the cache the oracle writes to.
func (o *Oracle) Cache() *Cache { return o.cache }

// known returns the answer for (row, col) if it can be decided without
// following the flow path.
func (o *Oracle) known(row, col int) (flows, ok bool) {
	if row == o.outlet.Row && col == o.outlet.Col {
		return true, true
	}
	if !o.grid.InBounds(row, col) {
		return false, true
	}
	switch o.cache.Get(row, col) {
	case NotFlowing:
		return false, true
	case Flowing, Ridge:
		return true, true
	}
	return false, false
}

// FlowsToOutlet reports whether water leaving (row, col) reaches the
// outlet. Cells outside the grid never drain.
//
// Every downstream cell on the followed path is memoized with the
// answer. The queried cell itself is not.
func (o *Oracle) FlowsToOutlet(row, col int) (bool, error) {
	o.stack = o.stack[:0]
	r, c := row, col
	var flows bool
	for {
		if v, ok := o.known(r, c); ok {
			flows = v
			break
		}
		nr, nc, ok := o.grid.Downstream(r, c)
		if !ok || !o.grid.InBounds(nr, nc) {
			break
		}
		o.stack = append(o.stack, Point{Row: nr, Col: nc})
		if len(o.stack) > o.maxDepth {
			return false, &TraceError{Kind: ErrCycleOrPathTooLong, Row: row, Col: col, Count: len(o.stack)}
		}
		r, c = nr, nc
	}
	for _, p := range o.stack {
		o.cache.Memoize(p.Row, p.Col, flows)
	}
	return flows, nil
}
