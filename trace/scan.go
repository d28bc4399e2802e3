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

// scanOrder is the clockwise neighbor order repeated twice so that nine
// consecutive neighbors can be read from any start.
var scanOrder = [2 * flowdir.NumDirections]flowdir.Direction{
	flowdir.East, flowdir.SouthEast, flowdir.South, flowdir.SouthWest,
	flowdir.West, flowdir.NorthWest, flowdir.North, flowdir.NorthEast,
	flowdir.East, flowdir.SouthEast, flowdir.South, flowdir.SouthWest,
	flowdir.West, flowdir.NorthWest, flowdir.North, flowdir.NorthEast,
}

// scanLength is the number of neighbors examined by one scan. The ninth
// position revisits the start so a transition across the wrap is found.
const scanLength = flowdir.NumDirections + 1

// nextRidgePoint scans the neighbors of cur clockwise from start and
// returns the first one that drains to the outlet while its predecessor
// in the scan does not. The neighbor before start is assumed to drain.
func nextRidgePoint(o *Oracle, cur Point, start flowdir.Direction) (RidgePoint, error) {
	lastFlows := true
	for _, d := range scanOrder[start.Mod() : int(start.Mod())+scanLength] {
		dr, dc := d.Offset()
		p := Point{Row: cur.Row + dr, Col: cur.Col + dc}
		flows, err := o.FlowsToOutlet(p.Row, p.Col)
		if err != nil {
			return RidgePoint{}, err
		}
		if flows && !lastFlows {
			return RidgePoint{Point: p, Dir: d}, nil
		}
		lastFlows = flows
	}
	return RidgePoint{}, &TraceError{Kind: ErrNoRidgePointFound, Row: cur.Row, Col: cur.Col}
}

// nextScanStart returns where to start scanning around a ridge point
// that was reached by moving in direction d: just past the neighbor the
// walk came from.
func nextScanStart(d flowdir.Direction) flowdir.Direction {
	if d <= flowdir.South {
		return d + 5
	}
	return d - 3
}
