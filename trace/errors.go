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
)

var (
	// ErrCycleOrPathTooLong is returned when a flow path is followed for
	// more than the configured depth without reaching the outlet or a
	// non-draining cell. It indicates a cyclic flow-direction raster.
	ErrCycleOrPathTooLong = errors.New("trace: flow path is cyclic or longer than the depth bound")

	// ErrNoRidgePointFound is returned when none of the neighbors of a
	// ridge cell mark a transition into the catchment.
	ErrNoRidgePointFound = errors.New("trace: no ridge point found")

	// ErrIterationLimitExceeded is returned when the boundary does not
	// close within the configured number of scans.
	ErrIterationLimitExceeded = errors.New("trace: boundary did not close within the iteration limit")

	// ErrOutletOutside is returned when the outlet is not a grid cell.
	ErrOutletOutside = errors.New("trace: outlet lies outside the grid")

	// ErrOutletNotEnclosed is returned when the boundary closes without
	// enclosing the outlet. This happens when parts of the catchment
	// touch each other only at cell corners.
	ErrOutletNotEnclosed = errors.New("trace: boundary does not enclose the outlet")
)

// TraceError records where a trace failed. Kind is one of the sentinel
// errors above, so errors.Is can be used on a *TraceError.
type TraceError struct {
	Kind     error
	Row, Col int

	// Count is the flow path depth for ErrCycleOrPathTooLong and the
	// number of scans for ErrIterationLimitExceeded.
	Count int
}

func (e *TraceError) Error() string {
	switch e.Kind {
	case ErrCycleOrPathTooLong:
		return fmt.Sprintf("%v: starting at row %d, col %d (depth %d)", e.Kind, e.Row, e.Col, e.Count)
	case ErrIterationLimitExceeded:
		return fmt.Sprintf("%v: at row %d, col %d after %d scans", e.Kind, e.Row, e.Col, e.Count)
	}
	return fmt.Sprintf("%v: row %d, col %d", e.Kind, e.Row, e.Col)
}

func (e *TraceError) Unwrap() error { return e.Kind }
