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

	lru "github.com/hashicorp/golang-lru/v2"
	"github.com/sirupsen/logrus"
	"github.com/spatialmodel/ridgeline/flowdir"
	"github.com/spatialmodel/ridgeline/trace"
)

// DefaultCacheSize is the number of catchments a Service keeps when no
// size is given.
const DefaultCacheSize = 256

// Service delineates catchments on one grid and remembers recent
// results by outlet cell. It is safe for concurrent use.
type Service struct {
	grid  *flowdir.Grid
	opts  []trace.Option
	log   logrus.FieldLogger
	cache *lru.Cache[trace.Point, *Catchment]
}

// ServiceConfig configures a Service.
type ServiceConfig struct {
	// CacheSize is the number of catchments to keep. Zero means
	// DefaultCacheSize.
	CacheSize int

	// Trace holds the bounds passed to every trace.
	Trace trace.Config

	// Logger receives a record for every delineation. If nil, output
	// is discarded.
	Logger logrus.FieldLogger
}

// NewService returns a service for grid g.
func NewService(g *flowdir.Grid, cfg ServiceConfig) (*Service, error) {
	if cfg.CacheSize <= 0 {
		cfg.CacheSize = DefaultCacheSize
	}
	if cfg.Logger == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		cfg.Logger = l
	}
	cache, err := lru.New[trace.Point, *Catchment](cfg.CacheSize)
	if err != nil {
		return nil, fmt.Errorf("catchment: creating result cache: %v", err)
	}
	return &Service{
		grid:  g,
		opts:  []trace.Option{trace.WithConfig(cfg.Trace), trace.WithLogger(cfg.Logger)},
		log:   cfg.Logger,
		cache: cache,
	}, nil
}

// Delineate returns the catchment of the cell containing (x, y).
func (s *Service) Delineate(x, y float64) (*Catchment, error) {
	row, col, ok := s.grid.CellAt(x, y)
	if !ok {
		return nil, fmt.Errorf("catchment: outlet (%g, %g): %w", x, y,
			&trace.TraceError{Kind: trace.ErrOutletOutside, Row: row, Col: col})
	}
	return s.DelineatePixel(trace.Point{Row: row, Col: col})
}

// DelineatePixel returns the catchment of outlet.
func (s *Service) DelineatePixel(outlet trace.Point) (*Catchment, error) {
	log := s.log.WithFields(logrus.Fields{"row": outlet.Row, "col": outlet.Col})
	if c, ok := s.cache.Get(outlet); ok {
		log.Debug("catchment: cache hit")
		return c, nil
	}
	c, err := DelineatePixel(s.grid, outlet, s.opts...)
	if err != nil {
		log.WithError(err).Warn("catchment: delineation failed")
		return nil, err
	}
	s.cache.Add(outlet, c)
	log.WithFields(logrus.Fields{
		"vertices":    len(c.Ring),
		"ridge_cells": len(c.Trace.RidgePoints),
		"elapsed":     c.Elapsed,
	}).Info("catchment: delineated")
	return c, nil
}

// Len returns the number of cached catchments.
func (s *Service) Len() int { return s.cache.Len() }
