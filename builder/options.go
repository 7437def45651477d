// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package builder implements the stateful mesh assembly engine: it
// receives geometric construction calls (triangles, quads, polygons,
// UV parametric grids, ruled surfaces between cross-sections,
// mitered pipes, half-edge-graph import) and turns them into
// correctly oriented, correctly indexed facets of a [mesh.Mesh],
// synthesizing normals and parameters when not supplied.
package builder

import (
	"fmt"
	"os"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/cluster"
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
	"github.com/pelletier/go-toml/v2"
)

// Options is the tessellation configuration for a [Builder].
type Options struct {

	// NeedNormals populates the normal stream of the output mesh.
	NeedNormals bool `toml:"need-normals"`

	// NeedParams populates the texture parameter stream.
	NeedParams bool `toml:"need-params"`

	// NeedColors populates the color stream.
	NeedColors bool `toml:"need-colors"`

	// MaxEdgeLength splits quads with longer edges into sub-grids.
	// Zero disables splitting.
	MaxEdgeLength float32 `toml:"max-edge-length"`

	// ShouldTriangulate forces all facets to be triangles.
	ShouldTriangulate bool `toml:"should-triangulate"`

	// DefaultCircleStrokes is the fallback stroke count around
	// round primitives.
	DefaultCircleStrokes int `toml:"default-circle-strokes"`

	// AngleTol is the angular tolerance in radians, passed through to
	// curve sampling, not interpreted here.
	AngleTol float32 `toml:"angle-tol"`

	// MinStrokesPerPrimitive is passed through to curve sampling,
	// not interpreted here.
	MinStrokesPerPrimitive int `toml:"min-strokes-per-primitive"`

	// ClusterTolerance is the point-merge tolerance used by
	// compacting [Builder.Claim].
	ClusterTolerance float32 `toml:"cluster-tolerance"`
}

// Defaults sets default option values.
func (o *Options) Defaults() {
	o.NeedNormals = true
	o.NeedParams = true
	o.NeedColors = false
	o.MaxEdgeLength = 0
	o.ShouldTriangulate = false
	o.DefaultCircleStrokes = 16
	o.AngleTol = math32.Pi / 12
	o.MinStrokesPerPrimitive = 4
	o.ClusterTolerance = cluster.DefaultTolerance
}

// NewOptions returns a new [Options] with default values.
func NewOptions() *Options {
	o := &Options{}
	o.Defaults()
	return o
}

// OpenOptions reads options from the given TOML file, on top of
// defaults.
func OpenOptions(filename string) (*Options, error) {
	o := NewOptions()
	b, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	if err := toml.Unmarshal(b, o); err != nil {
		return nil, fmt.Errorf("builder: options file %q: %w", filename, err)
	}
	return o, nil
}

// Save writes the options to the given TOML file.
func (o *Options) Save(filename string) error {
	b, err := toml.Marshal(o)
	if err != nil {
		return err
	}
	return os.WriteFile(filename, b, 0666)
}
