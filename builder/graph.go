// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/mesh"
)

// HalfEdge is one directed edge instance of an external half-edge
// graph, used only as an import source.
type HalfEdge interface {

	// FaceSuccessor returns the next half-edge around the same face.
	FaceSuccessor() HalfEdge

	// Point returns the coordinates at the edge's origin.
	Point() math32.Vector3

	// IsExterior returns whether the edge is marked exterior; the
	// default face-acceptance predicate rejects such faces.
	IsExterior() bool
}

// Graph is the external half-edge graph collaborator.
type Graph interface {

	// ForEachFaceLoop calls visit once per face loop with a seed
	// half-edge of that loop.
	ForEachFaceLoop(visit func(seed HalfEdge))
}

// ImportGraph walks every face loop of the graph, accepts a face if
// the predicate holds on its seed half-edge (default: the seed is not
// exterior), and appends one facet per accepted face by walking
// successor links back to the seed. Returns the number of facets
// emitted.
func (b *Builder) ImportGraph(g Graph, accept func(seed HalfEdge) bool) int {
	if b.mesh == nil || g == nil {
		return 0
	}
	if accept == nil {
		accept = func(seed HalfEdge) bool { return !seed.IsExterior() }
	}
	count := 0
	g.ForEachFaceLoop(func(seed HalfEdge) {
		if seed == nil || !accept(seed) {
			return
		}
		var pts []math32.Vector3
		for he := seed; ; {
			pts = append(pts, he.Point())
			he = he.FaceSuccessor()
			if he == nil || he == seed {
				break
			}
		}
		count += b.AddPolygon(pts)
	})
	return count
}

// BuildFromGraph assembles a mesh from the face loops of a half-edge
// graph under the given options (nil for defaults) and acceptance
// predicate (nil for the exterior-mask default), compacting
// coincident points at claim.
func BuildFromGraph(g Graph, opts *Options, accept func(seed HalfEdge) bool) *mesh.Mesh {
	b := New(opts)
	b.ImportGraph(g, accept)
	return b.Claim(true)
}
