// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// Cursor is a re-seekable, mutable snapshot of one facet, copied out
// of a [Mesh]. Each seek copies the addressed facet's corners into the
// cursor's private buffers and appends NumWrap duplicate leading
// corners, so closed-loop consumers can walk [0, NumEdges()+NumWrap)
// without special-casing the seam. Many cursors may share one finished
// mesh; a cursor must not be interleaved with a live builder on the
// same mesh, since its cache goes stale the instant the boundary table
// changes.
type Cursor struct {

	// NumWrap is the number of leading corners duplicated at the end
	// of each buffer after a seek.
	NumWrap int

	// Point holds the facet's corner coordinates, wrapped.
	Point []math32.Vector3

	// PointIndex holds the facet's point indices, wrapped.
	PointIndex []int

	// Visible holds the per-corner edge visibility flags, wrapped.
	Visible []bool

	// Normal and NormalIndex hold corner normals when present.
	Normal      []math32.Vector3
	NormalIndex []int

	// Param and ParamIndex hold corner parameters when present.
	Param      []math32.Vector2
	ParamIndex []int

	// Color and ColorIndex hold corner colors when present.
	Color      []uint32
	ColorIndex []int

	mesh  *Mesh
	facet int
}

// NewCursor returns a new [Cursor] over the given mesh with the given
// wrap count, positioned before the first facet: the first Advance
// call moves to facet 0.
func NewCursor(m *Mesh, numWrap int) *Cursor {
	if numWrap < 0 {
		numWrap = 0
	}
	return &Cursor{NumWrap: numWrap, mesh: m, facet: -1}
}

// CurrentIndex returns the facet index of the current snapshot,
// or -1 before the first seek.
func (c *Cursor) CurrentIndex() int {
	return c.facet
}

// NumEdges returns the number of edges (corners, unwrapped) of the
// current facet, or 0 before the first seek.
func (c *Cursor) NumEdges() int {
	if c.facet < 0 {
		return 0
	}
	return len(c.PointIndex) - c.NumWrap
}

// Reset positions the cursor before the first facet.
func (c *Cursor) Reset() {
	c.facet = -1
}

// Seek copies facet k into the cursor buffers. Returns false, with the
// cursor state unchanged, if k is out of range.
func (c *Cursor) Seek(k int) bool {
	m := c.mesh
	start, end, ok := m.FacetBounds(k)
	if !ok {
		return false
	}
	c.facet = k
	n := end - start
	nw := n + c.NumWrap

	c.PointIndex = resize(c.PointIndex, nw)
	c.Point = resize(c.Point, nw)
	c.Visible = resize(c.Visible, nw)
	for i := 0; i < nw; i++ {
		src := start + i%n
		pi := m.PointIndex[src]
		c.PointIndex[i] = pi
		c.Point[i] = m.Point[pi]
		c.Visible[i] = m.EdgeVisible[src]
	}
	if m.Normal != nil {
		c.NormalIndex = resize(c.NormalIndex, nw)
		c.Normal = resize(c.Normal, nw)
		for i := 0; i < nw; i++ {
			ni := m.Normal.Index[start+i%n]
			c.NormalIndex[i] = ni
			c.Normal[i] = m.Normal.Values[ni]
		}
	} else {
		c.NormalIndex = c.NormalIndex[:0]
		c.Normal = c.Normal[:0]
	}
	if m.Param != nil {
		c.ParamIndex = resize(c.ParamIndex, nw)
		c.Param = resize(c.Param, nw)
		for i := 0; i < nw; i++ {
			pi := m.Param.Index[start+i%n]
			c.ParamIndex[i] = pi
			c.Param[i] = m.Param.Values[pi]
		}
	} else {
		c.ParamIndex = c.ParamIndex[:0]
		c.Param = c.Param[:0]
	}
	if m.Color != nil {
		c.ColorIndex = resize(c.ColorIndex, nw)
		c.Color = resize(c.Color, nw)
		for i := 0; i < nw; i++ {
			ci := m.Color.Index[start+i%n]
			c.ColorIndex[i] = ci
			c.Color[i] = m.Color.Values[ci]
		}
	} else {
		c.ColorIndex = c.ColorIndex[:0]
		c.Color = c.Color[:0]
	}
	return true
}

// Advance moves to the next stored facet, returning false at the end.
func (c *Cursor) Advance() bool {
	return c.Seek(c.facet + 1)
}

// DistanceParam returns corner i's parameter converted to the
// distance-equivalent parameterization of the current facet's face
// range. Returns false if params or face ranges are absent.
func (c *Cursor) DistanceParam(i int) (math32.Vector2, bool) {
	fr := c.faceRange()
	if fr == nil || i < 0 || i >= len(c.Param) {
		return math32.Vector2{}, false
	}
	return fr.ConvertParamToDistance(c.Param[i])
}

// NormalizedParam returns corner i's parameter converted to the [0, 1]
// normalized parameterization of the current facet's face range.
// Returns false if params or face ranges are absent.
func (c *Cursor) NormalizedParam(i int) (math32.Vector2, bool) {
	fr := c.faceRange()
	if fr == nil || i < 0 || i >= len(c.Param) {
		return math32.Vector2{}, false
	}
	return fr.ConvertParamToNormalized(c.Param[i])
}

func (c *Cursor) faceRange() *FaceRange {
	face := c.mesh.FacetToFace(c.facet)
	if face < 0 || face >= len(c.mesh.Faces) {
		return nil
	}
	return &c.mesh.Faces[face]
}

func resize[T any](s []T, n int) []T {
	if cap(s) < n {
		return make([]T, n)
	}
	return s[:n]
}
