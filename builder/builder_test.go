// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"testing"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/mesh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAddTriangle(t *testing.T) {
	b := New(nil)
	ok := b.AddTriangle([3]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0),
	}, nil, nil)
	require.True(t, ok)

	m := b.Claim(false)
	require.Equal(t, 1, m.NumFacets())
	assert.Equal(t, []int{0, 1, 2}, m.PointIndex)
	assert.NoError(t, m.IsValid())

	// synthesized planar normal is shared across the corners
	assert.Equal(t, m.Normal.Index[0], m.Normal.Index[1])
	assert.Equal(t, m.Normal.Index[0], m.Normal.Index[2])
	nrm := m.Normal.Values[m.Normal.Index[0]]
	assert.InDelta(t, 1, float64(nrm.Z), 1.0e-6)

	// synthesized params: u along the first edge
	uv := m.Param.Values[m.Param.Index[1]]
	assert.InDelta(t, 1, float64(uv.X), 1.0e-6)
	assert.InDelta(t, 0, float64(uv.Y), 1.0e-6)
}

func TestAddTriangleDegenerate(t *testing.T) {
	b := New(nil)
	p := math32.Vec3(1, 2, 3)
	assert.False(t, b.AddTriangle([3]math32.Vector3{p, p, math32.Vec3(4, 5, 6)}, nil, nil))
	assert.False(t, b.AddTriangle([3]math32.Vector3{p, math32.Vec3(4, 5, 6), p}, nil, nil))
	assert.Equal(t, 0, b.NumFacets())
	m := b.Claim(false)
	assert.Equal(t, 0, m.NumPoints())
	assert.NoError(t, m.IsValid())
}

func TestAddTriangleSuppliedAttributes(t *testing.T) {
	b := New(nil)
	nrm := math32.Vec3(0, 0, 1)
	ok := b.AddTriangle(
		[3]math32.Vector3{math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0)},
		[]math32.Vector3{nrm, nrm, nrm},
		[]math32.Vector2{math32.Vec2(0, 0), math32.Vec2(2, 0), math32.Vec2(0, 2)},
	)
	require.True(t, ok)
	m := b.Claim(false)
	assert.Equal(t, math32.Vec2(2, 0), m.Param.Values[m.Param.Index[1]])
	assert.Equal(t, nrm, m.Normal.Values[m.Normal.Index[2]])
}

func TestAddQuadUnsplit(t *testing.T) {
	b := New(nil)
	n := b.AddQuad([4]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(1, 1, 0), math32.Vec3(0, 1, 0),
	}, nil, nil)
	assert.Equal(t, 1, n)
	m := b.Claim(false)
	require.Equal(t, 1, m.NumFacets())
	_, end, _ := m.FacetBounds(0)
	assert.Equal(t, 4, end)
	assert.Equal(t, []bool{true, true, true, true}, m.EdgeVisible)
}

func TestAddQuadTriangulated(t *testing.T) {
	opts := NewOptions()
	opts.ShouldTriangulate = true
	b := New(opts)

	// diagonal 1-3 is shorter
	n := b.AddQuad([4]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(3, 0, 0), math32.Vec3(3, 1, 0), math32.Vec3(1, 1, 0),
	}, nil, nil)
	assert.Equal(t, 2, n)
	m := b.Claim(false)
	require.Equal(t, 2, m.NumFacets())
	tri0 := facetPoints(m, 0)
	assert.Equal(t, []math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(3, 0, 0), math32.Vec3(1, 1, 0),
	}, tri0)
	// diagonal edges are invisible
	assert.False(t, m.EdgeVisible[1])
	s, _, _ := m.FacetBounds(1)
	assert.False(t, m.EdgeVisible[s+2])
}

func TestAddQuadTriangulatedTie(t *testing.T) {
	opts := NewOptions()
	opts.ShouldTriangulate = true
	b := New(opts)

	// both diagonals equal: the 0-2 diagonal wins deterministically
	n := b.AddQuad([4]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(1, 1, 0), math32.Vec3(0, 1, 0),
	}, nil, nil)
	assert.Equal(t, 2, n)
	m := b.Claim(false)
	assert.Equal(t, []math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(1, 1, 0),
	}, facetPoints(m, 0))
	assert.Equal(t, []math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 1, 0), math32.Vec3(0, 1, 0),
	}, facetPoints(m, 1))
}

func TestAddQuadMaxEdgeLength(t *testing.T) {
	opts := NewOptions()
	opts.MaxEdgeLength = 1.1
	b := New(opts)
	n := b.AddQuad([4]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(2, 0, 0), math32.Vec3(2, 1, 0), math32.Vec3(0, 1, 0),
	}, nil, nil)
	// 2x1 quad splits into two cells along u
	assert.Equal(t, 2, n)
	m := b.Claim(true)
	require.Equal(t, 2, m.NumFacets())
	// interior seam edge is invisible on both sides
	assert.False(t, m.EdgeVisible[1])
	s, _, _ := m.FacetBounds(1)
	assert.False(t, m.EdgeVisible[s+3])
	// compaction merges the shared seam points
	assert.Equal(t, 6, m.NumPoints())
	assert.NoError(t, m.IsValid())
	// params interpolate the default unit square
	assert.Equal(t, math32.Vec2(0.5, 0), m.Param.Values[m.Param.Index[1]])
}

func TestAddPolygon(t *testing.T) {
	b := New(nil)
	penta := []math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(2, 0, 0), math32.Vec3(3, 1, 0),
		math32.Vec3(1, 2, 0), math32.Vec3(-1, 1, 0),
	}
	assert.Equal(t, 1, b.AddPolygon(penta))
	m := b.Claim(false)
	_, end, _ := m.FacetBounds(0)
	assert.Equal(t, 5, end)

	opts := NewOptions()
	opts.ShouldTriangulate = true
	b = New(opts)
	assert.Equal(t, 3, b.AddPolygon(penta))
	m = b.Claim(true)
	assert.Equal(t, 3, m.NumFacets())
	// fanned triangles all share the first corner
	for k := 0; k < 3; k++ {
		s, _, _ := m.FacetBounds(k)
		assert.Equal(t, m.PointIndex[0], m.PointIndex[s])
	}
	assert.Equal(t, 0, b.AddPolygon(penta[:2]))
}

func TestAddTriangleFan(t *testing.T) {
	b := New(nil)
	apex := math32.Vec3(0, 0, 1)
	polyline := []math32.Vector3{
		math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0), math32.Vec3(-1, 0, 0), math32.Vec3(0, -1, 0),
	}
	assert.Equal(t, 3, b.AddTriangleFan(apex, polyline))
	m := b.Claim(false)
	require.Equal(t, 3, m.NumFacets())
	// apex and polyline points are stored once, shared by index
	assert.Equal(t, 5, m.NumPoints())
	apexIdx := m.PointIndex[0]
	for k := 0; k < 3; k++ {
		s, _, _ := m.FacetBounds(k)
		assert.Equal(t, apexIdx, m.PointIndex[s])
	}
	assert.NoError(t, m.IsValid())
}

func TestAddFanFromIndices(t *testing.T) {
	b := New(nil)
	m := b.mesh
	apex := m.AddPoint(math32.Vec3(0, 0, 1))
	ring := []int{
		m.AddPoint(math32.Vec3(1, 0, 0)),
		m.AddPoint(math32.Vec3(0, 1, 0)),
		m.AddPoint(math32.Vec3(-1, 0, 0)),
	}
	assert.Equal(t, 2, b.AddFanFromIndices(apex, ring))
	// degenerate wedge with a repeated index is dropped
	assert.Equal(t, 0, b.AddFanFromIndices(apex, []int{ring[0], ring[0]}))
	out := b.Claim(false)
	assert.Equal(t, 2, out.NumFacets())
	assert.Equal(t, 4, out.NumPoints())
}

func TestReversedFacets(t *testing.T) {
	b := New(nil)
	assert.False(t, b.ReversedFacets())
	b.SetReversedFacets(true)
	assert.True(t, b.ReversedFacets())
	require.True(t, b.AddTriangle([3]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0),
	}, nil, nil))
	b.ToggleReversedFacets()
	assert.False(t, b.ReversedFacets())

	m := b.Claim(false)
	// corners stored in reversed order, synthesized normal flips
	assert.Equal(t, math32.Vec3(0, 1, 0), m.Point[m.PointIndex[0]])
	assert.Equal(t, math32.Vec3(0, 0, 0), m.Point[m.PointIndex[2]])
	nrm := m.Normal.Values[m.Normal.Index[0]]
	assert.InDelta(t, -1, float64(nrm.Z), 1.0e-6)
}

func TestBuilderColors(t *testing.T) {
	opts := NewOptions()
	opts.NeedColors = true
	b := New(opts)
	b.CurrentColor = 0xFF0000FF
	require.True(t, b.AddTriangle([3]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0),
	}, nil, nil))
	b.CurrentColor = 0x00FF00FF
	require.True(t, b.AddTriangle([3]math32.Vector3{
		math32.Vec3(0, 0, 1), math32.Vec3(1, 0, 1), math32.Vec3(0, 1, 1),
	}, nil, nil))

	m := b.Claim(false)
	require.True(t, m.HasColors())
	// one shared color index per facet
	assert.Equal(t, m.Color.Index[0], m.Color.Index[2])
	assert.Equal(t, uint32(0xFF0000FF), m.Color.Values[m.Color.Index[0]])
	assert.Equal(t, uint32(0x00FF00FF), m.Color.Values[m.Color.Index[3]])
	assert.NoError(t, m.IsValid())
}

func TestClaim(t *testing.T) {
	b := New(nil)
	// two triangles sharing an edge coordinate-wise
	require.True(t, b.AddTriangle([3]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0),
	}, nil, nil))
	require.True(t, b.AddTriangle([3]math32.Vector3{
		math32.Vec3(1, 0, 0), math32.Vec3(1, 1, 0), math32.Vec3(0, 1, 0),
	}, nil, nil))

	m := b.Claim(true)
	require.NotNil(t, m)
	assert.Equal(t, 4, m.NumPoints())
	assert.Equal(t, 2, m.NumFacets())
	assert.NoError(t, m.IsValid())

	// the builder is spent
	assert.Nil(t, b.Claim(false))
	assert.False(t, b.AddTriangle([3]math32.Vector3{
		math32.Vec3(0, 0, 0), math32.Vec3(1, 0, 0), math32.Vec3(0, 1, 0),
	}, nil, nil))
	assert.Equal(t, 0, b.NumFacets())
	assert.False(t, b.EndFace())
}

// facetPoints resolves facet k's corner coordinates.
func facetPoints(m *mesh.Mesh, k int) []math32.Vector3 {
	s, e, ok := m.FacetBounds(k)
	if !ok {
		return nil
	}
	pts := make([]math32.Vector3, 0, e-s)
	for i := s; i < e; i++ {
		pts = append(pts, m.Point[m.PointIndex[i]])
	}
	return pts
}
