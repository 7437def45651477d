// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"testing"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// planeSurface spans a w x h rectangle in the xy plane.
type planeSurface struct {
	w, h float32
}

func (s planeSurface) PointAt(u, v float32) math32.Vector3 {
	return math32.Vec3(u*s.w, v*s.h, 0)
}

func (s planeSurface) PointAndTangentsAt(u, v float32) (origin, dU, dV math32.Vector3) {
	return s.PointAt(u, v), math32.Vec3(s.w, 0, 0), math32.Vec3(0, s.h, 0)
}

func TestAddUVGrid(t *testing.T) {
	b := New(nil)
	n := b.AddUVGrid(planeSurface{w: 4, h: 3}, 4, 3)
	assert.Equal(t, 12, n)

	m := b.Claim(false)
	require.Equal(t, 12, m.NumFacets())
	// rows are shared by index between bands: 5 x 4 grid points
	assert.Equal(t, 20, m.NumPoints())
	assert.NoError(t, m.IsValid())

	// normals from the tangents, params on the unit grid
	for _, ni := range m.Normal.Index {
		assert.Equal(t, math32.Vec3(0, 0, 1), m.Normal.Values[ni])
	}
	s0, _, _ := m.FacetBounds(0)
	assert.Equal(t, math32.Vec2(0, 0), m.Param.Values[m.Param.Index[s0]])
	assert.Equal(t, math32.Vec2(0.25, 1.0/3), m.Param.Values[m.Param.Index[s0+2]])

	// one face range covering the whole grid
	require.Len(t, m.Faces, 1)
	for k := 0; k < 12; k++ {
		assert.Equal(t, 0, m.FacetToFace(k))
	}
	psz := m.Faces[0].ParamRange.Size()
	assert.InDelta(t, 1, float64(psz.X), 1.0e-6)
	assert.InDelta(t, 1, float64(psz.Y), 1.0e-6)
}

func TestAddUVGridVisibility(t *testing.T) {
	b := New(nil)
	require.Equal(t, 6, b.AddUVGrid(planeSurface{w: 3, h: 2}, 3, 2))
	m := b.Claim(false)

	// facets run i fastest: facet j*numU+i
	vis := func(k int) []bool {
		s, e, _ := m.FacetBounds(k)
		return append([]bool{}, m.EdgeVisible[s:e]...)
	}
	// bottom-left cell: bottom and left edges visible
	assert.Equal(t, []bool{true, false, false, true}, vis(0))
	// bottom-right cell: bottom and right edges visible
	assert.Equal(t, []bool{true, true, false, false}, vis(2))
	// top-left cell: top and left edges visible
	assert.Equal(t, []bool{false, false, true, true}, vis(3))
	// top-right cell: top and right edges visible
	assert.Equal(t, []bool{false, true, true, false}, vis(5))
}

func TestAddUVGridReversed(t *testing.T) {
	b := New(nil)
	b.SetReversedFacets(true)
	require.Equal(t, 1, b.AddUVGrid(planeSurface{w: 1, h: 1}, 1, 1))
	m := b.Claim(false)
	for _, ni := range m.Normal.Index {
		assert.Equal(t, math32.Vec3(0, 0, -1), m.Normal.Values[ni])
	}
	// winding is reversed too
	s, _, _ := m.FacetBounds(0)
	assert.Equal(t, math32.Vec3(0, 1, 0), m.Point[m.PointIndex[s]])
}

func TestAddUVGridEdgeCases(t *testing.T) {
	b := New(nil)
	assert.Equal(t, 0, b.AddUVGrid(nil, 4, 3))
	assert.Equal(t, 0, b.AddUVGrid(planeSurface{w: 1, h: 1}, 0, 3))
	assert.Equal(t, 0, b.NumFacets())
}
