// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"errors"
	"fmt"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// Mesh is an indexed polygon mesh: a [Data] attribute store plus the
// facet boundary table delimiting each facet's run of corners, and an
// optional face table grouping consecutive facets under one texture
// parameter range. A Mesh is created empty by a builder and mutated
// only through its append and terminate calls; once claimed it is
// read through a [Cursor].
type Mesh struct {
	Data

	// Faces are the caller-delimited face ranges; see [Mesh.EndFace].
	Faces []FaceRange

	// facetStart delimits facets: facet k occupies corners
	// [facetStart[k], facetStart[k+1]). Always starts with 0 and is
	// strictly increasing.
	facetStart []int

	// facetToFace maps each facet to its position in Faces,
	// or -1 for facets not covered by any face.
	facetToFace []int

	// valid is the array state at the last terminated facet,
	// the rollback target for a failed termination.
	valid dataMark
}

// NewMesh returns a new empty [Mesh] with the requested optional
// attribute streams.
func NewMesh(needNormals, needParams, needColors bool) *Mesh {
	m := &Mesh{Data: *NewData(needNormals, needParams, needColors)}
	m.facetStart = append(m.facetStart, 0)
	m.valid = m.Data.mark()
	return m
}

// NumFacets returns the number of terminated facets.
func (m *Mesh) NumFacets() int {
	return len(m.facetStart) - 1
}

// FacetBounds returns the corner range [start, end) of facet k,
// with ok false if k is out of range.
func (m *Mesh) FacetBounds(k int) (start, end int, ok bool) {
	if k < 0 || k >= m.NumFacets() {
		return 0, 0, false
	}
	return m.facetStart[k], m.facetStart[k+1], true
}

// FacetToFace returns the face position of facet k, or -1 if the
// facet is not part of any declared face.
func (m *Mesh) FacetToFace(k int) int {
	if k < 0 || k >= len(m.facetToFace) {
		return -1
	}
	return m.facetToFace[k]
}

// TerminateFacet closes the open facet: all corners appended since the
// last termination become facet NumFacets(). When validate is set, the
// facet must have at least 3 corners, every present optional index
// array must have grown by exactly the point index growth, and every
// new index must be in range. On any violation the open facet is
// discarded by truncating all arrays back to the last valid boundary
// (no partial commit is ever visible) and the joined violation
// messages are returned. Construction may continue after a failure.
func (m *Mesh) TerminateFacet(validate bool) error {
	base := m.valid
	grown := len(m.PointIndex) - base.corners
	if grown == 0 {
		// no corners to terminate; keeps facetStart strictly increasing.
		// Any channel growth without corners is discarded along with it,
		// so nothing of the failed facet stays visible.
		m.Data.truncate(base)
		return errors.New("mesh: no open facet to terminate")
	}

	var errs []error
	if validate {
		if grown < 3 {
			errs = append(errs, fmt.Errorf("mesh: open facet has %d corners, need at least 3", grown))
		}
		for i := base.corners; i < len(m.PointIndex); i++ {
			if m.PointIndex[i] < 0 || m.PointIndex[i] >= len(m.Point) {
				errs = append(errs, fmt.Errorf("mesh: point index %d at corner %d out of range [0, %d)", m.PointIndex[i], i, len(m.Point)))
			}
		}
		if m.Normal != nil {
			if g := m.Normal.NumIndexes() - base.normalIndex; g != grown {
				errs = append(errs, fmt.Errorf("mesh: normal indices grew by %d, point indices by %d", g, grown))
			} else if err := m.Normal.CheckIndexes("normal", base.normalIndex); err != nil {
				errs = append(errs, err)
			}
		}
		if m.Param != nil {
			if g := m.Param.NumIndexes() - base.paramIndex; g != grown {
				errs = append(errs, fmt.Errorf("mesh: param indices grew by %d, point indices by %d", g, grown))
			} else if err := m.Param.CheckIndexes("param", base.paramIndex); err != nil {
				errs = append(errs, err)
			}
		}
		if m.Color != nil {
			if g := m.Color.NumIndexes() - base.colorIndex; g != grown {
				errs = append(errs, fmt.Errorf("mesh: color indices grew by %d, point indices by %d", g, grown))
			} else if err := m.Color.CheckIndexes("color", base.colorIndex); err != nil {
				errs = append(errs, err)
			}
		}
	}
	if len(errs) > 0 {
		m.Data.truncate(base)
		return errors.Join(errs...)
	}
	m.facetStart = append(m.facetStart, len(m.PointIndex))
	m.valid = m.Data.mark()
	return nil
}

// AbandonFacet discards the open facet without terminating it,
// truncating all arrays back to the last valid boundary.
func (m *Mesh) AbandonFacet() {
	m.Data.truncate(m.valid)
}

// OpenFacetCorners returns the number of corners appended since the
// last terminated facet.
func (m *Mesh) OpenFacetCorners() int {
	return len(m.PointIndex) - m.valid.corners
}

// Transform applies the given transform to the whole mesh: points by
// the matrix itself, normals by its inverse transpose, renormalized.
// If the determinant is negative, every facet's corner order is
// reversed and normals are negated, preserving the outward-orientation
// convention across reflections; downstream code relies on this
// correction happening invisibly. A singular matrix is an error and
// leaves the mesh unchanged.
func (m *Mesh) Transform(xf *math32.Matrix4) error {
	nm, err := xf.NormalMatrix()
	if err != nil {
		return err
	}
	m.TransformPoints(xf)
	m.TransformNormals(nm)
	if xf.Determinant() < 0 {
		m.ReverseIndices(false)
		m.NegateNormals()
	}
	return nil
}

// ReverseIndices reverses the corner order within each facet per the
// boundary table, adjusting edge visibility so each edge keeps its
// flag. With preserveStart, each facet's first corner stays fixed and
// only the interior order reverses, for closed strips whose seam
// corner is meaningful.
func (m *Mesh) ReverseIndices(preserveStart bool) {
	for k := 0; k < m.NumFacets(); k++ {
		start, end, _ := m.FacetBounds(k)
		m.reverseFacet(start, end, preserveStart)
	}
}

// reverseFacet reverses one facet's corners in [start, end).
// Edge visibility is remapped so that the flag for the geometric edge
// between two corners travels with that edge: the edge following
// corner i in the original winding connects the same two points as
// some edge in the reversed winding, and keeps its visibility there.
func (m *Mesh) reverseFacet(start, end int, preserveStart bool) {
	n := end - start
	if n < 2 {
		return
	}
	lo := start
	if preserveStart {
		lo = start + 1
	}
	reverseRange(m.PointIndex, lo, end)
	if m.Normal != nil {
		reverseRange(m.Normal.Index, lo, end)
	}
	if m.Param != nil {
		reverseRange(m.Param.Index, lo, end)
	}
	if m.Color != nil {
		reverseRange(m.Color.Index, lo, end)
	}

	old := make([]bool, n)
	copy(old, m.EdgeVisible[start:end])
	if preserveStart {
		// new order c0, c(n-1) ... c1: edge 0 is old edge n-1,
		// edge i is old edge n-1-i, closing edge is old edge 0.
		m.EdgeVisible[start] = old[n-1]
		for i := 1; i < n; i++ {
			m.EdgeVisible[start+i] = old[n-1-i]
		}
	} else {
		// new order c(n-1) ... c0: edge i is old edge n-2-i,
		// closing edge keeps old closing edge n-1.
		for i := 0; i < n-1; i++ {
			m.EdgeVisible[start+i] = old[n-2-i]
		}
		m.EdgeVisible[end-1] = old[n-1]
	}
}

func reverseRange(s []int, lo, hi int) {
	for i, j := lo, hi-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}

// ApplyPointPermutation replaces the point array with the given packed
// array and rewrites every point index through the old-to-new mapping,
// as produced by clustering compaction. The mapping must cover every
// existing point.
func (m *Mesh) ApplyPointPermutation(packed []math32.Vector3, oldToNew []int) error {
	if len(oldToNew) != len(m.Point) {
		return fmt.Errorf("mesh: permutation length %d != point count %d", len(oldToNew), len(m.Point))
	}
	for i, pi := range m.PointIndex {
		ni := oldToNew[pi]
		if ni < 0 || ni >= len(packed) {
			return fmt.Errorf("mesh: permuted index %d at corner %d out of range [0, %d)", ni, i, len(packed))
		}
		m.PointIndex[i] = ni
	}
	m.Point = packed
	m.valid.points = len(packed)
	return nil
}
