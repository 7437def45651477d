// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"log/slog"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// AddBetweenLineStrings stitches two polylines of equal point count
// with one quad per consecutive point pair. Returns the number of
// facets emitted (n-1 quads, or twice that when triangulating);
// zero when the counts differ.
func (b *Builder) AddBetweenLineStrings(a, bb []math32.Vector3) int {
	return b.AddBetweenStrokes(&Strokes{Point: a, V: 0}, &Strokes{Point: bb, V: 1})
}

// AddBetweenStrokes stitches two stroked cross-sections of equal
// point count with one quad per consecutive point pair, referencing
// only points from the two rails. Per-rail scalar tags and per-point
// fractions are carried into synthesized parameters as (fraction, V);
// per-point rail normals are carried into the normal stream when
// present on both rails. Returns the number of facets emitted.
func (b *Builder) AddBetweenStrokes(a, c *Strokes) int {
	if b.mesh == nil {
		return 0
	}
	n := a.NumPoints()
	if n < 2 || n != c.NumPoints() {
		return 0
	}
	m := b.mesh

	aIdx := make([]int, n)
	cIdx := make([]int, n)
	for i := 0; i < n; i++ {
		aIdx[i] = m.AddPoint(a.Point[i])
		cIdx[i] = m.AddPoint(c.Point[i])
	}

	var aUV, cUV []int
	if m.HasParams() {
		aUV = b.railParamIndexes(a)
		cUV = b.railParamIndexes(c)
	}
	var aN, cN []int
	useRailNormals := m.HasNormals() && len(a.Normal) == n && len(c.Normal) == n
	if useRailNormals {
		aN = b.railNormalIndexes(a)
		cN = b.railNormalIndexes(c)
	}

	count := 0
	for i := 1; i < n; i++ {
		pidx := [4]int{aIdx[i-1], aIdx[i], cIdx[i], cIdx[i-1]}
		var nIdx, uvIdx []int
		if useRailNormals {
			nIdx = []int{aN[i-1], aN[i], cN[i], cN[i-1]}
		}
		if aUV != nil {
			uvIdx = []int{aUV[i-1], aUV[i], cUV[i], cUV[i-1]}
		}
		count += b.emitIndexedQuad(pidx, nIdx, uvIdx, [4]bool{true, false, true, false})
	}
	return count
}

// railParamIndexes adds one (fraction, V) parameter per rail point,
// or the rail's stored params when present.
func (b *Builder) railParamIndexes(s *Strokes) []int {
	m := b.mesh
	n := s.NumPoints()
	idx := make([]int, n)
	if len(s.Param) == n {
		for i, uv := range s.Param {
			idx[i] = m.AddParam(uv)
		}
		return idx
	}
	for i := 0; i < n; i++ {
		idx[i] = m.AddParam(math32.Vec2(s.FractionAt(i), s.V))
	}
	return idx
}

func (b *Builder) railNormalIndexes(s *Strokes) []int {
	m := b.mesh
	idx := make([]int, len(s.Normal))
	for i, nv := range s.Normal {
		idx[i] = m.AddNormal(nv)
	}
	return idx
}

// emitIndexedQuad emits a quad over existing point indices: one
// 4-corner facet, or two triangles along the shorter diagonal when
// triangulating. Returns the number of facets emitted.
func (b *Builder) emitIndexedQuad(pidx [4]int, nIdx, uvIdx []int, vis [4]bool) int {
	if !b.Options.ShouldTriangulate {
		return boolToCount(b.emitIndexedFacet(pidx[:], nIdx, uvIdx, vis[:]))
	}
	m := b.mesh
	dAC := m.Point[pidx[0]].DistanceToSquared(m.Point[pidx[2]])
	dBD := m.Point[pidx[1]].DistanceToSquared(m.Point[pidx[3]])
	count := 0
	if dAC <= dBD {
		count += boolToCount(b.emitIndexedFacet(
			[]int{pidx[0], pidx[1], pidx[2]}, pick3(nIdx, 0, 1, 2), pick3(uvIdx, 0, 1, 2),
			[]bool{vis[0], vis[1], false}))
		count += boolToCount(b.emitIndexedFacet(
			[]int{pidx[0], pidx[2], pidx[3]}, pick3(nIdx, 0, 2, 3), pick3(uvIdx, 0, 2, 3),
			[]bool{false, vis[2], vis[3]}))
	} else {
		count += boolToCount(b.emitIndexedFacet(
			[]int{pidx[0], pidx[1], pidx[3]}, pick3(nIdx, 0, 1, 3), pick3(uvIdx, 0, 1, 3),
			[]bool{vis[0], false, vis[3]}))
		count += boolToCount(b.emitIndexedFacet(
			[]int{pidx[1], pidx[2], pidx[3]}, pick3(nIdx, 1, 2, 3), pick3(uvIdx, 1, 2, 3),
			[]bool{vis[1], vis[2], false}))
	}
	return count
}

func pick3(s []int, a, b, c int) []int {
	if len(s) < 4 {
		return nil
	}
	return []int{s[a], s[b], s[c]}
}

// AddRuledBetweenSections stitches a list of at least two stroked
// cross-sections into a ruled surface, band by band. Sections with
// differing stroke counts first go through the external compatibility
// pass; if compatibility cannot be achieved, stitching is skipped but
// end caps are still emitted — a soft failure, never an abort.
// Returns whether the walls were stitched.
func (b *Builder) AddRuledBetweenSections(sections []*Strokes, compat Restroker) bool {
	if b.mesh == nil || len(sections) < 2 {
		return false
	}
	work := sections
	if !strokeCountsMatch(sections) {
		ok := false
		if compat != nil {
			work, ok = compat.MakeCompatible(sections)
			ok = ok && strokeCountsMatch(work)
		}
		if !ok {
			slog.Debug("builder: cross-sections incompatible, emitting end caps only",
				"sections", len(sections))
			b.addRuledCaps(sections[0], sections[len(sections)-1])
			return false
		}
	}
	for i := 1; i < len(work); i++ {
		b.AddBetweenStrokes(work[i-1], work[i])
	}
	b.addRuledCaps(work[0], work[len(work)-1])
	return true
}

// addRuledCaps emits the two end caps of a ruled body. The start cap
// winds opposite the walls so its normal points out of the body.
func (b *Builder) addRuledCaps(first, last *Strokes) {
	b.ToggleReversedFacets()
	b.AddPolygon(capBoundary(first))
	b.ToggleReversedFacets()
	b.AddPolygon(capBoundary(last))
}

// capBoundary drops the duplicated closing point of a closed section.
func capBoundary(s *Strokes) []math32.Vector3 {
	if s.IsClosed() {
		return s.Point[:len(s.Point)-1]
	}
	return s.Point
}

func strokeCountsMatch(sections []*Strokes) bool {
	for i := 1; i < len(sections); i++ {
		if sections[i].NumPoints() != sections[0].NumPoints() {
			return false
		}
	}
	return true
}
