// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"log/slog"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/cluster"
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/mesh"
)

// Builder is the stateful mesh assembly engine. It wraps a fresh
// [mesh.Mesh] and turns geometric construction calls into correctly
// oriented, correctly indexed facets, synthesizing normals and
// texture parameters when they are not supplied. One Builder is
// driven by one logical construction thread; [Builder.Claim]
// transfers ownership of the finished mesh, after which no further
// construction calls are valid.
//
// Builder failures are uniformly soft: degenerate facets are dropped
// silently, incompatible cross-sections degrade to caps only, and
// structural violations roll the open facet back inside the mesh.
type Builder struct {

	// Options is the tessellation configuration.
	Options *Options

	// CurrentColor is applied to every emitted corner when the
	// color stream is enabled.
	CurrentColor uint32

	mesh     *mesh.Mesh
	reversed bool
}

// New returns a new [Builder] wrapping a fresh empty mesh, using the
// given options (nil for defaults).
func New(opts *Options) *Builder {
	if opts == nil {
		opts = NewOptions()
	}
	return &Builder{
		Options:      opts,
		CurrentColor: 0xFFFFFFFF,
		mesh:         mesh.NewMesh(opts.NeedNormals, opts.NeedParams, opts.NeedColors),
	}
}

// ReversedFacets returns whether subsequent emissions have their
// winding flipped.
func (b *Builder) ReversedFacets() bool {
	return b.reversed
}

// SetReversedFacets sets the winding flip for subsequent emissions,
// e.g. for a cap whose normal must oppose the tube it caps.
func (b *Builder) SetReversedFacets(rev bool) {
	b.reversed = rev
}

// ToggleReversedFacets toggles the winding flip for subsequent
// emissions.
func (b *Builder) ToggleReversedFacets() {
	b.reversed = !b.reversed
}

// NumFacets returns the number of facets emitted so far.
func (b *Builder) NumFacets() int {
	if b.mesh == nil {
		return 0
	}
	return b.mesh.NumFacets()
}

// EndFace closes a face range over all facets emitted since the last
// EndFace call. See [mesh.Mesh.EndFace].
func (b *Builder) EndFace() bool {
	if b.mesh == nil {
		return false
	}
	return b.mesh.EndFace()
}

// Claim finalizes construction and returns the mesh, optionally
// clustering coincident points first (rewriting point indices through
// the compaction permutation). The Builder holds no mesh afterward;
// further construction calls are no-ops.
func (b *Builder) Claim(compress bool) *mesh.Mesh {
	m := b.mesh
	if m == nil {
		return nil
	}
	b.mesh = nil
	if compress {
		packed, oldToNew := cluster.Compact(m.Point, b.Options.ClusterTolerance)
		if err := m.ApplyPointPermutation(packed, oldToNew); err != nil {
			slog.Error("builder: point compaction rejected", "err", err)
		}
	}
	return m
}

// AddTriangle appends one triangular facet from the given points.
// normals and params either have three entries or are nil, in which
// case a planar normal and a locally orthonormalized parameterization
// are synthesized as needed. A triangle with coincident corners is
// dropped silently. Returns whether a facet was emitted.
func (b *Builder) AddTriangle(points [3]math32.Vector3, normals []math32.Vector3, params []math32.Vector2) bool {
	if points[0] == points[1] || points[1] == points[2] || points[2] == points[0] {
		return false
	}
	return b.emitCoordFacet(points[:], normals, params, nil)
}

// AddQuad appends one quadrilateral from the given points, in corner
// order around the boundary. normals and params either have four
// entries or are nil (synthesized). When triangulating, the quad is
// split along the shorter diagonal, minimizing worst-case triangle
// distortion; ties resolve to the first diagonal (corners 0-2). When
// Options.MaxEdgeLength is set, longer quads are first split into a
// bilinear sub-grid. Returns the number of facets emitted.
func (b *Builder) AddQuad(points [4]math32.Vector3, normals []math32.Vector3, params []math32.Vector2) int {
	return b.addQuadVis(points, normals, params, [4]bool{true, true, true, true})
}

func (b *Builder) addQuadVis(points [4]math32.Vector3, normals []math32.Vector3, params []math32.Vector2, vis [4]bool) int {
	if b.mesh == nil {
		return 0
	}
	if mel := b.Options.MaxEdgeLength; mel > 0 && quadNeedsSplit(points, mel) {
		return b.addSplitQuad(points, normals, params, vis)
	}
	if !b.Options.ShouldTriangulate {
		return boolToCount(b.emitCoordFacet(points[:], normals, params, vis[:]))
	}
	dAC := points[0].DistanceToSquared(points[2])
	dBD := points[1].DistanceToSquared(points[3])
	count := 0
	if dAC <= dBD {
		count += boolToCount(b.emitTriangleCoords(points, normals, params,
			[3]int{0, 1, 2}, [3]bool{vis[0], vis[1], false}))
		count += boolToCount(b.emitTriangleCoords(points, normals, params,
			[3]int{0, 2, 3}, [3]bool{false, vis[2], vis[3]}))
	} else {
		count += boolToCount(b.emitTriangleCoords(points, normals, params,
			[3]int{0, 1, 3}, [3]bool{vis[0], false, vis[3]}))
		count += boolToCount(b.emitTriangleCoords(points, normals, params,
			[3]int{1, 2, 3}, [3]bool{vis[1], vis[2], false}))
	}
	return count
}

// emitTriangleCoords emits one triangle picked out of quad data by
// corner position, dropping coincident-corner degenerates silently.
func (b *Builder) emitTriangleCoords(points [4]math32.Vector3, normals []math32.Vector3, params []math32.Vector2, pick [3]int, vis [3]bool) bool {
	pts := [3]math32.Vector3{points[pick[0]], points[pick[1]], points[pick[2]]}
	if pts[0] == pts[1] || pts[1] == pts[2] || pts[2] == pts[0] {
		return false
	}
	var tn []math32.Vector3
	if len(normals) == 4 {
		tn = []math32.Vector3{normals[pick[0]], normals[pick[1]], normals[pick[2]]}
	}
	var tp []math32.Vector2
	if len(params) == 4 {
		tp = []math32.Vector2{params[pick[0]], params[pick[1]], params[pick[2]]}
	}
	return b.emitCoordFacet(pts[:], tn, tp, vis[:])
}

func quadNeedsSplit(points [4]math32.Vector3, maxEdge float32) bool {
	for i := 0; i < 4; i++ {
		if points[i].DistanceTo(points[(i+1)%4]) > maxEdge {
			return true
		}
	}
	return false
}

// addSplitQuad splits a long quad into a bilinear sub-grid whose cell
// edges respect Options.MaxEdgeLength; interior edges are invisible.
func (b *Builder) addSplitQuad(points [4]math32.Vector3, normals []math32.Vector3, params []math32.Vector2, vis [4]bool) int {
	mel := b.Options.MaxEdgeLength
	du := math32.Max(points[0].DistanceTo(points[1]), points[3].DistanceTo(points[2]))
	dv := math32.Max(points[0].DistanceTo(points[3]), points[1].DistanceTo(points[2]))
	nu := int(math32.Ceil(du / mel))
	nv := int(math32.Ceil(dv / mel))
	nu = max(nu, 1)
	nv = max(nv, 1)

	qp := params
	if len(qp) != 4 && b.Options.NeedParams {
		qp = []math32.Vector2{math32.Vec2(0, 0), math32.Vec2(1, 0), math32.Vec2(1, 1), math32.Vec2(0, 1)}
	}
	count := 0
	for j := 0; j < nv; j++ {
		v0 := float32(j) / float32(nv)
		v1 := float32(j+1) / float32(nv)
		for i := 0; i < nu; i++ {
			u0 := float32(i) / float32(nu)
			u1 := float32(i+1) / float32(nu)
			sub := [4]math32.Vector3{
				bilinear(points, u0, v0),
				bilinear(points, u1, v0),
				bilinear(points, u1, v1),
				bilinear(points, u0, v1),
			}
			var sn []math32.Vector3
			if len(normals) == 4 {
				sn = []math32.Vector3{
					bilinearV(normals, u0, v0).Normal(),
					bilinearV(normals, u1, v0).Normal(),
					bilinearV(normals, u1, v1).Normal(),
					bilinearV(normals, u0, v1).Normal(),
				}
			}
			var sp []math32.Vector2
			if len(qp) == 4 {
				sp = []math32.Vector2{
					bilinear2(qp, u0, v0),
					bilinear2(qp, u1, v0),
					bilinear2(qp, u1, v1),
					bilinear2(qp, u0, v1),
				}
			}
			// outer boundary keeps the caller's visibility
			sv := [4]bool{
				j == 0 && vis[0],
				i == nu-1 && vis[1],
				j == nv-1 && vis[2],
				i == 0 && vis[3],
			}
			if !b.Options.ShouldTriangulate {
				count += boolToCount(b.emitCoordFacet(sub[:], sn, sp, sv[:]))
				continue
			}
			dAC := sub[0].DistanceToSquared(sub[2])
			dBD := sub[1].DistanceToSquared(sub[3])
			if dAC <= dBD {
				count += boolToCount(b.emitTriangleCoords(sub, sn, sp, [3]int{0, 1, 2}, [3]bool{sv[0], sv[1], false}))
				count += boolToCount(b.emitTriangleCoords(sub, sn, sp, [3]int{0, 2, 3}, [3]bool{false, sv[2], sv[3]}))
			} else {
				count += boolToCount(b.emitTriangleCoords(sub, sn, sp, [3]int{0, 1, 3}, [3]bool{sv[0], false, sv[3]}))
				count += boolToCount(b.emitTriangleCoords(sub, sn, sp, [3]int{1, 2, 3}, [3]bool{sv[1], sv[2], false}))
			}
		}
	}
	return count
}

// AddPolygon appends one facet over the given boundary points (at
// least 3). With Options.ShouldTriangulate, the polygon is fanned
// from its first corner with invisible interior edges; the polygon
// must be convex for the fan to be valid. Returns the number of
// facets emitted.
func (b *Builder) AddPolygon(points []math32.Vector3) int {
	if b.mesh == nil || len(points) < 3 {
		return 0
	}
	if !b.Options.ShouldTriangulate {
		return boolToCount(b.emitCoordFacet(points, nil, nil, nil))
	}
	n := len(points)
	count := 0
	for i := 1; i+1 < n; i++ {
		tri := [3]math32.Vector3{points[0], points[i], points[i+1]}
		if tri[0] == tri[1] || tri[1] == tri[2] || tri[2] == tri[0] {
			continue
		}
		vis := [3]bool{i == 1, true, i+1 == n-1}
		count += boolToCount(b.emitCoordFacet(tri[:], nil, nil, vis[:]))
	}
	return count
}

// AddTriangleFan appends a fan of triangles sharing one apex: the
// apex point plus an n-point polyline produce n-1 triangles, all
// referencing the single apex index. Returns the number of triangles
// emitted.
func (b *Builder) AddTriangleFan(apex math32.Vector3, polyline []math32.Vector3) int {
	if b.mesh == nil || len(polyline) < 2 {
		return 0
	}
	m := b.mesh
	apexIndex := m.AddPoint(apex)
	idx := make([]int, len(polyline))
	for i, p := range polyline {
		idx[i] = m.AddPoint(p)
	}
	count := 0
	for i := 0; i+1 < len(idx); i++ {
		count += boolToCount(b.emitIndexedFacet([]int{apexIndex, idx[i], idx[i+1]}, nil, nil, nil))
	}
	return count
}

// AddFanFromIndices appends a fan of triangles over points already in
// the mesh, sharing the given apex index: used for disk caps over
// pre-existing point batches. Returns the number of triangles
// emitted.
func (b *Builder) AddFanFromIndices(apexIndex int, indices []int) int {
	if b.mesh == nil || len(indices) < 2 {
		return 0
	}
	count := 0
	for i := 0; i+1 < len(indices); i++ {
		count += boolToCount(b.emitIndexedFacet([]int{apexIndex, indices[i], indices[i+1]}, nil, nil, nil))
	}
	return count
}

// emitCoordFacet appends one facet from per-corner coordinate data,
// adding new attribute values without deduplication (clustering
// compaction merges coincidences at claim), applying the reversed
// flag, and terminating the facet. nil normals/params are synthesized
// when the corresponding stream is enabled; nil visible means all
// edges visible.
func (b *Builder) emitCoordFacet(pts []math32.Vector3, normals []math32.Vector3, params []math32.Vector2, visible []bool) bool {
	if b.mesh == nil || len(pts) < 3 {
		return false
	}
	n := len(pts)
	if b.reversed {
		pts = reversedCopy(pts)
		if len(normals) == n {
			normals = reversedCopy(normals)
		}
		if len(params) == n {
			params = reversedCopy(params)
		}
		visible = reversedVisibility(visible, n)
	}
	m := b.mesh
	idx := make([]int, n)
	for i, p := range pts {
		idx[i] = m.AddPoint(p)
	}
	var nIdx, uvIdx []int
	if m.HasNormals() {
		nIdx = b.normalIndexes(pts, normals)
	}
	if m.HasParams() {
		uvIdx = b.paramIndexes(pts, params)
	}
	return b.appendFacet(idx, nIdx, uvIdx, visible)
}

// emitIndexedFacet appends one facet over points already in the mesh.
// A triangle with a repeated corner index is dropped silently, as
// these are routine outputs of legitimate parameterizations. nil
// normal/param indices are synthesized from the referenced
// coordinates when the corresponding stream is enabled.
func (b *Builder) emitIndexedFacet(pidx []int, nIdx, uvIdx []int, visible []bool) bool {
	if b.mesh == nil || len(pidx) < 3 {
		return false
	}
	if len(pidx) == 3 && (pidx[0] == pidx[1] || pidx[1] == pidx[2] || pidx[2] == pidx[0]) {
		return false
	}
	m := b.mesh
	n := len(pidx)
	if b.reversed {
		pidx = reversedCopy(pidx)
		if len(nIdx) == n {
			nIdx = reversedCopy(nIdx)
		}
		if len(uvIdx) == n {
			uvIdx = reversedCopy(uvIdx)
		}
		visible = reversedVisibility(visible, n)
	}
	if m.HasNormals() && len(nIdx) != n {
		nIdx = b.normalIndexes(b.lookupPoints(pidx), nil)
	}
	if m.HasParams() && len(uvIdx) != n {
		uvIdx = b.paramIndexes(b.lookupPoints(pidx), nil)
	}
	return b.appendFacet(pidx, nIdx, uvIdx, visible)
}

// appendFacet writes fully resolved corners and terminates the facet.
// Corner order is final here: reversal has already been applied.
func (b *Builder) appendFacet(pidx, nIdx, uvIdx []int, visible []bool) bool {
	m := b.mesh
	var cIdx int
	if m.HasColors() {
		cIdx = m.AddColor(b.CurrentColor)
	}
	for i, pi := range pidx {
		vis := true
		if visible != nil {
			vis = visible[i]
		}
		m.AddPointIndex(pi, vis)
		if m.HasNormals() {
			m.AddNormalIndex(nIdx[i])
		}
		if m.HasParams() {
			m.AddParamIndex(uvIdx[i])
		}
		if m.HasColors() {
			m.AddColorIndex(cIdx)
		}
	}
	if err := m.TerminateFacet(true); err != nil {
		// the open facet has been rolled back; construction continues
		slog.Error("builder: facet rejected", "err", err)
		return false
	}
	return true
}

// normalIndexes returns per-corner normal indices: the supplied
// normals when given, else one shared planar normal synthesized from
// the corner coordinates in their final winding.
func (b *Builder) normalIndexes(pts []math32.Vector3, normals []math32.Vector3) []int {
	m := b.mesh
	idx := make([]int, len(pts))
	if len(normals) == len(pts) {
		for i, nv := range normals {
			idx[i] = m.AddNormal(nv)
		}
		return idx
	}
	shared := m.AddNormal(newellNormal(pts))
	for i := range idx {
		idx[i] = shared
	}
	return idx
}

// paramIndexes returns per-corner parameter indices: the supplied
// params when given, else a locally orthonormalized planar
// parameterization of the corner coordinates.
func (b *Builder) paramIndexes(pts []math32.Vector3, params []math32.Vector2) []int {
	m := b.mesh
	idx := make([]int, len(pts))
	if len(params) == len(pts) {
		for i, uv := range params {
			idx[i] = m.AddParam(uv)
		}
		return idx
	}
	for i, uv := range planarParams(pts) {
		idx[i] = m.AddParam(uv)
	}
	return idx
}

func (b *Builder) lookupPoints(pidx []int) []math32.Vector3 {
	pts := make([]math32.Vector3, len(pidx))
	for i, pi := range pidx {
		pts[i] = b.mesh.Point[pi]
	}
	return pts
}

// newellNormal returns the Newell-method normal of a polygon,
// robust to slight non-planarity and collinear leading corners.
func newellNormal(pts []math32.Vector3) math32.Vector3 {
	var nv math32.Vector3
	n := len(pts)
	for i := 0; i < n; i++ {
		p := pts[i]
		q := pts[(i+1)%n]
		nv.X += (p.Y - q.Y) * (p.Z + q.Z)
		nv.Y += (p.Z - q.Z) * (p.X + q.X)
		nv.Z += (p.X - q.X) * (p.Y + q.Y)
	}
	lenSq := nv.LengthSquared()
	if lenSq > 0 {
		return nv.MulScalar(1 / math32.Sqrt(lenSq))
	}
	return nv
}

// planarParams projects the corners onto a local orthonormal frame in
// the facet plane: u along the first edge, v perpendicular to it.
func planarParams(pts []math32.Vector3) []math32.Vector2 {
	uv := make([]math32.Vector2, len(pts))
	if len(pts) < 2 {
		return uv
	}
	uAxis := pts[1].Sub(pts[0])
	if uAxis.LengthSquared() == 0 {
		return uv
	}
	uAxis = uAxis.Normal()
	nrm := newellNormal(pts)
	vAxis := nrm.Cross(uAxis)
	for i, p := range pts {
		d := p.Sub(pts[0])
		uv[i] = math32.Vec2(d.Dot(uAxis), d.Dot(vAxis))
	}
	return uv
}

// bilinear evaluates the bilinear patch over quad corners ordered
// (0,0), (1,0), (1,1), (0,1).
func bilinear(p [4]math32.Vector3, u, v float32) math32.Vector3 {
	return p[0].MulScalar((1 - u) * (1 - v)).
		Add(p[1].MulScalar(u * (1 - v))).
		Add(p[2].MulScalar(u * v)).
		Add(p[3].MulScalar((1 - u) * v))
}

func bilinearV(p []math32.Vector3, u, v float32) math32.Vector3 {
	return bilinear([4]math32.Vector3{p[0], p[1], p[2], p[3]}, u, v)
}

func bilinear2(p []math32.Vector2, u, v float32) math32.Vector2 {
	return p[0].MulScalar((1 - u) * (1 - v)).
		Add(p[1].MulScalar(u * (1 - v))).
		Add(p[2].MulScalar(u * v)).
		Add(p[3].MulScalar((1 - u) * v))
}

func reversedCopy[T any](s []T) []T {
	n := len(s)
	r := make([]T, n)
	for i := range s {
		r[n-1-i] = s[i]
	}
	return r
}

// reversedVisibility remaps per-corner edge flags onto the reversed
// winding so each geometric edge keeps its visibility.
func reversedVisibility(visible []bool, n int) []bool {
	if visible == nil {
		return nil
	}
	r := make([]bool, n)
	for i := 0; i < n-1; i++ {
		r[i] = visible[n-2-i]
	}
	r[n-1] = visible[n-1]
	return r
}

func boolToCount(ok bool) int {
	if ok {
		return 1
	}
	return 0
}
