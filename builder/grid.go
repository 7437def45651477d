// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// Surface is the external parametric surface collaborator,
// parameterized over u, v in [0, 1].
type Surface interface {

	// PointAt returns the surface point at (u, v).
	PointAt(u, v float32) math32.Vector3

	// PointAndTangentsAt returns the surface point at (u, v) plus the
	// partial derivative directions along u and v.
	PointAndTangentsAt(u, v float32) (origin, dU, dV math32.Vector3)
}

// gridRow holds one v-row of evaluated grid indices, double-buffered
// between bands so each grid point is looked up exactly once.
type gridRow struct {
	point  []int
	normal []int
	param  []int
}

// AddUVGrid surfaces the given parametric surface with a
// (numU+1) x (numV+1) point grid, stitching each row ring to the
// previous with numU quads, and closes the whole grid as one face
// range. Normals come from the surface tangents and params are the
// (u, v) grid fractions, when those streams are enabled. Returns the
// number of facets emitted.
func (b *Builder) AddUVGrid(surf Surface, numU, numV int) int {
	if b.mesh == nil || surf == nil || numU < 1 || numV < 1 {
		return 0
	}
	prev := &gridRow{}
	curr := &gridRow{}
	count := 0
	for j := 0; j <= numV; j++ {
		v := float32(j) / float32(numV)
		b.evalGridRow(surf, curr, v, numU)
		if j > 0 {
			for i := 0; i < numU; i++ {
				pidx := [4]int{prev.point[i], prev.point[i+1], curr.point[i+1], curr.point[i]}
				var nIdx, uvIdx []int
				if prev.normal != nil {
					nIdx = []int{prev.normal[i], prev.normal[i+1], curr.normal[i+1], curr.normal[i]}
				}
				if prev.param != nil {
					uvIdx = []int{prev.param[i], prev.param[i+1], curr.param[i+1], curr.param[i]}
				}
				count += b.emitIndexedQuad(pidx, nIdx, uvIdx, [4]bool{j == 1, i == numU-1, j == numV, i == 0})
			}
		}
		prev, curr = curr, prev
	}
	b.mesh.EndFace()
	return count
}

// evalGridRow fills one row ring of grid indices at the given v.
func (b *Builder) evalGridRow(surf Surface, row *gridRow, v float32, numU int) {
	m := b.mesh
	row.point = resizeInts(row.point, numU+1)
	if m.HasNormals() {
		row.normal = resizeInts(row.normal, numU+1)
	} else {
		row.normal = nil
	}
	if m.HasParams() {
		row.param = resizeInts(row.param, numU+1)
	} else {
		row.param = nil
	}
	for i := 0; i <= numU; i++ {
		u := float32(i) / float32(numU)
		if row.normal != nil {
			origin, dU, dV := surf.PointAndTangentsAt(u, v)
			row.point[i] = m.AddPoint(origin)
			nrm := dU.Cross(dV).Normal()
			if b.reversed {
				nrm = nrm.Negate()
			}
			row.normal[i] = m.AddNormal(nrm)
		} else {
			row.point[i] = m.AddPoint(surf.PointAt(u, v))
		}
		if row.param != nil {
			row.param[i] = m.AddParam(math32.Vec2(u, v))
		}
	}
}

func resizeInts(s []int, n int) []int {
	if cap(s) < n {
		return make([]int, n)
	}
	return s[:n]
}
