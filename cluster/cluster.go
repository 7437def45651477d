// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package cluster merges coordinate-duplicate points using a
// tolerance-based spatial sort, producing a compacted point array and
// an old-to-new index permutation for rewriting mesh indices.
package cluster

import (
	"sort"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// DefaultTolerance is the point-merge tolerance used when the caller
// has no better scale information.
const DefaultTolerance = 1.0e-6

// sortDirection is a fixed direction with irrational-looking
// components, so that axis-aligned point grids do not produce long
// runs of equal sort keys.
var sortDirection = math32.Vec3(0.8573, 0.3127, 0.4111).Normal()

// Compact returns a packed copy of points in which every group of
// points within tol of a representative collapses to that single
// representative, plus the old-to-new index mapping. Points are keyed
// by their projection on a fixed direction and sorted, so only a
// bounded window of key-neighbors is distance-tested. With a zero
// tolerance, only exactly coincident points merge; already-distinct
// points map to themselves.
func Compact(points []math32.Vector3, tol float32) ([]math32.Vector3, []int) {
	n := len(points)
	oldToNew := make([]int, n)
	if n == 0 {
		return nil, oldToNew
	}
	if tol < 0 {
		tol = 0
	}

	key := make([]float32, n)
	order := make([]int, n)
	for i, p := range points {
		key[i] = p.Dot(sortDirection)
		order[i] = i
	}
	sort.Slice(order, func(a, b int) bool {
		return key[order[a]] < key[order[b]]
	})

	packed := make([]math32.Vector3, 0, n)
	assigned := make([]bool, n)
	for a := 0; a < n; a++ {
		i := order[a]
		if assigned[i] {
			continue
		}
		rep := len(packed)
		packed = append(packed, points[i])
		oldToNew[i] = rep
		assigned[i] = true

		// two points within tol project within tol of each other,
		// so the key window is sufficient
		for b := a + 1; b < n && key[order[b]]-key[i] <= tol; b++ {
			j := order[b]
			if assigned[j] {
				continue
			}
			if points[i].DistanceTo(points[j]) <= tol {
				oldToNew[j] = rep
				assigned[j] = true
			}
		}
	}
	return packed, oldToNew
}
