// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package mesh implements the indexed polygon mesh at the center of
// the geometry library: parallel attribute streams (points, normals,
// texture params, colors) addressed by per-corner index arrays, a
// facet boundary table, per-face texture parameter ranges, and a
// re-seekable facet cursor for reading finished meshes.
package mesh

import "fmt"

// Channel is one optional attribute stream of the mesh: the attribute
// values plus the per-corner indices into them. Keeping both halves in
// one aggregate makes presence all-or-nothing by construction: a nil
// *Channel is an absent stream, a non-nil one is present, and there is
// no way for the value and index arrays to disagree about existence.
type Channel[T any] struct {

	// Values holds the attribute data, addressed by Index entries.
	Values []T

	// Index holds one entry per mesh corner, parallel to the
	// mesh point index array.
	Index []int
}

// NewChannel returns a new empty [Channel].
func NewChannel[T any]() *Channel[T] {
	return &Channel[T]{}
}

// Add appends the given value and returns its index.
// No deduplication is performed.
func (ch *Channel[T]) Add(v T) int {
	ch.Values = append(ch.Values, v)
	return len(ch.Values) - 1
}

// AddIndex appends the given value index as the next corner.
// The index is not range checked here; that happens at facet
// termination so that an entire invalid facet can be rolled back.
func (ch *Channel[T]) AddIndex(i int) {
	ch.Index = append(ch.Index, i)
}

// NumValues returns the number of attribute values.
func (ch *Channel[T]) NumValues() int {
	if ch == nil {
		return 0
	}
	return len(ch.Values)
}

// NumIndexes returns the number of corner indices.
func (ch *Channel[T]) NumIndexes() int {
	if ch == nil {
		return 0
	}
	return len(ch.Index)
}

// Truncate discards values and indices beyond the given counts.
func (ch *Channel[T]) Truncate(numValues, numIndexes int) {
	ch.Values = ch.Values[:numValues]
	ch.Index = ch.Index[:numIndexes]
}

// CheckIndexes verifies that every corner index from the given
// position onward addresses a valid value, returning a descriptive
// error for the first violation.
func (ch *Channel[T]) CheckIndexes(name string, from int) error {
	for i := from; i < len(ch.Index); i++ {
		if ch.Index[i] < 0 || ch.Index[i] >= len(ch.Values) {
			return fmt.Errorf("mesh: %s index %d at corner %d out of range [0, %d)", name, ch.Index[i], i, len(ch.Values))
		}
	}
	return nil
}
