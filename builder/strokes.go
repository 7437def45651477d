// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// Strokes is the sampled output of an external curve evaluator: an
// ordered point sequence with optional parallel per-point data. Any
// optional slice is either empty or exactly as long as Point. V is a
// per-rail scalar tag (for example the sweep fraction of a ruled
// surface cross-section) carried through to synthesized parameters.
type Strokes struct {

	// Point is the ordered stroke point sequence.
	Point []math32.Vector3

	// Fraction is the optional per-point curve fraction in [0, 1].
	Fraction []float32

	// Param is the optional per-point 2D parameter.
	Param []math32.Vector2

	// Tangent is the optional per-point curve tangent.
	Tangent []math32.Vector3

	// Normal is the optional per-point surface normal.
	Normal []math32.Vector3

	// V is the rail scalar tag for this stroke set.
	V float32
}

// NumPoints returns the number of stroke points.
func (s *Strokes) NumPoints() int {
	return len(s.Point)
}

// Points returns the stroke point sequence.
func (s *Strokes) Points() []math32.Vector3 {
	return s.Point
}

// IsClosed returns whether the first and last points coincide.
func (s *Strokes) IsClosed() bool {
	n := len(s.Point)
	return n > 2 && s.Point[0] == s.Point[n-1]
}

// FractionAt returns the curve fraction of point i: the stored
// fraction if present, uniform spacing otherwise.
func (s *Strokes) FractionAt(i int) float32 {
	if i < len(s.Fraction) {
		return s.Fraction[i]
	}
	n := len(s.Point)
	if n < 2 {
		return 0
	}
	return float32(i) / float32(n-1)
}

// Restroker is the external compatibility pass for stitching
// cross-sections with differing stroke counts.
type Restroker interface {

	// MakeCompatible re-strokes every section to a common corner
	// count, returning the re-stroked sections and whether
	// compatibility could be achieved.
	MakeCompatible(sections []*Strokes) ([]*Strokes, bool)
}
