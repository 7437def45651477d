// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package builder

import (
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// MiteredSection is one circular pipe cross-section frame: a center
// plus two radius-scaled axes spanning the section plane. Sections at
// interior centerline points are tilted into the bisector plane of
// the two adjacent segments, so corresponding-fraction points on
// consecutive sections lie on straight mitered walls.
type MiteredSection struct {
	Center math32.Vector3
	AxisU  math32.Vector3
	AxisV  math32.Vector3
}

// Stroke samples the section as a closed loop of n strokes: n+1
// points with the last duplicating the first. V tags the rail for
// parameter synthesis.
func (ms *MiteredSection) Stroke(n int, v float32) *Strokes {
	s := &Strokes{V: v}
	s.Point = make([]math32.Vector3, n+1)
	s.Fraction = make([]float32, n+1)
	for i := 0; i < n; i++ {
		theta := 2 * math32.Pi * float32(i) / float32(n)
		s.Point[i] = ms.Center.
			Add(ms.AxisU.MulScalar(math32.Cos(theta))).
			Add(ms.AxisV.MulScalar(math32.Sin(theta)))
		s.Fraction[i] = float32(i) / float32(n)
	}
	s.Point[n] = s.Point[0]
	s.Fraction[n] = 1
	return s
}

// MiteredPipeSections returns one section frame per centerline point
// for a pipe of the given radius. The first section is perpendicular
// to the first segment; each interior section is obtained by sliding
// the previous section's center and axis endpoints, parallel to the
// incoming tangent, until they lie in the local bisector plane — one
// linear equation in the slide distance per point; the last section
// is perpendicular to the last segment. Returns nil for fewer than
// two distinct centerline points or a non-positive radius.
func MiteredPipeSections(centerline []math32.Vector3, radius float32) []MiteredSection {
	if len(centerline) < 2 || radius <= 0 {
		return nil
	}
	t0 := centerline[1].Sub(centerline[0])
	if t0.LengthSquared() == 0 {
		return nil
	}
	t0 = t0.Normal()
	uAxis := t0.Perpendicular().MulScalar(radius)
	vAxis := t0.Cross(uAxis.Normal()).MulScalar(radius)

	sections := make([]MiteredSection, len(centerline))
	sections[0] = MiteredSection{Center: centerline[0], AxisU: uAxis, AxisV: vAxis}

	for i := 1; i < len(centerline); i++ {
		tIn := centerline[i].Sub(centerline[i-1])
		if tIn.LengthSquared() == 0 {
			sections[i] = sections[i-1]
			continue
		}
		tIn = tIn.Normal()
		// plane normal: bisector of adjacent tangents at interior
		// points, the incoming tangent at the end
		bn := tIn
		if i+1 < len(centerline) {
			tOut := centerline[i+1].Sub(centerline[i])
			if tOut.LengthSquared() > 0 {
				bis := tIn.Add(tOut.Normal())
				if bis.LengthSquared() > 1e-12 {
					bn = bis.Normal()
				}
			}
		}
		denom := tIn.Dot(bn)
		if math32.Abs(denom) < 1e-8 {
			bn = tIn
			denom = 1
		}
		prev := sections[i-1]
		slide := func(q math32.Vector3) math32.Vector3 {
			s := centerline[i].Sub(q).Dot(bn) / denom
			return q.Add(tIn.MulScalar(s))
		}
		center := slide(prev.Center)
		sections[i] = MiteredSection{
			Center: center,
			AxisU:  slide(prev.Center.Add(prev.AxisU)).Sub(center),
			AxisV:  slide(prev.Center.Add(prev.AxisV)).Sub(center),
		}
	}
	return sections
}

// AddMiteredPipe sweeps a circular pipe of the given radius along the
// centerline, stitching mitered sections band by band, and caps both
// ends when capped is set. The stroke count comes from
// Options.DefaultCircleStrokes, floored by MinStrokesPerPrimitive.
// Returns whether any walls were emitted.
func (b *Builder) AddMiteredPipe(centerline []math32.Vector3, radius float32, capped bool) bool {
	if b.mesh == nil {
		return false
	}
	sections := MiteredPipeSections(centerline, radius)
	if len(sections) < 2 {
		return false
	}
	n := max(b.Options.DefaultCircleStrokes, b.Options.MinStrokesPerPrimitive)
	if n < 3 {
		n = 3
	}
	last := len(sections) - 1
	prev := sections[0].Stroke(n, 0)
	for i := 1; i < len(sections); i++ {
		curr := sections[i].Stroke(n, float32(i)/float32(last))
		b.AddBetweenStrokes(prev, curr)
		prev = curr
	}
	if capped {
		b.addRuledCaps(sections[0].Stroke(n, 0), prev)
	}
	b.mesh.EndFace()
	return true
}
