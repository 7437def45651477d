// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"fmt"

	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// Data is the attribute store of an indexed mesh: the required point
// stream with its per-corner indices and edge visibility flags, plus
// the optional normal, texture parameter, and color streams. All
// present index arrays are parallel: entry i of each describes the
// same corner. Data is only mutated through the append methods of the
// owning [Mesh]; consumers read it through a [Cursor].
type Data struct {

	// Point is the 3D coordinate data.
	Point []math32.Vector3

	// PointIndex has one entry per corner, addressing Point.
	PointIndex []int

	// EdgeVisible has one entry per corner: whether the edge
	// following that corner is a rendered, visible edge.
	EdgeVisible []bool

	// Normal is the optional normal vector stream; nil when absent.
	Normal *Channel[math32.Vector3]

	// Param is the optional texture parameter stream; nil when absent.
	Param *Channel[math32.Vector2]

	// Color is the optional per-vertex color stream; nil when absent.
	Color *Channel[uint32]
}

// NewData returns a new empty [Data] with the requested optional
// streams allocated.
func NewData(needNormals, needParams, needColors bool) *Data {
	d := &Data{}
	if needNormals {
		d.Normal = NewChannel[math32.Vector3]()
	}
	if needParams {
		d.Param = NewChannel[math32.Vector2]()
	}
	if needColors {
		d.Color = NewChannel[uint32]()
	}
	return d
}

// HasNormals returns whether the normal stream is present.
func (d *Data) HasNormals() bool { return d.Normal != nil }

// HasParams returns whether the texture parameter stream is present.
func (d *Data) HasParams() bool { return d.Param != nil }

// HasColors returns whether the color stream is present.
func (d *Data) HasColors() bool { return d.Color != nil }

// NumPoints returns the number of points in the coordinate data.
func (d *Data) NumPoints() int { return len(d.Point) }

// NumCorners returns the total number of corners across all facets,
// including any not yet terminated.
func (d *Data) NumCorners() int { return len(d.PointIndex) }

// AddPoint appends the given point and returns its index.
// No deduplication is performed; coincident points are merged
// later by clustering compaction.
func (d *Data) AddPoint(p math32.Vector3) int {
	d.Point = append(d.Point, p)
	return len(d.Point) - 1
}

// AddNormal appends the given normal and returns its index,
// or -1 if the normal stream is absent.
func (d *Data) AddNormal(n math32.Vector3) int {
	if d.Normal == nil {
		return -1
	}
	return d.Normal.Add(n)
}

// AddParam appends the given texture parameter and returns its index,
// or -1 if the parameter stream is absent.
func (d *Data) AddParam(p math32.Vector2) int {
	if d.Param == nil {
		return -1
	}
	return d.Param.Add(p)
}

// AddColor appends the given color and returns its index,
// or -1 if the color stream is absent.
func (d *Data) AddColor(c uint32) int {
	if d.Color == nil {
		return -1
	}
	return d.Color.Add(c)
}

// AddPointIndex appends a corner addressing the given point, with the
// given visibility for the edge that follows it. The corner becomes
// part of the open facet; it is range checked at facet termination.
func (d *Data) AddPointIndex(index int, visible bool) {
	d.PointIndex = append(d.PointIndex, index)
	d.EdgeVisible = append(d.EdgeVisible, visible)
}

// AddNormalIndex appends a corner normal index. No-op if the
// normal stream is absent.
func (d *Data) AddNormalIndex(index int) {
	if d.Normal != nil {
		d.Normal.AddIndex(index)
	}
}

// AddParamIndex appends a corner parameter index. No-op if the
// parameter stream is absent.
func (d *Data) AddParamIndex(index int) {
	if d.Param != nil {
		d.Param.AddIndex(index)
	}
}

// AddColorIndex appends a corner color index. No-op if the
// color stream is absent.
func (d *Data) AddColorIndex(index int) {
	if d.Color != nil {
		d.Color.AddIndex(index)
	}
}

// dataMark records the length of every array at a known-valid
// boundary, for rollback of a failed facet.
type dataMark struct {
	points       int
	corners      int
	normals      int
	normalIndex  int
	params       int
	paramIndex   int
	colors       int
	colorIndex   int
}

func (d *Data) mark() dataMark {
	return dataMark{
		points:      len(d.Point),
		corners:     len(d.PointIndex),
		normals:     d.Normal.NumValues(),
		normalIndex: d.Normal.NumIndexes(),
		params:      d.Param.NumValues(),
		paramIndex:  d.Param.NumIndexes(),
		colors:      d.Color.NumValues(),
		colorIndex:  d.Color.NumIndexes(),
	}
}

// truncate rolls every array back to the given mark, discarding all
// attribute values and corners appended since. Nothing of the failed
// facet remains visible afterward.
func (d *Data) truncate(mk dataMark) {
	d.Point = d.Point[:mk.points]
	d.PointIndex = d.PointIndex[:mk.corners]
	d.EdgeVisible = d.EdgeVisible[:mk.corners]
	if d.Normal != nil {
		d.Normal.Truncate(mk.normals, mk.normalIndex)
	}
	if d.Param != nil {
		d.Param.Truncate(mk.params, mk.paramIndex)
	}
	if d.Color != nil {
		d.Color.Truncate(mk.colors, mk.colorIndex)
	}
}

// IsValid audits the full store: every present index array must have
// exactly the same length as PointIndex, and every index value must
// address a valid position in its data array.
func (d *Data) IsValid() error {
	nc := len(d.PointIndex)
	if len(d.EdgeVisible) != nc {
		return fmt.Errorf("mesh: edge visibility length %d != corner count %d", len(d.EdgeVisible), nc)
	}
	for i, pi := range d.PointIndex {
		if pi < 0 || pi >= len(d.Point) {
			return fmt.Errorf("mesh: point index %d at corner %d out of range [0, %d)", pi, i, len(d.Point))
		}
	}
	if d.Normal != nil {
		if d.Normal.NumIndexes() != nc {
			return fmt.Errorf("mesh: normal index length %d != corner count %d", d.Normal.NumIndexes(), nc)
		}
		if err := d.Normal.CheckIndexes("normal", 0); err != nil {
			return err
		}
	}
	if d.Param != nil {
		if d.Param.NumIndexes() != nc {
			return fmt.Errorf("mesh: param index length %d != corner count %d", d.Param.NumIndexes(), nc)
		}
		if err := d.Param.CheckIndexes("param", 0); err != nil {
			return err
		}
	}
	if d.Color != nil {
		if d.Color.NumIndexes() != nc {
			return fmt.Errorf("mesh: color index length %d != corner count %d", d.Color.NumIndexes(), nc)
		}
		if err := d.Color.CheckIndexes("color", 0); err != nil {
			return err
		}
	}
	return nil
}

// Range returns the bounding box of the coordinate data.
func (d *Data) Range() math32.Box3 {
	bb := math32.B3Empty()
	for _, p := range d.Point {
		bb.ExpandByPoint(p)
	}
	return bb
}

// TransformPoints applies the given transform to every point.
func (d *Data) TransformPoints(m *math32.Matrix4) {
	for i := range d.Point {
		d.Point[i] = d.Point[i].MulMatrix4AsPoint(m)
	}
}

// TransformNormals applies the given normal matrix (inverse transpose
// of the point transform) to every normal, renormalizing each.
func (d *Data) TransformNormals(nm *math32.Matrix4) {
	if d.Normal == nil {
		return
	}
	for i := range d.Normal.Values {
		d.Normal.Values[i] = d.Normal.Values[i].MulMatrix4AsVector(nm).Normal()
	}
}

// NegateNormals reverses the direction of every normal.
func (d *Data) NegateNormals() {
	if d.Normal == nil {
		return
	}
	for i := range d.Normal.Values {
		d.Normal.Values[i] = d.Normal.Values[i].Negate()
	}
}
