// Copyright 2024 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package mesh

import (
	"github.com/SkirbyTestOrg/itwinjs-core-sub001/math32"
)

// FaceRange describes one caller-delimited face: a group of
// consecutive facets sharing one texture parameter range, plus an
// estimated distance-equivalent range used to convert normalized
// parameters into approximate arc-length parameters.
type FaceRange struct {

	// ParamRange is the 2D texture parameter extent of the face.
	ParamRange math32.Box2

	// ParamDistanceRange is the estimated distance-equivalent extent,
	// derived by sampling triangle edge ratios. It intentionally
	// over-estimates: under-tiling textures is visually worse than
	// slight over-tiling.
	ParamDistanceRange math32.Box2
}

// ConvertParamToDistance converts a parameter within ParamRange to
// the distance-equivalent parameterization. Returns false if the
// parameter range is degenerate.
func (fr *FaceRange) ConvertParamToDistance(param math32.Vector2) (math32.Vector2, bool) {
	psz := fr.ParamRange.Size()
	if psz.X <= 0 || psz.Y <= 0 {
		return math32.Vector2{}, false
	}
	dsz := fr.ParamDistanceRange.Size()
	return math32.Vec2(
		fr.ParamDistanceRange.Min.X+(param.X-fr.ParamRange.Min.X)*dsz.X/psz.X,
		fr.ParamDistanceRange.Min.Y+(param.Y-fr.ParamRange.Min.Y)*dsz.Y/psz.Y,
	), true
}

// ConvertParamToNormalized converts a parameter within ParamRange to
// the [0, 1] normalized parameterization. Returns false if the
// parameter range is degenerate.
func (fr *FaceRange) ConvertParamToNormalized(param math32.Vector2) (math32.Vector2, bool) {
	psz := fr.ParamRange.Size()
	if psz.X <= 0 || psz.Y <= 0 {
		return math32.Vector2{}, false
	}
	return math32.Vec2(
		(param.X-fr.ParamRange.Min.X)/psz.X,
		(param.Y-fr.ParamRange.Min.Y)/psz.Y,
	), true
}

// EndFace closes a face over all facets terminated since the last
// EndFace call, deriving its parameter and distance ranges, and
// returns whether any facets were grouped. The distance range samples
// consecutive-corner dS = |Δxyz| / |Δuv| within the face's facets and
// applies the mean plus one standard deviation as a safety margin.
func (m *Mesh) EndFace() bool {
	start := len(m.facetToFace)
	end := m.NumFacets()
	if end <= start {
		return false
	}

	fr := FaceRange{ParamRange: math32.B2Empty(), ParamDistanceRange: math32.B2Empty()}
	var dsSum, dsSumSq float32
	dsCount := 0

	for k := start; k < end; k++ {
		s, e, _ := m.FacetBounds(k)
		if m.Param == nil {
			continue
		}
		for i := s; i < e; i++ {
			uv := m.Param.Values[m.Param.Index[i]]
			fr.ParamRange.ExpandByPoint(uv)
			if i > s {
				prevUV := m.Param.Values[m.Param.Index[i-1]]
				dUV := uv.DistanceTo(prevUV)
				if dUV > 0 {
					dXYZ := m.Point[m.PointIndex[i]].DistanceTo(m.Point[m.PointIndex[i-1]])
					ds := dXYZ / dUV
					dsSum += ds
					dsSumSq += ds * ds
					dsCount++
				}
			}
		}
	}

	if dsCount > 0 && !fr.ParamRange.IsEmpty() {
		mean := dsSum / float32(dsCount)
		variance := math32.Max(0, dsSumSq/float32(dsCount)-mean*mean)
		ds := mean + math32.Sqrt(variance)
		psz := fr.ParamRange.Size()
		fr.ParamDistanceRange = math32.B2(0, 0, psz.X*ds, psz.Y*ds)
	}

	m.Faces = append(m.Faces, fr)
	face := len(m.Faces) - 1
	for k := start; k < end; k++ {
		m.facetToFace = append(m.facetToFace, face)
	}
	return true
}
