// Copyright 2021 Cogent Core. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package math32

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const standardTol = float64(1.0e-6)

func tolAssertEqualVector3(t *testing.T, tol float64, vt, va Vector3) {
	t.Helper()
	assert.InDelta(t, float64(vt.X), float64(va.X), tol)
	assert.InDelta(t, float64(vt.Y), float64(va.Y), tol)
	assert.InDelta(t, float64(vt.Z), float64(va.Z), tol)
}

func TestVector3(t *testing.T) {
	v := Vec3(1, 2, 3)
	assert.Equal(t, Vec3(2, 4, 6), v.Add(v))
	assert.Equal(t, Vec3(0, 0, 0), v.Sub(v))
	assert.Equal(t, Vec3(2, 4, 6), v.MulScalar(2))
	assert.Equal(t, Vec3(-1, -2, -3), v.Negate())
	assert.Equal(t, float32(14), v.Dot(v))
	assert.Equal(t, float32(14), v.LengthSquared())

	assert.Equal(t, Vec3(0, 0, 1), Vec3(1, 0, 0).Cross(Vec3(0, 1, 0)))
	assert.Equal(t, float32(1), Vec3(3, 4, 0).Normal().Length())

	assert.Equal(t, Vec3(1, 1, 1), Vec3(0, 0, 0).Lerp(Vec3(2, 2, 2), 0.5))
	assert.Equal(t, float32(5), Vec3(3, 4, 0).DistanceTo(Vec3(0, 0, 0)))
}

func TestVector3Perpendicular(t *testing.T) {
	dirs := []Vector3{
		Vec3(1, 0, 0), Vec3(0, 1, 0), Vec3(0, 0, 1),
		Vec3(1, 1, 1), Vec3(-2, 0.5, 3), Vec3(0, -4, 0.1),
	}
	for _, d := range dirs {
		p := d.Perpendicular()
		assert.InDelta(t, 0, float64(p.Dot(d)), standardTol)
		assert.InDelta(t, 1, float64(p.Length()), standardTol)
	}
}

func TestTriangleNormal(t *testing.T) {
	n := Normal(Vec3(0, 0, 0), Vec3(1, 0, 0), Vec3(0, 1, 0))
	assert.Equal(t, Vec3(0, 0, 1), n)

	// reversed winding flips the normal
	n = Normal(Vec3(0, 0, 0), Vec3(0, 1, 0), Vec3(1, 0, 0))
	assert.Equal(t, Vec3(0, 0, -1), n)

	// degenerate
	n = Normal(Vec3(1, 1, 1), Vec3(1, 1, 1), Vec3(2, 2, 2))
	assert.Equal(t, Vector3{}, n)
}

func TestMatrix4(t *testing.T) {
	id := Identity4()
	v := Vec3(1, 2, 3)
	assert.Equal(t, v, v.MulMatrix4AsPoint(id))
	assert.Equal(t, v, v.MulMatrix4AsVector(id))
	assert.Equal(t, float32(1), id.Determinant())

	var tr Matrix4
	tr.SetTranslation(1, 2, 3)
	assert.Equal(t, Vec3(1, 2, 3), Vec3(0, 0, 0).MulMatrix4AsPoint(&tr))
	assert.Equal(t, Vec3(1, 0, 0), Vec3(1, 0, 0).MulMatrix4AsVector(&tr))

	var sc Matrix4
	sc.SetScale(2, 3, 4)
	assert.Equal(t, Vec3(2, 6, 12), v.MulMatrix4AsPoint(&sc))
	assert.Equal(t, float32(24), sc.Determinant())

	var mirror Matrix4
	mirror.SetScale(-1, 1, 1)
	assert.Equal(t, float32(-1), mirror.Determinant())

	inv, err := sc.Inverse()
	assert.NoError(t, err)
	tolAssertEqualVector3(t, standardTol, v, v.MulMatrix4AsPoint(&sc).MulMatrix4AsPoint(inv))

	var rot Matrix4
	rot.SetRotationAxis(Vec3(0, 0, 1), Pi/2)
	tolAssertEqualVector3(t, standardTol, Vec3(0, 1, 0), Vec3(1, 0, 0).MulMatrix4AsPoint(&rot))
	assert.InDelta(t, 1, float64(rot.Determinant()), standardTol)

	// rotation normal matrix is the rotation itself
	nm, err := rot.NormalMatrix()
	assert.NoError(t, err)
	tolAssertEqualVector3(t, standardTol, Vec3(0, 1, 0), Vec3(1, 0, 0).MulMatrix4AsVector(nm))

	var zero Matrix4
	zero.SetZero()
	_, err = zero.Inverse()
	assert.Error(t, err)
}

func TestBox3(t *testing.T) {
	b := B3Empty()
	assert.True(t, b.IsEmpty())
	b.ExpandByPoint(Vec3(1, 2, 3))
	b.ExpandByPoint(Vec3(-1, 0, 5))
	assert.False(t, b.IsEmpty())
	assert.Equal(t, Vec3(-1, 0, 3), b.Min)
	assert.Equal(t, Vec3(1, 2, 5), b.Max)
	assert.Equal(t, Vec3(2, 2, 2), b.Size())
	assert.True(t, b.ContainsPoint(Vec3(0, 1, 4)))
	assert.False(t, b.ContainsPoint(Vec3(0, 1, 6)))
}
