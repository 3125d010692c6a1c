package mathx

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func assertMat3Near(t *testing.T, want, got Mat3, tol float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "element %d", i)
	}
}

func assertVec3Near(t *testing.T, want, got Vec3, tol float64) {
	t.Helper()
	for i := range want {
		assert.InDelta(t, want[i], got[i], tol, "component %d", i)
	}
}

func TestMat3Inverse(t *testing.T) {
	tests := []struct {
		name string
		m    Mat3
	}{
		{"identity", Mat3Identity()},
		{"rotation", RotY(0.7)},
		{"scaled rotation", Mat3Mul(RotZ(-1.2), Mat3Diag(2, 3, 0.5))},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertMat3Near(t, Mat3Identity(), Mat3Mul(tt.m, tt.m.Inverse()), 1e-12)
		})
	}
}

func TestMat4AffineInverse(t *testing.T) {
	m := ComposeTRS(Vec3{10, -4, 2.5}, EulerZXY(0.3, -1.1, 2.0), Vec3{2, 2, 2})
	assert.True(t, Mat4Mul(m, m.AffineInverse()).IsIdentity())
}

func TestDecomposeRoundTrip(t *testing.T) {
	tests := []struct {
		name string
		t    Vec3
		r    Mat3
		s    Vec3
	}{
		{"identity", Vec3{}, Mat3Identity(), Vec3{1, 1, 1}},
		{"translation only", Vec3{1, 2, 3}, Mat3Identity(), Vec3{1, 1, 1}},
		{"rotation and scale", Vec3{-5, 0, 12}, EulerZXY(0.4, 1.3, -0.9), Vec3{2, 0.5, 3}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			gt, gr, gs := ComposeTRS(tt.t, tt.r, tt.s).Decompose()
			assertVec3Near(t, tt.t, gt, 1e-12)
			assertVec3Near(t, tt.s, gs, 1e-12)
			assertMat3Near(t, tt.r, gr, 1e-12)
		})
	}
}

func TestDecomposeNegativeDeterminant(t *testing.T) {
	m := ComposeTRS(Vec3{}, Mat3Identity(), Vec3{-1, 1, 1})
	_, r, s := m.Decompose()
	assert.InDelta(t, -1, s[0], 1e-12)
	// Rotation stays proper
	assert.InDelta(t, 1, r.Det(), 1e-12)
}

func TestEulerToQuatMatchesMatrix(t *testing.T) {
	// Rx·then·Ry·then·Rz applied in XYZ order equals the quaternion build.
	rx, ry, rz := 0.25, -0.5, 1.75
	fromQuat := QuatToMat3(EulerToQuat(rx, ry, rz))
	direct := Mat3Mul(RotZ(rz), Mat3Mul(RotY(ry), RotX(rx)))
	assertMat3Near(t, direct, fromQuat, 1e-12)
}

func TestEulerXYZFromMat3RoundTrip(t *testing.T) {
	tests := []struct {
		name       string
		rx, ry, rz float64
	}{
		{"zero", 0, 0, 0},
		{"generic", 0.25, -0.5, 1.75},
		{"large angles", -2.8, 1.2, 3.0},
		{"pole up", 0.4, math.Pi / 2, 0.9},
		{"pole down", -1.1, -math.Pi / 2, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := QuatToMat3(EulerToQuat(tt.rx, tt.ry, tt.rz))
			a := EulerXYZFromMat3(m)
			rebuilt := QuatToMat3(EulerToQuat(a[0], a[1], a[2]))
			assertMat3Near(t, m, rebuilt, 1e-9)
		})
	}
}

func TestSlerp(t *testing.T) {
	a := EulerToQuat(0, 0, 0)
	b := EulerToQuat(0, math.Pi/2, 0)

	assert.Equal(t, a, Slerp(a, b, 0))
	assert.Equal(t, b, Slerp(a, b, 1))

	mid := Slerp(a, b, 0.5)
	want := EulerToQuat(0, math.Pi/4, 0)
	for i := range want {
		assert.InDelta(t, want[i], mid[i], 1e-12)
	}
}

func TestSlerpShortArc(t *testing.T) {
	a := EulerToQuat(0, 0.1, 0)
	b := EulerToQuat(0, -0.1, 0)
	neg := Quat{-b[0], -b[1], -b[2], -b[3]} // same rotation, opposite sign

	m1 := QuatToMat3(Slerp(a, b, 0.5))
	m2 := QuatToMat3(Slerp(a, neg, 0.5))
	assertMat3Near(t, m1, m2, 1e-9)
}

func TestVec3Helpers(t *testing.T) {
	require.True(t, Vec3{1, 2, 3}.IsFinite())
	assert.False(t, Vec3{math.NaN(), 0, 0}.IsFinite())
	assert.False(t, Vec3{0, math.Inf(1), 0}.IsFinite())

	assertVec3Near(t, Vec3{1, 1, 1}, Vec3{0, 0, 0}.Lerp(Vec3{2, 2, 2}, 0.5), 1e-12)
}
