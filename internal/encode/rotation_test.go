package encode

import (
	"math"
	"testing"

	"github.com/minin64/objexport/pkg/mathx"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func s16ToRad(v int16) float64 {
	return float64(v) * math.Pi / 32768
}

func TestRadToS16(t *testing.T) {
	tests := []struct {
		name  string
		angle float64
		want  int16
	}{
		{"zero", 0, 0},
		{"quarter turn", math.Pi / 2, 0x4000},
		{"negative quarter turn", -math.Pi / 2, -0x4000},
		{"45 degrees", math.Pi / 4, 0x2000},
		{"half turn wraps to minimum", math.Pi, -32768},
		{"negative half turn", -math.Pi, -32768},
		{"full turn", 2 * math.Pi, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RadToS16(tt.angle))
		})
	}
}

func TestRotationZero(t *testing.T) {
	got, err := Rotation(mathx.Mat3Identity())
	require.NoError(t, err)
	assert.Equal(t, S16Angles{0, 0, 0}, got)
}

func TestRotationSingleAxis(t *testing.T) {
	tests := []struct {
		name string
		m    mathx.Mat3
		want S16Angles
	}{
		{"pitch 45", mathx.RotX(math.Pi / 4), S16Angles{0x2000, 0, 0}},
		{"yaw 90", mathx.RotY(math.Pi / 2), S16Angles{0, 0x4000, 0}},
		{"roll -45", mathx.RotZ(-math.Pi / 4), S16Angles{0, 0, -0x2000}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Rotation(tt.m)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

// Re-encoding a rotation rebuilt from its own decoded angles must reproduce
// the triple within one unit of rounding.
func TestRotationIdempotent(t *testing.T) {
	angles := [][3]float64{
		{0.3, -1.2, 2.5},
		{-1.4, 0.1, 0.1},
		{1.0, 3.0, -3.0},
		{0, 2.2, 0.7},
	}

	for _, a := range angles {
		first, err := Rotation(mathx.EulerZXY(a[0], a[1], a[2]))
		require.NoError(t, err)

		rebuilt := mathx.EulerZXY(s16ToRad(first[0]), s16ToRad(first[1]), s16ToRad(first[2]))
		second, err := Rotation(rebuilt)
		require.NoError(t, err)

		for i := range first {
			assert.InDelta(t, float64(first[i]), float64(second[i]), 1, "axis %d of %v", i, a)
		}
	}
}

func TestRotationRange(t *testing.T) {
	// Sweep a spread of rotations; every axis must stay inside int16 by
	// construction, and decode-reencode must be stable.
	for x := -1.5; x <= 1.5; x += 0.25 {
		for y := -3.0; y <= 3.0; y += 0.5 {
			got, err := Rotation(mathx.EulerZXY(x, y, y/2))
			require.NoError(t, err)
			_ = got // int16 bounds hold by type
		}
	}
}

// Away from gimbal lock, an infinitesimal input change moves the encoding by
// at most a few units.
func TestRotationContinuity(t *testing.T) {
	const eps = 1e-5
	base := [3]float64{0.4, -0.8, 1.9}

	a, err := Rotation(mathx.EulerZXY(base[0], base[1], base[2]))
	require.NoError(t, err)
	b, err := Rotation(mathx.EulerZXY(base[0]+eps, base[1]-eps, base[2]+eps))
	require.NoError(t, err)

	for i := range a {
		assert.InDelta(t, float64(a[i]), float64(b[i]), 3, "axis %d", i)
	}
}

func TestRotationGimbalLock(t *testing.T) {
	// X at exactly +90°: Z collapses to zero, Y carries the remainder.
	m := mathx.EulerZXY(math.Pi/2, 0.6, 0)
	got, err := Rotation(m)
	require.NoError(t, err)
	assert.Equal(t, int16(0x4000), got[0])
	assert.Equal(t, RadToS16(0.6), got[1])
	assert.Equal(t, int16(0), got[2])

	// The same pose expressed with z≠0 must land on the same canonical triple.
	alias := mathx.EulerZXY(math.Pi/2, 0.9, 0.3)
	aliased, err := Rotation(alias)
	require.NoError(t, err)
	assert.Equal(t, got, aliased)
}

func TestRotationInvalidInput(t *testing.T) {
	bad := mathx.Mat3Identity()
	bad[4] = math.NaN()
	_, err := Rotation(bad)
	assert.ErrorIs(t, err, ErrInvalidRotation)

	bad[4] = math.Inf(1)
	_, err = Rotation(bad)
	assert.ErrorIs(t, err, ErrInvalidRotation)
}
