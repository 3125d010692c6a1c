// Package encode turns sampled rotations into the runtime's signed 16-bit
// angle units.
package encode

import (
	"errors"
	"fmt"
	"math"

	"github.com/minin64/objexport/pkg/mathx"
)

// ErrInvalidRotation is returned for NaN or otherwise degenerate rotation input.
var ErrInvalidRotation = errors.New("encode: invalid rotation")

// S16Angles is an encoded rotation triple, always in (x, y, z) =
// (pitch, yaw, roll) order regardless of decomposition order.
type S16Angles [3]int16

// Rotation decomposes a rotation matrix into ZXY-ordered Euler angles
// (R = Ry(y) · Rx(x) · Rz(z), the runtime's yaw→pitch→roll convention) and
// quantizes each to a signed 16-bit angle unit.
func Rotation(m mathx.Mat3) (S16Angles, error) {
	if !m.IsFinite() {
		return S16Angles{}, fmt.Errorf("%w: non-finite matrix", ErrInvalidRotation)
	}
	x, y, z := eulerZXY(m)
	return S16Angles{RadToS16(x), RadToS16(y), RadToS16(z)}, nil
}

// eulerZXY extracts Euler angles such that Ry(y)·Rx(x)·Rz(z) reproduces m.
// X is kept in [-π/2, π/2]. At the X = ±90° singularity Z is forced to zero
// and Y absorbs the remaining rotation, so near-identical poses on adjacent
// frames decompose to near-identical angles.
func eulerZXY(m mathx.Mat3) (x, y, z float64) {
	// m[5] = -sin(x)
	sx := -m[5]
	if sx > 1 {
		sx = 1
	} else if sx < -1 {
		sx = -1
	}
	x = math.Asin(sx)

	if 1-math.Abs(sx) < 1e-9 {
		// Gimbal lock: only y±z is observable. Pick z = 0.
		z = 0
		if sx > 0 {
			y = math.Atan2(m[1], m[0])
		} else {
			y = math.Atan2(-m[1], m[0])
		}
		return x, y, z
	}

	// m[3] = cos(x)·sin(z), m[4] = cos(x)·cos(z)
	z = math.Atan2(m[3], m[4])
	// m[2] = sin(y)·cos(x), m[8] = cos(y)·cos(x)
	y = math.Atan2(m[2], m[8])
	return x, y, z
}

// RadToS16 maps an angle in radians onto the signed 16-bit angle circle:
// (-π, π] covers [-32768, 32767], with ±π meeting at -32768.
func RadToS16(a float64) int16 {
	v := int64(math.Round(a / math.Pi * 32768))
	v = ((v%65536)+65536+32768)%65536 - 32768
	return int16(v)
}
