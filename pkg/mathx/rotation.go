package mathx

import "math"

// RotX returns a 3×3 rotation matrix around the X axis. Angle in radians.
func RotX(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		1, 0, 0,
		0, c, -s,
		0, s, c,
	}
}

// RotY returns a 3×3 rotation matrix around the Y axis.
func RotY(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, 0, s,
		0, 1, 0,
		-s, 0, c,
	}
}

// RotZ returns a 3×3 rotation matrix around the Z axis.
func RotZ(a float64) Mat3 {
	c, s := math.Cos(a), math.Sin(a)
	return Mat3{
		c, -s, 0,
		s, c, 0,
		0, 0, 1,
	}
}

// EulerZXY builds the rotation applied as roll(Z) first, then pitch(X), then
// yaw(Y): R = Ry(y) · Rx(x) · Rz(z).
func EulerZXY(x, y, z float64) Mat3 {
	return Mat3Mul(RotY(y), Mat3Mul(RotX(x), RotZ(z)))
}

// EulerXYZFromMat3 extracts Euler XYZ angles (radians) from a rotation matrix,
// inverting EulerToQuat: R = Rz(z) · Ry(y) · Rx(x). Y is kept in [-π/2, π/2];
// at the Y = ±90° singularity Z is forced to zero.
func EulerXYZFromMat3(m Mat3) (angles Vec3) {
	sy := -m[6]
	if sy > 1 {
		sy = 1
	} else if sy < -1 {
		sy = -1
	}
	angles[1] = math.Asin(sy)

	if math.Abs(sy) > 1-1e-9 {
		// At the pole only x±z is determined; put it all in X.
		angles[2] = 0
		if sy > 0 {
			angles[0] = math.Atan2(m[1], m[2])
		} else {
			angles[0] = math.Atan2(-m[1], -m[2])
		}
		return angles
	}

	angles[0] = math.Atan2(m[7], m[8])
	angles[2] = math.Atan2(m[3], m[0])
	return angles
}

// Deg2Rad converts degrees to radians.
func Deg2Rad(d float64) float64 {
	return d * math.Pi / 180
}
