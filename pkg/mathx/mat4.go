package mathx

// Mat4 is a 4×4 affine transform stored row-major. Used for object world transforms.
type Mat4 [16]float64

func Mat4Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// Mat4Mul returns a × b.
func Mat4Mul(a, b Mat4) Mat4 {
	var m Mat4
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			m[r*4+c] = a[r*4+0]*b[0*4+c] + a[r*4+1]*b[1*4+c] +
				a[r*4+2]*b[2*4+c] + a[r*4+3]*b[3*4+c]
		}
	}
	return m
}

// MulPoint transforms a 3D point (w=1) by the 4×4 matrix.
func (m Mat4) MulPoint(v Vec3) Vec3 {
	return Vec3{
		m[0]*v[0] + m[1]*v[1] + m[2]*v[2] + m[3],
		m[4]*v[0] + m[5]*v[1] + m[6]*v[2] + m[7],
		m[8]*v[0] + m[9]*v[1] + m[10]*v[2] + m[11],
	}
}

// FromMat3Translation builds a 4×4 affine matrix from a 3×3 linear part and translation.
func FromMat3Translation(r Mat3, t Vec3) Mat4 {
	return Mat4{
		r[0], r[1], r[2], t[0],
		r[3], r[4], r[5], t[1],
		r[6], r[7], r[8], t[2],
		0, 0, 0, 1,
	}
}

// ComposeTRS builds translation × rotation × scale as one affine matrix.
func ComposeTRS(t Vec3, r Mat3, s Vec3) Mat4 {
	return FromMat3Translation(Mat3Mul(r, Mat3Diag(s[0], s[1], s[2])), t)
}

// Linear returns the upper-left 3×3 part.
func (m Mat4) Linear() Mat3 {
	return Mat3{
		m[0], m[1], m[2],
		m[4], m[5], m[6],
		m[8], m[9], m[10],
	}
}

// Translation returns the translation column.
func (m Mat4) Translation() Vec3 {
	return Vec3{m[3], m[7], m[11]}
}

// AffineInverse inverts an affine transform: inv(L)·x - inv(L)·t.
// Singular linear parts invert to identity, matching Mat3.Inverse.
func (m Mat4) AffineInverse() Mat4 {
	li := m.Linear().Inverse()
	t := li.MulVec3(m.Translation()).Scale(-1)
	return FromMat3Translation(li, t)
}

// Decompose splits an affine transform into translation, rotation, and per-axis
// scale. Scale is the magnitude of each basis column, so shear and non-uniform
// parent scale fold into it approximately. A negative determinant flips the X
// scale sign to keep the rotation part proper.
func (m Mat4) Decompose() (t Vec3, r Mat3, s Vec3) {
	t = m.Translation()
	l := m.Linear()

	s = Vec3{l.Col(0).Len(), l.Col(1).Len(), l.Col(2).Len()}
	if l.Det() < 0 {
		s[0] = -s[0]
	}

	r = Mat3Identity()
	for c := 0; c < 3; c++ {
		if s[c] == 0 {
			continue
		}
		r[c] = l[c] / s[c]
		r[3+c] = l[3+c] / s[c]
		r[6+c] = l[6+c] / s[c]
	}
	return t, r, s
}

// IsIdentity checks if the matrix is approximately identity.
func (m Mat4) IsIdentity() bool {
	id := Mat4Identity()
	for i := 0; i < 16; i++ {
		d := m[i] - id[i]
		if d > 1e-8 || d < -1e-8 {
			return false
		}
	}
	return true
}
