package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Mat4 is a 4x4 matrix stored in column-major order.
// This matches OpenGL conventions for easier reasoning about transforms.
//
// Memory layout (indices):
// | 0  4  8  12 |
// | 1  5  9  13 |
// | 2  6  10 14 |
// | 3  7  11 15 |
//
// Vectors are columns: MulVec4 computes M·v and a.Mul(b) computes a·b, so
// a.Mul(b).MulVec4(v) == a.MulVec4(b.MulVec4(v)).
//
// The zero value is NOT the identity. Use Identity, NewMat4 or SetIdentity.
type Mat4 [16]float64

const degToRad = math.Pi / 180

// Identity returns the identity matrix.
func Identity() Mat4 {
	return Mat4{
		1, 0, 0, 0,
		0, 1, 0, 0,
		0, 0, 1, 0,
		0, 0, 0, 1,
	}
}

// NewMat4 returns a pointer to a fresh identity matrix.
func NewMat4() *Mat4 {
	m := Identity()
	return &m
}

// FromMGL converts an mgl64 matrix. Both types share the same layout.
func FromMGL(m mgl64.Mat4) Mat4 {
	return Mat4(m)
}

// ToMGL converts the matrix to its mgl64 equivalent.
func (m Mat4) ToMGL() mgl64.Mat4 {
	return mgl64.Mat4(m)
}

// SetIdentity resets m to the identity matrix.
func (m *Mat4) SetIdentity() {
	*m = Identity()
}

// SetTranslate overwrites m with a translation by (x, y, z).
func (m *Mat4) SetTranslate(x, y, z float64) {
	*m = Identity()
	m[12] = x
	m[13] = y
	m[14] = z
}

// SetScale overwrites m with a scale by (x, y, z).
func (m *Mat4) SetScale(x, y, z float64) {
	*m = Mat4{
		x, 0, 0, 0,
		0, y, 0, 0,
		0, 0, z, 0,
		0, 0, 0, 1,
	}
}

// SetRotate overwrites m with a rotation of angle degrees around the axis
// (x, y, z). The axis is normalized first. A zero axis collapses to
// (0, 0, 0) and yields cos(angle) on the upper 3x3 diagonal with no
// rotation terms; callers must not pass zero axes.
func (m *Mat4) SetRotate(angle, x, y, z float64) {
	l := x*x + y*y + z*z
	if l <= 0 {
		x, y, z = 0, 0, 0
	} else if l != 1 {
		l = 1 / math.Sqrt(l)
		x *= l
		y *= l
		z *= l
	}
	*m = rotation(angle*degToRad, x, y, z)
}

// rotation builds the rotation matrix for a unit axis.
func rotation(radians, x, y, z float64) Mat4 {
	c, s := math.Cos(radians), math.Sin(radians)
	t := 1 - c

	return Mat4{
		t*x*x + c, t*x*y + s*z, t*x*z - s*y, 0,
		t*x*y - s*z, t*y*y + c, t*y*z + s*x, 0,
		t*x*z + s*y, t*y*z - s*x, t*z*z + c, 0,
		0, 0, 0, 1,
	}
}

// Translate creates a translation matrix.
func Translate(v Vec3) Mat4 {
	var m Mat4
	m.SetTranslate(v.X, v.Y, v.Z)
	return m
}

// Scale creates a scaling matrix.
func Scale(v Vec3) Mat4 {
	var m Mat4
	m.SetScale(v.X, v.Y, v.Z)
	return m
}

// RotateX creates a rotation matrix around the X axis (radians).
func RotateX(angle float64) Mat4 {
	return rotation(angle, 1, 0, 0)
}

// RotateY creates a rotation matrix around the Y axis (radians).
func RotateY(angle float64) Mat4 {
	return rotation(angle, 0, 1, 0)
}

// RotateZ creates a rotation matrix around the Z axis (radians).
func RotateZ(angle float64) Mat4 {
	return rotation(angle, 0, 0, 1)
}

// Rotate creates a rotation matrix around an arbitrary axis (radians).
func Rotate(axis Vec3, angle float64) Mat4 {
	axis = axis.Normalize()
	return rotation(angle, axis.X, axis.Y, axis.Z)
}

// LookAt creates a view matrix looking from eye towards center.
func LookAt(eye, center, up Vec3) Mat4 {
	f := center.Sub(eye).Normalize() // Forward
	s := f.Cross(up).Normalize()     // Right
	u := s.Cross(f)                  // Up (recomputed)

	return Mat4{
		s.X, u.X, -f.X, 0,
		s.Y, u.Y, -f.Y, 0,
		s.Z, u.Z, -f.Z, 0,
		-s.Dot(eye), -u.Dot(eye), f.Dot(eye), 1,
	}
}

// Perspective creates a perspective projection matrix.
// fovy is vertical field of view in radians, aspect is width/height.
func Perspective(fovy, aspect, near, far float64) Mat4 {
	f := 1.0 / math.Tan(fovy/2)
	nf := 1.0 / (near - far)

	return Mat4{
		f / aspect, 0, 0, 0,
		0, f, 0, 0,
		0, 0, (far + near) * nf, -1,
		0, 0, 2 * far * near * nf, 0,
	}
}

// Orthographic creates an orthographic projection matrix.
func Orthographic(left, right, bottom, top, near, far float64) Mat4 {
	rl := 1.0 / (right - left)
	tb := 1.0 / (top - bottom)
	fn := 1.0 / (far - near)

	return Mat4{
		2 * rl, 0, 0, 0,
		0, 2 * tb, 0, 0,
		0, 0, -2 * fn, 0,
		-(right + left) * rl, -(top + bottom) * tb, -(far + near) * fn, 1,
	}
}

// Mul multiplies two matrices: a * b.
//
//nolint:st1016 // a*b naming convention is clearer for matrix multiplication
func (a Mat4) Mul(b Mat4) Mat4 {
	var m Mat4
	for col := 0; col < 4; col++ {
		for row := 0; row < 4; row++ {
			var sum float64
			for k := 0; k < 4; k++ {
				sum += a[row+k*4] * b[k+col*4]
			}
			m[row+col*4] = sum
		}
	}
	return m
}

// MulVec4 transforms a Vec4.
func (m Mat4) MulVec4(v Vec4) Vec4 {
	return Vec4{
		m[0]*v.X + m[4]*v.Y + m[8]*v.Z + m[12]*v.W,
		m[1]*v.X + m[5]*v.Y + m[9]*v.Z + m[13]*v.W,
		m[2]*v.X + m[6]*v.Y + m[10]*v.Z + m[14]*v.W,
		m[3]*v.X + m[7]*v.Y + m[11]*v.Z + m[15]*v.W,
	}
}

// MulVec3 transforms a Vec3 as a point (w=1).
func (m Mat4) MulVec3(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 1)).PerspectiveDivide()
}

// MulVec3Dir transforms a Vec3 as a direction (w=0, no translation).
func (m Mat4) MulVec3Dir(v Vec3) Vec3 {
	return m.MulVec4(V4FromV3(v, 0)).Vec3()
}

// Transpose returns the transposed matrix.
func (m Mat4) Transpose() Mat4 {
	return Mat4{
		m[0], m[4], m[8], m[12],
		m[1], m[5], m[9], m[13],
		m[2], m[6], m[10], m[14],
		m[3], m[7], m[11], m[15],
	}
}

// cofactor returns the signed minor of element (row, col).
func (m *Mat4) cofactor(row, col int) float64 {
	// 3x3 submatrix, column-major: s[r+c*3]
	var s [9]float64
	k := 0
	for c := 0; c < 4; c++ {
		if c == col {
			continue
		}
		for r := 0; r < 4; r++ {
			if r == row {
				continue
			}
			s[k] = m[r+c*4]
			k++
		}
	}

	d := s[0]*(s[4]*s[8]-s[7]*s[5]) -
		s[3]*(s[1]*s[8]-s[7]*s[2]) +
		s[6]*(s[1]*s[5]-s[4]*s[2])
	if (row+col)&1 == 1 {
		return -d
	}
	return d
}

// Determinant returns the determinant of the matrix.
func (m Mat4) Determinant() float64 {
	var det float64
	for col := 0; col < 4; col++ {
		det += m[col*4] * m.cofactor(0, col)
	}
	return det
}

// Invert writes the inverse of m into out and reports whether m was
// invertible. The adjugate is always written; when the determinant is zero
// out holds the unscaled adjugate and must not be used.
func (m Mat4) Invert(out *Mat4) bool {
	var adj Mat4
	for row := 0; row < 4; row++ {
		for col := 0; col < 4; col++ {
			adj[row+col*4] = m.cofactor(col, row)
		}
	}

	// Expand along row 0: adj(col,0) is the cofactor of m(0,col).
	var det float64
	for col := 0; col < 4; col++ {
		det += m[col*4] * adj[col]
	}

	*out = adj
	if det == 0 {
		return false
	}

	s := 1 / det
	for i := range out {
		out[i] *= s
	}
	return true
}

// InvertTranspose writes (m⁻¹)ᵀ into out, the matrix that carries surface
// normals and plane equations through m. Unlike Invert, a singular m leaves
// out untouched; the false return is the only signal.
func (m Mat4) InvertTranspose(out *Mat4) bool {
	a00, a01, a02, a03 := m[0], m[4], m[8], m[12]
	a10, a11, a12, a13 := m[1], m[5], m[9], m[13]
	a20, a21, a22, a23 := m[2], m[6], m[10], m[14]
	a30, a31, a32, a33 := m[3], m[7], m[11], m[15]

	// 2x2 determinants of the top two rows
	s0 := a00*a11 - a10*a01
	s1 := a00*a12 - a10*a02
	s2 := a00*a13 - a10*a03
	s3 := a01*a12 - a11*a02
	s4 := a01*a13 - a11*a03
	s5 := a02*a13 - a12*a03

	// and of the bottom two rows
	c5 := a22*a33 - a32*a23
	c4 := a21*a33 - a31*a23
	c3 := a21*a32 - a31*a22
	c2 := a20*a33 - a30*a23
	c1 := a20*a32 - a30*a22
	c0 := a20*a31 - a30*a21

	det := s0*c5 - s1*c4 + s2*c3 + s3*c2 - s4*c1 + s5*c0
	if det == 0 {
		return false
	}
	r := 1 / det

	// Row i of the inverse is column i of the inverse-transpose, which in
	// column-major storage is the contiguous run out[4i:4i+4].
	*out = Mat4{
		(a11*c5 - a12*c4 + a13*c3) * r,
		(-a01*c5 + a02*c4 - a03*c3) * r,
		(a31*s5 - a32*s4 + a33*s3) * r,
		(-a21*s5 + a22*s4 - a23*s3) * r,

		(-a10*c5 + a12*c2 - a13*c1) * r,
		(a00*c5 - a02*c2 + a03*c1) * r,
		(-a30*s5 + a32*s2 - a33*s1) * r,
		(a20*s5 - a22*s2 + a23*s1) * r,

		(a10*c4 - a11*c2 + a13*c0) * r,
		(-a00*c4 + a01*c2 - a03*c0) * r,
		(a30*s4 - a31*s2 + a33*s0) * r,
		(-a20*s4 + a21*s2 - a23*s0) * r,

		(-a10*c3 + a11*c1 - a12*c0) * r,
		(a00*c3 - a01*c1 + a02*c0) * r,
		(-a30*s3 + a31*s1 - a32*s0) * r,
		(a20*s3 - a21*s1 + a22*s0) * r,
	}
	return true
}

// Get returns the element at (row, col).
func (m Mat4) Get(row, col int) float64 {
	return m[row+col*4]
}

// Set sets the element at (row, col).
func (m *Mat4) Set(row, col int, val float64) {
	m[row+col*4] = val
}
