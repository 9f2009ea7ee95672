package math3d

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

// Vec4 represents a homogeneous point, a direction, or a plane equation
// (a, b, c, d tested as ax + by + cz + dw).
type Vec4 struct {
	X, Y, Z, W float64
}

// V4 creates a new Vec4.
func V4(x, y, z, w float64) Vec4 {
	return Vec4{x, y, z, w}
}

// V4FromV3 creates a Vec4 from Vec3 with specified W.
func V4FromV3(v Vec3, w float64) Vec4 {
	return Vec4{v.X, v.Y, v.Z, w}
}

// Vec4FromMGL converts an mgl64 vector.
func Vec4FromMGL(v mgl64.Vec4) Vec4 {
	return Vec4{v[0], v[1], v[2], v[3]}
}

// ToMGL converts the vector to its mgl64 equivalent.
func (v Vec4) ToMGL() mgl64.Vec4 {
	return mgl64.Vec4{v.X, v.Y, v.Z, v.W}
}

// Vec3 returns the Vec3 portion (ignoring W).
func (v Vec4) Vec3() Vec3 {
	return Vec3{v.X, v.Y, v.Z}
}

// PerspectiveDivide returns Vec3 after dividing by W.
func (v Vec4) PerspectiveDivide() Vec3 {
	if v.W == 0 {
		return Vec3{v.X, v.Y, v.Z}
	}
	return Vec3{v.X / v.W, v.Y / v.W, v.Z / v.W}
}

// Set overwrites all four components.
func (v *Vec4) Set(x, y, z, w float64) {
	v.X, v.Y, v.Z, v.W = x, y, z, w
}

// SetFrom copies o into v field by field.
func (v *Vec4) SetFrom(o Vec4) {
	v.X, v.Y, v.Z, v.W = o.X, o.Y, o.Z, o.W
}

// Add returns the vector sum.
//
//nolint:st1016 // a+b naming convention is clearer for vector operations
func (a Vec4) Add(b Vec4) Vec4 {
	return Vec4{a.X + b.X, a.Y + b.Y, a.Z + b.Z, a.W + b.W}
}

// Sub returns the vector difference.
//
//nolint:st1016 // a-b naming convention is clearer for vector operations
func (a Vec4) Sub(b Vec4) Vec4 {
	return Vec4{a.X - b.X, a.Y - b.Y, a.Z - b.Z, a.W - b.W}
}

// Scale returns the scalar product.
func (v Vec4) Scale(s float64) Vec4 {
	return Vec4{v.X * s, v.Y * s, v.Z * s, v.W * s}
}

// Dot returns the dot product. With a plane equation as receiver this is
// the signed distance of a homogeneous point from the plane.
//
//nolint:st1016 // a·b naming convention is clearer for vector operations
func (a Vec4) Dot(b Vec4) float64 {
	return a.X*b.X + a.Y*b.Y + a.Z*b.Z + a.W*b.W
}

// Len returns the length over all four components.
func (v Vec4) Len() float64 {
	return math.Sqrt(v.X*v.X + v.Y*v.Y + v.Z*v.Z + v.W*v.W)
}

// Normalize scales v to unit length in place and returns the length it had
// before. A zero vector is left as zero and 0 is returned.
func (v *Vec4) Normalize() float64 {
	l := v.Len()
	if l == 0 {
		*v = Vec4{}
		return 0
	}
	v.X /= l
	v.Y /= l
	v.Z /= l
	v.W /= l
	return l
}

// Normalized returns the unit vector, or the zero vector for zero input.
func (v Vec4) Normalized() Vec4 {
	v.Normalize()
	return v
}

// Lerp returns a + (b-a)*t.
//
//nolint:st1016 // a,b naming convention is clearer for interpolation
func (a Vec4) Lerp(b Vec4, t float64) Vec4 {
	return Vec4{
		a.X + (b.X-a.X)*t,
		a.Y + (b.Y-a.Y)*t,
		a.Z + (b.Z-a.Z)*t,
		a.W + (b.W-a.W)*t,
	}
}
