// Package render implements the geometry stage of a fixed-function pipeline:
// vertex transformation, clip codes, line and polygon clipping against the
// view frustum and user planes, and primitive assembly up to window
// coordinates.
package render

import (
	"github.com/taigrr/glclip/pkg/math3d"
)

// Plane is a normalized plane Normal·p + D = 0 used for whole-object
// culling before vertices reach the clipper.
type Plane struct {
	Normal math3d.Vec3
	D      float64
}

// PlaneFromClip converts a homogeneous clip plane to a normalized Plane.
func PlaneFromClip(c ClipPlane) Plane {
	p := Plane{Normal: c.Vec3(), D: c.W}
	p.Normalize()
	return p
}

// ClipPlane returns the plane as homogeneous coefficients.
func (p Plane) ClipPlane() ClipPlane {
	return math3d.V4FromV3(p.Normal, p.D)
}

// Normalize scales the plane so the normal has unit length.
func (p *Plane) Normalize() {
	l := p.Normal.Len()
	if l == 0 {
		return
	}
	p.Normal = p.Normal.Scale(1.0 / l)
	p.D /= l
}

// DistanceToPoint returns the signed distance from the plane to a point.
// Positive = inside (same side as normal).
func (p Plane) DistanceToPoint(point math3d.Vec3) float64 {
	return p.Normal.Dot(point) + p.D
}

// Frustum holds six inward-facing planes in clip code order: left, right,
// bottom, top, near, far.
type Frustum struct {
	Planes [frustumPlaneCount]Plane
}

// NewFrustumFromMatrix extracts the frustum planes of a combined
// projection * modelview matrix (Gribb/Hartmann). Plane i is
// FrustumPlanes[i] pulled back through m, so a point is inside plane i
// exactly when its clip-space position is.
func NewFrustumFromMatrix(m math3d.Mat4) Frustum {
	var f Frustum
	// Row r of the column-major matrix is m[r], m[r+4], m[r+8], m[r+12].
	for i, cp := range FrustumPlanes {
		var coeff [4]float64
		for col := 0; col < 4; col++ {
			coeff[col] = cp.X*m[col*4] + cp.Y*m[1+col*4] + cp.Z*m[2+col*4] + cp.W*m[3+col*4]
		}
		f.Planes[i] = PlaneFromClip(math3d.V4(coeff[0], coeff[1], coeff[2], coeff[3]))
	}
	return f
}

// AABB represents an axis-aligned bounding box.
type AABB struct {
	Min math3d.Vec3
	Max math3d.Vec3
}

// NewAABB creates an AABB from min and max points.
func NewAABB(min, max math3d.Vec3) AABB {
	return AABB{Min: min, Max: max}
}

// Center returns the center of the AABB.
func (b AABB) Center() math3d.Vec3 {
	return b.Min.Add(b.Max).Scale(0.5)
}

// Extents returns half the dimensions.
func (b AABB) Extents() math3d.Vec3 {
	return b.Max.Sub(b.Min).Scale(0.5)
}

// Transform returns the AABB bounding all 8 corners after transformation.
func (b AABB) Transform(m math3d.Mat4) AABB {
	out := AABB{Min: m.MulVec3(b.Min), Max: m.MulVec3(b.Min)}
	for i := 1; i < 8; i++ {
		c := math3d.V3(
			pick(i&1 != 0, b.Max.X, b.Min.X),
			pick(i&2 != 0, b.Max.Y, b.Min.Y),
			pick(i&4 != 0, b.Max.Z, b.Min.Z),
		)
		t := m.MulVec3(c)
		out.Min = out.Min.Min(t)
		out.Max = out.Max.Max(t)
	}
	return out
}

// ContainsPoint returns true if the point is inside the AABB.
func (b AABB) ContainsPoint(p math3d.Vec3) bool {
	return p.X >= b.Min.X && p.X <= b.Max.X &&
		p.Y >= b.Min.Y && p.Y <= b.Max.Y &&
		p.Z >= b.Min.Z && p.Z <= b.Max.Z
}

// IntersectAABB reports whether any part of the box may be visible. A false
// result means every vertex of the box would share a frustum clip code, so
// its primitives can skip assembly.
func (f Frustum) IntersectAABB(box AABB) bool {
	for _, plane := range f.Planes {
		// Corner furthest along the normal.
		pv := math3d.V3(
			pick(plane.Normal.X >= 0, box.Max.X, box.Min.X),
			pick(plane.Normal.Y >= 0, box.Max.Y, box.Min.Y),
			pick(plane.Normal.Z >= 0, box.Max.Z, box.Min.Z),
		)
		if plane.DistanceToPoint(pv) < 0 {
			return false
		}
	}
	return true
}

// ContainsAABB reports whether the box is entirely inside, in which case
// none of its primitives need clipping against the frustum.
func (f Frustum) ContainsAABB(box AABB) bool {
	for _, plane := range f.Planes {
		nv := math3d.V3(
			pick(plane.Normal.X >= 0, box.Min.X, box.Max.X),
			pick(plane.Normal.Y >= 0, box.Min.Y, box.Max.Y),
			pick(plane.Normal.Z >= 0, box.Min.Z, box.Max.Z),
		)
		if plane.DistanceToPoint(nv) < 0 {
			return false
		}
	}
	return true
}

// ContainsPoint tests if a point is inside the frustum.
func (f Frustum) ContainsPoint(p math3d.Vec3) bool {
	for _, plane := range f.Planes {
		if plane.DistanceToPoint(p) < 0 {
			return false
		}
	}
	return true
}

func pick(cond bool, a, b float64) float64 {
	if cond {
		return a
	}
	return b
}
