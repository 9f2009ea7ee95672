package render

import (
	"math"
	"testing"

	"github.com/taigrr/glclip/pkg/math3d"
)

func TestPlaneDistanceToPoint(t *testing.T) {
	// Plane at Z=0, normal pointing +Z
	plane := Plane{Normal: math3d.V3(0, 0, 1), D: 0}

	tests := []struct {
		name     string
		point    math3d.Vec3
		expected float64
	}{
		{"origin", math3d.V3(0, 0, 0), 0},
		{"in front", math3d.V3(0, 0, 5), 5},
		{"behind", math3d.V3(0, 0, -3), -3},
		{"offset XY", math3d.V3(10, -5, 2), 2},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			dist := plane.DistanceToPoint(tc.point)
			if math.Abs(dist-tc.expected) > 1e-9 {
				t.Errorf("got %v, want %v", dist, tc.expected)
			}
		})
	}
}

func TestPlaneFromClip(t *testing.T) {
	plane := PlaneFromClip(math3d.V4(0, 3, 4, 10))

	if math.Abs(plane.Normal.Len()-1.0) > 1e-9 {
		t.Errorf("normalized normal length = %v, want 1.0", plane.Normal.Len())
	}
	if math.Abs(plane.Normal.Y-0.6) > 1e-9 || math.Abs(plane.Normal.Z-0.8) > 1e-9 {
		t.Errorf("normal = %+v, want (0, 0.6, 0.8)", plane.Normal)
	}
	if math.Abs(plane.D-2.0) > 1e-9 {
		t.Errorf("D = %v, want 2.0", plane.D)
	}

	cp := plane.ClipPlane()
	if math.Abs(cp.W-2.0) > 1e-9 || math.Abs(cp.Z-0.8) > 1e-9 {
		t.Errorf("ClipPlane() = %+v", cp)
	}
}

func TestPlaneNormalizeZero(t *testing.T) {
	plane := Plane{D: 3}
	plane.Normalize()
	if plane.D != 3 {
		t.Errorf("zero normal plane changed: %+v", plane)
	}
}

func TestAABBBasics(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -2, -3), math3d.V3(1, 2, 3))

	if c := box.Center(); c != math3d.V3(0, 0, 0) {
		t.Errorf("center = %+v, want origin", c)
	}
	if e := box.Extents(); e != math3d.V3(1, 2, 3) {
		t.Errorf("extents = %+v, want (1, 2, 3)", e)
	}
}

func TestAABBContainsPoint(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	tests := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"center", math3d.V3(0, 0, 0), true},
		{"corner", math3d.V3(1, 1, 1), true},
		{"outside x", math3d.V3(1.5, 0, 0), false},
		{"outside z", math3d.V3(0, 0, -2), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := box.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%+v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

func TestAABBTransform(t *testing.T) {
	box := NewAABB(math3d.V3(-1, -1, -1), math3d.V3(1, 1, 1))

	moved := box.Transform(math3d.Translate(math3d.V3(5, 0, 0)))
	if moved.Min != math3d.V3(4, -1, -1) || moved.Max != math3d.V3(6, 1, 1) {
		t.Errorf("translated box = %+v", moved)
	}

	// 45 degrees about Y widens the box to sqrt(2) in x and z.
	rotated := box.Transform(math3d.RotateY(math.Pi / 4))
	want := math.Sqrt2
	if math.Abs(rotated.Max.X-want) > 1e-9 || math.Abs(rotated.Max.Z-want) > 1e-9 {
		t.Errorf("rotated max = %+v, want x,z = %v", rotated.Max, want)
	}
	if math.Abs(rotated.Max.Y-1) > 1e-9 {
		t.Errorf("rotated max.Y = %v, want 1", rotated.Max.Y)
	}
}

func TestFrustumFromPerspective(t *testing.T) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/2, 1.0, 1.0, 100.0))

	for i, p := range f.Planes {
		if math.Abs(p.Normal.Len()-1) > 1e-9 {
			t.Errorf("plane %d not normalized: %+v", i, p)
		}
	}

	// Near plane faces -Z into the scene at distance 1.
	near := f.Planes[4]
	if math.Abs(near.Normal.Z+1) > 1e-9 || math.Abs(near.D+1) > 1e-9 {
		t.Errorf("near plane = %+v, want normal (0,0,-1), D -1", near)
	}
}

func TestFrustumContainsPoint(t *testing.T) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/2, 1.0, 1.0, 100.0))

	tests := []struct {
		name string
		p    math3d.Vec3
		want bool
	}{
		{"center", math3d.V3(0, 0, -10), true},
		{"behind camera", math3d.V3(0, 0, 10), false},
		{"before near", math3d.V3(0, 0, -0.5), false},
		{"beyond far", math3d.V3(0, 0, -200), false},
		{"left of fov", math3d.V3(-20, 0, -10), false},
		{"above fov", math3d.V3(0, 20, -10), false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.ContainsPoint(tc.p); got != tc.want {
				t.Errorf("ContainsPoint(%+v) = %v, want %v", tc.p, got, tc.want)
			}
		})
	}
}

// The culling frustum must agree with the clip codes the clipper uses.
func TestFrustumMatchesClipCodes(t *testing.T) {
	mvp := math3d.Perspective(math.Pi/3, 1.5, 0.5, 50).
		Mul(math3d.LookAt(math3d.V3(1, 2, 5), math3d.V3(0, 0, 0), math3d.V3(0, 1, 0)))
	f := NewFrustumFromMatrix(mvp)

	for x := -6.0; x <= 6; x += 1.5 {
		for y := -6.0; y <= 6; y += 1.5 {
			for z := -6.0; z <= 6; z += 1.5 {
				p := math3d.V3(x, y, z)
				clip := mvp.MulVec4(math3d.V4FromV3(p, 1))
				inside := FrustumClipCodes(clip) == 0
				if got := f.ContainsPoint(p); got != inside {
					t.Fatalf("point %+v: ContainsPoint = %v, clip codes inside = %v", p, got, inside)
				}
			}
		}
	}
}

func TestFrustumIntersectAABB(t *testing.T) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/2, 1.0, 1.0, 100.0))

	tests := []struct {
		name      string
		box       AABB
		intersect bool
		contained bool
	}{
		{"inside", NewAABB(math3d.V3(-1, -1, -11), math3d.V3(1, 1, -9)), true, true},
		{"straddles near", NewAABB(math3d.V3(-0.5, -0.5, -2), math3d.V3(0.5, 0.5, 0)), true, false},
		{"behind", NewAABB(math3d.V3(-1, -1, 5), math3d.V3(1, 1, 7)), false, false},
		{"far left", NewAABB(math3d.V3(-50, -1, -11), math3d.V3(-40, 1, -9)), false, false},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := f.IntersectAABB(tc.box); got != tc.intersect {
				t.Errorf("IntersectAABB = %v, want %v", got, tc.intersect)
			}
			if got := f.ContainsAABB(tc.box); got != tc.contained {
				t.Errorf("ContainsAABB = %v, want %v", got, tc.contained)
			}
		})
	}
}

func TestFrustumWithRotatedCamera(t *testing.T) {
	proj := math3d.Perspective(math.Pi/3, 1.0, 1.0, 100.0)
	view := math3d.LookAt(math3d.V3(0, 0, 0), math3d.V3(10, 0, 0), math3d.V3(0, 1, 0))
	f := NewFrustumFromMatrix(proj.Mul(view))

	if !f.ContainsPoint(math3d.V3(10, 0, 0)) {
		t.Error("point in front of rotated camera should be visible")
	}
	if f.ContainsPoint(math3d.V3(-10, 0, 0)) {
		t.Error("point behind rotated camera should not be visible")
	}
}

func BenchmarkFrustumIntersectAABB(b *testing.B) {
	f := NewFrustumFromMatrix(math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100))
	box := NewAABB(math3d.V3(-1, -1, -11), math3d.V3(1, 1, -9))

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = f.IntersectAABB(box)
	}
}

func BenchmarkFrustumExtraction(b *testing.B) {
	mvp := math3d.Perspective(math.Pi/3, 16.0/9.0, 0.1, 100)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = NewFrustumFromMatrix(mvp)
	}
}
