package render

import "github.com/taigrr/glclip/pkg/math3d"

// ClipPlane is a homogeneous plane equation (a, b, c, d). A point p is
// inside when Dot(plane, p) >= 0.
type ClipPlane = math3d.Vec4

// ClipCode is a per-vertex bitmask of the half-spaces a vertex violates.
// Bits 0-5 are the frustum planes, bits 6 and up the user planes.
type ClipCode uint32

// Clip code bits.
const (
	ClipLeft ClipCode = 1 << iota
	ClipRight
	ClipBottom
	ClipTop
	ClipNear
	ClipFar

	ClipUser0
)

const (
	frustumPlaneCount = 6

	ClipFrustumMask ClipCode = 1<<frustumPlaneCount - 1
	ClipUserMask    ClipCode = (1<<MaxUserPlanes - 1) << frustumPlaneCount
	ClipMask                 = ClipUserMask | ClipFrustumMask
)

// FrustumPlanes are the canonical clip-space planes in clip code bit order:
// left, right, bottom, top, near, far. They describe |x|,|y|,|z| <= w.
var FrustumPlanes = [frustumPlaneCount]ClipPlane{
	{X: 1, Y: 0, Z: 0, W: 1},  // left
	{X: -1, Y: 0, Z: 0, W: 1}, // right
	{X: 0, Y: 1, Z: 0, W: 1},  // bottom
	{X: 0, Y: -1, Z: 0, W: 1}, // top
	{X: 0, Y: 0, Z: 1, W: 1},  // near
	{X: 0, Y: 0, Z: -1, W: 1}, // far
}

// FrustumClipCodes returns the frustum bits for a clip-space position.
// With a negative w a coordinate can be both below -w and above w; only the
// low-side bit is recorded then.
func FrustumClipCodes(v math3d.Vec4) ClipCode {
	var codes ClipCode
	negW := -v.W

	if v.X < negW {
		codes |= ClipLeft
	} else if v.X > v.W {
		codes |= ClipRight
	}

	if v.Y < negW {
		codes |= ClipBottom
	} else if v.Y > v.W {
		codes |= ClipTop
	}

	if v.Z < negW {
		codes |= ClipNear
	} else if v.Z > v.W {
		codes |= ClipFar
	}

	return codes
}

// UserClipCodes returns one bit per enabled user plane that the eye-space
// position lies outside of. Disabled planes never contribute.
func UserClipCodes(ctx *ClipContext, eye math3d.Vec4) ClipCode {
	var codes ClipCode
	mask := ctx.EnabledPlanes
	bit := ClipUser0

	for i := 0; i < MaxUserPlanes && mask != 0; i++ {
		if mask&1 != 0 && ctx.EyePlanes[i].Dot(eye) < 0 {
			codes |= bit
		}
		mask >>= 1
		bit <<= 1
	}
	return codes
}
