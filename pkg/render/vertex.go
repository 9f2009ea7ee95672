package render

import (
	"image/color"
	"math"

	"github.com/taigrr/glclip/pkg/math3d"
)

// Vertex carries every attribute the clipper may need to interpolate.
type Vertex struct {
	Eye      math3d.Vec4                  // Eye-space position
	Clip     math3d.Vec4                  // Clip-space position
	Color    Color                        // Used when lighting is disabled
	Normal   math3d.Vec4                  // Eye-space normal, used when lighting is enabled
	TexCoord [MaxTextureUnits]math3d.Vec4 // Per texture unit (s, t, r, q)
	ClipCode ClipCode                     // Cached user | frustum codes

	// Window holds viewport coordinates after assembly; Window.W is 1/Clip.W.
	Window math3d.Vec4
}

// Set copies every field of o into v.
func (v *Vertex) Set(o *Vertex) {
	*v = *o
}

// ComputeClipCodes caches the user and frustum clip codes for v.
func (v *Vertex) ComputeClipCodes(ctx *ClipContext) ClipCode {
	v.ClipCode = UserClipCodes(ctx, v.Eye) | FrustumClipCodes(v.Clip)
	return v.ClipCode
}

// Color is a floating point RGBA color in the 0-1 range.
type Color struct {
	R, G, B, A float64
}

// ColorFromRGBA converts an 8-bit color.
func ColorFromRGBA(c color.RGBA) Color {
	return Color{
		R: float64(c.R) / 255,
		G: float64(c.G) / 255,
		B: float64(c.B) / 255,
		A: float64(c.A) / 255,
	}
}

// RGBA converts to an 8-bit color, clamping out of range channels.
func (c Color) RGBA() color.RGBA {
	return color.RGBA{channel(c.R), channel(c.G), channel(c.B), channel(c.A)}
}

func channel(f float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, f)) * 255))
}
