package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/glclip/pkg/math3d"
)

// Pipeline limits.
const (
	MaxUserPlanes      = 6    // user clip planes per context
	MaxTextureUnits    = 4    // texture coordinate slots per vertex
	MaxGenerated       = 3    // new vertices one plane pass may create
	MaxPolygonVertices = 1024 // vertex buffer size of the assembly stage
)

var (
	// ErrPlaneIndex reports a user clip plane index out of range.
	ErrPlaneIndex = errors.New("clip plane index out of range")
	// ErrTextureUnit reports a texture unit index out of range.
	ErrTextureUnit = errors.New("texture unit out of range")
	// ErrSingularModelView reports a modelview matrix with no inverse.
	ErrSingularModelView = errors.New("modelview matrix is singular")
)

// ClipContext is the per-context state that tells the clipper which user
// planes are active and which vertex attributes must be interpolated.
// The clipper only reads it; keeping it current is the caller's job.
type ClipContext struct {
	EnabledPlanes uint32                   // bit i enables EyePlanes[i]
	EyePlanes     [MaxUserPlanes]ClipPlane // user planes in eye space
	Lighting      bool                     // interpolate normals instead of colors
	TextureUnits  uint32                   // bit u interpolates TexCoord[u]
}

// SetPlane stores an object-space plane for index i, projected into eye
// space through the inverse-transpose of modelView.
func (c *ClipContext) SetPlane(i int, plane ClipPlane, modelView math3d.Mat4) error {
	if i < 0 || i >= MaxUserPlanes {
		return fmt.Errorf("set plane %d: %w", i, ErrPlaneIndex)
	}
	var it math3d.Mat4
	if !modelView.InvertTranspose(&it) {
		return fmt.Errorf("set plane %d: %w", i, ErrSingularModelView)
	}
	c.EyePlanes[i] = it.MulVec4(plane)
	return nil
}

// SetEyePlane stores a plane already expressed in eye space.
func (c *ClipContext) SetEyePlane(i int, plane ClipPlane) error {
	if i < 0 || i >= MaxUserPlanes {
		return fmt.Errorf("set eye plane %d: %w", i, ErrPlaneIndex)
	}
	c.EyePlanes[i] = plane
	return nil
}

// EnablePlane toggles user plane i.
func (c *ClipContext) EnablePlane(i int, on bool) error {
	if i < 0 || i >= MaxUserPlanes {
		return fmt.Errorf("enable plane %d: %w", i, ErrPlaneIndex)
	}
	c.EnabledPlanes = setBit(c.EnabledPlanes, i, on)
	return nil
}

// PlaneEnabled reports whether user plane i is enabled.
func (c *ClipContext) PlaneEnabled(i int) bool {
	return i >= 0 && i < MaxUserPlanes && c.EnabledPlanes&(1<<i) != 0
}

// EnableTextureUnit toggles interpolation of texture unit u.
func (c *ClipContext) EnableTextureUnit(u int, on bool) error {
	if u < 0 || u >= MaxTextureUnits {
		return fmt.Errorf("enable texture unit %d: %w", u, ErrTextureUnit)
	}
	c.TextureUnits = setBit(c.TextureUnits, u, on)
	return nil
}

// TextureUnitEnabled reports whether texture unit u is enabled.
func (c *ClipContext) TextureUnitEnabled(u int) bool {
	return u >= 0 && u < MaxTextureUnits && c.TextureUnits&(1<<u) != 0
}

func setBit(mask uint32, i int, on bool) uint32 {
	if on {
		return mask | 1<<i
	}
	return mask &^ (1 << i)
}
