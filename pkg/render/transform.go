package render

import (
	"context"
	"log/slog"

	"github.com/taigrr/glclip/pkg/math3d"
)

// Transform holds the modelview and projection matrices of a context and
// caches the matrices derived from them.
type Transform struct {
	modelView  math3d.Mat4
	projection math3d.Mat4

	// Cached matrices (computed on demand)
	mvp          math3d.Mat4
	normalMatrix math3d.Mat4
	mvpDirty     bool
	normalDirty  bool
}

// NewTransform creates a transform with identity matrices.
func NewTransform() *Transform {
	return &Transform{
		modelView:    math3d.Identity(),
		projection:   math3d.Identity(),
		mvp:          math3d.Identity(),
		normalMatrix: math3d.Identity(),
	}
}

// SetModelView replaces the modelview matrix.
func (t *Transform) SetModelView(m math3d.Mat4) {
	t.modelView = m
	t.mvpDirty = true
	t.normalDirty = true
}

// SetProjection replaces the projection matrix.
func (t *Transform) SetProjection(m math3d.Mat4) {
	t.projection = m
	t.mvpDirty = true
}

// LookAt sets the modelview to a view from eye toward center.
func (t *Transform) LookAt(eye, center, up math3d.Vec3) {
	t.SetModelView(math3d.LookAt(eye, center, up))
}

// Perspective sets a perspective projection. fovy is in radians.
func (t *Transform) Perspective(fovy, aspect, near, far float64) {
	t.SetProjection(math3d.Perspective(fovy, aspect, near, far))
}

// MultModelView post-multiplies the modelview matrix by m.
func (t *Transform) MultModelView(m math3d.Mat4) {
	t.SetModelView(t.modelView.Mul(m))
}

// ModelView returns the modelview matrix.
func (t *Transform) ModelView() math3d.Mat4 {
	return t.modelView
}

// Projection returns the projection matrix.
func (t *Transform) Projection() math3d.Mat4 {
	return t.projection
}

// MVP returns projection * modelview.
func (t *Transform) MVP() math3d.Mat4 {
	if t.mvpDirty {
		t.mvp = t.projection.Mul(t.modelView)
		t.mvpDirty = false
	}
	return t.mvp
}

// NormalMatrix returns the inverse-transpose of the modelview, which maps
// object-space normals and planes into eye space. When the modelview is
// singular the previous matrix is kept and ok is false.
func (t *Transform) NormalMatrix() (m math3d.Mat4, ok bool) {
	if !t.normalDirty {
		return t.normalMatrix, true
	}
	if !t.modelView.InvertTranspose(&t.normalMatrix) {
		Logger().LogAttrs(context.Background(), slog.LevelWarn,
			"singular modelview, keeping previous normal matrix")
		return t.normalMatrix, false
	}
	t.normalDirty = false
	return t.normalMatrix, true
}

// EyePosition transforms an object-space point into eye space.
func (t *Transform) EyePosition(obj math3d.Vec4) math3d.Vec4 {
	return t.modelView.MulVec4(obj)
}

// ClipPosition transforms an eye-space point into clip space.
func (t *Transform) ClipPosition(eye math3d.Vec4) math3d.Vec4 {
	return t.projection.MulVec4(eye)
}

// Frustum returns the world culling frustum of the current matrices. The
// planes are in the object space of the modelview.
func (t *Transform) Frustum() Frustum {
	return NewFrustumFromMatrix(t.MVP())
}
