package render

import (
	"errors"
	"math"
	"testing"

	"github.com/taigrr/glclip/pkg/math3d"
)

func newTestAssembler(ctx *ClipContext) (*Assembler, *Feedback) {
	fb := &Feedback{}
	return NewAssembler(NewTransform(), ctx, NewViewport(100, 100), fb), fb
}

func processed(a *Assembler, x, y, z float64) *Vertex {
	v := &Vertex{}
	a.ProcessVertex(v, math3d.V4(x, y, z, 1), math3d.V3(0, 0, 1))
	return v
}

func TestViewportMap(t *testing.T) {
	vp := Viewport{X: 10, Y: 20, Width: 200, Height: 100, Near: 0, Far: 1}

	tests := []struct {
		name string
		clip math3d.Vec4
		want math3d.Vec4
	}{
		{"center", math3d.V4(0, 0, 0, 1), math3d.V4(110, 70, 0.5, 1)},
		{"lower left near", math3d.V4(-2, -2, -2, 2), math3d.V4(10, 20, 0, 0.5)},
		{"upper right far", math3d.V4(4, 4, 4, 4), math3d.V4(210, 120, 1, 0.25)},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := &Vertex{Clip: tc.clip}
			vp.Map(v)
			if v.Window.Sub(tc.want).Len() > 1e-12 {
				t.Errorf("window = %+v, want %+v", v.Window, tc.want)
			}
		})
	}
}

func TestAssemblerPolygonTrivialAccept(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})
	vs := []*Vertex{processed(a, 0, 0, 0), processed(a, 0.5, 0, 0), processed(a, 0, 0.5, 0)}

	if err := a.Polygon(vs); err != nil {
		t.Fatal(err)
	}
	if a.Stats.Accepted != 1 || len(fb.Polygons) != 1 {
		t.Fatalf("stats = %+v, polygons = %d", a.Stats, len(fb.Polygons))
	}
	if got := fb.Polygons[0][0].Window; got != math3d.V4(50, 50, 0.5, 1) {
		t.Errorf("first vertex window = %+v, want (50, 50, 0.5, 1)", got)
	}
	if a.Clipper().Stats.Polygons != 0 {
		t.Error("trivially accepted polygon reached the clipper")
	}
}

func TestAssemblerPolygonTrivialReject(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})
	vs := []*Vertex{processed(a, 2, 0, 0), processed(a, 3, 0, 0), processed(a, 2, 0.5, 0)}

	if err := a.Polygon(vs); err != nil {
		t.Fatal(err)
	}
	if a.Stats.Rejected != 1 || len(fb.Polygons) != 0 {
		t.Errorf("stats = %+v, polygons = %d", a.Stats, len(fb.Polygons))
	}
	if a.Clipper().Stats.Polygons != 0 {
		t.Error("trivially rejected polygon reached the clipper")
	}
}

func TestAssemblerPolygonClipped(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})
	vs := []*Vertex{processed(a, -3, 0, 0), processed(a, 0.5, -0.5, 0), processed(a, 0.5, 0.5, 0)}

	if err := a.Polygon(vs); err != nil {
		t.Fatal(err)
	}
	if a.Stats.Clipped != 1 || len(fb.Polygons) != 1 {
		t.Fatalf("stats = %+v, polygons = %d", a.Stats, len(fb.Polygons))
	}
	ring := fb.Polygons[0]
	if len(ring) != 4 {
		t.Fatalf("ring has %d vertices, want 4", len(ring))
	}
	for _, v := range ring {
		if v.Window.X < -1e-9 || v.Window.X > 100+1e-9 {
			t.Errorf("window x %v outside the viewport", v.Window.X)
		}
	}
}

func TestAssemblerPolygonCulledByClipping(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})

	// Outside the top-left corner without sharing a clip code.
	vs := []*Vertex{processed(a, -3, 0.5, 0), processed(a, -0.5, 3, 0), processed(a, -3, 3, 0)}

	if err := a.Polygon(vs); err != nil {
		t.Fatal(err)
	}
	if a.Stats.Culled != 1 || len(fb.Polygons) != 0 {
		t.Errorf("stats = %+v, polygons = %d", a.Stats, len(fb.Polygons))
	}
}

func TestAssemblerPolygonTooLarge(t *testing.T) {
	a, _ := newTestAssembler(&ClipContext{})
	vs := make([]*Vertex, MaxPolygonVertices+1)
	for i := range vs {
		vs[i] = &Vertex{}
	}

	if err := a.Polygon(vs); !errors.Is(err, ErrPolygonTooLarge) {
		t.Errorf("err = %v, want ErrPolygonTooLarge", err)
	}
}

func TestAssemblerLineKeepsInputs(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})
	v0, v1 := processed(a, -3, 0, 0), processed(a, 0.5, 0, 0)
	before := *v0

	a.Line(v0, v1)

	if *v0 != before {
		t.Error("clipping modified the caller's vertex")
	}
	if len(fb.Lines) != 1 {
		t.Fatalf("lines = %d, want 1", len(fb.Lines))
	}
	if got := fb.Lines[0][0].Window.X; math.Abs(got) > 1e-9 {
		t.Errorf("clipped endpoint window x = %v, want 0", got)
	}
}

func TestAssemblerLineRejectAndCull(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})

	a.Line(processed(a, 2, 0, 0), processed(a, 3, 0, 0))
	if a.Stats.Rejected != 1 {
		t.Errorf("stats = %+v, want one rejection", a.Stats)
	}

	// Crosses the corner region outside the frustum.
	a.Line(processed(a, -3, 0.5, 0), processed(a, -0.5, 3, 0))
	if a.Stats.Culled != 1 {
		t.Errorf("stats = %+v, want one cull", a.Stats)
	}
	if len(fb.Lines) != 0 {
		t.Errorf("lines = %d, want 0", len(fb.Lines))
	}
}

func TestAssemblerPointAndRasterPos(t *testing.T) {
	a, fb := newTestAssembler(&ClipContext{})

	a.Point(processed(a, 0.5, 0.5, 0))
	a.Point(processed(a, 1.5, 0, 0))
	if len(fb.Points) != 1 || a.Stats.Rejected != 1 {
		t.Errorf("points = %d, stats = %+v", len(fb.Points), a.Stats)
	}

	if v, ok := a.RasterPos(math3d.V4(-1, 1, 0, 1)); !ok || v.Window.X != 0 || v.Window.Y != 100 {
		t.Errorf("RasterPos = %+v, %v", v.Window, ok)
	}
	if _, ok := a.RasterPos(math3d.V4(0, 0, 5, 1)); ok {
		t.Error("raster position outside the far plane reported valid")
	}
}

func TestAssemblerLightingNormals(t *testing.T) {
	ctx := &ClipContext{Lighting: true}
	a, _ := newTestAssembler(ctx)
	a.Transform.SetModelView(math3d.Scale(math3d.V3(1, 4, 1)))

	v := &Vertex{}
	a.ProcessVertex(v, math3d.V4(0, 0, 0, 1), math3d.V3(0, 1, 0))
	if v.Normal.Sub(math3d.V4(0, 1, 0, 0)).Len() > 1e-12 {
		t.Errorf("eye normal = %+v, want unit +Y", v.Normal)
	}
}

func TestAssemblerUserPlane(t *testing.T) {
	ctx := &ClipContext{}
	ctx.SetPlane(0, math3d.V4(-1, 0, 0, 0), math3d.Identity()) // x <= 0
	ctx.EnablePlane(0, true)
	a, fb := newTestAssembler(ctx)

	vs := []*Vertex{processed(a, -0.5, -0.5, 0), processed(a, 0.5, -0.5, 0), processed(a, 0, 0.5, 0)}
	if err := a.Polygon(vs); err != nil {
		t.Fatal(err)
	}
	if len(fb.Polygons) != 1 {
		t.Fatalf("polygons = %d, want 1", len(fb.Polygons))
	}
	for _, v := range fb.Polygons[0] {
		if v.Window.X > 50+1e-9 {
			t.Errorf("vertex window x %v right of the user plane", v.Window.X)
		}
	}

	fb.Reset()
	a.ResetStats()
	if len(fb.Polygons) != 0 || a.Stats != (AssemblyStats{}) || a.Clipper().Stats != (ClipStats{}) {
		t.Error("reset left state behind")
	}
}
