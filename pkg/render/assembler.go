package render

import (
	"errors"
	"fmt"

	"github.com/taigrr/glclip/pkg/math3d"
)

// ErrPolygonTooLarge reports a polygon with more vertices than the assembly
// buffer holds.
var ErrPolygonTooLarge = errors.New("polygon exceeds vertex buffer")

// Sink receives assembled primitives in window coordinates. It stands in
// for the rasterizer. Vertices passed to a Sink are only valid for the
// duration of the call.
type Sink interface {
	Point(v *Vertex)
	Line(v0, v1 *Vertex)
	// Polygon receives a clipped convex polygon. provoking is the input
	// vertex whose color is used for flat shading.
	Polygon(p *Polygon, provoking *Vertex)
}

// Viewport maps normalized device coordinates to window coordinates.
// The origin is the lower left corner.
type Viewport struct {
	X, Y          float64
	Width, Height float64
	Near, Far     float64 // depth range
}

// NewViewport creates a viewport with the default [0,1] depth range.
func NewViewport(width, height int) Viewport {
	return Viewport{Width: float64(width), Height: float64(height), Far: 1}
}

// Map performs the perspective division of v.Clip and writes the window
// position to v.Window. Window.W holds 1/Clip.W for perspective-correct
// interpolation downstream.
func (vp Viewport) Map(v *Vertex) {
	invW := 1 / v.Clip.W
	ndc := v.Clip.Vec3().Scale(invW)
	v.Window = math3d.Vec4{
		X: (ndc.X+1)*0.5*vp.Width + vp.X,
		Y: (ndc.Y+1)*0.5*vp.Height + vp.Y,
		Z: (ndc.Z+1)*0.5*(vp.Far-vp.Near) + vp.Near,
		W: invW,
	}
}

// AssemblyStats counts primitives through the assembler.
type AssemblyStats struct {
	Accepted int // trivially accepted
	Rejected int // trivially rejected by a shared clip code
	Clipped  int // needed clipping and survived
	Culled   int // clipped away entirely
}

// Assembler runs the geometry stage for one context: it transforms
// vertices, computes clip codes, performs trivial accept and reject,
// clips, and maps survivors to the viewport before handing them to a Sink.
type Assembler struct {
	Transform *Transform
	Context   *ClipContext
	Viewport  Viewport
	Sink      Sink

	clipper *Clipper
	line    [2]Vertex
	poly    *Polygon

	Stats AssemblyStats
}

// NewAssembler creates an assembler. The clipper shares ctx.
func NewAssembler(t *Transform, ctx *ClipContext, vp Viewport, sink Sink) *Assembler {
	return &Assembler{
		Transform: t,
		Context:   ctx,
		Viewport:  vp,
		Sink:      sink,
		clipper:   NewClipper(ctx),
		poly:      NewPolygon(MaxPolygonVertices),
	}
}

// Clipper returns the clipper used by the assembler.
func (a *Assembler) Clipper() *Clipper {
	return a.clipper
}

// ResetStats resets assembler and clipper statistics.
func (a *Assembler) ResetStats() {
	a.Stats = AssemblyStats{}
	a.clipper.ResetStats()
}

// ProcessVertex fills v's eye and clip positions from an object-space
// position and, when lighting is enabled, its eye-space normal, then
// computes its clip codes. Colors and texture coordinates are left to the
// caller.
func (a *Assembler) ProcessVertex(v *Vertex, obj math3d.Vec4, normal math3d.Vec3) {
	v.Eye = a.Transform.EyePosition(obj)
	v.Clip = a.Transform.ClipPosition(v.Eye)
	if a.Context.Lighting {
		nm, _ := a.Transform.NormalMatrix()
		v.Normal = math3d.V4FromV3(nm.MulVec3Dir(normal).Normalize(), 0)
	}
	v.ComputeClipCodes(a.Context)
}

// RasterPos transforms a raster position. It is valid only when the
// position lies inside every clip volume; no clipping is performed.
func (a *Assembler) RasterPos(obj math3d.Vec4) (Vertex, bool) {
	var v Vertex
	a.ProcessVertex(&v, obj, math3d.Vec3{})
	if v.ClipCode != 0 {
		return v, false
	}
	a.Viewport.Map(&v)
	return v, true
}

// Point emits v unless it lies outside any clip volume.
func (a *Assembler) Point(v *Vertex) {
	if v.ClipCode != 0 {
		a.Stats.Rejected++
		return
	}
	a.Stats.Accepted++
	a.Viewport.Map(v)
	a.Sink.Point(v)
}

// Line assembles the segment v0-v1. The inputs are never modified by
// clipping; clipped endpoints are copies.
func (a *Assembler) Line(v0, v1 *Vertex) {
	and, or := v0.ClipCode&v1.ClipCode, v0.ClipCode|v1.ClipCode
	if and != 0 {
		a.Stats.Rejected++
		return
	}

	p0, p1 := v0, v1
	if or != 0 {
		a.line[0].Set(v0)
		a.line[1].Set(v1)
		p0, p1 = &a.line[0], &a.line[1]
		if a.clipper.ClipLine(p0, p1) {
			a.Stats.Culled++
			return
		}
		a.Stats.Clipped++
	} else {
		a.Stats.Accepted++
	}

	a.Viewport.Map(p0)
	a.Viewport.Map(p1)
	a.Sink.Line(p0, p1)
}

// Polygon assembles a convex polygon from vs. The last vertex provokes.
// Input vertices are mapped in place when they survive; generated vertices
// belong to the clipper.
func (a *Assembler) Polygon(vs []*Vertex) error {
	if len(vs) > cap(a.poly.Vertices) {
		return fmt.Errorf("polygon of %d vertices: %w", len(vs), ErrPolygonTooLarge)
	}
	if len(vs) < 3 {
		return nil
	}

	and, or := ClipMask, ClipCode(0)
	for _, v := range vs {
		and &= v.ClipCode
		or |= v.ClipCode
	}
	if and != 0 {
		a.Stats.Rejected++
		return nil
	}

	p := a.poly
	p.Reset()
	p.Vertices = append(p.Vertices, vs...)

	if or != 0 {
		if a.clipper.ClipPolygon(p, or) {
			a.Stats.Culled++
			return nil
		}
		a.Stats.Clipped++
	} else {
		a.Stats.Accepted++
	}

	for _, v := range p.Vertices {
		a.Viewport.Map(v)
	}
	a.Sink.Polygon(p, vs[len(vs)-1])
	return nil
}

// Feedback is a Sink that records window-space primitives instead of
// rasterizing them.
type Feedback struct {
	Points   []Vertex
	Lines    [][2]Vertex
	Polygons [][]Vertex
}

// Point records v.
func (f *Feedback) Point(v *Vertex) {
	f.Points = append(f.Points, *v)
}

// Line records the segment.
func (f *Feedback) Line(v0, v1 *Vertex) {
	f.Lines = append(f.Lines, [2]Vertex{*v0, *v1})
}

// Polygon records a copy of the ring with its interpolated colors.
func (f *Feedback) Polygon(p *Polygon, _ *Vertex) {
	ring := make([]Vertex, len(p.Vertices))
	for i, v := range p.Vertices {
		ring[i] = *v
	}
	f.Polygons = append(f.Polygons, ring)
}

// Reset drops everything recorded.
func (f *Feedback) Reset() {
	f.Points = f.Points[:0]
	f.Lines = f.Lines[:0]
	f.Polygons = f.Polygons[:0]
}
