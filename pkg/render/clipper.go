package render

import (
	"context"
	"log/slog"

	"github.com/taigrr/glclip/pkg/math3d"
)

// maxClipPasses bounds the plane passes of one ClipPolygon call and so the
// scratch vertices it may need.
const maxClipPasses = MaxUserPlanes + frustumPlaneCount

// Clipper clips lines and polygons against the enabled user planes (in eye
// space) and the view frustum (in clip space), interpolating every live
// attribute at each crossing.
//
// All storage is allocated by NewClipper; clip calls never allocate.
// A Clipper belongs to one rendering context and is not safe for
// concurrent use.
type Clipper struct {
	ctx *ClipContext

	out     [MaxPolygonVertices]*Vertex
	scratch [maxClipPasses * MaxGenerated]Vertex
	next    int // first free scratch vertex, reset per ClipPolygon

	Stats ClipStats // Statistics for debugging/benchmarking
}

// ClipStats counts clipper outcomes.
type ClipStats struct {
	Lines            int // ClipLine calls
	LinesRejected    int // lines found fully outside a plane
	Polygons         int // ClipPolygon calls
	PolygonsRejected int // polygons discarded for any reason
	NonConvex        int // discards caused by the generated-vertex limit
}

// NewClipper creates a clipper reading state from ctx.
func NewClipper(ctx *ClipContext) *Clipper {
	return &Clipper{ctx: ctx}
}

// ResetStats resets the statistics (call once per frame).
func (c *Clipper) ResetStats() {
	c.Stats = ClipStats{}
}

// crossing returns the parameter of the plane crossing on the edge from the
// inside vertex toward the outside vertex, given their signed distances.
// Every call site passes the inside distance first, so an edge shared by two
// polygons yields the same t whatever their winding. A zero denominator
// yields 0.
func crossing(dIn, dOut float64) float64 {
	den := dIn - dOut
	if den == 0 {
		return 0
	}
	return dIn / den
}

// mix returns inside + t*(outside-inside), evaluated as t*(outside-inside)+inside.
func mix(inside, outside math3d.Vec4, t float64) math3d.Vec4 {
	return math3d.Vec4{
		X: t*(outside.X-inside.X) + inside.X,
		Y: t*(outside.Y-inside.Y) + inside.Y,
		Z: t*(outside.Z-inside.Z) + inside.Z,
		W: t*(outside.W-inside.W) + inside.W,
	}
}

// interpolate writes the crossing vertex into dst. dst may be outside itself.
// Eye coordinates are carried only through user plane passes.
func (c *Clipper) interpolate(dst, inside, outside *Vertex, t float64, eye bool) {
	if eye {
		dst.Eye = mix(inside.Eye, outside.Eye, t)
	}
	dst.Clip = mix(inside.Clip, outside.Clip, t)

	if c.ctx.Lighting {
		dst.Normal = mix(inside.Normal, outside.Normal, t)
	} else {
		a, b := inside.Color, outside.Color
		dst.Color = Color{
			R: t*(b.R-a.R) + a.R,
			G: t*(b.G-a.G) + a.G,
			B: t*(b.B-a.B) + a.B,
			A: t*(b.A-a.A) + a.A,
		}
	}

	units := c.ctx.TextureUnits
	for u := 0; u < MaxTextureUnits && units != 0; u++ {
		if units&1 != 0 {
			dst.TexCoord[u] = mix(inside.TexCoord[u], outside.TexCoord[u], t)
		}
		units >>= 1
	}
}

// distance is the signed distance of v from plane, in eye or clip space.
func distance(plane ClipPlane, v *Vertex, eye bool) float64 {
	if eye {
		return plane.Dot(v.Eye)
	}
	return plane.Dot(v.Clip)
}

// ClipLine clips the segment v1-v2 against every plane named in the OR of
// both clip codes. The outside endpoint is overwritten in place for each
// plane crossed. It returns true when the segment lies entirely outside
// some plane; the endpoints are then unspecified.
//
// Trivial accept and reject are the caller's job.
func (c *Clipper) ClipLine(v1, v2 *Vertex) bool {
	c.Stats.Lines++
	codes := (v1.ClipCode | v2.ClipCode) & ClipMask

	// User planes first: eye coordinates are only maintained while clipping
	// against them.
	user := (codes >> frustumPlaneCount) & ClipCode(c.ctx.EnabledPlanes)
	for i := 0; i < MaxUserPlanes && user != 0; i++ {
		if user&1 != 0 && c.clipLineToPlane(v1, v2, c.ctx.EyePlanes[i], true) {
			c.Stats.LinesRejected++
			return true
		}
		user >>= 1
	}

	frustum := codes & ClipFrustumMask
	for i := 0; i < frustumPlaneCount && frustum != 0; i++ {
		if frustum&1 != 0 && c.clipLineToPlane(v1, v2, FrustumPlanes[i], false) {
			c.Stats.LinesRejected++
			return true
		}
		frustum >>= 1
	}

	return false
}

func (c *Clipper) clipLineToPlane(v1, v2 *Vertex, plane ClipPlane, eye bool) bool {
	d1 := distance(plane, v1, eye)
	d2 := distance(plane, v2, eye)

	switch {
	case d1 < 0 && d2 < 0:
		return true
	case d1 < 0:
		c.interpolate(v1, v2, v1, crossing(d2, d1), eye)
	case d2 < 0:
		c.interpolate(v2, v1, v2, crossing(d1, d2), eye)
	}
	return false
}

// ClipPolygon clips p against every plane named in codes, normally the OR
// of its vertices' clip codes. The ring is rewritten in place. It returns
// true when the polygon is discarded, in which case p is left empty:
// it lies outside a plane, it degenerated below three vertices, a plane
// pass needed more than MaxGenerated new vertices (non-convex input), or the
// ring would outgrow its capacity.
//
// Trivial accept and reject are the caller's job.
func (c *Clipper) ClipPolygon(p *Polygon, codes ClipCode) bool {
	c.Stats.Polygons++
	c.next = 0
	codes &= ClipMask

	user := (codes >> frustumPlaneCount) & ClipCode(c.ctx.EnabledPlanes)
	for i := 0; i < MaxUserPlanes && user != 0; i++ {
		if user&1 != 0 && !c.clipToPlane(p, c.ctx.EyePlanes[i], true) {
			return c.discard(p, i)
		}
		user >>= 1
	}

	frustum := codes & ClipFrustumMask
	for i := 0; i < frustumPlaneCount && frustum != 0; i++ {
		if frustum&1 != 0 && !c.clipToPlane(p, FrustumPlanes[i], false) {
			return c.discard(p, MaxUserPlanes+i)
		}
		frustum >>= 1
	}

	return false
}

func (c *Clipper) discard(p *Polygon, pass int) bool {
	p.Reset()
	c.Stats.PolygonsRejected++
	if debugEnabled() {
		Logger().LogAttrs(context.Background(), slog.LevelDebug, "polygon discarded",
			slog.Int("pass", pass),
			slog.Int("nonConvex", c.Stats.NonConvex),
		)
	}
	return true
}

// clipToPlane runs one Sutherland-Hodgman pass. It reports false when the
// polygon must be discarded.
func (c *Clipper) clipToPlane(p *Polygon, plane ClipPlane, eye bool) bool {
	ring := p.Vertices
	n := len(ring)
	if n == 0 {
		return false
	}

	limit := min(len(c.out), cap(ring))
	nout, generated := 0, 0

	s := ring[n-1]
	sDist := distance(plane, s, eye)

	for _, v := range ring {
		pDist := distance(plane, v, eye)

		switch {
		case pDist >= 0 && sDist >= 0:
			if nout+1 > limit {
				return false
			}
			c.out[nout] = v
			nout++

		case pDist >= 0:
			// s out, v in: emit the crossing, then v.
			if generated == MaxGenerated || nout+2 > limit {
				c.countOverflow(generated)
				return false
			}
			nv := c.alloc()
			if nv == nil {
				return false
			}
			generated++
			c.interpolate(nv, v, s, crossing(pDist, sDist), eye)
			c.out[nout] = nv
			c.out[nout+1] = v
			nout += 2

		case sDist >= 0:
			// s in, v out: emit the crossing only. Inside is s here, so the
			// arguments swap relative to the case above.
			if generated == MaxGenerated || nout+1 > limit {
				c.countOverflow(generated)
				return false
			}
			nv := c.alloc()
			if nv == nil {
				return false
			}
			generated++
			c.interpolate(nv, s, v, crossing(sDist, pDist), eye)
			c.out[nout] = nv
			nout++
		}

		s, sDist = v, pDist
	}

	p.Vertices = ring[:nout]
	copy(p.Vertices, c.out[:nout])
	return nout >= 3
}

func (c *Clipper) countOverflow(generated int) {
	if generated == MaxGenerated {
		c.Stats.NonConvex++
	}
}

// alloc hands out the next scratch vertex of the current call.
func (c *Clipper) alloc() *Vertex {
	if c.next == len(c.scratch) {
		return nil
	}
	v := &c.scratch[c.next]
	c.next++
	return v
}
