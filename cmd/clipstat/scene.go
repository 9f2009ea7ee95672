package main

import (
	"fmt"

	"github.com/taigrr/glclip/pkg/math3d"
	"github.com/taigrr/glclip/pkg/models"
	"github.com/taigrr/glclip/pkg/render"
)

// counter is a render.Sink that only counts what reaches it.
type counter struct {
	Points   int
	Lines    int
	Polygons int
	Vertices int // polygon vertices after clipping
}

func (c *counter) Point(*render.Vertex)     { c.Points++ }
func (c *counter) Line(_, _ *render.Vertex) { c.Lines++ }

func (c *counter) Polygon(p *render.Polygon, _ *render.Vertex) {
	c.Polygons++
	c.Vertices += p.Len()
}

// scene feeds one mesh through an assembler.
type scene struct {
	mesh      *models.Mesh
	assembler *render.Assembler
	sink      *counter
	bounds    render.AABB

	vertices []render.Vertex
	face     [3]*render.Vertex
}

func newScene(mesh *models.Mesh, a *render.Assembler, sink *counter) *scene {
	return &scene{
		mesh:      mesh,
		assembler: a,
		sink:      sink,
		bounds:    render.NewAABB(mesh.BoundsMin, mesh.BoundsMax),
		vertices:  make([]render.Vertex, len(mesh.Vertices)),
	}
}

// frameStats is the outcome of drawing the mesh once.
type frameStats struct {
	Culled   bool // whole mesh outside the view frustum
	Assembly render.AssemblyStats
	Clipper  render.ClipStats
	Drawn    counter
}

// draw transforms every vertex and assembles every face, or every edge
// when lines is set.
func (s *scene) draw(lines bool) (frameStats, error) {
	a := s.assembler
	a.ResetStats()
	*s.sink = counter{}

	var st frameStats
	if !a.Transform.Frustum().IntersectAABB(s.bounds) {
		st.Culled = true
		return st, nil
	}

	ctx := a.Context
	for i, mv := range s.mesh.Vertices {
		v := &s.vertices[i]
		*v = render.Vertex{}
		a.ProcessVertex(v, math3d.V4FromV3(mv.Position, 1), mv.Normal)
		v.Color = render.Color{R: mv.Color.X, G: mv.Color.Y, B: mv.Color.Z, A: mv.Color.W}
		for u := 0; u < min(models.TexCoordSets, render.MaxTextureUnits); u++ {
			if ctx.TextureUnitEnabled(u) {
				v.TexCoord[u] = mv.TexCoord[u]
			}
		}
	}

	if lines {
		for _, e := range s.mesh.Edges() {
			a.Line(&s.vertices[e[0]], &s.vertices[e[1]])
		}
	} else {
		for i, f := range s.mesh.Faces {
			for k, vi := range f.V {
				s.face[k] = &s.vertices[vi]
			}
			if err := a.Polygon(s.face[:]); err != nil {
				return st, fmt.Errorf("face %d: %w", i, err)
			}
		}
	}

	st.Assembly = a.Stats
	st.Clipper = a.Clipper().Stats
	st.Drawn = *s.sink
	return st, nil
}
