// Package models provides triangle meshes for feeding the geometry stage:
// glTF/GLB loading and a built-in cube.
package models

import (
	"github.com/taigrr/glclip/pkg/math3d"
)

// TexCoordSets is the number of texture coordinate sets a mesh carries.
const TexCoordSets = 2

// Mesh is an indexed triangle mesh.
type Mesh struct {
	Name     string
	Vertices []MeshVertex
	Faces    []Face

	// HasColors is set when vertices carry COLOR_0.
	HasColors bool
	// TexCoords counts the texture coordinate sets present, from set 0.
	TexCoords int

	// Bounding box (calculated on load)
	BoundsMin math3d.Vec3
	BoundsMax math3d.Vec3
}

// MeshVertex holds all vertex attributes.
type MeshVertex struct {
	Position math3d.Vec3
	Normal   math3d.Vec3
	Color    math3d.Vec4                // RGBA in 0-1 range
	TexCoord [TexCoordSets]math3d.Vec4 // (s, t, 0, 1)
}

// Face is a counter-clockwise triangle of vertex indices.
type Face struct {
	V [3]int
}

// NewMesh creates an empty mesh.
func NewMesh(name string) *Mesh {
	return &Mesh{Name: name}
}

// CalculateBounds computes the axis-aligned bounding box.
func (m *Mesh) CalculateBounds() {
	if len(m.Vertices) == 0 {
		return
	}

	m.BoundsMin = m.Vertices[0].Position
	m.BoundsMax = m.Vertices[0].Position

	for _, v := range m.Vertices[1:] {
		m.BoundsMin = m.BoundsMin.Min(v.Position)
		m.BoundsMax = m.BoundsMax.Max(v.Position)
	}
}

// Center returns the center of the bounding box.
func (m *Mesh) Center() math3d.Vec3 {
	return m.BoundsMin.Add(m.BoundsMax).Scale(0.5)
}

// Size returns the dimensions of the bounding box.
func (m *Mesh) Size() math3d.Vec3 {
	return m.BoundsMax.Sub(m.BoundsMin)
}

// TriangleCount returns the number of triangles.
func (m *Mesh) TriangleCount() int {
	return len(m.Faces)
}

// VertexCount returns the number of vertices.
func (m *Mesh) VertexCount() int {
	return len(m.Vertices)
}

// CalculateNormals assigns each face normal to its vertices (flat shading).
// Vertices shared between faces keep the last face's normal.
func (m *Mesh) CalculateNormals() {
	for _, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		for _, i := range f.V {
			m.Vertices[i].Normal = n
		}
	}
}

// CalculateSmoothNormals computes area-weighted averaged normals.
func (m *Mesh) CalculateSmoothNormals() {
	for i := range m.Vertices {
		m.Vertices[i].Normal = math3d.Vec3{}
	}

	for _, f := range m.Faces {
		n := m.faceNormal(f) // Don't normalize yet
		for _, i := range f.V {
			m.Vertices[i].Normal = m.Vertices[i].Normal.Add(n)
		}
	}

	for i := range m.Vertices {
		m.Vertices[i].Normal = m.Vertices[i].Normal.Normalize()
	}
}

func (m *Mesh) faceNormal(f Face) math3d.Vec3 {
	v0 := m.Vertices[f.V[0]].Position
	v1 := m.Vertices[f.V[1]].Position
	v2 := m.Vertices[f.V[2]].Position
	return v1.Sub(v0).Cross(v2.Sub(v0))
}

// Edges returns every distinct triangle edge once, lower index first, in
// face order.
func (m *Mesh) Edges() [][2]int {
	seen := make(map[[2]int]struct{}, len(m.Faces)*3/2)
	edges := make([][2]int, 0, len(m.Faces)*3/2)

	for _, f := range m.Faces {
		for k := 0; k < 3; k++ {
			a, b := f.V[k], f.V[(k+1)%3]
			if a > b {
				a, b = b, a
			}
			e := [2]int{a, b}
			if _, ok := seen[e]; ok {
				continue
			}
			seen[e] = struct{}{}
			edges = append(edges, e)
		}
	}
	return edges
}

// GetBounds returns the axis-aligned bounding box.
func (m *Mesh) GetBounds() (min, max math3d.Vec3) {
	return m.BoundsMin, m.BoundsMax
}

// Cube returns an axis-aligned cube of the given edge length centered on
// the origin. Each side has its own four vertices so normals, colors and
// texture coordinates are per face.
func Cube(size float64) *Mesh {
	h := size / 2
	sides := [6]struct {
		normal math3d.Vec3
		u, v   math3d.Vec3
		color  math3d.Vec4
	}{
		{math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V3(0, 1, 0), math3d.V4(1, 0, 0, 1)},
		{math3d.V3(-1, 0, 0), math3d.V3(0, 0, 1), math3d.V3(0, 1, 0), math3d.V4(0, 1, 1, 1)},
		{math3d.V3(0, 1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, -1), math3d.V4(0, 1, 0, 1)},
		{math3d.V3(0, -1, 0), math3d.V3(1, 0, 0), math3d.V3(0, 0, 1), math3d.V4(1, 0, 1, 1)},
		{math3d.V3(0, 0, 1), math3d.V3(1, 0, 0), math3d.V3(0, 1, 0), math3d.V4(0, 0, 1, 1)},
		{math3d.V3(0, 0, -1), math3d.V3(-1, 0, 0), math3d.V3(0, 1, 0), math3d.V4(1, 1, 0, 1)},
	}
	corners := [4][2]float64{{-1, -1}, {1, -1}, {1, 1}, {-1, 1}}

	m := NewMesh("cube")
	m.HasColors = true
	m.TexCoords = 1

	for _, s := range sides {
		base := len(m.Vertices)
		for _, c := range corners {
			pos := s.normal.Add(s.u.Scale(c[0])).Add(s.v.Scale(c[1])).Scale(h)
			mv := MeshVertex{Position: pos, Normal: s.normal, Color: s.color}
			mv.TexCoord[0] = math3d.V4((c[0]+1)/2, (c[1]+1)/2, 0, 1)
			m.Vertices = append(m.Vertices, mv)
		}
		m.Faces = append(m.Faces,
			Face{V: [3]int{base, base + 1, base + 2}},
			Face{V: [3]int{base, base + 2, base + 3}},
		)
	}

	m.CalculateBounds()
	return m
}
