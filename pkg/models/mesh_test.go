package models

import (
	"math"
	"testing"

	"github.com/taigrr/glclip/pkg/math3d"
)

func TestCube(t *testing.T) {
	m := Cube(2)

	if m.VertexCount() != 24 || m.TriangleCount() != 12 {
		t.Fatalf("vertices = %d, faces = %d", m.VertexCount(), m.TriangleCount())
	}
	if m.BoundsMin != math3d.V3(-1, -1, -1) || m.BoundsMax != math3d.V3(1, 1, 1) {
		t.Errorf("bounds = %+v .. %+v", m.BoundsMin, m.BoundsMax)
	}
	if m.Center() != math3d.V3(0, 0, 0) || m.Size() != math3d.V3(2, 2, 2) {
		t.Errorf("center = %+v, size = %+v", m.Center(), m.Size())
	}

	// Every face winds counter-clockwise around its stored normal.
	for i, f := range m.Faces {
		n := m.faceNormal(f).Normalize()
		if want := m.Vertices[f.V[0]].Normal; n.Sub(want).Len() > 1e-12 {
			t.Errorf("face %d normal = %+v, want %+v", i, n, want)
		}
	}
}

func TestMeshEdges(t *testing.T) {
	m := NewMesh("quad")
	m.Vertices = make([]MeshVertex, 4)
	m.Faces = []Face{{V: [3]int{0, 1, 2}}, {V: [3]int{0, 2, 3}}}

	edges := m.Edges()
	want := [][2]int{{0, 1}, {1, 2}, {0, 2}, {2, 3}, {0, 3}}
	if len(edges) != len(want) {
		t.Fatalf("edges = %v, want %v", edges, want)
	}
	for i := range want {
		if edges[i] != want[i] {
			t.Errorf("edges = %v, want %v", edges, want)
			break
		}
	}

	if n := len(Cube(1).Edges()); n != 30 {
		t.Errorf("cube edges = %d, want 30", n)
	}
}

func TestCalculateNormals(t *testing.T) {
	m := NewMesh("tri")
	m.Vertices = []MeshVertex{
		{Position: math3d.V3(0, 0, 0)},
		{Position: math3d.V3(1, 0, 0)},
		{Position: math3d.V3(0, 0, -1)},
	}
	m.Faces = []Face{{V: [3]int{0, 1, 2}}}

	m.CalculateNormals()
	for i, v := range m.Vertices {
		if math.Abs(v.Normal.Y-1) > 1e-12 {
			t.Errorf("flat normal %d = %+v, want +Y", i, v.Normal)
		}
	}

	m.CalculateSmoothNormals()
	if math.Abs(m.Vertices[0].Normal.Len()-1) > 1e-12 {
		t.Errorf("smooth normal not unit length: %+v", m.Vertices[0].Normal)
	}
}

func TestCalculateBoundsEmpty(t *testing.T) {
	m := NewMesh("empty")
	m.CalculateBounds()
	lo, hi := m.GetBounds()
	if lo != (math3d.Vec3{}) || hi != (math3d.Vec3{}) {
		t.Errorf("empty bounds = %+v .. %+v", lo, hi)
	}
}
