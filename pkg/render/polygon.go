package render

// Polygon is an ordered, cyclic ring of vertices. The length of Vertices is
// the vertex count; its capacity is fixed by NewPolygon and bounds how far
// clipping may grow the ring.
//
// The clipper rewrites the ring in place. Vertices it generates live in the
// clipper's scratch arena and stay valid only until its next ClipPolygon
// call.
type Polygon struct {
	Vertices []*Vertex
}

// NewPolygon creates an empty polygon able to hold capacity vertices.
func NewPolygon(capacity int) *Polygon {
	return &Polygon{Vertices: make([]*Vertex, 0, capacity)}
}

// Add appends v to the ring. It returns false when the polygon is full.
func (p *Polygon) Add(v *Vertex) bool {
	if len(p.Vertices) == cap(p.Vertices) {
		return false
	}
	p.Vertices = append(p.Vertices, v)
	return true
}

// Len returns the vertex count.
func (p *Polygon) Len() int {
	return len(p.Vertices)
}

// Reset empties the ring, keeping its storage.
func (p *Polygon) Reset() {
	clear(p.Vertices)
	p.Vertices = p.Vertices[:0]
}
