package models

import (
	"encoding/binary"
	"errors"
	"fmt"
	"math"
	"path/filepath"

	"github.com/qmuntal/gltf"
	"github.com/taigrr/glclip/pkg/math3d"
)

var (
	// ErrExternalBuffer reports a buffer stored outside the document.
	ErrExternalBuffer = errors.New("external buffers not supported")
	// ErrAccessor reports an accessor whose layout cannot be decoded.
	ErrAccessor = errors.New("unsupported accessor")
)

// texCoordAttributes maps texture coordinate sets to glTF attributes.
var texCoordAttributes = [TexCoordSets]string{gltf.TEXCOORD_0, gltf.TEXCOORD_1}

// GLTFLoader loads GLTF/GLB files into Mesh format.
type GLTFLoader struct {
	// Options
	CalculateNormals bool
	SmoothNormals    bool
}

// NewGLTFLoader creates a new GLTF loader with default options.
func NewGLTFLoader() *GLTFLoader {
	return &GLTFLoader{
		CalculateNormals: true,
		SmoothNormals:    true,
	}
}

// LoadGLB loads a binary GLTF (.glb) file.
func LoadGLB(path string) (*Mesh, error) {
	return NewGLTFLoader().Load(path)
}

// Load loads a GLTF or GLB file and returns a Mesh.
func (l *GLTFLoader) Load(path string) (*Mesh, error) {
	doc, err := gltf.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open gltf: %w", err)
	}
	return l.LoadDocument(doc, filepath.Base(path))
}

// LoadDocument converts every triangle primitive of doc into one mesh.
func (l *GLTFLoader) LoadDocument(doc *gltf.Document, name string) (*Mesh, error) {
	mesh := NewMesh(name)
	mesh.TexCoords = TexCoordSets
	mesh.HasColors = true

	for _, m := range doc.Meshes {
		if err := l.processMesh(doc, m, mesh); err != nil {
			return nil, fmt.Errorf("process mesh %q: %w", m.Name, err)
		}
	}
	if len(mesh.Vertices) == 0 {
		mesh.TexCoords = 0
		mesh.HasColors = false
	}

	hasNormals := false
	for _, v := range mesh.Vertices {
		if v.Normal.Len() > 0.001 {
			hasNormals = true
			break
		}
	}

	if l.CalculateNormals && !hasNormals {
		if l.SmoothNormals {
			mesh.CalculateSmoothNormals()
		} else {
			mesh.CalculateNormals()
		}
	}

	mesh.CalculateBounds()
	return mesh, nil
}

// processMesh appends the geometry of a glTF mesh. Attribute sets are kept
// only if every primitive provides them.
func (l *GLTFLoader) processMesh(doc *gltf.Document, m *gltf.Mesh, mesh *Mesh) error {
	for _, prim := range m.Primitives {
		if prim.Mode != gltf.PrimitiveTriangles && prim.Mode != 0 {
			// Lines and points have no faces.
			continue
		}

		posIdx, ok := prim.Attributes[gltf.POSITION]
		if !ok {
			continue
		}
		positions, err := readFloats(doc, posIdx, 3)
		if err != nil {
			return fmt.Errorf("read positions: %w", err)
		}

		var normals [][4]float64
		if idx, ok := prim.Attributes[gltf.NORMAL]; ok {
			if normals, err = readFloats(doc, idx, 3); err != nil {
				return fmt.Errorf("read normals: %w", err)
			}
		}

		var texCoords [TexCoordSets][][4]float64
		for set, attr := range texCoordAttributes {
			idx, ok := prim.Attributes[attr]
			if !ok {
				mesh.TexCoords = min(mesh.TexCoords, set)
				continue
			}
			if texCoords[set], err = readFloats(doc, idx, 2); err != nil {
				return fmt.Errorf("read %s: %w", attr, err)
			}
		}

		var colors [][4]float64
		if idx, ok := prim.Attributes[gltf.COLOR_0]; ok {
			if colors, err = readFloats(doc, idx, 4); err != nil {
				return fmt.Errorf("read colors: %w", err)
			}
		} else {
			mesh.HasColors = false
		}

		baseVertex := len(mesh.Vertices)
		for i, p := range positions {
			v := MeshVertex{
				Position: math3d.V3(p[0], p[1], p[2]),
				Color:    math3d.V4(1, 1, 1, 1),
			}
			if i < len(normals) {
				v.Normal = math3d.V3(normals[i][0], normals[i][1], normals[i][2])
			}
			for set := range texCoords {
				if i < len(texCoords[set]) {
					uv := texCoords[set][i]
					// glTF puts V=0 at the top; flip for a bottom-left origin.
					v.TexCoord[set] = math3d.V4(uv[0], 1-uv[1], 0, 1)
				}
			}
			if i < len(colors) {
				v.Color = math3d.V4(colors[i][0], colors[i][1], colors[i][2], colors[i][3])
			}
			mesh.Vertices = append(mesh.Vertices, v)
		}

		var indices []int
		if prim.Indices != nil {
			if indices, err = readIndices(doc, *prim.Indices); err != nil {
				return fmt.Errorf("read indices: %w", err)
			}
		} else {
			indices = make([]int, len(positions))
			for i := range indices {
				indices[i] = i
			}
		}

		for i := 0; i+2 < len(indices); i += 3 {
			f := Face{V: [3]int{baseVertex + indices[i], baseVertex + indices[i+1], baseVertex + indices[i+2]}}
			for _, vi := range f.V {
				if vi >= len(mesh.Vertices) {
					return fmt.Errorf("index %d out of range: %w", vi-baseVertex, ErrAccessor)
				}
			}
			mesh.Faces = append(mesh.Faces, f)
		}
	}

	return nil
}

// componentCount returns the number of components per element.
func componentCount(t gltf.AccessorType) int {
	switch t {
	case gltf.AccessorScalar:
		return 1
	case gltf.AccessorVec2:
		return 2
	case gltf.AccessorVec3:
		return 3
	case gltf.AccessorVec4:
		return 4
	}
	return 0
}

// componentSize returns the byte size of one component.
func componentSize(c gltf.ComponentType) int {
	switch c {
	case gltf.ComponentByte, gltf.ComponentUbyte:
		return 1
	case gltf.ComponentShort, gltf.ComponentUshort:
		return 2
	case gltf.ComponentUint, gltf.ComponentFloat:
		return 4
	}
	return 0
}

// readFloats decodes a float or normalized integer accessor with at least
// want components. Missing trailing components (the alpha of a VEC3 color)
// read as 1.
func readFloats(doc *gltf.Document, accessorIdx, want int) ([][4]float64, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrAccessor)
	}
	accessor := doc.Accessors[accessorIdx]
	n := componentCount(accessor.Type)
	if n < min(want, 3) || n > 4 {
		return nil, fmt.Errorf("accessor %d type %v: %w", accessorIdx, accessor.Type, ErrAccessor)
	}
	if accessor.ComponentType != gltf.ComponentFloat && !accessor.Normalized {
		return nil, fmt.Errorf("accessor %d: integer data must be normalized: %w", accessorIdx, ErrAccessor)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	size := componentSize(accessor.ComponentType)
	result := make([][4]float64, accessor.Count)
	for i := range result {
		result[i] = [4]float64{0, 0, 0, 1}
		offset := i * stride
		for j := 0; j < n; j++ {
			result[i][j] = component(data[offset+j*size:], accessor.ComponentType)
		}
	}
	return result, nil
}

// component decodes one little-endian component, normalizing integers.
func component(b []byte, c gltf.ComponentType) float64 {
	switch c {
	case gltf.ComponentFloat:
		return float64(math.Float32frombits(binary.LittleEndian.Uint32(b)))
	case gltf.ComponentUbyte:
		return float64(b[0]) / 255
	case gltf.ComponentUshort:
		return float64(binary.LittleEndian.Uint16(b)) / 65535
	case gltf.ComponentByte:
		return math.Max(float64(int8(b[0]))/127, -1)
	case gltf.ComponentShort:
		return math.Max(float64(int16(binary.LittleEndian.Uint16(b)))/32767, -1)
	}
	return 0
}

// readIndices reads index data from a GLTF accessor.
func readIndices(doc *gltf.Document, accessorIdx int) ([]int, error) {
	if accessorIdx < 0 || accessorIdx >= len(doc.Accessors) {
		return nil, fmt.Errorf("accessor %d: %w", accessorIdx, ErrAccessor)
	}
	accessor := doc.Accessors[accessorIdx]
	if accessor.Type != gltf.AccessorScalar {
		return nil, fmt.Errorf("index accessor type %v: %w", accessor.Type, ErrAccessor)
	}

	data, stride, err := accessorBytes(doc, accessor)
	if err != nil {
		return nil, err
	}

	result := make([]int, accessor.Count)
	for i := range result {
		b := data[i*stride:]
		switch accessor.ComponentType {
		case gltf.ComponentUbyte:
			result[i] = int(b[0])
		case gltf.ComponentUshort:
			result[i] = int(binary.LittleEndian.Uint16(b))
		case gltf.ComponentUint:
			result[i] = int(binary.LittleEndian.Uint32(b))
		default:
			return nil, fmt.Errorf("index component %v: %w", accessor.ComponentType, ErrAccessor)
		}
	}
	return result, nil
}

// accessorBytes returns the bytes an accessor covers, starting at its
// first element, and the element stride.
func accessorBytes(doc *gltf.Document, accessor *gltf.Accessor) ([]byte, int, error) {
	if accessor.BufferView == nil {
		return nil, 0, fmt.Errorf("accessor has no buffer view: %w", ErrAccessor)
	}

	bufferView := doc.BufferViews[*accessor.BufferView]
	buffer := doc.Buffers[bufferView.Buffer]
	if buffer.URI != "" && len(buffer.Data) == 0 {
		return nil, 0, ErrExternalBuffer
	}

	elemSize := componentCount(accessor.Type) * componentSize(accessor.ComponentType)
	if elemSize == 0 {
		return nil, 0, fmt.Errorf("accessor %v/%v: %w", accessor.Type, accessor.ComponentType, ErrAccessor)
	}
	stride := bufferView.ByteStride
	if stride == 0 {
		stride = elemSize
	}

	start := bufferView.ByteOffset + accessor.ByteOffset
	end := start
	if accessor.Count > 0 {
		end = start + (accessor.Count-1)*stride + elemSize
	}
	if end > len(buffer.Data) {
		return nil, 0, fmt.Errorf("accessor reads past buffer end (%d > %d): %w", end, len(buffer.Data), ErrAccessor)
	}
	return buffer.Data[start:end], stride, nil
}
