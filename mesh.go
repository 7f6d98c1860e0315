package meshview

import (
	"fmt"
)

// Mesh is an interleaved float vertex stream with an optional index list.
type Mesh struct {
	Vertices []float32
	Indices  []uint32
	Layout   []VertexAttrib
}

// PositionNormalLayout is 3 floats of position followed by 3 floats of normal.
var PositionNormalLayout = []VertexAttrib{
	{Index: 0, Size: 3, Stride: 6, Offset: 0},
	{Index: 1, Size: 3, Stride: 6, Offset: 3},
}

func (m Mesh) stride() int32 {
	if len(m.Layout) == 0 {
		return 0
	}
	return m.Layout[0].Stride
}

func (m Mesh) VertexCount() int32 {
	s := m.stride()
	if s == 0 {
		return 0
	}
	return int32(len(m.Vertices)) / s
}

// Validate checks that the stream length and every index fit the layout.
func (m Mesh) Validate() error {
	s := m.stride()
	if s <= 0 {
		return fmt.Errorf("mesh has no vertex layout")
	}
	for _, a := range m.Layout {
		if a.Stride != s || a.Offset+a.Size > s {
			return fmt.Errorf("attribute %d does not fit stride %d", a.Index, s)
		}
	}
	if len(m.Vertices)%int(s) != 0 {
		return fmt.Errorf("vertex stream length %d is not a multiple of stride %d", len(m.Vertices), s)
	}
	n := uint32(m.VertexCount())
	for i, idx := range m.Indices {
		if idx >= n {
			return fmt.Errorf("index %d at %d out of range (%d vertices)", idx, i, n)
		}
	}
	if len(m.Indices) == 0 && n%3 != 0 {
		return fmt.Errorf("%d vertices do not form whole triangles", n)
	}
	if len(m.Indices)%3 != 0 {
		return fmt.Errorf("%d indices do not form whole triangles", len(m.Indices))
	}
	return nil
}

// TriangleMesh is a single triangle in the z=0 plane facing +Z.
func TriangleMesh() Mesh {
	return Mesh{
		Vertices: []float32{
			-0.5, -0.5, 0.0, 0, 0, 1,
			0.5, -0.5, 0.0, 0, 0, 1,
			0.0, 0.5, 0.0, 0, 0, 1,
		},
		Layout: PositionNormalLayout,
	}
}

// CubeMesh is an axis-aligned cube centred on the origin with per-face
// normals, indexed as two triangles per face.
func CubeMesh(size float32) Mesh {
	h := size / 2
	faces := []struct {
		normal [3]float32
		corner [4][3]float32
	}{
		{[3]float32{0, 0, 1}, [4][3]float32{{-h, -h, h}, {h, -h, h}, {h, h, h}, {-h, h, h}}},
		{[3]float32{0, 0, -1}, [4][3]float32{{h, -h, -h}, {-h, -h, -h}, {-h, h, -h}, {h, h, -h}}},
		{[3]float32{1, 0, 0}, [4][3]float32{{h, -h, h}, {h, -h, -h}, {h, h, -h}, {h, h, h}}},
		{[3]float32{-1, 0, 0}, [4][3]float32{{-h, -h, -h}, {-h, -h, h}, {-h, h, h}, {-h, h, -h}}},
		{[3]float32{0, 1, 0}, [4][3]float32{{-h, h, h}, {h, h, h}, {h, h, -h}, {-h, h, -h}}},
		{[3]float32{0, -1, 0}, [4][3]float32{{-h, -h, -h}, {h, -h, -h}, {h, -h, h}, {-h, -h, h}}},
	}

	m := Mesh{Layout: PositionNormalLayout}
	for i, f := range faces {
		for _, c := range f.corner {
			m.Vertices = append(m.Vertices, c[0], c[1], c[2], f.normal[0], f.normal[1], f.normal[2])
		}
		base := uint32(i * 4)
		m.Indices = append(m.Indices, base, base+1, base+2, base, base+2, base+3)
	}
	return m
}

// BuiltinMeshNames lists the names BuiltinMesh accepts.
var BuiltinMeshNames = []string{"cube", "triangle"}

// BuiltinMesh returns a built-in mesh by name.
func BuiltinMesh(name string) (Mesh, error) {
	switch name {
	case "cube":
		return CubeMesh(1), nil
	case "triangle":
		return TriangleMesh(), nil
	default:
		return Mesh{}, fmt.Errorf("unknown mesh %q (want one of %v)", name, BuiltinMeshNames)
	}
}

// GpuMesh is a mesh uploaded into a vertex array.
type GpuMesh struct {
	vao, vbo, ebo uint32
	count         int32
	indexed       bool
}

func UploadMesh(backend Backend, m Mesh) (*GpuMesh, error) {
	if err := m.Validate(); err != nil {
		return nil, err
	}
	g := &GpuMesh{
		vao:     backend.CreateVertexArray(),
		vbo:     backend.CreateBuffer(),
		indexed: len(m.Indices) > 0,
	}
	backend.BindVertexArray(g.vao)
	backend.UploadVertices(g.vbo, m.Vertices, false)
	for _, a := range m.Layout {
		backend.EnableAttrib(a)
	}
	if g.indexed {
		g.ebo = backend.CreateBuffer()
		backend.UploadIndices(g.ebo, m.Indices)
		g.count = int32(len(m.Indices))
	} else {
		g.count = m.VertexCount()
	}
	backend.BindVertexArray(0)
	return g, nil
}

func (g *GpuMesh) Draw(backend Backend) {
	backend.BindVertexArray(g.vao)
	if g.indexed {
		backend.DrawElements(g.count)
	} else {
		backend.DrawArrays(0, g.count)
	}
}

func (g *GpuMesh) Delete(backend Backend) {
	if g.ebo != 0 {
		backend.DeleteBuffer(g.ebo)
	}
	backend.DeleteBuffer(g.vbo)
	backend.DeleteVertexArray(g.vao)
}
