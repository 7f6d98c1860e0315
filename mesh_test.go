package meshview

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMesh_Validate(t *testing.T) {
	require.NoError(t, TriangleMesh().Validate())
	require.NoError(t, CubeMesh(1).Validate())

	cases := map[string]Mesh{
		"no layout":         {Vertices: []float32{0, 0, 0}},
		"partial vertex":    {Vertices: make([]float32, 7), Layout: PositionNormalLayout},
		"index overflow":    {Vertices: make([]float32, 18), Indices: []uint32{0, 1, 3}, Layout: PositionNormalLayout},
		"partial triangle":  {Vertices: make([]float32, 12), Layout: PositionNormalLayout},
		"partial indices":   {Vertices: make([]float32, 18), Indices: []uint32{0, 1}, Layout: PositionNormalLayout},
		"attribute overrun": {Vertices: make([]float32, 18), Layout: []VertexAttrib{{Index: 0, Size: 3, Stride: 6, Offset: 4}}},
	}
	for name, m := range cases {
		assert.Error(t, m.Validate(), name)
	}
}

func TestCubeMesh(t *testing.T) {
	m := CubeMesh(2)

	assert.Equal(t, int32(24), m.VertexCount())
	assert.Len(t, m.Indices, 36)
	for i := 0; i < len(m.Vertices); i += 6 {
		for _, c := range m.Vertices[i : i+3] {
			assert.Equal(t, float32(1), abs32(c), "corner at half the edge length")
		}
		n := m.Vertices[i+3 : i+6]
		assert.Equal(t, float32(1), abs32(n[0])+abs32(n[1])+abs32(n[2]), "axis-aligned unit normal")
	}
}

func abs32(f float32) float32 {
	if f < 0 {
		return -f
	}
	return f
}

func TestUploadMesh(t *testing.T) {
	b := newFakeBackend()

	cube, err := UploadMesh(b, CubeMesh(1))
	require.NoError(t, err)
	assert.True(t, cube.indexed)
	assert.NotZero(t, cube.ebo)
	cube.Draw(b)

	tri, err := UploadMesh(b, TriangleMesh())
	require.NoError(t, err)
	assert.False(t, tri.indexed)
	tri.Draw(b)

	assert.Equal(t, []int32{36, 3}, b.draws)

	_, err = UploadMesh(b, Mesh{})
	assert.Error(t, err)
}

func TestBuiltinMesh(t *testing.T) {
	for _, name := range BuiltinMeshNames {
		m, err := BuiltinMesh(name)
		require.NoError(t, err, name)
		assert.NoError(t, m.Validate(), name)
	}

	tri, err := BuiltinMesh("triangle")
	require.NoError(t, err)
	assert.Equal(t, TriangleMesh(), tri)

	cube, err := BuiltinMesh("cube")
	require.NoError(t, err)
	assert.Len(t, cube.Indices, 36)

	_, err = BuiltinMesh("teapot")
	assert.ErrorContains(t, err, `unknown mesh "teapot"`)
}
