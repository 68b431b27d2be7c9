package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateQuad(t *testing.T) {
	q := CreateQuad()

	require.Len(t, q.Vertices, 4)
	require.Len(t, q.Indices, 6)
	assert.Equal(t, int32(6), q.IndexCount())

	for _, v := range q.Vertices {
		assert.Equal(t, mgl32.Vec3{0, 1, 0}, v.Normal)
		assert.Equal(t, mgl32.Vec3{1, 0, 0}, v.Tangent)
		assert.Equal(t, float32(0), v.Position.Y())
		assert.InDelta(t, 1, stdAbs(v.Position.X()), 1e-6)
		assert.InDelta(t, 1, stdAbs(v.Position.Z()), 1e-6)
	}

	assertOutwardWinding(t, q)
}

func TestCreateCube(t *testing.T) {
	c := CreateCube()

	require.Len(t, c.Vertices, 24)
	require.Len(t, c.Indices, 36)

	for i, v := range c.Vertices {
		// Corner of a unit cube: every coordinate is at half extent.
		assert.InDelta(t, 0.5, stdAbs(v.Position.X()), 1e-6, "vertex %d", i)
		assert.InDelta(t, 0.5, stdAbs(v.Position.Y()), 1e-6, "vertex %d", i)
		assert.InDelta(t, 0.5, stdAbs(v.Position.Z()), 1e-6, "vertex %d", i)

		// Unit normal pointing through the vertex's face.
		assert.InDelta(t, 1, float64(v.Normal.Len()), 1e-6, "vertex %d", i)
		assert.InDelta(t, 0.5, float64(v.Normal.Dot(v.Position)), 1e-6, "vertex %d", i)

		// Tangent frame is orthogonal.
		assert.InDelta(t, 0, float64(v.Normal.Dot(v.Tangent)), 1e-6, "vertex %d", i)
	}

	assertOutwardWinding(t, c)
}

// assertOutwardWinding checks that every triangle is counter-clockwise
// when seen from the side its vertex normals point to, which is what
// back-face culling assumes.
func assertOutwardWinding(t *testing.T, m *Mesh) {
	t.Helper()
	require.Equal(t, 0, len(m.Indices)%3)

	for i := 0; i < len(m.Indices); i += 3 {
		a := m.Vertices[m.Indices[i]]
		b := m.Vertices[m.Indices[i+1]]
		c := m.Vertices[m.Indices[i+2]]

		face := b.Position.Sub(a.Position).Cross(c.Position.Sub(a.Position))
		assert.Greater(t, float64(face.Dot(a.Normal)), 0.0, "triangle %d", i/3)
	}
}

func stdAbs(f float32) float64 {
	if f < 0 {
		return float64(-f)
	}
	return float64(f)
}
