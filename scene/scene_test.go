package scene

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSceneRejectsBadCounts(t *testing.T) {
	_, err := NewScene(0, 1)
	assert.Error(t, err)

	_, err = NewScene(-1, 1)
	assert.Error(t, err)

	_, err = NewScene(MaxInstances+1, 1)
	assert.Error(t, err)
}

func TestNewSceneCapacityBoundary(t *testing.T) {
	s, err := NewScene(MaxInstances, 1)
	require.NoError(t, err)
	assert.Len(t, s.CubePositions, MaxInstances)
}

func TestNewSceneLayout(t *testing.T) {
	s, err := NewScene(10, 42)
	require.NoError(t, err)

	require.Len(t, s.CubePositions, 10)
	assert.Equal(t, mgl32.Vec3{0, 0.5, 0}, s.CubePositions[0])
	assert.Equal(t, mgl32.Vec3{-3, 3, 0}, s.LightPosition)

	for i, p := range s.CubePositions[1:] {
		assert.GreaterOrEqual(t, p.X(), float32(-5), "cube %d", i+1)
		assert.LessOrEqual(t, p.X(), float32(5), "cube %d", i+1)
		assert.GreaterOrEqual(t, p.Y(), float32(1), "cube %d", i+1)
		assert.LessOrEqual(t, p.Y(), float32(5), "cube %d", i+1)
		assert.GreaterOrEqual(t, p.Z(), float32(-5), "cube %d", i+1)
		assert.LessOrEqual(t, p.Z(), float32(5), "cube %d", i+1)
	}
}

func TestNewSceneDeterministic(t *testing.T) {
	a, err := NewScene(20, 7)
	require.NoError(t, err)
	b, err := NewScene(20, 7)
	require.NoError(t, err)
	assert.Equal(t, a.CubePositions, b.CubePositions)

	c, err := NewScene(20, 8)
	require.NoError(t, err)
	assert.NotEqual(t, a.CubePositions, c.CubePositions)
}
