package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"shading-demo/scene"
)

func TestInstanceSize(t *testing.T) {
	// 3 rows of 4 floats, no padding.
	assert.Equal(t, 48, InstanceSize)
}

func TestPackInstanceRoundTrip(t *testing.T) {
	world := mgl32.Translate3D(1, 2, 3).
		Mul4(mgl32.HomogRotate3D(0.7, mgl32.Vec3{0, 1, 0}))

	got := UnpackInstance(PackInstance(world))

	assert.Equal(t, world, got)
}

func TestPackInstanceIsTransposed(t *testing.T) {
	world := mgl32.Translate3D(4, 5, 6)
	d := PackInstance(world)

	// The translation column becomes the fourth element of each row.
	assert.Equal(t, float32(4), d.Transform[3])
	assert.Equal(t, float32(5), d.Transform[7])
	assert.Equal(t, float32(6), d.Transform[11])
	// Diagonal stays on the diagonal.
	assert.Equal(t, float32(1), d.Transform[0])
	assert.Equal(t, float32(1), d.Transform[5])
	assert.Equal(t, float32(1), d.Transform[10])
}

func TestPackInstancesFirstIsPureTranslation(t *testing.T) {
	positions := []mgl32.Vec3{{1, 2, 3}, {4, 5, 6}}
	dst := make([]InstanceData, len(positions))

	n := PackInstances(dst, positions)
	require.Equal(t, 2, n)

	want := mgl32.Translate3D(1, 2, 3)
	got := UnpackInstance(dst[0])
	assert.True(t, want.ApproxEqualThreshold(got, 1e-6), "index 0 should carry no rotation")
}

func TestPackInstancesRotationPreservesPosition(t *testing.T) {
	positions := []mgl32.Vec3{{0, 0.5, 0}, {4, 5, 6}}
	dst := make([]InstanceData, len(positions))
	PackInstances(dst, positions)

	m := UnpackInstance(dst[1])

	// Rotation happens about the cube's own origin: the translation
	// column is the raw position.
	col := m.Col(3)
	assert.InDelta(t, 4, col.X(), 1e-6)
	assert.InDelta(t, 5, col.Y(), 1e-6)
	assert.InDelta(t, 6, col.Z(), 1e-6)

	// The linear part is a pure rotation: lengths survive.
	v := m.Mat3().Mul3x1(mgl32.Vec3{1, 0, 0})
	assert.InDelta(t, 1, float64(v.Len()), 1e-6)

	// And it is an actual rotation, not identity.
	assert.False(t, m.Mat3().ApproxEqualThreshold(mgl32.Ident3(), 1e-3))
}

func TestPackInstancesFullCapacity(t *testing.T) {
	positions := make([]mgl32.Vec3, scene.MaxInstances)
	dst := make([]InstanceData, scene.MaxInstances)
	assert.Equal(t, scene.MaxInstances, PackInstances(dst, positions))
}
