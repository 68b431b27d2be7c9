package opengl

import (
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
)

func TestTransformBlockSize(t *testing.T) {
	// mat3x4 (48 bytes) followed by mat4 (64 bytes), no padding between.
	assert.Equal(t, 112, TransformBlockSize)
	assert.Equal(t, 48, projectionOffset)
}

func TestPackTransformBlockLayout(t *testing.T) {
	view := mgl32.LookAtV(
		mgl32.Vec3{-3, 3, -5},
		mgl32.Vec3{0, 0, 0},
		mgl32.Vec3{0, 1, 0})
	proj := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100)

	packed := PackTransformBlock(view, proj)

	// First 12 floats are the view matrix rows, i.e. the transpose.
	for row := 0; row < 3; row++ {
		for col := 0; col < 4; col++ {
			assert.Equal(t, view.At(row, col), packed[row*4+col],
				"view row %d col %d", row, col)
		}
	}

	// Projection follows, untransposed, at the 48-byte offset.
	assert.Equal(t, proj[:], packed[projectionOffset/4:])
}
