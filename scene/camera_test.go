package scene

import (
	stdmath "math"
	"testing"

	"github.com/go-gl/mathgl/mgl32"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCameraProjection(t *testing.T) {
	c := NewCamera()
	c.SetProjection(45, 800.0/600.0, 0.1, 100)

	want := mgl32.Perspective(mgl32.DegToRad(45), 800.0/600.0, 0.1, 100)
	assert.Equal(t, want, c.Projection())
}

func TestCameraSetTransformation(t *testing.T) {
	eye := mgl32.Vec3{-3, 3, -5}
	target := mgl32.Vec3{0, 0, 0}
	up := mgl32.Vec3{0, 1, 0}

	c := NewCamera()
	c.SetTransformation(eye, target, up)

	want := mgl32.LookAtV(eye, target, up)
	got := c.WorldToView()
	assert.True(t, want.ApproxEqualThreshold(got, 1e-5),
		"want\n%v\ngot\n%v", want, got)
}

func TestCameraViewToWorldIsInverse(t *testing.T) {
	c := NewCamera()
	c.SetTransformation(mgl32.Vec3{2, 4, -1}, mgl32.Vec3{0, 1, 3}, mgl32.Vec3{0, 1, 0})

	prod := c.WorldToView().Mul4(c.ViewToWorld())
	assert.True(t, prod.ApproxEqualThreshold(mgl32.Ident4(), 1e-5))

	// The inverse view's fourth column is the camera position.
	pos := c.ViewToWorld().Col(3)
	assert.InDelta(t, 2, pos.X(), 1e-5)
	assert.InDelta(t, 4, pos.Y(), 1e-5)
	assert.InDelta(t, -1, pos.Z(), 1e-5)
}

func TestCameraMoveForward(t *testing.T) {
	c := NewCamera()
	c.SetTransformation(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	c.SetMovementSpeed(5)

	c.Move(MoveForward, mgl32.Vec2{}, 2)

	pos := c.Position()
	assert.InDelta(t, 10, pos.X(), 1e-4)
	assert.InDelta(t, 0, pos.Y(), 1e-4)
	assert.InDelta(t, 0, pos.Z(), 1e-4)
}

func TestCameraMoveDiagonalIsNormalized(t *testing.T) {
	c := NewCamera()
	c.SetTransformation(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	c.SetMovementSpeed(5)

	c.Move(MoveForward|MoveRight, mgl32.Vec2{}, 1)

	// Two directions at once still cover speed*dt distance.
	assert.InDelta(t, 5, float64(c.Position().Len()), 1e-4)
}

func TestCameraOpposingDirectionsCancel(t *testing.T) {
	c := NewCamera()
	c.SetTransformation(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})

	c.Move(MoveForward|MoveBackward, mgl32.Vec2{}, 1)

	assert.Equal(t, mgl32.Vec3{0, 0, 0}, c.Position())
}

func TestCameraPitchClamp(t *testing.T) {
	c := NewCamera()
	c.SetTransformation(mgl32.Vec3{0, 0, 0}, mgl32.Vec3{1, 0, 0}, mgl32.Vec3{0, 1, 0})
	c.SetMovementSpeed(1)

	// Drag the mouse far downward; pitch must stop at the clamp instead
	// of flipping over.
	c.Move(MoveNone, mgl32.Vec2{0, 1e6}, 0)
	c.Move(MoveForward, mgl32.Vec2{}, 1)

	wantY := -stdmath.Sin(89 * stdmath.Pi / 180)
	require.InDelta(t, wantY, float64(c.Position().Y()), 1e-4)
}
