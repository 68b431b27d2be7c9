package scene

import (
	stdmath "math"

	"github.com/go-gl/mathgl/mgl32"
)

// MoveDirection is a bitmask of movement requests for one frame.
type MoveDirection int

const MoveNone MoveDirection = 0

const (
	MoveForward MoveDirection = 1 << iota
	MoveBackward
	MoveLeft
	MoveRight
	MoveUp
	MoveDown
)

const (
	mouseSensitivity = 0.25 // degrees per pixel of mouse movement
	maxPitch         = 89.0
)

// Camera is a free-flying camera. Orientation is tracked as yaw/pitch in
// degrees; the view matrix is rebuilt from them whenever queried.
type Camera struct {
	position mgl32.Vec3
	yaw      float32 // degrees, 0 = +X
	pitch    float32 // degrees, positive = looking up
	speed    float32

	projection mgl32.Mat4
}

func NewCamera() *Camera {
	return &Camera{
		speed:      5.0,
		projection: mgl32.Ident4(),
	}
}

// SetProjection rebuilds the projection matrix.
func (c *Camera) SetProjection(fovDeg, aspect, near, far float32) {
	c.projection = mgl32.Perspective(mgl32.DegToRad(fovDeg), aspect, near, far)
}

// SetTransformation places the camera at eye looking at target. Yaw and
// pitch are derived from the view direction so subsequent Move calls
// continue from this orientation. The up vector must not be parallel to
// the view direction.
func (c *Camera) SetTransformation(eye, target, up mgl32.Vec3) {
	c.position = eye
	dir := target.Sub(eye).Normalize()
	c.pitch = mgl32.RadToDeg(float32(stdmath.Asin(float64(dir.Y()))))
	c.yaw = mgl32.RadToDeg(float32(stdmath.Atan2(float64(dir.Z()), float64(dir.X()))))
}

// SetMovementSpeed sets the translation speed in units per second.
func (c *Camera) SetMovementSpeed(speed float32) {
	c.speed = speed
}

func (c *Camera) Position() mgl32.Vec3 {
	return c.position
}

// forward returns the unit view direction for the current yaw/pitch.
func (c *Camera) forward() mgl32.Vec3 {
	yaw := float64(mgl32.DegToRad(c.yaw))
	pitch := float64(mgl32.DegToRad(c.pitch))
	return mgl32.Vec3{
		float32(stdmath.Cos(yaw) * stdmath.Cos(pitch)),
		float32(stdmath.Sin(pitch)),
		float32(stdmath.Sin(yaw) * stdmath.Cos(pitch)),
	}
}

// Move applies one frame of movement: mouseDelta turns the camera
// (pixels, +y = down), direction translates it along the current view
// basis scaled by the movement speed and dt.
func (c *Camera) Move(direction MoveDirection, mouseDelta mgl32.Vec2, dt float32) {
	c.yaw += mouseDelta.X() * mouseSensitivity
	c.pitch -= mouseDelta.Y() * mouseSensitivity
	if c.pitch > maxPitch {
		c.pitch = maxPitch
	}
	if c.pitch < -maxPitch {
		c.pitch = -maxPitch
	}

	if direction == MoveNone {
		return
	}

	forward := c.forward()
	right := forward.Cross(mgl32.Vec3{0, 1, 0}).Normalize()
	up := mgl32.Vec3{0, 1, 0}

	var move mgl32.Vec3
	if direction&MoveForward != 0 {
		move = move.Add(forward)
	}
	if direction&MoveBackward != 0 {
		move = move.Sub(forward)
	}
	if direction&MoveRight != 0 {
		move = move.Add(right)
	}
	if direction&MoveLeft != 0 {
		move = move.Sub(right)
	}
	if direction&MoveUp != 0 {
		move = move.Add(up)
	}
	if direction&MoveDown != 0 {
		move = move.Sub(up)
	}

	if move.Len() > 0 {
		c.position = c.position.Add(move.Normalize().Mul(c.speed * dt))
	}
}

// WorldToView returns the view matrix.
func (c *Camera) WorldToView() mgl32.Mat4 {
	target := c.position.Add(c.forward())
	return mgl32.LookAtV(c.position, target, mgl32.Vec3{0, 1, 0})
}

// Projection returns the projection matrix.
func (c *Camera) Projection() mgl32.Mat4 {
	return c.projection
}

// ViewToWorld returns the inverse of the view matrix. Its fourth column
// is the camera position in world space.
func (c *Camera) ViewToWorld() mgl32.Mat4 {
	return c.WorldToView().Inv()
}
