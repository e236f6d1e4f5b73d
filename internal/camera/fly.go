package camera

import (
	"math"

	"github.com/go-gl/mathgl/mgl32"

	"voxland/internal/input"
)

const (
	maxPitch    = 89.0
	sensitivity = 0.1
)

// Controls is the subset of the input manager the camera reads.
type Controls interface {
	IsActive(action input.Action) bool
	ConsumeMouseDelta() (dx, dy float64)
}

// FlyCamera is a free-flying viewpoint with no collision. It steps at the
// fixed tick rate and keeps the previous position for interpolated rendering.
type FlyCamera struct {
	Position     mgl32.Vec3
	PrevPosition mgl32.Vec3
	Yaw, Pitch   float64 // degrees

	Speed     float32 // blocks per second
	FastSpeed float32
}

func NewFlyCamera(pos mgl32.Vec3) *FlyCamera {
	return &FlyCamera{
		Position:     pos,
		PrevPosition: pos,
		Yaw:          -90,
		Speed:        12,
		FastSpeed:    48,
	}
}

// Look applies mouse movement in screen pixels.
func (c *FlyCamera) Look(dx, dy float64) {
	c.Yaw += dx * sensitivity
	c.Pitch -= dy * sensitivity

	// Constrain pitch
	if c.Pitch > maxPitch {
		c.Pitch = maxPitch
	}
	if c.Pitch < -maxPitch {
		c.Pitch = -maxPitch
	}
}

// Front returns the unit view direction.
func (c *FlyCamera) Front() mgl32.Vec3 {
	yaw, pitch := mgl32.DegToRad(float32(c.Yaw)), mgl32.DegToRad(float32(c.Pitch))
	return mgl32.Vec3{
		float32(math.Cos(float64(yaw)) * math.Cos(float64(pitch))),
		float32(math.Sin(float64(pitch))),
		float32(math.Sin(float64(yaw)) * math.Cos(float64(pitch))),
	}.Normalize()
}

// Step advances one fixed tick of dt seconds.
func (c *FlyCamera) Step(dt float64, in Controls) {
	c.PrevPosition = c.Position
	c.Look(in.ConsumeMouseDelta())

	front := c.Front()
	flat := mgl32.Vec3{front.X(), 0, front.Z()}
	if flat.Len() > 0 {
		flat = flat.Normalize()
	}
	right := flat.Cross(mgl32.Vec3{0, 1, 0})

	var move mgl32.Vec3
	if in.IsActive(input.ActionMoveForward) {
		move = move.Add(flat)
	}
	if in.IsActive(input.ActionMoveBackward) {
		move = move.Sub(flat)
	}
	if in.IsActive(input.ActionMoveRight) {
		move = move.Add(right)
	}
	if in.IsActive(input.ActionMoveLeft) {
		move = move.Sub(right)
	}
	if in.IsActive(input.ActionMoveUp) {
		move = move.Add(mgl32.Vec3{0, 1, 0})
	}
	if in.IsActive(input.ActionMoveDown) {
		move = move.Sub(mgl32.Vec3{0, 1, 0})
	}
	if move.Len() == 0 {
		return
	}

	speed := c.Speed
	if in.IsActive(input.ActionFast) {
		speed = c.FastSpeed
	}
	c.Position = c.Position.Add(move.Normalize().Mul(speed * float32(dt)))
}

// Interpolated returns the render position between the last two ticks.
func (c *FlyCamera) Interpolated(alpha float64) mgl32.Vec3 {
	a := float32(alpha)
	return c.PrevPosition.Mul(1 - a).Add(c.Position.Mul(a))
}

// ViewMatrix looks along Front from the interpolated position.
func (c *FlyCamera) ViewMatrix(alpha float64) mgl32.Mat4 {
	eye := c.Interpolated(alpha)
	return mgl32.LookAtV(eye, eye.Add(c.Front()), mgl32.Vec3{0, 1, 0})
}
