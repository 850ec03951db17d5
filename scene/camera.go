package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
)

const maxPitch = 89 * math.Pi / 180

// Camera is the viewer's eye. With zero yaw and pitch it looks down -Z.
type Camera struct {
	position mgl64.Vec3
	yaw      float64
	pitch    float64
}

func NewCamera(position mgl64.Vec3) *Camera {
	return &Camera{position: position}
}

func (c *Camera) WorldPosition() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{}
	}
	return c.position
}

func (c *Camera) SetWorldPosition(p mgl64.Vec3) {
	if c == nil {
		return
	}
	c.position = p
}

// Forward is the unit view direction.
func (c *Camera) Forward() mgl64.Vec3 {
	if c == nil {
		return mgl64.Vec3{0, 0, -1}
	}
	cp := math.Cos(c.pitch)
	return mgl64.Vec3{
		-math.Sin(c.yaw) * cp,
		math.Sin(c.pitch),
		-math.Cos(c.yaw) * cp,
	}
}

func (c *Camera) Yaw() float64 {
	if c == nil {
		return 0
	}
	return c.yaw
}

func (c *Camera) Pitch() float64 {
	if c == nil {
		return 0
	}
	return c.pitch
}

// Turn adds to yaw and pitch. Pitch stays short of straight up or down.
func (c *Camera) Turn(dYaw, dPitch float64) {
	if c == nil {
		return
	}
	c.yaw = math.Mod(c.yaw+dYaw, 2*math.Pi)
	c.pitch = common.Clamp(c.pitch+dPitch, -maxPitch, maxPitch)
}

// LookAt aims the camera at target. Looking at its own position is a no-op.
func (c *Camera) LookAt(target mgl64.Vec3) {
	if c == nil {
		return
	}
	d := target.Sub(c.position)
	if d.Len() == 0 {
		return
	}
	c.yaw = math.Atan2(-d[0], -d[2])
	c.pitch = common.Clamp(math.Atan2(d[1], math.Hypot(d[0], d[2])), -maxPitch, maxPitch)
}
