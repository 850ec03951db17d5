package rigid

import (
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/physics/engine"
)

// Body is a feather rigid body owned by a Space.
type Body struct {
	space *Space
	rb    *actor.RigidBody
	shape engine.Shape
	mass  float64
}

func (b *Body) Position() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.rb.Transform.Position
}

func (b *Body) Rotation() mgl64.Quat {
	if b == nil {
		return mgl64.QuatIdent()
	}
	return b.rb.Transform.Rotation
}

func (b *Body) Velocity() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.rb.Velocity
}

func (b *Body) AngularVelocity() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.rb.AngularVelocity
}

// ApplyImpulse changes the velocity by impulse/mass and wakes the body.
// Static bodies and non-finite impulses are ignored.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	if b == nil || b.mass == 0 || !common.FiniteVec(impulse) {
		return
	}
	b.rb.WakeUp()
	b.rb.Velocity = b.rb.Velocity.Add(impulse.Mul(1 / b.mass))
}

func (b *Body) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}

func (b *Body) Static() bool {
	return b == nil || b.mass == 0
}

func (b *Body) Sleeping() bool {
	return b != nil && b.rb.IsSleeping
}

func (b *Body) Shape() engine.Shape {
	if b == nil {
		return engine.Shape{}
	}
	return b.shape
}

func (b *Body) LocalInertia() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	return b.shape.LocalInertia(b.mass)
}
