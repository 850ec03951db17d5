package physics

import (
	"errors"
	"fmt"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/physics/engine"
)

// CreateGround adds a static box with half-extents size centered at position.
func (pw *PhysicsWorld) CreateGround(size, position mgl64.Vec3, node Poser) (Handle, error) {
	return pw.createBody(engine.Box(size), position, 0, node)
}

// CreateBox adds a box with half-extents size. Mass 0 makes it static.
func (pw *PhysicsWorld) CreateBox(size, position mgl64.Vec3, mass float64, node Poser) (Handle, error) {
	return pw.createBody(engine.Box(size), position, mass, node)
}

// CreateCylinder adds an upright cylinder. extents is (radius, half-height,
// radius).
func (pw *PhysicsWorld) CreateCylinder(extents, position mgl64.Vec3, mass float64, node Poser) (Handle, error) {
	return pw.createBody(engine.Cylinder(extents), position, mass, node)
}

func (pw *PhysicsWorld) CreateSphere(radius float64, position mgl64.Vec3, mass float64, node Poser) (Handle, error) {
	return pw.createBody(engine.Sphere(radius), position, mass, node)
}

// CreateBoxFromEye creates a box and immediately pushes it with an impulse
// of direction*force. direction is used as given.
func (pw *PhysicsWorld) CreateBoxFromEye(size, position, direction mgl64.Vec3, mass, force float64, node Poser) (Handle, error) {
	h, err := pw.CreateBox(size, position, mass, node)
	if err != nil {
		return NoHandle, err
	}
	pw.ApplyImpulse(h, direction, force)
	return h, nil
}

func (pw *PhysicsWorld) CreateCylinderFromEye(extents, position, direction mgl64.Vec3, mass, force float64, node Poser) (Handle, error) {
	h, err := pw.CreateCylinder(extents, position, mass, node)
	if err != nil {
		return NoHandle, err
	}
	pw.ApplyImpulse(h, direction, force)
	return h, nil
}

func (pw *PhysicsWorld) CreateSphereFromEye(radius float64, position, direction mgl64.Vec3, mass, force float64, node Poser) (Handle, error) {
	h, err := pw.CreateSphere(radius, position, mass, node)
	if err != nil {
		return NoHandle, err
	}
	pw.ApplyImpulse(h, direction, force)
	return h, nil
}

// ApplyImpulse changes the body's momentum by direction*force at its center.
// Static bodies ignore it. It reports whether h named a live body.
func (pw *PhysicsWorld) ApplyImpulse(h Handle, direction mgl64.Vec3, force float64) bool {
	rec, ok := pw.lookup(h)
	if !ok {
		return false
	}
	impulse := direction.Mul(force)
	if impulse == (mgl64.Vec3{}) || !common.FiniteVec(impulse) {
		return true
	}
	rec.body.ApplyImpulse(impulse)
	return true
}

func (pw *PhysicsWorld) createBody(shape engine.Shape, position mgl64.Vec3, mass float64, node Poser) (Handle, error) {
	if pw == nil || pw.engine == nil {
		return NoHandle, ErrNotInitialized
	}

	body, err := pw.engine.AddBody(engine.BodyDesc{
		Shape:         shape,
		Position:      position,
		Mass:          mass,
		Friction:      pw.cfg.Friction,
		Restitution:   pw.cfg.Restitution,
		LinearDamping: pw.cfg.LinearDamping,
	})
	if err != nil {
		if errors.Is(err, engine.ErrInvalidMass) {
			err = ErrNegativeMass
		}
		pw.logf("PhysicsWorld: create %s mass=%.2f failed: %v", shape.Kind, mass, err)
		return NoHandle, fmt.Errorf("physics: create %s: %w", shape.Kind, err)
	}

	h := pw.bodies.insert(body, node)
	if node != nil {
		node.SetWorldPosition(body.Position())
		node.SetWorldRotation(body.Rotation())
	}
	return h, nil
}
