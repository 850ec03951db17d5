// Package engine defines the contract between the physics world and the
// simulation backends that integrate bodies.
package engine

import (
	"errors"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
)

var (
	ErrInvalidShape = errors.New("invalid shape dimensions")
	ErrInvalidMass  = errors.New("mass must be finite and non-negative")
	ErrClosed       = errors.New("engine closed")
)

// Config carries the tunables every backend understands.
type Config struct {
	Gravity          mgl64.Vec3
	FixedTimeStep    float64
	MaxSubSteps      int
	SolverIterations int
}

// BodyDesc describes a body to be added. Mass 0 makes it static.
type BodyDesc struct {
	Shape         Shape
	Position      mgl64.Vec3
	Mass          float64
	Friction      float64
	Restitution   float64
	LinearDamping float64
}

// Body is a backend-owned simulated body.
type Body interface {
	Position() mgl64.Vec3
	Rotation() mgl64.Quat
	Velocity() mgl64.Vec3
	ApplyImpulse(impulse mgl64.Vec3)
	Mass() float64
	Static() bool
}

// Engine advances a set of bodies through time.
type Engine interface {
	AddBody(desc BodyDesc) (Body, error)
	RemoveBody(body Body)
	Step(dt float64)
	BodyCount() int
	Close()
}

func (d BodyDesc) Validate() error {
	if err := d.Shape.Validate(); err != nil {
		return err
	}
	if d.Mass < 0 || !common.IsFinite(d.Mass) {
		return ErrInvalidMass
	}
	if !common.FiniteVec(d.Position) {
		return ErrInvalidShape
	}
	return nil
}
