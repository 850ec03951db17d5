// Package rigid is the 3D backend. Bodies live in a feather world, which
// runs the broad phase, GJK/EPA contacts and the XPBD solver with full
// rotational dynamics.
package rigid

import (
	"github.com/akmonengine/feather"
	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics/engine"
)

const (
	gridCellSize = 4.0
	gridCells    = 4096

	angularDamping = 0.05
)

// Space owns a feather world and feeds it fixed steps.
type Space struct {
	world  *feather.World
	clock  engine.Clock
	closed bool
}

var _ engine.Engine = (*Space)(nil)

// New builds a space. SolverIterations becomes feather's substep count.
func New(cfg engine.Config) *Space {
	substeps := cfg.SolverIterations
	if substeps <= 0 {
		substeps = engine.DefaultSolverIterations
	}
	return &Space{
		world: &feather.World{
			Gravity:     cfg.Gravity,
			Substeps:    substeps,
			SpatialGrid: feather.NewSpatialGrid(gridCellSize, gridCells),
			Workers:     feather.DEFAULT_WORKERS,
			Events:      feather.NewEvents(),
		},
		clock: engine.NewClock(cfg.FixedTimeStep, cfg.MaxSubSteps),
	}
}

func (s *Space) AddBody(desc engine.BodyDesc) (engine.Body, error) {
	if s == nil || s.closed {
		return nil, engine.ErrClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	shape, volume := collider(desc.Shape)
	transform := actor.Transform{
		Position:        desc.Position,
		Rotation:        mgl64.QuatIdent(),
		InverseRotation: mgl64.QuatIdent(),
	}

	kind, density := actor.BodyTypeStatic, 0.0
	if desc.Mass > 0 {
		kind, density = actor.BodyTypeDynamic, desc.Mass/volume
	}
	rb := actor.NewRigidBody(transform, shape, kind, density)
	rb.Material.Restitution = desc.Restitution
	rb.Material.StaticFriction = desc.Friction
	rb.Material.DynamicFriction = desc.Friction
	if kind == actor.BodyTypeDynamic {
		rb.Material.LinearDamping = desc.LinearDamping
		rb.Material.AngularDamping = angularDamping
	}

	b := &Body{space: s, rb: rb, shape: desc.Shape, mass: desc.Mass}
	rb.Id = b
	s.world.AddBody(rb)
	return b, nil
}

// collider maps a shape onto a feather collider and returns its volume.
func collider(s engine.Shape) (actor.ShapeInterface, float64) {
	e := s.Extents
	switch s.Kind {
	case engine.ShapeSphere:
		sphere := &actor.Sphere{Radius: e[0]}
		return sphere, sphere.ComputeMass(1)
	case engine.ShapeCylinder:
		cyl := &Cylinder{Radius: e[0], HalfHeight: e[1]}
		return cyl, cyl.ComputeMass(1)
	default:
		box := &actor.Box{HalfExtents: e}
		return box, box.ComputeMass(1)
	}
}

// RemoveBody drops body from the space. Bodies from another space, or ones
// already removed, are ignored.
func (s *Space) RemoveBody(body engine.Body) {
	b, ok := body.(*Body)
	if s == nil || !ok || b == nil || b.space != s {
		return
	}
	s.world.RemoveBody(b.rb)
	b.space = nil
}

func (s *Space) BodyCount() int {
	if s == nil || s.world == nil {
		return 0
	}
	return len(s.world.Bodies)
}

func (s *Space) Close() {
	if s == nil || s.closed {
		return
	}
	for _, rb := range s.world.Bodies {
		if b, ok := rb.Id.(*Body); ok {
			b.space = nil
		}
	}
	s.world.Bodies = nil
	s.closed = true
}

func (s *Space) Step(dt float64) {
	if s == nil || s.closed {
		return
	}
	n := s.clock.Advance(dt)
	for i := 0; i < n; i++ {
		s.world.Step(s.clock.Fixed)
	}
}
