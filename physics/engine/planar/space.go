// Package planar simulates bodies on the XY plane with Chipmunk2D. The Z
// coordinate of each body is carried through unchanged.
package planar

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/jakecoffman/cp"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/physics/engine"
)

type Space struct {
	space  *cp.Space
	clock  engine.Clock
	bodies map[*Body]struct{}
	closed bool
}

var _ engine.Engine = (*Space)(nil)

func New(cfg engine.Config) *Space {
	space := cp.NewSpace()
	iterations := cfg.SolverIterations
	if iterations <= 0 {
		iterations = engine.DefaultSolverIterations
	}
	space.Iterations = uint(iterations)
	space.SetGravity(toVector(cfg.Gravity))

	return &Space{
		space:  space,
		clock:  engine.NewClock(cfg.FixedTimeStep, cfg.MaxSubSteps),
		bodies: make(map[*Body]struct{}),
	}
}

// CPSpace exposes the underlying space for debug drawing.
func (s *Space) CPSpace() *cp.Space {
	if s == nil || s.closed {
		return nil
	}
	return s.space
}

func (s *Space) AddBody(desc engine.BodyDesc) (engine.Body, error) {
	if s == nil || s.closed {
		return nil, engine.ErrClosed
	}
	if err := desc.Validate(); err != nil {
		return nil, err
	}

	b := &Body{space: s, z: desc.Position[2], mass: desc.Mass, kind: desc.Shape.Kind}
	bounds := desc.Shape.Bounds()
	w, h := 2*bounds[0], 2*bounds[1]
	center := toVector(desc.Position)

	if desc.Mass == 0 {
		var shape *cp.Shape
		if desc.Shape.Kind == engine.ShapeSphere {
			shape = cp.NewCircle(s.space.StaticBody, desc.Shape.Radius(), center)
		} else {
			bb := cp.BB{L: center.X - w/2, B: center.Y - h/2, R: center.X + w/2, T: center.Y + h/2}
			shape = cp.NewBox2(s.space.StaticBody, bb, 0)
		}
		shape.SetFriction(desc.Friction)
		shape.SetElasticity(desc.Restitution)
		s.space.AddShape(shape)

		b.shape = shape
		b.static = center
		s.bodies[b] = struct{}{}
		return b, nil
	}

	var moment float64
	if desc.Shape.Kind == engine.ShapeSphere {
		moment = cp.MomentForCircle(desc.Mass, 0, desc.Shape.Radius(), cp.Vector{})
	} else {
		moment = cp.MomentForBox(desc.Mass, w, h)
	}

	body := cp.NewBody(desc.Mass, moment)
	body.SetPosition(center)
	if desc.LinearDamping > 0 {
		retain := desc.LinearDamping
		body.SetVelocityUpdateFunc(func(body *cp.Body, gravity cp.Vector, damping float64, dt float64) {
			cp.BodyUpdateVelocity(body, gravity, damping*math.Exp(-retain*dt), dt)
		})
	}

	var shape *cp.Shape
	if desc.Shape.Kind == engine.ShapeSphere {
		shape = cp.NewCircle(body, desc.Shape.Radius(), cp.Vector{})
	} else {
		shape = cp.NewBox(body, w, h, 0)
	}
	shape.SetFriction(desc.Friction)
	shape.SetElasticity(desc.Restitution)

	s.space.AddBody(body)
	s.space.AddShape(shape)

	b.body = body
	b.shape = shape
	s.bodies[b] = struct{}{}
	return b, nil
}

// RemoveBody detaches the shape before the body, the order the space
// requires.
func (s *Space) RemoveBody(body engine.Body) {
	b, ok := body.(*Body)
	if s == nil || s.closed || !ok || b == nil || b.space != s {
		return
	}
	if _, live := s.bodies[b]; !live {
		return
	}
	s.space.RemoveShape(b.shape)
	if b.body != nil {
		s.space.RemoveBody(b.body)
	}
	delete(s.bodies, b)
	b.space = nil
}

func (s *Space) Step(dt float64) {
	if s == nil || s.closed {
		return
	}
	n := s.clock.Advance(dt)
	for i := 0; i < n; i++ {
		s.space.Step(s.clock.Fixed)
	}
}

func (s *Space) BodyCount() int {
	if s == nil {
		return 0
	}
	return len(s.bodies)
}

func (s *Space) Close() {
	if s == nil || s.closed {
		return
	}
	for b := range s.bodies {
		s.RemoveBody(b)
	}
	s.closed = true
	s.space = nil
}

// Body wraps either a dynamic cp body or a shape fixed to the space's
// static body.
type Body struct {
	space  *Space
	body   *cp.Body
	shape  *cp.Shape
	kind   engine.ShapeKind
	static cp.Vector
	z      float64
	mass   float64
}

func (b *Body) Position() mgl64.Vec3 {
	if b == nil {
		return mgl64.Vec3{}
	}
	if b.body == nil {
		return mgl64.Vec3{b.static.X, b.static.Y, b.z}
	}
	p := b.body.Position()
	return mgl64.Vec3{p.X, p.Y, b.z}
}

func (b *Body) Rotation() mgl64.Quat {
	if b == nil || b.body == nil {
		return mgl64.QuatIdent()
	}
	return mgl64.QuatRotate(b.body.Angle(), mgl64.Vec3{0, 0, 1})
}

func (b *Body) Velocity() mgl64.Vec3 {
	if b == nil || b.body == nil {
		return mgl64.Vec3{}
	}
	v := b.body.Velocity()
	return mgl64.Vec3{v.X, v.Y, 0}
}

// ApplyImpulse pushes the body through its center; the Z component is
// outside the plane and is dropped.
func (b *Body) ApplyImpulse(impulse mgl64.Vec3) {
	if b == nil || b.body == nil || b.space == nil || !common.FiniteVec(impulse) {
		return
	}
	b.body.ApplyImpulseAtWorldPoint(toVector(impulse), b.body.Position())
}

func (b *Body) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}

func (b *Body) Static() bool {
	return b == nil || b.body == nil
}

func (b *Body) Kind() engine.ShapeKind {
	if b == nil {
		return 0
	}
	return b.kind
}

func toVector(v mgl64.Vec3) cp.Vector {
	return cp.Vector{X: v[0], Y: v[1]}
}
