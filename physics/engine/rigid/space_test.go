package rigid

import (
	"math"
	"testing"

	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics/engine"
)

const frame = 1.0 / 60.0

func newTestSpace() *Space {
	return New(engine.Config{Gravity: mgl64.Vec3{0, -9.81, 0}})
}

func mustAdd(t *testing.T, s *Space, desc engine.BodyDesc) *Body {
	t.Helper()
	if desc.Friction == 0 {
		desc.Friction = 0.5
	}
	b, err := s.AddBody(desc)
	if err != nil {
		t.Fatalf("AddBody(%+v) error: %v", desc, err)
	}
	return b.(*Body)
}

func addGround(t *testing.T, s *Space) *Body {
	t.Helper()
	return mustAdd(t, s, engine.BodyDesc{
		Shape:    engine.Box(mgl64.Vec3{20, 0.5, 20}),
		Position: mgl64.Vec3{0, 0, 0},
	})
}

func run(s *Space, frames int) {
	for i := 0; i < frames; i++ {
		s.Step(frame)
	}
}

// tilt is the angle in radians between q and the identity rotation.
func tilt(q mgl64.Quat) float64 {
	return 2 * math.Acos(math.Min(1, math.Abs(q.W)))
}

func TestRestingOnGround(t *testing.T) {
	cases := []struct {
		name   string
		shape  engine.Shape
		restY  float64
		startY float64
	}{
		{name: "sphere", shape: engine.Sphere(0.5), restY: 1.0, startY: 3},
		{name: "box", shape: engine.Box(mgl64.Vec3{0.5, 0.5, 0.5}), restY: 1.0, startY: 2},
		{name: "cylinder", shape: engine.Cylinder(mgl64.Vec3{0.3, 1, 0.3}), restY: 1.5, startY: 2},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			s := newTestSpace()
			addGround(t, s)
			b := mustAdd(t, s, engine.BodyDesc{Shape: tc.shape, Position: mgl64.Vec3{0, tc.startY, 0}, Mass: 2})

			run(s, 300)

			if got := b.Position().Y(); math.Abs(got-tc.restY) > 0.1 {
				t.Fatalf("rest height = %v, want ~%v", got, tc.restY)
			}
			if v := b.Velocity().Len(); v > 0.5 {
				t.Fatalf("resting speed = %v, want near zero", v)
			}
			if tc.shape.Kind != engine.ShapeSphere {
				if a := tilt(b.Rotation()); a > 0.1 {
					t.Fatalf("body tipped by %v rad while resting flat", a)
				}
			}
		})
	}
}

func TestOverhangingBoxTipsOverEdge(t *testing.T) {
	s := newTestSpace()
	mustAdd(t, s, engine.BodyDesc{Shape: engine.Box(mgl64.Vec3{1, 0.5, 1})})
	plank := mustAdd(t, s, engine.BodyDesc{
		Shape:    engine.Box(mgl64.Vec3{1, 0.2, 1}),
		Position: mgl64.Vec3{1.9, 0.8, 0},
		Mass:     1,
	})

	var maxTilt float64
	for i := 0; i < 600; i++ {
		s.Step(frame)
		maxTilt = math.Max(maxTilt, tilt(plank.Rotation()))
	}

	if maxTilt < 0.2 {
		t.Fatalf("plank never rotated (max tilt %v rad)", maxTilt)
	}
	if y := plank.Position().Y(); y > 0 {
		t.Fatalf("plank still balanced on the edge at y=%v", y)
	}
}

func TestStaticBodyNeverMoves(t *testing.T) {
	s := newTestSpace()
	ground := addGround(t, s)
	wall := mustAdd(t, s, engine.BodyDesc{Shape: engine.Box(mgl64.Vec3{0.5, 3, 3}), Position: mgl64.Vec3{-3, 3, 0}})
	ball := mustAdd(t, s, engine.BodyDesc{Shape: engine.Sphere(0.5), Position: mgl64.Vec3{0, 1.2, 0}, Mass: 6})
	ball.ApplyImpulse(mgl64.Vec3{-120, 0, 0})
	ground.ApplyImpulse(mgl64.Vec3{0, 100, 0})

	run(s, 120)

	if ground.Position() != (mgl64.Vec3{}) {
		t.Fatalf("ground moved to %v", ground.Position())
	}
	if wall.Position() != (mgl64.Vec3{-3, 3, 0}) {
		t.Fatalf("wall moved to %v", wall.Position())
	}
	if ground.Rotation() != mgl64.QuatIdent() {
		t.Fatalf("ground rotated to %v", ground.Rotation())
	}
	if ball.Position().X() < -3 {
		t.Fatalf("ball tunnelled through wall: %v", ball.Position())
	}
}

func TestFreeFallIsMonotonic(t *testing.T) {
	s := newTestSpace()
	b := mustAdd(t, s, engine.BodyDesc{Shape: engine.Sphere(1), Position: mgl64.Vec3{0, 50, 0}, Mass: 1})

	prev := b.Position().Y()
	for i := 0; i < 60; i++ {
		s.Step(frame)
		y := b.Position().Y()
		if y >= prev {
			t.Fatalf("frame %d: height %v did not drop below %v", i, y, prev)
		}
		prev = y
	}
	if got, want := b.Position().Y(), 50-9.81/2; math.Abs(got-want) > 0.2 {
		t.Fatalf("height after 1s = %v, want ~%v", got, want)
	}
}

func TestImpulseChangesVelocityByImpulseOverMass(t *testing.T) {
	s := New(engine.Config{})
	b := mustAdd(t, s, engine.BodyDesc{Shape: engine.Sphere(3), Mass: 6})
	b.ApplyImpulse(mgl64.Vec3{0, 0, -490})

	if got, want := b.Velocity().Z(), -490.0/6.0; math.Abs(got-want) > 1e-9 {
		t.Fatalf("velocity z = %v, want %v", got, want)
	}
}

func TestNonFiniteImpulseIgnored(t *testing.T) {
	s := newTestSpace()
	b := mustAdd(t, s, engine.BodyDesc{Shape: engine.Sphere(1), Position: mgl64.Vec3{0, 5, 0}, Mass: 1})

	for _, imp := range []mgl64.Vec3{
		{math.NaN(), 0, 0},
		{0, math.Inf(1), 0},
		{0, 0, math.Inf(-1)},
	} {
		b.ApplyImpulse(imp)
	}
	run(s, 10)

	p := b.Position()
	for i := 0; i < 3; i++ {
		if math.IsNaN(p[i]) || math.IsInf(p[i], 0) {
			t.Fatalf("position poisoned: %v", p)
		}
	}
	if v := b.Velocity(); v.X() != 0 || v.Z() != 0 {
		t.Fatalf("velocity picked up a sideways component: %v", v)
	}
}

func TestImpulseWakesSleepingBody(t *testing.T) {
	s := newTestSpace()
	addGround(t, s)
	b := mustAdd(t, s, engine.BodyDesc{Shape: engine.Box(mgl64.Vec3{0.5, 0.5, 0.5}), Position: mgl64.Vec3{0, 1, 0}, Mass: 1})

	run(s, 240)
	if !b.Sleeping() {
		t.Fatal("resting box did not fall asleep")
	}

	b.ApplyImpulse(mgl64.Vec3{0, 5, 0})
	if b.Sleeping() {
		t.Fatal("impulse did not wake the body")
	}
	start := b.Position().Y()
	run(s, 5)
	if b.Position().Y() <= start {
		t.Fatalf("woken box did not rise: %v -> %v", start, b.Position().Y())
	}
}

func TestMassMatchesDescriptor(t *testing.T) {
	s := newTestSpace()
	for _, shape := range []engine.Shape{
		engine.Box(mgl64.Vec3{1, 2, 3}),
		engine.Sphere(0.75),
		engine.Cylinder(mgl64.Vec3{2, 4, 2}),
	} {
		b := mustAdd(t, s, engine.BodyDesc{Shape: shape, Mass: 2.5})
		if got := b.rb.Material.GetMass(); math.Abs(got-2.5) > 1e-9 {
			t.Fatalf("%s: solver mass = %v, want 2.5", shape.Kind, got)
		}
		if b.Mass() != 2.5 {
			t.Fatalf("%s: Mass() = %v", shape.Kind, b.Mass())
		}
	}

	ground := addGround(t, s)
	if !ground.Static() || ground.Mass() != 0 || ground.LocalInertia() != (mgl64.Vec3{}) {
		t.Fatalf("ground: static=%v mass=%v inertia=%v", ground.Static(), ground.Mass(), ground.LocalInertia())
	}
}

func TestRemoveBody(t *testing.T) {
	s := newTestSpace()
	addGround(t, s)
	b := mustAdd(t, s, engine.BodyDesc{Shape: engine.Sphere(1), Position: mgl64.Vec3{0, 5, 0}, Mass: 1})
	c := mustAdd(t, s, engine.BodyDesc{Shape: engine.Sphere(1), Position: mgl64.Vec3{5, 5, 0}, Mass: 1})

	s.RemoveBody(b)
	s.RemoveBody(b)
	if got := s.BodyCount(); got != 2 {
		t.Fatalf("BodyCount = %d, want 2", got)
	}
	for _, rb := range s.world.Bodies {
		if rb == b.rb {
			t.Fatal("removed body still simulated")
		}
	}

	other := newTestSpace()
	other.RemoveBody(c)
	if got := s.BodyCount(); got != 2 {
		t.Fatalf("foreign removal changed count to %d", got)
	}

	run(s, 10)
	if b.Position() != (mgl64.Vec3{0, 5, 0}) {
		t.Fatalf("removed body kept moving: %v", b.Position())
	}
}

func TestClosedSpaceRejectsBodies(t *testing.T) {
	s := newTestSpace()
	addGround(t, s)
	s.Close()
	s.Close()

	if got := s.BodyCount(); got != 0 {
		t.Fatalf("BodyCount after Close = %d", got)
	}
	if _, err := s.AddBody(engine.BodyDesc{Shape: engine.Sphere(1), Mass: 1}); err != engine.ErrClosed {
		t.Fatalf("AddBody after Close = %v, want ErrClosed", err)
	}
	s.Step(frame)
}
