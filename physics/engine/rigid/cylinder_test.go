package rigid

import (
	"math"
	"testing"

	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
)

func near(a, b mgl64.Vec3) bool {
	return a.Sub(b).Len() < 1e-9
}

func TestCylinderSupport(t *testing.T) {
	c := &Cylinder{Radius: 2, HalfHeight: 3}
	cases := []struct {
		dir  mgl64.Vec3
		want mgl64.Vec3
	}{
		{dir: mgl64.Vec3{1, 1, 0}, want: mgl64.Vec3{2, 3, 0}},
		{dir: mgl64.Vec3{0, -1, -4}, want: mgl64.Vec3{0, -3, -2}},
		{dir: mgl64.Vec3{0, 1, 0}, want: mgl64.Vec3{0, 3, 0}},
		{dir: mgl64.Vec3{3, 0, 4}, want: mgl64.Vec3{1.2, 3, 1.6}},
	}
	for _, tc := range cases {
		if got := c.Support(tc.dir); !near(got, tc.want) {
			t.Fatalf("Support(%v) = %v, want %v", tc.dir, got, tc.want)
		}
	}
}

func TestCylinderAABB(t *testing.T) {
	c := &Cylinder{Radius: 1, HalfHeight: 2}

	c.ComputeAABB(actor.Transform{Position: mgl64.Vec3{0, 5, 0}, Rotation: mgl64.QuatIdent()})
	box := c.GetAABB()
	if !near(box.Min, mgl64.Vec3{-1, 3, -1}) || !near(box.Max, mgl64.Vec3{1, 7, 1}) {
		t.Fatalf("upright AABB = %+v", box)
	}

	lying := mgl64.QuatRotate(math.Pi/2, mgl64.Vec3{0, 0, 1})
	c.ComputeAABB(actor.Transform{Rotation: lying})
	box = c.GetAABB()
	if !near(box.Min, mgl64.Vec3{-2, -1, -1}) || !near(box.Max, mgl64.Vec3{2, 1, 1}) {
		t.Fatalf("lying AABB = %+v", box)
	}
}

func TestCylinderMassAndInertia(t *testing.T) {
	c := &Cylinder{Radius: 2, HalfHeight: 4}
	if got, want := c.ComputeMass(1), math.Pi*4*8; math.Abs(got-want) > 1e-9 {
		t.Fatalf("volume = %v, want %v", got, want)
	}
	in := c.ComputeInertia(2).Diag()
	if math.Abs(in.Y()-4) > 1e-9 || math.Abs(in.X()-in.Z()) > 1e-9 || in.X() <= in.Y() {
		t.Fatalf("inertia diag = %v", in)
	}
}

func TestCylinderContactFeature(t *testing.T) {
	c := &Cylinder{Radius: 1, HalfHeight: 2}
	var out [8]mgl64.Vec3
	var n int

	c.GetContactFeature(mgl64.Vec3{0, -1, 0.1}, &out, &n)
	if n != rimPoints {
		t.Fatalf("cap feature has %d points, want %d", n, rimPoints)
	}
	for i := 0; i < n; i++ {
		if out[i].Y() != -2 {
			t.Fatalf("cap point %v not on the bottom cap", out[i])
		}
	}

	c.GetContactFeature(mgl64.Vec3{1, 0, 0}, &out, &n)
	if n != 4 {
		t.Fatalf("side feature has %d points, want 4", n)
	}
	for i := 0; i < n; i++ {
		if math.Abs(out[i].X()-1) > 1e-9 {
			t.Fatalf("side point %v not on the tangent plane x=1", out[i])
		}
	}
}

func TestCylinderCollideWithPlane(t *testing.T) {
	c := &Cylinder{Radius: 1, HalfHeight: 1}
	up := mgl64.Vec3{0, 1, 0}

	hit, contacts := c.CollideWithPlane(up, 0, actor.Transform{Position: mgl64.Vec3{0, 0.9, 0}, Rotation: mgl64.QuatIdent()})
	if !hit || len(contacts) != rimPoints {
		t.Fatalf("hit=%v contacts=%d, want bottom rim", hit, len(contacts))
	}
	if math.Abs(contacts[0].Penetration-0.1) > 1e-9 || math.Abs(contacts[0].Position.Y()) > 1e-9 {
		t.Fatalf("contact = %+v", contacts[0])
	}

	if hit, _ := c.CollideWithPlane(up, 0, actor.Transform{Position: mgl64.Vec3{0, 2, 0}, Rotation: mgl64.QuatIdent()}); hit {
		t.Fatal("cylinder above the plane reported contact")
	}
}
