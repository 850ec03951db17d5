package rigid

import (
	"math"

	"github.com/akmonengine/feather/actor"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/physics/engine"
)

const (
	// rimPoints approximates a cap for contact clipping.
	rimPoints = 8
	// A contact direction this close to the axis touches a cap, not the side.
	capCosine = math.Sqrt2 / 2
	// Half the arc, in radians, of the side patch used as a contact face.
	sideArc = 0.25
)

// Cylinder is a feather collider for a cylinder standing on its local Y axis.
type Cylinder struct {
	Radius     float64
	HalfHeight float64
	aabb       actor.AABB
}

var _ actor.ShapeInterface = (*Cylinder)(nil)

func (c *Cylinder) ComputeAABB(t actor.Transform) {
	axis := t.Rotation.Rotate(mgl64.Vec3{0, 1, 0})
	var ext mgl64.Vec3
	for i := 0; i < 3; i++ {
		a := math.Abs(axis[i])
		ext[i] = a*c.HalfHeight + c.Radius*math.Sqrt(math.Max(0, 1-a*a))
	}
	c.aabb = actor.AABB{Min: t.Position.Sub(ext), Max: t.Position.Add(ext)}
}

func (c *Cylinder) GetAABB() actor.AABB {
	return c.aabb
}

func (c *Cylinder) ComputeMass(density float64) float64 {
	return density * math.Pi * c.Radius * c.Radius * 2 * c.HalfHeight
}

func (c *Cylinder) ComputeInertia(mass float64) mgl64.Mat3 {
	d := engine.Cylinder(mgl64.Vec3{c.Radius, c.HalfHeight, c.Radius}).LocalInertia(mass)
	return mgl64.Diag3(d)
}

func (c *Cylinder) Support(d mgl64.Vec3) mgl64.Vec3 {
	p := mgl64.Vec3{0, c.HalfHeight, 0}
	if d[1] < 0 {
		p[1] = -c.HalfHeight
	}
	if l := math.Hypot(d[0], d[2]); l > 1e-12 {
		p[0] = c.Radius * d[0] / l
		p[2] = c.Radius * d[2] / l
	}
	return p
}

// GetContactFeature returns a cap polygon when d is close to the axis and a
// thin side patch tangent to the surface otherwise.
func (c *Cylinder) GetContactFeature(d mgl64.Vec3, out *[8]mgl64.Vec3, count *int) {
	l := d.Len()
	if l < 1e-12 {
		out[0] = c.Support(d)
		*count = 1
		return
	}

	if math.Abs(d[1])/l >= capCosine {
		y := c.HalfHeight
		if d[1] < 0 {
			y = -y
		}
		for i := 0; i < rimPoints; i++ {
			th := 2 * math.Pi * float64(i) / rimPoints
			out[i] = mgl64.Vec3{c.Radius * math.Cos(th), y, c.Radius * math.Sin(th)}
		}
		*count = rimPoints
		return
	}

	th := math.Atan2(d[2], d[0])
	r := c.Radius / math.Cos(sideArc)
	edge := func(a, y float64) mgl64.Vec3 {
		return mgl64.Vec3{r * math.Cos(a), y, r * math.Sin(a)}
	}
	h := c.HalfHeight
	out[0] = edge(th-sideArc, -h)
	out[1] = edge(th+sideArc, -h)
	out[2] = edge(th+sideArc, h)
	out[3] = edge(th-sideArc, h)
	*count = 4
}

// CollideWithPlane tests the rim points of both caps against the plane
// n·p + dist = 0.
func (c *Cylinder) CollideWithPlane(n mgl64.Vec3, dist float64, t actor.Transform) (bool, actor.PlaneContact) {
	var contacts actor.PlaneContact
	origin := n.Mul(-dist)
	for _, y := range [2]float64{-c.HalfHeight, c.HalfHeight} {
		for i := 0; i < rimPoints; i++ {
			th := 2 * math.Pi * float64(i) / rimPoints
			local := mgl64.Vec3{c.Radius * math.Cos(th), y, c.Radius * math.Sin(th)}
			p := t.Rotation.Rotate(local).Add(t.Position)
			if d := p.Sub(origin).Dot(n); d < 0 {
				contacts = append(contacts, actor.ContactPoint{Position: p.Sub(n.Mul(d)), Penetration: -d})
			}
		}
	}
	return len(contacts) > 0, contacts
}
