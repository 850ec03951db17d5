package engine

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
)

type ShapeKind int

const (
	ShapeBox ShapeKind = iota + 1
	ShapeCylinder
	ShapeSphere
)

func (k ShapeKind) String() string {
	switch k {
	case ShapeBox:
		return "box"
	case ShapeCylinder:
		return "cylinder"
	case ShapeSphere:
		return "sphere"
	default:
		return "unknown"
	}
}

// Shape is a collision primitive. Extents are half-extents for boxes,
// (radius, half-height, radius) for cylinders standing on Y and
// (r, r, r) for spheres.
type Shape struct {
	Kind    ShapeKind
	Extents mgl64.Vec3
}

func Box(halfExtents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeBox, Extents: halfExtents}
}

func Cylinder(extents mgl64.Vec3) Shape {
	return Shape{Kind: ShapeCylinder, Extents: extents}
}

func Sphere(radius float64) Shape {
	return Shape{Kind: ShapeSphere, Extents: mgl64.Vec3{radius, radius, radius}}
}

func (s Shape) Validate() error {
	if !common.FiniteVec(s.Extents) {
		return ErrInvalidShape
	}
	switch s.Kind {
	case ShapeBox:
		if s.Extents[0] <= 0 || s.Extents[1] <= 0 || s.Extents[2] <= 0 {
			return ErrInvalidShape
		}
	case ShapeCylinder, ShapeSphere:
		if s.Extents[0] <= 0 || s.Extents[1] <= 0 {
			return ErrInvalidShape
		}
	default:
		return ErrInvalidShape
	}
	return nil
}

// Radius is the cylinder or sphere radius; zero for boxes.
func (s Shape) Radius() float64 {
	if s.Kind == ShapeBox {
		return 0
	}
	return s.Extents[0]
}

func (s Shape) HalfHeight() float64 {
	if s.Kind == ShapeSphere {
		return s.Extents[0]
	}
	return s.Extents[1]
}

// Bounds returns the half-size of the shape's axis-aligned bounding box.
func (s Shape) Bounds() mgl64.Vec3 {
	switch s.Kind {
	case ShapeSphere:
		r := s.Extents[0]
		return mgl64.Vec3{r, r, r}
	case ShapeCylinder:
		r := s.Extents[0]
		return mgl64.Vec3{r, s.Extents[1], r}
	default:
		return s.Extents
	}
}

// LocalInertia returns the diagonal of the inertia tensor for a solid body of
// the given mass. Static bodies (mass 0) have zero inertia.
func (s Shape) LocalInertia(mass float64) mgl64.Vec3 {
	if mass <= 0 {
		return mgl64.Vec3{}
	}
	switch s.Kind {
	case ShapeBox:
		x, y, z := 2*s.Extents[0], 2*s.Extents[1], 2*s.Extents[2]
		return mgl64.Vec3{
			mass / 12 * (y*y + z*z),
			mass / 12 * (x*x + z*z),
			mass / 12 * (x*x + y*y),
		}
	case ShapeCylinder:
		r := s.Extents[0]
		h := 2 * s.Extents[1]
		side := mass / 12 * (3*r*r + h*h)
		return mgl64.Vec3{side, mass * r * r / 2, side}
	case ShapeSphere:
		r := s.Extents[0]
		i := 2.0 / 5.0 * mass * r * r
		return mgl64.Vec3{i, i, i}
	}
	return mgl64.Vec3{}
}
