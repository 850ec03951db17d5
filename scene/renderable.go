package scene

import (
	"image/color"

	"github.com/go-gl/mathgl/mgl64"
)

type RenderKind int

const (
	RenderCube RenderKind = iota
	RenderCylinder
	RenderSphere
)

// Renderable describes how a node is drawn. Size is the full extent of the
// shape along each axis.
type Renderable struct {
	Kind  RenderKind
	Size  mgl64.Vec3
	Color color.Color
}

func Cube(size mgl64.Vec3, c color.Color) *Renderable {
	return &Renderable{Kind: RenderCube, Size: size, Color: c}
}

func Cylinder(radius, height float64, c color.Color) *Renderable {
	return &Renderable{Kind: RenderCylinder, Size: mgl64.Vec3{2 * radius, height, 2 * radius}, Color: c}
}

func Sphere(radius float64, c color.Color) *Renderable {
	d := 2 * radius
	return &Renderable{Kind: RenderSphere, Size: mgl64.Vec3{d, d, d}, Color: c}
}
