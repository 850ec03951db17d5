package scene

import (
	"math"

	"github.com/go-gl/mathgl/mgl64"
)

type Projection int

const (
	ProjectEye Projection = iota
	ProjectSide
	ProjectTop
	projectionCount
)

func (p Projection) String() string {
	switch p {
	case ProjectEye:
		return "eye"
	case ProjectSide:
		return "side"
	case ProjectTop:
		return "top"
	default:
		return "unknown"
	}
}

func (p Projection) Next() Projection {
	return (p + 1) % projectionCount
}

const nearPlane = 0.1

// Viewport maps world points onto a Width x Height screen. Side and top
// views are orthographic around Center with Scale pixels per unit; the eye
// view is a pinhole camera with the given focal length in pixels.
type Viewport struct {
	Width, Height float64
	Mode          Projection
	Center        mgl64.Vec3
	Scale         float64
	Camera        *Camera
	Focal         float64
}

// Project returns the screen position of p and the pixels per world unit at
// that depth. ok is false for points behind the eye.
func (v Viewport) Project(p mgl64.Vec3) (x, y, scale float64, ok bool) {
	cx, cy := v.Width/2, v.Height/2
	switch v.Mode {
	case ProjectSide:
		d := p.Sub(v.Center)
		return cx + d[0]*v.Scale, cy - d[1]*v.Scale, v.Scale, true
	case ProjectTop:
		d := p.Sub(v.Center)
		return cx + d[0]*v.Scale, cy + d[2]*v.Scale, v.Scale, true
	}

	f, r, u := v.basis()
	rel := p.Sub(v.Camera.WorldPosition())
	depth := rel.Dot(f)
	if depth < nearPlane {
		return 0, 0, 0, false
	}
	s := v.Focal / depth
	return cx + rel.Dot(r)*s, cy - rel.Dot(u)*s, s, true
}

// Depth orders points for painting: larger is further from the viewer.
func (v Viewport) Depth(p mgl64.Vec3) float64 {
	switch v.Mode {
	case ProjectSide:
		return -p[2]
	case ProjectTop:
		return -p[1]
	}
	f, _, _ := v.basis()
	return p.Sub(v.Camera.WorldPosition()).Dot(f)
}

// Bounds projects the axis-aligned box of the given half extents around
// center and returns its screen rectangle.
func (v Viewport) Bounds(center, half mgl64.Vec3) (x0, y0, x1, y1 float64, ok bool) {
	x0, y0 = math.Inf(1), math.Inf(1)
	x1, y1 = math.Inf(-1), math.Inf(-1)
	for i := 0; i < 8; i++ {
		corner := mgl64.Vec3{
			center[0] + half[0]*cornerSign(i, 0),
			center[1] + half[1]*cornerSign(i, 1),
			center[2] + half[2]*cornerSign(i, 2),
		}
		x, y, _, in := v.Project(corner)
		if !in {
			return 0, 0, 0, 0, false
		}
		x0, y0 = math.Min(x0, x), math.Min(y0, y)
		x1, y1 = math.Max(x1, x), math.Max(y1, y)
	}
	return x0, y0, x1, y1, true
}

func cornerSign(i, axis int) float64 {
	if i&(1<<axis) != 0 {
		return 1
	}
	return -1
}

func (v Viewport) basis() (forward, right, up mgl64.Vec3) {
	forward = v.Camera.Forward()
	right = forward.Cross(mgl64.Vec3{0, 1, 0})
	if right.Len() == 0 {
		right = mgl64.Vec3{1, 0, 0}
	}
	right = right.Normalize()
	up = right.Cross(forward)
	return forward, right, up
}
