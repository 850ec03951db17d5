package physics

import (
	"github.com/go-gl/mathgl/mgl64"
	"github.com/milk9111/shootgame/common"
	"github.com/milk9111/shootgame/scene"
)

// Viewpoint is where thrown bodies start and which way they fly.
type Viewpoint interface {
	WorldPosition() mgl64.Vec3
	Forward() mgl64.Vec3
}

// CreateGroundNode builds a node for r under parent backed by a static box.
// Node helpers take full sizes, as the renderable is drawn.
func (pw *PhysicsWorld) CreateGroundNode(r *scene.Renderable, parent scene.Parent, size, position mgl64.Vec3) (*PhysicsBody, error) {
	return pw.attach(r, parent, 0, func(node *scene.Node) (Handle, error) {
		return pw.CreateGround(size.Mul(0.5), position, node)
	})
}

func (pw *PhysicsWorld) CreateBoxNode(r *scene.Renderable, parent scene.Parent, size, position mgl64.Vec3, mass float64) (*PhysicsBody, error) {
	return pw.attach(r, parent, mass, func(node *scene.Node) (Handle, error) {
		return pw.CreateBox(size.Mul(0.5), position, mass, node)
	})
}

// CreateBoxNodeFromEye throws a box from the eye along its forward vector.
func (pw *PhysicsWorld) CreateBoxNodeFromEye(r *scene.Renderable, parent scene.Parent, size mgl64.Vec3, eye Viewpoint, force, mass float64) (*PhysicsBody, error) {
	position, direction := aim(eye)
	return pw.attach(r, parent, mass, func(node *scene.Node) (Handle, error) {
		return pw.CreateBoxFromEye(size.Mul(0.5), position, direction, mass, force, node)
	})
}

func (pw *PhysicsWorld) CreateCylinderNode(r *scene.Renderable, parent scene.Parent, radius, height float64, position mgl64.Vec3, mass float64) (*PhysicsBody, error) {
	return pw.attach(r, parent, mass, func(node *scene.Node) (Handle, error) {
		return pw.CreateCylinder(cylinderExtents(radius, height), position, mass, node)
	})
}

func (pw *PhysicsWorld) CreateCylinderNodeFromEye(r *scene.Renderable, parent scene.Parent, radius, height float64, eye Viewpoint, force, mass float64) (*PhysicsBody, error) {
	position, direction := aim(eye)
	return pw.attach(r, parent, mass, func(node *scene.Node) (Handle, error) {
		return pw.CreateCylinderFromEye(cylinderExtents(radius, height), position, direction, mass, force, node)
	})
}

func (pw *PhysicsWorld) CreateSphereNode(r *scene.Renderable, parent scene.Parent, radius float64, position mgl64.Vec3, mass float64) (*PhysicsBody, error) {
	return pw.attach(r, parent, mass, func(node *scene.Node) (Handle, error) {
		return pw.CreateSphere(radius, position, mass, node)
	})
}

func (pw *PhysicsWorld) CreateSphereNodeFromEye(r *scene.Renderable, parent scene.Parent, radius float64, eye Viewpoint, force, mass float64) (*PhysicsBody, error) {
	position, direction := aim(eye)
	return pw.attach(r, parent, mass, func(node *scene.Node) (Handle, error) {
		return pw.CreateSphereFromEye(radius, position, direction, mass, force, node)
	})
}

// RemoveNode detaches the body's node from parent, then removes the body.
// A nil or already removed body is ignored.
func (pw *PhysicsWorld) RemoveNode(body *PhysicsBody, parent scene.Parent) {
	if body == nil || body.removed {
		return
	}
	if parent != nil && body.Node != nil {
		parent.RemoveChild(body.Node)
	}
	pw.RemoveBody(body.handle)
	body.removed = true
}

func (pw *PhysicsWorld) attach(r *scene.Renderable, parent scene.Parent, mass float64, create func(node *scene.Node) (Handle, error)) (*PhysicsBody, error) {
	node := scene.NewNode(r)
	body := NewPhysicsBody(node, mass)
	if parent != nil {
		parent.AddChild(node)
	}

	h, err := create(node)
	if err != nil {
		node.SetParent(nil)
		return nil, err
	}
	if err := body.SetHandle(h); err != nil {
		return nil, err
	}
	return body, nil
}

func aim(eye Viewpoint) (mgl64.Vec3, mgl64.Vec3) {
	if eye == nil {
		return mgl64.Vec3{}, mgl64.Vec3{}
	}
	return eye.WorldPosition(), common.Normalize(eye.Forward())
}

func cylinderExtents(radius, height float64) mgl64.Vec3 {
	return mgl64.Vec3{radius, height / 2, radius}
}
