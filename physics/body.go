package physics

import "github.com/milk9111/shootgame/scene"

// PhysicsBody ties a scene node to the body simulating it.
type PhysicsBody struct {
	Node *scene.Node

	handle  Handle
	mass    float64
	removed bool
}

func NewPhysicsBody(node *scene.Node, mass float64) *PhysicsBody {
	return &PhysicsBody{Node: node, mass: mass}
}

func (b *PhysicsBody) Handle() Handle {
	if b == nil {
		return NoHandle
	}
	return b.handle
}

// SetHandle records the body's handle. It can only be set once.
func (b *PhysicsBody) SetHandle(h Handle) error {
	if b == nil {
		return ErrNotInitialized
	}
	if b.handle != NoHandle {
		return ErrHandleAssigned
	}
	b.handle = h
	return nil
}

func (b *PhysicsBody) Mass() float64 {
	if b == nil {
		return 0
	}
	return b.mass
}

// IsStatic reports whether the body was created with zero mass.
func (b *PhysicsBody) IsStatic() bool {
	return b.Mass() == 0
}

// Removed reports whether RemoveNode has torn this body down.
func (b *PhysicsBody) Removed() bool {
	return b != nil && b.removed
}
