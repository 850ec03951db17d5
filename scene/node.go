// Package scene is the minimal scene graph the physics layer writes poses
// into: a root, nested nodes carrying renderables, and a camera.
package scene

import (
	"github.com/go-gl/mathgl/mgl64"
)

// Parent is anything nodes can be attached to.
type Parent interface {
	AddChild(n *Node)
	RemoveChild(n *Node) bool
	Children() []*Node

	childList() *childList
	worldTransform() (mgl64.Vec3, mgl64.Quat)
}

type childList struct {
	nodes []*Node
}

func (c *childList) add(n *Node) {
	c.nodes = append(c.nodes, n)
}

func (c *childList) remove(n *Node) bool {
	for i, child := range c.nodes {
		if child != n {
			continue
		}
		copy(c.nodes[i:], c.nodes[i+1:])
		c.nodes[len(c.nodes)-1] = nil
		c.nodes = c.nodes[:len(c.nodes)-1]
		return true
	}
	return false
}

func (c *childList) snapshot() []*Node {
	out := make([]*Node, len(c.nodes))
	copy(out, c.nodes)
	return out
}

// Scene is the root of the graph. Its frame is the world frame.
type Scene struct {
	children childList
}

func New() *Scene {
	return &Scene{}
}

func (s *Scene) AddChild(n *Node) {
	if s == nil || n == nil {
		return
	}
	n.SetParent(s)
}

func (s *Scene) RemoveChild(n *Node) bool {
	if s == nil || n == nil || n.parent != Parent(s) {
		return false
	}
	n.SetParent(nil)
	return true
}

func (s *Scene) Children() []*Node {
	if s == nil {
		return nil
	}
	return s.children.snapshot()
}

// Walk visits every node depth-first.
func (s *Scene) Walk(fn func(n *Node)) {
	if s == nil {
		return
	}
	for _, n := range s.children.nodes {
		n.walk(fn)
	}
}

func (s *Scene) childList() *childList {
	return &s.children
}

func (s *Scene) worldTransform() (mgl64.Vec3, mgl64.Quat) {
	return mgl64.Vec3{}, mgl64.QuatIdent()
}

// Node is a positioned element of the scene. Its local pose is relative to
// its parent.
type Node struct {
	Name       string
	Renderable *Renderable

	position mgl64.Vec3
	rotation mgl64.Quat
	parent   Parent
	children childList
}

func NewNode(r *Renderable) *Node {
	return &Node{Renderable: r, rotation: mgl64.QuatIdent()}
}

func (n *Node) Parent() Parent {
	if n == nil {
		return nil
	}
	return n.parent
}

// SetParent moves n under p, keeping its local pose. A nil parent detaches
// it. Parenting a node under itself or one of its descendants is ignored.
func (n *Node) SetParent(p Parent) {
	if n == nil || n.parent == p {
		return
	}
	if p != nil && n.isAncestorOf(p) {
		return
	}
	if n.parent != nil {
		n.parent.childList().remove(n)
	}
	n.parent = p
	if p != nil {
		p.childList().add(n)
	}
}

func (n *Node) isAncestorOf(p Parent) bool {
	for cur, ok := p.(*Node); ok && cur != nil; {
		if cur == n {
			return true
		}
		next, isNode := cur.parent.(*Node)
		if !isNode {
			return false
		}
		cur = next
	}
	return false
}

func (n *Node) AddChild(child *Node) {
	if n == nil || child == nil {
		return
	}
	child.SetParent(n)
}

func (n *Node) RemoveChild(child *Node) bool {
	if n == nil || child == nil || child.parent != Parent(n) {
		return false
	}
	child.SetParent(nil)
	return true
}

func (n *Node) Children() []*Node {
	if n == nil {
		return nil
	}
	return n.children.snapshot()
}

func (n *Node) childList() *childList {
	return &n.children
}

func (n *Node) walk(fn func(n *Node)) {
	fn(n)
	for _, child := range n.children.nodes {
		child.walk(fn)
	}
}

func (n *Node) worldTransform() (mgl64.Vec3, mgl64.Quat) {
	pp, pq := n.parentTransform()
	return pp.Add(pq.Rotate(n.position)), pq.Mul(n.rotation).Normalize()
}

func (n *Node) parentTransform() (mgl64.Vec3, mgl64.Quat) {
	if n.parent == nil {
		return mgl64.Vec3{}, mgl64.QuatIdent()
	}
	return n.parent.worldTransform()
}

func (n *Node) LocalPosition() mgl64.Vec3 {
	if n == nil {
		return mgl64.Vec3{}
	}
	return n.position
}

func (n *Node) SetLocalPosition(p mgl64.Vec3) {
	if n == nil {
		return
	}
	n.position = p
}

func (n *Node) LocalRotation() mgl64.Quat {
	if n == nil {
		return mgl64.QuatIdent()
	}
	return n.rotation
}

func (n *Node) SetLocalRotation(q mgl64.Quat) {
	if n == nil {
		return
	}
	n.rotation = q
}

func (n *Node) WorldPosition() mgl64.Vec3 {
	if n == nil {
		return mgl64.Vec3{}
	}
	p, _ := n.worldTransform()
	return p
}

// SetWorldPosition places n at p in world space, whatever its parent chain.
func (n *Node) SetWorldPosition(p mgl64.Vec3) {
	if n == nil {
		return
	}
	if n.parent == nil {
		n.position = p
		return
	}
	pp, pq := n.parentTransform()
	n.position = pq.Inverse().Rotate(p.Sub(pp))
}

func (n *Node) WorldRotation() mgl64.Quat {
	if n == nil {
		return mgl64.QuatIdent()
	}
	_, q := n.worldTransform()
	return q
}

func (n *Node) SetWorldRotation(q mgl64.Quat) {
	if n == nil {
		return
	}
	if n.parent == nil {
		n.rotation = q
		return
	}
	_, pq := n.parentTransform()
	n.rotation = pq.Inverse().Mul(q).Normalize()
}
