package kgraph

// Unset marks an absent layered-layout property (layer id, position id, or
// constraint). All layout properties default to Unset until a layout server
// or a user interaction assigns them.
const Unset = -1

// RootNodeID is the node ID used for the synthetic model root. The root
// itself is never rendered; its children are the top-level diagram nodes.
const RootNodeID = "__root__"

// Node is one element of the diagram model: a positioned, sized tree node
// carrying the graphical descriptors the renderer draws it with.
//
// Parent is a non-owning back-pointer maintained by AddChild; the tree is
// owned root-down through Children. Node is not safe for concurrent
// mutation.
type Node struct {
	ID       string
	Position Point
	Size     Size
	Children []*Node
	Parent   *Node

	// Data holds the node's graphical descriptors, outermost first.
	Data []Rendering

	// Expanded is written by the fold engine and read by renderers to decide
	// between full detail and a collapsed placeholder.
	Expanded bool

	// Shadow marks a node that is currently being dragged; ShadowX/ShadowY
	// hold its transient on-screen position until the move is committed.
	Shadow  bool
	ShadowX float64
	ShadowY float64

	// Layered-layout properties as last reported by the layout server.
	// All are Unset (-1) until assigned.
	LayerID         int
	PosID           int
	LayerConstraint int
	PosConstraint   int

	// InLayerPredOf/InLayerSuccOf name a node this one is relatively
	// pinned before/after within its layer, or are empty. Nodes glued
	// together by matching relative pins form a chain that moves as a unit.
	InLayerPredOf string
	InLayerSuccOf string

	Outgoing []*Edge
	Incoming []*Edge
}

// Edge is a directed connection between two nodes. Edges do not own their
// endpoints.
type Edge struct {
	Source *Node
	Target *Node
}

// NewNode creates a node with all layout properties Unset.
func NewNode(id string) *Node {
	return &Node{
		ID:              id,
		LayerID:         Unset,
		PosID:           Unset,
		LayerConstraint: Unset,
		PosConstraint:   Unset,
	}
}

// AddChild appends c to n's children and sets the back-pointer.
func (n *Node) AddChild(c *Node) {
	c.Parent = n
	n.Children = append(n.Children, c)
}

// Connect adds a directed edge from n to target and registers it on both
// endpoints.
func (n *Node) Connect(target *Node) *Edge {
	e := &Edge{Source: n, Target: target}
	n.Outgoing = append(n.Outgoing, e)
	target.Incoming = append(target.Incoming, e)
	return e
}

// DragPosition returns the node's effective position for interaction logic:
// the shadow position while a drag is in flight, the committed position
// otherwise.
func (n *Node) DragPosition() Point {
	if n.Shadow {
		return Point{X: n.ShadowX, Y: n.ShadowY}
	}
	return n.Position
}

// Center returns the center point of the node at its effective position.
func (n *Node) Center() Point {
	p := n.DragPosition()
	return Point{X: p.X + n.Size.Width/2, Y: p.Y + n.Size.Height/2}
}

// Bounds returns the node's committed rectangle in its parent's coordinates.
func (n *Node) Bounds() Bounds {
	return Bounds{X: n.Position.X, Y: n.Position.Y, Width: n.Size.Width, Height: n.Size.Height}
}

// IsRoot reports whether n is the synthetic model root.
func (n *Node) IsRoot() bool {
	return n.Parent == nil && n.ID == RootNodeID
}

// Walk visits n and every descendant in depth-first order. Traversal stops
// early if fn returns false for any node.
func (n *Node) Walk(fn func(*Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range n.Children {
		if !c.Walk(fn) {
			return false
		}
	}
	return true
}

// Count returns the number of nodes in the subtree rooted at n, including n.
func (n *Node) Count() int {
	total := 0
	n.Walk(func(*Node) bool { total++; return true })
	return total
}
