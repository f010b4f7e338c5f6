package kgraph

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"slices"
)

// Model is the canonical serialization format for diagram models. The node
// tree is flattened into a node list with parent references so the format
// stays line-diffable and order-independent; Tree rebuilds the pointer
// structure. Used for files, API payloads, and document storage.
type Model struct {
	Nodes []ModelNode `json:"nodes" bson:"nodes"`
	Edges []ModelEdge `json:"edges,omitempty" bson:"edges,omitempty"`
}

// ModelNode is the serialized form of a Node. Layout properties are encoded
// as pointers so Unset values stay out of the output entirely.
type ModelNode struct {
	ID        string           `json:"id" bson:"id"`
	Parent    string           `json:"parent,omitempty" bson:"parent,omitempty"`
	X         float64          `json:"x,omitempty" bson:"x,omitempty"`
	Y         float64          `json:"y,omitempty" bson:"y,omitempty"`
	Width     float64          `json:"width,omitempty" bson:"width,omitempty"`
	Height    float64          `json:"height,omitempty" bson:"height,omitempty"`
	Layer     *int             `json:"layer,omitempty" bson:"layer,omitempty"`
	Pos       *int             `json:"pos,omitempty" bson:"pos,omitempty"`
	LayerCons *int             `json:"layer_cons,omitempty" bson:"layer_cons,omitempty"`
	PosCons   *int             `json:"pos_cons,omitempty" bson:"pos_cons,omitempty"`
	PredOf    string           `json:"pred_of,omitempty" bson:"pred_of,omitempty"`
	SuccOf    string           `json:"succ_of,omitempty" bson:"succ_of,omitempty"`
	Data      []ModelRendering `json:"data,omitempty" bson:"data,omitempty"`
}

// ModelEdge is the serialized form of an Edge.
type ModelEdge struct {
	From string `json:"from" bson:"from"`
	To   string `json:"to" bson:"to"`
}

// ModelRendering is the serialized form of a Rendering, with the kind as a
// string name.
type ModelRendering struct {
	Kind     string           `json:"kind" bson:"kind"`
	Text     string           `json:"text,omitempty" bson:"text,omitempty"`
	Children []ModelRendering `json:"children,omitempty" bson:"children,omitempty"`
}

// FromTree flattens a node tree into its serialization format. Nodes are
// sorted by ID for deterministic output; the synthetic root is omitted.
func FromTree(root *Node) Model {
	var m Model
	root.Walk(func(n *Node) bool {
		if n == root {
			return true
		}
		m.Nodes = append(m.Nodes, nodeToModel(n, root))
		for _, e := range n.Outgoing {
			m.Edges = append(m.Edges, ModelEdge{From: e.Source.ID, To: e.Target.ID})
		}
		return true
	})
	slices.SortFunc(m.Nodes, func(a, b ModelNode) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return m
}

// Tree rebuilds the pointer tree from a Model. Parentless nodes attach to a
// fresh synthetic root. Returns an error for duplicate IDs, unknown parent
// or edge references, and parent cycles.
func (m Model) Tree() (*Node, error) {
	root := NewNode(RootNodeID)
	byID := make(map[string]*Node, len(m.Nodes))

	for _, mn := range m.Nodes {
		if mn.ID == "" {
			return nil, fmt.Errorf("node with empty ID")
		}
		if _, dup := byID[mn.ID]; dup {
			return nil, fmt.Errorf("duplicate node ID %q", mn.ID)
		}
		byID[mn.ID] = modelToNode(mn)
	}

	for _, mn := range m.Nodes {
		n := byID[mn.ID]
		if mn.Parent == "" {
			root.AddChild(n)
			continue
		}
		p, ok := byID[mn.Parent]
		if !ok {
			return nil, fmt.Errorf("node %q: unknown parent %q", mn.ID, mn.Parent)
		}
		p.AddChild(n)
	}

	// A parent cycle keeps nodes unreachable from the root.
	if got, want := root.Count()-1, len(m.Nodes); got != want {
		return nil, fmt.Errorf("model has %d nodes but only %d reachable from root (parent cycle?)", want, got)
	}

	for _, me := range m.Edges {
		src, ok := byID[me.From]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: unknown source", me.From, me.To)
		}
		dst, ok := byID[me.To]
		if !ok {
			return nil, fmt.Errorf("edge %s→%s: unknown target", me.From, me.To)
		}
		src.Connect(dst)
	}

	return root, nil
}

func nodeToModel(n *Node, root *Node) ModelNode {
	mn := ModelNode{
		ID:     n.ID,
		X:      n.Position.X,
		Y:      n.Position.Y,
		Width:  n.Size.Width,
		Height: n.Size.Height,
		Data:   renderingsToModel(n.Data),
	}
	if n.Parent != nil && n.Parent != root {
		mn.Parent = n.Parent.ID
	}
	mn.Layer = propToModel(n.LayerID)
	mn.Pos = propToModel(n.PosID)
	mn.LayerCons = propToModel(n.LayerConstraint)
	mn.PosCons = propToModel(n.PosConstraint)
	mn.PredOf = n.InLayerPredOf
	mn.SuccOf = n.InLayerSuccOf
	return mn
}

func modelToNode(mn ModelNode) *Node {
	n := NewNode(mn.ID)
	n.Position = Point{X: mn.X, Y: mn.Y}
	n.Size = Size{Width: mn.Width, Height: mn.Height}
	n.Data = renderingsFromModel(mn.Data)
	n.LayerID = propFromModel(mn.Layer)
	n.PosID = propFromModel(mn.Pos)
	n.LayerConstraint = propFromModel(mn.LayerCons)
	n.PosConstraint = propFromModel(mn.PosCons)
	n.InLayerPredOf = mn.PredOf
	n.InLayerSuccOf = mn.SuccOf
	return n
}

func propToModel(v int) *int {
	if v == Unset {
		return nil
	}
	return &v
}

func propFromModel(p *int) int {
	if p == nil {
		return Unset
	}
	return *p
}

func renderingsToModel(rs []Rendering) []ModelRendering {
	if len(rs) == 0 {
		return nil
	}
	out := make([]ModelRendering, len(rs))
	for i, r := range rs {
		out[i] = ModelRendering{
			Kind:     r.Kind.String(),
			Text:     r.Text,
			Children: renderingsToModel(r.Children),
		}
	}
	return out
}

func renderingsFromModel(ms []ModelRendering) []Rendering {
	if len(ms) == 0 {
		return nil
	}
	out := make([]Rendering, len(ms))
	for i, m := range ms {
		out[i] = Rendering{
			Kind:     KindFromString(m.Kind),
			Text:     m.Text,
			Children: renderingsFromModel(m.Children),
		}
	}
	return out
}

// ReadModel decodes a JSON model from r and rebuilds the node tree.
func ReadModel(r io.Reader) (*Node, error) {
	var m Model
	if err := json.NewDecoder(r).Decode(&m); err != nil {
		return nil, fmt.Errorf("decode: %w", err)
	}
	return m.Tree()
}

// ReadModelFile reads a JSON model file and rebuilds the node tree.
func ReadModelFile(path string) (*Node, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()
	return ReadModel(f)
}

// WriteModel writes the tree rooted at root as indented JSON.
func WriteModel(root *Node, w io.Writer) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(FromTree(root)); err != nil {
		return fmt.Errorf("encode: %w", err)
	}
	return nil
}

// WriteModelFile writes the tree rooted at root to a JSON file with 0644
// permissions.
func WriteModelFile(root *Node, path string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	defer f.Close()
	return WriteModel(root, f)
}
