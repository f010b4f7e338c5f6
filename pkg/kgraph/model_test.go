package kgraph

import (
	"path/filepath"
	"testing"
)

func buildTree(t *testing.T) *Node {
	t.Helper()
	root := NewNode(RootNodeID)

	outer := NewNode("outer")
	outer.Position = Point{X: 5, Y: 5}
	outer.Size = Size{Width: 300, Height: 200}
	outer.Data = []Rendering{{
		Kind:     KindRoundedRectangle,
		Children: []Rendering{{Kind: KindText, Text: "Outer"}, {Kind: KindChildArea}},
	}}
	root.AddChild(outer)

	a := NewNode("a")
	a.Position = Point{X: 10, Y: 10}
	a.Size = Size{Width: 40, Height: 20}
	a.LayerID, a.PosID = 0, 0

	b := NewNode("b")
	b.Position = Point{X: 100, Y: 10}
	b.Size = Size{Width: 40, Height: 20}
	b.LayerID, b.PosID = 1, 0
	b.LayerConstraint = 2
	b.InLayerSuccOf = "a"
	a.InLayerPredOf = "b"

	outer.AddChild(a)
	outer.AddChild(b)
	a.Connect(b)
	return root
}

func TestModelRoundTrip(t *testing.T) {
	root := buildTree(t)

	rebuilt, err := FromTree(root).Tree()
	if err != nil {
		t.Fatal(err)
	}
	if rebuilt.Count() != root.Count() {
		t.Fatalf("rebuilt %d nodes, want %d", rebuilt.Count(), root.Count())
	}

	outer := rebuilt.Children[0]
	if outer.ID != "outer" || len(outer.Children) != 2 {
		t.Fatalf("outer = %+v", outer)
	}
	if len(outer.Data) != 1 || outer.Data[0].Kind != KindRoundedRectangle {
		t.Errorf("renderings lost: %+v", outer.Data)
	}

	var a, b *Node
	for _, c := range outer.Children {
		switch c.ID {
		case "a":
			a = c
		case "b":
			b = c
		}
	}
	if a == nil || b == nil {
		t.Fatal("children a/b missing")
	}
	if a.LayerID != 0 || b.LayerID != 1 || b.LayerConstraint != 2 {
		t.Errorf("layout properties lost: a=%+v b=%+v", a, b)
	}
	if a.PosConstraint != Unset {
		t.Errorf("absent property decoded to %d, want Unset", a.PosConstraint)
	}
	if a.InLayerPredOf != "b" || b.InLayerSuccOf != "a" {
		t.Errorf("relative pins lost: a=%q b=%q", a.InLayerPredOf, b.InLayerSuccOf)
	}
	if len(a.Outgoing) != 1 || a.Outgoing[0].Target != b {
		t.Error("edge lost in round trip")
	}
}

func TestModelFileRoundTrip(t *testing.T) {
	root := buildTree(t)
	path := filepath.Join(t.TempDir(), "model.json")

	if err := WriteModelFile(root, path); err != nil {
		t.Fatal(err)
	}
	got, err := ReadModelFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Count() != root.Count() {
		t.Errorf("read %d nodes, want %d", got.Count(), root.Count())
	}
}

func TestTreeRejectsMalformedModels(t *testing.T) {
	tests := []struct {
		name string
		m    Model
	}{
		{"duplicate ID", Model{Nodes: []ModelNode{{ID: "a"}, {ID: "a"}}}},
		{"empty ID", Model{Nodes: []ModelNode{{ID: ""}}}},
		{"unknown parent", Model{Nodes: []ModelNode{{ID: "a", Parent: "ghost"}}}},
		{"parent cycle", Model{Nodes: []ModelNode{{ID: "a", Parent: "b"}, {ID: "b", Parent: "a"}}}},
		{"unknown edge source", Model{
			Nodes: []ModelNode{{ID: "a"}},
			Edges: []ModelEdge{{From: "ghost", To: "a"}},
		}},
		{"unknown edge target", Model{
			Nodes: []ModelNode{{ID: "a"}},
			Edges: []ModelEdge{{From: "a", To: "ghost"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := tt.m.Tree(); err == nil {
				t.Error("expected error")
			}
		})
	}
}

func TestTreeAttachesParentlessNodesToRoot(t *testing.T) {
	m := Model{Nodes: []ModelNode{{ID: "a"}, {ID: "b"}}}
	root, err := m.Tree()
	if err != nil {
		t.Fatal(err)
	}
	if !root.IsRoot() || len(root.Children) != 2 {
		t.Errorf("root = %+v", root)
	}
}
