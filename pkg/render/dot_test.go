package render

import (
	"strings"
	"testing"

	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/layered"
)

func boundary(id string) *kgraph.Node {
	n := kgraph.NewNode(id)
	n.Size = kgraph.Size{Width: 200, Height: 100}
	n.Data = []kgraph.Rendering{{
		Kind:     kgraph.KindRoundedRectangle,
		Children: []kgraph.Rendering{{Kind: kgraph.KindChildArea}},
	}}
	return n
}

func TestRegionTreeDOT(t *testing.T) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	outer := boundary("outer")
	inner := boundary("inner")
	root.AddChild(outer)
	outer.AddChild(inner)

	dm := fold.Build(root, nil)
	dm.Region("inner").SetExpanded(false)

	dot := RegionTreeDOT(dm, Options{})
	if !strings.HasPrefix(dot, "digraph regions {") {
		t.Fatalf("unexpected prefix: %q", dot[:30])
	}
	for _, want := range []string{`"outer"`, `"inner"`, `"outer" -> "inner"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
	// Only the collapsed region gets the dashed style.
	if n := strings.Count(dot, "dashed"); n != 1 {
		t.Errorf("got %d dashed nodes, want 1:\n%s", n, dot)
	}
}

func TestRegionTreeDOTDetailed(t *testing.T) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	root.AddChild(boundary("outer"))

	dot := RegionTreeDOT(fold.Build(root, nil), Options{Detailed: true})
	for _, want := range []string{"expanded: true", "200x100"} {
		if !strings.Contains(dot, want) {
			t.Errorf("detailed DOT missing %q:\n%s", want, dot)
		}
	}
}

func TestLayeredDOT(t *testing.T) {
	a := kgraph.NewNode("a")
	a.Position = kgraph.Point{X: 0, Y: 0}
	a.Size = kgraph.Size{Width: 40, Height: 20}
	a.LayerID, a.PosID = 0, 0

	b := kgraph.NewNode("b")
	b.Position = kgraph.Point{X: 100, Y: 0}
	b.Size = kgraph.Size{Width: 40, Height: 20}
	b.LayerID, b.PosID = 1, 0

	a.Connect(b)
	nodes := []*kgraph.Node{a, b}
	layers := layered.LayersOf(nodes, layered.Right)

	dot := LayeredDOT(nodes, layers, Options{})
	for _, want := range []string{"subgraph cluster_layer_0", "subgraph cluster_layer_1", `"a" -> "b"`} {
		if !strings.Contains(dot, want) {
			t.Errorf("DOT missing %s:\n%s", want, dot)
		}
	}
}

func TestLayeredDOTDetailedShowsPins(t *testing.T) {
	a := kgraph.NewNode("a")
	a.Size = kgraph.Size{Width: 40, Height: 20}
	a.LayerID, a.PosID = 0, 0
	a.LayerConstraint = 2

	dot := LayeredDOT([]*kgraph.Node{a}, layered.LayersOf([]*kgraph.Node{a}, layered.Right), Options{Detailed: true})
	if !strings.Contains(dot, "pinned: layer 2") {
		t.Errorf("detailed DOT missing pin info:\n%s", dot)
	}
}
