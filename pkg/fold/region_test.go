package fold

import (
	"testing"

	"github.com/lennartvogel/foldview/pkg/kgraph"
)

// boundaryNode creates a region-boundary node: a rectangular frame with a
// child area, optionally titled.
func boundaryNode(id, title string, w, h float64) *kgraph.Node {
	n := kgraph.NewNode(id)
	n.Size = kgraph.Size{Width: w, Height: h}
	frame := kgraph.Rendering{
		Kind:     kgraph.KindRoundedRectangle,
		Children: []kgraph.Rendering{{Kind: kgraph.KindChildArea}},
	}
	if title != "" {
		frame.Children = append(frame.Children, kgraph.Rendering{Kind: kgraph.KindText, Text: title})
	}
	n.Data = []kgraph.Rendering{frame}
	return n
}

func plainNode(id string) *kgraph.Node {
	n := kgraph.NewNode(id)
	n.Size = kgraph.Size{Width: 40, Height: 20}
	return n
}

func TestBuildRegionTree(t *testing.T) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	outer := boundaryNode("outer", "Outer", 800, 600)
	inner := boundaryNode("inner", "", 200, 150)
	leaf := plainNode("leaf")
	free := plainNode("free")

	root.AddChild(outer)
	outer.AddChild(inner)
	outer.AddChild(free)
	inner.AddChild(leaf)

	dm := Build(root, nil)
	if dm.Len() != 2 {
		t.Fatalf("Len = %d, want 2", dm.Len())
	}

	rootRegion := dm.RootRegions[0]
	if rootRegion.BoundingRect != nil {
		t.Error("root region must have no bounding rect")
	}
	// The boundary node belongs to the region above it.
	if len(rootRegion.Elements) != 1 || rootRegion.Elements[0] != outer {
		t.Errorf("root region elements = %v", rootRegion.Elements)
	}

	outerRegion := dm.Region("outer")
	if outerRegion == nil || outerRegion.Parent != rootRegion {
		t.Fatal("outer region missing or detached")
	}
	if len(outerRegion.Elements) != 2 {
		t.Errorf("outer region has %d elements, want inner and free", len(outerRegion.Elements))
	}

	innerRegion := dm.Region("inner")
	if innerRegion == nil || innerRegion.Parent != outerRegion {
		t.Fatal("inner region missing or misparented")
	}
	if len(innerRegion.Elements) != 1 || innerRegion.Elements[0] != leaf {
		t.Errorf("inner region elements = %v", innerRegion.Elements)
	}

	// FindRegion walks the ancestor chain for non-boundary nodes.
	if got := dm.FindRegion(leaf); got != innerRegion {
		t.Error("leaf should resolve to inner region")
	}
	if got := dm.FindRegion(free); got != outerRegion {
		t.Error("free should resolve to outer region")
	}
}

func TestBuildMalformedModelYieldsEmptyMap(t *testing.T) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	root.AddChild(boundaryNode("dup", "", 100, 100))
	root.AddChild(boundaryNode("dup", "", 100, 100))

	dm := Build(root, nil)
	if dm.Len() != 0 || len(dm.RootRegions) != 0 {
		t.Errorf("duplicate boundary IDs: Len=%d roots=%d, want empty map", dm.Len(), len(dm.RootRegions))
	}

	if dm := Build(nil, nil); dm.Len() != 0 {
		t.Error("nil root must yield an empty usable map")
	}
}

func TestSetExpandedPropagatesToElements(t *testing.T) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	outer := boundaryNode("outer", "", 400, 300)
	a, b := plainNode("a"), plainNode("b")
	root.AddChild(outer)
	outer.AddChild(a)
	outer.AddChild(b)

	dm := Build(root, nil)
	r := dm.Region("outer")

	r.SetExpanded(false)
	if a.Expanded || b.Expanded {
		t.Error("collapse did not propagate to elements")
	}
	r.SetExpanded(true)
	if !a.Expanded || !b.Expanded {
		t.Error("expand did not propagate to elements")
	}
}

func TestPlaceholderTitle(t *testing.T) {
	titled := boundaryNode("s1", "Supervisor", 100, 100)
	untitled := boundaryNode("s2", "", 100, 100)
	macro := boundaryNode("m1", "Worker", 50, 50)
	macro2 := boundaryNode("m2", "Backup", 50, 50)

	root := kgraph.NewNode(kgraph.RootNodeID)
	root.AddChild(titled)
	root.AddChild(untitled)
	untitled.AddChild(macro)
	dm := Build(root, nil)

	if got := dm.Region("s1").PlaceholderTitle(); got != "Supervisor" {
		t.Errorf("titled region placeholder = %q", got)
	}
	// Untitled region with exactly one macro state borrows its title.
	if got := dm.Region("s2").PlaceholderTitle(); got != "Worker" {
		t.Errorf("single-macro placeholder = %q", got)
	}

	// A second macro state suppresses the borrowed title.
	untitled.AddChild(macro2)
	dm = Build(root, nil)
	if got := dm.Region("s2").PlaceholderTitle(); got != "s2" {
		t.Errorf("multi-macro placeholder = %q, want bounding node ID", got)
	}
}

func TestHolderRebuildsOnRootChange(t *testing.T) {
	var h Holder

	root1 := kgraph.NewNode(kgraph.RootNodeID)
	root1.AddChild(boundaryNode("a", "", 100, 100))
	dm1 := h.For(root1)
	if h.For(root1) != dm1 {
		t.Error("same root must reuse the map")
	}

	root2 := kgraph.NewNode(kgraph.RootNodeID)
	root2.AddChild(boundaryNode("b", "", 100, 100))
	dm2 := h.For(root2)
	if dm2 == dm1 {
		t.Error("new root must rebuild the map")
	}

	h.Invalidate()
	if h.For(root2) == dm2 {
		t.Error("Invalidate must force a rebuild")
	}
}
