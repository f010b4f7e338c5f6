package fold

import (
	"testing"

	"github.com/lennartvogel/foldview/pkg/kgraph"
)

// nestedModel builds three nested regions sized so that, on a 1000x1000
// canvas at the default threshold, they expand at zoom 0.25 (grand), 0.5
// (parent) and 1.0 (child) respectively.
func nestedModel() (*kgraph.Node, *DepthMap) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	grand := boundaryNode("grand", "", 800, 600)
	parent := boundaryNode("parent", "", 400, 300)
	child := boundaryNode("child", "", 200, 150)

	root.AddChild(grand)
	grand.AddChild(parent)
	parent.AddChild(child)
	child.AddChild(plainNode("leaf"))

	return root, Build(root, nil)
}

func vpAt(zoom float64) Viewport {
	return Viewport{Zoom: zoom, Canvas: kgraph.Size{Width: 1000, Height: 1000}}
}

func expansion(dm *DepthMap) map[string]bool {
	out := make(map[string]bool)
	for _, s := range dm.Snapshot() {
		out[s.ID] = s.Expanded
	}
	return out
}

func TestColdStartByZoom(t *testing.T) {
	tests := []struct {
		zoom                 float64
		grand, parent, child bool
	}{
		{0.1, false, false, false},
		{0.3, true, false, false},
		{0.6, true, true, false},
		{1.0, true, true, true},
		{2.5, true, true, true},
	}

	for _, tt := range tests {
		_, dm := nestedModel()
		dm.ExpandCollapse(vpAt(tt.zoom), Options{})
		got := expansion(dm)
		if got["grand"] != tt.grand || got["parent"] != tt.parent || got["child"] != tt.child {
			t.Errorf("zoom %v: got %v, want grand=%v parent=%v child=%v",
				tt.zoom, got, tt.grand, tt.parent, tt.child)
		}
	}
}

func TestCollapsedParentForcesChildrenCollapsed(t *testing.T) {
	_, dm := nestedModel()
	dm.ExpandCollapse(vpAt(0.3), Options{})

	// parent fails its own test; child passes nothing while its parent is
	// collapsed.
	got := expansion(dm)
	if got["parent"] || got["child"] {
		t.Errorf("states = %v, want everything under grand collapsed", got)
	}

	// Elements mirror the region state.
	if dm.Region("parent").Elements[0].Expanded {
		t.Error("elements of a collapsed region must be collapsed")
	}
}

func TestUnchangedViewportIsNoOp(t *testing.T) {
	_, dm := nestedModel()
	vp := vpAt(0.6)
	dm.ExpandCollapse(vp, Options{})
	before := dm.Snapshot()

	// Same scroll and zoom, different canvas: skipped entirely.
	vp.Canvas = kgraph.Size{Width: 10, Height: 10}
	dm.ExpandCollapse(vp, Options{})
	after := dm.Snapshot()

	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("state changed on unchanged viewport: %+v -> %+v", before[i], after[i])
		}
	}
}

func TestIncrementalZoomOutAndBackIn(t *testing.T) {
	_, dm := nestedModel()

	dm.ExpandCollapse(vpAt(0.6), Options{})
	if got := expansion(dm); !got["parent"] || got["child"] {
		t.Fatalf("setup: %v", got)
	}

	// Zoom out: the critical frontier collapses parent and moves up.
	dm.ExpandCollapse(vpAt(0.3), Options{})
	if got := expansion(dm); !got["grand"] || got["parent"] || got["child"] {
		t.Fatalf("after zoom out: %v", got)
	}

	// Zoom to native resolution: everything re-expands through the
	// frontier's newly visible descent.
	dm.ExpandCollapse(vpAt(1), Options{})
	if got := expansion(dm); !got["grand"] || !got["parent"] || !got["child"] {
		t.Fatalf("after zoom in: %v", got)
	}

	// And a full zoom-out from the all-expanded state collapses everything.
	dm.ExpandCollapse(vpAt(0.1), Options{})
	if got := expansion(dm); got["grand"] || got["parent"] || got["child"] {
		t.Fatalf("after full zoom out: %v", got)
	}
}

func TestIncrementalMatchesColdStart(t *testing.T) {
	zooms := []float64{0.6, 0.3, 1, 0.45, 0.1, 2, 0.3}

	_, incremental := nestedModel()
	for i, z := range zooms {
		incremental.ExpandCollapse(vpAt(z), Options{})

		_, cold := nestedModel()
		cold.ExpandCollapse(vpAt(z), Options{})

		got, want := expansion(incremental), expansion(cold)
		for id := range want {
			if got[id] != want[id] {
				t.Fatalf("step %d (zoom %v): region %s incremental=%v cold=%v",
					i, z, id, got[id], want[id])
			}
		}
	}
}

func TestVisibilityBuffer(t *testing.T) {
	_, dm := nestedModel()
	// Place the outermost region just beyond the default buffer.
	dm.SetAbsoluteBounds("grand", kgraph.Bounds{X: 1600, Y: 0, Width: 100, Height: 100})

	dm.ExpandCollapse(vpAt(1), Options{})
	if expansion(dm)["grand"] {
		t.Fatal("region beyond the buffered viewport must collapse")
	}

	// A wider buffer brings it back, even at the same zoom.
	_, dm = nestedModel()
	dm.SetAbsoluteBounds("grand", kgraph.Bounds{X: 1600, Y: 0, Width: 100, Height: 100})
	dm.ExpandCollapse(vpAt(1), Options{Buffer: 700})
	if !expansion(dm)["grand"] {
		t.Fatal("region within the widened buffer must expand")
	}
}

func TestZoomOneForcesExpansionOfVisible(t *testing.T) {
	root := kgraph.NewNode(kgraph.RootNodeID)
	tiny := boundaryNode("tiny", "", 2, 2)
	root.AddChild(tiny)
	dm := Build(root, nil)

	dm.ExpandCollapse(vpAt(1), Options{})
	if !expansion(dm)["tiny"] {
		t.Error("at zoom >= 1 every visible region must expand")
	}
}

// siblingModel builds one region with two sibling child regions of very
// different sizes, so one sibling can cross the threshold while the other
// stays collapsed and their shared parent is the critical frontier.
func siblingModel() *DepthMap {
	root := kgraph.NewNode(kgraph.RootNodeID)
	p := boundaryNode("p", "", 600, 600)
	c1 := boundaryNode("c1", "", 50, 50)
	c2 := boundaryNode("c2", "", 400, 400)

	root.AddChild(p)
	p.AddChild(c1)
	p.AddChild(c2)
	c1.AddChild(plainNode("l1"))
	c2.AddChild(plainNode("l2"))

	return Build(root, nil)
}

func TestIncrementalRetestsExpandedSibling(t *testing.T) {
	dm := siblingModel()

	// Zoom 0.6: p and c2 expand, c1 collapses, p becomes critical.
	dm.ExpandCollapse(vpAt(0.6), Options{})
	got := expansion(dm)
	if !got["p"] || got["c1"] || !got["c2"] {
		t.Fatalf("states at zoom 0.6 = %v, want p and c2 expanded", got)
	}

	// Zoom 0.4: c2's ratio drops to 0.16, below the threshold. The
	// incremental pass must re-test it even though it is still expanded.
	dm.ExpandCollapse(vpAt(0.4), Options{})
	got = expansion(dm)
	if !got["p"] || got["c1"] || got["c2"] {
		t.Errorf("states at zoom 0.4 = %v, want only p expanded", got)
	}
}

func TestIncrementalCollapsesSiblingOutsideBuffer(t *testing.T) {
	dm := siblingModel()
	dm.ExpandCollapse(vpAt(0.6), Options{})
	if !expansion(dm)["c2"] {
		t.Fatal("c2 must start expanded at zoom 0.6")
	}

	// Move c2 far past the buffered viewport and pan slightly so the pass
	// runs. It must collapse no matter how large it renders.
	dm.SetAbsoluteBounds("c2", kgraph.Bounds{X: 5000, Y: 0, Width: 400, Height: 400})
	vp := vpAt(0.6)
	vp.Scroll.X = 1
	dm.ExpandCollapse(vp, Options{})
	got := expansion(dm)
	if got["c2"] {
		t.Errorf("states = %v, region fully outside the buffered viewport must collapse", got)
	}
	if !got["p"] {
		t.Errorf("states = %v, p is still visible and above threshold", got)
	}
}

func TestZeroCanvasFailsOpen(t *testing.T) {
	_, dm := nestedModel()
	dm.ExpandCollapse(Viewport{Zoom: 0.01}, Options{})
	got := expansion(dm)
	if !got["grand"] || !got["parent"] || !got["child"] {
		t.Errorf("missing canvas info must not collapse anything: %v", got)
	}
}
