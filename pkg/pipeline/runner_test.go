package pipeline

import (
	"context"
	"testing"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/layered"
	"github.com/lennartvogel/foldview/pkg/store"
)

// testModel builds a two-layer state machine: a region boundary "machine"
// containing "a" (layer 0) and "b" (layer 1).
func testModel() *kgraph.Node {
	root := kgraph.NewNode(kgraph.RootNodeID)

	machine := kgraph.NewNode("machine")
	machine.Size = kgraph.Size{Width: 400, Height: 200}
	machine.Data = []kgraph.Rendering{{
		Kind:     kgraph.KindRoundedRectangle,
		Children: []kgraph.Rendering{{Kind: kgraph.KindChildArea}},
	}}
	root.AddChild(machine)

	a := kgraph.NewNode("a")
	a.Position = kgraph.Point{X: 10, Y: 50}
	a.Size = kgraph.Size{Width: 30, Height: 20}
	a.LayerID, a.PosID = 0, 0

	b := kgraph.NewNode("b")
	b.Position = kgraph.Point{X: 100, Y: 50}
	b.Size = kgraph.Size{Width: 30, Height: 20}
	b.LayerID, b.PosID = 1, 0

	machine.AddChild(a)
	machine.AddChild(b)
	return root
}

func TestApplyViewportTogglesRegions(t *testing.T) {
	r := NewRunner(nil, nil)
	root := testModel()
	ctx := context.Background()

	vp := fold.Viewport{Zoom: 1, Canvas: kgraph.Size{Width: 800, Height: 600}}
	states := r.ApplyViewport(ctx, "m1", root, vp, Options{})
	if len(states) != 1 {
		t.Fatalf("got %d regions, want 1", len(states))
	}
	if states[0].ID != "machine" || !states[0].Expanded {
		t.Fatalf("at zoom 1 got %+v, want machine expanded", states[0])
	}

	vp.Zoom = 0.001
	states = r.ApplyViewport(ctx, "m1", root, vp, Options{})
	if states[0].Expanded {
		t.Fatal("machine still expanded at zoom 0.001")
	}
}

func TestResolveMoveAcrossLayers(t *testing.T) {
	mem := store.NewMemoryStore()
	r := NewRunner(mem, nil)
	root := testModel()
	ctx := context.Background()

	action, err := r.ResolveMove(ctx, "m1", root, Move{NodeID: "a", X: 150, Y: 50}, Options{Direction: layered.Right})
	if err != nil {
		t.Fatal(err)
	}
	static, ok := action.(layered.SetStaticConstraintAction)
	if !ok {
		t.Fatalf("got %T (%s), want static constraint", action, action.Kind())
	}
	if static.ID != "a" || static.Layer != 1 {
		t.Fatalf("got %+v, want node a in layer 1", static)
	}

	cs, err := r.Constraints(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if cs == nil || len(cs.Records) != 1 || cs.Records[0].NodeID != "a" {
		t.Fatalf("stored set = %+v, want one record for a", cs)
	}

	a := root.Children[0].Children[0]
	if a.Shadow || a.ShadowX != 0 || a.ShadowY != 0 {
		t.Fatal("shadow state not cleared after resolution")
	}
}

func TestResolveMoveRefreshNotPersisted(t *testing.T) {
	mem := store.NewMemoryStore()
	r := NewRunner(mem, nil)
	root := testModel()
	ctx := context.Background()

	action, err := r.ResolveMove(ctx, "m1", root, Move{NodeID: "a", X: 10, Y: 50}, Options{Direction: layered.Right})
	if err != nil {
		t.Fatal(err)
	}
	if action.Kind() != layered.KindRefresh {
		t.Fatalf("got %s, want refresh", action.Kind())
	}

	cs, err := r.Constraints(ctx, "m1")
	if err != nil {
		t.Fatal(err)
	}
	if cs != nil {
		t.Fatalf("refresh persisted a constraint set: %+v", cs)
	}
}

func TestResolveMoveUnknownNode(t *testing.T) {
	r := NewRunner(nil, nil)
	root := testModel()

	_, err := r.ResolveMove(context.Background(), "m1", root, Move{NodeID: "ghost", X: 0, Y: 0}, Options{})
	if err == nil {
		t.Fatal("expected error for unknown node")
	}
	if errors.GetCode(err) != errors.ErrCodeNodeNotFound {
		t.Fatalf("got code %s, want %s", errors.GetCode(err), errors.ErrCodeNodeNotFound)
	}
}
