// Package pipeline wires the fold engine, the constraint resolver, and the
// constraint store into one reusable runner shared by the CLI and the
// sidecar server.
//
// The pipeline stages are:
//
//  1. Load: read a diagram model from JSON
//  2. Fold: build (or reuse) the depth map and apply viewport changes
//  3. Resolve: translate drag gestures into constraint actions, persisting
//     them through the configured store
//
// Each stage can be used independently; the Runner only holds the store,
// the logger, and the per-model depth-map cache.
package pipeline

import (
	"context"
	"time"

	"github.com/charmbracelet/log"

	"github.com/lennartvogel/foldview/pkg/errors"
	"github.com/lennartvogel/foldview/pkg/fold"
	"github.com/lennartvogel/foldview/pkg/kgraph"
	"github.com/lennartvogel/foldview/pkg/layered"
	"github.com/lennartvogel/foldview/pkg/observability"
	"github.com/lennartvogel/foldview/pkg/store"
)

// Options carries the tunables shared by CLI and server entry points.
type Options struct {
	// Threshold and Buffer tune the fold engine; zero values use the fold
	// package defaults.
	Threshold float64
	Buffer    float64

	// Direction is the layered layout direction used for move resolution.
	Direction layered.Direction
}

// FoldOptions converts the pipeline options to fold engine options.
func (o Options) FoldOptions() fold.Options {
	return fold.Options{Threshold: o.Threshold, Buffer: o.Buffer}
}

// Move is one recorded or live drag gesture: the node released and its
// shadow position (top-left corner) at release time.
type Move struct {
	NodeID string  `json:"node_id"`
	X      float64 `json:"x"`
	Y      float64 `json:"y"`
}

// Runner executes pipeline stages. The zero value is not usable; create
// with NewRunner. A Runner is not safe for concurrent use on the same
// model; the server serializes per-model access.
type Runner struct {
	store  store.Store
	logger *log.Logger
	holder fold.Holder
}

// NewRunner creates a pipeline runner. st may be nil to skip constraint
// persistence; a nil logger falls back to log.Default().
func NewRunner(st store.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.Default()
	}
	return &Runner{
		store:  st,
		logger: logger,
		holder: fold.Holder{Logger: logger},
	}
}

// LoadModel reads a diagram model file.
func (r *Runner) LoadModel(path string) (*kgraph.Node, error) {
	root, err := kgraph.ReadModelFile(path)
	if err != nil {
		return nil, err
	}
	r.logger.Debug("loaded model", "path", path, "nodes", root.Count()-1)
	return root, nil
}

// DepthMap returns the depth map for root, building it on first use and
// whenever the model root changes.
func (r *Runner) DepthMap(ctx context.Context, modelID string, root *kgraph.Node) *fold.DepthMap {
	start := time.Now()
	dm := r.holder.For(root)
	observability.Fold().OnDepthMapBuilt(ctx, modelID, dm.Len(), time.Since(start), nil)
	return dm
}

// ApplyViewport runs one expand/collapse pass and returns the resulting
// region states.
func (r *Runner) ApplyViewport(ctx context.Context, modelID string, root *kgraph.Node, vp fold.Viewport, opts Options) []fold.RegionState {
	dm := r.DepthMap(ctx, modelID, root)
	before := dm.Snapshot()

	start := time.Now()
	dm.ExpandCollapse(vp, opts.FoldOptions())
	after := dm.Snapshot()

	changed := 0
	for i := range after {
		if after[i].Expanded != before[i].Expanded {
			changed++
		}
	}
	observability.Fold().OnViewportApplied(ctx, modelID, changed, time.Since(start))
	r.logger.Debug("applied viewport", "model", modelID, "zoom", vp.Zoom, "changed", changed)
	return after
}

// ResolveMove translates a drag gesture into a constraint action and, when
// a store is configured, persists the resulting constraint. The target
// node's shadow state is set for the duration of the resolution and cleared
// before returning.
func (r *Runner) ResolveMove(ctx context.Context, modelID string, root *kgraph.Node, move Move, opts Options) (layered.Action, error) {
	if err := errors.ValidateNodeID(move.NodeID); err != nil {
		return nil, err
	}
	target := findNode(root, move.NodeID)
	if target == nil {
		return nil, errors.New(errors.ErrCodeNodeNotFound, "node %s not in model %s", move.NodeID, modelID)
	}
	parent := target.Parent
	if parent == nil {
		return nil, errors.New(errors.ErrCodeInvalidModel, "node %s has no parent level", move.NodeID)
	}

	target.Shadow = true
	target.ShadowX = move.X
	target.ShadowY = move.Y
	defer func() {
		target.Shadow = false
		target.ShadowX, target.ShadowY = 0, 0
	}()

	start := time.Now()
	siblings := parent.Children
	layers := layered.LayersOf(siblings, opts.Direction)
	action := layered.Resolve(siblings, layers, target, opts.Direction)
	observability.Resolve().OnResolve(ctx, modelID, move.NodeID, action.Kind(), time.Since(start))
	r.logger.Debug("resolved move", "model", modelID, "node", move.NodeID, "action", action.Kind())

	if r.store != nil {
		if err := r.persist(ctx, modelID, action); err != nil {
			return nil, err
		}
	}
	return action, nil
}

// persist merges the action into the model's stored constraint set.
// Refresh actions persist nothing.
func (r *Runner) persist(ctx context.Context, modelID string, action layered.Action) error {
	if action.Kind() == layered.KindRefresh {
		return nil
	}
	cs, err := r.store.Get(ctx, modelID)
	observability.Store().OnStoreGet(ctx, modelID, cs != nil, err)
	if err != nil {
		return err
	}
	if cs == nil {
		cs = &store.ConstraintSet{ModelID: modelID}
	}
	cs.Apply(action)
	cs.UpdatedAt = time.Now().UTC()
	err = r.store.Put(ctx, cs)
	observability.Store().OnStorePut(ctx, modelID, len(cs.Records), err)
	return err
}

// Constraints returns the stored constraint set for a model, or nil when
// no store is configured or nothing was stored.
func (r *Runner) Constraints(ctx context.Context, modelID string) (*store.ConstraintSet, error) {
	if r.store == nil {
		return nil, nil
	}
	cs, err := r.store.Get(ctx, modelID)
	observability.Store().OnStoreGet(ctx, modelID, cs != nil, err)
	return cs, err
}

func findNode(root *kgraph.Node, id string) *kgraph.Node {
	var found *kgraph.Node
	root.Walk(func(n *kgraph.Node) bool {
		if n.ID == id {
			found = n
			return false
		}
		return true
	})
	return found
}
