package fold

import (
	"fmt"
	"slices"

	"github.com/charmbracelet/log"

	"github.com/lennartvogel/foldview/pkg/kgraph"
)

// DepthMap is the hierarchical spatial index over one diagram model: a tree
// of Regions mirroring the model's nesting, plus the bookkeeping needed to
// update expansion states incrementally as the viewport moves.
//
// A DepthMap is built once per displayed model and mutated in place on every
// viewport change; Regions are never recreated per frame. It is not safe for
// concurrent use: the host event loop (or a per-model mutex in the sidecar
// server) must serialize calls.
type DepthMap struct {
	// RootRegions are the synthetic top-level regions, one per child of the
	// model root, in model order. Their BoundingRect is nil, so they always
	// evaluate as expanded while visible.
	RootRegions []*Region

	regionMap map[string]*Region   // boundary node ID -> region
	critical  map[*Region]struct{} // expanded regions with a collapsed child

	viewport    Viewport
	hasViewport bool
}

// Build constructs the DepthMap for the model rooted at root. A malformed
// model (nil nodes, duplicate boundary IDs) is logged on logger and yields
// an empty but usable DepthMap; construction never fails outward. A nil
// logger falls back to log.Default().
func Build(root *kgraph.Node, logger *log.Logger) *DepthMap {
	if logger == nil {
		logger = log.Default()
	}
	d := &DepthMap{
		regionMap: make(map[string]*Region),
		critical:  make(map[*Region]struct{}),
	}
	if root == nil {
		logger.Error("depth map: nil model root, using empty region tree")
		return d
	}
	for _, child := range root.Children {
		region := newRegion(nil, nil)
		if err := d.buildRegion(child, region); err != nil {
			logger.Error("depth map construction failed, using empty region tree", "err", err)
			return &DepthMap{
				regionMap: make(map[string]*Region),
				critical:  make(map[*Region]struct{}),
			}
		}
		d.RootRegions = append(d.RootRegions, region)
	}
	return d
}

// buildRegion assigns n to cur and descends. A region-boundary node starts a
// nested region for its children but itself stays an element of cur.
func (d *DepthMap) buildRegion(n *kgraph.Node, cur *Region) error {
	if n == nil {
		return fmt.Errorf("nil node in model tree")
	}
	cur.addElement(n)
	next := cur
	if kgraph.IsRegionBoundary(n) {
		if _, dup := d.regionMap[n.ID]; dup {
			return fmt.Errorf("duplicate region boundary %q", n.ID)
		}
		next = newRegion(cur, n)
		d.regionMap[n.ID] = next
	}
	for _, c := range n.Children {
		if err := d.buildRegion(c, next); err != nil {
			return err
		}
	}
	return nil
}

// FindRegion returns the region governing n: n's own region if n is a
// boundary, otherwise the nearest enclosing one found by walking the
// ancestor chain. A nil result is a normal outcome (e.g. for the synthetic
// root), not an error.
func (d *DepthMap) FindRegion(n *kgraph.Node) *Region {
	for cur := n; cur != nil; cur = cur.Parent {
		if r, ok := d.regionMap[cur.ID]; ok {
			return r
		}
	}
	return nil
}

// Region returns the region whose boundary node has the given ID, or nil.
func (d *DepthMap) Region(id string) *Region {
	return d.regionMap[id]
}

// Len returns the number of boundary regions (root regions excluded).
func (d *DepthMap) Len() int { return len(d.regionMap) }

// SetAbsoluteBounds records the viewport-space rectangle of the region
// keyed by the given boundary node ID. Reports whether the region exists.
func (d *DepthMap) SetAbsoluteBounds(id string, b kgraph.Bounds) bool {
	r, ok := d.regionMap[id]
	if !ok {
		return false
	}
	r.AbsoluteBounds = &b
	return true
}

// RegionState is one region's expansion state in a Snapshot.
type RegionState struct {
	ID       string `json:"id"`
	Expanded bool   `json:"expanded"`
	Depth    int    `json:"depth"`
}

// Snapshot lists every boundary region's state, sorted by ID, for
// inspection and API responses.
func (d *DepthMap) Snapshot() []RegionState {
	out := make([]RegionState, 0, len(d.regionMap))
	for id, r := range d.regionMap {
		out = append(out, RegionState{ID: id, Expanded: r.Expanded, Depth: r.depth()})
	}
	slices.SortFunc(out, func(a, b RegionState) int {
		if a.ID < b.ID {
			return -1
		}
		if a.ID > b.ID {
			return 1
		}
		return 0
	})
	return out
}

func (r *Region) depth() int {
	d := 0
	for cur := r.Parent; cur != nil; cur = cur.Parent {
		d++
	}
	return d
}

// Holder caches one live DepthMap per displayed model, rebuilding it when
// the model root identity changes. This replaces hidden global state with an
// explicit cache owned by the caller.
type Holder struct {
	Logger *log.Logger

	root *kgraph.Node
	dm   *DepthMap
}

// For returns the DepthMap for root, building it on first use and whenever
// the root pointer differs from the previous call. The previous map is
// discarded; stale references to it simply stop receiving events.
func (h *Holder) For(root *kgraph.Node) *DepthMap {
	if h.dm == nil || h.root != root {
		h.root = root
		h.dm = Build(root, h.Logger)
	}
	return h.dm
}

// Invalidate drops the cached map so the next For rebuilds it.
func (h *Holder) Invalidate() {
	h.root = nil
	h.dm = nil
}
