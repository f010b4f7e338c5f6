package layered

import (
	"math"

	"github.com/lennartvogel/foldview/pkg/kgraph"
)

// LayerOf converts the target's drag position into a candidate layer index
// by interval test against the layer bands. When no band contains the
// coordinate the node opens a new last layer, unless it already is the sole
// occupant of the current last layer, in which case it stays there.
func LayerOf(target *kgraph.Node, layers []Layer, nodes []*kgraph.Node, dir Direction) int {
	if len(layers) == 0 {
		return 0
	}
	c := mainCenter(target, dir)
	for _, l := range layers {
		if l.Contains(c) {
			return l.ID
		}
	}
	last := layers[len(layers)-1]
	if target.LayerID == last.ID && soleOccupant(target, last.ID, nodes) {
		return last.ID
	}
	return last.ID + 1
}

func soleOccupant(target *kgraph.Node, layerID int, nodes []*kgraph.Node) bool {
	for _, n := range nodes {
		if n != target && n.LayerID == layerID {
			return false
		}
	}
	return true
}

// ActualLayer compensates the candidate layer for pins placed earlier: when
// another node at or before the candidate layer carries a layer constraint
// greater than its committed layer id, the layout server has shifted layers
// to honor it, and the candidate must shift by the same cumulative offset.
func ActualLayer(nodes []*kgraph.Node, target *kgraph.Node, candidate int) int {
	maxCons := kgraph.Unset
	var maxNode *kgraph.Node
	for _, n := range nodes {
		if n == target || n.LayerID == kgraph.Unset || n.LayerConstraint == kgraph.Unset {
			continue
		}
		if n.LayerID <= candidate && n.LayerConstraint > n.LayerID && n.LayerConstraint > maxCons {
			maxCons = n.LayerConstraint
			maxNode = n
		}
	}
	if maxNode == nil {
		return candidate
	}
	return maxCons + (candidate - maxNode.LayerID)
}

// Chain collects the nodes glued to target by relative in-layer pins.
// Glued nodes move as one unit, so constraint conflicts are checked against
// the whole chain, not just the dragged node.
func Chain(target *kgraph.Node, nodes []*kgraph.Node) []*kgraph.Node {
	byID := make(map[string]*kgraph.Node, len(nodes))
	for _, n := range nodes {
		byID[n.ID] = n
	}

	inChain := map[string]bool{target.ID: true}
	chain := []*kgraph.Node{target}
	for grew := true; grew; {
		grew = false
		for _, n := range nodes {
			if inChain[n.ID] {
				continue
			}
			if glued(n, inChain, byID) {
				inChain[n.ID] = true
				chain = append(chain, n)
				grew = true
			}
		}
	}
	return chain
}

// glued reports whether n is relatively pinned to any current chain member,
// in either direction.
func glued(n *kgraph.Node, inChain map[string]bool, byID map[string]*kgraph.Node) bool {
	if inChain[n.InLayerPredOf] || inChain[n.InLayerSuccOf] {
		return true
	}
	for id := range inChain {
		m := byID[id]
		if m != nil && (m.InLayerPredOf == n.ID || m.InLayerSuccOf == n.ID) {
			return true
		}
	}
	return false
}

// LayerForbidden reports whether dropping the target's chain into the given
// layer would contradict an existing pin: some node connected to the chain
// by an edge is already constrained to that very layer, and pinning both
// endpoints of an edge into one layer is structurally impossible.
func LayerForbidden(target *kgraph.Node, nodes []*kgraph.Node, layer int) bool {
	chain := Chain(target, nodes)
	inChain := make(map[*kgraph.Node]bool, len(chain))
	for _, n := range chain {
		inChain[n] = true
	}
	for _, n := range chain {
		for _, e := range n.Outgoing {
			if !inChain[e.Target] && pinnedToLayer(e.Target, layer) {
				return true
			}
		}
		for _, e := range n.Incoming {
			if !inChain[e.Source] && pinnedToLayer(e.Source, layer) {
				return true
			}
		}
	}
	return false
}

func pinnedToLayer(n *kgraph.Node, layer int) bool {
	return n.LayerConstraint != kgraph.Unset && n.LayerConstraint == layer
}

// PositionInLayer returns the index at which the target would be inserted
// into the destination layer's node order: the index of the first node
// whose cross-axis coordinate exceeds the target's, with the target itself
// ignored.
func PositionInLayer(layerNodes []*kgraph.Node, target *kgraph.Node, dir Direction) int {
	c := crossCenter(target, dir)
	i := 0
	for _, n := range layerNodes {
		if n == target {
			continue
		}
		if crossCenter(n, dir) > c {
			return i
		}
		i++
	}
	return i
}

// ActualTargetIndex compensates the insertion index for an earlier position
// pin on the immediate upper neighbor: a neighbor whose pinned position
// exceeds its committed index has shifted the positions after it, and the
// target must land past that shift.
func ActualTargetIndex(index int, layerNodes []*kgraph.Node, target *kgraph.Node) int {
	others := layerNodes[:0:0]
	for _, n := range layerNodes {
		if n != target {
			others = append(others, n)
		}
	}
	if index <= 0 || index > len(others) {
		return index
	}
	upper := others[index-1]
	if upper.PosConstraint != kgraph.Unset && upper.PosID != kgraph.Unset && upper.PosConstraint > upper.PosID {
		return index + (upper.PosConstraint - upper.PosID)
	}
	return index
}

// Resolve translates the target's post-drag position into the constraint
// action to persist, or a refresh when nothing effectively changed or the
// move would conflict with existing pins. nodes are the siblings of one
// hierarchy level, layers the bands computed for that level (see LayersOf),
// and target the node being released; the target's shadow position is used
// throughout.
func Resolve(nodes []*kgraph.Node, layers []Layer, target *kgraph.Node, dir Direction) Action {
	candidate := LayerOf(target, layers, nodes, dir)
	actualLayer := ActualLayer(nodes, target, candidate)

	if LayerForbidden(target, nodes, actualLayer) {
		return RefreshAction{}
	}

	layerNodes := NodesOfLayer(candidate, nodes, dir)
	position := PositionInLayer(layerNodes, target, dir)
	actualPos := ActualTargetIndex(position, layerNodes, target)

	if candidate != target.LayerID {
		if outsideCrossSpan(target, layers, dir) {
			return SetLayerConstraintAction{
				ID:        target.ID,
				Layer:     candidate,
				LayerCons: actualLayer,
			}
		}
		return SetStaticConstraintAction{
			ID:        target.ID,
			Layer:     candidate,
			LayerCons: actualLayer,
			Position:  position,
			PosCons:   actualPos,
		}
	}

	if position != target.PosID {
		return SetPositionConstraintAction{
			ID:       target.ID,
			Position: position,
			PosCons:  actualPos,
		}
	}

	return RefreshAction{}
}

// outsideCrossSpan reports whether the drop point lies beyond the cross-axis
// span covered by the level's layers. A drop outside the span expresses "put
// it in this layer, anywhere", so only the layer is constrained.
func outsideCrossSpan(target *kgraph.Node, layers []Layer, dir Direction) bool {
	if len(layers) == 0 {
		return true
	}
	top, bottom := math.Inf(1), math.Inf(-1)
	for _, l := range layers {
		top = math.Min(top, l.Top)
		bottom = math.Max(bottom, l.Bottom)
	}
	c := crossCenter(target, dir)
	return c < top || c > bottom
}
