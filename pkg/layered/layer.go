package layered

import (
	"math"
	"slices"

	"github.com/lennartvogel/foldview/pkg/kgraph"
)

// OneLayerPadding widens the single layer of a one-layer diagram on both
// sides so a small drag does not immediately leave the layer interval.
const OneLayerPadding = 10.0

// Layer is one discrete band of a layered layout. Begin and End bound the
// layer along the main axis as a half-open interval; for reversed
// directions (Left, Up) Begin is the numerically larger edge. Top and
// Bottom span the whole layered area along the cross axis and are shared by
// all layers of one level.
type Layer struct {
	ID     int
	Begin  float64
	End    float64
	Top    float64
	Bottom float64
	Dir    Direction
}

// Contains reports whether the main-axis coordinate c falls into the
// layer's half-open interval, direction-aware: a coordinate exactly on the
// End boundary belongs to the next layer.
func (l Layer) Contains(c float64) bool {
	if l.Dir.reversed() {
		return c <= l.Begin && c > l.End
	}
	return c >= l.Begin && c < l.End
}

// LayersOf derives the layer bands of one hierarchy level from the
// committed layer assignments and coordinates of its nodes. Boundaries
// between adjacent layers sit halfway between the far edge of one layer and
// the near edge of the next. Nodes without a layer id and nodes that are
// mid-drag (shadow) are ignored; a dragged node must not stretch the very
// band it is being compared against.
func LayersOf(nodes []*kgraph.Node, dir Direction) []Layer {
	groups := make(map[int][]*kgraph.Node)
	for _, n := range nodes {
		if n.LayerID == kgraph.Unset || n.Shadow {
			continue
		}
		groups[n.LayerID] = append(groups[n.LayerID], n)
	}
	if len(groups) == 0 {
		return nil
	}

	ids := make([]int, 0, len(groups))
	for id := range groups {
		ids = append(ids, id)
	}
	slices.Sort(ids)

	sign := dir.sign()
	top, bottom := math.Inf(1), math.Inf(-1)

	// Extents in direction-normalized space, where coordinates increase
	// with the layer index regardless of direction.
	lo := make([]float64, len(ids))
	hi := make([]float64, len(ids))
	for i, id := range ids {
		lo[i], hi[i] = math.Inf(1), math.Inf(-1)
		for _, n := range groups[id] {
			a, b := mainExtent(n, dir)
			lo[i] = math.Min(lo[i], a*sign)
			hi[i] = math.Max(hi[i], b*sign)
			if lo[i] > hi[i] {
				lo[i], hi[i] = hi[i], lo[i]
			}
			ca, cb := crossExtent(n, dir)
			top = math.Min(top, ca)
			bottom = math.Max(bottom, cb)
		}
	}

	layers := make([]Layer, len(ids))
	for i, id := range ids {
		begin, end := lo[i], hi[i]
		if i > 0 {
			begin = (hi[i-1] + lo[i]) / 2
		}
		if i < len(ids)-1 {
			end = (hi[i] + lo[i+1]) / 2
		}
		if len(ids) == 1 {
			begin -= OneLayerPadding
			end += OneLayerPadding
		}
		layers[i] = Layer{
			ID:     id,
			Begin:  begin * sign,
			End:    end * sign,
			Top:    top,
			Bottom: bottom,
			Dir:    dir,
		}
	}
	return layers
}

// mainExtent returns the node's committed extent along the main axis, lower
// edge first in raw coordinates.
func mainExtent(n *kgraph.Node, dir Direction) (float64, float64) {
	if dir.Horizontal() {
		return n.Position.X, n.Position.X + n.Size.Width
	}
	return n.Position.Y, n.Position.Y + n.Size.Height
}

// crossExtent returns the node's committed extent along the cross axis.
func crossExtent(n *kgraph.Node, dir Direction) (float64, float64) {
	if dir.Horizontal() {
		return n.Position.Y, n.Position.Y + n.Size.Height
	}
	return n.Position.X, n.Position.X + n.Size.Width
}

// mainCenter returns the drag-effective center coordinate along the main
// axis.
func mainCenter(n *kgraph.Node, dir Direction) float64 {
	c := n.Center()
	if dir.Horizontal() {
		return c.X
	}
	return c.Y
}

// crossCenter returns the drag-effective center coordinate along the cross
// axis.
func crossCenter(n *kgraph.Node, dir Direction) float64 {
	c := n.Center()
	if dir.Horizontal() {
		return c.Y
	}
	return c.X
}

// NodesOfLayer returns the nodes committed to the given layer id, ordered
// by position id with coordinate order breaking ties.
func NodesOfLayer(id int, nodes []*kgraph.Node, dir Direction) []*kgraph.Node {
	var out []*kgraph.Node
	for _, n := range nodes {
		if n.LayerID == id {
			out = append(out, n)
		}
	}
	slices.SortStableFunc(out, func(a, b *kgraph.Node) int {
		if a.PosID != b.PosID {
			return a.PosID - b.PosID
		}
		ca, cb := crossCenter(a, dir), crossCenter(b, dir)
		switch {
		case ca < cb:
			return -1
		case ca > cb:
			return 1
		default:
			return 0
		}
	})
	return out
}
