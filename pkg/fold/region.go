package fold

import "github.com/lennartvogel/foldview/pkg/kgraph"

// Region is one collapsible nested area of the diagram. Regions form a tree
// mirroring the diagram's nesting: Children are the regions one level
// deeper, Parent is a non-owning back-pointer, and the DepthMap owns every
// region exclusively.
type Region struct {
	// BoundingRect is the node whose rendered rectangle frames the region.
	// It is the region's identity key in the DepthMap. Nil only for the
	// synthetic root regions created for top-level model children that are
	// not themselves boundaries; a nil BoundingRect always evaluates as
	// expanded.
	BoundingRect *kgraph.Node

	// Elements are the nodes directly inside this region, excluding nodes
	// inside nested child regions. A region boundary node belongs to its
	// parent region's elements, never its own.
	Elements []*kgraph.Node

	Children []*Region
	Parent   *Region

	// Expanded is the region's current visibility state. SetExpanded keeps
	// the direct elements in sync; nested regions are adjusted explicitly
	// by the propagation algorithm, not here.
	Expanded bool

	// AbsoluteBounds is the region frame in viewport space, filled in once
	// real screen coordinates are known. Nil means "assume visible".
	AbsoluteBounds *kgraph.Bounds

	// Placeholder-label metadata, derived during construction. Orthogonal
	// to the expansion logic.
	HasTitle               bool
	SuperStateTitle        string
	MacroStateTitle        string
	HasMacroState          bool
	HasMultipleMacroStates bool
}

func newRegion(parent *Region, rect *kgraph.Node) *Region {
	r := &Region{BoundingRect: rect, Parent: parent, Expanded: true}
	if parent != nil {
		parent.Children = append(parent.Children, r)
	}
	if rect != nil {
		if title, ok := kgraph.TitleOf(rect); ok {
			r.HasTitle = true
			r.SuperStateTitle = title
		}
	}
	return r
}

// SetExpanded sets the region's state and propagates it to every direct
// element. Nested child regions are left alone.
func (r *Region) SetExpanded(expanded bool) {
	r.Expanded = expanded
	for _, el := range r.Elements {
		el.Expanded = expanded
	}
}

// addElement records el as directly contained in r and updates the
// macro-state metadata when el is itself a region boundary.
func (r *Region) addElement(el *kgraph.Node) {
	r.Elements = append(r.Elements, el)
	if kgraph.IsRegionBoundary(el) {
		if r.HasMacroState {
			r.HasMultipleMacroStates = true
		} else {
			r.HasMacroState = true
			if title, ok := kgraph.TitleOf(el); ok {
				r.MacroStateTitle = title
			} else {
				r.MacroStateTitle = el.ID
			}
		}
	}
}

// PlaceholderTitle returns the label a renderer should show for the region
// when collapsed: its own title if present, else the title of its single
// macro state, else the bounding node's ID.
func (r *Region) PlaceholderTitle() string {
	switch {
	case r.HasTitle:
		return r.SuperStateTitle
	case r.HasMacroState && !r.HasMultipleMacroStates:
		return r.MacroStateTitle
	case r.BoundingRect != nil:
		return r.BoundingRect.ID
	default:
		return ""
	}
}
