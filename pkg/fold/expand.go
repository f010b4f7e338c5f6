package fold

// ExpandCollapse re-evaluates region expansion states for the given
// viewport. It mutates region (and element) state in place and returns
// nothing; renderers read the state back off the model.
//
// Calling it again with an unchanged scroll and zoom is a no-op. With an
// empty critical set the whole tree is walked top-down (cold start);
// otherwise only the critical frontier and any newly visible subtrees are
// re-tested, so per-call cost tracks the number of state changes rather
// than diagram size.
func (d *DepthMap) ExpandCollapse(vp Viewport, opts Options) {
	opts = opts.withDefaults()
	if d.hasViewport && vp.Same(d.viewport) {
		return
	}
	d.viewport = vp
	d.hasViewport = true

	if len(d.critical) == 0 {
		for _, r := range d.RootRegions {
			d.processRoot(r, vp, opts)
		}
	} else {
		d.checkCriticalRegions(vp, opts)
		// Fully collapsed roots have no critical ancestor to carry them
		// through the frontier pass, so they are re-tested directly.
		for _, r := range d.RootRegions {
			if !r.Expanded {
				d.processRoot(r, vp, opts)
			}
		}
	}

	d.pruneCritical()
}

func (d *DepthMap) processRoot(r *Region, vp Viewport, opts Options) {
	if d.expansionState(r, vp, opts) {
		d.searchUntilCollapse(r, vp, opts)
	} else {
		d.collapseSubtree(r)
	}
}

// expansionState decides the state a region should have under vp: collapsed
// when invisible, expanded when it has no bounding rectangle, otherwise
// expanded iff its on-screen size ratio reaches the threshold or the zoom
// is at native resolution.
func (d *DepthMap) expansionState(r *Region, vp Viewport, opts Options) bool {
	if !d.visible(r, vp, opts) {
		return false
	}
	if r.BoundingRect == nil {
		return true
	}
	if vp.Zoom >= 1 {
		return true
	}
	return d.sizeInViewport(r, vp) >= opts.Threshold
}

// sizeInViewport returns the larger of the region frame's rendered width
// and height relative to the canvas at the current zoom.
func (d *DepthMap) sizeInViewport(r *Region, vp Viewport) float64 {
	if vp.Canvas.Width <= 0 || vp.Canvas.Height <= 0 {
		// No usable canvas information: fail open.
		return 1
	}
	size := r.BoundingRect.Size
	w := size.Width * vp.Zoom / vp.Canvas.Width
	h := size.Height * vp.Zoom / vp.Canvas.Height
	return max(w, h)
}

// visible reports whether the region's absolute bounds intersect the
// buffered visible rectangle. Unknown bounds count as visible:
// under-collapsing beats hiding content that is actually on screen.
func (d *DepthMap) visible(r *Region, vp Viewport, opts Options) bool {
	if r.AbsoluteBounds == nil {
		return true
	}
	return r.AbsoluteBounds.Intersects(vp.VisibleRect().Inflate(opts.Buffer))
}

// searchUntilCollapse expands r and descends until a child tests collapsed.
// The collapsed child's subtree is forced collapsed and r becomes critical,
// marking the boundary between the expanded and collapsed parts of the
// tree.
func (d *DepthMap) searchUntilCollapse(r *Region, vp Viewport, opts Options) {
	r.SetExpanded(true)
	for _, c := range r.Children {
		if d.expansionState(c, vp, opts) {
			d.searchUntilCollapse(c, vp, opts)
		} else {
			d.collapseSubtree(c)
			d.critical[r] = struct{}{}
		}
	}
}

// collapseSubtree forces r and every descendant region collapsed and drops
// them from the critical set.
func (d *DepthMap) collapseSubtree(r *Region) {
	r.SetExpanded(false)
	delete(d.critical, r)
	for _, c := range r.Children {
		d.collapseSubtree(c)
	}
}

// checkCriticalRegions re-tests the critical frontier in breadth-first
// waves. A critical region collapses when its parent is already collapsed
// or its own test fails; the collapse moves the frontier up to its parent.
// A critical region that stays expanded exposes its children as newly
// visible candidates, each tested on its own: a passing candidate resumes
// a cold-start-style descent, a failing one is collapsed with its subtree
// and keeps its parent critical.
func (d *DepthMap) checkCriticalRegions(vp Viewport, opts Options) {
	frontier := make([]*Region, 0, len(d.critical))
	for r := range d.critical {
		frontier = append(frontier, r)
	}

	for len(frontier) > 0 {
		var next []*Region
		var newlyVisible []*Region

		for _, r := range frontier {
			if _, still := d.critical[r]; !still {
				// Collapsed transitively earlier in this wave.
				continue
			}
			parentCollapsed := r.Parent != nil && !r.Parent.Expanded
			if parentCollapsed || !d.expansionState(r, vp, opts) {
				delete(d.critical, r)
				d.collapseSubtree(r)
				if p := r.Parent; p != nil {
					if _, ok := d.critical[p]; !ok {
						d.critical[p] = struct{}{}
						next = append(next, p)
					}
				}
			} else {
				newlyVisible = append(newlyVisible, r.Children...)
			}
		}

		for _, c := range newlyVisible {
			if d.expansionState(c, vp, opts) {
				d.searchUntilCollapse(c, vp, opts)
			} else {
				d.collapseSubtree(c)
				if p := c.Parent; p != nil {
					d.critical[p] = struct{}{}
				}
			}
		}

		frontier = next
	}
}

// pruneCritical restores the critical-set invariant after a pass: a region
// is critical iff it is expanded and has at least one collapsed child.
// Without this, a region whose children all re-expanded during an
// incremental pass would be re-examined forever.
func (d *DepthMap) pruneCritical() {
	for r := range d.critical {
		if !r.Expanded {
			delete(d.critical, r)
			continue
		}
		hasCollapsedChild := false
		for _, c := range r.Children {
			if !c.Expanded {
				hasCollapsedChild = true
				break
			}
		}
		if !hasCollapsedChild {
			delete(d.critical, r)
		}
	}
}
