// Package fold implements the viewport-driven region expand/collapse engine.
//
// A diagram with deep nesting cannot be rendered in full detail at every
// zoom level. The fold engine builds a tree of [Region] values over the
// model (one region per collapsible nested area) and keeps each region's
// expanded/collapsed state in sync with what the user can usefully see:
// regions that are off screen or too small collapse to a placeholder,
// regions that grow past a size threshold expand again.
//
// # Incremental updates
//
// Scroll and zoom events arrive continuously, so re-testing the whole
// region tree every frame would make cost proportional to diagram size.
// Instead the [DepthMap] tracks the critical frontier: the expanded regions
// that have at least one collapsed child. On a viewport change only that
// frontier is re-examined; collapses move the frontier up, expansions
// resume a top-down descent below it. Cost per call is proportional to the
// number of state changes.
//
// # Usage
//
//	dm := fold.Build(modelRoot, logger)
//	dm.ExpandCollapse(fold.Viewport{
//	    Scroll: kgraph.Point{X: 0, Y: 0},
//	    Zoom:   0.5,
//	    Canvas: kgraph.Size{Width: 1280, Height: 800},
//	}, fold.Options{})
//
// Renderers then read Expanded off the model nodes. Use a [Holder] to keep
// one live map per displayed model across model swaps.
package fold
