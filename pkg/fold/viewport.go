package fold

import "github.com/lennartvogel/foldview/pkg/kgraph"

// Viewport describes what the user currently sees: the scroll offset of the
// canvas origin in diagram coordinates, the zoom factor, and the canvas
// extent in screen pixels.
type Viewport struct {
	Scroll kgraph.Point `json:"scroll"`
	Zoom   float64      `json:"zoom"`
	Canvas kgraph.Size  `json:"canvas"`
}

// Same reports whether the scroll offset and zoom are unchanged relative to
// o. Canvas resizes alone do not count as viewport changes.
func (v Viewport) Same(o Viewport) bool {
	return v.Scroll == o.Scroll && v.Zoom == o.Zoom
}

// VisibleRect returns the diagram-space rectangle covered by the canvas.
// A non-positive zoom is treated as 1 to keep the rectangle finite.
func (v Viewport) VisibleRect() kgraph.Bounds {
	zoom := v.Zoom
	if zoom <= 0 {
		zoom = 1
	}
	return kgraph.Bounds{
		X:      v.Scroll.X,
		Y:      v.Scroll.Y,
		Width:  v.Canvas.Width / zoom,
		Height: v.Canvas.Height / zoom,
	}
}

// Options tunes the expand/collapse decision.
type Options struct {
	// Threshold is the minimum on-screen size ratio (rendered extent over
	// canvas extent) at which a visible region stays expanded. Zero means
	// DefaultThreshold.
	Threshold float64

	// Buffer inflates the visible rectangle on all sides before the
	// visibility test, tolerating estimation error in absolute-position
	// tracking. Zero means DefaultBuffer; use a negative value for a true
	// zero buffer.
	Buffer float64
}

const (
	// DefaultThreshold is the default expansion size ratio.
	DefaultThreshold = 0.2

	// DefaultBuffer is the default visibility buffer in diagram units.
	DefaultBuffer = 500.0
)

func (o Options) withDefaults() Options {
	if o.Threshold == 0 {
		o.Threshold = DefaultThreshold
	}
	switch {
	case o.Buffer == 0:
		o.Buffer = DefaultBuffer
	case o.Buffer < 0:
		o.Buffer = 0
	}
	return o
}
