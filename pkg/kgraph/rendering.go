package kgraph

// RenderingKind identifies one of the finite graphical descriptor types a
// node can carry. The set is closed: servers never emit kinds outside this
// enumeration, and unknown kinds read from serialized models decode to
// KindUnknown.
type RenderingKind int

const (
	// KindUnknown is the zero value for unrecognized descriptors.
	KindUnknown RenderingKind = iota
	// KindRectangle is a plain filled rectangle.
	KindRectangle
	// KindRoundedRectangle is a rectangle with rounded corners.
	KindRoundedRectangle
	// KindEllipse is an ellipse or circle.
	KindEllipse
	// KindText is a text label.
	KindText
	// KindPolyline is an open polyline.
	KindPolyline
	// KindPolygon is a closed polygon.
	KindPolygon
	// KindSpline is a smooth curve through control points.
	KindSpline
	// KindArc is a circular arc segment.
	KindArc
	// KindImage is an embedded raster image.
	KindImage
	// KindChildArea marks the sub-rendering into which child nodes are placed.
	KindChildArea
)

var kindNames = map[RenderingKind]string{
	KindRectangle:        "rectangle",
	KindRoundedRectangle: "roundedRectangle",
	KindEllipse:          "ellipse",
	KindText:             "text",
	KindPolyline:         "polyline",
	KindPolygon:          "polygon",
	KindSpline:           "spline",
	KindArc:              "arc",
	KindImage:            "image",
	KindChildArea:        "childArea",
}

var kindValues = func() map[string]RenderingKind {
	m := make(map[string]RenderingKind, len(kindNames))
	for k, v := range kindNames {
		m[v] = k
	}
	return m
}()

// String returns the serialization name of the kind, or "unknown".
func (k RenderingKind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown"
}

// KindFromString maps a serialization name back to a RenderingKind.
// Unrecognized names map to KindUnknown.
func KindFromString(s string) RenderingKind {
	return kindValues[s]
}

// IsRectangular reports whether the kind draws a rectangular frame.
func (k RenderingKind) IsRectangular() bool {
	return k == KindRectangle || k == KindRoundedRectangle
}

// Rendering is one graphical descriptor attached to a node. Renderings nest:
// a rectangle may contain the text and child-area renderings drawn inside it.
// Only the structure is modeled here; actual drawing is the renderer's job.
type Rendering struct {
	Kind     RenderingKind
	Text     string // label content, set for KindText only
	Children []Rendering
}

// IsRegionBoundary reports whether n opens a new collapsible region: its
// first graphical descriptor is a rectangular frame that itself carries
// nested renderings. This is the single predicate deciding region
// boundaries; callers must not re-derive it from the raw descriptor list.
func IsRegionBoundary(n *Node) bool {
	if n == nil || len(n.Data) == 0 {
		return false
	}
	first := n.Data[0]
	return first.Kind.IsRectangular() && len(first.Children) > 0
}

// TitleOf returns the first text descriptor nested in n's frame rendering,
// if any. Collapsed regions use it as their placeholder label.
func TitleOf(n *Node) (string, bool) {
	if n == nil || len(n.Data) == 0 {
		return "", false
	}
	return findText(n.Data[0])
}

func findText(r Rendering) (string, bool) {
	if r.Kind == KindText {
		return r.Text, true
	}
	for _, c := range r.Children {
		if s, ok := findText(c); ok {
			return s, true
		}
	}
	return "", false
}
