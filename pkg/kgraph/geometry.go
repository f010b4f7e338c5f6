package kgraph

// Point is a position in diagram coordinates.
type Point struct {
	X float64 `json:"x" bson:"x"`
	Y float64 `json:"y" bson:"y"`
}

// Size is the extent of a node or canvas.
type Size struct {
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Bounds is an axis-aligned rectangle.
type Bounds struct {
	X      float64 `json:"x" bson:"x"`
	Y      float64 `json:"y" bson:"y"`
	Width  float64 `json:"width" bson:"width"`
	Height float64 `json:"height" bson:"height"`
}

// Intersects reports whether b and o overlap. Rectangles that merely touch
// at an edge do not intersect, and a rectangle without positive extent
// intersects nothing.
func (b Bounds) Intersects(o Bounds) bool {
	if b.Width <= 0 || b.Height <= 0 || o.Width <= 0 || o.Height <= 0 {
		return false
	}
	return b.X < o.X+o.Width && o.X < b.X+b.Width &&
		b.Y < o.Y+o.Height && o.Y < b.Y+b.Height
}

// Inflate returns b grown by d on all four sides. A negative d shrinks the
// rectangle; the result may have negative extent, which never intersects
// anything.
func (b Bounds) Inflate(d float64) Bounds {
	return Bounds{
		X:      b.X - d,
		Y:      b.Y - d,
		Width:  b.Width + 2*d,
		Height: b.Height + 2*d,
	}
}

// Contains reports whether the point (x, y) lies inside b.
func (b Bounds) Contains(x, y float64) bool {
	return x >= b.X && x < b.X+b.Width && y >= b.Y && y < b.Y+b.Height
}
