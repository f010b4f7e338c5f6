package layered

// Direction is the main layout axis of a layered diagram, as reported by
// the layout server. Layers stack along this axis; positions within a layer
// run along the cross axis.
type Direction int

const (
	// Undefined is treated like Right, the layout server's default.
	Undefined Direction = iota
	// Right lays layers out left to right.
	Right
	// Left lays layers out right to left.
	Left
	// Down lays layers out top to bottom.
	Down
	// Up lays layers out bottom to top.
	Up
)

var directionNames = map[Direction]string{
	Undefined: "undefined",
	Right:     "right",
	Left:      "left",
	Down:      "down",
	Up:        "up",
}

// String returns the lower-case direction name.
func (d Direction) String() string {
	if s, ok := directionNames[d]; ok {
		return s
	}
	return "undefined"
}

// DirectionFromString parses a direction name; unknown names yield
// Undefined.
func DirectionFromString(s string) Direction {
	for d, name := range directionNames {
		if name == s {
			return d
		}
	}
	return Undefined
}

// Horizontal reports whether layers stack along the x axis.
func (d Direction) Horizontal() bool {
	return d == Undefined || d == Right || d == Left
}

// reversed reports whether main-axis coordinates decrease with increasing
// layer index (RIGHT-to-LEFT and UP layouts).
func (d Direction) reversed() bool {
	return d == Left || d == Up
}

// sign is the main-axis multiplier: comparisons are done in a transformed
// space where layer indices always increase with the coordinate.
func (d Direction) sign() float64 {
	if d.reversed() {
		return -1
	}
	return 1
}
