package game

// Coord is an axial hex address (pointy-top orientation).
type Coord struct {
	Q int `json:"q"`
	R int `json:"r"`
}

// Vert selects one of the two vertices a hex canonically owns. Every corner of
// the tiling is the north or south vertex of exactly one hex, which gives each
// corner a single unambiguous address.
type Vert string

const (
	North Vert = "N"
	South Vert = "S"
)

// Corner is a vertex of the hex tiling, shared by up to three hexes. Corners
// are the legal settlement and city locations.
type Corner struct {
	Q int  `json:"q"`
	R int  `json:"r"`
	V Vert `json:"v"`
}

// Edge joins two adjacent corners and is the legal road location. The corner
// pair is normalized so edges compare by value.
type Edge struct {
	A Corner `json:"a"`
	B Corner `json:"b"`
}

// Neighbors returns the six hexes adjacent to h.
func (h Coord) Neighbors() [6]Coord {
	return [6]Coord{
		{h.Q + 1, h.R}, {h.Q - 1, h.R},
		{h.Q, h.R + 1}, {h.Q, h.R - 1},
		{h.Q + 1, h.R - 1}, {h.Q - 1, h.R + 1},
	}
}

// Distance returns the hex-grid distance between two coordinates.
func (h Coord) Distance(o Coord) int {
	dq := abs(h.Q - o.Q)
	dr := abs(h.R - o.R)
	ds := abs((h.Q + h.R) - (o.Q + o.R))
	return (dq + dr + ds) / 2
}

// Corners returns the six corners of hex h.
func (h Coord) Corners() [6]Corner {
	return [6]Corner{
		{h.Q, h.R, North},
		{h.Q, h.R + 1, North},
		{h.Q - 1, h.R + 1, North},
		{h.Q, h.R, South},
		{h.Q, h.R - 1, South},
		{h.Q + 1, h.R - 1, South},
	}
}

// Hexes returns the up-to-three hexes that share corner c. Coordinates off the
// board are included; callers filter against the board.
func (c Corner) Hexes() [3]Coord {
	if c.V == North {
		return [3]Coord{{c.Q, c.R}, {c.Q, c.R - 1}, {c.Q + 1, c.R - 1}}
	}
	return [3]Coord{{c.Q, c.R}, {c.Q, c.R + 1}, {c.Q - 1, c.R + 1}}
}

// Adjacent returns the three corners connected to c by an edge.
func (c Corner) Adjacent() [3]Corner {
	if c.V == North {
		return [3]Corner{
			{c.Q, c.R - 1, South},
			{c.Q + 1, c.R - 1, South},
			{c.Q + 1, c.R - 2, South},
		}
	}
	return [3]Corner{
		{c.Q, c.R + 1, North},
		{c.Q - 1, c.R + 1, North},
		{c.Q - 1, c.R + 2, North},
	}
}

// Touches reports whether c is one of the two corners of a hex edge shared
// with corner o.
func (c Corner) Touches(o Corner) bool {
	for _, a := range c.Adjacent() {
		if a == o {
			return true
		}
	}
	return false
}

func cornerLess(a, b Corner) bool {
	if a.Q != b.Q {
		return a.Q < b.Q
	}
	if a.R != b.R {
		return a.R < b.R
	}
	return a.V < b.V
}

// NewEdge builds a normalized edge between two corners. The corners need not
// be adjacent; use Valid to check that.
func NewEdge(a, b Corner) Edge {
	if cornerLess(b, a) {
		a, b = b, a
	}
	return Edge{A: a, B: b}
}

// Normalize returns e with its corners in canonical order.
func (e Edge) Normalize() Edge {
	return NewEdge(e.A, e.B)
}

// Valid reports whether the edge joins two adjacent corners.
func (e Edge) Valid() bool {
	return e.A.Touches(e.B)
}

// HasCorner reports whether c is an endpoint of the edge.
func (e Edge) HasCorner(c Corner) bool {
	return e.A == c || e.B == c
}

// Other returns the endpoint opposite c. It is only meaningful when c is an
// endpoint of the edge.
func (e Edge) Other(c Corner) Corner {
	if e.A == c {
		return e.B
	}
	return e.A
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
