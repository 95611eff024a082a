package game

import (
	"fmt"
	rand "math/rand/v2"
)

// BoardSize selects the board layout.
type BoardSize string

const (
	// SizeStandard is the 19-hex board for 3-4 players.
	SizeStandard BoardSize = "standard"
	// SizeExtended is the 30-hex board for 5-6 players.
	SizeExtended BoardSize = "extended"
)

// Terrain is a hex terrain kind.
type Terrain string

const (
	Hills     Terrain = "hills"
	Forest    Terrain = "forest"
	Fields    Terrain = "fields"
	Mountains Terrain = "mountains"
	Pasture   Terrain = "pasture"
	Desert    Terrain = "desert"
)

// Produces returns the resource a terrain yields. Desert yields nothing.
func (t Terrain) Produces() (Resource, bool) {
	switch t {
	case Hills:
		return Brick, true
	case Forest:
		return Lumber, true
	case Fields:
		return Grain, true
	case Mountains:
		return Ore, true
	case Pasture:
		return Wool, true
	}
	return "", false
}

// Hex is one board tile.
type Hex struct {
	Coordinates Coord   `json:"coordinates"`
	Terrain     Terrain `json:"terrain"`
	NumberToken int     `json:"numberToken,omitempty"`
	HasRobber   bool    `json:"hasRobber"`
}

// Port is a maritime trade slot anchored on a coastal sea hex. Resource is a
// specific resource for 2:1 ports or PortAny for 3:1 ports.
type Port struct {
	Coordinates Coord    `json:"coordinates"`
	Ratio       int      `json:"ratio"`
	Resource    Resource `json:"resource"`
}

// PortAny marks a 3:1 port usable with any resource.
const PortAny Resource = "any"

// Board is the generated hex board.
type Board struct {
	Hexes []Hex     `json:"hexes"`
	Ports []Port    `json:"ports"`
	Size  BoardSize `json:"size"`
}

// Terrain multisets and number tokens follow the official distributions.
var (
	standardTerrain = []Terrain{
		Hills, Hills, Hills,
		Forest, Forest, Forest, Forest,
		Fields, Fields, Fields, Fields,
		Mountains, Mountains, Mountains,
		Pasture, Pasture, Pasture, Pasture,
		Desert,
	}
	standardTokens = []int{2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12}

	extendedTerrain = []Terrain{
		Hills, Hills, Hills, Hills, Hills,
		Forest, Forest, Forest, Forest, Forest, Forest,
		Fields, Fields, Fields, Fields, Fields, Fields,
		Mountains, Mountains, Mountains, Mountains, Mountains,
		Pasture, Pasture, Pasture, Pasture, Pasture, Pasture,
		Desert, Desert,
	}
	extendedTokens = []int{
		2, 3, 3, 4, 4, 5, 5, 6, 6, 8, 8, 9, 9, 10, 10, 11, 11, 12,
		2, 3, 4, 5, 6, 8, 9, 10, 11, 12,
	}

	standardPorts = []Port{
		{Coordinates: Coord{0, -3}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{2, -3}, Ratio: 2, Resource: Brick},
		{Coordinates: Coord{3, -2}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{3, 0}, Ratio: 2, Resource: Lumber},
		{Coordinates: Coord{1, 2}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{-1, 3}, Ratio: 2, Resource: Wool},
		{Coordinates: Coord{-3, 3}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{-3, 1}, Ratio: 2, Resource: Grain},
		{Coordinates: Coord{-2, -1}, Ratio: 2, Resource: Ore},
	}

	extendedPorts = []Port{
		{Coordinates: Coord{0, -4}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{2, -4}, Ratio: 2, Resource: Brick},
		{Coordinates: Coord{4, -3}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{4, -1}, Ratio: 2, Resource: Lumber},
		{Coordinates: Coord{3, 0}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{2, 1}, Ratio: 2, Resource: Wool},
		{Coordinates: Coord{1, 2}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{-1, 3}, Ratio: 2, Resource: Grain},
		{Coordinates: Coord{-3, 3}, Ratio: 3, Resource: PortAny},
		{Coordinates: Coord{-4, 1}, Ratio: 2, Resource: Ore},
		{Coordinates: Coord{-4, 0}, Ratio: 3, Resource: PortAny},
	}
)

// standardLayout returns the 19 axial coordinates of the radius-2 hexagon.
func standardLayout() []Coord {
	var coords []Coord
	for q := -2; q <= 2; q++ {
		for r := -2; r <= 2; r++ {
			if abs(q+r) <= 2 {
				coords = append(coords, Coord{q, r})
			}
		}
	}
	return coords
}

// extendedLayout returns the 30 coordinates of the 5-6 player board: six rows
// of widths 4/5/6/6/5/4.
func extendedLayout() []Coord {
	rows := []struct{ r, qMin, qMax int }{
		{-3, 0, 3},
		{-2, -1, 3},
		{-1, -2, 3},
		{0, -3, 2},
		{1, -3, 1},
		{2, -3, 0},
	}
	var coords []Coord
	for _, row := range rows {
		for q := row.qMin; q <= row.qMax; q++ {
			coords = append(coords, Coord{q, row.r})
		}
	}
	return coords
}

// GenerateBoard builds a board for the given size using rng for terrain and
// number-token shuffles. The resulting board always satisfies the layout
// invariants: fixed terrain multiset, no adjacent 6/8 tokens, and the robber
// on exactly one desert hex.
func GenerateBoard(size BoardSize, rng *rand.Rand) (*Board, error) {
	var coords []Coord
	var terrain []Terrain
	var tokens []int
	var ports []Port

	switch size {
	case SizeStandard:
		coords = standardLayout()
		terrain = append([]Terrain(nil), standardTerrain...)
		tokens = append([]int(nil), standardTokens...)
		ports = append([]Port(nil), standardPorts...)
	case SizeExtended:
		coords = extendedLayout()
		terrain = append([]Terrain(nil), extendedTerrain...)
		tokens = append([]int(nil), extendedTokens...)
		ports = append([]Port(nil), extendedPorts...)
	default:
		return nil, fmt.Errorf("unknown board size %q", size)
	}

	rng.Shuffle(len(terrain), func(i, j int) { terrain[i], terrain[j] = terrain[j], terrain[i] })

	board := &Board{Size: size, Ports: ports}
	for i, c := range coords {
		board.Hexes = append(board.Hexes, Hex{Coordinates: c, Terrain: terrain[i]})
	}

	if err := board.assignTokens(tokens, rng); err != nil {
		return nil, err
	}

	// Robber starts on a desert. The extended board has two deserts but only
	// one carries the robber.
	deserts := board.desertIndexes()
	board.Hexes[deserts[rng.IntN(len(deserts))]].HasRobber = true

	return board, nil
}

// assignTokens shuffles the number tokens onto non-desert hexes, rejecting any
// layout that places 6 or 8 on adjacent hexes. After a bounded number of
// rejections it falls back to repairing the layout by swapping hot tokens away
// from each other.
func (b *Board) assignTokens(tokens []int, rng *rand.Rand) error {
	const maxShuffles = 1000

	for attempt := 0; attempt < maxShuffles; attempt++ {
		rng.Shuffle(len(tokens), func(i, j int) { tokens[i], tokens[j] = tokens[j], tokens[i] })
		idx := 0
		for i := range b.Hexes {
			if b.Hexes[i].Terrain == Desert {
				b.Hexes[i].NumberToken = 0
				continue
			}
			b.Hexes[i].NumberToken = tokens[idx]
			idx++
		}
		if !b.hasAdjacentHotTokens() {
			return nil
		}
	}

	for pass := 0; pass < len(b.Hexes); pass++ {
		if !b.hasAdjacentHotTokens() {
			return nil
		}
		b.repairHotTokens()
	}
	if b.hasAdjacentHotTokens() {
		return fmt.Errorf("could not separate 6/8 tokens after %d shuffles", maxShuffles)
	}
	return nil
}

func isHotToken(n int) bool { return n == 6 || n == 8 }

func (b *Board) hasAdjacentHotTokens() bool {
	for i := range b.Hexes {
		if !isHotToken(b.Hexes[i].NumberToken) {
			continue
		}
		for _, n := range b.Hexes[i].Coordinates.Neighbors() {
			if hx := b.HexAt(n); hx != nil && isHotToken(hx.NumberToken) {
				return true
			}
		}
	}
	return false
}

// repairHotTokens swaps one violating hot token with a cold token on a hex
// that has no hot neighbors.
func (b *Board) repairHotTokens() {
	for i := range b.Hexes {
		if !isHotToken(b.Hexes[i].NumberToken) || !b.hotNeighbor(b.Hexes[i].Coordinates) {
			continue
		}
		for j := range b.Hexes {
			if b.Hexes[j].Terrain == Desert || isHotToken(b.Hexes[j].NumberToken) {
				continue
			}
			if b.hotNeighbor(b.Hexes[j].Coordinates) {
				continue
			}
			b.Hexes[i].NumberToken, b.Hexes[j].NumberToken = b.Hexes[j].NumberToken, b.Hexes[i].NumberToken
			return
		}
	}
}

func (b *Board) hotNeighbor(c Coord) bool {
	for _, n := range c.Neighbors() {
		if hx := b.HexAt(n); hx != nil && isHotToken(hx.NumberToken) {
			return true
		}
	}
	return false
}

func (b *Board) desertIndexes() []int {
	var out []int
	for i := range b.Hexes {
		if b.Hexes[i].Terrain == Desert {
			out = append(out, i)
		}
	}
	return out
}

// HexAt returns the hex at c, or nil if c is off the board.
func (b *Board) HexAt(c Coord) *Hex {
	for i := range b.Hexes {
		if b.Hexes[i].Coordinates == c {
			return &b.Hexes[i]
		}
	}
	return nil
}

// Contains reports whether c is a land hex of the board.
func (b *Board) Contains(c Coord) bool {
	return b.HexAt(c) != nil
}

// RobberHex returns the coordinates of the hex currently holding the robber.
func (b *Board) RobberHex() Coord {
	for i := range b.Hexes {
		if b.Hexes[i].HasRobber {
			return b.Hexes[i].Coordinates
		}
	}
	return Coord{}
}

// MoveRobber relocates the robber to hex c, which must be on the board.
func (b *Board) MoveRobber(c Coord) {
	for i := range b.Hexes {
		b.Hexes[i].HasRobber = b.Hexes[i].Coordinates == c
	}
}

// HasCorner reports whether the corner touches at least one land hex, making
// it a legal building location.
func (b *Board) HasCorner(c Corner) bool {
	for _, h := range c.Hexes() {
		if b.Contains(h) {
			return true
		}
	}
	return false
}

// HasEdge reports whether the edge lies along the board: both corners must be
// on the board and the corners must be adjacent.
func (b *Board) HasEdge(e Edge) bool {
	return e.Valid() && b.HasCorner(e.A) && b.HasCorner(e.B)
}

// PortCorners returns the corners of the port's sea hex. A settlement or city
// on any of them grants access to the port.
func (p Port) PortCorners() [6]Corner {
	return p.Coordinates.Corners()
}
