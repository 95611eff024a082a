package game

// BuildKind is a purchasable structure kind.
type BuildKind string

const (
	BuildRoad       BuildKind = "road"
	BuildSettlement BuildKind = "settlement"
	BuildCity       BuildKind = "city"
)

// Per-player piece supplies. A structure whose supply is exhausted cannot be
// built until a city upgrade returns a settlement piece.
const (
	maxRoads       = 15
	maxSettlements = 5
	maxCities      = 4
)

var (
	roadCost       = Resources{Brick: 1, Lumber: 1}
	settlementCost = Resources{Brick: 1, Lumber: 1, Wool: 1, Grain: 1}
	cityCost       = Resources{Grain: 2, Ore: 3}
	devCardCost    = Resources{Wool: 1, Grain: 1, Ore: 1}
)

// BuildRequest carries the target of a build action. Corner addresses
// settlements and cities, Edge addresses roads.
type BuildRequest struct {
	Kind   BuildKind `json:"kind"`
	Corner Corner    `json:"corner"`
	Edge   Edge      `json:"edge"`
}

// Build validates and commits one build action. During initial placement the
// same entry point drives the snake-order settlement and road pairs; pieces
// are free there. Otherwise the full pipeline runs: phase, turn, piece
// supply, cost, geometry, and only then the commit.
func (g *Game) Build(playerID string, req BuildRequest) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if g.state.Turn.Phase == PhaseInitialPlacement {
		p, err := g.requireActing(playerID)
		if err != nil {
			return err
		}
		return g.placeSetup(p, req)
	}

	if err := g.requirePhase(PhaseMain, PhaseSpecialBuilding); err != nil {
		return err
	}
	p, err := g.requireActing(playerID)
	if err != nil {
		return err
	}

	switch req.Kind {
	case BuildRoad:
		return g.buildRoad(p, req.Edge.Normalize())
	case BuildSettlement:
		return g.buildSettlement(p, req.Corner)
	case BuildCity:
		return g.buildCity(p, req.Corner)
	}
	return invalidf("unknown build kind %q", req.Kind)
}

func (g *Game) buildRoad(p *Player, edge Edge) error {
	if len(p.Roads) >= maxRoads {
		return invalidf("no road pieces left in your supply")
	}
	if !p.Resources.Covers(roadCost) {
		return &ResourceError{Reason: "insufficient resources to build a road"}
	}
	if err := g.validateRoad(p, edge); err != nil {
		return err
	}
	p.Resources = p.Resources.Minus(roadCost)
	g.state.Bank.credit(roadCost)
	g.commitRoad(p, edge)
	return nil
}

func (g *Game) buildSettlement(p *Player, corner Corner) error {
	if len(p.Settlements) >= maxSettlements {
		return invalidf("no settlement pieces left in your supply")
	}
	if !p.Resources.Covers(settlementCost) {
		return &ResourceError{Reason: "insufficient resources to build a settlement"}
	}
	if err := g.validateSettlementCorner(corner); err != nil {
		return err
	}
	if !g.ownRoadTouches(p, corner) {
		return invalidf("settlement must connect to one of your roads")
	}
	p.Resources = p.Resources.Minus(settlementCost)
	g.state.Bank.credit(settlementCost)
	p.Settlements = append(p.Settlements, corner)
	p.VictoryPoints++
	g.bus.Publish(BuildPlacedEvent{eventStamp: stamp(), PlayerID: p.ID, Kind: BuildSettlement, Corner: &corner})
	// A new settlement on a junction can sever an opponent's road chain.
	g.recomputeLongestRoad()
	g.checkWin(p)
	return nil
}

func (g *Game) buildCity(p *Player, corner Corner) error {
	if len(p.Cities) >= maxCities {
		return invalidf("no city pieces left in your supply")
	}
	idx := -1
	for i, s := range p.Settlements {
		if s == corner {
			idx = i
		}
	}
	if idx < 0 {
		return invalidf("a city must upgrade one of your settlements")
	}
	if !p.Resources.Covers(cityCost) {
		return &ResourceError{Reason: "insufficient resources to build a city"}
	}
	p.Resources = p.Resources.Minus(cityCost)
	g.state.Bank.credit(cityCost)
	p.Settlements = append(p.Settlements[:idx], p.Settlements[idx+1:]...)
	p.Cities = append(p.Cities, corner)
	p.VictoryPoints++
	g.bus.Publish(BuildPlacedEvent{eventStamp: stamp(), PlayerID: p.ID, Kind: BuildCity, Corner: &corner})
	g.checkWin(p)
	return nil
}

// commitRoad appends a validated road and re-evaluates the longest road bonus.
func (g *Game) commitRoad(p *Player, edge Edge) {
	p.Roads = append(p.Roads, edge)
	g.bus.Publish(BuildPlacedEvent{eventStamp: stamp(), PlayerID: p.ID, Kind: BuildRoad, Edge: &edge})
	g.recomputeLongestRoad()
}

// validateSettlementCorner checks board membership, vacancy and the distance
// rule: every adjacent corner must be free of buildings.
func (g *Game) validateSettlementCorner(corner Corner) error {
	if !g.state.Board.HasCorner(corner) {
		return invalidf("corner is not on the board")
	}
	if g.state.buildingOwnerAt(corner) != nil {
		return invalidf("corner is already occupied")
	}
	for _, adj := range corner.Adjacent() {
		if g.state.buildingOwnerAt(adj) != nil {
			return invalidf("too close to another settlement")
		}
	}
	return nil
}

// validateRoad checks board membership, vacancy and connectivity: the edge
// must touch one of the player's buildings, or one of their roads at a corner
// not occupied by an opponent building.
func (g *Game) validateRoad(p *Player, edge Edge) error {
	if !edge.Valid() || !g.state.Board.HasEdge(edge) {
		return invalidf("edge is not on the board")
	}
	if g.state.roadOwnerAt(edge) != nil {
		return invalidf("edge already has a road")
	}
	for _, c := range [2]Corner{edge.A, edge.B} {
		owner := g.state.buildingOwnerAt(c)
		if owner == p {
			return nil
		}
		if owner != nil {
			continue
		}
		if g.ownRoadTouches(p, c) {
			return nil
		}
	}
	return invalidf("road must connect to your network")
}

func (g *Game) ownRoadTouches(p *Player, c Corner) bool {
	for _, r := range p.Roads {
		if r.HasCorner(c) {
			return true
		}
	}
	return false
}

// placeSetup handles the initial placement snake: each player places a free
// settlement, then a free road touching it. The second-round settlement pays
// out one resource per adjacent producing hex.
func (g *Game) placeSetup(p *Player, req BuildRequest) error {
	setup := &g.state.Turn.Setup

	if setup.AwaitRoad {
		if req.Kind != BuildRoad {
			return invalidf("place the road for your settlement")
		}
		edge := req.Edge.Normalize()
		if !edge.HasCorner(setup.Anchor) {
			return invalidf("setup road must touch the settlement you just placed")
		}
		if err := g.validateRoad(p, edge); err != nil {
			return err
		}
		p.Roads = append(p.Roads, edge)
		g.bus.Publish(BuildPlacedEvent{eventStamp: stamp(), PlayerID: p.ID, Kind: BuildRoad, Edge: &edge})
		g.advanceSetup()
		return nil
	}

	if req.Kind != BuildSettlement {
		return invalidf("place a settlement first")
	}
	corner := req.Corner
	if err := g.validateSettlementCorner(corner); err != nil {
		return err
	}
	p.Settlements = append(p.Settlements, corner)
	p.VictoryPoints++
	setup.AwaitRoad = true
	setup.Anchor = corner
	if setup.Round == 1 {
		g.grantSetupResources(p, corner)
	}
	g.bus.Publish(BuildPlacedEvent{eventStamp: stamp(), PlayerID: p.ID, Kind: BuildSettlement, Corner: &corner})
	return nil
}

func (g *Game) grantSetupResources(p *Player, corner Corner) {
	for _, coord := range corner.Hexes() {
		hex := g.state.Board.HexAt(coord)
		if hex == nil {
			continue
		}
		res, ok := hex.Terrain.Produces()
		if !ok {
			continue
		}
		grant := single(res, 1)
		if err := g.state.Bank.debit(grant); err != nil {
			continue
		}
		creditPlayer(p, grant)
	}
}

// advanceSetup moves the snake cursor, reversing direction after the first
// round and opening the first roll phase after the second.
func (g *Game) advanceSetup() {
	s := g.state
	setup := &s.Turn.Setup
	setup.AwaitRoad = false
	setup.Index++
	if setup.Index >= len(s.Players) {
		if setup.Round == 0 {
			setup.Round = 1
			setup.Index = 0
		} else {
			s.Turn.Current = 0
			s.Turn.Number = 1
			s.Turn.Phase = PhaseRoll
			g.publishTurn()
			return
		}
	}
	s.Turn.Current = s.setupPlayerIndex()
	g.publishTurn()
}
