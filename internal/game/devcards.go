package game

import rand "math/rand/v2"

// deckCounts is the dev-card deck composition per board size.
var deckCounts = map[BoardSize]map[DevCardType]int{
	SizeStandard: {
		CardKnight:       14,
		CardVictoryPoint: 5,
		CardMonopoly:     2,
		CardYearOfPlenty: 2,
		CardRoadBuilding: 2,
	},
	SizeExtended: {
		CardKnight:       20,
		CardVictoryPoint: 5,
		CardMonopoly:     3,
		CardYearOfPlenty: 3,
		CardRoadBuilding: 3,
	},
}

var deckOrder = []DevCardType{CardKnight, CardVictoryPoint, CardMonopoly, CardYearOfPlenty, CardRoadBuilding}

// newDevDeck builds and shuffles the development card deck.
func newDevDeck(size BoardSize, rng *rand.Rand) []DevCardType {
	counts := deckCounts[size]
	var deck []DevCardType
	for _, t := range deckOrder {
		for i := 0; i < counts[t]; i++ {
			deck = append(deck, t)
		}
	}
	rng.Shuffle(len(deck), func(i, j int) {
		deck[i], deck[j] = deck[j], deck[i]
	})
	return deck
}

// DevCardTarget carries the parameters of a dev card play. Resource targets
// monopoly, Resources targets year of plenty, Edges targets road building.
type DevCardTarget struct {
	Resource  Resource  `json:"resource,omitempty"`
	Resources Resources `json:"resources"`
	Edges     []Edge    `json:"edges,omitempty"`
}

// BuyDevCard sells the top card of the deck to the acting player. The price
// leaves circulation entirely; it never returns to the bank pool.
func (g *Game) BuyDevCard(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseMain, PhaseSpecialBuilding); err != nil {
		return err
	}
	p, err := g.requireActing(playerID)
	if err != nil {
		return err
	}
	if len(g.state.Bank.DevCards) == 0 {
		return invalidf("the development card deck is empty")
	}
	if err := debitPlayer(p, devCardCost, "buy a development card"); err != nil {
		return err
	}

	cardType := g.state.Bank.DevCards[0]
	g.state.Bank.DevCards = g.state.Bank.DevCards[1:]
	p.DevCards = append(p.DevCards, DevCard{Type: cardType, BoughtTurn: g.state.Turn.Number})
	g.logger.Debug("dev card bought", "player", playerID, "left", len(g.state.Bank.DevCards))

	g.bus.Publish(DevCardBoughtEvent{
		eventStamp: stamp(),
		PlayerID:   playerID,
		CardType:   cardType,
		DeckLeft:   len(g.state.Bank.DevCards),
	})
	if cardType == CardVictoryPoint {
		g.checkWin(p)
	}
	return nil
}

// PlayDevCard resolves a dev card play. One card per turn, never on the turn
// it was bought, and victory point cards are never played at all.
func (g *Game) PlayDevCard(playerID string, cardType DevCardType, target DevCardTarget) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseMain); err != nil {
		return err
	}
	p, err := g.requireActing(playerID)
	if err != nil {
		return err
	}
	if cardType == CardVictoryPoint {
		return invalidf("victory point cards are never played")
	}
	if g.state.Turn.DevCardPlayed {
		return invalidf("only one development card per turn")
	}

	idx := -1
	held := false
	for i, c := range p.DevCards {
		if c.Type != cardType {
			continue
		}
		held = true
		if c.BoughtTurn < g.state.Turn.Number {
			idx = i
			break
		}
	}
	if idx < 0 {
		if held {
			return invalidf("cannot play a card bought this turn")
		}
		return invalidf("you do not hold a %s card", cardType)
	}

	switch cardType {
	case CardKnight:
		// Validation is done; the card resolves below.
	case CardRoadBuilding:
		if err := g.validateRoadBuilding(p, target.Edges); err != nil {
			return err
		}
	case CardYearOfPlenty:
		if target.Resources.Total() != 2 {
			return invalidf("year of plenty takes exactly two resources")
		}
		if err := g.state.Bank.debit(target.Resources); err != nil {
			return err
		}
		creditPlayer(p, target.Resources)
	case CardMonopoly:
		if target.Resource == "" {
			return invalidf("monopoly needs a resource to name")
		}
		g.resolveMonopoly(p, target.Resource)
	default:
		return invalidf("unknown development card %q", cardType)
	}

	p.DevCards = append(p.DevCards[:idx], p.DevCards[idx+1:]...)
	g.state.Turn.DevCardPlayed = true
	g.bus.Publish(DevCardPlayedEvent{eventStamp: stamp(), PlayerID: playerID, CardType: cardType})

	switch cardType {
	case CardKnight:
		p.PlayedKnights++
		g.recomputeLargestArmy()
		if g.state.Turn.Phase != PhaseGameOver {
			g.state.Turn.Phase = PhaseRobberPlacement
			g.state.Turn.RobberPending = true
			g.publishTurn()
		}
	case CardRoadBuilding:
		g.resolveRoadBuilding(p, target.Edges)
	}
	return nil
}

// validateRoadBuilding checks both free roads before any is placed. The
// second edge may chain off the first, so the first is trial-placed and
// removed again.
func (g *Game) validateRoadBuilding(p *Player, edges []Edge) error {
	if len(edges) == 0 || len(edges) > 2 {
		return invalidf("road building places one or two roads")
	}
	if len(p.Roads)+len(edges) > maxRoads {
		return invalidf("no road pieces left in your supply")
	}
	first := edges[0].Normalize()
	if err := g.validateRoad(p, first); err != nil {
		return err
	}
	if len(edges) == 2 {
		p.Roads = append(p.Roads, first)
		err := g.validateRoad(p, edges[1].Normalize())
		p.Roads = p.Roads[:len(p.Roads)-1]
		if err != nil {
			return err
		}
	}
	return nil
}

func (g *Game) resolveRoadBuilding(p *Player, edges []Edge) {
	for _, e := range edges {
		g.commitRoad(p, e.Normalize())
	}
}

// resolveMonopoly moves every card of one kind from the other hands to the
// player. The bank is not involved.
func (g *Game) resolveMonopoly(p *Player, kind Resource) {
	taken := 0
	for _, other := range g.state.Players {
		if other == p {
			continue
		}
		n := other.Resources.Get(kind)
		if n == 0 {
			continue
		}
		other.Resources.Add(kind, -n)
		taken += n
	}
	p.Resources.Add(kind, taken)
	g.logger.Debug("monopoly resolved", "player", p.ID, "resource", kind, "taken", taken)
}
