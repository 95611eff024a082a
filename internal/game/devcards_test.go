package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexhaven/hexhaven/internal/randutil"
)

func TestNewDevDeckComposition(t *testing.T) {
	for size, want := range deckCounts {
		deck := newDevDeck(size, randutil.New(11))
		got := map[DevCardType]int{}
		for _, c := range deck {
			got[c]++
		}
		assert.Equal(t, want, got, "deck for %s board", size)
	}
	assert.Len(t, newDevDeck(SizeStandard, randutil.New(1)), 25)
	assert.Len(t, newDevDeck(SizeExtended, randutil.New(1)), 34)
}

func TestBuyDevCardDestroysThePrice(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)
	give(t, g, "alice", Resources{Wool: 1, Grain: 1, Ore: 1})

	bankBefore := g.state.Bank.Resources
	deckBefore := len(g.state.Bank.DevCards)
	circBefore := circulation(g).Total()
	require.NoError(t, g.BuyDevCard("alice"))

	alice := g.state.player("alice")
	assert.True(t, alice.Resources.IsZero())
	assert.Equal(t, bankBefore, g.state.Bank.Resources, "the price never enters the bank pool")
	assert.Equal(t, circBefore-3, circulation(g).Total(), "the price leaves circulation for good")
	require.Len(t, alice.DevCards, 1)
	assert.Equal(t, g.state.Turn.Number, alice.DevCards[0].BoughtTurn)
	assert.Len(t, g.state.Bank.DevCards, deckBefore-1)

	events := rec.ofType(EventTypeDevCardBought)
	require.Len(t, events, 1)
	assert.Equal(t, deckBefore-1, events[0].(DevCardBoughtEvent).DeckLeft)
}

func TestBuyDevCardValidation(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)

	err := g.BuyDevCard("alice")
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr, "the price must be covered")

	give(t, g, "alice", Resources{Wool: 1, Grain: 1, Ore: 1})
	g.state.Bank.DevCards = nil
	assert.Error(t, g.BuyDevCard("alice"), "empty deck")

	assert.Error(t, g.BuyDevCard("bob"), "not bob's turn")
}

func devCardGame(t *testing.T) (*Game, *eventRecorder) {
	t.Helper()
	g, rec := newTestGame(t, 3)
	startMain(g)
	g.state.Turn.Number = 2
	return g, rec
}

func TestPlayDevCardGating(t *testing.T) {
	g, _ := devCardGame(t)
	alice := g.state.player("alice")

	err := g.PlayDevCard("alice", CardKnight, DevCardTarget{})
	assert.Error(t, err, "alice holds no knight")

	alice.DevCards = []DevCard{{Type: CardKnight, BoughtTurn: 2}}
	err = g.PlayDevCard("alice", CardKnight, DevCardTarget{})
	assert.Error(t, err, "bought this turn")

	alice.DevCards = []DevCard{{Type: CardVictoryPoint, BoughtTurn: 1}}
	err = g.PlayDevCard("alice", CardVictoryPoint, DevCardTarget{})
	assert.Error(t, err, "victory point cards are never played")

	alice.DevCards = []DevCard{{Type: CardKnight, BoughtTurn: 1}}
	g.state.Turn.DevCardPlayed = true
	err = g.PlayDevCard("alice", CardKnight, DevCardTarget{})
	assert.Error(t, err, "one card per turn")
}

func TestPlayDevCardPrefersOlderCopy(t *testing.T) {
	g, _ := devCardGame(t)
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{
		{Type: CardKnight, BoughtTurn: 2},
		{Type: CardKnight, BoughtTurn: 1},
	}
	require.NoError(t, g.PlayDevCard("alice", CardKnight, DevCardTarget{}))
	require.Len(t, alice.DevCards, 1)
	assert.Equal(t, 2, alice.DevCards[0].BoughtTurn, "the fresh copy stays in hand")
}

func TestPlayKnightOpensRobberPlacement(t *testing.T) {
	g, rec := devCardGame(t)
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{{Type: CardKnight, BoughtTurn: 1}}

	require.NoError(t, g.PlayDevCard("alice", CardKnight, DevCardTarget{}))
	assert.Equal(t, 1, alice.PlayedKnights)
	assert.Empty(t, alice.DevCards)
	assert.True(t, g.state.Turn.DevCardPlayed)
	assert.Equal(t, PhaseRobberPlacement, g.state.Turn.Phase)
	assert.True(t, g.state.Turn.RobberPending)
	require.Len(t, rec.ofType(EventTypeDevCardPlayed), 1)
}

func TestPlayMonopolyDrainsOpponents(t *testing.T) {
	g, _ := devCardGame(t)
	give(t, g, "bob", Resources{Wool: 3, Brick: 1})
	give(t, g, "carol", Resources{Wool: 2})
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{{Type: CardMonopoly, BoughtTurn: 1}}

	before := circulation(g)
	require.NoError(t, g.PlayDevCard("alice", CardMonopoly, DevCardTarget{Resource: Wool}))
	assert.Equal(t, 5, alice.Resources.Wool)
	assert.Equal(t, 0, g.state.player("bob").Resources.Wool)
	assert.Equal(t, 1, g.state.player("bob").Resources.Brick)
	assert.Equal(t, 0, g.state.player("carol").Resources.Wool)
	assert.Equal(t, before, circulation(g), "monopoly moves cards between hands only")
}

func TestPlayMonopolyNeedsAResource(t *testing.T) {
	g, _ := devCardGame(t)
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{{Type: CardMonopoly, BoughtTurn: 1}}
	assert.Error(t, g.PlayDevCard("alice", CardMonopoly, DevCardTarget{}))
	assert.Len(t, alice.DevCards, 1, "a failed play keeps the card")
}

func TestPlayYearOfPlenty(t *testing.T) {
	g, _ := devCardGame(t)
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{{Type: CardYearOfPlenty, BoughtTurn: 1}}

	err := g.PlayDevCard("alice", CardYearOfPlenty, DevCardTarget{Resources: Resources{Ore: 3}})
	assert.Error(t, err, "exactly two resources")

	g.state.Bank.Resources.Ore = 1
	err = g.PlayDevCard("alice", CardYearOfPlenty, DevCardTarget{Resources: Resources{Ore: 2}})
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.True(t, rerr.Bank)
	assert.Len(t, alice.DevCards, 1)

	require.NoError(t, g.PlayDevCard("alice", CardYearOfPlenty, DevCardTarget{Resources: Resources{Ore: 1, Grain: 1}}))
	assert.Equal(t, 1, alice.Resources.Ore)
	assert.Equal(t, 1, alice.Resources.Grain)
	assert.Equal(t, 0, g.state.Bank.Resources.Ore)
}

func TestPlayRoadBuilding(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)
	g.state.Turn.Number = 2
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{{Type: CardRoadBuilding, BoughtTurn: 1}}

	// The second edge chains off the first, so it is only legal if the first
	// is placed before it is validated.
	first := NewEdge(Corner{0, -1, South}, Corner{-1, 0, North})
	second := NewEdge(Corner{-1, 0, North}, Corner{-1, -1, South})
	require.NoError(t, g.PlayDevCard("alice", CardRoadBuilding, DevCardTarget{Edges: []Edge{first, second}}))
	assert.Len(t, alice.Roads, 4)
	assert.Empty(t, alice.DevCards)
}

func TestPlayRoadBuildingIsAtomic(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)
	g.state.Turn.Number = 2
	alice := g.state.player("alice")
	alice.DevCards = []DevCard{{Type: CardRoadBuilding, BoughtTurn: 1}}

	first := NewEdge(Corner{0, -1, South}, Corner{-1, 0, North})
	disconnected := NewEdge(Corner{1, 1, North}, Corner{1, 0, South})
	err := g.PlayDevCard("alice", CardRoadBuilding, DevCardTarget{Edges: []Edge{first, disconnected}})
	assert.Error(t, err)
	assert.Len(t, alice.Roads, 2, "neither road was placed")
	assert.Len(t, alice.DevCards, 1)
	assert.False(t, g.state.Turn.DevCardPlayed)
}

func TestBoughtVictoryCardCanWin(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)
	give(t, g, "alice", Resources{Wool: 1, Grain: 1, Ore: 1})
	alice := g.state.player("alice")
	alice.VictoryPoints = 9
	g.state.Bank.DevCards = []DevCardType{CardVictoryPoint}

	require.NoError(t, g.BuyDevCard("alice"))
	assert.Equal(t, PhaseGameOver, g.state.Turn.Phase)
	assert.Equal(t, 10, alice.VictoryPoints)
	require.Len(t, rec.ofType(EventTypeGameEnded), 1)
}
