package game

import (
	"io"
	"testing"

	"github.com/charmbracelet/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexhaven/hexhaven/internal/randutil"
)

type eventRecorder struct {
	events []GameEvent
}

func (r *eventRecorder) OnEvent(e GameEvent) { r.events = append(r.events, e) }

func (r *eventRecorder) ofType(t EventType) []GameEvent {
	var out []GameEvent
	for _, e := range r.events {
		if e.EventType() == t {
			out = append(out, e)
		}
	}
	return out
}

func testLogger() *log.Logger { return log.New(io.Discard) }

func newTestGame(t *testing.T, players int) (*Game, *eventRecorder) {
	t.Helper()
	var seats []Seat
	names := []string{"alice", "bob", "carol", "dave", "erin", "frank"}
	for i := 0; i < players; i++ {
		seats = append(seats, Seat{ID: names[i], Name: names[i]})
	}
	g, err := New(seats, DefaultSettings(players), randutil.New(42), testLogger())
	require.NoError(t, err)
	rec := &eventRecorder{}
	g.Events().Subscribe(rec)
	return g, rec
}

// startMain skips initial placement and opens player 0's main phase.
func startMain(g *Game) {
	g.state.Turn.Phase = PhaseMain
	g.state.Turn.Number = 1
	g.state.Turn.Current = 0
}

// give moves resources from the bank into a player's hand, keeping the total
// in circulation constant so conservation assertions stay meaningful.
func give(t *testing.T, g *Game, playerID string, r Resources) {
	t.Helper()
	p := g.state.player(playerID)
	require.NotNil(t, p)
	require.True(t, g.state.Bank.Resources.Covers(r))
	g.state.Bank.Resources = g.state.Bank.Resources.Minus(r)
	p.Resources = p.Resources.Plus(r)
}

// circulation sums every hand plus the bank pool.
func circulation(g *Game) Resources {
	total := g.state.Bank.Resources
	for _, p := range g.state.Players {
		total = total.Plus(p.Resources)
	}
	return total
}

func TestNewGameValidatesRoster(t *testing.T) {
	_, err := New([]Seat{{ID: "a"}, {ID: "b"}}, DefaultSettings(2), randutil.New(1), testLogger())
	assert.Error(t, err)

	var seats []Seat
	for _, id := range []string{"a", "b", "c", "d", "e"} {
		seats = append(seats, Seat{ID: id})
	}
	_, err = New(seats, Settings{BoardSize: SizeStandard}, randutil.New(1), testLogger())
	assert.Error(t, err, "five players must not fit the standard board")

	g, err := New(seats, DefaultSettings(5), randutil.New(1), testLogger())
	require.NoError(t, err)
	assert.Equal(t, PhaseInitialPlacement, g.CurrentPhase())
	assert.Equal(t, SizeExtended, g.state.Settings.BoardSize)
	assert.Len(t, g.state.Bank.DevCards, 34)
}

func TestNewGameOpeningBank(t *testing.T) {
	g, _ := newTestGame(t, 3)
	assert.Equal(t, Resources{Brick: 19, Lumber: 19, Wool: 19, Grain: 19, Ore: 19}, g.state.Bank.Resources)
	assert.Len(t, g.state.Bank.DevCards, 25)
	assert.Equal(t, g.state.Board.RobberHex(), g.state.RobberHex)
}

func TestRollDiceRequiresRollPhase(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)
	_, _, err := g.RollDice("alice")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
}

func TestRollDiceRejectsOutOfTurn(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)
	g.state.Turn.Phase = PhaseRoll
	_, _, err := g.RollDice("bob")
	var verr *ValidationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, "not your turn", verr.Reason)
}

func TestRollDiceOpensMainPhase(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)
	for {
		g.state.Turn.Phase = PhaseRoll
		d1, d2, err := g.RollDice("alice")
		require.NoError(t, err)
		require.Equal(t, [2]int{d1, d2}, g.state.Turn.LastRoll)
		if d1+d2 != 7 {
			assert.Equal(t, PhaseMain, g.state.Turn.Phase)
			break
		}
		// A seven with empty hands goes straight to robber placement.
		assert.Equal(t, PhaseRobberPlacement, g.state.Turn.Phase)
		assert.True(t, g.state.Turn.RobberPending)
		g.state.Turn.RobberPending = false
	}
	assert.NotEmpty(t, rec.ofType(EventTypeDiceRolled))
}

func TestProductionPaysSettlementsAndCities(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)

	var hex *Hex
	for i := range g.state.Board.Hexes {
		if g.state.Board.Hexes[i].Terrain != Desert && !g.state.Board.Hexes[i].HasRobber {
			hex = &g.state.Board.Hexes[i]
			break
		}
	}
	require.NotNil(t, hex)
	res, ok := hex.Terrain.Produces()
	require.True(t, ok)

	corners := hex.Coordinates.Corners()
	alice := g.state.player("alice")
	bob := g.state.player("bob")
	alice.Settlements = append(alice.Settlements, corners[0])
	bob.Cities = append(bob.Cities, corners[3])

	before := circulation(g)
	got := g.distributeProduction(hex.NumberToken)
	assert.Equal(t, 1, alice.Resources.Get(res))
	assert.Equal(t, 2, bob.Resources.Get(res))
	assert.Equal(t, 1, got["alice"].Get(res))
	assert.Equal(t, 2, got["bob"].Get(res))
	assert.Equal(t, before, circulation(g))
}

func TestProductionSkipsRobbedHex(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)

	hex := &g.state.Board.Hexes[0]
	if hex.Terrain == Desert {
		hex = &g.state.Board.Hexes[1]
	}
	g.state.Board.MoveRobber(hex.Coordinates)
	g.state.RobberHex = hex.Coordinates

	alice := g.state.player("alice")
	alice.Settlements = append(alice.Settlements, hex.Coordinates.Corners()[0])
	got := g.distributeProduction(hex.NumberToken)
	assert.Empty(t, got["alice"])
}

func TestScarcitySkipsResourceEntirely(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)

	var hex *Hex
	for i := range g.state.Board.Hexes {
		if g.state.Board.Hexes[i].Terrain != Desert && !g.state.Board.Hexes[i].HasRobber {
			hex = &g.state.Board.Hexes[i]
			break
		}
	}
	require.NotNil(t, hex)
	res, _ := hex.Terrain.Produces()

	corners := hex.Coordinates.Corners()
	alice := g.state.player("alice")
	bob := g.state.player("bob")
	alice.Settlements = append(alice.Settlements, corners[0])
	bob.Settlements = append(bob.Settlements, corners[3])

	// Demand is 2, supply only 1: nobody gets anything.
	g.state.Bank.Resources = single(res, 1)
	got := g.distributeProduction(hex.NumberToken)
	assert.Empty(t, got)
	assert.Equal(t, 0, alice.Resources.Get(res))
	assert.Equal(t, 0, bob.Resources.Get(res))
	assert.Equal(t, 1, g.state.Bank.Resources.Get(res))

	events := rec.ofType(EventTypeScarcity)
	require.Len(t, events, 1)
	ev := events[0].(ScarcityEvent)
	assert.Equal(t, res, ev.Resource)
	assert.Equal(t, 2, ev.Demand)
	assert.Equal(t, 1, ev.Supply)
}

func TestDiscardFlooring(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)
	give(t, g, "alice", Resources{Brick: 5, Wool: 4}) // 9 cards, owes 4
	give(t, g, "bob", Resources{Grain: 8})            // 8 cards, owes 4
	give(t, g, "carol", Resources{Ore: 7})            // exactly 7, safe

	g.flagDiscards()
	assert.Equal(t, map[string]int{"alice": 4, "bob": 4}, g.state.Turn.PendingDiscards)
	assert.Len(t, rec.ofType(EventTypeDiscardRequired), 2)

	g.state.Turn.Phase = PhaseDiscard
	err := g.DiscardCards("alice", Resources{Brick: 3})
	var rerrTarget *ValidationError
	require.ErrorAs(t, err, &rerrTarget, "wrong amount must be rejected")

	err = g.DiscardCards("carol", Resources{Ore: 1})
	assert.Error(t, err, "a player without a pending discard cannot discard")

	before := circulation(g)
	require.NoError(t, g.DiscardCards("alice", Resources{Brick: 2, Wool: 2}))
	assert.Equal(t, PhaseDiscard, g.state.Turn.Phase, "phase holds until everyone discarded")

	require.NoError(t, g.DiscardCards("bob", Resources{Grain: 4}))
	assert.Equal(t, PhaseRobberPlacement, g.state.Turn.Phase)
	assert.True(t, g.state.Turn.RobberPending)
	assert.Equal(t, before, circulation(g), "discards return to the bank")
}

func TestEndTurnAdvances(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)
	require.NoError(t, g.EndTurn("alice"))
	assert.Equal(t, 1, g.state.Turn.Current)
	assert.Equal(t, PhaseRoll, g.state.Turn.Phase)
	assert.Equal(t, 2, g.state.Turn.Number)
	assert.False(t, g.state.Turn.DevCardPlayed)

	err := g.EndTurn("alice")
	assert.Error(t, err, "only the acting player ends the turn")
}

func TestEndTurnCancelsOpenTrades(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)
	give(t, g, "alice", Resources{Brick: 1})
	id, err := g.ProposeTrade("alice", Resources{Brick: 1}, Resources{Wool: 1}, nil)
	require.NoError(t, err)
	require.NoError(t, g.EndTurn("alice"))
	assert.Empty(t, g.state.OpenTrades)

	events := rec.ofType(EventTypeTradeCancelled)
	require.Len(t, events, 1)
	assert.Equal(t, id, events[0].(TradeCancelledEvent).TradeID)
}

func TestSpecialBuildingPhaseCycles(t *testing.T) {
	g, _ := newTestGame(t, 5)
	startMain(g)

	require.NoError(t, g.EndTurn("alice"))
	assert.Equal(t, PhaseSpecialBuilding, g.state.Turn.Phase)
	assert.Equal(t, 1, g.state.Turn.SpecialBuild)

	_, _, err := g.RollDice("bob")
	assert.Error(t, err, "nobody rolls during the special building phase")
	assert.Error(t, g.EndTurn("carol"), "only the cycling player passes")

	for _, id := range []string{"bob", "carol", "dave"} {
		require.NoError(t, g.EndTurn(id))
		assert.Equal(t, PhaseSpecialBuilding, g.state.Turn.Phase)
	}
	require.NoError(t, g.EndTurn("erin"))
	assert.Equal(t, PhaseRoll, g.state.Turn.Phase)
	assert.Equal(t, 1, g.state.Turn.Current)
	assert.Equal(t, -1, g.state.Turn.SpecialBuild)
}

func TestGameOverFreezesActions(t *testing.T) {
	g, rec := newTestGame(t, 3)
	startMain(g)
	alice := g.state.player("alice")
	alice.VictoryPoints = 10
	require.True(t, g.checkWin(alice))
	assert.Equal(t, PhaseGameOver, g.state.Turn.Phase)
	require.Len(t, rec.ofType(EventTypeGameEnded), 1)

	assert.Error(t, g.EndTurn("alice"))
	_, _, err := g.RollDice("alice")
	assert.Error(t, err)
	assert.Error(t, g.Build("alice", BuildRequest{Kind: BuildRoad}))
	assert.False(t, g.checkWin(alice), "the game ends exactly once")
}

func TestHiddenVictoryCardsCountTowardWin(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)
	alice := g.state.player("alice")
	alice.VictoryPoints = 8
	alice.DevCards = []DevCard{{Type: CardVictoryPoint}, {Type: CardVictoryPoint}}
	require.True(t, g.checkWin(alice))
	assert.Equal(t, 10, alice.VictoryPoints, "hidden cards are revealed at game end")
}

func TestSnapshotRoundTrip(t *testing.T) {
	g, _ := newTestGame(t, 4)
	startMain(g)
	give(t, g, "alice", Resources{Brick: 2, Ore: 1})
	g.state.player("bob").DevCards = []DevCard{{Type: CardKnight, BoughtTurn: 1}}

	data, err := g.Snapshot()
	require.NoError(t, err)

	restored, err := Restore(data, randutil.New(7), testLogger())
	require.NoError(t, err)
	assert.Equal(t, g.state.Bank.Resources, restored.state.Bank.Resources)
	assert.Equal(t, g.state.Turn, restored.state.Turn)
	assert.Equal(t, g.state.player("alice").Resources, restored.state.player("alice").Resources)
	assert.Equal(t, g.state.player("bob").DevCards, restored.state.player("bob").DevCards)
	assert.Len(t, restored.state.Board.Hexes, len(g.state.Board.Hexes))
}

func TestViewForMasksHiddenInformation(t *testing.T) {
	g, _ := newTestGame(t, 3)
	startMain(g)
	bob := g.state.player("bob")
	bob.DevCards = []DevCard{{Type: CardVictoryPoint}, {Type: CardKnight}}

	view := g.ViewFor("alice")
	for _, pv := range view.Players {
		if pv.ID == "bob" {
			assert.Nil(t, pv.DevCards, "other hands stay hidden")
			assert.Equal(t, 2, pv.DevCardCount)
		}
	}

	own := g.ViewFor("bob")
	for _, pv := range own.Players {
		if pv.ID == "bob" {
			assert.Len(t, pv.DevCards, 2)
		}
	}

	g.state.Turn.Phase = PhaseGameOver
	final := g.ViewFor("alice")
	for _, pv := range final.Players {
		if pv.ID == "bob" {
			assert.Len(t, pv.DevCards, 2, "hands are revealed after game over")
		}
	}
}

func TestChatAppendsToLog(t *testing.T) {
	g, rec := newTestGame(t, 3)
	require.NoError(t, g.Chat("bob", "good luck"))
	assert.Error(t, g.Chat("mallory", "hi"))
	require.Len(t, g.state.ChatLog, 1)
	assert.Equal(t, "bob", g.state.ChatLog[0].PlayerID)
	assert.Len(t, rec.ofType(EventTypeChatMessage), 1)
}
