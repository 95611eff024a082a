package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func settlementReq(c Corner) BuildRequest {
	return BuildRequest{Kind: BuildSettlement, Corner: c}
}

func roadReq(a, b Corner) BuildRequest {
	return BuildRequest{Kind: BuildRoad, Edge: NewEdge(a, b)}
}

// setupPlacements is a legal full snake for a three player game on the
// standard board: corners spread far enough apart to clear the distance rule.
var setupPlacements = []struct {
	player     string
	settlement Corner
	roadTo     Corner
}{
	{"alice", Corner{0, 0, North}, Corner{0, -1, South}},
	{"bob", Corner{-2, 0, North}, Corner{-2, -1, South}},
	{"carol", Corner{2, 0, North}, Corner{2, -1, South}},
	{"carol", Corner{0, 2, North}, Corner{0, 1, South}},
	{"bob", Corner{-2, 2, North}, Corner{-2, 1, South}},
	{"alice", Corner{2, -2, North}, Corner{2, -3, South}},
}

func completeSetup(t *testing.T, g *Game) {
	t.Helper()
	for _, pl := range setupPlacements {
		require.NoError(t, g.Build(pl.player, settlementReq(pl.settlement)), "settlement for %s at %v", pl.player, pl.settlement)
		require.NoError(t, g.Build(pl.player, roadReq(pl.settlement, pl.roadTo)), "road for %s", pl.player)
	}
}

func TestSetupSnakeOrder(t *testing.T) {
	g, _ := newTestGame(t, 3)

	assert.Error(t, g.Build("bob", settlementReq(Corner{0, 0, North})), "only the cursor player places")
	assert.Error(t, g.Build("alice", roadReq(Corner{0, 0, North}, Corner{0, -1, South})), "settlement comes first")

	completeSetup(t, g)

	assert.Equal(t, PhaseRoll, g.state.Turn.Phase)
	assert.Equal(t, 0, g.state.Turn.Current)
	assert.Equal(t, 1, g.state.Turn.Number)
	for _, p := range g.state.Players {
		assert.Len(t, p.Settlements, 2)
		assert.Len(t, p.Roads, 2)
		assert.Equal(t, 2, p.VictoryPoints)
	}
}

func TestSetupRoadMustTouchAnchor(t *testing.T) {
	g, _ := newTestGame(t, 3)
	require.NoError(t, g.Build("alice", settlementReq(Corner{0, 0, North})))
	err := g.Build("alice", roadReq(Corner{2, 0, North}, Corner{2, -1, South}))
	assert.Error(t, err, "setup road must touch the settlement just placed")
}

func TestSetupSecondSettlementPaysOut(t *testing.T) {
	g, _ := newTestGame(t, 3)
	for _, pl := range setupPlacements[:5] {
		require.NoError(t, g.Build(pl.player, settlementReq(pl.settlement)))
		require.NoError(t, g.Build(pl.player, roadReq(pl.settlement, pl.roadTo)))
	}

	alice := g.state.player("alice")
	require.True(t, alice.Resources.IsZero(), "the first settlement pays nothing")

	last := setupPlacements[5]
	require.NoError(t, g.Build("alice", settlementReq(last.settlement)))

	expected := 0
	for _, h := range last.settlement.Hexes() {
		if hex := g.state.Board.HexAt(h); hex != nil {
			if _, ok := hex.Terrain.Produces(); ok {
				expected++
			}
		}
	}
	assert.Equal(t, expected, alice.Resources.Total(), "one card per producing hex at the second settlement")
}

func TestDistanceRule(t *testing.T) {
	g, _ := newTestGame(t, 3)
	require.NoError(t, g.Build("alice", settlementReq(Corner{0, 0, North})))
	require.NoError(t, g.Build("alice", roadReq(Corner{0, 0, North}, Corner{0, -1, South})))

	err := g.Build("bob", settlementReq(Corner{0, 0, North}))
	assert.Error(t, err, "occupied corner")

	err = g.Build("bob", settlementReq(Corner{0, -1, South}))
	assert.Error(t, err, "adjacent corner violates the distance rule")
}

func TestBuildRoadValidation(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)
	give(t, g, "alice", Resources{Brick: 3, Lumber: 3})

	err := g.Build("alice", roadReq(Corner{-2, 0, North}, Corner{-2, -1, South}))
	assert.Error(t, err, "edge already has bob's road")

	err = g.Build("alice", roadReq(Corner{-2, 2, North}, Corner{-2, 1, South}))
	assert.Error(t, err, "edge with an existing road")

	err = g.Build("alice", roadReq(Corner{-1, 1, North}, Corner{-1, 0, South}))
	assert.Error(t, err, "disconnected edge")

	before := circulation(g)
	next := Corner{-1, 0, North} // extends alice's first road
	require.NoError(t, g.Build("alice", roadReq(Corner{0, -1, South}, next)))
	assert.Len(t, g.state.player("alice").Roads, 3)
	assert.Equal(t, before, circulation(g), "road cost returns to the bank")
	assert.Equal(t, Resources{Brick: 2, Lumber: 2}, g.state.player("alice").Resources)
}

func TestBuildRoadNeedsResources(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)

	err := g.Build("alice", roadReq(Corner{0, -1, South}, Corner{-1, 0, North}))
	var rerr *ResourceError
	require.ErrorAs(t, err, &rerr)
	assert.False(t, rerr.Bank)
}

func TestBuildSettlementNeedsConnectivity(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)
	give(t, g, "alice", Resources{Brick: 2, Lumber: 2, Wool: 1, Grain: 1})

	err := g.Build("alice", settlementReq(Corner{-1, 1, North}))
	assert.Error(t, err, "no road of alice's reaches that corner")

	// The corner one road away from alice's settlement violates the distance
	// rule, so extend the chain one edge further first.
	target := Corner{-1, 0, North}
	assert.Error(t, g.Build("alice", settlementReq(Corner{0, -1, South})))
	require.NoError(t, g.Build("alice", roadReq(Corner{0, -1, South}, target)))
	require.NoError(t, g.Build("alice", settlementReq(target)))
	alice := g.state.player("alice")
	assert.Len(t, alice.Settlements, 3)
	assert.Equal(t, 3, alice.VictoryPoints)
	assert.True(t, alice.Resources.IsZero())
}

func TestBuildCityUpgradesOwnSettlement(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)
	give(t, g, "alice", Resources{Grain: 2, Ore: 3})

	err := g.Build("alice", BuildRequest{Kind: BuildCity, Corner: Corner{-2, 0, North}})
	assert.Error(t, err, "cannot upgrade bob's settlement")

	target := setupPlacements[0].settlement
	before := circulation(g)
	require.NoError(t, g.Build("alice", BuildRequest{Kind: BuildCity, Corner: target}))
	alice := g.state.player("alice")
	assert.Len(t, alice.Settlements, 1)
	assert.Len(t, alice.Cities, 1)
	assert.Equal(t, 3, alice.VictoryPoints)
	assert.Equal(t, before, circulation(g))

	err = g.Build("alice", BuildRequest{Kind: BuildCity, Corner: target})
	assert.Error(t, err, "a city cannot be upgraded again")
}

func TestPieceSupplyLimits(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)
	startMain(g)
	give(t, g, "alice", Resources{Brick: 2, Lumber: 2, Wool: 1, Grain: 1})

	alice := g.state.player("alice")
	for len(alice.Roads) < maxRoads {
		alice.Roads = append(alice.Roads, alice.Roads[len(alice.Roads)-1])
	}
	err := g.Build("alice", roadReq(Corner{0, -1, South}, Corner{-1, 0, North}))
	assert.Error(t, err, "road supply exhausted")

	for len(alice.Settlements) < maxSettlements {
		alice.Settlements = append(alice.Settlements, alice.Settlements[0])
	}
	err = g.Build("alice", settlementReq(Corner{0, -1, South}))
	assert.Error(t, err, "settlement supply exhausted")
}

func TestBuildRejectsWrongPhaseAndKind(t *testing.T) {
	g, _ := newTestGame(t, 3)
	completeSetup(t, g)

	err := g.Build("alice", roadReq(Corner{0, -1, South}, Corner{-1, 0, North}))
	assert.Error(t, err, "no building during the roll phase")

	startMain(g)
	err = g.Build("alice", BuildRequest{Kind: BuildKind("castle")})
	assert.Error(t, err)
}
