package game

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hexhaven/hexhaven/internal/randutil"
)

func TestGenerateBoardStandard(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		board, err := GenerateBoard(SizeStandard, randutil.New(seed))
		require.NoError(t, err)
		require.Len(t, board.Hexes, 19)
		require.Len(t, board.Ports, 9)
		assertBoardInvariants(t, board, standardTerrain, standardTokens)
	}
}

func TestGenerateBoardExtended(t *testing.T) {
	for seed := int64(0); seed < 20; seed++ {
		board, err := GenerateBoard(SizeExtended, randutil.New(seed))
		require.NoError(t, err)
		require.Len(t, board.Hexes, 30)
		require.Len(t, board.Ports, 11)
		assertBoardInvariants(t, board, extendedTerrain, extendedTokens)
	}
}

func assertBoardInvariants(t *testing.T, board *Board, wantTerrain []Terrain, wantTokens []int) {
	t.Helper()

	terrainCount := map[Terrain]int{}
	tokenCount := map[int]int{}
	robbers := 0
	for _, h := range board.Hexes {
		terrainCount[h.Terrain]++
		if h.Terrain == Desert {
			assert.Zero(t, h.NumberToken, "desert carries no token")
		} else {
			tokenCount[h.NumberToken]++
			assert.NotEqual(t, 7, h.NumberToken)
		}
		if h.HasRobber {
			robbers++
			assert.Equal(t, Desert, h.Terrain, "robber starts on a desert")
		}
	}

	wantTerrainCount := map[Terrain]int{}
	for _, tr := range wantTerrain {
		wantTerrainCount[tr]++
	}
	assert.Equal(t, wantTerrainCount, terrainCount)

	wantTokenCount := map[int]int{}
	for _, tok := range wantTokens {
		wantTokenCount[tok]++
	}
	assert.Equal(t, wantTokenCount, tokenCount)
	assert.Equal(t, 1, robbers)
	assert.False(t, board.hasAdjacentHotTokens(), "no adjacent 6/8 tokens")
}

func TestGenerateBoardRejectsUnknownSize(t *testing.T) {
	_, err := GenerateBoard(BoardSize("huge"), randutil.New(1))
	assert.Error(t, err)
}

func TestGenerateBoardIsDeterministicPerSeed(t *testing.T) {
	a, err := GenerateBoard(SizeStandard, randutil.New(99))
	require.NoError(t, err)
	b, err := GenerateBoard(SizeStandard, randutil.New(99))
	require.NoError(t, err)
	assert.Equal(t, a, b)

	c, err := GenerateBoard(SizeStandard, randutil.New(100))
	require.NoError(t, err)
	assert.NotEqual(t, a.Hexes, c.Hexes)
}

func TestPortsAnchorOnCoast(t *testing.T) {
	for _, size := range []BoardSize{SizeStandard, SizeExtended} {
		board, err := GenerateBoard(size, randutil.New(3))
		require.NoError(t, err)
		for _, port := range board.Ports {
			assert.False(t, board.Contains(port.Coordinates), "port %v sits on a sea hex", port)
			touchesLand := false
			for _, n := range port.Coordinates.Neighbors() {
				if board.Contains(n) {
					touchesLand = true
				}
			}
			assert.True(t, touchesLand, "port %v must border land", port)
			landCorner := false
			for _, c := range port.PortCorners() {
				if board.HasCorner(c) {
					landCorner = true
				}
			}
			assert.True(t, landCorner, "port %v must share a buildable corner", port)
		}
	}
}

func TestMoveRobber(t *testing.T) {
	board, err := GenerateBoard(SizeStandard, randutil.New(5))
	require.NoError(t, err)
	start := board.RobberHex()

	var target Coord
	for _, h := range board.Hexes {
		if h.Coordinates != start {
			target = h.Coordinates
			break
		}
	}
	board.MoveRobber(target)
	assert.Equal(t, target, board.RobberHex())
	assert.False(t, board.HexAt(start).HasRobber)
}

func TestBoardCornerAndEdgeMembership(t *testing.T) {
	board, err := GenerateBoard(SizeStandard, randutil.New(8))
	require.NoError(t, err)

	center := Corner{0, 0, North}
	assert.True(t, board.HasCorner(center))
	assert.True(t, board.HasEdge(NewEdge(center, Corner{0, -1, South})))

	farCorner := Corner{9, 9, North}
	assert.False(t, board.HasCorner(farCorner))
	assert.False(t, board.HasEdge(NewEdge(center, farCorner)), "non-adjacent corners form no edge")
}
