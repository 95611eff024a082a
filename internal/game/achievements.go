package game

const (
	longestRoadThreshold = 5
	largestArmyThreshold = 3
)

// longestRoadLength computes the player's longest simple road path. A path
// may pass through the player's own buildings and free junctions, but an
// opponent building ends it at that corner.
func longestRoadLength(s *State, p *Player) int {
	if len(p.Roads) == 0 {
		return 0
	}
	used := make(map[Edge]bool, len(p.Roads))
	best := 0
	var walk func(at Corner, depth int)
	walk = func(at Corner, depth int) {
		if depth > best {
			best = depth
		}
		if depth > 0 {
			if owner := s.buildingOwnerAt(at); owner != nil && owner != p {
				return
			}
		}
		for _, e := range p.Roads {
			if used[e] || !e.HasCorner(at) {
				continue
			}
			used[e] = true
			walk(e.Other(at), depth+1)
			used[e] = false
		}
	}
	starts := make(map[Corner]bool, len(p.Roads)*2)
	for _, e := range p.Roads {
		starts[e.A] = true
		starts[e.B] = true
	}
	for c := range starts {
		walk(c, 0)
	}
	return best
}

// recomputeLongestRoad re-evaluates the longest road bonus after any mutation
// that can change road connectivity. The bonus needs a strict unique maximum
// of at least five; a tie leaves it unheld and revokes the previous holder.
func (g *Game) recomputeLongestRoad() {
	s := g.state
	best, count := 0, 0
	var holder *Player
	for _, p := range s.Players {
		l := longestRoadLength(s, p)
		switch {
		case l > best:
			best, holder, count = l, p, 1
		case l == best:
			count++
		}
	}
	if best < longestRoadThreshold || count > 1 {
		holder = nil
	}
	g.applyAward(AchievementLongestRoad, &s.LongestRoad, holder, best)
}

// recomputeLargestArmy re-evaluates the largest army bonus after a knight
// play, under the same strict unique maximum rule with a floor of three.
func (g *Game) recomputeLargestArmy() {
	s := g.state
	best, count := 0, 0
	var holder *Player
	for _, p := range s.Players {
		switch {
		case p.PlayedKnights > best:
			best, holder, count = p.PlayedKnights, p, 1
		case p.PlayedKnights == best:
			count++
		}
	}
	if best < largestArmyThreshold || count > 1 {
		holder = nil
	}
	g.applyAward(AchievementLargestArmy, &s.LargestArmy, holder, best)
}

// applyAward transfers a +2 VP bonus between holders, publishing a change
// event and re-checking the win condition for a new holder.
func (g *Game) applyAward(kind AchievementKind, award **Award, holder *Player, value int) {
	prev := *award
	prevID := ""
	if prev != nil {
		prevID = prev.PlayerID
	}
	newID := ""
	if holder != nil {
		newID = holder.ID
	}
	if newID == prevID {
		if prev != nil && prev.Value != value {
			prev.Value = value
		}
		return
	}

	if prev != nil {
		if pp := g.state.player(prev.PlayerID); pp != nil {
			pp.VictoryPoints -= 2
		}
	}
	if holder != nil {
		holder.VictoryPoints += 2
		*award = &Award{PlayerID: holder.ID, Value: value}
	} else {
		*award = nil
		value = 0
	}

	g.bus.Publish(AchievementEvent{
		eventStamp: stamp(),
		Kind:       kind,
		HolderID:   newID,
		PreviousID: prevID,
		Value:      value,
	})
	if holder != nil {
		g.checkWin(holder)
	}
}
