package game

// MoveRobber relocates the robber after a seven or a knight. stealFrom is
// optional; when set it must name an opponent with a building on the target
// hex, and one random card moves from their hand to the mover's.
func (g *Game) MoveRobber(playerID string, hex Coord, stealFrom string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseRobberPlacement); err != nil {
		return err
	}
	p, err := g.requireActing(playerID)
	if err != nil {
		return err
	}
	if !g.state.Board.Contains(hex) {
		return invalidf("hex is not on the board")
	}
	if hex == g.state.RobberHex {
		return invalidf("robber must move to a different hex")
	}

	var victim *Player
	if stealFrom != "" {
		if stealFrom == playerID {
			return invalidf("cannot steal from yourself")
		}
		victim = g.state.player(stealFrom)
		if victim == nil {
			return &NotFoundError{Kind: "player", ID: stealFrom}
		}
		if !g.hasBuildingOnHex(victim, hex) {
			return invalidf("steal target has no building on that hex")
		}
	}

	g.state.Board.MoveRobber(hex)
	g.state.RobberHex = hex
	g.state.Turn.RobberPending = false
	g.state.Turn.Phase = PhaseMain

	var stolen *Resource
	if victim != nil {
		if res, ok := g.stealRandomCard(victim, p); ok {
			stolen = &res
		}
	}

	g.bus.Publish(RobberMovedEvent{
		eventStamp: stamp(),
		PlayerID:   playerID,
		Hex:        hex,
		StealFrom:  stealFrom,
		Stolen:     stolen,
	})
	g.publishTurn()
	return nil
}

func (g *Game) hasBuildingOnHex(p *Player, hex Coord) bool {
	for _, c := range hex.Corners() {
		if p.HasBuildingAt(c) {
			return true
		}
	}
	return false
}

// stealRandomCard moves one uniformly random card from victim to thief. An
// empty hand steals nothing without failing the move.
func (g *Game) stealRandomCard(victim, thief *Player) (Resource, bool) {
	total := victim.Resources.Total()
	if total == 0 {
		return "", false
	}
	pick := g.rng.IntN(total)
	for _, kind := range ResourceKinds {
		pick -= victim.Resources.Get(kind)
		if pick < 0 {
			victim.Resources.Add(kind, -1)
			thief.Resources.Add(kind, 1)
			return kind, true
		}
	}
	return "", false
}
