package game

import "fmt"

// ProposeTrade opens a domestic trade from the active player. An empty
// addressee list addresses every other player. Returns the trade id.
func (g *Game) ProposeTrade(playerID string, offer, request Resources, to []string) (string, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseMain); err != nil {
		return "", err
	}
	p, err := g.requireActing(playerID)
	if err != nil {
		return "", err
	}
	if offer.IsZero() || request.IsZero() {
		return "", invalidf("a trade needs cards on both sides")
	}
	if !p.Resources.Covers(offer) {
		return "", &ResourceError{Reason: "insufficient resources to back the offer"}
	}
	if len(to) == 0 {
		for _, other := range g.state.Players {
			if other.ID != playerID {
				to = append(to, other.ID)
			}
		}
	} else {
		for _, id := range to {
			if id == playerID {
				return "", invalidf("cannot address a trade to yourself")
			}
			if g.state.player(id) == nil {
				return "", &NotFoundError{Kind: "player", ID: id}
			}
		}
	}

	g.state.TradeSeq++
	trade := &TradeOffer{
		ID:        fmt.Sprintf("trade-%d", g.state.TradeSeq),
		Proposer:  playerID,
		To:        to,
		Offer:     offer,
		Request:   request,
		CreatedAt: stamp().at,
	}
	g.state.OpenTrades[trade.ID] = trade
	g.bus.Publish(TradeProposedEvent{eventStamp: stamp(), Offer: *trade})
	return trade.ID, nil
}

// RespondTrade accepts or rejects an open trade. The first accept closes it;
// once every addressee has rejected it is cancelled.
func (g *Game) RespondTrade(playerID, tradeID string, accept bool) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseMain); err != nil {
		return err
	}
	trade, ok := g.state.OpenTrades[tradeID]
	if !ok {
		return &NotFoundError{Kind: "trade", ID: tradeID}
	}
	if !trade.addressedTo(playerID) {
		return invalidf("trade is not addressed to you")
	}
	if trade.hasRejected(playerID) {
		return invalidf("you already rejected this trade")
	}

	if !accept {
		trade.Rejected = append(trade.Rejected, playerID)
		if len(trade.Rejected) == len(trade.To) {
			delete(g.state.OpenTrades, tradeID)
			g.bus.Publish(TradeCancelledEvent{eventStamp: stamp(), TradeID: tradeID, Reason: "rejected"})
		}
		return nil
	}

	proposer := g.state.player(trade.Proposer)
	accepter := g.state.player(playerID)
	if !proposer.Resources.Covers(trade.Offer) {
		return &ResourceError{Reason: "proposer can no longer cover the offer"}
	}
	if !accepter.Resources.Covers(trade.Request) {
		return &ResourceError{Reason: "insufficient resources to accept the trade"}
	}

	proposer.Resources = proposer.Resources.Minus(trade.Offer).Plus(trade.Request)
	accepter.Resources = accepter.Resources.Minus(trade.Request).Plus(trade.Offer)
	delete(g.state.OpenTrades, tradeID)

	g.bus.Publish(TradeCompletedEvent{
		eventStamp: stamp(),
		TradeID:    tradeID,
		Proposer:   trade.Proposer,
		Accepter:   playerID,
		Gave:       trade.Offer,
		Received:   trade.Request,
	})
	return nil
}

// CancelTrade withdraws an open trade. Only the proposer may withdraw.
func (g *Game) CancelTrade(playerID, tradeID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	trade, ok := g.state.OpenTrades[tradeID]
	if !ok {
		return &NotFoundError{Kind: "trade", ID: tradeID}
	}
	if trade.Proposer != playerID {
		return invalidf("only the proposer can withdraw a trade")
	}
	delete(g.state.OpenTrades, tradeID)
	g.bus.Publish(TradeCancelledEvent{eventStamp: stamp(), TradeID: tradeID, Reason: "withdrawn"})
	return nil
}

// MaritimeTrade exchanges cards with the bank at the best ratio the player's
// ports grant. The amount given must match that ratio exactly.
func (g *Game) MaritimeTrade(playerID string, give Resource, amount int, receive Resource) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseMain); err != nil {
		return err
	}
	p, err := g.requireActing(playerID)
	if err != nil {
		return err
	}
	if give == receive {
		return invalidf("cannot trade a resource for itself")
	}
	ratio := g.state.tradeRatio(p, give)
	if amount != ratio {
		return invalidf("your best rate for %s is %d:1", give, ratio)
	}

	gave := single(give, ratio)
	received := single(receive, 1)
	if err := g.state.Bank.debit(received); err != nil {
		return err
	}
	if err := debitPlayer(p, gave, "make this maritime trade"); err != nil {
		g.state.Bank.credit(received)
		return err
	}
	g.state.Bank.credit(gave)
	creditPlayer(p, received)

	g.bus.Publish(TradeCompletedEvent{
		eventStamp: stamp(),
		TradeID:    "",
		Proposer:   playerID,
		Maritime:   true,
		Gave:       gave,
		Received:   received,
	})
	return nil
}
