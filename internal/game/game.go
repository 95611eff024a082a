package game

import (
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
)

// Seat is one entry of the room roster handed to New.
type Seat struct {
	ID   string
	Name string
}

// Game owns the authoritative state for one room. Every action is serialized
// through its mutex, so concurrent client intents never interleave their
// read-modify-write cycles. Each action either fully validates and commits or
// returns a typed error with the state untouched.
type Game struct {
	mu     sync.Mutex
	state  *State
	rng    *rand.Rand
	logger *log.Logger
	bus    EventBus
}

// New creates a game from the room roster. The rng drives board generation,
// deck shuffling and robber steals; seed it deterministically in tests.
func New(seats []Seat, settings Settings, rng *rand.Rand, logger *log.Logger) (*Game, error) {
	if len(seats) < 3 || len(seats) > 6 {
		return nil, fmt.Errorf("a game needs 3-6 players, got %d", len(seats))
	}
	if settings.VictoryPointsToWin <= 0 {
		settings.VictoryPointsToWin = 10
	}
	if settings.BoardSize == "" {
		settings.BoardSize = SizeStandard
		if len(seats) >= 5 {
			settings.BoardSize = SizeExtended
		}
	}
	if settings.BoardSize == SizeStandard && len(seats) > 4 {
		return nil, fmt.Errorf("the standard board seats at most 4 players, got %d", len(seats))
	}

	board, err := GenerateBoard(settings.BoardSize, rng)
	if err != nil {
		return nil, err
	}

	state := &State{
		Board:     board,
		RobberHex: board.RobberHex(),
		Bank: BankState{
			Resources: bankStock(settings.BoardSize),
			DevCards:  newDevDeck(settings.BoardSize, rng),
		},
		Turn: TurnInfo{
			Phase:        PhaseInitialPlacement,
			SpecialBuild: -1,
		},
		OpenTrades: make(map[string]*TradeOffer),
		Settings:   settings,
	}
	for i, seat := range seats {
		state.Players = append(state.Players, &Player{
			ID:        seat.ID,
			Name:      seat.Name,
			Color:     playerColors[i],
			Connected: true,
		})
	}

	return &Game{
		state:  state,
		rng:    rng,
		logger: logger.WithPrefix("game"),
		bus:    NewEventBus(),
	}, nil
}

// Restore rebuilds a game from a state snapshot. The rng is fresh; snapshots
// never carry random state.
func Restore(data []byte, rng *rand.Rand, logger *log.Logger) (*Game, error) {
	state, err := RestoreState(data)
	if err != nil {
		return nil, fmt.Errorf("failed to restore game state: %w", err)
	}
	if state.OpenTrades == nil {
		state.OpenTrades = make(map[string]*TradeOffer)
	}
	return &Game{
		state:  state,
		rng:    rng,
		logger: logger.WithPrefix("game"),
		bus:    NewEventBus(),
	}, nil
}

// Events returns the bus the engine publishes domain events on.
func (g *Game) Events() EventBus { return g.bus }

// ViewFor renders the current state for one player.
func (g *Game) ViewFor(playerID string) *View {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.ViewFor(playerID)
}

// Snapshot serializes the full hidden state for the save/load store.
func (g *Game) Snapshot() ([]byte, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Snapshot()
}

// CurrentPhase returns the phase the room is in.
func (g *Game) CurrentPhase() Phase {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.Turn.Phase
}

// CurrentPlayerID returns the id of the player whose turn it is.
func (g *Game) CurrentPlayerID() string {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.state.activePlayer().ID
}

// PlayerIDs returns the roster ids in seat order.
func (g *Game) PlayerIDs() []string {
	g.mu.Lock()
	defer g.mu.Unlock()
	ids := make([]string, len(g.state.Players))
	for i, p := range g.state.Players {
		ids[i] = p.ID
	}
	return ids
}

// SetConnected flags a player as connected or disconnected. Disconnection
// never rolls back accepted actions.
func (g *Game) SetConnected(playerID string, connected bool) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if p := g.state.player(playerID); p != nil {
		p.Connected = connected
	}
}

// Chat appends a line to the room chat log.
func (g *Game) Chat(playerID, text string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	p := g.state.player(playerID)
	if p == nil {
		return &NotFoundError{Kind: "player", ID: playerID}
	}
	msg := ChatMessage{
		ID:        fmt.Sprintf("chat-%d", len(g.state.ChatLog)+1),
		PlayerID:  playerID,
		Message:   text,
		Timestamp: time.Now(),
	}
	g.state.ChatLog = append(g.state.ChatLog, msg)
	g.bus.Publish(ChatEvent{eventStamp: stamp(), Message: msg})
	return nil
}

// RollDice rolls for the active player. A non-seven distributes production
// and opens the main phase; a seven routes through discard and robber
// placement.
func (g *Game) RollDice(playerID string) (int, int, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseRoll); err != nil {
		return 0, 0, err
	}
	if _, err := g.requireActing(playerID); err != nil {
		return 0, 0, err
	}

	die1 := g.rng.IntN(6) + 1
	die2 := g.rng.IntN(6) + 1
	total := die1 + die2
	g.state.Turn.LastRoll = [2]int{die1, die2}
	g.logger.Debug("dice rolled", "player", playerID, "roll", total)

	production := map[string]Resources{}
	if total == 7 {
		g.flagDiscards()
		if len(g.state.Turn.PendingDiscards) == 0 {
			g.state.Turn.Phase = PhaseRobberPlacement
			g.state.Turn.RobberPending = true
		} else {
			g.state.Turn.Phase = PhaseDiscard
		}
	} else {
		production = g.distributeProduction(total)
		g.state.Turn.Phase = PhaseMain
	}

	g.bus.Publish(DiceRolledEvent{
		eventStamp: stamp(),
		PlayerID:   playerID,
		Die1:       die1,
		Die2:       die2,
		Production: production,
	})
	g.publishTurn()
	return die1, die2, nil
}

// flagDiscards marks every player holding more than seven cards as owing
// floor(hand/2).
func (g *Game) flagDiscards() {
	pending := make(map[string]int)
	for _, p := range g.state.Players {
		if total := p.Resources.Total(); total > 7 {
			pending[p.ID] = total / 2
			g.bus.Publish(DiscardRequiredEvent{eventStamp: stamp(), PlayerID: p.ID, Amount: total / 2})
		}
	}
	if len(pending) > 0 {
		g.state.Turn.PendingDiscards = pending
	}
}

// distributeProduction pays out a roll. Claims are aggregated per resource;
// if the bank cannot cover the total claims for one resource, that resource is
// skipped entirely for everyone (the scarcity rule).
func (g *Game) distributeProduction(roll int) map[string]Resources {
	claims := map[Resource]map[string]int{}
	for _, hex := range g.state.Board.Hexes {
		if hex.NumberToken != roll || hex.HasRobber {
			continue
		}
		res, ok := hex.Terrain.Produces()
		if !ok {
			continue
		}
		for _, corner := range hex.Coordinates.Corners() {
			for _, p := range g.state.Players {
				amount := 0
				for _, s := range p.Settlements {
					if s == corner {
						amount = 1
					}
				}
				for _, c := range p.Cities {
					if c == corner {
						amount = 2
					}
				}
				if amount == 0 {
					continue
				}
				if claims[res] == nil {
					claims[res] = map[string]int{}
				}
				claims[res][p.ID] += amount
			}
		}
	}

	distributed := map[string]Resources{}
	for _, res := range ResourceKinds {
		perPlayer := claims[res]
		if len(perPlayer) == 0 {
			continue
		}
		demand := 0
		for _, n := range perPlayer {
			demand += n
		}
		supply := g.state.Bank.Resources.Get(res)
		if supply < demand {
			g.logger.Info("scarcity rule enforced", "resource", res, "demand", demand, "supply", supply)
			g.bus.Publish(ScarcityEvent{eventStamp: stamp(), Resource: res, Demand: demand, Supply: supply})
			continue
		}
		for playerID, n := range perPlayer {
			p := g.state.player(playerID)
			g.state.Bank.Resources.Add(res, -n)
			p.Resources.Add(res, n)
			bundle := distributed[playerID]
			bundle.Add(res, n)
			distributed[playerID] = bundle
		}
	}
	return distributed
}

// DiscardCards resolves one player's owed discard after a seven.
func (g *Game) DiscardCards(playerID string, discard Resources) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseDiscard); err != nil {
		return err
	}
	owed, ok := g.state.Turn.PendingDiscards[playerID]
	if !ok {
		return invalidf("you have no discard pending")
	}
	p := g.state.player(playerID)
	if discard.Total() != owed {
		return invalidf("must discard exactly %d cards", owed)
	}
	if err := debitPlayer(p, discard, "discard"); err != nil {
		return err
	}
	g.state.Bank.credit(discard)
	delete(g.state.Turn.PendingDiscards, playerID)
	g.bus.Publish(DiscardConfirmedEvent{eventStamp: stamp(), PlayerID: playerID, Remaining: p.Resources})

	if len(g.state.Turn.PendingDiscards) == 0 {
		g.state.Turn.PendingDiscards = nil
		g.state.Turn.Phase = PhaseRobberPlacement
		g.state.Turn.RobberPending = true
		g.publishTurn()
	}
	return nil
}

// EndTurn passes control. In a 5-6 player game the end of a main phase enters
// the special building phase, cycling through the remaining players before
// the next player rolls.
func (g *Game) EndTurn(playerID string) error {
	g.mu.Lock()
	defer g.mu.Unlock()

	if err := g.requirePhase(PhaseMain, PhaseSpecialBuilding); err != nil {
		return err
	}
	if _, err := g.requireActing(playerID); err != nil {
		return err
	}

	s := g.state
	if s.Turn.Phase == PhaseMain && s.Settings.SpecialBuildingPhase && len(s.Players) >= 5 {
		s.Turn.Phase = PhaseSpecialBuilding
		s.Turn.SpecialBuild = (s.Turn.Current + 1) % len(s.Players)
		g.publishTurn()
		return nil
	}
	if s.Turn.Phase == PhaseSpecialBuilding {
		next := (s.Turn.SpecialBuild + 1) % len(s.Players)
		if next != s.Turn.Current {
			s.Turn.SpecialBuild = next
			g.publishTurn()
			return nil
		}
	}
	g.advanceTurn()
	return nil
}

func (g *Game) advanceTurn() {
	s := g.state
	g.cancelOpenTrades("turn ended")
	s.Turn.Current = (s.Turn.Current + 1) % len(s.Players)
	s.Turn.Number++
	s.Turn.Phase = PhaseRoll
	s.Turn.LastRoll = [2]int{}
	s.Turn.DevCardPlayed = false
	s.Turn.SpecialBuild = -1
	g.publishTurn()
}

func (g *Game) cancelOpenTrades(reason string) {
	for id := range g.state.OpenTrades {
		delete(g.state.OpenTrades, id)
		g.bus.Publish(TradeCancelledEvent{eventStamp: stamp(), TradeID: id, Reason: reason})
	}
}

func (g *Game) publishTurn() {
	s := g.state
	actingID := s.activePlayer().ID
	if s.Turn.Phase == PhaseSpecialBuilding && s.Turn.SpecialBuild >= 0 {
		actingID = s.Players[s.Turn.SpecialBuild].ID
	}
	g.bus.Publish(TurnChangedEvent{
		eventStamp: stamp(),
		PlayerID:   actingID,
		Phase:      s.Turn.Phase,
		Number:     s.Turn.Number,
	})
}

// requirePhase rejects the action unless the room is in one of the phases.
// A finished game rejects everything.
func (g *Game) requirePhase(phases ...Phase) error {
	current := g.state.Turn.Phase
	if current == PhaseGameOver {
		return invalidf("game is over")
	}
	for _, ph := range phases {
		if current == ph {
			return nil
		}
	}
	return invalidf("action not allowed during %s phase", current)
}

// requireActing rejects the action unless playerID is allowed to act right
// now: the active player, the setup-cursor player during initial placement,
// or the cycling player during the special building phase.
func (g *Game) requireActing(playerID string) (*Player, error) {
	s := g.state
	p := s.player(playerID)
	if p == nil {
		return nil, &NotFoundError{Kind: "player", ID: playerID}
	}
	idx := s.playerIndex(playerID)
	switch s.Turn.Phase {
	case PhaseInitialPlacement:
		if idx != s.setupPlayerIndex() {
			return nil, invalidf("not your turn")
		}
	case PhaseSpecialBuilding:
		if idx != s.Turn.SpecialBuild {
			return nil, invalidf("not your turn")
		}
	default:
		if idx != s.Turn.Current {
			return nil, invalidf("not your turn")
		}
	}
	return p, nil
}

// setupPlayerIndex returns the seat whose placement it is under snake order.
func (s *State) setupPlayerIndex() int {
	if s.Turn.Setup.Round == 0 {
		return s.Turn.Setup.Index
	}
	return len(s.Players) - 1 - s.Turn.Setup.Index
}

// totalVictoryPoints includes hidden victory point cards, which count toward
// the win threshold while staying invisible to other players.
func (s *State) totalVictoryPoints(p *Player) int {
	if s.Turn.Phase == PhaseGameOver {
		return p.VictoryPoints
	}
	return p.VictoryPoints + p.hiddenVictoryCards()
}

// checkWin runs after every VP-affecting mutation. The first player evaluated
// at or above the threshold wins; the game freezes and every hidden victory
// point card is revealed.
func (g *Game) checkWin(p *Player) bool {
	s := g.state
	if s.Turn.Phase == PhaseGameOver {
		return false
	}
	if s.totalVictoryPoints(p) < s.Settings.VictoryPointsToWin {
		return false
	}
	for _, pl := range s.Players {
		pl.VictoryPoints += pl.hiddenVictoryCards()
	}
	s.Turn.Phase = PhaseGameOver
	g.logger.Info("game over", "winner", p.ID, "points", p.VictoryPoints)
	g.bus.Publish(GameEndedEvent{eventStamp: stamp(), WinnerID: p.ID})
	return true
}
