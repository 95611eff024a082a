package server

import (
	"encoding/json"
	"errors"
	"fmt"
	rand "math/rand/v2"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/coder/quartz"
	"golang.org/x/sync/errgroup"

	"github.com/hexhaven/hexhaven/internal/game"
	"github.com/hexhaven/hexhaven/internal/randutil"
	"github.com/hexhaven/hexhaven/internal/roomid"
	"github.com/hexhaven/hexhaven/internal/store"
)

// Sender delivers messages to clients. Implemented by Server; tests inject a
// recorder.
type Sender interface {
	BroadcastToRoom(roomID string, msg *Message)
	SendToPlayer(playerID string, msg *Message) error
}

// Room is one lobby or running game.
type Room struct {
	ID       string
	HostID   string
	Members  []RoomMember
	Settings game.Settings
	game     *game.Game
	timer    *turnTimer
}

// Playing reports whether the room's game has started.
func (r *Room) Playing() bool { return r.game != nil }

func (r *Room) member(playerID string) *RoomMember {
	for i := range r.Members {
		if r.Members[i].PlayerID == playerID {
			return &r.Members[i]
		}
	}
	return nil
}

// RoomService owns the room registry and routes client actions into each
// room's rules engine. Engine events come back through per-room subscribers
// and fan out as WebSocket messages.
type RoomService struct {
	mu       sync.RWMutex
	rooms    map[string]*Room
	sender   Sender
	store    store.Store
	ids      *roomid.Generator
	seeds    *rand.Rand
	clock    quartz.Clock
	logger   *log.Logger
	defaults game.Settings
}

// NewRoomService creates a room service. seeds drives room code generation
// and per-game seeding; pass a deterministic source in tests.
func NewRoomService(sender Sender, st store.Store, seeds *rand.Rand, clock quartz.Clock, logger *log.Logger) *RoomService {
	return &RoomService{
		rooms:  make(map[string]*Room),
		sender: sender,
		store:  st,
		ids:    roomid.NewGenerator(seeds),
		seeds:  seeds,
		clock:  clock,
		logger: logger.WithPrefix("rooms"),
	}
}

// SetDefaults installs server-wide settings applied to rooms that start
// without their own.
func (s *RoomService) SetDefaults(defaults game.Settings) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.defaults = defaults
}

// CreateRoom opens a new lobby hosted by the creator and returns its code.
func (s *RoomService) CreateRoom(playerID, name string, settings *game.Settings) (string, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.ids.Next()
	for s.rooms[id] != nil {
		id = s.ids.Next()
	}

	room := &Room{
		ID:     id,
		HostID: playerID,
		Members: []RoomMember{
			{PlayerID: playerID, Name: name, Host: true, Connected: true},
		},
	}
	if settings != nil {
		room.Settings = *settings
	}
	s.rooms[id] = room
	s.logger.Info("room created", "room", id, "host", playerID)

	s.broadcastRoomUpdate(room)
	return id, nil
}

// JoinRoom adds a player to a lobby, or reconnects a member of a running
// game and replays the full state to them.
func (s *RoomService) JoinRoom(roomID, playerID, name string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms[roomID]
	if room == nil {
		return fmt.Errorf("room not found: %s", roomID)
	}

	if room.Playing() {
		m := room.member(playerID)
		if m == nil {
			return fmt.Errorf("game already in progress")
		}
		m.Connected = true
		room.game.SetConnected(playerID, true)
		s.logger.Info("player reconnected", "room", roomID, "player", playerID)
		s.broadcast(roomID, MessageTypePlayerJoined, PlayerJoinedData{RoomID: roomID, PlayerID: playerID, Name: m.Name})
		s.sendStateTo(room, playerID)
		return nil
	}

	if room.member(playerID) != nil {
		return fmt.Errorf("already in room %s", roomID)
	}
	if len(room.Members) >= 6 {
		return fmt.Errorf("room %s is full", roomID)
	}
	room.Members = append(room.Members, RoomMember{PlayerID: playerID, Name: name, Connected: true})
	s.logger.Info("player joined", "room", roomID, "player", playerID, "members", len(room.Members))

	s.broadcast(roomID, MessageTypePlayerJoined, PlayerJoinedData{RoomID: roomID, PlayerID: playerID, Name: name})
	s.broadcastRoomUpdate(room)
	return nil
}

// LeaveRoom removes a player from a lobby, or marks a playing member as
// disconnected without rolling anything back.
func (s *RoomService) LeaveRoom(roomID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms[roomID]
	if room == nil {
		return fmt.Errorf("room not found: %s", roomID)
	}
	m := room.member(playerID)
	if m == nil {
		return fmt.Errorf("not a member of room %s", roomID)
	}

	if room.Playing() {
		m.Connected = false
		room.game.SetConnected(playerID, false)
		s.logger.Info("player disconnected", "room", roomID, "player", playerID)
		s.broadcast(roomID, MessageTypePlayerLeft, PlayerLeftData{RoomID: roomID, PlayerID: playerID, Reason: "disconnected"})
		return nil
	}

	for i := range room.Members {
		if room.Members[i].PlayerID == playerID {
			room.Members = append(room.Members[:i], room.Members[i+1:]...)
			break
		}
	}
	s.broadcast(roomID, MessageTypePlayerLeft, PlayerLeftData{RoomID: roomID, PlayerID: playerID, Reason: "left"})

	if len(room.Members) == 0 {
		delete(s.rooms, roomID)
		s.logger.Info("room closed", "room", roomID)
		return nil
	}
	if room.HostID == playerID {
		room.HostID = room.Members[0].PlayerID
		room.Members[0].Host = true
		s.logger.Info("host migrated", "room", roomID, "host", room.HostID)
	}
	s.broadcastRoomUpdate(room)
	return nil
}

// ListRooms returns a summary of every open room.
func (s *RoomService) ListRooms() []RoomInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []RoomInfo
	for _, room := range s.rooms {
		hostName := ""
		if h := room.member(room.HostID); h != nil {
			hostName = h.Name
		}
		out = append(out, RoomInfo{
			RoomID:      room.ID,
			HostName:    hostName,
			PlayerCount: len(room.Members),
			MaxPlayers:  6,
			Playing:     room.Playing(),
		})
	}
	return out
}

// StartGame launches the room's game. Host only, 3-6 members.
func (s *RoomService) StartGame(roomID, playerID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	room := s.rooms[roomID]
	if room == nil {
		return fmt.Errorf("room not found: %s", roomID)
	}
	if room.Playing() {
		return fmt.Errorf("game already in progress")
	}
	if room.HostID != playerID {
		return fmt.Errorf("only the host starts the game")
	}

	settings := room.Settings
	if settings.BoardSize == "" && settings.VictoryPointsToWin == 0 {
		settings = game.DefaultSettings(len(room.Members))
		if s.defaults.VictoryPointsToWin > 0 {
			settings.VictoryPointsToWin = s.defaults.VictoryPointsToWin
		}
		if s.defaults.BoardSize != "" && len(room.Members) <= 4 {
			settings.BoardSize = s.defaults.BoardSize
		}
		if s.defaults.TurnTimeLimitSeconds > 0 {
			settings.TurnTimeLimitSeconds = s.defaults.TurnTimeLimitSeconds
		}
	}

	var seats []game.Seat
	for _, m := range room.Members {
		seats = append(seats, game.Seat{ID: m.PlayerID, Name: m.Name})
	}
	g, err := game.New(seats, settings, randutil.New(s.seeds.Int64()), s.logger)
	if err != nil {
		return err
	}
	g.Events().Subscribe(&roomSubscriber{svc: s, roomID: roomID})
	room.game = g
	room.Settings = settings
	room.timer = newTurnTimer(s.clock)
	s.logger.Info("game started", "room", roomID, "players", len(seats))

	s.broadcast(roomID, MessageTypeGameStarted, GameStartedData{RoomID: roomID, Settings: settings})
	s.pushState(room, room.Members)
	s.commitSnapshot(room)
	return nil
}

// DispatchAction routes one in-game client message into the room's engine.
// Engine rejections are answered with action_invalid; only transport-level
// problems surface as errors. The service lock is held only to resolve the
// room: each game's own mutex serializes its actions, so rooms run
// independently.
func (s *RoomService) DispatchAction(roomID, playerID string, msgType MessageType, data json.RawMessage) error {
	s.mu.RLock()
	room := s.rooms[roomID]
	s.mu.RUnlock()

	if room == nil {
		return fmt.Errorf("room not found: %s", roomID)
	}
	if !room.Playing() {
		return fmt.Errorf("game has not started")
	}
	g := room.game

	var actErr error
	switch msgType {
	case MessageTypeRollDice:
		_, _, actErr = g.RollDice(playerID)

	case MessageTypeEndTurn:
		actErr = g.EndTurn(playerID)

	case MessageTypeBuild:
		var d BuildData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse build data: %w", err)
		}
		req := game.BuildRequest{Kind: d.Kind}
		if d.Corner != nil {
			req.Corner = *d.Corner
		}
		if d.Edge != nil {
			req.Edge = *d.Edge
		}
		actErr = g.Build(playerID, req)

	case MessageTypeBuyDevCard:
		actErr = g.BuyDevCard(playerID)

	case MessageTypePlayDevCard:
		var d PlayDevCardData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse play dev card data: %w", err)
		}
		actErr = g.PlayDevCard(playerID, d.CardType, d.Target)

	case MessageTypeMoveRobber:
		var d MoveRobberData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse move robber data: %w", err)
		}
		actErr = g.MoveRobber(playerID, d.Hex, d.StealFrom)

	case MessageTypeDiscard:
		var d DiscardData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse discard data: %w", err)
		}
		actErr = g.DiscardCards(playerID, d.Resources)

	case MessageTypeProposeTrade:
		var d ProposeTradeData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse propose trade data: %w", err)
		}
		_, actErr = g.ProposeTrade(playerID, d.Offer, d.Request, d.To)

	case MessageTypeRespondTrade:
		var d RespondTradeData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse respond trade data: %w", err)
		}
		actErr = g.RespondTrade(playerID, d.TradeID, d.Accept)

	case MessageTypeCancelTrade:
		var d CancelTradeData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse cancel trade data: %w", err)
		}
		actErr = g.CancelTrade(playerID, d.TradeID)

	case MessageTypeMaritimeTrade:
		var d MaritimeTradeData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse maritime trade data: %w", err)
		}
		actErr = g.MaritimeTrade(playerID, d.Give, d.Amount, d.Receive)

	case MessageTypeChatMessage:
		var d ChatData
		if err := json.Unmarshal(data, &d); err != nil {
			return fmt.Errorf("failed to parse chat data: %w", err)
		}
		actErr = g.Chat(playerID, d.Message)

	default:
		return fmt.Errorf("unknown action: %s", msgType)
	}

	if actErr != nil {
		s.logger.Debug("action rejected", "room", roomID, "player", playerID, "action", msgType, "reason", actErr)
		if msg := actionInvalidMessage(msgType, actErr); msg != nil {
			_ = s.sender.SendToPlayer(playerID, msg)
		}
		return nil
	}

	s.afterAction(room)
	return nil
}

// afterAction pushes fresh redacted views, persists a snapshot and re-arms
// the turn timer. It runs without the service lock, so the member list is
// snapshotted before sending.
func (s *RoomService) afterAction(room *Room) {
	s.mu.RLock()
	members := append([]RoomMember(nil), room.Members...)
	s.mu.RUnlock()

	s.pushState(room, members)
	s.commitSnapshot(room)

	if room.game.CurrentPhase() == game.PhaseGameOver {
		if room.timer != nil {
			room.timer.stop()
		}
		if err := s.store.Remove(room.ID); err != nil {
			s.logger.Warn("failed to remove snapshot", "room", room.ID, "error", err)
		}
		return
	}
	s.armTimer(room)
}

func (s *RoomService) armTimer(room *Room) {
	limit := room.Settings.TurnTimeLimitSeconds
	if room.timer == nil || limit <= 0 {
		return
	}
	roomID := room.ID
	room.timer.arm(time.Duration(limit)*time.Second, func() {
		s.forceEndTurn(roomID)
	})
}

// forceEndTurn resolves a stalled turn when the timer fires: it rolls if the
// roll is outstanding, discards greedily for every flagged player, parks the
// robber, and passes the turn.
func (s *RoomService) forceEndTurn(roomID string) {
	s.mu.RLock()
	room := s.rooms[roomID]
	s.mu.RUnlock()

	if room == nil || !room.Playing() {
		return
	}
	g := room.game
	actor := g.CurrentPlayerID()
	s.logger.Info("turn time limit reached", "room", roomID, "player", actor)

	for i := 0; i < 16; i++ {
		var err error
		done := false
		switch g.CurrentPhase() {
		case game.PhaseRoll:
			_, _, err = g.RollDice(actor)
		case game.PhaseDiscard:
			err = s.forceDiscards(g)
		case game.PhaseRobberPlacement:
			err = s.forceRobber(g, actor)
		case game.PhaseMain:
			err = g.EndTurn(actor)
			done = true
		case game.PhaseSpecialBuilding:
			// Each special builder gets their own timer window.
			err = g.EndTurn(s.specialBuilder(g))
			done = true
		default:
			// Initial placement cannot be forced; wait for the player.
			return
		}
		if err != nil {
			s.logger.Warn("forced turn end stalled", "room", roomID, "error", err)
			break
		}
		if done || g.CurrentPhase() == game.PhaseGameOver {
			break
		}
	}
	s.afterAction(room)
}

// forceDiscards discards the first owed cards of every flagged hand.
func (s *RoomService) forceDiscards(g *game.Game) error {
	for _, id := range g.PlayerIDs() {
		view := g.ViewFor(id)
		owed, ok := view.Turn.PendingDiscards[id]
		if !ok {
			continue
		}
		var hand game.Resources
		for _, pv := range view.Players {
			if pv.ID == id {
				hand = pv.Resources
			}
		}
		var bundle game.Resources
		left := owed
		for _, kind := range game.ResourceKinds {
			n := hand.Get(kind)
			if n > left {
				n = left
			}
			bundle.Add(kind, n)
			left -= n
		}
		if err := g.DiscardCards(id, bundle); err != nil {
			return err
		}
	}
	return nil
}

// forceRobber moves the robber to the first legal hex without stealing.
func (s *RoomService) forceRobber(g *game.Game, actor string) error {
	view := g.ViewFor(actor)
	for _, hex := range view.Board.Hexes {
		if hex.Coordinates != view.RobberHex {
			return g.MoveRobber(actor, hex.Coordinates, "")
		}
	}
	return fmt.Errorf("no hex to move the robber to")
}

func (s *RoomService) specialBuilder(g *game.Game) string {
	view := g.ViewFor("")
	if view.Turn.SpecialBuild >= 0 && view.Turn.SpecialBuild < len(view.Players) {
		return view.Players[view.Turn.SpecialBuild].ID
	}
	return g.CurrentPlayerID()
}

// RestoreRooms reloads every snapshot in the store and revives the games, so
// a restarted server keeps rooms alive. Members start disconnected. Snapshots
// are decoded in parallel; rooms are installed under the lock afterwards.
func (s *RoomService) RestoreRooms() error {
	roomIDs, err := s.store.List()
	if err != nil {
		return err
	}

	games := make([]*game.Game, len(roomIDs))
	seeds := make([]int64, len(roomIDs))
	for i := range roomIDs {
		seeds[i] = s.seeds.Int64()
	}

	var eg errgroup.Group
	eg.SetLimit(4)
	for i, roomID := range roomIDs {
		eg.Go(func() error {
			data, err := s.store.Get(roomID)
			if err != nil {
				s.logger.Warn("failed to load snapshot", "room", roomID, "error", err)
				return nil
			}
			g, err := game.Restore(data, randutil.New(seeds[i]), s.logger)
			if err != nil {
				s.logger.Warn("failed to restore game", "room", roomID, "error", err)
				return nil
			}
			games[i] = g
			return nil
		})
	}
	_ = eg.Wait()

	s.mu.Lock()
	defer s.mu.Unlock()
	for i, roomID := range roomIDs {
		g := games[i]
		if g == nil {
			continue
		}
		g.Events().Subscribe(&roomSubscriber{svc: s, roomID: roomID})

		view := g.ViewFor("")
		room := &Room{ID: roomID, Settings: view.Settings, game: g, timer: newTurnTimer(s.clock)}
		for seat, pv := range view.Players {
			g.SetConnected(pv.ID, false)
			m := RoomMember{PlayerID: pv.ID, Name: pv.Name}
			if seat == 0 {
				m.Host = true
				room.HostID = pv.ID
			}
			room.Members = append(room.Members, m)
		}
		s.rooms[roomID] = room
		s.logger.Info("room restored", "room", roomID, "players", len(room.Members))
	}
	return nil
}

// Shutdown stops every room timer.
func (s *RoomService) Shutdown() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, room := range s.rooms {
		if room.timer != nil {
			room.timer.stop()
		}
	}
}

// GetRoom returns a room by id, for tests and diagnostics.
func (s *RoomService) GetRoom(roomID string) *Room {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.rooms[roomID]
}

func (s *RoomService) broadcast(roomID string, msgType MessageType, data interface{}) {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		s.logger.Error("failed to encode message", "type", msgType, "error", err)
		return
	}
	s.sender.BroadcastToRoom(roomID, msg)
}

func (s *RoomService) broadcastRoomUpdate(room *Room) {
	s.broadcast(room.ID, MessageTypeRoomUpdate, RoomUpdateData{
		RoomID:   room.ID,
		Members:  room.Members,
		Settings: room.Settings,
		Playing:  room.Playing(),
	})
}

// pushState sends every member their own redacted view.
func (s *RoomService) pushState(room *Room, members []RoomMember) {
	for _, m := range members {
		if m.Connected || room.game.CurrentPhase() == game.PhaseGameOver {
			s.sendStateTo(room, m.PlayerID)
		}
	}
}

func (s *RoomService) sendStateTo(room *Room, playerID string) {
	msg, err := NewMessage(MessageTypeGameStateUpdate, GameStateUpdateData{
		RoomID: room.ID,
		State:  room.game.ViewFor(playerID),
	})
	if err != nil {
		s.logger.Error("failed to encode state", "room", room.ID, "error", err)
		return
	}
	_ = s.sender.SendToPlayer(playerID, msg)
}

func (s *RoomService) commitSnapshot(room *Room) {
	data, err := room.game.Snapshot()
	if err != nil {
		s.logger.Error("failed to snapshot game", "room", room.ID, "error", err)
		return
	}
	if err := s.store.Commit(room.ID, data); err != nil {
		s.logger.Warn("failed to persist snapshot", "room", room.ID, "error", err)
	}
}

// actionInvalidMessage maps a typed engine rejection onto the wire.
func actionInvalidMessage(action MessageType, err error) *Message {
	code := "invalid_action"
	var verr *game.ValidationError
	var rerr *game.ResourceError
	var nerr *game.NotFoundError
	switch {
	case errors.As(err, &rerr):
		code = "insufficient_resources"
		if rerr.Bank {
			code = "bank_insufficient"
		}
	case errors.As(err, &nerr):
		code = "not_found"
	case errors.As(err, &verr):
		code = "invalid_action"
	}
	msg, encErr := NewMessage(MessageTypeActionInvalid, ActionInvalidData{
		Action: action.String(),
		Code:   code,
		Reason: err.Error(),
	})
	if encErr != nil {
		return nil
	}
	return msg
}

// roomSubscriber forwards engine events to the room's clients. It runs
// synchronously inside engine calls, so it never calls back into the engine
// or the service lock.
type roomSubscriber struct {
	svc    *RoomService
	roomID string
}

func (r *roomSubscriber) OnEvent(event game.GameEvent) {
	svc := r.svc
	switch e := event.(type) {
	case game.DiceRolledEvent:
		svc.forward(r.roomID, messageTypeOf(e), DiceRolledData{
			PlayerID:   e.PlayerID,
			Die1:       e.Die1,
			Die2:       e.Die2,
			Total:      e.Die1 + e.Die2,
			Production: e.Production,
		})
	case game.ScarcityEvent:
		svc.forward(r.roomID, messageTypeOf(e), ScarcityData{Resource: e.Resource, Demand: e.Demand, Supply: e.Supply})
	case game.DiscardRequiredEvent:
		svc.forward(r.roomID, messageTypeOf(e), DiscardRequiredData{PlayerID: e.PlayerID, Amount: e.Amount})
	case game.DiscardConfirmedEvent:
		svc.forward(r.roomID, messageTypeOf(e), DiscardConfirmedData{PlayerID: e.PlayerID, Remaining: e.Remaining.Total()})
	case game.TurnChangedEvent:
		svc.forward(r.roomID, messageTypeOf(e), TurnChangedData{PlayerID: e.PlayerID, Phase: e.Phase, Number: e.Number})
	case game.BuildPlacedEvent:
		svc.forward(r.roomID, messageTypeOf(e), BuildPlacedData{PlayerID: e.PlayerID, Kind: e.Kind, Corner: e.Corner, Edge: e.Edge})
	case game.DevCardBoughtEvent:
		// The card type is hidden information: the room sees the purchase,
		// only the buyer learns the card.
		svc.forward(r.roomID, messageTypeOf(e), DevCardBoughtData{PlayerID: e.PlayerID, DeckLeft: e.DeckLeft})
		if msg, err := NewMessage(messageTypeOf(e), DevCardBoughtData{PlayerID: e.PlayerID, CardType: e.CardType, DeckLeft: e.DeckLeft}); err == nil {
			_ = svc.sender.SendToPlayer(e.PlayerID, msg)
		}
	case game.DevCardPlayedEvent:
		svc.forward(r.roomID, messageTypeOf(e), DevCardPlayedData{PlayerID: e.PlayerID, CardType: e.CardType})
	case game.RobberMovedEvent:
		svc.forward(r.roomID, messageTypeOf(e), RobberMovedData{
			PlayerID:  e.PlayerID,
			Hex:       e.Hex,
			StealFrom: e.StealFrom,
			Stole:     e.Stolen != nil,
			Stolen:    nil,
		})
		// Thief and victim learn which card moved.
		if e.Stolen != nil {
			private := RobberMovedData{PlayerID: e.PlayerID, Hex: e.Hex, StealFrom: e.StealFrom, Stole: true, Stolen: e.Stolen}
			if msg, err := NewMessage(messageTypeOf(e), private); err == nil {
				_ = svc.sender.SendToPlayer(e.PlayerID, msg)
				_ = svc.sender.SendToPlayer(e.StealFrom, msg)
			}
		}
	case game.TradeProposedEvent:
		// Proposals are addressed mail: only the proposer and the addressed
		// responders see them.
		if msg, err := NewMessage(messageTypeOf(e), TradeProposedData{Trade: e.Offer}); err == nil {
			_ = svc.sender.SendToPlayer(e.Offer.Proposer, msg)
			for _, id := range e.Offer.To {
				_ = svc.sender.SendToPlayer(id, msg)
			}
		}
	case game.TradeCompletedEvent:
		svc.forward(r.roomID, messageTypeOf(e), TradeCompletedData{
			TradeID:  e.TradeID,
			Proposer: e.Proposer,
			Accepter: e.Accepter,
			Maritime: e.Maritime,
			Gave:     e.Gave,
			Received: e.Received,
		})
	case game.TradeCancelledEvent:
		svc.forward(r.roomID, messageTypeOf(e), TradeCancelledData{TradeID: e.TradeID, Reason: e.Reason})
	case game.AchievementEvent:
		svc.forward(r.roomID, messageTypeOf(e), AchievementData{Kind: e.Kind, HolderID: e.HolderID, PreviousID: e.PreviousID, Value: e.Value})
	case game.ChatEvent:
		svc.forward(r.roomID, MessageTypeChatMessage, ChatBroadcastData{RoomID: r.roomID, Message: e.Message})
	case game.GameEndedEvent:
		svc.forward(r.roomID, messageTypeOf(e), GameEndedData{RoomID: r.roomID, WinnerID: e.WinnerID})
	}
}

// messageTypeOf maps an engine event to its wire message type; event
// type names double as message type names.
func messageTypeOf(e game.GameEvent) MessageType {
	return MessageType(e.EventType())
}

func (s *RoomService) forward(roomID string, msgType MessageType, data interface{}) {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		s.logger.Error("failed to encode event", "type", msgType, "error", err)
		return
	}
	s.sender.BroadcastToRoom(roomID, msg)
}
