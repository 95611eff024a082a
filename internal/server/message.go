package server

import (
	"encoding/json"
	"time"

	"github.com/hexhaven/hexhaven/internal/game"
)

// Message represents the base WebSocket message structure
type Message struct {
	Type      MessageType     `json:"type"`
	Data      json.RawMessage `json:"data"`
	Timestamp time.Time       `json:"timestamp"`
	RequestID string          `json:"requestId,omitempty"`
}

// NewMessage creates a new message with the current timestamp
func NewMessage(messageType MessageType, data interface{}) (*Message, error) {
	dataBytes, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}

	return &Message{
		Type:      messageType,
		Data:      dataBytes,
		Timestamp: time.Now(),
	}, nil
}

// Client → Server Messages

type SetNameData struct {
	Name string `json:"name"`
}

type CreateRoomData struct {
	Settings *game.Settings `json:"settings,omitempty"`
}

type JoinRoomData struct {
	RoomID string `json:"roomId"`
}

type LeaveRoomData struct {
	RoomID string `json:"roomId"`
}

type StartGameData struct {
	RoomID string `json:"roomId"`
}

type BuildData struct {
	Kind   game.BuildKind `json:"kind"`
	Corner *game.Corner   `json:"corner,omitempty"`
	Edge   *game.Edge     `json:"edge,omitempty"`
}

type PlayDevCardData struct {
	CardType game.DevCardType   `json:"cardType"`
	Target   game.DevCardTarget `json:"target"`
}

type MoveRobberData struct {
	Hex       game.Coord `json:"hex"`
	StealFrom string     `json:"stealFrom,omitempty"`
}

type DiscardData struct {
	Resources game.Resources `json:"resources"`
}

type ProposeTradeData struct {
	Offer   game.Resources `json:"offer"`
	Request game.Resources `json:"request"`
	To      []string       `json:"to,omitempty"`
}

type RespondTradeData struct {
	TradeID string `json:"tradeId"`
	Accept  bool   `json:"accept"`
}

type CancelTradeData struct {
	TradeID string `json:"tradeId"`
}

type MaritimeTradeData struct {
	Give    game.Resource `json:"give"`
	Amount  int           `json:"amount"`
	Receive game.Resource `json:"receive"`
}

type ChatData struct {
	Message string `json:"message"`
}

// Server → Client Messages

type NameSetData struct {
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type ErrorData struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ActionInvalidData reports a rejected game action; the state is unchanged.
type ActionInvalidData struct {
	Action string `json:"action"`
	Code   string `json:"code"`
	Reason string `json:"reason"`
}

type RoomCreatedData struct {
	RoomID string `json:"roomId"`
	HostID string `json:"hostId"`
}

type RoomMember struct {
	PlayerID  string `json:"playerId"`
	Name      string `json:"name"`
	Host      bool   `json:"host"`
	Connected bool   `json:"connected"`
}

type RoomUpdateData struct {
	RoomID   string        `json:"roomId"`
	Members  []RoomMember  `json:"members"`
	Settings game.Settings `json:"settings"`
	Playing  bool          `json:"playing"`
}

type RoomInfo struct {
	RoomID      string `json:"roomId"`
	HostName    string `json:"hostName"`
	PlayerCount int    `json:"playerCount"`
	MaxPlayers  int    `json:"maxPlayers"`
	Playing     bool   `json:"playing"`
}

type RoomListData struct {
	Rooms []RoomInfo `json:"rooms"`
}

type PlayerJoinedData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Name     string `json:"name"`
}

type PlayerLeftData struct {
	RoomID   string `json:"roomId"`
	PlayerID string `json:"playerId"`
	Reason   string `json:"reason,omitempty"`
}

type GameStartedData struct {
	RoomID   string        `json:"roomId"`
	Settings game.Settings `json:"settings"`
}

// GameStateUpdateData carries one player's redacted view of the full state.
type GameStateUpdateData struct {
	RoomID string     `json:"roomId"`
	State  *game.View `json:"state"`
}

// Event payloads forwarded from the engine.

type DiceRolledData struct {
	PlayerID   string                    `json:"playerId"`
	Die1       int                       `json:"die1"`
	Die2       int                       `json:"die2"`
	Total      int                       `json:"total"`
	Production map[string]game.Resources `json:"production,omitempty"`
}

type ScarcityData struct {
	Resource game.Resource `json:"resource"`
	Demand   int           `json:"demand"`
	Supply   int           `json:"supply"`
}

type DiscardRequiredData struct {
	PlayerID string `json:"playerId"`
	Amount   int    `json:"amount"`
}

type DiscardConfirmedData struct {
	PlayerID  string `json:"playerId"`
	Remaining int    `json:"remaining"`
}

type TurnChangedData struct {
	PlayerID string     `json:"playerId"`
	Phase    game.Phase `json:"phase"`
	Number   int        `json:"number"`
}

type BuildPlacedData struct {
	PlayerID string         `json:"playerId"`
	Kind     game.BuildKind `json:"kind"`
	Corner   *game.Corner   `json:"corner,omitempty"`
	Edge     *game.Edge     `json:"edge,omitempty"`
}

// DevCardBoughtData is broadcast without the card type; the buyer receives a
// second copy with CardType filled in.
type DevCardBoughtData struct {
	PlayerID string           `json:"playerId"`
	CardType game.DevCardType `json:"cardType,omitempty"`
	DeckLeft int              `json:"deckLeft"`
}

type DevCardPlayedData struct {
	PlayerID string           `json:"playerId"`
	CardType game.DevCardType `json:"cardType"`
}

type RobberMovedData struct {
	PlayerID  string         `json:"playerId"`
	Hex       game.Coord     `json:"hex"`
	StealFrom string         `json:"stealFrom,omitempty"`
	Stole     bool           `json:"stole"`
	Stolen    *game.Resource `json:"stolen,omitempty"`
}

type TradeProposedData struct {
	Trade game.TradeOffer `json:"trade"`
}

type TradeCompletedData struct {
	TradeID  string         `json:"tradeId,omitempty"`
	Proposer string         `json:"proposer"`
	Accepter string         `json:"accepter,omitempty"`
	Maritime bool           `json:"maritime"`
	Gave     game.Resources `json:"gave"`
	Received game.Resources `json:"received"`
}

type TradeCancelledData struct {
	TradeID string `json:"tradeId"`
	Reason  string `json:"reason"`
}

type AchievementData struct {
	Kind       game.AchievementKind `json:"kind"`
	HolderID   string               `json:"holderId,omitempty"`
	PreviousID string               `json:"previousId,omitempty"`
	Value      int                  `json:"value"`
}

type ChatBroadcastData struct {
	RoomID  string           `json:"roomId"`
	Message game.ChatMessage `json:"message"`
}

type GameEndedData struct {
	RoomID   string `json:"roomId"`
	WinnerID string `json:"winnerId"`
}
