package server

// Note: engine events (dice_rolled, turn_changed, etc.) are defined in
// internal/game/events.go and are forwarded as WebSocket messages

// MessageType represents a WebSocket message type with type safety
type MessageType string

// WebSocket message type constants
// These are used for client-server communication protocol
const (
	// Client to server messages
	MessageTypeSetName       MessageType = "set_name"
	MessageTypeCreateRoom    MessageType = "create_room"
	MessageTypeJoinRoom      MessageType = "join_room"
	MessageTypeLeaveRoom     MessageType = "leave_room"
	MessageTypeListRooms     MessageType = "list_rooms"
	MessageTypeStartGame     MessageType = "start_game"
	MessageTypeRollDice      MessageType = "roll_dice"
	MessageTypeEndTurn       MessageType = "end_turn"
	MessageTypeBuild         MessageType = "build_item"
	MessageTypeBuyDevCard    MessageType = "buy_dev_card"
	MessageTypePlayDevCard   MessageType = "play_dev_card"
	MessageTypeMoveRobber    MessageType = "move_robber"
	MessageTypeDiscard       MessageType = "discard_cards"
	MessageTypeProposeTrade  MessageType = "propose_trade"
	MessageTypeRespondTrade  MessageType = "respond_to_trade"
	MessageTypeCancelTrade   MessageType = "cancel_trade"
	MessageTypeMaritimeTrade MessageType = "maritime_trade"
	MessageTypeChatMessage   MessageType = "chat_message"

	// Server to client messages
	MessageTypeNameSet         MessageType = "name_set"
	MessageTypeRoomCreated     MessageType = "room_created"
	MessageTypeRoomUpdate      MessageType = "room_update"
	MessageTypeRoomList        MessageType = "room_list"
	MessageTypePlayerJoined    MessageType = "player_joined"
	MessageTypePlayerLeft      MessageType = "player_left"
	MessageTypeGameStarted     MessageType = "game_started"
	MessageTypeGameStateUpdate MessageType = "game_state_update"
	MessageTypeActionInvalid   MessageType = "action_invalid"
	MessageTypeError           MessageType = "error"
)

// String returns the string representation of the message type
func (mt MessageType) String() string {
	return string(mt)
}
