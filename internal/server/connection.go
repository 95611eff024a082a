package server

import (
	"context"
	"encoding/json"
	"strings"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/gorilla/websocket"
)

// Connection represents a WebSocket connection to a client
type Connection struct {
	conn        *websocket.Conn
	send        chan *Message
	playerID    string
	roomID      string
	logger      *log.Logger
	ctx         context.Context
	cancel      context.CancelFunc
	mu          sync.RWMutex
	closeOnce   sync.Once
	roomService *RoomService
}

// NewConnection creates a new connection wrapper
func NewConnection(conn *websocket.Conn, logger *log.Logger, roomService *RoomService) *Connection {
	ctx, cancel := context.WithCancel(context.Background())

	return &Connection{
		conn:        conn,
		send:        make(chan *Message, 256),
		logger:      logger.WithPrefix("conn"),
		ctx:         ctx,
		cancel:      cancel,
		roomService: roomService,
	}
}

// Start begins handling the connection
func (c *Connection) Start() {
	go c.writePump()
	go c.readPump()
}

// Close closes the connection
func (c *Connection) Close() error {
	var err error
	c.closeOnce.Do(func() {
		c.cancel()
		close(c.send)
		err = c.conn.Close()
	})
	return err
}

// SendMessage sends a message to the client
func (c *Connection) SendMessage(msg *Message) error {
	defer func() {
		if r := recover(); r != nil {
			// Channel was closed, this is expected during shutdown
			c.logger.Debug("Attempted to send message on closed connection", "error", r)
		}
	}()

	select {
	case c.send <- msg:
		return nil
	case <-c.ctx.Done():
		return c.ctx.Err()
	default:
		c.logger.Warn("Connection send buffer full, closing connection")
		_ = c.Close() // Ignore close errors
		return ErrConnectionClosed
	}
}

// SetPlayer associates this connection with a player
func (c *Connection) SetPlayer(playerID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.playerID = playerID
}

// GetPlayer returns the associated player ID
func (c *Connection) GetPlayer() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.playerID
}

// SetRoom associates this connection with a room
func (c *Connection) SetRoom(roomID string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.roomID = roomID
}

// GetRoom returns the associated room ID
func (c *Connection) GetRoom() string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.roomID
}

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer
	maxMessageSize = 8192
)

var (
	ErrConnectionClosed = websocket.ErrCloseSent
)

// readPump handles incoming messages from the client
func (c *Connection) readPump() {
	defer func() { _ = c.Close() }() // Ignore close errors during cleanup

	c.conn.SetReadLimit(maxMessageSize)
	_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		_ = c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		select {
		case <-c.ctx.Done():
			return
		default:
		}

		var msg Message
		err := c.conn.ReadJSON(&msg)
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.logger.Error("WebSocket error", "error", err)
			}
			break
		}

		c.handleMessage(&msg)
	}
}

// writePump handles outgoing messages to the client
func (c *Connection) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.conn.Close() // Ignore close errors during cleanup
	}()

	for {
		select {
		case message, ok := <-c.send:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.conn.WriteJSON(message); err != nil {
				c.logger.Error("Failed to write message", "error", err)
				return
			}

		case <-ticker.C:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}

		case <-c.ctx.Done():
			return
		}
	}
}

// handleMessage processes incoming messages from the client
func (c *Connection) handleMessage(msg *Message) {
	c.logger.Debug("Received message", "type", msg.Type, "player", c.GetPlayer())

	switch msg.Type {
	case MessageTypeSetName:
		var data SetNameData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse set name data")
			return
		}
		c.handleSetName(data)

	case MessageTypeCreateRoom:
		var data CreateRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse create room data")
			return
		}
		c.handleCreateRoom(data)

	case MessageTypeJoinRoom:
		var data JoinRoomData
		if err := json.Unmarshal(msg.Data, &data); err != nil {
			c.sendError("invalid_message", "Failed to parse join room data")
			return
		}
		c.handleJoinRoom(data)

	case MessageTypeLeaveRoom:
		c.handleLeaveRoom()

	case MessageTypeListRooms:
		c.handleListRooms()

	case MessageTypeStartGame:
		c.handleStartGame()

	case MessageTypeRollDice, MessageTypeEndTurn, MessageTypeBuild,
		MessageTypeBuyDevCard, MessageTypePlayDevCard, MessageTypeMoveRobber,
		MessageTypeDiscard, MessageTypeProposeTrade, MessageTypeRespondTrade,
		MessageTypeCancelTrade, MessageTypeMaritimeTrade, MessageTypeChatMessage:
		c.handleAction(msg)

	default:
		c.sendError("unknown_message_type", "Unknown message type: "+msg.Type.String())
	}
}

// sendError sends an error message to the client
func (c *Connection) sendError(code, message string) {
	errorMsg, err := NewMessage(MessageTypeError, ErrorData{
		Code:    code,
		Message: message,
	})
	if err != nil {
		c.logger.Error("Failed to create error message", "error", err)
		return
	}

	_ = c.SendMessage(errorMsg) // Ignore send errors during error handling
}

func (c *Connection) handleSetName(data SetNameData) {
	name := strings.TrimSpace(data.Name)
	if name == "" {
		c.sendError("invalid_name", "Player name required")
		return
	}
	if len(name) > 32 {
		c.sendError("invalid_name", "Player name too long")
		return
	}

	c.SetPlayer(name)
	c.logger.Info("Player named", "name", name)

	response, _ := NewMessage(MessageTypeNameSet, NameSetData{PlayerID: name, Name: name})
	_ = c.SendMessage(response) // Ignore send errors
}

// requirePlayer returns the player id, or sends an error and returns "".
func (c *Connection) requirePlayer() string {
	playerID := c.GetPlayer()
	if playerID == "" {
		c.sendError("no_name", "Set a name first")
	}
	return playerID
}

func (c *Connection) handleCreateRoom(data CreateRoomData) {
	playerID := c.requirePlayer()
	if playerID == "" {
		return
	}
	if c.GetRoom() != "" {
		c.sendError("already_in_room", "Leave your current room first")
		return
	}

	roomID, err := c.roomService.CreateRoom(playerID, playerID, data.Settings)
	if err != nil {
		c.sendError("create_failed", err.Error())
		return
	}
	c.SetRoom(roomID)

	response, _ := NewMessage(MessageTypeRoomCreated, RoomCreatedData{RoomID: roomID, HostID: playerID})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleJoinRoom(data JoinRoomData) {
	playerID := c.requirePlayer()
	if playerID == "" {
		return
	}

	roomID := strings.ToUpper(strings.TrimSpace(data.RoomID))
	if cur := c.GetRoom(); cur != "" && cur != roomID {
		c.sendError("already_in_room", "Leave your current room first")
		return
	}
	if err := c.roomService.JoinRoom(roomID, playerID, playerID); err != nil {
		c.sendError("join_failed", err.Error())
		return
	}
	c.SetRoom(roomID)
}

func (c *Connection) handleLeaveRoom() {
	playerID := c.requirePlayer()
	if playerID == "" {
		return
	}
	roomID := c.GetRoom()
	if roomID == "" {
		c.sendError("not_in_room", "You are not in a room")
		return
	}

	if err := c.roomService.LeaveRoom(roomID, playerID); err != nil {
		c.sendError("leave_failed", err.Error())
		return
	}
	c.SetRoom("")
}

func (c *Connection) handleListRooms() {
	response, _ := NewMessage(MessageTypeRoomList, RoomListData{
		Rooms: c.roomService.ListRooms(),
	})
	_ = c.SendMessage(response) // Ignore send errors
}

func (c *Connection) handleStartGame() {
	playerID := c.requirePlayer()
	if playerID == "" {
		return
	}
	roomID := c.GetRoom()
	if roomID == "" {
		c.sendError("not_in_room", "You are not in a room")
		return
	}

	if err := c.roomService.StartGame(roomID, playerID); err != nil {
		c.sendError("start_failed", err.Error())
		return
	}
}

// handleAction forwards an in-game action to the room service. Rule
// rejections come back to this client as action_invalid messages; only
// transport problems surface here.
func (c *Connection) handleAction(msg *Message) {
	playerID := c.requirePlayer()
	if playerID == "" {
		return
	}
	roomID := c.GetRoom()
	if roomID == "" {
		c.sendError("not_in_room", "Join a room first")
		return
	}

	if err := c.roomService.DispatchAction(roomID, playerID, msg.Type, msg.Data); err != nil {
		c.sendError("action_failed", err.Error())
	}
}
