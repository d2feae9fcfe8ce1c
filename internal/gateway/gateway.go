// Package gateway bridges websocket clients to room actors. Each
// connection runs the usual two pumps; all table logic stays behind the
// room's event queue.
package gateway

import (
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"pokerroom/holdem"
	"pokerroom/internal/auth"
	"pokerroom/internal/codec"
	"pokerroom/internal/lobby"
	"pokerroom/internal/table"
)

const defaultRoom = "main"

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin: func(r *http.Request) bool {
		return true // TODO: restrict origins in production
	},
}

// Connection is one websocket client.
type Connection struct {
	ID      string
	Conn    *websocket.Conn
	Send    chan []byte
	Gateway *Gateway

	// Set on join.
	PlayerID holdem.PlayerID
	Name     string
	Room     *table.Room
}

// Gateway owns all live connections and routes room broadcasts to them.
type Gateway struct {
	mu          sync.RWMutex
	connections map[string]*Connection
	playerConns map[holdem.PlayerID]*Connection
	nextConnID  uint64

	lobby *lobby.Lobby
	auth  auth.Service
}

func New(lby *lobby.Lobby, authService auth.Service) *Gateway {
	return &Gateway{
		connections: make(map[string]*Connection),
		playerConns: make(map[holdem.PlayerID]*Connection),
		lobby:       lby,
		auth:        authService,
	}
}

// BroadcastToPlayer delivers one encoded message to one player's
// connection. Rooms call this; a full send buffer drops the message
// rather than stall the actor.
func (g *Gateway) BroadcastToPlayer(id holdem.PlayerID, data []byte) {
	g.mu.RLock()
	c := g.playerConns[id]
	g.mu.RUnlock()

	if c != nil {
		select {
		case c.Send <- data:
		default:
		}
	}
}

// HandleWebSocket upgrades the request and starts the pumps.
func (g *Gateway) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[Gateway] Upgrade error: %v", err)
		return
	}

	g.mu.Lock()
	g.nextConnID++
	c := &Connection{
		ID:      fmt.Sprintf("conn_%d", g.nextConnID),
		Conn:    conn,
		Send:    make(chan []byte, 256),
		Gateway: g,
	}
	g.connections[c.ID] = c
	g.mu.Unlock()

	log.Printf("[Gateway] Client connected: %s, total: %d", c.ID, len(g.connections))

	go c.readPump()
	go c.writePump()
}

func (c *Connection) readPump() {
	defer func() {
		c.Gateway.removeConnection(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(65536)
	c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[Gateway] Read error: %v", err)
			}
			break
		}
		c.handleMessage(message)
	}
}

func (c *Connection) handleMessage(data []byte) {
	env, err := codec.DecodeClient(data)
	if err != nil {
		c.sendError("invalid message format")
		return
	}

	switch env.Type {
	case "join":
		c.handleJoin(env)
	case "leave":
		c.handleLeave()
	case "act":
		c.handleAct(env)
	default:
		log.Printf("[Gateway] Unknown message type %q from %s", env.Type, c.ID)
	}
}

// handleJoin resolves the player's identity and seats them. A valid
// session token binds the seat to the account; everyone else plays as a
// guest under a one-off id.
func (c *Connection) handleJoin(env *codec.ClientEnvelope) {
	if c.Room != nil {
		c.sendError("already at a table")
		return
	}

	name := env.Name
	var playerID holdem.PlayerID
	if accountID, username, ok := c.Gateway.auth.ResolveSession(env.Token); ok {
		playerID = holdem.PlayerID(accountID)
		if name == "" {
			name = username
		}
	} else {
		playerID = holdem.PlayerID("guest-" + uuid.NewString())
	}
	if name == "" {
		name = "anonymous"
	}

	roomName := env.Room
	if roomName == "" {
		roomName = defaultRoom
	}
	room, err := c.Gateway.lobby.Room(roomName)
	if err != nil {
		c.sendError(err.Error())
		return
	}

	c.Gateway.mu.Lock()
	if other, ok := c.Gateway.playerConns[playerID]; ok && other != c {
		c.Gateway.mu.Unlock()
		c.sendError("account already seated")
		return
	}
	c.Gateway.playerConns[playerID] = c
	c.Gateway.mu.Unlock()

	if err := room.SubmitEvent(table.Event{
		Type:     table.EventJoin,
		PlayerID: playerID,
		Name:     name,
	}); err != nil {
		c.Gateway.mu.Lock()
		delete(c.Gateway.playerConns, playerID)
		c.Gateway.mu.Unlock()
		c.sendError(err.Error())
		return
	}

	c.PlayerID = playerID
	c.Name = name
	c.Room = room

	if data, err := codec.EncodeWelcome(room.Name, playerID); err == nil {
		c.Send <- data
	}
	log.Printf("[Gateway] Player %s (%s) joined room %s", name, playerID, room.Name)
}

func (c *Connection) handleLeave() {
	if c.Room == nil {
		return
	}
	if err := c.Room.SubmitEvent(table.Event{
		Type:     table.EventLeave,
		PlayerID: c.PlayerID,
	}); err != nil {
		log.Printf("[Gateway] Leave failed for %s: %v", c.PlayerID, err)
	}

	c.Gateway.mu.Lock()
	delete(c.Gateway.playerConns, c.PlayerID)
	c.Gateway.mu.Unlock()

	c.Room = nil
	c.PlayerID = ""
}

func (c *Connection) handleAct(env *codec.ClientEnvelope) {
	if c.Room == nil {
		c.sendError("not at a table")
		return
	}
	action, ok := holdem.ParseAction(env.Action)
	if !ok {
		// Unrecognized actions are dropped, matching the engine's
		// silent-rejection contract.
		return
	}
	if err := c.Room.SubmitEvent(table.Event{
		Type:     table.EventAction,
		PlayerID: c.PlayerID,
		Action:   action,
		Amount:   env.Amount,
	}); err != nil {
		log.Printf("[Gateway] Action from %s rejected: %v", c.PlayerID, err)
	}
}

func (c *Connection) sendError(msg string) {
	data, err := codec.EncodeError(msg)
	if err != nil {
		return
	}
	select {
	case c.Send <- data:
	default:
	}
}

func (c *Connection) writePump() {
	ticker := time.NewTicker(30 * time.Second)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if !ok {
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// removeConnection unregisters the connection and stands the player up;
// a dropped socket mid-hand folds them.
func (g *Gateway) removeConnection(c *Connection) {
	if c.Room != nil {
		if err := c.Room.SubmitEvent(table.Event{
			Type:     table.EventLeave,
			PlayerID: c.PlayerID,
		}); err != nil {
			log.Printf("[Gateway] Leave on disconnect failed for %s: %v", c.PlayerID, err)
		}
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.connections, c.ID)
	if c.PlayerID != "" {
		delete(g.playerConns, c.PlayerID)
	}
	log.Printf("[Gateway] Client disconnected: %s, total: %d", c.ID, len(g.connections))
}
