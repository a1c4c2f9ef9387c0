package websocket

import (
	"encoding/json"
	"log"
	"sync"

	"connectfour/internal/bot"
	"connectfour/internal/game"
	"connectfour/internal/session"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
)

type Client struct {
	ID       string
	Hub      *Hub
	Conn     *websocket.Conn
	Send     chan []byte
	Username string
	GameID   string
}

// Hub tracks connected clients. Every client plays its own game against the
// bot; the game is dropped when the client disconnects.
type Hub struct {
	clients    map[*Client]bool
	register   chan *Client
	unregister chan *Client
	mu         sync.RWMutex
	games      *session.Manager
}

type Message struct {
	Type     string      `json:"type"`
	Data     interface{} `json:"data,omitempty"`
	Username string      `json:"username,omitempty"`
	Column   *int        `json:"column,omitempty"`
	GameID   string      `json:"gameId,omitempty"`
}

func NewHub(games *session.Manager) *Hub {
	return &Hub{
		register:   make(chan *Client),
		unregister: make(chan *Client),
		clients:    make(map[*Client]bool),
		games:      games,
	}
}

func (h *Hub) Run() {
	for {
		select {
		case client := <-h.register:
			h.mu.Lock()
			h.clients[client] = true
			h.mu.Unlock()
			log.Printf("Client registered: %s", client.ID)

		case client := <-h.unregister:
			h.mu.Lock()
			if _, ok := h.clients[client]; ok {
				delete(h.clients, client)
				close(client.Send)
				if client.GameID != "" {
					h.games.Remove(client.GameID)
				}
				log.Printf("Client unregistered: %s", client.ID)
			}
			h.mu.Unlock()
		}
	}
}

func (h *Hub) ClientCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients)
}

func (h *Hub) HandleJoin(client *Client, username string) {
	if username == "" {
		h.sendError(client, "username is required")
		return
	}
	if client.GameID != "" {
		h.games.Remove(client.GameID)
	}
	client.Username = username

	s, turn, err := h.games.Create(username)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	client.GameID = s.ID

	h.send(client, Message{
		Type:   "game_start",
		GameID: s.ID,
		Data: map[string]interface{}{
			"gameId":         s.ID,
			"player1":        username,
			"player2":        bot.BotUsername,
			"you":            session.Human,
			"startingPlayer": turn.Game.Starting,
			"yourTurn":       turn.Game.Starting == session.Human,
		},
	})
	h.sendTurn(client, turn)
}

func (h *Hub) HandleMove(client *Client, column int) {
	if client.GameID == "" {
		h.sendError(client, "No active game found")
		return
	}

	turn, err := h.games.Play(client.GameID, column)
	if err != nil {
		h.sendError(client, err.Error())
		return
	}
	h.sendTurn(client, turn)
}

func (h *Hub) sendTurn(client *Client, turn session.Turn) {
	if turn.Human != nil {
		h.sendMove(client, turn.Human, nil)
	}
	if turn.AI != nil {
		h.sendMove(client, turn.AI, turn.Decision)
	}
	if turn.Game.Outcome.IsTerminal() {
		h.send(client, Message{
			Type:   "game_over",
			GameID: turn.Game.ID,
			Data: map[string]interface{}{
				"winner":  turn.Game.Winner,
				"outcome": turn.Game.Outcome,
			},
		})
	}
}

func (h *Hub) sendMove(client *Client, move *game.Move, decision *bot.Decision) {
	data := map[string]interface{}{
		"row":    move.Row,
		"column": move.Column,
		"player": move.Player,
	}
	if decision != nil {
		data["tallies"] = decision.Tallies
	}
	h.send(client, Message{Type: "move", GameID: client.GameID, Data: data})
}

func (h *Hub) send(client *Client, msg Message) {
	responseBytes, err := json.Marshal(msg)
	if err != nil {
		log.Printf("Error marshaling message: %v", err)
		return
	}
	select {
	case client.Send <- responseBytes:
	default:
		log.Printf("Dropping message for slow client %s", client.ID)
	}
}

func (h *Hub) sendError(client *Client, message string) {
	h.send(client, Message{
		Type: "error",
		Data: map[string]string{"error": message},
	})
}

func (c *Client) ReadPump() {
	defer func() {
		c.Hub.unregister <- c
		c.Conn.Close()
	}()

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			break
		}

		var msg Message
		if err := json.Unmarshal(message, &msg); err != nil {
			log.Printf("Error unmarshaling message: %v", err)
			continue
		}

		switch msg.Type {
		case "join":
			c.Hub.HandleJoin(c, msg.Username)
		case "move":
			if msg.Column == nil {
				c.Hub.sendError(c, "column is required")
				continue
			}
			c.Hub.HandleMove(c, *msg.Column)
		default:
			c.Hub.sendError(c, "unknown message type "+msg.Type)
		}
	}
}

func (c *Client) WritePump() {
	defer c.Conn.Close()

	for message := range c.Send {
		err := c.Conn.WriteMessage(websocket.TextMessage, message)
		if err != nil {
			break
		}
	}
}

func ServeWS(hub *Hub, conn *websocket.Conn) {
	client := &Client{
		ID:   uuid.New().String(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
	}

	hub.register <- client

	go client.WritePump()
	go client.ReadPump()
}
