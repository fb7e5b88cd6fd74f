package websocket

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"
)

const (
	// Time allowed to write a message to the peer
	writeWait = 10 * time.Second

	// Time allowed to read the next pong message from the peer
	pongWait = 60 * time.Second

	// Send pings to peer with this period. Must be less than pongWait
	pingPeriod = (pongWait * 9) / 10

	// Maximum message size allowed from peer; questions are capped well below this
	maxMessageSize = 16 * 1024

	// Outbound replies buffered per session
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true
	},
}

// Message is one question sent by a chat client
type Message struct {
	// Optional client-chosen id echoed back in the reply
	ID          string `json:"id,omitempty"`
	Question    string `json:"question"`
	ContextType string `json:"context_type,omitempty"`
}

// Reply wraps the answer to one Message
type Reply struct {
	ID      string      `json:"id,omitempty"`
	Payload interface{} `json:"payload"`
}

// MessageHandler answers one message. It runs on the session's read
// goroutine, so a session handles one question at a time.
type MessageHandler func(ctx context.Context, userID int64, msg *Message) interface{}

// Client is a middleman between the websocket connection and the hub
type Client struct {
	hub *Hub

	// The WebSocket connection
	conn *websocket.Conn

	// Buffered channel of outbound messages; never closed, ctx ends the writer
	send chan []byte

	// User ID of the client, 0 for anonymous sessions
	userID int64

	// ctx is cancelled when the session closes, aborting in-flight questions
	ctx    context.Context
	cancel context.CancelFunc

	handle MessageHandler
	logger zerolog.Logger
}

// readPump reads questions from the connection and queues their answers
func (c *Client) readPump() {
	defer func() {
		c.hub.Unregister(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(maxMessageSize)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error { c.conn.SetReadDeadline(time.Now().Add(pongWait)); return nil })

	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				c.logger.Warn().Err(err).Int64("userID", c.userID).Msg("Unexpected WebSocket close")
			} else {
				c.logger.Debug().Err(err).Int64("userID", c.userID).Msg("WebSocket read ended")
			}
			return
		}

		var msg Message
		if err := json.Unmarshal(data, &msg); err != nil {
			c.logger.Debug().Err(err).Int64("userID", c.userID).Msg("Failed to unmarshal chat message")
			c.reply(Reply{Payload: map[string]interface{}{"success": false, "error": "Invalid message format"}})
			continue
		}

		payload := c.handle(c.ctx, c.userID, &msg)
		if c.ctx.Err() != nil {
			return
		}
		c.reply(Reply{ID: msg.ID, Payload: payload})
	}
}

func (c *Client) reply(r Reply) {
	data, err := json.Marshal(r)
	if err != nil {
		c.logger.Error().Err(err).Msg("Failed to marshal chat reply")
		return
	}
	select {
	case c.send <- data:
	case <-c.ctx.Done():
	}
}

// writePump pumps replies to the websocket connection and keeps it alive
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case <-c.ctx.Done():
			// The session was unregistered or the hub stopped
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return
		case message := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
