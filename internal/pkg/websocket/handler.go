package websocket

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Handler upgrades HTTP requests into chat sessions
type Handler struct {
	hub    *Hub
	handle MessageHandler
	logger zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(hub *Hub, handle MessageHandler, logger zerolog.Logger) *Handler {
	return &Handler{
		hub:    hub,
		handle: handle,
		logger: logger,
	}
}

// Serve upgrades the connection and starts the session pumps. userID is 0
// for anonymous sessions.
func (h *Handler) Serve(c *gin.Context, userID int64) {
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// Upgrade has already written an HTTP error response
		h.logger.Warn().Err(err).Int64("userID", userID).Msg("Failed to upgrade connection to WebSocket")
		return
	}

	ctx, cancel := context.WithCancel(context.Background())
	client := &Client{
		hub:    h.hub,
		conn:   conn,
		send:   make(chan []byte, sendBuffer),
		userID: userID,
		ctx:    ctx,
		cancel: cancel,
		handle: h.handle,
		logger: h.logger,
	}
	if !h.hub.Register(client) {
		cancel()
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()
}
