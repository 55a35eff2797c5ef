package websocket

import (
	"github.com/gofiber/websocket/v2"
	"github.com/google/uuid"
)

// ServeWs runs one connection until the peer leaves or the hub stops.
func ServeWs(hub *Hub, c *websocket.Conn, userID uuid.UUID) {
	client := &Client{Hub: hub, Conn: c, UserID: userID, Send: make(chan []byte, sendBuffer)}
	if !hub.Register(client) {
		c.Close()
		return
	}

	go client.writePump()
	client.readPump()
}
