package ws

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		// Allow all origins; rely on JWT auth.
		return true
	},
}

// Serve upgrades the request and streams events for sessionID until the
// client disconnects. Authorization must already have been checked.
func Serve(hub *Hub, c *gin.Context, sessionID uint) {
	if hub == nil {
		c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "realtime not available"})
		return
	}
	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		return
	}
	cl := &client{
		hub:       hub,
		conn:      conn,
		send:      make(chan []byte, sendBufferSize),
		sessionID: sessionID,
	}
	select {
	case hub.register <- cl:
	case <-hub.done:
		conn.Close()
		return
	}

	go cl.writePump()
	cl.readPump()
}
