package ws

import (
	"encoding/json"
	"log"
	"net/http"
	"time"

	"quiz_webapp/internal/flow"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

// Serve upgrades the request and streams the events of ctrl to it until the
// client disconnects or the flow is closed. The current state is sent first.
func (h *Hub) Serve(c *gin.Context, userID int64, ctrl *flow.Controller, allowedOrigin string) {
	select {
	case <-ctrl.Done():
		c.JSON(http.StatusNotFound, gin.H{"error": "flow not found"})
		return
	default:
	}

	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if allowedOrigin == "" {
				return true
			}
			return r.Header.Get("Origin") == allowedOrigin
		},
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Println("ws upgrade error:", err)
		return
	}

	client := NewClient(userID, ctrl.ID(), conn)
	h.register(ctrl.ID(), client)

	unsubscribe := ctrl.Subscribe(func(s flow.State) {
		msg, err := json.Marshal(Event{Type: MsgState, State: &s})
		if err != nil {
			return
		}
		client.enqueue(msg)
	})

	done := make(chan struct{})
	go client.writePump(done)

	// закрытый флоу больше не шлёт событий, отпускаем сокет
	go func() {
		select {
		case <-ctrl.Done():
			msg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "flow closed")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(writeWait))
			conn.Close()
		case <-done:
		}
	}()

	client.readPump()

	unsubscribe()
	h.unregister(ctrl.ID(), client)
	close(done)
}
