package gateway

import (
	"time"

	"beamchat/backend/internal/hub"

	"github.com/gorilla/websocket"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4096
	clientBuffer   = 256
)

// writePump drains the hub client channel onto the websocket connection and
// keeps the connection alive with pings. It exits when the hub closes the
// channel (detach) or a write fails.
func (g *Gateway) writePump(conn *websocket.Conn, client hub.Client) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		conn.Close()
	}()

	for {
		select {
		case data, ok := <-client:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}
		case <-ticker.C:
			conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readLoop consumes inbound events until the connection drops, then runs the
// disconnect path exactly once.
func (g *Gateway) readLoop(conn *websocket.Conn, sess *Session) {
	defer func() {
		g.Disconnect(sess)
		conn.Close()
	}()

	conn.SetReadLimit(maxMessageSize)
	conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				g.log.Warn("gateway: read error", "user", sess.UserID, "endpoint", sess.EndpointID, "error", err)
			}
			return
		}
		g.Dispatch(sess, data)
	}
}
