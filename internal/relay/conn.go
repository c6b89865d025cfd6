package relay

import (
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"askychat/internal/metrics"
)

type conn struct {
	id   string
	w    websocketManager
	send chan []byte
	h    *Hub
}

func newConn(w websocketManager, h *Hub) *conn {
	return &conn{
		id:   uuid.NewString(),
		w:    w,
		send: make(chan []byte, 256),
		h:    h,
	}
}

// run registers the connection with the hub, pumps messages in both directions
// and deregisters on the way out. It returns when the peer goes away.
func (c *conn) run() {
	c.h.queue <- command{op: CONNECT, conn: c}
	defer func() { c.h.queue <- command{op: DISCONNECT, conn: c} }()
	go c.writer(pingPeriod)
	c.reader()
}

func (c *conn) reader() {
	c.w.wsSetReadLimit()
	c.w.wsSetReadDeadline()
	c.w.wsSetPongHandler()
	for {
		if err := c.readMessage(); err != nil {
			break
		}
	}
	c.w.wsClose()
}

// readMessage reads one frame and forwards it to the hub for fan-out.
func (c *conn) readMessage() error {
	_, message, err := c.w.wsReadMessage()
	if err != nil {
		return err
	}
	metrics.Incr("conn.recv", 1)
	c.h.queue <- command{op: PUBLISH, conn: c, text: message}
	return nil
}

func (c *conn) writer(pingPeriod time.Duration) {
	ticker := time.NewTicker(pingPeriod)
	defer ticker.Stop()
	for {
		select {
		case message, ok := <-c.send:
			if !ok {
				c.w.wsClose()
				return
			}
			c.w.wsSetWriteDeadline()
			if err := c.w.wsWriteMessage(websocket.TextMessage, message); err != nil {
				c.w.wsClose()
				return
			}
			metrics.Incr("conn.send", 1)
		case <-ticker.C:
			c.w.wsSetWriteDeadline()
			if err := c.w.wsWriteMessage(websocket.PingMessage, nil); err != nil {
				c.w.wsClose()
				return
			}
		}
	}
}
