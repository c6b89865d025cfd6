// Package relay implements the server side of the chat relay: a broadcast hub
// that fans every published message out to all connected websockets, including
// the sender. Messages are as ephemeral as can be: sent to whoever is connected
// and then forgotten. A client that was down during a broadcast never sees it.
package relay

import (
	"github.com/rs/zerolog/log"

	"askychat/internal/metrics"
)

type op int

const (
	CONNECT op = iota + 1
	DISCONNECT
	PUBLISH
)

type command struct {
	op   op
	conn *conn
	text []byte
}

type queue chan command

// Hub owns the registry of open connections. All registry access happens on
// the single goroutine draining the queue, so no locking is needed.
type Hub struct {
	queue queue
	conns map[string]*conn
}

func NewHub() *Hub {
	return &Hub{
		queue: make(queue, 16),
		conns: make(map[string]*conn),
	}
}

// Run drains the command queue until the queue is closed. One command runs to
// completion before the next is taken, which is what gives every connection
// the same view of the broadcast order.
func (h *Hub) Run() {
	for cmd := range h.queue {
		switch cmd.op {
		case CONNECT:
			h.connect(cmd.conn)
		case DISCONNECT:
			h.disconnect(cmd.conn)
		case PUBLISH:
			h.publish(cmd.text)
		}
	}
}

// Publish injects a message into the broadcast from outside a websocket, e.g.
// the POST handler.
func (h *Hub) Publish(text []byte) {
	h.queue <- command{op: PUBLISH, text: text}
}

func (h *Hub) connect(c *conn) {
	h.conns[c.id] = c
	metrics.Incr("websockets", 1)
	log.Info().Str("conn_id", c.id).Msg("client connected")
}

func (h *Hub) disconnect(c *conn) {
	if _, ok := h.conns[c.id]; !ok {
		return
	}
	delete(h.conns, c.id)
	close(c.send)
	metrics.Decr("websockets", 1)
	log.Info().Str("conn_id", c.id).Msg("client disconnected")
}

// publish fans text out to every registered connection, the originator
// included. A connection too slow to drain its send buffer is dropped rather
// than allowed to stall the broadcast.
func (h *Hub) publish(text []byte) {
	if len(text) == 0 {
		return
	}
	for _, c := range h.conns {
		select {
		case c.send <- text:
		default:
			h.disconnect(c)
			metrics.Incr("drops", 1)
		}
	}
}
