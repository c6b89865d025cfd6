// Package wsclient implements the client end of the transport channel over a
// dialed websocket.
package wsclient

import (
	"sync"

	"github.com/gorilla/websocket"
	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"askychat/internal/session"
)

// Channel is a persistent websocket to the relay. Writes are serialized;
// reads run on a single pump goroutine that hands each text frame to the
// subscribed handler, so handlers never run concurrently with each other.
type Channel struct {
	ws *websocket.Conn

	writeMu sync.Mutex

	mu       sync.Mutex
	handlers map[session.Event]func(string)

	done chan struct{}
}

// Dial connects to a relay at url (ws://host:port/chat) and starts the read
// pump.
func Dial(url string) (*Channel, error) {
	ws, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, errors.Wrap(err, "dial relay")
	}
	c := &Channel{
		ws:       ws,
		handlers: make(map[session.Event]func(string)),
		done:     make(chan struct{}),
	}
	go c.readPump()
	return c, nil
}

func (c *Channel) Publish(ev session.Event, payload string) error {
	if ev != session.EventChatMessage {
		return errors.Errorf("unknown event kind %d", ev)
	}
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	return c.ws.WriteMessage(websocket.TextMessage, []byte(payload))
}

// Subscribe registers handler for ev, replacing any previous registration.
func (c *Channel) Subscribe(ev session.Event, handler func(string)) {
	c.mu.Lock()
	c.handlers[ev] = handler
	c.mu.Unlock()
}

func (c *Channel) Unsubscribe(ev session.Event) {
	c.mu.Lock()
	delete(c.handlers, ev)
	c.mu.Unlock()
}

// Done is closed when the connection drops and the read pump exits. Messages
// broadcast while down are gone; there is no backfill on reconnect.
func (c *Channel) Done() <-chan struct{} {
	return c.done
}

func (c *Channel) Close() error {
	return c.ws.Close()
}

func (c *Channel) readPump() {
	defer close(c.done)
	for {
		_, message, err := c.ws.ReadMessage()
		if err != nil {
			log.Debug().Err(err).Msg("relay connection closed")
			return
		}
		c.mu.Lock()
		handler := c.handlers[session.EventChatMessage]
		c.mu.Unlock()
		if handler != nil {
			handler(string(message))
		}
	}
}
