package session

import (
	"strings"
	"sync"

	"askychat/internal/chat"
)

// Session holds the ordered log of received messages for one client. The log
// is append-only and grows only through the round-trip receive path: a
// submitted message shows up when the hub echoes it back, not before.
type Session struct {
	identity   string
	transport  Transport
	dispatcher *Dispatcher

	mu        sync.Mutex
	messages  []string
	onMessage func(string)
}

func New(identity string, t Transport, d *Dispatcher) *Session {
	return &Session{
		identity:   chat.Identity(identity),
		transport:  t,
		dispatcher: d,
	}
}

func (s *Session) Identity() string {
	return s.identity
}

// Attach subscribes to incoming chat traffic. Call Detach before the
// transport goes away.
func (s *Session) Attach() {
	s.transport.Subscribe(EventChatMessage, s.receive)
}

func (s *Session) Detach() {
	s.transport.Unsubscribe(EventChatMessage)
}

// OnMessage registers a callback invoked after each append, for UI refresh.
func (s *Session) OnMessage(fn func(string)) {
	s.mu.Lock()
	s.onMessage = fn
	s.mu.Unlock()
}

// Messages returns a snapshot of the log.
func (s *Session) Messages() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.messages))
	copy(out, s.messages)
	return out
}

// Submit sends the draft through the dispatcher. A draft that is empty after
// trimming is silently dropped. Returns ErrBusy while a command invocation is
// outstanding.
func (s *Session) Submit(draft string) error {
	if strings.TrimSpace(draft) == "" {
		return nil
	}
	return s.dispatcher.Dispatch(s.identity, draft)
}

func (s *Session) receive(payload string) {
	s.mu.Lock()
	s.messages = append(s.messages, payload)
	fn := s.onMessage
	s.mu.Unlock()
	if fn != nil {
		fn(payload)
	}
}
