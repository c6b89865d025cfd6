package session

import (
	"context"
	"sync"

	"github.com/pkg/errors"
	"github.com/rs/zerolog/log"

	"askychat/internal/chat"
	"askychat/internal/metrics"
)

// Fallback is published under the bot identity when the completion call
// settles with an error. The substitution happens here, not in the adapter,
// so the failure path stays visible.
const Fallback = "Sorry, I could not come up with an answer."

// ErrBusy is returned while a command invocation is outstanding. The session
// is single-flight: one completion call at a time.
var ErrBusy = errors.New("command invocation outstanding")

// Completer is the completion service boundary. One attempt, no retry; any
// failure surfaces as an error and the dispatcher substitutes the fallback.
type Completer interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// Dispatcher inspects outgoing messages for the command prefix. Two states:
// idle, and awaiting a completion. The user's own message always goes out
// first, command or not; the bot reply follows once the call settles.
type Dispatcher struct {
	transport Transport
	completer Completer

	mu       sync.Mutex
	busy     bool
	onSettle func()
}

func NewDispatcher(t Transport, c Completer) *Dispatcher {
	return &Dispatcher{transport: t, completer: c}
}

// Busy reports whether a completion call is outstanding.
func (d *Dispatcher) Busy() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.busy
}

// OnSettle registers a callback invoked after a command invocation finishes
// and submission is possible again.
func (d *Dispatcher) OnSettle(fn func()) {
	d.mu.Lock()
	d.onSettle = fn
	d.mu.Unlock()
}

// Dispatch publishes body under identity and, when body carries the command
// prefix, kicks off the completion call. Returns ErrBusy while a previous
// invocation has not settled; nothing is published in that case.
func (d *Dispatcher) Dispatch(identity, body string) error {
	prompt, isCommand := chat.ParseCommand(body)

	d.mu.Lock()
	if d.busy {
		d.mu.Unlock()
		return ErrBusy
	}
	if isCommand {
		d.busy = true
	}
	d.mu.Unlock()

	// Transport failures are best-effort territory: the message is lost and
	// nobody is told. The completion call still runs.
	if err := d.transport.Publish(EventChatMessage, chat.Format(identity, body)); err != nil {
		log.Debug().Err(err).Msg("publish failed")
	}
	if !isCommand {
		return nil
	}

	go d.await(prompt)
	return nil
}

// await runs the completion call to settlement and publishes exactly one bot
// message. Nothing cancels it; if the client vanished meanwhile the publish
// fails quietly.
func (d *Dispatcher) await(prompt string) {
	reply, err := d.completer.Complete(context.Background(), prompt)
	if err != nil {
		log.Debug().Err(err).Msg("completion failed, substituting fallback")
		metrics.Incr("completion.errors", 1)
		reply = Fallback
	} else {
		metrics.Incr("completions", 1)
	}

	if err := d.transport.Publish(EventChatMessage, chat.Format(chat.BotIdentity, reply)); err != nil {
		log.Debug().Err(err).Msg("bot reply publish failed")
	}

	d.mu.Lock()
	d.busy = false
	fn := d.onSettle
	d.mu.Unlock()
	if fn != nil {
		fn()
	}
}
