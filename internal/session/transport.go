// Package session holds the client side of the relay: the per-client message
// log and the command dispatcher that turns "Asky: ..." messages into bot
// replies.
package session

// Event enumerates the kinds of traffic a transport channel carries. Chat is
// the only kind; the enum exists so payload shapes cannot drift behind a
// stringly-typed event name.
type Event int

const EventChatMessage Event = iota + 1

// Transport is a persistent bidirectional channel to the relay. Publish is
// fire-and-forget: an error means the local write failed, never that delivery
// was refused. Subscribe replaces any handler already registered for the
// event, so re-attaching a session cannot double-register.
type Transport interface {
	Publish(ev Event, payload string) error
	Subscribe(ev Event, handler func(payload string))
	Unsubscribe(ev Event)
}
