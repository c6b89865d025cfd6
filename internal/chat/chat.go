// Package chat defines the wire format shared by the relay server and its
// clients. A message is an opaque display string, "<identity>: <body>"; the
// relay never parses it. The one piece of structure clients do agree on is the
// bot command prefix.
package chat

import "strings"

const (
	// BotIdentity is the sender name reserved for generated replies. Nothing
	// enforces the reservation; it is a naming convention only.
	BotIdentity = "Asky"

	// CommandPrefix marks a message body as a bot invocation. The match is
	// case-sensitive and must be the leading substring of the trimmed body.
	CommandPrefix = "Asky: "

	// AnonymousIdentity is used when a client supplies no name.
	AnonymousIdentity = "anonymous"
)

// Format builds the wire form of a message.
func Format(identity, body string) string {
	return identity + ": " + body
}

// Identity returns name unless it is empty after trimming, in which case the
// anonymous placeholder is returned.
func Identity(name string) string {
	if strings.TrimSpace(name) == "" {
		return AnonymousIdentity
	}
	return name
}

// ParseCommand reports whether body invokes the bot and, if so, returns the
// prompt: everything after the fixed-length prefix, trimmed.
func ParseCommand(body string) (prompt string, ok bool) {
	trimmed := strings.TrimSpace(body)
	if !strings.HasPrefix(trimmed, CommandPrefix) {
		return "", false
	}
	return strings.TrimSpace(trimmed[len(CommandPrefix):]), true
}
