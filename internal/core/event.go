package core

// EventKind is a notification the core emits to clients.
type EventKind int

const (
	// EventMessage notifies clients about a chat message in their channel.
	EventMessage EventKind = iota
	// EventHistory delivers persisted message history to a joining client.
	EventHistory
	// EventPresence delivers a full snapshot of online usernames.
	EventPresence
	// EventError notifies a client about a domain error.
	EventError
)

// Event is sent to clients to describe what happened in the system.
type Event struct {
	Kind     EventKind
	Channel  string
	Message  Message
	Messages []Message // for EventHistory
	Users    []string  // for EventPresence
	Error    *CoreError
}
