package core

// MessageKind distinguishes user chat messages from server-generated ones.
type MessageKind string

const (
	// KindUser is a regular chat message typed by a user.
	KindUser MessageKind = "user"
	// KindSystem is a server-generated notice (e.g. join announcements).
	KindSystem MessageKind = "system"
	// KindCalcResult is the formatted result of an arithmetic expression.
	KindCalcResult MessageKind = "calc_result"
)

// SystemUser is the sender name attached to server-generated notices.
const SystemUser = "System"

// Message is the domain model for a chat message.
type Message struct {
	ID      int64
	Channel string
	From    string
	Text    string
	TS      int64 // unix milliseconds
	Kind    MessageKind
	DM      bool
}
