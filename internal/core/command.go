package core

// CommandKind describes what the client wants to do.
type CommandKind int

const (
	// CommandRegister binds the connection to a username.
	CommandRegister CommandKind = iota
	// CommandJoin switches the client's active channel and requests history.
	CommandJoin
	// CommandSend delivers a chat message to channel members.
	CommandSend
	// CommandSendDirect delivers a direct message to a single user.
	CommandSendDirect
	// CommandCalc evaluates an arithmetic expression and posts the result.
	CommandCalc
)

// Command represents an action requested by a client.
type Command struct {
	Kind     CommandKind
	Username string
	Channel  string
	To       string
	Text     string
	TS       int64
	Expr     string
}
