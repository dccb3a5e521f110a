package proto

import "encoding/json"

// Inbound is the envelope for messages coming from the client.
type Inbound struct {
	Type string          `json:"type"`
	Data json.RawMessage `json:"data"`
}

const (
	InboundTypeRegister   = "register"
	InboundTypeJoin       = "join"
	InboundTypeSend       = "send"
	InboundTypeSendDirect = "send_direct"
	InboundTypeCalc       = "calc"

	OutboundTypeEvent = "event"
	OutboundTypeError = "error"
)

// RegisterData binds the connection to a username.
type RegisterData struct {
	Username string `json:"username"`
}

// JoinData requests to switch to a channel and replay its history.
type JoinData struct {
	Channel string `json:"channel"`
}

// MsgBody is the message payload carried by send and send_direct.
type MsgBody struct {
	From string `json:"from,omitempty"`
	Text string `json:"text"`
	TS   int64  `json:"ts,omitempty"`
}

// SendData posts a message to a channel.
type SendData struct {
	Channel string  `json:"channel"`
	Message MsgBody `json:"message"`
}

// SendDirectData posts a direct message to a single user.
type SendDirectData struct {
	To      string  `json:"to"`
	Message MsgBody `json:"message"`
}

// CalcData requests evaluation of an arithmetic expression.
type CalcData struct {
	Expr    string `json:"expr"`
	Channel string `json:"channel"`
}

// Outbound is the envelope for messages sent to the client.
type Outbound struct {
	Type  string `json:"type"`
	Event string `json:"event,omitempty"`
	Data  any    `json:"data,omitempty"`
	Error *Error `json:"error,omitempty"`
}

// EventMessage is a chat message fanned out to clients.
type EventMessage struct {
	ID      int64  `json:"id,omitempty"`
	Channel string `json:"channel"`
	From    string `json:"from"`
	Text    string `json:"text"`
	TS      int64  `json:"ts"`
	Kind    string `json:"kind,omitempty"`
}

// EventHistory delivers a channel's persisted backlog to the joiner only.
type EventHistory struct {
	Channel  string         `json:"channel"`
	Messages []EventMessage `json:"messages"`
}

// EventPresence is a full snapshot of online usernames, broadcast to all
// connections on any change.
type EventPresence struct {
	Users []string `json:"users"`
}

// Error describes a protocol-level error response.
type Error struct {
	Code string `json:"code"`
	Msg  string `json:"msg"`
}
