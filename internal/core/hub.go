package core

import (
	"context"
	"strconv"
	"time"

	"github.com/rs/zerolog"

	"github.com/chatrelay/chatrelay-server/internal/store"
)

// DefaultHistoryLimit bounds how many persisted messages a join replays.
const DefaultHistoryLimit = 100

// Evaluator computes arithmetic expressions for calc commands. Malformed
// input is a normal error result, not a panic.
type Evaluator interface {
	Evaluate(expression string) (float64, error)
}

type inbound struct {
	client *Client
	cmd    *Command
}

// Hub coordinates presence and channel routing. A single Run goroutine owns
// all registry and channel state: every inbound event across all connections
// is processed as a discrete, non-preemptible step, so no two mutations race
// by construction. Store and evaluator calls happen inline in that loop;
// their failures never terminate a connection or the hub.
type Hub struct {
	registry     *Registry
	channels     map[string]*Channel
	clients      map[string]*Client
	store        store.MessageStore
	eval         Evaluator
	historyLimit int
	log          zerolog.Logger

	register   chan *Client
	unregister chan *Client
	inbound    chan inbound
}

// NewHub constructs a hub. Store, evaluator and logger may be nil; history
// limit zero falls back to DefaultHistoryLimit.
func NewHub(st store.MessageStore, eval Evaluator, historyLimit int, logger *zerolog.Logger) *Hub {
	if historyLimit <= 0 {
		historyLimit = DefaultHistoryLimit
	}
	log := zerolog.Nop()
	if logger != nil {
		log = *logger
	}
	return &Hub{
		registry:     NewRegistry(),
		channels:     make(map[string]*Channel),
		clients:      make(map[string]*Client),
		store:        st,
		eval:         eval,
		historyLimit: historyLimit,
		log:          log,
		register:     make(chan *Client),
		unregister:   make(chan *Client),
		inbound:      make(chan inbound),
	}
}

// RegisterClient attaches a new connection to the hub and starts forwarding
// its commands into the hub loop. It returns once the hub has recorded the
// connection, so commands queued afterwards are never seen early.
func (h *Hub) RegisterClient(c *Client) {
	h.register <- c

	go func() {
		for {
			select {
			case cmd := <-c.Commands:
				select {
				case h.inbound <- inbound{client: c, cmd: cmd}:
				case <-c.done:
					return
				}
			case <-c.done:
				return
			}
		}
	}()
}

// UnregisterClient tears down a connection: membership removal, presence
// unregister and a presence broadcast, exactly once. Calling it again, or
// for a connection that never registered a username, is a no-op.
func (h *Hub) UnregisterClient(c *Client) {
	h.unregister <- c
}

// Usernames returns the current online user snapshot in registration order.
func (h *Hub) Usernames() []string {
	return h.registry.Usernames()
}

// Run processes hub events until the context is cancelled. It must be
// called in its own goroutine, exactly once.
func (h *Hub) Run(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
			return
		case c := <-h.register:
			h.clients[c.ID] = c
		case c := <-h.unregister:
			h.dropClient(c)
		case in := <-h.inbound:
			h.dispatch(ctx, in.client, in.cmd)
		}
	}
}

func (h *Hub) dispatch(ctx context.Context, c *Client, cmd *Command) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	switch cmd.Kind {
	case CommandRegister:
		h.handleRegister(c, cmd)
	case CommandJoin:
		h.handleJoin(ctx, c, cmd)
	case CommandSend:
		h.handleSend(ctx, c, cmd)
	case CommandSendDirect:
		h.handleSendDirect(ctx, c, cmd)
	case CommandCalc:
		h.handleCalc(ctx, c, cmd)
	}
}

func (h *Hub) handleRegister(c *Client, cmd *Command) {
	if cmd.Username == "" {
		return
	}
	c.Name = cmd.Username
	h.registry.Register(c.ID, cmd.Username)
	h.log.Info().Str("client_id", c.ID).Str("user", cmd.Username).Msg("user registered")
	h.broadcastPresence()
}

func (h *Hub) handleJoin(ctx context.Context, c *Client, cmd *Command) {
	username, ok := h.registry.Username(c.ID)
	if !ok {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotRegistered, "register before joining")})
		return
	}
	if cmd.Channel == "" {
		return
	}

	// Leave the previous channel silently: joins announce, leaves do not.
	if prev, ok := h.registry.Channel(c.ID); ok && prev != cmd.Channel {
		if ch := h.channels[prev]; ch != nil {
			ch.RemoveClient(c)
			if ch.Empty() {
				delete(h.channels, prev)
			}
		}
	}

	// History goes to the joiner before its membership is recorded, so any
	// broadcast ordered before this point excluded the joiner and shows up
	// in the fetched history instead. No buffering layer is needed.
	c.send(&Event{Kind: EventHistory, Channel: cmd.Channel, Messages: h.history(ctx, cmd.Channel)})

	ch := h.channel(cmd.Channel)
	ch.AddClient(c)
	h.registry.SetChannel(c.ID, cmd.Channel)

	sys := Message{
		Channel: cmd.Channel,
		From:    SystemUser,
		Text:    username + " joined the room",
		TS:      nowMillis(),
		Kind:    KindSystem,
	}
	h.persist(ctx, &sys)
	ch.Broadcast(&Event{Kind: EventMessage, Channel: cmd.Channel, Message: sys}, c)

	h.log.Debug().Str("user", username).Str("channel", cmd.Channel).Msg("user joined channel")
}

func (h *Hub) handleSend(ctx context.Context, c *Client, cmd *Command) {
	username, ok := h.registry.Username(c.ID)
	if !ok {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotRegistered, "register before sending")})
		return
	}
	if cmd.Channel == "" {
		return
	}

	ts := cmd.TS
	if ts == 0 {
		ts = nowMillis()
	}
	msg := Message{
		Channel: cmd.Channel,
		From:    username,
		Text:    cmd.Text,
		TS:      ts,
		Kind:    KindUser,
	}
	h.persist(ctx, &msg)

	// Fan-out includes the sender: clients render their own messages from
	// the broadcast, not optimistically.
	if ch := h.channels[cmd.Channel]; ch != nil {
		ch.Broadcast(&Event{Kind: EventMessage, Channel: cmd.Channel, Message: msg}, nil)
	}
}

func (h *Hub) handleSendDirect(ctx context.Context, c *Client, cmd *Command) {
	from, ok := h.registry.Username(c.ID)
	if !ok {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotRegistered, "register before sending")})
		return
	}

	dmID, err := DMChannelID(from, cmd.To)
	if err != nil {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeBadRequest, "recipient is required")})
		return
	}

	ts := cmd.TS
	if ts == 0 {
		ts = nowMillis()
	}
	msg := Message{
		Channel: dmID,
		From:    from,
		Text:    cmd.Text,
		TS:      ts,
		Kind:    KindUser,
		DM:      true,
	}
	h.persist(ctx, &msg)

	event := &Event{Kind: EventMessage, Channel: dmID, Message: msg}

	// Offline recipients are silently dropped: no queuing, no receipt.
	if connID, ok := h.registry.Resolve(cmd.To); ok {
		if recipient := h.clients[connID]; recipient != nil {
			recipient.send(event)
		}
	}

	// The sender always sees its own DM through the same path as incoming
	// messages.
	c.send(event)
}

func (h *Hub) handleCalc(ctx context.Context, c *Client, cmd *Command) {
	username, ok := h.registry.Username(c.ID)
	if !ok {
		c.send(&Event{Kind: EventError, Error: coreError(ErrCodeNotRegistered, "register before sending")})
		return
	}
	if cmd.Channel == "" {
		return
	}

	// Evaluation failures are swallowed into the message text, never
	// surfaced as a distinct error event.
	text := "equation " + cmd.Expr + " = Error"
	if h.eval != nil {
		if result, err := h.eval.Evaluate(cmd.Expr); err == nil {
			text = "equation " + cmd.Expr + " = " + formatResult(result)
		}
	}

	msg := Message{
		Channel: cmd.Channel,
		From:    username,
		Text:    text,
		TS:      nowMillis(),
		Kind:    KindCalcResult,
	}
	h.persist(ctx, &msg)

	if ch := h.channels[cmd.Channel]; ch != nil {
		ch.Broadcast(&Event{Kind: EventMessage, Channel: cmd.Channel, Message: msg}, nil)
	}
}

func (h *Hub) dropClient(c *Client) {
	if _, ok := h.clients[c.ID]; !ok {
		return
	}
	delete(h.clients, c.ID)

	if name, ok := h.registry.Channel(c.ID); ok {
		if ch := h.channels[name]; ch != nil {
			ch.RemoveClient(c)
			if ch.Empty() {
				delete(h.channels, name)
			}
		}
	}

	username, registered := h.registry.Unregister(c.ID)
	close(c.done)

	if registered {
		h.log.Info().Str("client_id", c.ID).Str("user", username).Msg("user disconnected")
		h.broadcastPresence()
	}
}

func (h *Hub) channel(name string) *Channel {
	ch, ok := h.channels[name]
	if !ok {
		ch = NewChannel(name)
		h.channels[name] = ch
	}
	return ch
}

func (h *Hub) broadcastPresence() {
	event := &Event{Kind: EventPresence, Users: h.registry.Usernames()}
	for _, c := range h.clients {
		c.send(event)
	}
}

func (h *Hub) history(ctx context.Context, channel string) []Message {
	if h.store == nil {
		return []Message{}
	}
	records, err := h.store.ListByChannel(ctx, channel, h.historyLimit)
	if err != nil {
		h.log.Warn().Err(err).Str("channel", channel).Msg("load history")
		return []Message{}
	}
	messages := make([]Message, 0, len(records))
	for _, rec := range records {
		messages = append(messages, Message{
			ID:      rec.ID,
			Channel: rec.ChannelID,
			From:    rec.FromUser,
			Text:    rec.Body,
			TS:      rec.TS,
			Kind:    MessageKind(rec.Kind),
			DM:      rec.IsDM,
		})
	}
	return messages
}

// persist saves a message, filling in its assigned ID. A store failure is
// logged and the broadcast proceeds: delivery is prioritized over
// durability.
func (h *Hub) persist(ctx context.Context, msg *Message) {
	if h.store == nil {
		return
	}
	rec := &store.Message{
		ChannelID: msg.Channel,
		FromUser:  msg.From,
		Body:      msg.Text,
		TS:        msg.TS,
		IsDM:      msg.DM,
		Kind:      string(msg.Kind),
	}
	if err := h.store.Append(ctx, rec); err != nil {
		h.log.Warn().Err(err).Str("channel", msg.Channel).Msg("persist message")
		return
	}
	msg.ID = rec.ID
}

func formatResult(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func nowMillis() int64 {
	return time.Now().UnixMilli()
}
