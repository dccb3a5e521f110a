package core

// Channel groups clients subscribed to the same room or DM pairing. It is
// the fan-out set only; the Registry owns the connection→channel mapping.
type Channel struct {
	Name    string
	clients map[*Client]struct{}
}

// NewChannel constructs a channel with no clients.
func NewChannel(name string) *Channel {
	return &Channel{
		Name:    name,
		clients: make(map[*Client]struct{}),
	}
}

// AddClient inserts a client into the channel. Returns true if newly added.
func (ch *Channel) AddClient(c *Client) bool {
	if _, exists := ch.clients[c]; exists {
		return false
	}
	ch.clients[c] = struct{}{}
	return true
}

// RemoveClient deletes a client from the channel. Returns true if removed.
func (ch *Channel) RemoveClient(c *Client) bool {
	if _, exists := ch.clients[c]; !exists {
		return false
	}
	delete(ch.clients, c)
	return true
}

// Broadcast sends an event to all clients in the channel except exclude,
// which may be nil to reach everyone.
func (ch *Channel) Broadcast(event *Event, exclude *Client) {
	for client := range ch.clients {
		if client == exclude {
			continue
		}
		client.send(event)
	}
}

// Empty returns true if no clients are in the channel.
func (ch *Channel) Empty() bool {
	return len(ch.clients) == 0
}
