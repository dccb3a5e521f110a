package sqlite

import (
	"context"
	"testing"

	"github.com/chatrelay/chatrelay-server/internal/store"
)

func newTestStore(t *testing.T) *SQLiteStore {
	t.Helper()

	s, err := New(":memory:")
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func TestAppendAssignsID(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	msg := &store.Message{ChannelID: "general", FromUser: "alice", Body: "hi", TS: 1000, Kind: "user"}
	if err := s.Append(ctx, msg); err != nil {
		t.Fatalf("append: %v", err)
	}
	if msg.ID == 0 {
		t.Fatal("expected assigned id")
	}

	second := &store.Message{ChannelID: "general", FromUser: "bob", Body: "yo", TS: 2000, Kind: "user"}
	if err := s.Append(ctx, second); err != nil {
		t.Fatalf("append: %v", err)
	}
	if second.ID <= msg.ID {
		t.Fatalf("ids not monotonic: %d then %d", msg.ID, second.ID)
	}
}

func TestListByChannelAscending(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	// Insert out of timestamp order.
	for _, ts := range []int64{3000, 1000, 2000} {
		msg := &store.Message{ChannelID: "general", FromUser: "alice", Body: "m", TS: ts, Kind: "user"}
		if err := s.Append(ctx, msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	msgs, err := s.ListByChannel(ctx, "general", 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 3 {
		t.Fatalf("expected 3 messages, got %d", len(msgs))
	}
	for i, want := range []int64{1000, 2000, 3000} {
		if msgs[i].TS != want {
			t.Fatalf("out of order at %d: got %d want %d", i, msgs[i].TS, want)
		}
	}
}

func TestListByChannelUnknownChannel(t *testing.T) {
	s := newTestStore(t)

	msgs, err := s.ListByChannel(context.Background(), "ghost", 100)
	if err != nil {
		t.Fatalf("unknown channel must not error: %v", err)
	}
	if len(msgs) != 0 {
		t.Fatalf("expected empty slice, got %d", len(msgs))
	}
}

func TestListByChannelKeepsMostRecent(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	for i := int64(1); i <= 10; i++ {
		msg := &store.Message{ChannelID: "busy", FromUser: "alice", Body: "m", TS: i * 100, Kind: "user"}
		if err := s.Append(ctx, msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	msgs, err := s.ListByChannel(ctx, "busy", 4)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 4 {
		t.Fatalf("expected 4 messages, got %d", len(msgs))
	}
	// Oldest-first truncation: the most recent 4 remain, chronological.
	for i, want := range []int64{700, 800, 900, 1000} {
		if msgs[i].TS != want {
			t.Fatalf("unexpected window at %d: got %d want %d", i, msgs[i].TS, want)
		}
	}
}

func TestChannelsAreIsolated(t *testing.T) {
	s := newTestStore(t)
	ctx := context.Background()

	room := &store.Message{ChannelID: "general", FromUser: "alice", Body: "public", TS: 1, Kind: "user"}
	dm := &store.Message{ChannelID: "alice_dm_bob", FromUser: "alice", Body: "private", TS: 2, IsDM: true, Kind: "user"}
	for _, msg := range []*store.Message{room, dm} {
		if err := s.Append(ctx, msg); err != nil {
			t.Fatalf("append: %v", err)
		}
	}

	msgs, err := s.ListByChannel(ctx, "alice_dm_bob", 100)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(msgs) != 1 || msgs[0].Body != "private" || !msgs[0].IsDM {
		t.Fatalf("unexpected dm history: %+v", msgs)
	}
}
