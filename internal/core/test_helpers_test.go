package core

import (
	"context"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/chatrelay/chatrelay-server/internal/store"
)

func mustEvent(t *testing.T, ch <-chan *Event, kind EventKind) *Event {
	t.Helper()

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev == nil {
				continue
			}
			if ev.Kind == kind {
				return ev
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
	t.Fatalf("expected event kind %v not received", kind)
	return nil
}

func mustNoEvent(t *testing.T, ch <-chan *Event, kind EventKind) {
	t.Helper()

	deadline := time.Now().Add(150 * time.Millisecond)
	for time.Now().Before(deadline) {
		select {
		case ev := <-ch:
			if ev != nil && ev.Kind == kind {
				t.Fatalf("unexpected event of kind %v: %+v", kind, ev)
			}
		default:
			time.Sleep(10 * time.Millisecond)
		}
	}
}

// fakeStore is an in-memory store.MessageStore for hub tests.
type fakeStore struct {
	mu        sync.Mutex
	messages  []*store.Message
	appendErr error
	nextID    int64
}

func (f *fakeStore) Append(_ context.Context, msg *store.Message) error {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.appendErr != nil {
		return f.appendErr
	}
	f.nextID++
	msg.ID = f.nextID
	saved := *msg
	f.messages = append(f.messages, &saved)
	return nil
}

func (f *fakeStore) ListByChannel(_ context.Context, channelID string, limit int) ([]*store.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()

	var result []*store.Message
	for _, msg := range f.messages {
		if msg.ChannelID == channelID {
			saved := *msg
			result = append(result, &saved)
		}
	}
	sort.SliceStable(result, func(i, j int) bool { return result[i].TS < result[j].TS })
	if len(result) > limit {
		result = result[len(result)-limit:]
	}
	return result, nil
}

// stubEvaluator turns any expression into a fixed result or error.
type stubEvaluator struct {
	result float64
	err    error
}

func (s *stubEvaluator) Evaluate(string) (float64, error) {
	return s.result, s.err
}

func startHub(t *testing.T, st store.MessageStore, eval Evaluator) *Hub {
	t.Helper()

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	hub := NewHub(st, eval, 0, nil)
	go hub.Run(ctx)
	return hub
}
