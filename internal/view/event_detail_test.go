// SPDX-License-Identifier: Apache-2.0

package view

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/adiadia/meetfit/internal/domain"
	"github.com/adiadia/meetfit/internal/events"
	natsserver "github.com/nats-io/nats-server/v2/server"
)

// fakeSubscriber delivers payloads pushed onto ch and records teardown.
type fakeSubscriber struct {
	ch       chan []byte
	topic    string
	err      error
	canceled bool
}

func newFakeSubscriber() *fakeSubscriber {
	return &fakeSubscriber{ch: make(chan []byte, 4)}
}

func (f *fakeSubscriber) Subscribe(topic string) (<-chan []byte, func(), error) {
	if f.err != nil {
		return nil, nil, f.err
	}
	f.topic = topic
	cancel := func() {
		if f.canceled {
			return
		}
		f.canceled = true
		close(f.ch)
	}
	return f.ch, cancel, nil
}

func (f *fakeSubscriber) Close() error { return nil }

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func mustMarshal(t *testing.T, v any) []byte {
	t.Helper()
	b, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	return b
}

func waitForEventID(t *testing.T, binder *EventDetail, id int64) domain.Event {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if ev := binder.Current(); ev.ID == id {
			return ev
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for event id %d, displaying %+v", id, binder.Current())
	return domain.Event{}
}

func TestEventDetailShowsInitialBeforeBroadcast(t *testing.T) {
	sub := newFakeSubscriber()
	initial := domain.Event{ID: 1, Name: "city trail run"}

	binder, err := NewEventDetail(initial, sub, discardLogger())
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	defer binder.Close()

	if sub.topic != events.TopicEventUpdated {
		t.Fatalf("expected subscription to %s, got %s", events.TopicEventUpdated, sub.topic)
	}
	if got := binder.Current(); got.ID != 1 || got.Name != "city trail run" {
		t.Fatalf("expected initial event, got %+v", got)
	}
}

func TestEventDetailRefreshesOnBroadcast(t *testing.T) {
	sub := newFakeSubscriber()
	binder, err := NewEventDetail(domain.Event{ID: 1, Name: "old name"}, sub, discardLogger())
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	defer binder.Close()

	sub.ch <- mustMarshal(t, domain.Event{ID: 1, Name: "new name", Location: "gym"})

	got := waitForEventID(t, binder, 1)
	deadline := time.Now().Add(2 * time.Second)
	for got.Name != "new name" && time.Now().Before(deadline) {
		time.Sleep(5 * time.Millisecond)
		got = binder.Current()
	}
	if got.Name != "new name" || got.Location != "gym" {
		t.Fatalf("expected refreshed event, got %+v", got)
	}
}

func TestEventDetailSkipsMalformedPayload(t *testing.T) {
	sub := newFakeSubscriber()
	binder, err := NewEventDetail(domain.Event{ID: 1, Name: "keep me"}, sub, discardLogger())
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	defer binder.Close()

	sub.ch <- []byte("{not json")
	sub.ch <- mustMarshal(t, domain.Event{ID: 2, Name: "valid"})

	got := waitForEventID(t, binder, 2)
	if got.Name != "valid" {
		t.Fatalf("expected valid event applied after malformed skip, got %+v", got)
	}
}

func TestEventDetailCloseIsIdempotent(t *testing.T) {
	sub := newFakeSubscriber()
	binder, err := NewEventDetail(domain.Event{ID: 1}, sub, discardLogger())
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}

	binder.Close()
	binder.Close()

	if !sub.canceled {
		t.Fatal("expected subscription to be canceled on close")
	}
}

func TestEventDetailSubscribeError(t *testing.T) {
	sub := newFakeSubscriber()
	sub.err = errors.New("bus unavailable")

	if _, err := NewEventDetail(domain.Event{}, sub, discardLogger()); err == nil {
		t.Fatal("expected subscribe error to propagate")
	}
}

func TestEventDetailOverNATS(t *testing.T) {
	opts := &natsserver.Options{Host: "127.0.0.1", Port: -1}
	srv, err := natsserver.NewServer(opts)
	if err != nil {
		t.Fatalf("starting embedded NATS: %v", err)
	}
	srv.Start()
	t.Cleanup(srv.Shutdown)
	if !srv.ReadyForConnections(5 * time.Second) {
		t.Fatal("embedded NATS not ready")
	}

	sub, err := events.NewNATSSubscriber(srv.ClientURL())
	if err != nil {
		t.Fatalf("creating subscriber: %v", err)
	}
	defer sub.Close()

	pub, err := events.NewNATSPublisher(srv.ClientURL())
	if err != nil {
		t.Fatalf("creating publisher: %v", err)
	}
	defer pub.Close()

	binder, err := NewEventDetail(domain.Event{ID: 42, Name: "before"}, sub, discardLogger())
	if err != nil {
		t.Fatalf("new binder: %v", err)
	}
	defer binder.Close()

	updated := domain.Event{ID: 42, Name: "after", Location: "river park"}
	if err := pub.Publish(context.Background(), events.TopicEventUpdated, updated); err != nil {
		t.Fatalf("publishing: %v", err)
	}

	deadline := time.Now().Add(2 * time.Second)
	for binder.Current().Name != "after" && time.Now().Before(deadline) {
		time.Sleep(10 * time.Millisecond)
	}
	if got := binder.Current(); got.Name != "after" || got.Location != "river park" {
		t.Fatalf("expected broadcast to refresh binder, got %+v", got)
	}
}
