// SPDX-License-Identifier: Apache-2.0

// Package view binds entities to their display state and keeps them fresh
// from the broadcast bus.
package view

import (
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/adiadia/meetfit/internal/domain"
	"github.com/adiadia/meetfit/internal/events"
)

// EventDetail holds the event an event detail view displays. It is seeded
// with a caller-supplied entity and swaps it for the broadcast payload
// whenever an update arrives on the event-updated topic. Close tears the
// subscription down; the owning view must call it exactly when it is
// destroyed.
type EventDetail struct {
	logger *slog.Logger

	mu      sync.RWMutex
	current domain.Event

	cancel func()
	done   chan struct{}
}

// NewEventDetail subscribes to the event-updated topic and returns a binder
// displaying initial until the first broadcast arrives.
func NewEventDetail(initial domain.Event, sub events.Subscriber, logger *slog.Logger) (*EventDetail, error) {
	if logger == nil {
		logger = slog.Default()
	}

	ch, cancel, err := sub.Subscribe(events.TopicEventUpdated)
	if err != nil {
		return nil, err
	}

	b := &EventDetail{
		logger:  logger,
		current: initial,
		cancel:  cancel,
		done:    make(chan struct{}),
	}

	go b.consume(ch)

	return b, nil
}

func (b *EventDetail) consume(ch <-chan []byte) {
	defer close(b.done)

	for raw := range ch {
		var ev domain.Event
		if err := json.Unmarshal(raw, &ev); err != nil {
			b.logger.Debug("skipping malformed event payload", "error", err)
			continue
		}

		b.mu.Lock()
		b.current = ev
		b.mu.Unlock()

		b.logger.Debug("event detail refreshed", "event_id", ev.ID)
	}
}

// Current returns the displayed event: the initial entity before any
// broadcast, the latest broadcast payload after.
func (b *EventDetail) Current() domain.Event {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return b.current
}

// Close unsubscribes from the bus and waits for in-flight deliveries to be
// applied. Safe to call more than once.
func (b *EventDetail) Close() {
	b.cancel()
	<-b.done
}
