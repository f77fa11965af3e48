// SPDX-License-Identifier: Apache-2.0

// Package events is the broadcast bus: named topics carrying JSON payloads,
// delivered to every registered subscriber.
package events

import "context"

// Topic constants. TopicEventUpdated carries the full updated event entity
// and is what detail views subscribe to.
const (
	TopicEventUpdated = "meetfit.event.updated"

	TopicProfileCreated = "meetfit.profile.created"
	TopicProfileUpdated = "meetfit.profile.updated"
	TopicProfileDeleted = "meetfit.profile.deleted"
)

// Publisher pushes events onto the bus.
type Publisher interface {
	// Publish JSON-encodes event and broadcasts it under topic.
	Publish(ctx context.Context, topic string, event any) error
	Close() error
}

// Subscriber receives events from the bus.
type Subscriber interface {
	// Subscribe delivers raw event payloads on the returned channel.
	// Call the returned cancel function to unsubscribe and close the channel.
	Subscribe(topic string) (<-chan []byte, func(), error)
	Close() error
}
