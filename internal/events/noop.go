// SPDX-License-Identifier: Apache-2.0

package events

import "context"

// NoopPublisher is a Publisher that does nothing (used when NATS is not
// configured; the alert headers remain the only mutation signal).
type NoopPublisher struct{}

func (n *NoopPublisher) Publish(ctx context.Context, topic string, event any) error {
	return nil
}

func (n *NoopPublisher) Close() error {
	return nil
}
