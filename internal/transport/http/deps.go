// SPDX-License-Identifier: Apache-2.0

package httptransport

import (
	"context"

	"github.com/adiadia/meetfit/internal/domain"
)

type ProfileStore interface {
	Save(ctx context.Context, profile domain.Profile) (domain.Profile, error)
	FindAll(ctx context.Context) ([]domain.Profile, error)
	FindByID(ctx context.Context, id int64) (domain.Profile, error)
	DeleteByID(ctx context.Context, id int64) error
}

type EventStore interface {
	FindAll(ctx context.Context) ([]domain.Event, error)
	FindByID(ctx context.Context, id int64) (domain.Event, error)
	Save(ctx context.Context, event domain.Event) (domain.Event, error)
}

// Broadcaster pushes updated entities onto the broadcast bus for listening
// views. Delivery is best effort.
type Broadcaster interface {
	Publish(ctx context.Context, topic string, event any) error
}

type HealthChecker interface {
	Check(ctx context.Context) error
}
