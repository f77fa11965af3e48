// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"log/slog"

	"github.com/adiadia/meetfit/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type EventRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewEventRepository(pool *pgxpool.Pool, logger *slog.Logger) *EventRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &EventRepository{
		pool:   pool,
		logger: logger,
	}
}

func (r *EventRepository) FindAll(ctx context.Context) ([]domain.Event, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, date, location, description, updated_at
		FROM events
		ORDER BY date ASC, id ASC
	`)
	if err != nil {
		r.logger.Error("list events query failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Event, 0, 8)
	for rows.Next() {
		var ev domain.Event
		if err := rows.Scan(
			&ev.ID,
			&ev.Name,
			&ev.Date,
			&ev.Location,
			&ev.Description,
			&ev.UpdatedAt,
		); err != nil {
			r.logger.Error("scan event row failed", "error", err)
			return nil, err
		}
		out = append(out, ev)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("events rows iteration failed", "error", err)
		return nil, err
	}

	return out, nil
}

// FindByID returns pgx.ErrNoRows when no event matches.
func (r *EventRepository) FindByID(ctx context.Context, id int64) (domain.Event, error) {
	var ev domain.Event
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, date, location, description, updated_at
		FROM events
		WHERE id=$1
	`, id).Scan(&ev.ID, &ev.Name, &ev.Date, &ev.Location, &ev.Description, &ev.UpdatedAt)
	if err != nil {
		return domain.Event{}, err
	}

	return ev, nil
}

// Save updates the event and returns the stored row. Returns pgx.ErrNoRows
// when the event does not exist.
func (r *EventRepository) Save(ctx context.Context, event domain.Event) (domain.Event, error) {
	err := r.pool.QueryRow(ctx, `
		UPDATE events
		SET name=$2, date=$3, location=$4, description=$5, updated_at=NOW()
		WHERE id=$1
		RETURNING updated_at
	`,
		event.ID,
		event.Name,
		event.Date,
		event.Location,
		event.Description,
	).Scan(&event.UpdatedAt)
	if err != nil {
		r.logger.Error("update event failed", "event_id", event.ID, "error", err)
		return domain.Event{}, err
	}

	r.logger.Info("event updated", "event_id", event.ID)
	return event, nil
}
