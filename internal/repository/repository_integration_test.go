//go:build integration

// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/adiadia/meetfit/internal/domain"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

func integrationPool(t *testing.T, ctx context.Context) *pgxpool.Pool {
	t.Helper()

	url := os.Getenv("DATABASE_URL")
	if url == "" {
		t.Skip("set DATABASE_URL to run integration tests")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		t.Skipf("skip integration test: cannot create pool (%v)", err)
	}
	return pool
}

func truncateAll(ctx context.Context, pool *pgxpool.Pool) error {
	_, err := pool.Exec(ctx, `TRUNCATE profiles, events RESTART IDENTITY`)
	return err
}

func TestProfileRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(t, ctx)
	defer pool.Close()

	if err := truncateAll(ctx, pool); err != nil {
		t.Skipf("skip integration test: database not reachable (%v)", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewProfileRepository(pool, logger)

	created, err := repo.Save(ctx, domain.Profile{Name: "alice", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("save new profile: %v", err)
	}
	if created.ID == nil {
		t.Fatal("expected assigned id after first save")
	}

	created.Bio = "runs a lot"
	updated, err := repo.Save(ctx, created)
	if err != nil {
		t.Fatalf("save existing profile: %v", err)
	}
	if updated.Bio != "runs a lot" {
		t.Fatalf("expected updated bio, got %q", updated.Bio)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 profile got %d", len(all))
	}

	got, err := repo.FindByID(ctx, *created.ID)
	if err != nil {
		t.Fatalf("find by id: %v", err)
	}
	if got.Name != "alice" {
		t.Fatalf("expected name alice got %s", got.Name)
	}

	if err := repo.DeleteByID(ctx, *created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}

	// Deleting again must not fail.
	if err := repo.DeleteByID(ctx, *created.ID); err != nil {
		t.Fatalf("delete absent: %v", err)
	}

	if _, err := repo.FindByID(ctx, *created.ID); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows after delete, got %v", err)
	}
}

func TestEventRepositoryIntegration(t *testing.T) {
	ctx := context.Background()
	pool := integrationPool(t, ctx)
	defer pool.Close()

	if err := truncateAll(ctx, pool); err != nil {
		t.Skipf("skip integration test: database not reachable (%v)", err)
	}

	var id int64
	if err := pool.QueryRow(ctx, `
		INSERT INTO events (name, date, location)
		VALUES ('weekly run', $1, 'park')
		RETURNING id
	`, time.Now().Add(24*time.Hour)).Scan(&id); err != nil {
		t.Fatalf("seed event: %v", err)
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	repo := NewEventRepository(pool, logger)

	ev, err := repo.FindByID(ctx, id)
	if err != nil {
		t.Fatalf("find event: %v", err)
	}
	if ev.Name != "weekly run" {
		t.Fatalf("expected name 'weekly run' got %s", ev.Name)
	}

	ev.Location = "stadium"
	saved, err := repo.Save(ctx, ev)
	if err != nil {
		t.Fatalf("save event: %v", err)
	}
	if saved.Location != "stadium" {
		t.Fatalf("expected updated location got %s", saved.Location)
	}

	if _, err := repo.Save(ctx, domain.Event{ID: id + 999, Name: "ghost", Date: ev.Date}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows for unknown event, got %v", err)
	}

	all, err := repo.FindAll(ctx)
	if err != nil {
		t.Fatalf("find all events: %v", err)
	}
	if len(all) != 1 {
		t.Fatalf("expected 1 event got %d", len(all))
	}
}
