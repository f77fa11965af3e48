// SPDX-License-Identifier: Apache-2.0

package repository

import (
	"context"
	"log/slog"

	"github.com/adiadia/meetfit/internal/domain"
	"github.com/jackc/pgx/v5/pgxpool"
)

type ProfileRepository struct {
	pool   *pgxpool.Pool
	logger *slog.Logger
}

func NewProfileRepository(pool *pgxpool.Pool, logger *slog.Logger) *ProfileRepository {
	if logger == nil {
		logger = slog.Default()
	}

	return &ProfileRepository{
		pool:   pool,
		logger: logger,
	}
}

// Save inserts the profile when it has no ID and updates it otherwise,
// returning the stored row. On insert the database assigns the ID.
func (r *ProfileRepository) Save(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	if profile.ID == nil {
		return r.insert(ctx, profile)
	}
	return r.update(ctx, profile)
}

func (r *ProfileRepository) insert(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	var id int64
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (name, email, bio)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`,
		profile.Name,
		profile.Email,
		profile.Bio,
	).Scan(&id, &profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		r.logger.Error("insert profile failed", "error", err)
		return domain.Profile{}, err
	}

	profile.ID = &id
	r.logger.Info("profile created", "profile_id", id)
	return profile, nil
}

// update persists at the supplied ID whether or not a row exists there,
// matching save semantics of the store contract.
func (r *ProfileRepository) update(ctx context.Context, profile domain.Profile) (domain.Profile, error) {
	err := r.pool.QueryRow(ctx, `
		INSERT INTO profiles (id, name, email, bio)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE
		SET name=EXCLUDED.name, email=EXCLUDED.email, bio=EXCLUDED.bio, updated_at=NOW()
		RETURNING created_at, updated_at
	`,
		*profile.ID,
		profile.Name,
		profile.Email,
		profile.Bio,
	).Scan(&profile.CreatedAt, &profile.UpdatedAt)
	if err != nil {
		r.logger.Error("update profile failed", "profile_id", *profile.ID, "error", err)
		return domain.Profile{}, err
	}

	r.logger.Info("profile updated", "profile_id", *profile.ID)
	return profile, nil
}

func (r *ProfileRepository) FindAll(ctx context.Context) ([]domain.Profile, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT id, name, email, bio, created_at, updated_at
		FROM profiles
		ORDER BY id ASC
	`)
	if err != nil {
		r.logger.Error("list profiles query failed", "error", err)
		return nil, err
	}
	defer rows.Close()

	out := make([]domain.Profile, 0, 8)
	for rows.Next() {
		var p domain.Profile
		var id int64
		if err := rows.Scan(
			&id,
			&p.Name,
			&p.Email,
			&p.Bio,
			&p.CreatedAt,
			&p.UpdatedAt,
		); err != nil {
			r.logger.Error("scan profile row failed", "error", err)
			return nil, err
		}
		p.ID = &id
		out = append(out, p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error("profiles rows iteration failed", "error", err)
		return nil, err
	}

	return out, nil
}

// FindByID returns pgx.ErrNoRows when no profile matches.
func (r *ProfileRepository) FindByID(ctx context.Context, id int64) (domain.Profile, error) {
	var p domain.Profile
	err := r.pool.QueryRow(ctx, `
		SELECT id, name, email, bio, created_at, updated_at
		FROM profiles
		WHERE id=$1
	`, id).Scan(&id, &p.Name, &p.Email, &p.Bio, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return domain.Profile{}, err
	}

	p.ID = &id
	return p, nil
}

// DeleteByID succeeds whether or not the profile existed.
func (r *ProfileRepository) DeleteByID(ctx context.Context, id int64) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM profiles WHERE id=$1`, id)
	if err != nil {
		r.logger.Error("delete profile failed", "profile_id", id, "error", err)
		return err
	}

	r.logger.Info("profile deleted", "profile_id", id, "rows", tag.RowsAffected())
	return nil
}
