package postgres

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
)

const pingTimeout = 3 * time.Second

func NewPool(ctx context.Context, databaseURL string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(databaseURL)
	if err != nil {
		return nil, err
	}

	// keep conservative defaults for now
	cfg.MaxConns = 5
	cfg.MinConns = 1
	cfg.MaxConnIdleTime = 5 * time.Minute
	cfg.MaxConnLifetime = 30 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, err
	}

	if err := Ping(ctx, pool); err != nil {
		return nil, err
	}

	return pool, nil
}

// Ping validates connectivity with a bounded timeout. Also used by the
// health endpoint.
func Ping(ctx context.Context, pool *pgxpool.Pool) error {
	ctxPing, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()

	return pool.Ping(ctxPing)
}

// PoolHealthChecker adapts a pgx pool to the transport health check port.
type PoolHealthChecker struct {
	pool *pgxpool.Pool
}

func NewPoolHealthChecker(pool *pgxpool.Pool) *PoolHealthChecker {
	return &PoolHealthChecker{pool: pool}
}

func (h *PoolHealthChecker) Check(ctx context.Context) error {
	return Ping(ctx, h.pool)
}
