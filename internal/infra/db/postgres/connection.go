package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v4/pgxpool"

	"activation-admin/internal/domain/ports/repository"
	"activation-admin/internal/infra/metrics"
)

// NewPgxPool parses dsn, caps the pool at maxConns and verifies connectivity.
func NewPgxPool(ctx context.Context, dsn string, maxConns int32) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("parse dsn: %w", err)
	}
	if maxConns > 0 {
		cfg.MaxConns = maxConns
	}
	cfg.MaxConnIdleTime = 5 * time.Minute

	connectCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	pool, err := pgxpool.ConnectConfig(connectCtx, cfg)
	if err != nil {
		return nil, fmt.Errorf("connect: %w", err)
	}
	if err := pool.Ping(connectCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}
	return pool, nil
}

// ReportPoolStats publishes the pool gauges once. The scheduler calls it on
// every tick.
func ReportPoolStats(pool *pgxpool.Pool) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		s := pool.Stat()
		metrics.SetDBPoolStats(s.TotalConns(), s.IdleConns(), s.AcquiredConns())
		return nil
	}
}

// ReportRegistrySize publishes the total and redeemed code gauges from the
// repository counts, outside the operator-facing statistics path.
func ReportRegistrySize(codes repository.ActivationCodeRepository) func(ctx context.Context) error {
	return func(ctx context.Context) error {
		total, err := codes.Count(ctx, repository.NoTX)
		if err != nil {
			return err
		}
		used, err := codes.CountUsed(ctx, repository.NoTX)
		if err != nil {
			return err
		}
		metrics.SetRegistrySize(total, used)
		return nil
	}
}
