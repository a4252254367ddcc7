package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/jmoiron/sqlx"
)

const defaultQueryTimeout = 5 * time.Second

type txProvider interface {
	BeginTxx(ctx context.Context, opts *sql.TxOptions) (*sqlx.Tx, error)
}

// storageCall runs fn under the storage timeout and records its duration.
func storageCall(ctx context.Context, timeout time.Duration, metrics *MetricsService, operation string, fn func(ctx context.Context) error) error {
	if timeout <= 0 {
		timeout = defaultQueryTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	start := time.Now()
	err := fn(ctx)
	metrics.ObserveDBQuery(operation, time.Since(start))
	return err
}
