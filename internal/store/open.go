package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/spf13/afero"
)

// Storage drivers accepted by Open.
const (
	DriverMemory   = "memory"
	DriverFile     = "file"
	DriverPostgres = "postgres"
)

// Options selects and configures a persistence adapter.
type Options struct {
	Driver      string
	DataDir     string
	DatabaseURL string
}

// Open builds the adapter named by opts.Driver. The returned close func
// releases any pool or handle and is never nil.
func Open(ctx context.Context, opts Options) (Persistence, func(), error) {
	switch opts.Driver {
	case DriverMemory:
		return NewMemoryStore(), func() {}, nil
	case DriverFile, "":
		fs, err := NewFileStore(afero.NewOsFs(), opts.DataDir)
		if err != nil {
			return nil, nil, err
		}
		return fs, func() {}, nil
	case DriverPostgres:
		pool, err := pgxpool.New(ctx, opts.DatabaseURL)
		if err != nil {
			return nil, nil, fmt.Errorf("create pool: %w", err)
		}
		if err := pool.Ping(ctx); err != nil {
			pool.Close()
			return nil, nil, fmt.Errorf("ping database: %w", err)
		}
		pg := NewPostgresStore(pool)
		if err := pg.EnsureSchema(ctx); err != nil {
			pool.Close()
			return nil, nil, err
		}
		return pg, pool.Close, nil
	default:
		return nil, nil, fmt.Errorf("unknown storage driver %q", opts.Driver)
	}
}
