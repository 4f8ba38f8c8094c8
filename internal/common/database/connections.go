// internal/common/database/connections.go
package database

import (
	"context"
	"time"

	"procurement-workers/internal/common/config"
	apperrors "procurement-workers/internal/common/errors"
)

const pingTimeout = 5 * time.Second

// Connections holds the backends a process opened. Unused ones stay nil.
type Connections struct {
	Redis         *RedisClient
	Postgres      *PostgresClient
	Elasticsearch *ElasticsearchClient
}

// Open connects only to the backends named by the seed stores and the record
// source, pinging each before returning.
func Open(ctx context.Context, cfg *config.Config) (*Connections, error) {
	conns := &Connections{}

	if usesStore(cfg, config.StoreRedis) {
		conns.Redis = NewRedis(cfg.Database.Redis)
		if err := ping(ctx, conns.Redis.Ping); err != nil {
			conns.Close()
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
	}

	if usesStore(cfg, config.StorePostgres) {
		pg, err := NewPostgres(cfg.Database.Postgres)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Postgres = pg
		if err := ping(ctx, pg.Ping); err != nil {
			conns.Close()
			return nil, apperrors.NewDatabaseConnectionFailedError(err)
		}
	}

	if cfg.Records.Source == config.SourceElasticsearch {
		es, err := NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			conns.Close()
			return nil, err
		}
		conns.Elasticsearch = es
		if err := ping(ctx, es.Ping); err != nil {
			conns.Close()
			return nil, apperrors.NewElasticsearchConnectionFailedError(err)
		}
	}

	return conns, nil
}

// Close releases every opened backend.
func (c *Connections) Close() {
	if c.Redis != nil {
		_ = c.Redis.Close()
	}
	if c.Postgres != nil {
		_ = c.Postgres.Close()
	}
}

func usesStore(cfg *config.Config, store string) bool {
	return cfg.Seeds.Primary == store || cfg.Seeds.Fallback == store
}

func ping(ctx context.Context, fn func(context.Context) error) error {
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return fn(ctx)
}
