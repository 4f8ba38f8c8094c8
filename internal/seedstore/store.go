// Package seedstore persists the seed collection. Every store reads and
// writes the whole collection at once; ordering is creation order.
package seedstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"procurement-workers/internal/common/config"
	"procurement-workers/internal/common/database"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/common/validation"
	"procurement-workers/internal/models"
)

// ErrUnreadable marks a stored document that exists but is not a seed
// collection. Callers treat it like an empty store.
var ErrUnreadable = errors.New("stored seed collection is unreadable")

// Store reads and replaces the seed collection. Load returns an empty slice
// when nothing has been stored yet.
type Store interface {
	Name() string
	Load(ctx context.Context) ([]models.Seed, error)
	Save(ctx context.Context, seeds []models.Seed) error
}

// New builds the configured primary store, wrapped with the fallback store
// unless the fallback is disabled.
func New(cfg config.SeedsConfig, conns *database.Connections, log logger.Logger) (Store, error) {
	primary, err := build(cfg.Primary, cfg, conns)
	if err != nil {
		return nil, err
	}
	if cfg.Fallback == "" || cfg.Fallback == config.StoreNone {
		return primary, nil
	}

	fallback, err := build(cfg.Fallback, cfg, conns)
	if err != nil {
		return nil, err
	}
	return NewFallbackStore(primary, fallback, log), nil
}

func build(kind string, cfg config.SeedsConfig, conns *database.Connections) (Store, error) {
	switch kind {
	case config.StoreRedis:
		if conns == nil || conns.Redis == nil {
			return nil, fmt.Errorf("redis seed store selected but no client is connected")
		}
		return NewRedisStore(conns.Redis.Client, cfg.RedisKey), nil
	case config.StorePostgres:
		if conns == nil || conns.Postgres == nil {
			return nil, fmt.Errorf("postgres seed store selected but no client is connected")
		}
		return NewPostgresStore(conns.Postgres.DB, cfg.Table), nil
	case config.StoreFile:
		return NewFileStore(cfg.FilePath), nil
	default:
		return nil, fmt.Errorf("unknown seed store %q", kind)
	}
}

// decodeSeeds parses a stored JSON collection.
func decodeSeeds(doc []byte) ([]models.Seed, error) {
	if res := validation.ValidateSeeds(doc); !res.Valid {
		return nil, fmt.Errorf("%w: %s", ErrUnreadable, res.Summary())
	}

	var seeds []models.Seed
	if err := json.Unmarshal(doc, &seeds); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if seeds == nil {
		seeds = []models.Seed{}
	}
	return seeds, nil
}

func encodeSeeds(seeds []models.Seed) ([]byte, error) {
	if seeds == nil {
		seeds = []models.Seed{}
	}
	return json.Marshal(seeds)
}
