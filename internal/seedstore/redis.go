// internal/seedstore/redis.go
package seedstore

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"

	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/models"
)

// RedisStore keeps the collection as one JSON document under a single key.
type RedisStore struct {
	client *redis.Client
	key    string
}

func NewRedisStore(client *redis.Client, key string) *RedisStore {
	return &RedisStore{client: client, key: key}
}

func (s *RedisStore) Name() string { return "redis:" + s.key }

func (s *RedisStore) Load(ctx context.Context) ([]models.Seed, error) {
	doc, err := s.client.Get(ctx, s.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return []models.Seed{}, nil
	}
	if err != nil {
		return nil, apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	return decodeSeeds(doc)
}

func (s *RedisStore) Save(ctx context.Context, seeds []models.Seed) error {
	doc, err := encodeSeeds(seeds)
	if err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	if err := s.client.Set(ctx, s.key, string(doc), 0).Err(); err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	return nil
}
