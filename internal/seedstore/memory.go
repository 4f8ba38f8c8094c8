// internal/seedstore/memory.go
package seedstore

import (
	"context"
	"sync"

	"procurement-workers/internal/models"
)

// MemoryStore holds the collection in process. LoadErr and SaveErr, when set,
// are returned instead of touching the data.
type MemoryStore struct {
	mu      sync.Mutex
	seeds   []models.Seed
	saves   int
	LoadErr error
	SaveErr error
}

func NewMemoryStore(seeds ...models.Seed) *MemoryStore {
	return &MemoryStore{seeds: cloneSeeds(seeds)}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Load(ctx context.Context) ([]models.Seed, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.LoadErr != nil {
		return nil, s.LoadErr
	}
	return cloneSeeds(s.seeds), nil
}

func (s *MemoryStore) Save(ctx context.Context, seeds []models.Seed) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.SaveErr != nil {
		return s.SaveErr
	}
	s.seeds = cloneSeeds(seeds)
	s.saves++
	return nil
}

// Saves returns how many successful writes the store has seen.
func (s *MemoryStore) Saves() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.saves
}

func cloneSeeds(seeds []models.Seed) []models.Seed {
	out := make([]models.Seed, len(seeds))
	for i, seed := range seeds {
		seed.Tags = append([]string(nil), seed.Tags...)
		out[i] = seed
	}
	return out
}
