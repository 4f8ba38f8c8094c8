// internal/seedstore/fallback.go
package seedstore

import (
	"context"
	"errors"
	"sync/atomic"

	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/common/metrics"
	"procurement-workers/internal/models"
)

// FallbackStore reads the primary store and, when it is empty or unreadable,
// promotes the fallback collection into it. Writes only go to the primary.
type FallbackStore struct {
	primary  Store
	fallback Store
	logger   logger.Logger

	// degraded is set while the last Load served the fallback because the
	// primary was unreachable.
	degraded atomic.Bool
}

func NewFallbackStore(primary, fallback Store, log logger.Logger) *FallbackStore {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &FallbackStore{primary: primary, fallback: fallback, logger: log}
}

func (s *FallbackStore) Name() string {
	return s.primary.Name() + "+" + s.fallback.Name()
}

// Degraded reports whether the last Load returned the fallback collection
// read-only. Saving that collection would overwrite the primary's content.
func (s *FallbackStore) Degraded() bool {
	return s.degraded.Load()
}

func (s *FallbackStore) Load(ctx context.Context) ([]models.Seed, error) {
	seeds, err := s.primary.Load(ctx)
	s.degraded.Store(false)
	if err == nil && len(seeds) > 0 {
		return seeds, nil
	}

	// The primary cannot be reached: serve the fallback read-only.
	if err != nil && !errors.Is(err, ErrUnreadable) {
		s.logger.Warn("Primary seed store unavailable, reading fallback", map[string]interface{}{
			"primary":  s.primary.Name(),
			"fallback": s.fallback.Name(),
			"error":    err,
		})
		fb, fbErr := s.fallback.Load(ctx)
		if fbErr != nil || len(fb) == 0 {
			return nil, err
		}
		s.degraded.Store(true)
		return fb, nil
	}

	if err != nil {
		s.logger.Warn("Primary seed collection unreadable, treating as empty", map[string]interface{}{
			"primary": s.primary.Name(),
			"error":   err,
		})
	}

	fb, err := s.fallback.Load(ctx)
	if err != nil {
		if errors.Is(err, ErrUnreadable) {
			s.logger.Warn("Fallback seed collection unreadable", map[string]interface{}{
				"fallback": s.fallback.Name(),
				"error":    err,
			})
			return []models.Seed{}, nil
		}
		return nil, err
	}
	if len(fb) == 0 {
		return []models.Seed{}, nil
	}

	if err := s.primary.Save(ctx, fb); err != nil {
		s.logger.Warn("Failed to promote fallback seeds", map[string]interface{}{
			"primary": s.primary.Name(),
			"error":   err,
		})
		return fb, nil
	}

	metrics.SeedFallbackPromotions.Inc()
	s.logger.Info("Promoted fallback seeds into primary store", map[string]interface{}{
		"primary":  s.primary.Name(),
		"fallback": s.fallback.Name(),
		"count":    len(fb),
	})
	return fb, nil
}

func (s *FallbackStore) Save(ctx context.Context, seeds []models.Seed) error {
	return s.primary.Save(ctx, seeds)
}

// EnsureSchema prepares both stores.
func (s *FallbackStore) EnsureSchema(ctx context.Context) error {
	if err := Prepare(ctx, s.primary); err != nil {
		return err
	}
	return Prepare(ctx, s.fallback)
}

type degradedReporter interface {
	Degraded() bool
}

// IsDegraded reports whether store last served a read-only copy.
func IsDegraded(store Store) bool {
	r, ok := store.(degradedReporter)
	return ok && r.Degraded()
}

type schemaOwner interface {
	EnsureSchema(ctx context.Context) error
}

// Prepare creates backing tables for stores that need them.
func Prepare(ctx context.Context, store Store) error {
	if owner, ok := store.(schemaOwner); ok {
		return owner.EnsureSchema(ctx)
	}
	return nil
}
