// Package catalog owns the in-memory procedure and seed snapshots that the
// workers and the CLI query. Readers never block each other; seed writes are
// serialized and only become visible after the store accepted them.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"golang.org/x/sync/errgroup"

	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/common/metrics"
	"procurement-workers/internal/common/observability"
	"procurement-workers/internal/datasource"
	"procurement-workers/internal/models"
	"procurement-workers/internal/procurement"
	"procurement-workers/internal/seedstore"
)

// Options tune a Catalog. The zero value is usable.
type Options struct {
	CodeAttempts  int
	Observability *observability.Observability
	Now           func() time.Time
}

// Stats describes the current snapshots.
type Stats struct {
	Records         int       `json:"records"`
	Seeds           int       `json:"seeds"`
	RecordsLoadedAt time.Time `json:"recordsLoadedAt"`
	RecordsLoaded   bool      `json:"recordsLoaded"`
	SeedsLoaded     bool      `json:"seedsLoaded"`
	SeedsReadOnly   bool      `json:"seedsReadOnly"`
}

type Catalog struct {
	source datasource.Source
	store  seedstore.Store
	obs    *observability.Observability
	logger logger.Logger

	codeAttempts int
	now          func() time.Time

	mu              sync.RWMutex
	procedures      []models.Procedure
	seeds           []models.Seed
	recordsLoadedAt time.Time
	recordsLoaded   bool
	seedsLoaded     bool
	// seedsReadOnly marks a collection served from the fallback while the
	// primary store is unreachable. It is never written back.
	seedsReadOnly bool

	// writeMu serializes every seed read-modify-write against the store.
	writeMu sync.Mutex
}

func New(source datasource.Source, store seedstore.Store, log logger.Logger, opts Options) *Catalog {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &Catalog{
		source:       source,
		store:        store,
		obs:          opts.Observability,
		logger:       log,
		codeAttempts: opts.CodeAttempts,
		now:          opts.Now,
	}
}

// Load reads records and seeds concurrently. A failing half keeps its
// previous snapshot; the other half is still applied.
func (c *Catalog) Load(ctx context.Context) error {
	var g errgroup.Group

	g.Go(func() error { return c.RefreshRecords(ctx) })
	g.Go(func() error { return c.reloadSeeds(ctx) })

	return g.Wait()
}

// Refresh reloads the records, and the seeds as well while they have never
// been loaded from the primary store.
func (c *Catalog) Refresh(ctx context.Context) error {
	if !c.seedsWritable() {
		return c.Load(ctx)
	}
	return c.RefreshRecords(ctx)
}

// RefreshRecords replaces the procedure snapshot. On failure the previous
// snapshot stays in place and a SOURCE_* error is returned.
func (c *Catalog) RefreshRecords(ctx context.Context) error {
	start := time.Now()

	procedures, err := c.source.Load(ctx)
	if err != nil {
		metrics.SnapshotRefreshes.WithLabelValues("failure").Inc()
		if _, ok := apperrors.AsStandardError(err); !ok {
			err = apperrors.NewSourceUnavailableError(c.source.Name(), err)
		}
		c.logger.Error("Failed to load procedures", map[string]interface{}{
			"source": c.source.Name(),
			"error":  err,
		})
		return err
	}

	c.mu.Lock()
	c.procedures = procedures
	c.recordsLoadedAt = c.now().UTC()
	c.recordsLoaded = true
	c.mu.Unlock()

	metrics.SnapshotRefreshes.WithLabelValues("success").Inc()
	metrics.CatalogRecords.Set(float64(len(procedures)))
	c.logger.Info("Procedure snapshot loaded", map[string]interface{}{
		"source":   c.source.Name(),
		"records":  len(procedures),
		"duration": time.Since(start).String(),
	})
	return nil
}

func (c *Catalog) reloadSeeds(ctx context.Context) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	return c.loadSeedsLocked(ctx)
}

// loadSeedsLocked reads the store into the snapshot. The caller holds writeMu.
func (c *Catalog) loadSeedsLocked(ctx context.Context) error {
	seeds, err := c.store.Load(ctx)
	if errors.Is(err, seedstore.ErrUnreadable) {
		c.logger.Warn("Seed collection unreadable, starting empty", map[string]interface{}{
			"store": c.store.Name(),
			"error": err,
		})
		seeds, err = []models.Seed{}, nil
	}
	if err != nil {
		if _, ok := apperrors.AsStandardError(err); !ok {
			err = apperrors.NewSeedStoreUnavailableError(c.store.Name(), err)
		}
		c.logger.Error("Failed to load seeds", map[string]interface{}{
			"store": c.store.Name(),
			"error": err,
		})
		return err
	}

	readOnly := seedstore.IsDegraded(c.store)
	c.setSeeds(seeds, readOnly)
	c.logger.Info("Seed collection loaded", map[string]interface{}{
		"store":    c.store.Name(),
		"seeds":    len(seeds),
		"readOnly": readOnly,
	})
	return nil
}

func (c *Catalog) setSeeds(seeds []models.Seed, readOnly bool) {
	c.mu.Lock()
	c.seeds = seeds
	c.seedsLoaded = true
	c.seedsReadOnly = readOnly
	c.mu.Unlock()

	metrics.CatalogSeeds.Set(float64(len(seeds)))
}

// Ready reports whether both snapshots have been loaded at least once.
func (c *Catalog) Ready() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.recordsLoaded && c.seedsLoaded
}

func (c *Catalog) Stats() Stats {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return Stats{
		Records:         len(c.procedures),
		Seeds:           len(c.seeds),
		RecordsLoadedAt: c.recordsLoadedAt,
		RecordsLoaded:   c.recordsLoaded,
		SeedsLoaded:     c.seedsLoaded,
		SeedsReadOnly:   c.seedsReadOnly,
	}
}

// seedsWritable reports whether the seed snapshot mirrors the primary store,
// which is the only state a new collection may be derived from.
func (c *Catalog) seedsWritable() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.seedsLoaded && !c.seedsReadOnly
}

func (c *Catalog) seedsUnavailable() *apperrors.StandardError {
	return apperrors.NewSeedStoreUnavailableError(c.store.Name(), errors.New("seed collection not loaded"))
}

// snapshot returns the current slices. Both are treated as immutable: a
// reload or a seed write installs new slices instead of editing these.
func (c *Catalog) snapshot() ([]models.Procedure, []models.Seed, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.procedures, c.seeds, c.recordsLoaded
}

// Query runs the pipeline over the current snapshot.
func (c *Catalog) Query(ctx context.Context, state procurement.QueryState) (*procurement.Result, error) {
	ctx, span := observability.Tracer().Start(ctx, "catalog.Query")
	defer span.End()
	span.SetAttributes(
		attribute.String("query.sort_column", string(state.Column)),
		attribute.String("query.sort_direction", string(state.Direction)),
		attribute.Bool("query.seeded", state.SeedCode != ""),
	)

	procedures, seeds, loaded := c.snapshot()
	if !loaded {
		err := apperrors.NewSourceUnavailableError(c.source.Name(), errors.New("procedure snapshot not loaded"))
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}
	if procurement.NormalizeSeedCode(state.SeedCode) != "" && !c.Stats().SeedsLoaded {
		err := c.seedsUnavailable()
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Message)
		return nil, err
	}

	start := time.Now()
	res, err := procurement.RunQuery(procedures, seeds, state)
	if err != nil {
		stdErr := queryError(err, state)
		span.RecordError(stdErr)
		span.SetStatus(codes.Error, stdErr.Message)
		return nil, stdErr
	}
	elapsed := time.Since(start)

	column := string(res.AppliedColumn)
	if column == "" {
		column = "none"
	}
	metrics.QueryRuns.WithLabelValues(column, strconv.FormatBool(res.AppliedSeed != nil)).Inc()
	metrics.QueryResultSize.Observe(float64(len(res.Procedures)))
	c.obs.RecordQuery(ctx, column, elapsed)

	span.SetAttributes(attribute.Int("query.results", len(res.Procedures)))
	c.logger.Debug("Query pipeline completed", map[string]interface{}{
		"input":       res.Total,
		"afterSearch": res.AfterSearch,
		"afterSeed":   res.AfterSeed,
		"output":      len(res.Procedures),
		"sortColumn":  column,
		"duration":    elapsed.String(),
	})
	return res, nil
}

func queryError(err error, state procurement.QueryState) *apperrors.StandardError {
	switch {
	case errors.Is(err, procurement.ErrSeedNotFound):
		return apperrors.NewSeedNotFoundError(procurement.NormalizeSeedCode(state.SeedCode))
	case errors.Is(err, procurement.ErrEmptySeedCode):
		return apperrors.NewEmptySeedCodeError()
	default:
		return apperrors.NewInternalError(err)
	}
}

// CreateSeed builds a seed with a fresh code, persists the whole collection
// and only then publishes it to readers.
func (c *Catalog) CreateSeed(ctx context.Context, tags []string, district string) (models.Seed, error) {
	ctx, span := observability.Tracer().Start(ctx, "catalog.CreateSeed")
	defer span.End()

	c.writeMu.Lock()
	defer c.writeMu.Unlock()

	if !c.seedsWritable() {
		if err := c.loadSeedsLocked(ctx); err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, "seed store read failed")
			return models.Seed{}, err
		}
		if !c.seedsWritable() {
			err := apperrors.NewSeedStoreUnavailableError(c.store.Name(),
				errors.New("primary seed store unreachable, collection is read-only"))
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Message)
			return models.Seed{}, err
		}
	}

	_, current, _ := c.snapshot()

	seed, err := procurement.NewSeedWithAttempts(tags, district, c.now(), current, c.codeAttempts)
	if err != nil {
		stdErr := seedError(err, c.codeAttempts)
		span.RecordError(stdErr)
		span.SetStatus(codes.Error, stdErr.Message)
		return models.Seed{}, stdErr
	}

	next := make([]models.Seed, 0, len(current)+1)
	next = append(next, current...)
	next = append(next, seed)

	if err := c.store.Save(ctx, next); err != nil {
		if _, ok := apperrors.AsStandardError(err); !ok {
			err = apperrors.NewSeedStoreUnavailableError(c.store.Name(), err)
		}
		span.RecordError(err)
		span.SetStatus(codes.Error, "seed store write failed")
		return models.Seed{}, err
	}

	c.setSeeds(next, false)
	metrics.SeedsCreated.Inc()
	span.SetAttributes(attribute.String("seed.code", seed.Code))
	c.logger.Info("Seed created", map[string]interface{}{
		"code":     seed.Code,
		"tags":     seed.Tags,
		"district": seed.District,
		"store":    c.store.Name(),
	})
	return seed, nil
}

func seedError(err error, attempts int) *apperrors.StandardError {
	switch {
	case errors.Is(err, procurement.ErrEmptyTags):
		return apperrors.NewEmptySeedTagsError()
	case errors.Is(err, procurement.ErrCodeSpaceExhaust):
		if attempts <= 0 {
			attempts = procurement.MaxCodeAttempts
		}
		return apperrors.NewSeedCodeExhaustedError(attempts)
	default:
		return apperrors.NewInternalError(fmt.Errorf("generate seed code: %w", err))
	}
}

// LookupSeed is FindSeed for callers that must tell an unknown code apart
// from a seed collection that has not been loaded yet.
func (c *Catalog) LookupSeed(code string) (models.Seed, bool, error) {
	if !c.Stats().SeedsLoaded {
		return models.Seed{}, false, c.seedsUnavailable()
	}
	seed, ok := c.FindSeed(code)
	return seed, ok, nil
}

// FindSeed resolves a code against the current seed snapshot.
func (c *Catalog) FindSeed(code string) (models.Seed, bool) {
	_, seeds, _ := c.snapshot()
	seed, ok := procurement.FindSeed(seeds, code)
	if !ok {
		return models.Seed{}, false
	}
	return *seed, true
}

// Seeds returns a copy of the seed collection in creation order.
func (c *Catalog) Seeds() []models.Seed {
	_, seeds, _ := c.snapshot()
	out := make([]models.Seed, len(seeds))
	copy(out, seeds)
	return out
}
