// Package scheduler wires up the cron job that periodically reloads the
// procedure snapshot.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"

	"procurement-workers/internal/common/logger"
)

// Refresher reloads a snapshot.
type Refresher interface {
	Refresh(ctx context.Context) error
}

// Scheduler wraps robfig/cron and runs one refresh per tick. A tick that
// fires while the previous refresh is still running is skipped.
type Scheduler struct {
	cron    *cron.Cron
	target  Refresher
	spec    string // cron spec, e.g. "@every 6h"
	timeout time.Duration
	logger  logger.Logger
}

// New creates a Scheduler for spec. timeout bounds each refresh; zero means
// no bound beyond the context passed to Start.
func New(target Refresher, spec string, timeout time.Duration, log logger.Logger) *Scheduler {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	cl := cronLogger{log: log}
	return &Scheduler{
		cron: cron.New(
			cron.WithLogger(cl),
			cron.WithChain(cron.Recover(cl), cron.SkipIfStillRunning(cl)),
		),
		target:  target,
		spec:    spec,
		timeout: timeout,
		logger:  log,
	}
}

// Start registers the refresh job and starts the cron loop.
func (s *Scheduler) Start(ctx context.Context) error {
	if _, err := s.cron.AddFunc(s.spec, func() { s.RunOnce(ctx) }); err != nil {
		return fmt.Errorf("cron.AddFunc %q: %w", s.spec, err)
	}

	s.cron.Start()
	s.logger.Info("Snapshot refresh scheduled", map[string]interface{}{"spec": s.spec})
	return nil
}

// Stop halts the cron loop and waits for a running refresh to return.
func (s *Scheduler) Stop() {
	<-s.cron.Stop().Done()
	s.logger.Info("Snapshot refresh stopped", nil)
}

// RunOnce performs a single refresh and reports whether it succeeded.
func (s *Scheduler) RunOnce(ctx context.Context) bool {
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	start := time.Now()
	if err := s.target.Refresh(ctx); err != nil {
		s.logger.Warn("Snapshot refresh failed", map[string]interface{}{
			"error":    err,
			"duration": time.Since(start).String(),
		})
		return false
	}

	s.logger.Debug("Snapshot refresh complete", map[string]interface{}{
		"duration": time.Since(start).String(),
	})
	return true
}

// cronLogger routes cron's own logging through the structured logger.
type cronLogger struct {
	log logger.Logger
}

func (l cronLogger) Info(msg string, keysAndValues ...interface{}) {
	l.log.Debug("cron: "+msg, pairs(keysAndValues))
}

func (l cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	fields := pairs(keysAndValues)
	fields["error"] = err
	l.log.Error("cron: "+msg, fields)
}

func pairs(keysAndValues []interface{}) map[string]interface{} {
	fields := make(map[string]interface{}, len(keysAndValues)/2+1)
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		fields[fmt.Sprint(keysAndValues[i])] = keysAndValues[i+1]
	}
	return fields
}
