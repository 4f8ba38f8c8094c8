// internal/workers/procurement/query-procedures/config.go
package queryprocedures

import (
	"time"

	"procurement-workers/internal/common/config"
	"procurement-workers/internal/procurement"
)

type Config struct {
	Timeout          time.Duration
	DefaultColumn    procurement.Column
	DefaultDirection procurement.Direction
	MaxResults       int
}

// LoadConfig reads the worker timeout and the query defaults.
func LoadConfig(cfg *config.Config) *Config {
	wcfg := config.GetWorkerConfig(cfg, TaskType)
	return &Config{
		Timeout:          config.GetDuration(wcfg.Timeout),
		DefaultColumn:    procurement.ParseColumn(cfg.Query.DefaultSort),
		DefaultDirection: procurement.ParseDirection(cfg.Query.DefaultDirection),
		MaxResults:       cfg.Query.MaxResults,
	}
}
