// Package datasource reads the procedure snapshot from the configured
// backend. Every source returns the whole collection in one call.
package datasource

import (
	"context"
	"encoding/json"
	"fmt"

	"procurement-workers/internal/common/config"
	"procurement-workers/internal/common/database"
	apperrors "procurement-workers/internal/common/errors"
	apphttp "procurement-workers/internal/common/http"
	"procurement-workers/internal/common/validation"
	"procurement-workers/internal/models"
)

// Source produces a complete, ordered procedure snapshot.
type Source interface {
	Name() string
	Load(ctx context.Context) ([]models.Procedure, error)
}

// New builds the source selected by cfg.Source.
func New(cfg config.RecordsConfig, conns *database.Connections) (Source, error) {
	switch cfg.Source {
	case config.SourceFile:
		return NewFileSource(cfg.Path), nil
	case config.SourceHTTP:
		return NewHTTPSource(cfg.URL, apphttp.NewClient(config.GetDuration(cfg.HTTPTimeout))), nil
	case config.SourceElasticsearch:
		if conns == nil || conns.Elasticsearch == nil {
			return nil, fmt.Errorf("elasticsearch source selected but no client is connected")
		}
		return NewElasticsearchSource(conns.Elasticsearch.Client, cfg.Index, defaultPageSize), nil
	default:
		return nil, fmt.Errorf("unknown record source %q", cfg.Source)
	}
}

// decodeDataset validates a raw JSON array of records and decodes it.
func decodeDataset(source string, doc []byte) ([]models.Procedure, error) {
	if res := validation.ValidateRecords(doc); !res.Valid {
		return nil, apperrors.NewSourceInvalidError(source, res.Summary())
	}

	var procs []models.Procedure
	if err := json.Unmarshal(doc, &procs); err != nil {
		return nil, apperrors.NewSourceInvalidError(source, err.Error())
	}
	if procs == nil {
		procs = []models.Procedure{}
	}
	return procs, nil
}
