// internal/common/database/connections_test.go
package database

import (
	"context"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/common/config"
	apperrors "procurement-workers/internal/common/errors"
)

func TestOpen_RedisOnly(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := &config.Config{}
	cfg.Seeds.Primary = config.StoreRedis
	cfg.Seeds.Fallback = config.StoreFile
	cfg.Records.Source = config.SourceFile
	cfg.Database.Redis.Address = mr.Addr()

	conns, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	defer conns.Close()

	assert.NotNil(t, conns.Redis)
	assert.Nil(t, conns.Postgres)
	assert.Nil(t, conns.Elasticsearch)
}

func TestOpen_RedisUnreachable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := &config.Config{}
	cfg.Seeds.Primary = config.StoreRedis
	cfg.Records.Source = config.SourceFile
	cfg.Database.Redis.Address = addr

	_, err := Open(context.Background(), cfg)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeDatabaseConnectionFailed))
}

func TestOpen_NothingNeeded(t *testing.T) {
	cfg := &config.Config{}
	cfg.Seeds.Primary = config.StoreFile
	cfg.Seeds.Fallback = config.StoreNone
	cfg.Records.Source = config.SourceHTTP

	conns, err := Open(context.Background(), cfg)
	require.NoError(t, err)
	assert.Equal(t, &Connections{}, conns)
}
