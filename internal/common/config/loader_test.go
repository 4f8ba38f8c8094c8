// internal/common/config/loader_test.go
package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadFromFile_Defaults(t *testing.T) {
	path := writeConfig(t, `
app:
  name: dre-procurement
database:
  redis:
    address: localhost:6379
records:
  source: file
  path: data/procedures.json
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, "dre-procurement", cfg.App.Name)
	assert.Equal(t, StoreRedis, cfg.Seeds.Primary)
	assert.Equal(t, StoreFile, cfg.Seeds.Fallback)
	assert.Equal(t, "dre_seeds", cfg.Seeds.RedisKey)
	assert.Equal(t, "data/seeds.json", cfg.Seeds.FilePath)
	assert.Equal(t, 16, cfg.Seeds.CodeAttempts)
	assert.Equal(t, "publication", cfg.Query.DefaultSort)
	assert.Equal(t, "desc", cfg.Query.DefaultDirection)
	assert.Equal(t, "@every 6h", cfg.Records.RefreshSchedule)
	assert.Equal(t, "dre-procurement", cfg.Observability.ServiceName)
	assert.Equal(t, 15*time.Second, GetDuration(cfg.Records.HTTPTimeout))
}

func TestLoadFromFile_EnvOverride(t *testing.T) {
	t.Setenv("RECORDS_SOURCE", "http")
	t.Setenv("DRE_FEED", "https://example.org/procedures.json")

	path := writeConfig(t, `
records:
  source: file
  url: ${DRE_FEED}
seeds:
  primary: file
  fallback: none
`)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)

	assert.Equal(t, SourceHTTP, cfg.Records.Source)
	assert.Equal(t, "https://example.org/procedures.json", cfg.Records.URL)
}

func TestLoadFromFile_Validation(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		wantErr string
	}{
		{
			name: "unknown record source",
			body: `
records:
  source: ftp
seeds:
  primary: file
  fallback: none
`,
			wantErr: "records.source",
		},
		{
			name: "http source without url",
			body: `
records:
  source: http
seeds:
  primary: file
  fallback: none
`,
			wantErr: "records.url",
		},
		{
			name: "redis store without address",
			body: `
seeds:
  primary: redis
`,
			wantErr: "database.redis.address",
		},
		{
			name: "postgres store without host",
			body: `
seeds:
  primary: postgres
  fallback: file
`,
			wantErr: "database.postgres.host",
		},
		{
			name: "fallback equal to primary",
			body: `
seeds:
  primary: file
  fallback: file
`,
			wantErr: "seeds.fallback",
		},
		{
			name: "negative result limit",
			body: `
seeds:
  primary: file
  fallback: none
query:
  max_results: -1
`,
			wantErr: "query.max_results",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFromFile(writeConfig(t, tt.body))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestValidateCamunda(t *testing.T) {
	cfg := &Config{}
	assert.Error(t, cfg.ValidateCamunda())

	cfg.Camunda.BrokerAddress = "localhost:26500"
	assert.NoError(t, cfg.ValidateCamunda())
}

func TestGetWorkerConfig(t *testing.T) {
	cfg := &Config{Workers: map[string]WorkerConfig{
		"query-procedures": {Enabled: false, MaxJobsActive: 2},
	}}

	assert.Equal(t, 2, GetWorkerConfig(cfg, "query-procedures").MaxJobsActive)
	assert.False(t, IsWorkerEnabled(cfg, "query-procedures"))
	assert.True(t, IsWorkerEnabled(cfg, "create-seed"))
	assert.Equal(t, 5, GetWorkerConfig(cfg, "create-seed").MaxJobsActive)
}
