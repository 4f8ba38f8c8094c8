// cmd/procurement-cli/cli_test.go
package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/catalog"
	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/datasource"
	"procurement-workers/internal/models"
	"procurement-workers/internal/seedstore"
)

// ==========================
// Test Helper Functions
// ==========================

const testProcedures = `[
  {"numero_procedimento": "100", "descricao": "Obras de construção da escola", "distrito": "Porto", "preco_base": "90.000,00 EUR",
   "detalhes_completos": "Data de Envio do Anúncio: 01-09-2025"},
  {"numero_procedimento": "101", "descricao": "Obras de requalificação do mercado", "distrito": "Lisboa", "preco_base": "40.000,00 EUR",
   "detalhes_completos": "Data de Envio do Anúncio: 15-09-2025"},
  {"numero_procedimento": "102", "descricao": "Aquisição de refeições escolares", "distrito": "Porto", "preco_base": "12.000,00 EUR",
   "detalhes_completos": "Data de Envio do Anúncio: 10-09-2025"}
]`

// setupCLI points the commands at a temp dataset and seed file and resets
// every flag to its default.
func setupCLI(t *testing.T) string {
	t.Helper()

	dir := t.TempDir()
	recordsPath := filepath.Join(dir, "procedures.json")
	seedsPath := filepath.Join(dir, "seeds.json")
	require.NoError(t, os.WriteFile(recordsPath, []byte(testProcedures), 0o644))

	prev := openCatalog
	openCatalog = func(ctx context.Context) (*catalog.Catalog, func(), error) {
		cat := catalog.New(
			datasource.NewFileSource(recordsPath),
			seedstore.NewFileStore(seedsPath),
			logger.NewTestLogger(t),
			catalog.Options{},
		)
		if err := cat.Load(ctx); err != nil {
			return nil, nil, err
		}
		return cat, func() {}, nil
	}

	timeout = time.Minute
	jsonOutput = false
	querySearch, querySeed, querySort, queryDirection, queryLimit = "", "", "publication", "desc", 20
	seedTags, seedDistrict = nil, ""

	t.Cleanup(func() { openCatalog = prev })
	return seedsPath
}

func newTestCmd() (*cobra.Command, *bytes.Buffer) {
	out := &bytes.Buffer{}
	cmd := &cobra.Command{}
	cmd.SetOut(out)
	cmd.SetContext(context.Background())
	return cmd, out
}

func queryNumbers(t *testing.T, out *bytes.Buffer) []string {
	t.Helper()

	var doc struct {
		Total      int                `json:"total"`
		Procedures []models.Procedure `json:"procedures"`
	}
	require.NoError(t, json.Unmarshal(out.Bytes(), &doc))

	numbers := make([]string, 0, len(doc.Procedures))
	for _, p := range doc.Procedures {
		numbers = append(numbers, p.NumeroProcedimento)
	}
	return numbers
}

// ==========================
// query
// ==========================

func TestRunQuery(t *testing.T) {
	tests := []struct {
		name     string
		search   string
		sort     string
		dir      string
		limit    int
		expected []string
	}{
		{"newest first by default", "", "publication", "desc", 20, []string{"101", "102", "100"}},
		{"search narrows results", "obras", "publication", "desc", 20, []string{"101", "100"}},
		{"price ascending", "", "price", "asc", 20, []string{"102", "101", "100"}},
		{"dataset order without a column", "", "", "desc", 20, []string{"100", "101", "102"}},
		{"limit truncates output", "", "price", "desc", 2, []string{"100", "101"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setupCLI(t)
			jsonOutput = true
			querySearch, querySort, queryDirection, queryLimit = tt.search, tt.sort, tt.dir, tt.limit

			cmd, out := newTestCmd()
			require.NoError(t, runQuery(cmd, nil))

			assert.Equal(t, tt.expected, queryNumbers(t, out))
		})
	}
}

func TestRunQuery_Table(t *testing.T) {
	setupCLI(t)
	querySearch = "escola"

	cmd, out := newTestCmd()
	require.NoError(t, runQuery(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "NUMBER")
	assert.Contains(t, text, "90.000,00 €")
	assert.Contains(t, text, "01/09/2025")
	assert.Contains(t, text, "2 of 3 procedures")
}

func TestRunQuery_UnknownSeed(t *testing.T) {
	setupCLI(t)
	querySeed = "seedzzzzzz"

	cmd, _ := newTestCmd()
	err := runQuery(cmd, nil)

	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSeedNotFound))
}

// ==========================
// seed
// ==========================

func TestSeedCommands(t *testing.T) {
	seedsPath := setupCLI(t)
	jsonOutput = true

	seedTags = []string{"Obras", "escola"}
	seedDistrict = "Porto"
	cmd, out := newTestCmd()
	require.NoError(t, runSeedCreate(cmd, nil))

	var created models.Seed
	require.NoError(t, json.Unmarshal(out.Bytes(), &created))
	assert.Regexp(t, `^SEED[A-Z0-9]{6}$`, created.Code)
	assert.Equal(t, []string{"obras", "escola"}, created.Tags)
	assert.FileExists(t, seedsPath)

	t.Run("list reads the persisted seed", func(t *testing.T) {
		cmd, out := newTestCmd()
		require.NoError(t, runSeedList(cmd, nil))

		var seeds []models.Seed
		require.NoError(t, json.Unmarshal(out.Bytes(), &seeds))
		require.Len(t, seeds, 1)
		assert.Equal(t, created.Code, seeds[0].Code)
	})

	t.Run("show accepts a lowercase code", func(t *testing.T) {
		jsonOutput = false
		defer func() { jsonOutput = true }()

		cmd, out := newTestCmd()
		require.NoError(t, runSeedShow(cmd, []string{" " + strings.ToLower(created.Code) + " "}))
		assert.Contains(t, out.String(), created.Code)
		assert.Contains(t, out.String(), "obras, escola")
	})

	t.Run("query filters by the seed", func(t *testing.T) {
		querySeed = created.Code
		defer func() { querySeed = "" }()

		cmd, out := newTestCmd()
		require.NoError(t, runQuery(cmd, nil))
		// "escolares" carries the "escola" tag.
		assert.Equal(t, []string{"102", "100"}, queryNumbers(t, out))
	})
}

func TestSeedCommands_Errors(t *testing.T) {
	t.Run("create without usable tags", func(t *testing.T) {
		setupCLI(t)
		seedTags = []string{" ", ""}

		cmd, _ := newTestCmd()
		err := runSeedCreate(cmd, nil)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEmptySeedTags))
	})

	t.Run("show blank code", func(t *testing.T) {
		setupCLI(t)

		cmd, _ := newTestCmd()
		err := runSeedShow(cmd, []string{"  "})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeEmptySeedCode))
	})

	t.Run("show unknown code", func(t *testing.T) {
		setupCLI(t)

		cmd, _ := newTestCmd()
		err := runSeedShow(cmd, []string{"SEED000000"})
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeSeedNotFound))
	})

	t.Run("list with no seeds", func(t *testing.T) {
		setupCLI(t)

		cmd, out := newTestCmd()
		require.NoError(t, runSeedList(cmd, nil))
		assert.Equal(t, "No seeds\n", out.String())
	})
}

// ==========================
// activities
// ==========================

func TestRunActivities(t *testing.T) {
	jsonOutput = false
	registryPath = "../../configs/activity-registry.json"

	cmd, out := newTestCmd()
	require.NoError(t, runActivities(cmd, nil))

	text := out.String()
	assert.Contains(t, text, "query-procedures")
	assert.Contains(t, text, "create-seed")
	assert.Contains(t, text, "resolve-seed")
	assert.Contains(t, text, "3 activities")
}

func TestRunActivities_Missing(t *testing.T) {
	registryPath = filepath.Join(t.TempDir(), "missing.json")

	cmd, _ := newTestCmd()
	err := runActivities(cmd, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to load registry")
}
