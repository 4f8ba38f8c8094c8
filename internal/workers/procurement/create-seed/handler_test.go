// internal/workers/procurement/create-seed/handler_test.go
package createseed

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/catalog"
	"procurement-workers/internal/common/errors"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/models"
	"procurement-workers/internal/seedstore"
)

// ==========================
// Mock Seed Creator
// ==========================

type MockSeedCreator struct {
	mock.Mock
}

func (m *MockSeedCreator) CreateSeed(ctx context.Context, tags []string, district string) (models.Seed, error) {
	args := m.Called(ctx, tags, district)
	return args.Get(0).(models.Seed), args.Error(1)
}

type emptySource struct{}

func (emptySource) Name() string { return "empty" }

func (emptySource) Load(ctx context.Context) ([]models.Procedure, error) {
	return []models.Procedure{}, nil
}

func createTestConfig() *Config {
	return &Config{Timeout: 3 * time.Second}
}

// ==========================
// Execute Tests
// ==========================

func TestHandler_Execute_MergesTagSources(t *testing.T) {
	creator := new(MockSeedCreator)
	seed := models.Seed{Code: "SEEDAAAAAA", Tags: []string{"obras", "escola", "porto"}}
	creator.On("CreateSeed", mock.Anything, []string{"obras", " escola", " porto"}, "Porto").Return(seed, nil)

	handler := NewHandler(createTestConfig(), creator, nil, logger.NewTestLogger(t))
	output, err := handler.Execute(context.Background(), &Input{
		Tags:     []string{"obras"},
		TagsText: " escola, porto",
		District: "Porto",
	})

	require.NoError(t, err)
	assert.Equal(t, seed, output.Seed)
	creator.AssertExpectations(t)
}

func TestHandler_Execute_Errors(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected errors.ErrorCode
	}{
		{"empty tags", errors.NewEmptySeedTagsError(), errors.ErrCodeEmptySeedTags},
		{"store unavailable", errors.NewSeedStoreUnavailableError("redis:dre_seeds", stderrors.New("timeout")), errors.ErrCodeSeedStoreUnavailable},
		{"code space exhausted", errors.NewSeedCodeExhaustedError(16), errors.ErrCodeSeedCodeExhausted},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			creator := new(MockSeedCreator)
			creator.On("CreateSeed", mock.Anything, mock.Anything, mock.Anything).Return(models.Seed{}, tt.err)

			handler := NewHandler(createTestConfig(), creator, nil, logger.NewTestLogger(t))
			_, err := handler.Execute(context.Background(), &Input{Tags: []string{"obras"}})

			assert.True(t, errors.IsCode(err, tt.expected))
		})
	}
}

func TestHandler_Execute_NilInput(t *testing.T) {
	handler := NewHandler(createTestConfig(), new(MockSeedCreator), nil, logger.NewTestLogger(t))

	_, err := handler.Execute(context.Background(), nil)

	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQueryInput))
}

func TestHandler_Execute_WithCatalog(t *testing.T) {
	store := seedstore.NewMemoryStore()
	cat := catalog.New(emptySource{}, store, logger.NewTestLogger(t), catalog.Options{})
	require.NoError(t, cat.Load(context.Background()))

	handler := NewHandler(createTestConfig(), cat, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{TagsText: "Limpeza, vigilância, LIMPEZA, hospital"})
	require.NoError(t, err)

	assert.Regexp(t, `^SEED[A-Z0-9]{6}$`, output.Seed.Code)
	assert.Equal(t, []string{"limpeza", "vigilância", "hospital"}, output.Seed.Tags)
	assert.Equal(t, "limpeza, vigilância...", output.Seed.Name)
	assert.Equal(t, 1, store.Saves())

	_, err = handler.Execute(context.Background(), &Input{TagsText: " , "})
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptySeedTags))
	assert.Equal(t, 1, store.Saves())
}
