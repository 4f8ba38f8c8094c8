// internal/workers/procurement/resolve-seed/handler_test.go
package resolveseed

import (
	"context"
	stderrors "errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/common/errors"
	"procurement-workers/internal/common/logger"
	"procurement-workers/internal/models"
)

type seedList []models.Seed

func (s seedList) LookupSeed(code string) (models.Seed, bool, error) {
	for _, seed := range s {
		if seed.Code == code {
			return seed, true, nil
		}
	}
	return models.Seed{}, false, nil
}

type unloadedSeeds struct{}

func (unloadedSeeds) LookupSeed(code string) (models.Seed, bool, error) {
	return models.Seed{}, false, errors.NewSeedStoreUnavailableError("memory", stderrors.New("seed collection not loaded"))
}

func createTestHandler(t *testing.T) *Handler {
	seeds := seedList{
		{Code: "SEEDPORTO1", Name: "obras", Tags: []string{"obras"}, District: "Porto"},
	}
	return NewHandler(&Config{Timeout: time.Second}, seeds, nil, logger.NewTestLogger(t))
}

func TestHandler_Execute(t *testing.T) {
	tests := []struct {
		name      string
		code      string
		wantFound bool
		wantCode  string
	}{
		{"exact code", "SEEDPORTO1", true, "SEEDPORTO1"},
		{"lowercase with spaces", "  seedporto1 ", true, "SEEDPORTO1"},
		{"unknown code", "SEEDNOPE00", false, "SEEDNOPE00"},
	}

	handler := createTestHandler(t)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			output, err := handler.Execute(context.Background(), &Input{Code: tt.code})

			require.NoError(t, err)
			assert.Equal(t, tt.wantFound, output.Found)
			assert.Equal(t, tt.wantCode, output.Code)
			if tt.wantFound {
				require.NotNil(t, output.Seed)
				assert.Equal(t, "Porto", output.Seed.District)
			} else {
				assert.Nil(t, output.Seed)
			}
		})
	}
}

func TestHandler_Execute_EmptyCode(t *testing.T) {
	handler := createTestHandler(t)

	_, err := handler.Execute(context.Background(), &Input{Code: "   "})
	assert.True(t, errors.IsCode(err, errors.ErrCodeEmptySeedCode))

	_, err = handler.Execute(context.Background(), nil)
	assert.True(t, errors.IsCode(err, errors.ErrCodeInvalidQueryInput))
}

func TestHandler_Execute_SeedsUnloaded(t *testing.T) {
	handler := NewHandler(&Config{Timeout: time.Second}, unloadedSeeds{}, nil, logger.NewTestLogger(t))

	output, err := handler.Execute(context.Background(), &Input{Code: "SEEDAAAAAA"})

	assert.Nil(t, output)
	assert.True(t, errors.IsCode(err, errors.ErrCodeSeedStoreUnavailable))
	assert.False(t, errors.IsCode(err, errors.ErrCodeSeedNotFound))
}
