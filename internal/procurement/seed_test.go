// internal/procurement/seed_test.go
package procurement

import (
	"errors"
	"regexp"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"procurement-workers/internal/models"
)

var seedCodeFormat = regexp.MustCompile(`^SEED[A-Z0-9]{6}$`)

func TestMatchesSeed(t *testing.T) {
	porto := models.Procedure{
		Descricao: "Execução de obras de construção na escola básica",
		Distrito:  "Porto",
	}
	lisboa := porto
	lisboa.Distrito = "Lisboa"

	seed := &models.Seed{
		Code:     "SEEDABC123",
		Tags:     []string{"construção", "obras"},
		District: "Porto",
	}

	assert.True(t, MatchesSeed(&porto, seed))
	assert.False(t, MatchesSeed(&lisboa, seed))
}

func TestMatchesSeed_Gates(t *testing.T) {
	tests := []struct {
		name      string
		procedure models.Procedure
		seed      *models.Seed
		expected  bool
	}{
		{
			name:      "no active seed",
			procedure: models.Procedure{Descricao: "qualquer coisa"},
			seed:      nil,
			expected:  true,
		},
		{
			name:      "no district reduces to tag gate",
			procedure: models.Procedure{Descricao: "Aquisição de software", Distrito: "Faro"},
			seed:      &models.Seed{Tags: []string{"software"}},
			expected:  true,
		},
		{
			name:      "no district and no tag match",
			procedure: models.Procedure{Descricao: "Aquisição de software", Distrito: "Faro"},
			seed:      &models.Seed{Tags: []string{"limpeza"}},
			expected:  false,
		},
		{
			name:      "one of several tags is enough",
			procedure: models.Procedure{Entidade: "Hospital de Braga"},
			seed:      &models.Seed{Tags: []string{"limpeza", "hospital", "vigilância"}},
			expected:  true,
		},
		{
			name:      "district compared case-insensitively",
			procedure: models.Procedure{Descricao: "obras", Distrito: " PORTO "},
			seed:      &models.Seed{Tags: []string{"obras"}, District: "porto"},
			expected:  true,
		},
		{
			name:      "district must match exactly",
			procedure: models.Procedure{Descricao: "obras", Distrito: "Porto Santo"},
			seed:      &models.Seed{Tags: []string{"obras"}, District: "Porto"},
			expected:  false,
		},
		{
			name:      "missing district fails a district seed",
			procedure: models.Procedure{Descricao: "obras"},
			seed:      &models.Seed{Tags: []string{"obras"}, District: "Porto"},
			expected:  false,
		},
		{
			name:      "uppercase tag still matches",
			procedure: models.Procedure{Descricao: "obras"},
			seed:      &models.Seed{Tags: []string{"OBRAS"}},
			expected:  true,
		},
		{
			name:      "tag found in publication date",
			procedure: models.Procedure{DetalhesCompletos: "Data de Envio do Anúncio: 02-09-2025"},
			seed:      &models.Seed{Tags: []string{"09/2025"}},
			expected:  true,
		},
		{
			name:      "seed without tags matches nothing",
			procedure: models.Procedure{Descricao: "obras"},
			seed:      &models.Seed{},
			expected:  false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, MatchesSeed(&tt.procedure, tt.seed))
		})
	}
}

func TestNormalizeTags(t *testing.T) {
	got := NormalizeTags([]string{" Obras ", "construção", "OBRAS", "", "  ", "Escola"})

	assert.Equal(t, []string{"obras", "construção", "escola"}, got)
}

func TestSeedName(t *testing.T) {
	assert.Equal(t, "obras", SeedName([]string{"obras"}))
	assert.Equal(t, "obras, escola", SeedName([]string{"obras", "escola"}))
	assert.Equal(t, "obras, escola...", SeedName([]string{"obras", "escola", "porto"}))
}

func TestGenerateSeedCode(t *testing.T) {
	for i := 0; i < 200; i++ {
		code, err := GenerateSeedCode()
		require.NoError(t, err)
		assert.Len(t, code, 10)
		assert.Regexp(t, seedCodeFormat, code)
	}
}

func TestNewSeed(t *testing.T) {
	now := time.Date(2025, time.October, 1, 10, 30, 0, 0, time.FixedZone("WEST", 3600))

	t.Run("builds seed from tags", func(t *testing.T) {
		seed, err := NewSeed([]string{"Obras", "construção", "obras", "escola"}, " Porto ", now, nil)

		require.NoError(t, err)
		assert.Regexp(t, seedCodeFormat, seed.Code)
		assert.Equal(t, []string{"obras", "construção", "escola"}, seed.Tags)
		assert.Equal(t, "obras, construção...", seed.Name)
		assert.Equal(t, "Porto", seed.District)
		assert.Equal(t, time.UTC, seed.Created.Location())
		assert.True(t, now.Equal(seed.Created))
	})

	t.Run("rejects empty tags", func(t *testing.T) {
		_, err := NewSeed([]string{" ", ""}, "Porto", now, nil)
		assert.ErrorIs(t, err, ErrEmptyTags)

		_, err = NewSeed(nil, "", now, nil)
		assert.ErrorIs(t, err, ErrEmptyTags)
	})

	t.Run("regenerates on collision", func(t *testing.T) {
		codes := []string{"SEEDAAAAAA", "SEEDAAAAAA", "SEEDBBBBBB"}
		restore := stubCodes(codes)
		defer restore()

		existing := []models.Seed{{Code: "SEEDAAAAAA"}}
		seed, err := NewSeed([]string{"obras"}, "", now, existing)

		require.NoError(t, err)
		assert.Equal(t, "SEEDBBBBBB", seed.Code)
	})

	t.Run("gives up after bounded attempts", func(t *testing.T) {
		restore := stubCodes([]string{"SEEDAAAAAA"})
		defer restore()

		_, err := NewSeed([]string{"obras"}, "", now, []models.Seed{{Code: "SEEDAAAAAA"}})
		assert.ErrorIs(t, err, ErrCodeSpaceExhaust)
	})

	t.Run("honours an explicit attempt bound", func(t *testing.T) {
		calls := 0
		prev := generateCode
		generateCode = func() (string, error) {
			calls++
			return "SEEDAAAAAA", nil
		}
		defer func() { generateCode = prev }()

		_, err := NewSeedWithAttempts([]string{"obras"}, "", now, []models.Seed{{Code: "SEEDAAAAAA"}}, 3)
		assert.ErrorIs(t, err, ErrCodeSpaceExhaust)
		assert.Equal(t, 3, calls)
	})

	t.Run("propagates generator failure", func(t *testing.T) {
		boom := errors.New("entropy unavailable")
		prev := generateCode
		generateCode = func() (string, error) { return "", boom }
		defer func() { generateCode = prev }()

		_, err := NewSeed([]string{"obras"}, "", now, nil)
		assert.ErrorIs(t, err, boom)
	})
}

func TestFindSeed(t *testing.T) {
	seeds := []models.Seed{{Code: "SEEDAAAAAA"}, {Code: "SEEDBBBBBB", Name: "b"}}

	s, ok := FindSeed(seeds, "  seedbbbbbb ")
	require.True(t, ok)
	assert.Equal(t, "b", s.Name)

	s.Name = "changed"
	assert.Equal(t, "b", seeds[1].Name, "lookup must return a copy")

	_, ok = FindSeed(seeds, "SEEDCCCCCC")
	assert.False(t, ok)
}

// stubCodes makes the generator return codes in order, repeating the last.
func stubCodes(codes []string) func() {
	prev := generateCode
	i := 0
	generateCode = func() (string, error) {
		c := codes[i]
		if i < len(codes)-1 {
			i++
		}
		return c, nil
	}
	return func() { generateCode = prev }
}
