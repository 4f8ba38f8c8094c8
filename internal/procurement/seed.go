// internal/procurement/seed.go
package procurement

import (
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"procurement-workers/internal/models"
)

const (
	SeedCodePrefix   = "SEED"
	seedCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	seedCodeLength   = 6

	// MaxCodeAttempts bounds regeneration when a fresh code collides with an
	// existing seed.
	MaxCodeAttempts = 16
)

var (
	ErrEmptyTags        = errors.New("at least one tag is required")
	ErrCodeSpaceExhaust = errors.New("could not generate an unused seed code")
)

// generateCode is swapped in tests to force collisions.
var generateCode = GenerateSeedCode

// MatchesSeed applies the district gate and the tag gate of seed to p. A nil
// seed matches every record.
func MatchesSeed(p *models.Procedure, seed *models.Seed) bool {
	if seed == nil {
		return true
	}
	return matchesDistrict(p, seed) && matchesAnyTag(Haystack(p), seed.Tags)
}

func matchesDistrict(p *models.Procedure, seed *models.Seed) bool {
	want := strings.ToLower(strings.TrimSpace(seed.District))
	if want == "" {
		return true
	}
	return strings.ToLower(strings.TrimSpace(p.Distrito)) == want
}

func matchesAnyTag(haystack string, tags []string) bool {
	for _, tag := range tags {
		if strings.Contains(haystack, strings.ToLower(tag)) {
			return true
		}
	}
	return false
}

// NormalizeTags trims and lowercases tags, drops empty ones and removes
// duplicates while keeping the first occurrence's position.
func NormalizeTags(tags []string) []string {
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		clean := strings.ToLower(strings.TrimSpace(t))
		if clean == "" || seen[clean] {
			continue
		}
		seen[clean] = true
		out = append(out, clean)
	}
	return out
}

// SeedName is derived from the first two tags.
func SeedName(tags []string) string {
	if len(tags) <= 2 {
		return strings.Join(tags, ", ")
	}
	return strings.Join(tags[:2], ", ") + "..."
}

// NewSeed builds a seed from user input. The returned code does not collide
// with any code in existing.
func NewSeed(tags []string, district string, now time.Time, existing []models.Seed) (models.Seed, error) {
	return NewSeedWithAttempts(tags, district, now, existing, MaxCodeAttempts)
}

// NewSeedWithAttempts is NewSeed with an explicit bound on code regeneration.
// A non-positive bound falls back to MaxCodeAttempts.
func NewSeedWithAttempts(tags []string, district string, now time.Time, existing []models.Seed, attempts int) (models.Seed, error) {
	if attempts <= 0 {
		attempts = MaxCodeAttempts
	}

	clean := NormalizeTags(tags)
	if len(clean) == 0 {
		return models.Seed{}, ErrEmptyTags
	}

	taken := make(map[string]bool, len(existing))
	for _, s := range existing {
		taken[s.Code] = true
	}

	var code string
	for attempt := 0; ; attempt++ {
		if attempt == attempts {
			return models.Seed{}, ErrCodeSpaceExhaust
		}
		c, err := generateCode()
		if err != nil {
			return models.Seed{}, err
		}
		if !taken[c] {
			code = c
			break
		}
	}

	return models.Seed{
		Code:     code,
		Name:     SeedName(clean),
		Tags:     clean,
		District: strings.TrimSpace(district),
		Created:  now.UTC(),
	}, nil
}

// GenerateSeedCode returns "SEED" followed by six characters from A-Z0-9.
func GenerateSeedCode() (string, error) {
	var b strings.Builder
	b.Grow(len(SeedCodePrefix) + seedCodeLength)
	b.WriteString(SeedCodePrefix)

	alphabetSize := big.NewInt(int64(len(seedCodeAlphabet)))
	for i := 0; i < seedCodeLength; i++ {
		n, err := rand.Int(rand.Reader, alphabetSize)
		if err != nil {
			return "", fmt.Errorf("generate seed code: %w", err)
		}
		b.WriteByte(seedCodeAlphabet[n.Int64()])
	}
	return b.String(), nil
}

// NormalizeSeedCode trims and uppercases a code typed by a user.
func NormalizeSeedCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}

// FindSeed looks up code among seeds.
func FindSeed(seeds []models.Seed, code string) (*models.Seed, bool) {
	code = NormalizeSeedCode(code)
	for i := range seeds {
		if seeds[i].Code == code {
			s := seeds[i]
			return &s, true
		}
	}
	return nil, false
}
