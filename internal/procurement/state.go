// internal/procurement/state.go
package procurement

import (
	"fmt"

	"procurement-workers/internal/models"
)

// QueryState is the full input of a pipeline run. It is a value: every
// transition returns a new state and leaves the receiver untouched.
type QueryState struct {
	Search    string    `json:"search"`
	SeedCode  string    `json:"seedCode,omitempty"`
	Column    Column    `json:"column,omitempty"`
	Direction Direction `json:"direction"`
}

// DefaultQueryState shows the most recently published notices first.
func DefaultQueryState() QueryState {
	return QueryState{
		Column:    ColumnPublication,
		Direction: Descending,
	}
}

// WithSearch replaces the free-text query.
func (s QueryState) WithSearch(text string) QueryState {
	s.Search = text
	return s
}

// WithSort sets column and direction explicitly.
func (s QueryState) WithSort(column Column, direction Direction) QueryState {
	s.Column = column
	s.Direction = direction
	return s
}

// ToggleSort flips the direction when column is already the sort column and
// starts ascending otherwise.
func (s QueryState) ToggleSort(column Column) QueryState {
	if s.Column == column {
		s.Direction = s.Direction.Reverse()
		return s
	}
	s.Column = column
	s.Direction = Ascending
	return s
}

// ActivateSeed makes code the active seed. On failure the receiver is
// returned unchanged together with the error.
func (s QueryState) ActivateSeed(code string, seeds []models.Seed) (QueryState, error) {
	normalized := NormalizeSeedCode(code)
	if normalized == "" {
		return s, ErrEmptySeedCode
	}
	if _, ok := FindSeed(seeds, normalized); !ok {
		return s, fmt.Errorf("%w: %s", ErrSeedNotFound, normalized)
	}
	s.SeedCode = normalized
	return s, nil
}

// ClearSeed removes the active seed.
func (s QueryState) ClearSeed() QueryState {
	s.SeedCode = ""
	return s
}
