// internal/procurement/pipeline.go
package procurement

import (
	"errors"
	"fmt"

	"procurement-workers/internal/models"
)

var (
	ErrSeedNotFound  = errors.New("seed not found")
	ErrEmptySeedCode = errors.New("seed code is empty")
)

// Result is the ordered output of one pipeline run together with the size of
// the list after each stage.
type Result struct {
	Procedures    []models.Procedure
	Total         int
	AfterSearch   int
	AfterSeed     int
	AppliedSeed   *models.Seed
	AppliedColumn Column
}

// RunQuery filters procedures by the free-text search, then by the active
// seed, then orders them by the sort column. The inputs are never modified.
//
// An active seed code that is not among seeds yields ErrSeedNotFound instead
// of an unfiltered list.
func RunQuery(procedures []models.Procedure, seeds []models.Seed, state QueryState) (*Result, error) {
	var seed *models.Seed
	if state.SeedCode != "" {
		s, ok := FindSeed(seeds, state.SeedCode)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrSeedNotFound, NormalizeSeedCode(state.SeedCode))
		}
		seed = s
	}

	res := &Result{Total: len(procedures), AppliedSeed: seed}

	query := NormalizeQuery(state.Search)
	filtered := make([]models.Procedure, 0, len(procedures))
	for i := range procedures {
		p := &procedures[i]
		if query != "" && !MatchesSearch(p, query) {
			continue
		}
		filtered = append(filtered, *p)
	}
	res.AfterSearch = len(filtered)

	if seed != nil {
		kept := filtered[:0]
		for i := range filtered {
			if MatchesSeed(&filtered[i], seed) {
				kept = append(kept, filtered[i])
			}
		}
		filtered = kept
	}
	res.AfterSeed = len(filtered)

	if state.Column == ColumnNone {
		res.Procedures = filtered
		return res, nil
	}

	res.Procedures = SortProcedures(filtered, state.Column, state.Direction)
	res.AppliedColumn = state.Column
	return res, nil
}
