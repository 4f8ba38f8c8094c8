// internal/workers/procurement/resolve-seed/models.go
package resolveseed

import "procurement-workers/internal/models"

type Input struct {
	Code string `json:"code"`
}

// Output reports found=false for unknown codes instead of failing the job, so
// a process can branch on it.
type Output struct {
	Code  string       `json:"code"`
	Found bool         `json:"found"`
	Seed  *models.Seed `json:"seed"`
}
