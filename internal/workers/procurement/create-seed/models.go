// internal/workers/procurement/create-seed/models.go
package createseed

import "procurement-workers/internal/models"

// Input accepts tags either as a list or as one comma-separated string.
type Input struct {
	Tags     []string `json:"tags"`
	TagsText string   `json:"tagsText"`
	District string   `json:"district"`
}

type Output struct {
	Seed models.Seed `json:"seed"`
}
