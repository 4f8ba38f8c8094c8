// internal/datasource/file.go
package datasource

import (
	"context"
	"os"

	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/models"
)

// FileSource reads a JSON array of records from disk.
type FileSource struct {
	path string
}

func NewFileSource(path string) *FileSource {
	return &FileSource{path: path}
}

func (s *FileSource) Name() string { return "file:" + s.path }

func (s *FileSource) Load(ctx context.Context) ([]models.Procedure, error) {
	if err := ctx.Err(); err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.Name(), err)
	}

	doc, err := os.ReadFile(s.path)
	if err != nil {
		return nil, apperrors.NewSourceUnavailableError(s.Name(), err)
	}
	return decodeDataset(s.Name(), doc)
}
