// internal/seedstore/file.go
package seedstore

import (
	"context"
	"errors"
	"io/fs"
	"os"
	"path/filepath"

	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/models"
)

// FileStore keeps the collection in a JSON file, replaced atomically on save.
type FileStore struct {
	path string
}

func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

func (s *FileStore) Name() string { return "file:" + s.path }

func (s *FileStore) Load(ctx context.Context) ([]models.Seed, error) {
	doc, err := os.ReadFile(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return []models.Seed{}, nil
	}
	if err != nil {
		return nil, apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	return decodeSeeds(doc)
}

func (s *FileStore) Save(ctx context.Context, seeds []models.Seed) error {
	doc, err := encodeSeeds(seeds)
	if err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	if err := writeFileAtomic(s.path, doc); err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	return nil
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(dir, ".seeds-*.json")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	return os.Rename(tmp.Name(), path)
}
