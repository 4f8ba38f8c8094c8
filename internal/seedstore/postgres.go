// internal/seedstore/postgres.go
package seedstore

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"

	apperrors "procurement-workers/internal/common/errors"
	"procurement-workers/internal/models"
)

// PostgresStore keeps one row per seed. Save replaces the table contents in a
// single transaction so readers never observe a partial collection.
type PostgresStore struct {
	db    *sql.DB
	table string
}

func NewPostgresStore(db *sql.DB, table string) *PostgresStore {
	return &PostgresStore{db: db, table: table}
}

func (s *PostgresStore) Name() string { return "postgres:" + s.table }

// EnsureSchema creates the seed table when it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	query := fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			position INTEGER NOT NULL,
			code     TEXT PRIMARY KEY,
			name     TEXT NOT NULL,
			tags     TEXT[] NOT NULL,
			district TEXT,
			created  TIMESTAMPTZ NOT NULL
		)`, pq.QuoteIdentifier(s.table))

	if _, err := s.db.ExecContext(ctx, query); err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	return nil
}

func (s *PostgresStore) Load(ctx context.Context) ([]models.Seed, error) {
	query := fmt.Sprintf(`SELECT code, name, tags, district, created FROM %s ORDER BY position`,
		pq.QuoteIdentifier(s.table))

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	defer rows.Close()

	seeds := []models.Seed{}
	for rows.Next() {
		var (
			seed     models.Seed
			district sql.NullString
			created  time.Time
		)
		if err := rows.Scan(&seed.Code, &seed.Name, pq.Array(&seed.Tags), &district, &created); err != nil {
			return nil, apperrors.NewSeedStoreUnavailableError(s.Name(), err)
		}
		seed.District = district.String
		seed.Created = created.UTC()
		seeds = append(seeds, seed)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}

	return seeds, nil
}

func (s *PostgresStore) Save(ctx context.Context, seeds []models.Seed) error {
	table := pq.QuoteIdentifier(s.table)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, fmt.Sprintf(`DELETE FROM %s`, table)); err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}

	insert := fmt.Sprintf(`INSERT INTO %s (position, code, name, tags, district, created)
		VALUES ($1, $2, $3, $4, $5, $6)`, table)

	for i, seed := range seeds {
		district := sql.NullString{String: seed.District, Valid: seed.District != ""}
		if _, err := tx.ExecContext(ctx, insert,
			i, seed.Code, seed.Name, pq.Array(seed.Tags), district, seed.Created.UTC(),
		); err != nil {
			return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
		}
	}

	if err := tx.Commit(); err != nil {
		return apperrors.NewSeedStoreUnavailableError(s.Name(), err)
	}
	return nil
}
