package store

import (
	"context"
	"database/sql"
	"errors"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/applyforge/applyforge/internal/domain"
)

// ProfileStore maps profile attribute names (fixed names and derived
// custom_ keys alike) to their persisted values.
type ProfileStore struct {
	db *DB
}

// NewProfileStore creates a new profile store
func NewProfileStore(db *DB) *ProfileStore {
	return &ProfileStore{db: db}
}

// Get looks up an attribute value. Absence is reported through found.
func (s *ProfileStore) Get(ctx context.Context, name string) (value string, found bool, err error) {
	query := `SELECT value FROM profile WHERE name = ?`

	if err := s.db.GetContext(ctx, &value, query, strings.TrimSpace(name)); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return "", false, nil
		}
		return "", false, domain.StoreUnavailableError("get attribute", err)
	}

	return value, true, nil
}

// Put upserts an attribute value; last write wins
func (s *ProfileStore) Put(ctx context.Context, name, value string) error {
	query := `
		INSERT INTO profile (name, value)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`

	if _, err := s.db.ExecContext(ctx, query, strings.TrimSpace(name), value); err != nil {
		return domain.StoreUnavailableError("put attribute", err)
	}

	return nil
}

// List returns all persisted attributes ordered by name
func (s *ProfileStore) List(ctx context.Context) ([]domain.ProfileAttribute, error) {
	query := `SELECT name, value FROM profile ORDER BY name`

	var rows []domain.ProfileAttribute
	if err := s.db.SelectContext(ctx, &rows, query); err != nil {
		return nil, domain.StoreUnavailableError("list attributes", err)
	}

	return rows, nil
}

// Delete removes an attribute, if present
func (s *ProfileStore) Delete(ctx context.Context, name string) error {
	query := `DELETE FROM profile WHERE name = ?`

	result, err := s.db.ExecContext(ctx, query, strings.TrimSpace(name))
	if err != nil {
		return domain.StoreUnavailableError("delete attribute", err)
	}

	rows, err := result.RowsAffected()
	if err != nil {
		return domain.StoreUnavailableError("delete attribute", err)
	}
	if rows == 0 {
		return domain.NotFoundError("attribute", name)
	}

	return nil
}

// Import atomically replaces the values of the given attributes. Used by
// the answers CLI to restore a profile dump; either every entry lands or
// none do.
func (s *ProfileStore) Import(ctx context.Context, attrs []domain.ProfileAttribute) error {
	query := `
		INSERT INTO profile (name, value)
		VALUES (?, ?)
		ON CONFLICT(name) DO UPDATE SET value = excluded.value
	`

	err := s.db.Transaction(ctx, func(tx *sqlx.Tx) error {
		for _, attr := range attrs {
			if _, err := tx.ExecContext(ctx, query, strings.TrimSpace(attr.Name), attr.Value); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return domain.StoreUnavailableError("import attributes", err)
	}

	return nil
}
