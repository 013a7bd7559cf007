// Package store persists learned answers and profile attributes in an
// embedded SQLite database. One process owns the file at a time; every
// write is its own immediate commit.
package store

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"github.com/applyforge/applyforge/internal/config"
)

// Schema is created on open so a fresh database file works immediately.
const schema = `
CREATE TABLE IF NOT EXISTS questions (
	question TEXT PRIMARY KEY,
	answer   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS profile (
	name  TEXT PRIMARY KEY,
	value TEXT NOT NULL
);
`

// DB wraps sqlx.DB with additional functionality
type DB struct {
	*sqlx.DB
}

// New opens (creating if needed) the configured database file
func New(cfg config.StoreConfig) (*DB, error) {
	return NewFromDSN(cfg.DSN())
}

// NewFromDSN opens a database from a DSN string. Tests use ":memory:".
func NewFromDSN(dsn string) (*DB, error) {
	db, err := sqlx.Connect("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	// SQLite serializes writers; a second connection would only block.
	db.SetMaxOpenConns(1)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	if _, err := db.ExecContext(ctx, schema); err != nil {
		return nil, fmt.Errorf("creating schema: %w", err)
	}

	return &DB{DB: db}, nil
}

// Close closes the database connection
func (db *DB) Close() error {
	return db.DB.Close()
}

// Health checks database connectivity
func (db *DB) Health(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Transaction executes a function within a transaction
func (db *DB) Transaction(ctx context.Context, fn func(tx *sqlx.Tx) error) error {
	tx, err := db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("rolling back transaction: %w (original error: %v)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("committing transaction: %w", err)
	}

	return nil
}

// Stores holds all store instances backed by one database
type Stores struct {
	Answers *AnswerStore
	Profile *ProfileStore
}

// NewStores creates all store instances
func NewStores(db *DB) *Stores {
	return &Stores{
		Answers: NewAnswerStore(db),
		Profile: NewProfileStore(db),
	}
}
