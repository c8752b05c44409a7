// Package store keeps saved designs in a SQLite database.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	_ "github.com/ncruces/go-sqlite3/driver"
	_ "github.com/ncruces/go-sqlite3/embed"

	"github.com/piwi3910/ClosetCraft/internal/model"
)

// ErrNotFound is returned when no design has the requested ID.
var ErrNotFound = errors.New("design not found")

const schema = `
CREATE TABLE IF NOT EXISTS designs (
    id         TEXT PRIMARY KEY,
    name       TEXT NOT NULL,
    family     TEXT NOT NULL,
    data       TEXT NOT NULL,
    created_at TEXT NOT NULL,
    updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS designs_updated ON designs (updated_at);
`

// OpenSQLite opens the database at path, creating its directory. Writes are
// serialised over a single connection.
func OpenSQLite(path string) (*sql.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create db dir: %w", err)
	}
	dsn := fmt.Sprintf("file:%s?mode=rwc&_pragma=busy_timeout(5000)", path)
	db, err := sql.Open("sqlite3", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open db: %w", err)
	}
	db.SetMaxOpenConns(1)
	return db, nil
}

// Designs is the design table.
type Designs struct {
	db *sql.DB
}

// New wraps db. Call Init before first use.
func New(db *sql.DB) *Designs {
	return &Designs{db: db}
}

// Open opens the database at path and prepares the schema.
func Open(ctx context.Context, path string) (*Designs, error) {
	db, err := OpenSQLite(path)
	if err != nil {
		return nil, err
	}
	d := New(db)
	if err := d.Init(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Init creates the schema if it does not exist.
func (s *Designs) Init(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, schema); err != nil {
		return fmt.Errorf("failed to apply schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Designs) Close() error {
	return s.db.Close()
}

// Put inserts d or replaces the design with the same ID.
func (s *Designs) Put(ctx context.Context, d model.Design) error {
	if d.ID == "" {
		return errors.New("design has no ID")
	}
	data, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("failed to marshal design: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
        INSERT INTO designs (id, name, family, data, created_at, updated_at)
        VALUES (?, ?, ?, ?, ?, ?)
        ON CONFLICT(id) DO UPDATE SET
            name = excluded.name,
            family = excluded.family,
            data = excluded.data,
            updated_at = excluded.updated_at
    `, d.ID, d.Name, d.Family, string(data), d.CreatedAt, d.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to save design %s: %w", d.ID, err)
	}
	return nil
}

// Get returns the design with the given ID.
func (s *Designs) Get(ctx context.Context, id string) (model.Design, error) {
	var data string
	err := s.db.QueryRowContext(ctx, `SELECT data FROM designs WHERE id = ?`, id).Scan(&data)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return model.Design{}, fmt.Errorf("%w: %s", ErrNotFound, id)
		}
		return model.Design{}, fmt.Errorf("failed to load design %s: %w", id, err)
	}
	return decode(data)
}

// List returns all designs, most recently updated first.
func (s *Designs) List(ctx context.Context) ([]model.Design, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT data FROM designs ORDER BY updated_at DESC, name`)
	if err != nil {
		return nil, fmt.Errorf("failed to list designs: %w", err)
	}
	defer rows.Close()

	designs := []model.Design{}
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("failed to read design: %w", err)
		}
		d, err := decode(data)
		if err != nil {
			return nil, err
		}
		designs = append(designs, d)
	}
	return designs, rows.Err()
}

// Delete removes the design with the given ID.
func (s *Designs) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM designs WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %w", id, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete design %s: %w", id, err)
	}
	if n == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return nil
}

// ImportStore saves every design of ds, replacing designs with the same ID.
func (s *Designs) ImportStore(ctx context.Context, ds model.DesignStore) error {
	for _, d := range ds.Designs {
		if err := s.Put(ctx, d); err != nil {
			return err
		}
	}
	return nil
}

// ExportStore returns all designs as a DesignStore for file backups.
func (s *Designs) ExportStore(ctx context.Context) (model.DesignStore, error) {
	designs, err := s.List(ctx)
	if err != nil {
		return model.DesignStore{}, err
	}
	return model.DesignStore{Designs: designs}, nil
}

func decode(data string) (model.Design, error) {
	var d model.Design
	if err := json.Unmarshal([]byte(data), &d); err != nil {
		return model.Design{}, fmt.Errorf("failed to decode design: %w", err)
	}
	return d, nil
}
