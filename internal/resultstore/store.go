// Package resultstore keeps exported time histories in a SQLite database so
// they can be queried without reloading the simulation.
package resultstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// ErrNotFound is returned when a series id is not in the store.
var ErrNotFound = errors.New("resultstore: series not found")

const schema = `
CREATE TABLE IF NOT EXISTS series (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	source TEXT NOT NULL,
	object TEXT NOT NULL,
	variable TEXT NOT NULL,
	period TEXT NOT NULL,
	node INTEGER NOT NULL DEFAULT 0,
	engine_version TEXT NOT NULL DEFAULT '',
	created_at DATETIME NOT NULL
);
CREATE TABLE IF NOT EXISTS samples (
	series_id INTEGER NOT NULL REFERENCES series(id) ON DELETE CASCADE,
	idx INTEGER NOT NULL,
	time REAL NOT NULL,
	value REAL NOT NULL,
	PRIMARY KEY (series_id, idx)
);
CREATE INDEX IF NOT EXISTS series_lookup ON series(source, object, variable);
`

// Series is one exported time history.
type Series struct {
	ID            int64
	Source        string
	Object        string
	Variable      string
	Period        string
	Node          int
	EngineVersion string
	Created       time.Time
	Times         []float64
	Values        []float64
}

// Store is a handle on a results database.
type Store struct {
	db *sql.DB
}

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	if dir := filepath.Dir(path); dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("resultstore: create directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("resultstore: open %s: %w", path, err)
	}
	// One connection keeps PRAGMA foreign_keys in effect for every statement.
	db.SetMaxOpenConns(1)
	s := &Store{db: db}
	if err := s.init(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *Store) init() error {
	if _, err := s.db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		return fmt.Errorf("resultstore: %w", err)
	}
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("resultstore: create schema: %w", err)
	}
	return nil
}

// Close closes the database.
func (s *Store) Close() error { return s.db.Close() }

// Save writes ser in one transaction and returns its id.
func (s *Store) Save(ctx context.Context, ser Series) (int64, error) {
	if len(ser.Times) != len(ser.Values) {
		return 0, fmt.Errorf("resultstore: %d times for %d values", len(ser.Times), len(ser.Values))
	}
	if ser.Created.IsZero() {
		ser.Created = time.Now().UTC()
	}
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO series (source, object, variable, period, node, engine_version, created_at) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		ser.Source, ser.Object, ser.Variable, ser.Period, ser.Node, ser.EngineVersion, ser.Created)
	if err != nil {
		return 0, fmt.Errorf("resultstore: insert series: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, err
	}

	stmt, err := tx.PrepareContext(ctx, `INSERT INTO samples (series_id, idx, time, value) VALUES (?, ?, ?, ?)`)
	if err != nil {
		return 0, err
	}
	defer stmt.Close()
	for i := range ser.Times {
		if _, err := stmt.ExecContext(ctx, id, i, ser.Times[i], ser.Values[i]); err != nil {
			return 0, fmt.Errorf("resultstore: insert sample %d: %w", i, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return 0, err
	}
	return id, nil
}

// Load reads a series with its samples.
func (s *Store) Load(ctx context.Context, id int64) (Series, error) {
	ser := Series{ID: id}
	err := s.db.QueryRowContext(ctx,
		`SELECT source, object, variable, period, node, engine_version, created_at FROM series WHERE id = ?`, id).
		Scan(&ser.Source, &ser.Object, &ser.Variable, &ser.Period, &ser.Node, &ser.EngineVersion, &ser.Created)
	if errors.Is(err, sql.ErrNoRows) {
		return Series{}, fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	if err != nil {
		return Series{}, err
	}

	rows, err := s.db.QueryContext(ctx, `SELECT time, value FROM samples WHERE series_id = ? ORDER BY idx`, id)
	if err != nil {
		return Series{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var t, v float64
		if err := rows.Scan(&t, &v); err != nil {
			return Series{}, err
		}
		ser.Times = append(ser.Times, t)
		ser.Values = append(ser.Values, v)
	}
	return ser, rows.Err()
}

// List returns the stored series without samples, newest first. Empty
// filter fields match everything.
func (s *Store) List(ctx context.Context, source, object, variable string) ([]Series, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, source, object, variable, period, node, engine_version, created_at FROM series
		WHERE (? = '' OR source = ?) AND (? = '' OR object = ?) AND (? = '' OR variable = ?)
		ORDER BY id DESC`,
		source, source, object, object, variable, variable)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	var out []Series
	for rows.Next() {
		var ser Series
		if err := rows.Scan(&ser.ID, &ser.Source, &ser.Object, &ser.Variable, &ser.Period, &ser.Node, &ser.EngineVersion, &ser.Created); err != nil {
			return nil, err
		}
		out = append(out, ser)
	}
	return out, rows.Err()
}

// Delete removes a series and its samples.
func (s *Store) Delete(ctx context.Context, id int64) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM series WHERE id = ?`, id)
	if err != nil {
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return fmt.Errorf("%w: %d", ErrNotFound, id)
	}
	return nil
}
