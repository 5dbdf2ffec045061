// Package store is the record store: keyed storage of JSON documents with
// secondary indexes, backed by SQLite.
//
// WHY SQLITE?
// The gallery is a single-client application. SQLite is embedded in the
// binary (modernc.org/sqlite is pure Go, no C compiler needed), keeps state
// in one file, and ":memory:" gives every test a fresh store.
//
// LAYOUT:
// Every table has the same shape:
//
//	seq  INTEGER PRIMARY KEY AUTOINCREMENT  -- insertion order
//	id   TEXT NOT NULL UNIQUE               -- opaque primary key (xid)
//	doc  TEXT NOT NULL                      -- the record as JSON
//
// Secondary indexes are SQLite expression indexes over
// json_extract(doc, '$.<field>'), declared in schema.go. Unique indexes are
// also checked explicitly inside the write transaction so a collision can be
// reported with the offending field name.
//
// The store knows nothing about record types beyond their JSON shape;
// validation and defaulting happen in the repositories.
package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/rs/xid"
	// Registers the "sqlite" driver with database/sql.
	_ "modernc.org/sqlite"

	"github.com/sakif/modelshare/internal/apperror"
)

// Store is an open record store. Construct it once in the entry point and
// pass it to the repositories.
type Store struct {
	conn   *sql.DB
	tables map[string]Table
}

// Open opens (or creates) the store at path and migrates the schema.
//
// path examples:
//   - "data/modelshare.db" → file-backed, persistent
//   - ":memory:"           → in-memory, lost on Close
func Open(path string) (*Store, error) {
	conn, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: opening database: %w", err)
	}

	// One connection: the gallery has a single writer, and an in-memory
	// database only exists on the connection that created it.
	conn.SetMaxOpenConns(1)

	if err := conn.Ping(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: pinging database: %w", err)
	}

	if _, err := conn.Exec("PRAGMA journal_mode=WAL"); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: setting WAL mode: %w", err)
	}

	s := &Store{conn: conn, tables: make(map[string]Table, len(Schema))}
	for _, t := range Schema {
		s.tables[t.Name] = t
	}

	if err := s.migrate(); err != nil {
		conn.Close()
		return nil, fmt.Errorf("store: running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	return s.conn.Close()
}

// NewID returns a fresh primary key. xid values embed a timestamp, machine
// id, pid and counter, so a key is never handed out twice.
func (s *Store) NewID() string {
	return xid.New().String()
}

func (s *Store) migrate() error {
	for _, t := range Schema {
		if _, err := s.conn.Exec(t.createSQL()); err != nil {
			return fmt.Errorf("creating %s table: %w", t.Name, err)
		}
		for _, idx := range t.Indexes {
			if _, err := s.conn.Exec(t.indexSQL(idx)); err != nil {
				return fmt.Errorf("creating index %s on %s: %w", idx.Name, t.Name, err)
			}
		}
	}
	return nil
}

func (s *Store) table(name string) (Table, error) {
	t, ok := s.tables[name]
	if !ok {
		return Table{}, fmt.Errorf("store: unknown table %q", name)
	}
	return t, nil
}

// Put inserts record under id, or overwrites the record already stored
// there. It fails with an apperror.ErrConflict error if a unique index value
// of record is held by a different id; nothing is written in that case.
func (s *Store) Put(ctx context.Context, table, id string, record any) error {
	t, err := s.table(table)
	if err != nil {
		return err
	}
	if id == "" {
		return fmt.Errorf("store: put into %s: empty id", table)
	}

	doc, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("store: encoding %s record %s: %w", table, id, err)
	}

	tx, err := s.conn.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: beginning transaction: %w", err)
	}
	// Rollback after a successful Commit is a no-op.
	defer tx.Rollback()

	for _, idx := range t.Indexes {
		if !idx.Unique {
			continue
		}
		if err := checkUnique(ctx, tx, t, idx, id, doc); err != nil {
			return err
		}
	}

	// ON CONFLICT keeps the original seq, so an overwrite does not move the
	// record in insertion order.
	_, err = tx.ExecContext(ctx,
		fmt.Sprintf(`INSERT INTO %s (id, doc) VALUES (?, ?)
			ON CONFLICT(id) DO UPDATE SET doc = excluded.doc`, t.Name),
		id, string(doc),
	)
	if err != nil {
		return fmt.Errorf("store: writing %s record %s: %w", table, id, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("store: committing %s record %s: %w", table, id, err)
	}
	return nil
}

func checkUnique(ctx context.Context, tx *sql.Tx, t Table, idx Index, id string, doc []byte) error {
	var (
		holder string
		value  sql.NullString
	)
	err := tx.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT id, json_extract(?, '$.%[2]s') FROM %[1]s
			WHERE json_extract(doc, '$.%[2]s') = json_extract(?, '$.%[2]s') AND id <> ?
			LIMIT 1`, t.Name, idx.Field),
		string(doc), string(doc), id,
	).Scan(&holder, &value)

	if errors.Is(err, sql.ErrNoRows) {
		return nil
	}
	if err != nil {
		return fmt.Errorf("store: checking %s index %s: %w", t.Name, idx.Name, err)
	}
	return apperror.Conflict(t.Name, idx.Field, value.String)
}

// Get loads the record stored under id into a new T. It returns (nil, nil)
// when no such record exists.
func Get[T any](ctx context.Context, s *Store, table, id string) (*T, error) {
	t, err := s.table(table)
	if err != nil {
		return nil, err
	}

	var doc string
	err = s.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT doc FROM %s WHERE id = ?`, t.Name), id,
	).Scan(&doc)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: getting %s record %s: %w", table, id, err)
	}

	var rec T
	if err := json.Unmarshal([]byte(doc), &rec); err != nil {
		return nil, fmt.Errorf("store: decoding %s record %s: %w", table, id, err)
	}
	return &rec, nil
}

// Delete removes the record stored under id. Deleting an id that does not
// exist is not an error.
func (s *Store) Delete(ctx context.Context, table, id string) error {
	t, err := s.table(table)
	if err != nil {
		return err
	}
	if _, err := s.conn.ExecContext(ctx,
		fmt.Sprintf(`DELETE FROM %s WHERE id = ?`, t.Name), id,
	); err != nil {
		return fmt.Errorf("store: deleting %s record %s: %w", table, id, err)
	}
	return nil
}

// Count returns the number of records in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	t, err := s.table(table)
	if err != nil {
		return 0, err
	}
	var n int
	if err := s.conn.QueryRowContext(ctx,
		fmt.Sprintf(`SELECT COUNT(*) FROM %s`, t.Name),
	).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: counting %s: %w", table, err)
	}
	return n, nil
}
