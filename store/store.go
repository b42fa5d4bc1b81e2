// SPDX-License-Identifier: MIT
// Package: lvsparse/store
//
// Purpose:
//  - Persist packed tensors in SQLite as deterministic CBOR snapshots.
//
// Layout:
//  One row per tensor: uuid id, free-form name, the (pointer, index, value)
//  kind, rank, value count, the snapshot blob and a creation timestamp.
//
// Concurrency:
//  - mu guards closed and db; the database handle is itself safe for
//    concurrent use.
//
// AI-Hints:
//  - Load verifies the restored tensor; a row that fails verification is
//    reported as sparse.ErrCorrupt, never returned.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
	_ "modernc.org/sqlite" // SQLite driver

	"github.com/katalvlaran/lvsparse/sparse"
)

// MemoryPath opens a private in-memory database.
const MemoryPath = ":memory:"

const schema = `
CREATE TABLE IF NOT EXISTS tensors (
	id         TEXT PRIMARY KEY,
	name       TEXT NOT NULL,
	ptr_type   INTEGER NOT NULL,
	idx_type   INTEGER NOT NULL,
	val_type   INTEGER NOT NULL,
	rank       INTEGER NOT NULL,
	nnz        INTEGER NOT NULL,
	snapshot   BLOB NOT NULL,
	created_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tensors_name ON tensors(name);
CREATE INDEX IF NOT EXISTS idx_tensors_created_at ON tensors(created_at);
`

// Record describes one stored tensor.
type Record struct {
	ID        uuid.UUID
	Name      string
	Kind      sparse.Kind
	Rank      int
	NumValues int
	CreatedAt time.Time
}

// Store is a SQLite-backed tensor repository.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
	path   string
	logger *zap.SugaredLogger
	enc    cbor.EncMode
	dec    cbor.DecMode
}

// Option configures a Store.
type Option func(*Store)

// WithLogger routes store events to l. Panics on nil.
func WithLogger(l *zap.SugaredLogger) Option {
	if l == nil {
		panic("store: WithLogger: logger must be non-nil")
	}

	return func(s *Store) { s.logger = l }
}

// Open opens (creating if needed) the database at path and its schema.
func Open(ctx context.Context, path string, opts ...Option) (*Store, error) {
	s := &Store{path: path, logger: zap.NewNop().Sugar()}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}

	var err error
	if s.enc, err = cbor.CoreDetEncOptions().EncMode(); err != nil {
		return nil, wrapError("open", err)
	}
	if s.dec, err = (cbor.DecOptions{}).DecMode(); err != nil {
		return nil, wrapError("open", err)
	}

	dsn := fmt.Sprintf("%s?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)&_pragma=synchronous(NORMAL)", path)
	if path == MemoryPath {
		dsn = path
	}
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, wrapError("open", fmt.Errorf("failed to open database: %w", err))
	}
	if path == MemoryPath {
		// Every connection to :memory: is a separate database.
		db.SetMaxOpenConns(1)
	} else {
		db.SetMaxOpenConns(8)
		db.SetMaxIdleConns(4)
		db.SetConnMaxLifetime(2 * time.Hour)
	}
	if _, err = db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, wrapError("open", fmt.Errorf("failed to create schema: %w", err))
	}
	s.db = db
	s.logger.Infow("store opened", "path", path)

	return s, nil
}

// Close releases the database. Further calls return ErrStoreClosed.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return wrapError("close", ErrStoreClosed)
	}
	s.closed = true
	s.logger.Infow("store closed", "path", s.path)

	return wrapError("close", s.db.Close())
}

// Save verifies t and stores its snapshot under a fresh id.
//
// Errors: ErrStoreClosed, ErrNilTensor, sparse.ErrCorrupt, database errors.
func (s *Store) Save(ctx context.Context, name string, t sparse.Tensor) (Record, error) {
	const op = "save"
	db, err := s.handle(op)
	if err != nil {
		return Record{}, err
	}
	if t == nil {
		return Record{}, wrapError(op, ErrNilTensor)
	}
	if err = t.Verify().Err(); err != nil {
		return Record{}, wrapError(op, err)
	}
	blob, err := s.enc.Marshal(t.Snapshot())
	if err != nil {
		return Record{}, wrapError(op, fmt.Errorf("failed to encode snapshot: %w", err))
	}

	rec := Record{
		ID:        uuid.New(),
		Name:      name,
		Kind:      t.Kind().Normalize(),
		Rank:      t.Rank(),
		NumValues: t.NumValues(),
		CreatedAt: time.Now().UTC(),
	}
	_, err = db.ExecContext(ctx,
		`INSERT INTO tensors (id, name, ptr_type, idx_type, val_type, rank, nnz, snapshot, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		rec.ID.String(), rec.Name, int(rec.Kind.Pointer), int(rec.Kind.Index), int(rec.Kind.Value),
		rec.Rank, rec.NumValues, blob, rec.CreatedAt.UnixNano())
	if err != nil {
		return Record{}, wrapError(op, err)
	}
	s.logger.Debugw("tensor saved", "id", rec.ID.String(), "name", name, "kind", rec.Kind.String(), "bytes", len(blob))

	return rec, nil
}

// Load restores the tensor stored under id.
//
// Errors: ErrStoreClosed, ErrNotFound, sparse.ErrCorrupt,
// sparse.ErrOverheadOverflow, decoding and database errors.
func (s *Store) Load(ctx context.Context, id uuid.UUID) (sparse.Tensor, Record, error) {
	const op = "load"
	db, err := s.handle(op)
	if err != nil {
		return nil, Record{}, err
	}
	row := db.QueryRowContext(ctx,
		`SELECT id, name, ptr_type, idx_type, val_type, rank, nnz, created_at, snapshot
		 FROM tensors WHERE id = ?`, id.String())
	var blob []byte
	rec, err := scanRecord(row, &blob)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, Record{}, wrapError(op, fmt.Errorf("%s: %w", id, ErrNotFound))
	}
	if err != nil {
		return nil, Record{}, wrapError(op, err)
	}

	var snap sparse.Snapshot
	if err = s.dec.Unmarshal(blob, &snap); err != nil {
		return nil, Record{}, wrapError(op, fmt.Errorf("failed to decode snapshot: %w", err))
	}
	t, err := sparse.Restore(snap)
	if err != nil {
		return nil, Record{}, wrapError(op, err)
	}
	if rec.Kind != t.Kind().Normalize() || rec.Rank != t.Rank() {
		return nil, Record{}, wrapError(op, fmt.Errorf("%s: row says %s rank %d, snapshot holds %s rank %d: %w",
			id, rec.Kind, rec.Rank, t.Kind(), t.Rank(), sparse.ErrCorrupt))
	}
	s.logger.Debugw("tensor loaded", "id", rec.ID.String(), "name", rec.Name, "kind", rec.Kind.String())

	return t, rec, nil
}

// List returns every record, oldest first.
func (s *Store) List(ctx context.Context) ([]Record, error) {
	const op = "list"
	db, err := s.handle(op)
	if err != nil {
		return nil, err
	}
	rows, err := db.QueryContext(ctx,
		`SELECT id, name, ptr_type, idx_type, val_type, rank, nnz, created_at
		 FROM tensors ORDER BY created_at, id`)
	if err != nil {
		return nil, wrapError(op, err)
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		rec, err := scanRecord(rows, nil)
		if err != nil {
			return nil, wrapError(op, err)
		}
		out = append(out, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, wrapError(op, err)
	}

	return out, nil
}

// Delete removes the tensor stored under id.
//
// Errors: ErrStoreClosed, ErrNotFound, database errors.
func (s *Store) Delete(ctx context.Context, id uuid.UUID) error {
	const op = "delete"
	db, err := s.handle(op)
	if err != nil {
		return err
	}
	res, err := db.ExecContext(ctx, `DELETE FROM tensors WHERE id = ?`, id.String())
	if err != nil {
		return wrapError(op, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return wrapError(op, err)
	}
	if n == 0 {
		return wrapError(op, fmt.Errorf("%s: %w", id, ErrNotFound))
	}
	s.logger.Infow("tensor deleted", "id", id.String())

	return nil
}

func (s *Store) handle(op string) (*sql.DB, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.closed {
		return nil, wrapError(op, ErrStoreClosed)
	}

	return s.db, nil
}

type scanner interface {
	Scan(dest ...any) error
}

// scanRecord reads the record columns, plus the snapshot when blob != nil.
func scanRecord(sc scanner, blob *[]byte) (Record, error) {
	var (
		rec           Record
		id            string
		ptr, idx, val int
		created       int64
	)
	dest := []any{&id, &rec.Name, &ptr, &idx, &val, &rec.Rank, &rec.NumValues, &created}
	if blob != nil {
		dest = append(dest, blob)
	}
	if err := sc.Scan(dest...); err != nil {
		return Record{}, err
	}
	parsed, err := uuid.Parse(id)
	if err != nil {
		return Record{}, fmt.Errorf("bad id %q: %w", id, err)
	}
	rec.ID = parsed
	rec.Kind = sparse.Kind{
		Pointer: sparse.OverheadType(ptr),
		Index:   sparse.OverheadType(idx),
		Value:   sparse.PrimaryType(val),
	}
	rec.CreatedAt = time.Unix(0, created).UTC()

	return rec, nil
}
