// Package store keeps programs in SQLite, addressed by their digest.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
	"go.brendoncarroll.net/stdctx/logctx"
	"go.uber.org/zap"
	_ "modernc.org/sqlite"

	"github.com/vybium/vybium-circuit-vm/internal/vybium-circuit-vm/vm"
)

// ErrNotFound is returned by Get for an unknown digest
var ErrNotFound = errors.New("program not found")

const schema = `CREATE TABLE IF NOT EXISTS programs (
	digest BLOB NOT NULL,
	data BLOB NOT NULL,
	instructions INTEGER NOT NULL,
	created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,

	PRIMARY KEY(digest)
) WITHOUT ROWID, STRICT;`

// Entry describes a stored program
type Entry struct {
	Digest       vm.Digest
	Instructions int
}

// ProgramStore holds canonical program bytes keyed by digest
type ProgramStore struct {
	db              *sqlx.DB
	maxInstructions int
}

// Open opens (creating if needed) the store at path. ":memory:" gives a private in-process store.
func Open(ctx context.Context, path string, maxInstructions int) (*ProgramStore, error) {
	db, err := sqlx.Open("sqlite", path)
	if err != nil {
		return nil, err
	}
	if path == ":memory:" {
		// every connection would get its own database
		db.SetMaxOpenConns(1)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("setting up schema: %w", err)
	}
	return &ProgramStore{db: db, maxInstructions: maxInstructions}, nil
}

// Put stores p and returns its digest. Storing the same program twice is a no-op.
func (s *ProgramStore) Put(ctx context.Context, p *vm.Program) (vm.Digest, error) {
	raw, err := p.MarshalBinary()
	if err != nil {
		return vm.Digest{}, err
	}
	digest, err := p.Digest()
	if err != nil {
		return vm.Digest{}, err
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT INTO programs (digest, data, instructions) VALUES (?, ?, ?) ON CONFLICT DO NOTHING`,
		digest[:], raw, len(p.Instructions)); err != nil {
		return vm.Digest{}, err
	}
	logctx.Debug(ctx, "stored program", zap.Stringer("digest", digest), zap.Int("bytes", len(raw)))
	return digest, nil
}

// Get loads the program with the given digest, decoding and re-hashing it
func (s *ProgramStore) Get(ctx context.Context, digest vm.Digest) (*vm.Program, error) {
	var raw []byte
	err := s.db.GetContext(ctx, &raw, `SELECT data FROM programs WHERE digest = ?`, digest[:])
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, digest)
	}
	if err != nil {
		return nil, err
	}
	p, err := vm.UnmarshalProgram(raw, s.maxInstructions)
	if err != nil {
		return nil, err
	}
	actual, err := p.Digest()
	if err != nil {
		return nil, err
	}
	if actual != digest {
		return nil, fmt.Errorf("stored program %s hashes to %s", digest, actual)
	}
	return p, nil
}

// List returns every stored program, ordered by digest
func (s *ProgramStore) List(ctx context.Context) ([]Entry, error) {
	var rows []struct {
		Digest       []byte `db:"digest"`
		Instructions int    `db:"instructions"`
	}
	if err := s.db.SelectContext(ctx, &rows, `SELECT digest, instructions FROM programs ORDER BY digest`); err != nil {
		return nil, err
	}
	entries := make([]Entry, len(rows))
	for i, row := range rows {
		if len(row.Digest) != vm.DigestSize {
			return nil, fmt.Errorf("corrupt digest of %d bytes", len(row.Digest))
		}
		copy(entries[i].Digest[:], row.Digest)
		entries[i].Instructions = row.Instructions
	}
	return entries, nil
}

// Close releases the database
func (s *ProgramStore) Close() error {
	return s.db.Close()
}
