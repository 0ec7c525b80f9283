// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package store is the SQL access layer for questionnaires, questions,
// options and answers.
package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"
)

var (
	ErrNotFound          = errors.New("not found")
	ErrReferenceNotFound = errors.New("referenced row does not exist")
)

// ReferenceError reports a foreign id that points at no row at write time
type ReferenceError struct {
	Entity string
	ID     int64
}

func (e *ReferenceError) Error() string {
	return fmt.Sprintf("%s %d does not exist", e.Entity, e.ID)
}

func (e *ReferenceError) Unwrap() error { return ErrReferenceNotFound }

// DBTX is satisfied by both *sql.DB and *sql.Tx
type DBTX interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// Store is the entity store for questionnaires, questions, options and answers.
// Queries use $N placeholders, which both lib/pq and modernc sqlite accept.
type Store struct {
	db *sql.DB // nil when bound to a transaction
	q  DBTX
}

func New(db *sql.DB) *Store {
	return &Store{db: db, q: db}
}

// InTx runs fn against a transaction-bound store. The transaction commits
// only if fn returns nil. Calling InTx on a store that is already inside a
// transaction reuses it.
func (s *Store) InTx(ctx context.Context, fn func(tx *Store) error) error {
	if s.db == nil {
		return fn(s)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	if err := fn(&Store{q: tx}); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

func (s *Store) exists(ctx context.Context, table string, id int64) (bool, error) {
	var exists bool
	err := s.q.QueryRowContext(ctx,
		"SELECT EXISTS(SELECT 1 FROM "+table+" WHERE id = $1)", id,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check %s %d: %w", table, id, err)
	}
	return exists, nil
}

// affectedOne turns a zero-row write into ErrNotFound
func affectedOne(res sql.Result, err error) error {
	if err != nil {
		return err
	}
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

// placeholders returns "$start, $start+1, ..." for n arguments
func placeholders(start, n int) string {
	var b strings.Builder
	for i := 0; i < n; i++ {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteByte('$')
		b.WriteString(strconv.Itoa(start + i))
	}
	return b.String()
}

func int64Args(ids []int64) []any {
	args := make([]any, len(ids))
	for i, id := range ids {
		args[i] = id
	}
	return args
}

// now is truncated to what postgres TIMESTAMPTZ keeps so the value handed back
// on create matches a later read.
func now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
