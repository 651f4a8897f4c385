// Package store persists survey definitions and responses. The central piece
// is the reconciliation engine in UpdateSurvey: it synchronizes an edited
// survey tree against the stored rows while keeping the identifiers of
// unchanged questions and options intact, because answer rows reference
// question ids directly.
package store

import (
	"context"
	"database/sql"
)

type Store struct {
	db *sql.DB
}

func New(db *sql.DB) *Store {
	return &Store{db: db}
}

// inTx runs fn inside a transaction: either every statement commits or the
// deferred rollback restores the pre-operation state.
func (s *Store) inTx(ctx context.Context, op string, fn func(tx *sql.Tx) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return storageErr(op+".begin_tx", err)
	}
	defer tx.Rollback()

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return storageErr(op+".commit", err)
	}
	return nil
}

func queryIDs(ctx context.Context, tx *sql.Tx, op, query string, args ...any) ([]int64, error) {
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, storageErr(op, err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, storageErr(op+".scan", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, storageErr(op, err)
	}
	return ids, nil
}
