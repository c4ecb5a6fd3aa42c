// Package sqlstore implements the repositories on top of sqlx. Queries are
// written with '?' placeholders and rebound for the active driver, so the same
// code runs on PostgreSQL (lib/pq) and SQLite (modernc).
package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/gdugdh24/matrimony-backend/internal/repository"
	"github.com/jmoiron/sqlx"
)

type txKey struct{}

type queryer interface {
	sqlx.ExtContext
	GetContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
	SelectContext(ctx context.Context, dest interface{}, query string, args ...interface{}) error
}

// conn returns the transaction bound to ctx, or db.
func conn(ctx context.Context, db *sqlx.DB) queryer {
	if tx, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return db
}

func get(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	q := conn(ctx, db)
	return q.GetContext(ctx, dest, q.Rebind(query), args...)
}

func selectAll(ctx context.Context, db *sqlx.DB, dest interface{}, query string, args ...interface{}) error {
	q := conn(ctx, db)
	return mapError(q.SelectContext(ctx, dest, q.Rebind(query), args...))
}

func exec(ctx context.Context, db *sqlx.DB, query string, args ...interface{}) (int64, error) {
	q := conn(ctx, db)
	result, err := q.ExecContext(ctx, q.Rebind(query), args...)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}

type transactor struct {
	db *sqlx.DB
}

func NewTransactor(db *sqlx.DB) repository.Transactor {
	return &transactor{db: db}
}

// WithinTx joins an existing transaction on ctx instead of nesting.
func (t *transactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) (err error) {
	if _, ok := ctx.Value(txKey{}).(*sqlx.Tx); ok {
		return fn(ctx)
	}

	tx, err := t.db.BeginTxx(ctx, &sql.TxOptions{})
	if err != nil {
		return mapError(fmt.Errorf("begin tx: %w", err))
	}

	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(context.WithValue(ctx, txKey{}, tx)); err != nil {
		_ = tx.Rollback()
		return err
	}

	if err := tx.Commit(); err != nil {
		return mapError(fmt.Errorf("commit tx: %w", err))
	}
	return nil
}
