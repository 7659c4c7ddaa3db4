package orm

import (
	"context"
	"database/sql"
	"errors"

	"go.uber.org/multierr"
)

// Querier is the common interface for DB and Tx.
// Mappers accept this so that the same mapper works inside and outside a
// transaction.
type Querier interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	Dialect() Dialect
}

// Logger is the interface for query logging.
type Logger interface {
	Log(ctx context.Context, query string, args ...any)
}

// DB wraps *sql.DB with a Dialect and satisfies Querier.
type DB struct {
	raw    *sql.DB
	d      Dialect
	logger Logger
}

// New wraps a *sql.DB with the given Dialect.
func New(db *sql.DB, d Dialect) *DB {
	return &DB{raw: db, d: d}
}

// Debug returns a new *DB that logs every query using the given Logger.
// The original DB is not modified.
func (db *DB) Debug(l Logger) *DB {
	return &DB{raw: db.raw, d: db.d, logger: l}
}

func (db *DB) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if db.logger != nil {
		db.logger.Log(ctx, query, args...)
	}
	return db.raw.QueryContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

func (db *DB) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if db.logger != nil {
		db.logger.Log(ctx, query, args...)
	}
	return db.raw.ExecContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

// Begin starts a transaction.
func (db *DB) Begin(ctx context.Context) (*Tx, error) {
	tx, err := db.raw.BeginTx(ctx, nil)
	if err != nil {
		return nil, err //nolint:wrapcheck // thin wrapper
	}
	return &Tx{raw: tx, parent: db.raw, d: db.d, logger: db.logger}, nil
}

// Transaction executes fn within a transaction.
// If fn returns nil the transaction is committed.
// If fn returns an error or panics the transaction is rolled back; a failed
// rollback is reported together with the original error.
func (db *DB) Transaction(ctx context.Context, fn func(tx *Tx) error) error {
	tx, err := db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() {
		if p := recover(); p != nil {
			_ = tx.Rollback()
			panic(p)
		}
	}()
	if err := fn(tx); err != nil {
		// database/sql already rolled back when ctx was cancelled
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			return multierr.Append(err, rbErr)
		}
		return err
	}
	return tx.Commit()
}

// SQL returns the underlying *sql.DB.
func (db *DB) SQL() *sql.DB { return db.raw }

// Close closes the underlying *sql.DB.
func (db *DB) Close() error { return db.raw.Close() } //nolint:wrapcheck // thin wrapper

// Dialect returns the Dialect the DB was opened with.
func (db *DB) Dialect() Dialect { return db.d }

// Tx wraps *sql.Tx with a Dialect and satisfies Querier.
type Tx struct {
	raw    *sql.Tx
	parent *sql.DB
	d      Dialect
	logger Logger
}

func (tx *Tx) QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error) {
	if tx.logger != nil {
		tx.logger.Log(ctx, query, args...)
	}
	return tx.raw.QueryContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

func (tx *Tx) ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx.logger != nil {
		tx.logger.Log(ctx, query, args...)
	}
	return tx.raw.ExecContext(ctx, query, args...) //nolint:wrapcheck // thin wrapper
}

// Commit commits the transaction.
func (tx *Tx) Commit() error { return tx.raw.Commit() } //nolint:wrapcheck // thin wrapper

// Rollback rolls back the transaction.
func (tx *Tx) Rollback() error { return tx.raw.Rollback() } //nolint:wrapcheck // thin wrapper

// Dialect returns the Dialect of the DB that started the transaction.
func (tx *Tx) Dialect() Dialect { return tx.d }

// StartedBy reports whether q is the DB (or a Debug copy of it) that began
// the transaction.
func (tx *Tx) StartedBy(q Querier) bool {
	db, ok := q.(*DB)
	return ok && db.raw == tx.parent
}
