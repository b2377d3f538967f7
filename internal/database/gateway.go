// Package database owns every interaction with MySQL. The Gateway is the
// sole execution path for repositories: each call runs one statement (or one
// batch) inside its own transaction with a per-statement timeout, commits on
// success, rolls back on any failure, and reclassifies driver errors into
// the apperr taxonomy before they propagate. Statements only ever carry
// parameter placeholders; values are always bound, never spliced into SQL
// text.
package database

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/rs/zerolog"

	"github.com/iliyamo/hospital-management/internal/apperr"
)

// MySQL server error numbers the gateway understands.
const (
	mysqlErrDupEntry = 1062 // unique constraint violation
	mysqlErrRowIsRef = 1451 // parent row still referenced
	mysqlErrNoRefRow = 1452 // foreign key points at a missing row
)

// defaultTimeout bounds every statement. Caller cancellation and the cap
// both propagate into the driver through the context.
const defaultTimeout = 5 * time.Second

// Statement pairs a parameterized query with its bound arguments, for batch
// execution.
type Statement struct {
	Query string
	Args  []any
}

// Result reports the outcome of a write.
type Result struct {
	LastInsertID int64
	RowsAffected int64
}

// Gateway wraps the connection pool. Zero cross-request state beyond the
// pool itself; safe for concurrent use.
type Gateway struct {
	db      *sql.DB
	timeout time.Duration
	log     zerolog.Logger
}

// NewGateway builds a Gateway over an open pool.
func NewGateway(db *sql.DB, log zerolog.Logger) *Gateway {
	return &Gateway{db: db, timeout: defaultTimeout, log: log}
}

// One executes query and scans the first row into dest. It returns
// sql.ErrNoRows when the result set is empty; repositories translate that
// into a NotFound of their own resource.
func (g *Gateway) One(ctx context.Context, query string, args []any, dest ...any) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return g.classify(query, err)
	}
	err = tx.QueryRowContext(ctx, query, args...).Scan(dest...)
	if err != nil {
		_ = tx.Rollback()
		if errors.Is(err, sql.ErrNoRows) {
			return sql.ErrNoRows
		}
		return g.classify(query, err)
	}
	if err := tx.Commit(); err != nil {
		return g.classify(query, err)
	}
	return nil
}

// All executes query and invokes scan once per row, in result order.
func (g *Gateway) All(ctx context.Context, query string, args []any, scan func(rows *sql.Rows) error) error {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return g.classify(query, err)
	}
	rows, err := tx.QueryContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return g.classify(query, err)
	}
	for rows.Next() {
		if err := scan(rows); err != nil {
			rows.Close()
			_ = tx.Rollback()
			return g.classify(query, err)
		}
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		_ = tx.Rollback()
		return g.classify(query, err)
	}
	rows.Close()
	if err := tx.Commit(); err != nil {
		return g.classify(query, err)
	}
	return nil
}

// Exec runs a single write statement and reports its result.
func (g *Gateway) Exec(ctx context.Context, query string, args ...any) (Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return Result{}, g.classify(query, err)
	}
	res, err := tx.ExecContext(ctx, query, args...)
	if err != nil {
		_ = tx.Rollback()
		return Result{}, g.classify(query, err)
	}
	if err := tx.Commit(); err != nil {
		return Result{}, g.classify(query, err)
	}
	var out Result
	out.LastInsertID, _ = res.LastInsertId()
	out.RowsAffected, _ = res.RowsAffected()
	return out, nil
}

// ExecBatch runs every statement under one transaction, atomically: the
// first failure rolls back everything executed before it. On success it
// returns one Result per statement, in order, so callers can inspect
// row counts and insert ids without a second round trip.
func (g *Gateway) ExecBatch(ctx context.Context, stmts []Statement) ([]Result, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	tx, err := g.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, g.classify("batch", err)
	}
	out := make([]Result, 0, len(stmts))
	for _, s := range stmts {
		res, err := tx.ExecContext(ctx, s.Query, s.Args...)
		if err != nil {
			_ = tx.Rollback()
			return nil, g.classify(s.Query, err)
		}
		var r Result
		r.LastInsertID, _ = res.LastInsertId()
		r.RowsAffected, _ = res.RowsAffected()
		out = append(out, r)
	}
	if err := tx.Commit(); err != nil {
		return nil, g.classify("batch", err)
	}
	return out, nil
}

// classify logs the raw driver error and translates it into the taxonomy.
// Clients only ever see the classified message.
func (g *Gateway) classify(query string, err error) error {
	g.log.Error().Err(err).Str("query", query).Msg("statement failed")
	return Classify(err)
}

// Classify maps a driver error onto the apperr taxonomy. Exported so tests
// can exercise the mapping without a live database.
func Classify(err error) error {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		switch me.Number {
		case mysqlErrDupEntry:
			return apperr.Duplicate("Record")
		case mysqlErrRowIsRef, mysqlErrNoRefRow:
			return apperr.Database("Referenced record does not exist", err)
		}
	}
	return apperr.Database("Database error occurred", err)
}
