// Package executor runs finished SQL statements and collects their rows.
package executor

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	sqlerrors "github.com/coral-mesh/sqlcmd/internal/errors"
	"github.com/coral-mesh/sqlcmd/internal/query"
)

// Queryer is the subset of *sql.DB the executor needs.
type Queryer interface {
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Result holds the rows returned by one statement.
type Result struct {
	// Query is the statement that produced the rows.
	Query   string
	Columns []string
	Rows    [][]any
	// Executed is false for dry runs, where only Query is set.
	Executed bool
}

// Executor runs statements against an explicitly supplied database handle.
type Executor struct {
	db      Queryer
	logger  zerolog.Logger
	timeout time.Duration
}

// New creates an executor. A zero timeout disables the per-query deadline.
// The logger is used as given; see logging.NewWithComponent.
func New(db Queryer, logger zerolog.Logger, timeout time.Duration) *Executor {
	return &Executor{
		db:      db,
		logger:  logger,
		timeout: timeout,
	}
}

// Query executes sqlText with args and returns all rows.
// []byte cells are converted to strings.
func (e *Executor) Query(ctx context.Context, sqlText string, args ...any) (*Result, error) {
	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	logger := e.logger.With().Str("query_id", uuid.New().String()).Logger()
	logger.Debug().Str("sql", query.InterpolateQuery(sqlText, args)).Msg("executing query")

	start := time.Now()
	rows, err := e.db.QueryContext(ctx, sqlText, args...)
	if err != nil {
		logger.Debug().Err(err).Msg("query failed")
		return nil, fmt.Errorf("query failed: %w", err)
	}
	defer sqlerrors.DeferRowsClose(logger, rows)

	columns, err := rows.Columns()
	if err != nil {
		return nil, fmt.Errorf("failed to get columns: %w", err)
	}

	result := &Result{
		Query:    sqlText,
		Columns:  columns,
		Rows:     make([][]any, 0),
		Executed: true,
	}

	for rows.Next() {
		values := make([]any, len(columns))
		valuePtrs := make([]any, len(columns))
		for i := range values {
			valuePtrs[i] = &values[i]
		}

		if err := rows.Scan(valuePtrs...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		for i, v := range values {
			if b, ok := v.([]byte); ok {
				values[i] = string(b)
			}
		}
		result.Rows = append(result.Rows, values)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read rows: %w", err)
	}

	logger.Debug().
		Int("rows", len(result.Rows)).
		Dur("duration", time.Since(start)).
		Msg("query finished")

	return result, nil
}
