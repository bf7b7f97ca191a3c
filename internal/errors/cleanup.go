// Package errors provides cleanup helpers that log instead of dropping errors.
package errors

import (
	"database/sql"
	"io"

	"github.com/rs/zerolog"
)

// DeferClose closes an io.Closer and logs a failure at warn level.
// Use this in defer statements to avoid suppressing close errors.
func DeferClose(logger zerolog.Logger, closer io.Closer, msg string) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logger.Warn().Err(err).Msg(msg)
	}
}

// DeferRowsClose closes a result set and logs both close and iteration errors.
// Iteration errors are normally checked by the caller; this catches the paths
// that return early.
func DeferRowsClose(logger zerolog.Logger, rows *sql.Rows) {
	if rows == nil {
		return
	}
	if err := rows.Close(); err != nil {
		logger.Warn().Err(err).Msg("failed to close result set")
	}
}
