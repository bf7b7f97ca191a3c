package sqlcmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coral-mesh/sqlcmd/internal/filter"
)

// UsageError reports a malformed command line: a missing command, an unknown
// flag, a missing flag value or a missing required flag.
type UsageError struct {
	Message string
}

// Error implements the error interface.
func (e *UsageError) Error() string {
	return e.Message
}

// UnknownCommandError reports a first token that names no command.
type UnknownCommandError struct {
	Name string
}

// Error implements the error interface.
func (e *UnknownCommandError) Error() string {
	return fmt.Sprintf("%q is not a valid command for sqlcmd; valid commands are: %s",
		e.Name, strings.Join(Names(), ", "))
}

// IsUserError reports whether err was caused by the command line rather than
// by the database.
func IsUserError(err error) bool {
	var usage *UsageError
	var unknown *UnknownCommandError
	return errors.As(err, &usage) || errors.As(err, &unknown) || filter.IsInvalidFilter(err)
}

func usagef(format string, args ...any) *UsageError {
	return &UsageError{Message: fmt.Sprintf(format, args...)}
}
