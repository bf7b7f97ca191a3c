package config

import (
	"fmt"
	"net"
	"slices"
	"strings"
)

var (
	validDrivers   = []string{"duckdb", "postgres", "postgresql", "pgx"}
	validFormats   = []string{"table", "pretty", "csv", "json"}
	validLogLevels = []string{"trace", "debug", "info", "warn", "error"}
)

// ValidationError represents a single validation error.
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// MultiValidationError represents multiple validation errors.
type MultiValidationError struct {
	Errors []ValidationError
}

// Error implements the error interface.
func (e *MultiValidationError) Error() string {
	if len(e.Errors) == 0 {
		return "no validation errors"
	}

	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}

	var builder strings.Builder
	builder.WriteString(fmt.Sprintf("validation failed with %d errors:\n", len(e.Errors)))
	for i, err := range e.Errors {
		builder.WriteString(fmt.Sprintf("  %d. %s\n", i+1, err.Error()))
	}
	return builder.String()
}

// Validate validates Config.
func (c *Config) Validate() error {
	var errors []ValidationError

	if !slices.Contains(validDrivers, strings.ToLower(c.Database.Driver)) {
		errors = append(errors, ValidationError{
			Field:   "database.driver",
			Message: fmt.Sprintf("unsupported driver %q (must be one of %s)", c.Database.Driver, strings.Join(validDrivers, ", ")),
		})
	}

	if c.Database.QueryTimeout < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.query_timeout",
			Message: "query timeout must not be negative",
		})
	}

	if c.Database.ConnectAttempts < 0 {
		errors = append(errors, ValidationError{
			Field:   "database.connect_attempts",
			Message: "connect attempts must not be negative",
		})
	}

	if !slices.Contains(validFormats, c.Output.Format) {
		errors = append(errors, ValidationError{
			Field:   "output.format",
			Message: fmt.Sprintf("invalid format %q (must be one of %s)", c.Output.Format, strings.Join(validFormats, ", ")),
		})
	}

	if !slices.Contains(validLogLevels, c.Logging.Level) {
		errors = append(errors, ValidationError{
			Field:   "logging.level",
			Message: fmt.Sprintf("invalid level %q (must be one of %s)", c.Logging.Level, strings.Join(validLogLevels, ", ")),
		})
	}

	if c.Server.ListenAddr != "" {
		if _, _, err := net.SplitHostPort(c.Server.ListenAddr); err != nil {
			errors = append(errors, ValidationError{
				Field:   "server.listen_addr",
				Message: fmt.Sprintf("invalid address: %v", err),
			})
		}
	}

	if len(errors) > 0 {
		return &MultiValidationError{Errors: errors}
	}
	return nil
}
