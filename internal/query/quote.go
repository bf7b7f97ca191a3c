package query

import (
	"errors"
	"math"
	"strconv"
	"strings"
)

var (
	// ErrEmptyIdentifier is returned when a table or column name is empty.
	ErrEmptyIdentifier = errors.New("identifier must not be empty")
	// ErrInvalidIdentifier is returned when an identifier cannot be quoted safely.
	ErrInvalidIdentifier = errors.New("identifier contains a NUL byte")
	// ErrNonFiniteNumber is returned for NaN and infinite literals.
	ErrNonFiniteNumber = errors.New("number must be finite")
)

// QuoteIdent double-quotes an identifier, doubling any embedded quotes.
func QuoteIdent(name string) (string, error) {
	if name == "" {
		return "", ErrEmptyIdentifier
	}
	if strings.IndexByte(name, 0) >= 0 {
		return "", ErrInvalidIdentifier
	}
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`, nil
}

// QualifiedName quotes table, prefixed by the quoted schema when one is given.
func QualifiedName(schema, table string) (string, error) {
	t, err := QuoteIdent(table)
	if err != nil {
		return "", err
	}
	if schema == "" {
		return t, nil
	}
	s, err := QuoteIdent(schema)
	if err != nil {
		return "", err
	}
	return s + "." + t, nil
}

// FormatNumber renders v as the shortest decimal literal that round-trips.
// Example: 100 -> "100", 0.25 -> "0.25", 1e6 -> "1000000".
func FormatNumber(v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", ErrNonFiniteNumber
	}
	if v == 0 {
		// Drop the sign of negative zero.
		v = 0
	}
	return strconv.FormatFloat(v, 'f', -1, 64), nil
}
