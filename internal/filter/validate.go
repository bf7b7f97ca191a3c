package filter

import (
	"errors"
	"fmt"
	"math"
	"strings"

	"github.com/coral-mesh/sqlcmd/internal/query"
)

// Flag names used in error messages. They match the command-line flags of
// `sqlcmd test` so a message can be acted on directly.
const (
	FlagSchema         = "--schema"
	FlagTable          = "--table"
	FlagColumn         = "--column"
	FlagGreater        = "--greater"
	FlagGreaterOrEqual = "--greater-or-equal"
	FlagLessThan       = "--less-than"
	FlagLessOrEqual    = "--less-than-or-equal"
	FlagWithin         = "--within"
	FlagNoNulls        = "--no-nulls"
)

// InvalidFilterError reports a FilterSpec that cannot be rendered.
type InvalidFilterError struct {
	// Flags names the offending flags.
	Flags  []string
	Reason string
}

// Error implements the error interface.
func (e *InvalidFilterError) Error() string {
	if len(e.Flags) == 0 {
		return "invalid filter: " + e.Reason
	}
	return fmt.Sprintf("invalid filter (%s): %s", strings.Join(e.Flags, ", "), e.Reason)
}

func invalid(reason string, flags ...string) *InvalidFilterError {
	return &InvalidFilterError{Flags: flags, Reason: reason}
}

// IsInvalidFilter reports whether err is or wraps an *InvalidFilterError.
func IsInvalidFilter(err error) bool {
	var target *InvalidFilterError
	return errors.As(err, &target)
}

// Validate checks the invariants of spec. It returns the first violation.
func (s FilterSpec) Validate() error {
	if err := checkIdent(s.Table, FlagTable); err != nil {
		return err
	}
	if s.Schema != "" {
		if err := checkIdent(s.Schema, FlagSchema); err != nil {
			return err
		}
	}

	if !s.HasConstraints() {
		return nil
	}
	if s.Column == "" {
		return invalid("a column is required when filtering", FlagColumn)
	}
	if err := checkIdent(s.Column, FlagColumn); err != nil {
		return err
	}

	if s.GreaterThan != nil && s.GreaterOrEqual != nil {
		return invalid("only one lower bound may be given", FlagGreater, FlagGreaterOrEqual)
	}
	if s.LessThan != nil && s.LessOrEqual != nil {
		return invalid("only one upper bound may be given", FlagLessThan, FlagLessOrEqual)
	}

	bounds := []struct {
		flag  string
		value *float64
	}{
		{FlagGreater, s.GreaterThan},
		{FlagGreaterOrEqual, s.GreaterOrEqual},
		{FlagLessThan, s.LessThan},
		{FlagLessOrEqual, s.LessOrEqual},
	}
	for _, b := range bounds {
		if b.value != nil && !finite(*b.value) {
			return invalid("bound must be a finite number", b.flag)
		}
	}

	if r := s.Within; r != nil {
		if !finite(r.Low) || !finite(r.High) {
			return invalid("range bounds must be finite numbers", FlagWithin)
		}
		if r.Low > r.High {
			return invalid(fmt.Sprintf("range is inverted: low %s is greater than high %s",
				formatBound(r.Low), formatBound(r.High)), FlagWithin)
		}
	}

	return nil
}

func checkIdent(name, flag string) error {
	if _, err := query.QuoteIdent(name); err != nil {
		return invalid(err.Error(), flag)
	}
	return nil
}

func finite(v float64) bool {
	return !math.IsNaN(v) && !math.IsInf(v, 0)
}

func formatBound(v float64) string {
	s, err := query.FormatNumber(v)
	if err != nil {
		return fmt.Sprint(v)
	}
	return s
}
