// Package filter turns a FilterSpec into a single executable SELECT statement.
//
// Predicates are always emitted in the same order regardless of how the FilterSpec
// was assembled: the greater-than family, the less-than family, the range,
// and finally the null check. The same FilterSpec therefore always produces
// byte-identical SQL.
//
// Ranges are exclusive on both ends and written "low,high":
//
//	FilterSpec{Table: "orders", Column: "amount", Within: &Range{Low: 0, High: 50}}
//	// SELECT * FROM "orders" WHERE "amount" > 0 AND "amount" < 50
package filter

import (
	"fmt"

	"github.com/coral-mesh/sqlcmd/internal/query"
)

// SQLText is a finished, executable SQL statement.
type SQLText string

// String implements fmt.Stringer.
func (s SQLText) String() string {
	return string(s)
}

// Range bounds a column on both sides, exclusive.
type Range struct {
	Low  float64
	High float64
}

// FilterSpec is the normalized set of optional constraints for one column of one table.
// Nil pointers mean the constraint is not set.
type FilterSpec struct {
	Schema string
	Table  string
	Column string

	GreaterThan    *float64
	GreaterOrEqual *float64
	LessThan       *float64
	LessOrEqual    *float64
	Within         *Range
	RequireNotNull bool
}

// Float returns a pointer to v, for filling optional FilterSpec bounds.
func Float(v float64) *float64 {
	return &v
}

// HasConstraints reports whether any predicate would be emitted.
func (s FilterSpec) HasConstraints() bool {
	return s.GreaterThan != nil || s.GreaterOrEqual != nil ||
		s.LessThan != nil || s.LessOrEqual != nil ||
		s.Within != nil || s.RequireNotNull
}

// Build validates spec and renders it as SELECT * FROM <table> [WHERE ...].
// It returns *InvalidFilterError when the FilterSpec is inconsistent; no SQL is
// produced in that case.
func Build(spec FilterSpec) (SQLText, error) {
	if err := spec.Validate(); err != nil {
		return "", err
	}
	return render(spec)
}

// render writes the predicates of a validated FilterSpec.
func render(spec FilterSpec) (SQLText, error) {
	b := query.NewQueryBuilder(spec.Table).From(spec.Schema, spec.Table)

	switch {
	case spec.GreaterThan != nil:
		b = b.Gt(spec.Column, *spec.GreaterThan)
	case spec.GreaterOrEqual != nil:
		b = b.Gte(spec.Column, *spec.GreaterOrEqual)
	}

	switch {
	case spec.LessThan != nil:
		b = b.Lt(spec.Column, *spec.LessThan)
	case spec.LessOrEqual != nil:
		b = b.Lte(spec.Column, *spec.LessOrEqual)
	}

	if spec.Within != nil {
		b = b.Gt(spec.Column, spec.Within.Low).Lt(spec.Column, spec.Within.High)
	}

	if spec.RequireNotNull {
		b = b.NotNull(spec.Column)
	}

	sql, _, err := b.Build()
	if err != nil {
		return "", fmt.Errorf("failed to build filter query: %w", err)
	}
	return SQLText(sql), nil
}
