// Package inspect lists tables and columns through information_schema.
package inspect

import (
	"context"
	"fmt"

	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/query"
)

// Runner executes a statement and returns its rows.
type Runner interface {
	Query(ctx context.Context, sqlText string, args ...any) (*executor.Result, error)
}

// Column describes one column of a table.
type Column struct {
	Name     string
	DataType string
	Nullable bool
	// Default is nil when the column has no default expression.
	Default *string
}

// Inspector reads schema metadata.
type Inspector struct {
	runner      Runner
	placeholder query.Placeholder
}

// New creates an inspector issuing parameters in the given placeholder style.
func New(runner Runner, placeholder query.Placeholder) *Inspector {
	return &Inspector{runner: runner, placeholder: placeholder}
}

// TableNames lists the tables and views of schema, ordered by name.
// An empty schema means the connection's current schema.
func (i *Inspector) TableNames(ctx context.Context, schema string) ([]string, error) {
	q, args, err := withSchema(query.NewQueryBuilder("tables").
		From("information_schema", "tables").
		Placeholders(i.placeholder).
		Select("table_name"), schema).
		OrderBy("table_name").
		Build()
	if err != nil {
		return nil, err
	}

	result, err := i.runner.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list tables: %w", err)
	}

	names := make([]string, 0, len(result.Rows))
	for _, row := range result.Rows {
		names = append(names, text(row[0]))
	}
	return names, nil
}

// Columns lists the columns of table in ordinal order.
func (i *Inspector) Columns(ctx context.Context, table, schema string) ([]Column, error) {
	if table == "" {
		return nil, fmt.Errorf("table name is required")
	}

	q, args, err := withSchema(query.NewQueryBuilder("columns").
		From("information_schema", "columns").
		Placeholders(i.placeholder).
		Select("column_name", "data_type", "is_nullable", "column_default").
		Eq("table_name", table), schema).
		OrderBy("ordinal_position").
		Build()
	if err != nil {
		return nil, err
	}

	result, err := i.runner.Query(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list columns: %w", err)
	}
	if len(result.Rows) == 0 {
		if schema != "" {
			return nil, fmt.Errorf("table %q not found in schema %q", table, schema)
		}
		return nil, fmt.Errorf("table %q not found", table)
	}

	columns := make([]Column, 0, len(result.Rows))
	for _, row := range result.Rows {
		col := Column{
			Name:     text(row[0]),
			DataType: text(row[1]),
			Nullable: text(row[2]) == "YES",
		}
		if row[3] != nil {
			def := text(row[3])
			col.Default = &def
		}
		columns = append(columns, col)
	}
	return columns, nil
}

func withSchema(b query.Builder, schema string) query.Builder {
	if schema == "" {
		return b.Where("table_schema = current_schema()")
	}
	return b.Eq("table_schema", schema)
}

func text(v any) string {
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
