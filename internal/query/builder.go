package query

import (
	"errors"
	"fmt"
	"slices"
	"strings"
)

// Placeholder selects how bound parameters are written in the generated SQL.
type Placeholder int

const (
	// Question writes every parameter as "?" (DuckDB, SQLite, MySQL).
	Question Placeholder = iota
	// Dollar writes parameters as "$1", "$2", ... (PostgreSQL).
	Dollar
)

// Builder constructs SELECT queries with a fluent API.
// The zero value is not usable; start from NewQueryBuilder.
type Builder struct {
	schema      string
	table       string
	columns     []string
	where       []whereClause
	orderBy     []string
	placeholder Placeholder
	err         error
}

// whereClause represents a WHERE condition.
type whereClause struct {
	expr string
	args []any
}

// NewQueryBuilder creates a new query builder for the specified table.
func NewQueryBuilder(table string) Builder {
	return Builder{table: table}
}

// From sets a schema-qualified table. An empty schema leaves the table unqualified.
func (b Builder) From(schema, table string) Builder {
	b.schema = schema
	b.table = table
	return b
}

// Placeholders sets the bound parameter style.
func (b Builder) Placeholders(p Placeholder) Builder {
	b.placeholder = p
	return b
}

// Select specifies the expressions to retrieve.
// Expressions are written verbatim, so Select takes trusted text only: never
// pass it a name that came from a flag or a request.
// Examples:
//
//	Select("table_name")
//	Select("column_name", "data_type", "is_nullable = 'YES' AS nullable")
func (b Builder) Select(columns ...string) Builder {
	b.columns = append(slices.Clip(b.columns), columns...)
	return b
}

// Where adds a custom WHERE clause with optional arguments.
// Multiple Where() calls are combined with AND.
// Examples:
//
//	Where("table_schema = ?", "main")
//	Where("table_schema = current_schema()")
func (b Builder) Where(expr string, args ...any) Builder {
	b.where = append(slices.Clip(b.where), whereClause{
		expr: expr,
		args: args,
	})
	return b
}

// Eq adds an equality filter on a quoted column.
// Generates: WHERE "column" = ?
// If value is empty string, the filter is skipped (wildcard behavior).
func (b Builder) Eq(column string, value any) Builder {
	if str, ok := value.(string); ok && str == "" {
		return b
	}
	col, err := QuoteIdent(column)
	if err != nil {
		return b.fail(err)
	}
	return b.Where(col+" = ?", value)
}

// Gt adds a > comparison against a numeric literal.
// Generates: WHERE "column" > 10
func (b Builder) Gt(column string, value float64) Builder {
	return b.compare(column, ">", value)
}

// Gte adds a >= comparison against a numeric literal.
// Generates: WHERE "column" >= 10
func (b Builder) Gte(column string, value float64) Builder {
	return b.compare(column, ">=", value)
}

// Lt adds a < comparison against a numeric literal.
// Generates: WHERE "column" < 10
func (b Builder) Lt(column string, value float64) Builder {
	return b.compare(column, "<", value)
}

// Lte adds a <= comparison against a numeric literal.
// Generates: WHERE "column" <= 10
func (b Builder) Lte(column string, value float64) Builder {
	return b.compare(column, "<=", value)
}

// NotNull adds a null check.
// Generates: WHERE "column" IS NOT NULL
func (b Builder) NotNull(column string) Builder {
	col, err := QuoteIdent(column)
	if err != nil {
		return b.fail(err)
	}
	return b.Where(col + " IS NOT NULL")
}

func (b Builder) compare(column, op string, value float64) Builder {
	col, err := QuoteIdent(column)
	if err != nil {
		return b.fail(err)
	}
	lit, err := FormatNumber(value)
	if err != nil {
		return b.fail(fmt.Errorf("%s %s: %w", column, op, err))
	}
	return b.Where(col + " " + op + " " + lit)
}

// OrderBy adds ascending ORDER BY columns. Each name is quoted.
// Example:
//
//	OrderBy("table_name") // ORDER BY "table_name"
func (b Builder) OrderBy(columns ...string) Builder {
	out := slices.Clip(b.orderBy)
	for _, col := range columns {
		quoted, err := QuoteIdent(col)
		if err != nil {
			return b.fail(err)
		}
		out = append(out, quoted)
	}
	b.orderBy = out
	return b
}

// fail records the first construction error; Build reports it.
func (b Builder) fail(err error) Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

// Build constructs the SQL query and returns the query string and arguments.
// Returns (query, args, error).
func (b Builder) Build() (string, []any, error) {
	if b.err != nil {
		return "", nil, b.err
	}
	if b.table == "" {
		return "", nil, errors.New("table name is required")
	}

	from, err := QualifiedName(b.schema, b.table)
	if err != nil {
		return "", nil, err
	}

	var query strings.Builder
	args := make([]any, 0)

	// SELECT clause.
	query.WriteString("SELECT ")
	if len(b.columns) == 0 {
		query.WriteString("*")
	} else {
		query.WriteString(strings.Join(b.columns, ", "))
	}

	// FROM clause.
	query.WriteString(" FROM ")
	query.WriteString(from)

	// WHERE clause.
	if len(b.where) > 0 {
		query.WriteString(" WHERE ")
		exprs := make([]string, len(b.where))
		for i, w := range b.where {
			exprs[i] = w.expr
			args = append(args, w.args...)
		}
		query.WriteString(strings.Join(exprs, " AND "))
	}

	// ORDER BY clause.
	if len(b.orderBy) > 0 {
		query.WriteString(" ORDER BY ")
		query.WriteString(strings.Join(b.orderBy, ", "))
	}

	sql := query.String()
	if b.placeholder == Dollar {
		sql = walkPlaceholders(sql, func(sb *strings.Builder, ordinal int, _ string) {
			fmt.Fprintf(sb, "$%d", ordinal)
		})
	}

	return sql, args, nil
}
