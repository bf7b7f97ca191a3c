package sqlcmd

import (
	"context"
	"sort"

	"github.com/spf13/pflag"

	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/filter"
)

// Command is one sqlcmd sub-command. A fresh value is used per invocation:
// Bind registers its flags, Run executes it once flags are parsed.
type Command interface {
	Bind(fs *pflag.FlagSet)
	Run(ctx context.Context, d *Dispatcher) (*executor.Result, error)
}

// OfflineCommand is a Command that may finish without a database once its
// flags are parsed.
type OfflineCommand interface {
	Command
	Offline() bool
}

// Info describes a registered command.
type Info struct {
	Name  string
	Short string
	New   func() Command
}

var registry = map[string]Info{
	"tables": {
		Name:  "tables",
		Short: "List the tables of a schema",
		New:   func() Command { return &TablesCommand{} },
	},
	"columns": {
		Name:  "columns",
		Short: "List the columns of a table",
		New:   func() Command { return &ColumnsCommand{} },
	},
	"test": {
		Name:  "test",
		Short: "Select the rows of a table whose column satisfies numeric constraints",
		New:   func() Command { return &TestCommand{} },
	},
}

// Names returns the registered command names, sorted.
func Names() []string {
	names := make([]string, 0, len(registry))
	for name := range registry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Commands returns the registered commands sorted by name.
func Commands() []Info {
	infos := make([]Info, 0, len(registry))
	for _, name := range Names() {
		infos = append(infos, registry[name])
	}
	return infos
}

// New returns a fresh command for name.
func New(name string) (Command, bool) {
	info, ok := registry[name]
	if !ok {
		return nil, false
	}
	return info.New(), true
}

// TablesCommand lists table names.
type TablesCommand struct {
	Schema string
}

// Bind implements Command.
func (c *TablesCommand) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Schema, "schema", "s", "", "Schema name (default: current schema)")
}

// Run implements Command.
func (c *TablesCommand) Run(ctx context.Context, d *Dispatcher) (*executor.Result, error) {
	names, err := d.inspector.TableNames(ctx, c.Schema)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(names))
	for i, name := range names {
		rows[i] = []any{name}
	}
	return &executor.Result{Columns: []string{"name"}, Rows: rows, Executed: true}, nil
}

// ColumnsCommand lists the columns of one table.
type ColumnsCommand struct {
	Table  string
	Schema string
}

// Bind implements Command.
func (c *ColumnsCommand) Bind(fs *pflag.FlagSet) {
	fs.StringVarP(&c.Table, "table", "t", "", "Table name (required)")
	fs.StringVarP(&c.Schema, "schema", "s", "", "Schema name (default: current schema)")
}

// Run implements Command.
func (c *ColumnsCommand) Run(ctx context.Context, d *Dispatcher) (*executor.Result, error) {
	if c.Table == "" {
		return nil, usagef("columns: the following arguments are required: -t/--table")
	}

	cols, err := d.inspector.Columns(ctx, c.Table, c.Schema)
	if err != nil {
		return nil, err
	}

	rows := make([][]any, len(cols))
	for i, col := range cols {
		var def any
		if col.Default != nil {
			def = *col.Default
		}
		rows[i] = []any{col.Name, col.DataType, col.Nullable, def}
	}
	return &executor.Result{
		Columns:  []string{"name", "type", "nullable", "default"},
		Rows:     rows,
		Executed: true,
	}, nil
}

// TestCommand selects the rows matching a FilterSpec.
// Numeric flags are kept as text so that malformed values surface as
// *filter.InvalidFilterError naming the flag.
type TestCommand struct {
	Schema         string
	Table          string
	Column         string
	Greater        string
	GreaterOrEqual string
	LessThan       string
	LessOrEqual    string
	Within         string
	NoNulls        bool
	DryRun         bool

	flags *pflag.FlagSet
}

// Bind implements Command.
func (c *TestCommand) Bind(fs *pflag.FlagSet) {
	c.flags = fs
	fs.StringVarP(&c.Table, "table", "t", "", "Table name (required)")
	fs.StringVarP(&c.Column, "column", "c", "", "Column to test (required with any constraint)")
	fs.StringVarP(&c.Schema, "schema", "s", "", "Schema name")
	fs.StringVar(&c.Greater, "greater", "", "Keep rows where column > N")
	fs.StringVar(&c.GreaterOrEqual, "greater-or-equal", "", "Keep rows where column >= N")
	fs.StringVar(&c.LessThan, "less-than", "", "Keep rows where column < N")
	fs.StringVar(&c.LessOrEqual, "less-than-or-equal", "", "Keep rows where column <= N")
	fs.StringVar(&c.Within, "within", "", "Keep rows where LOW < column < HIGH, given as LOW,HIGH")
	fs.BoolVar(&c.NoNulls, "no-nulls", false, "Keep rows where column IS NOT NULL")
	fs.BoolVar(&c.DryRun, "dry-run", false, "Print the SQL without executing it")
}

func (c *TestCommand) changed(name string) bool {
	return c.flags != nil && c.flags.Changed(name)
}

// Spec converts the parsed flags into a FilterSpec.
func (c *TestCommand) Spec() (filter.FilterSpec, error) {
	if c.Table == "" {
		return filter.FilterSpec{}, usagef("test: the following arguments are required: -t/--table")
	}

	spec := filter.FilterSpec{
		Schema:         c.Schema,
		Table:          c.Table,
		Column:         c.Column,
		RequireNotNull: c.NoNulls,
	}

	bounds := []struct {
		name string
		flag string
		text string
		dst  **float64
	}{
		{"greater", filter.FlagGreater, c.Greater, &spec.GreaterThan},
		{"greater-or-equal", filter.FlagGreaterOrEqual, c.GreaterOrEqual, &spec.GreaterOrEqual},
		{"less-than", filter.FlagLessThan, c.LessThan, &spec.LessThan},
		{"less-than-or-equal", filter.FlagLessOrEqual, c.LessOrEqual, &spec.LessOrEqual},
	}
	for _, b := range bounds {
		if !c.changed(b.name) && b.text == "" {
			continue
		}
		v, err := filter.ParseBound(b.flag, b.text)
		if err != nil {
			return filter.FilterSpec{}, err
		}
		*b.dst = filter.Float(v)
	}

	if c.changed("within") || c.Within != "" {
		r, err := filter.ParseRange(filter.FlagWithin, c.Within)
		if err != nil {
			return filter.FilterSpec{}, err
		}
		spec.Within = &r
	}

	return spec, nil
}

// Offline implements OfflineCommand; a dry run only renders SQL.
func (c *TestCommand) Offline() bool {
	return c.DryRun
}

// Run implements Command.
func (c *TestCommand) Run(ctx context.Context, d *Dispatcher) (*executor.Result, error) {
	spec, err := c.Spec()
	if err != nil {
		return nil, err
	}

	sqlText, err := filter.Build(spec)
	if err != nil {
		return nil, err
	}

	d.logger.Debug().Str("sql", sqlText.String()).Bool("dry_run", c.DryRun).Msg("built filter query")

	if c.DryRun {
		return &executor.Result{Query: sqlText.String()}, nil
	}
	return d.executor.Query(ctx, sqlText.String())
}
