package sqlcmd

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/filter"
	"github.com/coral-mesh/sqlcmd/internal/inspect"
	"github.com/coral-mesh/sqlcmd/internal/testutil"
)

type fakeInspector struct {
	schema string
	table  string
	err    error
}

func (f *fakeInspector) TableNames(_ context.Context, schema string) ([]string, error) {
	f.schema = schema
	if f.err != nil {
		return nil, f.err
	}
	return []string{"customers", "orders"}, nil
}

func (f *fakeInspector) Columns(_ context.Context, table, schema string) ([]inspect.Column, error) {
	f.table, f.schema = table, schema
	if f.err != nil {
		return nil, f.err
	}
	def := "0"
	return []inspect.Column{
		{Name: "id", DataType: "INTEGER"},
		{Name: "amount", DataType: "DOUBLE", Nullable: true, Default: &def},
	}, nil
}

type fakeExecutor struct {
	queries []string
	err     error
}

func (f *fakeExecutor) Query(_ context.Context, sqlText string, _ ...any) (*executor.Result, error) {
	f.queries = append(f.queries, sqlText)
	if f.err != nil {
		return nil, f.err
	}
	return &executor.Result{Query: sqlText, Columns: []string{"amount"}, Rows: [][]any{{1.5}}, Executed: true}, nil
}

func newDispatcher(t *testing.T) (*Dispatcher, *fakeInspector, *fakeExecutor) {
	t.Helper()
	insp := &fakeInspector{}
	exec := &fakeExecutor{}
	return NewDispatcher(insp, exec, testutil.NewTestLogger(t)), insp, exec
}

func TestDispatch_MissingCommand(t *testing.T) {
	d, _, _ := newDispatcher(t)

	for _, line := range []string{"", "   "} {
		_, err := d.Dispatch(context.Background(), line)

		var usage *UsageError
		require.ErrorAs(t, err, &usage)
		assert.Contains(t, err.Error(), "valid commands are: columns, tables, test")
	}
}

func TestDispatch_UnknownCommand(t *testing.T) {
	d, _, _ := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), "drop -t orders")

	var unknown *UnknownCommandError
	require.ErrorAs(t, err, &unknown)
	assert.Equal(t, "drop", unknown.Name)
	assert.Equal(t, `"drop" is not a valid command for sqlcmd; valid commands are: columns, tables, test`, err.Error())
	assert.True(t, IsUserError(err))
}

func TestDispatch_Tables(t *testing.T) {
	d, insp, _ := newDispatcher(t)

	result, err := d.Dispatch(context.Background(), "tables --schema sales")
	require.NoError(t, err)

	assert.Equal(t, "sales", insp.schema)
	assert.Equal(t, []string{"name"}, result.Columns)
	assert.Equal(t, [][]any{{"customers"}, {"orders"}}, result.Rows)
	assert.True(t, result.Executed)
}

func TestDispatch_TablesDefaultSchema(t *testing.T) {
	d, insp, _ := newDispatcher(t)
	insp.schema = "unset"

	_, err := d.Dispatch(context.Background(), "tables")
	require.NoError(t, err)

	assert.Equal(t, "", insp.schema)
}

func TestDispatch_Columns(t *testing.T) {
	d, insp, _ := newDispatcher(t)

	result, err := d.Dispatch(context.Background(), "columns -t orders -s sales")
	require.NoError(t, err)

	assert.Equal(t, "orders", insp.table)
	assert.Equal(t, "sales", insp.schema)
	assert.Equal(t, []string{"name", "type", "nullable", "default"}, result.Columns)
	assert.Equal(t, []any{"id", "INTEGER", false, nil}, result.Rows[0])
	assert.Equal(t, []any{"amount", "DOUBLE", true, "0"}, result.Rows[1])
}

func TestDispatch_ColumnsRequiresTable(t *testing.T) {
	d, _, _ := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), "columns -s sales")

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
	assert.Contains(t, err.Error(), "-t/--table")
}

func TestDispatch_FlagErrors(t *testing.T) {
	d, _, _ := newDispatcher(t)

	tests := []string{
		"tables --bogus",
		"columns -t",
		"tables extra",
		"test -t orders -h",
	}

	for _, line := range tests {
		t.Run(line, func(t *testing.T) {
			_, err := d.Dispatch(context.Background(), line)

			var usage *UsageError
			require.ErrorAs(t, err, &usage)
			assert.True(t, IsUserError(err))
		})
	}
}

func TestDispatch_Test(t *testing.T) {
	d, _, exec := newDispatcher(t)

	result, err := d.Dispatch(context.Background(), "test -t orders -c amount --less-than 100 --no-nulls")
	require.NoError(t, err)

	require.Len(t, exec.queries, 1)
	assert.Equal(t, `SELECT * FROM "orders" WHERE "amount" < 100 AND "amount" IS NOT NULL`, exec.queries[0])
	assert.Equal(t, [][]any{{1.5}}, result.Rows)
}

func TestDispatch_TestFlagOrderDoesNotMatter(t *testing.T) {
	d, _, exec := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), "test --no-nulls --within 0,50 -c amount --greater-or-equal=-5 -t orders")
	require.NoError(t, err)
	_, err = d.Dispatch(context.Background(), "test -t orders -c amount --greater-or-equal -5 --within 0,50 --no-nulls")
	require.NoError(t, err)

	require.Len(t, exec.queries, 2)
	assert.Equal(t, exec.queries[0], exec.queries[1])
	assert.Equal(t, `SELECT * FROM "orders" WHERE "amount" >= -5 AND "amount" > 0 AND "amount" < 50 AND "amount" IS NOT NULL`, exec.queries[0])
}

func TestDispatch_TestDryRun(t *testing.T) {
	d, _, exec := newDispatcher(t)

	result, err := d.Dispatch(context.Background(), "test -t orders -c amount --within 0,50 --dry-run")
	require.NoError(t, err)

	assert.Empty(t, exec.queries)
	assert.False(t, result.Executed)
	assert.Equal(t, `SELECT * FROM "orders" WHERE "amount" > 0 AND "amount" < 50`, result.Query)
}

func TestDispatch_TestInvalidFilters(t *testing.T) {
	tests := []struct {
		line      string
		wantFlags []string
	}{
		{"test -t orders -c amount --greater 1 --greater-or-equal 2", []string{filter.FlagGreater, filter.FlagGreaterOrEqual}},
		{"test -t orders -c amount --less-than 1 --less-than-or-equal 2", []string{filter.FlagLessThan, filter.FlagLessOrEqual}},
		{"test -t orders -c amount --within 10,5", []string{filter.FlagWithin}},
		{"test -t orders -c amount --within 10", []string{filter.FlagWithin}},
		{"test -t orders -c amount --greater ten", []string{filter.FlagGreater}},
		{"test -t orders -c amount --less-than=", []string{filter.FlagLessThan}},
		{"test -t orders --no-nulls", []string{filter.FlagColumn}},
	}

	for _, tt := range tests {
		t.Run(tt.line, func(t *testing.T) {
			d, _, exec := newDispatcher(t)

			_, err := d.Dispatch(context.Background(), tt.line)

			var invalid *filter.InvalidFilterError
			require.ErrorAs(t, err, &invalid)
			assert.Equal(t, tt.wantFlags, invalid.Flags)
			assert.True(t, IsUserError(err))
			assert.Empty(t, exec.queries, "nothing may run after a validation failure")
		})
	}
}

func TestDispatch_TestRequiresTable(t *testing.T) {
	d, _, _ := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), "test -c amount --no-nulls")

	var usage *UsageError
	require.ErrorAs(t, err, &usage)
}

func TestDispatch_ExecutorErrorIsNotUserError(t *testing.T) {
	d, _, exec := newDispatcher(t)
	exec.err = errors.New("connection reset")

	_, err := d.Dispatch(context.Background(), "test -t orders")

	require.Error(t, err)
	assert.False(t, IsUserError(err))
}

func TestRun_PreSplitArguments(t *testing.T) {
	d, _, exec := newDispatcher(t)

	// Pre-split arguments keep embedded spaces.
	_, err := d.Run(context.Background(), []string{"test", "-t", "order items", "-c", "unit price", "--greater", "3"})
	require.NoError(t, err)

	assert.Equal(t, []string{`SELECT * FROM "order items" WHERE "unit price" > 3`}, exec.queries)
}

func TestDispatch_QuotedArguments(t *testing.T) {
	d, insp, exec := newDispatcher(t)

	_, err := d.Dispatch(context.Background(), `columns -t "order items" -s 'sales data'`)
	require.NoError(t, err)
	assert.Equal(t, "order items", insp.table)
	assert.Equal(t, "sales data", insp.schema)

	_, err = d.Dispatch(context.Background(), `test -t "order items" -c 'unit price' --less-than 10 --no-nulls`)
	require.NoError(t, err)
	assert.Equal(t,
		[]string{`SELECT * FROM "order items" WHERE "unit price" < 10 AND "unit price" IS NOT NULL`},
		exec.queries)
}

func TestDispatch_UnterminatedQuote(t *testing.T) {
	for _, line := range []string{`columns -t "order items`, `test -t orders -c 'amount`, `tables -s main\`} {
		t.Run(line, func(t *testing.T) {
			d, insp, exec := newDispatcher(t)

			_, err := d.Dispatch(context.Background(), line)

			var usage *UsageError
			require.ErrorAs(t, err, &usage)
			assert.True(t, IsUserError(err))
			assert.Empty(t, insp.table)
			assert.Empty(t, exec.queries)
		})
	}
}

func TestTestCommand_Offline(t *testing.T) {
	d := NewDispatcher(nil, nil, testutil.NewTestLogger(t))

	result, err := d.Dispatch(context.Background(), `test -t "order items" -c amount --within 0,50 --dry-run`)
	require.NoError(t, err)
	assert.Equal(t, `SELECT * FROM "order items" WHERE "amount" > 0 AND "amount" < 50`, result.Query)

	cmd, ok := New("test")
	require.True(t, ok)
	offline, ok := cmd.(OfflineCommand)
	require.True(t, ok)
	assert.False(t, offline.Offline())

	tables, _ := New("tables")
	_, ok = tables.(OfflineCommand)
	assert.False(t, ok)
}

func TestCommands(t *testing.T) {
	assert.Equal(t, []string{"columns", "tables", "test"}, Names())

	infos := Commands()
	require.Len(t, infos, 3)
	for _, info := range infos {
		cmd, ok := New(info.Name)
		require.True(t, ok)
		assert.NotNil(t, cmd)
		assert.NotEmpty(t, info.Short)
	}

	_, ok := New("nope")
	assert.False(t, ok)
}
