package sqlcmd

import (
	"bytes"
	"context"
	"io"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/inspect"
	"github.com/coral-mesh/sqlcmd/internal/query"
	"github.com/coral-mesh/sqlcmd/internal/sqlcmd"
	"github.com/coral-mesh/sqlcmd/internal/testutil"
)

type scriptedReader struct {
	lines []string
}

func (r *scriptedReader) Readline() (string, error) {
	if len(r.lines) == 0 {
		return "", io.EOF
	}
	line := r.lines[0]
	r.lines = r.lines[1:]
	return line, nil
}

func newTestShell(t *testing.T) (*shell, *bytes.Buffer) {
	t.Helper()

	db := testutil.NewTestDB(t,
		`CREATE TABLE orders (id INTEGER, amount DOUBLE)`,
		`INSERT INTO orders VALUES (1, 10.5), (2, NULL)`,
		`CREATE TABLE "order items" ("unit price" DOUBLE)`,
		`INSERT INTO "order items" VALUES (2.5), (40)`,
	)

	exec := executor.New(db, testutil.NewTestLogger(t), 0)
	var out bytes.Buffer
	return &shell{
		dispatcher: sqlcmd.NewDispatcher(inspect.New(exec, query.Question), exec, testutil.NewTestLogger(t)),
		out:        &out,
		format:     "table",
	}, &out
}

func TestShell_Session(t *testing.T) {
	sh, out := newTestShell(t)

	err := sh.run(context.Background(), &scriptedReader{lines: []string{
		"",
		".format csv",
		"tables",
		"test -t orders -c amount --no-nulls",
		`test -t "order items" -c "unit price" --less-than 10`,
		`columns -t "order items`,
		"drop -t orders",
		".bogus",
		".exit",
		"tables",
	}})
	require.NoError(t, err)

	text := out.String()
	assert.Contains(t, text, "name\norder items\norders\n")
	assert.Contains(t, text, "id,amount\n1,10.5\n")
	assert.Contains(t, text, "unit price\n2.5\n")
	assert.Contains(t, text, "Error: cannot parse command line")
	assert.Contains(t, text, `Error: "drop" is not a valid command for sqlcmd`)
	assert.Contains(t, text, "Error: unknown meta-command: .bogus")
	assert.Equal(t, "csv", sh.format)
	assert.Equal(t, 1, strings.Count(text, "name\norder items\norders\n"), "lines after .exit must not run")
}

func TestShell_FormatMetaCommand(t *testing.T) {
	sh, out := newTestShell(t)

	require.NoError(t, sh.handleLine(context.Background(), ".format"))
	assert.Contains(t, out.String(), "Output format: table")

	err := sh.handleLine(context.Background(), ".format xml")
	require.Error(t, err)
	assert.Equal(t, "table", sh.format)

	require.NoError(t, sh.handleLine(context.Background(), ".format json"))
	assert.Equal(t, "json", sh.format)
}

func TestShell_Help(t *testing.T) {
	sh, out := newTestShell(t)

	require.NoError(t, sh.handleLine(context.Background(), ".help"))

	for _, name := range sqlcmd.Names() {
		assert.Contains(t, out.String(), name)
	}
	assert.Contains(t, out.String(), ".format")
}

func TestShell_EOFExits(t *testing.T) {
	sh, _ := newTestShell(t)

	require.NoError(t, sh.run(context.Background(), &scriptedReader{}))
}
