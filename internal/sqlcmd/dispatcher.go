// Package sqlcmd dispatches sqlcmd command lines to the tables, columns and
// test commands.
//
// A line such as
//
//	test -t orders -c amount --less-than 100 --no-nulls
//
// is split shell-style, so quoted names such as -t "order items" stay one
// argument. The first token selects the command and the rest is parsed with the
// command's pflag flag set. The same flag sets back the cobra
// commands, so the CLI, the shell and the HTTP endpoint accept identical
// syntax.
package sqlcmd

import (
	"context"
	"errors"
	"io"
	"strings"

	"github.com/google/shlex"
	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/inspect"
)

// Inspector lists schema metadata.
type Inspector interface {
	TableNames(ctx context.Context, schema string) ([]string, error)
	Columns(ctx context.Context, table, schema string) ([]inspect.Column, error)
}

// Executor runs a finished statement.
type Executor interface {
	Query(ctx context.Context, sqlText string, args ...any) (*executor.Result, error)
}

// Dispatcher routes command lines to commands. It holds no per-call state and
// is safe for concurrent use when its collaborators are.
type Dispatcher struct {
	inspector Inspector
	executor  Executor
	logger    zerolog.Logger
}

// NewDispatcher creates a dispatcher over explicit collaborators.
func NewDispatcher(inspector Inspector, exec Executor, logger zerolog.Logger) *Dispatcher {
	return &Dispatcher{
		inspector: inspector,
		executor:  exec,
		logger:    logger,
	}
}

// Dispatch splits one command line the way a shell would and runs it.
// An unterminated quote or trailing escape is a *UsageError.
func (d *Dispatcher) Dispatch(ctx context.Context, line string) (*executor.Result, error) {
	args, err := shlex.Split(line)
	if err != nil {
		return nil, usagef("cannot parse command line: %v", err)
	}
	return d.Run(ctx, args)
}

// Run runs a command from pre-split arguments; args[0] is the command name.
func (d *Dispatcher) Run(ctx context.Context, args []string) (*executor.Result, error) {
	if len(args) == 0 || strings.TrimSpace(args[0]) == "" {
		return nil, usagef("missing argument for sqlcmd; valid commands are: %s", strings.Join(Names(), ", "))
	}

	name := strings.TrimSpace(args[0])
	cmd, ok := New(name)
	if !ok {
		return nil, &UnknownCommandError{Name: name}
	}

	fs := pflag.NewFlagSet(name, pflag.ContinueOnError)
	fs.SetOutput(io.Discard)
	cmd.Bind(fs)

	if err := fs.Parse(args[1:]); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil, usagef("usage of %s:\n%s", name, fs.FlagUsages())
		}
		return nil, usagef("%s: %v", name, err)
	}
	if fs.NArg() > 0 {
		return nil, usagef("%s: unexpected argument %q", name, fs.Arg(0))
	}

	d.logger.Debug().Strs("args", args).Msg("dispatching command")

	return cmd.Run(ctx, d)
}
