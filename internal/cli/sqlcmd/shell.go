package sqlcmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"slices"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/sqlcmd/internal/cli/helpers"
	"github.com/coral-mesh/sqlcmd/internal/config"
	"github.com/coral-mesh/sqlcmd/internal/output"
	"github.com/coral-mesh/sqlcmd/internal/sqlcmd"
)

const shellPrompt = "sqlcmd> "

var errExitShell = errors.New("exit")

// NewShellCmd creates the interactive shell command.
func NewShellCmd(g *helpers.GlobalFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "shell",
		Short: "Open an interactive sqlcmd shell",
		Long: `Opens an interactive shell that runs one sqlcmd command per line.
Lines are split like a shell command line, so quote names with spaces.

Meta-commands:
  .format <f>  - Switch output format (table, pretty, csv, json)
  .help        - Show help message
  .exit        - Exit shell (or Ctrl+D)
  .quit        - Exit shell

Example session:
  sqlcmd> tables
  sqlcmd> columns -t "order items"
  sqlcmd> test -t orders -c amount --less-than 100 --no-nulls`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := helpers.OpenApp(cmd.Context(), cmd, g)
			if err != nil {
				return err
			}
			defer a.Close()

			loader := config.NewLoader()
			if err := os.MkdirAll(loader.Dir(), 0o700); err != nil {
				a.Logger.Warn().Err(err).Msg("History disabled")
			}

			rl, err := readline.NewEx(&readline.Config{
				Prompt:          shellPrompt,
				HistoryFile:     loader.HistoryPath(),
				InterruptPrompt: "^C",
				EOFPrompt:       ".exit",
				Stdout:          cmd.OutOrStdout(),
				Stderr:          cmd.ErrOrStderr(),
			})
			if err != nil {
				return fmt.Errorf("failed to initialize readline: %w", err)
			}
			defer func() {
				_ = rl.Close()
			}()

			sh := &shell{
				dispatcher: a.Dispatcher,
				out:        cmd.OutOrStdout(),
				format:     a.Config.Output.Format,
			}

			_, _ = fmt.Fprintln(sh.out, "sqlcmd interactive shell. Type '.exit' to quit, '.help' for help.")
			_, _ = fmt.Fprintln(sh.out)

			return sh.run(cmd.Context(), rl)
		},
	}
}

type lineReader interface {
	Readline() (string, error)
}

// shell is the REPL state. Each line is a complete sqlcmd command.
type shell struct {
	dispatcher *sqlcmd.Dispatcher
	out        io.Writer
	format     string
}

func (s *shell) run(ctx context.Context, rl lineReader) error {
	for {
		line, err := rl.Readline()
		if err != nil {
			if errors.Is(err, readline.ErrInterrupt) {
				continue
			}
			if errors.Is(err, io.EOF) {
				_, _ = fmt.Fprintln(s.out)
				return nil
			}
			return fmt.Errorf("readline error: %w", err)
		}

		if err := s.handleLine(ctx, line); err != nil {
			if errors.Is(err, errExitShell) {
				return nil
			}
			_, _ = fmt.Fprintf(s.out, "Error: %v\n", err)
		}
	}
}

func (s *shell) handleLine(ctx context.Context, line string) error {
	line = strings.TrimSpace(line)
	if line == "" {
		return nil
	}

	if strings.HasPrefix(line, ".") {
		return s.handleMetaCommand(line)
	}

	result, err := s.dispatcher.Dispatch(ctx, line)
	if err != nil {
		return err
	}
	return output.Print(s.out, s.format, result)
}

func (s *shell) handleMetaCommand(command string) error {
	parts := strings.Fields(command)

	switch parts[0] {
	case ".exit", ".quit":
		return errExitShell

	case ".help":
		_, _ = fmt.Fprintln(s.out, "Commands:")
		for _, info := range sqlcmd.Commands() {
			_, _ = fmt.Fprintf(s.out, "  %-8s - %s\n", info.Name, info.Short)
		}
		_, _ = fmt.Fprintln(s.out, "  Append --help to a command for its flags.")
		_, _ = fmt.Fprintln(s.out)
		_, _ = fmt.Fprintln(s.out, "Meta-commands:")
		_, _ = fmt.Fprintln(s.out, "  .format <f> - Switch output format (table, pretty, csv, json)")
		_, _ = fmt.Fprintln(s.out, "  .help       - Show this help message")
		_, _ = fmt.Fprintln(s.out, "  .exit       - Exit shell")
		_, _ = fmt.Fprintln(s.out, "  .quit       - Exit shell")
		return nil

	case ".format":
		if len(parts) != 2 {
			_, _ = fmt.Fprintf(s.out, "Output format: %s\n", s.format)
			return nil
		}
		if !slices.Contains(output.Formats, parts[1]) {
			return fmt.Errorf("invalid format %q (must be one of %s)", parts[1], strings.Join(output.Formats, ", "))
		}
		s.format = parts[1]
		return nil

	default:
		return fmt.Errorf("unknown meta-command: %s (try .help)", parts[0])
	}
}
