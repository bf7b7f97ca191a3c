// Package sqlcmd implements the tables, columns, test and shell commands.
package sqlcmd

import (
	"github.com/spf13/cobra"

	"github.com/coral-mesh/sqlcmd/internal/cli/helpers"
	"github.com/coral-mesh/sqlcmd/internal/output"
	"github.com/coral-mesh/sqlcmd/internal/sqlcmd"
)

var examples = map[string]string{
	"tables": `  sqlcmd tables
  sqlcmd tables -s analytics`,
	"columns": `  sqlcmd columns -t orders
  sqlcmd columns -t "order items" -s sales --format json`,
	"test": `  sqlcmd test -t orders -c amount --less-than 100 --no-nulls
  sqlcmd test -t orders -c amount --greater-or-equal -5 --within 0,50
  sqlcmd test -t orders -c amount --within 0,50 --dry-run`,
}

// NewCommands returns one cobra command per registered sqlcmd command.
func NewCommands(g *helpers.GlobalFlags) []*cobra.Command {
	infos := sqlcmd.Commands()
	cmds := make([]*cobra.Command, 0, len(infos))
	for _, info := range infos {
		cmds = append(cmds, newCommand(g, info))
	}
	return cmds
}

// newCommand exposes a dispatcher command as a cobra command. The flags are
// bound by the command itself, so the CLI accepts the same syntax as the shell
// and the HTTP endpoint.
func newCommand(g *helpers.GlobalFlags, info sqlcmd.Info) *cobra.Command {
	command := info.New()

	cmd := &cobra.Command{
		Use:     info.Name,
		Short:   info.Short,
		Example: examples[info.Name],
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := helpers.NewApp(cmd, g)
			if err != nil {
				return err
			}

			if offline, ok := command.(sqlcmd.OfflineCommand); !ok || !offline.Offline() {
				if err := a.Connect(cmd.Context()); err != nil {
					return err
				}
				defer a.Close()
			}

			result, err := command.Run(cmd.Context(), a.Dispatcher)
			if err != nil {
				return err
			}
			return output.Print(cmd.OutOrStdout(), a.Config.Output.Format, result)
		},
	}

	command.Bind(cmd.Flags())

	return cmd
}
