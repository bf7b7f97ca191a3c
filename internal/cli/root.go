// Package cli builds the sqlcmd command tree.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/coral-mesh/sqlcmd/internal/cli/helpers"
	"github.com/coral-mesh/sqlcmd/internal/cli/sqlcmd"
	"github.com/coral-mesh/sqlcmd/pkg/version"
)

// NewRootCmd builds the sqlcmd command tree.
func NewRootCmd() *cobra.Command {
	g := &helpers.GlobalFlags{}

	rootCmd := &cobra.Command{
		Use:   "sqlcmd",
		Short: "Inspect tables and filter rows without writing SQL",
		Long: `sqlcmd lists tables and columns and selects the rows of a table whose
numeric column satisfies simple constraints. It builds safe, quoted SQL for
DuckDB (default) or PostgreSQL and prints the results.

Examples:
  # List tables of the current schema
  sqlcmd tables --dsn sales.duckdb

  # Describe a table
  sqlcmd columns -t "order items" --dsn sales.duckdb

  # Rows where amount < 100 and amount is set
  sqlcmd test -t orders -c amount --less-than 100 --no-nulls

  # Show the generated SQL only
  sqlcmd test -t orders -c amount --within 0,50 --dry-run

  # Interactive shell and HTTP endpoint
  sqlcmd shell
  sqlcmd serve --listen 127.0.0.1:8765`,
		Version:       version.String(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	g.Register(rootCmd)

	rootCmd.AddCommand(sqlcmd.NewCommands(g)...)
	rootCmd.AddCommand(sqlcmd.NewShellCmd(g))
	rootCmd.AddCommand(newServeCmd(g))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			cmd.Printf("sqlcmd version %s\n", version.Version)
			cmd.Printf("Git commit: %s\n", version.GitCommit)
			cmd.Printf("Build date: %s\n", version.BuildDate)
			cmd.Printf("Go version: %s\n", version.GoVersion)
		},
	}
}

// Execute runs the root command.
func Execute() error {
	return NewRootCmd().Execute()
}
