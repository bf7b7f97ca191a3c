// Package helpers holds the wiring shared by sqlcmd CLI commands.
package helpers

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/coral-mesh/sqlcmd/internal/config"
	"github.com/coral-mesh/sqlcmd/internal/database"
	cerrors "github.com/coral-mesh/sqlcmd/internal/errors"
	"github.com/coral-mesh/sqlcmd/internal/executor"
	"github.com/coral-mesh/sqlcmd/internal/inspect"
	"github.com/coral-mesh/sqlcmd/internal/logging"
	"github.com/coral-mesh/sqlcmd/internal/sqlcmd"
)

// GlobalFlags are the persistent flags of the root command. Set flags take
// precedence over the config file and SQLCMD_* variables.
type GlobalFlags struct {
	ConfigPath string
	Driver     string
	DSN        string
	Format     string
	LogLevel   string
	ReadOnly   bool
}

// Register adds the flags to cmd as persistent flags.
func (g *GlobalFlags) Register(cmd *cobra.Command) {
	fs := cmd.PersistentFlags()
	fs.StringVar(&g.ConfigPath, "config", "", "Config file (default: ~/.sqlcmd/config.yaml)")
	fs.StringVar(&g.Driver, "driver", "", "Database driver: duckdb or postgres")
	fs.StringVar(&g.DSN, "dsn", "", "DuckDB file (empty for in-memory) or PostgreSQL URL")
	fs.StringVar(&g.Format, "format", "", "Output format: table, pretty, csv or json")
	fs.StringVar(&g.LogLevel, "log-level", "", "Log level: trace, debug, info, warn or error")
	fs.BoolVar(&g.ReadOnly, "read-only", false, "Open the database read-only")
}

// Load resolves the effective configuration for cmd.
func (g *GlobalFlags) Load(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.NewLoader().Load(g.ConfigPath)
	if err != nil {
		return nil, err
	}

	flags := cmd.Flags()
	if flags.Changed("driver") {
		cfg.Database.Driver = g.Driver
	}
	if flags.Changed("dsn") {
		cfg.Database.DSN = g.DSN
	}
	if flags.Changed("read-only") {
		cfg.Database.ReadOnly = g.ReadOnly
	}
	if flags.Changed("format") {
		cfg.Output.Format = g.Format
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = g.LogLevel
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// App holds the collaborators of one CLI invocation.
type App struct {
	Config     *config.Config
	Logger     zerolog.Logger
	Dispatcher *sqlcmd.Dispatcher

	logConfig logging.Config
	db        *sql.DB
}

// NewApp loads configuration and builds the loggers. The dispatcher it holds
// has no database; it only serves commands that need none, such as dry runs.
// Call Connect before anything that reads data.
func NewApp(cmd *cobra.Command, g *GlobalFlags) (*App, error) {
	cfg, err := g.Load(cmd)
	if err != nil {
		return nil, err
	}

	logConfig := logging.DefaultConfig()
	logConfig.Level = cfg.Logging.Level
	logConfig.Pretty = cfg.Logging.Pretty
	logConfig.Output = cmd.ErrOrStderr()

	return &App{
		Config:     cfg,
		Logger:     logging.New(logConfig),
		Dispatcher: sqlcmd.NewDispatcher(nil, nil, logging.NewWithComponent(logConfig, "dispatcher")),
		logConfig:  logConfig,
	}, nil
}

// OpenApp is NewApp followed by Connect.
func OpenApp(ctx context.Context, cmd *cobra.Command, g *GlobalFlags) (*App, error) {
	a, err := NewApp(cmd, g)
	if err != nil {
		return nil, err
	}
	if err := a.Connect(ctx); err != nil {
		return nil, err
	}
	return a, nil
}

// Connect opens the configured database and rewires the dispatcher onto it.
func (a *App) Connect(ctx context.Context) error {
	cfg := a.Config

	dialect, err := database.DialectFor(cfg.Database.Driver)
	if err != nil {
		return err
	}

	db, err := database.Open(ctx, database.Options{
		Driver:          dialect.Name,
		DSN:             cfg.Database.DSN,
		ReadOnly:        cfg.Database.ReadOnly,
		InitStatements:  cfg.Database.InitStatements,
		ConnectAttempts: cfg.Database.ConnectAttempts,
	})
	if err != nil {
		return fmt.Errorf("failed to open %s database: %w", dialect.Name, err)
	}

	a.Logger.Debug().
		Str("driver", dialect.Name).
		Bool("read_only", cfg.Database.ReadOnly).
		Msg("Database opened")

	exec := executor.New(db, logging.NewWithComponent(a.logConfig, "executor"), cfg.Database.QueryTimeout)

	a.db = db
	a.Dispatcher = sqlcmd.NewDispatcher(
		inspect.New(exec, dialect.Placeholder),
		exec,
		logging.NewWithComponent(a.logConfig, "dispatcher"),
	)
	return nil
}

// Close releases the database, if one was opened.
func (a *App) Close() {
	if a.db == nil {
		return
	}
	cerrors.DeferClose(a.Logger, a.db, "failed to close database")
}
