// Package database opens the *sql.DB handles sqlcmd runs against.
package database

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/stdlib"
	duckdbDriver "github.com/marcboeker/go-duckdb"

	"github.com/coral-mesh/sqlcmd/internal/query"
	"github.com/coral-mesh/sqlcmd/internal/retry"
)

// Supported driver names.
const (
	DriverDuckDB   = "duckdb"
	DriverPostgres = "postgres"
)

// Options controls how a database handle is opened.
type Options struct {
	// Driver is "duckdb" (default) or "postgres".
	Driver string
	// DSN is a DuckDB path (empty for in-memory) or a PostgreSQL connection string.
	DSN string
	// ReadOnly opens the database without write access.
	ReadOnly bool
	// InitStatements run on every new pooled connection.
	InitStatements []string
	// ConnectAttempts is how many times the first ping is tried before Open
	// gives up. Values below 1 mean one try.
	ConnectAttempts int
}

var connectPolicy = retry.Policy{
	InitialBackoff: 250 * time.Millisecond,
	MaxBackoff:     5 * time.Second,
}

// Dialect describes the SQL flavor of a driver.
type Dialect struct {
	Name        string
	Placeholder query.Placeholder
}

// DialectFor returns the dialect of a driver name.
func DialectFor(driverName string) (Dialect, error) {
	switch normalizeDriver(driverName) {
	case DriverDuckDB:
		return Dialect{Name: DriverDuckDB, Placeholder: query.Question}, nil
	case DriverPostgres:
		return Dialect{Name: DriverPostgres, Placeholder: query.Dollar}, nil
	default:
		return Dialect{}, fmt.Errorf("unsupported driver %q (must be duckdb or postgres)", driverName)
	}
}

func normalizeDriver(name string) string {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", "duckdb":
		return DriverDuckDB
	case "postgres", "postgresql", "pgx":
		return DriverPostgres
	default:
		return name
	}
}

// Open opens and pings a database handle for opts.
func Open(ctx context.Context, opts Options) (*sql.DB, error) {
	var (
		db  *sql.DB
		err error
	)

	switch normalizeDriver(opts.Driver) {
	case DriverDuckDB:
		db, err = openDuckDB(opts)
	case DriverPostgres:
		db, err = openPostgres(opts)
	default:
		return nil, fmt.Errorf("unsupported driver %q (must be duckdb or postgres)", opts.Driver)
	}
	if err != nil {
		return nil, err
	}

	policy := connectPolicy
	policy.Attempts = opts.ConnectAttempts
	if err := retry.Do(ctx, policy, db.PingContext, isTransient); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to connect to %s database: %w", normalizeDriver(opts.Driver), err)
	}

	return db, nil
}

// isTransient reports whether a failed ping is worth retrying. Cancellation
// and deadlines are final.
func isTransient(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}

// openDuckDB opens a DuckDB database. Init statements run through the
// connector so every pooled connection sees them.
func openDuckDB(opts Options) (*sql.DB, error) {
	dsn := opts.DSN
	if opts.ReadOnly {
		dsn = injectDSNParams(dsn, map[string]string{"access_mode": "READ_ONLY"})
	}

	statements := opts.InitStatements
	connector, err := duckdbDriver.NewConnector(dsn, func(execer driver.ExecerContext) error {
		ctx := context.Background()
		for _, stmt := range statements {
			if _, err := execer.ExecContext(ctx, stmt, nil); err != nil {
				return fmt.Errorf("init statement %q failed: %w", stmt, err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open duckdb database: %w", err)
	}

	return sql.OpenDB(connector), nil
}

// openPostgres opens a PostgreSQL database through the pgx stdlib adapter.
func openPostgres(opts Options) (*sql.DB, error) {
	cfg, err := pgx.ParseConfig(opts.DSN)
	if err != nil {
		return nil, fmt.Errorf("failed to parse postgres connection string: %w", err)
	}
	if opts.ReadOnly {
		cfg.RuntimeParams["default_transaction_read_only"] = "on"
	}

	statements := opts.InitStatements
	afterConnect := stdlib.OptionAfterConnect(func(ctx context.Context, conn *pgx.Conn) error {
		for _, stmt := range statements {
			if _, err := conn.Exec(ctx, stmt); err != nil {
				return fmt.Errorf("init statement %q failed: %w", stmt, err)
			}
		}
		return nil
	})

	return stdlib.OpenDB(*cfg, afterConnect), nil
}

// injectDSNParams adds query parameters to a DuckDB DSN unless already set.
// In-memory DSNs are returned unchanged.
func injectDSNParams(dsn string, params map[string]string) string {
	if dsn == "" || dsn == ":memory:" {
		return dsn
	}

	// Split path from query string.
	sep := strings.IndexByte(dsn, '?')
	path := dsn
	rawQuery := ""
	if sep >= 0 {
		path = dsn[:sep]
		rawQuery = dsn[sep+1:]
	}

	values, err := url.ParseQuery(rawQuery)
	if err != nil {
		// If we can't parse, return original DSN unchanged.
		return dsn
	}

	for k, v := range params {
		if !values.Has(k) {
			values.Set(k, v)
		}
	}

	return path + "?" + values.Encode()
}
