// Package config provides configuration loading and management.
package config

import (
	"time"

	"github.com/coral-mesh/sqlcmd/internal/constants"
)

// Config is the sqlcmd configuration file (~/.sqlcmd/config.yaml).
type Config struct {
	Database DatabaseConfig `yaml:"database"`
	Output   OutputConfig   `yaml:"output"`
	Logging  LoggingConfig  `yaml:"logging"`
	Server   ServerConfig   `yaml:"server"`
}

// DatabaseConfig selects the database sqlcmd runs against.
type DatabaseConfig struct {
	// Driver is "duckdb" or "postgres".
	Driver string `yaml:"driver" env:"SQLCMD_DRIVER"`
	// DSN is a DuckDB file path (empty for in-memory) or a PostgreSQL URL.
	DSN      string `yaml:"dsn" env:"SQLCMD_DSN"`
	ReadOnly bool   `yaml:"read_only" env:"SQLCMD_READ_ONLY"`
	// InitStatements run on every new connection (e.g. "SET threads = 4").
	InitStatements []string      `yaml:"init_statements,omitempty"`
	QueryTimeout   time.Duration `yaml:"query_timeout" env:"SQLCMD_QUERY_TIMEOUT"`
	// ConnectAttempts retries the initial connection (useful while a
	// PostgreSQL server is starting).
	ConnectAttempts int `yaml:"connect_attempts" env:"SQLCMD_CONNECT_ATTEMPTS"`
}

// OutputConfig controls result rendering.
type OutputConfig struct {
	// Format is table, pretty, csv or json.
	Format string `yaml:"format" env:"SQLCMD_FORMAT"`
}

// LoggingConfig controls diagnostic logging on stderr.
type LoggingConfig struct {
	Level  string `yaml:"level" env:"SQLCMD_LOG_LEVEL"`
	Pretty bool   `yaml:"pretty" env:"SQLCMD_LOG_PRETTY"`
}

// ServerConfig configures `sqlcmd serve`.
type ServerConfig struct {
	ListenAddr string `yaml:"listen_addr" env:"SQLCMD_LISTEN_ADDR"`
}

// Default returns the configuration used when no file exists.
func Default() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:          constants.DefaultDriver,
			QueryTimeout:    constants.DefaultQueryTimeout,
			ConnectAttempts: 1,
		},
		Output: OutputConfig{
			Format: constants.DefaultFormat,
		},
		Logging: LoggingConfig{
			Level:  constants.DefaultLogLevel,
			Pretty: true,
		},
		Server: ServerConfig{
			ListenAddr: constants.DefaultListenAddr,
		},
	}
}
