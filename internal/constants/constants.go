// Package constants defines shared configuration constants.
package constants

import "time"

var (
	ConfigFile = "config.yaml"

	DefaultDir = ".sqlcmd"

	// HistoryFile stores shell history under DefaultDir.
	HistoryFile = "history"

	// ConfigDirEnv overrides the directory holding DefaultDir.
	ConfigDirEnv = "SQLCMD_CONFIG"

	DefaultDriver = "duckdb"

	DefaultFormat = "table"

	DefaultLogLevel = "warn"

	// DefaultListenAddr is where `sqlcmd serve` listens.
	DefaultListenAddr = "127.0.0.1:8765"
)

// DefaultQueryTimeout bounds a single statement run by the executor.
const DefaultQueryTimeout = 60 * time.Second
