package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/coral-mesh/sqlcmd/internal/constants"
)

// Loader handles locating and loading configuration files.
type Loader struct {
	homeDir string
}

// NewLoader creates a new config loader.
// The base directory is resolved in this order:
//  1. SQLCMD_CONFIG environment variable.
//  2. User home directory (~/).
//  3. The working directory, when no home directory exists.
func NewLoader() *Loader {
	if baseDir := os.Getenv(constants.ConfigDirEnv); baseDir != "" {
		return &Loader{homeDir: baseDir}
	}

	homeDir, err := os.UserHomeDir()
	if err == nil {
		return &Loader{homeDir: homeDir}
	}

	// Config files won't exist here, so Load returns defaults + env overrides.
	return &Loader{homeDir: "."}
}

// Dir returns the sqlcmd state directory (~/.sqlcmd).
func (l *Loader) Dir() string {
	return filepath.Join(l.homeDir, constants.DefaultDir)
}

// ConfigPath returns the path to the default config file.
func (l *Loader) ConfigPath() string {
	return filepath.Join(l.Dir(), constants.ConfigFile)
}

// HistoryPath returns the path of the shell history file.
func (l *Loader) HistoryPath() string {
	return filepath.Join(l.Dir(), constants.HistoryFile)
}

// Load reads the config at path, or at ConfigPath when path is empty.
// A missing default file yields defaults; a missing explicit path is an error.
// Environment variable overrides are applied on top.
func (l *Loader) Load(path string) (*Config, error) {
	explicit := path != ""
	if !explicit {
		path = l.ConfigPath()
	}

	cfg := Default()

	//nolint:gosec // G304: Path is chosen by the user.
	data, err := os.ReadFile(path)
	switch {
	case err == nil:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	case os.IsNotExist(err) && !explicit:
		// Defaults only.
	default:
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	// Apply environment variable overrides (layered configuration).
	if err := MergeFromEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to load environment variables: %w", err)
	}

	return cfg, nil
}
