package config

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name       string
		mutate     func(*Config)
		wantFields []string
	}{
		{
			name:   "defaults",
			mutate: func(*Config) {},
		},
		{
			name:   "postgres alias",
			mutate: func(c *Config) { c.Database.Driver = "PGX" },
		},
		{
			name:       "bad driver",
			mutate:     func(c *Config) { c.Database.Driver = "oracle" },
			wantFields: []string{"database.driver"},
		},
		{
			name:       "negative connect attempts",
			mutate:     func(c *Config) { c.Database.ConnectAttempts = -1 },
			wantFields: []string{"database.connect_attempts"},
		},
		{
			name: "several errors",
			mutate: func(c *Config) {
				c.Database.QueryTimeout = -time.Second
				c.Output.Format = "xml"
				c.Logging.Level = "loud"
				c.Server.ListenAddr = "nope"
			},
			wantFields: []string{"database.query_timeout", "output.format", "logging.level", "server.listen_addr"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)

			err := cfg.Validate()
			if len(tt.wantFields) == 0 {
				assert.NoError(t, err)
				return
			}

			var multi *MultiValidationError
			require.True(t, errors.As(err, &multi))
			fields := make([]string, len(multi.Errors))
			for i, e := range multi.Errors {
				fields[i] = e.Field
			}
			assert.Equal(t, tt.wantFields, fields)
		})
	}
}

func TestMultiValidationError_Error(t *testing.T) {
	single := &MultiValidationError{Errors: []ValidationError{{Field: "a", Message: "bad"}}}
	assert.Equal(t, "a: bad", single.Error())

	multi := &MultiValidationError{Errors: []ValidationError{
		{Field: "a", Message: "bad"},
		{Field: "b", Message: "worse"},
	}}
	assert.Equal(t, "validation failed with 2 errors:\n  1. a: bad\n  2. b: worse\n", multi.Error())

	assert.Equal(t, "no validation errors", (&MultiValidationError{}).Error())
}
