package logging

import (
	"bytes"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

func TestNew_LevelFiltering(t *testing.T) {
	tests := []struct {
		level   string
		logged  []string
		dropped []string
	}{
		{level: "trace", logged: []string{"trace message", "debug message", "info message"}},
		{level: "debug", logged: []string{"debug message", "info message"}, dropped: []string{"trace message"}},
		{level: "info", logged: []string{"info message", "warn message"}, dropped: []string{"debug message"}},
		{level: "warn", logged: []string{"warn message", "error message"}, dropped: []string{"info message"}},
		{level: "error", logged: []string{"error message"}, dropped: []string{"warn message"}},
		// Unknown levels fall back to info.
		{level: "verbose", logged: []string{"info message"}, dropped: []string{"debug message"}},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			var buf bytes.Buffer
			logger := New(Config{Level: tt.level, Output: &buf})

			logger.Trace().Msg("trace message")
			logger.Debug().Msg("debug message")
			logger.Info().Msg("info message")
			logger.Warn().Msg("warn message")
			logger.Error().Msg("error message")

			output := buf.String()
			for _, msg := range tt.logged {
				assert.Contains(t, output, msg)
			}
			for _, msg := range tt.dropped {
				assert.NotContains(t, output, msg)
			}
		})
	}
}

func TestParseLevel(t *testing.T) {
	levels := map[string]zerolog.Level{
		"trace": zerolog.TraceLevel,
		"debug": zerolog.DebugLevel,
		"info":  zerolog.InfoLevel,
		"warn":  zerolog.WarnLevel,
		"error": zerolog.ErrorLevel,
		"":      zerolog.InfoLevel,
	}

	for name, want := range levels {
		assert.Equal(t, want, ParseLevel(name), name)
		assert.Equal(t, want, New(Config{Level: name, Output: &bytes.Buffer{}}).GetLevel(), name)
	}
}

func TestNewWithComponent(t *testing.T) {
	var buf bytes.Buffer
	logger := NewWithComponent(Config{Level: "info", Output: &buf}, "executor")

	logger.Info().Str("query_id", "abc").Msg("query finished")

	output := buf.String()
	assert.Contains(t, output, `"component":"executor"`)
	assert.Contains(t, output, `"query_id":"abc"`)
	assert.Contains(t, output, "query finished")
}

func TestNew_PrettyOutput(t *testing.T) {
	var buf bytes.Buffer
	logger := New(Config{Level: "info", Pretty: true, Output: &buf})

	logger.Info().Msg("test message")

	output := buf.String()
	assert.Contains(t, output, "test message")
	// Console output is not JSON.
	assert.False(t, strings.HasPrefix(strings.TrimSpace(output), "{"))
}

func TestNew_DefaultOutput(t *testing.T) {
	logger := New(Config{Level: "error"})

	assert.NotPanics(t, func() {
		logger.Error().Msg("goes to stderr")
	})
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, "warn", cfg.Level)
	assert.True(t, cfg.Pretty)
	assert.NotNil(t, cfg.Output)
}
