package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSetupLogger(t *testing.T) {
	tests := []struct {
		name      string
		verbosity int
		wantLevel zerolog.Level
	}{
		{"default warn level", 0, zerolog.WarnLevel},
		{"info level", 1, zerolog.InfoLevel},
		{"debug level", 2, zerolog.DebugLevel},
		{"trace level", 3, zerolog.TraceLevel},
		{"high verbosity defaults to trace", 5, zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tempDir := t.TempDir()
			t.Setenv(EnvLogFile, "")
			t.Setenv("XDG_STATE_HOME", tempDir)

			SetupLogger(tt.verbosity)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())

			logPath := filepath.Join(tempDir, "forge", "forge.log")
			_, err := os.Stat(logPath)
			assert.NoError(t, err, "log file should exist at %s", logPath)
		})
	}
}

func TestGetLogFilePath(t *testing.T) {
	tests := []struct {
		name     string
		override string
		xdgState string
		want     string
	}{
		{
			name:     "with XDG_STATE_HOME",
			xdgState: "/custom/state",
			want:     "/custom/state/forge/forge.log",
		},
		{
			name:     "explicit override",
			override: "/tmp/forge-test.log",
			xdgState: "/custom/state",
			want:     "/tmp/forge-test.log",
		},
		{
			name:     "disabled",
			override: "off",
			want:     "",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(EnvLogFile, tt.override)
			t.Setenv("XDG_STATE_HOME", tt.xdgState)

			assert.Equal(t, filepath.FromSlash(tt.want), getLogFilePath())
		})
	}
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(2, &buf)

	done := LogOperationStart(GetLogger("test"), "resolve")
	done()

	out := buf.String()
	assert.Contains(t, out, `"operation":"resolve"`)
	assert.Contains(t, out, "Operation started")
	assert.Contains(t, out, "Operation completed")
	assert.Contains(t, out, `"component":"test"`)
}

func TestSetupWriter_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	SetupWriter(0, &buf)

	logger := GetLogger("quiet")
	logger.Info().Msg("hidden")
	logger.Warn().Msg("shown")

	require.NotContains(t, buf.String(), "hidden")
	assert.Contains(t, buf.String(), "shown")
}
