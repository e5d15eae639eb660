package logging

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/arthur-debert/prebuilt/pkg/paths"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
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
			stateDir := t.TempDir()
			t.Setenv(paths.EnvStateDir, stateDir)

			var console bytes.Buffer
			SetupLoggerWithOutput(tt.verbosity, &console)

			assert.Equal(t, tt.wantLevel, zerolog.GlobalLevel())
			_, err := os.Stat(filepath.Join(stateDir, paths.LogFileName))
			assert.NoError(t, err, "log file should be created")
		})
	}
}

func TestSetupLogger_WritesConsoleAndFile(t *testing.T) {
	stateDir := t.TempDir()
	t.Setenv(paths.EnvStateDir, stateDir)

	var console bytes.Buffer
	SetupLoggerWithOutput(0, &console)
	logger := GetLogger("uninstall")
	logger.Warn().Str("shortcut", "MyApp").Msg("shortcut already gone")

	assert.Contains(t, console.String(), "shortcut already gone")
	data, err := os.ReadFile(filepath.Join(stateDir, paths.LogFileName))
	require.NoError(t, err)
	assert.Contains(t, string(data), `"shortcut":"MyApp"`)
}

func TestLogFilePath(t *testing.T) {
	t.Setenv(paths.EnvStateDir, "/custom/prebuilt")

	got, err := LogFilePath()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join("/custom/prebuilt", paths.LogFileName), got)
}

func TestGetLogger(t *testing.T) {
	var buf bytes.Buffer
	log.Logger = zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	logger := GetLogger("install")
	logger.Info().Msg("test message")

	assert.Contains(t, buf.String(), `"component":"install"`)
	assert.Contains(t, buf.String(), "test message")
}

func TestLogOperationStart(t *testing.T) {
	var buf bytes.Buffer
	logger := zerolog.New(&buf)
	zerolog.SetGlobalLevel(zerolog.DebugLevel)

	done := LogOperationStart(logger, "install")
	require.Contains(t, buf.String(), "Operation started")
	done()
	assert.Contains(t, buf.String(), "Operation completed")
	assert.Contains(t, buf.String(), "duration")
}
