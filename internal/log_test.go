package internal

import (
	"bytes"
	"log"
	"testing"

	"github.com/stretchr/testify/assert"
)

func captureLog(t *testing.T) *bytes.Buffer {
	t.Helper()
	var buf bytes.Buffer
	flags, out := log.Flags(), log.Writer()
	log.SetOutput(&buf)
	log.SetFlags(0)
	t.Cleanup(func() {
		log.SetOutput(out)
		log.SetFlags(flags)
	})
	return &buf
}

func TestParseLogLevel(t *testing.T) {
	assert.Equal(t, LogLevelError, ParseLogLevel("error"))
	assert.Equal(t, LogLevelWarn, ParseLogLevel(" WARN "))
	assert.Equal(t, LogLevelDebug, ParseLogLevel("Debug"))
	assert.Equal(t, LogLevelInfo, ParseLogLevel(""))
	assert.Equal(t, LogLevelInfo, ParseLogLevel("verbose"))
}

func TestLoggerComponentAndLevel(t *testing.T) {
	buf := captureLog(t)
	logger := NewLogger(LogLevelWarn).With("DataReader")

	logger.Info("hidden")
	logger.Warn("file %s rejected", "a.csv")

	assert.Equal(t, "[WARN] [DataReader] file a.csv rejected\n", buf.String())
	assert.Equal(t, LogLevelWarn, logger.GetLevel())
}

func TestSetLevelAppliesToDerivedLoggers(t *testing.T) {
	buf := captureLog(t)
	root := NewLogger(LogLevelError)
	root.SetLevel(LogLevelDebug)

	root.With("Server").Debug("listening")
	assert.Equal(t, "[DEBUG] [Server] listening\n", buf.String())
}

func TestNewDefaultLoggerReadsEnv(t *testing.T) {
	t.Setenv("LOG_LEVEL", "warn")
	assert.Equal(t, LogLevelWarn, NewDefaultLogger().GetLevel())
}
