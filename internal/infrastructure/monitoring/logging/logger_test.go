package logging

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestFieldConstructors(t *testing.T) {
	assert.Equal(t, Field{Key: "k", Value: "v"}, String("k", "v"))
	assert.Equal(t, Field{Key: "n", Value: 3}, Int("n", 3))
	assert.Equal(t, Field{Key: "error", Value: "<nil>"}, Err(nil))
	assert.Equal(t, "error", Err(assert.AnError).Key)
	assert.Equal(t, assert.AnError.Error(), Err(assert.AnError).Value)
}

func TestObservedLoggerEmitsFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core)

	log.Info("rule matched", String("rule", "7"), Int("score", 4))

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rule matched", entries[0].Message)
	fields := entries[0].ContextMap()
	assert.Equal(t, "7", fields["rule"])
	assert.EqualValues(t, 4, fields["score"])
}

func TestWithAddsPersistentFields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).With(String("reaction", "rxn-1"))

	log.Warn("placeholder skipped")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "rxn-1", entries[0].ContextMap()["reaction"])
}

func TestNamedLogger(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewLoggerFromCore(core).Named("validator")

	log.Debug("projecting")

	entries := logs.All()
	require.Len(t, entries, 1)
	assert.Equal(t, "validator", entries[0].LoggerName)
}

func TestNewLoggerDefaults(t *testing.T) {
	log, err := NewLogger(Config{})
	require.NoError(t, err)
	require.NotNil(t, log)
	// Must not panic at any level.
	log.Debug("d")
	log.Info("i")
	log.Warn("w")
	log.Error("e")
}

func TestNopLoggerIsInert(t *testing.T) {
	log := NewNopLogger()
	log.Info("ignored", String("k", "v"))
	assert.Equal(t, log, log.With(String("a", "b")).Named("x"))
}

func TestDefaultLoggerSwap(t *testing.T) {
	orig := Default()
	defer SetDefault(orig)

	core, logs := observer.New(zapcore.InfoLevel)
	SetDefault(NewLoggerFromCore(core))
	Default().Info("hello")
	assert.Equal(t, 1, logs.Len())

	// nil is ignored
	SetDefault(nil)
	Default().Info("again")
	assert.Equal(t, 2, logs.Len())
}
