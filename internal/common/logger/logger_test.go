// internal/common/logger/logger_test.go
package logger

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestParseLevel(t *testing.T) {
	tests := map[string]zapcore.Level{
		"debug":   zapcore.DebugLevel,
		"WARN":    zapcore.WarnLevel,
		"warning": zapcore.WarnLevel,
		"error":   zapcore.ErrorLevel,
		"info":    zapcore.InfoLevel,
		"":        zapcore.InfoLevel,
		"verbose": zapcore.InfoLevel,
	}

	for raw, expected := range tests {
		assert.Equal(t, expected, ParseLevel(raw), "level %q", raw)
	}
}

func TestZapWrapper_Fields(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	log := NewZapAdapter(zap.New(core))

	scoped := log.WithFields(map[string]interface{}{"taskType": "evaluate-rental-application"})
	scoped.Info("evaluation completed", map[string]interface{}{"score": 80})
	scoped.WithError(errors.New("boom")).Error("evaluation failed", nil)
	log.With(map[string]interface{}{"cause": errors.New("redis down")}).Warn("cache miss", nil)

	entries := logs.All()
	require.Len(t, entries, 3)

	first := entries[0].ContextMap()
	assert.Equal(t, "evaluation completed", entries[0].Message)
	assert.Equal(t, "evaluate-rental-application", first["taskType"])
	assert.EqualValues(t, 80, first["score"])

	assert.Equal(t, zapcore.ErrorLevel, entries[1].Level)
	assert.Equal(t, "boom", entries[1].ContextMap()["error"])

	assert.Equal(t, "redis down", entries[2].ContextMap()["cause"])
}

func TestNewStructured(t *testing.T) {
	log := NewStructured("debug", "json", "rentcheck-workers")
	assert.NotNil(t, log)

	assert.NotPanics(t, func() {
		NewNoOpLogger().Info("noop", map[string]interface{}{"k": "v"})
		NewTestLogger(t).Debug("test logger", nil)
	})
}
