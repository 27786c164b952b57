package logger

import (
	"bytes"
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func Test_Logger(t *testing.T) {
	t.Run("Should write structured output with fields", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf})
		log.Info("compiled", "file", "issues-sync.ts")
		output := buf.String()
		assert.Contains(t, output, "compiled")
		assert.Contains(t, output, "issues-sync.ts")
	})

	t.Run("Should drop entries below the configured level", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: ErrorLevel, Output: &buf})
		log.Info("hidden")
		log.Error("visible")
		assert.NotContains(t, buf.String(), "hidden")
		assert.Contains(t, buf.String(), "visible")
	})

	t.Run("Should carry With fields into child loggers", func(t *testing.T) {
		var buf bytes.Buffer
		log := NewLogger(&Config{Level: InfoLevel, Output: &buf}).With("flow", "issues-sync")
		log.Info("linted")
		assert.Contains(t, buf.String(), "issues-sync")
	})
}

func Test_FromContext(t *testing.T) {
	t.Run("Should return the attached logger", func(t *testing.T) {
		log := NewLogger(nil)
		ctx := ContextWithLogger(context.Background(), log)
		require.Same(t, log, FromContext(ctx))
	})

	t.Run("Should fall back to the default logger", func(t *testing.T) {
		assert.NotNil(t, FromContext(context.Background()))
		assert.NotNil(t, FromContext(nil)) //nolint:staticcheck
	})
}
