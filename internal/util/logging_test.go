package util

import (
	"bytes"
	"testing"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func TestNewLogger(t *testing.T) {
	t.Run("off discards output", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger("off", &buf)
		logger.Error("dropped")
		assert.Empty(t, buf.String())
	})

	t.Run("levels are case insensitive", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewLogger("WARN", &buf)
		assert.Equal(t, logrus.WarnLevel, logger.GetLevel())
		logger.Info("filtered")
		logger.Warn("kept")
		assert.NotContains(t, buf.String(), "filtered")
		assert.Contains(t, buf.String(), "kept")
	})

	t.Run("unknown level falls back to debug", func(t *testing.T) {
		logger := NewLogger("verbose", &bytes.Buffer{})
		assert.Equal(t, logrus.DebugLevel, logger.GetLevel())
	})
}
