package logging

import (
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"
)

func TestNew(t *testing.T) {
	t.Run("development defaults to debug", func(t *testing.T) {
		logger, err := New(true, "")
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))
	})

	t.Run("production defaults to info", func(t *testing.T) {
		logger, err := New(false, "")
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.DebugLevel))
		require.True(t, logger.Core().Enabled(zapcore.InfoLevel))
	})

	t.Run("explicit level overrides the mode default", func(t *testing.T) {
		logger, err := New(false, "debug")
		require.NoError(t, err)
		require.True(t, logger.Core().Enabled(zapcore.DebugLevel))

		logger, err = New(true, "error")
		require.NoError(t, err)
		require.False(t, logger.Core().Enabled(zapcore.WarnLevel))
		require.True(t, logger.Core().Enabled(zapcore.ErrorLevel))
	})

	t.Run("unknown level errors", func(t *testing.T) {
		_, err := New(false, "loud")
		require.Error(t, err)
	})
}
