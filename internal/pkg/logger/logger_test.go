package logger_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/KirkDiggler/xwing-api/internal/pkg/logger"
)

func TestNew(t *testing.T) {
	l, err := logger.New(logger.Config{Level: "debug", Development: true})
	require.NoError(t, err)
	assert.True(t, l.Core().Enabled(zapcore.DebugLevel))

	l, err = logger.New(logger.Config{})
	require.NoError(t, err)
	assert.False(t, l.Core().Enabled(zapcore.DebugLevel))
	assert.True(t, l.Core().Enabled(zapcore.InfoLevel))
}

func TestNewRejectsUnknownLevel(t *testing.T) {
	_, err := logger.New(logger.Config{Level: "chatty"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid log level")
}

func TestOrNop(t *testing.T) {
	assert.NotNil(t, logger.OrNop(nil))
}
