package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zapcore"

	"github.com/animedom/animedom/internal/config"
)

func TestNewLogger(t *testing.T) {
	cfg := &config.Config{}
	cfg.Log.Level = "warn"

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.False(t, logger.Core().Enabled(zapcore.InfoLevel))
	assert.True(t, logger.Core().Enabled(zapcore.WarnLevel))

	cfg.Log.Level = "loud"
	_, err = NewLogger(cfg)
	assert.Error(t, err)
}

func TestNew(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("ANIMEDOM_DATABASE_DSN", ":memory:")
	t.Setenv("ANIMEDOM_LOG_LEVEL", "error")

	app, err := New("test")
	require.NoError(t, err)
	t.Cleanup(app.Close)

	assert.Equal(t, "test", app.Version)
	var count int
	require.NoError(t, app.DB.Get(&count, "SELECT COUNT(*) FROM anime"))
	assert.Zero(t, count)
}
