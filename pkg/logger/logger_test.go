package logger

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitLevels(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	require.NoError(t, Init(&Config{Level: "warn", Output: OutputDiscard}))
	assert.Equal(t, zerolog.WarnLevel, GetLogger().GetLevel())

	require.NoError(t, Init(&Config{Level: "error", Debug: true, Output: OutputDiscard}))
	assert.Equal(t, zerolog.DebugLevel, GetLogger().GetLevel(), "debug overrides level")

	assert.Error(t, Init(&Config{Level: "loud"}))
}

func TestInitFileOutput(t *testing.T) {
	t.Cleanup(func() { _ = Init(DefaultConfig()) })

	path := filepath.Join(t.TempDir(), "wifispot.log")
	require.NoError(t, Init(&Config{Level: "info", Output: path}))

	componentLogger := WithComponent("tracker")
	componentLogger.Warn().Str("probe", "latency").Msg("探针失败")
	Debug().Msg("不会写入")
	require.NoError(t, Close())

	data, err := os.ReadFile(path)
	require.NoError(t, err)

	content := string(data)
	assert.Contains(t, content, `"component":"tracker"`)
	assert.Contains(t, content, `"probe":"latency"`)
	assert.NotContains(t, content, "不会写入")
}

func TestInitBadFile(t *testing.T) {
	err := Init(&Config{Output: filepath.Join(t.TempDir(), "missing", "dir", "x.log")})
	assert.Error(t, err)
}

func TestNewTestLogger(t *testing.T) {
	l := NewTestLogger()
	assert.Equal(t, zerolog.Disabled, l.GetLevel())
}
