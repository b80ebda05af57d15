package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/wifispot/pkg/probe"
)

func writeFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "wifispot.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadConfigEmptyPath(t *testing.T) {
	config, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), config)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigMergesOverDefaults(t *testing.T) {
	path := writeFile(t, `
logger:
  level: debug
  output: /tmp/wifispot.log
probe:
  target: 1.1.1.1
  latency_mode: icmp
  timeout: 2s
tracker:
  interval: 5s
  location: Lobby
metrics:
  addr: ":9310"
`)

	config, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "debug", config.Logger.Level)
	assert.Equal(t, "/tmp/wifispot.log", config.Logger.Output)
	assert.Equal(t, "1.1.1.1", config.Probe.Target)
	assert.Equal(t, probe.LatencyICMP, config.Probe.LatencyMode)
	assert.Equal(t, 2*time.Second, config.Probe.Timeout)
	assert.Equal(t, 5*time.Second, config.Tracker.Interval)
	assert.Equal(t, "Lobby", config.Tracker.Location)
	assert.Equal(t, ":9310", config.Metrics.Addr)

	// 未出现的字段保留默认值
	defaults := DefaultConfig()
	assert.Equal(t, defaults.Probe.SpeedtestTimeout, config.Probe.SpeedtestTimeout)
	assert.Equal(t, defaults.Probe.Platform, config.Probe.Platform)
	assert.Equal(t, defaults.Tracker.EventBuffer, config.Tracker.EventBuffer)
	assert.Equal(t, defaults.ICMP, config.ICMP)
	assert.Equal(t, defaults.TUI, config.TUI)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigErrors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "probe: [unclosed"))
	assert.Error(t, err)

	_, err = LoadConfig(writeFile(t, "tracker:\n  interval: soon\n"))
	assert.Error(t, err)
}

func TestValidateNamesSection(t *testing.T) {
	config, err := LoadConfig(writeFile(t, "tracker:\n  interval: 10ms\n"))
	require.NoError(t, err)

	err = config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "tracker")

	config = DefaultConfig()
	config.Probe.LatencyMode = "udp"
	err = config.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "probe")
}

func TestMarshalRoundTrip(t *testing.T) {
	config := DefaultConfig()
	config.Tracker.Location = "Attic"
	config.Metrics.Addr = ":9100"

	data, err := config.Marshal()
	require.NoError(t, err)
	assert.Contains(t, string(data), "interval: 3s")

	loaded, err := LoadConfig(writeFile(t, string(data)))
	require.NoError(t, err)
	assert.Equal(t, config, loaded)
}
