package main

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/urfave/cli/v2"

	"github.com/Kevin-Rudy/wifispot/pkg/config"
	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/logger"
	"github.com/Kevin-Rudy/wifispot/pkg/probe"
)

// parseArgs 用真实的参数定义解析命令行并构建配置
func parseArgs(t *testing.T, args ...string) (*config.Config, error) {
	t.Helper()

	var (
		got *config.Config
		err error
	)
	app := createCliApp()
	app.Commands = nil
	app.Action = func(c *cli.Context) error {
		got, err = buildConfigFromCLI(c)
		return nil
	}

	require.NoError(t, app.Run(append([]string{AppName}, args...)))
	return got, err
}

func TestBuildConfigDefaults(t *testing.T) {
	got, err := parseArgs(t)
	require.NoError(t, err)

	want := config.DefaultConfig()
	assert.Equal(t, want.Probe, got.Probe)
	assert.Equal(t, want.Tracker, got.Tracker)
	assert.Equal(t, got.Tracker.Interval, got.TUI.SampleInterval)
	assert.NoError(t, validateConfig(got))
}

func TestBuildConfigFlagsOverride(t *testing.T) {
	got, err := parseArgs(t,
		"-L", "Kitchen",
		"-n", "5s",
		"-t", "2s",
		"--target", "1.1.1.1",
		"--latency-mode", "icmp",
		"-i", "wlan1",
		"-r", "500ms",
		"-o", "walk.parquet",
		"--start",
		"--log-level", "debug",
		"--log-file", "wifispot.log",
		"--metrics-addr", ":9310",
	)
	require.NoError(t, err)

	assert.Equal(t, "Kitchen", got.Tracker.Location)
	assert.Equal(t, 5*time.Second, got.Tracker.Interval)
	assert.Equal(t, 5*time.Second, got.TUI.SampleInterval)
	assert.Equal(t, 2*time.Second, got.Probe.Timeout)
	assert.Equal(t, 2*time.Second, got.ICMP.Timeout)
	assert.Equal(t, "1.1.1.1", got.Probe.Target)
	assert.Equal(t, probe.LatencyICMP, got.Probe.LatencyMode)
	assert.Equal(t, "wlan1", got.Probe.Interface)
	assert.Equal(t, 500*time.Millisecond, got.TUI.RefreshInterval)
	assert.Equal(t, "walk.parquet", got.TUI.OutputPath)
	assert.True(t, got.TUI.AutoStart)
	assert.Equal(t, "debug", got.Logger.Level)
	assert.Equal(t, "wifispot.log", got.Logger.Output)
	assert.Equal(t, ":9310", got.Metrics.Addr)
}

func TestBuildConfigFlagsOverrideFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "wifispot.yaml")
	require.NoError(t, os.WriteFile(path, []byte("tracker:\n  interval: 10s\n  location: Attic\nprobe:\n  target: 9.9.9.9\n"), 0o644))

	got, err := parseArgs(t, "--config", path, "--target", "1.1.1.1")
	require.NoError(t, err)

	assert.Equal(t, 10*time.Second, got.Tracker.Interval)
	assert.Equal(t, "Attic", got.Tracker.Location)
	assert.Equal(t, "1.1.1.1", got.Probe.Target)
}

func TestBuildConfigInvalid(t *testing.T) {
	_, err := parseArgs(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	got, err := parseArgs(t, "--latency-mode", "udp")
	require.NoError(t, err)
	assert.Error(t, validateConfig(got))
}

func TestDashboardLogOutput(t *testing.T) {
	assert.Equal(t, logger.OutputDiscard, dashboardLogOutput(""))
	assert.Equal(t, logger.OutputDiscard, dashboardLogOutput(logger.OutputStderr))
	assert.Equal(t, logger.OutputDiscard, dashboardLogOutput(logger.OutputStdout))
	assert.Equal(t, "/var/log/wifispot.log", dashboardLogOutput("/var/log/wifispot.log"))
}

func TestWriteTableByExtension(t *testing.T) {
	dir := t.TempDir()
	table := core.NewTable(core.Sample{
		Timestamp: time.Now().Truncate(time.Second),
		Location:  "A",
		SSID:      "office",
		BSSID:     core.Unknown,
		Signal:    core.Some(-55),
	})

	csvPath := filepath.Join(dir, "walk.csv")
	require.NoError(t, writeTable(csvPath, table))
	data, err := os.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "Time,Location,SSID")

	parquetPath := filepath.Join(dir, "walk.PARQUET")
	require.NoError(t, writeTable(parquetPath, table))
	data, err = os.ReadFile(parquetPath)
	require.NoError(t, err)
	assert.Equal(t, "PAR1", string(data[:4]))
}
