package probe

import (
	"context"
	"errors"
	"os/exec"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// withTools 替换 lookPath，只有列出的工具可用
func withTools(t *testing.T, tools ...string) {
	t.Helper()

	available := make(map[string]bool, len(tools))
	for _, tool := range tools {
		available[tool] = true
	}

	original := lookPath
	lookPath = func(file string) (string, error) {
		if available[file] {
			return "/usr/bin/" + file, nil
		}
		return "", exec.ErrNotFound
	}
	t.Cleanup(func() { lookPath = original })
}

func TestCheckEnvironment(t *testing.T) {
	tests := []struct {
		name     string
		config   *Config
		tools    []string
		missing  []string
		wantFail bool
	}{
		{
			name:   "unix all present",
			config: unixConfig(),
			tools:  []string{"iwconfig", "ping"},
		},
		{
			name:   "unix iw only",
			config: unixConfig(),
			tools:  []string{"iw", "ping"},
		},
		{
			name:    "unix no identity tool",
			config:  unixConfig(),
			tools:   []string{"ping"},
			missing: []string{"iwconfig/iw"},
		},
		{
			name:    "unix no ping",
			config:  unixConfig(),
			tools:   []string{"iwconfig"},
			missing: []string{"ping"},
		},
		{
			name:     "unix nothing",
			config:   unixConfig(),
			missing:  []string{"iwconfig/iw", "ping"},
			wantFail: true,
		},
		{
			name:    "icmp mode does not need ping",
			config:  unixConfig(WithLatencyMode(LatencyICMP)),
			missing: []string{"iwconfig/iw"},
		},
		{
			name:     "windows nothing",
			config:   NewConfigWithOptions(WithPlatform(PlatformWindows)),
			missing:  []string{"netsh", "ping"},
			wantFail: true,
		},
		{
			name:   "unknown platform with ping",
			config: NewConfigWithOptions(WithPlatform(PlatformUnknown)),
			tools:  []string{"ping"},
		},
		{
			name:     "unknown platform without ping",
			config:   NewConfigWithOptions(WithPlatform(PlatformUnknown)),
			missing:  []string{"ping"},
			wantFail: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			withTools(t, tt.tools...)

			missing, err := CheckEnvironment(tt.config)
			assert.Equal(t, tt.missing, missing)

			if !tt.wantFail {
				assert.NoError(t, err)
				return
			}

			var envErr *EnvironmentError
			require.True(t, errors.As(err, &envErr))
			assert.Equal(t, tt.missing, envErr.Missing)
		})
	}
}

func TestCommandRunnerMissingTool(t *testing.T) {
	_, err := CommandRunner{}.Output(context.Background(), "wifispot-no-such-tool-7f3a")
	require.Error(t, err)
	assert.True(t, errors.Is(err, core.ErrToolUnavailable))
}
