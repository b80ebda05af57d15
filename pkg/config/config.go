// Package config 读取YAML配置文件
// 文件中的每个部分对应一个组件的 Config，未出现的字段保留默认值
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/Kevin-Rudy/wifispot/pkg/logger"
	"github.com/Kevin-Rudy/wifispot/pkg/pinger"
	"github.com/Kevin-Rudy/wifispot/pkg/probe"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
	"github.com/Kevin-Rudy/wifispot/pkg/tui"
)

// Config 应用的完整配置
type Config struct {
	Logger  logger.Config  `yaml:"logger"`
	Probe   probe.Config   `yaml:"probe"`
	ICMP    pinger.Config  `yaml:"icmp"`
	Tracker tracker.Config `yaml:"tracker"`
	TUI     tui.Config     `yaml:"tui"`
	Metrics MetricsConfig  `yaml:"metrics"`
}

// MetricsConfig 指标服务配置
type MetricsConfig struct {
	// Addr 监听地址，空表示不启动指标服务
	Addr string `yaml:"addr"`
}

// DefaultConfig 返回所有组件的默认配置
func DefaultConfig() *Config {
	return &Config{
		Logger:  *logger.DefaultConfig(),
		Probe:   *probe.DefaultConfig(),
		ICMP:    *pinger.DefaultConfig(),
		Tracker: *tracker.DefaultConfig(),
		TUI:     *tui.DefaultConfig(),
	}
}

// LoadConfig 读取YAML文件并覆盖默认值，path为空时返回默认配置
func LoadConfig(path string) (*Config, error) {
	config := DefaultConfig()

	if path == "" {
		return config, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("无法读取配置文件 %s: %w", path, err)
	}

	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("配置文件 %s 格式错误: %w", path, err)
	}

	return config, nil
}

// Validate 验证各组件配置
func (c *Config) Validate() error {
	checks := []struct {
		section string
		check   func() error
	}{
		{"probe", c.Probe.Validate},
		{"icmp", c.ICMP.Validate},
		{"tracker", c.Tracker.Validate},
		{"tui", c.TUI.Validate},
	}

	for _, item := range checks {
		if err := item.check(); err != nil {
			return fmt.Errorf("%s: %w", item.section, err)
		}
	}

	return nil
}

// Marshal 把配置序列化为YAML
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
