// Package probe 配置定义
package probe

import (
	"errors"
	"fmt"
	"runtime"
	"time"
)

// LatencyMode 延迟探针的实现方式
type LatencyMode string

const (
	LatencyCommand LatencyMode = "command" // 调用系统 ping 命令并解析输出
	LatencyICMP    LatencyMode = "icmp"    // 使用原生ICMP回显
)

// DefaultTarget 延迟探针的默认目标
const DefaultTarget = "8.8.8.8"

// Config 探针组件的配置结构
type Config struct {
	Platform         Platform      `yaml:"-"`                           // 输出语法所属平台
	Interface        string        `yaml:"interface"`                   // 无线网卡名称，空表示自动选择
	Target           string        `yaml:"target"`                      // 延迟探测目标
	LatencyMode      LatencyMode   `yaml:"latency_mode"`                // 延迟探测方式
	Timeout          time.Duration `yaml:"timeout"`                     // 单个探针的超时时间
	SpeedtestTimeout time.Duration `yaml:"speedtest_timeout"`           // 测速的超时时间
	SpeedtestServers []int         `yaml:"speedtest_servers,omitempty"` // 指定测速服务器ID，空表示选择最近的服务器
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Platform:         PlatformOf(runtime.GOOS),
		Target:           DefaultTarget,
		LatencyMode:      LatencyCommand,
		Timeout:          5 * time.Second,  // 默认5秒超时
		SpeedtestTimeout: 90 * time.Second, // 测速本身需要数十秒
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.Target == "" {
		return errors.New("延迟探测目标不能为空")
	}

	if c.LatencyMode != LatencyCommand && c.LatencyMode != LatencyICMP {
		return fmt.Errorf("延迟探测方式必须是 %s 或 %s，当前为 %q", LatencyCommand, LatencyICMP, c.LatencyMode)
	}

	if c.Timeout <= 0 {
		return errors.New("探针超时时间必须大于0")
	}

	if c.Timeout < 100*time.Millisecond {
		return errors.New("探针超时时间不能小于100ms")
	}

	if c.SpeedtestTimeout <= 0 {
		return errors.New("测速超时时间必须大于0")
	}

	return nil
}

// Option 配置选项函数类型
type Option func(*Config)

// WithPlatform 设置输出语法平台
func WithPlatform(platform Platform) Option {
	return func(c *Config) {
		c.Platform = platform
	}
}

// WithInterface 设置无线网卡
func WithInterface(iface string) Option {
	return func(c *Config) {
		c.Interface = iface
	}
}

// WithTarget 设置延迟探测目标
func WithTarget(target string) Option {
	return func(c *Config) {
		c.Target = target
	}
}

// WithLatencyMode 设置延迟探测方式
func WithLatencyMode(mode LatencyMode) Option {
	return func(c *Config) {
		c.LatencyMode = mode
	}
}

// WithTimeout 设置探针超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// NewConfigWithOptions 使用选项模式创建探针配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	for _, opt := range opts {
		opt(config)
	}

	return config
}
