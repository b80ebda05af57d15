// Package tracker 配置定义
package tracker

import (
	"errors"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// Config 追踪控制器的配置结构
type Config struct {
	Interval    time.Duration `yaml:"interval"`     // 两轮采样之间的等待时间
	Location    string        `yaml:"location"`     // 初始位置标签
	EventBuffer int           `yaml:"event_buffer"` // 事件通道缓冲区大小
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		Interval:    3 * time.Second, // 默认3秒
		Location:    core.Unknown,
		EventBuffer: 64,
	}
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.Interval <= 0 {
		return errors.New("采样间隔必须大于0")
	}

	if c.Interval < 100*time.Millisecond {
		return errors.New("采样间隔不能小于100ms")
	}

	if c.EventBuffer <= 0 {
		return errors.New("事件缓冲区大小必须大于0")
	}

	return nil
}

// Option 配置选项函数类型
type Option func(*Config)

// WithInterval 设置采样间隔
func WithInterval(interval time.Duration) Option {
	return func(c *Config) {
		c.Interval = interval
	}
}

// WithLocation 设置初始位置标签
func WithLocation(location string) Option {
	return func(c *Config) {
		c.Location = location
	}
}

// WithEventBuffer 设置事件通道缓冲区大小
func WithEventBuffer(size int) Option {
	return func(c *Config) {
		c.EventBuffer = size
	}
}

// NewConfigWithOptions 使用选项模式创建配置
func NewConfigWithOptions(opts ...Option) *Config {
	config := DefaultConfig()

	for _, opt := range opts {
		opt(config)
	}

	return config
}
