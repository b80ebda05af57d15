// Package pinger 选项模式支持
package pinger

import (
	"time"
)

// Option 配置选项函数类型
type Option func(*Config)

// WithIPVersion 设置IP版本
func WithIPVersion(version int) Option {
	return func(c *Config) {
		c.IPVersion = version
	}
}

// WithTimeout 设置超时时间
func WithTimeout(timeout time.Duration) Option {
	return func(c *Config) {
		c.Timeout = timeout
	}
}

// WithPayload 设置回显数据
func WithPayload(payload string) Option {
	return func(c *Config) {
		c.Payload = payload
	}
}

// NewPingerWithOptions 使用选项模式创建Pinger
func NewPingerWithOptions(opts ...Option) (*Pinger, error) {
	config := DefaultConfig()

	// 应用所有选项
	for _, opt := range opts {
		opt(config)
	}

	return NewPinger(config)
}
