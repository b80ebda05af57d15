// Package pinger 配置定义
package pinger

import (
	"errors"
	"fmt"
	"net"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// Config pinger组件的配置结构
type Config struct {
	IPVersion int           `yaml:"ip_version"` // IP版本，4或6
	Timeout   time.Duration `yaml:"timeout"`    // 单次回显的超时时间
	Payload   string        `yaml:"payload"`    // 回显请求携带的数据
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		IPVersion: 4,               // 默认IPv4
		Timeout:   3 * time.Second, // 默认3秒超时
		Payload:   "wifispot",
	}
}

// GetIPProtocol 获取IP协议字符串，用于网络操作
func (c *Config) GetIPProtocol() string {
	if c.IPVersion == 6 {
		return "ip6"
	}
	return "ip4"
}

// ResolveTarget 把目标解析为当前IP版本的地址
func (c *Config) ResolveTarget(target string) (*net.IPAddr, error) {
	if target == "" {
		return nil, fmt.Errorf("目标地址不能为空: %w", core.ErrNetworkFailure)
	}

	dst, err := net.ResolveIPAddr(c.GetIPProtocol(), target)
	if err != nil {
		return nil, fmt.Errorf("无法将 '%s' 解析为IPv%d地址: %w: %w", target, c.IPVersion, core.ErrNetworkFailure, err)
	}
	return dst, nil
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.IPVersion != 4 && c.IPVersion != 6 {
		return errors.New("IP版本必须是4或6")
	}

	if c.Timeout <= 0 {
		return errors.New("超时时间必须大于0")
	}

	if c.Timeout < 100*time.Millisecond {
		return errors.New("超时时间不能小于100ms")
	}

	if c.Payload == "" {
		return errors.New("回显数据不能为空")
	}

	return nil
}
