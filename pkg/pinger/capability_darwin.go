//go:build darwin

package pinger

import (
	"os"
)

// darwinCapability macOS平台能力实现
type darwinCapability struct{}

// hasPrivilegedAccess 检查macOS root权限
func (d *darwinCapability) hasPrivilegedAccess() bool {
	return os.Geteuid() == 0
}

// createPrivilegedEchoer 创建特权模式回显实现（使用raw socket）
func (d *darwinCapability) createPrivilegedEchoer(config *Config) (echoer, error) {
	return newPrivilegedEchoer(config), nil
}

// createUnprivilegedEchoer macOS允许普通用户使用DGRAM ICMP socket
func (d *darwinCapability) createUnprivilegedEchoer(config *Config) (echoer, error) {
	return newDgramEchoer(config)
}

// getPlatformCapability 获取macOS平台的能力实现
func getPlatformCapability() platformCapability {
	return &darwinCapability{}
}
