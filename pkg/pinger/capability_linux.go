//go:build linux

package pinger

import (
	"net"
	"os"
)

// linuxCapability Linux平台能力实现
type linuxCapability struct{}

// hasPrivilegedAccess 检查Linux权限（CAP_NET_RAW或root）
func (l *linuxCapability) hasPrivilegedAccess() bool {
	return checkLinuxCapNetRaw()
}

// createPrivilegedEchoer 创建特权模式回显实现（使用raw socket）
func (l *linuxCapability) createPrivilegedEchoer(config *Config) (echoer, error) {
	return newPrivilegedEchoer(config), nil
}

// createUnprivilegedEchoer 创建DGRAM回显实现
// 需要 net.ipv4.ping_group_range 包含当前用户组
func (l *linuxCapability) createUnprivilegedEchoer(config *Config) (echoer, error) {
	return newDgramEchoer(config)
}

// checkLinuxCapNetRaw 检查Linux系统的CAP_NET_RAW权限或root权限
func checkLinuxCapNetRaw() bool {
	if os.Geteuid() == 0 {
		return true
	}

	// 尝试创建原始套接字来检测CAP_NET_RAW权限
	conn, err := net.Dial("ip4:icmp", "127.0.0.1")
	if err != nil {
		return false
	}
	_ = conn.Close()

	return true
}

// getPlatformCapability 获取Linux平台的能力实现
func getPlatformCapability() platformCapability {
	return &linuxCapability{}
}
