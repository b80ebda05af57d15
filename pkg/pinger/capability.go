// Package pinger - 平台能力接口定义
// 定义了跨平台的权限检测和回显实现创建接口
package pinger

import (
	"net"
	"time"
)

// echoer 单次ICMP回显的底层实现
type echoer interface {
	// echo 向 dst 发送序号为 seq 的回显请求并等待匹配的回复，deadline 之后放弃
	echo(dst *net.IPAddr, seq int, deadline time.Time) (time.Duration, error)

	// close 释放套接字或句柄
	close() error
}

// platformCapability 定义平台能力接口
// 每个平台实现此接口来提供权限检测和回显实现
type platformCapability interface {
	// hasPrivilegedAccess 检查是否有特权访问能力
	// Windows: 检查管理员权限
	// Linux: 检查CAP_NET_RAW或root权限
	// macOS: 检查root权限
	hasPrivilegedAccess() bool

	// createPrivilegedEchoer 创建特权模式回显实现
	// 所有平台统一使用raw socket实现
	createPrivilegedEchoer(config *Config) (echoer, error)

	// createUnprivilegedEchoer 创建非特权模式回显实现
	// Windows: 使用Windows API
	// Linux/macOS: 使用DGRAM ICMP socket
	createUnprivilegedEchoer(config *Config) (echoer, error)
}
