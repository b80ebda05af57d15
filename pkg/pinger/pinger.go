// Package pinger 提供原生ICMP回显，实现延迟探针的 Echoer 接口
// 根据操作系统和用户权限自动选择最合适的底层实现
package pinger

import (
	"context"
	"errors"
	"fmt"
	"net"
	"os"
	"runtime"
	"sync"
	"syscall"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// ErrClosed Pinger 已关闭
var ErrClosed = errors.New("pinger已关闭")

// Pinger 单次ICMP回显
// 同一时刻只有一个回显在进行，序号单调递增
type Pinger struct {
	config *Config
	impl   echoer

	mu     sync.Mutex
	seq    int
	closed bool
}

// NewPinger 创建新的Pinger实例
// 优先使用特权模式，没有权限时降级到平台的非特权实现
func NewPinger(config *Config) (*Pinger, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	platform := getPlatformCapability()

	var (
		impl echoer
		err  error
	)
	if platform.hasPrivilegedAccess() {
		impl, err = platform.createPrivilegedEchoer(config)
	} else {
		impl, err = platform.createUnprivilegedEchoer(config)
	}
	if err != nil {
		return nil, fmt.Errorf("无法创建ICMP套接字: %w: %w", core.ErrToolUnavailable, err)
	}

	return newPingerWith(config, impl), nil
}

// newPingerWith 使用指定的底层实现创建Pinger
func newPingerWith(config *Config, impl echoer) *Pinger {
	return &Pinger{config: config, impl: impl}
}

// Echo 向 host 发送一次回显请求，返回往返时间(ms)
// 超时时间取配置和上下文期限中较早的一个
func (p *Pinger) Echo(ctx context.Context, host string) (float64, error) {
	dst, err := p.config.ResolveTarget(host)
	if err != nil {
		return 0, err
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return 0, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, classify(host, err)
	}

	deadline := time.Now().Add(p.config.Timeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}

	p.seq = (p.seq + 1) & 0xffff
	rtt, err := p.impl.echo(dst, p.seq, deadline)
	if err != nil {
		return 0, classify(host, err)
	}

	// 转换为毫秒
	return float64(rtt.Nanoseconds()) / 1e6, nil
}

// Close 释放底层资源，可以重复调用
func (p *Pinger) Close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.closed {
		return nil
	}
	p.closed = true
	return p.impl.close()
}

// classify 把底层错误归入探针失败分类
func classify(host string, err error) error {
	var netErr net.Error
	switch {
	case errors.Is(err, os.ErrDeadlineExceeded),
		errors.Is(err, context.DeadlineExceeded),
		errors.As(err, &netErr) && netErr.Timeout():
		return fmt.Errorf("%s: %w: %w", host, core.ErrTimeout, err)
	case errors.Is(err, os.ErrPermission), errors.Is(err, syscall.EPERM), errors.Is(err, syscall.EACCES):
		return fmt.Errorf("%s: %w: %w", host, core.ErrToolUnavailable, err)
	default:
		return fmt.Errorf("%s: %w: %w", host, core.ErrNetworkFailure, err)
	}
}

// GetSystemInfo 获取完整的系统信息
// 返回操作系统名称、权限状态和实现类型
func GetSystemInfo() (osName, privilegeStatus, implementationType string) {
	switch runtime.GOOS {
	case "windows":
		osName = "Windows"
	case "linux":
		osName = "Linux"
	case "darwin":
		osName = "macOS"
	default:
		osName = runtime.GOOS
	}

	hasPriv := HasPrivilegedAccess()

	switch runtime.GOOS {
	case "windows":
		if hasPriv {
			privilegeStatus = "管理员模式 (Raw Socket)"
			implementationType = "Raw Socket"
		} else {
			privilegeStatus = "普通用户模式 (Windows API)"
			implementationType = "Windows ICMP API"
		}
	case "linux", "darwin":
		if hasPriv {
			privilegeStatus = "特权模式 (Raw Socket)"
			implementationType = osName + " Raw Socket"
		} else {
			privilegeStatus = "非特权模式 (DGRAM Socket)"
			implementationType = osName + " DGRAM Socket"
		}
	default:
		if hasPriv {
			privilegeStatus = "特权模式"
			implementationType = "通用Raw Socket"
		} else {
			privilegeStatus = "权限不足"
			implementationType = "通用Raw Socket (需要提权)"
		}
	}

	return
}

// HasPrivilegedAccess 检查是否有特权访问能力
func HasPrivilegedAccess() bool {
	return getPlatformCapability().hasPrivilegedAccess()
}
