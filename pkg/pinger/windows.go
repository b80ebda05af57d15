//go:build windows

// Package pinger - Windows非特权模式实现
// 使用Icmp.dll系统调用，适用于Windows系统
package pinger

import (
	"errors"
	"fmt"
	"net"
	"os"
	"sync"
	"syscall"
	"time"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	// 加载Icmp.dll库
	icmpDLL = windows.NewLazyDLL("Icmp.dll")

	// 获取函数地址
	icmpCreateFile  = icmpDLL.NewProc("IcmpCreateFile")
	icmpCloseHandle = icmpDLL.NewProc("IcmpCloseHandle")
	icmpSendEcho    = icmpDLL.NewProc("IcmpSendEcho")
)

// ipReqTimedOut IcmpSendEcho 的超时状态码
const ipReqTimedOut = 11010

// icmpEchoReply Windows ICMP回复结构体
type icmpEchoReply struct {
	Address       uint32
	Status        uint32
	RoundTripTime uint32
	DataSize      uint16
	Reserved      uint16
	Data          uintptr
	Options       icmpOptions
}

// icmpOptions Windows ICMP选项结构体
type icmpOptions struct {
	Ttl         uint8
	Tos         uint8
	Flags       uint8
	OptionsSize uint8
	OptionsData uintptr
}

// windowsEchoer Windows非特权模式的回显实现
type windowsEchoer struct {
	config     *Config
	mu         sync.Mutex
	icmpHandle syscall.Handle // ICMP句柄
}

// newWindowsEchoer 创建ICMP句柄
func newWindowsEchoer(config *Config) (*windowsEchoer, error) {
	if config.IPVersion == 6 {
		return nil, errors.New("Windows ICMP API 只支持IPv4，IPv6需要管理员权限")
	}

	ret, _, err := icmpCreateFile.Call()
	if ret == 0 || ret == uintptr(syscall.InvalidHandle) {
		return nil, err
	}

	return &windowsEchoer{config: config, icmpHandle: syscall.Handle(ret)}, nil
}

// echo 调用IcmpSendEcho发送单个ping包，序号由系统管理
func (p *windowsEchoer) echo(dst *net.IPAddr, seq int, deadline time.Time) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.icmpHandle == syscall.InvalidHandle {
		return 0, errors.New("ICMP句柄已关闭")
	}

	ip := dst.IP.To4()
	if ip == nil {
		return 0, fmt.Errorf("%s 不是IPv4地址", dst)
	}
	// 将IP地址转换为32位整数（网络字节序）
	destAddr := uint32(ip[0]) | (uint32(ip[1]) << 8) | (uint32(ip[2]) << 16) | (uint32(ip[3]) << 24)

	timeout := time.Until(deadline)
	if timeout <= 0 {
		return 0, os.ErrDeadlineExceeded
	}

	sendData := []byte(p.config.Payload)

	// 需要足够大的缓冲区来存储ICMP_ECHO_REPLY结构和数据
	replySize := unsafe.Sizeof(icmpEchoReply{}) + uintptr(len(sendData)) + 8
	replyBuffer := make([]byte, replySize)

	sendTime := time.Now()
	ret, _, _ := icmpSendEcho.Call(
		uintptr(p.icmpHandle),                    // ICMP句柄
		uintptr(destAddr),                        // 目标IP地址
		uintptr(unsafe.Pointer(&sendData[0])),    // 发送数据
		uintptr(len(sendData)),                   // 发送数据长度
		0,                                        // ICMP选项（NULL）
		uintptr(unsafe.Pointer(&replyBuffer[0])), // 接收缓冲区
		uintptr(len(replyBuffer)),                // 接收缓冲区大小
		uintptr(timeout.Milliseconds()),          // 超时时间（毫秒）
	)
	receiveTime := time.Now()

	reply := (*icmpEchoReply)(unsafe.Pointer(&replyBuffer[0]))
	if ret == 0 {
		if reply.Status == ipReqTimedOut || !receiveTime.Before(deadline) {
			return 0, os.ErrDeadlineExceeded
		}
		return 0, fmt.Errorf("IcmpSendEcho 失败，状态码 %d", reply.Status)
	}

	if reply.Status != 0 { // IP_SUCCESS
		return 0, fmt.Errorf("ICMP回复状态码 %d", reply.Status)
	}

	// 优先使用Windows API返回的往返时间
	if reply.RoundTripTime > 0 {
		return time.Duration(reply.RoundTripTime) * time.Millisecond, nil
	}
	return receiveTime.Sub(sendTime), nil
}

// close 关闭ICMP句柄
func (p *windowsEchoer) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.icmpHandle != syscall.InvalidHandle {
		icmpCloseHandle.Call(uintptr(p.icmpHandle))
		p.icmpHandle = syscall.InvalidHandle
	}
	return nil
}

// checkWindowsAdmin 检查是否具有Windows管理员权限
func checkWindowsAdmin() bool {
	var sid *windows.SID

	// 获取管理员组的SID
	err := windows.AllocateAndInitializeSid(
		&windows.SECURITY_NT_AUTHORITY,
		2,
		windows.SECURITY_BUILTIN_DOMAIN_RID,
		windows.DOMAIN_ALIAS_RID_ADMINS,
		0, 0, 0, 0, 0, 0,
		&sid)
	if err != nil {
		return false
	}
	defer windows.FreeSid(sid)

	// 获取当前进程的token
	token := windows.Token(0)

	isMember, err := token.IsMember(sid)
	if err != nil {
		return false
	}

	return isMember
}
