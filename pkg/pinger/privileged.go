// Package pinger - 特权模式实现
// 使用原始套接字，需要管理员/root权限，但支持所有操作系统
package pinger

import (
	"net"
	"os"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// ICMP协议号，用于解析回复
const (
	protocolICMP     = 1
	protocolIPv6ICMP = 58
)

// privilegedEchoer 特权模式的回显实现
// 每次回显单独建立原始套接字，目标可以随时变化
type privilegedEchoer struct {
	config *Config
	id     int
}

// newPrivilegedEchoer 创建特权模式的回显实现
func newPrivilegedEchoer(config *Config) *privilegedEchoer {
	return &privilegedEchoer{
		config: config,
		id:     os.Getpid() & 0xffff,
	}
}

// echo 发送单个ping包并等待匹配的回复
func (p *privilegedEchoer) echo(dst *net.IPAddr, seq int, deadline time.Time) (time.Duration, error) {
	network, address, requestType, proto := "ip4:icmp", "0.0.0.0", icmp.Type(ipv4.ICMPTypeEcho), protocolICMP
	if p.config.IPVersion == 6 {
		network, address, requestType, proto = "ip6:ipv6-icmp", "::", ipv6.ICMPTypeEchoRequest, protocolIPv6ICMP
	}

	conn, err := icmp.ListenPacket(network, address)
	if err != nil {
		return 0, err
	}
	defer conn.Close()

	data, err := marshalEcho(requestType, p.id, seq, p.config.Payload)
	if err != nil {
		return 0, err
	}

	// 原始套接字会收到本机所有ICMP报文，需要同时比较ID
	return roundTrip(conn, dst, dst, data, proto, p.id, seq, true, deadline)
}

// close 每次回显都会关闭自己的套接字
func (p *privilegedEchoer) close() error {
	return nil
}

// roundTrip 发送请求并读取报文，直到收到匹配的回复或超过期限
func roundTrip(conn *icmp.PacketConn, to net.Addr, dst *net.IPAddr, data []byte, proto, id, seq int, checkID bool, deadline time.Time) (time.Duration, error) {
	if err := conn.SetDeadline(deadline); err != nil {
		return 0, err
	}

	startTime := time.Now()
	if _, err := conn.WriteTo(data, to); err != nil {
		return 0, err
	}

	reply := make([]byte, 1500)
	for {
		n, from, err := conn.ReadFrom(reply)
		if err != nil {
			return 0, err
		}

		// 检查来源地址
		if ip := addrIP(from); ip != nil && !ip.Equal(dst.IP) {
			continue
		}

		if matchEchoReply(proto, reply[:n], id, seq, checkID) {
			return time.Since(startTime), nil
		}
	}
}

// addrIP 提取报文来源的IP
func addrIP(addr net.Addr) net.IP {
	switch a := addr.(type) {
	case *net.IPAddr:
		return a.IP
	case *net.UDPAddr:
		return a.IP
	default:
		return nil
	}
}

// marshalEcho 构建回显请求报文
func marshalEcho(requestType icmp.Type, id, seq int, payload string) ([]byte, error) {
	msg := &icmp.Message{
		Type: requestType,
		Code: 0,
		Body: &icmp.Echo{
			ID:   id,
			Seq:  seq,
			Data: []byte(payload),
		},
	}
	return msg.Marshal(nil)
}

// matchEchoReply 判断报文是否为本次请求的回复
// DGRAM 套接字的ID由内核改写，checkID 为false时只比较序号
func matchEchoReply(proto int, packet []byte, id, seq int, checkID bool) bool {
	msg, err := icmp.ParseMessage(proto, packet)
	if err != nil {
		return false
	}

	if msg.Type != ipv4.ICMPTypeEchoReply && msg.Type != ipv6.ICMPTypeEchoReply {
		return false
	}

	echo, ok := msg.Body.(*icmp.Echo)
	if !ok {
		return false
	}

	return echo.Seq == seq && (!checkID || echo.ID == id)
}
