//go:build linux || darwin

// Package pinger - 非特权模式实现
// 使用SOCK_DGRAM类型的ICMP套接字，适用于Linux和macOS
package pinger

import (
	"errors"
	"net"
	"sync"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"
	"golang.org/x/net/ipv6"
)

// dgramEchoer 非特权模式的回显实现
type dgramEchoer struct {
	config *Config
	mu     sync.Mutex
	conn   *icmp.PacketConn
}

// newDgramEchoer 创建DGRAM ICMP套接字
func newDgramEchoer(config *Config) (*dgramEchoer, error) {
	network, address := "udp4", "0.0.0.0"
	if config.IPVersion == 6 {
		network, address = "udp6", "::"
	}

	conn, err := icmp.ListenPacket(network, address)
	if err != nil {
		return nil, err
	}

	return &dgramEchoer{config: config, conn: conn}, nil
}

// echo 发送单个ping包并等待回复
func (p *dgramEchoer) echo(dst *net.IPAddr, seq int, deadline time.Time) (time.Duration, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return 0, errors.New("ICMP套接字已关闭")
	}

	requestType, proto := icmp.Type(ipv4.ICMPTypeEcho), protocolICMP
	if p.config.IPVersion == 6 {
		requestType, proto = ipv6.ICMPTypeEchoRequest, protocolIPv6ICMP
	}

	// ID 由内核填写
	data, err := marshalEcho(requestType, 0, seq, p.config.Payload)
	if err != nil {
		return 0, err
	}

	// DGRAM 套接字的ID由内核改写，只比较序号
	return roundTrip(p.conn, &net.UDPAddr{IP: dst.IP, Zone: dst.Zone}, dst, data, proto, 0, seq, false, deadline)
}

// close 关闭套接字
func (p *dgramEchoer) close() error {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.conn == nil {
		return nil
	}
	err := p.conn.Close()
	p.conn = nil
	return err
}
