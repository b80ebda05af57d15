package probe

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	psnet "github.com/shirou/gopsutil/v3/net"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// ErrNoBaseline 流量探针第一次调用只建立基线，没有速率可报告
var ErrNoBaseline = errors.New("流量基线尚未建立")

// counterFunc 读取网卡计数器，测试时可替换
type counterFunc func(ctx context.Context, pernic bool) ([]psnet.IOCountersStat, error)

// TrafficProbe 网卡流量探针：通过相邻两次计数器的差值计算收发速率
type TrafficProbe struct {
	iface    string
	counters counterFunc
	now      func() time.Time

	mu          sync.Mutex
	lastRx      uint64
	lastTx      uint64
	lastAt      time.Time
	initialized bool
}

// NewTrafficProbe 创建流量探针，iface 为空时统计所有网卡之和
func NewTrafficProbe(config *Config) *TrafficProbe {
	return &TrafficProbe{
		iface:    config.Interface,
		counters: psnet.IOCountersWithContext,
		now:      time.Now,
	}
}

// Name 探针名称
func (p *TrafficProbe) Name() string {
	return "traffic"
}

// Probe 读取计数器并返回自上次调用以来的平均速率
func (p *TrafficProbe) Probe(ctx context.Context) (core.Traffic, error) {
	rx, tx, err := p.read(ctx)
	if err != nil {
		return core.Traffic{}, core.NewProbeError(p.Name(), core.ErrToolUnavailable, err)
	}

	p.mu.Lock()
	defer p.mu.Unlock()

	now := p.now()
	defer func() {
		p.lastRx, p.lastTx, p.lastAt = rx, tx, now
		p.initialized = true
	}()

	elapsed := now.Sub(p.lastAt).Seconds()
	// 计数器回绕或网卡重置时重新建立基线
	if !p.initialized || elapsed <= 0 || rx < p.lastRx || tx < p.lastTx {
		return core.Traffic{}, ErrNoBaseline
	}

	return core.Traffic{
		Interface: p.label(),
		RxRate:    float64(rx-p.lastRx) / elapsed,
		TxRate:    float64(tx-p.lastTx) / elapsed,
	}, nil
}

// read 读取收发字节计数
func (p *TrafficProbe) read(ctx context.Context) (uint64, uint64, error) {
	stats, err := p.counters(ctx, p.iface != "")
	if err != nil {
		return 0, 0, fmt.Errorf("读取网卡计数器失败: %w", err)
	}

	for _, s := range stats {
		if p.iface == "" || s.Name == p.iface {
			return s.BytesRecv, s.BytesSent, nil
		}
	}

	return 0, 0, fmt.Errorf("找不到网卡 %s", p.iface)
}

// label 返回网卡标签
func (p *TrafficProbe) label() string {
	if p.iface == "" {
		return "all"
	}
	return p.iface
}
