package probe

import (
	"context"
	"errors"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// Echoer 原生ICMP回显能力，由 pkg/pinger 提供
type Echoer interface {
	// Echo 发送一次回显请求，返回往返时间(ms)
	Echo(ctx context.Context, host string) (float64, error)
}

// LatencyProbe 延迟探针：对固定目标进行一次回显
type LatencyProbe struct {
	source   core.TextOutputSource
	echoer   Echoer
	platform Platform
	target   string
	timeout  time.Duration
}

// NewLatencyProbe 创建基于系统 ping 命令的延迟探针
func NewLatencyProbe(source core.TextOutputSource, config *Config) *LatencyProbe {
	return &LatencyProbe{
		source:   source,
		platform: config.Platform,
		target:   config.Target,
		timeout:  config.Timeout,
	}
}

// NewICMPLatencyProbe 创建基于原生ICMP的延迟探针
func NewICMPLatencyProbe(echoer Echoer, config *Config) *LatencyProbe {
	return &LatencyProbe{
		echoer:   echoer,
		platform: config.Platform,
		target:   config.Target,
		timeout:  config.Timeout,
	}
}

// Name 探针名称
func (p *LatencyProbe) Name() string {
	return "latency"
}

// Target 返回探测目标
func (p *LatencyProbe) Target() string {
	return p.target
}

// Probe 执行一次延迟探测，返回往返时间(ms)
// 失败时返回非致命的探针错误，调用方应将延迟视为缺失
func (p *LatencyProbe) Probe(ctx context.Context) (float64, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	if p.echoer != nil {
		return p.probeICMP(ctx)
	}

	out, err := p.source.Output(ctx, "ping", p.pingArgs()...)
	if err != nil && (errors.Is(err, core.ErrToolUnavailable) || errors.Is(err, core.ErrTimeout)) {
		return 0, core.NewProbeError(p.Name(), core.KindOf(err), err)
	}

	latency, parseErr := ParseLatency(p.platform, string(out))
	if parseErr == nil {
		return latency, nil
	}

	// ping 以非零状态退出且没有往返时间，说明没有收到回复
	if err != nil {
		return 0, core.NewProbeError(p.Name(), core.ErrNetworkFailure, err)
	}
	return 0, core.NewProbeError(p.Name(), core.ErrParseFailure, parseErr)
}

// pingArgs 单次回显的命令参数
func (p *LatencyProbe) pingArgs() []string {
	if p.platform == PlatformWindows {
		return []string{"-n", "1", p.target}
	}
	return []string{"-c", "1", p.target}
}

// probeICMP 使用原生ICMP回显
func (p *LatencyProbe) probeICMP(ctx context.Context) (float64, error) {
	latency, err := p.echoer.Echo(ctx, p.target)
	if err == nil {
		return latency, nil
	}

	kind := core.KindOf(err)
	if kind == nil {
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			kind = core.ErrTimeout
		} else {
			kind = core.ErrNetworkFailure
		}
	}
	return 0, core.NewProbeError(p.Name(), kind, err)
}
