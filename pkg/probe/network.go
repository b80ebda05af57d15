package probe

import (
	"context"
	"errors"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// NetworkProbe 网络身份探针：SSID、BSSID、信号强度、频段
type NetworkProbe struct {
	source   core.TextOutputSource
	platform Platform
	iface    string
	timeout  time.Duration
}

// NewNetworkProbe 创建网络身份探针
func NewNetworkProbe(source core.TextOutputSource, config *Config) *NetworkProbe {
	return &NetworkProbe{
		source:   source,
		platform: config.Platform,
		iface:    config.Interface,
		timeout:  config.Timeout,
	}
}

// Name 探针名称
func (p *NetworkProbe) Name() string {
	return "network"
}

// Probe 执行一次网络身份探测
// 未知平台返回占位记录且不报错；命令失败时返回占位记录和非致命的探针错误
func (p *NetworkProbe) Probe(ctx context.Context) (core.NetworkInfo, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	switch p.platform {
	case PlatformUnix:
		return p.probeUnix(ctx)
	case PlatformWindows:
		out, err := p.source.Output(ctx, "netsh", "wlan", "show", "interfaces")
		return p.parse(PlatformWindows, out, err)
	default:
		return core.UnknownNetworkInfo(), nil
	}
}

// probeUnix 优先使用 iwconfig，不存在时退回到 iw
func (p *NetworkProbe) probeUnix(ctx context.Context) (core.NetworkInfo, error) {
	var args []string
	if p.iface != "" {
		args = append(args, p.iface)
	}

	out, err := p.source.Output(ctx, "iwconfig", args...)
	if err == nil || !errors.Is(err, core.ErrToolUnavailable) {
		return p.parse(PlatformUnix, out, err)
	}

	iface := p.iface
	if iface == "" {
		devs, devErr := p.source.Output(ctx, "iw", "dev")
		if devErr != nil {
			return core.UnknownNetworkInfo(), p.failure(devErr)
		}
		ifs := ParseIwInterfaces(string(devs))
		if len(ifs) == 0 {
			return core.UnknownNetworkInfo(), core.NewProbeError(p.Name(), core.ErrParseFailure, errors.New("iw dev 没有列出无线网卡"))
		}
		iface = ifs[0]
	}

	link, linkErr := p.source.Output(ctx, "iw", "dev", iface, "link")
	if linkErr != nil && len(link) == 0 {
		return core.UnknownNetworkInfo(), p.failure(linkErr)
	}

	return ParseIwLink(string(link)), nil
}

// parse 解析命令输出；有输出时尽力解析，没有输出时报告失败
func (p *NetworkProbe) parse(platform Platform, out []byte, err error) (core.NetworkInfo, error) {
	if err != nil && len(out) == 0 {
		return core.UnknownNetworkInfo(), p.failure(err)
	}
	return ParseNetworkInfo(platform, string(out)), nil
}

// failure 把命令错误包装为探针错误
func (p *NetworkProbe) failure(err error) error {
	kind := core.KindOf(err)
	if kind == nil {
		kind = core.ErrToolUnavailable
	}
	return core.NewProbeError(p.Name(), kind, err)
}
