package probe

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/showwin/speedtest-go/speedtest"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// SpeedtestSource 基于 speedtest.net 的吞吐量测量，实现 core.ThroughputSource
type SpeedtestSource struct {
	client    *speedtest.Speedtest
	serverIDs []int
}

// 编译期检查
var _ core.ThroughputSource = (*SpeedtestSource)(nil)

// NewSpeedtestSource 创建测速来源，serverIDs 为空时选择最近的服务器
func NewSpeedtestSource(serverIDs ...int) *SpeedtestSource {
	return &SpeedtestSource{
		client:    speedtest.New(),
		serverIDs: serverIDs,
	}
}

// Measure 依次执行延迟、下载、上传测试
func (s *SpeedtestSource) Measure(ctx context.Context) (core.Throughput, error) {
	servers, err := s.client.FetchServerListContext(ctx)
	if err != nil {
		return core.Throughput{}, fmt.Errorf("获取测速服务器列表失败: %w", err)
	}

	targets, err := servers.FindServer(s.serverIDs)
	if err != nil {
		return core.Throughput{}, fmt.Errorf("选择测速服务器失败: %w", err)
	}
	if len(targets) == 0 {
		return core.Throughput{}, errors.New("没有可用的测速服务器")
	}

	server := targets[0]
	defer server.Context.Reset()

	if err := server.PingTestContext(ctx, nil); err != nil {
		return core.Throughput{}, fmt.Errorf("测速服务器 %s 延迟测试失败: %w", server.Name, err)
	}
	if err := server.DownloadTestContext(ctx); err != nil {
		return core.Throughput{}, fmt.Errorf("下载测试失败: %w", err)
	}
	if err := server.UploadTestContext(ctx); err != nil {
		return core.Throughput{}, fmt.Errorf("上传测试失败: %w", err)
	}

	// DLSpeed/ULSpeed 单位为字节/秒
	return core.Throughput{
		DownloadMbps: float64(server.DLSpeed) * 8 / 1e6,
		UploadMbps:   float64(server.ULSpeed) * 8 / 1e6,
	}, nil
}

// ThroughputProbe 吞吐量探针
// 测速耗时较长，不会在每个采样周期自动执行
type ThroughputProbe struct {
	source  core.ThroughputSource
	timeout time.Duration
}

// NewThroughputProbe 创建吞吐量探针
func NewThroughputProbe(source core.ThroughputSource, config *Config) *ThroughputProbe {
	return &ThroughputProbe{
		source:  source,
		timeout: config.SpeedtestTimeout,
	}
}

// Name 探针名称
func (p *ThroughputProbe) Name() string {
	return "throughput"
}

// Probe 执行一次测速，结果保留两位小数
func (p *ThroughputProbe) Probe(ctx context.Context) (core.Throughput, error) {
	ctx, cancel := context.WithTimeout(ctx, p.timeout)
	defer cancel()

	result, err := p.source.Measure(ctx)
	if err != nil {
		kind := core.KindOf(err)
		if kind == nil {
			if errors.Is(ctx.Err(), context.DeadlineExceeded) {
				kind = core.ErrTimeout
			} else {
				kind = core.ErrNetworkFailure
			}
		}
		return core.Throughput{}, core.NewProbeError(p.Name(), kind, err)
	}

	return core.Throughput{
		DownloadMbps: round2(result.DownloadMbps),
		UploadMbps:   round2(result.UploadMbps),
	}, nil
}

// round2 保留两位小数
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
