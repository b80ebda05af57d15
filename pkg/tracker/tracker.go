// Package tracker 实现采样轮询控制器
// 控制器在空闲和追踪两个状态之间切换；追踪时由单个goroutine顺序执行
// “探测一轮 -> 追加一行 -> 发布新值 -> 等待间隔”，轮次之间从不重叠
package tracker

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/probe"
)

var (
	// ErrSpeedTestRunning 已有测速在进行
	ErrSpeedTestRunning = errors.New("测速正在进行中")
	// ErrNoThroughputProbe 没有配置吞吐量探针
	ErrNoThroughputProbe = errors.New("未配置吞吐量探针")
	// ErrClearWhileTracking 追踪进行中不能清空数据
	ErrClearWhileTracking = errors.New("追踪进行中，不能清空数据")
)

// NetworkProber 网络身份探针
type NetworkProber interface {
	Probe(ctx context.Context) (core.NetworkInfo, error)
}

// LatencyProber 延迟探针
type LatencyProber interface {
	Probe(ctx context.Context) (float64, error)
}

// ThroughputProber 吞吐量探针
type ThroughputProber interface {
	Probe(ctx context.Context) (core.Throughput, error)
}

// TrafficProber 网卡流量探针
type TrafficProber interface {
	Probe(ctx context.Context) (core.Traffic, error)
}

// Probes 控制器使用的探针集合，Throughput 和 Traffic 可以为nil
type Probes struct {
	Network    NetworkProber
	Latency    LatencyProber
	Throughput ThroughputProber
	Traffic    TrafficProber
}

// Tracker 采样轮询控制器
type Tracker struct {
	config   *Config
	probes   Probes
	logger   zerolog.Logger
	observer Observer
	now      func() time.Time

	// ctx 只在 Close 时取消；Stop 不会中断正在执行的探针
	ctx    context.Context
	cancel context.CancelFunc

	mu             sync.Mutex
	state          State
	lastTick       time.Time
	table          core.Table
	location       string
	lastThroughput core.Optional[core.Throughput]
	pending        core.Optional[core.Throughput] // 待附加到下一行的测速结果
	stopCh         chan struct{}
	done           chan struct{} // 最近一个循环的结束信号

	probeMu sync.Mutex // 采样轮次与单次延迟检查互斥
	speedMu sync.Mutex // 同一时刻只允许一个测速

	events chan Event
}

// New 创建控制器
func New(config *Config, probes Probes, logger zerolog.Logger, observer Observer) (*Tracker, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}
	if probes.Network == nil || probes.Latency == nil {
		return nil, errors.New("必须提供网络身份探针和延迟探针")
	}
	if observer == nil {
		observer = nopObserver{}
	}

	ctx, cancel := context.WithCancel(context.Background())

	return &Tracker{
		config:   config,
		probes:   probes,
		logger:   logger,
		observer: observer,
		now:      time.Now,
		ctx:      ctx,
		cancel:   cancel,
		location: config.Location,
		events:   make(chan Event, config.EventBuffer),
	}, nil
}

// Events 返回事件通道；通道满时新事件会被丢弃，采样循环不会阻塞
func (t *Tracker) Events() <-chan Event {
	return t.events
}

// State 返回当前状态
func (t *Tracker) State() State {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.state
}

// LastTick 返回最近一轮采样完成的时间，启动后尚未完成任何一轮时为零值
func (t *Tracker) LastTick() time.Time {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastTick
}

// Snapshot 返回当前数据表，返回值之后不会再被修改
func (t *Tracker) Snapshot() core.Table {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.table
}

// LastThroughput 返回最近一次测速结果
func (t *Tracker) LastThroughput() (core.Throughput, bool) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.lastThroughput.Get()
}

// Location 返回当前位置标签
func (t *Tracker) Location() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.location
}

// SetLocation 设置位置标签，从下一行开始生效；空字符串视为Unknown
func (t *Tracker) SetLocation(location string) {
	if location == "" {
		location = core.Unknown
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	t.location = location
}

// Clear 清空数据表，只能在空闲时调用
func (t *Tracker) Clear() error {
	t.mu.Lock()
	if t.state == StateTracking {
		t.mu.Unlock()
		return ErrClearWhileTracking
	}
	t.table = core.Table{}
	t.pending = core.None[core.Throughput]()
	t.mu.Unlock()

	t.emit(Event{Kind: EventCleared})
	return nil
}

// Start 从空闲进入追踪，重置最近采样时间
// 已在追踪时不做任何事并返回false
func (t *Tracker) Start() bool {
	t.mu.Lock()
	if t.state == StateTracking || t.ctx.Err() != nil {
		t.mu.Unlock()
		return false
	}

	t.state = StateTracking
	t.lastTick = time.Time{}

	prev := t.done
	stopCh := make(chan struct{})
	done := make(chan struct{})
	t.stopCh, t.done = stopCh, done
	t.mu.Unlock()

	go t.loop(stopCh, done, prev)

	t.logger.Info().Msg("开始追踪")
	t.observer.ObserveState(StateTracking)
	t.emit(Event{Kind: EventState, State: StateTracking})
	return true
}

// Stop 从追踪回到空闲，立即生效
// 正在执行的一轮仍会追加它的样本，但不会再安排下一轮
func (t *Tracker) Stop() bool {
	t.mu.Lock()
	if t.state != StateTracking {
		t.mu.Unlock()
		return false
	}

	t.state = StateIdle
	close(t.stopCh)
	// 未附加的测速结果属于本次会话，不带到下一次
	t.pending = core.None[core.Throughput]()
	t.mu.Unlock()

	t.logger.Info().Msg("停止追踪")
	t.observer.ObserveState(StateIdle)
	t.emit(Event{Kind: EventState, State: StateIdle})
	return true
}

// Wait 等待最近一个采样循环退出
func (t *Tracker) Wait() {
	t.mu.Lock()
	done := t.done
	t.mu.Unlock()

	if done != nil {
		<-done
	}
}

// Close 停止追踪并取消正在执行的探针，等待循环退出
func (t *Tracker) Close() {
	t.Stop()
	t.cancel()
	t.Wait()
}

// loop 采样循环
func (t *Tracker) loop(stopCh <-chan struct{}, done chan<- struct{}, prev <-chan struct{}) {
	defer close(done)

	// 上一个循环可能还有一轮没完成，等它退出后再开始
	if prev != nil {
		select {
		case <-prev:
		case <-t.ctx.Done():
			return
		}
	}

	for {
		select {
		case <-stopCh:
			return
		case <-t.ctx.Done():
			return
		default:
		}

		t.round(stopCh)

		timer := time.NewTimer(t.config.Interval)
		select {
		case <-stopCh:
			timer.Stop()
			return
		case <-t.ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
		}
	}
}

// round 执行一轮探测并追加一行
// stopCh 为这一轮所属循环的停止信号，nil 表示不属于任何循环
func (t *Tracker) round(stopCh <-chan struct{}) core.Sample {
	t.probeMu.Lock()
	timestamp := t.now().Truncate(time.Second)

	info, err := t.probes.Network.Probe(t.ctx)
	if err != nil {
		t.warn("network", err)
		info = core.UnknownNetworkInfo()
	}

	latency := core.None[float64]()
	if v, err := t.probes.Latency.Probe(t.ctx); err != nil {
		t.warn("latency", err)
	} else {
		latency = core.Some(v)
	}

	rx, tx := core.None[float64](), core.None[float64]()
	if t.probes.Traffic != nil {
		traffic, err := t.probes.Traffic.Probe(t.ctx)
		switch {
		case err == nil:
			rx, tx = core.Some(traffic.RxRate), core.Some(traffic.TxRate)
		case !errors.Is(err, probe.ErrNoBaseline):
			t.warn("traffic", err)
		}
	}
	t.probeMu.Unlock()

	t.mu.Lock()
	// 时间戳在会话内单调不减
	if last, ok := t.table.Last(); ok && timestamp.Before(last.Timestamp) {
		timestamp = last.Timestamp
	}

	sample := core.Sample{
		Timestamp: timestamp,
		Location:  t.location,
		SSID:      info.SSID,
		BSSID:     info.BSSID,
		Signal:    info.Signal,
		Latency:   latency,
		Frequency: info.Frequency,
		RxRate:    rx,
		TxRate:    tx,
	}
	// 旧循环在停止后完成的一轮仍然追加，但不能改动新会话的状态
	current := stopCh == nil || stopCh == t.stopCh
	if result, ok := t.pending.Get(); ok && current {
		sample.Download = core.Some(result.DownloadMbps)
		sample.Upload = core.Some(result.UploadMbps)
		t.pending = core.None[core.Throughput]()
	}

	t.table = t.table.Append(sample)
	if current {
		t.lastTick = t.now()
	}
	rows := t.table.Len()
	t.mu.Unlock()

	t.logger.Debug().
		Int("rows", rows).
		Str("ssid", sample.SSID).
		Msg("追加样本")
	t.observer.ObserveSample(sample)
	t.emit(Event{Kind: EventSample, Sample: sample})

	return sample
}

// CheckLatency 单次延迟检查，不追加样本
func (t *Tracker) CheckLatency(ctx context.Context) (float64, error) {
	t.probeMu.Lock()
	latency, err := t.probes.Latency.Probe(ctx)
	t.probeMu.Unlock()

	if err != nil {
		t.warn("latency", err)
		return 0, err
	}

	t.emit(Event{Kind: EventLatency, Latency: latency})
	return latency, nil
}

// RunSpeedTest 执行一次测速
// 结果保存为最近测速结果；追踪进行中时附加到下一行样本上
func (t *Tracker) RunSpeedTest(ctx context.Context) (core.Throughput, error) {
	if t.probes.Throughput == nil {
		return core.Throughput{}, ErrNoThroughputProbe
	}
	if !t.speedMu.TryLock() {
		return core.Throughput{}, ErrSpeedTestRunning
	}
	defer t.speedMu.Unlock()

	t.logger.Info().Msg("开始测速")

	result, err := t.probes.Throughput.Probe(ctx)
	if err != nil {
		t.warn("throughput", err)
		return core.Throughput{}, err
	}

	t.mu.Lock()
	t.lastThroughput = core.Some(result)
	if t.state == StateTracking {
		t.pending = core.Some(result)
	}
	t.mu.Unlock()

	t.logger.Info().
		Float64("download_mbps", result.DownloadMbps).
		Float64("upload_mbps", result.UploadMbps).
		Msg("测速完成")
	t.observer.ObserveThroughput(result)
	t.emit(Event{Kind: EventThroughput, Throughput: result})

	return result, nil
}

// warn 记录非致命的探针失败并通知展示层
func (t *Tracker) warn(name string, err error) {
	t.logger.Warn().
		Err(err).
		Str("probe", name).
		Str("kind", core.KindName(err)).
		Msg("探针失败")
	t.observer.ObserveProbeError(name, err)
	t.emit(Event{Kind: EventWarning, Err: err})
}

// emit 非阻塞地发送事件，通道满时丢弃
func (t *Tracker) emit(e Event) {
	if e.Time.IsZero() {
		e.Time = t.now()
	}

	select {
	case t.events <- e:
	default:
	}
}
