package tracker

import (
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// State 追踪状态
type State int

const (
	StateIdle     State = iota // 空闲
	StateTracking              // 追踪中
)

// String 返回状态名称
func (s State) String() string {
	if s == StateTracking {
		return "tracking"
	}
	return "idle"
}

// EventKind 事件类型
type EventKind int

const (
	EventSample     EventKind = iota // 新增一行样本
	EventWarning                     // 探针失败（非致命）
	EventState                       // 状态变化
	EventThroughput                  // 测速完成
	EventLatency                     // 单次延迟检查完成
	EventCleared                     // 数据表已清空
)

// Event 控制器发给展示层的通知
type Event struct {
	Kind       EventKind
	Time       time.Time
	Sample     core.Sample     // EventSample
	Err        error           // EventWarning
	State      State           // EventState
	Throughput core.Throughput // EventThroughput
	Latency    float64         // EventLatency
}

// Observer 接收样本和探针失败的观察者，用于指标导出
type Observer interface {
	ObserveSample(sample core.Sample)
	ObserveProbeError(probe string, err error)
	ObserveThroughput(result core.Throughput)
	ObserveState(state State)
}

// nopObserver 不做任何事的观察者
type nopObserver struct{}

func (nopObserver) ObserveSample(core.Sample)         {}
func (nopObserver) ObserveProbeError(string, error)   {}
func (nopObserver) ObserveThroughput(core.Throughput) {}
func (nopObserver) ObserveState(State)                {}
