// Package core 定义了采样框架的核心数据结构和接口
// 探针、追踪控制器、报告引擎和TUI之间只通过这里的类型交互
package core

import (
	"context"
	"math"
	"time"
)

//go:generate mockgen -destination=mock_core.go -package=core github.com/Kevin-Rudy/wifispot/pkg/core TextOutputSource,ThroughputSource

// Unknown 未能解析出的文本字段的占位值
const Unknown = "Unknown"

// Optional 表示一个可能缺失的值
// 采用值语义，保证样本追加到表后不会被修改
type Optional[T any] struct {
	value T
	valid bool
}

// Some 创建一个存在的值
func Some[T any](v T) Optional[T] {
	return Optional[T]{value: v, valid: true}
}

// None 创建一个缺失的值
func None[T any]() Optional[T] {
	return Optional[T]{}
}

// Get 返回值以及该值是否存在
func (o Optional[T]) Get() (T, bool) {
	return o.value, o.valid
}

// Valid 判断值是否存在
func (o Optional[T]) Valid() bool {
	return o.valid
}

// OrElse 值缺失时返回def
func (o Optional[T]) OrElse(def T) T {
	if !o.valid {
		return def
	}
	return o.value
}

// NetworkInfo 网络身份探针的结果
type NetworkInfo struct {
	SSID      string        // 当前关联的网络名称
	BSSID     string        // 接入点硬件地址
	Signal    Optional[int] // 信号强度，Unix为dBm，Windows为百分比
	Frequency string        // 频率或频段描述
}

// UnknownNetworkInfo 返回全部为Unknown的占位记录
func UnknownNetworkInfo() NetworkInfo {
	return NetworkInfo{
		SSID:      Unknown,
		BSSID:     Unknown,
		Signal:    None[int](),
		Frequency: Unknown,
	}
}

// Throughput 一次测速的结果（Mbps，保留两位小数）
type Throughput struct {
	DownloadMbps float64
	UploadMbps   float64
}

// Traffic 网卡在一个采样周期内的收发速率（字节/秒）
type Traffic struct {
	Interface string
	RxRate    float64
	TxRate    float64
}

// Sample 每个采样周期产生的一行数据
type Sample struct {
	Timestamp time.Time         // 采样时间，精确到秒
	Location  string            // 用户输入的位置标签
	SSID      string            // 网络名称或Unknown
	BSSID     string            // 接入点地址或Unknown
	Signal    Optional[int]     // 信号强度，探针失败时缺失
	Latency   Optional[float64] // 延迟(ms)，探针失败或无回复时缺失
	Download  Optional[float64] // 下载速率(Mbps)，仅在本周期有测速结果时存在
	Upload    Optional[float64] // 上传速率(Mbps)，仅在本周期有测速结果时存在

	// 以下字段只用于实时显示和指标导出，不写入CSV
	Frequency string
	RxRate    Optional[float64]
	TxRate    Optional[float64]
}

// Column 表示可以绘制成时间序列的数值列
type Column int

const (
	ColumnSignal Column = iota
	ColumnLatency
	ColumnDownload
	ColumnUpload
	ColumnRxRate
	ColumnTxRate
)

// String 返回列名
func (c Column) String() string {
	switch c {
	case ColumnSignal:
		return "Signal"
	case ColumnLatency:
		return "Latency"
	case ColumnDownload:
		return "Download"
	case ColumnUpload:
		return "Upload"
	case ColumnRxRate:
		return "RxRate"
	case ColumnTxRate:
		return "TxRate"
	default:
		return "Unknown"
	}
}

// Value 取出样本在某一列上的数值，缺失时返回NaN
func (s Sample) Value(c Column) float64 {
	var opt Optional[float64]
	switch c {
	case ColumnSignal:
		if v, ok := s.Signal.Get(); ok {
			return float64(v)
		}
		return math.NaN()
	case ColumnLatency:
		opt = s.Latency
	case ColumnDownload:
		opt = s.Download
	case ColumnUpload:
		opt = s.Upload
	case ColumnRxRate:
		opt = s.RxRate
	case ColumnTxRate:
		opt = s.TxRate
	}
	return opt.OrElse(math.NaN())
}

// PointStatus 表示数据点的状态
type PointStatus int

const (
	PointSuccess PointStatus = iota // 有值
	PointMissing                    // 该周期此字段缺失
)

// DataPoint 表示带时间戳和状态的数据点，用于图表绘制
type DataPoint struct {
	Timestamp time.Time   // 采样时间
	Value     float64     // 数值，NaN表示缺失
	Status    PointStatus // 数据点状态
}

// TextOutputSource 外部命令的文本输出来源
// 生产环境执行系统命令，测试时注入预设文本
type TextOutputSource interface {
	// Output 执行命令并返回标准输出
	// 命令以非零状态退出时也应返回已产生的输出，以便调用方继续解析
	Output(ctx context.Context, name string, args ...string) ([]byte, error)
}

// ThroughputSource 吞吐量测量能力
type ThroughputSource interface {
	// Measure 测量下载和上传速率，单位为Mbps
	Measure(ctx context.Context) (Throughput, error)
}
