// Package tui 工具函数和辅助类型
package tui

import (
	"fmt"
	"math"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// formatLatency 提供自适应的延迟格式化
func formatLatency(latency float64) string {
	if math.IsNaN(latency) {
		return "N/A"
	}

	if latency < 1.0 {
		// 小于1ms，显示为微秒
		return fmt.Sprintf("%.0fµs", latency*1000)
	} else if latency < 1000.0 {
		// 1ms到1000ms之间，显示为毫秒
		return fmt.Sprintf("%.1fms", latency)
	} else {
		// 大于等于1000ms，显示为秒
		return fmt.Sprintf("%.2fs", latency/1000)
	}
}

// formatSignal 信号强度，不区分dBm和百分比
func formatSignal(signal float64) string {
	if math.IsNaN(signal) {
		return "N/A"
	}
	return fmt.Sprintf("%.0f", signal)
}

// formatSignalOptional 带颜色的信号强度
func formatSignalOptional(signal core.Optional[int]) string {
	v, ok := signal.Get()
	if !ok {
		return "N/A"
	}

	// Unix下为负的dBm，Windows下为0~100的百分比
	color := "[green]"
	switch {
	case v < -75, v >= 0 && v < 40:
		color = "[red]"
	case v < -65, v >= 0 && v < 70:
		color = "[yellow]"
	}
	return fmt.Sprintf("%s%d[white]", color, v)
}

// formatMbps 吞吐量
func formatMbps(mbps float64) string {
	if math.IsNaN(mbps) {
		return "N/A"
	}
	return fmt.Sprintf("%.2fMbps", mbps)
}

// formatRate 自适应的字节速率格式化
func formatRate(bytesPerSecond float64) string {
	switch {
	case math.IsNaN(bytesPerSecond):
		return "N/A"
	case bytesPerSecond < 1024:
		return fmt.Sprintf("%.0fB/s", bytesPerSecond)
	case bytesPerSecond < 1024*1024:
		return fmt.Sprintf("%.1fKB/s", bytesPerSecond/1024)
	default:
		return fmt.Sprintf("%.1fMB/s", bytesPerSecond/1024/1024)
	}
}

// formatOptional 缺失时显示N/A
func formatOptional(v core.Optional[float64], format func(float64) string) string {
	value, ok := v.Get()
	if !ok {
		return "N/A"
	}
	return format(value)
}

// abs 返回整数的绝对值
func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
