// Package tui 时间管理模块
package tui

import (
	"time"
)

// getTimeWindow 获取当前的时间窗口
func (t *TUI) getTimeWindow(now time.Time) (start, end time.Time) {
	elapsed := now.Sub(t.startTime)
	windowDuration := t.tuiConfig.GetWindowDuration()

	if elapsed < windowDuration {
		// 填充阶段：固定窗口，从启动时间开始
		return t.startTime, t.startTime.Add(windowDuration)
	}
	// 滚动阶段：跟随当前时间的移动窗口
	return now.Add(-windowDuration), now
}

// inWindow 判断时间戳是否在窗口内（包含起点）
func inWindow(timestamp, windowStart, windowEnd time.Time) bool {
	return !timestamp.Before(windowStart) && !timestamp.After(windowEnd)
}

// timestampToX 将时间戳转换为X坐标
func (t *TUI) timestampToX(timestamp time.Time, windowStart, windowEnd time.Time, chartWidth int) int {
	windowDuration := windowEnd.Sub(windowStart)
	if windowDuration == 0 {
		return 0
	}

	offset := timestamp.Sub(windowStart)
	if offset < 0 {
		return -1 // 在窗口左边界外
	}
	if offset > windowDuration {
		return chartWidth // 在窗口右边界外
	}

	// 将时间偏移转换为X坐标，右边界落在最后一列
	x := int(float64(offset) / float64(windowDuration) * float64(chartWidth-1))
	return x
}
