// Package tui 交互控制模块
package tui

import (
	"errors"
	"path/filepath"
	"strings"
	"time"

	"github.com/gdamore/tcell/v2"

	"github.com/Kevin-Rudy/wifispot/pkg/report"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

// 导航事件频率控制 - 包级私有变量
var (
	navigationEventCounter   int                      // 事件计数器
	navigationEventThreshold = 5                      // 5次事件后休息
	navigationRestDuration   = 100 * time.Millisecond // 休息100ms
	isNavigationResting      bool                     // 是否在休息状态
	lastNavigationEventTime  time.Time                // 最后一次事件时间
)

// shouldHandleNavigationEvent 判断是否应该处理导航事件
func shouldHandleNavigationEvent() bool {
	now := time.Now()

	// 如果正在休息中，检查是否休息够了
	if isNavigationResting {
		if now.Sub(lastNavigationEventTime) >= navigationRestDuration {
			// 休息够了，重置状态
			isNavigationResting = false
			navigationEventCounter = 0
			return true
		}
		// 还在休息，忽略事件
		return false
	}

	// 不在休息状态，可以处理
	return true
}

// recordNavigationEvent 记录导航事件
func recordNavigationEvent() {
	navigationEventCounter++
	lastNavigationEventTime = time.Now()

	// 检查是否达到阈值
	if navigationEventCounter >= navigationEventThreshold {
		isNavigationResting = true
	}
}

// setupKeyBindings 设置键盘绑定
func (t *TUI) setupKeyBindings() {
	t.app.SetInputCapture(func(event *tcell.EventKey) *tcell.EventKey {
		if event.Key() == tcell.KeyCtrlC {
			t.Stop()
			return nil
		}

		// 编辑位置时按键交给输入框
		if t.editing {
			return event
		}

		if t.handleKey(event) {
			// 输入回调运行在UI goroutine中，可以直接刷新
			t.redraw()
			return nil
		}
		return event
	})
}

// handleKey 处理一次按键，返回是否已处理
func (t *TUI) handleKey(event *tcell.EventKey) bool {
	switch event.Key() {
	case tcell.KeyTab:
		t.focusLocation()
		return true
	case tcell.KeyUp:
		// 添加频率控制检查
		if shouldHandleNavigationEvent() {
			t.navigateUp()
			recordNavigationEvent()
		}
		return true
	case tcell.KeyDown:
		if shouldHandleNavigationEvent() {
			t.navigateDown()
			recordNavigationEvent()
		}
		return true
	case tcell.KeyRune:
		switch event.Rune() {
		case 'q', 'Q':
			t.Stop()
		case 's', 'S':
			t.startTracking()
		case 'x', 'X':
			t.stopTracking()
		case 't', 'T':
			t.runSpeedTest()
		case 'l', 'L':
			t.checkLatency()
		case 'e', 'E':
			t.exportCSV()
		case 'p', 'P':
			t.exportParquet()
		case 'c', 'C':
			t.clearTable()
		default:
			return false
		}
		return true
	}
	return false
}

// handleLocationDone 位置输入框完成编辑
func (t *TUI) handleLocationDone(key tcell.Key) {
	switch key {
	case tcell.KeyEnter, tcell.KeyTab:
		t.applyLocation(t.location.GetText())
	case tcell.KeyEscape:
		t.location.SetText(t.controller.Location())
	}
	t.blurLocation()
}

// applyLocation 设置位置标签，从下一行开始生效
func (t *TUI) applyLocation(location string) {
	location = strings.TrimSpace(location)
	t.controller.SetLocation(location)
	t.setStatus("位置已设置为 %s", t.controller.Location())
}

// navigateUp 切换到上一个图表
func (t *TUI) navigateUp() {
	t.selectedChart = (t.selectedChart + chartKindCount - 1) % chartKindCount

	if !t.testMode {
		t.updateChart()
	}
}

// navigateDown 切换到下一个图表
func (t *TUI) navigateDown() {
	t.selectedChart = (t.selectedChart + 1) % chartKindCount

	if !t.testMode {
		t.updateChart()
	}
}

// startTracking 开始追踪
func (t *TUI) startTracking() {
	if !t.controller.Start() {
		t.setStatus("已在追踪中")
		return
	}
	t.setStatus("开始追踪")
}

// stopTracking 停止追踪
func (t *TUI) stopTracking() {
	if !t.controller.Stop() {
		t.setStatus("当前没有在追踪")
		return
	}
	t.setStatus("已停止追踪")
}

// runSpeedTest 在后台执行一次测速，结果通过事件返回
func (t *TUI) runSpeedTest() {
	t.viewMu.Lock()
	if t.view.speedTest {
		t.viewMu.Unlock()
		t.setStatus("测速正在进行中")
		return
	}
	t.view.speedTest = true
	t.view.status = "正在测速，可能需要数十秒..."
	t.viewMu.Unlock()

	go func() {
		_, err := t.controller.RunSpeedTest(t.ctx)

		t.viewMu.Lock()
		t.view.speedTest = false
		t.viewMu.Unlock()

		if err != nil {
			t.setStatus("测速失败: %v", err)
		}
	}()
}

// checkLatency 在后台执行一次延迟检查
func (t *TUI) checkLatency() {
	t.setStatus("正在检查延迟...")

	go func() {
		if _, err := t.controller.CheckLatency(t.ctx); err != nil {
			t.setStatus("延迟检查失败: %v", err)
		}
	}()
}

// clearTable 清空数据表
func (t *TUI) clearTable() {
	if err := t.controller.Clear(); err != nil {
		if errors.Is(err, tracker.ErrClearWhileTracking) {
			t.setStatus("请先停止追踪再清空数据")
			return
		}
		t.setStatus("清空失败: %v", err)
	}
}

// exportCSV 导出CSV
func (t *TUI) exportCSV() {
	path := t.exportPath(".csv")
	if err := report.SaveCSV(path, t.controller.Snapshot()); err != nil {
		t.logger.Error().Err(err).Str("path", path).Msg("导出CSV失败")
		t.setStatus("导出CSV失败: %v", err)
		return
	}
	t.logger.Info().Str("path", path).Msg("已导出CSV")
	t.setStatus("已导出 %s", path)
}

// exportParquet 导出Parquet
func (t *TUI) exportParquet() {
	path := t.exportPath(".parquet")
	if err := report.WriteParquet(path, t.controller.Snapshot()); err != nil {
		t.logger.Error().Err(err).Str("path", path).Msg("导出Parquet失败")
		t.setStatus("导出Parquet失败: %v", err)
		return
	}
	t.logger.Info().Str("path", path).Msg("已导出Parquet")
	t.setStatus("已导出 %s", path)
}

// exportPath 导出文件路径
// 配置了输出路径时替换其扩展名，否则按当前时间生成文件名
func (t *TUI) exportPath(ext string) string {
	output := t.tuiConfig.OutputPath
	if output == "" {
		return exportName(time.Now(), ext)
	}
	return strings.TrimSuffix(output, filepath.Ext(output)) + ext
}
