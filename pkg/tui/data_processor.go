// Package tui 数据处理模块
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/rivo/tview"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/report"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

// handleEvent 根据控制器事件更新显示状态
func (t *TUI) handleEvent(event tracker.Event) {
	t.viewMu.Lock()
	defer t.viewMu.Unlock()

	switch event.Kind {
	case tracker.EventSample:
		t.view.latest = core.Some(event.Sample)
		t.view.table = t.controller.Snapshot()

	case tracker.EventWarning:
		if event.Err != nil {
			t.view.warning = event.Err.Error()
			t.view.warningTime = event.Time
		}

	case tracker.EventState:
		t.view.state = event.State
		// 停止后最后一轮可能还在追加，汇总使用最新的快照
		t.view.table = t.controller.Snapshot()

	case tracker.EventThroughput:
		t.view.status = fmt.Sprintf("测速完成: 下载 %s / 上传 %s",
			formatMbps(event.Throughput.DownloadMbps), formatMbps(event.Throughput.UploadMbps))

	case tracker.EventLatency:
		t.view.lastLatency = core.Some(event.Latency)
		t.view.status = "延迟检查: " + formatLatency(event.Latency)

	case tracker.EventCleared:
		t.view.table = core.Table{}
		t.view.latest = core.None[core.Sample]()
		t.view.status = "数据已清空"
	}
}

// syncWithController 从控制器读取状态和数据表
// 事件通道满时事件会被丢弃，定期同步保证显示不会停在过期的状态上
func (t *TUI) syncWithController() {
	state := t.controller.State()
	table := t.controller.Snapshot()

	t.viewMu.Lock()
	defer t.viewMu.Unlock()

	t.view.state = state
	t.view.table = table
	if last, ok := table.Last(); ok {
		t.view.latest = core.Some(last)
	} else {
		t.view.latest = core.None[core.Sample]()
	}
}

// setStatus 设置提示信息
func (t *TUI) setStatus(format string, args ...any) {
	t.viewMu.Lock()
	defer t.viewMu.Unlock()
	t.view.status = fmt.Sprintf(format, args...)
}

// snapshotView 返回显示状态的副本
func (t *TUI) snapshotView() viewState {
	t.viewMu.RLock()
	defer t.viewMu.RUnlock()
	return t.view
}

// headerText 标题和状态行
func (t *TUI) headerText() string {
	view := t.snapshotView()

	state := "[gray]空闲[white]"
	if view.state == tracker.StateTracking {
		state = "[green]追踪中[white]"
	}

	lastTick := "N/A"
	if tick := t.controller.LastTick(); !tick.IsZero() {
		lastTick = tick.Format("15:04:05")
	}

	return fmt.Sprintf("[green]WifiSpot[white]  状态: %s  位置: [yellow]%s[white]  行数: %d  最近采样: %s",
		state, tview.Escape(t.controller.Location()), view.table.Len(), lastTick)
}

// metricsText 实时指标面板
func (t *TUI) metricsText() string {
	view := t.snapshotView()

	sample, ok := view.latest.Get()
	if !ok {
		sample = core.Sample{
			SSID:      "N/A",
			BSSID:     "N/A",
			Frequency: "N/A",
		}
	}

	throughput := "N/A"
	if result, ok := t.controller.LastThroughput(); ok {
		throughput = fmt.Sprintf("↓%s ↑%s", formatMbps(result.DownloadMbps), formatMbps(result.UploadMbps))
	}
	if view.speedTest {
		throughput = "[yellow]测速中...[white]"
	}

	latency := formatOptional(sample.Latency, formatLatency)
	if check, ok := view.lastLatency.Get(); ok {
		latency += fmt.Sprintf(" (检查 %s)", formatLatency(check))
	}

	lines := []string{
		fmt.Sprintf("[yellow]%-6s[white] %s", "SSID", tview.Escape(sample.SSID)),
		fmt.Sprintf("[yellow]%-6s[white] %s", "BSSID", sample.BSSID),
		fmt.Sprintf("[yellow]%-6s[white] %s", "频率", tview.Escape(sample.Frequency)),
		fmt.Sprintf("[yellow]%-6s[white] %s", "信号", formatSignalOptional(sample.Signal)),
		fmt.Sprintf("[yellow]%-6s[white] %s", "延迟", latency),
		fmt.Sprintf("[yellow]%-6s[white] %s", "测速", throughput),
		fmt.Sprintf("[yellow]%-6s[white] ↓%s ↑%s", "流量",
			formatOptional(sample.RxRate, formatRate), formatOptional(sample.TxRate, formatRate)),
	}
	return strings.Join(lines, "\n")
}

// messageText 最近的警告和提示
func (t *TUI) messageText() string {
	view := t.snapshotView()

	var parts []string
	if view.warning != "" {
		parts = append(parts, fmt.Sprintf("[red]警告 %s: %s[white]",
			view.warningTime.Format("15:04:05"), tview.Escape(view.warning)))
	}
	if view.status != "" {
		parts = append(parts, "[yellow]"+tview.Escape(view.status)+"[white]")
	}
	if len(parts) == 0 {
		return "[gray]按 s 开始追踪[white]"
	}
	return strings.Join(parts, "  ")
}

// summaryText 汇总面板，只在空闲且有数据时显示汇总
func (t *TUI) summaryText() string {
	view := t.snapshotView()

	summary, err := report.Summarize(view.table, view.state)
	switch {
	case err == nil:
		return strings.Join(summary.Lines(), "\n")
	case errors.Is(err, report.ErrTrackingActive):
		return "[gray]停止追踪后显示汇总[white]"
	default:
		return "[gray]" + err.Error() + "[white]"
	}
}

// chartSeries 返回当前图表的数据序列
func (t *TUI) chartSeries(kind chartKind) []series {
	table := t.snapshotView().table

	switch kind {
	case chartLatency:
		return []series{{name: "延迟", color: "[yellow]", points: table.Series(core.ColumnLatency)}}
	case chartThroughput:
		return []series{
			{name: "下载", color: "[cyan]", points: table.Series(core.ColumnDownload)},
			{name: "上传", color: "[magenta]", points: table.Series(core.ColumnUpload)},
		}
	case chartTraffic:
		return []series{
			{name: "接收", color: "[blue]", points: table.Series(core.ColumnRxRate)},
			{name: "发送", color: "[red]", points: table.Series(core.ColumnTxRate)},
		}
	default:
		return []series{{name: "信号", color: "[green]", points: table.Series(core.ColumnSignal)}}
	}
}

// exportName 生成导出文件名
func exportName(now time.Time, ext string) string {
	return "wifispot-" + now.Format("20060102-150405") + ext
}
