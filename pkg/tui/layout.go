// Package tui 布局管理模块
package tui

import (
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/rivo/tview"
)

const helpText = "[yellow]s[white] 开始  [yellow]x[white] 停止  [yellow]t[white] 测速  [yellow]l[white] 延迟  " +
	"[yellow]e[white] 导出CSV  [yellow]p[white] 导出Parquet  [yellow]c[white] 清空  " +
	"[yellow]Tab[white] 位置  [yellow]↑/↓[white] 图表  [yellow]q[white] 退出"

// newTextView 创建支持颜色标签的文本视图
func newTextView(title string) *tview.TextView {
	view := tview.NewTextView()
	view.SetDynamicColors(true)
	view.SetWordWrap(false)
	if title != "" {
		view.SetBorder(true)
		view.SetTitle(" " + title + " ")
	}
	return view
}

// setupUI 设置用户界面布局
func (t *TUI) setupUI() {
	t.header = newTextView("")
	t.metrics = newTextView("实时指标")
	t.summary = newTextView("会话汇总")
	t.chart = newTextView(t.selectedChart.String())
	t.message = newTextView("")

	t.chart.SetText("[yellow]正在初始化，等待数据...[white]")

	t.help = newTextView("")
	t.help.SetText(helpText)

	t.location = tview.NewInputField().
		SetLabel("位置: ").
		SetFieldWidth(40).
		SetText(t.controller.Location())
	t.location.SetDoneFunc(t.handleLocationDone)

	// 左侧：实时指标和汇总
	side := tview.NewFlex().SetDirection(tview.FlexRow)
	side.AddItem(t.metrics, 9, 0, false)
	side.AddItem(t.summary, 0, 1, false)

	// 中部：左侧面板 + 图表
	body := tview.NewFlex().SetDirection(tview.FlexColumn)
	body.AddItem(side, 44, 0, false)
	body.AddItem(t.chart, 0, 1, false)

	// 创建主垂直布局
	t.flex = tview.NewFlex().SetDirection(tview.FlexRow)
	t.flex.AddItem(t.header, 1, 0, false)
	t.flex.AddItem(body, 0, 1, false)
	t.flex.AddItem(t.message, 1, 0, false)
	t.flex.AddItem(t.location, 1, 0, false)
	t.flex.AddItem(t.help, 1, 0, false)

	t.app.SetRoot(t.flex, true)
}

// redraw 根据显示状态刷新所有面板，只能在UI goroutine中调用
func (t *TUI) redraw() {
	t.header.SetText(t.headerText())
	t.metrics.SetText(t.metricsText())
	t.summary.SetText(t.summaryText())
	t.message.SetText(t.messageText())
	t.updateChart()
}

// updateChart 更新图表显示
func (t *TUI) updateChart() {
	if t.testMode || t.chart == nil {
		return
	}

	t.chart.SetTitle(" " + t.selectedChart.String() + " ")

	// 获取图表视图的实际可绘制尺寸
	_, _, width, height := t.chart.GetInnerRect()

	// 确保有合理的最小尺寸
	if width < 20 {
		width = 80
	}
	if height < 10 {
		height = 15
	}

	t.chart.SetText(t.drawChart(width, height, time.Now()))
}

// focusLocation 进入位置编辑
func (t *TUI) focusLocation() {
	t.editing = true
	if t.testMode {
		return
	}
	t.location.SetText(t.controller.Location())
	t.location.SetFieldBackgroundColor(tcell.ColorDarkCyan)
	t.app.SetFocus(t.location)
}

// blurLocation 退出位置编辑
func (t *TUI) blurLocation() {
	t.editing = false
	if t.testMode {
		return
	}
	t.location.SetFieldBackgroundColor(tcell.ColorDefault)
	t.app.SetFocus(t.chart)
}

// safeUIUpdate 安全地执行UI更新操作
func (t *TUI) safeUIUpdate(updateFunc func()) {
	defer func() {
		if r := recover(); r != nil {
			// 如果应用已经停止，忽略panic
		}
	}()
	t.app.QueueUpdateDraw(updateFunc)
}
