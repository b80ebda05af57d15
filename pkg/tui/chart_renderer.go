// Package tui 图表渲染模块
package tui

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// chartKind 可切换的图表
type chartKind int

const (
	chartSignal chartKind = iota
	chartLatency
	chartThroughput
	chartTraffic
	chartKindCount
)

// String 图表标题
func (k chartKind) String() string {
	switch k {
	case chartLatency:
		return "延迟"
	case chartThroughput:
		return "下载/上传"
	case chartTraffic:
		return "网卡流量"
	default:
		return "信号强度"
	}
}

// formatter 图表Y轴标签的格式化函数
func (k chartKind) formatter() func(float64) string {
	switch k {
	case chartLatency:
		return formatLatency
	case chartThroughput:
		return formatMbps
	case chartTraffic:
		return formatRate
	default:
		return formatSignal
	}
}

// series 一条折线
type series struct {
	name   string
	color  string
	points []core.DataPoint
}

// brailleCell 定义盲文字符的cell结构
type brailleCell struct {
	char  int
	color string
}

// 盲文点阵的映射关系 (2x4 grid)
var brailleDotMap = [4][2]int{
	{0b00000001, 0b00001000}, // (y:0, x:0), (y:0, x:1)
	{0b00000010, 0b00010000}, // (y:1, x:0), (y:1, x:1)
	{0b00000100, 0b00100000}, // (y:2, x:0), (y:2, x:1)
	{0b01000000, 0b10000000}, // (y:3, x:0), (y:3, x:1)
}

// validateChartSize 验证图表尺寸是否合理
func (t *TUI) validateChartSize(width, height int) string {
	if height < t.tuiConfig.MinChartHeight || width < t.tuiConfig.MinChartWidth {
		return "终端尺寸过小"
	}
	if width > t.tuiConfig.MaxChartSize || height > t.tuiConfig.MaxChartSize {
		return "终端尺寸过大"
	}
	return ""
}

// calculateValueRange 计算窗口内数据的值范围
// 信号强度(dBm)为负值，只有全部为非负值时才把下限截到0
func (t *TUI) calculateValueRange(lines []series, windowStart, windowEnd time.Time) (minVal, maxVal, valueRange float64, errMsg string) {
	found := false
	for _, line := range lines {
		for _, point := range line.points {
			if point.Status != core.PointSuccess || !inWindow(point.Timestamp, windowStart, windowEnd) {
				continue
			}
			if math.IsNaN(point.Value) || math.IsInf(point.Value, 0) {
				continue
			}
			if !found {
				minVal, maxVal, found = point.Value, point.Value, true
				continue
			}
			minVal = math.Min(minVal, point.Value)
			maxVal = math.Max(maxVal, point.Value)
		}
	}

	if !found {
		return 0, 0, 0, "当前窗口内没有有效数据"
	}

	nonNegative := minVal >= 0

	// 如果所有值都一样，特殊处理
	if maxVal == minVal {
		maxVal++
		minVal--
	}

	// 采用缓冲算法
	buffer := (maxVal - minVal) * t.tuiConfig.ValueBufferRatio
	maxVal += buffer
	minVal -= buffer
	if nonNegative && minVal < 0 {
		minVal = 0
	}

	valueRange = maxVal - minVal
	if valueRange == 0 {
		valueRange = 1
	}

	return minVal, maxVal, valueRange, ""
}

// drawChart 绘制当前选中的图表
func (t *TUI) drawChart(width, height int, now time.Time) string {
	kind := t.selectedChart
	return t.drawChartWithTimestamps(t.chartSeries(kind), kind.formatter(), width, height, now)
}

// legend 图例
func legend(lines []series) string {
	var parts []string
	for _, line := range lines {
		parts = append(parts, line.color+"■[white] "+line.name)
	}
	return strings.Join(parts, "  ")
}

// drawChartWithTimestamps 基于时间戳绘制图表
// 缺失的数据点会断开折线，不会画到图表边缘
func (t *TUI) drawChartWithTimestamps(lines []series, format func(float64) string, width, height int, now time.Time) string {
	// 检查图表尺寸是否合理
	if sizeErr := t.validateChartSize(width, height); sizeErr != "" {
		return sizeErr
	}

	// 获取当前时间窗口
	windowStart, windowEnd := t.getTimeWindow(now)

	// 计算值范围
	minVal, maxVal, valueRange, err := t.calculateValueRange(lines, windowStart, windowEnd)
	if err != "" {
		return err
	}

	// 动态计算Y轴标签宽度
	topLabel := format(maxVal)
	bottomLabel := format(minVal)
	maxLabelLen := len(topLabel)
	if len(bottomLabel) > maxLabelLen {
		maxLabelLen = len(bottomLabel)
	}
	yAxisLabelWidth := maxLabelLen + 2 // +2 为│分隔符和右侧空格留出缓冲

	// 准备画布尺寸，为图例、X轴和时间戳留出3行空间
	chartBodyHeight := height - 3
	chartWidth := width - yAxisLabelWidth

	// 确保画布尺寸合理
	if chartBodyHeight <= 0 || chartWidth <= 0 {
		return "可绘制区域过小"
	}

	// 创建盲文画布
	canvas := make([][]brailleCell, chartWidth)
	for i := range canvas {
		canvas[i] = make([]brailleCell, chartBodyHeight)
	}

	subWidth, subHeight := chartWidth*2, chartBodyHeight*4

	for _, line := range lines {
		color := line.color
		if color == "" {
			color = "[white]"
		}

		lastValidX, lastValidY := -1, -1

		for _, point := range line.points {
			// 只处理在当前时间窗口内的数据点
			if !inWindow(point.Timestamp, windowStart, windowEnd) {
				continue
			}

			// 缺失值断开折线
			if point.Status != core.PointSuccess || math.IsNaN(point.Value) || math.IsInf(point.Value, 0) {
				lastValidX, lastValidY = -1, -1
				continue
			}

			// 计算X坐标（基于时间戳，使用高分辨率）
			currX := t.timestampToX(point.Timestamp, windowStart, windowEnd, subWidth)
			if currX < 0 || currX >= subWidth {
				continue
			}

			// 计算Y坐标
			normalized := (point.Value - minVal) / valueRange
			currY := int((1.0 - normalized) * float64(subHeight-1))
			if currY < 0 {
				currY = 0
			} else if currY >= subHeight {
				currY = subHeight - 1
			}

			if lastValidX != -1 {
				drawBrailleLine(canvas, lastValidX, lastValidY, currX, currY, color)
			} else {
				setBrailleDot(canvas, currX, currY, color)
			}

			lastValidX, lastValidY = currX, currY
		}
	}

	// 构建输出字符串
	out := []string{legend(lines)}

	// 预先计算Y轴标签位置
	yAxisLabelCount := 5
	if chartBodyHeight < yAxisLabelCount {
		yAxisLabelCount = chartBodyHeight
	}

	// 预先计算所有Y轴标签及其对应的行号
	yAxisLabels := make(map[int]string)
	if yAxisLabelCount > 1 {
		for i := 0; i < yAxisLabelCount; i++ {
			// 在数值上均匀分布
			normalized := float64(i) / float64(yAxisLabelCount-1)
			value := maxVal - normalized*valueRange
			pixelRow := int(normalized * float64(chartBodyHeight-1))
			yAxisLabels[pixelRow] = format(value)
		}
	}

	// 绘制Y轴和图表主体
	for i := 0; i < chartBodyHeight; i++ {
		var line strings.Builder
		fmt.Fprintf(&line, "[gray]%*s[white] [gray]│[white]", yAxisLabelWidth-2, yAxisLabels[i])

		for j := 0; j < chartWidth; j++ {
			cell := canvas[j][i]
			if cell.char == 0 {
				line.WriteByte(' ')
			} else {
				line.WriteString(cell.color + string(rune(0x2800+cell.char)) + "[white]")
			}
		}
		out = append(out, line.String())
	}

	// 绘制X轴
	xAxisLine := fmt.Sprintf("%-*s└%s", yAxisLabelWidth-1, "", strings.Repeat("─", chartWidth))
	out = append(out, "[gray]"+xAxisLine+"[white]")

	// X轴时间刻度
	startTimeStr := windowStart.Format("15:04:05")
	endTimeStr := windowEnd.Format("15:04:05")

	spaceCount := chartWidth - len(startTimeStr) - len(endTimeStr)
	if spaceCount < 1 {
		spaceCount = 1
	}
	timeLine := fmt.Sprintf("%-*s%s%*s%s", yAxisLabelWidth, "", startTimeStr, spaceCount, "", endTimeStr)
	out = append(out, "[gray]"+timeLine+"[white]")

	// 保证X轴总是可见
	if len(out) > height {
		out = out[:height]
	}

	return strings.Join(out, "\n")
}

// setBrailleDot 在高分辨率坐标上点亮一个点
func setBrailleDot(canvas [][]brailleCell, x, y int, color string) {
	if x < 0 || y < 0 {
		return
	}
	canvasX, canvasY := x/2, y/4
	if canvasX >= len(canvas) || canvasY >= len(canvas[0]) {
		return
	}
	canvas[canvasX][canvasY].char |= brailleDotMap[y%4][x%2]
	canvas[canvasX][canvasY].color = color
}

// drawBrailleLine 使用布雷森汉姆算法在盲文画布上绘制线段
func drawBrailleLine(canvas [][]brailleCell, x1, y1, x2, y2 int, color string) {
	dx := abs(x2 - x1)
	dy := abs(y2 - y1)
	sx := 1
	if x1 > x2 {
		sx = -1
	}
	sy := 1
	if y1 > y2 {
		sy = -1
	}
	err := dx - dy

	x, y := x1, y1
	for {
		setBrailleDot(canvas, x, y, color)

		// 检查是否到达终点
		if x == x2 && y == y2 {
			break
		}

		// 计算下一个位置
		e2 := 2 * err
		if e2 > -dy {
			err -= dy
			x += sx
		}
		if e2 < dx {
			err += dx
			y += sy
		}
	}
}
