// Package report 在空闲时对会话数据表做汇总和导出
package report

import (
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

var (
	// ErrTrackingActive 追踪进行中，数据表还在增长
	ErrTrackingActive = errors.New("追踪进行中，请先停止追踪")
	// ErrEmptyTable 数据表为空
	ErrEmptyTable = errors.New("没有采样数据")
)

// NoData 缺失值的显示文本
const NoData = "N/A"

// Spot 数据表中的一行及其行号
type Spot struct {
	Index  int
	Sample core.Sample
}

// Summary 会话汇总
type Summary struct {
	Rows  int
	Start time.Time
	End   time.Time

	Best  core.Optional[Spot] // 信号最强的一行，并列时取最早出现的
	Worst core.Optional[Spot] // 信号最弱的一行，并列时取最早出现的

	AverageSignal   core.Optional[float64]
	AverageLatency  core.Optional[float64]
	AverageDownload core.Optional[float64]
	AverageUpload   core.Optional[float64]
}

// Summarize 计算汇总；只在空闲且数据表非空时可用
func Summarize(table core.Table, state tracker.State) (Summary, error) {
	if state == tracker.StateTracking {
		return Summary{}, ErrTrackingActive
	}
	if table.Empty() {
		return Summary{}, ErrEmptyTable
	}

	first := table.At(0)
	last, _ := table.Last()

	summary := Summary{
		Rows:            table.Len(),
		Start:           first.Timestamp,
		End:             last.Timestamp,
		AverageSignal:   mean(table, core.ColumnSignal),
		AverageLatency:  mean(table, core.ColumnLatency),
		AverageDownload: mean(table, core.ColumnDownload),
		AverageUpload:   mean(table, core.ColumnUpload),
	}
	summary.Best, summary.Worst = extremes(table)

	return summary, nil
}

// extremes 找出信号最强和最弱的行，忽略信号缺失的行
func extremes(table core.Table) (best, worst core.Optional[Spot]) {
	bestIdx, worstIdx := -1, -1
	var bestSignal, worstSignal int

	for i := 0; i < table.Len(); i++ {
		signal, ok := table.At(i).Signal.Get()
		if !ok {
			continue
		}
		// 严格比较，保证并列时保留先出现的行
		if bestIdx < 0 || signal > bestSignal {
			bestIdx, bestSignal = i, signal
		}
		if worstIdx < 0 || signal < worstSignal {
			worstIdx, worstSignal = i, signal
		}
	}

	if bestIdx >= 0 {
		best = core.Some(Spot{Index: bestIdx, Sample: table.At(bestIdx)})
	}
	if worstIdx >= 0 {
		worst = core.Some(Spot{Index: worstIdx, Sample: table.At(worstIdx)})
	}
	return best, worst
}

// mean 对存在的值求算术平均，全部缺失时返回缺失
func mean(table core.Table, column core.Column) core.Optional[float64] {
	var sum float64
	var n int

	for _, p := range table.Series(column) {
		if p.Status != core.PointSuccess {
			continue
		}
		sum += p.Value
		n++
	}

	if n == 0 {
		return core.None[float64]()
	}
	return core.Some(sum / float64(n))
}

// Lines 返回可打印的汇总文本
func (s Summary) Lines() []string {
	lines := []string{
		fmt.Sprintf("采样行数: %d", s.Rows),
		fmt.Sprintf("时间范围: %s ~ %s", s.Start.Format(TimeLayout), s.End.Format(TimeLayout)),
		"最佳位置: " + formatSpot(s.Best),
		"最差位置: " + formatSpot(s.Worst),
		"平均信号: " + formatOptional(s.AverageSignal, ""),
		"平均延迟: " + formatOptional(s.AverageLatency, " ms"),
		"平均下载: " + formatOptional(s.AverageDownload, " Mbps"),
		"平均上传: " + formatOptional(s.AverageUpload, " Mbps"),
	}
	return lines
}

// formatSpot 格式化一个位置
func formatSpot(spot core.Optional[Spot]) string {
	s, ok := spot.Get()
	if !ok {
		return NoData
	}

	signal, _ := s.Sample.Signal.Get()
	return fmt.Sprintf("%s (%s, 信号 %d)", s.Sample.Location, s.Sample.SSID, signal)
}

// formatOptional 保留两位小数，缺失时显示N/A
func formatOptional(v core.Optional[float64], unit string) string {
	value, ok := v.Get()
	if !ok {
		return NoData
	}
	return strconv.FormatFloat(value, 'f', 2, 64) + unit
}
