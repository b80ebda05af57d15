package report

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

var base = time.Date(2025, 3, 1, 10, 0, 0, 0, time.Local)

// row 构造一行样本，signal为nil时表示缺失
func row(offset int, location string, signal *int, latency core.Optional[float64]) core.Sample {
	s := core.Sample{
		Timestamp: base.Add(time.Duration(offset) * time.Second),
		Location:  location,
		SSID:      "office",
		BSSID:     "aa:bb:cc:dd:ee:ff",
		Latency:   latency,
		Frequency: core.Unknown,
	}
	if signal != nil {
		s.Signal = core.Some(*signal)
	}
	return s
}

func intp(v int) *int { return &v }

func TestSummarizeRequiresIdle(t *testing.T) {
	table := core.NewTable(row(0, "A", intp(-50), core.None[float64]()))

	_, err := Summarize(table, tracker.StateTracking)
	assert.ErrorIs(t, err, ErrTrackingActive)

	_, err = Summarize(core.Table{}, tracker.StateIdle)
	assert.ErrorIs(t, err, ErrEmptyTable)
}

func TestSummarizeAveragesIgnoreAbsent(t *testing.T) {
	table := core.NewTable(
		row(0, "A", intp(-50), core.Some(10.0)),
		row(3, "B", nil, core.None[float64]()),
		row(6, "C", intp(-70), core.Some(30.0)),
	)

	summary, err := Summarize(table, tracker.StateIdle)
	require.NoError(t, err)

	assert.Equal(t, 3, summary.Rows)
	assert.Equal(t, base, summary.Start)
	assert.Equal(t, base.Add(6*time.Second), summary.End)

	signal, ok := summary.AverageSignal.Get()
	require.True(t, ok)
	assert.InDelta(t, -60.0, signal, 1e-9)

	latency, ok := summary.AverageLatency.Get()
	require.True(t, ok)
	assert.InDelta(t, 20.0, latency, 1e-9)

	assert.False(t, summary.AverageDownload.Valid())
	assert.False(t, summary.AverageUpload.Valid())

	best, ok := summary.Best.Get()
	require.True(t, ok)
	assert.Equal(t, "A", best.Sample.Location)
	assert.Equal(t, 0, best.Index)

	worst, ok := summary.Worst.Get()
	require.True(t, ok)
	assert.Equal(t, "C", worst.Sample.Location)
	assert.Equal(t, 2, worst.Index)
}

func TestSummarizeTiesKeepFirst(t *testing.T) {
	table := core.NewTable(
		row(0, "first", intp(-60), core.None[float64]()),
		row(3, "second", intp(-60), core.None[float64]()),
		row(6, "third", intp(-60), core.None[float64]()),
	)

	summary, err := Summarize(table, tracker.StateIdle)
	require.NoError(t, err)

	best, _ := summary.Best.Get()
	worst, _ := summary.Worst.Get()
	assert.Equal(t, "first", best.Sample.Location)
	assert.Equal(t, "first", worst.Sample.Location)
}

func TestSummarizeNoSignal(t *testing.T) {
	table := core.NewTable(
		row(0, "A", nil, core.None[float64]()),
		row(3, "B", nil, core.None[float64]()),
	)

	summary, err := Summarize(table, tracker.StateIdle)
	require.NoError(t, err)

	assert.False(t, summary.Best.Valid())
	assert.False(t, summary.Worst.Valid())
	assert.False(t, summary.AverageSignal.Valid())

	lines := summary.Lines()
	assert.Contains(t, lines, "最佳位置: N/A")
	assert.Contains(t, lines, "平均信号: N/A")
	assert.Contains(t, lines, "平均延迟: N/A")
}

func TestSummaryLines(t *testing.T) {
	download := row(3, "B", intp(-65), core.Some(12.345))
	download.Download = core.Some(94.24)
	download.Upload = core.Some(11.0)

	table := core.NewTable(row(0, "A", intp(-40), core.Some(10.0)), download)

	summary, err := Summarize(table, tracker.StateIdle)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"采样行数: 2",
		"时间范围: 2025-03-01 10:00:00 ~ 2025-03-01 10:00:03",
		"最佳位置: A (office, 信号 -40)",
		"最差位置: B (office, 信号 -65)",
		"平均信号: -52.50",
		"平均延迟: 11.17 ms",
		"平均下载: 94.24 Mbps",
		"平均上传: 11.00 Mbps",
	}, summary.Lines())
}
