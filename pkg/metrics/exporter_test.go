package metrics

import (
	"errors"
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

func TestObserveSample(t *testing.T) {
	e := NewExporter()

	e.ObserveSample(core.Sample{
		Signal:  core.Some(-58),
		Latency: core.Some(12.5),
		RxRate:  core.Some(4096.0),
		TxRate:  core.Some(1024.0),
	})

	assert.Equal(t, -58.0, testutil.ToFloat64(e.signalGauge))
	assert.Equal(t, 12.5, testutil.ToFloat64(e.latencyGauge))
	assert.Equal(t, 4096.0, testutil.ToFloat64(e.trafficGauge.WithLabelValues("rx")))
	assert.Equal(t, 1024.0, testutil.ToFloat64(e.trafficGauge.WithLabelValues("tx")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.samplesCounter))
}

func TestObserveSampleKeepsLastValueWhenAbsent(t *testing.T) {
	e := NewExporter()

	e.ObserveSample(core.Sample{Signal: core.Some(-60), Latency: core.Some(9.0)})
	e.ObserveSample(core.Sample{})

	assert.Equal(t, -60.0, testutil.ToFloat64(e.signalGauge))
	assert.Equal(t, 9.0, testutil.ToFloat64(e.latencyGauge))
	assert.Equal(t, 2.0, testutil.ToFloat64(e.samplesCounter))
}

func TestObserveProbeError(t *testing.T) {
	e := NewExporter()

	e.ObserveProbeError("latency", fmt.Errorf("8.8.8.8: %w", core.ErrTimeout))
	e.ObserveProbeError("latency", core.NewProbeError("latency", core.ErrTimeout, nil))
	e.ObserveProbeError("network", core.NewProbeError("network", core.ErrParseFailure, nil))
	e.ObserveProbeError("throughput", errors.New("boom"))

	assert.Equal(t, 2.0, testutil.ToFloat64(e.errorCounter.WithLabelValues("latency", "timeout")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.errorCounter.WithLabelValues("network", "parse_failure")))
	assert.Equal(t, 1.0, testutil.ToFloat64(e.errorCounter.WithLabelValues("throughput", "other")))
}

func TestObserveThroughputAndState(t *testing.T) {
	e := NewExporter()

	e.ObserveThroughput(core.Throughput{DownloadMbps: 94.24, UploadMbps: 11.0})
	assert.Equal(t, 94.24, testutil.ToFloat64(e.throughputGauge.WithLabelValues("download")))
	assert.Equal(t, 11.0, testutil.ToFloat64(e.throughputGauge.WithLabelValues("upload")))

	e.ObserveState(tracker.StateTracking)
	assert.Equal(t, 1.0, testutil.ToFloat64(e.trackingGauge))
	e.ObserveState(tracker.StateIdle)
	assert.Equal(t, 0.0, testutil.ToFloat64(e.trackingGauge))
}

func TestHandler(t *testing.T) {
	e := NewExporter()
	e.ObserveSample(core.Sample{Signal: core.Some(-42)})

	server := httptest.NewServer(e.Handler())
	defer server.Close()

	resp, err := server.Client().Get(server.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.True(t, strings.Contains(text, "wifispot_signal -42"), text)
	assert.Contains(t, text, "wifispot_samples_total 1")
}

func TestOwnRegistry(t *testing.T) {
	// 两个导出器可以共存，不会重复注册
	a, b := NewExporter(), NewExporter()
	a.ObserveState(tracker.StateTracking)

	assert.Equal(t, 1.0, testutil.ToFloat64(a.trackingGauge))
	assert.Equal(t, 0.0, testutil.ToFloat64(b.trackingGauge))

	count, err := testutil.GatherAndCount(a.Registry(), "wifispot_tracking")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}
