// Package metrics 把采样结果导出为Prometheus指标
package metrics

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

const namespace = "wifispot"

// Exporter 实现 tracker.Observer，使用独立的注册表
type Exporter struct {
	registry *prometheus.Registry

	signalGauge     prometheus.Gauge
	latencyGauge    prometheus.Gauge
	latencyHist     prometheus.Histogram
	throughputGauge *prometheus.GaugeVec
	trafficGauge    *prometheus.GaugeVec
	trackingGauge   prometheus.Gauge
	samplesCounter  prometheus.Counter
	errorCounter    *prometheus.CounterVec
}

// NewExporter 创建指标导出器
func NewExporter() *Exporter {
	e := &Exporter{
		registry: prometheus.NewRegistry(),
		signalGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "signal",
			Help:      "Signal strength of the latest sample (dBm on Unix, percent on Windows)",
		}),
		latencyGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "latency_ms",
			Help:      "Latency of the latest sample in milliseconds",
		}),
		latencyHist: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "latency_distribution_ms",
			Help:      "Distribution of sampled latency in milliseconds",
			Buckets:   prometheus.ExponentialBuckets(1, 2, 12), // 1ms ~ 2s
		}),
		throughputGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "throughput_mbps",
			Help:      "Latest speed test result in Mbps",
		}, []string{"direction"}),
		trafficGauge: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "traffic_bytes_per_second",
			Help:      "Interface traffic rate over the latest tick",
		}, []string{"direction"}),
		trackingGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "tracking",
			Help:      "1 while tracking, 0 while idle",
		}),
		samplesCounter: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "samples_total",
			Help:      "Total number of appended samples",
		}),
		errorCounter: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "probe_errors_total",
			Help:      "Total number of probe failures",
		}, []string{"probe", "kind"}),
	}

	e.registry.MustRegister(
		e.signalGauge,
		e.latencyGauge,
		e.latencyHist,
		e.throughputGauge,
		e.trafficGauge,
		e.trackingGauge,
		e.samplesCounter,
		e.errorCounter,
	)

	return e
}

// Registry 返回导出器使用的注册表
func (e *Exporter) Registry() *prometheus.Registry {
	return e.registry
}

// ObserveSample 更新最新样本的指标，缺失字段保持上一次的值
func (e *Exporter) ObserveSample(sample core.Sample) {
	e.samplesCounter.Inc()

	if v, ok := sample.Signal.Get(); ok {
		e.signalGauge.Set(float64(v))
	}
	if v, ok := sample.Latency.Get(); ok {
		e.latencyGauge.Set(v)
		e.latencyHist.Observe(v)
	}
	if v, ok := sample.RxRate.Get(); ok {
		e.trafficGauge.WithLabelValues("rx").Set(v)
	}
	if v, ok := sample.TxRate.Get(); ok {
		e.trafficGauge.WithLabelValues("tx").Set(v)
	}
}

// ObserveProbeError 按探针和失败分类计数
func (e *Exporter) ObserveProbeError(probe string, err error) {
	e.errorCounter.WithLabelValues(probe, core.KindName(err)).Inc()
}

// ObserveThroughput 记录测速结果
func (e *Exporter) ObserveThroughput(result core.Throughput) {
	e.throughputGauge.WithLabelValues("download").Set(result.DownloadMbps)
	e.throughputGauge.WithLabelValues("upload").Set(result.UploadMbps)
}

// ObserveState 记录追踪状态
func (e *Exporter) ObserveState(state tracker.State) {
	if state == tracker.StateTracking {
		e.trackingGauge.Set(1)
		return
	}
	e.trackingGauge.Set(0)
}

// Handler 返回 /metrics 的处理器
func (e *Exporter) Handler() http.Handler {
	return promhttp.HandlerFor(e.registry, promhttp.HandlerOpts{})
}

// Serve 在 addr 上提供 /metrics，直到 ctx 取消
func (e *Exporter) Serve(ctx context.Context, addr string) error {
	mux := http.NewServeMux()
	mux.Handle("/metrics", e.Handler())

	server := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("指标服务启动失败: %w", err)
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	}
}

var _ tracker.Observer = (*Exporter)(nil)
