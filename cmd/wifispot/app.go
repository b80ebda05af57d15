package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/urfave/cli/v2"

	"github.com/Kevin-Rudy/wifispot/pkg/config"
	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/logger"
	"github.com/Kevin-Rudy/wifispot/pkg/metrics"
	"github.com/Kevin-Rudy/wifispot/pkg/pinger"
	"github.com/Kevin-Rudy/wifispot/pkg/probe"
	"github.com/Kevin-Rudy/wifispot/pkg/report"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
	"github.com/Kevin-Rudy/wifispot/pkg/tui"
)

// components 一次运行所需的探针、控制器和指标导出器
type components struct {
	config   *config.Config
	probes   tracker.Probes
	tracker  *tracker.Tracker
	exporter *metrics.Exporter
	pinger   *pinger.Pinger // 仅在 icmp 延迟模式下创建
}

// newComponents 检查运行环境并组装所有组件
func newComponents(appConfig *config.Config) (*components, error) {
	missing, err := probe.CheckEnvironment(&appConfig.Probe)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("环境检查失败: %v", err), 1)
	}
	if len(missing) > 0 {
		logger.Warn().Strs("missing", missing).Msg("部分外部工具不可用，对应字段将缺失")
	}

	comps := &components{
		config:   appConfig,
		exporter: metrics.NewExporter(),
	}

	runner := probe.CommandRunner{}
	comps.probes.Network = probe.NewNetworkProbe(runner, &appConfig.Probe)

	if appConfig.Probe.LatencyMode == probe.LatencyICMP {
		p, err := pinger.NewPinger(&appConfig.ICMP)
		if err != nil {
			return nil, cli.Exit(fmt.Sprintf("无法创建ICMP引擎: %v", err), 1)
		}
		comps.pinger = p
		comps.probes.Latency = probe.NewICMPLatencyProbe(p, &appConfig.Probe)
	} else {
		comps.probes.Latency = probe.NewLatencyProbe(runner, &appConfig.Probe)
	}

	speedtest := probe.NewSpeedtestSource(appConfig.Probe.SpeedtestServers...)
	comps.probes.Throughput = probe.NewThroughputProbe(speedtest, &appConfig.Probe)
	comps.probes.Traffic = probe.NewTrafficProbe(&appConfig.Probe)

	comps.tracker, err = tracker.New(&appConfig.Tracker, comps.probes, logger.WithComponent("tracker"), comps.exporter)
	if err != nil {
		comps.close()
		return nil, cli.Exit(fmt.Sprintf("无法创建追踪控制器: %v", err), 1)
	}

	return comps, nil
}

// serveMetrics 配置了监听地址时在后台提供指标服务
func (c *components) serveMetrics(ctx context.Context) {
	addr := c.config.Metrics.Addr
	if addr == "" {
		return
	}

	go func() {
		if err := c.exporter.Serve(ctx, addr); err != nil {
			logger.Error().Err(err).Str("addr", addr).Msg("指标服务退出")
		}
	}()
	logger.Info().Str("addr", addr).Msg("指标服务已启动")
}

// close 释放所有组件
func (c *components) close() {
	if c.tracker != nil {
		c.tracker.Close()
	}
	if c.pinger != nil {
		_ = c.pinger.Close()
	}
}

// initLogger 初始化日志，失败时返回CLI退出错误
func initLogger(appConfig *config.Config) error {
	if err := logger.Init(&appConfig.Logger); err != nil {
		return cli.Exit(fmt.Sprintf("日志初始化失败: %v", err), 1)
	}
	return nil
}

// runApp 仪表盘模式
func runApp(c *cli.Context) error {
	if c.Args().Present() {
		return cli.Exit(fmt.Sprintf("错误: 未知参数 %v\n使用方法: %s [选项]", c.Args().Slice(), AppName), 1)
	}

	appConfig, err := loadConfig(c)
	if err != nil {
		return err
	}

	appConfig.Logger.Output = dashboardLogOutput(appConfig.Logger.Output)
	if err := initLogger(appConfig); err != nil {
		return err
	}
	defer logger.Close()

	// 显示运行配置
	printRunningConfig(appConfig)
	showSystemInfo(os.Stdout)

	comps, err := newComponents(appConfig)
	if err != nil {
		return err
	}
	defer comps.close()

	ctx, cancel := context.WithCancel(c.Context)
	defer cancel()
	comps.serveMetrics(ctx)

	printUsageInstructions(os.Stdout)

	tuiInstance := tui.NewTUI(comps.tracker, &appConfig.TUI, logger.WithComponent("tui"))

	// 启动TUI界面 - 这会阻塞直到用户退出
	if err := tuiInstance.Run(); err != nil {
		return cli.Exit(fmt.Sprintf("TUI运行出错: %v", err), 1)
	}

	fmt.Println("\n程序已退出")
	return nil
}

// printRunningConfig 打印运行配置信息
func printRunningConfig(appConfig *config.Config) {
	fmt.Printf("位置标签: %s\n", appConfig.Tracker.Location)
	fmt.Printf("采样间隔: %v\n", appConfig.Tracker.Interval)
	fmt.Printf("延迟目标: %s (%s)\n", appConfig.Probe.Target, appConfig.Probe.LatencyMode)
	fmt.Printf("探针超时: %v\n", appConfig.Probe.Timeout)
	fmt.Printf("输出语法: %s\n", appConfig.Probe.Platform)
}

// runVersion 显示版本和系统信息
func runVersion(c *cli.Context) error {
	fmt.Printf("%s v%s\n", AppName, AppVersion)
	fmt.Printf("描述: %s\n", AppDesc)
	showSystemInfo(os.Stdout)
	return nil
}

// runProbe 执行一轮探测并打印，不启动采样循环
func runProbe(c *cli.Context) error {
	appConfig, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := initLogger(appConfig); err != nil {
		return err
	}
	defer logger.Close()

	comps, err := newComponents(appConfig)
	if err != nil {
		return err
	}
	defer comps.close()

	ctx := c.Context

	// 流量速率需要两次读数
	_, _ = comps.probes.Traffic.Probe(ctx)

	sample := core.Sample{
		Timestamp: time.Now().Truncate(time.Second),
		Location:  appConfig.Tracker.Location,
	}

	info, err := comps.probes.Network.Probe(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "警告: %v\n", err)
		info = core.UnknownNetworkInfo()
	}
	sample.SSID, sample.BSSID, sample.Signal, sample.Frequency = info.SSID, info.BSSID, info.Signal, info.Frequency

	if latency, err := comps.probes.Latency.Probe(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "警告: %v\n", err)
	} else {
		sample.Latency = core.Some(latency)
	}

	printSample(os.Stdout, sample)

	if traffic, err := comps.probes.Traffic.Probe(ctx); err == nil {
		fmt.Printf("流量: 接收 %.0f B/s, 发送 %.0f B/s (%s)\n", traffic.RxRate, traffic.TxRate, traffic.Interface)
	}

	return nil
}

// runSpeedTest 执行一次测速
func runSpeedTest(c *cli.Context) error {
	appConfig, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := initLogger(appConfig); err != nil {
		return err
	}
	defer logger.Close()

	comps, err := newComponents(appConfig)
	if err != nil {
		return err
	}
	defer comps.close()

	fmt.Println("正在测速，可能需要数十秒...")

	result, err := comps.tracker.RunSpeedTest(c.Context)
	if err != nil {
		return cli.Exit(fmt.Sprintf("测速失败: %v", err), 1)
	}

	fmt.Printf("下载: %.2f Mbps\n", result.DownloadMbps)
	fmt.Printf("上传: %.2f Mbps\n", result.UploadMbps)
	return nil
}

// runTrack 无界面追踪，结束后导出数据表并打印汇总
func runTrack(c *cli.Context) error {
	appConfig, err := loadConfig(c)
	if err != nil {
		return err
	}
	if err := initLogger(appConfig); err != nil {
		return err
	}
	defer logger.Close()

	comps, err := newComponents(appConfig)
	if err != nil {
		return err
	}
	defer comps.close()

	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if duration := c.Duration("duration"); duration > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, duration)
		defer cancel()
	}

	comps.serveMetrics(ctx)

	count := c.Int("count")
	comps.tracker.Start()
	trackLoop(ctx, comps.tracker, count)
	comps.tracker.Stop()
	comps.tracker.Wait()

	table := comps.tracker.Snapshot()

	output := appConfig.TUI.OutputPath
	if output == "" {
		output = fmt.Sprintf("%s-%s.csv", AppName, time.Now().Format("20060102-150405"))
	}
	if err := writeTable(output, table); err != nil {
		return cli.Exit(fmt.Sprintf("导出失败: %v", err), 1)
	}
	fmt.Printf("已导出 %d 行到 %s\n", table.Len(), output)

	summary, err := report.Summarize(table, comps.tracker.State())
	if errors.Is(err, report.ErrEmptyTable) {
		fmt.Println("没有采样数据")
		return nil
	}
	if err != nil {
		return cli.Exit(err.Error(), 1)
	}

	fmt.Println("\n会话汇总:")
	for _, line := range summary.Lines() {
		fmt.Println("  " + line)
	}
	return nil
}

// trackLoop 打印新样本和警告，直到 ctx 结束或达到指定行数
func trackLoop(ctx context.Context, tr *tracker.Tracker, count int) {
	events := tr.Events()
	for {
		select {
		case <-ctx.Done():
			return
		case event := <-events:
			switch event.Kind {
			case tracker.EventSample:
				s := event.Sample
				fmt.Printf("%s  %-16s %-20s 信号 %-5s 延迟 %s\n",
					s.Timestamp.Format("15:04:05"), s.Location, s.SSID,
					optionalString(s.Signal, func(v int) string { return fmt.Sprintf("%d", v) }),
					optionalString(s.Latency, func(v float64) string { return fmt.Sprintf("%.2fms", v) }))

				// 事件可能被丢弃，以数据表行数为准
				if count > 0 && tr.Snapshot().Len() >= count {
					return
				}
			case tracker.EventWarning:
				fmt.Fprintf(os.Stderr, "警告: %v\n", event.Err)
			}
		}
	}
}

// runPrintConfig 打印合并后的有效配置
func runPrintConfig(c *cli.Context) error {
	appConfig, err := loadConfig(c)
	if err != nil {
		return err
	}

	data, err := appConfig.Marshal()
	if err != nil {
		return cli.Exit(fmt.Sprintf("序列化配置失败: %v", err), 1)
	}

	fmt.Print(string(data))
	return nil
}
