package main

import (
	"fmt"

	"github.com/urfave/cli/v2"

	"github.com/Kevin-Rudy/wifispot/pkg/config"
	"github.com/Kevin-Rudy/wifispot/pkg/logger"
	"github.com/Kevin-Rudy/wifispot/pkg/probe"
)

// buildConfigFromCLI 读取配置文件，再用显式指定的命令行参数覆盖
func buildConfigFromCLI(c *cli.Context) (*config.Config, error) {
	appConfig, err := config.LoadConfig(c.String("config"))
	if err != nil {
		return nil, err
	}

	// 构建 probe 配置
	if c.IsSet("interface") {
		appConfig.Probe.Interface = c.String("interface")
	}
	if c.IsSet("target") {
		appConfig.Probe.Target = c.String("target")
	}
	if c.IsSet("latency-mode") {
		appConfig.Probe.LatencyMode = probe.LatencyMode(c.String("latency-mode"))
	}
	if c.IsSet("timeout") {
		appConfig.Probe.Timeout = c.Duration("timeout")
		appConfig.ICMP.Timeout = c.Duration("timeout")
	}

	// 构建 tracker 配置
	if c.IsSet("interval") {
		appConfig.Tracker.Interval = c.Duration("interval")
	}
	if c.IsSet("location") {
		appConfig.Tracker.Location = c.String("location")
	}

	// 构建 TUI 配置
	if c.IsSet("refresh-rate") {
		appConfig.TUI.RefreshInterval = c.Duration("refresh-rate")
	}
	if c.IsSet("output") {
		appConfig.TUI.OutputPath = c.String("output")
	}
	if c.IsSet("start") {
		appConfig.TUI.AutoStart = c.Bool("start")
	}
	appConfig.TUI.SampleInterval = appConfig.Tracker.Interval

	// 日志和指标
	if c.IsSet("log-level") {
		appConfig.Logger.Level = c.String("log-level")
	}
	if c.IsSet("log-file") {
		appConfig.Logger.Output = c.String("log-file")
	}
	if c.IsSet("metrics-addr") {
		appConfig.Metrics.Addr = c.String("metrics-addr")
	}

	return appConfig, nil
}

// validateConfig 验证配置的合理性
func validateConfig(appConfig *config.Config) error {
	if err := appConfig.Validate(); err != nil {
		return fmt.Errorf("配置错误: %w", err)
	}
	return nil
}

// loadConfig 构建并验证配置，失败时返回CLI退出错误
func loadConfig(c *cli.Context) (*config.Config, error) {
	appConfig, err := buildConfigFromCLI(c)
	if err != nil {
		return nil, cli.Exit(fmt.Sprintf("读取配置失败: %v", err), 1)
	}

	if err := validateConfig(appConfig); err != nil {
		return nil, cli.Exit(err.Error(), 1)
	}

	return appConfig, nil
}

// dashboardLogOutput 仪表盘占用终端，日志不能写到标准输出或标准错误
func dashboardLogOutput(output string) string {
	switch output {
	case "", logger.OutputStdout, logger.OutputStderr:
		return logger.OutputDiscard
	default:
		return output
	}
}
