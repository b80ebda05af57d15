package main

import (
	"time"

	"github.com/urfave/cli/v2"
)

// createCliApp 创建CLI应用实例
func createCliApp() *cli.App {
	app := &cli.App{
		Name:    AppName,
		Version: AppVersion,
		Usage:   AppDesc,
		Flags:   createCliFlags(),
		Action:  runApp,
	}

	// 添加子命令
	app.Commands = createCommands()

	return app
}

// createCliFlags 创建CLI参数定义
// 参数只在显式指定时覆盖配置文件
func createCliFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:  "config",
			Usage: "YAML配置文件路径",
		},
		&cli.StringFlag{
			Name:    "location",
			Aliases: []string{"L"},
			Usage:   "初始位置标签",
		},
		&cli.DurationFlag{
			Name:    "interval",
			Aliases: []string{"n"},
			Value:   3 * time.Second,
			Usage:   "采样间隔 (例如: 3s, 500ms)",
		},
		&cli.DurationFlag{
			Name:    "timeout",
			Aliases: []string{"t"},
			Value:   5 * time.Second,
			Usage:   "单个探针的超时时间",
		},
		&cli.StringFlag{
			Name:  "target",
			Value: "8.8.8.8",
			Usage: "延迟探测目标",
		},
		&cli.StringFlag{
			Name:  "latency-mode",
			Value: "command",
			Usage: "延迟探测方式: command (系统ping) 或 icmp (原生ICMP)",
		},
		&cli.StringFlag{
			Name:    "interface",
			Aliases: []string{"i"},
			Usage:   "无线网卡名称，默认自动选择",
		},
		&cli.DurationFlag{
			Name:    "refresh-rate",
			Aliases: []string{"r"},
			Value:   200 * time.Millisecond,
			Usage:   "UI刷新频率 (例如: 100ms, 500ms)",
		},
		&cli.StringFlag{
			Name:    "output",
			Aliases: []string{"o"},
			Usage:   "导出文件路径，.parquet 结尾时导出Parquet",
		},
		&cli.BoolFlag{
			Name:  "start",
			Usage: "启动后立即开始追踪",
		},
		&cli.StringFlag{
			Name:  "log-level",
			Value: "info",
			Usage: "日志级别: debug, info, warn, error",
		},
		&cli.StringFlag{
			Name:  "log-file",
			Usage: "日志文件路径；仪表盘模式下未指定时丢弃日志",
		},
		&cli.StringFlag{
			Name:  "metrics-addr",
			Usage: "Prometheus指标监听地址 (例如: :9310)",
		},
	}
}

// createCommands 创建子命令
func createCommands() []*cli.Command {
	return []*cli.Command{
		{
			Name:    "version",
			Aliases: []string{"v"},
			Usage:   "显示详细版本信息",
			Action:  runVersion,
		},
		{
			Name:   "probe",
			Usage:  "执行一轮探测并打印结果",
			Action: runProbe,
		},
		{
			Name:   "speedtest",
			Usage:  "执行一次测速",
			Action: runSpeedTest,
		},
		{
			Name:  "track",
			Usage: "无界面追踪，结束后导出数据并打印汇总",
			Flags: []cli.Flag{
				&cli.DurationFlag{
					Name:    "duration",
					Aliases: []string{"d"},
					Usage:   "追踪时长，0表示直到 Ctrl+C",
				},
				&cli.IntFlag{
					Name:    "count",
					Aliases: []string{"c"},
					Usage:   "采集的行数，0表示不限制",
				},
			},
			Action: runTrack,
		},
		{
			Name:   "config",
			Usage:  "打印合并后的有效配置",
			Action: runPrintConfig,
		},
	}
}
