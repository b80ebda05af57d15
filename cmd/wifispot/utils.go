package main

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/pinger"
	"github.com/Kevin-Rudy/wifispot/pkg/report"
)

// 程序信息常量
const (
	AppName    = "wifispot"
	AppVersion = "0.1.0"
	AppDesc    = "逐点采集Wi-Fi信号、延迟和吞吐量的现场勘测工具"
)

// showSystemInfo 显示系统环境信息
func showSystemInfo(w io.Writer) {
	osName, privilegeStatus, implementationType := pinger.GetSystemInfo()
	fmt.Fprintln(w, "系统信息:")
	fmt.Fprintf(w, "  操作系统: %s\n", osName)
	fmt.Fprintf(w, "  ICMP权限: %s\n", privilegeStatus)
	fmt.Fprintf(w, "  ICMP实现: %s\n", implementationType)
}

// printUsageInstructions 显示TUI操作说明
func printUsageInstructions(w io.Writer) {
	fmt.Fprintln(w, "操作说明:")
	fmt.Fprintln(w, "  s / x       - 开始 / 停止追踪")
	fmt.Fprintln(w, "  t / l       - 测速 / 检查延迟")
	fmt.Fprintln(w, "  e / p       - 导出CSV / Parquet")
	fmt.Fprintln(w, "  c           - 清空数据（空闲时）")
	fmt.Fprintln(w, "  Tab         - 编辑位置标签")
	fmt.Fprintln(w, "  ↑/↓ 方向键  - 切换图表")
	fmt.Fprintln(w, "  q 或 Ctrl+C - 退出程序")
	fmt.Fprintln(w, "========================================")
}

// printSample 打印一行样本
func printSample(w io.Writer, s core.Sample) {
	fmt.Fprintf(w, "时间: %s\n", s.Timestamp.Format(report.TimeLayout))
	fmt.Fprintf(w, "位置: %s\n", s.Location)
	fmt.Fprintf(w, "SSID: %s\n", s.SSID)
	fmt.Fprintf(w, "BSSID: %s\n", s.BSSID)
	fmt.Fprintf(w, "频率: %s\n", s.Frequency)
	fmt.Fprintf(w, "信号: %s\n", optionalString(s.Signal, func(v int) string { return fmt.Sprintf("%d", v) }))
	fmt.Fprintf(w, "延迟: %s\n", optionalString(s.Latency, func(v float64) string { return fmt.Sprintf("%.2f ms", v) }))
}

// optionalString 缺失时返回N/A
func optionalString[T any](v core.Optional[T], format func(T) string) string {
	value, ok := v.Get()
	if !ok {
		return report.NoData
	}
	return format(value)
}

// writeTable 按扩展名导出数据表，.parquet 导出Parquet，其他导出CSV
func writeTable(path string, table core.Table) error {
	if strings.EqualFold(filepath.Ext(path), ".parquet") {
		return report.WriteParquet(path, table)
	}
	return report.SaveCSV(path, table)
}
