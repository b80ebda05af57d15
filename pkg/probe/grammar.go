// Package probe 实现各个指标探针
// 每个探针调用一个外部工具或服务，把非结构化输出解析成结构化结果。
// 解析规则与进程调用相互独立，可以直接用预设文本测试
package probe

import (
	"bufio"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// Platform 决定使用哪一套命令和输出语法
type Platform int

const (
	PlatformUnknown Platform = iota // 未知平台：网络身份返回占位记录，延迟按Unix语法处理
	PlatformUnix                    // iwconfig / iw / ping -c
	PlatformWindows                 // netsh / ping -n
)

// String 返回平台名称
func (p Platform) String() string {
	switch p {
	case PlatformUnix:
		return "unix"
	case PlatformWindows:
		return "windows"
	default:
		return "unknown"
	}
}

// PlatformOf 根据GOOS确定平台语法
func PlatformOf(goos string) Platform {
	switch goos {
	case "linux":
		return PlatformUnix
	case "windows":
		return PlatformWindows
	default:
		return PlatformUnknown
	}
}

// iwconfig 输出语法
var (
	iwconfigSSID      = regexp.MustCompile(`ESSID:"(.+?)"`)
	iwconfigFrequency = regexp.MustCompile(`Frequency:(\d+\.\d+)`)
	iwconfigSignal    = regexp.MustCompile(`Signal level=(-?\d+) dBm`)
	iwconfigAP        = regexp.MustCompile(`Access Point: ((?:[0-9A-Fa-f]{2}:){5}[0-9A-Fa-f]{2})`)
)

// netsh wlan show interfaces 输出语法
// SSID 必须锚定行首，否则会匹配到 BSSID 行
var (
	netshSSID      = regexp.MustCompile(`(?m)^\s*SSID\s+:\s(.*)$`)
	netshBSSID     = regexp.MustCompile(`(?m)^\s*BSSID\s+:\s(.*)$`)
	netshSignal    = regexp.MustCompile(`(?m)^\s*Signal\s+:\s(\d+)%`)
	netshRadioType = regexp.MustCompile(`(?m)^\s*Radio type\s+:\s(.*)$`)
)

// ParseNetworkInfo 按平台语法解析网络状态命令的输出
// 每个字段独立匹配，匹配不到的字段保持默认值，从不返回错误
func ParseNetworkInfo(platform Platform, text string) core.NetworkInfo {
	switch platform {
	case PlatformUnix:
		return parseIwconfig(text)
	case PlatformWindows:
		return parseNetsh(text)
	default:
		return core.UnknownNetworkInfo()
	}
}

// parseIwconfig 解析 iwconfig 输出
func parseIwconfig(text string) core.NetworkInfo {
	info := core.UnknownNetworkInfo()

	if m := iwconfigSSID.FindStringSubmatch(text); m != nil {
		info.SSID = m[1]
	}
	if m := iwconfigAP.FindStringSubmatch(text); m != nil {
		info.BSSID = strings.ToLower(m[1])
	}
	if m := iwconfigFrequency.FindStringSubmatch(text); m != nil {
		info.Frequency = m[1] + " GHz"
	}
	if m := iwconfigSignal.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(m[1]); err == nil {
			info.Signal = core.Some(v)
		}
	}

	return info
}

// parseNetsh 解析 netsh 输出
func parseNetsh(text string) core.NetworkInfo {
	info := core.UnknownNetworkInfo()
	text = strings.ReplaceAll(text, "\r", "")

	if m := netshSSID.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			info.SSID = v
		}
	}
	if m := netshBSSID.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			info.BSSID = strings.ToLower(v)
		}
	}
	if m := netshSignal.FindStringSubmatch(text); m != nil {
		if v, err := strconv.Atoi(strings.TrimSpace(m[1])); err == nil {
			info.Signal = core.Some(v)
		}
	}
	if m := netshRadioType.FindStringSubmatch(text); m != nil {
		if v := strings.TrimSpace(m[1]); v != "" {
			info.Frequency = v
		}
	}

	return info
}

// ParseIwLink 解析 `iw dev <if> link` 的输出
// 未连接时返回占位记录
func ParseIwLink(text string) core.NetworkInfo {
	info := core.UnknownNetworkInfo()

	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		switch {
		case strings.HasPrefix(line, "Not connected"):
			return core.UnknownNetworkInfo()
		case strings.HasPrefix(line, "Connected to "):
			bssid := strings.TrimPrefix(line, "Connected to ")
			if idx := strings.Index(bssid, " "); idx >= 0 {
				bssid = bssid[:idx]
			}
			if bssid = strings.TrimSpace(bssid); bssid != "" {
				info.BSSID = strings.ToLower(bssid)
			}
		case strings.HasPrefix(line, "SSID:"):
			if v := strings.TrimSpace(strings.TrimPrefix(line, "SSID:")); v != "" {
				info.SSID = v
			}
		case strings.HasPrefix(line, "freq:"):
			fields := strings.Fields(strings.TrimPrefix(line, "freq:"))
			if len(fields) > 0 {
				if mhz, err := strconv.ParseFloat(fields[0], 64); err == nil {
					info.Frequency = strconv.FormatFloat(mhz/1000, 'f', -1, 64) + " GHz"
				}
			}
		case strings.HasPrefix(line, "signal:"):
			fields := strings.Fields(line)
			if len(fields) >= 2 {
				if v, err := strconv.Atoi(fields[1]); err == nil {
					info.Signal = core.Some(v)
				}
			}
		}
	}

	return info
}

// ParseIwInterfaces 从 `iw dev` 的输出中提取无线网卡名称
func ParseIwInterfaces(text string) []string {
	var ifs []string
	scanner := bufio.NewScanner(strings.NewReader(text))
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.HasPrefix(line, "Interface ") {
			if name := strings.TrimSpace(strings.TrimPrefix(line, "Interface ")); name != "" {
				ifs = append(ifs, name)
			}
		}
	}
	return ifs
}

// ParseLatency 按平台语法从 ping 输出中提取往返时间(ms)
func ParseLatency(platform Platform, text string) (float64, error) {
	text = strings.ReplaceAll(text, "\r", "")

	var raw string
	found := false
	for _, line := range strings.Split(text, "\n") {
		if platform == PlatformWindows {
			if strings.Contains(line, "Average") {
				parts := strings.Split(line, "=")
				raw = strings.TrimSpace(strings.Replace(parts[len(parts)-1], "ms", "", 1))
				found = true
				break
			}
			continue
		}

		if idx := strings.Index(line, "time="); idx >= 0 {
			raw = line[idx+len("time="):]
			if sp := strings.IndexAny(raw, " \t"); sp >= 0 {
				raw = raw[:sp]
			}
			raw = strings.TrimSuffix(raw, "ms")
			found = true
			break
		}
	}

	if !found {
		return 0, fmt.Errorf("没有找到往返时间: %w", core.ErrParseFailure)
	}

	latency, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, fmt.Errorf("往返时间 %q 不是数字: %w", raw, core.ErrParseFailure)
	}

	return latency, nil
}
