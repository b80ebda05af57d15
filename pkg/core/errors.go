package core

import (
	"errors"
	"fmt"
)

// 探针失败的分类，全部是非致命错误
var (
	ErrToolUnavailable = errors.New("外部工具不可用")
	ErrParseFailure    = errors.New("输出格式无法解析")
	ErrTimeout         = errors.New("探测超时")
	ErrNetworkFailure  = errors.New("网络无响应")
)

// ProbeError 单个探针的失败
// errors.Is 既能匹配失败分类，也能匹配底层错误
type ProbeError struct {
	Probe string // 探针名称，如 network、latency、throughput
	Kind  error  // 失败分类，取值为上面的哨兵错误之一
	Err   error  // 底层错误，可以为nil
}

// NewProbeError 创建探针错误
func NewProbeError(probe string, kind, err error) *ProbeError {
	return &ProbeError{Probe: probe, Kind: kind, Err: err}
}

func (e *ProbeError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("%s探针: %v", e.Probe, e.Kind)
	}
	return fmt.Sprintf("%s探针: %v: %v", e.Probe, e.Kind, e.Err)
}

// Unwrap 同时暴露分类和底层错误
func (e *ProbeError) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// KindOf 返回错误所属的失败分类，无法归类时返回nil
func KindOf(err error) error {
	for _, kind := range []error{ErrToolUnavailable, ErrParseFailure, ErrTimeout, ErrNetworkFailure} {
		if errors.Is(err, kind) {
			return kind
		}
	}
	return nil
}

// KindName 返回失败分类的短名称，用于日志和指标标签
func KindName(err error) string {
	switch KindOf(err) {
	case ErrToolUnavailable:
		return "tool_unavailable"
	case ErrParseFailure:
		return "parse_failure"
	case ErrTimeout:
		return "timeout"
	case ErrNetworkFailure:
		return "network_failure"
	default:
		return "other"
	}
}
