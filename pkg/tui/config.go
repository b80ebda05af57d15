// Package tui 配置定义
package tui

import (
	"errors"
	"time"
)

// Config TUI组件的配置结构
type Config struct {
	RefreshInterval  time.Duration `yaml:"refresh_interval"`   // UI刷新间隔，与采样间隔无关
	SampleInterval   time.Duration `yaml:"-"`                  // 采样间隔，用于计算图表时间窗口
	MinChartWidth    int           `yaml:"min_chart_width"`    // 最小图表宽度
	MinChartHeight   int           `yaml:"min_chart_height"`   // 最小图表高度
	MaxHistorySize   int           `yaml:"max_history_size"`   // 图表窗口内的采样点数
	ValueBufferRatio float64       `yaml:"value_buffer_ratio"` // 值缓冲比例
	MaxChartSize     int           `yaml:"max_chart_size"`     // 最大图表尺寸（防止极端值）
	OutputPath       string        `yaml:"output"`             // 导出文件路径，空表示按时间生成文件名
	AutoStart        bool          `yaml:"auto_start"`         // 启动后立即开始追踪
}

// DefaultConfig 返回默认配置
func DefaultConfig() *Config {
	return &Config{
		RefreshInterval:  200 * time.Millisecond, // 默认200ms刷新
		SampleInterval:   3 * time.Second,        // 与追踪控制器默认间隔一致
		MinChartWidth:    20,                     // 最小图表宽度
		MinChartHeight:   5,                      // 最小图表高度
		MaxHistorySize:   100,                    // 默认显示最近100个采样点
		ValueBufferRatio: 0.1,                    // 10%缓冲
		MaxChartSize:     1000,                   // 最大图表尺寸
	}
}

// GetWindowDuration 图表时间窗口长度
func (c *Config) GetWindowDuration() time.Duration {
	return time.Duration(c.MaxHistorySize) * c.SampleInterval
}

// Validate 验证配置的合理性
func (c *Config) Validate() error {
	if c.RefreshInterval <= 0 {
		return errors.New("UI刷新间隔必须大于0")
	}

	if c.RefreshInterval < 10*time.Millisecond {
		return errors.New("UI刷新间隔不能小于10ms")
	}

	if c.SampleInterval <= 0 {
		return errors.New("采样间隔必须大于0")
	}

	if c.MinChartWidth <= 0 {
		return errors.New("最小图表宽度必须大于0")
	}

	if c.MinChartHeight <= 0 {
		return errors.New("最小图表高度必须大于0")
	}

	if c.MaxHistorySize < 10 {
		return errors.New("历史窗口大小不能小于10")
	}

	if c.MaxHistorySize > 1000 {
		return errors.New("历史窗口大小不能超过1000")
	}

	if c.ValueBufferRatio < 0 {
		return errors.New("值缓冲比例不能为负数")
	}

	if c.MaxChartSize <= 0 {
		return errors.New("最大图表尺寸必须大于0")
	}

	return nil
}
