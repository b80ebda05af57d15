// Package tui 提供Wi-Fi采样仪表盘的终端界面
// 界面只消费追踪控制器的事件和快照，刷新节奏与采样节奏互不影响
package tui

import (
	"context"
	"sync"
	"time"

	"github.com/rivo/tview"
	"github.com/rs/zerolog"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
	"github.com/Kevin-Rudy/wifispot/pkg/tracker"
)

// Controller 界面操作的追踪控制器，*tracker.Tracker 实现了它
type Controller interface {
	Events() <-chan tracker.Event
	State() tracker.State
	LastTick() time.Time
	Snapshot() core.Table
	LastThroughput() (core.Throughput, bool)
	Location() string
	SetLocation(location string)
	Start() bool
	Stop() bool
	Clear() error
	CheckLatency(ctx context.Context) (float64, error)
	RunSpeedTest(ctx context.Context) (core.Throughput, error)
}

// viewState 界面显示用的状态，由事件和用户操作更新
type viewState struct {
	latest      core.Optional[core.Sample]
	lastLatency core.Optional[float64] // 最近一次单次延迟检查
	table       core.Table
	state       tracker.State
	warning     string
	warningTime time.Time
	status      string
	speedTest   bool // 测速进行中
}

// TUI 主界面结构
type TUI struct {
	app        *tview.Application
	controller Controller
	logger     zerolog.Logger

	header   *tview.TextView
	metrics  *tview.TextView
	chart    *tview.TextView
	summary  *tview.TextView
	message  *tview.TextView
	location *tview.InputField
	help     *tview.TextView
	flex     *tview.Flex

	// 配置信息
	tuiConfig *Config

	// 数据存储
	view   viewState
	viewMu sync.RWMutex

	// 界面状态
	selectedChart chartKind
	editing       bool

	// 控制
	ctx      context.Context // 单次操作使用，Stop 时取消
	cancel   context.CancelFunc
	stopChan chan struct{}
	doneChan chan struct{}
	stopOnce sync.Once

	// 测试模式标志
	testMode bool

	// 时间管理
	startTime time.Time // 界面启动时间，用于时间窗口计算
}

// NewTUI 创建新的TUI实例
func NewTUI(controller Controller, tuiConfig *Config, logger zerolog.Logger) *TUI {
	tui := newTUI(controller, tuiConfig, logger, false)

	tui.setupUI()
	tui.setupKeyBindings()

	return tui
}

// NewTUIForTest 创建用于测试的TUI实例（不初始化图形组件）
func NewTUIForTest(controller Controller, tuiConfig *Config) *TUI {
	return newTUI(controller, tuiConfig, zerolog.Nop(), true)
}

func newTUI(controller Controller, tuiConfig *Config, logger zerolog.Logger, testMode bool) *TUI {
	ctx, cancel := context.WithCancel(context.Background())

	return &TUI{
		app:        tview.NewApplication(),
		controller: controller,
		logger:     logger,
		tuiConfig:  tuiConfig,
		view: viewState{
			table: controller.Snapshot(),
			state: controller.State(),
		},
		ctx:       ctx,
		cancel:    cancel,
		stopChan:  make(chan struct{}),
		doneChan:  make(chan struct{}),
		testMode:  testMode,
		startTime: time.Now().Truncate(time.Second), // 与样本时间戳精度一致
	}
}

// Run 启动TUI界面，直到用户退出
func (t *TUI) Run() error {
	if t.tuiConfig.AutoStart {
		t.startTracking()
	}

	// 启动事件处理goroutine
	go t.processData()

	// 运行应用
	err := t.app.Run()

	// 确保清理工作完成
	t.Stop()
	<-t.doneChan

	return err
}

// Stop 停止TUI界面，可以重复调用
// 追踪控制器的生命周期由调用方管理
func (t *TUI) Stop() {
	t.stopOnce.Do(func() {
		close(t.stopChan)
		t.cancel()
		t.app.Stop()
	})
}

// processData 处理控制器事件并定时刷新界面
func (t *TUI) processData() {
	defer close(t.doneChan)

	events := t.controller.Events()
	uiTicker := time.NewTicker(t.tuiConfig.RefreshInterval)
	defer uiTicker.Stop()

	// 初始UI刷新
	t.handleUIRefresh()

	for {
		select {
		case event, ok := <-events:
			if !ok {
				return
			}
			t.handleEvent(event)

		case <-uiTicker.C:
			t.handleUIRefresh()

		case <-t.stopChan:
			return
		}
	}
}

// handleUIRefresh 处理UI刷新
func (t *TUI) handleUIRefresh() {
	t.syncWithController()
	if !t.testMode && t.app != nil {
		t.safeUIUpdate(t.redraw)
	}
}
