package pinger

import (
	"context"
	"errors"
	"net"
	"os"
	"sync"
	"syscall"
	"testing"
	"time"

	"golang.org/x/net/icmp"
	"golang.org/x/net/ipv4"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// fakeEchoer 记录调用并返回预设结果
type fakeEchoer struct {
	mu        sync.Mutex
	rtt       time.Duration
	err       error
	seqs      []int
	deadlines []time.Time
	closed    int
}

func (f *fakeEchoer) echo(dst *net.IPAddr, seq int, deadline time.Time) (time.Duration, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seqs = append(f.seqs, seq)
	f.deadlines = append(f.deadlines, deadline)
	return f.rtt, f.err
}

func (f *fakeEchoer) close() error {
	f.closed++
	return nil
}

// TestConfigValidation 测试配置验证
func TestConfigValidation(t *testing.T) {
	if err := DefaultConfig().Validate(); err != nil {
		t.Errorf("Default config should be valid: %v", err)
	}

	invalidConfig := &Config{IPVersion: 3, Timeout: time.Second, Payload: "x"}
	if err := invalidConfig.Validate(); err == nil {
		t.Error("Expected error for invalid IP version")
	}

	invalidConfig.IPVersion = 4
	invalidConfig.Timeout = 0
	if err := invalidConfig.Validate(); err == nil {
		t.Error("Expected error for zero timeout")
	}

	invalidConfig.Timeout = 50 * time.Millisecond
	if err := invalidConfig.Validate(); err == nil {
		t.Error("Expected error for timeout below 100ms")
	}

	invalidConfig.Timeout = time.Second
	invalidConfig.Payload = ""
	if err := invalidConfig.Validate(); err == nil {
		t.Error("Expected error for empty payload")
	}
}

// TestResolveTarget 测试目标解析
func TestResolveTarget(t *testing.T) {
	config := DefaultConfig()

	dst, err := config.ResolveTarget("127.0.0.1")
	if err != nil {
		t.Fatalf("Expected literal IPv4 to resolve: %v", err)
	}
	if !dst.IP.Equal(net.IPv4(127, 0, 0, 1)) {
		t.Errorf("Expected 127.0.0.1, got %v", dst.IP)
	}

	_, err = config.ResolveTarget("")
	if !errors.Is(err, core.ErrNetworkFailure) {
		t.Errorf("Expected network failure for empty target, got %v", err)
	}

	config.IPVersion = 6
	if _, err := config.ResolveTarget("::1"); err != nil {
		t.Errorf("Expected ::1 to resolve as IPv6: %v", err)
	}
}

// TestEchoSuccess 测试回显结果换算为毫秒且序号递增
func TestEchoSuccess(t *testing.T) {
	fake := &fakeEchoer{rtt: 12500 * time.Microsecond}
	p := newPingerWith(DefaultConfig(), fake)

	for i := 0; i < 3; i++ {
		latency, err := p.Echo(context.Background(), "127.0.0.1")
		if err != nil {
			t.Fatalf("Echo failed: %v", err)
		}
		if latency != 12.5 {
			t.Errorf("Expected 12.5ms, got %f", latency)
		}
	}

	if len(fake.seqs) != 3 || fake.seqs[0] != 1 || fake.seqs[2] != 3 {
		t.Errorf("Expected sequence 1,2,3, got %v", fake.seqs)
	}
}

// TestEchoDeadline 测试上下文期限早于配置超时时生效
func TestEchoDeadline(t *testing.T) {
	fake := &fakeEchoer{rtt: time.Millisecond}
	p := newPingerWith(configWithTimeout(10*time.Second), fake)

	ctx, cancel := context.WithTimeout(context.Background(), 200*time.Millisecond)
	defer cancel()

	if _, err := p.Echo(ctx, "127.0.0.1"); err != nil {
		t.Fatalf("Echo failed: %v", err)
	}

	if remaining := time.Until(fake.deadlines[0]); remaining > time.Second {
		t.Errorf("Expected context deadline to win, remaining %v", remaining)
	}
}

// configWithTimeout 指定超时的默认配置
func configWithTimeout(timeout time.Duration) *Config {
	config := DefaultConfig()
	WithTimeout(timeout)(config)
	return config
}

// TestEchoErrorKinds 测试底层错误的分类
func TestEchoErrorKinds(t *testing.T) {
	tests := []struct {
		name string
		err  error
		kind error
	}{
		{"deadline", os.ErrDeadlineExceeded, core.ErrTimeout},
		{"permission", syscall.EPERM, core.ErrToolUnavailable},
		{"unreachable", errors.New("network is unreachable"), core.ErrNetworkFailure},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := newPingerWith(DefaultConfig(), &fakeEchoer{err: tt.err})

			_, err := p.Echo(context.Background(), "127.0.0.1")
			if !errors.Is(err, tt.kind) {
				t.Errorf("Expected %v, got %v", tt.kind, err)
			}
			if !errors.Is(err, tt.err) {
				t.Errorf("Expected underlying error to be preserved, got %v", err)
			}
		})
	}
}

// TestEchoCancelledContext 测试已取消的上下文不会发出请求
func TestEchoCancelledContext(t *testing.T) {
	fake := &fakeEchoer{}
	p := newPingerWith(DefaultConfig(), fake)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := p.Echo(ctx, "127.0.0.1"); err == nil {
		t.Error("Expected error for cancelled context")
	}
	if len(fake.seqs) != 0 {
		t.Errorf("Expected no echo to be sent, got %d", len(fake.seqs))
	}
}

// TestClose 测试关闭可以重复调用，关闭后回显失败
func TestClose(t *testing.T) {
	fake := &fakeEchoer{}
	p := newPingerWith(DefaultConfig(), fake)

	if err := p.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Second Close failed: %v", err)
	}
	if fake.closed != 1 {
		t.Errorf("Expected underlying close once, got %d", fake.closed)
	}

	if _, err := p.Echo(context.Background(), "127.0.0.1"); !errors.Is(err, ErrClosed) {
		t.Errorf("Expected ErrClosed, got %v", err)
	}
}

// TestConcurrentEcho 测试并发回显互不干扰
func TestConcurrentEcho(t *testing.T) {
	fake := &fakeEchoer{rtt: time.Millisecond}
	p := newPingerWith(DefaultConfig(), fake)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _ = p.Echo(context.Background(), "127.0.0.1")
		}()
	}
	wg.Wait()

	seen := make(map[int]bool)
	for _, seq := range fake.seqs {
		if seen[seq] {
			t.Errorf("Sequence %d used twice", seq)
		}
		seen[seq] = true
	}
}

// TestMatchEchoReply 测试回复匹配
func TestMatchEchoReply(t *testing.T) {
	reply := &icmp.Message{
		Type: ipv4.ICMPTypeEchoReply,
		Body: &icmp.Echo{ID: 42, Seq: 7, Data: []byte("wifispot")},
	}
	data, err := reply.Marshal(nil)
	if err != nil {
		t.Fatalf("Marshal failed: %v", err)
	}

	if !matchEchoReply(protocolICMP, data, 42, 7, true) {
		t.Error("Expected matching reply")
	}
	if matchEchoReply(protocolICMP, data, 43, 7, true) {
		t.Error("Expected ID mismatch to be rejected")
	}
	if !matchEchoReply(protocolICMP, data, 0, 7, false) {
		t.Error("Expected ID to be ignored for DGRAM sockets")
	}
	if matchEchoReply(protocolICMP, data, 42, 8, true) {
		t.Error("Expected sequence mismatch to be rejected")
	}

	request, _ := marshalEcho(ipv4.ICMPTypeEcho, 42, 7, "wifispot")
	if matchEchoReply(protocolICMP, request, 42, 7, true) {
		t.Error("Expected echo request to be rejected")
	}
}

// TestLoopbackEcho 对本机回环地址做真实回显，没有权限时跳过
func TestLoopbackEcho(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping network test in short mode")
	}

	p, err := NewPingerWithOptions(WithTimeout(time.Second))
	if err != nil {
		t.Skipf("ICMP not available on this system: %v", err)
	}
	defer p.Close()

	latency, err := p.Echo(context.Background(), "127.0.0.1")
	if err != nil {
		t.Skipf("Loopback echo failed (may be restricted): %v", err)
	}
	if latency < 0 {
		t.Errorf("Expected non-negative latency, got %f", latency)
	}
}

// TestGetSystemInfo 测试系统信息
func TestGetSystemInfo(t *testing.T) {
	osName, privilegeStatus, implementationType := GetSystemInfo()
	if osName == "" || privilegeStatus == "" || implementationType == "" {
		t.Errorf("Expected non-empty system info, got %q %q %q", osName, privilegeStatus, implementationType)
	}
	t.Logf("%s / %s / %s", osName, privilegeStatus, implementationType)
}
