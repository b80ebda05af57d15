package probe

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os/exec"
	"strings"

	"github.com/Kevin-Rudy/wifispot/pkg/core"
)

// CommandRunner 通过 os/exec 执行系统命令，实现 core.TextOutputSource
type CommandRunner struct{}

// 编译期检查
var _ core.TextOutputSource = CommandRunner{}

// Output 执行命令并返回标准输出
// 找不到命令归类为 ErrToolUnavailable，超过上下文期限归类为 ErrTimeout，
// 非零退出时仍然返回已产生的输出
func (CommandRunner) Output(ctx context.Context, name string, args ...string) ([]byte, error) {
	out, err := exec.CommandContext(ctx, name, args...).Output()
	if err == nil {
		return out, nil
	}

	if errors.Is(err, exec.ErrNotFound) || errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("%s: %w: %w", name, core.ErrToolUnavailable, err)
	}

	if ctxErr := ctx.Err(); ctxErr != nil {
		if errors.Is(ctxErr, context.DeadlineExceeded) {
			return out, fmt.Errorf("%s: %w", name, core.ErrTimeout)
		}
		return out, ctxErr
	}

	return out, fmt.Errorf("%s: %w", name, err)
}

// lookPath 查找可执行文件，测试时可替换
var lookPath = exec.LookPath

// EnvironmentError 启动时缺少必需的外部工具
type EnvironmentError struct {
	Missing []string
}

func (e *EnvironmentError) Error() string {
	return fmt.Sprintf("缺少必需的外部工具: %s", strings.Join(e.Missing, ", "))
}

// requiredTools 返回配置所需的工具，按用途分组
// 同一组内只要有一个可用即可
func requiredTools(c *Config) (identity, latency []string) {
	switch c.Platform {
	case PlatformUnix:
		identity = []string{"iwconfig", "iw"}
	case PlatformWindows:
		identity = []string{"netsh"}
	}

	if c.LatencyMode == LatencyCommand {
		latency = []string{"ping"}
	}

	return identity, latency
}

// CheckEnvironment 检查外部工具是否存在
// 返回缺失的工具组描述；网络身份和延迟两类工具全部缺失时，
// 整个采样会话只会产生空行，此时返回 *EnvironmentError
func CheckEnvironment(c *Config) ([]string, error) {
	identity, latency := requiredTools(c)

	var missing []string
	identityMissing := len(identity) > 0 && !anyAvailable(identity)
	if identityMissing {
		missing = append(missing, strings.Join(identity, "/"))
	}

	latencyMissing := len(latency) > 0 && !anyAvailable(latency)
	if latencyMissing {
		missing = append(missing, strings.Join(latency, "/"))
	}

	identityUsable := len(identity) > 0 && !identityMissing
	latencyUsable := len(latency) == 0 || !latencyMissing
	if !identityUsable && !latencyUsable {
		return missing, &EnvironmentError{Missing: missing}
	}

	return missing, nil
}

// anyAvailable 判断工具组中是否至少有一个可执行文件
func anyAvailable(tools []string) bool {
	for _, tool := range tools {
		if _, err := lookPath(tool); err == nil {
			return true
		}
	}
	return false
}
