//go:build !linux && !darwin && !windows

package pinger

import (
	"errors"
	"os"
)

// genericCapability 其他平台只支持特权模式
type genericCapability struct{}

func (g *genericCapability) hasPrivilegedAccess() bool {
	return os.Geteuid() == 0
}

func (g *genericCapability) createPrivilegedEchoer(config *Config) (echoer, error) {
	return newPrivilegedEchoer(config), nil
}

func (g *genericCapability) createUnprivilegedEchoer(config *Config) (echoer, error) {
	return nil, errors.New("当前平台需要root权限才能发送ICMP回显")
}

func getPlatformCapability() platformCapability {
	return &genericCapability{}
}
