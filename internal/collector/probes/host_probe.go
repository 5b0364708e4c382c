package probes

import (
	"context"
	"fmt"

	"github.com/shirou/gopsutil/v4/host"

	"labdoctor/internal/health"
)

// HostProbe reports the operating system the checks are running on.
type HostProbe struct {
	info func(ctx context.Context) (*host.InfoStat, error)
}

func NewHostProbe() *HostProbe {
	return &HostProbe{info: host.InfoWithContext}
}

func (p *HostProbe) Label() string {
	return "os"
}

func (p *HostProbe) Check(ctx context.Context) health.Row {
	info, err := p.info(ctx)
	if err != nil {
		if isTimeout(ctx, err) {
			return health.Fail(p.Label(), TimedOut)
		}
		return health.Warn(p.Label(), fmt.Sprintf("failed to get host info: %v", err))
	}
	return health.OK(p.Label(), fmt.Sprintf("%s %s (%s)", info.Platform, info.PlatformVersion, info.KernelArch))
}
