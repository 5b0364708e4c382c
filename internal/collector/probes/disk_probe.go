package probes

import (
	"context"
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/shirou/gopsutil/v4/disk"

	"labdoctor/internal/health"
)

const (
	DiskCriticalPercent = 95.0
	DefaultMinFreeGB    = 5
)

// DiskProbe reports free space on the volume holding Path.
type DiskProbe struct {
	Path      string
	MinFreeGB uint64

	usage func(ctx context.Context, path string) (*disk.UsageStat, error)
}

func NewDiskProbe(path string, minFreeGB uint64) *DiskProbe {
	if minFreeGB == 0 {
		minFreeGB = DefaultMinFreeGB
	}
	return &DiskProbe{Path: path, MinFreeGB: minFreeGB, usage: disk.UsageWithContext}
}

func (p *DiskProbe) Label() string {
	return "disk"
}

func (p *DiskProbe) Check(ctx context.Context) health.Row {
	u, err := p.usage(ctx, p.Path)
	if err != nil {
		if isTimeout(ctx, err) {
			return health.Fail(p.Label(), TimedOut)
		}
		return health.Warn(p.Label(), fmt.Sprintf("failed to get usage: %v", err))
	}

	free := humanize.IBytes(u.Free)
	switch {
	case u.UsedPercent > DiskCriticalPercent:
		return health.Fail(p.Label(), fmt.Sprintf("%s free (%.0f%% used)", free, u.UsedPercent))
	case u.Free < p.MinFreeGB<<30:
		return health.Warn(p.Label(), fmt.Sprintf("%s free, below %d GiB", free, p.MinFreeGB))
	}
	return health.OK(p.Label(), fmt.Sprintf("%s free of %s", free, humanize.IBytes(u.Total)))
}
