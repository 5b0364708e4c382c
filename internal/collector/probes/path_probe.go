package probes

import (
	"context"
	"errors"
	"io/fs"
	"os"

	"labdoctor/internal/health"
)

// PathProbe checks that a file or directory exists.
type PathProbe struct {
	Name          string
	Path          string
	FoundDetail   string
	MissingState  health.State
	MissingDetail string

	stat func(string) (os.FileInfo, error)
}

// NewPathProbe reports the path itself when found and FAIL "missing" otherwise.
func NewPathProbe(label, path string) *PathProbe {
	return &PathProbe{
		Name:          label,
		Path:          path,
		MissingState:  health.StateFail,
		MissingDetail: "missing",
		stat:          os.Stat,
	}
}

func (p *PathProbe) OnFound(detail string) *PathProbe {
	p.FoundDetail = detail
	return p
}

func (p *PathProbe) OnMissing(state health.State, detail string) *PathProbe {
	p.MissingState = state
	p.MissingDetail = detail
	return p
}

func (p *PathProbe) Label() string {
	return p.Name
}

func (p *PathProbe) Check(_ context.Context) health.Row {
	stat := p.stat
	if stat == nil {
		stat = os.Stat
	}

	if _, err := stat(p.Path); err != nil {
		detail := p.MissingDetail
		if !errors.Is(err, fs.ErrNotExist) {
			detail = err.Error()
		}
		return health.Row{Label: p.Name, State: p.MissingState, Detail: detail}
	}

	detail := p.FoundDetail
	if detail == "" {
		detail = p.Path
	}
	return health.OK(p.Name, detail)
}
