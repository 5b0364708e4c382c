package probes

import (
	"context"

	"labdoctor/internal/health"
)

// Probe is a single diagnostic check. Check always returns a row; every
// failure mode is reported through the row's state and detail.
type Probe interface {
	Label() string
	Check(ctx context.Context) health.Row
}

// Func adapts a plain function to the Probe interface.
type Func struct {
	Name string
	Fn   func(ctx context.Context) health.Row
}

func (f Func) Label() string {
	return f.Name
}

func (f Func) Check(ctx context.Context) health.Row {
	return f.Fn(ctx)
}
