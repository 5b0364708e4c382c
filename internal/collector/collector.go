package collector

import (
	"context"
	"errors"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"

	"labdoctor/internal/collector/probes"
	"labdoctor/internal/health"
	"labdoctor/pkg/logging"
)

const subsystem = "Collector"

// RegistryBuilder constructs the registry for one collection run.
type RegistryBuilder func() (*Registry, error)

// CollectionError reports that the registry could not be built, so no
// probe ran. Individual probe failures never produce one.
type CollectionError struct {
	Op  string
	Err error
}

func (e *CollectionError) Error() string {
	if e.Op == "" {
		return "collection failed: " + e.Err.Error()
	}
	return "collection failed: " + e.Op + ": " + e.Err.Error()
}

func (e *CollectionError) Unwrap() error {
	return e.Err
}

// Collector runs every registered probe and assembles a Snapshot.
type Collector struct {
	cfg   CollectorConfig
	build RegistryBuilder
	now   func() time.Time
}

func New(cfg CollectorConfig, build RegistryBuilder) *Collector {
	return &Collector{cfg: cfg, build: build, now: time.Now}
}

// NewDefault returns a collector over the standard lab checks, reading the
// live process environment on every run.
func NewDefault(cfg CollectorConfig) *Collector {
	return New(cfg, func() (*Registry, error) {
		return DefaultRegistry(cfg, OSEnv())
	})
}

func (c *Collector) Config() CollectorConfig {
	return c.cfg
}

// Registry builds the registry without running any probe.
func (c *Collector) Registry() (*Registry, error) {
	reg, err := c.build()
	if err != nil {
		var collErr *CollectionError
		if errors.As(err, &collErr) {
			return nil, err
		}
		return nil, &CollectionError{Op: "build registry", Err: err}
	}
	return reg, nil
}

// Collect runs all probes on a bounded pool and returns them in registry
// order. Probe failures, panics and timeouts become rows; the only error
// is a *CollectionError when the registry itself cannot be built.
func (c *Collector) Collect(ctx context.Context) (health.Snapshot, error) {
	start := c.now()

	reg, err := c.Registry()
	if err != nil {
		logging.Error(subsystem, err, "Failed to build probe registry")
		return health.Snapshot{}, err
	}

	entries := reg.Entries()
	rows := make([]health.Row, len(entries))

	var g errgroup.Group
	g.SetLimit(c.workers())
	for i, e := range entries {
		g.Go(func() error {
			rows[i] = c.runProbe(ctx, e.Probe)
			return nil
		})
	}
	_ = g.Wait()

	snap := assemble(entries, rows)
	snap.CollectedAt = c.now()
	snap.Took = snap.CollectedAt.Sub(start)

	ok, warn, fail := snap.Counts()
	logging.Info(subsystem, "Collected %d probes in %s (ok=%d warn=%d fail=%d)", len(entries), snap.Took.Round(time.Millisecond), ok, warn, fail)
	return snap, nil
}

func (c *Collector) workers() int {
	if c.cfg.MaxWorkers > 0 {
		return c.cfg.MaxWorkers
	}
	return 1
}

func (c *Collector) timeout() time.Duration {
	if c.cfg.ProbeTimeout > 0 {
		return c.cfg.ProbeTimeout
	}
	return DefaultCollectorConfig().ProbeTimeout
}

// runProbe enforces the per-probe deadline even for probes that ignore
// their context, and turns a panic into a FAIL row.
func (c *Collector) runProbe(ctx context.Context, p probes.Probe) health.Row {
	label := p.Label()
	ctx, cancel := context.WithTimeout(ctx, c.timeout())
	defer cancel()

	started := c.now()
	done := make(chan health.Row, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				logging.Error(subsystem, fmt.Errorf("%v", r), "Probe %s panicked", label)
				done <- health.Fail(label, fmt.Sprintf("probe panicked: %v", r))
			}
		}()
		row := p.Check(ctx)
		row.Label = label
		done <- row
	}()

	var row health.Row
	select {
	case row = <-done:
	case <-ctx.Done():
		select {
		case row = <-done:
		default:
			row = health.Fail(label, probes.TimedOut)
			if !errors.Is(ctx.Err(), context.DeadlineExceeded) {
				row.Detail = "canceled"
			}
		}
	}
	logging.Debug(subsystem, "Probe %s finished in %s: %s %s", label, c.now().Sub(started).Round(time.Millisecond), row.State, row.Detail)
	return row
}

func assemble(entries []Entry, rows []health.Row) health.Snapshot {
	var snap health.Snapshot
	index := make(map[string]int)
	for i, e := range entries {
		si, ok := index[e.Section]
		if !ok {
			si = len(snap.Sections)
			index[e.Section] = si
			snap.Sections = append(snap.Sections, health.Section{Title: e.Section})
		}
		snap.Sections[si].Rows = append(snap.Sections[si].Rows, rows[i])
	}
	return snap
}
