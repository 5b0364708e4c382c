package probes

import (
	"context"
	"strings"

	"labdoctor/internal/health"
)

// DeviceProbe enumerates attached devices from a command's output.
type DeviceProbe struct {
	Name      string
	Command   []string
	Enumerate func(stdout string) []string
	Runner    Runner
}

func NewDeviceProbe(label string, enumerate func(string) []string, command ...string) *DeviceProbe {
	return &DeviceProbe{
		Name:      label,
		Command:   command,
		Enumerate: enumerate,
	}
}

func (p *DeviceProbe) WithRunner(r Runner) *DeviceProbe {
	p.Runner = r
	return p
}

func (p *DeviceProbe) Label() string {
	return p.Name
}

func (p *DeviceProbe) Check(ctx context.Context) health.Row {
	if len(p.Command) == 0 || p.Enumerate == nil {
		return health.Fail(p.Name, "no command configured")
	}
	runner := p.Runner
	if runner == nil {
		runner = ExecRunner{}
	}

	out, err := runner.Run(ctx, p.Command[0], p.Command[1:]...)
	if err != nil {
		if isTimeout(ctx, err) {
			return health.Fail(p.Name, TimedOut)
		}
		return health.Warn(p.Name, "unable to query")
	}

	devices := p.Enumerate(out.Stdout)
	if len(devices) == 0 {
		return health.Warn(p.Name, "none")
	}
	return health.OK(p.Name, strings.Join(devices, "; "))
}

// ParseADBDevices reads `adb devices -l` output and returns the devices in
// the "device" state, as "serial (model)" when the model is known.
func ParseADBDevices(out string) []string {
	var devices []string
	for i, line := range strings.Split(out, "\n") {
		if i == 0 {
			continue // "List of devices attached"
		}
		fields := strings.Fields(line)
		if len(fields) < 2 || fields[1] != "device" {
			continue
		}
		desc := fields[0]
		for _, f := range fields[2:] {
			if model, ok := strings.CutPrefix(f, "model:"); ok {
				desc += " (" + model + ")"
				break
			}
		}
		devices = append(devices, desc)
	}
	return devices
}

// ParseBootedSimulators reads `xcrun simctl list devices booted` output and
// returns the simulator names.
func ParseBootedSimulators(out string) []string {
	var names []string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasSuffix(line, "(Booted)") {
			continue
		}
		name, _, _ := strings.Cut(line, " (")
		if name != "" {
			names = append(names, name)
		}
	}
	return names
}
