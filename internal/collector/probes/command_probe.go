package probes

import (
	"context"
	"strings"

	"labdoctor/internal/health"
)

// CommandProbe runs an external command and reports OK with a detail parsed
// from its output, or FailState when the command is missing or exits non-zero.
type CommandProbe struct {
	Name       string
	Command    []string
	FailState  health.State
	FailDetail string
	Parse      func(stdout string) string
	Runner     Runner
}

func NewCommandProbe(label string, command ...string) *CommandProbe {
	return &CommandProbe{
		Name:      label,
		Command:   command,
		FailState: health.StateFail,
	}
}

// OnFailure sets the state and fixed detail used when the command fails.
// An empty detail keeps the error text.
func (p *CommandProbe) OnFailure(state health.State, detail string) *CommandProbe {
	p.FailState = state
	p.FailDetail = detail
	return p
}

func (p *CommandProbe) WithParser(parse func(stdout string) string) *CommandProbe {
	p.Parse = parse
	return p
}

func (p *CommandProbe) WithRunner(r Runner) *CommandProbe {
	p.Runner = r
	return p
}

func (p *CommandProbe) Label() string {
	return p.Name
}

func (p *CommandProbe) Check(ctx context.Context) health.Row {
	if len(p.Command) == 0 {
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
		detail := p.FailDetail
		if detail == "" {
			detail = describeExecError(err, out)
		}
		return health.Row{Label: p.Name, State: p.FailState, Detail: detail}
	}

	parse := p.Parse
	if parse == nil {
		parse = FirstLine
	}
	detail := parse(out.Stdout)
	if detail == "" {
		// java and a few others print their version on stderr
		detail = FirstLine(out.Stderr)
	}
	if detail == "" {
		detail = "ok"
	}
	return health.OK(p.Name, detail)
}

// ParseADBVersion turns `adb version` output into "1.0.41 (platform-tools
// 35.0.1-11580240)". Unknown output falls back to its first line.
func ParseADBVersion(out string) string {
	var adb, tools string
	for _, line := range strings.Split(out, "\n") {
		line = strings.TrimSpace(line)
		if v, ok := strings.CutPrefix(line, "Android Debug Bridge version "); ok {
			adb = v
		} else if v, ok := strings.CutPrefix(line, "Version "); ok {
			tools = v
		}
	}
	switch {
	case adb == "":
		return FirstLine(out)
	case tools == "":
		return adb
	}
	return adb + " (platform-tools " + tools + ")"
}
