package engine

import (
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"strings"

	"labdoctor/pkg/logging"
)

const (
	executorSubsystem = "Executor"
	defaultMaxOutput  = 4096
)

var ErrNoCommand = errors.New("no command to run")

// ActionExecutionError reports a remediation that failed to start or
// exited non-zero. Output holds the tail of what it printed.
type ActionExecutionError struct {
	Label   string
	Command []string
	Output  string
	Err     error
}

func (e *ActionExecutionError) Error() string {
	msg := "action " + e.Label + " failed: " + e.Err.Error()
	if line := lastLine(e.Output); line != "" {
		msg += ": " + line
	}
	return msg
}

func (e *ActionExecutionError) Unwrap() error {
	return e.Err
}

// Executor launches remediation commands as detached processes. Their
// output goes to a file in LogDir (os.TempDir when empty), never to a pipe
// owned by this process, so they keep running after the dashboard exits.
type Executor struct {
	Dir       string
	LogDir    string
	MaxOutput int

	command func(name string, args ...string) *exec.Cmd
}

func NewExecutor(dir string) *Executor {
	return &Executor{Dir: dir, MaxOutput: defaultMaxOutput, command: exec.Command}
}

// Process is a running remediation.
type Process struct {
	Action  Action
	LogPath string

	cmd   *exec.Cmd
	limit int
}

func (p *Process) Pid() int {
	return p.cmd.Process.Pid
}

// Wait blocks until the process exits. The output log is removed after a
// clean exit and kept for inspection otherwise.
func (p *Process) Wait() error {
	err := p.cmd.Wait()
	out, readErr := readTail(p.LogPath, p.limit)
	if readErr != nil {
		logging.Warn(executorSubsystem, "Could not read output of %s: %v", p.Action.Label, readErr)
	}
	if err != nil {
		logging.Warn(executorSubsystem, "Action %s exited with error: %v (output in %s)", p.Action.Label, err, p.LogPath)
		return &ActionExecutionError{
			Label:   p.Action.Label,
			Command: p.Action.Command,
			Output:  out,
			Err:     err,
		}
	}
	logging.Info(executorSubsystem, "Action %s finished", p.Action.Label)
	_ = os.Remove(p.LogPath)
	return nil
}

// Start launches the action's command and returns without waiting for it.
func (e *Executor) Start(a Action) (*Process, error) {
	if !a.Runnable() {
		return nil, &ActionExecutionError{Label: a.Label, Err: ErrNoCommand}
	}

	newCmd := e.command
	if newCmd == nil {
		newCmd = exec.Command
	}
	cmd := newCmd(a.Command[0], a.Command[1:]...)
	cmd.Dir = e.Dir

	logFile, err := os.CreateTemp(e.LogDir, "labdoctor-action-*.log")
	if err != nil {
		return nil, &ActionExecutionError{Label: a.Label, Command: a.Command, Err: fmt.Errorf("create output log: %w", err)}
	}
	// The child gets its own descriptor; ours is closed once it has started.
	defer logFile.Close()

	cmd.Stdout = logFile
	cmd.Stderr = logFile
	detachProcess(cmd)

	if err := cmd.Start(); err != nil {
		logging.Error(executorSubsystem, err, "Failed to start action %s", a.Label)
		_ = logFile.Close()
		_ = os.Remove(logFile.Name())
		return nil, &ActionExecutionError{Label: a.Label, Command: a.Command, Err: err}
	}
	logging.Info(executorSubsystem, "Started action %s (pid %d, output %s): %s", a.Label, cmd.Process.Pid, logFile.Name(), a.CommandLine())

	limit := e.MaxOutput
	if limit <= 0 {
		limit = defaultMaxOutput
	}
	return &Process{Action: a, LogPath: logFile.Name(), cmd: cmd, limit: limit}, nil
}

// readTail returns at most the last limit bytes of the file at path.
func readTail(path string, limit int) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	info, err := f.Stat()
	if err != nil {
		return "", err
	}
	if over := info.Size() - int64(limit); over > 0 {
		if _, err := f.Seek(over, io.SeekStart); err != nil {
			return "", err
		}
	}
	data, err := io.ReadAll(f)
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func lastLine(s string) string {
	lines := strings.Split(strings.TrimSpace(s), "\n")
	return strings.TrimSpace(lines[len(lines)-1])
}
