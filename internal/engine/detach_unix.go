//go:build !windows

package engine

import (
	"os/exec"
	"syscall"
)

// detachProcess starts cmd in its own session, away from the dashboard's terminal.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setsid: true}
}
