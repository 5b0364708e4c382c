//go:build windows

package engine

import (
	"os/exec"
	"syscall"
)

// detachProcess starts cmd in its own process group so console signals do not reach it.
func detachProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{
		CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP,
	}
}
