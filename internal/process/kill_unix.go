//go:build !windows

package process

import (
	"os/exec"
	"syscall"
)

// KillGroup sends SIGKILL to the group led by pid. Errors are ignored: the
// group may already be gone, and the caller still reaps its direct child.
func KillGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}

func newGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
