//go:build windows

package process

import (
	"os/exec"
	"strconv"
	"syscall"
)

// KillGroup force-kills the process tree rooted at pid with taskkill.
// Errors are ignored: the tree may already be gone.
func KillGroup(pid int) {
	if pid <= 0 {
		return
	}
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run()
}

func newGroup(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{CreationFlags: syscall.CREATE_NEW_PROCESS_GROUP}
}
