// Package process runs helper programs (the mermaid CLI, Chrome) in their own
// process group, so a canceled conversion leaves no orphaned descendants.
package process

import (
	"context"
	"os/exec"
	"time"
)

// WaitDelay bounds how long Wait blocks on output pipes once the group has
// been killed. Grandchildren can hold the pipes open after the leader exits.
const WaitDelay = 2 * time.Second

// Command is exec.CommandContext with the child started as a group leader.
// When ctx is done the whole group is killed, not just the child.
func Command(ctx context.Context, name string, args ...string) *exec.Cmd {
	cmd := exec.CommandContext(ctx, name, args...) // #nosec G204 -- callers pass configured helper binaries
	newGroup(cmd)
	cmd.Cancel = func() error {
		KillGroup(cmd.Process.Pid)
		return nil
	}
	cmd.WaitDelay = WaitDelay
	return cmd
}
