//go:build unix

package executor

import (
	"os/exec"
	"syscall"
)

// configureProcess places the child in its own process group so that a
// timeout kills helper processes it spawned as well.
func configureProcess(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	cmd.Cancel = func() error {
		if cmd.Process == nil {
			return nil
		}
		return syscall.Kill(-cmd.Process.Pid, syscall.SIGKILL)
	}
}
