//go:build !windows

package process

import (
	"os"
	"syscall"
)

// sysProcAttr puts the child in its own process group so killTree can
// take out anything it forked.
func sysProcAttr() *syscall.SysProcAttr {
	return &syscall.SysProcAttr{Setpgid: true}
}

func killTree(pid int, proc *os.Process) error {
	if err := syscall.Kill(-pid, syscall.SIGKILL); err == nil {
		return nil
	}
	return proc.Kill()
}
