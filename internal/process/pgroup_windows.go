//go:build windows

package process

import (
	"os"
	"syscall"
)

func sysProcAttr() *syscall.SysProcAttr {
	return nil
}

func killTree(_ int, proc *os.Process) error {
	return proc.Kill()
}
