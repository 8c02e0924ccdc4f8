package procprobe

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// Terminator ends a process. Implementations must use a termination strength
// the target cannot intercept or defer: the host application's run-loop
// wrapper is known to catch plain termination requests and restart the
// script, so a cooperative signal is not enough to supersede an instance.
type Terminator interface {
	Kill(pid int) error
}

// SIGKILLTerminator delivers SIGKILL, which no signal handler can catch.
type SIGKILLTerminator struct{}

func (SIGKILLTerminator) Kill(pid int) error {
	if pid <= 0 {
		return fmt.Errorf("invalid pid %d", pid)
	}
	if err := unix.Kill(pid, unix.SIGKILL); err != nil {
		return fmt.Errorf("kill pid %d: %w", pid, err)
	}
	return nil
}
