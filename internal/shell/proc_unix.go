//go:build !windows

package shell

import (
	"os"
	"os/exec"
	"syscall"

	"golang.org/x/sys/unix"
)

// setProcessGroup gives the child its own session via Setsid, so the
// termination ladder can signal the whole process group. A plain kill of
// the shell would leave grandchildren running and holding the output pipes.
func setProcessGroup(cmd *exec.Cmd) {
	if cmd.SysProcAttr == nil {
		cmd.SysProcAttr = &syscall.SysProcAttr{}
	}
	cmd.SysProcAttr.Setsid = true
}

// signalProcessGroup sends SIGTERM (or SIGKILL when force is set) to the
// command's process group. A group that already exited is not an error.
func signalProcessGroup(cmd *exec.Cmd, force bool) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	pid := cmd.Process.Pid
	// Guard: kill(-1) would signal every process the user owns, kill(0) the
	// caller's own group. Treat invalid PIDs as already done.
	if pid <= 1 {
		return os.ErrProcessDone
	}
	sig := unix.SIGTERM
	if force {
		sig = unix.SIGKILL
	}
	if err := unix.Kill(-pid, sig); err != nil {
		if err == unix.ESRCH {
			return os.ErrProcessDone
		}
		return err
	}
	return nil
}
