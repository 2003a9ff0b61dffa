//go:build windows

package shell

import (
	"os"
	"os/exec"
)

func setProcessGroup(cmd *exec.Cmd) {}

// signalProcessGroup has no graceful variant on Windows; both rungs of the
// termination ladder kill the process outright.
func signalProcessGroup(cmd *exec.Cmd, force bool) error {
	if cmd.Process == nil {
		return os.ErrProcessDone
	}
	return cmd.Process.Kill()
}
