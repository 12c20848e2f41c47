//go:build unix

package shell

import (
	"errors"
	"os"
	"os/exec"
	"syscall"
)

// stopGroup makes cancellation send SIGTERM instead of SIGKILL.
// Unless the command shares the terminal, it gets its own process group and the whole group is signalled,
// so grandchildren such as the dev server behind "npm start" stop too.
// A command on the terminal stays in the foreground group, where it can read input and receives keyboard interrupts.
func stopGroup(cmd *exec.Cmd, foreground bool) {
	if !foreground {
		cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
	}

	cmd.Cancel = func() error {
		pid := cmd.Process.Pid
		if !foreground {
			pid = -pid
		}

		if err := syscall.Kill(pid, syscall.SIGTERM); errors.Is(err, syscall.ESRCH) {
			return os.ErrProcessDone
		} else if err != nil {
			return err
		}

		return nil
	}
}
