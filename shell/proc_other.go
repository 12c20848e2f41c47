//go:build !unix

package shell

import "os/exec"

// stopGroup keeps the default cancellation, which kills the process.
func stopGroup(*exec.Cmd, bool) {}
