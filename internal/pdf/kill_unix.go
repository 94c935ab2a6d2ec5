//go:build !windows

package pdf

import "syscall"

// killProcessGroup sends SIGKILL to the browser's process group so renderer
// and GPU helpers do not outlive it.
func killProcessGroup(pid int) {
	// Best effort; launcher.Kill follows.
	_ = syscall.Kill(-pid, syscall.SIGKILL)
}
