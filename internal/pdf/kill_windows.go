//go:build windows

package pdf

import (
	"os/exec"
	"strconv"
)

// killProcessGroup kills the browser and its children with taskkill /T.
func killProcessGroup(pid int) {
	// Best effort; launcher.Kill follows.
	_ = exec.Command("taskkill", "/F", "/T", "/PID", strconv.Itoa(pid)).Run() // #nosec G204 -- pid is numeric
}
