//go:build !windows

package host

import "os/exec"

func terminateCommand(name string) *exec.Cmd {
	return exec.Command("pkill", "-x", name)
}
