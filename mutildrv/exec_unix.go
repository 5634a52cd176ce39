//go:build !windows
// +build !windows

package mutildrv

import (
	"os/exec"
	"syscall"
)

func execCommand(c string) *exec.Cmd {
	return exec.Command("/bin/sh", "-c", "exec "+c)
}

func midiCatCmd(program, args string) *exec.Cmd {
	return execCommand(program + " " + args)
}

// detach puts cmd into its own process group, so that an interrupt sent
// to mutil does not reach midicat before we had a chance to stop hanging notes.
func detach(cmd *exec.Cmd) {
	cmd.SysProcAttr = &syscall.SysProcAttr{Setpgid: true}
}
