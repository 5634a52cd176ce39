//go:build windows
// +build windows

package mutildrv

import (
	"os/exec"
)

func execCommand(c string) *exec.Cmd {
	return exec.Command("cmd.exe", "/C", c)
}

func midiCatCmd(program, args string) *exec.Cmd {
	return execCommand(program + ".exe " + args)
}

func detach(cmd *exec.Cmd) {}
