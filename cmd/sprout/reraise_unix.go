//go:build unix

package main

import (
	"os"
	"os/signal"
	"syscall"
	"time"
)

// reraise terminates the process with sig when it is one a parent shell
// expects to see as the cause of death. It returns if the signal did not
// end the process, and the caller falls back to 128+n.
func reraise(sig os.Signal) {
	s, ok := sig.(syscall.Signal)
	if !ok {
		return
	}
	switch s {
	case syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGKILL, syscall.SIGPIPE:
	default:
		return
	}

	signal.Reset(s)
	if err := syscall.Kill(os.Getpid(), s); err != nil {
		return
	}
	time.Sleep(100 * time.Millisecond)
}
