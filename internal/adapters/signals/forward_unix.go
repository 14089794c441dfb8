//go:build unix

package signals

import (
	"os"
	"syscall"
)

// Forwarded returns the signals relayed to a hosted process.
func Forwarded() []os.Signal {
	return []os.Signal{os.Interrupt, syscall.SIGTERM, syscall.SIGHUP, syscall.SIGQUIT}
}
