//go:build !unix

package signals

import "os"

// Forwarded returns the signals relayed to a hosted process.
func Forwarded() []os.Signal {
	return []os.Signal{os.Interrupt}
}
