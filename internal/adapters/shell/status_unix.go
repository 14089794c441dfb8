//go:build unix

package shell

import (
	"os"
	"syscall"

	"go.trai.ch/sprout/internal/core/domain"
)

func exitStatus(state *os.ProcessState) domain.ExitStatus {
	ws, ok := state.Sys().(syscall.WaitStatus)
	if !ok {
		return domain.ExitStatus{Code: state.ExitCode()}
	}
	if ws.Signaled() {
		return domain.ExitStatus{Code: 128 + int(ws.Signal()), Signaled: true, Signal: ws.Signal()}
	}
	return domain.ExitStatus{Code: ws.ExitStatus()}
}
