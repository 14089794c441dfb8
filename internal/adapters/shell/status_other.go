//go:build !unix

package shell

import (
	"os"

	"go.trai.ch/sprout/internal/core/domain"
)

func exitStatus(state *os.ProcessState) domain.ExitStatus {
	return domain.ExitStatus{Code: state.ExitCode()}
}
