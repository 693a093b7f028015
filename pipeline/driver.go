package pipeline

import (
	"github.com/cobalt-data/nbt/log"
	"github.com/cobalt-data/nbt/matrix"
)

// Drive builds every target in order and stops at the first failure,
// returning that step's exit code verbatim. Targets after a failed one are
// never attempted: a failure always points at exactly one target, and its
// log file holds the full diagnostics. Returns 0 when the whole matrix
// builds.
func Drive(r *Runner, targets []matrix.Target) int {
	for _, target := range targets {
		log.Log("Building %s (%s)\n", target.OutputFileName, target.Name())
		res := r.Build(target)
		if !res.OK() {
			log.Error("%s failed with exit code %d.\n", target.Name(), res.ExitCode)
			return res.ExitCode
		}
		log.Success("%s built and staged.\n", target.OutputFileName)
	}
	return 0
}
