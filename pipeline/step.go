// Package pipeline runs the build matrix: one external command at a time,
// strictly in order, aborting on the first failing step.
package pipeline

import (
	"os"
	"os/exec"
)

// Step is a single external command of the build pipeline.
type Step struct {
	// Name labels the step in debug output ("compile", "probe", "install").
	Name string
	// Argv is the full command line, program first.
	Argv []string
	// Env holds extra environment entries appended to the ambient environment.
	Env []string
}

// Result captures the outcome of one step. The combined stdout/stderr of the
// command is preserved verbatim; interpreting compiler diagnostics is the
// caller's (i.e. the human's) job.
type Result struct {
	ExitCode int
	Output   string
}

// OK reports whether the step succeeded.
func (r Result) OK() bool {
	return r.ExitCode == 0
}

// StepFunc executes a single Step. The pipeline is written against this
// type so tests can substitute the external compiler.
type StepFunc func(Step) Result

// Execute runs the step's command to completion, capturing combined output
// and the exit code. Errors are never swallowed or retried here: a missing
// binary surfaces as exit code 127, anything else as the process's own code.
func Execute(step Step) Result {
	cmd := exec.Command(step.Argv[0], step.Argv[1:]...)
	if len(step.Env) > 0 {
		cmd.Env = append(os.Environ(), step.Env...)
	}

	out, err := cmd.CombinedOutput()
	result := Result{Output: string(out)}
	if err != nil {
		if exitErr, ok := err.(*exec.ExitError); ok {
			result.ExitCode = exitErr.ExitCode()
		} else {
			result.ExitCode = 127
			result.Output += err.Error() + "\n"
		}
	}
	return result
}
