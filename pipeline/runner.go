package pipeline

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cobalt-data/nbt/config"
	"github.com/cobalt-data/nbt/log"
	"github.com/cobalt-data/nbt/matrix"
	"github.com/cobalt-data/nbt/util"

	"github.com/briandowns/spinner"
)

// Runner builds single targets. All fields are set by NewRunner; tests
// replace Run, Stdout and HostArch.
type Runner struct {
	Cfg config.Config

	// Run executes external commands. Defaults to Execute.
	Run StepFunc

	// Stdout receives the echo of every compiler invocation's output.
	Stdout io.Writer

	// HostArch is the architecture of this machine. Targets with a different
	// architecture go through EnsureToolchain first.
	HostArch matrix.Arch

	// ShowSpinner enables a progress spinner while the compiler runs.
	ShowSpinner bool

	ready map[matrix.Arch]bool
}

// NewRunner returns a Runner wired to the real host.
func NewRunner(cfg config.Config) *Runner {
	return &Runner{
		Cfg:      cfg,
		Run:      Execute,
		Stdout:   os.Stdout,
		HostArch: matrix.HostArch(),
		ready:    map[matrix.Arch]bool{},
	}
}

// Build runs the full per-target sequence: toolchain check (cross targets
// only), directory creation, compilation, log persistence and artifact
// staging. The first non-success result aborts the sequence and is returned
// unchanged.
func (r *Runner) Build(target matrix.Target) Result {
	if target.Arch != r.HostArch {
		if res := r.EnsureToolchain(target); !res.OK() {
			fmt.Fprint(r.Stdout, res.Output)
			return res
		}
	}

	for _, dir := range []string{target.IntermediateDir, target.OutputDir} {
		if err := os.MkdirAll(dir, 0775); err != nil {
			return r.fail("failed to create '%s': %s\n", dir, err)
		}
	}

	res := r.compile(target)

	// The compiler's diagnostics are persisted and echoed before the exit
	// code is looked at. They must never be lost.
	if err := util.AppendFile(target.LogFile, []byte(res.Output)); err != nil {
		fmt.Fprint(r.Stdout, res.Output)
		return r.fail("failed to write '%s': %s\n", target.LogFile, err)
	}
	fmt.Fprint(r.Stdout, res.Output)

	if !res.OK() {
		return res
	}

	return r.stage(target)
}

func (r *Runner) compile(target matrix.Target) Result {
	argv := append([]string{r.compiler(target)}, target.CompilerArgs(r.Cfg)...)
	log.Debug("Compiling %s: '%s'\n", target.Name(), strings.Join(argv, " "))

	step := Step{
		Name: "compile",
		Argv: argv,
		Env:  []string{"TMPDIR=" + target.IntermediateDir},
	}

	if !r.ShowSpinner {
		return r.Run(step)
	}

	s := spinner.New(spinner.CharSets[14], 100*time.Millisecond, spinner.WithWriter(os.Stderr))
	s.Suffix = " compiling " + target.OutputFileName
	s.Start()
	defer s.Stop()
	return r.Run(step)
}

// stage copies the produced artifact into the embedded-library directory and
// the packaging directory. A failed copy halts the pipeline immediately, so
// the first destination may have received the artifact while the second has
// not. That matches the long-standing behavior of the build, inconsistent
// staging after a failure is resolved by re-running the build.
func (r *Runner) stage(target matrix.Target) Result {
	for _, dest := range []string{r.Cfg.EmbedDir, r.Cfg.StageDir} {
		if err := os.MkdirAll(dest, 0775); err != nil {
			return r.fail("failed to create '%s': %s\n", dest, err)
		}
		dst := filepath.Join(dest, target.OutputFileName)
		log.Debug("Staging %s to '%s'\n", target.OutputFileName, dst)
		if err := util.CopyFile(target.Artifact(), dst); err != nil {
			return r.fail("%s\n", err)
		}
	}
	return Result{}
}

// fail records a pipeline-internal failure. The message goes to the same
// stream as compiler output so that nothing a failing run prints is lost.
func (r *Runner) fail(format string, a ...interface{}) Result {
	msg := fmt.Sprintf(format, a...)
	fmt.Fprint(r.Stdout, msg)
	return Result{ExitCode: 1, Output: msg}
}

func (r *Runner) compiler(target matrix.Target) string {
	if r.Cfg.Compiler != "" {
		return r.Cfg.Compiler
	}
	return matrix.CompilerFor(target.Platform)
}
