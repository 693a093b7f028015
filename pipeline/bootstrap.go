package pipeline

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cobalt-data/nbt/log"
	"github.com/cobalt-data/nbt/matrix"
)

var multilibPackages = []string{"gcc-multilib", "g++-multilib"}

const probeProgram = "int main() { return 0; }\n"

// EnsureToolchain makes sure the compiler can actually produce binaries for
// the target's architecture. It compiles and links a trivial program with
// the architecture flags; only if that fails is the multilib toolchain
// installed, once, and the probe repeated. The probe result is cached per
// architecture for the rest of the run.
//
// Probing the toolchain directly (instead of keying off some earlier build
// residue on disk) means a half-installed machine is detected even when old
// build directories are still around.
func (r *Runner) EnsureToolchain(target matrix.Target) Result {
	if r.ready[target.Arch] {
		return Result{}
	}

	probe := r.probeToolchain(target)
	if !probe.OK() {
		log.Log("No %s toolchain found, installing %s.\n", target.Arch, strings.Join(multilibPackages, " "))
		argv := append([]string{"sudo", "apt-get", "install", "-y"}, multilibPackages...)
		if install := r.Run(Step{Name: "install", Argv: argv}); !install.OK() {
			return install
		}
		if probe = r.probeToolchain(target); !probe.OK() {
			return probe
		}
	}

	r.ready[target.Arch] = true
	return Result{}
}

func (r *Runner) probeToolchain(target matrix.Target) Result {
	dir, err := os.MkdirTemp("", "nbt-probe-")
	if err != nil {
		return Result{ExitCode: 1, Output: err.Error() + "\n"}
	}
	defer os.RemoveAll(dir)

	src := filepath.Join(dir, "probe.cpp")
	if err := os.WriteFile(src, []byte(probeProgram), 0664); err != nil {
		return Result{ExitCode: 1, Output: err.Error() + "\n"}
	}

	argv := []string{r.compiler(target)}
	argv = append(argv, matrix.ArchFlags(target.Arch)...)
	argv = append(argv, src, "-o", filepath.Join(dir, "probe"))

	log.Debug("Probing the %s toolchain: '%s'\n", target.Arch, strings.Join(argv, " "))
	return r.Run(Step{Name: "probe", Argv: argv})
}
