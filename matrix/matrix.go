// Package matrix describes the build matrix for the libcobalt core library:
// which (platform, architecture, build type) combinations are built, in which
// order, and with which compiler flags.
package matrix

import (
	"fmt"
	"path/filepath"

	"github.com/cobalt-data/nbt/config"
)

// Arch is the target instruction-set architecture.
type Arch string

const (
	X64 Arch = "x64"
	X86 Arch = "x86"
)

// BuildType selects between the optimized and the instrumented build.
type BuildType string

const (
	Release BuildType = "release"
	Debug   BuildType = "debug"
)

// The fixed libcobalt source set. The wrapper translation unit and the
// version script are Linux-only build inputs, layered into the flag set by
// CompilerArgs.
var sources = []string{"cobalt.cpp", "arena.cpp", "codec.cpp"}

const (
	versionScript = "exports.map"
	memcpyWrapper = "memcpy_wrap.c"
	logFileName   = "build.log"
)

var commonFlags = []string{"-std=c++17", "-fPIC", "-fvisibility=hidden", "-Wall"}

var buildTypeFlags = map[BuildType][]string{
	Release: {"-O3", "-DNDEBUG"},
	Debug:   {"-O0", "-g", "-fsanitize=address", "-fno-omit-frame-pointer"},
}

// Target describes one concrete build of the shared library.
type Target struct {
	Platform       Platform
	Arch           Arch
	BuildType      BuildType
	OutputFileName string
	// IntermediateDir receives the compiler's temporary files.
	IntermediateDir string
	OutputDir       string
	LogFile         string
	// ExtraFlags hold the build-type and architecture flags, appended after
	// the common and platform flags.
	ExtraFlags []string
}

// Name returns a human-readable identifier, e.g. "linux/x86 debug".
func (t Target) Name() string {
	return fmt.Sprintf("%s/%s %s", t.Platform, t.Arch, t.BuildType)
}

// Artifact returns the path of the shared library this target produces.
func (t Target) Artifact() string {
	return filepath.Join(t.OutputDir, t.OutputFileName)
}

// ArchFlags returns the compiler flags selecting the given architecture.
func ArchFlags(a Arch) []string {
	if a == X86 {
		return []string{"-m32"}
	}
	return nil
}

// CompilerArgs composes the full compiler argument list for the target.
// Composition is strictly additive and order-sensitive: common flags first,
// then platform flags, then the target's extra flags, then the sources and
// the output path. On Linux the exported-symbol version script, the memcpy
// wrap and the wrapper translation unit are a fixed part of the flag set.
func (t Target) CompilerArgs(cfg config.Config) []string {
	args := append([]string(nil), commonFlags...)

	switch t.Platform {
	case MacOS:
		args = append(args, "-dynamiclib", "-mmacosx-version-min=10.13")
	case Linux:
		args = append(args,
			"-shared",
			"-static-libstdc++",
			"-static-libgcc",
			"-Wl,--version-script="+filepath.Join(cfg.SourceDir, versionScript),
			"-Wl,--wrap=memcpy",
		)
	}

	args = append(args, t.ExtraFlags...)

	for _, src := range sources {
		args = append(args, filepath.Join(cfg.SourceDir, src))
	}
	if t.Platform == Linux {
		args = append(args, filepath.Join(cfg.SourceDir, memcpyWrapper))
	}

	return append(args, "-o", t.Artifact())
}

// Expand enumerates the build matrix for the given platform in execution
// order: release before debug, 64-bit before 32-bit. The 32-bit pair exists
// on Linux only and only when explicitly requested.
func Expand(cfg config.Config, p Platform, include32Bit bool) []Target {
	targets := []Target{
		newTarget(cfg, p, X64, Release),
		newTarget(cfg, p, X64, Debug),
	}
	if p == Linux && include32Bit {
		targets = append(targets,
			newTarget(cfg, p, X86, Release),
			newTarget(cfg, p, X86, Debug),
		)
	}
	return targets
}

func newTarget(cfg config.Config, p Platform, a Arch, bt BuildType) Target {
	base := "libcobalt"
	if a == X86 {
		base += "32"
	}
	if bt == Debug {
		base += "-dbg"
	}

	key := fmt.Sprintf("%s-%s-%s", p, a, bt)
	outputDir := filepath.Join(cfg.BuildDir, key)

	extra := append([]string(nil), buildTypeFlags[bt]...)
	extra = append(extra, ArchFlags(a)...)

	return Target{
		Platform:        p,
		Arch:            a,
		BuildType:       bt,
		OutputFileName:  base + p.LibExt(),
		IntermediateDir: filepath.Join(cfg.BuildDir, "obj", key),
		OutputDir:       outputDir,
		LogFile:         filepath.Join(outputDir, logFileName),
		ExtraFlags:      extra,
	}
}
