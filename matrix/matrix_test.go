package matrix

import (
	"path/filepath"
	"testing"

	"github.com/cobalt-data/nbt/config"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() config.Config {
	return config.Config{
		SourceDir: "native/src",
		BuildDir:  "build",
		StageDir:  "dist/lib",
		EmbedDir:  "python/cobalt/lib",
	}
}

type triple struct {
	Arch      Arch
	BuildType BuildType
	Name      string
}

func triples(targets []Target) []triple {
	out := []triple{}
	for _, t := range targets {
		out = append(out, triple{t.Arch, t.BuildType, t.OutputFileName})
	}
	return out
}

func TestExpandLinuxOrder(t *testing.T) {
	got := triples(Expand(testConfig(), Linux, false))
	want := []triple{
		{X64, Release, "libcobalt.so"},
		{X64, Debug, "libcobalt-dbg.so"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected matrix (-want +got):\n%s", diff)
	}
}

func TestExpandLinuxWith32BitOrder(t *testing.T) {
	got := triples(Expand(testConfig(), Linux, true))
	want := []triple{
		{X64, Release, "libcobalt.so"},
		{X64, Debug, "libcobalt-dbg.so"},
		{X86, Release, "libcobalt32.so"},
		{X86, Debug, "libcobalt32-dbg.so"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected matrix (-want +got):\n%s", diff)
	}
}

func TestExpandMacOSIgnores32Bit(t *testing.T) {
	got := triples(Expand(testConfig(), MacOS, true))
	want := []triple{
		{X64, Release, "libcobalt.dylib"},
		{X64, Debug, "libcobalt-dbg.dylib"},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("unexpected matrix (-want +got):\n%s", diff)
	}
}

func TestOutputFileNamesUnique(t *testing.T) {
	seen := map[string]string{}
	all := append(Expand(testConfig(), Linux, true), Expand(testConfig(), MacOS, false)...)
	for _, target := range all {
		if prev, ok := seen[target.OutputFileName]; ok {
			t.Fatalf("output name %s used by both %s and %s", target.OutputFileName, prev, target.Name())
		}
		seen[target.OutputFileName] = target.Name()
	}
}

func TestTargetPathsDisjoint(t *testing.T) {
	targets := Expand(testConfig(), Linux, true)
	outDirs := map[string]bool{}
	for _, target := range targets {
		assert.False(t, outDirs[target.OutputDir], "output dir %s reused", target.OutputDir)
		outDirs[target.OutputDir] = true
		assert.Equal(t, target.OutputDir, filepath.Dir(target.LogFile))
		assert.Equal(t, target.OutputDir, filepath.Dir(target.Artifact()))
	}
}

func indexOf(args []string, want string) int {
	for i, a := range args {
		if a == want {
			return i
		}
	}
	return -1
}

func TestCompilerArgsLinuxLayering(t *testing.T) {
	cfg := testConfig()
	release := Expand(cfg, Linux, true)[0]
	args := release.CompilerArgs(cfg)

	// Common flags come first, platform flags next, build-type flags after.
	require.Equal(t, "-std=c++17", args[0])
	shared := indexOf(args, "-shared")
	opt := indexOf(args, "-O3")
	require.NotEqual(t, -1, shared)
	require.NotEqual(t, -1, opt)
	assert.Less(t, shared, opt)

	// The version script and the memcpy wrap are a fixed part of the Linux
	// flag set.
	script := indexOf(args, "-Wl,--version-script="+filepath.Join("native/src", "exports.map"))
	wrap := indexOf(args, "-Wl,--wrap=memcpy")
	require.NotEqual(t, -1, script)
	require.NotEqual(t, -1, wrap)

	// Sources follow all flags, the wrapper translation unit follows the
	// sources, and the output path is last.
	firstSource := indexOf(args, filepath.Join("native/src", "cobalt.cpp"))
	wrapper := indexOf(args, filepath.Join("native/src", "memcpy_wrap.c"))
	require.NotEqual(t, -1, firstSource)
	require.NotEqual(t, -1, wrapper)
	assert.Less(t, opt, firstSource)
	assert.Less(t, firstSource, wrapper)
	assert.Equal(t, "-o", args[len(args)-2])
	assert.Equal(t, release.Artifact(), args[len(args)-1])
}

func TestCompilerArgsBuildTypes(t *testing.T) {
	cfg := testConfig()
	targets := Expand(cfg, Linux, true)

	release := targets[0].CompilerArgs(cfg)
	debug := targets[1].CompilerArgs(cfg)

	assert.Contains(t, release, "-O3")
	assert.Contains(t, release, "-DNDEBUG")
	assert.NotContains(t, release, "-fsanitize=address")

	assert.Contains(t, debug, "-fsanitize=address")
	assert.Contains(t, debug, "-g")
	assert.NotContains(t, debug, "-O3")
}

func TestCompilerArgs32Bit(t *testing.T) {
	cfg := testConfig()
	targets := Expand(cfg, Linux, true)

	assert.NotContains(t, targets[0].CompilerArgs(cfg), "-m32")
	assert.Contains(t, targets[2].CompilerArgs(cfg), "-m32")
	assert.Contains(t, targets[3].CompilerArgs(cfg), "-m32")
}

func TestCompilerArgsMacOS(t *testing.T) {
	cfg := testConfig()
	target := Expand(cfg, MacOS, false)[0]
	args := target.CompilerArgs(cfg)

	assert.Contains(t, args, "-dynamiclib")
	assert.NotContains(t, args, "-shared")
	assert.NotContains(t, args, "-Wl,--wrap=memcpy")
	assert.Equal(t, -1, indexOf(args, filepath.Join("native/src", "memcpy_wrap.c")))
}

func TestArchFlags(t *testing.T) {
	assert.Empty(t, ArchFlags(X64))
	assert.Equal(t, []string{"-m32"}, ArchFlags(X86))
}
