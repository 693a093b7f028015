package matrix

import (
	"fmt"
	"os/exec"
	"runtime"
	"strings"
)

// Platform identifies one of the two host platforms nbt can build on.
type Platform string

const (
	MacOS Platform = "macos"
	Linux Platform = "linux"
)

// LibExt returns the shared-library file extension for the platform.
func (p Platform) LibExt() string {
	if p == MacOS {
		return ".dylib"
	}
	return ".so"
}

// CompilerFor returns the compiler driver used on the given platform.
func CompilerFor(p Platform) string {
	if p == MacOS {
		return "clang++"
	}
	return "g++"
}

// unameProbe reports the host kernel name. Swapped out in tests.
var unameProbe = func() (string, error) {
	out, err := exec.Command("uname", "-s").Output()
	return strings.TrimSpace(string(out)), err
}

// DetectHost identifies the host platform with a single uname probe.
// Anything other than Darwin or Linux is a fatal condition: there is no
// compiler driver configuration for other systems.
func DetectHost() (Platform, error) {
	name, err := unameProbe()
	if err != nil {
		return "", fmt.Errorf("failed to probe the host platform: %w", err)
	}
	switch name {
	case "Darwin":
		return MacOS, nil
	case "Linux":
		return Linux, nil
	}
	return "", fmt.Errorf("unsupported platform '%s': nbt drives clang++ on macOS and g++ on Linux only", name)
}

// HostArch returns the architecture nbt itself runs on. Targets with any
// other architecture require the cross toolchain.
func HostArch() Arch {
	if runtime.GOARCH == "386" {
		return X86
	}
	return X64
}
