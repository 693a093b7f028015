package config

import (
	"os"
	"path"

	"github.com/cobalt-data/nbt/log"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v2"
)

const configFileName = "config.yaml"

// Config holds all paths and tool overrides used by a build. It is assembled
// once per invocation and passed down into the pipeline unchanged.
type Config struct {
	// SourceDir contains the libcobalt sources and the Linux-only build
	// inputs (exports.map, memcpy_wrap.c).
	SourceDir string `yaml:"source_dir"`

	// BuildDir receives the per-target intermediate and output directories.
	BuildDir string `yaml:"build_dir"`

	// StageDir receives a copy of every built artifact for packaging.
	StageDir string `yaml:"stage_dir"`

	// EmbedDir is the Python binding's embedded-library directory. It also
	// receives a copy of every built artifact.
	EmbedDir string `yaml:"embed_dir"`

	// Compiler overrides the compiler driver chosen for the host platform.
	Compiler string `yaml:"compiler"`
}

// Default returns the configuration used when no config file is present.
func Default() Config {
	return Config{
		SourceDir: "native/src",
		BuildDir:  "build",
		StageDir:  path.Join("dist", "lib"),
		EmbedDir:  path.Join("python", "cobalt", "lib"),
	}
}

func getConfigDir() (string, error) {
	if nbtConfigDir := os.Getenv("NBT_CONFIG_DIR"); nbtConfigDir != "" {
		return nbtConfigDir, nil
	}

	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return path.Join(xdgConfigHome, "nbt"), nil
	}

	home, err := homedir.Dir()
	if err != nil {
		return "", err
	}
	return path.Join(home, ".config", "nbt"), nil
}

// Load returns the default configuration with any values from the user's
// config file layered on top.
func Load() Config {
	config := Default()

	configDir, err := getConfigDir()
	if err != nil {
		log.Debug("Unable to find the nbt config directory. Using the default configuration.\n")
		return config
	}

	configFilePath := path.Join(configDir, configFileName)
	data, err := os.ReadFile(configFilePath)
	if err != nil {
		log.Debug("No config file at `%s`. Using the default configuration.\n", configFilePath)
		return config
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		log.Warning("Ignoring malformed config file `%s`: %s.\n", configFilePath, err)
		return Default()
	}

	log.Debug("Loaded configuration from `%s`.\n", configFilePath)
	return config
}
