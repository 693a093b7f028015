package cmd

import (
	"os"

	"github.com/cobalt-data/nbt/config"
	"github.com/cobalt-data/nbt/log"
	"github.com/cobalt-data/nbt/matrix"
	"github.com/cobalt-data/nbt/pipeline"

	"github.com/spf13/cobra"
)

var buildCmd = &cobra.Command{
	Use:   "build",
	Args:  cobra.NoArgs,
	Short: "Builds libcobalt for every target of the host platform",
	Long: `Builds libcobalt for every target of the host platform, in a fixed order:
release before debug, 64-bit before 32-bit. Each artifact is copied into the
packaging directory and the binding's embedded-library directory. The build
stops at the first failing target and exits with that step's exit code.`,
	Run: runBuildCmd,
}

var with32Bit bool

func init() {
	rootCmd.AddCommand(buildCmd)
	buildCmd.Flags().BoolVar(&with32Bit, "with-32bit", false, "Also build the 32-bit Linux targets")
}

func runBuildCmd(cmd *cobra.Command, args []string) {
	cfg := config.Load()

	host, err := matrix.DetectHost()
	if err != nil {
		log.Error("%s\n", err)
		os.Exit(1)
	}

	targets := matrix.Expand(cfg, host, with32Bit)
	log.Debug("Building %d targets on %s.\n", len(targets), host)

	runner := pipeline.NewRunner(cfg)
	runner.ShowSpinner = !log.Verbose

	if code := pipeline.Drive(runner, targets); code != 0 {
		os.Exit(code)
	}
}
