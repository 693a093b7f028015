package cmd

import (
	"os"

	"github.com/cobalt-data/nbt/log"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "nbt",
	Short: "The native build tool for the Cobalt core library",
	Long: `The native build tool (nbt) compiles the libcobalt shared library for all
supported (platform, architecture, build type) combinations and stages the
artifacts for packaging and for the Python binding.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	rootCmd.PersistentFlags().BoolVarP(&log.Verbose, "verbose", "v", false, "Print debug output")
	if rootCmd.Execute() != nil {
		os.Exit(1)
	}
}
