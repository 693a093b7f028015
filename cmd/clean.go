package cmd

import (
	"os"

	"github.com/cobalt-data/nbt/config"
	"github.com/cobalt-data/nbt/log"

	"github.com/spf13/cobra"
)

var cleanCmd = &cobra.Command{
	Use:   "clean",
	Args:  cobra.NoArgs,
	Short: "Removes all intermediate build results",
	Long: `Removes all intermediate build results. The staging and embedded-library
directories are left untouched.`,
	Run: runClean,
}

func init() {
	rootCmd.AddCommand(cleanCmd)
}

func runClean(cmd *cobra.Command, args []string) {
	cfg := config.Load()
	log.Debug("Removing build directory '%s'.\n", cfg.BuildDir)
	os.RemoveAll(cfg.BuildDir)
}
