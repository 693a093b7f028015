package cmd

import (
	"fmt"
	"os"

	"github.com/cobalt-data/nbt/config"
	"github.com/cobalt-data/nbt/log"
	"github.com/cobalt-data/nbt/matrix"

	"github.com/spf13/cobra"
)

var targetsCmd = &cobra.Command{
	Use:   "targets",
	Args:  cobra.NoArgs,
	Short: "Prints the build matrix in execution order",
	Long:  `Prints the build matrix in execution order, without building anything.`,
	Run:   runTargets,
}

var targets32Bit bool

func init() {
	rootCmd.AddCommand(targetsCmd)
	targetsCmd.Flags().BoolVar(&targets32Bit, "with-32bit", false, "Also list the 32-bit Linux targets")
}

func runTargets(cmd *cobra.Command, args []string) {
	host, err := matrix.DetectHost()
	if err != nil {
		log.Error("%s\n", err)
		os.Exit(1)
	}

	for _, target := range matrix.Expand(config.Load(), host, targets32Bit) {
		fmt.Printf("  %-24s %s\n", target.OutputFileName, target.Name())
	}
}
