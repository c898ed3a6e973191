package commands

import (
	"fmt"
	"runtime"

	"github.com/spf13/cobra"
)

// Version is set at build time via -ldflags.
var Version = "dev"

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("voiceforge %s\n", Version)
		if verbose {
			fmt.Printf("  go:     %s\n", runtime.Version())
			if globalConfig != nil {
				fmt.Printf("  config: %s\n", globalConfig.Path())
			}
		}
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
