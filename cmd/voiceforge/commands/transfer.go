package commands

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaiwachan/voiceforge/pkg/cli"
)

var exportCmd = &cobra.Command{
	Use:   "export <id> <bundle file>",
	Short: "Write a profile as a portable bundle",
	Long:  "Export packs a profile's metadata and feature arrays into one file that import can load on another machine.",
	Args:  requireArgs(2, "export <id> <bundle file>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := m.ExportProfile(args[0], args[1]); err != nil {
			return err
		}
		size := ""
		if fi, err := os.Stat(args[1]); err == nil {
			size = " (" + cli.FormatBytes(fi.Size()) + ")"
		}
		fmt.Printf("exported %s to %s%s\n", args[0], args[1], size)
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <bundle file>",
	Short: "Load a profile from a bundle",
	Args:  requireArgs(1, "import <bundle file>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		id, err := m.ImportProfile(args[0])
		if err != nil {
			return err
		}
		fmt.Printf("imported profile %s\n", id)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
