package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var renameCmd = &cobra.Command{
	Use:   "rename <id> <new name>",
	Short: "Change a profile's display name",
	Long:  "Rename changes the display name only; the profile ID and its directory stay the same.",
	Args:  requireArgs(2, "rename <id> <new name>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if err := m.RenameProfile(args[0], args[1]); err != nil {
			return err
		}
		fmt.Printf("renamed %s to %q\n", args[0], args[1])
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Remove a profile",
	Args:  requireArgs(1, "delete <id>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		if m.DeleteProfile(args[0]) {
			fmt.Printf("deleted %s\n", args[0])
		} else {
			fmt.Printf("no profile %s\n", args[0])
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(renameCmd)
	rootCmd.AddCommand(deleteCmd)
}
