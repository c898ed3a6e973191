package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/kaiwachan/voiceforge/pkg/cli"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored profiles",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		ids := m.ProfileIDs()
		if len(ids) == 0 {
			fmt.Println("no profiles")
			return nil
		}

		fmt.Println(cli.StyleTitle.Render("PROFILES"))
		for _, id := range ids {
			p, err := m.GetProfile(id)
			if err != nil {
				continue
			}
			detail := fmt.Sprintf("%d samples, f0 %.0f Hz, created %s",
				p.SampleCount, p.F0Stats.Mean, p.CreatedAt.Time().Format("2006-01-02"))
			name := ""
			if p.Name != id {
				name = fmt.Sprintf(" (%s)", p.Name)
			}
			fmt.Printf("  %s%s  %s\n", cli.StyleID.Render(id), name, cli.StyleDim.Render(detail))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(listCmd)
}
