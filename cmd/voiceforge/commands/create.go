package commands

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/kaiwachan/voiceforge/pkg/cli"
)

var createCmd = &cobra.Command{
	Use:   "create <name> <sample.wav> [more.wav ...]",
	Short: "Build a voice profile from sample recordings",
	Long: `Create extracts pitch, spectral, and speaker-embedding features from
each WAV sample, merges them, and stores the result as a named profile.
Samples that cannot be read or processed are skipped with a warning; the
profile is created as long as at least one sample works.`,
	Args: requireArgs(2, "create <name> <sample.wav> [more.wav ...]"),
	RunE: func(cmd *cobra.Command, args []string) error {
		name, samples := args[0], args[1:]

		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		start := time.Now()
		p, err := m.CreateProfile(cmd.Context(), name, samples,
			func(cur, total int, msg string) bool {
				fmt.Fprintf(os.Stderr, "%s\n", cli.StyleDim.Render(fmt.Sprintf("[%d/%d] %s", cur, total, msg)))
				return true
			})
		if err != nil {
			return err
		}

		if p.SampleCount < len(samples) {
			fmt.Fprintln(os.Stderr, cli.StyleWarn.Render(
				fmt.Sprintf("warning: only %d of %d samples were usable", p.SampleCount, len(samples))))
		}
		fmt.Printf("created profile %s (%d samples, %s)\n",
			cli.StyleID.Render(p.ID), p.SampleCount, cli.FormatDuration(time.Since(start)))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(createCmd)
}
