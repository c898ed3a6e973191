package commands

import (
	"github.com/spf13/cobra"
)

// profileView is the display form of a profile: metadata plus array
// shapes instead of raw arrays.
type profileView struct {
	ID           string   `json:"id" yaml:"id"`
	Name         string   `json:"name" yaml:"name"`
	SampleCount  int      `json:"sample_count" yaml:"sample_count"`
	SampleFiles  []string `json:"sample_files,omitempty" yaml:"sample_files,omitempty"`
	F0Mean       float64  `json:"f0_mean" yaml:"f0_mean"`
	F0Std        float64  `json:"f0_std" yaml:"f0_std"`
	F0Samples    int      `json:"f0_samples" yaml:"f0_samples"`
	EmbeddingDim int      `json:"embedding_dim" yaml:"embedding_dim"`
	MelBins      int      `json:"mel_bins" yaml:"mel_bins"`
	MelFrames    int      `json:"mel_frames" yaml:"mel_frames"`
	CreatedAt    string   `json:"created_at" yaml:"created_at"`
	UpdatedAt    string   `json:"updated_at" yaml:"updated_at"`
}

var infoCmd = &cobra.Command{
	Use:   "info <id>",
	Short: "Show one profile in detail",
	Args:  requireArgs(1, "info <id>"),
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()

		p, err := m.GetProfile(args[0])
		if err != nil {
			return err
		}

		view := profileView{
			ID:           p.ID,
			Name:         p.Name,
			SampleCount:  p.SampleCount,
			SampleFiles:  p.SampleFiles,
			F0Mean:       p.F0Stats.Mean,
			F0Std:        p.F0Stats.Std,
			F0Samples:    len(p.F0Samples),
			EmbeddingDim: len(p.Embedding),
			MelBins:      len(p.MelSpecMean),
			CreatedAt:    p.CreatedAt.String(),
			UpdatedAt:    p.UpdatedAt.String(),
		}
		if len(p.MelSpecMean) > 0 {
			view.MelFrames = len(p.MelSpecMean[0])
		}
		return output(view)
	},
}

var systemCmd = &cobra.Command{
	Use:   "system",
	Short: "Show store location and pipeline configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		m, cleanup, err := openManager()
		if err != nil {
			return err
		}
		defer cleanup()
		return output(m.SystemInfo())
	},
}

func init() {
	rootCmd.AddCommand(infoCmd)
	rootCmd.AddCommand(systemCmd)
}
