package commands

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/kaiwachan/voiceforge/pkg/cli"
	"github.com/kaiwachan/voiceforge/pkg/kv"
	"github.com/kaiwachan/voiceforge/pkg/profilestore"
	"github.com/kaiwachan/voiceforge/pkg/voiceclone"
)

var (
	// Global flags
	configPath   string
	verbose      bool
	outputFormat string

	// Global configuration (loaded before any command runs)
	globalConfig *cli.Config
)

var rootCmd = &cobra.Command{
	Use:   "voiceforge",
	Short: "Build and manage voice profiles from speech recordings",
	Long: `voiceforge - turn speech recordings into durable voice profiles.

A profile aggregates pitch statistics, a spectral template, and a
speaker embedding from one or more WAV samples. Profiles are stored
under ~/.voiceforge/profiles by default, one directory per profile.

Examples:
  # Build a profile from three recordings
  voiceforge create "my voice" take1.wav take2.wav take3.wav

  # Inspect what is stored
  voiceforge list
  voiceforge info my_voice

  # Move a profile between machines
  voiceforge export my_voice my_voice.vfp
  voiceforge import my_voice.vfp`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		level := slog.LevelWarn
		if verbose {
			level = slog.LevelDebug
		}
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

		cfg, err := cli.LoadConfig(configPath)
		if err != nil {
			return err
		}
		globalConfig = cfg
		return nil
	},
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file (default ~/.voiceforge/config.yaml)")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "yaml", "output format (yaml, json)")
}

// openManager builds the full pipeline from the loaded config. The
// returned cleanup closes the cache; call it when the command is done.
func openManager() (*voiceclone.Manager, func(), error) {
	cfg := globalConfig

	store, err := profilestore.Open(cfg.ProfilesDir)
	if err != nil {
		return nil, nil, err
	}

	opts := []voiceclone.Option{
		voiceclone.WithWorkers(cfg.Workers),
		voiceclone.WithPreprocessConfig(voiceclone.PreprocessConfig{
			TargetRate:      cfg.SampleRate,
			TrimThresholdDB: cfg.TrimThresholdDB,
		}),
		voiceclone.WithExtractorConfig(extractorConfig(cfg)),
		voiceclone.WithAggregatorConfig(voiceclone.AggregatorConfig{
			MelTemplateFrames: cfg.MelTemplateFrames,
			ReservoirCap:      cfg.ReservoirCap,
		}),
	}

	if !cfg.DisableCache {
		kvStore, err := kv.NewBadger(kv.BadgerOptions{Dir: cfg.CacheDir})
		if err != nil {
			// The cache is optional; a broken cache dir must not block
			// profile work.
			slog.Warn("feature cache unavailable", "dir", cfg.CacheDir, "error", err)
		} else {
			opts = append(opts, voiceclone.WithCache(voiceclone.NewFeatureCache(kvStore)))
		}
	}

	m := voiceclone.NewManager(store, opts...)
	return m, func() {
		if err := m.Close(); err != nil {
			slog.Warn("close manager", "error", err)
		}
	}, nil
}

func extractorConfig(cfg *cli.Config) voiceclone.ExtractorConfig {
	ec := voiceclone.DefaultExtractorConfig()
	ec.SampleRate = cfg.SampleRate
	ec.EmbeddingDim = cfg.EmbeddingDim
	return ec
}

func output(result any) error {
	return cli.Output(result, cli.OutputOptions{Format: cli.OutputFormat(outputFormat)})
}

func requireArgs(n int, use string) cobra.PositionalArgs {
	return func(cmd *cobra.Command, args []string) error {
		if len(args) < n {
			return fmt.Errorf("usage: %s", use)
		}
		return nil
	}
}
