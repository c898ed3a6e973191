package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/goccy/go-yaml"
)

// Config is the persisted configuration for the voiceforge CLI. Zero
// values mean "use the default"; Load fills them in, so callers never
// see an unset field.
type Config struct {
	// ProfilesDir is the profile store root.
	ProfilesDir string `yaml:"profiles_dir,omitempty"`

	// CacheDir is the on-disk feature cache location.
	CacheDir string `yaml:"cache_dir,omitempty"`

	// DisableCache turns off per-sample feature caching.
	DisableCache bool `yaml:"disable_cache,omitempty"`

	// Workers bounds concurrent sample processing. 0 means one per CPU.
	Workers int `yaml:"workers,omitempty"`

	// SampleRate is the canonical processing sample rate in Hz.
	SampleRate int `yaml:"sample_rate,omitempty"`

	// TrimThresholdDB controls edge silence trimming.
	TrimThresholdDB float64 `yaml:"trim_threshold_db,omitempty"`

	// EmbeddingDim is the fallback speaker embedding dimension.
	EmbeddingDim int `yaml:"embedding_dim,omitempty"`

	// MelTemplateFrames is the profile spectral template width.
	MelTemplateFrames int `yaml:"mel_template_frames,omitempty"`

	// ReservoirCap bounds the stored raw pitch reservoir.
	ReservoirCap int `yaml:"f0_reservoir_cap,omitempty"`

	// configPath is where the config was loaded from.
	configPath string
}

// DefaultConfig returns a config with every field set to its default,
// rooted under paths.
func DefaultConfig(paths *Paths) *Config {
	return &Config{
		ProfilesDir:       paths.ProfilesDir(),
		CacheDir:          paths.CacheDir(),
		Workers:           0,
		SampleRate:        22050,
		TrimThresholdDB:   20,
		EmbeddingDim:      192,
		MelTemplateFrames: 100,
		ReservoirCap:      1000,
		configPath:        paths.ConfigFile(),
	}
}

// LoadConfig reads the config file at path, or the default location when
// path is empty. A missing file yields the defaults. Unset fields are
// filled with defaults so the result is always complete.
func LoadConfig(path string) (*Config, error) {
	paths, err := NewPaths()
	if err != nil {
		return nil, fmt.Errorf("cli: resolve home: %w", err)
	}
	if path == "" {
		path = paths.ConfigFile()
	}

	cfg := DefaultConfig(paths)
	cfg.configPath = path

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("cli: read config: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("cli: parse config %s: %w", path, err)
	}
	cfg.applyDefaults(paths)
	return cfg, nil
}

func (c *Config) applyDefaults(paths *Paths) {
	d := DefaultConfig(paths)
	if c.ProfilesDir == "" {
		c.ProfilesDir = d.ProfilesDir
	}
	if c.CacheDir == "" {
		c.CacheDir = d.CacheDir
	}
	if c.SampleRate <= 0 {
		c.SampleRate = d.SampleRate
	}
	if c.TrimThresholdDB <= 0 {
		c.TrimThresholdDB = d.TrimThresholdDB
	}
	if c.EmbeddingDim <= 0 {
		c.EmbeddingDim = d.EmbeddingDim
	}
	if c.MelTemplateFrames <= 0 {
		c.MelTemplateFrames = d.MelTemplateFrames
	}
	if c.ReservoirCap <= 0 {
		c.ReservoirCap = d.ReservoirCap
	}
}

// Path returns where the config was loaded from.
func (c *Config) Path() string { return c.configPath }

// Save writes the config back to its path, creating parent directories
// as needed.
func (c *Config) Save() error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("cli: marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.configPath), 0755); err != nil {
		return fmt.Errorf("cli: create config dir: %w", err)
	}
	if err := os.WriteFile(c.configPath, data, 0600); err != nil {
		return fmt.Errorf("cli: write config: %w", err)
	}
	return nil
}
