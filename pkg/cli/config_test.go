package cli

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadConfigMissingFileGivesDefaults(t *testing.T) {
	cfg, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	if err != nil {
		t.Fatal(err)
	}
	if cfg.SampleRate != 22050 {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
	if cfg.EmbeddingDim != 192 || cfg.MelTemplateFrames != 100 || cfg.ReservoirCap != 1000 {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.ProfilesDir == "" || cfg.CacheDir == "" {
		t.Error("directories not defaulted")
	}
}

func TestLoadConfigPartialFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	body := "profiles_dir: /tmp/voices\nworkers: 3\n"
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.ProfilesDir != "/tmp/voices" {
		t.Errorf("ProfilesDir = %q", cfg.ProfilesDir)
	}
	if cfg.Workers != 3 {
		t.Errorf("Workers = %d", cfg.Workers)
	}
	// Unset fields still get defaults.
	if cfg.SampleRate != 22050 {
		t.Errorf("SampleRate = %d", cfg.SampleRate)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("profiles_dir: [unclosed"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadConfig(path); err == nil {
		t.Error("expected parse error")
	}
}

func TestConfigSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.yaml")
	cfg, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	cfg.Workers = 7
	if err := cfg.Save(); err != nil {
		t.Fatal(err)
	}
	got, err := LoadConfig(path)
	if err != nil {
		t.Fatal(err)
	}
	if got.Workers != 7 {
		t.Errorf("Workers = %d after reload", got.Workers)
	}
}
