package cli

import (
	"os"
	"path/filepath"
)

// DefaultBaseDir is the base directory name under the user's home.
const DefaultBaseDir = ".voiceforge"

// DefaultConfigFile is the default configuration filename.
const DefaultConfigFile = "config.yaml"

// Paths provides access to the voiceforge directory layout.
type Paths struct {
	// HomeDir is the user's home directory.
	HomeDir string
}

// NewPaths resolves the user's home directory.
func NewPaths() (*Paths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return nil, err
	}
	return &Paths{HomeDir: home}, nil
}

// BaseDir returns the base directory (~/.voiceforge).
func (p *Paths) BaseDir() string {
	return filepath.Join(p.HomeDir, DefaultBaseDir)
}

// ConfigFile returns the config file path (~/.voiceforge/config.yaml).
func (p *Paths) ConfigFile() string {
	return filepath.Join(p.BaseDir(), DefaultConfigFile)
}

// ProfilesDir returns the default profile store root.
func (p *Paths) ProfilesDir() string {
	return filepath.Join(p.BaseDir(), "profiles")
}

// CacheDir returns the default feature cache directory.
func (p *Paths) CacheDir() string {
	return filepath.Join(p.BaseDir(), "cache")
}

// LogDir returns the log directory.
func (p *Paths) LogDir() string {
	return filepath.Join(p.BaseDir(), "logs")
}

// EnsureBaseDir creates the base directory if it doesn't exist.
func (p *Paths) EnsureBaseDir() error {
	return os.MkdirAll(p.BaseDir(), 0755)
}

// EnsureLogDir creates the log directory if it doesn't exist.
func (p *Paths) EnsureLogDir() error {
	return os.MkdirAll(p.LogDir(), 0755)
}
