// Package cli provides common utilities for the voiceforge command-line
// tool: configuration loading, directory layout, and output formatting.
//
// Configuration and data live under ~/.voiceforge/ by default. The config
// file is YAML; every field has a working default, so a missing file is
// not an error.
package cli
