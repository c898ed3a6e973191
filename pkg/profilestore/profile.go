// Package profilestore owns the durable representation of voice profiles.
//
// # Layout
//
// Each profile is one directory under the store root:
//
//	root/{id}/metadata.json          (name, stats, counts, timestamps)
//	root/{id}/speaker_embedding.vec  (float32 vector sidecar)
//	root/{id}/f0_samples.vec         (float64 vector sidecar)
//	root/{id}/mel_spec_mean.vec      (float32 matrix sidecar)
//
// The sidecar file names and the metadata schema are a persisted contract:
// other processes and later restarts depend on them. Numeric sidecars are
// optional at load time: a missing sidecar leaves the corresponding field
// at its zero value, it is not an error. A directory without metadata.json
// is skipped with a warning.
//
// # Write discipline
//
// Saves are staged into a hidden temporary directory and promoted with a
// rename, so a crash mid-write never leaves a partially written profile
// visible. The in-memory index is only updated after the promote succeeds,
// keeping memory and disk consistent.
package profilestore

import (
	"github.com/kaiwachan/voiceforge/pkg/jsontime"
)

// Metadata and sidecar file names. Stable on-disk contract.
const (
	MetadataFile  = "metadata.json"
	EmbeddingFile = "speaker_embedding.vec"
	F0SamplesFile = "f0_samples.vec"
	MelSpecFile   = "mel_spec_mean.vec"
)

// F0Stats holds aggregate pitch statistics in Hz.
type F0Stats struct {
	Mean float64 `json:"mean"`
	Std  float64 `json:"std"`
}

// Profile is a durable, named aggregation of one or more voice samples'
// features. The numeric arrays (Embedding, F0Samples, MelSpecMean) are
// persisted as binary sidecars; everything else lands in metadata.json.
//
// Invariants: Embedding is unit-norm, or the zero vector when every
// contributing sample was degenerate (callers must treat that as "no
// usable voice signature"). SampleCount >= 1 for any persisted profile.
// ID is stable once assigned; Rename changes Name only.
type Profile struct {
	// ID is the filesystem-safe profile identifier, equal to the
	// directory name. Derived from the directory at load time.
	ID string `json:"-"`

	// Name is the display name, mutable independent of ID.
	Name string `json:"name"`

	// Embedding is the aggregated speaker embedding (unit-norm or zero).
	Embedding []float32 `json:"-"`

	// F0Stats are the aggregate pitch statistics.
	F0Stats F0Stats `json:"f0_stats"`

	// MelSpecMean is a fixed-length spectral template [numMels][frames].
	MelSpecMean [][]float32 `json:"-"`

	// F0Samples is a bounded reservoir of raw voiced pitch values.
	F0Samples []float64 `json:"-"`

	// SampleCount is the number of samples that contributed features.
	SampleCount int `json:"sample_count"`

	// SampleFiles lists the source file names, for display only.
	SampleFiles []string `json:"sample_files,omitempty"`

	CreatedAt jsontime.Unix `json:"created_at"`
	UpdatedAt jsontime.Unix `json:"updated_at"`
}

// clone returns a shallow copy of the profile. The numeric slices are
// shared; callers must treat them as read-only.
func (p *Profile) clone() *Profile {
	cp := *p
	return &cp
}
