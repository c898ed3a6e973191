package voiceclone

import (
	"fmt"
	"os"
	"time"

	"github.com/vmihailenco/msgpack/v5"

	"github.com/kaiwachan/voiceforge/pkg/jsontime"
	"github.com/kaiwachan/voiceforge/pkg/profilestore"
)

// Export bundle schema version. Bump on incompatible changes; Import
// rejects versions it does not know.
const bundleVersion = 1

// profileBundle is the self-contained export form of a profile: the
// metadata and every sidecar array in one msgpack document.
type profileBundle struct {
	Version     int                  `msgpack:"version"`
	ID          string               `msgpack:"id"`
	Name        string               `msgpack:"name"`
	Embedding   []float32            `msgpack:"embedding"`
	F0Stats     profilestore.F0Stats `msgpack:"f0_stats"`
	F0Samples   []float64            `msgpack:"f0_samples"`
	MelSpecMean [][]float32          `msgpack:"mel_spec_mean"`
	SampleCount int                  `msgpack:"sample_count"`
	SampleFiles []string             `msgpack:"sample_files"`
	CreatedAt   int64                `msgpack:"created_at"`
}

// ExportProfile writes the profile as a single portable bundle file.
func (m *Manager) ExportProfile(id, path string) error {
	p, ok := m.store.Get(id)
	if !ok {
		return fmt.Errorf("%w: %s", ErrProfileNotFound, id)
	}
	b := profileBundle{
		Version:     bundleVersion,
		ID:          p.ID,
		Name:        p.Name,
		Embedding:   p.Embedding,
		F0Stats:     p.F0Stats,
		F0Samples:   p.F0Samples,
		MelSpecMean: p.MelSpecMean,
		SampleCount: p.SampleCount,
		SampleFiles: p.SampleFiles,
		CreatedAt:   p.CreatedAt.Time().Unix(),
	}
	raw, err := msgpack.Marshal(&b)
	if err != nil {
		return fmt.Errorf("voiceclone: encode bundle: %w", err)
	}
	if err := os.WriteFile(path, raw, 0o644); err != nil {
		return fmt.Errorf("voiceclone: write bundle: %w", err)
	}
	return nil
}

// ImportProfile reads a bundle file and stores it as a profile, returning
// the assigned ID. An existing profile with the same ID is replaced.
func (m *Manager) ImportProfile(path string) (string, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("voiceclone: read bundle: %w", err)
	}
	var b profileBundle
	if err := msgpack.Unmarshal(raw, &b); err != nil {
		return "", fmt.Errorf("voiceclone: decode bundle: %w", err)
	}
	if b.Version != bundleVersion {
		return "", fmt.Errorf("voiceclone: unsupported bundle version %d", b.Version)
	}
	if b.SampleCount < 1 {
		return "", fmt.Errorf("voiceclone: bundle has no samples")
	}

	p := &profilestore.Profile{
		Name:        b.Name,
		Embedding:   b.Embedding,
		F0Stats:     b.F0Stats,
		F0Samples:   b.F0Samples,
		MelSpecMean: b.MelSpecMean,
		SampleCount: b.SampleCount,
		SampleFiles: b.SampleFiles,
	}
	// Keep the original creation time; the store only re-stamps UpdatedAt.
	if b.CreatedAt > 0 {
		p.CreatedAt = jsontime.Unix(time.Unix(b.CreatedAt, 0))
	}
	id := b.ID
	if id == "" {
		id = b.Name
	}
	return m.store.Save(id, p)
}
