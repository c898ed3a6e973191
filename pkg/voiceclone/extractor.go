package voiceclone

import (
	"context"
	"log/slog"
	"math"
	"math/rand/v2"

	"github.com/kaiwachan/voiceforge/pkg/audio/melspec"
	"github.com/kaiwachan/voiceforge/pkg/audio/pitch"
	"github.com/kaiwachan/voiceforge/pkg/audio/wave"
)

// Embedder produces a speaker embedding for a waveform. Implementations
// wrap whatever model backend is available; the extractor falls back to a
// random placeholder when none is.
type Embedder interface {
	// Embed returns an embedding vector for the waveform.
	Embed(ctx context.Context, w wave.Waveform) ([]float32, error)

	// Dimension is the length of the vectors Embed returns.
	Dimension() int

	// Close releases model resources.
	Close() error
}

// ExtractorConfig tunes per-sample feature extraction.
type ExtractorConfig struct {
	// SampleRate is the rate extraction expects. Waveforms must already
	// be preprocessed to it.
	SampleRate int

	// EmbeddingDim is the fallback embedding length used when no
	// Embedder is configured.
	EmbeddingDim int

	// MinVoicedFraction is the voiced-frame share below which the
	// voicing decision is considered unreliable and every pitched frame
	// is used instead.
	MinVoicedFraction float64

	Pitch pitch.Config
	Mel   melspec.Config
}

func DefaultExtractorConfig() ExtractorConfig {
	return ExtractorConfig{
		SampleRate:        22050,
		EmbeddingDim:      192,
		MinVoicedFraction: 0.1,
		Pitch:             pitch.DefaultConfig(),
		Mel:               melspec.DefaultConfig(),
	}
}

// Extractor computes SampleFeatures from preprocessed waveforms.
type Extractor struct {
	cfg      ExtractorConfig
	tracker  *pitch.Tracker
	mel      *melspec.Extractor
	embedder Embedder
}

// NewExtractor builds an extractor. embedder may be nil, in which case
// each sample gets a random unit-vector embedding and is flagged as a
// fallback.
func NewExtractor(cfg ExtractorConfig, embedder Embedder) *Extractor {
	d := DefaultExtractorConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = d.SampleRate
	}
	if cfg.EmbeddingDim <= 0 {
		cfg.EmbeddingDim = d.EmbeddingDim
	}
	if cfg.MinVoicedFraction <= 0 {
		cfg.MinVoicedFraction = d.MinVoicedFraction
	}
	cfg.Pitch.SampleRate = cfg.SampleRate
	cfg.Mel.SampleRate = cfg.SampleRate
	return &Extractor{
		cfg:      cfg,
		tracker:  pitch.New(cfg.Pitch),
		mel:      melspec.New(cfg.Mel),
		embedder: embedder,
	}
}

// Extract computes features for one preprocessed waveform. sourcePath is
// recorded for provenance only. Extraction itself never fails for lack of
// voice content; degenerate audio yields zero pitch statistics and,
// without an embedder, a placeholder embedding.
func (e *Extractor) Extract(ctx context.Context, w wave.Waveform, sourcePath string) (*SampleFeatures, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	f0, voiced := e.tracker.Track(w.Samples)
	values := voicedValues(f0, voiced, e.cfg.MinVoicedFraction)

	feat := &SampleFeatures{
		SourcePath: sourcePath,
		F0Values:   values,
		Voiced:     voiced,
		MelSpec:    e.mel.Extract(w.Samples),
		Duration:   w.Duration().Seconds(),
	}
	// A sample with no pitched frames keeps F0Mean = 0, the unvoiced
	// sentinel; the aggregator substitutes profile-level defaults.
	if len(values) > 0 {
		feat.F0Mean, feat.F0Std = meanStd(values)
	}

	feat.Embedding, feat.EmbeddingFallback = e.embed(ctx, w)
	if feat.EmbeddingFallback {
		slog.Warn("using fallback speaker embedding", "source", sourcePath)
	}
	return feat, nil
}

func (e *Extractor) embed(ctx context.Context, w wave.Waveform) ([]float32, bool) {
	if e.embedder != nil {
		emb, err := e.embedder.Embed(ctx, w)
		if err == nil && len(emb) > 0 {
			return emb, false
		}
		if err != nil {
			slog.Warn("speaker embedding failed", "error", err)
		}
	}
	return randomUnitVector(e.embedderDim()), true
}

func (e *Extractor) embedderDim() int {
	if e.embedder != nil {
		if d := e.embedder.Dimension(); d > 0 {
			return d
		}
	}
	return e.cfg.EmbeddingDim
}

// voicedValues selects the pitch values to summarize. When the voicing
// detector marks fewer than minFraction of the frames as voiced its
// decision is ignored and every frame with a pitch estimate counts.
func voicedValues(f0 []float64, voiced []bool, minFraction float64) []float64 {
	if len(f0) == 0 {
		return nil
	}
	n := 0
	for _, v := range voiced {
		if v {
			n++
		}
	}
	useAll := float64(n) < minFraction*float64(len(f0))

	values := make([]float64, 0, len(f0))
	for i, v := range f0 {
		if v <= 0 {
			continue
		}
		if useAll || voiced[i] {
			values = append(values, v)
		}
	}
	return values
}

func meanStd(values []float64) (mean, std float64) {
	for _, v := range values {
		mean += v
	}
	mean /= float64(len(values))
	for _, v := range values {
		d := v - mean
		std += d * d
	}
	return mean, math.Sqrt(std / float64(len(values)))
}

func randomUnitVector(dim int) []float32 {
	v := make([]float32, dim)
	norm := 0.0
	for i := range v {
		x := rand.NormFloat64()
		v[i] = float32(x)
		norm += x * x
	}
	norm = math.Sqrt(norm)
	if norm == 0 {
		v[0] = 1
		return v
	}
	for i := range v {
		v[i] = float32(float64(v[i]) / norm)
	}
	return v
}
