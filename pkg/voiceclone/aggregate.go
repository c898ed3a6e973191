package voiceclone

import (
	"log/slog"
	"math"

	"github.com/kaiwachan/voiceforge/pkg/profilestore"
)

// AggregatorConfig tunes how per-sample features merge into one profile.
type AggregatorConfig struct {
	// WeightFloor is the minimum weight any sample gets, so a sample
	// with flat or missing pitch still contributes.
	WeightFloor float64

	// DefaultF0Mean and DefaultF0Std fill the profile's pitch stats
	// when no sample contributed any voiced pitch values.
	DefaultF0Mean float64
	DefaultF0Std  float64

	// NumMels is the mel bin count of the profile's spectral template,
	// used when no sample contributed a spectrogram.
	NumMels int

	// MelTemplateFrames is the fixed frame count of the profile's
	// spectral template.
	MelTemplateFrames int

	// ReservoirCap bounds the stored raw pitch reservoir. Values are
	// kept in input order; once full the rest are dropped.
	ReservoirCap int
}

func DefaultAggregatorConfig() AggregatorConfig {
	return AggregatorConfig{
		WeightFloor:       1.0,
		DefaultF0Mean:     110.0,
		DefaultF0Std:      20.0,
		NumMels:           80,
		MelTemplateFrames: 100,
		ReservoirCap:      1000,
	}
}

// Aggregator merges the features of several samples into profile-level
// fields, weighting each sample's embedding by its mean pitch.
type Aggregator struct {
	cfg AggregatorConfig
}

func NewAggregator(cfg AggregatorConfig) *Aggregator {
	d := DefaultAggregatorConfig()
	if cfg.WeightFloor <= 0 {
		cfg.WeightFloor = d.WeightFloor
	}
	if cfg.DefaultF0Mean <= 0 {
		cfg.DefaultF0Mean = d.DefaultF0Mean
	}
	if cfg.DefaultF0Std <= 0 {
		cfg.DefaultF0Std = d.DefaultF0Std
	}
	if cfg.NumMels <= 0 {
		cfg.NumMels = d.NumMels
	}
	if cfg.MelTemplateFrames <= 0 {
		cfg.MelTemplateFrames = d.MelTemplateFrames
	}
	if cfg.ReservoirCap <= 0 {
		cfg.ReservoirCap = d.ReservoirCap
	}
	return &Aggregator{cfg: cfg}
}

// Aggregate merges features into the numeric fields of a profile. Nil
// entries are ignored. Returns ErrNoValidFeatures when nothing usable
// remains and ErrNoValidEmbeddings when no sample carried an embedding.
//
// The embedding is a weighted average renormalized to unit length,
// weight being each sample's mean pitch clamped to the floor. Pitch
// statistics average the voiced contributors' per-sample statistics; the
// raw pitch values are pooled into a reservoir capped in input order.
// The mel template is the per-bin mean over all samples' frame-averaged
// spectra, broadcast to a fixed frame count.
func (a *Aggregator) Aggregate(features []*SampleFeatures) (*profilestore.Profile, error) {
	valid := make([]*SampleFeatures, 0, len(features))
	for _, f := range features {
		if f != nil {
			valid = append(valid, f)
		}
	}
	if len(valid) == 0 {
		return nil, ErrNoValidFeatures
	}

	emb := a.mergeEmbeddings(valid)
	if emb == nil {
		return nil, ErrNoValidEmbeddings
	}

	p := &profilestore.Profile{
		Embedding:   emb,
		F0Samples:   a.poolF0(valid),
		MelSpecMean: a.melTemplate(valid),
		SampleCount: len(valid),
	}
	p.F0Stats.Mean, p.F0Stats.Std = a.f0Stats(valid)
	return p, nil
}

// f0Stats averages the pitch statistics of the voiced contributors. A
// zero F0Mean marks an unvoiced sample and is excluded; with no voiced
// contributor at all the defaults stand in.
func (a *Aggregator) f0Stats(features []*SampleFeatures) (mean, std float64) {
	n := 0
	for _, f := range features {
		if f.F0Mean > 0 {
			mean += f.F0Mean
			std += f.F0Std
			n++
		}
	}
	if n == 0 {
		return a.cfg.DefaultF0Mean, a.cfg.DefaultF0Std
	}
	return mean / float64(n), std / float64(n)
}

func (a *Aggregator) mergeEmbeddings(features []*SampleFeatures) []float32 {
	dim := 0
	for _, f := range features {
		if len(f.Embedding) > 0 {
			dim = len(f.Embedding)
			break
		}
	}
	if dim == 0 {
		return nil
	}

	weights := make([]float64, len(features))
	total := 0.0
	for i, f := range features {
		w := math.Max(f.F0Mean, a.cfg.WeightFloor)
		weights[i] = w
		total += w
	}

	sum := make([]float64, dim)
	for i, f := range features {
		if len(f.Embedding) != dim {
			if len(f.Embedding) != 0 {
				slog.Warn("skipping embedding with mismatched dimension",
					"source", f.SourcePath, "dim", len(f.Embedding), "want", dim)
			}
			continue
		}
		w := weights[i] / total
		for j, v := range f.Embedding {
			sum[j] += w * float64(v)
		}
	}

	norm := 0.0
	for _, v := range sum {
		norm += v * v
	}
	norm = math.Sqrt(norm)

	out := make([]float32, dim)
	if norm == 0 {
		// Degenerate inputs cancel out. Keep the zero vector so callers
		// can tell there is no usable voice signature.
		return out
	}
	for j, v := range sum {
		out[j] = float32(v / norm)
	}
	return out
}

func (a *Aggregator) poolF0(features []*SampleFeatures) []float64 {
	pool := make([]float64, 0, a.cfg.ReservoirCap)
	for _, f := range features {
		for _, v := range f.F0Values {
			if len(pool) == a.cfg.ReservoirCap {
				return pool
			}
			pool = append(pool, v)
		}
	}
	return pool
}

// melTemplate averages each sample's spectrogram over time, averages
// those vectors across samples, and broadcasts the result to the
// template width. Samples with a different mel bin count are skipped.
// With no spectral data at all the template is the all-zero matrix of
// the canonical shape, so the persisted contract always has one.
func (a *Aggregator) melTemplate(features []*SampleFeatures) [][]float32 {
	numMels := 0
	for _, f := range features {
		if len(f.MelSpec) > 0 {
			numMels = len(f.MelSpec)
			break
		}
	}
	if numMels == 0 {
		return zeroMatrix(a.cfg.NumMels, a.cfg.MelTemplateFrames)
	}

	acc := make([]float64, numMels)
	n := 0
	for _, f := range features {
		if len(f.MelSpec) != numMels {
			if len(f.MelSpec) != 0 {
				slog.Warn("skipping spectrogram with mismatched mel bins",
					"source", f.SourcePath, "bins", len(f.MelSpec), "want", numMels)
			}
			continue
		}
		for b, row := range f.MelSpec {
			if len(row) == 0 {
				continue
			}
			sum := 0.0
			for _, v := range row {
				sum += float64(v)
			}
			acc[b] += sum / float64(len(row))
		}
		n++
	}
	if n == 0 {
		return zeroMatrix(a.cfg.NumMels, a.cfg.MelTemplateFrames)
	}

	tmpl := make([][]float32, numMels)
	for b := range tmpl {
		mean := float32(acc[b] / float64(n))
		row := make([]float32, a.cfg.MelTemplateFrames)
		for t := range row {
			row[t] = mean
		}
		tmpl[b] = row
	}
	return tmpl
}

func zeroMatrix(rows, cols int) [][]float32 {
	m := make([][]float32, rows)
	for i := range m {
		m[i] = make([]float32, cols)
	}
	return m
}
