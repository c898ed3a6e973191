package voiceclone

import (
	"math"

	"github.com/kaiwachan/voiceforge/pkg/audio/resampler"
	"github.com/kaiwachan/voiceforge/pkg/audio/wave"
)

// PreprocessConfig controls waveform normalization ahead of feature
// extraction.
type PreprocessConfig struct {
	// TargetRate is the canonical sample rate every sample is brought
	// to before extraction.
	TargetRate int

	// TrimThresholdDB is how far below the peak a frame must be to
	// count as silence when trimming the edges.
	TrimThresholdDB float64

	// PeakTarget is the absolute peak the waveform is scaled to.
	PeakTarget float32
}

// DefaultPreprocessConfig matches the extraction pipeline's expectations.
func DefaultPreprocessConfig() PreprocessConfig {
	return PreprocessConfig{
		TargetRate:      22050,
		TrimThresholdDB: 20,
		PeakTarget:      0.95,
	}
}

// Preprocessor normalizes decoded waveforms: resample to the target
// rate, trim edge silence, and scale to a fixed peak.
type Preprocessor struct {
	cfg PreprocessConfig
}

func NewPreprocessor(cfg PreprocessConfig) *Preprocessor {
	if cfg.TargetRate <= 0 {
		cfg.TargetRate = 22050
	}
	if cfg.TrimThresholdDB <= 0 {
		cfg.TrimThresholdDB = 20
	}
	if cfg.PeakTarget <= 0 {
		cfg.PeakTarget = 0.95
	}
	return &Preprocessor{cfg: cfg}
}

// Process returns the normalized waveform. A waveform that is silent
// throughout is returned untrimmed rather than empty so downstream
// stages still see the original timeline.
func (p *Preprocessor) Process(w wave.Waveform) (wave.Waveform, error) {
	samples := w.Samples
	if w.SampleRate != p.cfg.TargetRate {
		out, err := resampler.Resample(samples, w.SampleRate, p.cfg.TargetRate)
		if err != nil {
			return wave.Waveform{}, err
		}
		samples = out
	}

	trimmed := trimSilence(samples, p.cfg.TrimThresholdDB, p.cfg.TargetRate)
	if len(trimmed) > 0 {
		samples = trimmed
	}

	peak := float32(0)
	for _, s := range samples {
		if a := float32(math.Abs(float64(s))); a > peak {
			peak = a
		}
	}
	if peak > 0 {
		scale := p.cfg.PeakTarget / peak
		scaled := make([]float32, len(samples))
		for i, s := range samples {
			scaled[i] = s * scale
		}
		samples = scaled
	}

	return wave.Waveform{Samples: samples, SampleRate: p.cfg.TargetRate}, nil
}

// trimSilence drops leading and trailing frames whose RMS energy sits
// more than thresholdDB below the loudest frame. Frame granularity is
// coarse on purpose; this trims room tone, not phonemes.
func trimSilence(samples []float32, thresholdDB float64, rate int) []float32 {
	frame := rate / 100 // 10 ms
	if frame <= 0 || len(samples) < frame {
		return samples
	}
	n := len(samples) / frame
	rms := make([]float64, n)
	maxRMS := 0.0
	for i := 0; i < n; i++ {
		sum := 0.0
		for _, s := range samples[i*frame : (i+1)*frame] {
			sum += float64(s) * float64(s)
		}
		rms[i] = math.Sqrt(sum / float64(frame))
		if rms[i] > maxRMS {
			maxRMS = rms[i]
		}
	}
	if maxRMS == 0 {
		return nil
	}
	floor := maxRMS * math.Pow(10, -thresholdDB/20)

	start, end := 0, n-1
	for start < n && rms[start] < floor {
		start++
	}
	for end >= start && rms[end] < floor {
		end--
	}
	if start > end {
		return nil
	}
	return samples[start*frame : (end+1)*frame]
}
