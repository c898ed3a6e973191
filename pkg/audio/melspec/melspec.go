// Package melspec computes log-power mel spectrograms from mono float32
// audio.
//
// The output is a [numMels][numFrames] matrix in decibels, the
// time-frequency representation consumed by voice-profile aggregation.
// Bins-major layout keeps per-bin reductions (frequency-axis profiles)
// cache-friendly.
//
// Default parameters match the profile engine's front-end convention:
//
//	SampleRate: 22050
//	FFTSize:    1024
//	WindowSize: 512
//	HopSize:    256
//	NumMels:    80
//	TopDB:      80
package melspec

import (
	"math"
)

// Config controls mel spectrogram extraction parameters.
type Config struct {
	SampleRate int     // audio sample rate in Hz (default 22050)
	FFTSize    int     // FFT size (default 1024)
	WindowSize int     // analysis window length in samples (default 512)
	HopSize    int     // hop length in samples (default 256)
	NumMels    int     // number of mel bins (default 80)
	FMin       float64 // lowest mel frequency in Hz (default 0)
	FMax       float64 // highest mel frequency in Hz (default SampleRate/2)
	TopDB      float64 // dynamic range floor below the peak in dB (default 80)
}

// DefaultConfig returns the standard config for 22.05 kHz audio.
func DefaultConfig() Config {
	return Config{
		SampleRate: 22050,
		FFTSize:    1024,
		WindowSize: 512,
		HopSize:    256,
		NumMels:    80,
		FMin:       0,
		FMax:       0, // resolved to SampleRate/2 in New
		TopDB:      80,
	}
}

// Extractor computes log-power mel spectrograms.
type Extractor struct {
	cfg     Config
	window  []float64 // Hann window
	melBank [][]float64
}

// New creates an Extractor with the given config. Zero-valued fields are
// replaced with defaults.
func New(cfg Config) *Extractor {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.FFTSize <= 0 {
		cfg.FFTSize = def.FFTSize
	}
	if cfg.WindowSize <= 0 || cfg.WindowSize > cfg.FFTSize {
		cfg.WindowSize = cfg.FFTSize / 2
	}
	if cfg.HopSize <= 0 {
		cfg.HopSize = cfg.WindowSize / 2
	}
	if cfg.NumMels <= 0 {
		cfg.NumMels = def.NumMels
	}
	if cfg.FMax <= 0 || cfg.FMax > float64(cfg.SampleRate)/2 {
		cfg.FMax = float64(cfg.SampleRate) / 2
	}
	if cfg.TopDB <= 0 {
		cfg.TopDB = def.TopDB
	}

	return &Extractor{
		cfg:     cfg,
		window:  hannWindow(cfg.WindowSize),
		melBank: melFilterBank(cfg.NumMels, cfg.FFTSize, cfg.SampleRate, cfg.FMin, cfg.FMax),
	}
}

// NumMels returns the number of mel bins in the output.
func (e *Extractor) NumMels() int { return e.cfg.NumMels }

// Extract computes the log-power mel spectrogram of pcm.
//
// Input: normalized float32 samples in [-1, 1].
// Output: [numMels][numFrames] float32 matrix in dB, floored at
// max - TopDB. Returns nil if pcm is shorter than one window.
func (e *Extractor) Extract(pcm []float32) [][]float32 {
	cfg := e.cfg
	n := len(pcm)
	if n < cfg.WindowSize {
		return nil
	}

	numFrames := (n-cfg.WindowSize)/cfg.HopSize + 1
	nfft := cfg.FFTSize
	halfFFT := nfft/2 + 1

	out := make([][]float32, cfg.NumMels)
	for m := range out {
		out[m] = make([]float32, numFrames)
	}

	re := make([]float64, nfft)
	im := make([]float64, nfft)
	power := make([]float64, halfFFT)

	maxDB := math.Inf(-1)
	for t := 0; t < numFrames; t++ {
		start := t * cfg.HopSize

		// Window and zero-pad up to the FFT size.
		for i := 0; i < cfg.WindowSize; i++ {
			re[i] = float64(pcm[start+i]) * e.window[i]
		}
		for i := cfg.WindowSize; i < nfft; i++ {
			re[i] = 0
		}
		for i := range im {
			im[i] = 0
		}
		fft(re, im)

		for k := 0; k < halfFFT; k++ {
			power[k] = re[k]*re[k] + im[k]*im[k]
		}

		for m := 0; m < cfg.NumMels; m++ {
			var sum float64
			for k, w := range e.melBank[m] {
				sum += w * power[k]
			}
			if sum < 1e-10 {
				sum = 1e-10
			}
			db := 10 * math.Log10(sum)
			if db > maxDB {
				maxDB = db
			}
			out[m][t] = float32(db)
		}
	}

	// Clamp the dynamic range relative to the peak.
	floor := float32(maxDB - cfg.TopDB)
	for m := range out {
		for t := range out[m] {
			if out[m][t] < floor {
				out[m][t] = floor
			}
		}
	}

	return out
}

// hannWindow generates a Hann window of the given length.
func hannWindow(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 0.5 * (1 - math.Cos(2*math.Pi*float64(i)/float64(n-1)))
	}
	return w
}
