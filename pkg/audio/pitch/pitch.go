// Package pitch estimates fundamental frequency (F0) contours from mono
// float32 audio using the YIN algorithm.
//
// Each analysis frame yields one F0 estimate in Hz plus a voiced flag.
// Unvoiced frames (noise, silence, aperiodic content) report F0 = 0.
// The search range is bounded to [FMin, FMax]; the defaults cover C2 to C7,
// the useful range for human speech and singing.
package pitch

import "math"

// Config controls F0 estimation parameters.
type Config struct {
	SampleRate  int     // audio sample rate in Hz (default 22050)
	FrameLength int     // analysis frame length in samples (default 1024)
	HopLength   int     // hop between frames in samples (default 256)
	FMin        float64 // lowest detectable F0 in Hz (default 65.41, C2)
	FMax        float64 // highest detectable F0 in Hz (default 2093.0, C7)
	Threshold   float64 // YIN aperiodicity threshold (default 0.15)
}

// DefaultConfig returns the standard config for 22.05 kHz audio.
func DefaultConfig() Config {
	return Config{
		SampleRate:  22050,
		FrameLength: 1024,
		HopLength:   256,
		FMin:        65.41,  // C2
		FMax:        2093.0, // C7
		Threshold:   0.15,
	}
}

// Tracker estimates F0 contours frame by frame.
type Tracker struct {
	cfg Config
}

// New creates a Tracker with the given config. Zero-valued fields are
// replaced with defaults.
func New(cfg Config) *Tracker {
	def := DefaultConfig()
	if cfg.SampleRate <= 0 {
		cfg.SampleRate = def.SampleRate
	}
	if cfg.FrameLength <= 0 {
		cfg.FrameLength = def.FrameLength
	}
	if cfg.HopLength <= 0 {
		cfg.HopLength = def.HopLength
	}
	if cfg.FMin <= 0 {
		cfg.FMin = def.FMin
	}
	if cfg.FMax <= cfg.FMin {
		cfg.FMax = def.FMax
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	return &Tracker{cfg: cfg}
}

// Track estimates the F0 contour of pcm. It returns one F0 value (Hz) and
// one voiced flag per frame; unvoiced frames have F0 = 0. Both slices are
// nil if pcm is shorter than one frame.
func (t *Tracker) Track(pcm []float32) (f0 []float64, voiced []bool) {
	cfg := t.cfg
	n := len(pcm)
	if n < cfg.FrameLength {
		return nil, nil
	}

	// Lag search bounds from the frequency range.
	tauMin := int(float64(cfg.SampleRate) / cfg.FMax)
	if tauMin < 2 {
		tauMin = 2
	}
	tauMax := int(float64(cfg.SampleRate)/cfg.FMin) + 1
	if tauMax > cfg.FrameLength/2 {
		tauMax = cfg.FrameLength / 2
	}
	if tauMax <= tauMin {
		return nil, nil
	}

	numFrames := (n-cfg.FrameLength)/cfg.HopLength + 1
	f0 = make([]float64, numFrames)
	voiced = make([]bool, numFrames)

	diff := make([]float64, tauMax+1)
	cmndf := make([]float64, tauMax+1)

	for fr := 0; fr < numFrames; fr++ {
		frame := pcm[fr*cfg.HopLength : fr*cfg.HopLength+cfg.FrameLength]
		hz := yinFrame(frame, tauMin, tauMax, cfg.Threshold, cfg.SampleRate, diff, cmndf)
		if hz >= cfg.FMin && hz <= cfg.FMax {
			f0[fr] = hz
			voiced[fr] = true
		}
	}
	return f0, voiced
}

// yinFrame runs one YIN estimation step over a single frame and returns
// the detected F0 in Hz, or 0 if the frame is aperiodic.
func yinFrame(frame []float32, tauMin, tauMax int, threshold float64, sampleRate int, diff, cmndf []float64) float64 {
	w := len(frame) / 2

	// Difference function d(tau).
	for tau := 1; tau <= tauMax; tau++ {
		var sum float64
		for i := 0; i < w; i++ {
			d := float64(frame[i]) - float64(frame[i+tau])
			sum += d * d
		}
		diff[tau] = sum
	}

	// Cumulative mean normalized difference d'(tau).
	cmndf[0] = 1
	var running float64
	for tau := 1; tau <= tauMax; tau++ {
		running += diff[tau]
		if running == 0 {
			cmndf[tau] = 1
		} else {
			cmndf[tau] = diff[tau] * float64(tau) / running
		}
	}

	// First dip under the threshold, refined to its local minimum.
	tau := -1
	for i := tauMin; i <= tauMax; i++ {
		if cmndf[i] < threshold {
			for i+1 <= tauMax && cmndf[i+1] < cmndf[i] {
				i++
			}
			tau = i
			break
		}
	}
	if tau < 0 {
		return 0
	}

	// Parabolic interpolation around the minimum for sub-sample accuracy.
	better := float64(tau)
	if tau > tauMin && tau < tauMax {
		s0, s1, s2 := cmndf[tau-1], cmndf[tau], cmndf[tau+1]
		denom := 2 * (2*s1 - s2 - s0)
		if math.Abs(denom) > 1e-12 {
			better += (s2 - s0) / denom
		}
	}
	return float64(sampleRate) / better
}
