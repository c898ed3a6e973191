// Package wave decodes WAV files into normalized mono float32 waveforms.
//
// All downstream feature extraction operates on Waveform values: mono
// float32 samples in [-1, 1] plus a sample rate. Multi-channel input is
// downmixed by averaging channels at decode time.
package wave

import (
	"fmt"
	"io"
	"math"
	"os"
	"time"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// Waveform is a mono audio buffer with samples normalized to [-1, 1].
type Waveform struct {
	Samples    []float32
	SampleRate int
}

// Duration returns the waveform length as a time.Duration.
func (w Waveform) Duration() time.Duration {
	if w.SampleRate <= 0 {
		return 0
	}
	return time.Duration(float64(len(w.Samples)) / float64(w.SampleRate) * float64(time.Second))
}

// Peak returns the maximum absolute sample value.
func (w Waveform) Peak() float32 {
	var peak float32
	for _, s := range w.Samples {
		if s < 0 {
			s = -s
		}
		if s > peak {
			peak = s
		}
	}
	return peak
}

// Decode reads a WAV stream and returns a normalized mono waveform.
// Stereo and multi-channel input is downmixed by averaging.
func Decode(r io.ReadSeeker) (Waveform, error) {
	d := wav.NewDecoder(r)
	if !d.IsValidFile() {
		return Waveform{}, fmt.Errorf("wave: not a valid WAV stream")
	}

	buf, err := d.FullPCMBuffer()
	if err != nil {
		return Waveform{}, fmt.Errorf("wave: decode: %w", err)
	}
	if buf.Format == nil || buf.Format.SampleRate <= 0 {
		return Waveform{}, fmt.Errorf("wave: missing format header")
	}

	ch := buf.Format.NumChannels
	if ch <= 0 {
		ch = 1
	}

	// Scale factor for the source bit depth.
	depth := buf.SourceBitDepth
	if depth <= 0 {
		depth = int(d.BitDepth)
	}
	if depth <= 0 {
		depth = 16
	}
	scale := float32(math.Pow(2, float64(depth-1)))

	frames := len(buf.Data) / ch
	samples := make([]float32, frames)
	for i := 0; i < frames; i++ {
		var sum float32
		for c := 0; c < ch; c++ {
			sum += float32(buf.Data[i*ch+c]) / scale
		}
		samples[i] = sum / float32(ch)
	}

	return Waveform{
		Samples:    samples,
		SampleRate: buf.Format.SampleRate,
	}, nil
}

// DecodeFile reads a WAV file from disk.
func DecodeFile(path string) (Waveform, error) {
	f, err := os.Open(path)
	if err != nil {
		return Waveform{}, fmt.Errorf("wave: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the waveform as a 16-bit mono WAV stream. Samples outside
// [-1, 1] are clamped.
func Encode(w io.WriteSeeker, wf Waveform) error {
	enc := wav.NewEncoder(w, wf.SampleRate, 16, 1, 1)

	data := make([]int, len(wf.Samples))
	for i, s := range wf.Samples {
		if s > 1 {
			s = 1
		} else if s < -1 {
			s = -1
		}
		data[i] = int(s * 32767)
	}

	buf := &audio.IntBuffer{
		Data:           data,
		Format:         &audio.Format{SampleRate: wf.SampleRate, NumChannels: 1},
		SourceBitDepth: 16,
	}
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("wave: encode: %w", err)
	}
	return enc.Close()
}

// EncodeFile writes the waveform to a 16-bit mono WAV file.
func EncodeFile(path string, wf Waveform) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("wave: %w", err)
	}
	defer f.Close()
	return Encode(f, wf)
}
