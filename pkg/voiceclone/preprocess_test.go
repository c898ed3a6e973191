package voiceclone

import (
	"math"
	"testing"

	"github.com/kaiwachan/voiceforge/pkg/audio/wave"
)

func TestPreprocessResamplesToTarget(t *testing.T) {
	p := NewPreprocessor(DefaultPreprocessConfig())
	out, err := p.Process(sineWave(440, 44100, 0.5))
	if err != nil {
		t.Fatal(err)
	}
	if out.SampleRate != 22050 {
		t.Errorf("SampleRate = %d, want 22050", out.SampleRate)
	}
	if len(out.Samples) == 0 {
		t.Fatal("empty output")
	}
}

func TestPreprocessTrimsEdgeSilence(t *testing.T) {
	p := NewPreprocessor(DefaultPreprocessConfig())
	rate := 22050
	tone := sineWave(220, rate, 0.5).Samples
	pad := make([]float32, rate/2)
	samples := append(append(append([]float32{}, pad...), tone...), pad...)

	out, err := p.Process(wave.Waveform{Samples: samples, SampleRate: rate})
	if err != nil {
		t.Fatal(err)
	}
	// Both half-second pads should be gone, within frame granularity.
	if len(out.Samples) > len(tone)+rate/50 {
		t.Errorf("len = %d, want about %d after trimming", len(out.Samples), len(tone))
	}
	if len(out.Samples) < len(tone)/2 {
		t.Errorf("len = %d, trimmed too much", len(out.Samples))
	}
}

func TestPreprocessPeakNormalizes(t *testing.T) {
	p := NewPreprocessor(DefaultPreprocessConfig())
	quiet := sineWave(220, 22050, 0.5)
	for i := range quiet.Samples {
		quiet.Samples[i] *= 0.1
	}
	out, err := p.Process(quiet)
	if err != nil {
		t.Fatal(err)
	}
	if peak := out.Peak(); math.Abs(float64(peak)-0.95) > 0.01 {
		t.Errorf("peak = %v, want ~0.95", peak)
	}
}

func TestPreprocessSilenceKeptWhole(t *testing.T) {
	p := NewPreprocessor(DefaultPreprocessConfig())
	n := 22050
	out, err := p.Process(wave.Waveform{Samples: make([]float32, n), SampleRate: 22050})
	if err != nil {
		t.Fatal(err)
	}
	// Pure silence must not collapse to an empty waveform.
	if len(out.Samples) != n {
		t.Errorf("len = %d, want %d", len(out.Samples), n)
	}
}
