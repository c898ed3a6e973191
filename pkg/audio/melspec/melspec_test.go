package melspec

import (
	"math"
	"testing"
)

func sine(freq float64, rate, n int) []float32 {
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return samples
}

func TestExtractShape(t *testing.T) {
	e := New(DefaultConfig())
	pcm := sine(440, 22050, 22050) // 1 second

	spec := e.Extract(pcm)
	if len(spec) != 80 {
		t.Fatalf("mel bins = %d, want 80", len(spec))
	}

	wantFrames := (22050-512)/256 + 1
	for m, row := range spec {
		if len(row) != wantFrames {
			t.Fatalf("bin %d: frames = %d, want %d", m, len(row), wantFrames)
		}
	}
}

func TestExtractTooShort(t *testing.T) {
	e := New(DefaultConfig())
	if spec := e.Extract(make([]float32, 100)); spec != nil {
		t.Fatalf("expected nil for input shorter than one window, got %d bins", len(spec))
	}
}

func TestExtractEnergyConcentration(t *testing.T) {
	// A 1 kHz tone should put its peak energy in the mel bin covering 1 kHz,
	// not in the highest bins.
	e := New(DefaultConfig())
	pcm := sine(1000, 22050, 22050)
	spec := e.Extract(pcm)

	// Mean energy per bin.
	binMean := make([]float64, len(spec))
	for m, row := range spec {
		var sum float64
		for _, v := range row {
			sum += float64(v)
		}
		binMean[m] = sum / float64(len(row))
	}

	peak := 0
	for m, v := range binMean {
		if v > binMean[peak] {
			peak = m
		}
	}

	// 1 kHz ≈ mel 1000; with 80 bins over 0..11025 Hz the peak should fall
	// in the lower third of the bins.
	if peak > len(spec)/3 {
		t.Errorf("energy peak at bin %d, expected in lower third for 1 kHz tone", peak)
	}
}

func TestDynamicRangeClamp(t *testing.T) {
	e := New(DefaultConfig())
	pcm := sine(440, 22050, 22050)
	spec := e.Extract(pcm)

	var maxV, minV float32 = spec[0][0], spec[0][0]
	for _, row := range spec {
		for _, v := range row {
			if v > maxV {
				maxV = v
			}
			if v < minV {
				minV = v
			}
		}
	}
	if float64(maxV-minV) > 80.0+1e-3 {
		t.Errorf("dynamic range %f dB exceeds TopDB 80", maxV-minV)
	}
}
