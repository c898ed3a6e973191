package voiceclone

import (
	"context"
	"errors"
	"math"
	"testing"

	"github.com/kaiwachan/voiceforge/pkg/audio/wave"
)

func sineWave(freq float64, rate int, seconds float64) wave.Waveform {
	n := int(float64(rate) * seconds)
	samples := make([]float32, n)
	for i := range samples {
		samples[i] = float32(0.5 * math.Sin(2*math.Pi*freq*float64(i)/float64(rate)))
	}
	return wave.Waveform{Samples: samples, SampleRate: rate}
}

type stubEmbedder struct {
	vec []float32
	err error
}

func (s *stubEmbedder) Embed(context.Context, wave.Waveform) ([]float32, error) {
	return s.vec, s.err
}
func (s *stubEmbedder) Dimension() int { return len(s.vec) }
func (s *stubEmbedder) Close() error   { return nil }

func TestExtractSineFeatures(t *testing.T) {
	ext := NewExtractor(DefaultExtractorConfig(), &stubEmbedder{vec: []float32{1, 0, 0}})
	w := sineWave(220, 22050, 1.0)

	feat, err := ext.Extract(context.Background(), w, "sine.wav")
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(feat.F0Mean-220)/220 > 0.05 {
		t.Errorf("F0Mean = %v, want ~220", feat.F0Mean)
	}
	if len(feat.F0Values) == 0 {
		t.Fatal("no voiced pitch values")
	}
	voicedFrames := 0
	for _, v := range feat.Voiced {
		if v {
			voicedFrames++
		}
	}
	if voicedFrames < len(feat.Voiced)/2 {
		t.Errorf("voiced frames = %d of %d, want majority for a steady tone", voicedFrames, len(feat.Voiced))
	}
	if len(feat.MelSpec) != 80 {
		t.Errorf("mel bins = %d, want 80", len(feat.MelSpec))
	}
	if feat.EmbeddingFallback {
		t.Error("EmbeddingFallback = true with working embedder")
	}
	if feat.Embedding[0] != 1 {
		t.Errorf("Embedding = %v, want stub vector", feat.Embedding)
	}
	if math.Abs(feat.Duration-1.0) > 1e-3 {
		t.Errorf("Duration = %v, want 1.0", feat.Duration)
	}
}

func TestExtractFallbackEmbedding(t *testing.T) {
	// No embedder at all.
	ext := NewExtractor(DefaultExtractorConfig(), nil)
	feat, err := ext.Extract(context.Background(), sineWave(150, 22050, 0.5), "x.wav")
	if err != nil {
		t.Fatal(err)
	}
	if !feat.EmbeddingFallback {
		t.Error("EmbeddingFallback = false without embedder")
	}
	if len(feat.Embedding) != 192 {
		t.Errorf("fallback dim = %d, want 192", len(feat.Embedding))
	}
	if got := norm32(feat.Embedding); math.Abs(got-1) > 1e-5 {
		t.Errorf("fallback norm = %v, want 1", got)
	}

	// Embedder that errors also falls back, at the embedder's dimension.
	ext = NewExtractor(DefaultExtractorConfig(), &stubEmbedder{vec: make([]float32, 64), err: errors.New("model offline")})
	feat, err = ext.Extract(context.Background(), sineWave(150, 22050, 0.5), "x.wav")
	if err != nil {
		t.Fatal(err)
	}
	if !feat.EmbeddingFallback || len(feat.Embedding) != 64 {
		t.Errorf("fallback = %v dim = %d, want true/64", feat.EmbeddingFallback, len(feat.Embedding))
	}
}

func TestExtractUnvoicedSentinel(t *testing.T) {
	ext := NewExtractor(DefaultExtractorConfig(), &stubEmbedder{vec: []float32{1}})
	// Silence has no pitch anywhere.
	w := wave.Waveform{Samples: make([]float32, 22050), SampleRate: 22050}
	feat, err := ext.Extract(context.Background(), w, "silence.wav")
	if err != nil {
		t.Fatal(err)
	}
	if len(feat.F0Values) != 0 {
		t.Errorf("F0Values = %d values, want none", len(feat.F0Values))
	}
	if feat.F0Mean != 0 || feat.F0Std != 0 {
		t.Errorf("stats = %v/%v, want zero unvoiced sentinel", feat.F0Mean, feat.F0Std)
	}
}

func TestExtractCancelled(t *testing.T) {
	ext := NewExtractor(DefaultExtractorConfig(), nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := ext.Extract(ctx, sineWave(150, 22050, 0.5), "x.wav"); !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestVoicedValuesLowConfidence(t *testing.T) {
	f0 := []float64{100, 110, 0, 120, 130, 140, 150, 160, 170, 180}
	voiced := make([]bool, 10)
	// Nothing voiced: the mask is unreliable, so every pitched frame counts.
	got := voicedValues(f0, voiced, 0.1)
	if len(got) != 9 {
		t.Errorf("len = %d, want 9 (zero-pitch frame excluded)", len(got))
	}
	// Plenty voiced: honor the mask.
	voiced[0], voiced[1] = true, true
	got = voicedValues(f0, voiced, 0.1)
	if len(got) != 2 || got[0] != 100 || got[1] != 110 {
		t.Errorf("got = %v, want [100 110]", got)
	}
}
