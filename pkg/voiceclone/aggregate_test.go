package voiceclone

import (
	"errors"
	"math"
	"testing"
)

func unitVec(dim, hot int) []float32 {
	v := make([]float32, dim)
	v[hot] = 1
	return v
}

func norm32(v []float32) float64 {
	sum := 0.0
	for _, x := range v {
		sum += float64(x) * float64(x)
	}
	return math.Sqrt(sum)
}

func TestAggregateEmbeddingUnitNorm(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	feats := []*SampleFeatures{
		{F0Mean: 120, Embedding: []float32{0.6, 0.8}},
		{F0Mean: 180, Embedding: []float32{0.8, 0.6}},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if got := norm32(p.Embedding); math.Abs(got-1) > 1e-6 {
		t.Errorf("embedding norm = %v, want 1", got)
	}
	if p.SampleCount != 2 {
		t.Errorf("SampleCount = %d, want 2", p.SampleCount)
	}
}

func TestAggregateHigherPitchDominates(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	// Orthogonal embeddings; the louder-pitched sample should pull the
	// merged vector toward its axis.
	feats := []*SampleFeatures{
		{F0Mean: 300, Embedding: unitVec(4, 0)},
		{F0Mean: 100, Embedding: unitVec(4, 1)},
		{F0Mean: 100, Embedding: unitVec(4, 2)},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if p.Embedding[0] <= p.Embedding[1] || p.Embedding[0] <= p.Embedding[2] {
		t.Errorf("embedding = %v, want component 0 dominant", p.Embedding)
	}
}

func TestAggregateWeightFloor(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	// A sample with zero pitch still contributes at the floor weight.
	feats := []*SampleFeatures{
		{F0Mean: 0, Embedding: unitVec(2, 0)},
		{F0Mean: 0, Embedding: unitVec(2, 1)},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if math.Abs(float64(p.Embedding[0]-p.Embedding[1])) > 1e-6 {
		t.Errorf("equal-weight merge not symmetric: %v", p.Embedding)
	}
	if p.Embedding[0] <= 0 {
		t.Errorf("floor weight gave no contribution: %v", p.Embedding)
	}
}

func TestAggregateZeroVectorKept(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	// Opposing embeddings with equal weight cancel exactly.
	feats := []*SampleFeatures{
		{F0Mean: 0, Embedding: []float32{1, 0}},
		{F0Mean: 0, Embedding: []float32{-1, 0}},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if got := norm32(p.Embedding); got != 0 {
		t.Errorf("norm = %v, want 0 for degenerate merge", got)
	}
	if len(p.Embedding) != 2 {
		t.Errorf("len = %d, want dimension preserved", len(p.Embedding))
	}
}

func TestAggregateF0ReservoirCap(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{ReservoirCap: 1000})
	many := make([]float64, 700)
	for i := range many {
		many[i] = 100 + float64(i%50)
	}
	feats := []*SampleFeatures{
		{F0Mean: 120, F0Values: many, Embedding: unitVec(2, 0)},
		{F0Mean: 130, F0Values: many, Embedding: unitVec(2, 1)},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.F0Samples) != 1000 {
		t.Fatalf("reservoir len = %d, want 1000", len(p.F0Samples))
	}
	// First-in-order: all 700 values of sample one, then 300 of sample two.
	for i := 0; i < 700; i++ {
		if p.F0Samples[i] != many[i] {
			t.Fatalf("F0Samples[%d] = %v, want %v", i, p.F0Samples[i], many[i])
		}
	}
	for i := 700; i < 1000; i++ {
		if p.F0Samples[i] != many[i-700] {
			t.Fatalf("F0Samples[%d] = %v, want %v", i, p.F0Samples[i], many[i-700])
		}
	}
}

func TestAggregateF0Defaults(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	feats := []*SampleFeatures{
		{F0Mean: 0, Embedding: unitVec(2, 0)},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if p.F0Stats.Mean != 110.0 || p.F0Stats.Std != 20.0 {
		t.Errorf("F0Stats = %+v, want defaults 110/20", p.F0Stats)
	}
	if len(p.F0Samples) != 0 {
		t.Errorf("F0Samples = %v, want empty", p.F0Samples)
	}
}

func TestAggregateF0StatsSkipUnvoiced(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	feats := []*SampleFeatures{
		{F0Mean: 100, F0Std: 10, Embedding: unitVec(2, 0)},
		{F0Mean: 200, F0Std: 30, Embedding: unitVec(2, 1)},
		{F0Mean: 0, Embedding: unitVec(2, 0)}, // unvoiced, excluded from stats
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if p.F0Stats.Mean != 150 || p.F0Stats.Std != 20 {
		t.Errorf("F0Stats = %+v, want 150/20", p.F0Stats)
	}
}

func TestAggregateMelTemplate(t *testing.T) {
	agg := NewAggregator(AggregatorConfig{MelTemplateFrames: 100})
	mel := func(val float32) [][]float32 {
		m := make([][]float32, 3)
		for b := range m {
			m[b] = []float32{val, val, val, val}
		}
		return m
	}
	feats := []*SampleFeatures{
		{F0Mean: 0, Embedding: unitVec(2, 0), MelSpec: mel(-10)},
		{F0Mean: 0, Embedding: unitVec(2, 1), MelSpec: mel(-30)},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.MelSpecMean) != 3 || len(p.MelSpecMean[0]) != 100 {
		t.Fatalf("template shape = %dx%d, want 3x100", len(p.MelSpecMean), len(p.MelSpecMean[0]))
	}
	for b := range p.MelSpecMean {
		for _, v := range p.MelSpecMean[b] {
			if math.Abs(float64(v)+20) > 1e-5 {
				t.Fatalf("template[%d] value = %v, want -20", b, v)
			}
		}
	}
}

func TestAggregateRejectsMissingEmbeddings(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	// Features without any embedding cannot form a voice signature.
	feats := []*SampleFeatures{
		{F0Mean: 120, F0Values: []float64{118, 122}},
		{F0Mean: 140},
	}
	if _, err := agg.Aggregate(feats); !errors.Is(err, ErrNoValidEmbeddings) {
		t.Errorf("err = %v, want ErrNoValidEmbeddings", err)
	}
}

func TestAggregateMelTemplateZeroWhenNoMel(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	// A very short clip extracts without a spectrogram; the template must
	// still come out at the canonical shape, all zero.
	feats := []*SampleFeatures{
		{F0Mean: 120, Embedding: unitVec(2, 0)},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if len(p.MelSpecMean) != 80 {
		t.Fatalf("mel bins = %d, want 80", len(p.MelSpecMean))
	}
	for b, row := range p.MelSpecMean {
		if len(row) != 100 {
			t.Fatalf("bin %d frames = %d, want 100", b, len(row))
		}
		for _, v := range row {
			if v != 0 {
				t.Fatalf("bin %d holds %v, want all zero", b, v)
			}
		}
	}
}

func TestAggregateRejectsEmpty(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	if _, err := agg.Aggregate(nil); !errors.Is(err, ErrNoValidFeatures) {
		t.Errorf("err = %v, want ErrNoValidFeatures", err)
	}
	if _, err := agg.Aggregate([]*SampleFeatures{nil, nil}); !errors.Is(err, ErrNoValidFeatures) {
		t.Errorf("all-nil err = %v, want ErrNoValidFeatures", err)
	}
}

func TestAggregateSingleSample(t *testing.T) {
	agg := NewAggregator(DefaultAggregatorConfig())
	feats := []*SampleFeatures{
		{F0Mean: 200, F0Values: []float64{195, 200, 205}, Embedding: []float32{3, 4}},
	}
	p, err := agg.Aggregate(feats)
	if err != nil {
		t.Fatal(err)
	}
	if p.SampleCount != 1 {
		t.Errorf("SampleCount = %d, want 1", p.SampleCount)
	}
	// A single sample's embedding normalizes to its own direction.
	if math.Abs(float64(p.Embedding[0])-0.6) > 1e-6 || math.Abs(float64(p.Embedding[1])-0.8) > 1e-6 {
		t.Errorf("embedding = %v, want [0.6 0.8]", p.Embedding)
	}
	if math.Abs(p.F0Stats.Mean-200) > 1e-9 {
		t.Errorf("F0 mean = %v, want 200", p.F0Stats.Mean)
	}
}
