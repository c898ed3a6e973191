package voiceclone

// SampleFeatures holds everything extracted from a single voice sample.
// The msgpack tags keep cached and exported encodings compact and stable.
type SampleFeatures struct {
	// SourcePath is the file the features were extracted from.
	SourcePath string `msgpack:"source_path"`

	// F0Mean and F0Std summarize the voiced pitch contour in Hz. Zero
	// F0Mean is the unvoiced sentinel: the sample had no usable voiced
	// frames and F0Values is empty.
	F0Mean float64 `msgpack:"f0_mean"`
	F0Std  float64 `msgpack:"f0_std"`

	// F0Values are the raw voiced pitch values in frame order.
	F0Values []float64 `msgpack:"f0_values"`

	// Voiced is the per-frame voicing decision, parallel to the pitch
	// contour the tracker produced.
	Voiced []bool `msgpack:"voiced"`

	// MelSpec is the mel spectrogram in dB, [numMels][numFrames].
	MelSpec [][]float32 `msgpack:"mel_spec"`

	// Embedding is the speaker embedding for this sample.
	Embedding []float32 `msgpack:"embedding"`

	// EmbeddingFallback reports that Embedding is a random placeholder
	// because no embedding model was available or it failed.
	EmbeddingFallback bool `msgpack:"embedding_fallback"`

	// Duration is the preprocessed sample length in seconds.
	Duration float64 `msgpack:"duration"`
}
