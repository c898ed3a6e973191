// Package voiceclone builds durable voice profiles from raw speech
// recordings.
//
// # Architecture
//
// The pipeline has four stages, each usable on its own:
//
//	wave file -> Preprocessor -> Extractor -> Aggregator -> profilestore
//
// Preprocessor normalizes a decoded waveform to the canonical sample
// rate, trims leading and trailing silence, and peak-normalizes the
// result. Extractor turns one preprocessed waveform into SampleFeatures:
// a pitch contour with summary statistics, a mel spectrogram, and a
// speaker embedding. Aggregator merges the features of several samples
// into a single profile, weighting each sample by its pitch prominence.
// Manager ties the stages together behind a small facade, runs
// extraction concurrently, optionally caches per-sample features, and
// persists the final profile through profilestore.
//
// Samples that fail to decode or extract are logged and skipped; a
// profile is created as long as at least one sample yields features.
// When every sample fails, nothing is persisted.
package voiceclone
