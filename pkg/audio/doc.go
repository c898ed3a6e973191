// Package audio is an umbrella for audio processing sub-packages:
//
//   - wave: WAV decoding and encoding to mono float32 waveforms
//   - resampler: sample rate conversion
//   - pitch: fundamental frequency tracking
//   - melspec: mel spectrogram extraction
//
// The sub-packages share a convention: audio is mono float32 in [-1, 1],
// and the sample rate travels alongside the samples.
package audio
