package voiceclone

import (
	"errors"
	"fmt"
)

var (
	// ErrNoSamples is returned when profile creation is asked to run
	// with an empty sample list.
	ErrNoSamples = errors.New("voiceclone: no input samples")

	// ErrNoValidFeatures is returned when every sample failed to yield
	// features, so there is nothing to aggregate or persist.
	ErrNoValidFeatures = errors.New("voiceclone: no sample produced usable features")

	// ErrNoValidEmbeddings is returned when samples yielded features but
	// none carried an embedding, so no voice signature can be built.
	ErrNoValidEmbeddings = errors.New("voiceclone: no sample carried a usable embedding")

	// ErrProfileNotFound is returned for operations on unknown IDs.
	ErrProfileNotFound = errors.New("voiceclone: profile not found")
)

// SampleError wraps a per-sample failure with the offending path. One
// sample failing never aborts the batch; the error is logged and the
// sample skipped.
type SampleError struct {
	Path  string
	Stage string
	Err   error
}

func (e *SampleError) Error() string {
	return fmt.Sprintf("voiceclone: %s %s: %v", e.Stage, e.Path, e.Err)
}

func (e *SampleError) Unwrap() error { return e.Err }
