package overlap

import (
	"errors"

	"github.com/RyanBlaney/sonido-mix/overlap/analyzers"
)

// Pipeline errors. All are detected synchronously at the start of the
// offending stage; an empty result is never substituted for a failure.
var (
	// ErrInvalidBuffer reports an audio buffer with no channels, no
	// samples, or a non-positive sample rate
	ErrInvalidBuffer = errors.New("invalid audio buffer")

	// ErrMismatchedSpectra reports an attempt to compare spectra with
	// different bin layouts
	ErrMismatchedSpectra = errors.New("spectra bin layouts do not match")

	// ErrUnsupportedFFTSize reports a transform size that is not a
	// supported power of two
	ErrUnsupportedFFTSize = analyzers.ErrUnsupportedFFTSize
)
