package overlap

import (
	"fmt"
	"time"
)

// AudioBuffer represents already-decoded audio handed to the engine by
// the host application. Samples holds one slice per channel; the engine
// analyzes channel 0. Immutable once produced.
type AudioBuffer struct {
	// ID optionally identifies the underlying track. A non-empty ID
	// enables spectrum caching across engine invocations.
	ID string `json:"id,omitempty"`

	Samples    [][]float64   `json:"-"`
	SampleRate int           `json:"sample_rate"`
	Channels   int           `json:"channels"`
	Duration   time.Duration `json:"duration"`
}

// Validate checks that the buffer is analyzable
func (b *AudioBuffer) Validate() error {
	if b == nil {
		return fmt.Errorf("%w: nil buffer", ErrInvalidBuffer)
	}
	if len(b.Samples) == 0 {
		return fmt.Errorf("%w: no channels", ErrInvalidBuffer)
	}
	if len(b.Samples[0]) == 0 {
		return fmt.Errorf("%w: empty channel data", ErrInvalidBuffer)
	}
	if b.SampleRate <= 0 {
		return fmt.Errorf("%w: sample rate %d Hz", ErrInvalidBuffer, b.SampleRate)
	}
	return nil
}
