// Package analyzers converts decoded sample data into discrete
// frequency-magnitude spectra. The spectra carry true per-bin phase from
// the transform so that downstream comparison can classify overlapping
// energy as constructive or destructive.
package analyzers

import (
	"errors"
	"fmt"
	"math"
	"math/cmplx"

	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/mjibson/go-dsp/fft"
)

// Supported FFT size bounds
const (
	MinFFTSize = 32
	MaxFFTSize = 65536
)

// Normalization maps dB in [-140, 0] onto [0, 1]
const dbFloor = 140.0

// Analyzer errors
var (
	ErrEmptySignal        = errors.New("empty signal")
	ErrInvalidSampleRate  = errors.New("invalid sample rate")
	ErrUnsupportedFFTSize = errors.New("unsupported FFT size")
)

// Config holds spectral analyzer configuration
type Config struct {
	FFTSize          int        `json:"fft_size"`           // Transform size, power of two
	MaxWindowSeconds float64    `json:"max_window_seconds"` // Leading analysis window cap, <=0 means uncapped
	Window           WindowType `json:"window"`             // Window function applied per frame
}

// DefaultConfig returns default analyzer configuration. 4096 gives
// adequate low-frequency resolution at standard sample rates.
func DefaultConfig() *Config {
	return &Config{
		FFTSize:          4096,
		MaxWindowSeconds: 30.0,
		Window:           WindowHann,
	}
}

// Spectrum is a single-sided frequency-magnitude spectrum. All slices
// have one entry per bin, ordered ascending by frequency with spacing
// SampleRate/2/Bins. Magnitudes are normalized loudness values in [0, 1];
// Phases are radians from the transform of the leading frame.
type Spectrum struct {
	Frequencies []float64 `json:"frequencies"`
	Magnitudes  []float64 `json:"magnitudes"`
	Phases      []float64 `json:"phases"`
	FFTSize     int       `json:"fft_size"`
	SampleRate  int       `json:"sample_rate"`
	BinWidth    float64   `json:"bin_width"` // Hz per bin
}

// Bins returns the number of frequency bins
func (s *Spectrum) Bins() int {
	return len(s.Frequencies)
}

// SpectralAnalyzer converts a sample sequence into a Spectrum
type SpectralAnalyzer struct {
	config     *Config
	sampleRate int
	windows    *WindowGenerator
	logger     logging.Logger
}

// NewSpectralAnalyzer creates a new spectral analyzer for the given
// sample rate. A nil config falls back to DefaultConfig.
func NewSpectralAnalyzer(sampleRate int, config *Config) *SpectralAnalyzer {
	if config == nil {
		config = DefaultConfig()
	}

	return &SpectralAnalyzer{
		config:     config,
		sampleRate: sampleRate,
		windows:    NewWindowGenerator(),
		logger: logging.WithFields(logging.Fields{
			"component":   "spectral_analyzer",
			"sample_rate": sampleRate,
		}),
	}
}

// Analyze decomposes the signal into FFTSize/2 frequency bins.
//
// Only the leading MaxWindowSeconds of the signal are analyzed; both
// tracks of a pair are compared from their common start point, so the
// cap bounds cost without misaligning them. Magnitudes are per-bin
// power averages across non-overlapping windowed frames, converted to
// dB and normalized to [0, 1] via (dB+140)/140 with clamping at both
// ends. Phases come from the first frame's complex output.
//
// Output is bit-reproducible for identical input and configuration.
func (sa *SpectralAnalyzer) Analyze(signal []float64) (*Spectrum, error) {
	if len(signal) == 0 {
		return nil, fmt.Errorf("%w: no samples to analyze", ErrEmptySignal)
	}
	if sa.sampleRate <= 0 {
		return nil, fmt.Errorf("%w: %d Hz", ErrInvalidSampleRate, sa.sampleRate)
	}

	fftSize := sa.config.FFTSize
	if fftSize < MinFFTSize || fftSize > MaxFFTSize || fftSize&(fftSize-1) != 0 {
		return nil, fmt.Errorf("%w: %d (must be a power of two in [%d, %d])",
			ErrUnsupportedFFTSize, fftSize, MinFFTSize, MaxFFTSize)
	}

	logger := sa.logger.WithFields(logging.Fields{
		"function":      "Analyze",
		"signal_length": len(signal),
		"fft_size":      fftSize,
	})

	// Bound analysis to the leading window
	if sa.config.MaxWindowSeconds > 0 {
		maxSamples := int(sa.config.MaxWindowSeconds * float64(sa.sampleRate))
		if maxSamples > 0 && len(signal) > maxSamples {
			logger.Debug("Capping analysis to leading window", logging.Fields{
				"max_samples": maxSamples,
			})
			signal = signal[:maxSamples]
		}
	}

	window, err := sa.windows.Generate(sa.config.Window, fftSize)
	if err != nil {
		return nil, fmt.Errorf("failed to generate analysis window: %w", err)
	}

	bins := fftSize / 2
	power := make([]float64, bins)
	phases := make([]float64, bins)

	// Non-overlapping frames across the capped window; a signal shorter
	// than one frame is zero-padded. Trailing partial frames are dropped.
	numFrames := len(signal) / fftSize
	if numFrames == 0 {
		numFrames = 1
	}

	frame := make([]float64, fftSize)
	for f := 0; f < numFrames; f++ {
		start := f * fftSize
		end := min(start+fftSize, len(signal))

		n := copy(frame, signal[start:end])
		for i := n; i < fftSize; i++ {
			frame[i] = 0
		}

		if err := window.ApplyInPlace(frame); err != nil {
			return nil, err
		}

		fftResult := fft.FFTReal(frame)

		for i := 0; i < bins; i++ {
			re := real(fftResult[i])
			im := imag(fftResult[i])
			power[i] += re*re + im*im

			if f == 0 {
				phases[i] = cmplx.Phase(fftResult[i])
			}
		}
	}

	binWidth := float64(sa.sampleRate) / 2.0 / float64(bins)

	frequencies := make([]float64, bins)
	magnitudes := make([]float64, bins)

	// Single-sided amplitude scaling
	scale := 2.0 / float64(fftSize)

	for i := 0; i < bins; i++ {
		frequencies[i] = float64(i) * binWidth

		amplitude := math.Sqrt(power[i]/float64(numFrames)) * scale
		magnitudes[i] = normalizeDB(amplitudeToDB(amplitude))
	}

	logger.Debug("Spectral analysis completed", logging.Fields{
		"bins":       bins,
		"bin_width":  binWidth,
		"num_frames": numFrames,
	})

	return &Spectrum{
		Frequencies: frequencies,
		Magnitudes:  magnitudes,
		Phases:      phases,
		FFTSize:     fftSize,
		SampleRate:  sa.sampleRate,
		BinWidth:    binWidth,
	}, nil
}

// amplitudeToDB converts a linear amplitude to decibels. Zero amplitude
// maps to -Inf, which normalizeDB clamps to the floor.
func amplitudeToDB(amplitude float64) float64 {
	if amplitude <= 0 {
		return math.Inf(-1)
	}
	return 20 * math.Log10(amplitude)
}

// normalizeDB maps a dB value onto [0, 1]: -140 dB and below floor to 0,
// 0 dB and above clamp to 1
func normalizeDB(db float64) float64 {
	normalized := (db + dbFloor) / dbFloor
	if normalized < 0 {
		return 0
	}
	if normalized > 1 {
		return 1
	}
	return normalized
}
