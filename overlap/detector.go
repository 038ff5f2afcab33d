package overlap

import (
	"fmt"
	"math"

	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/overlap/analyzers"
	"github.com/RyanBlaney/sonido-mix/overlap/config"
)

// Point marks one frequency bin where both tracks carry significant
// energy. Intensity is min/max of the two normalized magnitudes, so it
// lies in (0, 1] and is symmetric under track swap.
type Point struct {
	Frequency    float64 `json:"frequency"`
	Magnitude1   float64 `json:"magnitude_1"`
	Magnitude2   float64 `json:"magnitude_2"`
	Intensity    float64 `json:"intensity"`
	Constructive bool    `json:"constructive"`
}

// Detector compares two spectra bin-by-bin and flags contested bins
type Detector struct {
	config *config.DetectorConfig
	logger logging.Logger
}

// NewDetector creates a new overlap detector. A nil config falls back
// to defaults.
func NewDetector(cfg *config.DetectorConfig) *Detector {
	if cfg == nil {
		cfg = config.DefaultDetectorConfig()
	}

	return &Detector{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "overlap_detector",
		}),
	}
}

// Detect emits one Point per bin where the louder track exceeds the
// energy threshold and the magnitude ratio exceeds the overlap
// threshold, ordered ascending by frequency.
//
// Both spectra must share the same bin layout; the detector does not
// resample. Classification uses the phase relationship from the
// transforms: a phase difference within 90 degrees of in-phase is
// constructive, anything closer to anti-phase is destructive.
func (d *Detector) Detect(s1, s2 *analyzers.Spectrum) ([]Point, error) {
	if s1 == nil || s2 == nil {
		return nil, fmt.Errorf("%w: nil spectrum", ErrMismatchedSpectra)
	}
	if s1.Bins() != s2.Bins() {
		return nil, fmt.Errorf("%w: %d bins vs %d bins", ErrMismatchedSpectra, s1.Bins(), s2.Bins())
	}
	if s1.BinWidth != s2.BinWidth {
		return nil, fmt.Errorf("%w: bin width %.3f Hz vs %.3f Hz", ErrMismatchedSpectra, s1.BinWidth, s2.BinWidth)
	}

	var points []Point

	for i := 0; i < s1.Bins(); i++ {
		m1 := s1.Magnitudes[i]
		m2 := s2.Magnitudes[i]

		louder := math.Max(m1, m2)
		if louder <= d.config.EnergyThreshold {
			continue
		}

		intensity := math.Min(m1, m2) / louder
		if intensity <= d.config.OverlapThreshold {
			continue
		}

		delta := wrapPhase(s1.Phases[i] - s2.Phases[i])

		points = append(points, Point{
			Frequency:    s1.Frequencies[i],
			Magnitude1:   m1,
			Magnitude2:   m2,
			Intensity:    intensity,
			Constructive: math.Abs(delta) <= math.Pi/2,
		})
	}

	d.logger.Debug("Overlap detection completed", logging.Fields{
		"bins":   s1.Bins(),
		"points": len(points),
	})

	return points, nil
}

// wrapPhase normalizes a phase difference to (-pi, pi]
func wrapPhase(delta float64) float64 {
	wrapped := math.Mod(delta+math.Pi, 2*math.Pi)
	if wrapped <= 0 {
		wrapped += 2 * math.Pi
	}
	return wrapped - math.Pi
}
