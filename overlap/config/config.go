// Package config holds the tunable thresholds and coefficients of the
// overlap pipeline. All values are heuristic policy with sensible
// defaults, not load-bearing invariants.
package config

// DetectorConfig configures overlap detection between two spectra
type DetectorConfig struct {
	// EnergyThreshold is the minimum normalized magnitude the louder
	// track must exceed for a bin to count as carrying energy
	EnergyThreshold float64 `json:"energy_threshold"`

	// OverlapThreshold is the minimum min/max magnitude ratio for a bin
	// to count as contested between the two tracks
	OverlapThreshold float64 `json:"overlap_threshold"`
}

// DefaultDetectorConfig returns default detection thresholds
func DefaultDetectorConfig() *DetectorConfig {
	return &DetectorConfig{
		EnergyThreshold:  0.1,
		OverlapThreshold: 0.3,
	}
}

// BandConfig configures grouping of overlap points into frequency bands
type BandConfig struct {
	// AdjacencyGapHz is the largest frequency gap between consecutive
	// points that still extends the running band
	AdjacencyGapHz float64 `json:"adjacency_gap_hz"`

	// MinWidthHz discards bands narrower than this; too narrow to be a
	// genuine masking region
	MinWidthHz float64 `json:"min_width_hz"`

	// MinPoints discards bands with fewer points than this
	MinPoints int `json:"min_points"`
}

// DefaultBandConfig returns default grouping parameters
func DefaultBandConfig() *BandConfig {
	return &BandConfig{
		AdjacencyGapHz: 100.0,
		MinWidthHz:     50.0,
		MinPoints:      3,
	}
}

// AdvisorConfig configures EQ suggestion synthesis. Cut depths are
// stored as positive dB magnitudes; emitted gains are negative.
type AdvisorConfig struct {
	// Gain derivation: cut = Base + IntensityWeight*avgIntensity +
	// RatioWeight*destructiveRatio, clamped to [MinCutDB, MaxCutDB].
	// More overlap and a higher destructive ratio always mean a deeper cut.
	BaseCutDB         float64 `json:"base_cut_db"`
	IntensityWeightDB float64 `json:"intensity_weight_db"`
	RatioWeightDB     float64 `json:"ratio_weight_db"`
	MinCutDB          float64 `json:"min_cut_db"`
	MaxCutDB          float64 `json:"max_cut_db"`

	// Q clamp range
	MinQ float64 `json:"min_q"`
	MaxQ float64 `json:"max_q"`

	// Low-frequency buildup heuristic
	LowFreqCutoffHz  float64 `json:"low_freq_cutoff_hz"`  // points below this count as low end
	LowFreqMinPoints int     `json:"low_freq_min_points"` // more than this many triggers the low-cut
	LowCutGuardHz    float64 `json:"low_cut_guard_hz"`    // skip if a suggestion already targets the track below this
	LowCutLowHz      float64 `json:"low_cut_low_hz"`
	LowCutHighHz     float64 `json:"low_cut_high_hz"`
	LowCutGainDB     float64 `json:"low_cut_gain_db"` // negative
	LowCutQ          float64 `json:"low_cut_q"`

	// Fallback suggestion when no band survives but overlap exists
	FallbackHalfWidthHz float64 `json:"fallback_half_width_hz"`
	FallbackGainDB      float64 `json:"fallback_gain_db"` // negative
	FallbackQ           float64 `json:"fallback_q"`
}

// DefaultAdvisorConfig returns default advisory coefficients
func DefaultAdvisorConfig() *AdvisorConfig {
	return &AdvisorConfig{
		BaseCutDB:         2.0,
		IntensityWeightDB: 4.0,
		RatioWeightDB:     3.0,
		MinCutDB:          2.0,
		MaxCutDB:          9.0,

		MinQ: 0.1,
		MaxQ: 10.0,

		LowFreqCutoffHz:  150.0,
		LowFreqMinPoints: 5,
		LowCutGuardHz:    200.0,
		LowCutLowHz:      20.0,
		LowCutHighHz:     120.0,
		LowCutGainDB:     -6.0,
		LowCutQ:          0.7,

		FallbackHalfWidthHz: 50.0,
		FallbackGainDB:      -4.0,
		FallbackQ:           2.0,
	}
}
