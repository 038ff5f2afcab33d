package overlap

import (
	"fmt"

	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/overlap/config"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// TrackID identifies one of the two compared tracks
type TrackID int

const (
	Track1 TrackID = 1
	Track2 TrackID = 2
)

func (t TrackID) String() string {
	switch t {
	case Track1:
		return "track 1"
	case Track2:
		return "track 2"
	default:
		return fmt.Sprintf("track %d", int(t))
	}
}

// FrequencyRange is an inclusive frequency interval in Hz
type FrequencyRange struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// Suggestion is one parametric-EQ adjustment. GainDB is always
// negative (a cut); Q is clamped to a practical filter range.
// Suggestions are immutable once created and consumed by the
// presentation layer only.
type Suggestion struct {
	Track  TrackID        `json:"track"`
	Range  FrequencyRange `json:"range"`
	GainDB float64        `json:"gain_db"`
	Q      float64        `json:"q"`
	Reason string         `json:"reason"`
}

// Advisor turns destructive frequency bands into EQ suggestions
type Advisor struct {
	config *config.AdvisorConfig
	logger logging.Logger
}

// NewAdvisor creates a new EQ advisor. A nil config falls back to
// defaults.
func NewAdvisor(cfg *config.AdvisorConfig) *Advisor {
	if cfg == nil {
		cfg = config.DefaultAdvisorConfig()
	}

	return &Advisor{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "eq_advisor",
		}),
	}
}

// Advise produces an ordered suggestion list: one cut per
// mainly-destructive band, then at most one supplemental low-cut for
// low-frequency buildup, then a single generic fallback when no band
// survived grouping but overlap points exist. Bands where constructive
// points hold the majority produce nothing; reinforcement is not a
// masking problem. The full point list accompanies the bands because
// the low-frequency and fallback heuristics consider points the band
// filter discarded.
//
// Advise is a pure function of its inputs; identical input yields an
// identical suggestion list.
func (a *Advisor) Advise(bands []Band, points []Point) []Suggestion {
	var suggestions []Suggestion

	for _, band := range bands {
		if s, ok := a.adviseBand(band); ok {
			suggestions = append(suggestions, s)
		}
	}

	if s, ok := a.adviseLowEnd(points, suggestions); ok {
		suggestions = append(suggestions, s)
	}

	if len(suggestions) == 0 && len(bands) == 0 && len(points) > 0 {
		suggestions = append(suggestions, a.fallback(points))
	}

	a.logger.Debug("Advisory pass completed", logging.Fields{
		"bands":       len(bands),
		"points":      len(points),
		"suggestions": len(suggestions),
	})

	return suggestions
}

// adviseBand derives a cut for one band, if it is mainly destructive
func (a *Advisor) adviseBand(band Band) (Suggestion, bool) {
	n := len(band.Points)
	if n == 0 {
		return Suggestion{}, false
	}

	mags1 := make([]float64, n)
	mags2 := make([]float64, n)
	intensities := make([]float64, n)
	destructive := 0

	for i, p := range band.Points {
		mags1[i] = p.Magnitude1
		mags2[i] = p.Magnitude2
		intensities[i] = p.Intensity
		if !p.Constructive {
			destructive++
		}
	}

	// Majority vote; reinforcing bands need no fix
	if destructive*2 <= n {
		return Suggestion{}, false
	}

	// Cutting the dominant source opens space for the other
	track := Track1
	if stat.Mean(mags2, nil) > stat.Mean(mags1, nil) {
		track = Track2
	}

	center := (band.Low + band.High) / 2
	q := a.config.MaxQ
	if w := band.Width(); w > 0 {
		q = clamp(center/w, a.config.MinQ, a.config.MaxQ)
	}

	avgIntensity := stat.Mean(intensities, nil)
	destructiveRatio := float64(destructive) / float64(n)

	cut := a.config.BaseCutDB +
		a.config.IntensityWeightDB*avgIntensity +
		a.config.RatioWeightDB*destructiveRatio
	cut = clamp(cut, a.config.MinCutDB, a.config.MaxCutDB)

	return Suggestion{
		Track:  track,
		Range:  FrequencyRange{Low: band.Low, High: band.High},
		GainDB: -cut,
		Q:      q,
		Reason: fmt.Sprintf("destructive overlap in the %s range (%.0f-%.0f Hz); cutting the louder track opens space for the quieter one",
			bandLabel(center), band.Low, band.High),
	}, true
}

// adviseLowEnd emits a high-pass style low-cut when enough overlap
// points sit below the low-frequency cutoff and the weaker-low-end
// track is not already being cut down there
func (a *Advisor) adviseLowEnd(points []Point, existing []Suggestion) (Suggestion, bool) {
	var low1, low2 []float64
	for _, p := range points {
		if p.Frequency < a.config.LowFreqCutoffHz {
			low1 = append(low1, p.Magnitude1)
			low2 = append(low2, p.Magnitude2)
		}
	}

	if len(low1) <= a.config.LowFreqMinPoints {
		return Suggestion{}, false
	}

	// The track with the weaker low end loses the least by yielding it
	track := Track1
	if stat.Mean(low2, nil) < stat.Mean(low1, nil) {
		track = Track2
	}

	for _, s := range existing {
		if s.Track == track && s.Range.Low < a.config.LowCutGuardHz {
			return Suggestion{}, false
		}
	}

	return Suggestion{
		Track:  track,
		Range:  FrequencyRange{Low: a.config.LowCutLowHz, High: a.config.LowCutHighHz},
		GainDB: a.config.LowCutGainDB,
		Q:      a.config.LowCutQ,
		Reason: fmt.Sprintf("low-frequency buildup below %.0f Hz on both tracks; high-pass the track with the weaker low end",
			a.config.LowFreqCutoffHz),
	}, true
}

// fallback emits one generic cut centered on the highest-intensity
// point, so real overlap never produces an empty advisory
func (a *Advisor) fallback(points []Point) Suggestion {
	intensities := make([]float64, len(points))
	for i, p := range points {
		intensities[i] = p.Intensity
	}

	p := points[floats.MaxIdx(intensities)]

	track := Track1
	if p.Magnitude2 > p.Magnitude1 {
		track = Track2
	}

	low := p.Frequency - a.config.FallbackHalfWidthHz
	if low < 20 {
		low = 20
	}

	return Suggestion{
		Track:  track,
		Range:  FrequencyRange{Low: low, High: p.Frequency + a.config.FallbackHalfWidthHz},
		GainDB: a.config.FallbackGainDB,
		Q:      a.config.FallbackQ,
		Reason: fmt.Sprintf("concentrated overlap around %.0f Hz (%s range)", p.Frequency, bandLabel(p.Frequency)),
	}
}

// bandLabel names a frequency for human-readable suggestion text
func bandLabel(freq float64) string {
	switch {
	case freq < 60:
		return "sub-bass"
	case freq < 250:
		return "bass"
	case freq < 500:
		return "low-mid"
	case freq < 2000:
		return "mid"
	case freq < 4000:
		return "upper-mid"
	case freq < 6000:
		return "high"
	default:
		return "very-high"
	}
}

func clamp(v, lo, hi float64) float64 {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
