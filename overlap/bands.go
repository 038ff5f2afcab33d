package overlap

import (
	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/overlap/config"
)

// Band is a contiguous frequency range of overlap points. Bands from a
// single grouping run never overlap each other and are sorted ascending
// by Low.
type Band struct {
	Low    float64 `json:"low"`
	High   float64 `json:"high"`
	Points []Point `json:"points"`
}

// Width returns the band width in Hz
func (b *Band) Width() float64 {
	return b.High - b.Low
}

// Grouper merges adjacent overlap points into frequency bands
type Grouper struct {
	config *config.BandConfig
	logger logging.Logger
}

// NewGrouper creates a new band grouper. A nil config falls back to
// defaults.
func NewGrouper(cfg *config.BandConfig) *Grouper {
	if cfg == nil {
		cfg = config.DefaultBandConfig()
	}

	return &Grouper{
		config: cfg,
		logger: logging.WithFields(logging.Fields{
			"component": "band_grouper",
		}),
	}
}

// Group sweeps the frequency-sorted points left to right, starting a
// new band whenever the gap to the running band's high edge exceeds
// AdjacencyGapHz. Bands narrower than MinWidthHz or with fewer than
// MinPoints points are discarded as noise. Grouping depends only on the
// sorted input; repeated runs produce identical bands.
func (g *Grouper) Group(points []Point) []Band {
	if len(points) == 0 {
		return nil
	}

	var bands []Band
	current := Band{
		Low:    points[0].Frequency,
		High:   points[0].Frequency,
		Points: []Point{points[0]},
	}

	for _, p := range points[1:] {
		if p.Frequency-current.High > g.config.AdjacencyGapHz {
			bands = g.appendIfSignificant(bands, current)
			current = Band{Low: p.Frequency, High: p.Frequency}
		} else {
			current.High = p.Frequency
		}
		current.Points = append(current.Points, p)
	}
	bands = g.appendIfSignificant(bands, current)

	g.logger.Debug("Band grouping completed", logging.Fields{
		"points": len(points),
		"bands":  len(bands),
	})

	return bands
}

// appendIfSignificant applies the width and point-count post-filter
func (g *Grouper) appendIfSignificant(bands []Band, band Band) []Band {
	if band.Width() < g.config.MinWidthHz {
		return bands
	}
	if len(band.Points) < g.config.MinPoints {
		return bands
	}
	return append(bands, band)
}
