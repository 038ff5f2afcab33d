// Package overlap implements the spectral overlap and EQ advisory
// pipeline: two decoded audio buffers are analyzed into spectra,
// compared bin-by-bin for contested energy, grouped into contiguous
// frequency bands, and turned into parametric-EQ suggestions that
// reduce destructive competition between the tracks.
//
// The pipeline is stateless and feed-forward; every stage produces a
// new immutable result and each invocation is a pure function of its
// inputs.
package overlap

import (
	"fmt"
	"sync"
	"time"

	"github.com/RyanBlaney/sonido-mix/logging"
	"github.com/RyanBlaney/sonido-mix/overlap/analyzers"
	"github.com/RyanBlaney/sonido-mix/overlap/config"
	"golang.org/x/sync/singleflight"
)

// EngineConfig holds configuration for the whole pipeline
type EngineConfig struct {
	Analyzer *analyzers.Config      `json:"analyzer"`
	Detector *config.DetectorConfig `json:"detector"`
	Bands    *config.BandConfig     `json:"bands"`
	Advisor  *config.AdvisorConfig  `json:"advisor"`

	// CacheSpectra enables reuse of computed spectra across engine
	// invocations for buffers that carry an ID
	CacheSpectra bool `json:"cache_spectra"`
}

// DefaultEngineConfig returns default configuration for every stage
func DefaultEngineConfig() *EngineConfig {
	return &EngineConfig{
		Analyzer: analyzers.DefaultConfig(),
		Detector: config.DefaultDetectorConfig(),
		Bands:    config.DefaultBandConfig(),
		Advisor:  config.DefaultAdvisorConfig(),
	}
}

// Result is the complete output of one pipeline run. A Result is only
// returned whole; a failed run returns an error and no partial data.
// Empty Points and Suggestions with a nil error mean no significant
// overlap was found, which is a valid outcome, not a failure.
type Result struct {
	Spectrum1      *analyzers.Spectrum `json:"spectrum_1"`
	Spectrum2      *analyzers.Spectrum `json:"spectrum_2"`
	Points         []Point             `json:"points"`
	Bands          []Band              `json:"bands"`
	Suggestions    []Suggestion        `json:"suggestions"`
	ProcessingTime time.Duration       `json:"processing_time"`
}

// Engine runs the full overlap pipeline for a track pair
type Engine struct {
	config   *EngineConfig
	detector *Detector
	grouper  *Grouper
	advisor  *Advisor
	logger   logging.Logger

	// Spectrum cache, keyed by buffer ID + bin layout. The singleflight
	// group guarantees at most one computation in flight per key under
	// concurrent requests for the same track.
	flight singleflight.Group
	mu     sync.RWMutex
	cache  map[string]*analyzers.Spectrum
}

// NewEngine creates a new engine. A nil config falls back to defaults;
// nil sub-configs fall back per stage.
func NewEngine(cfg *EngineConfig) *Engine {
	if cfg == nil {
		cfg = DefaultEngineConfig()
	}
	if cfg.Analyzer == nil {
		cfg.Analyzer = analyzers.DefaultConfig()
	}

	return &Engine{
		config:   cfg,
		detector: NewDetector(cfg.Detector),
		grouper:  NewGrouper(cfg.Bands),
		advisor:  NewAdvisor(cfg.Advisor),
		cache:    make(map[string]*analyzers.Spectrum),
		logger: logging.WithFields(logging.Fields{
			"component": "overlap_engine",
		}),
	}
}

// Analyze runs the pipeline on a track pair. The two spectral analyses
// are independent and run concurrently; their outputs are combined only
// by the detector.
func (e *Engine) Analyze(buf1, buf2 *AudioBuffer) (*Result, error) {
	start := time.Now()

	if err := buf1.Validate(); err != nil {
		return nil, fmt.Errorf("track 1: %w", err)
	}
	if err := buf2.Validate(); err != nil {
		return nil, fmt.Errorf("track 2: %w", err)
	}

	var (
		wg         sync.WaitGroup
		s1, s2     *analyzers.Spectrum
		err1, err2 error
	)

	wg.Add(2)
	go func() {
		defer wg.Done()
		s1, err1 = e.spectrumFor(buf1)
	}()
	go func() {
		defer wg.Done()
		s2, err2 = e.spectrumFor(buf2)
	}()
	wg.Wait()

	if err1 != nil {
		return nil, fmt.Errorf("track 1: %w", err1)
	}
	if err2 != nil {
		return nil, fmt.Errorf("track 2: %w", err2)
	}

	points, err := e.detector.Detect(s1, s2)
	if err != nil {
		return nil, err
	}

	bands := e.grouper.Group(points)
	suggestions := e.advisor.Advise(bands, points)

	result := &Result{
		Spectrum1:      s1,
		Spectrum2:      s2,
		Points:         points,
		Bands:          bands,
		Suggestions:    suggestions,
		ProcessingTime: time.Since(start),
	}

	e.logger.Debug("Pipeline run completed", logging.Fields{
		"points":          len(points),
		"bands":           len(bands),
		"suggestions":     len(suggestions),
		"processing_time": result.ProcessingTime,
	})

	return result, nil
}

// spectrumFor computes (or fetches) the spectrum of one buffer.
// Buffers without an ID bypass the cache.
func (e *Engine) spectrumFor(buf *AudioBuffer) (*analyzers.Spectrum, error) {
	if !e.config.CacheSpectra || buf.ID == "" {
		return e.analyzeBuffer(buf)
	}

	key := fmt.Sprintf("%s:%d:%d", buf.ID, buf.SampleRate, e.config.Analyzer.FFTSize)

	e.mu.RLock()
	cached := e.cache[key]
	e.mu.RUnlock()
	if cached != nil {
		return cached, nil
	}

	v, err, _ := e.flight.Do(key, func() (any, error) {
		spectrum, err := e.analyzeBuffer(buf)
		if err != nil {
			return nil, err
		}

		e.mu.Lock()
		e.cache[key] = spectrum
		e.mu.Unlock()

		return spectrum, nil
	})
	if err != nil {
		return nil, err
	}

	return v.(*analyzers.Spectrum), nil
}

func (e *Engine) analyzeBuffer(buf *AudioBuffer) (*analyzers.Spectrum, error) {
	analyzer := analyzers.NewSpectralAnalyzer(buf.SampleRate, e.config.Analyzer)
	return analyzer.Analyze(buf.Samples[0])
}
