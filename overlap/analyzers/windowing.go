package analyzers

import (
	"fmt"
	"math"
	"sync"

	"github.com/RyanBlaney/sonido-mix/logging"
)

// WindowType represents different window function types
type WindowType string

const (
	WindowHann        WindowType = "hann"
	WindowHamming     WindowType = "hamming"
	WindowBlackman    WindowType = "blackman"
	WindowRectangular WindowType = "rectangular"
)

// Window represents a window function with its coefficients
type Window struct {
	Type         WindowType `json:"type"`
	Size         int        `json:"size"`
	Coefficients []float64  `json:"coefficients"`
}

// ApplyInPlace multiplies the signal by the window coefficients in-place
func (w *Window) ApplyInPlace(signal []float64) error {
	if len(signal) != w.Size {
		return fmt.Errorf("signal length (%d) doesn't match window size (%d)", len(signal), w.Size)
	}

	for i, c := range w.Coefficients {
		signal[i] *= c
	}

	return nil
}

// WindowGenerator generates and caches window functions. Safe for
// concurrent use; both analyzer goroutines of an engine run may request
// the same window.
type WindowGenerator struct {
	mu     sync.Mutex
	cache  map[string]*Window
	logger logging.Logger
}

// NewWindowGenerator creates a new window generator
func NewWindowGenerator() *WindowGenerator {
	return &WindowGenerator{
		cache: make(map[string]*Window),
		logger: logging.WithFields(logging.Fields{
			"component": "window_generator",
		}),
	}
}

// Generate creates (or returns a cached) window of the given type and size
func (wg *WindowGenerator) Generate(windowType WindowType, size int) (*Window, error) {
	if size <= 0 {
		return nil, fmt.Errorf("window size must be positive, got %d", size)
	}

	cacheKey := fmt.Sprintf("%s_%d", windowType, size)

	wg.mu.Lock()
	defer wg.mu.Unlock()

	if cached, exists := wg.cache[cacheKey]; exists {
		return cached, nil
	}

	coefficients, err := generateCoefficients(windowType, size)
	if err != nil {
		wg.logger.Error(err, "Failed to generate window coefficients", logging.Fields{
			"window_type": windowType,
			"window_size": size,
		})
		return nil, err
	}

	window := &Window{
		Type:         windowType,
		Size:         size,
		Coefficients: coefficients,
	}
	wg.cache[cacheKey] = window

	return window, nil
}

// generateCoefficients computes symmetric window coefficients
func generateCoefficients(windowType WindowType, size int) ([]float64, error) {
	coefficients := make([]float64, size)

	if size == 1 {
		coefficients[0] = 1.0
		return coefficients, nil
	}

	denominator := float64(size - 1)

	switch windowType {
	case WindowHann:
		for i := 0; i < size; i++ {
			coefficients[i] = 0.5 * (1.0 - math.Cos(2*math.Pi*float64(i)/denominator))
		}

	case WindowHamming:
		for i := 0; i < size; i++ {
			coefficients[i] = 0.54 - 0.46*math.Cos(2*math.Pi*float64(i)/denominator)
		}

	case WindowBlackman:
		for i := 0; i < size; i++ {
			x := 2 * math.Pi * float64(i) / denominator
			coefficients[i] = 0.42 - 0.5*math.Cos(x) + 0.08*math.Cos(2*x)
		}

	case WindowRectangular:
		for i := 0; i < size; i++ {
			coefficients[i] = 1.0
		}

	default:
		return nil, fmt.Errorf("unsupported window type: %s", windowType)
	}

	return coefficients, nil
}
