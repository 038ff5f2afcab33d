package overlap

import (
	"errors"
	"math"
	"testing"

	"github.com/RyanBlaney/sonido-mix/overlap/analyzers"
)

// makeSpectrum builds a synthetic spectrum with 10 Hz bin spacing
func makeSpectrum(magnitudes, phases []float64) *analyzers.Spectrum {
	const binWidth = 10.0

	frequencies := make([]float64, len(magnitudes))
	for i := range frequencies {
		frequencies[i] = float64(i) * binWidth
	}

	return &analyzers.Spectrum{
		Frequencies: frequencies,
		Magnitudes:  magnitudes,
		Phases:      phases,
		SampleRate:  int(binWidth * 2 * float64(len(magnitudes))),
		BinWidth:    binWidth,
	}
}

func TestDetectThresholds(t *testing.T) {
	tests := []struct {
		name       string
		m1, m2     float64
		wantPoint  bool
		wantRatio  float64
	}{
		{
			name:      "both silent",
			m1:        0.0,
			m2:        0.0,
			wantPoint: false,
		},
		{
			name:      "below energy threshold",
			m1:        0.09,
			m2:        0.08,
			wantPoint: false,
		},
		{
			name:      "exactly at energy threshold",
			m1:        0.1,
			m2:        0.1,
			wantPoint: false,
		},
		{
			name:      "energetic but lopsided",
			m1:        0.9,
			m2:        0.1,
			wantPoint: false, // ratio 0.111 below overlap threshold
		},
		{
			name:      "exactly at overlap threshold",
			m1:        0.5,
			m2:        0.15,
			wantPoint: false, // ratio 0.3, strict comparison
		},
		{
			name:      "genuine overlap",
			m1:        0.8,
			m2:        0.6,
			wantPoint: true,
			wantRatio: 0.75,
		},
		{
			name:      "equal magnitudes",
			m1:        0.5,
			m2:        0.5,
			wantPoint: true,
			wantRatio: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(nil)

			s1 := makeSpectrum([]float64{tt.m1}, []float64{0})
			s2 := makeSpectrum([]float64{tt.m2}, []float64{0})

			points, err := d.Detect(s1, s2)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}

			if tt.wantPoint != (len(points) == 1) {
				t.Fatalf("got %d points, wantPoint = %v", len(points), tt.wantPoint)
			}

			if tt.wantPoint && math.Abs(points[0].Intensity-tt.wantRatio) > 1e-9 {
				t.Errorf("Intensity = %f, want %f", points[0].Intensity, tt.wantRatio)
			}
		})
	}
}

func TestDetectPhaseClassification(t *testing.T) {
	tests := []struct {
		name             string
		phase1, phase2   float64
		wantConstructive bool
	}{
		{"in phase", 0, 0, true},
		{"anti phase", 0, math.Pi, false},
		{"quarter cycle boundary", math.Pi / 2, 0, true},
		{"just past quarter cycle", 1.6, 0, false},
		{"full cycle apart", 2 * math.Pi, 0, true},
		{"negative quarter cycle", -math.Pi / 2, 0, true},
		{"most of a cycle", 3*math.Pi/2 + 0.3, 0, true}, // wraps close to in-phase
		{"slightly destructive", 2.0, 0, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := NewDetector(nil)

			s1 := makeSpectrum([]float64{0.8}, []float64{tt.phase1})
			s2 := makeSpectrum([]float64{0.7}, []float64{tt.phase2})

			points, err := d.Detect(s1, s2)
			if err != nil {
				t.Fatalf("Detect() error = %v", err)
			}
			if len(points) != 1 {
				t.Fatalf("got %d points, want 1", len(points))
			}

			if points[0].Constructive != tt.wantConstructive {
				t.Errorf("Constructive = %v, want %v (phases %f vs %f)",
					points[0].Constructive, tt.wantConstructive, tt.phase1, tt.phase2)
			}
		})
	}
}

func TestDetectSymmetry(t *testing.T) {
	mags1 := []float64{0.8, 0.5, 0.02, 0.9, 0.4}
	mags2 := []float64{0.6, 0.45, 0.7, 0.3, 0.38}
	phases1 := []float64{0, 1.0, 2.0, 3.0, -1.5}
	phases2 := []float64{0.5, -1.0, 1.0, 0.2, 1.5}

	d := NewDetector(nil)

	forward, err := d.Detect(makeSpectrum(mags1, phases1), makeSpectrum(mags2, phases2))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	reversed, err := d.Detect(makeSpectrum(mags2, phases2), makeSpectrum(mags1, phases1))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	if len(forward) != len(reversed) {
		t.Fatalf("point counts differ: %d vs %d", len(forward), len(reversed))
	}

	for i := range forward {
		f, r := forward[i], reversed[i]
		if f.Frequency != r.Frequency {
			t.Errorf("point %d: frequency %f vs %f", i, f.Frequency, r.Frequency)
		}
		if math.Abs(f.Intensity-r.Intensity) > 1e-12 {
			t.Errorf("point %d: intensity not symmetric: %f vs %f", i, f.Intensity, r.Intensity)
		}
		if f.Magnitude1 != r.Magnitude2 || f.Magnitude2 != r.Magnitude1 {
			t.Errorf("point %d: magnitudes not swapped", i)
		}
		if f.Constructive != r.Constructive {
			t.Errorf("point %d: classification not symmetric", i)
		}
	}
}

func TestDetectIntensityRange(t *testing.T) {
	mags1 := []float64{0.11, 0.5, 0.9, 1.0}
	mags2 := []float64{0.11, 0.9, 0.5, 0.4}
	phases := []float64{0, 0, 0, 0}

	d := NewDetector(nil)
	points, err := d.Detect(makeSpectrum(mags1, phases), makeSpectrum(mags2, phases))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}

	for _, p := range points {
		if p.Intensity <= 0 || p.Intensity > 1 {
			t.Errorf("intensity %f outside (0, 1]", p.Intensity)
		}
	}
}

func TestDetectOrdering(t *testing.T) {
	n := 32
	mags := make([]float64, n)
	phases := make([]float64, n)
	for i := 0; i < n; i++ {
		mags[i] = 0.5
	}

	d := NewDetector(nil)
	points, err := d.Detect(makeSpectrum(mags, phases), makeSpectrum(mags, phases))
	if err != nil {
		t.Fatalf("Detect() error = %v", err)
	}
	if len(points) != n {
		t.Fatalf("got %d points, want %d", len(points), n)
	}

	for i := 1; i < len(points); i++ {
		if points[i].Frequency <= points[i-1].Frequency {
			t.Fatalf("points not strictly ascending at %d", i)
		}
	}
}

func TestDetectMismatchedSpectra(t *testing.T) {
	d := NewDetector(nil)

	s1 := makeSpectrum([]float64{0.5, 0.5}, []float64{0, 0})
	s2 := makeSpectrum([]float64{0.5}, []float64{0})

	if _, err := d.Detect(s1, s2); !errors.Is(err, ErrMismatchedSpectra) {
		t.Errorf("bin count mismatch: error = %v, want ErrMismatchedSpectra", err)
	}

	if _, err := d.Detect(nil, s2); !errors.Is(err, ErrMismatchedSpectra) {
		t.Errorf("nil spectrum: error = %v, want ErrMismatchedSpectra", err)
	}

	// Same bin count, different spacing
	s3 := makeSpectrum([]float64{0.5, 0.5}, []float64{0, 0})
	s3.BinWidth = 20.0
	if _, err := d.Detect(s1, s3); !errors.Is(err, ErrMismatchedSpectra) {
		t.Errorf("bin width mismatch: error = %v, want ErrMismatchedSpectra", err)
	}
}
