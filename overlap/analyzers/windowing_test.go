package analyzers

import (
	"math"
	"testing"
)

func TestGenerateCoefficients(t *testing.T) {
	tests := []struct {
		name       string
		windowType WindowType
		size       int
		wantFirst  float64
		wantMid    float64
		tolerance  float64
	}{
		{
			name:       "hann endpoints are zero",
			windowType: WindowHann,
			size:       64,
			wantFirst:  0.0,
			wantMid:    1.0,
			tolerance:  1e-3,
		},
		{
			name:       "hamming endpoints are 0.08",
			windowType: WindowHamming,
			size:       64,
			wantFirst:  0.08,
			wantMid:    1.0,
			tolerance:  1e-3,
		},
		{
			name:       "blackman endpoints are zero",
			windowType: WindowBlackman,
			size:       64,
			wantFirst:  0.0,
			wantMid:    1.0,
			tolerance:  1e-3,
		},
		{
			name:       "rectangular is flat",
			windowType: WindowRectangular,
			size:       64,
			wantFirst:  1.0,
			wantMid:    1.0,
			tolerance:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			coeffs, err := generateCoefficients(tt.windowType, tt.size)
			if err != nil {
				t.Fatalf("generateCoefficients() error = %v", err)
			}
			if len(coeffs) != tt.size {
				t.Fatalf("len(coeffs) = %d, want %d", len(coeffs), tt.size)
			}

			if math.Abs(coeffs[0]-tt.wantFirst) > tt.tolerance {
				t.Errorf("coeffs[0] = %f, want %f", coeffs[0], tt.wantFirst)
			}

			// Symmetric window peaks near the center
			mid := coeffs[tt.size/2]
			if math.Abs(mid-tt.wantMid) > 1e-2 {
				t.Errorf("coeffs[mid] = %f, want %f", mid, tt.wantMid)
			}

			// Symmetry
			for i := 0; i < tt.size/2; i++ {
				j := tt.size - 1 - i
				if math.Abs(coeffs[i]-coeffs[j]) > 1e-12 {
					t.Errorf("asymmetric at %d/%d: %f vs %f", i, j, coeffs[i], coeffs[j])
				}
			}
		})
	}
}

func TestGenerateUnsupportedWindow(t *testing.T) {
	if _, err := generateCoefficients(WindowType("kaiser"), 64); err == nil {
		t.Error("expected error for unsupported window type")
	}
}

func TestWindowGeneratorCache(t *testing.T) {
	wg := NewWindowGenerator()

	w1, err := wg.Generate(WindowHann, 256)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	w2, err := wg.Generate(WindowHann, 256)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	if w1 != w2 {
		t.Error("expected cached window to be reused")
	}

	w3, err := wg.Generate(WindowHann, 512)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	if w3 == w1 {
		t.Error("different sizes must not share a window")
	}
}

func TestWindowGeneratorInvalidSize(t *testing.T) {
	wg := NewWindowGenerator()
	if _, err := wg.Generate(WindowHann, 0); err == nil {
		t.Error("expected error for zero size")
	}
	if _, err := wg.Generate(WindowHann, -8); err == nil {
		t.Error("expected error for negative size")
	}
}

func TestApplyInPlace(t *testing.T) {
	wg := NewWindowGenerator()
	window, err := wg.Generate(WindowRectangular, 8)
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}

	signal := []float64{1, 2, 3, 4, 5, 6, 7, 8}
	if err := window.ApplyInPlace(signal); err != nil {
		t.Fatalf("ApplyInPlace() error = %v", err)
	}
	if signal[3] != 4 {
		t.Errorf("rectangular window changed the signal: %v", signal)
	}

	if err := window.ApplyInPlace(make([]float64, 4)); err == nil {
		t.Error("expected error for mismatched signal length")
	}
}
