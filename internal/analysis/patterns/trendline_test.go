package patterns

import (
	"math"
	"testing"
)

func TestFitTrendline_RecoversExactLine(t *testing.T) {
	// Points on y = 2x + 5.
	indices := []int{0, 3, 7, 10, 15}
	prices := make([]float64, len(indices))
	for i, idx := range indices {
		prices[i] = 2*float64(idx) + 5
	}

	line := FitTrendline(indices, prices)
	if math.Abs(line.Slope-2) > 1e-9 {
		t.Fatalf("expected slope 2, got %v", line.Slope)
	}
	if math.Abs(line.Intercept-5) > 1e-9 {
		t.Fatalf("expected intercept 5, got %v", line.Intercept)
	}
	if math.Abs(line.ValueAt(20)-45) > 1e-9 {
		t.Fatalf("expected ValueAt(20)=45, got %v", line.ValueAt(20))
	}
}

func TestFitTrendline_DegenerateInputs(t *testing.T) {
	if line := FitTrendline(nil, nil); line.Slope != 0 || line.Intercept != 0 {
		t.Fatalf("expected zero line for no points, got %+v", line)
	}

	line := FitTrendline([]int{4}, []float64{42.5})
	if line.Slope != 0 || line.Intercept != 42.5 {
		t.Fatalf("expected flat line at single price, got %+v", line)
	}

	// Identical x values make the system singular.
	line = FitTrendline([]int{3, 3, 3}, []float64{10, 20, 30})
	if line.Slope != 0 || math.Abs(line.Intercept-20) > 1e-9 {
		t.Fatalf("expected flat line at mean for singular fit, got %+v", line)
	}
}

func TestNormalizeSlope_ScaleInvariance(t *testing.T) {
	// The same geometry at 10x the price level normalizes identically.
	a := NormalizeSlope(0.5, 50, 100)
	b := NormalizeSlope(5.0, 500, 100)
	if math.Abs(a-b) > 1e-12 {
		t.Fatalf("normalized slopes differ across scales: %v vs %v", a, b)
	}
	if math.Abs(a-1.0) > 1e-12 {
		t.Fatalf("expected normalized slope 1.0, got %v", a)
	}
}
