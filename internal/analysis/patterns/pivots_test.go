package patterns

import (
	"testing"
)

func TestFindPivots_ShortWindowYieldsEmptySets(t *testing.T) {
	high := []float64{10, 11, 12, 11, 10}
	low := []float64{9, 10, 11, 10, 9}

	// order 5 needs at least 11 bars.
	pv := FindPivots(high, low, 5)
	if len(pv.HighIdx) != 0 || len(pv.LowIdx) != 0 {
		t.Fatalf("expected empty pivot sets for short window, got highs=%v lows=%v", pv.HighIdx, pv.LowIdx)
	}
}

func TestFindPivots_DetectsInteriorExtrema(t *testing.T) {
	// Single peak at index 5, single trough at the edges.
	high := []float64{10, 11, 12, 13, 14, 15, 14, 13, 12, 11, 10}
	low := make([]float64, len(high))
	for i, h := range high {
		low[i] = h - 1
	}

	pv := FindPivots(high, low, 5)

	if len(pv.HighIdx) != 1 || pv.HighIdx[0] != 5 {
		t.Fatalf("expected pivot high at index 5, got %v", pv.HighIdx)
	}
	if pv.HighVals[0] != 15 {
		t.Fatalf("expected pivot high value 15, got %v", pv.HighVals[0])
	}
	// Edge windows are clamped, so both endpoints qualify as lows.
	if len(pv.LowIdx) != 2 || pv.LowIdx[0] != 0 || pv.LowIdx[1] != 10 {
		t.Fatalf("expected pivot lows at indices 0 and 10, got %v", pv.LowIdx)
	}
}

func TestFindPivots_PlateauAppearsInBothSets(t *testing.T) {
	// Flat series: every bar ties for both extrema.
	n := 15
	high := make([]float64, n)
	low := make([]float64, n)
	for i := range high {
		high[i] = 100
		low[i] = 100
	}

	pv := FindPivots(high, low, 5)
	if len(pv.HighIdx) != n || len(pv.LowIdx) != n {
		t.Fatalf("expected every bar in both sets on a plateau, got %d highs %d lows",
			len(pv.HighIdx), len(pv.LowIdx))
	}
}

func TestFindPivots_IndicesStrictlyIncreasing(t *testing.T) {
	high := []float64{10, 12, 11, 13, 12, 14, 13, 15, 14, 16, 15, 17, 16, 18, 17}
	low := make([]float64, len(high))
	for i, h := range high {
		low[i] = h - 2
	}

	pv := FindPivots(high, low, 2)
	for i := 1; i < len(pv.HighIdx); i++ {
		if pv.HighIdx[i] <= pv.HighIdx[i-1] {
			t.Fatalf("high indices not strictly increasing: %v", pv.HighIdx)
		}
	}
	for i := 1; i < len(pv.LowIdx); i++ {
		if pv.LowIdx[i] <= pv.LowIdx[i-1] {
			t.Fatalf("low indices not strictly increasing: %v", pv.LowIdx)
		}
	}
}
