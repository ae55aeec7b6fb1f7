package cli

import (
	"math"
	"strings"
	"testing"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

func TestResolvePatterns_DefaultsToAll(t *testing.T) {
	for _, input := range []string{"", "  ", ","} {
		requested, err := resolvePatterns(input)
		if err != nil {
			t.Fatalf("unexpected error for %q: %v", input, err)
		}
		if len(requested) != len(analysis.AllPatternTypes()) {
			t.Fatalf("expected all %d types for %q, got %d",
				len(analysis.AllPatternTypes()), input, len(requested))
		}
	}
}

func TestResolvePatterns_ParsesList(t *testing.T) {
	requested, err := resolvePatterns(" double_top , BULL_FLAG ")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(requested) != 2 {
		t.Fatalf("expected 2 types, got %v", requested)
	}
	if requested[0] != analysis.DoubleTop || requested[1] != analysis.BullFlag {
		t.Fatalf("unexpected types: %v", requested)
	}
}

func TestResolvePatterns_RejectsUnknown(t *testing.T) {
	if _, err := resolvePatterns("double_top,triple_bottom"); err == nil {
		t.Fatal("expected error for unknown pattern type")
	}
}

func TestFormatFloat_NaNSafe(t *testing.T) {
	if got := formatFloat(math.NaN()); got != "-" {
		t.Fatalf("NaN should render as -, got %q", got)
	}
	if got := formatFloat(101.256); got != "101.26" {
		t.Fatalf("expected 101.26, got %q", got)
	}
}

func TestFormatKeyLevels_SortedAndStable(t *testing.T) {
	levels := map[string]float64{"target": 98.75, "neckline": 104.5, "resistance": 110.25}
	got := formatKeyLevels(levels)
	want := "neckline=104.50 resistance=110.25 target=98.75"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
	if formatKeyLevels(nil) != "-" {
		t.Fatal("empty levels should render as -")
	}
}

// Every status value renders, including failed, which only appears in
// stored history records.
func TestColorStatus_RendersAllStatuses(t *testing.T) {
	for _, s := range []analysis.PatternStatus{
		analysis.StatusForming,
		analysis.StatusConfirmed,
		analysis.StatusFailed,
	} {
		if got := colorStatus(s); !strings.Contains(got, string(s)) {
			t.Fatalf("status %q rendered as %q", s, got)
		}
	}
}

func TestLastValue_SkipsTrailingNaN(t *testing.T) {
	v, ok := lastValue([]float64{1, 2, 3, math.NaN(), math.NaN()})
	if !ok || v != 3 {
		t.Fatalf("expected (3, true), got (%v, %v)", v, ok)
	}
	if _, ok := lastValue([]float64{math.NaN()}); ok {
		t.Fatal("all-NaN series should report no value")
	}
}
