package patterns

import (
	"reflect"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/jdemuth17/market-analysis/internal/analysis"
	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// waypoint is an (index, close) anchor; closes between anchors are
// linearly interpolated to build deterministic price shapes.
type waypoint struct {
	idx   int
	price float64
}

func closesFromWaypoints(points []waypoint) []float64 {
	n := points[len(points)-1].idx + 1
	closes := make([]float64, n)
	for p := 0; p < len(points)-1; p++ {
		a, b := points[p], points[p+1]
		span := b.idx - a.idx
		for i := a.idx; i <= b.idx; i++ {
			frac := float64(i-a.idx) / float64(span)
			closes[i] = a.price + (b.price-a.price)*frac
		}
	}
	return closes
}

func barsFromCloses(closes, volumes []float64) []models.Bar {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		vol := 1_000_000.0
		if volumes != nil {
			vol = volumes[i]
		}
		bars[i] = models.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 0.5,
			Low:    c - 0.5,
			Close:  c,
			Volume: vol,
		}
	}
	return bars
}

func newTestEngine() *Engine {
	return NewEngine(Config{}, zerolog.Nop())
}

func TestDetect_DoubleTop(t *testing.T) {
	// Two peaks near 110 separated by 20 bars with a 6% trough between
	// them, then a decline through the neckline.
	closes := closesFromWaypoints([]waypoint{
		{0, 95}, {20, 110}, {30, 104}, {40, 109.7}, {55, 100},
	})
	bars := barsFromCloses(closes, nil)

	detected, err := newTestEngine().Detect(bars, []analysis.PatternType{analysis.DoubleTop})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detected) == 0 {
		t.Fatal("expected a double top detection")
	}

	p := detected[0]
	if p.Type != analysis.DoubleTop {
		t.Fatalf("expected double_top, got %s", p.Type)
	}
	if p.Direction != analysis.Bearish {
		t.Fatalf("expected bearish direction, got %s", p.Direction)
	}
	if p.Confidence < 40 {
		t.Fatalf("expected confidence >= 40, got %v", p.Confidence)
	}
	if p.Status != analysis.StatusConfirmed {
		t.Fatalf("expected confirmed status after the neckline break, got %s", p.Status)
	}
	for _, level := range []string{"resistance", "neckline", "target"} {
		if _, ok := p.KeyLevels[level]; !ok {
			t.Fatalf("missing key level %q", level)
		}
	}
	if p.KeyLevels["target"] >= p.KeyLevels["neckline"] {
		t.Fatalf("double top target %v should project below neckline %v",
			p.KeyLevels["target"], p.KeyLevels["neckline"])
	}
	if !p.EndDate.After(p.StartDate) {
		t.Fatalf("end date %v not after start date %v", p.EndDate, p.StartDate)
	}
}

func TestDetect_DoubleBottom(t *testing.T) {
	closes := closesFromWaypoints([]waypoint{
		{0, 110}, {20, 95}, {30, 101}, {40, 95.3}, {55, 106},
	})
	bars := barsFromCloses(closes, nil)

	detected, err := newTestEngine().Detect(bars, []analysis.PatternType{analysis.DoubleBottom})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detected) == 0 {
		t.Fatal("expected a double bottom detection")
	}
	p := detected[0]
	if p.Direction != analysis.Bullish {
		t.Fatalf("expected bullish direction, got %s", p.Direction)
	}
	if p.Confidence < 40 {
		t.Fatalf("expected confidence >= 40, got %v", p.Confidence)
	}
	if p.KeyLevels["target"] <= p.KeyLevels["neckline"] {
		t.Fatalf("double bottom target %v should project above neckline %v",
			p.KeyLevels["target"], p.KeyLevels["neckline"])
	}
}

func TestDetect_BullFlag(t *testing.T) {
	// 15% pole over 10 bars, then a shallow 20-bar drift lower on
	// declining volume.
	closes := closesFromWaypoints([]waypoint{
		{0, 100}, {10, 115}, {30, 113}, {39, 113},
	})
	volumes := make([]float64, len(closes))
	for i := range volumes {
		if i <= 10 {
			volumes[i] = 2_000_000
		} else {
			volumes[i] = 1_000_000
		}
	}
	bars := barsFromCloses(closes, volumes)

	detected, err := newTestEngine().Detect(bars, []analysis.PatternType{analysis.BullFlag})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detected) == 0 {
		t.Fatal("expected a bull flag detection")
	}
	p := detected[0]
	if p.Direction != analysis.Bullish {
		t.Fatalf("expected bullish direction, got %s", p.Direction)
	}
	if p.Confidence < 40 {
		t.Fatalf("expected confidence >= 40, got %v", p.Confidence)
	}
	if p.Status != analysis.StatusForming {
		t.Fatalf("flags never confirm, got %s", p.Status)
	}
	for _, level := range []string{"pole_start", "pole_end", "flag_high", "flag_low", "target"} {
		if _, ok := p.KeyLevels[level]; !ok {
			t.Fatalf("missing key level %q", level)
		}
	}
}

func TestDetect_FlatSeriesYieldsNothing(t *testing.T) {
	// Zero-volatility series: high == low == close on every bar, so the
	// window's price range is exactly zero.
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, 300)
	for i := range bars {
		bars[i] = models.Bar{
			Date: base.AddDate(0, 0, i),
			Open: 100, High: 100, Low: 100, Close: 100, Volume: 1_000_000,
		}
	}

	detected, err := newTestEngine().Detect(bars, analysis.AllPatternTypes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detected) != 0 {
		t.Fatalf("expected no patterns on a flat series, got %d: %+v", len(detected), detected)
	}
}

func TestDetect_MonotonicSeriesYieldsNoReversals(t *testing.T) {
	closes := make([]float64, 150)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	bars := barsFromCloses(closes, nil)

	requested := []analysis.PatternType{
		analysis.DoubleTop,
		analysis.DoubleBottom,
		analysis.HeadAndShoulders,
		analysis.InverseHeadAndShoulders,
		analysis.AscendingTriangle,
		analysis.DescendingTriangle,
		analysis.SymmetricalTriangle,
		analysis.RisingWedge,
		analysis.FallingWedge,
	}
	detected, err := newTestEngine().Detect(bars, requested)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(detected) != 0 {
		t.Fatalf("expected no detections on a monotonic ramp, got %+v", detected)
	}
}

func TestDetect_MalformedBarsFailFast(t *testing.T) {
	bars := barsFromCloses([]float64{100, 101, 102}, nil)
	bars[2].Date = bars[0].Date // break date ordering

	_, err := newTestEngine().Detect(bars, analysis.AllPatternTypes())
	if !apperrors.Is(err, apperrors.ErrMalformedBars) {
		t.Fatalf("expected ErrMalformedBars, got %v", err)
	}
}

func TestDetect_Idempotent(t *testing.T) {
	closes := closesFromWaypoints([]waypoint{
		{0, 95}, {20, 110}, {30, 104}, {40, 109.7}, {55, 100}, {80, 112}, {100, 105},
	})
	bars := barsFromCloses(closes, nil)
	engine := newTestEngine()

	first, err := engine.Detect(bars, analysis.AllPatternTypes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := engine.Detect(bars, analysis.AllPatternTypes())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Fatal("detection results differ between identical runs")
	}
}

func TestDetectWindow_UnknownPatternSkipped(t *testing.T) {
	bars := barsFromCloses(closesFromWaypoints([]waypoint{{0, 100}, {30, 110}}), nil)
	w, err := NewPriceWindow(bars, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	detected := newTestEngine().DetectWindow(w, []analysis.PatternType{"bogus_pattern"})
	if len(detected) != 0 {
		t.Fatalf("unknown pattern should yield nothing, got %+v", detected)
	}
}

func TestDetectWindow_PanicInOneDetectorIsIsolated(t *testing.T) {
	closes := closesFromWaypoints([]waypoint{
		{0, 110}, {20, 95}, {30, 101}, {40, 95.3}, {55, 106},
	})
	bars := barsFromCloses(closes, nil)
	w, err := NewPriceWindow(bars, 120)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	engine := newTestEngine()
	engine.table[analysis.DoubleTop] = func(*PriceWindow, PivotSet) []analysis.DetectedPattern {
		panic("deliberate test failure")
	}

	detected := engine.DetectWindow(w, []analysis.PatternType{
		analysis.DoubleTop,
		analysis.DoubleBottom,
	})

	for _, p := range detected {
		if p.Type == analysis.DoubleTop {
			t.Fatal("panicking detector should contribute no results")
		}
	}
	// The healthy detector still ran on this double-bottom shape.
	if len(detected) == 0 {
		t.Fatal("expected double bottom results despite the failing detector")
	}
}
