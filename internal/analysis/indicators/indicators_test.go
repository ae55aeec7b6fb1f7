package indicators

import (
	"context"
	"math"
	"testing"
	"time"

	"github.com/jdemuth17/market-analysis/internal/models"
)

func testBars(closes []float64) []models.Bar {
	base := time.Date(2025, 1, 2, 0, 0, 0, 0, time.UTC)
	bars := make([]models.Bar, len(closes))
	for i, c := range closes {
		bars[i] = models.Bar{
			Date:   base.AddDate(0, 0, i),
			Open:   c,
			High:   c + 1,
			Low:    c - 1,
			Close:  c,
			Volume: 10_000,
		}
	}
	return bars
}

func rampCloses(n int) []float64 {
	closes := make([]float64, n)
	for i := range closes {
		closes[i] = 100 + float64(i)
	}
	return closes
}

func TestSMA_KnownValues(t *testing.T) {
	bars := testBars([]float64{10, 20, 30, 40, 50})
	sma := NewSMA(3)

	values, err := sma.Calculate(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if !math.IsNaN(values[0]) || !math.IsNaN(values[1]) {
		t.Fatalf("expected NaN warmup, got %v", values[:2])
	}
	want := []float64{20, 30, 40}
	for i, w := range want {
		if math.Abs(values[i+2]-w) > 1e-9 {
			t.Fatalf("sma[%d] = %v, want %v", i+2, values[i+2], w)
		}
	}
}

func TestSMA_InsufficientData(t *testing.T) {
	bars := testBars([]float64{10, 20})
	if _, err := NewSMA(20).Calculate(bars); err == nil {
		t.Fatal("expected insufficient data error")
	}
}

func TestEMA_ConvergesTowardConstant(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 50
	}
	values, err := NewEMA(9).Calculate(testBars(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	last := values[len(values)-1]
	if math.Abs(last-50) > 1e-9 {
		t.Fatalf("EMA of a constant series must equal the constant, got %v", last)
	}
}

func TestRSI_Bounds(t *testing.T) {
	// Alternating up/down closes keep RSI interior; a pure ramp pins it
	// at 100.
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + float64(i%7)
	}
	values, err := NewRSI(14).Calculate(testBars(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < 0 || v > 100 {
			t.Fatalf("rsi[%d] = %v out of [0, 100]", i, v)
		}
	}

	ramp, err := NewRSI(14).Calculate(testBars(rampCloses(40)))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if last := ramp[len(ramp)-1]; math.Abs(last-100) > 1e-9 {
		t.Fatalf("RSI of a pure uptrend should be 100, got %v", last)
	}
}

func TestBollingerUpper_NotBelowSMA(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 5*math.Sin(float64(i)/3)
	}
	bars := testBars(closes)

	upper, err := NewBollingerUpper(20, 2.0).Calculate(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sma, err := NewSMA(20).Calculate(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for i := range upper {
		if math.IsNaN(upper[i]) || math.IsNaN(sma[i]) {
			continue
		}
		if upper[i] < sma[i] {
			t.Fatalf("upper band %v below SMA %v at %d", upper[i], sma[i], i)
		}
	}
}

func TestATR_NonNegative(t *testing.T) {
	closes := make([]float64, 60)
	for i := range closes {
		closes[i] = 100 + 3*math.Sin(float64(i)/2)
	}
	values, err := NewATR(14).Calculate(testBars(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	seen := false
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		seen = true
		if v < 0 {
			t.Fatalf("atr[%d] = %v is negative", i, v)
		}
	}
	if !seen {
		t.Fatal("expected at least one computed ATR value")
	}
}

func TestOBV_KnownValues(t *testing.T) {
	bars := testBars([]float64{10, 11, 11, 9, 12})
	values, err := NewOBV().Calculate(bars)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want := []float64{0, 10_000, 10_000, 0, 10_000}
	for i, w := range want {
		if values[i] != w {
			t.Fatalf("obv[%d] = %v, want %v", i, values[i], w)
		}
	}
}

func TestWilliamsR_Bounds(t *testing.T) {
	closes := make([]float64, 40)
	for i := range closes {
		closes[i] = 100 + float64(i%5)
	}
	values, err := NewWilliamsR(14).Calculate(testBars(closes))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i, v := range values {
		if math.IsNaN(v) {
			continue
		}
		if v < -100 || v > 0 {
			t.Fatalf("williams_r[%d] = %v out of [-100, 0]", i, v)
		}
	}
}

func TestEngine_ComputeSkipsStarvedIndicators(t *testing.T) {
	// 30 bars: enough for sma_20 but not sma_200 or adx.
	bars := testBars(rampCloses(30))
	engine := DefaultEngine(4)

	results := engine.Compute(context.Background(), bars, []string{"sma_20", "sma_200", "adx", "nonsense"})

	if _, ok := results["sma_20"]; !ok {
		t.Fatal("expected sma_20 in results")
	}
	if _, ok := results["sma_200"]; ok {
		t.Fatal("sma_200 should be absent with 30 bars")
	}
	if _, ok := results["adx"]; ok {
		t.Fatal("adx should be absent with 30 bars")
	}
	if _, ok := results["nonsense"]; ok {
		t.Fatal("unknown indicator names must be skipped")
	}
}

func TestEngine_ComputeAllReturnsEveryComputable(t *testing.T) {
	bars := testBars(rampCloses(250))
	engine := DefaultEngine(4)

	results := engine.ComputeAll(context.Background(), bars)
	for _, name := range engine.List() {
		values, ok := results[name]
		if !ok {
			t.Fatalf("expected %s with 250 bars", name)
		}
		if len(values) != len(bars) {
			t.Fatalf("%s returned %d values for %d bars", name, len(values), len(bars))
		}
	}
}

func TestEngine_RegisterReplaces(t *testing.T) {
	engine := NewEngine(2)
	engine.Register(NewSMA(20))
	engine.Register(NewSMA(20))
	if got := len(engine.List()); got != 1 {
		t.Fatalf("expected 1 registered indicator, got %d", got)
	}
}
