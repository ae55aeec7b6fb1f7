package indicators

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/models"
)

// RSI calculates the Wilder-smoothed Relative Strength Index.
type RSI struct {
	period int
}

// NewRSI creates a new RSI indicator.
func NewRSI(period int) *RSI {
	return &RSI{period: period}
}

func (r *RSI) Name() string {
	return "rsi_14"
}

func (r *RSI) MinBars() int {
	return r.period + 1
}

func (r *RSI) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, r.MinBars()); err != nil {
		return nil, err
	}

	n := len(bars)
	closes := closePrices(bars)
	result := nanSlice(n)

	gains := make([]float64, n)
	losses := make([]float64, n)
	for i := 1; i < n; i++ {
		change := closes[i] - closes[i-1]
		if change > 0 {
			gains[i] = change
		} else {
			losses[i] = -change
		}
	}

	avgGain := mean(gains[1 : r.period+1])
	avgLoss := mean(losses[1 : r.period+1])
	result[r.period] = rsiValue(avgGain, avgLoss)

	for i := r.period + 1; i < n; i++ {
		avgGain = (avgGain*float64(r.period-1) + gains[i]) / float64(r.period)
		avgLoss = (avgLoss*float64(r.period-1) + losses[i]) / float64(r.period)
		result[i] = rsiValue(avgGain, avgLoss)
	}

	return result, nil
}

func rsiValue(avgGain, avgLoss float64) float64 {
	if avgLoss == 0 {
		return 100
	}
	rs := avgGain / avgLoss
	return 100 - 100/(1+rs)
}

// MACD calculates the MACD line (fast EMA minus slow EMA). The signal
// period is kept for completeness but the reported series is the MACD
// line itself, matching the primary series the service exposes.
type MACD struct {
	fast   int
	slow   int
	signal int
}

// NewMACD creates a new MACD indicator.
func NewMACD(fast, slow, signal int) *MACD {
	return &MACD{fast: fast, slow: slow, signal: signal}
}

func (m *MACD) Name() string {
	return "macd"
}

func (m *MACD) MinBars() int {
	return m.slow
}

func (m *MACD) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, m.MinBars()); err != nil {
		return nil, err
	}

	closes := closePrices(bars)
	fastEMA := emaSeries(closes, m.fast)
	slowEMA := emaSeries(closes, m.slow)

	result := nanSlice(len(bars))
	for i := range result {
		if !math.IsNaN(fastEMA[i]) && !math.IsNaN(slowEMA[i]) {
			result[i] = fastEMA[i] - slowEMA[i]
		}
	}
	return result, nil
}

// Stochastic calculates the smoothed %K line of the stochastic oscillator.
type Stochastic struct {
	kPeriod int
	smooth  int
}

// NewStochastic creates a new stochastic oscillator.
func NewStochastic(kPeriod, smooth int) *Stochastic {
	return &Stochastic{kPeriod: kPeriod, smooth: smooth}
}

func (s *Stochastic) Name() string {
	return "stochastic"
}

func (s *Stochastic) MinBars() int {
	return s.kPeriod + s.smooth
}

func (s *Stochastic) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, s.MinBars()); err != nil {
		return nil, err
	}

	n := len(bars)
	highs := highPrices(bars)
	lows := lowPrices(bars)
	closes := closePrices(bars)

	rawK := nanSlice(n)
	for i := s.kPeriod - 1; i < n; i++ {
		hh := maxOver(highs[i-s.kPeriod+1 : i+1])
		ll := minOver(lows[i-s.kPeriod+1 : i+1])
		if hh == ll {
			rawK[i] = 50 // flat window, midpoint
		} else {
			rawK[i] = (closes[i] - ll) / (hh - ll) * 100
		}
	}

	// Smooth raw %K over the smoothing period.
	result := nanSlice(n)
	for i := s.kPeriod + s.smooth - 2; i < n; i++ {
		result[i] = mean(rawK[i-s.smooth+1 : i+1])
	}
	return result, nil
}

// CCI calculates the Commodity Channel Index.
type CCI struct {
	period int
}

// NewCCI creates a new CCI indicator.
func NewCCI(period int) *CCI {
	return &CCI{period: period}
}

func (c *CCI) Name() string {
	return "cci"
}

func (c *CCI) MinBars() int {
	return c.period
}

func (c *CCI) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, c.MinBars()); err != nil {
		return nil, err
	}

	n := len(bars)
	tp := make([]float64, n)
	for i, b := range bars {
		tp[i] = typicalPrice(b)
	}

	result := nanSlice(n)
	for i := c.period - 1; i < n; i++ {
		window := tp[i-c.period+1 : i+1]
		sma := mean(window)
		var meanDev float64
		for _, v := range window {
			meanDev += math.Abs(v - sma)
		}
		meanDev /= float64(c.period)
		if meanDev == 0 {
			result[i] = 0
		} else {
			result[i] = (tp[i] - sma) / (0.015 * meanDev)
		}
	}
	return result, nil
}

// WilliamsR calculates Williams %R.
type WilliamsR struct {
	period int
}

// NewWilliamsR creates a new Williams %R indicator.
func NewWilliamsR(period int) *WilliamsR {
	return &WilliamsR{period: period}
}

func (w *WilliamsR) Name() string {
	return "williams_r"
}

func (w *WilliamsR) MinBars() int {
	return w.period
}

func (w *WilliamsR) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, w.MinBars()); err != nil {
		return nil, err
	}

	n := len(bars)
	highs := highPrices(bars)
	lows := lowPrices(bars)
	closes := closePrices(bars)

	result := nanSlice(n)
	for i := w.period - 1; i < n; i++ {
		hh := maxOver(highs[i-w.period+1 : i+1])
		ll := minOver(lows[i-w.period+1 : i+1])
		if hh == ll {
			result[i] = -50 // flat window, midpoint
		} else {
			result[i] = (hh - closes[i]) / (hh - ll) * -100
		}
	}
	return result, nil
}

func maxOver(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOver(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}
