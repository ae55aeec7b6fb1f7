package indicators

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/models"
)

func closePrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Close
	}
	return prices
}

func highPrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.High
	}
	return prices
}

func lowPrices(bars []models.Bar) []float64 {
	prices := make([]float64, len(bars))
	for i, b := range bars {
		prices[i] = b.Low
	}
	return prices
}

func volumes(bars []models.Bar) []float64 {
	vols := make([]float64, len(bars))
	for i, b := range bars {
		vols[i] = b.Volume
	}
	return vols
}

// typicalPrice is (high + low + close) / 3.
func typicalPrice(b models.Bar) float64 {
	return (b.High + b.Low + b.Close) / 3
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// stdDev is the population standard deviation.
func stdDev(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := mean(values)
	var variance float64
	for _, v := range values {
		diff := v - m
		variance += diff * diff
	}
	variance /= float64(len(values))
	return math.Sqrt(variance)
}

// trueRange for a bar given the previous bar's close.
func trueRange(current, previous models.Bar) float64 {
	highLow := current.High - current.Low
	highClose := math.Abs(current.High - previous.Close)
	lowClose := math.Abs(current.Low - previous.Close)
	return math.Max(highLow, math.Max(highClose, lowClose))
}

// nanSlice returns a slice of length n filled with NaN. Warmup indices
// stay NaN so callers can distinguish "not yet computable" from a real
// zero value.
func nanSlice(n int) []float64 {
	s := make([]float64, n)
	for i := range s {
		s[i] = math.NaN()
	}
	return s
}

// smaSeries computes a simple moving average with NaN warmup.
func smaSeries(values []float64, period int) []float64 {
	result := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return result
	}
	var window float64
	for i, v := range values {
		window += v
		if i >= period {
			window -= values[i-period]
		}
		if i >= period-1 {
			result[i] = window / float64(period)
		}
	}
	return result
}

// emaSeries computes an exponential moving average seeded with the SMA of
// the first period values, with NaN warmup.
func emaSeries(values []float64, period int) []float64 {
	result := nanSlice(len(values))
	if period <= 0 || len(values) < period {
		return result
	}
	multiplier := 2.0 / float64(period+1)
	result[period-1] = mean(values[:period])
	for i := period; i < len(values); i++ {
		result[i] = (values[i]-result[i-1])*multiplier + result[i-1]
	}
	return result
}
