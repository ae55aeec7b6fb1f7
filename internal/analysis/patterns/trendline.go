package patterns

// Trendline is a straight line fitted over (index, price) pairs.
type Trendline struct {
	Slope     float64
	Intercept float64
}

// FitTrendline computes the ordinary least-squares line minimizing squared
// vertical residuals. With fewer than two points it returns a degenerate
// flat line: slope 0 and intercept equal to the single price (or 0).
func FitTrendline(indices []int, prices []float64) Trendline {
	if len(indices) < 2 || len(prices) < 2 {
		if len(prices) > 0 {
			return Trendline{Slope: 0, Intercept: prices[0]}
		}
		return Trendline{}
	}

	n := float64(len(indices))
	var sumX, sumY, sumXY, sumXX float64
	for i, idx := range indices {
		x := float64(idx)
		y := prices[i]
		sumX += x
		sumY += y
		sumXY += x * y
		sumXX += x * x
	}

	denom := n*sumXX - sumX*sumX
	if denom == 0 {
		return Trendline{Slope: 0, Intercept: sumY / n}
	}

	slope := (n*sumXY - sumX*sumY) / denom
	intercept := (sumY - slope*sumX) / n
	return Trendline{Slope: slope, Intercept: intercept}
}

// fitOverRange fits a trendline over consecutive x values 0..len(prices)-1.
func fitOverRange(prices []float64) Trendline {
	indices := make([]int, len(prices))
	for i := range indices {
		indices[i] = i
	}
	return FitTrendline(indices, prices)
}

// NormalizeSlope converts a raw per-bar slope into a scale-invariant value
// by dividing by the window's price range and scaling by the bar count.
// This makes the rising/falling/flat thresholds comparable regardless of
// absolute price level or window length. Callers must guard priceRange > 0.
func NormalizeSlope(slope, priceRange float64, nBars int) float64 {
	return slope / priceRange * float64(nBars)
}

// ValueAt evaluates the line at x.
func (t Trendline) ValueAt(x float64) float64 {
	return t.Slope*x + t.Intercept
}
