package patterns

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// pivotSlopes fits trendlines over the pivot highs and pivot lows and
// returns both slopes normalized by the window's price range. ok is false
// when there are too few pivots on either side or the window is flat
// (zero price range), in which case no slope-based pattern can exist.
func pivotSlopes(w *PriceWindow, pv PivotSet) (resNorm, supNorm float64, ok bool) {
	if len(pv.HighIdx) < 2 || len(pv.LowIdx) < 2 {
		return 0, 0, false
	}
	priceRange := w.PriceRange()
	if priceRange == 0 {
		return 0, 0, false
	}

	res := FitTrendline(pv.HighIdx, pv.HighVals)
	sup := FitTrendline(pv.LowIdx, pv.LowVals)
	n := w.Len()
	return NormalizeSlope(res.Slope, priceRange, n), NormalizeSlope(sup.Slope, priceRange, n), true
}

// patternSpan returns the start index covering the earliest pivot on
// either trendline.
func patternSpan(pv PivotSet) int {
	start := pv.HighIdx[0]
	if pv.LowIdx[0] < start {
		start = pv.LowIdx[0]
	}
	return start
}

// detectAscendingTriangle looks for a flat resistance line with rising
// support beneath it: normalized resistance slope within ±0.15, support
// slope above 0.05.
func detectAscendingTriangle(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	resNorm, supNorm, ok := pivotSlopes(w, pv)
	if !ok {
		return results
	}

	if math.Abs(resNorm) < 0.15 && supNorm > 0.05 {
		resistance := meanOf(pv.HighVals)
		if len(pv.HighVals) >= 3 {
			resistance = meanOf(pv.HighVals[len(pv.HighVals)-3:])
		}
		supportCurrent := pv.LowVals[len(pv.LowVals)-1]

		flatness := math.Max(0, 1-math.Abs(resNorm)/0.15) * 30
		rising := math.Min(supNorm/0.15, 1.0) * 30
		touchesRes := math.Min(float64(len(pv.HighIdx)), 4) / 4 * 20
		touchesSup := math.Min(float64(len(pv.LowIdx)), 4) / 4 * 20
		confidence := math.Min(flatness+rising+touchesRes+touchesSup, 100)

		if confidence >= 40 {
			target := resistance + (resistance - supportCurrent)
			results = append(results, analysis.DetectedPattern{
				Type:       analysis.AscendingTriangle,
				Direction:  analysis.Bullish,
				Confidence: round1(confidence),
				StartDate:  w.Date(patternSpan(pv)),
				EndDate:    w.Date(w.Len() - 1),
				KeyLevels: map[string]float64{
					"resistance": round2(resistance),
					"support":    round2(supportCurrent),
					"target":     round2(target),
				},
				Status: analysis.StatusForming,
			})
		}
	}

	return results
}

// detectDescendingTriangle looks for flat support under falling
// resistance; the bearish mirror of detectAscendingTriangle.
func detectDescendingTriangle(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	resNorm, supNorm, ok := pivotSlopes(w, pv)
	if !ok {
		return results
	}

	if resNorm < -0.05 && math.Abs(supNorm) < 0.15 {
		support := meanOf(pv.LowVals)
		if len(pv.LowVals) >= 3 {
			support = meanOf(pv.LowVals[len(pv.LowVals)-3:])
		}
		resistanceCurrent := pv.HighVals[len(pv.HighVals)-1]

		flatness := math.Max(0, 1-math.Abs(supNorm)/0.15) * 30
		falling := math.Min(math.Abs(resNorm)/0.15, 1.0) * 30
		touches := math.Min(float64(len(pv.HighIdx)+len(pv.LowIdx)), 8) / 8 * 40
		confidence := math.Min(flatness+falling+touches, 100)

		if confidence >= 40 {
			target := support - (resistanceCurrent - support)
			results = append(results, analysis.DetectedPattern{
				Type:       analysis.DescendingTriangle,
				Direction:  analysis.Bearish,
				Confidence: round1(confidence),
				StartDate:  w.Date(patternSpan(pv)),
				EndDate:    w.Date(w.Len() - 1),
				KeyLevels: map[string]float64{
					"support":    round2(support),
					"resistance": round2(resistanceCurrent),
					"target":     round2(target),
				},
				Status: analysis.StatusForming,
			})
		}
	}

	return results
}

// detectSymmetricalTriangle looks for falling highs converging with rising
// lows, both slopes beyond 0.05 in magnitude.
func detectSymmetricalTriangle(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	resNorm, supNorm, ok := pivotSlopes(w, pv)
	if !ok {
		return results
	}

	if resNorm < -0.05 && supNorm > 0.05 {
		resistanceCurrent := pv.HighVals[len(pv.HighVals)-1]
		supportCurrent := pv.LowVals[len(pv.LowVals)-1]

		converging := math.Min(math.Abs(resNorm)+math.Abs(supNorm), 1.0) * 40
		touches := math.Min(float64(len(pv.HighIdx)+len(pv.LowIdx)), 8) / 8 * 40
		symmetry := math.Max(0, 1-math.Abs(math.Abs(resNorm)-math.Abs(supNorm))/0.2) * 20
		confidence := math.Min(converging+touches+symmetry, 100)

		if confidence >= 40 {
			results = append(results, analysis.DetectedPattern{
				Type:       analysis.SymmetricalTriangle,
				Direction:  analysis.Neutral,
				Confidence: round1(confidence),
				StartDate:  w.Date(patternSpan(pv)),
				EndDate:    w.Date(w.Len() - 1),
				KeyLevels: map[string]float64{
					"resistance": round2(resistanceCurrent),
					"support":    round2(supportCurrent),
				},
				Status: analysis.StatusForming,
			})
		}
	}

	return results
}
