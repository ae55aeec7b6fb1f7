package patterns

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// detectRisingWedge looks for both trendlines rising with support climbing
// faster than resistance, so the channel narrows on the way up. Bearish
// despite the upward drift.
func detectRisingWedge(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	resNorm, supNorm, ok := pivotSlopes(w, pv)
	if !ok {
		return results
	}

	if resNorm > 0.03 && supNorm > 0.03 && supNorm > resNorm {
		resistanceCurrent := pv.HighVals[len(pv.HighVals)-1]
		supportCurrent := pv.LowVals[len(pv.LowVals)-1]

		bothRising := math.Min((resNorm+supNorm)/0.2, 1.0) * 40
		converging := math.Min((supNorm-resNorm)/0.1, 1.0) * 30
		touches := math.Min(float64(len(pv.HighIdx)+len(pv.LowIdx)), 6) / 6 * 30
		confidence := math.Min(bothRising+converging+touches, 100)

		if confidence >= 40 {
			results = append(results, analysis.DetectedPattern{
				Type:       analysis.RisingWedge,
				Direction:  analysis.Bearish,
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

// detectFallingWedge looks for both trendlines falling with resistance
// dropping faster than support. Bullish despite the downward drift.
func detectFallingWedge(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	resNorm, supNorm, ok := pivotSlopes(w, pv)
	if !ok {
		return results
	}

	if resNorm < -0.03 && supNorm < -0.03 && resNorm < supNorm {
		resistanceCurrent := pv.HighVals[len(pv.HighVals)-1]
		supportCurrent := pv.LowVals[len(pv.LowVals)-1]

		bothFalling := math.Min((math.Abs(resNorm)+math.Abs(supNorm))/0.2, 1.0) * 40
		converging := math.Min((math.Abs(resNorm)-math.Abs(supNorm))/0.1, 1.0) * 30
		touches := math.Min(float64(len(pv.HighIdx)+len(pv.LowIdx)), 6) / 6 * 30
		confidence := math.Min(bothFalling+converging+touches, 100)

		if confidence >= 40 {
			results = append(results, analysis.DetectedPattern{
				Type:       analysis.FallingWedge,
				Direction:  analysis.Bullish,
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
