package patterns

import (
	"math"
	"sort"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// detectFlag finds a strong directional move (pole) followed by a tight
// counter-trend consolidation channel. The pole search is a greedy scan:
// pole starts advance in strides of 3 bars and the first valid
// consolidation per pole start wins.
func detectFlag(w *PriceWindow, pv PivotSet, bullish bool) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern

	const (
		minPoleBars    = 5
		minFlagBars    = 5
		maxFlagBars    = 25
		minPoleMovePct = 0.05
	)

	n := w.Len()

	for poleStart := 0; poleStart < n-minPoleBars-minFlagBars; poleStart += 3 {
		poleEndLimit := poleStart + 30
		if poleEndLimit > n-minFlagBars {
			poleEndLimit = n - minFlagBars
		}

		for poleEnd := poleStart + minPoleBars; poleEnd < poleEndLimit; poleEnd++ {
			poleMove := (w.Close[poleEnd] - w.Close[poleStart]) / w.Close[poleStart]

			if bullish && poleMove < minPoleMovePct {
				continue
			}
			if !bullish && poleMove > -minPoleMovePct {
				continue
			}

			flagEnd := poleEnd + maxFlagBars
			if flagEnd > n-1 {
				flagEnd = n - 1
			}
			flagRegion := w.Close[poleEnd : flagEnd+1]
			if len(flagRegion) < minFlagBars {
				continue
			}

			flagRange := maxOf(w.High[poleEnd:flagEnd+1]) - minOf(w.Low[poleEnd:flagEnd+1])
			poleHeight := math.Abs(w.Close[poleEnd] - w.Close[poleStart])
			if poleHeight == 0 {
				continue
			}
			if flagRange/poleHeight > 0.50 {
				continue
			}

			// Flag must drift against the pole, or sideways.
			flagSlope := fitOverRange(flagRegion).Slope
			if bullish && flagSlope > 0 {
				continue
			}
			if !bullish && flagSlope < 0 {
				continue
			}

			poleVolAvg := meanOf(w.Volume[poleStart : poleEnd+1])
			flagVolAvg := meanOf(w.Volume[poleEnd : flagEnd+1])
			volDecrease := flagVolAvg < poleVolAvg

			tightness := 1 - math.Min(flagRange/poleHeight/0.50, 1.0)
			poleStrength := math.Min(math.Abs(poleMove)/minPoleMovePct/2, 1.0)
			volScore := 0.4
			if volDecrease {
				volScore = 0.8
			}
			confidence := math.Min(tightness*30+poleStrength*40+volScore*30, 100)
			if confidence < 40 {
				continue
			}

			patternType := analysis.BullFlag
			direction := analysis.Bullish
			target := w.Close[flagEnd] + poleHeight
			if !bullish {
				patternType = analysis.BearFlag
				direction = analysis.Bearish
				target = w.Close[flagEnd] - poleHeight
			}

			results = append(results, analysis.DetectedPattern{
				Type:       patternType,
				Direction:  direction,
				Confidence: round1(confidence),
				StartDate:  w.Date(poleStart),
				EndDate:    w.Date(flagEnd),
				KeyLevels: map[string]float64{
					"pole_start": round2(w.Close[poleStart]),
					"pole_end":   round2(w.Close[poleEnd]),
					"flag_high":  round2(maxOf(w.High[poleEnd : flagEnd+1])),
					"flag_low":   round2(minOf(w.Low[poleEnd : flagEnd+1])),
					"target":     round2(target),
				},
				Status: analysis.StatusForming,
			})

			// First valid flag for this pole start wins.
			break
		}
	}

	sort.SliceStable(results, func(i, j int) bool {
		return results[i].Confidence > results[j].Confidence
	})
	if len(results) > 3 {
		results = results[:3]
	}
	return results
}

func detectBullFlag(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	return detectFlag(w, pv, true)
}

func detectBearFlag(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	return detectFlag(w, pv, false)
}
