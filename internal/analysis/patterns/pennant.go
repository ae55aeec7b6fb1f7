package patterns

import (
	"math"
	"sort"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// detectPennant finds a strong move followed by a small symmetrical
// triangle: highs falling, lows rising, total range at most 40% of the
// pole height. Like the flag search this is a greedy scan; pole starts
// advance in strides of 5 and the first valid pennant per start wins.
func detectPennant(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern

	const (
		minPoleBars    = 5
		minPennantBars = 5
	)

	n := w.Len()

	for poleStart := 0; poleStart < n-minPoleBars-minPennantBars; poleStart += 5 {
		poleEndLimit := poleStart + 20
		if poleEndLimit > n-minPennantBars {
			poleEndLimit = n - minPennantBars
		}

		for poleEnd := poleStart + minPoleBars; poleEnd < poleEndLimit; poleEnd++ {
			poleMovePct := (w.Close[poleEnd] - w.Close[poleStart]) / w.Close[poleStart]
			if math.Abs(poleMovePct) < 0.05 {
				continue
			}

			bullish := poleMovePct > 0

			pennantEnd := poleEnd + 20
			if pennantEnd > n-1 {
				pennantEnd = n - 1
			}
			pennantHighs := w.High[poleEnd : pennantEnd+1]
			pennantLows := w.Low[poleEnd : pennantEnd+1]
			if len(pennantHighs) < minPennantBars {
				continue
			}

			highSlope := fitOverRange(pennantHighs).Slope
			lowSlope := fitOverRange(pennantLows).Slope
			if highSlope >= 0 || lowSlope <= 0 {
				continue
			}

			pennantRange := maxOf(pennantHighs) - minOf(pennantLows)
			poleHeight := math.Abs(w.Close[poleEnd] - w.Close[poleStart])
			if pennantRange/poleHeight > 0.40 {
				continue
			}

			tightness := 1 - pennantRange/poleHeight/0.40
			poleStrength := math.Min(math.Abs(poleMovePct)/0.10, 1.0)
			confidence := math.Min(tightness*40+poleStrength*40+20, 100)
			if confidence < 40 {
				continue
			}

			direction := analysis.Bullish
			target := w.Close[pennantEnd] + poleHeight
			if !bullish {
				direction = analysis.Bearish
				target = w.Close[pennantEnd] - poleHeight
			}

			results = append(results, analysis.DetectedPattern{
				Type:       analysis.Pennant,
				Direction:  direction,
				Confidence: round1(confidence),
				StartDate:  w.Date(poleStart),
				EndDate:    w.Date(pennantEnd),
				KeyLevels: map[string]float64{
					"pole_start": round2(w.Close[poleStart]),
					"pole_end":   round2(w.Close[poleEnd]),
					"target":     round2(target),
				},
				Status: analysis.StatusForming,
			})
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
