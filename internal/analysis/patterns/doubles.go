package patterns

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// detectDoubleTop finds two peaks at similar levels with a meaningful
// trough between them. Peaks must be within 3% of each other and at least
// 10 bars apart; the trough must sit at least 2% below the peak average.
func detectDoubleTop(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	if len(pv.HighIdx) < 2 {
		return results
	}

	const tolerance = 0.03

	for i := 0; i < len(pv.HighIdx)-1; i++ {
		for j := i + 1; j < len(pv.HighIdx); j++ {
			idx1, idx2 := pv.HighIdx[i], pv.HighIdx[j]
			peak1, peak2 := w.High[idx1], w.High[idx2]

			if math.Abs(peak1-peak2)/math.Max(peak1, peak2) > tolerance {
				continue
			}
			if idx2-idx1 < 10 {
				continue
			}

			// Lowest trough between the two peaks forms the neckline.
			troughRegion := w.Low[idx1 : idx2+1]
			troughIdx := idx1 + argMin(troughRegion)
			neckline := w.Low[troughIdx]

			avgPeak := (peak1 + peak2) / 2
			if (avgPeak-neckline)/avgPeak < 0.02 {
				continue
			}

			status := analysis.StatusForming
			for _, c := range w.Close[idx2:] {
				if c < neckline {
					status = analysis.StatusConfirmed
					break
				}
			}

			symmetry := 1 - math.Abs(peak1-peak2)/math.Max(peak1, peak2)/tolerance
			depth := math.Min((avgPeak-neckline)/avgPeak/0.10, 1.0)
			confidence := math.Min(symmetry*50+depth*50, 100)

			target := neckline - (avgPeak - neckline)

			results = append(results, analysis.DetectedPattern{
				Type:       analysis.DoubleTop,
				Direction:  analysis.Bearish,
				Confidence: round1(confidence),
				StartDate:  w.Date(idx1),
				EndDate:    w.Date(idx2 + 5),
				KeyLevels: map[string]float64{
					"resistance": round2(avgPeak),
					"neckline":   round2(neckline),
					"target":     round2(target),
				},
				Status: status,
			})
		}
	}

	if len(results) > 3 {
		results = results[:3]
	}
	return results
}

// detectDoubleBottom finds two troughs at similar levels with a meaningful
// peak between them; the mirror of detectDoubleTop.
func detectDoubleBottom(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	if len(pv.LowIdx) < 2 {
		return results
	}

	const tolerance = 0.03

	for i := 0; i < len(pv.LowIdx)-1; i++ {
		for j := i + 1; j < len(pv.LowIdx); j++ {
			idx1, idx2 := pv.LowIdx[i], pv.LowIdx[j]
			trough1, trough2 := w.Low[idx1], w.Low[idx2]

			if math.Abs(trough1-trough2)/math.Max(trough1, trough2) > tolerance {
				continue
			}
			if idx2-idx1 < 10 {
				continue
			}

			// Highest peak between the troughs forms the neckline.
			peakRegion := w.High[idx1 : idx2+1]
			peakIdx := idx1 + argMax(peakRegion)
			neckline := w.High[peakIdx]

			avgTrough := (trough1 + trough2) / 2
			if (neckline-avgTrough)/neckline < 0.02 {
				continue
			}

			status := analysis.StatusForming
			for _, c := range w.Close[idx2:] {
				if c > neckline {
					status = analysis.StatusConfirmed
					break
				}
			}

			symmetry := 1 - math.Abs(trough1-trough2)/math.Max(trough1, trough2)/tolerance
			depth := math.Min((neckline-avgTrough)/neckline/0.10, 1.0)
			confidence := math.Min(symmetry*50+depth*50, 100)

			target := neckline + (neckline - avgTrough)

			results = append(results, analysis.DetectedPattern{
				Type:       analysis.DoubleBottom,
				Direction:  analysis.Bullish,
				Confidence: round1(confidence),
				StartDate:  w.Date(idx1),
				EndDate:    w.Date(idx2 + 5),
				KeyLevels: map[string]float64{
					"support":  round2(avgTrough),
					"neckline": round2(neckline),
					"target":   round2(target),
				},
				Status: status,
			})
		}
	}

	if len(results) > 3 {
		results = results[:3]
	}
	return results
}
