package patterns

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// detectHeadAndShoulders finds three consecutive peaks where the middle
// one (head) is highest and the outer shoulders sit within 5% of each
// other. The head must clear the shoulder average by at least 2%.
func detectHeadAndShoulders(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	if len(pv.HighIdx) < 3 {
		return results
	}

	for i := 0; i < len(pv.HighIdx)-2; i++ {
		idxLS, idxH, idxRS := pv.HighIdx[i], pv.HighIdx[i+1], pv.HighIdx[i+2]
		ls, h, rs := w.High[idxLS], w.High[idxH], w.High[idxRS]

		if h <= ls || h <= rs {
			continue
		}
		if math.Abs(ls-rs)/math.Max(ls, rs) > 0.05 {
			continue
		}
		avgShoulder := (ls + rs) / 2
		if (h-avgShoulder)/h < 0.02 {
			continue
		}

		// Neckline: average of the lows between shoulder-head and head-shoulder.
		necklineLeft := w.Low[idxLS+argMin(w.Low[idxLS:idxH+1])]
		necklineRight := w.Low[idxH+argMin(w.Low[idxH:idxRS+1])]
		neckline := (necklineLeft + necklineRight) / 2

		status := analysis.StatusForming
		for _, c := range w.Close[idxRS:] {
			if c < neckline {
				status = analysis.StatusConfirmed
				break
			}
		}

		shoulderSymmetry := 1 - math.Abs(ls-rs)/math.Max(ls, rs)/0.05
		headProminence := math.Min((h-avgShoulder)/h/0.05, 1.0)
		confidence := math.Min(shoulderSymmetry*40+headProminence*40+20, 100)

		target := neckline - (h - neckline)

		results = append(results, analysis.DetectedPattern{
			Type:       analysis.HeadAndShoulders,
			Direction:  analysis.Bearish,
			Confidence: round1(confidence),
			StartDate:  w.Date(idxLS),
			EndDate:    w.Date(idxRS + 5),
			KeyLevels: map[string]float64{
				"left_shoulder":  round2(ls),
				"head":           round2(h),
				"right_shoulder": round2(rs),
				"neckline":       round2(neckline),
				"target":         round2(target),
			},
			Status: status,
		})
	}

	if len(results) > 2 {
		results = results[:2]
	}
	return results
}

// detectInverseHeadAndShoulders finds three consecutive troughs where the
// middle one is lowest; the bullish mirror of detectHeadAndShoulders.
func detectInverseHeadAndShoulders(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	if len(pv.LowIdx) < 3 {
		return results
	}

	for i := 0; i < len(pv.LowIdx)-2; i++ {
		idxLS, idxH, idxRS := pv.LowIdx[i], pv.LowIdx[i+1], pv.LowIdx[i+2]
		ls, h, rs := w.Low[idxLS], w.Low[idxH], w.Low[idxRS]

		if h >= ls || h >= rs {
			continue
		}
		if math.Abs(ls-rs)/math.Max(ls, rs) > 0.05 {
			continue
		}
		avgShoulder := (ls + rs) / 2
		if (avgShoulder-h)/avgShoulder < 0.02 {
			continue
		}

		// Neckline from the peaks between the shoulders.
		necklineLeft := w.High[idxLS+argMax(w.High[idxLS:idxH+1])]
		necklineRight := w.High[idxH+argMax(w.High[idxH:idxRS+1])]
		neckline := (necklineLeft + necklineRight) / 2

		status := analysis.StatusForming
		for _, c := range w.Close[idxRS:] {
			if c > neckline {
				status = analysis.StatusConfirmed
				break
			}
		}

		shoulderSymmetry := 1 - math.Abs(ls-rs)/math.Max(ls, rs)/0.05
		headProminence := math.Min((avgShoulder-h)/avgShoulder/0.05, 1.0)
		confidence := math.Min(shoulderSymmetry*40+headProminence*40+20, 100)

		target := neckline + (neckline - h)

		results = append(results, analysis.DetectedPattern{
			Type:       analysis.InverseHeadAndShoulders,
			Direction:  analysis.Bullish,
			Confidence: round1(confidence),
			StartDate:  w.Date(idxLS),
			EndDate:    w.Date(idxRS + 5),
			KeyLevels: map[string]float64{
				"left_shoulder":  round2(ls),
				"head":           round2(h),
				"right_shoulder": round2(rs),
				"neckline":       round2(neckline),
				"target":         round2(target),
			},
			Status: status,
		})
	}

	if len(results) > 2 {
		results = results[:2]
	}
	return results
}
