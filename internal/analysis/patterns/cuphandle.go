package patterns

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/analysis"
)

// detectCupAndHandle finds a U-shaped base (depth 5-50%, roughly
// symmetric arcs) recovering to within 5% of the rim, followed by a
// shallow handle pulling back no more than 15%.
func detectCupAndHandle(w *PriceWindow, pv PivotSet) []analysis.DetectedPattern {
	var results []analysis.DetectedPattern
	n := w.Len()
	if n < 30 {
		return results
	}

	for cupStart := 0; cupStart < n-30; cupStart += 5 {
		cupStartPrice := w.High[cupStart]

		searchEnd := cupStart + 60
		if searchEnd > n-10 {
			searchEnd = n - 10
		}
		if searchEnd <= cupStart {
			continue
		}
		cupRegion := w.Low[cupStart:searchEnd]
		cupBottomLocal := argMin(cupRegion)
		cupBottomIdx := cupStart + cupBottomLocal

		// Bottom too close to either rim means a V, not a cup.
		if cupBottomLocal < 5 || cupBottomLocal > len(cupRegion)-5 {
			continue
		}

		cupBottomPrice := w.Low[cupBottomIdx]
		cupDepthPct := (cupStartPrice - cupBottomPrice) / cupStartPrice
		if cupDepthPct < 0.05 || cupDepthPct > 0.50 {
			continue
		}

		// Right side: price recovering to near the starting level.
		rightSideEnd := cupBottomIdx + cupBottomLocal*2
		if rightSideEnd > n-1 {
			rightSideEnd = n - 1
		}
		if rightSideEnd <= cupBottomIdx+5 {
			continue
		}

		rightSide := w.High[cupBottomIdx : rightSideEnd+1]
		rimRecovery := maxOf(rightSide)
		if (cupStartPrice-rimRecovery)/cupStartPrice > 0.05 {
			continue
		}
		rimIdx := cupBottomIdx + argMax(rightSide)

		// Handle: small consolidation after the rim.
		handleEnd := rimIdx + 15
		if handleEnd > n-1 {
			handleEnd = n - 1
		}
		if handleEnd-rimIdx+1 < 3 {
			continue
		}
		handleDrop := (rimRecovery - minOf(w.Low[rimIdx:handleEnd+1])) / rimRecovery
		if handleDrop > 0.15 {
			continue
		}

		leftLength := cupBottomLocal
		rightLength := rimIdx - cupBottomIdx
		symmetry := 1 - math.Abs(float64(leftLength-rightLength))/math.Max(float64(leftLength), float64(rightLength))

		depthScore := math.Min(cupDepthPct/0.15, 1.0)
		confidence := math.Min(symmetry*35+depthScore*35+30, 100)
		if confidence < 40 {
			continue
		}

		target := rimRecovery + (rimRecovery - cupBottomPrice)

		results = append(results, analysis.DetectedPattern{
			Type:       analysis.CupAndHandle,
			Direction:  analysis.Bullish,
			Confidence: round1(confidence),
			StartDate:  w.Date(cupStart),
			EndDate:    w.Date(handleEnd),
			KeyLevels: map[string]float64{
				"rim":        round2(rimRecovery),
				"cup_bottom": round2(cupBottomPrice),
				"target":     round2(target),
			},
			Status: analysis.StatusForming,
		})
		break
	}

	if len(results) > 2 {
		results = results[:2]
	}
	return results
}
