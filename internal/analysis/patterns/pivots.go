package patterns

// PivotSet holds the local extrema of a price window. HighIdx and LowIdx
// are strictly increasing; HighVals and LowVals are aligned 1:1 with them.
// A bar on a flat plateau can appear in both sets; the two sets are
// extracted independently and detectors tolerate the overlap.
type PivotSet struct {
	HighIdx  []int
	HighVals []float64
	LowIdx   []int
	LowVals  []float64
}

// FindPivots identifies swing highs and lows using a symmetric comparison
// window: index i is a pivot high when high[i] >= every high within
// ±order bars (window clamped at the edges), and a pivot low when low[i]
// <= every low within ±order bars. Windows shorter than 2*order+1 bars
// yield empty sets since no index has a full comparison window.
func FindPivots(high, low []float64, order int) PivotSet {
	var pv PivotSet
	n := len(high)
	if order <= 0 || n < 2*order+1 {
		return pv
	}

	for i := 0; i < n; i++ {
		lo := i - order
		if lo < 0 {
			lo = 0
		}
		hi := i + order
		if hi > n-1 {
			hi = n - 1
		}

		isHigh := true
		for j := lo; j <= hi; j++ {
			if high[j] > high[i] {
				isHigh = false
				break
			}
		}
		if isHigh {
			pv.HighIdx = append(pv.HighIdx, i)
			pv.HighVals = append(pv.HighVals, high[i])
		}

		isLow := true
		for j := lo; j <= hi; j++ {
			if low[j] < low[i] {
				isLow = false
				break
			}
		}
		if isLow {
			pv.LowIdx = append(pv.LowIdx, i)
			pv.LowVals = append(pv.LowVals, low[i])
		}
	}

	return pv
}
