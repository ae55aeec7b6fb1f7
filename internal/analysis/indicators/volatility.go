package indicators

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/models"
)

// BollingerUpper calculates the upper Bollinger band (SMA + k standard
// deviations), the primary band series the service exposes.
type BollingerUpper struct {
	period int
	mult   float64
}

// NewBollingerUpper creates a new upper-band Bollinger indicator.
func NewBollingerUpper(period int, mult float64) *BollingerUpper {
	return &BollingerUpper{period: period, mult: mult}
}

func (b *BollingerUpper) Name() string {
	return "bollinger_bands"
}

func (b *BollingerUpper) MinBars() int {
	return b.period
}

func (b *BollingerUpper) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, b.MinBars()); err != nil {
		return nil, err
	}

	closes := closePrices(bars)
	result := nanSlice(len(bars))
	for i := b.period - 1; i < len(closes); i++ {
		window := closes[i-b.period+1 : i+1]
		result[i] = mean(window) + b.mult*stdDev(window)
	}
	return result, nil
}

// ATR calculates the Wilder-smoothed Average True Range.
type ATR struct {
	period int
}

// NewATR creates a new ATR indicator.
func NewATR(period int) *ATR {
	return &ATR{period: period}
}

func (a *ATR) Name() string {
	return "atr"
}

func (a *ATR) MinBars() int {
	return a.period + 1
}

func (a *ATR) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, a.MinBars()); err != nil {
		return nil, err
	}

	n := len(bars)
	tr := make([]float64, n)
	for i := 1; i < n; i++ {
		tr[i] = trueRange(bars[i], bars[i-1])
	}

	result := nanSlice(n)
	atr := mean(tr[1 : a.period+1])
	result[a.period] = atr
	for i := a.period + 1; i < n; i++ {
		atr = (atr*float64(a.period-1) + tr[i]) / float64(a.period)
		result[i] = atr
	}
	return result, nil
}

// ADX calculates the Average Directional Index.
type ADX struct {
	period int
}

// NewADX creates a new ADX indicator.
func NewADX(period int) *ADX {
	return &ADX{period: period}
}

func (a *ADX) Name() string {
	return "adx"
}

func (a *ADX) MinBars() int {
	return 2*a.period + 1
}

func (a *ADX) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, a.MinBars()); err != nil {
		return nil, err
	}

	n := len(bars)
	plusDM := make([]float64, n)
	minusDM := make([]float64, n)
	tr := make([]float64, n)

	for i := 1; i < n; i++ {
		upMove := bars[i].High - bars[i-1].High
		downMove := bars[i-1].Low - bars[i].Low
		if upMove > downMove && upMove > 0 {
			plusDM[i] = upMove
		}
		if downMove > upMove && downMove > 0 {
			minusDM[i] = downMove
		}
		tr[i] = trueRange(bars[i], bars[i-1])
	}

	// Wilder-smoothed sums.
	smTR := mean(tr[1:a.period+1]) * float64(a.period)
	smPlus := mean(plusDM[1:a.period+1]) * float64(a.period)
	smMinus := mean(minusDM[1:a.period+1]) * float64(a.period)

	dx := nanSlice(n)
	for i := a.period + 1; i < n; i++ {
		smTR = smTR - smTR/float64(a.period) + tr[i]
		smPlus = smPlus - smPlus/float64(a.period) + plusDM[i]
		smMinus = smMinus - smMinus/float64(a.period) + minusDM[i]

		if smTR == 0 {
			dx[i] = 0
			continue
		}
		plusDI := smPlus / smTR * 100
		minusDI := smMinus / smTR * 100
		sum := plusDI + minusDI
		if sum == 0 {
			dx[i] = 0
		} else {
			dx[i] = math.Abs(plusDI-minusDI) / sum * 100
		}
	}

	result := nanSlice(n)
	first := 2 * a.period
	if first >= n {
		return result, nil
	}
	adx := mean(dx[a.period+1 : first+1])
	result[first] = adx
	for i := first + 1; i < n; i++ {
		adx = (adx*float64(a.period-1) + dx[i]) / float64(a.period)
		result[i] = adx
	}
	return result, nil
}
