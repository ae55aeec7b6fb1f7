package indicators

import (
	"math"

	"github.com/jdemuth17/market-analysis/internal/models"
)

// OBV calculates On-Balance Volume.
type OBV struct{}

// NewOBV creates a new OBV indicator.
func NewOBV() *OBV {
	return &OBV{}
}

func (o *OBV) Name() string {
	return "obv"
}

func (o *OBV) MinBars() int {
	return 2
}

func (o *OBV) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, o.MinBars()); err != nil {
		return nil, err
	}

	result := make([]float64, len(bars))
	for i := 1; i < len(bars); i++ {
		switch {
		case bars[i].Close > bars[i-1].Close:
			result[i] = result[i-1] + bars[i].Volume
		case bars[i].Close < bars[i-1].Close:
			result[i] = result[i-1] - bars[i].Volume
		default:
			result[i] = result[i-1]
		}
	}
	return result, nil
}

// VWAP calculates the cumulative volume-weighted average price over the
// series.
type VWAP struct{}

// NewVWAP creates a new VWAP indicator.
func NewVWAP() *VWAP {
	return &VWAP{}
}

func (v *VWAP) Name() string {
	return "vwap"
}

func (v *VWAP) MinBars() int {
	return 1
}

func (v *VWAP) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, v.MinBars()); err != nil {
		return nil, err
	}

	result := make([]float64, len(bars))
	var cumPV, cumVol float64
	for i, b := range bars {
		cumPV += typicalPrice(b) * b.Volume
		cumVol += b.Volume
		if cumVol == 0 {
			result[i] = math.NaN()
		} else {
			result[i] = cumPV / cumVol
		}
	}
	return result, nil
}
