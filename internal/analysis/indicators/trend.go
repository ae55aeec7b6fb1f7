package indicators

import (
	"fmt"

	"github.com/jdemuth17/market-analysis/internal/models"
)

// SMA calculates the simple moving average of closing prices.
type SMA struct {
	period int
}

// NewSMA creates a new SMA indicator.
func NewSMA(period int) *SMA {
	return &SMA{period: period}
}

func (s *SMA) Name() string {
	return fmt.Sprintf("sma_%d", s.period)
}

func (s *SMA) MinBars() int {
	return s.period
}

func (s *SMA) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, s.MinBars()); err != nil {
		return nil, err
	}
	return smaSeries(closePrices(bars), s.period), nil
}

// EMA calculates the exponential moving average of closing prices.
type EMA struct {
	period int
}

// NewEMA creates a new EMA indicator.
func NewEMA(period int) *EMA {
	return &EMA{period: period}
}

func (e *EMA) Name() string {
	return fmt.Sprintf("ema_%d", e.period)
}

func (e *EMA) MinBars() int {
	return e.period
}

func (e *EMA) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, e.MinBars()); err != nil {
		return nil, err
	}
	return emaSeries(closePrices(bars), e.period), nil
}

// VolumeSMA calculates the simple moving average of volume.
type VolumeSMA struct {
	period int
}

// NewVolumeSMA creates a new volume SMA indicator.
func NewVolumeSMA(period int) *VolumeSMA {
	return &VolumeSMA{period: period}
}

func (v *VolumeSMA) Name() string {
	return "volume_sma"
}

func (v *VolumeSMA) MinBars() int {
	return v.period
}

func (v *VolumeSMA) Calculate(bars []models.Bar) ([]float64, error) {
	if err := requireBars(bars, v.MinBars()); err != nil {
		return nil, err
	}
	return smaSeries(volumes(bars), v.period), nil
}
