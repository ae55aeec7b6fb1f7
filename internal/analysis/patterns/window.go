// Package patterns provides chart pattern detection using pivot-point
// extraction and geometric rule validation.
package patterns

import (
	"math"
	"time"

	"github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// PriceWindow is an immutable view over a trimmed, validated bar sequence.
// All slices are positionally aligned 1:1 with Dates.
type PriceWindow struct {
	Dates  []time.Time
	Open   []float64
	High   []float64
	Low    []float64
	Close  []float64
	Volume []float64
}

// NewPriceWindow builds a window over the trailing lookback bars and
// validates them. Bars inside the window must be strictly ascending by
// date with positive prices; anything else fails fast with
// ErrMalformedBars since every detector depends on the same well-formed
// arrays. Bars older than the lookback horizon are discarded before
// validation and never inspected.
func NewPriceWindow(bars []models.Bar, lookback int) (*PriceWindow, error) {
	if len(bars) == 0 {
		return nil, errors.Wrap(errors.ErrMalformedBars, "no bars supplied")
	}
	if lookback <= 0 {
		return nil, errors.Wrap(errors.ErrMalformedBars, "lookback must be positive")
	}

	if len(bars) > lookback {
		bars = bars[len(bars)-lookback:]
	}

	for i, b := range bars {
		if b.Open <= 0 || b.High <= 0 || b.Low <= 0 || b.Close <= 0 {
			return nil, errors.Wrapf(errors.ErrMalformedBars, "non-positive price at bar %d", i)
		}
		if b.Volume < 0 {
			return nil, errors.Wrapf(errors.ErrMalformedBars, "negative volume at bar %d", i)
		}
		if math.IsNaN(b.Open) || math.IsNaN(b.High) || math.IsNaN(b.Low) || math.IsNaN(b.Close) {
			return nil, errors.Wrapf(errors.ErrMalformedBars, "NaN price at bar %d", i)
		}
		if i > 0 && !bars[i-1].Date.Before(b.Date) {
			return nil, errors.Wrapf(errors.ErrMalformedBars, "dates not strictly ascending at bar %d", i)
		}
	}

	n := len(bars)
	w := &PriceWindow{
		Dates:  make([]time.Time, n),
		Open:   make([]float64, n),
		High:   make([]float64, n),
		Low:    make([]float64, n),
		Close:  make([]float64, n),
		Volume: make([]float64, n),
	}
	for i, b := range bars {
		w.Dates[i] = b.Date
		w.Open[i] = b.Open
		w.High[i] = b.High
		w.Low[i] = b.Low
		w.Close[i] = b.Close
		w.Volume[i] = b.Volume
	}
	return w, nil
}

// Len returns the number of bars in the window.
func (w *PriceWindow) Len() int {
	return len(w.Close)
}

// Date returns the date at index i, clamped to the window bounds.
func (w *PriceWindow) Date(i int) time.Time {
	if i < 0 {
		i = 0
	}
	if i >= len(w.Dates) {
		i = len(w.Dates) - 1
	}
	return w.Dates[i]
}

// PriceRange returns the max high minus min low over the full window.
func (w *PriceWindow) PriceRange() float64 {
	return maxOf(w.High) - minOf(w.Low)
}

func maxOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

func minOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

// argMax returns the index of the maximum value.
func argMax(values []float64) int {
	idx := 0
	for i, v := range values {
		if v > values[idx] {
			idx = i
		}
	}
	return idx
}

// argMin returns the index of the minimum value.
func argMin(values []float64) int {
	idx := 0
	for i, v := range values {
		if v < values[idx] {
			idx = i
		}
	}
	return idx
}

func meanOf(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var total float64
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

// round1 rounds to one decimal place (confidence values).
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// round2 rounds to two decimal places (price levels).
func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
