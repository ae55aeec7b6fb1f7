// Package models provides domain models for the market analysis application.
package models

import (
	"time"
)

// Bar represents a single daily OHLCV bar.
type Bar struct {
	Date   time.Time
	Open   float64
	High   float64
	Low    float64
	Close  float64
	Volume float64
}

// PriceSeries holds raw price data for one symbol.
type PriceSeries struct {
	Symbol    string
	Bars      []Bar
	FetchedAt time.Time
}

// Last returns the most recent bar, or a zero Bar if the series is empty.
func (s *PriceSeries) Last() Bar {
	if len(s.Bars) == 0 {
		return Bar{}
	}
	return s.Bars[len(s.Bars)-1]
}

// Len returns the number of bars in the series.
func (s *PriceSeries) Len() int {
	return len(s.Bars)
}
