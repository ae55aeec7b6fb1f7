// Package indicators provides technical indicator calculations with
// parallel computation over a registered indicator set.
package indicators

import (
	"context"
	"sort"
	"sync"

	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// Indicator defines the interface for technical indicators. Calculate
// returns one value per input bar, with NaN for warmup indices.
type Indicator interface {
	Name() string
	MinBars() int
	Calculate(bars []models.Bar) ([]float64, error)
}

// Engine computes registered indicators over a bar series using a small
// worker pool. Failures are isolated per indicator: a failing or
// data-starved indicator is simply absent from the result map.
type Engine struct {
	workers    int
	mu         sync.RWMutex
	indicators map[string]Indicator
}

// NewEngine creates an empty engine with the given worker count.
func NewEngine(workers int) *Engine {
	if workers <= 0 {
		workers = 4
	}
	return &Engine{
		workers:    workers,
		indicators: make(map[string]Indicator),
	}
}

// DefaultEngine returns an engine with the standard indicator set
// registered: SMA 20/50/200, EMA 9/21/50, RSI 14, MACD(12,26,9),
// Bollinger(20,2) upper band, ADX 14, Stochastic(14,3), CCI 20,
// Williams %R 14, ATR 14, OBV, VWAP and volume SMA 20.
func DefaultEngine(workers int) *Engine {
	e := NewEngine(workers)
	for _, ind := range []Indicator{
		NewSMA(20),
		NewSMA(50),
		NewSMA(200),
		NewEMA(9),
		NewEMA(21),
		NewEMA(50),
		NewRSI(14),
		NewMACD(12, 26, 9),
		NewBollingerUpper(20, 2.0),
		NewADX(14),
		NewStochastic(14, 3),
		NewCCI(20),
		NewWilliamsR(14),
		NewATR(14),
		NewOBV(),
		NewVWAP(),
		NewVolumeSMA(20),
	} {
		e.Register(ind)
	}
	return e
}

// Register adds an indicator to the engine, replacing any existing
// indicator with the same name.
func (e *Engine) Register(ind Indicator) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.indicators[ind.Name()] = ind
}

// Lookup returns the registered indicator with the given name.
func (e *Engine) Lookup(name string) (Indicator, error) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	ind, ok := e.indicators[name]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrUnknownIndicator, "%q", name)
	}
	return ind, nil
}

// List returns the registered indicator names in sorted order.
func (e *Engine) List() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	names := make([]string, 0, len(e.indicators))
	for name := range e.indicators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Compute calculates the named indicators in parallel. Unknown names and
// indicators that fail (e.g. insufficient data) are skipped; the caller
// gets whatever could be computed.
func (e *Engine) Compute(ctx context.Context, bars []models.Bar, names []string) map[string][]float64 {
	e.mu.RLock()
	selected := make([]Indicator, 0, len(names))
	for _, name := range names {
		if ind, ok := e.indicators[name]; ok {
			selected = append(selected, ind)
		}
	}
	e.mu.RUnlock()

	results := make(map[string][]float64, len(selected))
	var mu sync.Mutex
	var wg sync.WaitGroup

	work := make(chan Indicator, len(selected))

	for i := 0; i < e.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for ind := range work {
				select {
				case <-ctx.Done():
					return
				default:
					values, err := ind.Calculate(bars)
					if err == nil {
						mu.Lock()
						results[ind.Name()] = values
						mu.Unlock()
					}
				}
			}
		}()
	}

	for _, ind := range selected {
		work <- ind
	}
	close(work)

	wg.Wait()
	return results
}

// ComputeAll calculates every registered indicator.
func (e *Engine) ComputeAll(ctx context.Context, bars []models.Bar) map[string][]float64 {
	return e.Compute(ctx, bars, e.List())
}

// requireBars is the common insufficient-data check.
func requireBars(bars []models.Bar, minBars int) error {
	if len(bars) < minBars {
		return apperrors.ErrInsufficientData
	}
	return nil
}
