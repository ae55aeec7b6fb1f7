package patterns

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/jdemuth17/market-analysis/internal/analysis"
	apperrors "github.com/jdemuth17/market-analysis/internal/errors"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// Default analysis parameters.
const (
	DefaultLookbackDays = 120
	DefaultPivotOrder   = 5
)

// detectorFunc is a pure function from a shared window and pivot set to
// zero or more detected patterns.
type detectorFunc func(*PriceWindow, PivotSet) []analysis.DetectedPattern

// Config holds detection parameters.
type Config struct {
	LookbackDays int // trailing bars analyzed per window
	PivotOrder   int // symmetric comparison half-window for pivots
}

// Engine dispatches the requested pattern set against one price window.
// Pivots are computed once per window and shared across detectors. Each
// call is self-contained; an Engine is safe for concurrent use from
// multiple goroutines.
type Engine struct {
	cfg    Config
	logger zerolog.Logger
	table  map[analysis.PatternType]detectorFunc
}

// NewEngine creates a detection engine. Zero config fields fall back to
// the defaults (120-day lookback, pivot order 5).
func NewEngine(cfg Config, logger zerolog.Logger) *Engine {
	if cfg.LookbackDays <= 0 {
		cfg.LookbackDays = DefaultLookbackDays
	}
	if cfg.PivotOrder <= 0 {
		cfg.PivotOrder = DefaultPivotOrder
	}
	return &Engine{
		cfg:    cfg,
		logger: logger,
		table: map[analysis.PatternType]detectorFunc{
			analysis.DoubleTop:               detectDoubleTop,
			analysis.DoubleBottom:            detectDoubleBottom,
			analysis.HeadAndShoulders:        detectHeadAndShoulders,
			analysis.InverseHeadAndShoulders: detectInverseHeadAndShoulders,
			analysis.BullFlag:                detectBullFlag,
			analysis.BearFlag:                detectBearFlag,
			analysis.AscendingTriangle:       detectAscendingTriangle,
			analysis.DescendingTriangle:      detectDescendingTriangle,
			analysis.SymmetricalTriangle:     detectSymmetricalTriangle,
			analysis.RisingWedge:             detectRisingWedge,
			analysis.FallingWedge:            detectFallingWedge,
			analysis.Pennant:                 detectPennant,
			analysis.CupAndHandle:            detectCupAndHandle,
		},
	}
}

// Detect runs the requested detectors against the trailing lookback
// window of bars and returns the concatenated results. Malformed bars
// fail fast before any detector runs. A failure inside one detector is
// logged and yields zero patterns for its type without aborting the
// others: a missed pattern is preferable to aborting an entire scan.
func (e *Engine) Detect(bars []models.Bar, requested []analysis.PatternType) ([]analysis.DetectedPattern, error) {
	w, err := NewPriceWindow(bars, e.cfg.LookbackDays)
	if err != nil {
		return nil, err
	}
	return e.DetectWindow(w, requested), nil
}

// DetectWindow runs the requested detectors against an already-built
// window. Pivots are extracted once and shared.
func (e *Engine) DetectWindow(w *PriceWindow, requested []analysis.PatternType) []analysis.DetectedPattern {
	pv := FindPivots(w.High, w.Low, e.cfg.PivotOrder)

	var results []analysis.DetectedPattern
	for _, pt := range requested {
		fn, ok := e.table[pt]
		if !ok {
			e.logger.Warn().Str("pattern", string(pt)).Msg("Unknown pattern type requested")
			continue
		}
		detected := e.runDetector(pt, fn, w, pv)
		results = append(results, detected...)
	}
	return results
}

// runDetector isolates a single detector call so an unexpected fault in
// one detector cannot abort the rest of the scan.
func (e *Engine) runDetector(pt analysis.PatternType, fn detectorFunc, w *PriceWindow, pv PivotSet) (detected []analysis.DetectedPattern) {
	defer func() {
		if r := recover(); r != nil {
			err := apperrors.NewDetectorError(string(pt), w.Len(), fmt.Errorf("panic: %v", r))
			e.logger.Error().
				Err(err).
				Str("pattern", string(pt)).
				Msg("Pattern detector failed")
			detected = nil
		}
	}()
	return fn(w, pv)
}
