// Package store provides persistence for price data and detected
// patterns.
package store

import (
	"time"

	"github.com/jdemuth17/market-analysis/internal/analysis"
	"github.com/jdemuth17/market-analysis/internal/models"
)

// PatternRecord is a detected pattern persisted for a symbol.
type PatternRecord struct {
	ID         int64
	Symbol     string
	Pattern    analysis.DetectedPattern
	DetectedAt time.Time
}

// DataStore defines the interface for persistence operations.
type DataStore interface {
	// SaveBars upserts daily bars for a symbol.
	SaveBars(symbol string, bars []models.Bar) error

	// GetBars returns all stored bars for a symbol, date ascending.
	GetBars(symbol string) ([]models.Bar, error)

	// SavePatterns records detected patterns for a symbol.
	SavePatterns(symbol string, patterns []analysis.DetectedPattern) error

	// GetPatterns returns stored patterns for a symbol, most recent first.
	GetPatterns(symbol string, limit int) ([]PatternRecord, error)

	// Symbols returns the distinct symbols with stored bars.
	Symbols() ([]string, error)

	// Close closes the underlying database.
	Close() error
}
