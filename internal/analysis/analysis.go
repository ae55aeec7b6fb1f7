// Package analysis provides the shared value types for technical analysis:
// pattern enumerations, detected-pattern records and direction/status tags.
package analysis

import (
	"time"
)

// PatternType identifies a chart pattern kind.
type PatternType string

const (
	DoubleTop               PatternType = "double_top"
	DoubleBottom            PatternType = "double_bottom"
	HeadAndShoulders        PatternType = "head_and_shoulders"
	InverseHeadAndShoulders PatternType = "inverse_head_and_shoulders"
	BullFlag                PatternType = "bull_flag"
	BearFlag                PatternType = "bear_flag"
	AscendingTriangle       PatternType = "ascending_triangle"
	DescendingTriangle      PatternType = "descending_triangle"
	SymmetricalTriangle     PatternType = "symmetrical_triangle"
	RisingWedge             PatternType = "rising_wedge"
	FallingWedge            PatternType = "falling_wedge"
	Pennant                 PatternType = "pennant"
	CupAndHandle            PatternType = "cup_and_handle"
)

// AllPatternTypes returns every supported pattern type in a stable order.
func AllPatternTypes() []PatternType {
	return []PatternType{
		DoubleTop,
		DoubleBottom,
		HeadAndShoulders,
		InverseHeadAndShoulders,
		BullFlag,
		BearFlag,
		AscendingTriangle,
		DescendingTriangle,
		SymmetricalTriangle,
		RisingWedge,
		FallingWedge,
		Pennant,
		CupAndHandle,
	}
}

// ParsePatternType converts a string tag to a PatternType.
func ParsePatternType(s string) (PatternType, bool) {
	pt := PatternType(s)
	for _, known := range AllPatternTypes() {
		if pt == known {
			return pt, true
		}
	}
	return "", false
}

// Direction represents the expected price direction implied by a pattern.
type Direction string

const (
	Bullish Direction = "bullish"
	Bearish Direction = "bearish"
	Neutral Direction = "neutral"
)

// PatternStatus represents the lifecycle stage of a detected pattern.
type PatternStatus string

const (
	// StatusForming means the geometry is present but price has not yet
	// closed beyond the confirmation level.
	StatusForming PatternStatus = "forming"
	// StatusConfirmed means price closed beyond the neckline/boundary
	// after the pattern's defining points.
	StatusConfirmed PatternStatus = "confirmed"
	// StatusFailed means the pattern invalidated after confirmation.
	// Detectors never emit it; it exists so stored detections whose
	// status was updated after the fact decode losslessly.
	StatusFailed PatternStatus = "failed"
)

// DetectedPattern is a single pattern occurrence found in a price window.
// Confidence is clamped to [0, 100]. KeyLevels holds pattern-specific named
// price points (resistance, support, neckline, target, head, rim, ...).
type DetectedPattern struct {
	Type       PatternType
	Direction  Direction
	Confidence float64
	StartDate  time.Time
	EndDate    time.Time
	KeyLevels  map[string]float64
	Status     PatternStatus
	Metadata   map[string]interface{}
}
