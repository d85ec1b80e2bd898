package models

import "time"

// PatternKind identifies a technical pattern type
type PatternKind string

const (
	PatternBullishMove PatternKind = "bullish_move"
	PatternBearishMove PatternKind = "bearish_move"
	PatternBreakout    PatternKind = "breakout"
	PatternReversal    PatternKind = "reversal"
)

// Direction represents price action direction
type Direction string

const (
	DirectionBullish Direction = "bullish"
	DirectionBearish Direction = "bearish"
	DirectionNeutral Direction = "neutral"
)

// Sign returns +1 for bullish, -1 for bearish, 0 for neutral
func (d Direction) Sign() int {
	switch d {
	case DirectionBullish:
		return 1
	case DirectionBearish:
		return -1
	}
	return 0
}

// TechnicalPattern is a detected price pattern attributed to an anchor date
// within the [Start, End] range. Magnitude is the absolute fractional price
// change that triggered detection (0.05 = 5%).
type TechnicalPattern struct {
	Kind      PatternKind `json:"kind"`
	Direction Direction   `json:"direction"`
	Anchor    time.Time   `json:"anchor"`
	Start     time.Time   `json:"start"`
	End       time.Time   `json:"end"`
	Magnitude float64     `json:"magnitude"`
}
