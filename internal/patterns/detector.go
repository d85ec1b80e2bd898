package patterns

import (
	"math"
	"sort"
	"time"

	"github.com/cinar/indicator"
	"go.uber.org/zap"

	"github.com/dsokolov/newslens/pkg/logger"
	"github.com/dsokolov/newslens/pkg/models"
)

// Config holds pattern detection windows and thresholds.
// Thresholds are fractional price changes (0.05 = 5%).
type Config struct {
	MoveWindow        int     // days for cumulative move measurement
	MoveThreshold     float64 // minimum |change| over the move window
	BreakoutWindow    int     // preceding days whose max/min a breakout must clear
	BreakoutThreshold float64 // minimum clearance beyond the window extreme
	ReversalRunLength int     // minimum directional run before a pivot
	ReversalThreshold float64 // minimum counter-move after the pivot
}

// DefaultConfig returns the documented default detection parameters
func DefaultConfig() Config {
	return Config{
		MoveWindow:        5,
		MoveThreshold:     0.05,
		BreakoutWindow:    10,
		BreakoutThreshold: 0.02,
		ReversalRunLength: 3,
		ReversalThreshold: 0.02,
	}
}

// Validate checks windows and thresholds
func (c Config) Validate() error {
	if c.MoveWindow < 1 {
		return &models.ConfigurationError{Field: "MoveWindow", Reason: "must be at least 1 day"}
	}
	if c.MoveThreshold <= 0 {
		return &models.ConfigurationError{Field: "MoveThreshold", Reason: "must be positive"}
	}
	if c.BreakoutWindow < 2 {
		return &models.ConfigurationError{Field: "BreakoutWindow", Reason: "must be at least 2 days"}
	}
	if c.BreakoutThreshold <= 0 {
		return &models.ConfigurationError{Field: "BreakoutThreshold", Reason: "must be positive"}
	}
	if c.ReversalRunLength < 2 {
		return &models.ConfigurationError{Field: "ReversalRunLength", Reason: "must be at least 2 days"}
	}
	if c.ReversalThreshold <= 0 {
		return &models.ConfigurationError{Field: "ReversalThreshold", Reason: "must be positive"}
	}
	return nil
}

// Detector finds technical patterns in an ordered daily price series.
// Detection is pure and deterministic: the same series and config always
// produce the same pattern set.
type Detector struct {
	cfg Config
}

// NewDetector creates a detector after validating the config
func NewDetector(cfg Config) (*Detector, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Detector{cfg: cfg}, nil
}

// Detect returns all patterns found in the series, ordered by anchor date.
// A series shorter than the minimum window for a pattern kind yields no
// patterns of that kind; this is not an error.
func (d *Detector) Detect(series models.PriceSeries) []models.TechnicalPattern {
	if len(series) < 2 {
		return nil
	}

	closes := series.Closes()
	dates := series.Dates()

	var found []models.TechnicalPattern
	found = append(found, d.detectMoves(closes, dates)...)
	found = append(found, d.detectBreakouts(closes, dates)...)
	found = append(found, d.detectReversals(closes, dates)...)

	sort.SliceStable(found, func(i, j int) bool {
		if !found[i].Anchor.Equal(found[j].Anchor) {
			return found[i].Anchor.Before(found[j].Anchor)
		}
		return kindRank(found[i].Kind) < kindRank(found[j].Kind)
	})

	logger.Debug("pattern detection complete",
		zap.Int("bars", len(series)),
		zap.Int("patterns", len(found)),
	)

	return found
}

func kindRank(k models.PatternKind) int {
	switch k {
	case models.PatternBullishMove, models.PatternBearishMove:
		return 0
	case models.PatternBreakout:
		return 1
	case models.PatternReversal:
		return 2
	}
	return 3
}

// detectMoves finds cumulative changes over MoveWindow days exceeding
// MoveThreshold. Consecutive qualifying days with the same sign coalesce
// into one pattern anchored at the end of the move.
func (d *Detector) detectMoves(closes []float64, dates []time.Time) []models.TechnicalPattern {
	w := d.cfg.MoveWindow
	if len(closes) <= w {
		return nil
	}

	var out []models.TechnicalPattern
	runStart := -1 // index of first qualifying day in the current run
	runSign := 0
	runMagnitude := 0.0

	flush := func(lastIdx int) {
		if runStart < 0 {
			return
		}
		kind := models.PatternBullishMove
		direction := models.DirectionBullish
		if runSign < 0 {
			kind = models.PatternBearishMove
			direction = models.DirectionBearish
		}
		out = append(out, models.TechnicalPattern{
			Kind:      kind,
			Direction: direction,
			Anchor:    dates[lastIdx],
			Start:     dates[runStart-w],
			End:       dates[lastIdx],
			Magnitude: runMagnitude,
		})
		runStart = -1
		runSign = 0
		runMagnitude = 0
	}

	for i := w; i < len(closes); i++ {
		base := closes[i-w]
		if base == 0 {
			flush(i - 1)
			continue
		}
		change := (closes[i] - base) / base
		sign := 0
		if change >= d.cfg.MoveThreshold {
			sign = 1
		} else if change <= -d.cfg.MoveThreshold {
			sign = -1
		}

		if sign == 0 {
			flush(i - 1)
			continue
		}
		if runStart >= 0 && sign != runSign {
			flush(i - 1)
		}
		if runStart < 0 {
			runStart = i
			runSign = sign
		}
		if math.Abs(change) > runMagnitude {
			runMagnitude = math.Abs(change)
		}
	}
	flush(len(closes) - 1)

	return out
}

// detectBreakouts finds closes clearing the max (or min) of the preceding
// BreakoutWindow days by more than BreakoutThreshold. Consecutive breakout
// days in the same direction coalesce, anchored at the first breakout day.
func (d *Detector) detectBreakouts(closes []float64, dates []time.Time) []models.TechnicalPattern {
	n := d.cfg.BreakoutWindow
	if len(closes) <= n {
		return nil
	}

	rollingMax := indicator.Max(n, closes)
	rollingMin := indicator.Min(n, closes)

	var out []models.TechnicalPattern
	runStart := -1
	runSign := 0
	runMagnitude := 0.0

	flush := func(lastIdx int) {
		if runStart < 0 {
			return
		}
		direction := models.DirectionBullish
		if runSign < 0 {
			direction = models.DirectionBearish
		}
		out = append(out, models.TechnicalPattern{
			Kind:      models.PatternBreakout,
			Direction: direction,
			Anchor:    dates[runStart],
			Start:     dates[runStart],
			End:       dates[lastIdx],
			Magnitude: runMagnitude,
		})
		runStart = -1
		runSign = 0
		runMagnitude = 0
	}

	for i := n; i < len(closes); i++ {
		// rollingMax[i-1] covers exactly the n days preceding i
		prevMax := rollingMax[i-1]
		prevMin := rollingMin[i-1]

		sign := 0
		magnitude := 0.0
		if prevMax > 0 && closes[i] > prevMax*(1+d.cfg.BreakoutThreshold) {
			sign = 1
			magnitude = (closes[i] - prevMax) / prevMax
		} else if prevMin > 0 && closes[i] < prevMin*(1-d.cfg.BreakoutThreshold) {
			sign = -1
			magnitude = (prevMin - closes[i]) / prevMin
		}

		if sign == 0 {
			flush(i - 1)
			continue
		}
		if runStart >= 0 && sign != runSign {
			flush(i - 1)
		}
		if runStart < 0 {
			runStart = i
			runSign = sign
		}
		if magnitude > runMagnitude {
			runMagnitude = magnitude
		}
	}
	flush(len(closes) - 1)

	return out
}

// detectReversals finds directional runs of at least ReversalRunLength days
// immediately followed by an opposite-direction move exceeding
// ReversalThreshold. The anchor is the pivot day.
func (d *Detector) detectReversals(closes []float64, dates []time.Time) []models.TechnicalPattern {
	k := d.cfg.ReversalRunLength
	if len(closes) < k+2 {
		return nil
	}

	sign := func(i int) int {
		diff := closes[i] - closes[i-1]
		switch {
		case diff > 0:
			return 1
		case diff < 0:
			return -1
		}
		return 0
	}

	var out []models.TechnicalPattern

	i := 1
	for i < len(closes) {
		q := sign(i)
		if q == 0 {
			i++
			continue
		}

		// Extend the directional run
		runLen := 1
		for i+runLen < len(closes) && sign(i+runLen) == q {
			runLen++
		}
		pivot := i + runLen - 1 // last day of the run

		if runLen >= k && pivot+1 < len(closes) && closes[pivot] != 0 {
			// Measure the counter-move immediately after the pivot
			j := pivot
			for j+1 < len(closes) && sign(j+1) == -q {
				j++
			}
			move := (closes[j] - closes[pivot]) / closes[pivot]
			if j > pivot && math.Abs(move) >= d.cfg.ReversalThreshold {
				direction := models.DirectionBullish
				if move < 0 {
					direction = models.DirectionBearish
				}
				out = append(out, models.TechnicalPattern{
					Kind:      models.PatternReversal,
					Direction: direction,
					Anchor:    dates[pivot],
					Start:     dates[i-1],
					End:       dates[j],
					Magnitude: math.Abs(move),
				})
			}
		}

		i += runLen
	}

	return out
}
