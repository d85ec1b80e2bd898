package models

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"
)

// PricePoint represents OHLCV data for one trading day
type PricePoint struct {
	Date   time.Time       `json:"date"`
	Open   decimal.Decimal `json:"open"`
	High   decimal.Decimal `json:"high"`
	Low    decimal.Decimal `json:"low"`
	Close  decimal.Decimal `json:"close"`
	Volume int64           `json:"volume"`
}

// PriceSeries is an ordered sequence of daily price points.
// Invariant after Normalize: ascending by date, no duplicate dates.
// Missing calendar days are tolerated.
type PriceSeries []PricePoint

// Normalize returns a copy sorted ascending by date with duplicate dates
// removed (first occurrence wins).
func (s PriceSeries) Normalize() PriceSeries {
	out := make(PriceSeries, len(s))
	copy(out, s)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})

	deduped := out[:0]
	for _, p := range out {
		if len(deduped) > 0 && sameDay(deduped[len(deduped)-1].Date, p.Date) {
			continue
		}
		deduped = append(deduped, p)
	}
	return deduped
}

// Closes extracts close prices as float64 for indicator math
func (s PriceSeries) Closes() []float64 {
	closes := make([]float64, len(s))
	for i, p := range s {
		closes[i], _ = p.Close.Float64()
	}
	return closes
}

// Dates extracts trading dates
func (s PriceSeries) Dates() []time.Time {
	dates := make([]time.Time, len(s))
	for i, p := range s {
		dates[i] = p.Date
	}
	return dates
}

func sameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	return a.Year() == b.Year() && a.YearDay() == b.YearDay()
}
