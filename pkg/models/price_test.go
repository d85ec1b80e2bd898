package models

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func point(day int, close float64) PricePoint {
	c := decimal.NewFromFloat(close)
	return PricePoint{
		Date:  time.Date(2024, 11, day, 0, 0, 0, 0, time.UTC),
		Open:  c,
		High:  c,
		Low:   c,
		Close: c,
	}
}

func TestPriceSeries_NormalizeSorts(t *testing.T) {
	series := PriceSeries{point(5, 103), point(1, 100), point(3, 101)}

	got := series.Normalize()

	if len(got) != 3 {
		t.Fatalf("expected 3 points, got %d", len(got))
	}
	for i := 1; i < len(got); i++ {
		if !got[i-1].Date.Before(got[i].Date) {
			t.Fatalf("series not ascending at %d: %v", i, got.Dates())
		}
	}

	// Input order untouched
	if !series[0].Date.Equal(time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC)) {
		t.Error("Normalize mutated its receiver")
	}
}

func TestPriceSeries_NormalizeDedupesSameDay(t *testing.T) {
	morning := point(2, 100)
	evening := point(2, 105)
	evening.Date = evening.Date.Add(8 * time.Hour)

	got := PriceSeries{morning, evening, point(3, 110)}.Normalize()

	if len(got) != 2 {
		t.Fatalf("expected duplicate day collapsed to 2 points, got %d", len(got))
	}
	// First occurrence wins
	if !got[0].Close.Equal(decimal.NewFromFloat(100)) {
		t.Errorf("expected first duplicate kept, got close %s", got[0].Close)
	}
}

func TestPriceSeries_NormalizeDedupesAcrossZones(t *testing.T) {
	// 2024-11-02T22:00-05:00 and 2024-11-03T09:00+03:00 are both
	// 2024-11-03 in UTC and must collapse to one point.
	first := point(3, 100)
	first.Date = time.Date(2024, 11, 2, 22, 0, 0, 0, time.FixedZone("EST", -5*3600))
	second := point(3, 105)
	second.Date = time.Date(2024, 11, 3, 9, 0, 0, 0, time.FixedZone("MSK", 3*3600))

	got := PriceSeries{first, second}.Normalize()

	if len(got) != 1 {
		t.Fatalf("expected same UTC day to dedupe to 1 point, got %d", len(got))
	}
	if !got[0].Close.Equal(decimal.NewFromFloat(100)) {
		t.Errorf("expected first occurrence kept, got close %s", got[0].Close)
	}
}

func TestPriceSeries_Closes(t *testing.T) {
	series := PriceSeries{point(1, 100.5), point(2, 101.25)}

	closes := series.Closes()
	if len(closes) != 2 || closes[0] != 100.5 || closes[1] != 101.25 {
		t.Errorf("unexpected closes %v", closes)
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name  string
		in    string
		want  time.Time
		valid bool
	}{
		{
			name:  "rfc3339",
			in:    "2024-11-05T14:30:00Z",
			want:  time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:  "rfc3339 with offset",
			in:    "2024-11-05T14:30:00+02:00",
			want:  time.Date(2024, 11, 5, 12, 30, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:  "millis",
			in:    "2024-11-05T14:30:00.000Z",
			want:  time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:  "no zone",
			in:    "2024-11-05T14:30:00",
			want:  time.Date(2024, 11, 5, 14, 30, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:  "date only",
			in:    "2024-11-05",
			want:  time.Date(2024, 11, 5, 0, 0, 0, 0, time.UTC),
			valid: true,
		},
		{
			name:  "garbage",
			in:    "yesterday",
			valid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseTimestamp(tt.in)
			if ok != tt.valid {
				t.Fatalf("ParseTimestamp(%q) ok = %v, want %v", tt.in, ok, tt.valid)
			}
			if tt.valid && !got.Equal(tt.want) {
				t.Errorf("ParseTimestamp(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

func TestNewsArticle_Text(t *testing.T) {
	a := &NewsArticle{Summary: "short summary", FullText: "full body"}
	if a.Text() != "full body" {
		t.Errorf("expected full text preferred, got %q", a.Text())
	}

	a.FullText = "  "
	if a.Text() != "short summary" {
		t.Errorf("expected summary fallback, got %q", a.Text())
	}
}
