package correlation

import (
	"math"
	"reflect"
	"testing"
	"time"

	"github.com/dsokolov/newslens/pkg/models"
)

var base = time.Date(2024, 11, 1, 0, 0, 0, 0, time.UTC)

// onDay returns base plus n days; day numbering in tests matches it
func onDay(n int) time.Time {
	return base.AddDate(0, 0, n)
}

func sentimentOn(day int, polarity models.Polarity, magnitude float64) models.SentimentRecord {
	return models.SentimentRecord{
		ArticleID: "article-" + string(polarity),
		Polarity:  polarity,
		Magnitude: magnitude,
		Timestamp: onDay(day),
	}
}

func patternOn(day int, kind models.PatternKind, direction models.Direction) models.TechnicalPattern {
	return models.TechnicalPattern{
		Kind:      kind,
		Direction: direction,
		Anchor:    onDay(day),
		Start:     onDay(day - 1),
		End:       onDay(day + 1),
		Magnitude: 0.05,
	}
}

func TestEngine_BearishEventBeforeBearishReversal(t *testing.T) {
	engine := NewEngine(3, 0.2)

	sentiments := []models.SentimentRecord{sentimentOn(10, models.PolarityBearish, 0.8)}
	patterns := []models.TechnicalPattern{patternOn(12, models.PatternReversal, models.DirectionBearish)}

	result := engine.Correlate(sentiments, patterns)

	if len(result.Records) != 1 {
		t.Fatalf("expected exactly one correlation record, got %d", len(result.Records))
	}

	rec := result.Records[0]
	if rec.OffsetDays != 2 {
		t.Errorf("expected offset 2 days, got %d", rec.OffsetDays)
	}
	if !rec.DirectionalAgreement {
		t.Error("expected directional agreement for bearish/bearish pair")
	}

	// proximity 0.5 * (0.5 + 0.5*0.8) * 1.2 agreement boost
	want := 0.5 * 0.9 * 1.2
	if math.Abs(rec.Confidence-want) > 1e-9 {
		t.Errorf("expected confidence %.4f, got %.4f", want, rec.Confidence)
	}

	if len(result.UncorrelatedSentiments) != 0 || len(result.UncorrelatedPatterns) != 0 {
		t.Errorf("expected no uncorrelated items, got %d sentiments and %d patterns",
			len(result.UncorrelatedSentiments), len(result.UncorrelatedPatterns))
	}
}

func TestEngine_OffsetOutsideWindow(t *testing.T) {
	engine := NewEngine(3, 0.0)

	sentiments := []models.SentimentRecord{sentimentOn(10, models.PolarityBullish, 1.0)}
	patterns := []models.TechnicalPattern{patternOn(20, models.PatternBreakout, models.DirectionBullish)}

	result := engine.Correlate(sentiments, patterns)

	if len(result.Records) != 0 {
		t.Fatalf("expected no records outside window, got %v", result.Records)
	}
	if len(result.UncorrelatedSentiments) != 1 || len(result.UncorrelatedPatterns) != 1 {
		t.Errorf("expected both items uncorrelated, got %d sentiments and %d patterns",
			len(result.UncorrelatedSentiments), len(result.UncorrelatedPatterns))
	}
}

func TestEngine_OffsetAlwaysWithinWindow(t *testing.T) {
	engine := NewEngine(2, 0.0)

	var sentiments []models.SentimentRecord
	for day := 0; day < 15; day += 2 {
		sentiments = append(sentiments, sentimentOn(day, models.PolarityBullish, 0.5))
	}
	var patterns []models.TechnicalPattern
	for day := 1; day < 15; day += 3 {
		patterns = append(patterns, patternOn(day, models.PatternBreakout, models.DirectionBullish))
	}

	result := engine.Correlate(sentiments, patterns)
	for _, rec := range result.Records {
		if rec.OffsetDays < -2 || rec.OffsetDays > 2 {
			t.Errorf("record offset %d outside window ±2", rec.OffsetDays)
		}
		if rec.Confidence < 0 {
			t.Errorf("negative confidence %.4f", rec.Confidence)
		}
	}
}

func TestEngine_ConfidenceFloorDropsPair(t *testing.T) {
	engine := NewEngine(3, 0.99)

	sentiments := []models.SentimentRecord{sentimentOn(10, models.PolarityNeutral, 0.1)}
	patterns := []models.TechnicalPattern{patternOn(11, models.PatternBreakout, models.DirectionBullish)}

	result := engine.Correlate(sentiments, patterns)

	if len(result.Records) != 0 {
		t.Fatalf("expected pair below floor to be dropped, got %v", result.Records)
	}
	if len(result.UncorrelatedSentiments) != 1 || len(result.UncorrelatedPatterns) != 1 {
		t.Error("dropped pair must leave both items in the uncorrelated lists")
	}
}

func TestEngine_DisagreementPenalty(t *testing.T) {
	engine := NewEngine(3, 0.0)

	sentiments := []models.SentimentRecord{sentimentOn(10, models.PolarityBullish, 1.0)}
	patterns := []models.TechnicalPattern{patternOn(10, models.PatternBreakout, models.DirectionBearish)}

	result := engine.Correlate(sentiments, patterns)
	if len(result.Records) != 1 {
		t.Fatalf("expected one record, got %d", len(result.Records))
	}

	rec := result.Records[0]
	if rec.DirectionalAgreement {
		t.Error("expected no directional agreement for bullish/bearish pair")
	}
	want := 1.0 * 1.0 * 0.6
	if math.Abs(rec.Confidence-want) > 1e-9 {
		t.Errorf("expected penalized confidence %.4f, got %.4f", want, rec.Confidence)
	}
}

// Every input item must land in exactly one of: correlated (at least one
// record) or the uncorrelated appendix.
func TestEngine_PartitionProperty(t *testing.T) {
	engine := NewEngine(3, 0.3)

	sentiments := []models.SentimentRecord{
		sentimentOn(2, models.PolarityBullish, 0.9),
		sentimentOn(8, models.PolarityBearish, 0.2),
		sentimentOn(25, models.PolarityNeutral, 0.5),
	}
	sentiments[0].ArticleID = "a1"
	sentiments[1].ArticleID = "a2"
	sentiments[2].ArticleID = "a3"

	patterns := []models.TechnicalPattern{
		patternOn(3, models.PatternBullishMove, models.DirectionBullish),
		patternOn(9, models.PatternReversal, models.DirectionBullish),
		patternOn(40, models.PatternBreakout, models.DirectionBearish),
	}

	result := engine.Correlate(sentiments, patterns)

	correlated := map[string]bool{}
	for _, rec := range result.Records {
		correlated[rec.Sentiment.ArticleID] = true
	}
	uncorrelated := map[string]bool{}
	for _, s := range result.UncorrelatedSentiments {
		uncorrelated[s.ArticleID] = true
	}

	for _, s := range sentiments {
		inCorrelated := correlated[s.ArticleID]
		inUncorrelated := uncorrelated[s.ArticleID]
		if inCorrelated == inUncorrelated {
			t.Errorf("sentiment %s: correlated=%v uncorrelated=%v, want exactly one",
				s.ArticleID, inCorrelated, inUncorrelated)
		}
	}

	patternSeen := map[time.Time]int{}
	for _, rec := range result.Records {
		patternSeen[rec.Pattern.Anchor]++
	}
	for _, p := range result.UncorrelatedPatterns {
		patternSeen[p.Anchor] += 100
	}
	for _, p := range patterns {
		n := patternSeen[p.Anchor]
		if n != 100 && n < 1 {
			t.Errorf("pattern anchored %v missing from both partitions", p.Anchor)
		}
		if n > 100 {
			t.Errorf("pattern anchored %v present in both partitions", p.Anchor)
		}
	}
}

func TestEngine_NoFabrication(t *testing.T) {
	engine := NewEngine(3, 0.0)

	sentiments := []models.SentimentRecord{sentimentOn(5, models.PolarityBullish, 0.7)}
	sentiments[0].ArticleID = "known-article"
	patterns := []models.TechnicalPattern{patternOn(6, models.PatternBreakout, models.DirectionBullish)}

	result := engine.Correlate(sentiments, patterns)
	for _, rec := range result.Records {
		if rec.Sentiment.ArticleID != "known-article" {
			t.Errorf("record references unknown sentiment %q", rec.Sentiment.ArticleID)
		}
		if !rec.Pattern.Anchor.Equal(patterns[0].Anchor) {
			t.Errorf("record references unknown pattern anchored %v", rec.Pattern.Anchor)
		}
	}
}

func TestEngine_Deterministic(t *testing.T) {
	engine := NewEngine(3, 0.2)

	sentiments := []models.SentimentRecord{
		sentimentOn(4, models.PolarityBullish, 0.6),
		sentimentOn(4, models.PolarityBearish, 0.9),
		sentimentOn(7, models.PolarityNeutral, 0.3),
	}
	patterns := []models.TechnicalPattern{
		patternOn(5, models.PatternBullishMove, models.DirectionBullish),
		patternOn(5, models.PatternReversal, models.DirectionBearish),
		patternOn(9, models.PatternBreakout, models.DirectionBullish),
	}

	first := engine.Correlate(sentiments, patterns)
	second := engine.Correlate(sentiments, patterns)

	if !reflect.DeepEqual(first, second) {
		t.Error("correlation is not deterministic across identical inputs")
	}
}
