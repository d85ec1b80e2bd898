package extraction

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/dsokolov/newslens/internal/adapters/ai"
	"github.com/dsokolov/newslens/internal/adapters/config"
	"github.com/dsokolov/newslens/pkg/models"
)

// fakeAnalyzer replays a scripted sequence of responses, one per call.
type fakeAnalyzer struct {
	responses []fakeResponse
	calls     int
}

type fakeResponse struct {
	analysis *ai.Analysis
	err      error
}

func (f *fakeAnalyzer) GetName() string { return "fake" }

func (f *fakeAnalyzer) Analyze(ctx context.Context, prompt string) (*ai.Analysis, error) {
	if f.calls >= len(f.responses) {
		return nil, errors.New("no scripted response left")
	}
	r := f.responses[f.calls]
	f.calls++
	return r.analysis, r.err
}

func testConfig() *config.AIConfig {
	return &config.AIConfig{
		MaxRetries:   2,
		RetryBackoff: time.Millisecond,
	}
}

func testArticle() *models.NewsArticle {
	return &models.NewsArticle{
		ID:          "art-1",
		Ticker:      "AAPL",
		Title:       "Apple beats estimates",
		Source:      "newswire",
		PublishedAt: time.Date(2024, 11, 5, 14, 0, 0, 0, time.UTC),
		Summary:     "Quarterly revenue above consensus.",
	}
}

func TestExtractor_Success(t *testing.T) {
	analyzer := &fakeAnalyzer{responses: []fakeResponse{
		{analysis: &ai.Analysis{
			Polarity:  "Bullish",
			Magnitude: 0.7,
			EventTags: []string{"earnings"},
			Reasoning: "revenue beat",
		}},
	}}
	extractor := NewExtractor(analyzer, testConfig())

	record, err := extractor.Extract(context.Background(), testArticle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Polarity != models.PolarityBullish {
		t.Errorf("expected bullish polarity, got %s", record.Polarity)
	}
	if record.Magnitude != 0.7 {
		t.Errorf("expected magnitude 0.7, got %.2f", record.Magnitude)
	}
	if record.ArticleID != "art-1" {
		t.Errorf("expected article id art-1, got %s", record.ArticleID)
	}
	if len(record.EventTags) != 1 || record.EventTags[0] != "earnings" {
		t.Errorf("unexpected event tags %v", record.EventTags)
	}
	if analyzer.calls != 1 {
		t.Errorf("expected a single analyzer call, got %d", analyzer.calls)
	}
}

func TestExtractor_ClampsMagnitude(t *testing.T) {
	tests := []struct {
		name string
		in   float64
		want float64
	}{
		{"above one", 1.8, 1.0},
		{"below zero", -0.3, 0.0},
		{"in range", 0.42, 0.42},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			analyzer := &fakeAnalyzer{responses: []fakeResponse{
				{analysis: &ai.Analysis{Polarity: "neutral", Magnitude: tt.in}},
			}}
			extractor := NewExtractor(analyzer, testConfig())

			record, err := extractor.Extract(context.Background(), testArticle())
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if record.Magnitude != tt.want {
				t.Errorf("expected magnitude %.2f, got %.2f", tt.want, record.Magnitude)
			}
		})
	}
}

func TestExtractor_RetriesThenSucceeds(t *testing.T) {
	analyzer := &fakeAnalyzer{responses: []fakeResponse{
		{err: errors.New("transient upstream error")},
		{analysis: &ai.Analysis{Polarity: "sideways", Magnitude: 0.5}},
		{analysis: &ai.Analysis{Polarity: "bearish", Magnitude: 0.9}},
	}}
	extractor := NewExtractor(analyzer, testConfig())

	record, err := extractor.Extract(context.Background(), testArticle())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if record.Polarity != models.PolarityBearish {
		t.Errorf("expected bearish polarity after retries, got %s", record.Polarity)
	}
	if analyzer.calls != 3 {
		t.Errorf("expected 3 analyzer calls, got %d", analyzer.calls)
	}
}

func TestExtractor_RetriesExhausted(t *testing.T) {
	analyzer := &fakeAnalyzer{responses: []fakeResponse{
		{analysis: &ai.Analysis{Polarity: "up", Magnitude: 0.5}},
		{analysis: &ai.Analysis{Polarity: "down", Magnitude: 0.5}},
		{analysis: &ai.Analysis{Polarity: "flat", Magnitude: 0.5}},
	}}
	extractor := NewExtractor(analyzer, testConfig())

	_, err := extractor.Extract(context.Background(), testArticle())
	if err == nil {
		t.Fatal("expected error after exhausting retries")
	}

	var extErr *models.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError, got %T", err)
	}
	if extErr.ArticleID != "art-1" {
		t.Errorf("expected article id art-1 in error, got %s", extErr.ArticleID)
	}
	if analyzer.calls != 3 {
		t.Errorf("expected retries to stop at 3 calls, got %d", analyzer.calls)
	}
}

func TestExtractor_EmptyTextSkipsAnalyzer(t *testing.T) {
	analyzer := &fakeAnalyzer{}
	extractor := NewExtractor(analyzer, testConfig())

	article := testArticle()
	article.Summary = "   "
	article.FullText = ""

	_, err := extractor.Extract(context.Background(), article)

	var extErr *models.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError for empty text, got %v", err)
	}
	if analyzer.calls != 0 {
		t.Errorf("empty article must not reach the analyzer, got %d calls", analyzer.calls)
	}
}

func TestExtractor_CancelledContext(t *testing.T) {
	analyzer := &fakeAnalyzer{responses: []fakeResponse{
		{err: errors.New("transient")},
		{analysis: &ai.Analysis{Polarity: "bullish", Magnitude: 0.5}},
	}}
	extractor := NewExtractor(analyzer, testConfig())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := extractor.Extract(ctx, testArticle())

	var extErr *models.ExtractionError
	if !errors.As(err, &extErr) {
		t.Fatalf("expected ExtractionError on cancellation, got %v", err)
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected wrapped context.Canceled, got %v", err)
	}
}
