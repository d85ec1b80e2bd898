package extraction

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dsokolov/newslens/internal/adapters/ai"
	"github.com/dsokolov/newslens/internal/adapters/config"
	"github.com/dsokolov/newslens/pkg/logger"
	"github.com/dsokolov/newslens/pkg/models"
)

// Extractor wraps the structured-analysis capability and turns raw articles
// into validated sentiment records. It has no shared state: every call
// returns a value or an error and mutates nothing.
type Extractor struct {
	analyzer   ai.Analyzer
	maxRetries int
	backoff    time.Duration
}

// NewExtractor creates new sentiment extractor
func NewExtractor(analyzer ai.Analyzer, cfg *config.AIConfig) *Extractor {
	return &Extractor{
		analyzer:   analyzer,
		maxRetries: cfg.MaxRetries,
		backoff:    cfg.RetryBackoff,
	}
}

// Extract analyzes one article and returns a validated sentiment record.
// Malformed model output is retried up to the configured bound with doubling
// backoff; after exhausting retries an ExtractionError is returned so the
// caller can drop the article without aborting the run.
func (e *Extractor) Extract(ctx context.Context, article *models.NewsArticle) (*models.SentimentRecord, error) {
	text := strings.TrimSpace(article.Text())
	if text == "" {
		return nil, &models.ExtractionError{ArticleID: article.ID, Reason: "empty article text"}
	}

	prompt := buildPrompt(
		article.Ticker,
		article.Title,
		article.Source,
		article.PublishedAt.Format(time.RFC3339),
		text,
	)

	var lastErr error
	for attempt := 0; attempt <= e.maxRetries; attempt++ {
		if attempt > 0 {
			// Doubling backoff, abandoned on cancellation
			delay := e.backoff << (attempt - 1)
			select {
			case <-ctx.Done():
				return nil, &models.ExtractionError{ArticleID: article.ID, Reason: "cancelled", Err: ctx.Err()}
			case <-time.After(delay):
			}
		}

		analysis, err := e.analyzer.Analyze(ctx, prompt)
		if err == nil {
			record, verr := e.validate(article, analysis)
			if verr == nil {
				return record, nil
			}
			err = verr
		}

		if ctx.Err() != nil {
			return nil, &models.ExtractionError{ArticleID: article.ID, Reason: "cancelled", Err: ctx.Err()}
		}

		lastErr = err
		logger.Warn("extraction attempt failed",
			zap.String("article_id", article.ID),
			zap.Int("attempt", attempt+1),
			zap.Error(err),
		)
	}

	return nil, &models.ExtractionError{ArticleID: article.ID, Reason: "retries exhausted", Err: lastErr}
}

// validate checks the raw analysis and builds the sentiment record.
// Magnitude is clamped into [0, 1]; an unknown polarity is malformed output.
func (e *Extractor) validate(article *models.NewsArticle, analysis *ai.Analysis) (*models.SentimentRecord, error) {
	polarity := models.Polarity(strings.ToLower(strings.TrimSpace(analysis.Polarity)))
	if !polarity.Valid() {
		return nil, &models.ExtractionError{
			ArticleID: article.ID,
			Reason:    "unknown polarity " + analysis.Polarity,
		}
	}

	return &models.SentimentRecord{
		ArticleID: article.ID,
		Polarity:  polarity,
		Magnitude: clamp01(analysis.Magnitude),
		EventTags: analysis.EventTags,
		Reasoning: analysis.Reasoning,
		Timestamp: article.PublishedAt,
	}, nil
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
