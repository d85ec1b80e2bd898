package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dsokolov/newslens/internal/adapters/market"
	"github.com/dsokolov/newslens/internal/adapters/news"
	"github.com/dsokolov/newslens/internal/correlation"
	"github.com/dsokolov/newslens/internal/report"
	"github.com/dsokolov/newslens/pkg/logger"
	"github.com/dsokolov/newslens/pkg/models"
	"github.com/dsokolov/newslens/pkg/worker"
)

// Extractor turns one article into a validated sentiment record
type Extractor interface {
	Extract(ctx context.Context, article *models.NewsArticle) (*models.SentimentRecord, error)
}

// Detector finds technical patterns in a price series
type Detector interface {
	Detect(series models.PriceSeries) []models.TechnicalPattern
}

// Correlator aligns sentiment records against patterns
type Correlator interface {
	Correlate(sentiments []models.SentimentRecord, patterns []models.TechnicalPattern) correlation.Result
}

// Generator renders the final report
type Generator interface {
	Generate(in report.Input) *models.Report
}

// Options holds run-level orchestration parameters
type Options struct {
	ExtractionWorkers int
	RunTimeout        time.Duration
}

// Orchestrator drives one analysis run as an explicit state machine. It is
// the only component permitted to advance run status or mutate RunState.
type Orchestrator struct {
	news       news.Source
	market     market.Source
	extractor  Extractor
	detector   Detector
	correlator Correlator
	generator  Generator
	pool       *worker.Pool
	runTimeout time.Duration
}

// New creates an orchestrator over the given collaborators
func New(newsSrc news.Source, marketSrc market.Source, ext Extractor, det Detector, corr Correlator, gen Generator, opts Options) *Orchestrator {
	timeout := opts.RunTimeout
	if timeout <= 0 {
		timeout = 5 * time.Minute
	}
	return &Orchestrator{
		news:       newsSrc,
		market:     marketSrc,
		extractor:  ext,
		detector:   det,
		correlator: corr,
		generator:  gen,
		pool:       worker.NewPool(opts.ExtractionWorkers),
		runTimeout: timeout,
	}
}

type extractionOutcome struct {
	record *models.SentimentRecord
	err    error
	done   bool
}

// Run executes the full pipeline for one ticker and date range. Per-article
// extraction failures and empty news degrade the run with warnings; a
// missing price series fails it.
func (o *Orchestrator) Run(ctx context.Context, ticker string, start, end time.Time) (*RunState, error) {
	if ticker == "" {
		return nil, &models.ConfigurationError{Field: "ticker", Reason: "must not be empty"}
	}
	if end.Before(start) {
		return nil, &models.ConfigurationError{Field: "date range", Reason: "start must not be after end"}
	}

	ctx, cancel := context.WithTimeout(ctx, o.runTimeout)
	defer cancel()

	state := newRunState(ticker, start, end)

	logger.Info("🚀 analysis run started",
		zap.String("run_id", state.RunID),
		zap.String("ticker", ticker),
		zap.Time("start", start),
		zap.Time("end", end),
	)

	if err := o.fetchNews(ctx, state); err != nil {
		return state, err
	}
	if err := o.extractSentiments(ctx, state); err != nil {
		return state, err
	}
	if err := o.fetchPrices(ctx, state); err != nil {
		return state, err
	}
	if err := o.detectPatterns(state); err != nil {
		return state, err
	}
	if err := o.correlate(state); err != nil {
		return state, err
	}
	if err := o.generateReport(state); err != nil {
		return state, err
	}

	if err := state.advance(StageDone); err != nil {
		return state, err
	}

	logger.Info("✅ analysis run complete",
		zap.String("run_id", state.RunID),
		zap.Int("correlations", len(state.Correlation.Records)),
		zap.Int("warnings", len(state.Warnings)),
	)

	return state, nil
}

// fetchNews loads articles. A transport failure or empty result degrades
// the run with a warning instead of failing it.
func (o *Orchestrator) fetchNews(ctx context.Context, state *RunState) error {
	articles, err := o.news.FetchNews(ctx, state.Ticker, state.Start, state.End)
	if err != nil {
		ferr := &models.FetchError{Source: "news", Err: err}
		state.warn(fmt.Sprintf("news fetch failed, proceeding without news: %v", err))
		logger.Warn("news fetch failed", zap.String("run_id", state.RunID), zap.Error(ferr))
		articles = nil
	} else if len(articles) == 0 {
		state.warn(fmt.Sprintf("no news found for %s in range", state.Ticker))
	}

	state.Articles = articles
	return state.advance(StageNewsFetched)
}

// extractSentiments fans out per-article extraction over a bounded worker
// pool. Workers write disjoint result slots and return values only; the
// orchestrator merges them into RunState after the join barrier.
func (o *Orchestrator) extractSentiments(ctx context.Context, state *RunState) error {
	outcomes := make([]extractionOutcome, len(state.Articles))
	tasks := make([]worker.Task, len(state.Articles))
	for i := range state.Articles {
		i := i
		article := state.Articles[i]
		tasks[i] = func(ctx context.Context) {
			record, err := o.extractor.Extract(ctx, &article)
			outcomes[i] = extractionOutcome{record: record, err: err, done: true}
		}
	}

	started := o.pool.Run(ctx, tasks)
	if started < len(tasks) {
		state.warn(fmt.Sprintf("run timeout: %d of %d extractions abandoned", len(tasks)-started, len(tasks)))
	}

	for i, outcome := range outcomes {
		articleID := state.Articles[i].ID
		switch {
		case !outcome.done:
			state.FailedExtractions = append(state.FailedExtractions, models.FailedExtraction{
				ArticleID: articleID,
				Reason:    "abandoned: run timeout",
			})
		case outcome.err != nil:
			state.FailedExtractions = append(state.FailedExtractions, models.FailedExtraction{
				ArticleID: articleID,
				Reason:    outcome.err.Error(),
			})
			state.warn(fmt.Sprintf("article %s failed extraction: %v", articleID, outcome.err))
		default:
			state.Sentiments = append(state.Sentiments, *outcome.record)
		}
	}

	logger.Info("sentiment extraction complete",
		zap.String("run_id", state.RunID),
		zap.Int("extracted", len(state.Sentiments)),
		zap.Int("failed", len(state.FailedExtractions)),
	)

	return state.advance(StageSentimentExtracted)
}

// fetchPrices loads the price series. Prices are required for correlation,
// so a failed or empty result is run-fatal.
func (o *Orchestrator) fetchPrices(ctx context.Context, state *RunState) error {
	prices, err := o.market.FetchPrices(ctx, state.Ticker, state.Start, state.End)
	if err != nil {
		ferr := &models.FetchError{Source: "prices", Err: err}
		state.fail(StagePricesFetched, ferr)
		logger.Error("price fetch failed, aborting run",
			zap.String("run_id", state.RunID),
			zap.Error(ferr),
		)
		return ferr
	}

	prices = prices.Normalize()
	if len(prices) == 0 {
		ierr := &models.InsufficientDataError{Resource: "price series"}
		state.fail(StagePricesFetched, ierr)
		logger.Error("empty price series, aborting run", zap.String("run_id", state.RunID))
		return ierr
	}

	state.Prices = prices
	return state.advance(StagePricesFetched)
}

func (o *Orchestrator) detectPatterns(state *RunState) error {
	state.Patterns = o.detector.Detect(state.Prices)
	if len(state.Patterns) == 0 {
		state.warn("no technical patterns detected in range")
	}
	return state.advance(StagePatternsDetected)
}

func (o *Orchestrator) correlate(state *RunState) error {
	state.Correlation = o.correlator.Correlate(state.Sentiments, state.Patterns)
	return state.advance(StageCorrelated)
}

func (o *Orchestrator) generateReport(state *RunState) error {
	state.Report = o.generator.Generate(report.Input{
		Ticker:      state.Ticker,
		Start:       state.Start,
		End:         state.End,
		GeneratedAt: time.Now().UTC(),

		Articles:          state.Articles,
		Sentiments:        state.Sentiments,
		FailedExtractions: state.FailedExtractions,
		Patterns:          state.Patterns,
		Correlation:       state.Correlation,
		Warnings:          state.Warnings,
	})
	return state.advance(StageReported)
}
