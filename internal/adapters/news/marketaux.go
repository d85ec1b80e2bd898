package news

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"go.uber.org/zap"

	"github.com/dsokolov/newslens/internal/adapters/config"
	"github.com/dsokolov/newslens/pkg/logger"
	"github.com/dsokolov/newslens/pkg/models"
)

// MarketAuxSource fetches ticker news from the MarketAux API
type MarketAuxSource struct {
	client *resty.Client
	apiKey string
	limit  int
}

// NewMarketAuxSource creates new MarketAux news source
func NewMarketAuxSource(cfg *config.NewsConfig) *MarketAuxSource {
	client := resty.New()
	client.SetBaseURL(cfg.BaseURL)
	client.SetTimeout(15 * time.Second)

	return &MarketAuxSource{
		client: client,
		apiKey: cfg.APIKey,
		limit:  cfg.Limit,
	}
}

func (s *MarketAuxSource) GetName() string {
	return "marketaux"
}

type marketAuxArticle struct {
	UUID        string `json:"uuid"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Snippet     string `json:"snippet"`
	URL         string `json:"url"`
	Source      string `json:"source"`
	PublishedAt string `json:"published_at"`
}

type marketAuxResponse struct {
	Data []marketAuxArticle `json:"data"`
}

// FetchNews fetches articles about ticker published within [start, end].
// Articles whose text never mentions the ticker are dropped before analysis.
func (s *MarketAuxSource) FetchNews(ctx context.Context, ticker string, start, end time.Time) ([]models.NewsArticle, error) {
	if s.apiKey == "" {
		return nil, fmt.Errorf("marketaux API key is not configured")
	}

	var result marketAuxResponse

	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"entities":         ticker,
			"filter_entities":  "true",
			"language":         "en",
			"limit":            strconv.Itoa(s.limit),
			"published_after":  start.UTC().Format("2006-01-02"),
			"published_before": end.UTC().Format("2006-01-02"),
			"api_token":        s.apiKey,
		}).
		SetResult(&result).
		Get("/news/all")
	if err != nil {
		return nil, fmt.Errorf("marketaux request failed: %w", err)
	}
	if resp.IsError() {
		return nil, fmt.Errorf("marketaux HTTP error %d: %s", resp.StatusCode(), resp.String())
	}

	articles := make([]models.NewsArticle, 0, len(result.Data))
	for i, raw := range result.Data {
		if !mentionsTicker(raw, ticker) {
			logger.Debug("dropping article unrelated to ticker",
				zap.String("ticker", ticker),
				zap.String("title", raw.Title),
			)
			continue
		}

		publishedAt, ok := models.ParseTimestamp(raw.PublishedAt)
		if !ok {
			logger.Warn("skipping article with unparseable timestamp",
				zap.String("published_at", raw.PublishedAt),
				zap.String("title", raw.Title),
			)
			continue
		}

		id := raw.UUID
		if id == "" {
			id = fmt.Sprintf("%s-%d", ticker, i)
		}

		summary := raw.Description
		if summary == "" {
			summary = raw.Snippet
		}

		articles = append(articles, models.NewsArticle{
			ID:          id,
			Ticker:      ticker,
			Title:       raw.Title,
			URL:         raw.URL,
			Source:      raw.Source,
			PublishedAt: publishedAt,
			Summary:     summary,
			FullText:    summary,
		})
	}

	logger.Info("fetched news articles",
		zap.String("ticker", ticker),
		zap.Int("raw", len(result.Data)),
		zap.Int("relevant", len(articles)),
	)

	return articles, nil
}

func mentionsTicker(raw marketAuxArticle, ticker string) bool {
	text := strings.ToLower(raw.Title + " " + raw.Description + " " + raw.Snippet)
	return strings.Contains(text, strings.ToLower(ticker))
}
