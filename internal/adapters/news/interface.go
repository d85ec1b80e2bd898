package news

import (
	"context"
	"time"

	"github.com/dsokolov/newslens/pkg/models"
)

// Source represents a news source collaborator. An empty result is not an
// error: it means no coverage exists for the range.
type Source interface {
	// GetName returns source name
	GetName() string

	// FetchNews fetches articles about ticker published within [start, end]
	FetchNews(ctx context.Context, ticker string, start, end time.Time) ([]models.NewsArticle, error)
}
