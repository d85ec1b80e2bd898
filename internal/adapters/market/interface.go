package market

import (
	"context"
	"time"

	"github.com/dsokolov/newslens/pkg/models"
)

// Source represents a market-data collaborator. An empty or failed result is
// run-fatal: correlation is impossible without prices.
type Source interface {
	// GetName returns source name
	GetName() string

	// FetchPrices fetches daily OHLCV history for ticker within [start, end]
	FetchPrices(ctx context.Context, ticker string, start, end time.Time) (models.PriceSeries, error)
}
