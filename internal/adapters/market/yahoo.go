package market

import (
	"context"
	"fmt"
	"time"

	"github.com/piquette/finance-go/chart"
	"github.com/piquette/finance-go/datetime"
	"go.uber.org/zap"

	"github.com/dsokolov/newslens/pkg/logger"
	"github.com/dsokolov/newslens/pkg/models"
)

// YahooSource fetches daily OHLCV history from Yahoo Finance
type YahooSource struct{}

// NewYahooSource creates new Yahoo Finance market data source
func NewYahooSource() *YahooSource {
	return &YahooSource{}
}

func (s *YahooSource) GetName() string {
	return "yahoo"
}

// FetchPrices fetches daily bars for ticker within [start, end]
func (s *YahooSource) FetchPrices(ctx context.Context, ticker string, start, end time.Time) (models.PriceSeries, error) {
	// The chart API does not take a context; honor cancellation up front
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	params := &chart.Params{
		Symbol:   ticker,
		Interval: datetime.OneDay,
		Start:    datetime.New(&start),
		End:      datetime.New(&end),
	}

	iter := chart.Get(params)

	var series models.PriceSeries
	for iter.Next() {
		bar := iter.Bar()
		series = append(series, models.PricePoint{
			Date:   time.Unix(int64(bar.Timestamp), 0).UTC(),
			Open:   bar.Open,
			High:   bar.High,
			Low:    bar.Low,
			Close:  bar.Close,
			Volume: int64(bar.Volume),
		})
	}
	if err := iter.Err(); err != nil {
		return nil, fmt.Errorf("yahoo chart request failed for %s: %w", ticker, err)
	}

	series = series.Normalize()

	logger.Info("fetched price history",
		zap.String("ticker", ticker),
		zap.Int("bars", len(series)),
	)

	return series, nil
}
