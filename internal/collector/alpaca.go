package collector

import (
	"context"
	"fmt"
	"time"

	"CrossSentinel/internal/model"

	"github.com/alpacahq/alpaca-trade-api-go/v3/marketdata"
)

// AlpacaFetcher implements Fetcher using Alpaca's market data API.
type AlpacaFetcher struct {
	Client *marketdata.Client
	Now    func() time.Time
}

// NewAlpacaFetcher creates a fetcher authenticated with the given key pair.
func NewAlpacaFetcher(apiKey, apiSecret string) *AlpacaFetcher {
	return &AlpacaFetcher{
		Client: marketdata.NewClient(marketdata.ClientOpts{
			APIKey:    apiKey,
			APISecret: apiSecret,
		}),
		Now: time.Now,
	}
}

func (f *AlpacaFetcher) Name() string { return "alpaca" }

func (f *AlpacaFetcher) FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) (model.PriceSeries, error) {
	if err := ctx.Err(); err != nil {
		return nil, &model.DataFetchError{Symbol: symbol, Err: err}
	}
	end := f.Now()
	bars, err := f.Client.GetBars(symbol, marketdata.GetBarsRequest{
		TimeFrame: marketdata.OneDay,
		Start:     end.AddDate(0, 0, -lookbackDays),
		End:       end,
	})
	if err != nil {
		return nil, &model.DataFetchError{Symbol: symbol, Err: fmt.Errorf("alpaca bars: %w", err)}
	}
	if len(bars) == 0 {
		return nil, &model.DataFetchError{Symbol: symbol, Err: fmt.Errorf("alpaca: no data returned")}
	}
	points := make(model.PriceSeries, len(bars))
	for i, b := range bars {
		points[i] = model.PricePoint{Date: b.Timestamp, Close: b.Close}
	}
	return normalizeSeries(points), nil
}
