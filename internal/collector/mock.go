package collector

import (
	"context"
	"errors"
	"sync"
	"time"

	"CrossSentinel/internal/model"
)

// MockFetcher returns controllable fixed data for development and testing.
type MockFetcher struct {
	mu     sync.Mutex
	Series map[string]model.PriceSeries
	Errors map[string]error
	Price  float64 // used to generate a flat series for unknown symbols; 0 fails them
	calls  []string
}

func (m *MockFetcher) Name() string { return "mock" }

func (m *MockFetcher) FetchDailySeries(_ context.Context, symbol string, lookbackDays int) (model.PriceSeries, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, symbol)

	if err, ok := m.Errors[symbol]; ok {
		return nil, &model.DataFetchError{Symbol: symbol, Err: err}
	}
	if s, ok := m.Series[symbol]; ok {
		return s, nil
	}
	if m.Price <= 0 {
		return nil, &model.DataFetchError{Symbol: symbol, Err: errors.New("mock: unknown symbol")}
	}
	return generateMockSeries(m.Price, lookbackDays), nil
}

// Calls returns the symbols requested so far, in order.
func (m *MockFetcher) Calls() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]string(nil), m.calls...)
}

func generateMockSeries(basePrice float64, count int) model.PriceSeries {
	now := time.Now()
	series := make(model.PriceSeries, count)
	for i := 0; i < count; i++ {
		series[i] = model.PricePoint{
			Date:  now.AddDate(0, 0, -(count - 1 - i)),
			Close: basePrice * (1 + float64(i-count/2)*0.001),
		}
	}
	return series
}
