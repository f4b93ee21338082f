package collector

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"CrossSentinel/internal/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const chartBody = `{"chart":{"result":[{"meta":{"gmtoffset":32400},
"timestamp":[1736985600,1736899200,1737072000,1737072000,1737331200],
"indicators":{"quote":[{"close":[102.5,101.0,null,103.0,104.25]}]}}],"error":null}}`

func newTestYahoo(t *testing.T, handler http.HandlerFunc) *YahooFetcher {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	f := NewYahooFetcher("")
	f.BaseURL = srv.URL
	f.Now = func() time.Time { return time.Unix(1737331200, 0) }
	return f
}

func TestYahooFetcher_FetchDailySeries(t *testing.T) {
	var gotPath, gotQuery string
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotQuery = r.URL.RawQuery
		w.Write([]byte(chartBody))
	})

	series, err := f.FetchDailySeries(context.Background(), "005930.KS", 30)
	require.NoError(t, err)

	assert.Equal(t, "/v8/finance/chart/005930.KS", gotPath)
	assert.Contains(t, gotQuery, "interval=1d")
	assert.Contains(t, gotQuery, "period2=1737331200")
	assert.Contains(t, gotQuery, "period1=1734739200")

	// sorted ascending, null dropped, duplicate timestamp collapsed
	require.Len(t, series, 4)
	assert.Equal(t, []float64{101.0, 102.5, 103.0, 104.25}, series.Closes())
	for i := 1; i < len(series); i++ {
		assert.True(t, series[i-1].Date.Before(series[i].Date))
	}
}

func TestYahooFetcher_APIError(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		w.Write([]byte(`{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found, symbol may be delisted"}}}`))
	})

	_, err := f.FetchDailySeries(context.Background(), "XXXX", 90)
	require.Error(t, err)
	var fetchErr *model.DataFetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.Equal(t, "XXXX", fetchErr.Symbol)
	assert.Contains(t, err.Error(), "delisted")
	assert.Equal(t, model.ReasonFetch, model.FailureReason(err))
}

func TestYahooFetcher_BadStatus(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	})

	_, err := f.FetchDailySeries(context.Background(), "AAPL", 90)
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "429"))
}

func TestYahooFetcher_EmptyResult(t *testing.T) {
	f := newTestYahoo(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"chart":{"result":[],"error":null}}`))
	})

	_, err := f.FetchDailySeries(context.Background(), "AAPL", 90)
	assert.ErrorContains(t, err, "no data returned")
}

func TestNormalizer(t *testing.T) {
	tests := []struct {
		name string
		n    Normalizer
		in   string
		want string
	}{
		{"passthrough", Normalizer{}, "AAPL", "AAPL"},
		{"class shares", Normalizer{Replace: map[string]string{".": "-"}}, "BRK.B", "BRK-B"},
		{"exchange suffix", Normalizer{Suffix: ".KS"}, "005930", "005930.KS"},
		{"suffix not doubled", Normalizer{Suffix: ".KS"}, "005930.KS", "005930.KS"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.n.Normalize(tt.in))
		})
	}
}

func TestNormalizeSeries_DropsNonPositive(t *testing.T) {
	d := time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC)
	in := model.PriceSeries{
		{Date: d.AddDate(0, 0, 2), Close: 12},
		{Date: d, Close: 10},
		{Date: d.AddDate(0, 0, 1), Close: 0},
	}
	out := normalizeSeries(in)
	assert.Equal(t, []float64{10, 12}, out.Closes())
}

func TestMockFetcher(t *testing.T) {
	m := &MockFetcher{
		Series: map[string]model.PriceSeries{"A": {{Date: time.Now(), Close: 1}}},
		Errors: map[string]error{"B": errors.New("boom")},
	}

	s, err := m.FetchDailySeries(context.Background(), "A", 10)
	require.NoError(t, err)
	assert.Len(t, s, 1)

	_, err = m.FetchDailySeries(context.Background(), "B", 10)
	assert.ErrorContains(t, err, "boom")

	_, err = m.FetchDailySeries(context.Background(), "C", 10)
	assert.Error(t, err)

	m.Price = 50
	s, err = m.FetchDailySeries(context.Background(), "C", 10)
	require.NoError(t, err)
	assert.Len(t, s, 10)

	assert.Equal(t, []string{"A", "B", "C", "C"}, m.Calls())
}
