package collector

import (
	"context"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"CrossSentinel/internal/model"
)

// Fetcher returns daily closes for a symbol covering the last lookbackDays calendar days.
type Fetcher interface {
	FetchDailySeries(ctx context.Context, symbol string, lookbackDays int) (model.PriceSeries, error)
	Name() string
}

// Normalizer rewrites universe codes into the data source's ticker format.
type Normalizer struct {
	Replace map[string]string // applied first, e.g. "." -> "-" for BRK.B
	Suffix  string            // appended last, e.g. ".KS"
}

// Normalize returns the ticker to request for code.
func (n Normalizer) Normalize(code string) string {
	keys := make([]string, 0, len(n.Replace))
	for k := range n.Replace {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		code = strings.ReplaceAll(code, k, n.Replace[k])
	}
	if n.Suffix != "" && !strings.HasSuffix(code, n.Suffix) {
		code += n.Suffix
	}
	return code
}

func newHTTPClient(proxyURL string, timeout time.Duration) *http.Client {
	transport := &http.Transport{}
	if proxyURL != "" {
		if u, err := url.Parse(proxyURL); err == nil {
			transport.Proxy = http.ProxyURL(u)
		}
	}
	return &http.Client{Timeout: timeout, Transport: transport}
}

// normalizeSeries sorts by date, drops non-positive closes and keeps the last
// point for any repeated date.
func normalizeSeries(points model.PriceSeries) model.PriceSeries {
	sort.SliceStable(points, func(i, j int) bool { return points[i].Date.Before(points[j].Date) })
	out := make(model.PriceSeries, 0, len(points))
	for _, p := range points {
		if !(p.Close > 0) {
			continue
		}
		if n := len(out); n > 0 && sameDay(out[n-1].Date, p.Date) {
			out[n-1] = p
			continue
		}
		out = append(out, p)
	}
	return out
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
