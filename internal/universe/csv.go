package universe

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"CrossSentinel/internal/model"
)

// SP500ConstituentsURL lists S&P 500 members with Symbol and Security columns.
const SP500ConstituentsURL = "https://raw.githubusercontent.com/datasets/s-and-p-500-companies/main/data/constituents.csv"

// CSVProvider downloads a CSV universe over HTTP on every call.
type CSVProvider struct {
	URL        string
	CodeColumn string
	NameColumn string
	Client     *http.Client
}

// NewCSVProvider creates a provider reading Symbol/Security columns from url.
func NewCSVProvider(url string, client *http.Client) *CSVProvider {
	if client == nil {
		client = &http.Client{Timeout: 30 * time.Second}
	}
	return &CSVProvider{URL: url, CodeColumn: "Symbol", NameColumn: "Security", Client: client}
}

func (p *CSVProvider) Name() string { return "csv:" + p.URL }

func (p *CSVProvider) Symbols(ctx context.Context) ([]model.Symbol, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.URL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.Client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch universe: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("fetch universe: status %d, body: %s", resp.StatusCode, string(body))
	}
	return parseCSV(resp.Body, p.CodeColumn, p.NameColumn)
}

func parseCSV(r io.Reader, codeCol, nameCol string) ([]model.Symbol, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	header, err := cr.Read()
	if err != nil {
		return nil, fmt.Errorf("read universe header: %w", err)
	}
	codeIdx, nameIdx := -1, -1
	for i, h := range header {
		switch strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")) {
		case codeCol:
			codeIdx = i
		case nameCol:
			nameIdx = i
		}
	}
	if codeIdx < 0 {
		return nil, fmt.Errorf("universe csv: column %q not found", codeCol)
	}

	var symbols []model.Symbol
	for {
		rec, err := cr.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read universe row: %w", err)
		}
		if codeIdx >= len(rec) {
			continue
		}
		s := model.Symbol{Code: strings.TrimSpace(rec[codeIdx])}
		if s.Code == "" {
			continue
		}
		if nameIdx >= 0 && nameIdx < len(rec) {
			s.Name = strings.TrimSpace(rec[nameIdx])
		}
		if s.Name == "" {
			s.Name = s.Code
		}
		symbols = append(symbols, s)
	}
	return symbols, nil
}
