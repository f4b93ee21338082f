package universe

import (
	"context"
	"sync"
	"time"

	"CrossSentinel/internal/logger"
	"CrossSentinel/internal/model"
)

// Provider supplies the symbol universe for a market.
type Provider interface {
	Symbols(ctx context.Context) ([]model.Symbol, error)
	Name() string
}

// Load asks p for the universe. Errors are logged and reported as an empty
// universe, which callers treat as nothing to scan.
func Load(ctx context.Context, p Provider) []model.Symbol {
	symbols, err := p.Symbols(ctx)
	if err != nil {
		logger.Error("load universe failed",
			logger.String("provider", p.Name()),
			logger.ErrorField(err),
		)
		return nil
	}
	return symbols
}

// Cache wraps a Provider and reuses its last successful result for TTL.
// A zero TTL refreshes on every call. If a refresh fails the previous
// snapshot is served.
type Cache struct {
	Provider Provider
	TTL      time.Duration
	Now      func() time.Time

	mu        sync.Mutex
	symbols   []model.Symbol
	fetchedAt time.Time
}

// NewCache creates a Cache around p.
func NewCache(p Provider, ttl time.Duration) *Cache {
	return &Cache{Provider: p, TTL: ttl, Now: time.Now}
}

func (c *Cache) Name() string { return c.Provider.Name() }

func (c *Cache) Symbols(ctx context.Context) ([]model.Symbol, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.Now()
	if c.symbols != nil && c.TTL > 0 && now.Sub(c.fetchedAt) < c.TTL {
		return c.symbols, nil
	}

	symbols, err := c.Provider.Symbols(ctx)
	if err != nil || len(symbols) == 0 {
		if c.symbols != nil {
			logger.Warn("universe refresh failed, serving cached snapshot",
				logger.String("provider", c.Provider.Name()),
				logger.Int("symbols", len(c.symbols)),
				logger.ErrorField(err),
			)
			return c.symbols, nil
		}
		return symbols, err
	}
	c.symbols = symbols
	c.fetchedAt = now
	return symbols, nil
}
