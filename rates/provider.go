package rates

import (
	"context"
	"fmt"
	"go-clipboard-converter/domain"
	"go-clipboard-converter/metrics"
	"sync"
)

// Source looks up rates quoted against a base currency, e.g. frankfurter.Service
type Source interface {
	ExchangeRates(ctx context.Context, base domain.Currency) (domain.Rates, error)
}

// Status the outcome of a refresh
type Status string

const (
	Refreshed Status = "refreshed"
	FellBack  Status = "fell_back"
)

// Outcome reports how a refresh went. Err is set when Status is FellBack.
type Outcome struct {
	Status Status
	Err    error
}

// Provider owns the current rate table.
type Provider interface {
	// Current returns the latest table without blocking on a refresh. The table must not be modified.
	Current() domain.Rates
	// Refresh replaces the table with freshly fetched rates, or keeps a usable table on failure.
	Refresh(ctx context.Context) (domain.Rates, Outcome)
}

// DefaultRates the built-in table used until a refresh succeeds
func DefaultRates() domain.Rates {
	return domain.Rates{
		domain.USD: 0.00075, // 1 USD ≈ 1,330 KRW
		domain.JPY: 0.113,   // 1 JPY ≈ 8.85 KRW
		domain.EUR: 0.00069, // 1 EUR ≈ 1,450 KRW
		domain.CNY: 0.0054,  // 1 CNY ≈ 185 KRW
	}
}

type provider struct {
	// source remote rates
	source Source

	// base the reference currency rates are requested for
	base domain.Currency

	// lock guards rates and refreshed. rates is only ever swapped, never mutated.
	lock      sync.RWMutex
	rates     domain.Rates
	refreshed bool

	metrics *metrics.Metrics
}

// NewProvider returns a Provider seeded with DefaultRates.
func NewProvider(base domain.Currency, source Source, m *metrics.Metrics) Provider {
	p := &provider{
		source:  source,
		base:    base,
		rates:   DefaultRates(),
		metrics: m,
	}
	p.observe(p.rates)
	return p
}

func (p *provider) Current() domain.Rates {
	p.lock.RLock()
	defer p.lock.RUnlock()
	return p.rates
}

func (p *provider) Refresh(ctx context.Context) (domain.Rates, Outcome) {
	fetched, err := p.fetch(ctx)
	if err != nil {
		p.lock.Lock()
		if !p.refreshed {
			p.rates = DefaultRates()
		}
		rates := p.rates
		p.lock.Unlock()

		p.metrics.RateRefreshes.WithLabelValues(string(FellBack)).Inc()
		p.observe(rates)
		return rates, Outcome{Status: FellBack, Err: err}
	}

	p.lock.Lock()
	p.rates = fetched
	p.refreshed = true
	p.lock.Unlock()

	p.metrics.RateRefreshes.WithLabelValues(string(Refreshed)).Inc()
	p.observe(fetched)
	return fetched, Outcome{Status: Refreshed}
}

// fetch loads rates from the source and keeps only the supported currencies
func (p *provider) fetch(ctx context.Context) (domain.Rates, error) {
	rates, err := p.source.ExchangeRates(ctx, p.base)
	if err != nil {
		return nil, fmt.Errorf("fetch [%v]: %w", p.base, err)
	}
	if err := rates.Validate(); err != nil {
		return nil, fmt.Errorf("fetch [%v]: %w", p.base, err)
	}
	table := make(domain.Rates, len(domain.Supported()))
	for _, c := range domain.Supported() {
		table[c] = rates[c]
	}
	return table, nil
}

func (p *provider) observe(rates domain.Rates) {
	for c, r := range rates {
		p.metrics.Rates.WithLabelValues(string(c)).Set(float64(r))
	}
}
