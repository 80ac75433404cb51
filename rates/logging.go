package rates

import (
	"context"
	"github.com/go-kit/log"
	"go-clipboard-converter/domain"
	"time"
)

// loggingProvider decorates a Provider with logging of refreshes
type loggingProvider struct {
	next   Provider
	logger log.Logger
}

// NewLoggingProvider returns a new logging Provider
func NewLoggingProvider(logger log.Logger, p Provider) Provider {
	return &loggingProvider{
		next:   p,
		logger: logger,
	}
}

// Current is on the conversion path and is not logged
func (p *loggingProvider) Current() domain.Rates {
	return p.next.Current()
}

func (p *loggingProvider) Refresh(ctx context.Context) (rates domain.Rates, outcome Outcome) {
	defer func(begin time.Time) {
		p.logger.Log(
			"method", "refresh",
			"outcome", outcome.Status,
			"usd", rates[domain.USD],
			"jpy", rates[domain.JPY],
			"eur", rates[domain.EUR],
			"cny", rates[domain.CNY],
			"took", time.Since(begin),
			"err", outcome.Err,
		)
	}(time.Now())
	return p.next.Refresh(ctx)
}
