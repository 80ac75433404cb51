package exchange

import (
	"github.com/go-kit/log"
	"go-clipboard-converter/domain"
	"time"
)

// loggingService decorates an exchange.Service with logging
type loggingService struct {
	logger log.Logger
	next   Service
}

// NewLoggingService returns a new instance of a logging Service
func NewLoggingService(logger log.Logger, s Service) Service {
	return &loggingService{
		next:   s,
		logger: logger,
	}
}

func (s *loggingService) Convert(amount domain.ParsedAmount, rates domain.Rates) (ex domain.ConversionResult, err error) {
	defer func(begin time.Time) {
		s.logger.Log(
			"method", "convert",
			"amount", amount.Value,
			"currency", amount.Currency,
			"defaulted", amount.Defaulted,
			"rate", ex.Rate,
			"converted_amount", ex.ConvertedValue,
			"took", time.Since(begin),
			"err", err,
		)
	}(time.Now())
	return s.next.Convert(amount, rates)
}
