package exchange

import (
	"fmt"
	"go-clipboard-converter/domain"
)

// Service interface for converting detected amounts into the reference currency
type Service interface {
	Convert(amount domain.ParsedAmount, rates domain.Rates) (domain.ConversionResult, error)
}

// service converts with rates quoted against reference
type service struct {
	// reference the currency amounts are converted into
	reference domain.Reference
}

// NewService constructs a valid Service
func NewService(reference domain.Reference) Service {
	return &service{
		reference: reference,
	}
}

// Convert divides the amount by the rate of its currency.
// ID and ObservedAt are left for the caller to stamp.
func (s *service) Convert(amount domain.ParsedAmount, rates domain.Rates) (domain.ConversionResult, error) {
	rate, ok := rates[amount.Currency]
	if !ok {
		return domain.ConversionResult{}, fmt.Errorf("unknown currency: %v", amount.Currency)
	}
	if !(rate > 0) {
		return domain.ConversionResult{}, fmt.Errorf("invalid rate for %v: %v", amount.Currency, rate)
	}

	converted := amount.Value / float64(rate)

	result := domain.ConversionResult{
		Amount:         amount,
		Rate:           rate,
		ConvertedValue: converted,
		OriginalText:   FormatOriginal(amount),
		ConvertedText:  FormatConverted(converted, s.reference),
	}

	return result, nil
}
