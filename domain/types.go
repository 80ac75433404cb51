package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Currency a currency code
type Currency string

const (
	USD Currency = "USD"
	JPY Currency = "JPY"
	EUR Currency = "EUR"
	CNY Currency = "CNY"
)

// Supported lists the currencies that can be detected and converted, in display order.
func Supported() []Currency {
	return []Currency{USD, JPY, EUR, CNY}
}

// Supported reports whether c is one of the convertible currencies.
func (c Currency) Supported() bool {
	switch c {
	case USD, JPY, EUR, CNY:
		return true
	}
	return false
}

// Rate an exchange rate: units of a currency bought by one unit of the reference currency
type Rate float64

// Rates maps currency codes to rates against the reference currency.
// A Rates value handed out by a provider is shared and must only be read.
type Rates map[Currency]Rate

// Validate checks that every supported currency has a positive rate.
func (r Rates) Validate() error {
	for _, c := range Supported() {
		rate, ok := r[c]
		if !ok {
			return fmt.Errorf("missing rate for %v", c)
		}
		if !(rate > 0) {
			return fmt.Errorf("non-positive rate for %v: %v", c, rate)
		}
	}
	return nil
}

// Reference the currency every amount is converted into
type Reference struct {
	Code   Currency
	Suffix string
}

// KRW the default reference currency
var KRW = Reference{Code: "KRW", Suffix: "원"}

// ParsedAmount an amount detected in text
type ParsedAmount struct {
	Value    float64
	Currency Currency
	// Defaulted is true when the text carried no currency and USD was assumed
	Defaulted bool
}

// ConversionResult an amount converted into the reference currency.
type ConversionResult struct {
	ID             uuid.UUID
	Amount         ParsedAmount
	Rate           Rate
	ConvertedValue float64
	OriginalText   string
	ConvertedText  string
	ObservedAt     time.Time
}

func (r ConversionResult) String() string {
	return r.OriginalText + " = " + r.ConvertedText
}
