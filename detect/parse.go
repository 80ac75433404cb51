package detect

import (
	"errors"
	"fmt"
	"go-clipboard-converter/domain"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/currency"
)

var (
	// ErrNoAmount the text holds nothing that can be converted
	ErrNoAmount = errors.New("no amount detected")

	// ErrUnsupportedCurrency an amount was found but its currency cannot be converted
	ErrUnsupportedCurrency = fmt.Errorf("%w: unsupported currency", ErrNoAmount)
)

// amountPattern matches an optional code, a number with comma grouping and at most one
// decimal point, and an optional code after it. The number may start at the decimal point.
// Codes are three letter words.
var amountPattern = regexp.MustCompile(`(?:\b([A-Za-z]{3})\s*)?(\d[\d,]*(?:\.\d+)?|\.\d+)(?:\s*([A-Za-z]{3})\b)?`)

// Parse extracts the first amount in normalized text.
//
// A code following the number wins over one preceding it. Without either the amount is taken
// to be USD. An ISO 4217 code outside the supported set following the number yields
// ErrUnsupportedCurrency. Any other word next to the number is ignored.
func Parse(text string) (domain.ParsedAmount, error) {
	m := amountPattern.FindStringSubmatch(text)
	if m == nil {
		return domain.ParsedAmount{}, ErrNoAmount
	}
	prefix, number, suffix := m[1], m[2], m[3]

	value, err := strconv.ParseFloat(strings.ReplaceAll(number, ",", ""), 64)
	if err != nil {
		return domain.ParsedAmount{}, fmt.Errorf("parse amount %q: %w", number, err)
	}

	amount := domain.ParsedAmount{Value: value}
	switch code := domain.Currency(strings.ToUpper(suffix)); {
	case code.Supported():
		amount.Currency = code
	case isCurrencyCode(suffix):
		return domain.ParsedAmount{}, fmt.Errorf("%w: %v", ErrUnsupportedCurrency, code)
	case domain.Currency(strings.ToUpper(prefix)).Supported():
		amount.Currency = domain.Currency(strings.ToUpper(prefix))
	default:
		amount.Currency = domain.USD
		amount.Defaulted = true
	}
	return amount, nil
}

// isCurrencyCode reports whether word is a known ISO 4217 code, in any case
func isCurrencyCode(word string) bool {
	if word == "" {
		return false
	}
	_, err := currency.ParseISO(word)
	return err == nil
}
