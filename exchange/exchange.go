package exchange

import (
	"go-clipboard-converter/detect"
	"go-clipboard-converter/domain"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

// printer groups thousands with commas and uses a period for decimals
var printer = message.NewPrinter(language.English)

// FormatOriginal renders an amount with two decimals followed by its code, e.g. "1,200.00 USD".
func FormatOriginal(amount domain.ParsedAmount) string {
	return printer.Sprint(number.Decimal(amount.Value, number.Scale(2))) + " " + string(amount.Currency)
}

// FormatConverted renders a reference amount rounded to whole units followed by the reference suffix, e.g. "16,667원".
func FormatConverted(value float64, reference domain.Reference) string {
	return printer.Sprint(number.Decimal(value, number.Scale(0))) + reference.Suffix
}

// ConvertText detects the first amount in raw text and converts it with s.
// Text without a convertible amount yields an error matching detect.ErrNoAmount.
func ConvertText(s Service, text string, rates domain.Rates) (domain.ConversionResult, error) {
	amount, err := detect.Parse(detect.Normalize(text))
	if err != nil {
		return domain.ConversionResult{}, err
	}
	return s.Convert(amount, rates)
}
