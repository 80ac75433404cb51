// Package detect finds a monetary amount in free text.
package detect

import "strings"

// symbols maps currency symbols to codes. Reference currency symbols map to nothing.
var symbols = strings.NewReplacer(
	"$", "USD",
	"¥", "JPY",
	"￥", "JPY",
	"€", "EUR",
	"元", "CNY",
	"￦", "",
	"₩", "",
)

// Normalize replaces currency symbols with their codes, drops reference currency symbols
// and trims surrounding whitespace.
func Normalize(text string) string {
	return strings.TrimSpace(symbols.Replace(text))
}
