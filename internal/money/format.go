// Package money renders whole-shilling amounts for API responses.
package money

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var printer = message.NewPrinter(language.English)

// FormatKES renders an amount of whole Kenyan shillings with thousand
// separators, e.g. 125000 -> "KSh 125,000".
func FormatKES(amount int64) string {
	return printer.Sprintf("KSh %d", amount)
}
