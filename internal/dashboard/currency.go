package dashboard

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var vietnamese = message.NewPrinter(language.Vietnamese)

// FormatVND groups thousands the Vietnamese way and appends the currency,
// e.g. 1500000 -> "1.500.000 VND".
func FormatVND(amount float64) string {
	return vietnamese.Sprintf("%v", number.Decimal(amount, number.MaxFractionDigits(3))) + " VND"
}
