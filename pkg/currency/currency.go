// Package currency formats Indonesian Rupiah amounts for receipts and reports.
package currency

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Symbol prefixes every formatted amount.
const Symbol = "Rp"

var printer = message.NewPrinter(language.Indonesian)

// Round rounds an amount to whole rupiah, half away from zero.
func Round(amount decimal.Decimal) decimal.Decimal {
	return amount.Round(0)
}

// Format renders an amount as "Rp 71.500". Negative amounts keep their sign
// after the symbol ("Rp -21.000").
func Format(amount decimal.Decimal) string {
	return Symbol + " " + printer.Sprintf("%d", Round(amount).IntPart())
}
