package receipt

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/currency"
)

// Width is the character width of a 58mm thermal receipt.
const Width = 32

const (
	defaultStoreName = "UMKM POS"
	defaultFooter    = "Terima kasih atas kunjungan Anda"
	dateLayout       = "02/01/2006 15:04"
)

// ErrShareUnavailable is returned until a sharing channel is configured.
var ErrShareUnavailable = errors.New("receipt sharing is not available")

// Line is one printed sale line.
type Line struct {
	Name     string          `json:"name"`
	Quantity int             `json:"quantity"`
	Price    decimal.Decimal `json:"price"`
	Total    decimal.Decimal `json:"total"`
}

// View holds everything printed on a receipt.
type View struct {
	Store         models.StoreSettings `json:"store"`
	ReceiptNumber string               `json:"receipt_number"`
	Date          time.Time            `json:"date"`
	Cashier       string               `json:"cashier"`
	Lines         []Line               `json:"lines"`
	Subtotal      decimal.Decimal      `json:"subtotal"`
	Tax           decimal.Decimal      `json:"tax"`
	Total         decimal.Decimal      `json:"total"`
	PaymentMethod models.PaymentMethod `json:"payment_method"`
	Provider      string               `json:"provider,omitempty"`
	AmountPaid    decimal.Decimal      `json:"amount_paid"`
	Change        decimal.Decimal      `json:"change"`
}

// Render formats the receipt as plain text for a thermal printer.
func Render(v View) string {
	var b strings.Builder
	rule := strings.Repeat("-", Width)

	storeName := v.Store.StoreName
	if storeName == "" {
		storeName = defaultStoreName
	}
	writeCentered(&b, strings.ToUpper(storeName))
	for _, line := range []string{v.Store.Address, v.Store.Phone, v.Store.ReceiptHeader} {
		if line != "" {
			writeCentered(&b, line)
		}
	}
	if v.Store.TaxID != "" {
		writeCentered(&b, "NPWP: "+v.Store.TaxID)
	}

	b.WriteString(rule + "\n")
	writeRow(&b, "No", v.ReceiptNumber)
	writeRow(&b, "Tanggal", v.Date.Format(dateLayout))
	if v.Cashier != "" {
		writeRow(&b, "Kasir", v.Cashier)
	}
	b.WriteString(rule + "\n")

	for _, l := range v.Lines {
		fmt.Fprintf(&b, "%d x %s\n", l.Quantity, l.Name)
		writeRow(&b, "  @ "+currency.Format(l.Price), currency.Format(l.Total))
	}
	b.WriteString(rule + "\n")

	writeRow(&b, "Subtotal", currency.Format(v.Subtotal))
	writeRow(&b, "Pajak (10%)", currency.Format(v.Tax))
	writeRow(&b, "Total", currency.Format(v.Total))

	method := v.PaymentMethod.Label()
	if v.Provider != "" {
		method += " " + strings.ToUpper(v.Provider)
	}
	writeRow(&b, "Pembayaran", method)
	if v.PaymentMethod == models.PaymentCash {
		writeRow(&b, "Dibayar", currency.Format(v.AmountPaid))
		writeRow(&b, "Kembalian", currency.Format(v.Change))
	}
	b.WriteString(rule + "\n")

	footer := v.Store.ReceiptFooter
	if footer == "" {
		footer = defaultFooter
	}
	writeCentered(&b, footer)

	return b.String()
}

// Share sends the receipt to the customer.
func Share(_ context.Context, _ View) error {
	return ErrShareUnavailable
}

func writeCentered(b *strings.Builder, s string) {
	n := utf8.RuneCountInString(s)
	if n < Width {
		b.WriteString(strings.Repeat(" ", (Width-n)/2))
	}
	b.WriteString(s)
	b.WriteByte('\n')
}

// writeRow left-aligns label and right-aligns value, wrapping the value to
// its own line when both do not fit.
func writeRow(b *strings.Builder, label, value string) {
	gap := Width - utf8.RuneCountInString(label) - utf8.RuneCountInString(value)
	if gap < 1 {
		b.WriteString(label + "\n")
		gap = Width - utf8.RuneCountInString(value)
		label = ""
		if gap < 0 {
			gap = 0
		}
	}
	b.WriteString(label + strings.Repeat(" ", gap) + value + "\n")
}
