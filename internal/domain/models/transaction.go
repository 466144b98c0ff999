package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// TransactionStatus enumerates the lifecycle states of a sale.
type TransactionStatus string

const (
	TransactionCompleted TransactionStatus = "completed"
	TransactionPending   TransactionStatus = "pending"
	TransactionCancelled TransactionStatus = "cancelled"
)

// PaymentMethod enumerates how a customer settles a sale.
type PaymentMethod string

const (
	PaymentCash    PaymentMethod = "cash"
	PaymentEWallet PaymentMethod = "e-wallet"
	PaymentBank    PaymentMethod = "bank"
)

// Valid reports whether the method is one the cashier can select.
func (m PaymentMethod) Valid() bool {
	switch m {
	case PaymentCash, PaymentEWallet, PaymentBank:
		return true
	default:
		return false
	}
}

// Label returns the name printed on receipts.
func (m PaymentMethod) Label() string {
	switch m {
	case PaymentCash:
		return "Tunai"
	case PaymentEWallet:
		return "E-Wallet"
	case PaymentBank:
		return "Transfer Bank"
	default:
		return string(m)
	}
}

// Transaction is the persisted header of a completed sale.
type Transaction struct {
	ID            string            `json:"id,omitempty"`
	ReceiptNumber string            `json:"receipt_number"`
	Date          time.Time         `json:"date"`
	Subtotal      decimal.Decimal   `json:"subtotal"`
	Tax           decimal.Decimal   `json:"tax"`
	Total         decimal.Decimal   `json:"total"`
	PaymentMethod PaymentMethod     `json:"payment_method"`
	CashierName   string            `json:"cashier_name,omitempty"`
	Status        TransactionStatus `json:"status"`
	CreatedAt     *time.Time        `json:"created_at,omitempty"`
	UpdatedAt     *time.Time        `json:"updated_at,omitempty"`
	Items         []TransactionItem `json:"transaction_items,omitempty"`
}

// TransactionItem is one sold line. Price is the unit price at sale time.
type TransactionItem struct {
	ID            string          `json:"id,omitempty"`
	TransactionID string          `json:"transaction_id"`
	ProductID     string          `json:"product_id"`
	Quantity      int             `json:"quantity"`
	Price         decimal.Decimal `json:"price"`
	CreatedAt     *time.Time      `json:"created_at,omitempty"`
	Product       *Product        `json:"products,omitempty"`
}

// LineTotal returns price multiplied by quantity.
func (i TransactionItem) LineTotal() decimal.Decimal {
	return i.Price.Mul(decimal.NewFromInt(int64(i.Quantity)))
}
