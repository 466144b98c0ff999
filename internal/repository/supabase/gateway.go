package supabase

import (
	"go.uber.org/zap"

	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
)

const (
	productsTable         = "products"
	categoriesTable       = "categories"
	transactionsTable     = "transactions"
	transactionItemsTable = "transaction_items"
	storeSettingsTable    = "store_settings"
	usersTable            = "users"
	uiSettingsTable       = "ui_settings"

	decrementStockFunction = "decrement_stock"

	transactionWithItems = "*,transaction_items(*,products(*))"
)

// Gateway translates domain operations into hosted backend requests.
//
// Every method logs its own failures and degrades to an empty slice, nil or
// false instead of returning an error, so an empty result can mean either
// "no data" or "request failed".
type Gateway struct {
	client client.Client
	logger *zap.Logger
}

// NewGateway builds a gateway on top of the backend client.
func NewGateway(c client.Client, logger *zap.Logger) *Gateway {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Gateway{client: c, logger: logger}
}
