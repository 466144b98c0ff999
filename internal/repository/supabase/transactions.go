package supabase

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	client "github.com/albaehandicraft/umkmpos/pkg/clients/supabase"
)

// ListTransactions returns one page of transactions, newest first, with items embedded.
func (g *Gateway) ListTransactions(ctx context.Context, limit, page int) []models.Transaction {
	if limit <= 0 {
		limit = 100
	}
	if page < 0 {
		page = 0
	}

	query := url.Values{
		"select": {transactionWithItems},
		"order":  {"date.desc"},
		"offset": {strconv.Itoa(page * limit)},
		"limit":  {strconv.Itoa(limit)},
	}
	return g.selectTransactions(ctx, query, "failed to fetch transactions")
}

// RecentTransactions returns the latest transactions with items embedded.
func (g *Gateway) RecentTransactions(ctx context.Context, limit int) []models.Transaction {
	if limit <= 0 {
		limit = 5
	}
	query := url.Values{
		"select": {transactionWithItems},
		"order":  {"date.desc"},
		"limit":  {strconv.Itoa(limit)},
	}
	return g.selectTransactions(ctx, query, "failed to fetch recent transactions")
}

// TransactionsBetween returns the transactions dated within [start, end], oldest first.
func (g *Gateway) TransactionsBetween(ctx context.Context, start, end time.Time) []models.Transaction {
	query := url.Values{
		"select": {transactionWithItems},
		"date":   {"gte." + start.UTC().Format(time.RFC3339), "lte." + end.UTC().Format(time.RFC3339)},
		"order":  {"date.asc"},
	}
	return g.selectTransactions(ctx, query, "failed to fetch sales by date")
}

// GetTransaction returns one transaction with items embedded, or nil.
func (g *Gateway) GetTransaction(ctx context.Context, id string) *models.Transaction {
	tx := new(models.Transaction)
	query := url.Values{"select": {transactionWithItems}, "id": {client.Eq(id)}}
	if err := g.client.SelectSingle(ctx, transactionsTable, query, tx); err != nil {
		g.logger.Error("failed to fetch transaction", zap.String("transaction_id", id), zap.Error(err))
		return nil
	}
	return tx
}

// CreateTransaction inserts a transaction header and returns the stored row or nil.
// Embedded items are never sent with the header.
func (g *Gateway) CreateTransaction(ctx context.Context, tx models.Transaction) *models.Transaction {
	tx.ID = ""
	tx.Items = nil
	tx.CreatedAt, tx.UpdatedAt = nil, nil

	created := new(models.Transaction)
	if err := g.client.InsertSingle(ctx, transactionsTable, tx, created); err != nil {
		g.logger.Error("failed to create transaction",
			zap.String("receipt_number", tx.ReceiptNumber),
			zap.Error(err))
		return nil
	}
	return created
}

// CreateTransactionItems inserts the line items of a transaction in one request.
func (g *Gateway) CreateTransactionItems(ctx context.Context, items []models.TransactionItem) bool {
	rows := make([]models.TransactionItem, len(items))
	for i, item := range items {
		item.ID = ""
		item.Product = nil
		item.CreatedAt = nil
		rows[i] = item
	}

	if err := g.client.Insert(ctx, transactionItemsTable, rows, nil); err != nil {
		transactionID := ""
		if len(items) > 0 {
			transactionID = items[0].TransactionID
		}
		g.logger.Error("failed to create transaction items",
			zap.String("transaction_id", transactionID),
			zap.Int("items", len(items)),
			zap.Error(err))
		return false
	}
	return true
}

// DecrementStock asks the backend to atomically reduce a product's stock.
func (g *Gateway) DecrementStock(ctx context.Context, productID string, quantity int) bool {
	args := map[string]any{"product_id": productID, "quantity": quantity}
	if err := g.client.RPC(ctx, decrementStockFunction, args, nil); err != nil {
		g.logger.Error("failed to update product stock",
			zap.String("product_id", productID),
			zap.Int("quantity", quantity),
			zap.Error(err))
		return false
	}
	return true
}

func (g *Gateway) selectTransactions(ctx context.Context, query url.Values, failure string) []models.Transaction {
	var transactions []models.Transaction
	if err := g.client.Select(ctx, transactionsTable, query, &transactions); err != nil {
		g.logger.Error(failure, zap.Error(err))
		return []models.Transaction{}
	}
	if transactions == nil {
		return []models.Transaction{}
	}
	return transactions
}
