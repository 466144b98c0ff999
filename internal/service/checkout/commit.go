package checkout

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/service/receipt"
)

// ErrCommitFailed reports that the sale could not be saved.
var ErrCommitFailed = errors.New("failed to save transaction")

// Gateway is the persistence surface the checkout needs.
type Gateway interface {
	CreateTransaction(ctx context.Context, tx models.Transaction) *models.Transaction
	CreateTransactionItems(ctx context.Context, items []models.TransactionItem) bool
	DecrementStock(ctx context.Context, productID string, quantity int) bool
	GetStoreSettings(ctx context.Context) *models.StoreSettings
}

// Confirm saves the sale and moves to completed.
//
// The header is written first, then the items, then one stock decrement per
// item. There is no cross-write transaction: when the items fail the header
// stays saved and the workflow stays in confirming so the cashier can retry
// with the same receipt number. Stock decrement failures are only logged.
func (w *Workflow) Confirm(ctx context.Context) (receipt.View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateConfirming {
		return receipt.View{}, fmt.Errorf("%w: confirm from %s", ErrInvalidTransition, w.state)
	}

	logger := w.logger.With(zap.String("receipt_number", w.receiptNumber))
	tx := models.Transaction{
		ReceiptNumber: w.receiptNumber,
		Date:          w.now(),
		Subtotal:      w.cart.Subtotal(),
		Tax:           w.cart.Tax(),
		Total:         w.cart.Total(),
		PaymentMethod: w.payment.Method,
		CashierName:   w.session.ActorName(),
		Status:        models.TransactionCompleted,
	}

	created := w.gateway.CreateTransaction(ctx, tx)
	if created == nil {
		logger.Error("transaction header was not saved")
		return receipt.View{}, fmt.Errorf("%w: header", ErrCommitFailed)
	}
	tx.ID = created.ID

	lines := w.cart.Lines()
	items := make([]models.TransactionItem, 0, len(lines))
	for _, l := range lines {
		items = append(items, models.TransactionItem{
			TransactionID: tx.ID,
			ProductID:     l.ProductID,
			Quantity:      l.Quantity,
			Price:         l.Price,
		})
	}

	if !w.gateway.CreateTransactionItems(ctx, items) {
		logger.Error("transaction items were not saved, header is kept",
			zap.String("transaction_id", tx.ID))
		return receipt.View{}, fmt.Errorf("%w: items", ErrCommitFailed)
	}

	for _, item := range items {
		if !w.gateway.DecrementStock(ctx, item.ProductID, item.Quantity) {
			logger.Warn("stock was not decremented",
				zap.String("product_id", item.ProductID),
				zap.Int("quantity", item.Quantity))
		}
	}

	tx.Items = items
	w.transaction = &tx
	w.receipt = w.buildReceipt(ctx, tx, lines)
	w.state = StateCompleted

	logger.Info("sale completed",
		zap.String("transaction_id", tx.ID),
		zap.String("payment_method", string(tx.PaymentMethod)),
		zap.String("total", tx.Total.String()))

	return *w.receipt, nil
}

func (w *Workflow) buildReceipt(ctx context.Context, tx models.Transaction, lines []Line) *receipt.View {
	view := &receipt.View{
		ReceiptNumber: tx.ReceiptNumber,
		Date:          tx.Date,
		Cashier:       tx.CashierName,
		Subtotal:      tx.Subtotal,
		Tax:           tx.Tax,
		Total:         tx.Total,
		PaymentMethod: tx.PaymentMethod,
		Provider:      w.payment.Provider,
	}
	if store := w.gateway.GetStoreSettings(ctx); store != nil {
		view.Store = *store
	}
	for _, l := range lines {
		view.Lines = append(view.Lines, receipt.Line{
			Name:     l.Name,
			Quantity: l.Quantity,
			Price:    l.Price,
			Total:    l.Total(),
		})
	}
	if change, ok := w.changeDue(); ok {
		view.AmountPaid = amountPaid(w.payment)
		view.Change = change
	}
	return view
}
