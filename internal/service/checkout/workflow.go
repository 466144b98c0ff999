package checkout

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/service/identity"
	"github.com/albaehandicraft/umkmpos/internal/service/receipt"
)

// State is a step of the checkout workflow.
type State string

const (
	StateReviewing  State = "reviewing"
	StateConfirming State = "confirming"
	StateCompleted  State = "completed"
)

var (
	ErrEmptyCart            = errors.New("cart is empty")
	ErrInvalidPaymentMethod = errors.New("invalid payment method")
	ErrAmountRequired       = errors.New("amount paid is required for cash payments")
	ErrUnknownProvider      = errors.New("unknown payment provider")
	ErrInvalidTransition    = errors.New("invalid checkout state transition")
	ErrCartLocked           = errors.New("cart cannot change while payment is in progress")
	ErrNoReceipt            = errors.New("no receipt for this checkout yet")
)

// PaymentSelection is what the cashier picks on the payment step.
type PaymentSelection struct {
	Method     models.PaymentMethod `json:"method" binding:"required"`
	Provider   string               `json:"provider,omitempty"`
	AmountPaid string               `json:"amount_paid,omitempty"`
}

// Snapshot is a read-only view of a workflow.
type Snapshot struct {
	State         State               `json:"state"`
	Lines         []Line              `json:"lines"`
	Subtotal      decimal.Decimal     `json:"subtotal"`
	Tax           decimal.Decimal     `json:"tax"`
	Total         decimal.Decimal     `json:"total"`
	Payment       *PaymentSelection   `json:"payment,omitempty"`
	Change        *decimal.Decimal    `json:"change,omitempty"`
	ReceiptNumber string              `json:"receipt_number,omitempty"`
	Transaction   *models.Transaction `json:"transaction,omitempty"`
}

// Option customises a Workflow.
type Option func(*Workflow)

// WithClock overrides the time source used for sale dates and receipt numbers.
func WithClock(now func() time.Time) Option {
	return func(w *Workflow) { w.now = now }
}

// WithReceiptSuffix overrides the random suffix of receipt numbers.
func WithReceiptSuffix(suffix func() int) Option {
	return func(w *Workflow) { w.suffix = suffix }
}

// Workflow drives one sale from cart review to a printed receipt.
// It is safe for concurrent use.
type Workflow struct {
	mu sync.Mutex

	session identity.Session
	gateway Gateway
	logger  *zap.Logger
	now     func() time.Time
	suffix  func() int

	cart          *Cart
	state         State
	payment       *PaymentSelection
	receiptNumber string
	transaction   *models.Transaction
	receipt       *receipt.View
}

// NewWorkflow starts a workflow with an empty cart for the given session.
func NewWorkflow(session identity.Session, gateway Gateway, logger *zap.Logger, opts ...Option) *Workflow {
	if logger == nil {
		logger = zap.NewNop()
	}
	w := &Workflow{
		session: session,
		gateway: gateway,
		logger:  logger,
		now:     time.Now,
		suffix:  func() int { return rand.IntN(1000) },
		cart:    NewCart(),
		state:   StateReviewing,
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// State returns the current step.
func (w *Workflow) State() State {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.state
}

// AddItem adds one unit of product to the cart.
func (w *Workflow) AddItem(product models.Product) error {
	return w.mutateCart(func(c *Cart) error {
		c.AddItem(product)
		return nil
	})
}

// ChangeQuantity sets the quantity of a cart line.
func (w *Workflow) ChangeQuantity(lineID string, quantity int) error {
	return w.mutateCart(func(c *Cart) error { return c.ChangeQuantity(lineID, quantity) })
}

func (w *Workflow) Increment(lineID string) error {
	return w.mutateCart(func(c *Cart) error { return c.Increment(lineID) })
}

func (w *Workflow) Decrement(lineID string) error {
	return w.mutateCart(func(c *Cart) error { return c.Decrement(lineID) })
}

// RemoveItem deletes a cart line.
func (w *Workflow) RemoveItem(lineID string) error {
	return w.mutateCart(func(c *Cart) error {
		if !c.RemoveItem(lineID) {
			return ErrLineNotFound
		}
		return nil
	})
}

func (w *Workflow) mutateCart(fn func(*Cart) error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.state != StateReviewing {
		return ErrCartLocked
	}
	return fn(w.cart)
}

// ProceedToPayment validates the payment selection and moves to confirming.
// Each call assigns a new receipt number.
func (w *Workflow) ProceedToPayment(sel PaymentSelection) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateReviewing {
		return fmt.Errorf("%w: proceed from %s", ErrInvalidTransition, w.state)
	}
	if w.cart.IsEmpty() {
		return ErrEmptyCart
	}
	if !sel.Method.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidPaymentMethod, sel.Method)
	}

	switch sel.Method {
	case models.PaymentCash:
		sel.Provider = ""
		sel.AmountPaid = digitsOnly(sel.AmountPaid)
		if sel.AmountPaid == "" {
			return ErrAmountRequired
		}
	default:
		sel.AmountPaid = ""
		sel.Provider = strings.ToLower(strings.TrimSpace(sel.Provider))
		if sel.Provider == "" {
			sel.Provider = sel.Method.DefaultProvider()
		}
		if !sel.Method.AcceptsProvider(sel.Provider) {
			return fmt.Errorf("%w: %q for %s", ErrUnknownProvider, sel.Provider, sel.Method)
		}
	}

	w.payment = &sel
	w.receiptNumber = fmt.Sprintf("INV-%s-%d", w.now().UTC().Format("2006-01-02"), w.suffix())
	w.state = StateConfirming
	return nil
}

// ChangeDue returns the cash change for the current payment. The second
// value is false when the payment is not cash. The change may be negative.
func (w *Workflow) ChangeDue() (decimal.Decimal, bool) {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.changeDue()
}

func (w *Workflow) changeDue() (decimal.Decimal, bool) {
	if w.payment == nil || w.payment.Method != models.PaymentCash {
		return decimal.Zero, false
	}
	return amountPaid(w.payment).Sub(w.cart.Total()), true
}

// Cancel returns to reviewing and drops the payment selection. The cart is kept.
func (w *Workflow) Cancel() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state == StateCompleted {
		return fmt.Errorf("%w: cancel from %s", ErrInvalidTransition, w.state)
	}
	w.payment = nil
	w.receiptNumber = ""
	w.state = StateReviewing
	return nil
}

// Finish closes the receipt, clears the cart and starts over.
func (w *Workflow) Finish() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.state != StateCompleted {
		return fmt.Errorf("%w: finish from %s", ErrInvalidTransition, w.state)
	}
	w.cart.Clear()
	w.payment = nil
	w.receiptNumber = ""
	w.transaction = nil
	w.receipt = nil
	w.state = StateReviewing
	return nil
}

// Receipt returns the receipt of the completed sale.
func (w *Workflow) Receipt() (receipt.View, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.receipt == nil {
		return receipt.View{}, ErrNoReceipt
	}
	return *w.receipt, nil
}

// Snapshot returns the current state for display.
func (w *Workflow) Snapshot() Snapshot {
	w.mu.Lock()
	defer w.mu.Unlock()

	s := Snapshot{
		State:         w.state,
		Lines:         w.cart.Lines(),
		Subtotal:      w.cart.Subtotal(),
		Tax:           w.cart.Tax(),
		Total:         w.cart.Total(),
		ReceiptNumber: w.receiptNumber,
		Transaction:   w.transaction,
	}
	if w.payment != nil {
		p := *w.payment
		s.Payment = &p
	}
	if change, ok := w.changeDue(); ok {
		s.Change = &change
	}
	return s
}

func digitsOnly(s string) string {
	var b strings.Builder
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func amountPaid(p *PaymentSelection) decimal.Decimal {
	d, err := decimal.NewFromString(p.AmountPaid)
	if err != nil {
		return decimal.Zero
	}
	return d
}
