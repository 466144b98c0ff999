package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/server/middleware"
	"github.com/albaehandicraft/umkmpos/internal/service/checkout"
	"github.com/albaehandicraft/umkmpos/internal/service/inventory"
	"github.com/albaehandicraft/umkmpos/internal/service/receipt"
)

// ProductLookup finds the product a cashier scans or taps.
type ProductLookup interface {
	Get(ctx context.Context, id string) (*models.Product, error)
}

// CheckoutHandler drives checkout sessions over HTTP.
type CheckoutHandler struct {
	sessions *checkout.SessionManager
	products ProductLookup
	logger   *zap.Logger
}

func NewCheckoutHandler(sessions *checkout.SessionManager, products ProductLookup, logger *zap.Logger) *CheckoutHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CheckoutHandler{sessions: sessions, products: products, logger: logger}
}

type checkoutResponse struct {
	ID string `json:"id"`
	checkout.Snapshot
}

type addItemRequest struct {
	ProductID string `json:"product_id" binding:"required"`
}

// updateItemRequest sets an absolute quantity or steps it by delta (+1 or -1).
type updateItemRequest struct {
	Quantity *int `json:"quantity"`
	Delta    *int `json:"delta"`
}

type confirmResponse struct {
	checkoutResponse
	Receipt receipt.View `json:"receipt"`
}

// Open starts a checkout session for the caller.
func (h *CheckoutHandler) Open(c *gin.Context) {
	id, wf := h.sessions.Open(middleware.SessionFrom(c))
	c.JSON(http.StatusCreated, checkoutResponse{ID: id, Snapshot: wf.Snapshot()})
}

func (h *CheckoutHandler) Get(c *gin.Context) {
	h.withWorkflow(c, func(*checkout.Workflow) error { return nil })
}

func (h *CheckoutHandler) Close(c *gin.Context) {
	if err := h.sessions.Close(middleware.SessionFrom(c), c.Param("id")); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// AddItem adds one unit of an active product.
func (h *CheckoutHandler) AddItem(c *gin.Context) {
	var req addItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	h.withWorkflow(c, func(wf *checkout.Workflow) error {
		product, err := h.products.Get(c.Request.Context(), req.ProductID)
		if err != nil {
			return err
		}
		if !product.IsActive {
			return inventory.ErrProductNotFound
		}
		return wf.AddItem(*product)
	})
}

func (h *CheckoutHandler) UpdateItem(c *gin.Context) {
	var req updateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		invalidBody(c, h.logger, err)
		return
	}

	lineID := c.Param("productId")
	h.withWorkflow(c, func(wf *checkout.Workflow) error {
		switch {
		case req.Quantity != nil:
			return wf.ChangeQuantity(lineID, *req.Quantity)
		case req.Delta != nil && *req.Delta == 1:
			return wf.Increment(lineID)
		case req.Delta != nil && *req.Delta == -1:
			return wf.Decrement(lineID)
		default:
			return checkout.ErrInvalidQuantity
		}
	})
}

func (h *CheckoutHandler) RemoveItem(c *gin.Context) {
	lineID := c.Param("productId")
	h.withWorkflow(c, func(wf *checkout.Workflow) error { return wf.RemoveItem(lineID) })
}

func (h *CheckoutHandler) Proceed(c *gin.Context) {
	var sel checkout.PaymentSelection
	if err := c.ShouldBindJSON(&sel); err != nil {
		invalidBody(c, h.logger, err)
		return
	}
	h.withWorkflow(c, func(wf *checkout.Workflow) error { return wf.ProceedToPayment(sel) })
}

// Confirm saves the sale and returns the receipt.
func (h *CheckoutHandler) Confirm(c *gin.Context) {
	wf, ok := h.workflow(c)
	if !ok {
		return
	}

	view, err := wf.Confirm(c.Request.Context())
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, confirmResponse{
		checkoutResponse: checkoutResponse{ID: c.Param("id"), Snapshot: wf.Snapshot()},
		Receipt:          view,
	})
}

func (h *CheckoutHandler) Finish(c *gin.Context) {
	h.withWorkflow(c, func(wf *checkout.Workflow) error { return wf.Finish() })
}

func (h *CheckoutHandler) Cancel(c *gin.Context) {
	h.withWorkflow(c, func(wf *checkout.Workflow) error { return wf.Cancel() })
}

// Receipt renders the receipt as printable text.
func (h *CheckoutHandler) Receipt(c *gin.Context) {
	wf, ok := h.workflow(c)
	if !ok {
		return
	}
	view, err := wf.Receipt()
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.String(http.StatusOK, receipt.Render(view))
}

func (h *CheckoutHandler) ShareReceipt(c *gin.Context) {
	wf, ok := h.workflow(c)
	if !ok {
		return
	}
	view, err := wf.Receipt()
	if err == nil {
		err = receipt.Share(c.Request.Context(), view)
	}
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.Status(http.StatusAccepted)
}

func (h *CheckoutHandler) workflow(c *gin.Context) (*checkout.Workflow, bool) {
	wf, err := h.sessions.Get(middleware.SessionFrom(c), c.Param("id"))
	if err != nil {
		respondError(c, h.logger, err)
		return nil, false
	}
	return wf, true
}

func (h *CheckoutHandler) withWorkflow(c *gin.Context, fn func(*checkout.Workflow) error) {
	wf, ok := h.workflow(c)
	if !ok {
		return
	}
	if err := fn(wf); err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, checkoutResponse{ID: c.Param("id"), Snapshot: wf.Snapshot()})
}
