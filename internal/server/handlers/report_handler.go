package handlers

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/internal/service/reporting"
)

const (
	dateLayout    = "2006-01-02"
	defaultPeriod = 7
)

// ReportService computes sales analytics.
type ReportService interface {
	Summary(ctx context.Context, start, end time.Time) (models.SalesSummary, error)
	ByPaymentMethod(ctx context.Context, start, end time.Time) []models.PaymentMethodSales
	DailySales(ctx context.Context, start, end time.Time) ([]models.DailySales, error)
	ProductPerformance(ctx context.Context, start, end time.Time, view string, limit int) ([]models.ProductPerformance, error)
	Insights(ctx context.Context, start, end time.Time) (string, error)
	Location() *time.Location
}

// TransactionReader reads saved sales.
type TransactionReader interface {
	ListTransactions(ctx context.Context, limit, page int) []models.Transaction
	GetTransaction(ctx context.Context, id string) *models.Transaction
}

// ReportArchive reads archived daily reports.
type ReportArchive interface {
	FindDailyReports(ctx context.Context, from, to time.Time) ([]models.DailyReport, error)
}

// ReportHandler exposes transactions and sales reports.
type ReportHandler struct {
	reports      ReportService
	transactions TransactionReader
	archive      ReportArchive
	logger       *zap.Logger
	now          func() time.Time
}

// NewReportHandler wires the handler. archive may be nil.
func NewReportHandler(reports ReportService, transactions TransactionReader, archive ReportArchive, logger *zap.Logger) *ReportHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ReportHandler{
		reports:      reports,
		transactions: transactions,
		archive:      archive,
		logger:       logger,
		now:          time.Now,
	}
}

// ArchiveEnabled reports whether archived reports can be served.
func (h *ReportHandler) ArchiveEnabled() bool {
	return h.archive != nil
}

// ListTransactions supports ?limit= (default 100) and ?page= (from 0).
func (h *ReportHandler) ListTransactions(c *gin.Context) {
	limit := queryInt(c, "limit", 100)
	page := queryInt(c, "page", 0)
	c.JSON(http.StatusOK, h.transactions.ListTransactions(c.Request.Context(), limit, page))
}

func (h *ReportHandler) GetTransaction(c *gin.Context) {
	tx := h.transactions.GetTransaction(c.Request.Context(), c.Param("id"))
	if tx == nil {
		respondError(c, h.logger, errTransactionNotFound)
		return
	}
	c.JSON(http.StatusOK, tx)
}

func (h *ReportHandler) Summary(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}
	summary, err := h.reports.Summary(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, summary)
}

func (h *ReportHandler) PaymentMethods(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, h.reports.ByPaymentMethod(c.Request.Context(), start, end))
}

func (h *ReportHandler) Daily(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}
	days, err := h.reports.DailySales(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, days)
}

// Products supports ?view=best|worst and ?limit= (at most 10).
func (h *ReportHandler) Products(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}
	view := c.DefaultQuery("view", reporting.ViewBest)
	perf, err := h.reports.ProductPerformance(c.Request.Context(), start, end, view, queryInt(c, "limit", 10))
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, perf)
}

func (h *ReportHandler) Insights(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}
	insights, err := h.reports.Insights(c.Request.Context(), start, end)
	if err != nil {
		respondError(c, h.logger, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"insights": insights})
}

func (h *ReportHandler) Archive(c *gin.Context) {
	start, end, ok := h.period(c)
	if !ok {
		return
	}
	reports, err := h.archive.FindDailyReports(c.Request.Context(), start, end)
	if err != nil {
		h.logger.Error("failed to read report archive", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "backend request failed"})
		return
	}
	c.JSON(http.StatusOK, reports)
}

// period reads ?start= and ?end= as dates in the reporting timezone. Both
// default to the last seven days including today; end covers the whole day.
// Reversed periods and periods over reporting.MaxPeriodDays get a 400.
func (h *ReportHandler) period(c *gin.Context) (time.Time, time.Time, bool) {
	loc := h.reports.Location()
	today := h.now().In(loc)
	end := time.Date(today.Year(), today.Month(), today.Day(), 0, 0, 0, 0, loc)
	start := end.AddDate(0, 0, -(defaultPeriod - 1))

	if v := c.Query("start"); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "start must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		start = parsed
	}
	if v := c.Query("end"); v != "" {
		parsed, err := time.ParseInLocation(dateLayout, v, loc)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "end must be YYYY-MM-DD"})
			return time.Time{}, time.Time{}, false
		}
		end = parsed
	}
	end = end.AddDate(0, 0, 1).Add(-time.Second)
	if err := reporting.ValidatePeriod(start, end); err != nil {
		respondError(c, h.logger, err)
		return time.Time{}, time.Time{}, false
	}
	return start, end, true
}

func queryInt(c *gin.Context, key string, fallback int) int {
	v, err := strconv.Atoi(c.Query(key))
	if err != nil {
		return fallback
	}
	return v
}
