package reporting

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
	"github.com/albaehandicraft/umkmpos/pkg/clients/anthropic"
	"github.com/albaehandicraft/umkmpos/pkg/currency"
)

const (
	dateLayout      = "2006-01-02"
	maxProductLimit = 10

	// MaxPeriodDays caps how many calendar days one report may span.
	MaxPeriodDays = 366
)

// Product performance views.
const (
	ViewBest  = "best"
	ViewWorst = "worst"
)

var (
	ErrInvalidView      = errors.New("view must be best or worst")
	ErrInvalidPeriod    = errors.New("end must not be before start")
	ErrPeriodTooLong    = fmt.Errorf("period must not span more than %d days", MaxPeriodDays)
	ErrInsightsDisabled = errors.New("ai insights are not configured")
)

// ValidatePeriod rejects reversed periods and periods longer than
// MaxPeriodDays. end is inclusive.
func ValidatePeriod(start, end time.Time) error {
	if end.Before(start) {
		return ErrInvalidPeriod
	}
	if days := int(end.Sub(start)/(24*time.Hour)) + 1; days > MaxPeriodDays {
		return ErrPeriodTooLong
	}
	return nil
}

// Source provides the sales and catalogue data reports are computed from.
type Source interface {
	TransactionsBetween(ctx context.Context, start, end time.Time) []models.Transaction
	ListProducts(ctx context.Context) []models.Product
}

// Service computes sales analytics for the dashboard and scheduled reports.
type Service struct {
	source Source
	ai     anthropic.Client
	loc    *time.Location
	logger *zap.Logger
}

// NewService wires a new reporting service instance. ai may be nil.
func NewService(source Source, ai anthropic.Client, loc *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if loc == nil {
		loc = time.UTC
	}
	return &Service{source: source, ai: ai, loc: loc, logger: logger}
}

// Location is the timezone days are bucketed in.
func (s *Service) Location() *time.Location {
	return s.loc
}

// Summary aggregates the period and compares revenue with the previous period
// of equal length.
func (s *Service) Summary(ctx context.Context, start, end time.Time) (models.SalesSummary, error) {
	if err := ValidatePeriod(start, end); err != nil {
		return models.SalesSummary{}, err
	}

	summary := summarize(s.sales(ctx, start, end))
	summary.Start, summary.End = start, end

	length := end.Sub(start)
	prevEnd := start.Add(-time.Second)
	previous := summarize(s.sales(ctx, prevEnd.Add(-length), prevEnd))
	summary.RevenueChange = percentChange(previous.Revenue, summary.Revenue)

	return summary, nil
}

// ByPaymentMethod returns revenue per payment method: cash, e-wallet, bank,
// then any other stored method.
func (s *Service) ByPaymentMethod(ctx context.Context, start, end time.Time) []models.PaymentMethodSales {
	byMethod := make(map[models.PaymentMethod]*models.PaymentMethodSales)
	for _, tx := range s.sales(ctx, start, end) {
		entry, ok := byMethod[tx.PaymentMethod]
		if !ok {
			entry = &models.PaymentMethodSales{Method: tx.PaymentMethod, Revenue: decimal.Zero}
			byMethod[tx.PaymentMethod] = entry
		}
		entry.Transactions++
		entry.Revenue = entry.Revenue.Add(tx.Total)
	}

	out := make([]models.PaymentMethodSales, 0, len(byMethod))
	for _, m := range []models.PaymentMethod{models.PaymentCash, models.PaymentEWallet, models.PaymentBank} {
		if entry, ok := byMethod[m]; ok {
			out = append(out, *entry)
			delete(byMethod, m)
		}
	}
	rest := make([]models.PaymentMethodSales, 0, len(byMethod))
	for _, entry := range byMethod {
		rest = append(rest, *entry)
	}
	sort.Slice(rest, func(i, j int) bool { return rest[i].Method < rest[j].Method })
	return append(out, rest...)
}

// DailySales returns one bucket per calendar day of the period, including empty days.
func (s *Service) DailySales(ctx context.Context, start, end time.Time) ([]models.DailySales, error) {
	if err := ValidatePeriod(start, end); err != nil {
		return nil, err
	}

	buckets := make(map[string]*models.DailySales)
	var out []*models.DailySales

	first := startOfDay(start.In(s.loc))
	for day := first; !day.After(end.In(s.loc)); day = day.AddDate(0, 0, 1) {
		b := &models.DailySales{Date: day.Format(dateLayout), Revenue: decimal.Zero}
		buckets[b.Date] = b
		out = append(out, b)
	}

	for _, tx := range s.sales(ctx, start, end) {
		b, ok := buckets[tx.Date.In(s.loc).Format(dateLayout)]
		if !ok {
			continue
		}
		b.Transactions++
		b.Revenue = b.Revenue.Add(tx.Total)
	}

	result := make([]models.DailySales, 0, len(out))
	for _, b := range out {
		result = append(result, *b)
	}
	return result, nil
}

// ProductPerformance ranks products sold in the period by profit. View best
// sorts by highest profit, worst by lowest. limit is capped at 10.
func (s *Service) ProductPerformance(ctx context.Context, start, end time.Time, view string, limit int) ([]models.ProductPerformance, error) {
	if view == "" {
		view = ViewBest
	}
	if view != ViewBest && view != ViewWorst {
		return nil, ErrInvalidView
	}

	perf := aggregateProducts(s.sales(ctx, start, end))
	sort.SliceStable(perf, func(i, j int) bool {
		if view == ViewWorst {
			return perf[i].Profit.LessThan(perf[j].Profit)
		}
		return perf[i].Profit.GreaterThan(perf[j].Profit)
	})
	return truncate(perf, limit), nil
}

// TopProducts ranks products by quantity sold.
func (s *Service) TopProducts(ctx context.Context, start, end time.Time, limit int) []models.ProductPerformance {
	perf := aggregateProducts(s.sales(ctx, start, end))
	sort.SliceStable(perf, func(i, j int) bool {
		if perf[i].Quantity != perf[j].Quantity {
			return perf[i].Quantity > perf[j].Quantity
		}
		return perf[i].Revenue.GreaterThan(perf[j].Revenue)
	})
	return truncate(perf, limit)
}

// BuildDailyReport aggregates one calendar day for archiving.
func (s *Service) BuildDailyReport(ctx context.Context, day time.Time) models.DailyReport {
	start := startOfDay(day.In(s.loc))
	end := start.AddDate(0, 0, 1).Add(-time.Second)
	sales := s.sales(ctx, start, end)

	summary := summarize(sales)
	report := models.DailyReport{
		Date:            start,
		Transactions:    summary.Transactions,
		ItemsSold:       summary.ItemsSold,
		Revenue:         summary.Revenue.InexactFloat64(),
		Tax:             summary.Tax.InexactFloat64(),
		ByPaymentMethod: make(map[models.PaymentMethod]float64),
		CreatedAt:       time.Now().In(s.loc),
	}

	subtotal, cogs := decimal.Zero, decimal.Zero
	for _, tx := range sales {
		subtotal = subtotal.Add(tx.Subtotal)
		report.ByPaymentMethod[tx.PaymentMethod] += tx.Total.InexactFloat64()
		for _, item := range tx.Items {
			if item.Product != nil {
				cogs = cogs.Add(item.Product.Cost.Mul(decimal.NewFromInt(int64(item.Quantity))))
			}
		}
	}
	report.CostOfGoods = cogs.InexactFloat64()
	report.GrossProfit = subtotal.Sub(cogs).InexactFloat64()

	for _, p := range s.source.ListProducts(ctx) {
		if p.IsActive && p.IsLowStock() {
			report.LowStockCount++
		}
	}
	return report
}

// Insights asks the AI client to comment on the period.
func (s *Service) Insights(ctx context.Context, start, end time.Time) (string, error) {
	if s.ai == nil {
		return "", ErrInsightsDisabled
	}

	summary, err := s.Summary(ctx, start, end)
	if err != nil {
		return "", err
	}
	top := s.TopProducts(ctx, start, end, 5)
	methods := s.ByPaymentMethod(ctx, start, end)

	insights, err := s.ai.SalesInsights(ctx, digest(summary, top, methods, s.loc))
	if err != nil {
		s.logger.Error("failed to generate sales insights", zap.Error(err))
		return "", fmt.Errorf("generate insights: %w", err)
	}
	return insights, nil
}

func (s *Service) sales(ctx context.Context, start, end time.Time) []models.Transaction {
	var out []models.Transaction
	for _, tx := range s.source.TransactionsBetween(ctx, start, end) {
		if tx.Status == "" || tx.Status == models.TransactionCompleted {
			out = append(out, tx)
		}
	}
	return out
}

func summarize(sales []models.Transaction) models.SalesSummary {
	summary := models.SalesSummary{
		Revenue:       decimal.Zero,
		Tax:           decimal.Zero,
		AverageTicket: decimal.Zero,
	}
	for _, tx := range sales {
		summary.Transactions++
		summary.Revenue = summary.Revenue.Add(tx.Total)
		summary.Tax = summary.Tax.Add(tx.Tax)
		for _, item := range tx.Items {
			summary.ItemsSold += item.Quantity
		}
	}
	if summary.Transactions > 0 {
		summary.AverageTicket = currency.Round(summary.Revenue.Div(decimal.NewFromInt(int64(summary.Transactions))))
	}
	return summary
}

func percentChange(previous, current decimal.Decimal) float64 {
	if previous.IsZero() {
		if current.IsPositive() {
			return 100
		}
		return 0
	}
	return current.Sub(previous).Div(previous).Mul(decimal.NewFromInt(100)).Round(1).InexactFloat64()
}

func aggregateProducts(sales []models.Transaction) []models.ProductPerformance {
	byProduct := make(map[string]*models.ProductPerformance)
	var order []string

	for _, tx := range sales {
		for _, item := range tx.Items {
			p, ok := byProduct[item.ProductID]
			if !ok {
				p = &models.ProductPerformance{
					ProductID: item.ProductID,
					Name:      item.ProductID,
					Revenue:   decimal.Zero,
					Cost:      decimal.Zero,
				}
				if item.Product != nil {
					p.Name = item.Product.Name
					p.Category = item.Product.Category
				}
				byProduct[item.ProductID] = p
				order = append(order, item.ProductID)
			}

			qty := decimal.NewFromInt(int64(item.Quantity))
			p.Quantity += item.Quantity
			p.Revenue = p.Revenue.Add(item.LineTotal())
			if item.Product != nil {
				p.Cost = p.Cost.Add(item.Product.Cost.Mul(qty))
			}
		}
	}

	out := make([]models.ProductPerformance, 0, len(order))
	for _, id := range order {
		p := byProduct[id]
		p.Profit = p.Revenue.Sub(p.Cost)
		out = append(out, *p)
	}
	return out
}

func truncate(perf []models.ProductPerformance, limit int) []models.ProductPerformance {
	if limit <= 0 || limit > maxProductLimit {
		limit = maxProductLimit
	}
	if len(perf) > limit {
		return perf[:limit]
	}
	return perf
}

func digest(summary models.SalesSummary, top []models.ProductPerformance, methods []models.PaymentMethodSales, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Periode: %s s/d %s\n", summary.Start.In(loc).Format(dateLayout), summary.End.In(loc).Format(dateLayout))
	fmt.Fprintf(&b, "Pendapatan: %s (%+.1f%% dari periode sebelumnya)\n", currency.Format(summary.Revenue), summary.RevenueChange)
	fmt.Fprintf(&b, "Transaksi: %d, rata-rata %s, item terjual: %d\n", summary.Transactions, currency.Format(summary.AverageTicket), summary.ItemsSold)

	if len(methods) > 0 {
		b.WriteString("Metode pembayaran:\n")
		for _, m := range methods {
			fmt.Fprintf(&b, "- %s: %d transaksi, %s\n", m.Method.Label(), m.Transactions, currency.Format(m.Revenue))
		}
	}
	if len(top) > 0 {
		b.WriteString("Produk terlaris:\n")
		for _, p := range top {
			fmt.Fprintf(&b, "- %s (%s): %d terjual, pendapatan %s, laba %s\n", p.Name, p.Category, p.Quantity, currency.Format(p.Revenue), currency.Format(p.Profit))
		}
	}
	return b.String()
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
