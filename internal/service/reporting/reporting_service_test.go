package reporting

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
)

type fakeSource struct {
	transactions []models.Transaction
	products     []models.Product
}

func (f *fakeSource) TransactionsBetween(_ context.Context, start, end time.Time) []models.Transaction {
	var out []models.Transaction
	for _, tx := range f.transactions {
		if !tx.Date.Before(start) && !tx.Date.After(end) {
			out = append(out, tx)
		}
	}
	return out
}

func (f *fakeSource) ListProducts(context.Context) []models.Product { return f.products }

type fakeAI struct {
	digest string
	err    error
}

func (f *fakeAI) SalesInsights(_ context.Context, digest string) (string, error) {
	f.digest = digest
	return "- ramai", f.err
}

var (
	jakarta = time.FixedZone("WIB", 7*3600)
	bagP    = &models.Product{ID: "p1", Name: "Tas Anyaman", Category: "Tas", Cost: decimal.NewFromInt(15000)}
	hatP    = &models.Product{ID: "p2", Name: "Topi Pandan", Category: "Topi", Cost: decimal.NewFromInt(12000)}
)

func sale(date time.Time, method models.PaymentMethod, items ...models.TransactionItem) models.Transaction {
	subtotal := decimal.Zero
	for _, it := range items {
		subtotal = subtotal.Add(it.LineTotal())
	}
	tax := subtotal.Mul(decimal.New(10, -2)).Round(0)
	return models.Transaction{
		Date:          date,
		Subtotal:      subtotal,
		Tax:           tax,
		Total:         subtotal.Add(tax),
		PaymentMethod: method,
		Status:        models.TransactionCompleted,
		Items:         items,
	}
}

func item(p *models.Product, qty int, price int64) models.TransactionItem {
	return models.TransactionItem{ProductID: p.ID, Quantity: qty, Price: decimal.NewFromInt(price), Product: p}
}

func fixture() *fakeSource {
	day := func(d, h int) time.Time { return time.Date(2024, 5, d, h, 0, 0, 0, jakarta) }
	cancelled := sale(day(2, 11), models.PaymentCash, item(bagP, 9, 25000))
	cancelled.Status = models.TransactionCancelled

	return &fakeSource{
		transactions: []models.Transaction{
			sale(day(1, 10), models.PaymentCash, item(bagP, 2, 25000), item(hatP, 1, 15000)),
			sale(day(2, 9), models.PaymentEWallet, item(hatP, 3, 15000)),
			sale(day(2, 20), models.PaymentCash, item(bagP, 1, 25000)),
			cancelled,
			sale(time.Date(2024, 4, 30, 12, 0, 0, 0, jakarta), models.PaymentBank, item(bagP, 1, 25000)),
		},
		products: []models.Product{
			{ID: "p1", Stock: 2, ReorderLevel: 5, IsActive: true},
			{ID: "p2", Stock: 50, ReorderLevel: 5, IsActive: true},
			{ID: "p3", Stock: 0, ReorderLevel: 5, IsActive: false},
		},
	}
}

var (
	periodStart = time.Date(2024, 5, 1, 0, 0, 0, 0, jakarta)
	periodEnd   = time.Date(2024, 5, 2, 23, 59, 59, 0, jakarta)
)

func TestSummary(t *testing.T) {
	svc := NewService(fixture(), nil, jakarta, nil)

	summary, err := svc.Summary(context.Background(), periodStart, periodEnd)
	require.NoError(t, err)
	assert.Equal(t, 3, summary.Transactions, "cancelled sales are excluded")
	assert.Equal(t, 7, summary.ItemsSold)
	assert.True(t, summary.Revenue.Equal(decimal.NewFromInt(148500)), summary.Revenue.String())
	assert.True(t, summary.Tax.Equal(decimal.NewFromInt(13500)), summary.Tax.String())
	assert.True(t, summary.AverageTicket.Equal(decimal.NewFromInt(49500)), summary.AverageTicket.String())
	assert.InDelta(t, 440.0, summary.RevenueChange, 0.001)

	_, err = svc.Summary(context.Background(), periodEnd, periodStart)
	assert.ErrorIs(t, err, ErrInvalidPeriod)
}

func TestSummary_NoPreviousSales(t *testing.T) {
	svc := NewService(&fakeSource{}, nil, jakarta, nil)
	summary, err := svc.Summary(context.Background(), periodStart, periodEnd)
	require.NoError(t, err)
	assert.Zero(t, summary.Transactions)
	assert.True(t, summary.AverageTicket.IsZero())
	assert.Zero(t, summary.RevenueChange)
}

func TestByPaymentMethod(t *testing.T) {
	svc := NewService(fixture(), nil, jakarta, nil)

	methods := svc.ByPaymentMethod(context.Background(), periodStart, periodEnd)
	require.Len(t, methods, 2)
	assert.Equal(t, models.PaymentCash, methods[0].Method)
	assert.Equal(t, 2, methods[0].Transactions)
	assert.True(t, methods[0].Revenue.Equal(decimal.NewFromInt(99000)))
	assert.Equal(t, models.PaymentEWallet, methods[1].Method)
}

func TestDailySales(t *testing.T) {
	svc := NewService(fixture(), nil, jakarta, nil)

	days, err := svc.DailySales(context.Background(), time.Date(2024, 4, 29, 0, 0, 0, 0, jakarta), periodEnd)
	require.NoError(t, err)
	require.Len(t, days, 4)
	assert.Equal(t, "2024-04-29", days[0].Date)
	assert.Zero(t, days[0].Transactions)
	assert.Equal(t, "2024-05-02", days[3].Date)
	assert.Equal(t, 2, days[3].Transactions)
	assert.True(t, days[3].Revenue.Equal(decimal.NewFromInt(77000)))
}

func TestDailySales_RejectsBadPeriods(t *testing.T) {
	svc := NewService(fixture(), nil, jakarta, nil)
	ctx := context.Background()

	_, err := svc.DailySales(ctx, periodEnd, periodStart)
	assert.ErrorIs(t, err, ErrInvalidPeriod)

	start := time.Date(2023, 1, 1, 0, 0, 0, 0, jakarta)
	_, err = svc.DailySales(ctx, start, time.Date(2024, 1, 2, 23, 59, 59, 0, jakarta))
	assert.ErrorIs(t, err, ErrPeriodTooLong)

	days, err := svc.DailySales(ctx, start, time.Date(2024, 1, 1, 23, 59, 59, 0, jakarta))
	require.NoError(t, err)
	assert.Len(t, days, MaxPeriodDays)

	_, err = svc.Summary(ctx, start, time.Date(2030, 1, 1, 0, 0, 0, 0, jakarta))
	assert.ErrorIs(t, err, ErrPeriodTooLong)
}

func TestValidatePeriod(t *testing.T) {
	day := time.Date(2024, 5, 1, 0, 0, 0, 0, jakarta)
	tests := []struct {
		name    string
		start   time.Time
		end     time.Time
		wantErr error
	}{
		{name: "same instant", start: day, end: day},
		{name: "one day", start: day, end: day.Add(24*time.Hour - time.Second)},
		{name: "reversed", start: day, end: day.Add(-time.Second), wantErr: ErrInvalidPeriod},
		{name: "at the cap", start: day, end: day.AddDate(0, 0, MaxPeriodDays).Add(-time.Second)},
		{name: "past the cap", start: day, end: day.AddDate(0, 0, MaxPeriodDays), wantErr: ErrPeriodTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidatePeriod(tt.start, tt.end)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestProductPerformance(t *testing.T) {
	svc := NewService(fixture(), nil, jakarta, nil)
	ctx := context.Background()

	best, err := svc.ProductPerformance(ctx, periodStart, periodEnd, ViewBest, 10)
	require.NoError(t, err)
	require.Len(t, best, 2)
	assert.Equal(t, "Tas Anyaman", best[0].Name)
	assert.True(t, best[0].Profit.Equal(decimal.NewFromInt(30000)), best[0].Profit.String())
	assert.True(t, best[1].Profit.Equal(decimal.NewFromInt(12000)), best[1].Profit.String())

	worst, err := svc.ProductPerformance(ctx, periodStart, periodEnd, ViewWorst, 1)
	require.NoError(t, err)
	require.Len(t, worst, 1)
	assert.Equal(t, "Topi Pandan", worst[0].Name)

	_, err = svc.ProductPerformance(ctx, periodStart, periodEnd, "middle", 5)
	assert.ErrorIs(t, err, ErrInvalidView)

	top := svc.TopProducts(ctx, periodStart, periodEnd, 50)
	require.Len(t, top, 2)
	assert.Equal(t, "p2", top[0].ProductID)
	assert.Equal(t, 4, top[0].Quantity)
}

func TestBuildDailyReport(t *testing.T) {
	svc := NewService(fixture(), nil, jakarta, nil)

	report := svc.BuildDailyReport(context.Background(), time.Date(2024, 5, 2, 15, 0, 0, 0, jakarta))
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, jakarta), report.Date)
	assert.Equal(t, 2, report.Transactions)
	assert.Equal(t, 4, report.ItemsSold)
	assert.InDelta(t, 77000, report.Revenue, 0.001)
	assert.InDelta(t, 7000, report.Tax, 0.001)
	assert.InDelta(t, 51000, report.CostOfGoods, 0.001)
	assert.InDelta(t, 19000, report.GrossProfit, 0.001)
	assert.InDelta(t, 49500, report.ByPaymentMethod[models.PaymentEWallet], 0.001)
	assert.InDelta(t, 27500, report.ByPaymentMethod[models.PaymentCash], 0.001)
	assert.Equal(t, 1, report.LowStockCount)
}

func TestInsights(t *testing.T) {
	disabled := NewService(fixture(), nil, jakarta, nil)
	_, err := disabled.Insights(context.Background(), periodStart, periodEnd)
	assert.ErrorIs(t, err, ErrInsightsDisabled)

	ai := &fakeAI{}
	svc := NewService(fixture(), ai, jakarta, nil)
	out, err := svc.Insights(context.Background(), periodStart, periodEnd)
	require.NoError(t, err)
	assert.Equal(t, "- ramai", out)
	assert.Contains(t, ai.digest, "Rp 148.500")
	assert.Contains(t, ai.digest, "Topi Pandan")
	assert.Contains(t, ai.digest, "Tunai")

	ai.err = errors.New("overloaded")
	_, err = svc.Insights(context.Background(), periodStart, periodEnd)
	assert.Error(t, err)
}
