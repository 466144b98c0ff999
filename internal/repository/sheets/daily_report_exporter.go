package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/domain/models"
)

const (
	dailyReportSheet = "'Laporan Harian'"
	dailyReportRange = dailyReportSheet + "!A:J"
	dailyDateRange   = dailyReportSheet + "!A:A"
	dateLayout       = "2006-01-02"
)

// DailyReportExporter appends one row per day to the daily report sheet.
type DailyReportExporter struct {
	repo   Repository
	logger *zap.Logger
}

func NewDailyReportExporter(repo Repository, logger *zap.Logger) *DailyReportExporter {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DailyReportExporter{repo: repo, logger: logger}
}

// ExportDailyReport appends the report unless a row for its date already exists.
func (e *DailyReportExporter) ExportDailyReport(ctx context.Context, report models.DailyReport) error {
	date := report.Date.Format(dateLayout)

	rows, err := e.repo.Values(ctx, dailyDateRange)
	if err != nil {
		return fmt.Errorf("load exported dates: %w", err)
	}
	for _, row := range rows {
		if len(row) > 0 && fmt.Sprint(row[0]) == date {
			e.logger.Info("daily report already exported", zap.String("date", date))
			return nil
		}
	}

	if err := e.repo.AppendRow(ctx, dailyReportRange, DailyReportRow(report)); err != nil {
		return fmt.Errorf("export daily report %s: %w", date, err)
	}
	return nil
}

// DailyReportRow lays out a report as a sheet row:
// date, transactions, items, revenue, tax, cost, gross profit, cash, e-wallet, bank.
func DailyReportRow(report models.DailyReport) []any {
	return []any{
		report.Date.Format(dateLayout),
		report.Transactions,
		report.ItemsSold,
		report.Revenue,
		report.Tax,
		report.CostOfGoods,
		report.GrossProfit,
		report.ByPaymentMethod[models.PaymentCash],
		report.ByPaymentMethod[models.PaymentEWallet],
		report.ByPaymentMethod[models.PaymentBank],
	}
}
