package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/albaehandicraft/umkmpos/internal/config"
	"github.com/albaehandicraft/umkmpos/internal/domain/models"
)

// ReportBuilder aggregates a day of sales.
type ReportBuilder interface {
	BuildDailyReport(ctx context.Context, day time.Time) models.DailyReport
}

// StockChecker lists products that need reordering.
type StockChecker interface {
	LowStock(ctx context.Context) []models.Product
}

// Archive stores daily reports.
type Archive interface {
	SaveDailyReport(ctx context.Context, report models.DailyReport) error
}

// Exporter publishes daily reports outside the application.
type Exporter interface {
	ExportDailyReport(ctx context.Context, report models.DailyReport) error
}

// SessionSweeper drops idle checkout sessions.
type SessionSweeper interface {
	Sweep() int
}

// sweepSpec is how often idle checkout sessions are collected.
const sweepSpec = "@every 15m"

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron     *cron.Cron
	spec     string
	loc      *time.Location
	reports  ReportBuilder
	stock    StockChecker
	archive  Archive
	exporter Exporter
	sweeper  SessionSweeper
	logger   *zap.Logger
}

// NewScheduler creates a new scheduler instance. archive and exporter are optional.
func NewScheduler(cfg config.ReportingConfig, reports ReportBuilder, stock StockChecker, archive Archive, exporter Exporter, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}
	loc := cfg.Location()

	return &Scheduler{
		cron:     cron.New(cron.WithLocation(loc)),
		spec:     cfg.CronSchedule,
		loc:      loc,
		reports:  reports,
		stock:    stock,
		archive:  archive,
		exporter: exporter,
		logger:   logger,
	}
}

// WithSessionSweeper adds a periodic sweep of idle checkout sessions.
func (s *Scheduler) WithSessionSweeper(sweeper SessionSweeper) *Scheduler {
	s.sweeper = sweeper
	return s
}

// Start registers the daily report job and starts the cron loop.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler", zap.String("schedule", s.spec), zap.String("timezone", s.loc.String()))

	if _, err := s.cron.AddFunc(s.spec, s.runDailyReport); err != nil {
		return fmt.Errorf("schedule daily report %q: %w", s.spec, err)
	}
	if s.sweeper != nil {
		if _, err := s.cron.AddFunc(sweepSpec, s.SweepSessions); err != nil {
			return fmt.Errorf("schedule session sweep: %w", err)
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for a running job to finish.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// SweepSessions runs one pass of the idle session sweeper.
func (s *Scheduler) SweepSessions() {
	if s.sweeper == nil {
		return
	}
	if n := s.sweeper.Sweep(); n > 0 {
		s.logger.Debug("session sweep finished", zap.Int("evicted", n))
	}
}

func (s *Scheduler) runDailyReport() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	s.RunDailyReport(ctx, time.Now().In(s.loc))
}

// RunDailyReport builds the report of the day before now, hands it to the
// archive and exporter, and logs products that need reordering. Sink failures
// are logged and do not stop the other sinks.
func (s *Scheduler) RunDailyReport(ctx context.Context, now time.Time) models.DailyReport {
	day := now.In(s.loc).AddDate(0, 0, -1)
	s.logger.Info("generating daily report", zap.String("date", day.Format("2006-01-02")))

	report := s.reports.BuildDailyReport(ctx, day)

	if s.archive != nil {
		if err := s.archive.SaveDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to archive daily report", zap.Error(err))
		}
	}

	if s.exporter != nil {
		if err := s.exporter.ExportDailyReport(ctx, report); err != nil {
			s.logger.Error("failed to export daily report", zap.Error(err))
		}
	}

	for _, p := range s.stock.LowStock(ctx) {
		s.logger.Warn("product low on stock",
			zap.String("product_id", p.ID),
			zap.String("name", p.Name),
			zap.Int("stock", p.Stock),
			zap.Int("reorder_level", p.ReorderLevel))
	}

	s.logger.Info("daily report generated",
		zap.Int("transactions", report.Transactions),
		zap.Float64("revenue", report.Revenue))
	return report
}
