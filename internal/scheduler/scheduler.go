package scheduler

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/whatsapp"
)

// WeeklyReportSchedule fires at 20:00 on Fridays.
const WeeklyReportSchedule = "0 20 * * 5"

// Reporter produces the scheduled reports.
type Reporter interface {
	SaveDailySnapshot(ctx context.Context, day time.Time) (*models.DailyReport, error)
	GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error)
}

// Scheduler manages scheduled tasks.
type Scheduler struct {
	cron         *cron.Cron
	reporter     Reporter
	messagingSvc whatsapp.MessagingService
	cfg          config.Config
	logger       *zap.Logger
	now          func() time.Time
}

// NewScheduler creates a new scheduler instance. messagingSvc may be nil, in
// which case the weekly report is not scheduled.
func NewScheduler(cfg config.Config, reporter Reporter, messagingSvc whatsapp.MessagingService, logger *zap.Logger) *Scheduler {
	if logger == nil {
		logger = zap.NewNop()
	}

	loc, err := time.LoadLocation(cfg.Reporting.Timezone)
	if err != nil {
		logger.Warn("unknown timezone, falling back to UTC", zap.String("timezone", cfg.Reporting.Timezone), zap.Error(err))
		loc = time.UTC
	}

	return &Scheduler{
		cron:         cron.New(cron.WithLocation(loc)),
		reporter:     reporter,
		messagingSvc: messagingSvc,
		cfg:          cfg,
		logger:       logger,
		now:          func() time.Time { return time.Now().In(loc) },
	}
}

// Start registers the jobs and starts the scheduler.
func (s *Scheduler) Start() error {
	s.logger.Info("starting scheduler")

	if _, err := s.cron.AddFunc(s.cfg.Reporting.CronSchedule, s.SaveDailySnapshot); err != nil {
		return err
	}
	if s.messagingSvc != nil && s.cfg.WhatsApp.ManagerID != "" {
		if _, err := s.cron.AddFunc(WeeklyReportSchedule, s.SendWeeklyReport); err != nil {
			return err
		}
	}

	s.cron.Start()
	return nil
}

// Stop stops the scheduler and waits for running jobs.
func (s *Scheduler) Stop() {
	s.logger.Info("stopping scheduler")
	<-s.cron.Stop().Done()
}

// SaveDailySnapshot stores today's aggregated figures.
func (s *Scheduler) SaveDailySnapshot() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	report, err := s.reporter.SaveDailySnapshot(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to save daily snapshot", zap.Error(err))
		return
	}
	s.logger.Info("daily snapshot saved",
		zap.String("report_id", report.ReportID),
		zap.Int("sales", report.SalesCount),
		zap.Float64("revenue", report.Revenue))
}

// SendWeeklyReport messages the weekly summary to the manager.
func (s *Scheduler) SendWeeklyReport() {
	s.logger.Info("generating weekly report")
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	report, err := s.reporter.GenerateWeeklyReport(ctx, s.now())
	if err != nil {
		s.logger.Error("failed to generate weekly report", zap.Error(err))
		return
	}

	req := models.OutboundMessageRequest{
		To:      s.cfg.WhatsApp.ManagerID,
		Message: report,
	}

	if err := s.messagingSvc.SendOutbound(ctx, req); err != nil {
		s.logger.Error("failed to send weekly report", zap.Error(err))
	} else {
		s.logger.Info("weekly report sent successfully")
	}
}
