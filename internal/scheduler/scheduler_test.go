package scheduler

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/config"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

type fakeReporter struct {
	days   []time.Time
	weekly string
	err    error
}

func (f *fakeReporter) SaveDailySnapshot(_ context.Context, day time.Time) (*models.DailyReport, error) {
	f.days = append(f.days, day)
	if f.err != nil {
		return nil, f.err
	}
	return &models.DailyReport{ReportID: "daily-" + day.Format("2006-01-02")}, nil
}

func (f *fakeReporter) GenerateWeeklyReport(context.Context, time.Time) (string, error) {
	return f.weekly, f.err
}

type fakeMessenger struct {
	sent []models.OutboundMessageRequest
}

func (f *fakeMessenger) VerifyWebhookToken(_, _, challenge string) (string, error) {
	return challenge, nil
}

func (f *fakeMessenger) HandleWebhook(context.Context, models.WebhookPayload) error { return nil }

func (f *fakeMessenger) SendOutbound(_ context.Context, req models.OutboundMessageRequest) error {
	f.sent = append(f.sent, req)
	return nil
}

func testConfig() config.Config {
	return config.Config{
		WhatsApp:  config.WhatsAppConfig{ManagerID: "224600000000"},
		Reporting: config.ReportingConfig{CronSchedule: "0 20 * * *", Timezone: "Africa/Conakry"},
	}
}

func TestSendWeeklyReportTargetsManager(t *testing.T) {
	reporter := &fakeReporter{weekly: "Weekly nursery report"}
	messenger := &fakeMessenger{}
	s := NewScheduler(testConfig(), reporter, messenger, nil)

	s.SendWeeklyReport()

	require.Len(t, messenger.sent, 1)
	assert.Equal(t, "224600000000", messenger.sent[0].To)
	assert.Equal(t, "Weekly nursery report", messenger.sent[0].Message)
}

func TestSendWeeklyReportSkipsOnError(t *testing.T) {
	reporter := &fakeReporter{err: errors.New("store down")}
	messenger := &fakeMessenger{}
	s := NewScheduler(testConfig(), reporter, messenger, nil)

	s.SendWeeklyReport()
	assert.Empty(t, messenger.sent)
}

func TestSaveDailySnapshotUsesClock(t *testing.T) {
	reporter := &fakeReporter{}
	s := NewScheduler(testConfig(), reporter, nil, nil)
	fixed := time.Date(2024, 6, 3, 20, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	s.SaveDailySnapshot()

	require.Len(t, reporter.days, 1)
	assert.True(t, fixed.Equal(reporter.days[0]))
}

func TestStartRejectsBadSchedule(t *testing.T) {
	cfg := testConfig()
	cfg.Reporting.CronSchedule = "every evening"
	s := NewScheduler(cfg, &fakeReporter{}, nil, nil)

	assert.Error(t, s.Start())
}

func TestStartWithoutMessaging(t *testing.T) {
	cfg := testConfig()
	cfg.Reporting.Timezone = "Mars/Olympus"
	s := NewScheduler(cfg, &fakeReporter{}, nil, nil)

	require.NoError(t, s.Start())
	assert.Len(t, s.cron.Entries(), 1)
	s.Stop()
}
