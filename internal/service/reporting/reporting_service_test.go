package reporting

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/ledger"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/memory"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

var day = time.Date(2024, 6, 3, 0, 0, 0, 0, time.UTC)

func putBatch(t *testing.T, st store.Store, id string, status models.BatchStatus, germinated, sold int) {
	t.Helper()
	b := &models.PlantBatch{BatchID: id, SeedsSown: germinated, TotalSuccessfullyGerminated: germinated, QuantitySold: sold, Status: status, QualityGrade: models.GradeB}
	ledger.Recompute(b)
	require.NoError(t, st.Set(context.Background(), store.Batches, id, b))
}

func putSale(t *testing.T, st store.Store, id string, at time.Time, total float64, qty int, underpaid *models.UnderpaymentWarning) {
	t.Helper()
	sale := models.SaleRecord{
		SaleID:              id,
		SaleDate:            at,
		Items:               []models.SaleItem{{ItemType: models.ItemPlantBatch, ItemID: "B1", Quantity: qty, ItemDiscount: 1}},
		OverallSaleDiscount: 0.5,
		TotalAmount:         total,
		Underpayment:        underpaid,
	}
	require.NoError(t, st.Set(context.Background(), store.Orders, id, sale))
}

func seeded(t *testing.T) (*Service, *memory.Store) {
	t.Helper()
	st := memory.NewStore()
	putBatch(t, st, "B1", models.StatusPartiallySold, 50, 45)
	putBatch(t, st, "B2", models.StatusReadyForSale, 100, 0)
	putBatch(t, st, "B3", models.StatusSoldOut, 10, 10)
	putBatch(t, st, "B4", models.StatusArchived, 40, 0)
	putBatch(t, st, "B5", models.StatusNew, 0, 0)

	putSale(t, st, "s1", day.Add(9*time.Hour), 20, 2, nil)
	putSale(t, st, "s2", day.Add(15*time.Hour), 31.98, 3, &models.UnderpaymentWarning{Shortfall: 11.98})
	putSale(t, st, "s3", day.AddDate(0, 0, -3), 12.5, 1, nil)
	return NewService(st, 5, time.UTC, nil), st
}

func TestInventorySummary(t *testing.T) {
	svc, _ := seeded(t)

	summary, err := svc.InventorySummary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 105, summary.TotalOnHand)
	assert.Equal(t, 1, summary.BatchesByStatus[models.StatusArchived])
	require.Len(t, summary.LowStock, 1)
	assert.Equal(t, "B1", summary.LowStock[0].BatchID)
	assert.Equal(t, 5, summary.Threshold)
}

func TestSalesSummary(t *testing.T) {
	svc, _ := seeded(t)

	summary, err := svc.SalesSummary(context.Background(), day, day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Equal(t, 2, summary.SalesCount)
	assert.Equal(t, 51.98, summary.Revenue)
	assert.Equal(t, 3.0, summary.Discounts)
	assert.Equal(t, 5, summary.PlantsSold)
	assert.Equal(t, 1, summary.UnderpaidSales)
	assert.Equal(t, 11.98, summary.UnpaidBalance)

	_, err = svc.SalesSummary(context.Background(), day, day)
	require.ErrorIs(t, err, models.ErrValidation)
}

func TestSaveDailySnapshot(t *testing.T) {
	svc, st := seeded(t)
	ctx := context.Background()

	report, err := svc.SaveDailySnapshot(ctx, day.Add(20*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, "daily-2024-06-03", report.ReportID)
	assert.Equal(t, 2, report.SalesCount)
	assert.Equal(t, 105, report.PlantsOnHand)
	assert.Equal(t, 3, report.ActiveBatches)
	assert.Equal(t, []string{"B1"}, report.LowStockBatches)

	_, err = svc.SaveDailySnapshot(ctx, day.Add(21*time.Hour))
	require.NoError(t, err)
	stored, err := store.List[models.DailyReport](ctx, st, store.DailyReports, nil)
	require.NoError(t, err)
	assert.Len(t, stored, 1)
}

func TestGenerateWeeklyReport(t *testing.T) {
	svc, _ := seeded(t)

	report, err := svc.GenerateWeeklyReport(context.Background(), day.AddDate(0, 0, 1))
	require.NoError(t, err)
	assert.Contains(t, report, "Sales: 3 totalling 64.48, 6 plants sold.")
	assert.Contains(t, report, "Underpaid: 1 sales, 11.98 outstanding.")
	assert.Contains(t, report, "Plants on hand: 105.")
	assert.Contains(t, report, "- B1: 5")
}

func TestGenerateWeeklyReportEmpty(t *testing.T) {
	svc := NewService(memory.NewStore(), 0, nil, nil)

	report, err := svc.GenerateWeeklyReport(context.Background(), day)
	require.NoError(t, err)
	assert.Contains(t, report, "Sales: none recorded.")
	assert.Contains(t, report, "Low stock: none.")
}

func TestBatchStock(t *testing.T) {
	svc, _ := seeded(t)

	line, err := svc.BatchStock(context.Background(), "B2")
	require.NoError(t, err)
	assert.Equal(t, "B2: 100 on hand (ReadyForSale, grade B). Sold 0, lost 0, planted out 0. Germination 100.0%.", line)

	_, err = svc.BatchStock(context.Background(), "B9")
	require.ErrorIs(t, err, models.ErrNotFound)
}
