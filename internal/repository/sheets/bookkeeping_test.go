package sheets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

// recordingRepo keeps appended rows in memory and serves column B back.
type recordingRepo struct {
	ranges  []string
	rows    [][]interface{}
	readErr error
}

func (r *recordingRepo) AppendRow(_ context.Context, sheetRange string, values []interface{}) error {
	r.ranges = append(r.ranges, sheetRange)
	r.rows = append(r.rows, values)
	return nil
}

func (r *recordingRepo) ReadColumn(_ context.Context, columnRange string) ([]string, error) {
	if r.readErr != nil {
		return nil, r.readErr
	}
	sheet, _, _ := strings.Cut(columnRange, "!")
	var ids []string
	for i, row := range r.rows {
		if strings.HasPrefix(r.ranges[i], sheet+"!") {
			ids = append(ids, fmt.Sprint(row[1]))
		}
	}
	return ids, nil
}

func TestExportSaleWritesRow(t *testing.T) {
	repo := &recordingRepo{}
	keeper := NewBookkeeper(repo)

	sale := models.SaleRecord{
		SaleID:                        "sale-1",
		SaleDate:                      time.Date(2024, 4, 2, 10, 0, 0, 0, time.UTC),
		Items:                         []models.SaleItem{{ItemName: "Eucalyptus"}, {ItemName: "Potting mix"}},
		SubtotalBeforeOverallDiscount: 31.98,
		TotalAmount:                   31.98,
		PaymentDetails:                models.PaymentDetails{AmountTendered: 20},
		Underpayment:                  &models.UnderpaymentWarning{Shortfall: 11.98},
	}
	require.NoError(t, keeper.ExportSale(context.Background(), sale))

	require.Len(t, repo.rows, 1)
	assert.Equal(t, salesRange, repo.ranges[0])
	assert.Equal(t, []interface{}{"2024-04-02", "sale-1", "Walk-in", "Eucalyptus, Potting mix", 31.98, 0.0, 31.98, 20.0, "UNDERPAID"}, repo.rows[0])
}

func TestExportAdjustmentWritesRow(t *testing.T) {
	repo := &recordingRepo{}
	keeper := NewBookkeeper(repo)

	adj := models.InventoryAdjustment{
		AdjustmentID:   "adj-1",
		PlantBatchID:   "2024-ASC-EUC-001",
		AdjustmentType: models.AdjustLossPest,
		Quantity:       4,
		Reason:         "aphids",
		AdjustedAt:     time.Date(2024, 4, 3, 0, 0, 0, 0, time.UTC),
	}
	require.NoError(t, keeper.ExportAdjustment(context.Background(), adj))
	assert.Equal(t, adjustmentsRange, repo.ranges[0])
	assert.Equal(t, []interface{}{"2024-04-03", "adj-1", "2024-ASC-EUC-001", "LOSS_PEST", 4, "aphids"}, repo.rows[0])
}

func TestExportSkipsRecordsAlreadyInSheet(t *testing.T) {
	repo := &recordingRepo{}
	keeper := NewBookkeeper(repo)
	ctx := context.Background()

	sale := models.SaleRecord{SaleID: "sale-1", SaleDate: time.Date(2024, 4, 2, 0, 0, 0, 0, time.UTC)}
	adj := models.InventoryAdjustment{AdjustmentID: "sale-1", AdjustmentType: models.AdjustFoundStock, Quantity: 1}

	require.NoError(t, keeper.ExportSale(ctx, sale))
	require.NoError(t, keeper.ExportSale(ctx, sale))
	require.NoError(t, keeper.ExportAdjustment(ctx, adj))

	require.Len(t, repo.rows, 2)
	assert.Equal(t, []string{salesRange, adjustmentsRange}, repo.ranges)
}

func TestExportFailsWhenIDsUnreadable(t *testing.T) {
	repo := &recordingRepo{readErr: errors.New("quota exceeded")}
	keeper := NewBookkeeper(repo)

	err := keeper.ExportSale(context.Background(), models.SaleRecord{SaleID: "sale-1"})
	require.Error(t, err)
	assert.Empty(t, repo.rows)
}
