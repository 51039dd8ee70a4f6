package sheets

import (
	"context"
	"slices"
	"strings"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
)

const (
	salesRange          = "Sales!A:I"
	salesIDColumn       = "Sales!B:B"
	adjustmentsRange    = "Adjustments!A:F"
	adjustmentsIDColumn = "Adjustments!B:B"
	dateFormat          = "2006-01-02"
)

// Bookkeeper mirrors sales and inventory adjustments into the nursery's
// accounting spreadsheet, one row per record. Column B holds the record id;
// a record already listed there is not written again.
type Bookkeeper struct {
	repo Repository
}

// NewBookkeeper wraps a sheet repository.
func NewBookkeeper(repo Repository) *Bookkeeper {
	return &Bookkeeper{repo: repo}
}

// ExportSale appends a sale row.
func (b *Bookkeeper) ExportSale(ctx context.Context, sale models.SaleRecord) error {
	return b.appendOnce(ctx, salesIDColumn, salesRange, sale.SaleID, SaleRow(sale))
}

// ExportAdjustment appends an adjustment row.
func (b *Bookkeeper) ExportAdjustment(ctx context.Context, adj models.InventoryAdjustment) error {
	return b.appendOnce(ctx, adjustmentsIDColumn, adjustmentsRange, adj.AdjustmentID, AdjustmentRow(adj))
}

func (b *Bookkeeper) appendOnce(ctx context.Context, idColumn, sheetRange, id string, row []interface{}) error {
	ids, err := b.repo.ReadColumn(ctx, idColumn)
	if err != nil {
		return err
	}
	if slices.Contains(ids, id) {
		return nil
	}
	return b.repo.AppendRow(ctx, sheetRange, row)
}

// SaleRow renders a sale as spreadsheet cells.
func SaleRow(sale models.SaleRecord) []interface{} {
	customer := "Walk-in"
	if sale.CustomerID != nil {
		customer = *sale.CustomerID
	}
	names := make([]string, 0, len(sale.Items))
	for _, item := range sale.Items {
		names = append(names, item.ItemName)
	}
	underpaid := ""
	if sale.Underpayment != nil {
		underpaid = "UNDERPAID"
	}
	return []interface{}{
		sale.SaleDate.Format(dateFormat),
		sale.SaleID,
		customer,
		strings.Join(names, ", "),
		sale.SubtotalBeforeOverallDiscount,
		sale.OverallSaleDiscount,
		sale.TotalAmount,
		sale.PaymentDetails.AmountTendered,
		underpaid,
	}
}

// AdjustmentRow renders an adjustment as spreadsheet cells.
func AdjustmentRow(adj models.InventoryAdjustment) []interface{} {
	return []interface{}{
		adj.AdjustedAt.Format(dateFormat),
		adj.AdjustmentID,
		adj.PlantBatchID,
		string(adj.AdjustmentType),
		adj.Quantity,
		adj.Reason,
	}
}
