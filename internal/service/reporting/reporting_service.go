package reporting

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

const (
	dateLayout       = "2006-01-02"
	defaultThreshold = 10
)

// Service exposes lightweight analytics for WhatsApp summaries and the API.
type Service struct {
	store     store.Store
	threshold int
	location  *time.Location
	logger    *zap.Logger
}

// NewService wires a new reporting service instance. Batches at or below
// lowStockThreshold plants are reported as low stock.
func NewService(st store.Store, lowStockThreshold int, location *time.Location, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if lowStockThreshold <= 0 {
		lowStockThreshold = defaultThreshold
	}
	if location == nil {
		location = time.UTC
	}
	return &Service{store: st, threshold: lowStockThreshold, location: location, logger: logger}
}

// InventorySummary aggregates on-hand stock across batches that are not archived.
func (s *Service) InventorySummary(ctx context.Context) (*models.InventorySummary, error) {
	batches, err := store.List[models.PlantBatch](ctx, s.store, store.Batches, nil)
	if err != nil {
		return nil, fmt.Errorf("load batches: %w", err)
	}

	summary := &models.InventorySummary{
		BatchesByStatus: make(map[models.BatchStatus]int),
		LowStock:        []models.PlantBatch{},
		Threshold:       s.threshold,
	}
	for _, b := range batches {
		summary.BatchesByStatus[b.Status]++
		if b.Status == models.StatusArchived {
			continue
		}
		if b.CurrentInventory > 0 {
			summary.TotalOnHand += b.CurrentInventory
		}
		if isLowStock(b, s.threshold) {
			summary.LowStock = append(summary.LowStock, b)
		}
	}
	return summary, nil
}

// isLowStock flags batches that had plants but are running out. Sold-out and
// not-yet-germinated batches are excluded.
func isLowStock(b models.PlantBatch, threshold int) bool {
	if b.Status == models.StatusSoldOut || b.TotalSuccessfullyGerminated <= 0 {
		return false
	}
	return b.CurrentInventory <= threshold
}

// SalesSummary aggregates the sales dated within [from, to).
func (s *Service) SalesSummary(ctx context.Context, from, to time.Time) (*models.SalesSummary, error) {
	if !to.After(from) {
		return nil, models.Invalid("to", fmt.Sprintf("must be after %s", from.Format(dateLayout)))
	}
	sales, err := store.List[models.SaleRecord](ctx, s.store, store.Orders, nil)
	if err != nil {
		return nil, fmt.Errorf("load sales: %w", err)
	}

	revenue := decimal.Zero
	discounts := decimal.Zero
	unpaid := decimal.Zero
	summary := &models.SalesSummary{From: from, To: to}
	for _, sale := range sales {
		if sale.SaleDate.Before(from) || !sale.SaleDate.Before(to) {
			continue
		}
		summary.SalesCount++
		revenue = revenue.Add(decimal.NewFromFloat(sale.TotalAmount))
		discounts = discounts.Add(decimal.NewFromFloat(sale.OverallSaleDiscount))
		for _, item := range sale.Items {
			discounts = discounts.Add(decimal.NewFromFloat(item.ItemDiscount))
			if item.ItemType == models.ItemPlantBatch {
				summary.PlantsSold += item.Quantity
			}
		}
		if sale.Underpayment != nil {
			summary.UnderpaidSales++
			unpaid = unpaid.Add(decimal.NewFromFloat(sale.Underpayment.Shortfall))
		}
	}
	summary.Revenue = revenue.Round(2).InexactFloat64()
	summary.Discounts = discounts.Round(2).InexactFloat64()
	summary.UnpaidBalance = unpaid.Round(2).InexactFloat64()
	return summary, nil
}

// SaveDailySnapshot stores the figures of the calendar day containing day.
// Running it twice for the same day replaces the earlier snapshot.
func (s *Service) SaveDailySnapshot(ctx context.Context, day time.Time) (*models.DailyReport, error) {
	local := day.In(s.location)
	start := time.Date(local.Year(), local.Month(), local.Day(), 0, 0, 0, 0, s.location)
	end := start.AddDate(0, 0, 1)

	sales, err := s.SalesSummary(ctx, start, end)
	if err != nil {
		return nil, err
	}
	inventory, err := s.InventorySummary(ctx)
	if err != nil {
		return nil, err
	}

	report := &models.DailyReport{
		ReportID:        "daily-" + start.Format(dateLayout),
		Date:            start,
		SalesCount:      sales.SalesCount,
		Revenue:         sales.Revenue,
		Discounts:       sales.Discounts,
		UnpaidBalance:   sales.UnpaidBalance,
		PlantsSold:      sales.PlantsSold,
		PlantsOnHand:    inventory.TotalOnHand,
		LowStockBatches: make([]string, 0, len(inventory.LowStock)),
		CreatedAt:       time.Now(),
	}
	for status, count := range inventory.BatchesByStatus {
		if status != models.StatusArchived && status != models.StatusSoldOut {
			report.ActiveBatches += count
		}
	}
	for _, b := range inventory.LowStock {
		report.LowStockBatches = append(report.LowStockBatches, b.BatchID)
	}

	if err := s.store.Set(ctx, store.DailyReports, report.ReportID, report); err != nil {
		return nil, fmt.Errorf("save daily report: %w", err)
	}
	s.logger.Info("daily report saved", zap.String("report_id", report.ReportID), zap.Int("sales", report.SalesCount))
	return report, nil
}

// GenerateWeeklyReport formats the seven days ending at now for WhatsApp.
func (s *Service) GenerateWeeklyReport(ctx context.Context, now time.Time) (string, error) {
	end := now.In(s.location)
	start := end.AddDate(0, 0, -7)

	sales, err := s.SalesSummary(ctx, start, end)
	if err != nil {
		return "", err
	}
	inventory, err := s.InventorySummary(ctx)
	if err != nil {
		return "", err
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Nursery weekly report (%s to %s)\n", start.Format(dateLayout), end.Format(dateLayout))
	if sales.SalesCount == 0 {
		b.WriteString("Sales: none recorded.\n")
	} else {
		fmt.Fprintf(&b, "Sales: %d totalling %.2f, %d plants sold.\n", sales.SalesCount, sales.Revenue, sales.PlantsSold)
		if sales.UnderpaidSales > 0 {
			fmt.Fprintf(&b, "Underpaid: %d sales, %.2f outstanding.\n", sales.UnderpaidSales, sales.UnpaidBalance)
		}
	}
	fmt.Fprintf(&b, "Plants on hand: %d.\n", inventory.TotalOnHand)

	if len(inventory.LowStock) == 0 {
		b.WriteString("Low stock: none.")
		return b.String(), nil
	}
	sort.Slice(inventory.LowStock, func(i, j int) bool {
		return inventory.LowStock[i].CurrentInventory < inventory.LowStock[j].CurrentInventory
	})
	fmt.Fprintf(&b, "Low stock (<= %d):", inventory.Threshold)
	for _, lb := range inventory.LowStock {
		fmt.Fprintf(&b, "\n- %s: %d", lb.BatchID, lb.CurrentInventory)
	}
	return b.String(), nil
}

// BatchStock formats a one-line stock answer for a batch.
func (s *Service) BatchStock(ctx context.Context, batchID string) (string, error) {
	b, err := store.Load[models.PlantBatch](ctx, s.store, store.Batches, batchID)
	if err != nil {
		return "", err
	}
	line := fmt.Sprintf("%s: %d on hand (%s, grade %s). Sold %d, lost %d, planted out %d.",
		b.BatchID, b.CurrentInventory, b.Status, b.QualityGrade, b.QuantitySold, b.QuantityLost, b.QuantityPlantedOut)
	if b.CalculatedGerminationRate != nil {
		line += fmt.Sprintf(" Germination %.1f%%.", *b.CalculatedGerminationRate)
	}
	return line, nil
}
