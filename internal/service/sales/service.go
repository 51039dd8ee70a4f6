package sales

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/ledger"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/pricing"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

// IdempotencyGuard deduplicates sale submissions by client key.
type IdempotencyGuard interface {
	Claim(ctx context.Context, key, saleID string) (string, bool, error)
	Release(ctx context.Context, key string) error
}

// SaleExporter mirrors committed sales to an external ledger.
type SaleExporter interface {
	ExportSale(ctx context.Context, sale models.SaleRecord) error
}

// Result is the outcome of a logged sale.
type Result struct {
	Sale         *models.SaleRecord          `json:"sale"`
	Batches      []models.PlantBatch         `json:"batches"`
	Underpayment *models.UnderpaymentWarning `json:"underpayment,omitempty"`
}

// Service logs point-of-sale transactions against batch inventory.
type Service struct {
	store    store.Store
	guard    IdempotencyGuard
	exporter SaleExporter
	logger   *zap.Logger
	now      func() time.Time
}

// Option customizes a Service.
type Option func(*Service)

// WithIdempotencyGuard enables duplicate detection for keyed sales.
func WithIdempotencyGuard(guard IdempotencyGuard) Option {
	return func(s *Service) { s.guard = guard }
}

// WithExporter mirrors committed sales through exp.
func WithExporter(exp SaleExporter) Option {
	return func(s *Service) { s.exporter = exp }
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// NewService wires a sales service.
func NewService(st store.Store, logger *zap.Logger, opts ...Option) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Service{store: st, logger: logger, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// LogSale prices the sale and deducts plant-batch lines from inventory. Every
// batch is checked before any is touched; a single short batch fails the
// whole sale and nothing is written. Underpayment is reported in the result.
func (s *Service) LogSale(ctx context.Context, in models.SaleInput) (*Result, error) {
	for i := range in.Items {
		if in.Items[i].ItemType == models.ItemPlantBatch {
			in.Items[i].ItemID = strings.ToUpper(strings.TrimSpace(in.Items[i].ItemID))
		}
	}

	sale, err := models.NewSaleRecord(uuid.NewString(), in, s.now())
	if err != nil {
		return nil, err
	}
	underpayment, err := pricing.PriceSale(sale)
	if err != nil {
		return nil, err
	}
	sale.Underpayment = underpayment

	key := strings.TrimSpace(in.IdempotencyKey)
	if key != "" && s.guard != nil {
		existing, claimed, err := s.guard.Claim(ctx, key, sale.SaleID)
		if err != nil {
			return nil, err
		}
		if !claimed {
			return nil, fmt.Errorf("idempotency key %q already used by sale %s: %w", key, existing, models.ErrDuplicateSale)
		}
	}

	batches, err := s.commit(ctx, sale, key)
	if err != nil {
		if key != "" && s.guard != nil {
			if relErr := s.guard.Release(ctx, key); relErr != nil {
				s.logger.Error("failed to release idempotency key", zap.String("key", key), zap.Error(relErr))
			}
		}
		return nil, err
	}

	fields := []zap.Field{
		zap.String("sale_id", sale.SaleID),
		zap.Int("items", len(sale.Items)),
		zap.Float64("total", sale.TotalAmount),
	}
	if underpayment != nil {
		s.logger.Warn("sale completed with underpayment", append(fields, zap.Float64("shortfall", underpayment.Shortfall))...)
	} else {
		s.logger.Info("sale logged", fields...)
	}

	if s.exporter != nil {
		if err := s.exporter.ExportSale(ctx, *sale); err != nil {
			s.logger.Error("failed to export sale", zap.String("sale_id", sale.SaleID), zap.Error(err))
		}
	}

	return &Result{Sale: sale, Batches: batches, Underpayment: underpayment}, nil
}

// commit writes the sale in one transaction. A non-empty key is recorded in
// saleKeys alongside the sale, so a replayed key fails even without Redis.
func (s *Service) commit(ctx context.Context, sale *models.SaleRecord, key string) ([]models.PlantBatch, error) {
	order, quantities := sale.BatchQuantities()
	var updated []models.PlantBatch

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		if key != "" {
			prior, err := store.Load[saleKey](ctx, tx, store.SaleKeys, key)
			switch {
			case err == nil:
				return fmt.Errorf("idempotency key %q already used by sale %s: %w", key, prior.SaleID, models.ErrDuplicateSale)
			case !errors.Is(err, models.ErrNotFound):
				return fmt.Errorf("check idempotency key: %w", err)
			}
		}

		loaded := make(map[string]*models.PlantBatch, len(order))
		for _, id := range order {
			batch, err := store.Load[models.PlantBatch](ctx, tx, store.Batches, id)
			if err != nil {
				return err
			}
			if err := ledger.CheckAvailable(batch, quantities[id]); err != nil {
				return err
			}
			loaded[id] = batch
		}

		if err := s.checkProducts(ctx, tx, sale.Items); err != nil {
			return err
		}

		for _, item := range sale.Items {
			if item.ItemType != models.ItemPlantBatch {
				continue
			}
			if err := ledger.RecordSale(loaded[item.ItemID], item.Quantity); err != nil {
				return err
			}
		}

		updated = make([]models.PlantBatch, 0, len(order))
		for _, id := range order {
			batch := loaded[id]
			batch.UpdatedAt = sale.CreatedAt
			if err := tx.Set(ctx, store.Batches, id, batch); err != nil {
				return fmt.Errorf("save batch %s: %w", id, err)
			}
			updated = append(updated, *batch)
		}

		if err := tx.Set(ctx, store.Orders, sale.SaleID, sale); err != nil {
			return fmt.Errorf("save sale: %w", err)
		}
		for i, item := range sale.Items {
			line := orderItem{
				ID:     fmt.Sprintf("%s-%d", sale.SaleID, i+1),
				SaleID: sale.SaleID,
				Line:   i + 1,
				Item:   item,
			}
			if err := tx.Set(ctx, store.OrderItems, line.ID, line); err != nil {
				return fmt.Errorf("save sale line %d: %w", i+1, err)
			}
		}
		if key != "" {
			if err := tx.Set(ctx, store.SaleKeys, key, saleKey{Key: key, SaleID: sale.SaleID, CreatedAt: sale.CreatedAt}); err != nil {
				return fmt.Errorf("save idempotency key: %w", err)
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// checkProducts ensures product and service lines reference catalog entries.
func (s *Service) checkProducts(ctx context.Context, tx store.Store, items []models.SaleItem) error {
	for _, item := range items {
		if item.ItemType == models.ItemPlantBatch {
			continue
		}
		product, err := store.Load[models.ProductOrService](ctx, tx, store.Products, item.ItemID)
		if err != nil {
			return err
		}
		if product.ItemType != item.ItemType {
			return models.Invalid("itemType", fmt.Sprintf("%s is a %s, not a %s", item.ItemID, product.ItemType, item.ItemType))
		}
	}
	return nil
}

// orderItem is the flattened sale line stored in the orderItems collection.
type orderItem struct {
	ID     string          `bson:"_id"`
	SaleID string          `bson:"saleId"`
	Line   int             `bson:"line"`
	Item   models.SaleItem `bson:"item"`
}

// saleKey binds a client idempotency key to the sale it produced.
type saleKey struct {
	Key       string    `bson:"_id"`
	SaleID    string    `bson:"saleId"`
	CreatedAt time.Time `bson:"createdAt"`
}

// GetSale loads one sale.
func (s *Service) GetSale(ctx context.Context, saleID string) (*models.SaleRecord, error) {
	return store.Load[models.SaleRecord](ctx, s.store, store.Orders, strings.TrimSpace(saleID))
}

// ListSales returns the sales dated within [from, to]. Zero bounds are open.
func (s *Service) ListSales(ctx context.Context, from, to time.Time) ([]models.SaleRecord, error) {
	all, err := store.List[models.SaleRecord](ctx, s.store, store.Orders, nil)
	if err != nil {
		return nil, fmt.Errorf("list sales: %w", err)
	}
	out := make([]models.SaleRecord, 0, len(all))
	for _, sale := range all {
		if !from.IsZero() && sale.SaleDate.Before(from) {
			continue
		}
		if !to.IsZero() && sale.SaleDate.After(to) {
			continue
		}
		out = append(out, sale)
	}
	return out, nil
}
