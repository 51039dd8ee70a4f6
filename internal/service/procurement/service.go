package procurement

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/pricing"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

// Service handles purchase orders and the goods received against them.
type Service struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a procurement service.
func NewService(st store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger, now: time.Now}
}

// CreatePurchaseOrder prices and stores an order with an existing supplier.
func (s *Service) CreatePurchaseOrder(ctx context.Context, in models.PurchaseOrderInput) (*models.PurchaseOrder, error) {
	po, err := models.NewPurchaseOrder(uuid.NewString(), in, s.now())
	if err != nil {
		return nil, err
	}
	if err := pricing.PricePurchaseOrder(po); err != nil {
		return nil, err
	}

	err = s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		if _, err := store.Load[models.Supplier](ctx, tx, store.Suppliers, po.SupplierID); err != nil {
			return err
		}
		if err := tx.Set(ctx, store.PurchaseOrders, po.PurchaseOrderID, po); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("purchase order created",
		zap.String("purchase_order_id", po.PurchaseOrderID),
		zap.String("supplier_id", po.SupplierID),
		zap.Float64("total", po.TotalAmount),
	)
	return po, nil
}

// GetPurchaseOrder loads one purchase order.
func (s *Service) GetPurchaseOrder(ctx context.Context, id string) (*models.PurchaseOrder, error) {
	return store.Load[models.PurchaseOrder](ctx, s.store, store.PurchaseOrders, strings.TrimSpace(id))
}

// ListPurchaseOrders returns orders, optionally filtered by status.
func (s *Service) ListPurchaseOrders(ctx context.Context, status models.PurchaseOrderStatus) ([]models.PurchaseOrder, error) {
	var filter store.Filter
	if status != "" {
		filter = store.Filter{"status": status}
	}
	return store.List[models.PurchaseOrder](ctx, s.store, store.PurchaseOrders, filter)
}

// ReceiveGoods logs a delivery and advances the order's receipt status.
func (s *Service) ReceiveGoods(ctx context.Context, purchaseOrderID string, in models.IncomingGoodsInput) (*models.IncomingGoodsLog, *models.PurchaseOrder, error) {
	if err := models.Validate(in); err != nil {
		return nil, nil, err
	}
	received := s.now()
	if in.ReceivedDate != nil && !in.ReceivedDate.IsZero() {
		received = *in.ReceivedDate
	}
	entry := &models.IncomingGoodsLog{
		LogID:           uuid.NewString(),
		PurchaseOrderID: strings.TrimSpace(purchaseOrderID),
		ReceivedDate:    received,
		ReceivedBy:      strings.TrimSpace(in.ReceivedBy),
		Lines:           in.Lines,
		Notes:           in.Notes,
	}

	var po *models.PurchaseOrder
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		var err error
		po, err = store.Load[models.PurchaseOrder](ctx, tx, store.PurchaseOrders, entry.PurchaseOrderID)
		if err != nil {
			return err
		}
		if err := po.ApplyReceipt(entry.Lines); err != nil {
			return err
		}
		if err := tx.Set(ctx, store.PurchaseOrders, po.PurchaseOrderID, po); err != nil {
			return fmt.Errorf("save purchase order: %w", err)
		}
		if err := tx.Set(ctx, store.IncomingGoods, entry.LogID, entry); err != nil {
			return fmt.Errorf("save incoming goods log: %w", err)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}

	s.logger.Info("goods received",
		zap.String("purchase_order_id", po.PurchaseOrderID),
		zap.String("status", string(po.Status)),
		zap.Int("lines", len(entry.Lines)),
	)
	return entry, po, nil
}

// Cancel marks an order cancelled. Orders with received goods cannot be cancelled.
func (s *Service) Cancel(ctx context.Context, purchaseOrderID string) (*models.PurchaseOrder, error) {
	var po *models.PurchaseOrder
	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		var err error
		po, err = store.Load[models.PurchaseOrder](ctx, tx, store.PurchaseOrders, strings.TrimSpace(purchaseOrderID))
		if err != nil {
			return err
		}
		if po.Status != models.POStatusOrdered {
			return models.Invalid("status", fmt.Sprintf("purchase order %s is %s", po.PurchaseOrderID, po.Status))
		}
		po.Status = models.POStatusCancelled
		return tx.Set(ctx, store.PurchaseOrders, po.PurchaseOrderID, po)
	})
	if err != nil {
		return nil, err
	}
	return po, nil
}
