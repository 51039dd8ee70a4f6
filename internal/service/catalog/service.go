package catalog

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/repository/store"
)

// Service manages the reference records sales and batches point at.
type Service struct {
	store  store.Store
	logger *zap.Logger
	now    func() time.Time
}

// NewService wires a catalog service.
func NewService(st store.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{store: st, logger: logger, now: time.Now}
}

// CreatePlant registers a plant variety.
func (s *Service) CreatePlant(ctx context.Context, p models.Plant) (*models.Plant, error) {
	p.PlantID = newID(p.PlantID)
	p.CommonName = strings.TrimSpace(p.CommonName)
	p.VarietyCode = strings.ToUpper(strings.TrimSpace(p.VarietyCode))
	p.CreatedAt = s.now()
	if err := s.save(ctx, store.Plants, p.PlantID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPlants returns every plant.
func (s *Service) ListPlants(ctx context.Context) ([]models.Plant, error) {
	return store.List[models.Plant](ctx, s.store, store.Plants, nil)
}

// CreateCustomer registers a customer.
func (s *Service) CreateCustomer(ctx context.Context, c models.Customer) (*models.Customer, error) {
	c.CustomerID = newID(c.CustomerID)
	c.Name = strings.TrimSpace(c.Name)
	c.Email = strings.TrimSpace(c.Email)
	c.CreatedAt = s.now()
	if err := s.save(ctx, store.Customers, c.CustomerID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListCustomers returns every customer.
func (s *Service) ListCustomers(ctx context.Context) ([]models.Customer, error) {
	return store.List[models.Customer](ctx, s.store, store.Customers, nil)
}

// GetCustomer loads one customer.
func (s *Service) GetCustomer(ctx context.Context, id string) (*models.Customer, error) {
	return store.Load[models.Customer](ctx, s.store, store.Customers, id)
}

// CreateProduct registers a product or service. New entries are active.
func (s *Service) CreateProduct(ctx context.Context, p models.ProductOrService) (*models.ProductOrService, error) {
	p.ProductID = newID(p.ProductID)
	p.Name = strings.TrimSpace(p.Name)
	p.Active = true
	p.CreatedAt = s.now()
	if err := s.save(ctx, store.Products, p.ProductID, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// ListProducts returns products, optionally only the active ones.
func (s *Service) ListProducts(ctx context.Context, activeOnly bool) ([]models.ProductOrService, error) {
	var filter store.Filter
	if activeOnly {
		filter = store.Filter{"active": true}
	}
	return store.List[models.ProductOrService](ctx, s.store, store.Products, filter)
}

// CreateChemical registers a treatment product. A referenced supplier must exist.
func (s *Service) CreateChemical(ctx context.Context, c models.Chemical) (*models.Chemical, error) {
	c.ChemicalID = newID(c.ChemicalID)
	c.Name = strings.TrimSpace(c.Name)
	c.CreatedAt = s.now()
	if err := models.Validate(c); err != nil {
		return nil, err
	}
	if c.SupplierID != "" {
		if _, err := store.Load[models.Supplier](ctx, s.store, store.Suppliers, c.SupplierID); err != nil {
			return nil, err
		}
	}
	if err := s.save(ctx, store.Chemicals, c.ChemicalID, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

// ListChemicals returns every chemical.
func (s *Service) ListChemicals(ctx context.Context) ([]models.Chemical, error) {
	return store.List[models.Chemical](ctx, s.store, store.Chemicals, nil)
}

// CreateSupplier registers a supplier. Supplier codes are unique.
func (s *Service) CreateSupplier(ctx context.Context, sup models.Supplier) (*models.Supplier, error) {
	sup.SupplierID = newID(sup.SupplierID)
	sup.Name = strings.TrimSpace(sup.Name)
	sup.SupplierCode = strings.ToUpper(strings.TrimSpace(sup.SupplierCode))
	sup.CreatedAt = s.now()
	if err := models.Validate(sup); err != nil {
		return nil, err
	}

	err := s.store.RunTransaction(ctx, func(ctx context.Context, tx store.Store) error {
		clash, err := store.List[models.Supplier](ctx, tx, store.Suppliers, store.Filter{"supplierCode": sup.SupplierCode})
		if err != nil {
			return fmt.Errorf("check supplier code: %w", err)
		}
		if len(clash) > 0 {
			return models.Invalid("supplierCode", fmt.Sprintf("%s is already used by %s", sup.SupplierCode, clash[0].Name))
		}
		return tx.Set(ctx, store.Suppliers, sup.SupplierID, &sup)
	})
	if err != nil {
		return nil, err
	}
	s.logger.Info("supplier created", zap.String("supplier_code", sup.SupplierCode))
	return &sup, nil
}

// ListSuppliers returns every supplier.
func (s *Service) ListSuppliers(ctx context.Context) ([]models.Supplier, error) {
	return store.List[models.Supplier](ctx, s.store, store.Suppliers, nil)
}

func (s *Service) save(ctx context.Context, collection, id string, doc any) error {
	if err := models.Validate(doc); err != nil {
		return err
	}
	if err := s.store.Set(ctx, collection, id, doc); err != nil {
		return fmt.Errorf("save %s %s: %w", collection, id, err)
	}
	s.logger.Debug("catalog record saved", zap.String("collection", collection), zap.String("id", id))
	return nil
}

func newID(id string) string {
	if id = strings.TrimSpace(id); id != "" {
		return id
	}
	return uuid.NewString()
}
