package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/domain/models"
	"github.com/taffyrocks/wg-nursery-system-sub000/internal/service/catalog"
)

// CatalogHandler exposes plants, customers, products, chemicals and suppliers.
type CatalogHandler struct {
	svc    *catalog.Service
	logger *zap.Logger
}

// NewCatalogHandler constructs the catalog HTTP adapter.
func NewCatalogHandler(svc *catalog.Service, logger *zap.Logger) *CatalogHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CatalogHandler{svc: svc, logger: logger}
}

func (h *CatalogHandler) CreatePlant(c *gin.Context) {
	create(c, h.logger, h.svc.CreatePlant)
}

func (h *CatalogHandler) ListPlants(c *gin.Context) {
	list(c, h.logger, h.svc.ListPlants)
}

func (h *CatalogHandler) CreateCustomer(c *gin.Context) {
	create(c, h.logger, h.svc.CreateCustomer)
}

func (h *CatalogHandler) ListCustomers(c *gin.Context) {
	list(c, h.logger, h.svc.ListCustomers)
}

func (h *CatalogHandler) CreateProduct(c *gin.Context) {
	create(c, h.logger, h.svc.CreateProduct)
}

// ListProducts lists products; ?active=true hides retired ones.
func (h *CatalogHandler) ListProducts(c *gin.Context) {
	activeOnly := c.Query("active") == "true"
	list(c, h.logger, func(ctx context.Context) ([]models.ProductOrService, error) {
		return h.svc.ListProducts(ctx, activeOnly)
	})
}

func (h *CatalogHandler) CreateChemical(c *gin.Context) {
	create(c, h.logger, h.svc.CreateChemical)
}

func (h *CatalogHandler) ListChemicals(c *gin.Context) {
	list(c, h.logger, h.svc.ListChemicals)
}

func (h *CatalogHandler) CreateSupplier(c *gin.Context) {
	create(c, h.logger, h.svc.CreateSupplier)
}

func (h *CatalogHandler) ListSuppliers(c *gin.Context) {
	list(c, h.logger, h.svc.ListSuppliers)
}

func create[T any](c *gin.Context, logger *zap.Logger, fn func(context.Context, T) (*T, error)) {
	var in T
	if !bindJSON(c, &in) {
		return
	}
	out, err := fn(c.Request.Context(), in)
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusCreated, out)
}

func list[T any](c *gin.Context, logger *zap.Logger, fn func(context.Context) ([]T, error)) {
	out, err := fn(c.Request.Context())
	if err != nil {
		writeError(c, logger, err)
		return
	}
	c.JSON(http.StatusOK, out)
}
