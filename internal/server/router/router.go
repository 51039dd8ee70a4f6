package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/taffyrocks/wg-nursery-system-sub000/internal/server/handlers"
)

// Handlers groups the HTTP adapters mounted on the engine. Webhook is nil
// when WhatsApp is not configured.
type Handlers struct {
	Batches     *handlers.BatchHandler
	Sales       *handlers.SaleHandler
	Catalog     *handlers.CatalogHandler
	Procurement *handlers.ProcurementHandler
	Reports     *handlers.ReportHandler
	Webhook     *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	}

	api := r.Group("/api")

	batches := api.Group("/batches")
	batches.POST("", h.Batches.Create)
	batches.GET("", h.Batches.List)
	batches.GET("/:id", h.Batches.Get)
	batches.POST("/:id/germination", h.Batches.Germination)
	batches.POST("/:id/planting", h.Batches.Planting)
	batches.POST("/:id/status", h.Batches.Status)
	batches.POST("/:id/archive", h.Batches.Archive)
	batches.POST("/:id/adjustments", h.Batches.Adjust)
	batches.POST("/:id/chemical-applications", h.Batches.ChemicalApplication)
	batches.GET("/:id/inspections", h.Batches.Inspections)
	api.POST("/inspections", h.Batches.RecordInspection)

	sales := api.Group("/sales")
	sales.POST("", h.Sales.Create)
	sales.GET("", h.Sales.List)
	sales.GET("/:id", h.Sales.Get)
	sales.POST("/:id/invoice", h.Sales.Invoice)

	api.POST("/plants", h.Catalog.CreatePlant)
	api.GET("/plants", h.Catalog.ListPlants)
	api.POST("/customers", h.Catalog.CreateCustomer)
	api.GET("/customers", h.Catalog.ListCustomers)
	api.POST("/products", h.Catalog.CreateProduct)
	api.GET("/products", h.Catalog.ListProducts)
	api.POST("/chemicals", h.Catalog.CreateChemical)
	api.GET("/chemicals", h.Catalog.ListChemicals)
	api.POST("/suppliers", h.Catalog.CreateSupplier)
	api.GET("/suppliers", h.Catalog.ListSuppliers)

	orders := api.Group("/purchase-orders")
	orders.POST("", h.Procurement.Create)
	orders.GET("", h.Procurement.List)
	orders.GET("/:id", h.Procurement.Get)
	orders.POST("/:id/receive", h.Procurement.Receive)
	orders.POST("/:id/cancel", h.Procurement.Cancel)

	api.GET("/reports/inventory", h.Reports.Inventory)
	api.GET("/reports/sales", h.Reports.Sales)

	if logger != nil {
		logger.Info("router initialized", zap.Bool("webhook", h.Webhook != nil))
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
