package routes

import (
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/sangkips/scanpay/internal/config"
	"github.com/sangkips/scanpay/internal/presentation/http/handler"
	"github.com/sangkips/scanpay/internal/presentation/http/middleware"
)

// Handlers holds all the HTTP handlers used for route registration.
type Handlers struct {
	Catalog *handler.CatalogHandler
	Scan    *handler.ScanHandler
	Payment *handler.PaymentHandler
	History *handler.HistoryHandler
	Printer *handler.PrinterHandler
}

// Deps holds shared dependencies needed by the routes.
type Deps struct {
	Cfg         *config.Config
	Log         *zap.Logger
	RateLimiter *middleware.ClientRateLimiter
}

// Setup creates the Gin router and registers all routes.
func Setup(h *Handlers, deps *Deps) *gin.Engine {
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggerMiddleware(deps.Log))
	router.Use(middleware.CORSMiddleware(&deps.Cfg.CORS))

	router.GET("/health", handler.Health(deps.Cfg.App.Name, deps.Cfg.Store.Driver))

	v1 := router.Group("/api/v1")
	if deps.RateLimiter != nil {
		v1.Use(deps.RateLimiter.Middleware())
	}
	{
		registerCatalogRoutes(v1, h)
		registerScanRoutes(v1, h)
		registerPaymentRoutes(v1, h)
		registerHistoryRoutes(v1, h)
		registerPrinterRoutes(v1, h)
	}

	return router
}

func registerCatalogRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.GET("/products", h.Catalog.Home)
	rg.GET("/store-map", h.Catalog.StoreMap)
}

func registerScanRoutes(rg *gin.RouterGroup, h *Handlers) {
	scan := rg.Group("/scan")
	{
		scan.POST("", h.Scan.Scan)
		scan.POST("/reset", h.Scan.Reset)
		scan.GET("/state", h.Scan.State)
	}
}

func registerPaymentRoutes(rg *gin.RouterGroup, h *Handlers) {
	rg.POST("/payments", h.Payment.Submit)
}

func registerHistoryRoutes(rg *gin.RouterGroup, h *Handlers) {
	history := rg.Group("/history")
	{
		history.GET("", h.History.List)
		history.DELETE("", h.History.Clear)
		history.GET("/export", h.History.Export)
		history.GET("/server", h.History.Server)
	}
}

func registerPrinterRoutes(rg *gin.RouterGroup, h *Handlers) {
	printer := rg.Group("/printer")
	{
		printer.GET("/status", h.Printer.GetStatus)
		printer.POST("/receipts/:index", h.Printer.PrintReceipt)
	}
}
