// Package v1 wires API v1 routes.
package v1

import (
	"github.com/gin-gonic/gin"

	appctx "larder/internal/core/context"
	"larder/internal/infrastructure/http/v1/handlers"
	"larder/internal/infrastructure/http/v1/middleware"
	"larder/pkg/logger"
)

// RouterConfig holds router dependencies.
type RouterConfig struct {
	Logger    *logger.Logger
	Validator middleware.JWTValidator

	Health    *handlers.HealthHandler
	Items     *handlers.ItemHandler
	Movements *handlers.MovementHandler
	Inventory *handlers.InventoryHandler
	Reports   *handlers.ReportsHandler
	Settings  *handlers.SettingsHandler
}

// NewRouter creates the configured gin engine.
//
// Middleware order matters: Recovery catches panics from everything
// below, Trace must run before Logger so request logs carry IDs, and
// ErrorHandler renders whatever the handlers attach.
func NewRouter(cfg RouterConfig) *gin.Engine {
	router := gin.New()

	router.Use(
		middleware.Recovery(),
		middleware.Trace(),
		middleware.Logger(cfg.Logger),
		middleware.ErrorHandler(),
	)

	health := router.Group("/health")
	{
		health.GET("/live", cfg.Health.Live)
		health.GET("/ready", cfg.Health.Ready)
	}

	api := router.Group("/api/v1")
	api.Use(middleware.Auth(cfg.Validator))

	lead := middleware.RequireRole(appctx.RoleLead)

	items := api.Group("/items")
	{
		items.GET("", cfg.Items.List)
		items.POST("", cfg.Items.Create)
		items.GET("/categories", cfg.Items.Categories)
		items.GET("/:id", cfg.Items.Get)
		items.PATCH("/:id", cfg.Items.Update)
		items.DELETE("/:id", lead, cfg.Items.Deactivate)
		items.POST("/:id/reactivate", lead, cfg.Items.Reactivate)
	}

	movements := api.Group("/movements")
	{
		movements.POST("", cfg.Movements.Record)
		movements.GET("", cfg.Movements.List)
	}

	inventory := api.Group("/inventory")
	{
		inventory.GET("/day", cfg.Inventory.DayView)
		inventory.GET("/items/:id/balance", cfg.Inventory.DayBalance)
		inventory.PUT("/items/:id/days/:date", lead, cfg.Inventory.ReplaceDay)
		inventory.POST("/items/:id/reconcile", lead, cfg.Inventory.Reconcile)
		inventory.POST("/items/:id/reset", lead, cfg.Inventory.Reset)
	}

	reports := api.Group("/reports")
	{
		reports.GET("/dashboard", cfg.Reports.Dashboard)
		reports.GET("/top-outgoing", cfg.Reports.TopOutgoing)
		reports.GET("/summary", cfg.Reports.Summary)
	}

	settings := api.Group("/settings")
	{
		settings.GET("", cfg.Settings.List)
		settings.GET("/:key", cfg.Settings.Get)
		settings.PUT("/:key", lead, cfg.Settings.Set)
	}

	api.GET("/system/date", cfg.Inventory.SystemDate)

	return router
}
