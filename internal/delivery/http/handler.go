package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	_ "oms-books-sync/docs"
	"oms-books-sync/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

type Handler struct {
	svc service.Sync
}

func NewHandler(s service.Sync) *Handler {
	return &Handler{svc: s}
}

func (h *Handler) InitRoutes() *gin.Engine {
	router := gin.Default()

	hooks := router.Group("/webhooks/books")
	{
		hooks.POST("", h.StockWebhook)
		hooks.POST("/test", h.TestWebhook)
		hooks.POST("/shipment", h.ShipmentWebhook)
	}

	api := router.Group("/api")
	{
		api.POST("/location-mappings", h.UpsertLocationMapping)
		api.GET("/location-mappings", h.ListLocationMappings)
		api.GET("/location-mappings/:booksLocationId", h.GetLocationMapping)
		api.GET("/oms/locations", h.ListOMSLocations)

		api.POST("/poll", h.TriggerPoll)
		api.POST("/sync", h.TriggerSync)
		api.POST("/inventory/sync", h.TriggerInventorySync)
		api.GET("/status", h.Status)

		api.GET("/orders", h.ListOrders)
		api.GET("/orders/:id", h.GetOrder)
		api.POST("/orders/:id/retry", h.RetryOrder)
	}

	router.NoRoute(func(c *gin.Context) {
		if strings.HasPrefix(c.Request.URL.Path, "/api/") || strings.HasPrefix(c.Request.URL.Path, "/webhooks/") {
			c.JSON(http.StatusNotFound, gin.H{"message": "not found"})
			return
		}
		c.JSON(http.StatusNotFound, gin.H{"message": "no such route"})
	})

	router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return router
}
