package http

import (
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"oms-books-sync/internal/service"
)

// StockWebhook
// @Summary StockWebhook
// @Description Receives a Books inventory event and pushes the resulting stock levels to the OMS
// @ID books-stock-webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param payload body object true "event keyed by resource type"
// @Success 200 {object} service.WebhookResult
// @Failure 400 {object} errorResponse
// @Failure 500 {object} service.WebhookResult
// @Router /webhooks/books [post]
func (h *Handler) StockWebhook(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, "read body: "+err.Error())
		return
	}
	payload, err := service.DecodeWebhookPayload(body)
	if err != nil {
		newErrorResponse(c, http.StatusBadRequest, err.Error())
		return
	}

	res, err := h.svc.HandleStockWebhook(c.Request.Context(), payload)
	if err != nil {
		logrus.WithError(err).Warn("stock webhook failed")
		c.JSON(http.StatusInternalServerError, res)
		return
	}
	c.JSON(http.StatusOK, res)
}

type testWebhookResponse struct {
	Success   bool      `json:"success"`
	Message   string    `json:"message"`
	Timestamp time.Time `json:"timestamp"`
	Received  any       `json:"received,omitempty"`
}

// TestWebhook
// @Summary TestWebhook
// @Description Echoes the request so the webhook configuration on the Books side can be checked
// @ID books-test-webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 {object} testWebhookResponse
// @Router /webhooks/books/test [post]
func (h *Handler) TestWebhook(c *gin.Context) {
	var received any
	_ = c.ShouldBindJSON(&received)
	c.JSON(http.StatusOK, testWebhookResponse{
		Success:   true,
		Message:   "webhook endpoint reachable",
		Timestamp: time.Now().UTC(),
		Received:  received,
	})
}

// ShipmentWebhook
// @Summary ShipmentWebhook
// @Description Mirrors a Books shipment onto the OMS order: sets tracking, then processes the order
// @ID books-shipment-webhook
// @Tags webhooks
// @Accept json
// @Produce json
// @Param payload body service.ShipmentNotification true "shipment notification"
// @Success 200 {object} service.ShipmentResult
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /webhooks/books/shipment [post]
func (h *Handler) ShipmentWebhook(c *gin.Context) {
	var n service.ShipmentNotification
	if err := c.ShouldBindJSON(&n); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid shipment payload: "+err.Error())
		return
	}

	res, err := h.svc.HandleShipment(c.Request.Context(), n)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}
