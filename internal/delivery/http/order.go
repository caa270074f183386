package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"oms-books-sync/internal/models"
)

const defaultListLimit = 100

type listOrdersResponse struct {
	Data []models.Order `json:"data"`
}

// GetOrder
// @Summary GetOrder
// @Description Returns a stored order with its sync state
// @ID get-order
// @Tags orders
// @Produce json
// @Param id path string true "OMS order id"
// @Success 200 {object} models.Order
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id} [get]
func (h *Handler) GetOrder(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing id")
		return
	}

	order, err := h.svc.GetOrder(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, order)
}

// ListOrders
// @Summary ListOrders
// @Description Lists stored orders, optionally filtered by sync status
// @ID list-orders
// @Tags orders
// @Produce json
// @Param status query string false "pending, synced or failed"
// @Param limit query int false "max rows" default(100)
// @Success 200 {object} listOrdersResponse
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders [get]
func (h *Handler) ListOrders(c *gin.Context) {
	limit := defaultListLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			newErrorResponse(c, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	orders, err := h.svc.ListOrders(models.SyncStatus(strings.TrimSpace(c.Query("status"))), limit)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOrdersResponse{Data: orders})
}

// RetryOrder
// @Summary RetryOrder
// @Description Puts a failed order back into the sync queue with a fresh retry budget
// @ID retry-order
// @Tags orders
// @Produce json
// @Param id path string true "OMS order id"
// @Success 200 {object} statusResponse
// @Failure 400,404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/orders/{id}/retry [post]
func (h *Handler) RetryOrder(c *gin.Context) {
	if err := h.svc.RetryOrder(strings.TrimSpace(c.Param("id"))); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, statusResponse{Status: "pending"})
}
