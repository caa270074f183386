package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// TriggerPoll
// @Summary TriggerPoll
// @Description Runs an order poll cycle now. Returns 409 while a cycle is already running.
// @ID trigger-poll
// @Tags sync
// @Produce json
// @Success 200 {object} service.PollResult
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/poll [post]
func (h *Handler) TriggerPoll(c *gin.Context) {
	res, err := h.svc.RunPollCycle(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// TriggerSync
// @Summary TriggerSync
// @Description Pushes pending orders to Books now. Returns 409 while a cycle is already running.
// @ID trigger-sync
// @Tags sync
// @Produce json
// @Success 200 {object} service.SyncResult
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/sync [post]
func (h *Handler) TriggerSync(c *gin.Context) {
	res, err := h.svc.RunSyncCycle(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// TriggerInventorySync
// @Summary TriggerInventorySync
// @Description Reconciles the whole OMS catalogue against Books stock
// @ID trigger-inventory-sync
// @Tags sync
// @Produce json
// @Success 200 {object} service.InventoryResult
// @Failure 409 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/inventory/sync [post]
func (h *Handler) TriggerInventorySync(c *gin.Context) {
	res, err := h.svc.RunInventorySync(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, res)
}

// Status
// @Summary Status
// @Description Token state of both remote APIs and which cycles are running
// @ID status
// @Tags sync
// @Produce json
// @Success 200 {object} service.Status
// @Failure 500 {object} errorResponse
// @Router /api/status [get]
func (h *Handler) Status(c *gin.Context) {
	st, err := h.svc.Status(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, st)
}
