package http

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"oms-books-sync/internal/clients/oms"
	"oms-books-sync/internal/models"
)

type listMappingsResponse struct {
	Data []models.LocationMapping `json:"data"`
}

type listOMSLocationsResponse struct {
	Data []oms.StockLocation `json:"data"`
}

// UpsertLocationMapping
// @Summary UpsertLocationMapping
// @Description Binds a Books warehouse to an OMS stock location, replacing any previous binding
// @ID upsert-location-mapping
// @Tags locations
// @Accept json
// @Produce json
// @Param mapping body models.LocationMapping true "mapping"
// @Success 200 {object} models.LocationMapping
// @Failure 400 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/location-mappings [post]
func (h *Handler) UpsertLocationMapping(c *gin.Context) {
	var m models.LocationMapping
	if err := c.ShouldBindJSON(&m); err != nil {
		newErrorResponse(c, http.StatusBadRequest, "invalid mapping: "+err.Error())
		return
	}
	saved, err := h.svc.UpsertLocationMapping(m)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, saved)
}

// ListLocationMappings
// @Summary ListLocationMappings
// @ID list-location-mappings
// @Tags locations
// @Produce json
// @Success 200 {object} listMappingsResponse
// @Failure 500 {object} errorResponse
// @Router /api/location-mappings [get]
func (h *Handler) ListLocationMappings(c *gin.Context) {
	list, err := h.svc.ListLocationMappings()
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listMappingsResponse{Data: list})
}

// GetLocationMapping
// @Summary GetLocationMapping
// @ID get-location-mapping
// @Tags locations
// @Produce json
// @Param booksLocationId path string true "Books warehouse id"
// @Success 200 {object} models.LocationMapping
// @Failure 404 {object} errorResponse
// @Failure 500 {object} errorResponse
// @Router /api/location-mappings/{booksLocationId} [get]
func (h *Handler) GetLocationMapping(c *gin.Context) {
	id := strings.TrimSpace(c.Param("booksLocationId"))
	if id == "" {
		newErrorResponse(c, http.StatusBadRequest, "missing booksLocationId")
		return
	}
	m, err := h.svc.GetLocationMapping(id)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, m)
}

// ListOMSLocations
// @Summary ListOMSLocations
// @Description Lists the OMS stock locations available as mapping targets
// @ID list-oms-locations
// @Tags locations
// @Produce json
// @Success 200 {object} listOMSLocationsResponse
// @Failure 500 {object} errorResponse
// @Router /api/oms/locations [get]
func (h *Handler) ListOMSLocations(c *gin.Context) {
	locs, err := h.svc.ListOMSLocations(c.Request.Context())
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, listOMSLocationsResponse{Data: locs})
}
