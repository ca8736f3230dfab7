// internal/handlers/series.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type SeriesHandler struct {
	seriesService *services.SeriesService
}

func NewSeriesHandler(seriesService *services.SeriesService) *SeriesHandler {
	return &SeriesHandler{seriesService: seriesService}
}

// GET /series
func (h *SeriesHandler) GetSeries(c *gin.Context) {
	series, err := h.seriesService.ListSeries(c.Request.Context())
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"series": series,
	})
}

// GET /series/:slug
func (h *SeriesHandler) GetSeriesBySlug(c *gin.Context) {
	series, err := h.seriesService.GetSeriesBySlug(c.Request.Context(), c.Param("slug"))
	if err != nil {
		handleServiceError(c, err, i18n.KeySeriesNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"series": series,
	})
}

// POST /series
func (h *SeriesHandler) CreateSeries(c *gin.Context) {
	var req services.SeriesRequest
	if !bindJSON(c, &req) {
		return
	}

	series, err := h.seriesService.CreateSeries(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeySeriesNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated),
		"series":  series,
	})
}

// PUT /series/:id
func (h *SeriesHandler) UpdateSeries(c *gin.Context) {
	var req services.SeriesRequest
	if !bindJSON(c, &req) {
		return
	}

	series, err := h.seriesService.UpdateSeries(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeySeriesNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated),
		"series":  series,
	})
}

// DELETE /series/:id
func (h *SeriesHandler) DeleteSeries(c *gin.Context) {
	if err := h.seriesService.DeleteSeries(c.Request.Context(), c.Param("id")); err != nil {
		handleServiceError(c, err, i18n.KeySeriesNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyDeleted),
	})
}
