// internal/handlers/analytics.go
package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type AnalyticsHandler struct {
	analyticsService *services.AnalyticsService
}

func NewAnalyticsHandler(analyticsService *services.AnalyticsService) *AnalyticsHandler {
	return &AnalyticsHandler{analyticsService: analyticsService}
}

// POST /analytics/track
func (h *AnalyticsHandler) TrackClick(c *gin.Context) {
	var req services.TrackClickRequest
	if !bindJSON(c, &req) {
		return
	}

	if err := h.analyticsService.TrackClick(c.Request.Context(), &req); err != nil {
		utils.ServerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// POST /analytics/pageview
func (h *AnalyticsHandler) TrackPageView(c *gin.Context) {
	var req services.PageViewRequest
	if !bindJSON(c, &req) {
		return
	}

	err := h.analyticsService.TrackPageView(c.Request.Context(), &req, c.Request.UserAgent())
	switch {
	case err == nil:
	case errors.Is(err, services.ErrCounterFailed):
		logrus.WithError(err).Warn("Page view stored without counter update")
	default:
		utils.ServerError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

// GET /admin/analytics?days=
func (h *AnalyticsHandler) GetSummary(c *gin.Context) {
	days, _ := strconv.Atoi(c.DefaultQuery("days", "7"))

	summary, err := h.analyticsService.Summary(c.Request.Context(), days)
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.SuccessResponse(c, summary)
}
