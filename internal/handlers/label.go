// internal/handlers/label.go
package handlers

import (
	"github.com/gin-gonic/gin"

	"github.com/javajoker/kk-storefront/internal/i18n"
	"github.com/javajoker/kk-storefront/internal/services"
	"github.com/javajoker/kk-storefront/internal/utils"
)

type LabelHandler struct {
	labelService *services.LabelService
}

func NewLabelHandler(labelService *services.LabelService) *LabelHandler {
	return &LabelHandler{labelService: labelService}
}

// GET /labels/:code
// Public lookup behind the printed QR code; every hit is recorded as a scan.
func (h *LabelHandler) ScanLabel(c *gin.Context) {
	label, err := h.labelService.Scan(c.Request.Context(), c.Param("code"), c.ClientIP(), c.Request.UserAgent())
	if err != nil {
		handleServiceError(c, err, i18n.KeyLabelNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"label": label,
	})
}

// GET /admin/labels
func (h *LabelHandler) GetLabels(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	labels, total, err := h.labelService.ListLabels(c.Request.Context(), c.Query("q"), params)
	if err != nil {
		utils.ServerError(c, err)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(labels, total, params))
}

// POST /admin/labels
func (h *LabelHandler) CreateLabel(c *gin.Context) {
	var req services.CreateLabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.labelService.CreateLabel(c.Request.Context(), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyProductNotFound)
		return
	}

	utils.CreatedResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyCreated),
		"label":   label,
	})
}

// PATCH /admin/labels/:id
func (h *LabelHandler) UpdateLabel(c *gin.Context) {
	var req services.UpdateLabelRequest
	if !bindJSON(c, &req) {
		return
	}

	label, err := h.labelService.UpdateLabel(c.Request.Context(), c.Param("id"), &req)
	if err != nil {
		handleServiceError(c, err, i18n.KeyLabelNotFound)
		return
	}

	utils.SuccessResponse(c, gin.H{
		"message": i18n.T(utils.GetLangFromContext(c), i18n.KeyUpdated),
		"label":   label,
	})
}

// GET /admin/labels/:id/scans
func (h *LabelHandler) GetLabelScans(c *gin.Context) {
	params := utils.GetPaginationParams(c)

	scans, total, err := h.labelService.ListScans(c.Request.Context(), c.Param("id"), params)
	if err != nil {
		handleServiceError(c, err, i18n.KeyLabelNotFound)
		return
	}

	utils.PaginatedResponse(c, utils.CreatePaginationResult(scans, total, params))
}
